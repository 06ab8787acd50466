package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

const wavHeaderSize = 44

// WriteWAV writes PCM data as a canonical 44-byte-header RIFF/WAVE file.
func WriteWAV(w io.Writer, f Format, pcm []byte) error {
	if err := f.Validate(pcm); err != nil {
		return err
	}

	var header [wavHeaderSize]byte
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+len(pcm)))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16) // PCM chunk size
	binary.LittleEndian.PutUint16(header[20:22], 1)  // PCM format
	binary.LittleEndian.PutUint16(header[22:24], uint16(f.Channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(f.SampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(f.ByteRate()))
	binary.LittleEndian.PutUint16(header[32:34], uint16(f.BytesPerFrame()))
	binary.LittleEndian.PutUint16(header[34:36], uint16(f.BitDepth))
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(len(pcm)))

	if _, err := w.Write(header[:]); err != nil {
		return err
	}
	_, err := w.Write(pcm)
	return err
}

// WriteWAVFile writes PCM to path, atomically via a temp file so an
// interrupted conversion never leaves a truncated chapter behind.
func WriteWAVFile(path string, f Format, pcm []byte) error {
	tmp := path + ".tmp"

	file, err := os.Create(tmp)
	if err != nil {
		return err
	}
	err = WriteWAV(file, f, pcm)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// ReadWAVInfo parses the header of a WAV file and returns its format and
// play time without reading the audio payload.
func ReadWAVInfo(path string) (Format, time.Duration, error) {
	file, err := os.Open(path)
	if err != nil {
		return Format{}, 0, err
	}
	defer file.Close()

	var header [wavHeaderSize]byte
	if _, err := io.ReadFull(file, header[:]); err != nil {
		return Format{}, 0, fmt.Errorf("read WAV header: %w", err)
	}

	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WAVE" {
		return Format{}, 0, errors.New("not a RIFF/WAVE file")
	}
	if string(header[36:40]) != "data" {
		return Format{}, 0, errors.New("unsupported WAV layout")
	}

	f := Format{
		Channels:   int(binary.LittleEndian.Uint16(header[22:24])),
		SampleRate: int(binary.LittleEndian.Uint32(header[24:28])),
		BitDepth:   int(binary.LittleEndian.Uint16(header[34:36])),
	}
	dataLen := int(binary.LittleEndian.Uint32(header[40:44]))
	if f.SampleRate == 0 || f.Channels == 0 || f.BitDepth == 0 {
		return Format{}, 0, errors.New("invalid WAV format fields")
	}

	return f, f.Duration(dataLen), nil
}

// ReadWAVFile reads a whole WAV file and returns its format and PCM payload.
func ReadWAVFile(path string) (Format, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Format{}, nil, err
	}
	if len(data) < wavHeaderSize {
		return Format{}, nil, errors.New("WAV file too short")
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return Format{}, nil, errors.New("not a RIFF/WAVE file")
	}
	if string(data[36:40]) != "data" {
		return Format{}, nil, errors.New("unsupported WAV layout")
	}

	f := Format{
		Channels:   int(binary.LittleEndian.Uint16(data[22:24])),
		SampleRate: int(binary.LittleEndian.Uint32(data[24:28])),
		BitDepth:   int(binary.LittleEndian.Uint16(data[34:36])),
	}
	dataLen := int(binary.LittleEndian.Uint32(data[40:44]))
	if dataLen > len(data)-wavHeaderSize {
		dataLen = len(data) - wavHeaderSize
	}
	return f, data[wavHeaderSize : wavHeaderSize+dataLen], nil
}
