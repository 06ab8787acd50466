package audio

import (
	"bytes"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// State is the lifecycle state of a Player.
type State int32

const (
	StateStopped State = iota
	StatePlaying
	StatePaused
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Player plays PCM clips through the system audio device. It is used for
// short voice previews, not for whole chapters.
type Player struct {
	context *oto.Context
	format  Format

	mu       sync.Mutex
	state    State
	player   *oto.Player
	clip     []byte // kept alive for the duration of playback
	duration time.Duration
	started  time.Time
	pausedAt time.Duration
}

// NewPlayer opens the audio device for the given format and blocks until it
// is ready.
func NewPlayer(f Format) (*Player, error) {
	if f.BitDepth != 16 {
		return nil, fmt.Errorf("bit depth must be 16, got %d", f.BitDepth)
	}
	if f.Channels != 1 && f.Channels != 2 {
		return nil, fmt.Errorf("channels must be 1 or 2, got %d", f.Channels)
	}
	if f.SampleRate < 8000 || f.SampleRate > 48000 {
		return nil, fmt.Errorf("sample rate must be 8000-48000 Hz, got %d", f.SampleRate)
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   f.SampleRate,
		ChannelCount: f.Channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return nil, fmt.Errorf("open audio device: %w", err)
	}
	<-ready

	return &Player{context: ctx, format: f, state: StateStopped}, nil
}

// Play starts playback of a PCM clip, replacing any current playback. The
// clip is copied so the caller may reuse its buffer.
func (p *Player) Play(pcm []byte) error {
	if err := p.format.Validate(pcm); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state == StateClosed {
		return errors.New("player is closed")
	}
	p.stopLocked()

	// Own the data; oto reads from it for the whole playback.
	clip := make([]byte, len(pcm))
	copy(clip, pcm)

	player := p.context.NewPlayer(bytes.NewReader(clip))
	player.Play()

	p.player = player
	p.clip = clip
	p.duration = p.format.Duration(len(clip))
	p.started = time.Now()
	p.pausedAt = 0
	p.state = StatePlaying
	return nil
}

// Pause pauses playback.
func (p *Player) Pause() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StatePlaying {
		return fmt.Errorf("cannot pause while %s", p.state)
	}
	p.pausedAt = p.positionLocked()
	p.player.Pause()
	p.state = StatePaused
	return nil
}

// Resume continues paused playback.
func (p *Player) Resume() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state != StatePaused {
		return fmt.Errorf("cannot resume while %s", p.state)
	}
	p.started = time.Now().Add(-p.pausedAt)
	p.player.Play()
	p.state = StatePlaying
	return nil
}

// Stop halts playback and releases the clip.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// stopLocked must be called with the lock held.
func (p *Player) stopLocked() {
	if p.player != nil {
		p.player.Pause()
		p.player.Close()
		p.player = nil
	}
	p.clip = nil
	p.duration = 0
	p.pausedAt = 0
	if p.state != StateClosed {
		p.state = StateStopped
	}
}

// Playing reports whether a clip is currently audible.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state == StatePlaying && p.positionLocked() < p.duration
}

// Position returns the playback position within the current clip.
func (p *Player) Position() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.positionLocked()
}

// positionLocked must be called with the lock held.
func (p *Player) positionLocked() time.Duration {
	switch p.state {
	case StatePlaying:
		pos := time.Since(p.started)
		if pos > p.duration {
			pos = p.duration
		}
		return pos
	case StatePaused:
		return p.pausedAt
	default:
		return 0
	}
}

// State returns the current player state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Close stops playback and marks the player unusable. The underlying device
// context has no close in oto v3 and is left for the runtime to collect.
func (p *Player) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.stopLocked()
	p.state = StateClosed
	p.context = nil
	return nil
}
