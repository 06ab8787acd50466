package tts

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Device selects the hardware backend the synthesis model runs on. The
// original settings call this the "engine"; the CLI keeps that flag name
// for compatibility.
type Device string

const (
	// DeviceCPU runs inference on the CPU. Always available.
	DeviceCPU Device = "cpu"

	// DeviceCUDA runs inference on an NVIDIA GPU.
	DeviceCUDA Device = "cuda"

	// DeviceApple runs inference on Apple Silicon (MPS).
	DeviceApple Device = "apple"
)

// Probes swapped out in tests.
var (
	lookPath = exec.LookPath
	hostOS   = runtime.GOOS
	hostArch = runtime.GOARCH
)

// ParseDevice normalizes a user-supplied device name.
func ParseDevice(name string) (Device, error) {
	switch name {
	case "cpu":
		return DeviceCPU, nil
	case "cuda", "gpu", "nvidia":
		return DeviceCUDA, nil
	case "apple", "mps":
		return DeviceApple, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: cpu, cuda, apple)", ErrUnknownDevice, name)
	}
}

// AvailableDevices reports the availability of every device on this host.
// CPU is always available; CUDA requires a detectable NVIDIA driver; Apple
// requires darwin on arm64.
func AvailableDevices() map[Device]bool {
	return map[Device]bool{
		DeviceCPU:   true,
		DeviceCUDA:  cudaAvailable(),
		DeviceApple: appleAvailable(),
	}
}

// BestAvailableDevice returns the fastest usable device, preferring Apple
// Silicon, then CUDA, then CPU.
func BestAvailableDevice() Device {
	if appleAvailable() {
		return DeviceApple
	}
	if cudaAvailable() {
		return DeviceCUDA
	}
	return DeviceCPU
}

// ValidateDevice returns the requested device when it is available, or the
// best available device otherwise. The second return value reports whether
// a fallback happened.
func ValidateDevice(d Device) (Device, bool) {
	if AvailableDevices()[d] {
		return d, false
	}
	return BestAvailableDevice(), true
}

func cudaAvailable() bool {
	_, err := lookPath("nvidia-smi")
	return err == nil
}

func appleAvailable() bool {
	return hostOS == "darwin" && hostArch == "arm64"
}
