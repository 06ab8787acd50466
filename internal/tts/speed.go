package tts

import (
	"fmt"
	"sync"
)

// speed steps offered by the UI, matching the range the model handles well.
var speedSteps = []float64{0.5, 0.75, 1.0, 1.25, 1.5, 1.75, 2.0}

// SpeedController manages the narration speed multiplier.
type SpeedController struct {
	mu      sync.RWMutex
	current float64
}

// NewSpeedController creates a controller at normal speed.
func NewSpeedController() *SpeedController {
	return &SpeedController{current: 1.0}
}

// ValidateSpeed checks that a speed multiplier is in the supported range.
func ValidateSpeed(speed float64) error {
	if speed < 0.5 || speed > 2.0 {
		return fmt.Errorf("%w, got %.2f", ErrInvalidSpeed, speed)
	}
	return nil
}

// Speed returns the current multiplier.
func (s *SpeedController) Speed() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SetSpeed sets the multiplier (0.5 to 2.0).
func (s *SpeedController) SetSpeed(speed float64) error {
	if err := ValidateSpeed(speed); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = speed
	return nil
}

// Increase moves to the next speed step and returns the new value.
func (s *SpeedController) Increase() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, step := range speedSteps {
		if step > s.current {
			s.current = step
			break
		}
	}
	return s.current
}

// Decrease moves to the previous speed step and returns the new value.
func (s *SpeedController) Decrease() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(speedSteps) - 1; i >= 0; i-- {
		if speedSteps[i] < s.current {
			s.current = speedSteps[i]
			break
		}
	}
	return s.current
}

// NextSpeed returns the step above speed, or speed at the top of the range.
func NextSpeed(speed float64) float64 {
	for _, step := range speedSteps {
		if step > speed {
			return step
		}
	}
	return speed
}

// PrevSpeed returns the step below speed, or speed at the bottom of the range.
func PrevSpeed(speed float64) float64 {
	for i := len(speedSteps) - 1; i >= 0; i-- {
		if speedSteps[i] < speed {
			return speedSteps[i]
		}
	}
	return speed
}

// LengthScale converts the multiplier to the model's length-scale argument.
// The scale is inverse to speed: 2.0x speech uses a 0.5 length scale.
func LengthScale(speed float64) string {
	return fmt.Sprintf("%.2f", 1.0/speed)
}

// Display returns a human-readable description of a speed value.
func Display(speed float64) string {
	switch speed {
	case 0.5:
		return "0.5x (Half Speed)"
	case 1.0:
		return "1.0x (Normal)"
	case 2.0:
		return "2.0x (Double Speed)"
	default:
		return fmt.Sprintf("%.2fx", speed)
	}
}
