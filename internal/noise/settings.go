package noise

import (
	"fmt"
	"sync"

	"github.com/MeKo-Tech/noisemap/internal/palette"
)

// Settings holds the latest parameters set by UI controls. Each setter
// stores the control value verbatim; renders read a Snapshot at start so a
// change arriving mid-render never tears the field.
type Settings struct {
	params Params
	mu     sync.RWMutex
}

// NewSettings returns a settings store seeded with p.
func NewSettings(p Params) *Settings {
	return &Settings{params: p}
}

// Snapshot returns a copy of the current parameters.
func (s *Settings) Snapshot() Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.params
}

// Update derives a new parameter set from the current one and stores it in a
// single step. Nothing is stored when fn returns an error.
func (s *Settings) Update(fn func(Params) (Params, error)) (Params, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(s.params)
	if err != nil {
		return s.params, err
	}
	s.params = next
	return next, nil
}

func (s *Settings) SetGridSize(v int) {
	s.mu.Lock()
	s.params.GridSize = v
	s.mu.Unlock()
}

func (s *Settings) SetFadeCoefficient(v float64) {
	s.mu.Lock()
	s.params.FadeCoefficient = v
	s.mu.Unlock()
}

func (s *Settings) SetRandomVectorCount(v int) {
	s.mu.Lock()
	s.params.RandomVectorCount = v
	s.mu.Unlock()
}

func (s *Settings) SetInverted(v bool) {
	s.mu.Lock()
	s.params.Inverted = v
	s.mu.Unlock()
}

// SetColors parses two #RRGGBB picker values. Neither color is changed when
// either value is malformed.
func (s *Settings) SetColors(startHex, endHex string) error {
	start, err := palette.ParseHex(startHex)
	if err != nil {
		return fmt.Errorf("start color: %w", err)
	}
	end, err := palette.ParseHex(endHex)
	if err != nil {
		return fmt.Errorf("end color: %w", err)
	}

	s.mu.Lock()
	s.params.StartColor = start
	s.params.EndColor = end
	s.mu.Unlock()
	return nil
}
