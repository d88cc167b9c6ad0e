package domain

import (
	"strings"
	"time"

	apperrors "blockgarden/internal/platform/errors"
)

type State string

const (
	StateIdle    State = "idle"
	StateArmed   State = "armed"
	StateRunning State = "running"
)

// CompletionScore is recorded on the block for both natural and manual
// completion.
const CompletionScore = 100

type CompletionReason string

const (
	ReasonNatural CompletionReason = "natural"
	ReasonManual  CompletionReason = "manual"
)

// Session is the countdown for one block. SecondsRemaining stays within
// [0, Duration].
type Session struct {
	Duration         int
	SecondsRemaining int
	IsActive         bool
	SelectedEntityID string
}

func NewSession(duration time.Duration) Session {
	secs := int(duration / time.Second)
	if secs <= 0 {
		secs = 1
	}
	return Session{Duration: secs, SecondsRemaining: secs}
}

func (s Session) State() State {
	switch {
	case s.IsActive:
		return StateRunning
	case s.SelectedEntityID != "":
		return StateArmed
	default:
		return StateIdle
	}
}

// Fraction is the elapsed share of the session, clamped to [0,1].
func (s Session) Fraction() float64 {
	if s.Duration <= 0 {
		return 0
	}
	f := float64(s.Duration-s.SecondsRemaining) / float64(s.Duration)
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}

// Select arms the session with entityID; an empty id disarms it.
func (s *Session) Select(entityID string) error {
	if s.IsActive {
		return apperrors.ErrSessionRunning
	}
	s.SelectedEntityID = strings.TrimSpace(entityID)
	return nil
}

func (s *Session) Start() error {
	if s.IsActive {
		return apperrors.ErrSessionRunning
	}
	if s.SelectedEntityID == "" {
		return apperrors.ErrNoEntitySelected
	}
	s.IsActive = true
	return nil
}

// Tick decrements a running session by one second and reports whether the
// countdown reached zero.
func (s *Session) Tick() bool {
	if !s.IsActive || s.SecondsRemaining <= 0 {
		return false
	}
	s.SecondsRemaining--
	return s.SecondsRemaining == 0
}

// Reset returns to Idle with the full duration remaining.
func (s *Session) Reset() {
	s.SecondsRemaining = s.Duration
	s.IsActive = false
	s.SelectedEntityID = ""
}
