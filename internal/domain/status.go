package domain

import (
	"fmt"
	"strings"
)

// MeetingState is the lifecycle state of a meeting.
type MeetingState string

const (
	StatePending   MeetingState = "pending"
	StateConfirmed MeetingState = "confirmed"
	StateCancelled MeetingState = "cancelled"
	StateCompleted MeetingState = "completed"
)

// States lists every meeting state in lifecycle order.
var States = []MeetingState{StatePending, StateConfirmed, StateCancelled, StateCompleted}

var transitions = map[MeetingState][]MeetingState{
	StatePending:   {StateConfirmed, StateCancelled},
	StateConfirmed: {StateCompleted, StateCancelled},
}

// CanTransition reports whether the lifecycle allows moving from one state to another.
func CanTransition(from, to MeetingState) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s MeetingState) IsTerminal() bool {
	return s == StateCancelled || s == StateCompleted
}

// Blocks reports whether a meeting in this state occupies the leader's time.
func (s MeetingState) Blocks() bool {
	return s != StateCancelled
}

func (s MeetingState) Valid() bool {
	switch s {
	case StatePending, StateConfirmed, StateCancelled, StateCompleted:
		return true
	}
	return false
}

// ParseMeetingState accepts a state name in any case.
func ParseMeetingState(raw string) (MeetingState, error) {
	s := MeetingState(strings.ToLower(strings.TrimSpace(raw)))
	if !s.Valid() {
		return "", fmt.Errorf("unknown meeting state %q", raw)
	}
	return s, nil
}
