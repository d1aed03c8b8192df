package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSlotConflict      = errors.New("time slot already booked")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidTransition = errors.New("invalid booking status transition")
)

// ValidationError reports malformed caller input, rejected before any rule runs.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// RuleID identifies a feasibility rule. Rules are evaluated in ascending order.
type RuleID string

const (
	RuleSameDay        RuleID = "R1"
	RuleGridAlignment  RuleID = "R2"
	RuleExcluded       RuleID = "R3"
	RuleOperatingHours RuleID = "R4"
	RuleCollision      RuleID = "R5"
	RuleNeighborGap    RuleID = "R6"
)

var ruleMessages = map[RuleID]string{
	RuleSameDay:        "same-day deliveries are not accepted; please choose a later date",
	RuleGridAlignment:  "deliveries are scheduled in 15-minute steps",
	RuleExcluded:       "deliveries are not available at this station",
	RuleOperatingHours: "the requested time is outside this station's delivery hours",
	RuleCollision:      "the requested time is already booked",
	RuleNeighborGap:    "the courier cannot reach this station in time between adjacent deliveries",
}

// Message is the user-facing explanation for a rule.
func (r RuleID) Message() string {
	if m, ok := ruleMessages[r]; ok {
		return m
	}
	return "the requested slot is not available"
}

// RuleViolation is returned when a business rule rejects a request.
type RuleViolation struct {
	Rule RuleID
}

func (e *RuleViolation) Error() string {
	return fmt.Sprintf("rule %s: %s", e.Rule, e.Rule.Message())
}

// UpstreamError wraps a failure of an external collaborator.
type UpstreamError struct {
	Service string
	Err     error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s unavailable: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
