package domain

import (
	"fmt"
	"time"
)

// TransitionRule identifies which validation rule rejected a status change.
type TransitionRule string

const (
	RuleRole     TransitionRule = "role"
	RuleTable    TransitionRule = "transition_table"
	RuleTemporal TransitionRule = "same_day_window"
)

// TransitionError reports a rejected status change with enough context to
// tell which rule failed and for which (current, target, role) combination.
type TransitionError struct {
	Current Status
	Target  Status
	Actor   Role
	Rule    TransitionRule
	Reason  error
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("transition %s -> %s (role %s): %s rule: %v",
		e.Current, e.Target, e.Actor, e.Rule, e.Reason)
}

func (e *TransitionError) Unwrap() error { return e.Reason }

// ValidateTransition decides whether an actor of the given role may move an
// appointment from current to target. Three independent rules apply, in
// order:
//
//  1. Role gate: patients may only request "cancelled"; staff and admin may
//     request anything except "cancelled"; any other role is rejected.
//  2. Transition table: the static forbidden-target set for current.
//  3. Same-day window: "no-show" requires the appointment date to fall on
//     the same UTC calendar day as today.
//
// The returned error is always a *TransitionError naming the failed rule.
func ValidateTransition(current, target Status, actor Role, appointmentDate, today time.Time) error {
	fail := func(rule TransitionRule, reason error) error {
		return &TransitionError{Current: current, Target: target, Actor: actor, Rule: rule, Reason: reason}
	}

	switch actor {
	case RolePatient:
		if target != StatusCancelled {
			return fail(RuleRole, ErrForbidden)
		}
	case RoleStaff, RoleAdmin:
		if target == StatusCancelled {
			return fail(RuleRole, ErrForbidden)
		}
	default:
		return fail(RuleRole, ErrInvalidRole)
	}

	if !current.CanTransitionTo(target) {
		return fail(RuleTable, ErrIllegalTransition)
	}

	if target == StatusNoShow && !sameCalendarDay(appointmentDate, today) {
		return fail(RuleTemporal, ErrSameDayWindow)
	}

	return nil
}

func sameCalendarDay(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
