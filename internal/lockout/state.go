// Package lockout tracks per-identity failed-login bookkeeping. The
// state is a pure value type; persistence belongs to the identity store,
// which serializes concurrent updates through its own transactions.
package lockout

import "time"

// State holds the failed-attempt counter and the optional lock window
// attached 1:1 to an identity.
type State struct {
	FailedAttempts int
	LockedUntil    *time.Time
}

// Locked reports whether the identity is barred from login attempts at
// the given instant.
func (s State) Locked(now time.Time) bool {
	return s.LockedUntil != nil && s.LockedUntil.After(now)
}

// RecordFailure returns the state after one more failed login. The
// counter always increments; it does not set LockedUntil. The threshold
// at which an account trips into the locked window is an undecided
// business policy, so no value is assumed here. An operator (or a future
// policy) sets the timestamp via Lock.
func (s State) RecordFailure() State {
	return State{
		FailedAttempts: s.FailedAttempts + 1,
		LockedUntil:    s.LockedUntil,
	}
}

// Lock returns the state with the lock window set to end at until.
// No login path calls this; it is the hook for operator tooling and for
// whatever threshold policy gets decided (see RecordFailure).
func (s State) Lock(until time.Time) State {
	u := until
	return State{
		FailedAttempts: s.FailedAttempts,
		LockedUntil:    &u,
	}
}

// Reset returns the cleared state recorded after a successful login.
func (s State) Reset() State {
	return State{}
}
