package lockout

import (
	"testing"
	"time"
)

func TestState_Locked(t *testing.T) {
	t.Parallel()

	now := time.Now()

	var s State
	if s.Locked(now) {
		t.Fatalf("zero state must not be locked")
	}

	future := now.Add(10 * time.Minute)
	s = State{LockedUntil: &future}
	if !s.Locked(now) {
		t.Fatalf("state with future locked-until must be locked")
	}

	past := now.Add(-time.Minute)
	s = State{LockedUntil: &past}
	if s.Locked(now) {
		t.Fatalf("expired lock window must not be locked")
	}
}

func TestState_RecordFailure(t *testing.T) {
	t.Parallel()

	var s State
	s = s.RecordFailure()
	s = s.RecordFailure()

	if s.FailedAttempts != 2 {
		t.Fatalf("expected 2 failed attempts, got %d", s.FailedAttempts)
	}
	// Failures alone never set the lock window; that policy is applied
	// externally via Lock.
	if s.LockedUntil != nil {
		t.Fatalf("RecordFailure must not set locked-until")
	}
}

func TestState_LockAndReset(t *testing.T) {
	t.Parallel()

	now := time.Now()
	s := State{FailedAttempts: 7}.Lock(now.Add(time.Hour))
	if !s.Locked(now) {
		t.Fatalf("expected locked state after Lock")
	}
	if s.FailedAttempts != 7 {
		t.Fatalf("Lock must preserve the attempt counter")
	}

	s = s.Reset()
	if s.FailedAttempts != 0 || s.LockedUntil != nil {
		t.Fatalf("Reset must clear attempts and lock window: %+v", s)
	}
}
