package services

import (
	"errors"
	"regexp"
	"testing"
)

func TestTicketNumberShape(t *testing.T) {
	gen := NewTicketNumbers()
	pattern := regexp.MustCompile(`^[1-9][0-9]{7}$`)

	for i := 0; i < 200; i++ {
		num, err := gen.Next(nil)
		if err != nil {
			t.Fatalf("draw %d error: %v", i, err)
		}
		if !pattern.MatchString(num) {
			t.Fatalf("draw %d = %q, want 8 digits with non-zero lead", i, num)
		}
	}
}

func TestTicketNumberNoRepeatsWithinProcess(t *testing.T) {
	gen := NewTicketNumbers()
	seen := map[string]struct{}{}

	for i := 0; i < 500; i++ {
		num, err := gen.Next(nil)
		if err != nil {
			t.Fatalf("draw %d error: %v", i, err)
		}
		if _, dup := seen[num]; dup {
			t.Fatalf("number %q issued twice", num)
		}
		seen[num] = struct{}{}
	}
}

// The generator consults durable storage for every candidate, so a restart
// cannot re-issue a number already in the bookings table.
func TestTicketNumberSkipsDurablyTaken(t *testing.T) {
	gen := NewTicketNumbers()

	calls := 0
	exists := func(string) (bool, error) {
		calls++
		return calls == 1, nil
	}

	num, err := gen.Next(exists)
	if err != nil {
		t.Fatalf("draw error: %v", err)
	}
	if num == "" {
		t.Fatalf("empty number issued")
	}
	if calls < 2 {
		t.Fatalf("durable check consulted %d times, want a retry after the taken candidate", calls)
	}
}

func TestTicketNumberPropagatesStorageError(t *testing.T) {
	gen := NewTicketNumbers()
	boom := errors.New("db closed")

	if _, err := gen.Next(func(string) (bool, error) { return false, boom }); !errors.Is(err, boom) {
		t.Fatalf("expected storage error to propagate, got %v", err)
	}
}
