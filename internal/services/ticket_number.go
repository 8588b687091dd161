package services

import (
	"math/rand"
	"sync"
	"time"

	"busline/internal/domain"
)

// TicketNumbers issues 8-digit ticket numbers with a non-zero leading digit.
// Issued numbers are remembered for the life of the process AND checked
// against durable storage, so a restart cannot re-issue a number already in
// the bookings table.
type TicketNumbers struct {
	mu   sync.Mutex
	used map[string]struct{}
	rng  *rand.Rand
}

func NewTicketNumbers() *TicketNumbers {
	return &TicketNumbers{
		used: map[string]struct{}{},
		rng:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

const maxTicketAttempts = 1000

// Next draws a fresh ticket number. exists is consulted for every candidate;
// a nil exists skips the durable check (tests only).
func (t *TicketNumbers) Next(exists func(string) (bool, error)) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := 0; i < maxTicketAttempts; i++ {
		digits := make([]byte, 8)
		digits[0] = byte('1' + t.rng.Intn(9))
		for j := 1; j < 8; j++ {
			digits[j] = byte('0' + t.rng.Intn(10))
		}
		num := string(digits)

		if _, dup := t.used[num]; dup {
			continue
		}
		if exists != nil {
			taken, err := exists(num)
			if err != nil {
				return "", err
			}
			if taken {
				t.used[num] = struct{}{}
				continue
			}
		}
		t.used[num] = struct{}{}
		return num, nil
	}
	return "", domain.InternalError{Msg: "ticket number space exhausted"}
}
