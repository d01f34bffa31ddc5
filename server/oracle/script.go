package oracle

import (
	"fmt"

	"bridge-arena/server/bridge"
)

// Scripted is an in-memory oracle that replays a fixed sequence of bid
// codes whenever its own seat is asked to act. It keeps the same
// order-sensitive bookkeeping a real engine instance would, which makes it
// useful both in tests and for batch dry runs.
type Scripted struct {
	// Script holds the codes this seat will produce, in order.
	Script []int
	// Meanings maps a produced code to an explanation reported when this
	// instance is asked about the seat that made it.
	Meanings map[int]string
	// Alerts marks which codes are alertable.
	Alerts map[int]bool

	seat     bridge.Seat
	seeded   bool
	next     int
	lastCode map[bridge.Seat]int
	observed int
}

func (s *Scripted) Seed(seat bridge.Seat, hand bridge.Hand, dealer bridge.Seat, vul bridge.Vulnerability) error {
	if hand.Order != bridge.ClubFirst {
		return fmt.Errorf("scripted oracle: hand arrived %v, want club-first", hand.Order)
	}
	s.seat = seat
	s.seeded = true
	s.lastCode = map[bridge.Seat]int{}
	return nil
}

func (s *Scripted) SetScoring(bridge.Scoring) error { return nil }

func (s *Scripted) SetConvention(bridge.Side, string, bool) error { return nil }

func (s *Scripted) SetSystemType(bridge.Side, int) error { return nil }

func (s *Scripted) SetOpponentType(bridge.Side, int) error { return nil }

func (s *Scripted) NextBid() (int, error) {
	if !s.seeded {
		return 0, fmt.Errorf("scripted oracle: NextBid before Seed")
	}
	if s.next >= len(s.Script) {
		// Out of script: pass, like a quiet seat.
		return 0, nil
	}
	code := s.Script[s.next]
	s.next++
	return code, nil
}

func (s *Scripted) Notify(seat bridge.Seat, code int) error {
	if !s.seeded {
		return fmt.Errorf("scripted oracle: Notify before Seed")
	}
	s.lastCode[seat] = code
	s.observed++
	return nil
}

func (s *Scripted) Meaning(seat bridge.Seat) (bool, string, error) {
	code, ok := s.lastCode[seat]
	if !ok {
		return false, "", fmt.Errorf("scripted oracle: no call observed for seat %v", seat)
	}
	return s.Alerts[code], s.Meanings[code], nil
}

// Observed reports how many calls this instance has been notified of.
func (s *Scripted) Observed() int { return s.observed }

// Seat reports the seat this instance was seeded with.
func (s *Scripted) Seat() bridge.Seat { return s.seat }

func (s *Scripted) Close() error { return nil }
