package bridge

import (
	"fmt"
	"strings"
)

// Seat is a bidding position. Turn order is strictly clockwise:
// North -> East -> South -> West -> North.
type Seat int

const (
	North Seat = iota
	East
	South
	West
)

func (s Seat) Next() Seat    { return (s + 1) % 4 }
func (s Seat) Partner() Seat { return (s + 2) % 4 }
func (s Seat) Side() Side    { return Side(s % 2) }

func (s Seat) String() string {
	switch s {
	case North:
		return "N"
	case East:
		return "E"
	case South:
		return "S"
	case West:
		return "W"
	}
	return "?"
}

// ParseSeat accepts "N"/"North" etc., case-insensitive.
func ParseSeat(s string) (Seat, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "N", "NORTH":
		return North, nil
	case "E", "EAST":
		return East, nil
	case "S", "SOUTH":
		return South, nil
	case "W", "WEST":
		return West, nil
	}
	return 0, fmt.Errorf("bad seat %q", s)
}

// Side is a partnership.
type Side int

const (
	NS Side = iota
	EW
)

func (p Side) String() string {
	if p == NS {
		return "NS"
	}
	return "EW"
}

// Vulnerability is fixed per deal. Wire values match the engine FFI:
// 0=None, 1=NS, 2=EW, 3=Both.
type Vulnerability int

const (
	VulNone Vulnerability = iota
	VulNS
	VulEW
	VulBoth
)

func (v Vulnerability) String() string {
	switch v {
	case VulNS:
		return "NS"
	case VulEW:
		return "EW"
	case VulBoth:
		return "Both"
	}
	return "None"
}

// ParseVulnerability accepts the PBN spellings plus common aliases.
func ParseVulnerability(s string) (Vulnerability, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NONE", "-", "":
		return VulNone, nil
	case "NS", "N-S":
		return VulNS, nil
	case "EW", "E-W":
		return VulEW, nil
	case "BOTH", "ALL":
		return VulBoth, nil
	}
	return 0, fmt.Errorf("bad vulnerability %q", s)
}

// Scoring selects matchpoints or IMPs; applied per auction at seeding time,
// never process-wide.
type Scoring int

const (
	Matchpoints Scoring = iota
	IMPs
)

func (sc Scoring) String() string {
	if sc == IMPs {
		return "IMP"
	}
	return "MP"
}

func ParseScoring(s string) (Scoring, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "MP", "MATCHPOINTS", "":
		return Matchpoints, nil
	case "IMP", "IMPS":
		return IMPs, nil
	}
	return 0, fmt.Errorf("bad scoring %q", s)
}

// SuitOrder declares how a Hand's four suit strings are arranged.
// The deal interchange format is spade-first (S,H,D,C); the bidding
// engine's native orientation is club-first (C,D,H,S).
type SuitOrder int

const (
	SpadeFirst SuitOrder = iota
	ClubFirst
)

const rankChars = "AKQJT98765432"

// Hand is four suit holdings, each a string of rank characters,
// in the declared suit order. Immutable once the deal is set.
type Hand struct {
	Suits [4]string
	Order SuitOrder
}

// Validate checks the rank alphabet and duplicates within the hand.
// It does not require 13 cards; Deal.Validate does.
func (h Hand) Validate() error {
	seen := map[string]bool{}
	for i, suit := range h.Suits {
		for _, r := range suit {
			if !strings.ContainsRune(rankChars, r) {
				return fmt.Errorf("bad rank %q in suit %d", r, i)
			}
			key := fmt.Sprintf("%d%c", i, r)
			if seen[key] {
				return fmt.Errorf("duplicate card %c in suit %d", r, i)
			}
			seen[key] = true
		}
	}
	return nil
}

func (h Hand) cardCount() int {
	n := 0
	for _, s := range h.Suits {
		n += len(s)
	}
	return n
}

// Deal is the full input to one auction.
type Deal struct {
	Hands  [4]Hand // indexed by Seat, all in the same suit order
	Dealer Seat
	Vul    Vulnerability
}

// Validate rejects malformed deals before the engine starts: every hand
// well-formed with 13 cards, and no card held by two seats.
func (d Deal) Validate() error {
	type card struct {
		suit int
		rank rune
	}
	held := map[card]Seat{}
	for seat, h := range d.Hands {
		if err := h.Validate(); err != nil {
			return fmt.Errorf("seat %v: %w", Seat(seat), err)
		}
		if n := h.cardCount(); n != 13 {
			return fmt.Errorf("seat %v holds %d cards, want 13", Seat(seat), n)
		}
		for i, suit := range h.Suits {
			si := i
			if h.Order == ClubFirst {
				si = 3 - i
			}
			for _, r := range suit {
				c := card{suit: si, rank: r}
				if prev, dup := held[c]; dup {
					return fmt.Errorf("card held by both %v and %v", prev, Seat(seat))
				}
				held[c] = Seat(seat)
			}
		}
	}
	return nil
}
