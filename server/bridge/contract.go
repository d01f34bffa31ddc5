package bridge

import "fmt"

type Doubling int

const (
	Undoubled Doubling = iota
	Doubled
	Redoubled
)

func (d Doubling) String() string {
	switch d {
	case Doubled:
		return "X"
	case Redoubled:
		return "XX"
	}
	return ""
}

// Contract is the derived outcome of a finished auction. When PassedOut is
// set the remaining fields are undefined.
type Contract struct {
	PassedOut bool
	Level     int
	Strain    Strain
	Doubled   Doubling
	Declarer  Seat
	Leader    Seat
	Dummy     Seat
}

func (c Contract) String() string {
	if c.PassedOut {
		return "PassOut"
	}
	return fmt.Sprintf("%d%v%v by %v", c.Level, c.Strain, c.Doubled, c.Declarer)
}

// ResolveContract derives the contract from a finished call log.
//
// The declarer is the member of the winning partnership who bid the final
// strain first, not whoever made the last bid: per (side, strain) the seat
// of the first bid is recorded, and the final contract looks that seat up.
// Doubling is cleared by any later non-pass call.
func ResolveContract(a Auction) Contract {
	var firstBidder [2][5]Seat
	var hasFirst [2][5]bool

	var lastBid Bid
	var lastBidder Seat
	anyBid := false
	doubling := Undoubled

	for _, call := range a.Calls {
		switch call.Bid.Type {
		case Pass:
			// no state change
		case Double:
			doubling = Doubled
		case Redouble:
			doubling = Redoubled
		case LevelBid:
			doubling = Undoubled
			lastBid = call.Bid
			lastBidder = call.Seat
			anyBid = true
			side := call.Seat.Side()
			if !hasFirst[side][call.Bid.Strain] {
				hasFirst[side][call.Bid.Strain] = true
				firstBidder[side][call.Bid.Strain] = call.Seat
			}
		}
	}

	if !anyBid {
		return Contract{PassedOut: true}
	}

	declarer := firstBidder[lastBidder.Side()][lastBid.Strain]
	return Contract{
		Level:    lastBid.Level,
		Strain:   lastBid.Strain,
		Doubled:  doubling,
		Declarer: declarer,
		Leader:   declarer.Next(),
		Dummy:    declarer.Partner(),
	}
}
