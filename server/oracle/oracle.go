// Package oracle defines the narrow interface to the external bidding
// engine and its adapters. The engine is a sealed black box: every call is
// stateful per instance and may fail, and an instance is only ever used by
// one auction.
package oracle

import "bridge-arena/server/bridge"

// Oracle is one bidding-engine instance bound to a single seat for a single
// auction. Calls must arrive in the order the engine expects: Seed and the
// convention setters first, then alternating NextBid/Notify as the auction
// progresses. Meaning is best-effort and may be called after any Notify.
type Oracle interface {
	Seed(seat bridge.Seat, hand bridge.Hand, dealer bridge.Seat, vul bridge.Vulnerability) error
	SetScoring(mode bridge.Scoring) error
	SetConvention(side bridge.Side, key string, on bool) error
	SetSystemType(side bridge.Side, value int) error
	SetOpponentType(side bridge.Side, value int) error

	// NextBid asks this instance for its seat's next call, as a wire code.
	NextBid() (int, error)

	// Notify records a call made at the given seat. Every instance must see
	// every call, including its own, in chronological order.
	Notify(seat bridge.Seat, code int) error

	// Meaning reports the alert flag and explanation this instance holds for
	// the given seat's most recent call.
	Meaning(seat bridge.Seat) (alert bool, text string, err error)

	Close() error
}

// Factory creates a fresh Oracle instance. The auction engine calls it four
// times per auction, once per seat; instances are never reused because the
// engine is not guaranteed to support reset.
type Factory func() (Oracle, error)
