package auction

import (
	"bridge-arena/server/bridge"
	"bridge-arena/server/oracle"
)

// Agent is the per-seat handle around one oracle instance. The engine owns
// all four agents of a run exclusively; they are never shared with callers
// or reused across auctions.
type Agent struct {
	seat bridge.Seat
	bot  oracle.Oracle
}

func newAgent(seat bridge.Seat, bot oracle.Oracle) *Agent {
	return &Agent{seat: seat, bot: bot}
}

// seed pushes the deal context into the oracle, presenting the hand in the
// engine's native club-first orientation.
func (a *Agent) seed(hand bridge.Hand, dealer bridge.Seat, vul bridge.Vulnerability, scoring bridge.Scoring) error {
	if err := a.bot.Seed(a.seat, hand.InOrder(bridge.ClubFirst), dealer, vul); err != nil {
		return err
	}
	return a.bot.SetScoring(scoring)
}

func (a *Agent) nextCode() (int, error) {
	return a.bot.NextBid()
}

func (a *Agent) notify(seat bridge.Seat, code int) error {
	return a.bot.Notify(seat, code)
}

func (a *Agent) meaning(seat bridge.Seat) (bool, string, error) {
	return a.bot.Meaning(seat)
}

func (a *Agent) close() {
	_ = a.bot.Close()
}
