// Package auction drives a complete bidding auction: four oracle agents in
// lock-step, one call per turn, every call broadcast to every agent before
// anything else happens.
package auction

import (
	"errors"
	"fmt"
	"log"

	"bridge-arena/server/bridge"
	"bridge-arena/server/oracle"
)

// Safety ceiling on total calls. A healthy auction is far shorter; hitting
// the ceiling means the oracle (or the broadcast ordering) is broken, which
// is surfaced as ErrDidNotTerminate rather than truncated silently.
const defaultMaxCalls = 100

// ErrDidNotTerminate reports that the call ceiling was reached. It is
// distinct from an OracleFailureError: the oracle kept answering, the
// auction just never closed.
var ErrDidNotTerminate = errors.New("auction did not terminate")

// OracleFailureError wraps an error from a mandatory oracle call. It is
// fatal to the auction: bidding state cannot be resumed once a seat has
// failed mid-turn.
type OracleFailureError struct {
	Op   string
	Seat bridge.Seat
	Err  error
}

func (e *OracleFailureError) Error() string {
	return fmt.Sprintf("oracle failure at seat %v during %s: %v", e.Seat, e.Op, e.Err)
}

func (e *OracleFailureError) Unwrap() error { return e.Err }

// Config carries the per-auction knobs.
type Config struct {
	// MaxCalls overrides the safety ceiling; zero means the default.
	MaxCalls int
	// LenientBidCodes coerces an out-of-range bid code to Pass instead of
	// failing the auction. Pick one policy per deployment; the default is
	// strict.
	LenientBidCodes bool
	Scoring         bridge.Scoring
}

// Run plays one complete auction for the deal. Both convention sets are
// applied to every agent: an oracle must be able to interpret opponents'
// calls, not only its own side's. The returned Auction carries the partial
// call log even when err is non-nil.
func Run(deal bridge.Deal, ns, ew ConventionSet, factory oracle.Factory, cfg Config) (bridge.Auction, error) {
	result := bridge.Auction{Dealer: deal.Dealer, Vul: deal.Vul}

	if err := deal.Validate(); err != nil {
		return result, fmt.Errorf("invalid deal: %w", err)
	}

	maxCalls := cfg.MaxCalls
	if maxCalls <= 0 {
		maxCalls = defaultMaxCalls
	}

	var agents [4]*Agent
	defer func() {
		for _, a := range agents {
			if a != nil {
				a.close()
			}
		}
	}()
	for seat := bridge.North; seat <= bridge.West; seat++ {
		bot, err := factory()
		if err != nil {
			return result, &OracleFailureError{Op: "create", Seat: seat, Err: err}
		}
		agents[seat] = newAgent(seat, bot)
		if err := agents[seat].seed(deal.Hands[seat], deal.Dealer, deal.Vul, cfg.Scoring); err != nil {
			return result, &OracleFailureError{Op: "seed", Seat: seat, Err: err}
		}
		applied, skipped := ApplyConventions(bot, bridge.NS, ns)
		a2, s2 := ApplyConventions(bot, bridge.EW, ew)
		if skipped+s2 > 0 {
			log.Printf("auction: seat %v conventions applied=%d skipped=%d", seat, applied+a2, skipped+s2)
		}
	}

	current := deal.Dealer
	consecutivePasses := 0
	anyBidMade := false

	for turn := 0; turn < maxCalls; turn++ {
		code, err := agents[current].nextCode()
		if err != nil {
			return result, &OracleFailureError{Op: "next-bid", Seat: current, Err: err}
		}

		bid, err := bridge.DecodeBid(code)
		if err != nil {
			var ube *bridge.UnknownBidCodeError
			if cfg.LenientBidCodes && errors.As(err, &ube) {
				log.Printf("auction: seat %v returned code %d, coercing to Pass", current, code)
				bid = bridge.PassBid()
				code = bridge.EncodeBid(bid)
			} else {
				return result, fmt.Errorf("seat %v: %w", current, err)
			}
		}

		// Every agent, the bidder's own included, must register the call
		// before any meaning lookup: an oracle can only explain a call it
		// has already seen.
		for _, a := range agents {
			if err := a.notify(current, code); err != nil {
				return result, &OracleFailureError{Op: "notify", Seat: a.seat, Err: err}
			}
		}

		// Conventions are explained from the partnership's receiving side,
		// so the meaning comes from the partner's agent. Best-effort: a
		// failure here costs the alert text, not the auction.
		call := bridge.Call{Seat: current, Bid: bid}
		partner := agents[current.Partner()]
		if alert, text, err := partner.meaning(current); err != nil {
			log.Printf("auction: meaning unavailable for seat %v call %q: %v", current, bid, err)
		} else {
			call.Alert = alert
			call.Meaning = text
		}
		result.Calls = append(result.Calls, call)

		if bid.Type == bridge.Pass {
			consecutivePasses++
		} else {
			consecutivePasses = 0
			anyBidMade = true
		}

		if (anyBidMade && consecutivePasses >= 3) || (!anyBidMade && consecutivePasses >= 4) {
			return result, nil
		}
		current = current.Next()
	}

	return result, fmt.Errorf("%w after %d calls", ErrDidNotTerminate, maxCalls)
}
