package bridge

import "strings"

// Call is one recorded bid event: who bid, what, and whatever alert
// metadata the partnership's receiving side reported for it.
type Call struct {
	Seat    Seat
	Bid     Bid
	Alert   bool
	Meaning string
}

// CallDetail is the boundary form of a Call: seat and bid as display
// strings plus the alert metadata, one JSON object per call.
type CallDetail struct {
	Seat    string `json:"seat"`
	Bid     string `json:"bid"`
	Alert   bool   `json:"alert,omitempty"`
	Meaning string `json:"meaning,omitempty"`
}

// Auction is the ordered, append-only call log of one deal, starting with
// the dealer and proceeding clockwise.
type Auction struct {
	Dealer Seat
	Vul    Vulnerability
	Calls  []Call
}

// Details renders the full call log, alert metadata included.
func (a Auction) Details() []CallDetail {
	out := make([]CallDetail, len(a.Calls))
	for i, c := range a.Calls {
		out[i] = CallDetail{
			Seat:    c.Seat.String(),
			Bid:     c.Bid.String(),
			Alert:   c.Alert,
			Meaning: c.Meaning,
		}
	}
	return out
}

// Strings renders the calls in order as display strings.
func (a Auction) Strings() []string {
	out := make([]string, len(a.Calls))
	for i, c := range a.Calls {
		out[i] = c.Bid.String()
	}
	return out
}

// String formats the auction for display, collapsing the closing passes
// to "AllPass" and a passed-out deal to "PassOut".
func (a Auction) String() string {
	bids := a.Strings()
	if len(bids) == 0 {
		return "(none)"
	}
	allPass := true
	for _, c := range a.Calls {
		if c.Bid.Type != Pass {
			allPass = false
			break
		}
	}
	if allPass && len(bids) == 4 {
		return "PassOut"
	}
	if len(bids) >= 4 {
		closing := true
		for _, c := range a.Calls[len(a.Calls)-3:] {
			if c.Bid.Type != Pass {
				closing = false
				break
			}
		}
		if closing {
			return strings.Join(bids[:len(bids)-3], " ") + " AllPass"
		}
	}
	return strings.Join(bids, " ")
}
