package bridge

import "testing"

// mkAuction builds the call log for dealer and the given bids in turn order.
func mkAuction(t *testing.T, dealer Seat, bids ...string) Auction {
	t.Helper()
	a := Auction{Dealer: dealer}
	seat := dealer
	for _, s := range bids {
		b, err := ParseBid(s)
		if err != nil {
			t.Fatalf("ParseBid(%q): %v", s, err)
		}
		a.Calls = append(a.Calls, Call{Seat: seat, Bid: b})
		seat = seat.Next()
	}
	return a
}

func TestResolvePassedOut(t *testing.T) {
	a := mkAuction(t, North, "Pass", "Pass", "Pass", "Pass")
	c := ResolveContract(a)
	if !c.PassedOut {
		t.Fatalf("want PassedOut, got %+v", c)
	}
	if c.String() != "PassOut" {
		t.Errorf("String() = %q", c)
	}
}

func TestResolveSimple1NT(t *testing.T) {
	a := mkAuction(t, North, "1NT", "Pass", "Pass", "Pass")
	c := ResolveContract(a)
	if c.PassedOut {
		t.Fatal("unexpected PassedOut")
	}
	if c.Level != 1 || c.Strain != NoTrump || c.Doubled != Undoubled {
		t.Fatalf("contract = %+v", c)
	}
	if c.Declarer != North || c.Leader != East || c.Dummy != South {
		t.Fatalf("declarer/leader/dummy = %v/%v/%v", c.Declarer, c.Leader, c.Dummy)
	}
}

// Declarer tracking is per strain per side, not "last bidder": the final
// strain here is hearts, bid only by East, so East declares even though
// South opened the auction.
func TestResolveDeclarerIsFirstBidderOfWinningStrain(t *testing.T) {
	a := mkAuction(t, South, "1C", "Pass", "1S", "2H", "Pass", "Pass", "Pass")
	if n := len(a.Calls); n != 7 {
		t.Fatalf("calls = %d, want 7", n)
	}
	c := ResolveContract(a)
	if c.Level != 2 || c.Strain != Hearts {
		t.Fatalf("contract = %+v", c)
	}
	if c.Declarer != East || c.Leader != South || c.Dummy != West {
		t.Fatalf("declarer/leader/dummy = %v/%v/%v", c.Declarer, c.Leader, c.Dummy)
	}
}

// The same-partnership rule: South bid NT first, so even when the final NT
// call comes from North's side partner rebidding the strain, declarership
// stays with South.
func TestResolveDeclarerStaysWithFirstStrainBidderOfSide(t *testing.T) {
	a := mkAuction(t, South,
		"1NT", "Pass", "2C", "X",
		"Pass", "2H", "Pass", "Pass",
		"3NT", "Pass", "Pass", "Pass")
	c := ResolveContract(a)
	if c.Level != 3 || c.Strain != NoTrump {
		t.Fatalf("contract = %+v", c)
	}
	if c.Declarer != South {
		t.Fatalf("declarer = %v, want South", c.Declarer)
	}
	// The X on 2C was wiped by the later 2H call.
	if c.Doubled != Undoubled {
		t.Fatalf("doubling = %v, want undoubled", c.Doubled)
	}
}

func TestResolveDoubleSurvivesClosingPasses(t *testing.T) {
	a := mkAuction(t, West, "1S", "X", "Pass", "Pass", "Pass")
	c := ResolveContract(a)
	if c.Doubled != Doubled {
		t.Fatalf("doubling = %v, want doubled", c.Doubled)
	}
	if c.Declarer != West {
		t.Fatalf("declarer = %v, want West", c.Declarer)
	}
	if c.String() != "1SX by W" {
		t.Errorf("String() = %q", c)
	}
}

func TestResolveRedouble(t *testing.T) {
	a := mkAuction(t, North, "1H", "X", "XX", "Pass", "Pass", "Pass")
	c := ResolveContract(a)
	if c.Doubled != Redoubled {
		t.Fatalf("doubling = %v, want redoubled", c.Doubled)
	}
	if c.Declarer != North {
		t.Fatalf("declarer = %v, want North", c.Declarer)
	}
}

func TestAuctionDisplay(t *testing.T) {
	a := mkAuction(t, North, "Pass", "Pass", "Pass", "Pass")
	if got := a.String(); got != "PassOut" {
		t.Errorf("passed-out display = %q", got)
	}
	a = mkAuction(t, North, "1NT", "Pass", "Pass", "Pass")
	if got := a.String(); got != "1NT AllPass" {
		t.Errorf("display = %q", got)
	}
	a = mkAuction(t, North, "1NT", "Pass")
	if got := a.String(); got != "1NT Pass" {
		t.Errorf("display = %q", got)
	}
	if got := (Auction{}).String(); got != "(none)" {
		t.Errorf("empty display = %q", got)
	}
}

func TestAuctionDetailsCarryAlertMetadata(t *testing.T) {
	a := mkAuction(t, North, "1NT", "Pass", "Pass", "Pass")
	a.Calls[0].Alert = true
	a.Calls[0].Meaning = "15-17 balanced"

	d := a.Details()
	if len(d) != 4 {
		t.Fatalf("details = %d entries, want 4", len(d))
	}
	first := d[0]
	if first.Seat != "N" || first.Bid != "1NT" {
		t.Fatalf("first detail = %+v", first)
	}
	if !first.Alert || first.Meaning != "15-17 balanced" {
		t.Errorf("alert metadata lost: %+v", first)
	}
	for i, c := range d[1:] {
		if c.Bid != "Pass" || c.Alert || c.Meaning != "" {
			t.Errorf("detail %d = %+v, want plain Pass", i+1, c)
		}
	}
}
