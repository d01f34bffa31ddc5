package pbn

import (
	"strings"
	"testing"

	"bridge-arena/server/bridge"
)

const sampleDeal = "N:AKQJ.AKQJ.AKQ.AK T98.T987.JT9.QJT 765.654.876.9872 432.32.5432.6543"

func TestParseDealAnchorsAtSeat(t *testing.T) {
	hands, err := ParseDeal(sampleDeal)
	if err != nil {
		t.Fatalf("ParseDeal: %v", err)
	}
	if hands[bridge.North].Suits[0] != "AKQJ" {
		t.Errorf("north spades = %q", hands[bridge.North].Suits[0])
	}
	if hands[bridge.West].Suits[3] != "6543" {
		t.Errorf("west clubs = %q", hands[bridge.West].Suits[3])
	}

	// Same deal anchored at East must land every hand on the same seat.
	rotated := "E:T98.T987.JT9.QJT 765.654.876.9872 432.32.5432.6543 AKQJ.AKQJ.AKQ.AK"
	hands2, err := ParseDeal(rotated)
	if err != nil {
		t.Fatalf("ParseDeal rotated: %v", err)
	}
	for seat := bridge.North; seat <= bridge.West; seat++ {
		if hands[seat] != hands2[seat] {
			t.Errorf("seat %v differs across anchors: %v vs %v", seat, hands[seat], hands2[seat])
		}
	}
}

func TestParseDealErrors(t *testing.T) {
	cases := []string{
		"AKQJ.AKQJ.AKQ.AK T98.T987.JT9.QJT 765.654.876.9872 432.32.5432.6543", // no anchor
		"X:AKQJ.AKQJ.AKQ.AK T98.T987.JT9.QJT 765.654.876.9872 432.32.5432.6543",
		"N:AKQJ.AKQJ.AKQ.AK T98.T987.JT9.QJT 765.654.876.9872", // three hands
		"N:AKQJ.AKQJ.AKQ T98.T987.JT9.QJT 765.654.876.9872 432.32.5432.6543", // three suits
		"N:- T98.T987.JT9.QJT 765.654.876.9872 432.32.5432.6543 AK.AK.AK.AK", // hidden hand
		"N:AKQJ.AKQZ.AKQ.AK T98.T987.JT9.QJT 765.654.876.9872 432.32.5432.6543", // bad rank
	}
	for _, c := range cases {
		if _, err := ParseDeal(c); err == nil {
			t.Errorf("ParseDeal(%q) should fail", c)
		}
	}
}

func TestFormatDealRoundTrip(t *testing.T) {
	hands, err := ParseDeal(sampleDeal)
	if err != nil {
		t.Fatalf("ParseDeal: %v", err)
	}
	if got := FormatDeal(hands, bridge.North); got != sampleDeal {
		t.Fatalf("FormatDeal = %q, want %q", got, sampleDeal)
	}
	reanchored := FormatDeal(hands, bridge.South)
	if !strings.HasPrefix(reanchored, "S:765.654.876.9872 ") {
		t.Fatalf("re-anchored deal = %q", reanchored)
	}
}

func TestFormatAuction(t *testing.T) {
	got := FormatAuction([]string{"1H", "Pass", "2H", "Pass", "Pass", "Pass"})
	want := "1H Pass 2H Pass\nPass Pass\n"
	if got != want {
		t.Fatalf("FormatAuction = %q, want %q", got, want)
	}
	if FormatAuction(nil) != "" {
		t.Fatal("empty auction should format to nothing")
	}
}

func TestReadGames(t *testing.T) {
	input := strings.Join([]string{
		"% PBN 2.1",
		"[Event \"Practice\"]",
		"[Dealer \"S\"]",
		"[Vulnerable \"NS\"]",
		"[Deal \"" + sampleDeal + "\"]",
		"",
		"[Event \"Practice\"]",
		"[Board \"2\"]",
		"; second game, no deal",
		"",
		"",
	}, "\n")

	games, err := ReadGames(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadGames: %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("games = %d, want 2", len(games))
	}

	g := games[0]
	if g.Dealer() != bridge.South {
		t.Errorf("dealer = %v, want South", g.Dealer())
	}
	if g.Vulnerability() != bridge.VulNS {
		t.Errorf("vul = %v, want NS", g.Vulnerability())
	}
	deal, ok, err := g.Deal()
	if err != nil || !ok {
		t.Fatalf("Deal: ok=%v err=%v", ok, err)
	}
	if err := deal.Validate(); err != nil {
		t.Fatalf("parsed deal invalid: %v", err)
	}

	if _, ok, _ := games[1].Deal(); ok {
		t.Error("second game should have no deal")
	}
	if len(games[1].Other) != 1 || !strings.HasPrefix(games[1].Other[0], ";") {
		t.Errorf("second game other lines = %v", games[1].Other)
	}
}

func TestReadGamesDefaultsWhenTagsMissing(t *testing.T) {
	games, err := ReadGames(strings.NewReader("[Deal \"" + sampleDeal + "\"]\n"))
	if err != nil {
		t.Fatalf("ReadGames: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("games = %d, want 1", len(games))
	}
	if games[0].Dealer() != bridge.North || games[0].Vulnerability() != bridge.VulNone {
		t.Errorf("defaults = %v/%v", games[0].Dealer(), games[0].Vulnerability())
	}
}

func TestSetAuctionAndWriteGames(t *testing.T) {
	games, err := ReadGames(strings.NewReader(strings.Join([]string{
		"[Dealer \"N\"]",
		"[Deal \"" + sampleDeal + "\"]",
	}, "\n")))
	if err != nil {
		t.Fatalf("ReadGames: %v", err)
	}
	games[0].SetAuction([]string{"1NT", "Pass", "3NT", "Pass", "Pass", "Pass"})

	var out strings.Builder
	if err := WriteGames(&out, games); err != nil {
		t.Fatalf("WriteGames: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"[Dealer \"N\"]\n",
		"[Auction \"N\"]\n",
		"1NT Pass 3NT Pass\nPass Pass\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	// Rewriting must parse back to the same tags.
	again, err := ReadGames(strings.NewReader(got))
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	if v, _ := again[0].Tag("Auction"); v != "N" {
		t.Errorf("auction tag = %q", v)
	}
}

func TestSetTagUpdatesInPlace(t *testing.T) {
	g := Game{Tags: []Tag{{"Vulnerable", "None"}}}
	g.SetTag("vulnerable", "Both")
	if len(g.Tags) != 1 || g.Tags[0].Value != "Both" {
		t.Fatalf("tags = %v", g.Tags)
	}
	g.SetTag("Auction", "N")
	if len(g.Tags) != 2 {
		t.Fatalf("tags = %v", g.Tags)
	}
}

func TestSetAuctionReplacesPreviousSection(t *testing.T) {
	input := strings.Join([]string{
		"[Dealer \"N\"]",
		"[Deal \"" + sampleDeal + "\"]",
		"[Auction \"N\"]",
		"1H Pass 2H Pass",
		"Pass Pass",
	}, "\n")
	games, err := ReadGames(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadGames: %v", err)
	}
	if len(games[0].Auction) != 2 {
		t.Fatalf("auction body = %v", games[0].Auction)
	}

	games[0].SetAuction([]string{"1NT", "Pass", "Pass", "Pass"})

	var out strings.Builder
	if err := WriteGames(&out, games); err != nil {
		t.Fatalf("WriteGames: %v", err)
	}
	got := out.String()
	if strings.Contains(got, "1H") || strings.Contains(got, "2H") {
		t.Fatalf("stale auction body survived the rewrite:\n%s", got)
	}
	if !strings.Contains(got, "[Auction \"N\"]\n1NT Pass Pass Pass\n") {
		t.Fatalf("new auction section missing:\n%s", got)
	}
	if strings.Count(got, "[Auction") != 1 {
		t.Fatalf("auction tag duplicated:\n%s", got)
	}
}

func TestReadGamesKeepsAuctionBodySeparate(t *testing.T) {
	input := strings.Join([]string{
		"[Auction \"S\"]",
		"1C Pass 1S Pass",
		"[Contract \"1S\"]",
		"stray data line",
	}, "\n")
	games, err := ReadGames(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadGames: %v", err)
	}
	g := games[0]
	if len(g.Auction) != 1 || g.Auction[0] != "1C Pass 1S Pass" {
		t.Fatalf("auction body = %v", g.Auction)
	}
	// Lines after a later tag are not auction data.
	if len(g.Other) != 1 || g.Other[0] != "stray data line" {
		t.Fatalf("other lines = %v", g.Other)
	}
}
