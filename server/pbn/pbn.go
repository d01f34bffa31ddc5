// Package pbn reads and writes the slice of Portable Bridge Notation the
// batch pipeline needs: tag pairs, deal tags, and auction sections. It is
// not a full PBN implementation; lines it does not understand are carried
// through untouched so rewritten files stay faithful to their input.
package pbn

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"bridge-arena/server/bridge"
)

// Tag is one `[Name "Value"]` pair.
type Tag struct {
	Name  string
	Value string
}

// Game is one game record: its tag pairs in file order, the auction
// section body (the data lines following the Auction tag), and every other
// line (comments, escape lines, unrecognized sections) verbatim.
type Game struct {
	Tags    []Tag
	Auction []string
	Other   []string
}

// Tag returns the value of the named tag, case-insensitively.
func (g *Game) Tag(name string) (string, bool) {
	for _, t := range g.Tags {
		if strings.EqualFold(t.Name, name) {
			return t.Value, true
		}
	}
	return "", false
}

// SetTag updates the named tag in place, or appends it.
func (g *Game) SetTag(name, value string) {
	for i, t := range g.Tags {
		if strings.EqualFold(t.Name, name) {
			g.Tags[i].Value = value
			return
		}
	}
	g.Tags = append(g.Tags, Tag{Name: name, Value: value})
}

// Dealer reads the Dealer tag, defaulting to North when absent or
// unparsable, the way pair-generation tooling conventionally does.
func (g *Game) Dealer() bridge.Seat {
	if v, ok := g.Tag("Dealer"); ok {
		if s, err := bridge.ParseSeat(strings.TrimSpace(v)); err == nil {
			return s
		}
	}
	return bridge.North
}

// Vulnerability reads the Vulnerable tag, defaulting to none.
func (g *Game) Vulnerability() bridge.Vulnerability {
	if v, ok := g.Tag("Vulnerable"); ok {
		if vul, err := bridge.ParseVulnerability(strings.TrimSpace(v)); err == nil {
			return vul
		}
	}
	return bridge.VulNone
}

// Deal assembles the full deal from the Deal, Dealer, and Vulnerable tags.
// The second return is false when the game has no Deal tag at all.
func (g *Game) Deal() (bridge.Deal, bool, error) {
	v, ok := g.Tag("Deal")
	if !ok {
		return bridge.Deal{}, false, nil
	}
	hands, err := ParseDeal(v)
	if err != nil {
		return bridge.Deal{}, true, err
	}
	return bridge.Deal{Hands: hands, Dealer: g.Dealer(), Vul: g.Vulnerability()}, true, nil
}

// ParseDeal decodes a Deal tag value: an anchor seat, a colon, then four
// dot-separated hands clockwise from that seat, suits spade-first. The
// returned array is indexed by seat, not by position in the string.
func ParseDeal(value string) ([4]bridge.Hand, error) {
	var hands [4]bridge.Hand
	anchor, rest, found := strings.Cut(strings.TrimSpace(value), ":")
	if !found {
		return hands, fmt.Errorf("deal %q: missing anchor seat", value)
	}
	first, err := bridge.ParseSeat(anchor)
	if err != nil {
		return hands, fmt.Errorf("deal %q: %w", value, err)
	}
	fields := strings.Fields(rest)
	if len(fields) != 4 {
		return hands, fmt.Errorf("deal %q: %d hands, want 4", value, len(fields))
	}
	for i, f := range fields {
		if f == "-" {
			return hands, fmt.Errorf("deal %q: hidden hands are not supported", value)
		}
		suits := strings.Split(f, ".")
		if len(suits) != 4 {
			return hands, fmt.Errorf("deal %q: hand %q has %d suits, want 4", value, f, len(suits))
		}
		seat := bridge.Seat((int(first) + i) % 4)
		h := bridge.Hand{Order: bridge.SpadeFirst}
		copy(h.Suits[:], suits)
		if err := h.Validate(); err != nil {
			return hands, fmt.Errorf("deal %q: seat %v: %w", value, seat, err)
		}
		hands[seat] = h
	}
	return hands, nil
}

// FormatDeal is the inverse of ParseDeal, anchored at the given seat.
func FormatDeal(hands [4]bridge.Hand, first bridge.Seat) string {
	parts := make([]string, 4)
	for i := 0; i < 4; i++ {
		h := hands[(int(first)+i)%4].InOrder(bridge.SpadeFirst)
		parts[i] = strings.Join(h.Suits[:], ".")
	}
	return fmt.Sprintf("%s:%s", first, strings.Join(parts, " "))
}

// FormatAuction lays calls out four per line, one bidding round each.
func FormatAuction(calls []string) string {
	var b strings.Builder
	for _, line := range auctionLines(calls) {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// SetAuction replaces any previous auction section with the given calls,
// anchored at the game's dealer.
func (g *Game) SetAuction(calls []string) {
	g.SetTag("Auction", g.Dealer().String())
	g.Auction = auctionLines(calls)
}

func auctionLines(calls []string) []string {
	var out []string
	for i := 0; i < len(calls); i += 4 {
		end := i + 4
		if end > len(calls) {
			end = len(calls)
		}
		out = append(out, strings.Join(calls[i:end], " "))
	}
	return out
}

// ReadGames parses a PBN stream into game records. Games are separated by
// blank lines; comment and escape lines are preserved in Other.
func ReadGames(r io.Reader) ([]Game, error) {
	var games []Game
	var cur *Game
	inAuction := false
	flush := func() {
		if cur != nil && len(cur.Tags) > 0 {
			games = append(games, *cur)
		}
		cur = nil
		inAuction = false
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		trimmed := strings.TrimSpace(line)

		if trimmed == "" {
			flush()
			continue
		}
		if cur == nil {
			cur = &Game{}
		}
		if strings.HasPrefix(trimmed, "%") || strings.HasPrefix(trimmed, ";") {
			cur.Other = append(cur.Other, line)
			continue
		}
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			if name, value, ok := parseTagPair(trimmed); ok {
				cur.Tags = append(cur.Tags, Tag{Name: name, Value: value})
				inAuction = strings.EqualFold(name, "Auction")
			}
			continue
		}
		// Data lines belong to the section opened by the last tag.
		if inAuction {
			cur.Auction = append(cur.Auction, line)
		} else {
			cur.Other = append(cur.Other, line)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read pbn: %w", err)
	}
	flush()
	return games, nil
}

// WriteGames writes game records back out, one blank line between games.
// The auction body follows its tag directly, as the section form requires.
func WriteGames(w io.Writer, games []Game) error {
	bw := bufio.NewWriter(w)
	for i, g := range games {
		if i > 0 {
			fmt.Fprintln(bw)
		}
		for _, t := range g.Tags {
			fmt.Fprintf(bw, "[%s %q]\n", t.Name, t.Value)
			if strings.EqualFold(t.Name, "Auction") {
				for _, line := range g.Auction {
					fmt.Fprintln(bw, line)
				}
			}
		}
		for _, line := range g.Other {
			fmt.Fprintln(bw, line)
		}
	}
	return bw.Flush()
}

func parseTagPair(line string) (string, string, bool) {
	inner := strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
	name, value, found := strings.Cut(inner, " ")
	if !found {
		return "", "", false
	}
	return name, strings.Trim(strings.TrimSpace(value), "\""), true
}
