package auction

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"bridge-arena/server/bridge"
	"bridge-arena/server/oracle"
)

// ConventionEntry is one raw key=value line from a convention card.
type ConventionEntry struct {
	Key   string
	Value string
}

// ConventionSet is the ordered convention description for one partnership.
// It is read-only once parsed and may be shared across all four agents of
// an auction.
type ConventionSet struct {
	Entries []ConventionEntry
}

// ParseConventionCard reads a flat convention card: `key = value` lines,
// blank lines and lines starting with '#' or ';' skipped, order preserved.
func ParseConventionCard(r io.Reader) (ConventionSet, error) {
	var set ConventionSet
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, ";") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		set.Entries = append(set.Entries, ConventionEntry{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
	}
	if err := sc.Err(); err != nil {
		return ConventionSet{}, fmt.Errorf("convention card: %w", err)
	}
	return set, nil
}

// LoadConventionCard parses a card file from disk.
func LoadConventionCard(path string) (ConventionSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return ConventionSet{}, err
	}
	defer f.Close()
	set, err := ParseConventionCard(f)
	if err != nil {
		return ConventionSet{}, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// ApplyConventions pushes one side's conventions into an oracle instance.
// "System type" and "Opponent type" are categorical integers with dedicated
// setters; everything else is a boolean toggle. Unrecognized keys and
// unparsable values are skipped, never fatal: the engine's convention
// vocabulary rarely matches any one card file exactly, and partial
// application is the expected outcome. Returns applied/skipped counts for
// diagnostics.
func ApplyConventions(bot oracle.Oracle, side bridge.Side, set ConventionSet) (applied, skipped int) {
	for _, e := range set.Entries {
		switch strings.ToLower(e.Key) {
		case "system type":
			v, err := strconv.Atoi(e.Value)
			if err != nil || bot.SetSystemType(side, v) != nil {
				skipped++
				continue
			}
		case "opponent type":
			v, err := strconv.Atoi(e.Value)
			if err != nil || bot.SetOpponentType(side, v) != nil {
				skipped++
				continue
			}
		default:
			on, err := parseToggle(e.Value)
			if err != nil || bot.SetConvention(side, e.Key, on) != nil {
				skipped++
				continue
			}
		}
		applied++
	}
	return applied, skipped
}

func parseToggle(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true":
		return true, nil
	case "0", "false":
		return false, nil
	}
	return false, fmt.Errorf("bad toggle %q", s)
}
