package bridge

import (
	"fmt"
	"strconv"
	"strings"
)

// Strain ordering for encoding: C < D < H < S < NT.
type Strain int

const (
	Clubs Strain = iota
	Diamonds
	Hearts
	Spades
	NoTrump
)

func (st Strain) String() string {
	switch st {
	case Clubs:
		return "C"
	case Diamonds:
		return "D"
	case Hearts:
		return "H"
	case Spades:
		return "S"
	case NoTrump:
		return "NT"
	}
	return "?"
}

type BidType int

const (
	Pass BidType = iota
	Double
	Redouble
	LevelBid
)

// Bid is one call by a seat: Pass, Double, Redouble, or level+strain.
// Level and Strain are meaningful only when Type is LevelBid.
type Bid struct {
	Type   BidType
	Level  int // 1..7
	Strain Strain
}

func PassBid() Bid     { return Bid{Type: Pass} }
func DoubleBid() Bid   { return Bid{Type: Double} }
func RedoubleBid() Bid { return Bid{Type: Redouble} }
func NewBid(level int, strain Strain) Bid {
	return Bid{Type: LevelBid, Level: level, Strain: strain}
}

func (b Bid) String() string {
	switch b.Type {
	case Pass:
		return "Pass"
	case Double:
		return "X"
	case Redouble:
		return "XX"
	}
	return fmt.Sprintf("%d%v", b.Level, b.Strain)
}

// Bid wire codes: Pass=0, X=1, XX=2, codes 3 and 4 reserved,
// then 5+(level-1)*5+strain, so 1C=5 up to 7NT=39.
const (
	codePass     = 0
	codeDouble   = 1
	codeRedouble = 2
	codeFirstBid = 5
	codeLastBid  = 39
)

// UnknownBidCodeError reports a code outside {0,1,2} U [5,39]. Whether the
// caller rejects it or coerces it to Pass is a deployment policy, not a
// property of the codec.
type UnknownBidCodeError struct {
	Code int
}

func (e *UnknownBidCodeError) Error() string {
	return fmt.Sprintf("unknown bid code %d", e.Code)
}

// EncodeBid maps a Bid to its integer wire code.
func EncodeBid(b Bid) int {
	switch b.Type {
	case Pass:
		return codePass
	case Double:
		return codeDouble
	case Redouble:
		return codeRedouble
	}
	return codeFirstBid + (b.Level-1)*5 + int(b.Strain)
}

// DecodeBid is the inverse of EncodeBid over the valid code set.
func DecodeBid(code int) (Bid, error) {
	switch code {
	case codePass:
		return PassBid(), nil
	case codeDouble:
		return DoubleBid(), nil
	case codeRedouble:
		return RedoubleBid(), nil
	}
	if code < codeFirstBid || code > codeLastBid {
		return Bid{}, &UnknownBidCodeError{Code: code}
	}
	return NewBid(code/5, Strain(code%5)), nil
}

// ParseBid accepts display and PBN spellings: Pass/P/--, X/DBL, XX/RDBL,
// and level bids with N or NT for no-trump.
func ParseBid(s string) (Bid, error) {
	u := strings.ToUpper(strings.TrimSpace(s))
	switch u {
	case "PASS", "P", "--":
		return PassBid(), nil
	case "X", "DBL", "DOUBLE", "DB":
		return DoubleBid(), nil
	case "XX", "RDBL", "REDOUBLE", "RD":
		return RedoubleBid(), nil
	}
	if len(u) < 2 {
		return Bid{}, fmt.Errorf("bad bid %q", s)
	}
	level, err := strconv.Atoi(u[:1])
	if err != nil || level < 1 || level > 7 {
		return Bid{}, fmt.Errorf("bad bid %q", s)
	}
	var strain Strain
	switch u[1:] {
	case "C":
		strain = Clubs
	case "D":
		strain = Diamonds
	case "H":
		strain = Hearts
	case "S":
		strain = Spades
	case "N", "NT":
		strain = NoTrump
	default:
		return Bid{}, fmt.Errorf("bad bid %q", s)
	}
	return NewBid(level, strain), nil
}

// ReverseSuitOrder flips a hand between spade-first and club-first.
// It is its own inverse.
func ReverseSuitOrder(h Hand) Hand {
	out := Hand{Order: SpadeFirst}
	if h.Order == SpadeFirst {
		out.Order = ClubFirst
	}
	for i := range h.Suits {
		out.Suits[i] = h.Suits[3-i]
	}
	return out
}

// InOrder returns the hand converted to the requested suit order.
func (h Hand) InOrder(o SuitOrder) Hand {
	if h.Order == o {
		return h
	}
	return ReverseSuitOrder(h)
}
