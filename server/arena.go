package main

import (
	"context"
	"log"
	"strings"

	"golang.org/x/sync/semaphore"

	"bridge-arena/server/auction"
	"bridge-arena/server/bridge"
	"bridge-arena/server/oracle"
	"bridge-arena/server/pbn"
	"bridge-arena/server/store"
)

// Arena generates auctions on demand. Each run spins up four fresh oracle
// instances, so concurrent runs are bounded by a semaphore to keep the
// engine subprocess count under control.
type Arena struct {
	factory oracle.Factory
	ns, ew  auction.ConventionSet
	scoring bridge.Scoring
	lenient bool
	sem     *semaphore.Weighted
	db      *store.DB // nil disables persistence
}

type ArenaConfig struct {
	Factory         oracle.Factory
	NS, EW          auction.ConventionSet
	Scoring         bridge.Scoring
	LenientBidCodes bool
	// MaxConcurrent caps simultaneous auctions; zero means 4.
	MaxConcurrent int
	DB            *store.DB
}

func NewArena(cfg ArenaConfig) *Arena {
	n := cfg.MaxConcurrent
	if n <= 0 {
		n = 4
	}
	return &Arena{
		factory: cfg.Factory,
		ns:      cfg.NS,
		ew:      cfg.EW,
		scoring: cfg.Scoring,
		lenient: cfg.LenientBidCodes,
		sem:     semaphore.NewWeighted(int64(n)),
		db:      cfg.DB,
	}
}

// ArenaResult is one generated auction plus its derived contract.
type ArenaResult struct {
	Auction  bridge.Auction
	Contract bridge.Contract
	// ID is the persisted record id, zero when persistence is off or failed.
	ID int64
}

// Generate runs one complete auction for the deal under the arena's
// default scoring. The context bounds both the admission wait and the run.
func (a *Arena) Generate(ctx context.Context, deal bridge.Deal) (ArenaResult, error) {
	return a.GenerateScored(ctx, deal, a.scoring)
}

// GenerateScored runs one auction with an explicit scoring form. Scoring is
// seeded per auction, so two requests with different forms never interfere.
func (a *Arena) GenerateScored(ctx context.Context, deal bridge.Deal, scoring bridge.Scoring) (ArenaResult, error) {
	if err := a.sem.Acquire(ctx, 1); err != nil {
		return ArenaResult{}, err
	}
	defer a.sem.Release(1)

	auc, err := auction.Run(deal, a.ns, a.ew, a.factory, auction.Config{
		LenientBidCodes: a.lenient,
		Scoring:         scoring,
	})
	if err != nil {
		return ArenaResult{Auction: auc}, err
	}

	res := ArenaResult{Auction: auc, Contract: bridge.ResolveContract(auc)}
	if a.db != nil {
		if id, err := a.record(ctx, deal, scoring, res); err != nil {
			log.Printf("arena: record auction: %v", err)
		} else {
			res.ID = id
		}
	}
	return res, nil
}

func (a *Arena) record(ctx context.Context, deal bridge.Deal, scoring bridge.Scoring, res ArenaResult) (int64, error) {
	rec := store.AuctionRecord{
		Deal:       pbn.FormatDeal(deal.Hands, deal.Dealer),
		Dealer:     deal.Dealer.String(),
		Vulnerable: deal.Vul.String(),
		Scoring:    scoring.String(),
		Calls:      res.Auction.Strings(),
		Details:    res.Auction.Details(),
		Contract:   res.Contract.String(),
	}
	if !res.Contract.PassedOut {
		rec.Declarer = res.Contract.Declarer.String()
	}
	return a.db.InsertAuction(ctx, rec)
}

// loadConventionPair reads both sides' cards; a missing path yields an
// empty set, which the engine treats as no agreements.
func loadConventionPair(nsPath, ewPath string) (ns, ew auction.ConventionSet, err error) {
	if strings.TrimSpace(nsPath) != "" {
		if ns, err = auction.LoadConventionCard(nsPath); err != nil {
			return ns, ew, err
		}
	}
	if strings.TrimSpace(ewPath) != "" {
		if ew, err = auction.LoadConventionCard(ewPath); err != nil {
			return ns, ew, err
		}
	}
	return ns, ew, nil
}
