package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pterm/pterm"

	"bridge-arena/server/pbn"
)

// batchStats summarizes one PBN batch run.
type batchStats struct {
	dealsProcessed    int
	auctionsGenerated int
	errors            int
}

// runBatch reads every game from inputPath, generates an auction for each
// game that carries a deal, and rewrites the file to outputPath with the
// auctions added. Games without a Deal tag pass through untouched. A dry
// run skips the write.
func runBatch(ctx context.Context, arena *Arena, inputPath, outputPath string, dryRun bool) (batchStats, error) {
	var stats batchStats

	f, err := os.Open(inputPath)
	if err != nil {
		return stats, err
	}
	games, err := pbn.ReadGames(f)
	f.Close()
	if err != nil {
		return stats, err
	}
	pterm.Info.Printfln("Found %d games in %s", len(games), inputPath)

	bar, _ := pterm.DefaultProgressbar.WithTotal(len(games)).WithTitle("Bidding").Start()
	for i := range games {
		bar.Increment()
		g := &games[i]

		deal, ok, err := g.Deal()
		if !ok {
			continue
		}
		stats.dealsProcessed++
		if err != nil {
			stats.errors++
			pterm.Error.Printfln("Game %d: %v", i+1, err)
			continue
		}

		res, err := arena.Generate(ctx, deal)
		if err != nil {
			stats.errors++
			pterm.Error.Printfln("Game %d: %v", i+1, err)
			if ctx.Err() != nil {
				break
			}
			continue
		}
		stats.auctionsGenerated++
		g.SetAuction(res.Auction.Strings())
		g.SetTag("Contract", res.Contract.String())
	}
	if _, err := bar.Stop(); err == nil {
		pterm.Println()
	}

	if !dryRun {
		out, err := os.Create(outputPath)
		if err != nil {
			return stats, err
		}
		if err := pbn.WriteGames(out, games); err != nil {
			out.Close()
			return stats, err
		}
		if err := out.Close(); err != nil {
			return stats, err
		}
		pterm.Success.Printfln("Wrote %s", outputPath)
	}

	printBatchSummary(stats)
	if ctx.Err() != nil {
		return stats, ctx.Err()
	}
	return stats, nil
}

func printBatchSummary(stats batchStats) {
	data := pterm.TableData{
		{"Deals processed", fmt.Sprintf("%d", stats.dealsProcessed)},
		{"Auctions generated", fmt.Sprintf("%d", stats.auctionsGenerated)},
		{"Errors", fmt.Sprintf("%d", stats.errors)},
	}
	_ = pterm.DefaultTable.WithData(data).Render()
}
