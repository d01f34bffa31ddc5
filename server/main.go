package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"bridge-arena/server/bridge"
	"bridge-arena/server/oracle"
	"bridge-arena/server/store"
)

func mustEnv(keys ...string) {
	for _, k := range keys {
		if os.Getenv(k) == "" {
			log.Fatalf("Missing required env var %s. Put it in .env (dev) or set it on the host (prod).", k)
		}
	}
}
func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
func atoiDef(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
func asBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	_ = godotenv.Load()

	var migrate, batch bool
	for _, a := range os.Args[1:] {
		switch a {
		case "--migrate":
			migrate = true
		case "--batch":
			batch = true
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go watchSignals(cancel)

	var db *store.DB
	if dsn := getenv("DATABASE_URL", ""); dsn != "" {
		p, err := store.Open(dsn)
		if err != nil {
			if migrate {
				log.Fatal(err)
			}
			log.Printf("DB disabled (open failed): %v", err)
		} else {
			db = p
			defer db.Close(context.Background())
			if migrate || asBool(os.Getenv("AUTO_MIGRATE")) {
				if err := store.Migrate(context.Background(), db); err != nil {
					if migrate {
						log.Fatal(err)
					}
					log.Printf("migrate failed (continuing without DB): %v", err)
					db = nil
				} else {
					log.Println("migrated")
				}
			}
		}
	}
	if migrate {
		if db == nil {
			mustEnv("DATABASE_URL")
		}
		return
	}

	dryRun := batch && asBool(os.Getenv("DRY_RUN"))
	factory, err := buildOracleFactory(os.Getenv("ORACLE_CMD"), dryRun)
	if err != nil {
		log.Fatal(err)
	}
	scoring, err := bridge.ParseScoring(getenv("SCORING", "MP"))
	if err != nil {
		log.Fatal(err)
	}
	ns, ew, err := loadConventionPair(os.Getenv("NS_CONVENTIONS"), os.Getenv("EW_CONVENTIONS"))
	if err != nil {
		log.Fatal(err)
	}

	arena := NewArena(ArenaConfig{
		Factory:         factory,
		NS:              ns,
		EW:              ew,
		Scoring:         scoring,
		LenientBidCodes: asBool(os.Getenv("LENIENT_BID_CODES")),
		MaxConcurrent:   atoiDef(os.Getenv("MAX_CONCURRENT"), 0),
		DB:              db,
	})

	if batch {
		mustEnv("BATCH_INPUT")
		input := os.Getenv("BATCH_INPUT")
		output := getenv("BATCH_OUTPUT", strings.TrimSuffix(input, ".pbn")+".bid.pbn")
		stats, err := runBatch(ctx, arena, input, output, dryRun)
		if err != nil {
			log.Fatalf("batch: %v (deals=%d auctions=%d errors=%d)",
				err, stats.dealsProcessed, stats.auctionsGenerated, stats.errors)
		}
		if stats.errors > 0 {
			os.Exit(1)
		}
		return
	}

	port := getenv("PORT", "8080")
	r := Router(arena, db)
	srv := &http.Server{Addr: ":" + port, Handler: r, ReadTimeout: 15 * time.Second, WriteTimeout: 75 * time.Second}
	log.Printf("listening on http://localhost:%s (Ctrl+C to stop)", port)
	go func() {
		<-ctx.Done()
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutCancel()
		_ = srv.Shutdown(shutCtx)
	}()
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

// buildOracleFactory picks the engine. A batch dry run with no engine
// configured falls back to scripted all-pass oracles, enough to exercise
// the PBN plumbing end to end.
func buildOracleFactory(cmd string, dryRun bool) (oracle.Factory, error) {
	if strings.TrimSpace(cmd) != "" {
		return oracle.ProcessFactory(cmd), nil
	}
	if dryRun {
		return func() (oracle.Oracle, error) { return &oracle.Scripted{}, nil }, nil
	}
	return nil, fmt.Errorf("ORACLE_CMD is not set; configure the engine command or run --batch with DRY_RUN")
}

func watchSignals(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)
	<-c
	cancel()
}
