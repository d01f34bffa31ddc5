package store

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"bridge-arena/server/bridge"
)

//go:embed schema.sql
var schema embed.FS

type DB struct{ *pgxpool.Pool }

func Open(dsn string) (*DB, error) {
	p, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, err
	}
	return &DB{p}, nil
}

func (db *DB) Close(ctx context.Context)      { db.Pool.Close() }
func (db *DB) Ping(ctx context.Context) error { return db.Pool.Ping(ctx) }

func Migrate(ctx context.Context, db *DB) error {
	sqlBytes, err := schema.ReadFile("schema.sql")
	if err != nil {
		return err
	}
	_, err = db.Exec(ctx, string(sqlBytes))
	return err
}

/* -----------------------------
   Auction records
------------------------------*/

// AuctionRecord is one completed (or passed-out) auction as persisted.
// Deal is the PBN deal tag value; Calls are display strings in call order;
// Details carries the per-call alert metadata alongside.
type AuctionRecord struct {
	ID         int64
	Deal       string
	Dealer     string
	Vulnerable string
	Scoring    string
	Calls      []string
	Details    []bridge.CallDetail
	Contract   string
	Declarer   string
	CreatedAt  time.Time
}

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("store: not found")

func (db *DB) InsertAuction(ctx context.Context, rec AuctionRecord) (int64, error) {
	var id int64
	var declarer any
	if rec.Declarer != "" {
		declarer = rec.Declarer
	}
	var details any
	if len(rec.Details) > 0 {
		b, err := json.Marshal(rec.Details)
		if err != nil {
			return 0, err
		}
		details = b
	}
	err := db.QueryRow(ctx, `
        INSERT INTO auctions(deal, dealer, vulnerable, scoring, calls, call_details, contract, declarer)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id
    `, rec.Deal, rec.Dealer, rec.Vulnerable, rec.Scoring, rec.Calls, details, rec.Contract, declarer).Scan(&id)
	return id, err
}

func (db *DB) GetAuction(ctx context.Context, id int64) (AuctionRecord, error) {
	rec, err := scanAuction(db.QueryRow(ctx, `
        SELECT id, deal, dealer, vulnerable, scoring, calls, call_details, contract, declarer, created_at
          FROM auctions
         WHERE id = $1
    `, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return AuctionRecord{}, ErrNotFound
	}
	return rec, err
}

// RecentAuctions returns the newest records first, at most limit of them.
func (db *DB) RecentAuctions(ctx context.Context, limit int) ([]AuctionRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Query(ctx, `
        SELECT id, deal, dealer, vulnerable, scoring, calls, call_details, contract, declarer, created_at
          FROM auctions
         ORDER BY created_at DESC, id DESC
         LIMIT $1
    `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AuctionRecord
	for rows.Next() {
		rec, err := scanAuction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func scanAuction(row pgx.Row) (AuctionRecord, error) {
	var rec AuctionRecord
	var declarer *string
	var details []byte
	err := row.Scan(
		&rec.ID, &rec.Deal, &rec.Dealer, &rec.Vulnerable, &rec.Scoring,
		&rec.Calls, &details, &rec.Contract, &declarer, &rec.CreatedAt,
	)
	if declarer != nil {
		rec.Declarer = *declarer
	}
	if err == nil && len(details) > 0 {
		err = json.Unmarshal(details, &rec.Details)
	}
	return rec, err
}
