package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"bridge-arena/server/bridge"
	"bridge-arena/server/pbn"
	"bridge-arena/server/store"
)

// generateRequest mirrors the wire shape batch tooling already speaks:
// the deal as a PBN deal tag value plus its context.
type generateRequest struct {
	Deal struct {
		PBN           string `json:"pbn"`
		Dealer        string `json:"dealer"`
		Vulnerability string `json:"vulnerability"`
		Scoring       string `json:"scoring"`
	} `json:"deal"`
}

type generateResponse struct {
	Success  bool                `json:"success"`
	Auction  []string            `json:"auction,omitempty"`
	Calls    []bridge.CallDetail `json:"calls,omitempty"`
	Contract string              `json:"contract,omitempty"`
	Declarer string              `json:"declarer,omitempty"`
	ID       int64               `json:"id,omitempty"`
	Error    string              `json:"error,omitempty"`
}

func Router(arena *Arena, db *store.DB) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/api/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, map[string]any{"ok": true})
	})

	r.Post("/api/auction/generate", func(w http.ResponseWriter, req *http.Request) {
		var in generateRequest
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			writeJSONStatus(w, http.StatusBadRequest, generateResponse{Error: "bad request: " + err.Error()})
			return
		}
		deal, err := dealFromRequest(in)
		if err != nil {
			writeJSONStatus(w, http.StatusBadRequest, generateResponse{Error: err.Error()})
			return
		}

		scoring, err := bridge.ParseScoring(in.Deal.Scoring)
		if err != nil {
			writeJSONStatus(w, http.StatusBadRequest, generateResponse{Error: err.Error()})
			return
		}

		res, err := arena.GenerateScored(req.Context(), deal, scoring)
		if err != nil {
			log.Printf("generate: %v", err)
			writeJSONStatus(w, http.StatusBadGateway, generateResponse{
				Auction: res.Auction.Strings(),
				Calls:   res.Auction.Details(),
				Error:   err.Error(),
			})
			return
		}

		out := generateResponse{
			Success:  true,
			Auction:  res.Auction.Strings(),
			Calls:    res.Auction.Details(),
			Contract: res.Contract.String(),
			ID:       res.ID,
		}
		if !res.Contract.PassedOut {
			out.Declarer = res.Contract.Declarer.String()
		}
		writeJSON(w, out)
	})

	r.Get("/api/auctions", func(w http.ResponseWriter, req *http.Request) {
		if db == nil {
			http.Error(w, "persistence disabled", http.StatusServiceUnavailable)
			return
		}
		limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
		recs, err := db.RecentAuctions(req.Context(), limit)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{"auctions": recs})
	})

	r.Get("/api/auctions/{id}", func(w http.ResponseWriter, req *http.Request) {
		if db == nil {
			http.Error(w, "persistence disabled", http.StatusServiceUnavailable)
			return
		}
		id, err := strconv.ParseInt(chi.URLParam(req, "id"), 10, 64)
		if err != nil {
			http.Error(w, "bad id", http.StatusBadRequest)
			return
		}
		rec, err := db.GetAuction(req.Context(), id)
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		writeJSON(w, rec)
	})

	return r
}

func dealFromRequest(in generateRequest) (bridge.Deal, error) {
	hands, err := pbn.ParseDeal(in.Deal.PBN)
	if err != nil {
		return bridge.Deal{}, err
	}
	dealer := bridge.North
	if in.Deal.Dealer != "" {
		if dealer, err = bridge.ParseSeat(in.Deal.Dealer); err != nil {
			return bridge.Deal{}, err
		}
	}
	vul, err := bridge.ParseVulnerability(in.Deal.Vulnerability)
	if err != nil {
		return bridge.Deal{}, err
	}
	deal := bridge.Deal{Hands: hands, Dealer: dealer, Vul: vul}
	return deal, deal.Validate()
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeJSONStatus(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
