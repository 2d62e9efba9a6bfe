package server

import (
	"fmt"
	"net/http"
	"strconv"
)

// --- Instrument search handlers ---
//
// These pass through to the provider clients so the add-investment screens
// can look up instruments without holding API keys client-side.

func (s *Server) handleSearchCrypto(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		WriteError(w, http.StatusBadRequest, "Query parameter q is required")
		return
	}

	coins, err := s.app.CryptoClient.Search(r.Context(), query)
	if err != nil {
		WriteError(w, http.StatusBadGateway, fmt.Sprintf("Crypto search failed: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"coins": coins})
}

func (s *Server) handleSearchFunds(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		WriteError(w, http.StatusBadRequest, "Query parameter q is required")
		return
	}

	funds, err := s.app.FundClient.Search(r.Context(), query)
	if err != nil {
		WriteError(w, http.StatusBadGateway, fmt.Sprintf("Fund search failed: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"funds": funds})
}

func (s *Server) handleSearchStocks(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		WriteError(w, http.StatusBadRequest, "Query parameter q is required")
		return
	}

	stocks, err := s.app.StockClient.Search(r.Context(), query)
	if err != nil {
		WriteError(w, http.StatusBadGateway, fmt.Sprintf("Stock search failed: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{"stocks": stocks})
}

// handleTopCoins lists coins by market cap for the add screen.
func (s *Server) handleTopCoins(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	page := queryInt(r, "page", 1)
	perPage := queryInt(r, "per_page", 50)

	coins, err := s.app.CryptoClient.TopCoins(r.Context(), page, perPage)
	if err != nil {
		WriteError(w, http.StatusBadGateway, fmt.Sprintf("Top coins failed: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"coins":    coins,
		"page":     page,
		"per_page": perPage,
	})
}

// handleGoldRate serves the current retail gold rate. The client falls back
// to a static rate when scraping fails, so this endpoint does not error.
func (s *Server) handleGoldRate(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	rate, err := s.app.GoldClient.GetPrice(r.Context())
	if err != nil {
		WriteError(w, http.StatusBadGateway, fmt.Sprintf("Gold rate failed: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, rate)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
