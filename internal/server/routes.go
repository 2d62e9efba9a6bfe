package server

import (
	"net/http"
	"strings"
)

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Dashboard
	mux.HandleFunc("/api/portfolio", s.handlePortfolio)
	mux.HandleFunc("/api/portfolio/refresh", s.handlePortfolioRefresh)
	mux.HandleFunc("/api/portfolio/chart", s.handlePortfolioChart)

	// Investments
	mux.HandleFunc("/api/investments/", s.routeInvestments)

	// Instrument search and listings
	mux.HandleFunc("/api/search/crypto", s.handleSearchCrypto)
	mux.HandleFunc("/api/search/funds", s.handleSearchFunds)
	mux.HandleFunc("/api/search/stocks", s.handleSearchStocks)
	mux.HandleFunc("/api/crypto/top", s.handleTopCoins)
	mux.HandleFunc("/api/gold/rate", s.handleGoldRate)

	// Planning helpers
	mux.HandleFunc("/api/sip/preview", s.handleSIPPreview)
}

// routeInvestments dispatches /api/investments/{class} and
// /api/investments/{class}/... subpaths.
func (s *Server) routeInvestments(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/investments/")
	parts := strings.SplitN(rest, "/", 2)

	class := parts[0]
	if class == "" {
		WriteError(w, http.StatusNotFound, "Asset class is required")
		return
	}

	if len(parts) == 1 {
		// /api/investments/{class}: GET positions, POST new transaction
		switch r.Method {
		case http.MethodGet:
			s.handleClassPositions(w, r, class)
		case http.MethodPost:
			s.handleTransactionAdd(w, r, class)
		default:
			RequireMethod(w, r, http.MethodGet, http.MethodPost)
		}
		return
	}

	switch {
	case parts[1] == "transactions":
		s.handleTransactionList(w, r, class)
	case parts[1] == "import":
		s.handleTransactionImport(w, r, class)
	default:
		// /api/investments/{class}/{id}: DELETE one transaction
		s.handleTransactionDelete(w, r, class, parts[1])
	}
}
