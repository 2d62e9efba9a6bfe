package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Rahul-1991/portfolio-app/internal/common"
	"github.com/Rahul-1991/portfolio-app/internal/interfaces"
	"github.com/Rahul-1991/portfolio-app/internal/models"
)

// --- System handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(s.app.StartupTime).Round(time.Second).String(),
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"version":     common.Version,
		"environment": s.app.Config.Environment,
	})
}

// --- Dashboard handlers ---

// handlePortfolio serves the consolidated snapshot, from cache when present.
func (s *Server) handlePortfolio(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	snapshot, err := s.app.PortfolioService.Snapshot(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error building portfolio: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, snapshot)
}

// handlePortfolioRefresh forces a rebuild past the snapshot cache.
func (s *Server) handlePortfolioRefresh(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	snapshot, err := s.app.PortfolioService.BuildSnapshot(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error rebuilding portfolio: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handlePortfolioChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	png, err := s.app.PortfolioService.AllocationChartPNG(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error rendering chart: %v", err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// --- Investment handlers ---

// parseClass validates the class path segment, writing a 404 on failure.
func parseClass(w http.ResponseWriter, raw string) (models.AssetClass, bool) {
	class := models.AssetClass(raw)
	if !class.Valid() {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("Unknown asset class %q", raw))
		return "", false
	}
	return class, true
}

func (s *Server) handleClassPositions(w http.ResponseWriter, r *http.Request, rawClass string) {
	class, ok := parseClass(w, rawClass)
	if !ok {
		return
	}

	order := interfaces.SortOrder(r.URL.Query().Get("sort"))
	positions, summary, err := s.app.PortfolioService.ClassPositions(r.Context(), class, order)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error loading positions: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"class":     class,
		"positions": positions,
		"summary":   summary,
	})
}

// transactionRequest is the create payload. InvestedOn accepts a plain date.
type transactionRequest struct {
	Name       string `json:"name"`
	InvestedOn string `json:"invested_on"`
	Notes      string `json:"notes"`

	Deposit *models.DepositDetails `json:"deposit,omitempty"`
	Equity  *models.EquityDetails  `json:"equity,omitempty"`
	Fund    *models.FundDetails    `json:"fund,omitempty"`
	Gold    *models.GoldDetails    `json:"gold,omitempty"`
}

func (s *Server) handleTransactionAdd(w http.ResponseWriter, r *http.Request, rawClass string) {
	class, ok := parseClass(w, rawClass)
	if !ok {
		return
	}

	var req transactionRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	investedOn, err := parseDate(req.InvestedOn)
	if err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid invested_on: %v", err))
		return
	}

	txn := &models.Transaction{
		Class:      class,
		Name:       req.Name,
		InvestedOn: investedOn,
		Notes:      req.Notes,
		Deposit:    req.Deposit,
		Equity:     req.Equity,
		Fund:       req.Fund,
		Gold:       req.Gold,
	}

	if err := s.app.PortfolioService.AddTransaction(r.Context(), txn); err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Error adding transaction: %v", err))
		return
	}

	WriteJSON(w, http.StatusCreated, txn)
}

// importRequest is the bulk import payload: holdings recorded outside the
// app, each shaped like a create payload.
type importRequest struct {
	Transactions []transactionRequest `json:"transactions"`
}

func (s *Server) handleTransactionImport(w http.ResponseWriter, r *http.Request, rawClass string) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}
	class, ok := parseClass(w, rawClass)
	if !ok {
		return
	}

	var req importRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	txns := make([]*models.Transaction, 0, len(req.Transactions))
	for i, tr := range req.Transactions {
		investedOn, err := parseDate(tr.InvestedOn)
		if err != nil {
			WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid invested_on in transaction %d: %v", i+1, err))
			return
		}
		txns = append(txns, &models.Transaction{
			Class:      class,
			Name:       tr.Name,
			InvestedOn: investedOn,
			Notes:      tr.Notes,
			Deposit:    tr.Deposit,
			Equity:     tr.Equity,
			Fund:       tr.Fund,
			Gold:       tr.Gold,
		})
	}

	count, err := s.app.PortfolioService.ImportTransactions(r.Context(), class, txns)
	if err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Error importing transactions: %v", err))
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"class":    class,
		"imported": count,
	})
}

func (s *Server) handleTransactionList(w http.ResponseWriter, r *http.Request, rawClass string) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	class, ok := parseClass(w, rawClass)
	if !ok {
		return
	}

	txns, err := s.app.PortfolioService.ListTransactions(r.Context(), class)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, fmt.Sprintf("Error listing transactions: %v", err))
		return
	}
	if txns == nil {
		txns = []*models.Transaction{}
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"class":        class,
		"transactions": txns,
	})
}

func (s *Server) handleTransactionDelete(w http.ResponseWriter, r *http.Request, rawClass, id string) {
	if !RequireMethod(w, r, http.MethodDelete) {
		return
	}
	class, ok := parseClass(w, rawClass)
	if !ok {
		return
	}

	if err := s.app.PortfolioService.DeleteTransaction(r.Context(), class, id); err != nil {
		WriteError(w, http.StatusNotFound, fmt.Sprintf("Error deleting transaction: %v", err))
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"deleted": id,
		"class":   class,
	})
}

// --- Planning handlers ---

// handleSIPPreview computes the schedule of a systematic investment plan:
// final installment date and total commitment, for the add-fund screen.
func (s *Server) handleSIPPreview(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var req struct {
		StartDate    string  `json:"start_date"`
		Frequency    string  `json:"frequency"`
		Installments int     `json:"installments"`
		Amount       float64 `json:"amount"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	start, err := parseDate(req.StartDate)
	if err != nil {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid start_date: %v", err))
		return
	}
	if !models.IsValidSIPDay(start.Day()) {
		WriteError(w, http.StatusBadRequest, "Installment day must be between 1 and 28")
		return
	}

	freq := models.SIPFrequency(req.Frequency)
	if freq.MonthsPerInstallment() == 0 {
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Unknown frequency %q", req.Frequency))
		return
	}
	if req.Installments < 1 {
		WriteError(w, http.StatusBadRequest, "Installments must be at least 1")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]interface{}{
		"start_date":       start.Format("2006-01-02"),
		"end_date":         models.SIPEndDate(start, freq, req.Installments).Format("2006-01-02"),
		"installments":     req.Installments,
		"total_investment": req.Amount * float64(req.Installments),
	})
}

// parseDate accepts a bare date or a full RFC 3339 timestamp.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
