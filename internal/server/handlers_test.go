package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rahul-1991/portfolio-app/internal/app"
	"github.com/Rahul-1991/portfolio-app/internal/common"
	"github.com/Rahul-1991/portfolio-app/internal/interfaces"
	"github.com/Rahul-1991/portfolio-app/internal/models"
)

// stubPortfolio implements interfaces.PortfolioService with canned responses.
type stubPortfolio struct {
	snapshot  *models.PortfolioSnapshot
	positions []*models.InstrumentPosition
	summary   *models.PortfolioSummary
	added     []*models.Transaction
	imported  []*models.Transaction
	deleted   []string
	err       error
}

func (p *stubPortfolio) AddTransaction(ctx context.Context, txn *models.Transaction) error {
	if p.err != nil {
		return p.err
	}
	txn.ID = "test-id"
	p.added = append(p.added, txn)
	return nil
}

func (p *stubPortfolio) DeleteTransaction(ctx context.Context, class models.AssetClass, id string) error {
	if p.err != nil {
		return p.err
	}
	p.deleted = append(p.deleted, id)
	return nil
}

func (p *stubPortfolio) ImportTransactions(ctx context.Context, class models.AssetClass, txns []*models.Transaction) (int, error) {
	if p.err != nil {
		return 0, p.err
	}
	p.imported = append(p.imported, txns...)
	return len(txns), nil
}

func (p *stubPortfolio) ListTransactions(ctx context.Context, class models.AssetClass) ([]*models.Transaction, error) {
	return nil, p.err
}

func (p *stubPortfolio) ClassPositions(ctx context.Context, class models.AssetClass, order interfaces.SortOrder) ([]*models.InstrumentPosition, *models.PortfolioSummary, error) {
	if p.err != nil {
		return nil, nil, p.err
	}
	return p.positions, p.summary, nil
}

func (p *stubPortfolio) Snapshot(ctx context.Context) (*models.PortfolioSnapshot, error) {
	return p.snapshot, p.err
}

func (p *stubPortfolio) BuildSnapshot(ctx context.Context) (*models.PortfolioSnapshot, error) {
	return p.snapshot, p.err
}

func (p *stubPortfolio) AllocationChartPNG(ctx context.Context) ([]byte, error) {
	if p.err != nil {
		return nil, p.err
	}
	return []byte("\x89PNG\r\n"), nil
}

type stubCrypto struct{ err error }

func (c *stubCrypto) GetPrices(ctx context.Context, coinIDs []string) (map[string]*models.Quote, error) {
	return nil, c.err
}

func (c *stubCrypto) Search(ctx context.Context, query string) ([]*models.CoinInfo, error) {
	if c.err != nil {
		return nil, c.err
	}
	return []*models.CoinInfo{{ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin"}}, nil
}

func (c *stubCrypto) TopCoins(ctx context.Context, page, perPage int) ([]*models.CoinInfo, error) {
	if c.err != nil {
		return nil, c.err
	}
	return []*models.CoinInfo{{ID: "bitcoin", Symbol: "BTC", Name: "Bitcoin"}}, nil
}

type stubGold struct{}

func (g *stubGold) GetPrice(ctx context.Context) (*models.GoldQuote, error) {
	return &models.GoldQuote{PricePer10g: 65000}, nil
}

func newTestServer(portfolio *stubPortfolio) (*Server, *stubCrypto) {
	crypto := &stubCrypto{}
	a := &app.App{
		Config:           common.NewDefaultConfig(),
		Logger:           common.NewSilentLogger(),
		CryptoClient:     crypto,
		GoldClient:       &stubGold{},
		PortfolioService: portfolio,
		StartupTime:      time.Now(),
	}
	return NewServer(a), crypto
}

func doRequest(t *testing.T, srv *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(&stubPortfolio{})

	rec := doRequest(t, srv, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestHandlePortfolio(t *testing.T) {
	srv, _ := newTestServer(&stubPortfolio{
		snapshot: &models.PortfolioSnapshot{TotalInvested: 100000, CurrentValue: 110000, TotalGain: 10000},
	})

	rec := doRequest(t, srv, http.MethodGet, "/api/portfolio", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var snapshot models.PortfolioSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snapshot))
	assert.Equal(t, 110000.0, snapshot.CurrentValue)
}

func TestHandlePortfolioRefreshRequiresPost(t *testing.T) {
	srv, _ := newTestServer(&stubPortfolio{snapshot: &models.PortfolioSnapshot{}})

	rec := doRequest(t, srv, http.MethodGet, "/api/portfolio/refresh", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/api/portfolio/refresh", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandlePortfolioChart(t *testing.T) {
	srv, _ := newTestServer(&stubPortfolio{})

	rec := doRequest(t, srv, http.MethodGet, "/api/portfolio/chart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
}

func TestHandleTransactionAdd(t *testing.T) {
	stub := &stubPortfolio{}
	srv, _ := newTestServer(stub)

	rec := doRequest(t, srv, http.MethodPost, "/api/investments/stocks", map[string]interface{}{
		"name":        "Tata Consultancy",
		"invested_on": "2024-01-10",
		"equity": map[string]interface{}{
			"symbol":            "TCS",
			"quantity":          10,
			"average_price":     3500,
			"investment_amount": 35000,
		},
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, stub.added, 1)
	assert.Equal(t, models.AssetStocks, stub.added[0].Class)
	assert.Equal(t, "TCS", stub.added[0].Equity.Symbol)
	assert.Equal(t, 2024, stub.added[0].InvestedOn.Year())
}

func TestHandleTransactionAddBadDate(t *testing.T) {
	srv, _ := newTestServer(&stubPortfolio{})

	rec := doRequest(t, srv, http.MethodPost, "/api/investments/stocks", map[string]interface{}{
		"name":        "bad",
		"invested_on": "10/01/2024",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleTransactionAddUnknownClass(t *testing.T) {
	srv, _ := newTestServer(&stubPortfolio{})

	rec := doRequest(t, srv, http.MethodPost, "/api/investments/bonds", map[string]interface{}{
		"name": "x", "invested_on": "2024-01-10",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleTransactionImport(t *testing.T) {
	stub := &stubPortfolio{}
	srv, _ := newTestServer(stub)

	rec := doRequest(t, srv, http.MethodPost, "/api/investments/mf/import", map[string]interface{}{
		"transactions": []map[string]interface{}{
			{
				"name":        "Axis Bluechip Fund - Growth",
				"invested_on": "2024-03-01",
				"fund": map[string]interface{}{
					"scheme_code":       "120503",
					"units":             10.1235,
					"nav":               52.99,
					"investment_amount": 536,
				},
			},
		},
	})

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, stub.imported, 1)
	assert.Equal(t, models.AssetMutualFunds, stub.imported[0].Class)
	assert.Equal(t, "120503", stub.imported[0].Fund.SchemeCode)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1.0, resp["imported"])
}

func TestHandleTransactionImportRequiresPost(t *testing.T) {
	srv, _ := newTestServer(&stubPortfolio{})

	rec := doRequest(t, srv, http.MethodGet, "/api/investments/mf/import", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleTransactionDelete(t *testing.T) {
	stub := &stubPortfolio{}
	srv, _ := newTestServer(stub)

	rec := doRequest(t, srv, http.MethodDelete, "/api/investments/gold/txn-123", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"txn-123"}, stub.deleted)
}

func TestHandleClassPositions(t *testing.T) {
	srv, _ := newTestServer(&stubPortfolio{
		positions: []*models.InstrumentPosition{{Class: models.AssetStocks, Key: "TCS", CurrentValue: 2250}},
		summary:   &models.PortfolioSummary{CurrentValue: 2250, PositionCount: 1},
	})

	rec := doRequest(t, srv, http.MethodGet, "/api/investments/stocks?sort=pl", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Positions []*models.InstrumentPosition `json:"positions"`
		Summary   *models.PortfolioSummary     `json:"summary"`
		Class     models.AssetClass            `json:"class"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Positions, 1)
	assert.Equal(t, "TCS", resp.Positions[0].Key)
	assert.Equal(t, 1, resp.Summary.PositionCount)
}

func TestHandleSearchCrypto(t *testing.T) {
	srv, _ := newTestServer(&stubPortfolio{})

	rec := doRequest(t, srv, http.MethodGet, "/api/search/crypto?q=bit", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/search/crypto", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "missing query must 400")
}

func TestHandleSearchCryptoUpstreamFailure(t *testing.T) {
	srv, crypto := newTestServer(&stubPortfolio{})
	crypto.err = fmt.Errorf("upstream down")

	rec := doRequest(t, srv, http.MethodGet, "/api/search/crypto?q=bit", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHandleGoldRate(t *testing.T) {
	srv, _ := newTestServer(&stubPortfolio{})

	rec := doRequest(t, srv, http.MethodGet, "/api/gold/rate", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var quote models.GoldQuote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Equal(t, 65000.0, quote.PricePer10g)
}

func TestHandleSIPPreview(t *testing.T) {
	srv, _ := newTestServer(&stubPortfolio{})

	rec := doRequest(t, srv, http.MethodPost, "/api/sip/preview", map[string]interface{}{
		"start_date":   "2025-01-05",
		"frequency":    "Monthly",
		"installments": 12,
		"amount":       5000,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "2025-12-05", resp["end_date"])
	assert.Equal(t, 60000.0, resp["total_investment"])
}

func TestHandleSIPPreviewRejectsDay29(t *testing.T) {
	srv, _ := newTestServer(&stubPortfolio{})

	rec := doRequest(t, srv, http.MethodPost, "/api/sip/preview", map[string]interface{}{
		"start_date":   "2025-01-29",
		"frequency":    "Monthly",
		"installments": 12,
		"amount":       5000,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecoveryMiddleware(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/boom", func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	})
	handler := applyMiddleware(mux, common.NewSilentLogger())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(&stubPortfolio{})

	rec := doRequest(t, srv, http.MethodOptions, "/api/portfolio", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
