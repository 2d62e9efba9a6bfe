package goldprice

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Rahul-1991/portfolio-app/internal/interfaces"
)

// memKV is an in-memory KVStore for rate persistence tests.
type memKV struct {
	values map[string]string
}

func newMemKV() *memKV { return &memKV{values: make(map[string]string)} }

func (m *memKV) Get(_ context.Context, key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", fmt.Errorf("key '%s': %w", key, interfaces.ErrKeyNotFound)
	}
	return v, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.values[key] = value
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	delete(m.values, key)
	return nil
}

const ratePage = `
<html><body>
<table class="table-conatiner">
<thead><tr><th>Gram</th><th>Today</th><th>Yesterday</th><th>Change</th></tr></thead>
<tbody>
<tr><td>1</td><td>&#x20b9;7,210</td><td>&#x20b9;7,150</td><td>&#x20b9;60</td></tr>
<tr><td>10</td><td>&#x20b9;72,100</td><td>&#x20b9;71,500</td><td>&#x20b9;600</td></tr>
<tr><td>100</td><td>&#x20b9;7,21,000</td><td>&#x20b9;7,15,000</td><td>&#x20b9;6,000</td></tr>
</tbody>
</table>
</body></html>`

func TestParseRatePage(t *testing.T) {
	quote, err := ParseRatePage(ratePage)
	if err != nil {
		t.Fatalf("ParseRatePage failed: %v", err)
	}

	if quote.PricePer10g != 72100 {
		t.Errorf("expected today price 72100, got %v", quote.PricePer10g)
	}
	if quote.PreviousPer10g != 71500 {
		t.Errorf("expected yesterday price 71500, got %v", quote.PreviousPer10g)
	}
	if quote.Change != 600 {
		t.Errorf("expected change 600, got %v", quote.Change)
	}
	if quote.PerGram() != 7210 {
		t.Errorf("expected per-gram price 7210, got %v", quote.PerGram())
	}
}

func TestParseRatePage_NoTable(t *testing.T) {
	if _, err := ParseRatePage("<html><body>maintenance</body></html>"); err == nil {
		t.Fatal("expected error when rate table is missing")
	}
}

func TestGetPrice_ScrapesPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ratePage))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	quote, err := client.GetPrice(context.Background())
	if err != nil {
		t.Fatalf("GetPrice failed: %v", err)
	}
	if quote.PricePer10g != 72100 {
		t.Errorf("expected 72100, got %v", quote.PricePer10g)
	}
}

func TestGetPrice_FallsBackOnFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	quote, err := client.GetPrice(context.Background())
	if err != nil {
		t.Fatalf("GetPrice must not fail, got: %v", err)
	}
	if quote.PricePer10g != FallbackPricePer10g {
		t.Errorf("expected fallback price %v, got %v", float64(FallbackPricePer10g), quote.PricePer10g)
	}
	if quote.Change != 0 {
		t.Errorf("expected zero change on fallback, got %v", quote.Change)
	}
}

func TestGetPrice_PersistsLastRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(ratePage))
	}))
	defer srv.Close()

	kv := newMemKV()
	client := NewClient(WithBaseURL(srv.URL), WithRateStore(kv))
	if _, err := client.GetPrice(context.Background()); err != nil {
		t.Fatalf("GetPrice failed: %v", err)
	}

	raw, err := kv.Get(context.Background(), lastRateKey)
	if err != nil {
		t.Fatalf("expected rate to be persisted: %v", err)
	}
	if !strings.Contains(raw, "72100") {
		t.Errorf("persisted rate missing scraped price: %s", raw)
	}
}

func TestGetPrice_ServesStoredRateOnFailure(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			w.Write([]byte(ratePage))
			return
		}
		http.Error(w, "gone", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL), WithRateStore(newMemKV()), WithRateLimit(100))
	if _, err := client.GetPrice(context.Background()); err != nil {
		t.Fatalf("first GetPrice failed: %v", err)
	}

	quote, err := client.GetPrice(context.Background())
	if err != nil {
		t.Fatalf("GetPrice must not fail, got: %v", err)
	}
	if quote.PricePer10g != 72100 {
		t.Errorf("expected last stored price 72100, got %v", quote.PricePer10g)
	}
}
