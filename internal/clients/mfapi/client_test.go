package mfapi

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGetNAV_DerivesDayChange(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"meta": {"fund_house": "SBI Mutual Fund", "scheme_name": "SBI Bluechip Fund", "scheme_code": 103504},
			"data": [
				{"date": "28-08-2026", "nav": "84.1234"},
				{"date": "27-08-2026", "nav": "83.5000"}
			]
		}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	quote, err := client.GetNAV(context.Background(), "103504")
	if err != nil {
		t.Fatalf("GetNAV failed: %v", err)
	}

	if quote.NAV != 84.1234 {
		t.Errorf("expected NAV 84.1234, got %v", quote.NAV)
	}
	if math.Abs(quote.ChangeAbs-0.6234) > 1e-9 {
		t.Errorf("expected change 0.6234, got %v", quote.ChangeAbs)
	}
	// (0.6234 / 83.50) × 100 ≈ 0.75
	if math.Abs(quote.ChangePct-0.75) > 0.01 {
		t.Errorf("expected change pct ~0.75, got %v", quote.ChangePct)
	}
	if quote.FundHouse != "SBI Mutual Fund" {
		t.Errorf("unexpected fund house %q", quote.FundHouse)
	}
}

func TestGetNAV_SingleDataPoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meta": {}, "data": [{"date": "28-08-2026", "nav": "10.0000"}]}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	quote, err := client.GetNAV(context.Background(), "100001")
	if err != nil {
		t.Fatalf("GetNAV failed: %v", err)
	}
	if quote.ChangeAbs != 0 || quote.ChangePct != 0 {
		t.Errorf("expected zero change with one data point, got %v / %v", quote.ChangeAbs, quote.ChangePct)
	}
}

func TestGetNAV_NoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"meta": {}, "data": []}`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	if _, err := client.GetNAV(context.Background(), "999999"); err == nil {
		t.Fatal("expected error for empty NAV history")
	}
}

func TestSearch_ParsesNumericSchemeCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"schemeCode": 103504, "schemeName": "SBI Bluechip Fund", "fundHouse": "SBI Mutual Fund"}
		]`))
	}))
	defer srv.Close()

	client := NewClient(WithBaseURL(srv.URL))
	funds, err := client.Search(context.Background(), "sbi")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(funds) != 1 {
		t.Fatalf("expected 1 fund, got %d", len(funds))
	}
	if funds[0].SchemeCode != "103504" {
		t.Errorf("expected scheme code 103504, got %s", funds[0].SchemeCode)
	}
}

func TestParseAMFI(t *testing.T) {
	data := `Scheme Code;Scheme Name;Net Asset Value;Date

Open Ended Schemes ( Equity Scheme - Large Cap Fund )
103504;SBI Bluechip Fund - Regular Plan - Growth;84.1234;28-Aug-2026
100001;Some Fund With Bad NAV;N.A.;28-Aug-2026
120503;INF209K01157;-;Axis Bluechip Fund - Growth;52.9900;28-Aug-2026
`

	records, err := ParseAMFI(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseAMFI failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("expected 2 parsable records, got %d", len(records))
	}
	if records["103504"].NAV != 84.1234 {
		t.Errorf("expected NAV 84.1234, got %v", records["103504"].NAV)
	}
	if records["103504"].SchemeName != "SBI Bluechip Fund - Regular Plan - Growth" {
		t.Errorf("unexpected name %q for 4-field row", records["103504"].SchemeName)
	}
	if records["120503"].SchemeName != "Axis Bluechip Fund - Growth" {
		t.Errorf("unexpected name %q for row with ISIN columns", records["120503"].SchemeName)
	}
	if records["120503"].Date != "28-Aug-2026" {
		t.Errorf("expected date 28-Aug-2026, got %s", records["120503"].Date)
	}
	if _, ok := records["100001"]; ok {
		t.Error("record with unparsable NAV should be dropped")
	}
}

func TestSearch_FallsBackToAMFI(t *testing.T) {
	amfi := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Join([]string{
			"Scheme Code;ISIN Div Payout;ISIN Div Reinvestment;Scheme Name;Net Asset Value;Date",
			"SBI Mutual Fund",
			"103504;INF200K01106;INF200K01107;SBI Bluechip Fund - Direct Growth;84.1234;28-Aug-2026",
			"120503;INF209K01157;-;Axis Midcap Fund - Growth;55.5000;28-Aug-2026",
		}, "\n")))
	}))
	defer amfi.Close()

	search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer search.Close()

	client := NewClient(WithBaseURL(search.URL), WithAMFIURL(amfi.URL))
	funds, err := client.Search(context.Background(), "bluechip")
	if err != nil {
		t.Fatalf("Search fallback failed: %v", err)
	}

	if len(funds) != 1 {
		t.Fatalf("expected 1 match from AMFI fallback, got %d", len(funds))
	}
	if funds[0].SchemeCode != "103504" {
		t.Errorf("unexpected scheme code %q", funds[0].SchemeCode)
	}
}
