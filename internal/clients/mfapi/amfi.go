package mfapi

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
)

// AMFIURL is the all-schemes NAV dump published by AMFI, used as a bulk
// fallback when per-scheme lookups are unavailable.
const AMFIURL = "https://www.amfiindia.com/spages/NAVAll.txt"

// AMFIRecord is one scheme row from the AMFI NAV dump.
type AMFIRecord struct {
	SchemeCode string
	SchemeName string
	NAV        float64
	Date       string
}

// FetchAMFI downloads and parses the full AMFI NAV dump into a map keyed by
// scheme code.
func (c *Client) FetchAMFI(ctx context.Context) (map[string]AMFIRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.amfiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch AMFI data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("AMFI fetch returned status %d", resp.StatusCode)
	}

	return ParseAMFI(resp.Body)
}

// ParseAMFI parses the semicolon-separated NAVAll.txt format. Header lines,
// fund-house section labels, and blank lines are skipped; rows with an
// unparsable NAV (e.g. "N.A.") are dropped.
func ParseAMFI(r io.Reader) (map[string]AMFIRecord, error) {
	records := make(map[string]AMFIRecord)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "Scheme Code") {
			continue
		}

		parts := strings.Split(line, ";")
		if len(parts) < 4 {
			continue // section label or malformed row
		}

		nav, err := strconv.ParseFloat(strings.TrimSpace(parts[len(parts)-2]), 64)
		if err != nil {
			continue
		}

		// Name sits third from the end: the full dump is
		// Code;ISIN;ISIN;Name;NAV;Date, older extracts drop the ISINs.
		code := strings.TrimSpace(parts[0])
		records[code] = AMFIRecord{
			SchemeCode: code,
			SchemeName: strings.TrimSpace(parts[len(parts)-3]),
			NAV:        nav,
			Date:       strings.TrimSpace(parts[len(parts)-1]),
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read AMFI data: %w", err)
	}

	return records, nil
}
