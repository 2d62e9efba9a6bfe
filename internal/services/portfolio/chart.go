package portfolio

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/Rahul-1991/portfolio-app/internal/common"
	"github.com/Rahul-1991/portfolio-app/internal/models"
)

// class bar colors, one per asset class in display order
var classColors = map[models.AssetClass]string{
	models.AssetRecurringDeposit: "0ea5e9", // sky-500
	models.AssetFixedDeposit:     "2563eb", // blue-600
	models.AssetStocks:           "16a34a", // green-600
	models.AssetMutualFunds:      "9333ea", // purple-600
	models.AssetCrypto:           "ea580c", // orange-600
	models.AssetGold:             "ca8a04", // yellow-600
}

// AllocationChartPNG renders the current per-class value allocation as a PNG
// bar chart. Classes with no value are omitted; a portfolio with no value at
// all is an error since an empty chart renders as garbage.
func (s *Service) AllocationChartPNG(ctx context.Context) ([]byte, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot for chart: %w", err)
	}
	return RenderAllocationChart(snapshot)
}

// RenderAllocationChart renders the snapshot's class allocation to PNG bytes.
func RenderAllocationChart(snapshot *models.PortfolioSnapshot) ([]byte, error) {
	if snapshot == nil || snapshot.CurrentValue <= 0 {
		return nil, fmt.Errorf("portfolio has no value to chart")
	}

	var bars []chart.Value
	for _, class := range models.AllAssetClasses() {
		cs, ok := snapshot.Investments[class]
		if !ok || cs.CurrentValue <= 0 {
			continue
		}
		bars = append(bars, chart.Value{
			Label: fmt.Sprintf("%s (%.1f%%)", class.DisplayName(), snapshot.AllocationPct(class)),
			Value: cs.CurrentValue,
			Style: chart.Style{
				FillColor:   drawing.ColorFromHex(classColors[class]),
				StrokeColor: drawing.ColorFromHex(classColors[class]),
			},
		})
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("portfolio has no value to chart")
	}

	graph := chart.BarChart{
		Title:  "Portfolio Allocation",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		BarWidth: 80,
		YAxis: chart.YAxis{
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return common.FormatCompact(f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("chart render failed: %w", err)
	}

	return buf.Bytes(), nil
}
