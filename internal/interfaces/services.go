package interfaces

import (
	"context"

	"github.com/Rahul-1991/portfolio-app/internal/models"
)

// SortOrder selects how per-class position listings are ordered.
type SortOrder string

const (
	SortByName  SortOrder = "name"  // lexicographic, case-sensitive
	SortByGain  SortOrder = "pl"    // descending gain amount
	SortByValue SortOrder = "value" // descending current value
)

// PortfolioService is the valuation/aggregation core: it turns persisted
// transactions plus live quotes into positions, class views, and the
// consolidated dashboard snapshot.
type PortfolioService interface {
	// AddTransaction validates and persists a transaction, invalidating the
	// snapshot cache.
	AddTransaction(ctx context.Context, txn *models.Transaction) error

	// DeleteTransaction removes a transaction from its class list and
	// invalidates the snapshot cache. Uniform across all six classes.
	DeleteTransaction(ctx context.Context, class models.AssetClass, id string) error

	// ImportTransactions records a batch of holdings bought outside the app.
	// The whole batch is validated up front and the class list is rewritten
	// in one write, so a bad row aborts the import without partial state.
	// Returns the number of transactions imported.
	ImportTransactions(ctx context.Context, class models.AssetClass, txns []*models.Transaction) (int, error)

	// ListTransactions returns the raw stored list for one class.
	ListTransactions(ctx context.Context, class models.AssetClass) ([]*models.Transaction, error)

	// ClassPositions aggregates one class into valued positions, sorted.
	ClassPositions(ctx context.Context, class models.AssetClass, order SortOrder) ([]*models.InstrumentPosition, *models.PortfolioSummary, error)

	// Snapshot returns the cached dashboard snapshot, rebuilding it when
	// the cache is empty.
	Snapshot(ctx context.Context) (*models.PortfolioSnapshot, error)

	// BuildSnapshot recomputes the consolidated dashboard snapshot across
	// all six classes and overwrites the cached copy.
	BuildSnapshot(ctx context.Context) (*models.PortfolioSnapshot, error)

	// AllocationChartPNG renders the per-class allocation as a PNG.
	AllocationChartPNG(ctx context.Context) ([]byte, error)
}

// QuoteService fetches live market data for a set of instruments, caching
// results for a short TTL. Individual provider failures are absorbed: the
// returned QuoteSet simply omits what could not be fetched.
type QuoteService interface {
	Fetch(ctx context.Context, stocks, coins, schemes []string, needGold bool) *models.QuoteSet
}
