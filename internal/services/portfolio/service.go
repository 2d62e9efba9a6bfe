// Package portfolio implements the valuation and aggregation core: it turns
// persisted transactions plus live quotes into positions, class views, and
// the consolidated dashboard snapshot.
package portfolio

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Rahul-1991/portfolio-app/internal/common"
	"github.com/Rahul-1991/portfolio-app/internal/finmath"
	"github.com/Rahul-1991/portfolio-app/internal/interfaces"
	"github.com/Rahul-1991/portfolio-app/internal/models"
	"github.com/Rahul-1991/portfolio-app/internal/services/valuation"
)

// Service implements interfaces.PortfolioService over the storage manager
// and the quote service.
type Service struct {
	storage interfaces.StorageManager
	quotes  interfaces.QuoteService
	logger  *common.Logger
	now     func() time.Time
}

// NewService creates the portfolio service.
func NewService(storage interfaces.StorageManager, quotes interfaces.QuoteService, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewDefaultLogger()
	}
	return &Service{
		storage: storage,
		quotes:  quotes,
		logger:  logger,
		now:     time.Now,
	}
}

// AddTransaction validates and persists a transaction. Deposit maturity
// values are materialized at create time so the stored record is
// self-contained. The snapshot cache is invalidated so the next dashboard
// read sees the new holding.
func (s *Service) AddTransaction(ctx context.Context, txn *models.Transaction) error {
	if txn == nil {
		return fmt.Errorf("transaction is required")
	}

	now := s.now()
	if txn.ID == "" {
		txn.ID = uuid.NewString()
	}
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = now
	}

	if err := txn.Validate(now); err != nil {
		return fmt.Errorf("invalid transaction: %w", err)
	}
	materializeMaturity(txn)

	if err := s.storage.Transactions().Append(ctx, txn); err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}

	s.invalidateSnapshot(ctx)

	s.logger.Info().
		Str("id", txn.ID).
		Str("class", string(txn.Class)).
		Str("name", txn.Name).
		Msg("Transaction added")

	return nil
}

// ImportTransactions records holdings bought outside the app, such as fund
// units purchased directly with the AMC. The batch is validated and
// normalized up front and the class list is rewritten in a single write, so
// a bad row aborts the import without leaving partial state behind.
func (s *Service) ImportTransactions(ctx context.Context, class models.AssetClass, txns []*models.Transaction) (int, error) {
	if !class.Valid() {
		return 0, fmt.Errorf("unknown asset class %q", class)
	}
	if len(txns) == 0 {
		return 0, fmt.Errorf("no transactions to import")
	}

	now := s.now()
	for i, txn := range txns {
		if txn == nil {
			return 0, fmt.Errorf("transaction %d is required", i+1)
		}
		if txn.Class == "" {
			txn.Class = class
		}
		if txn.Class != class {
			return 0, fmt.Errorf("transaction %d has class %q, expected %q", i+1, txn.Class, class)
		}
		if txn.ID == "" {
			txn.ID = uuid.NewString()
		}
		if txn.CreatedAt.IsZero() {
			txn.CreatedAt = now
		}
		normalizeImported(txn)
		if err := txn.Validate(now); err != nil {
			return 0, fmt.Errorf("invalid transaction %d: %w", i+1, err)
		}
		materializeMaturity(txn)
	}

	existing, err := s.storage.Transactions().List(ctx, class)
	if err != nil {
		return 0, fmt.Errorf("failed to load %s transactions: %w", class, err)
	}

	merged := append(existing, txns...)
	if err := s.storage.Transactions().ReplaceAll(ctx, class, merged); err != nil {
		return 0, fmt.Errorf("failed to import transactions: %w", err)
	}

	s.invalidateSnapshot(ctx)

	s.logger.Info().
		Str("class", string(class)).
		Int("count", len(txns)).
		Msg("Transactions imported")

	return len(txns), nil
}

// DeleteTransaction removes one transaction from its class list. Deletion
// works the same way for every class.
func (s *Service) DeleteTransaction(ctx context.Context, class models.AssetClass, id string) error {
	if !class.Valid() {
		return fmt.Errorf("unknown asset class %q", class)
	}

	if err := s.storage.Transactions().Delete(ctx, class, id); err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	s.invalidateSnapshot(ctx)

	s.logger.Info().
		Str("id", id).
		Str("class", string(class)).
		Msg("Transaction deleted")

	return nil
}

// ListTransactions returns the stored list for one class in insertion order.
func (s *Service) ListTransactions(ctx context.Context, class models.AssetClass) ([]*models.Transaction, error) {
	if !class.Valid() {
		return nil, fmt.Errorf("unknown asset class %q", class)
	}
	return s.storage.Transactions().List(ctx, class)
}

// ClassPositions aggregates and values one class, returning its positions in
// the requested order alongside the class totals.
func (s *Service) ClassPositions(ctx context.Context, class models.AssetClass, order interfaces.SortOrder) ([]*models.InstrumentPosition, *models.PortfolioSummary, error) {
	if !class.Valid() {
		return nil, nil, fmt.Errorf("unknown asset class %q", class)
	}

	txns, err := s.storage.Transactions().List(ctx, class)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load %s transactions: %w", class, err)
	}

	positions := Aggregate(class, txns)
	stocks, coins, schemes, needGold := quoteRequest(class, positions)
	quotes := s.quotes.Fetch(ctx, stocks, coins, schemes, needGold)

	now := s.now()
	for _, pos := range positions {
		valuation.Value(pos, quotes, now)
	}

	SortPositions(positions, order)

	summary := Summarize(positions)
	summary.XIRRPct = ClassXIRR(positions, now)
	return positions, summary, nil
}

// Snapshot serves the cached dashboard snapshot, rebuilding only when the
// cache is empty. Mutations invalidate the cache rather than patching it.
func (s *Service) Snapshot(ctx context.Context) (*models.PortfolioSnapshot, error) {
	cached, err := s.storage.Snapshots().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot cache: %w", err)
	}
	if cached != nil {
		return cached, nil
	}
	return s.BuildSnapshot(ctx)
}

// BuildSnapshot recomputes the consolidated snapshot across all six classes
// and overwrites the cached copy wholesale. Class loads run concurrently; a
// class whose load fails contributes an empty slice rather than failing the
// whole dashboard.
func (s *Service) BuildSnapshot(ctx context.Context) (*models.PortfolioSnapshot, error) {
	classes := models.AllAssetClasses()
	lists := make([][]*models.Transaction, len(classes))

	var wg sync.WaitGroup
	for i, class := range classes {
		wg.Add(1)
		go func(i int, class models.AssetClass) {
			defer wg.Done()
			txns, err := s.storage.Transactions().List(ctx, class)
			if err != nil {
				s.logger.Warn().Err(err).Str("class", string(class)).Msg("Class load failed, omitting from snapshot")
				return
			}
			lists[i] = txns
		}(i, class)
	}
	wg.Wait()

	positionsByClass := make(map[models.AssetClass][]*models.InstrumentPosition, len(classes))
	var all []*models.InstrumentPosition
	for i, class := range classes {
		positions := Aggregate(class, lists[i])
		positionsByClass[class] = positions
		all = append(all, positions...)
	}

	stocks, coins, schemes, needGold := snapshotQuoteRequest(positionsByClass)
	quotes := s.quotes.Fetch(ctx, stocks, coins, schemes, needGold)

	now := s.now()
	snapshot := &models.PortfolioSnapshot{
		Investments: make(map[models.AssetClass]models.ClassSummary, len(classes)),
		GeneratedAt: now,
	}

	for _, class := range classes {
		positions := positionsByClass[class]
		for _, pos := range positions {
			valuation.Value(pos, quotes, now)
		}

		summary := Summarize(positions)
		snapshot.Investments[class] = models.ClassSummary{
			Invested:     summary.TotalInvested,
			Count:        summary.PositionCount,
			CurrentValue: summary.CurrentValue,
		}
		snapshot.TotalInvested += summary.TotalInvested
		snapshot.CurrentValue += summary.CurrentValue
	}

	snapshot.TotalGain = snapshot.CurrentValue - snapshot.TotalInvested
	snapshot.GainPct = finmath.SimpleReturnPct(snapshot.CurrentValue, snapshot.TotalInvested)

	if err := s.storage.Snapshots().Put(ctx, snapshot); err != nil {
		return nil, fmt.Errorf("failed to cache snapshot: %w", err)
	}

	s.logger.Debug().
		Str("invested", common.FormatRupees(snapshot.TotalInvested, 0)).
		Str("current", common.FormatRupees(snapshot.CurrentValue, 0)).
		Int("positions", len(all)).
		Msg("Snapshot rebuilt")

	return snapshot, nil
}

// materializeMaturity stamps the deposit maturity value at create time so
// the stored record is self-contained.
func materializeMaturity(txn *models.Transaction) {
	d := txn.Deposit
	if d == nil {
		return
	}
	switch txn.Class {
	case models.AssetFixedDeposit:
		d.MaturityAmount = finmath.FDMaturityValue(d.Amount, d.AnnualRatePct, d.DurationMonths)
	case models.AssetRecurringDeposit:
		d.MaturityAmount = finmath.RDMaturityValue(d.Amount, d.DurationMonths, d.AnnualRatePct)
	}
}

// normalizeImported clamps imported figures to the precision manual entry
// produces: units and NAV to four decimals, the rupee amount to a whole
// number.
func normalizeImported(txn *models.Transaction) {
	if f := txn.Fund; f != nil {
		f.Units = math.Round(f.Units*10000) / 10000
		f.PurchaseNAV = math.Round(f.PurchaseNAV*10000) / 10000
		f.InvestedAmount = math.Round(f.InvestedAmount)
	}
}

func (s *Service) invalidateSnapshot(ctx context.Context) {
	if err := s.storage.Snapshots().Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to invalidate snapshot cache")
	}
}

// quoteRequest maps one class's positions onto the Fetch argument lists.
func quoteRequest(class models.AssetClass, positions []*models.InstrumentPosition) (stocks, coins, schemes []string, needGold bool) {
	keys := make([]string, 0, len(positions))
	for _, pos := range positions {
		keys = append(keys, pos.Key)
	}

	switch class {
	case models.AssetStocks:
		return keys, nil, nil, false
	case models.AssetCrypto:
		return nil, keys, nil, false
	case models.AssetMutualFunds:
		return nil, nil, keys, false
	case models.AssetGold:
		return nil, nil, nil, len(positions) > 0
	}
	return nil, nil, nil, false
}

func snapshotQuoteRequest(byClass map[models.AssetClass][]*models.InstrumentPosition) (stocks, coins, schemes []string, needGold bool) {
	for _, pos := range byClass[models.AssetStocks] {
		stocks = append(stocks, pos.Key)
	}
	for _, pos := range byClass[models.AssetCrypto] {
		coins = append(coins, pos.Key)
	}
	for _, pos := range byClass[models.AssetMutualFunds] {
		schemes = append(schemes, pos.Key)
	}
	needGold = len(byClass[models.AssetGold]) > 0
	return stocks, coins, schemes, needGold
}
