// Package quote fetches live market data from the four external providers
// behind a single Fetch call with a short-lived cache.
package quote

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/Rahul-1991/portfolio-app/internal/common"
	"github.com/Rahul-1991/portfolio-app/internal/interfaces"
	"github.com/Rahul-1991/portfolio-app/internal/models"
)

const (
	cacheKeyStock = "stock:"
	cacheKeyCoin  = "coin:"
	cacheKeyFund  = "fund:"
	cacheKeyGold  = "gold"
	cleanupFactor = 2
)

// Service fans out quote requests to the providers, caching each instrument
// for the configured TTL. Provider failures are logged and absorbed: the
// returned QuoteSet simply omits instruments that could not be priced, and
// the valuation layer falls back to cost for those.
type Service struct {
	crypto interfaces.CryptoClient
	funds  interfaces.FundClient
	stocks interfaces.StockClient
	gold   interfaces.GoldClient

	cache  *gocache.Cache
	logger *common.Logger
}

// NewService creates a quote service over the four provider clients.
func NewService(crypto interfaces.CryptoClient, funds interfaces.FundClient, stocks interfaces.StockClient, gold interfaces.GoldClient, ttl time.Duration, logger *common.Logger) *Service {
	if logger == nil {
		logger = common.NewDefaultLogger()
	}
	return &Service{
		crypto: crypto,
		funds:  funds,
		stocks: stocks,
		gold:   gold,
		cache:  gocache.New(ttl, ttl*cleanupFactor),
		logger: logger,
	}
}

// Fetch retrieves quotes for all requested instruments concurrently. Cached
// entries are served without a provider call. Fetch never fails: whatever
// could not be retrieved is missing from the result.
func (s *Service) Fetch(ctx context.Context, stocks, coins, schemes []string, needGold bool) *models.QuoteSet {
	set := models.NewQuoteSet()

	var mu sync.Mutex
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.fetchStocks(ctx, stocks, set, &mu)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.fetchCoins(ctx, coins, set, &mu)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		s.fetchFunds(ctx, schemes, set, &mu)
	}()

	if needGold {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.fetchGold(ctx, set, &mu)
		}()
	}

	wg.Wait()
	return set
}

// fetchStocks resolves each symbol individually so one delisted symbol does
// not sink the rest.
func (s *Service) fetchStocks(ctx context.Context, symbols []string, set *models.QuoteSet, mu *sync.Mutex) {
	for _, symbol := range symbols {
		if cached, ok := s.cache.Get(cacheKeyStock + symbol); ok {
			mu.Lock()
			set.Stocks[symbol] = cached.(*models.Quote)
			mu.Unlock()
			continue
		}

		q, err := s.stocks.GetQuote(ctx, symbol)
		if err != nil {
			s.logger.Warn().Err(err).Str("symbol", symbol).Msg("Stock quote unavailable")
			continue
		}

		s.cache.SetDefault(cacheKeyStock+symbol, q)
		mu.Lock()
		set.Stocks[symbol] = q
		mu.Unlock()
	}
}

// fetchCoins uses the provider's batch endpoint, splitting cached from
// uncached ids first.
func (s *Service) fetchCoins(ctx context.Context, coinIDs []string, set *models.QuoteSet, mu *sync.Mutex) {
	var missing []string
	for _, id := range coinIDs {
		if cached, ok := s.cache.Get(cacheKeyCoin + id); ok {
			mu.Lock()
			set.Crypto[id] = cached.(*models.Quote)
			mu.Unlock()
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return
	}

	prices, err := s.crypto.GetPrices(ctx, missing)
	if err != nil {
		s.logger.Warn().Err(err).Int("coins", len(missing)).Msg("Crypto prices unavailable")
		return
	}

	mu.Lock()
	defer mu.Unlock()
	for id, q := range prices {
		s.cache.SetDefault(cacheKeyCoin+id, q)
		set.Crypto[id] = q
	}
}

func (s *Service) fetchFunds(ctx context.Context, schemes []string, set *models.QuoteSet, mu *sync.Mutex) {
	for _, scheme := range schemes {
		if cached, ok := s.cache.Get(cacheKeyFund + scheme); ok {
			mu.Lock()
			set.Funds[scheme] = cached.(*models.NAVQuote)
			mu.Unlock()
			continue
		}

		nav, err := s.funds.GetNAV(ctx, scheme)
		if err != nil {
			s.logger.Warn().Err(err).Str("scheme", scheme).Msg("Fund NAV unavailable")
			continue
		}

		s.cache.SetDefault(cacheKeyFund+scheme, nav)
		mu.Lock()
		set.Funds[scheme] = nav
		mu.Unlock()
	}
}

func (s *Service) fetchGold(ctx context.Context, set *models.QuoteSet, mu *sync.Mutex) {
	if cached, ok := s.cache.Get(cacheKeyGold); ok {
		mu.Lock()
		set.Gold = cached.(*models.GoldQuote)
		mu.Unlock()
		return
	}

	q, err := s.gold.GetPrice(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Gold rate unavailable")
		return
	}

	s.cache.SetDefault(cacheKeyGold, q)
	mu.Lock()
	set.Gold = q
	mu.Unlock()
}

// Flush clears the quote cache so the next Fetch hits the providers.
func (s *Service) Flush() {
	s.cache.Flush()
}
