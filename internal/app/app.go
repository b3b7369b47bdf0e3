package app

import (
	"context"
	"fmt"
	"time"

	"github.com/estopassoli/vaal-trade-assistant/internal/batch"
	"github.com/estopassoli/vaal-trade-assistant/internal/equipment"
	"github.com/estopassoli/vaal-trade-assistant/internal/models"
	"github.com/estopassoli/vaal-trade-assistant/internal/query"
	"github.com/estopassoli/vaal-trade-assistant/internal/stats"
	"github.com/estopassoli/vaal-trade-assistant/internal/storage"
	"github.com/estopassoli/vaal-trade-assistant/internal/trade"
	"github.com/estopassoli/vaal-trade-assistant/pkg/global"
	"github.com/estopassoli/vaal-trade-assistant/pkg/logger"
)

// App wires the stat index, query synthesizer, trade client and
// storage into the operations the command layer exposes.
type App struct {
	log    *logger.Logger
	synth  *query.Synthesizer
	client *trade.Client
	opener trade.Opener
	store  *storage.DB
	orch   *batch.Orchestrator
	league string
}

// New builds the application from the initialized globals.
func New() (*App, error) {
	cfg, log := global.GetAll()

	index, err := stats.LoadIndex(cfg.GetDatasetPath(), log)
	if err != nil {
		return nil, fmt.Errorf("failed to load stat dataset: %w", err)
	}

	resolver := stats.NewResolver(index, log)
	synth := query.NewSynthesizer(resolver, query.Options{
		SimilarPercent: cfg.GetSimilarPercent(),
		PriceMin:       cfg.GetPriceMin(),
		PriceMax:       cfg.GetPriceMax(),
		TradeStatus:    cfg.GetTradeStatus(),
	}, log)

	client := trade.NewClient(cfg.GetTradeAPIURL(), log)
	opener := trade.Opener(trade.NewBrowserOpener(log))

	store, err := storage.New(cfg.GetDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open search history: %w", err)
	}

	league := trade.NormalizeLeague(cfg.GetLeague())
	orch := batch.NewOrchestrator(synth, client, opener, store, batch.Options{
		League:     league,
		BaseDelay:  cfg.GetBaseDelay(),
		MaxDelay:   cfg.GetMaxDelay(),
		MaxRetries: cfg.GetMaxRetries(),
	}, log)

	log.Info("Application initialized", "league", league)
	return &App{
		log:    log,
		synth:  synth,
		client: client,
		opener: opener,
		store:  store,
		orch:   orch,
		league: league,
	}, nil
}

// RunBatch loads an equipment file and dispatches one search per item.
// The returned token cancels the batch; dispatch runs until the hooks'
// OnComplete fires.
func (a *App) RunBatch(ctx context.Context, provider equipment.Provider, hooks batch.Hooks) (*batch.Job, *batch.CancelToken, error) {
	set, err := provider.Equipment()
	if err != nil {
		return nil, nil, err
	}
	if set.Len() == 0 {
		return nil, nil, fmt.Errorf("equipment set is empty")
	}
	job, token := a.orch.Start(ctx, set, hooks)
	return job, token, nil
}

// SearchItem synthesizes and submits a single search, opens the result
// in the browser and records it. Returns the result page URL.
func (a *App) SearchItem(ctx context.Context, item *models.Item, mode models.SearchMode) (string, error) {
	q, ok := a.synth.Synthesize(item, mode)
	if !ok {
		return "", fmt.Errorf("no searchable query for %q", item.DisplayName())
	}

	result, err := a.client.Search(ctx, q, a.league)
	if err != nil {
		return "", err
	}

	url := trade.ResultURL(a.league, result.ID)
	a.log.Info("Search submitted",
		"name", item.DisplayName(),
		"mode", mode.String(),
		"matches", result.Total)

	if err := a.opener.Open(url); err != nil {
		a.log.Warn("Failed to open result URL", "url", url, "error", err)
	}
	if err := a.store.RecordSearch(item.DisplayName(), a.league, url); err != nil {
		a.log.Warn("Failed to record search history", "error", err)
	}
	return url, nil
}

// History returns recent searches, newest first.
func (a *App) History() ([]storage.SearchEntry, error) {
	return a.store.RecentSearches()
}

// Stats returns the lifetime usage counters.
func (a *App) Stats() (*storage.UsageStats, error) {
	return a.store.Stats()
}

// Cleanup drops history entries older than the given age.
func (a *App) Cleanup(olderThan time.Duration) error {
	return a.store.Cleanup(olderThan)
}

func (a *App) Close() error {
	return a.store.Close()
}
