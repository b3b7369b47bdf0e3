package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jpillora/backoff"

	"github.com/estopassoli/vaal-trade-assistant/internal/equipment"
	"github.com/estopassoli/vaal-trade-assistant/internal/models"
	"github.com/estopassoli/vaal-trade-assistant/internal/query"
	"github.com/estopassoli/vaal-trade-assistant/internal/trade"
	"github.com/estopassoli/vaal-trade-assistant/pkg/logger"
)

// State tracks a batch job through its lifecycle.
type State int

const (
	StateIdle State = iota
	StateCollecting
	StateDispatching
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateCollecting:
		return "collecting"
	case StateDispatching:
		return "dispatching"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return "idle"
	}
}

const (
	// rateLimitBuffer is added on top of the server's retry hint.
	rateLimitBuffer = 5 * time.Second
	// fallbackRateLimitWait applies when the server gives no hint.
	fallbackRateLimitWait = 65 * time.Second
	minRateLimitWait      = 60 * time.Second
	maxRateLimitWait      = 180 * time.Second
)

// Entry is one collected search: a synthesized query plus the display
// name reported through progress callbacks.
type Entry struct {
	Query *query.Query
	Name  string
}

// Job is the result of collecting and dispatching one equipment set.
type Job struct {
	ID        string
	State     State
	Entries   []Entry
	Succeeded int
	Failed    int
}

// Searcher submits a synthesized query and returns the search handle.
type Searcher interface {
	Search(ctx context.Context, q *query.Query, league string) (trade.SearchResult, error)
}

// Recorder persists completed searches. A nil Recorder disables history.
type Recorder interface {
	RecordSearch(name, league, tradeURL string) error
}

// Hooks are the orchestrator's progress callbacks. All fields are
// optional and are invoked from the dispatch goroutine.
type Hooks struct {
	// OnProgress fires before each item is dispatched.
	OnProgress func(current, total int, name string)
	// OnStatus fires for transient status lines, including the
	// once-per-second rate-limit countdown.
	OnStatus func(status string)
	// OnComplete fires once with the final tallies.
	OnComplete func(succeeded, failed int)
}

// Options configures dispatch pacing.
type Options struct {
	League     string
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	MaxRetries int
}

// Orchestrator collects search queries for an equipment set and
// dispatches them sequentially against the trade API. Dispatch is
// deliberately serial: the API's rate limiting is per account, so
// parallel submission only trades progress for penalty waits.
type Orchestrator struct {
	synth  *query.Synthesizer
	client Searcher
	opener trade.Opener
	store  Recorder
	opts   Options
	log    *logger.Logger

	// after is swapped out by tests to avoid real waits.
	after func(time.Duration) <-chan time.Time
}

// NewOrchestrator wires a batch orchestrator. opener and store may be
// nil to skip browser tabs and history respectively.
func NewOrchestrator(synth *query.Synthesizer, client Searcher, opener trade.Opener, store Recorder, opts Options, log *logger.Logger) *Orchestrator {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.BaseDelay <= 0 {
		opts.BaseDelay = 12 * time.Second
	}
	if opts.MaxDelay < opts.BaseDelay {
		opts.MaxDelay = 30 * time.Second
	}
	return &Orchestrator{
		synth:  synth,
		client: client,
		opener: opener,
		store:  store,
		opts:   opts,
		log:    log,
		after:  time.After,
	}
}

// Collect synthesizes Similar-mode queries for every item in the set,
// preserving category order. Items that resolve no searchable
// modifiers are skipped with a log entry rather than failing the job.
func (o *Orchestrator) Collect(set *equipment.Set) *Job {
	job := &Job{ID: uuid.NewString(), State: StateCollecting}
	for _, cat := range set.Categories() {
		for i := range cat.Items {
			item := &cat.Items[i]
			q, ok := o.synth.Synthesize(item, models.ModeSimilar)
			if !ok {
				o.log.Warn("Skipping unsearchable item",
					"category", cat.Name,
					"name", item.DisplayName())
				continue
			}
			name := item.DisplayName()
			if name == "" {
				name = fmt.Sprintf("%s #%d", cat.Name, i+1)
			}
			job.Entries = append(job.Entries, Entry{Query: q, Name: name})
		}
	}
	o.log.Info("Collected batch queries",
		"job_id", job.ID,
		"queries", len(job.Entries),
		"items", set.Len())
	return job
}

// Start runs Collect and Dispatch on a new goroutine and returns the
// job together with a token that cancels it.
func (o *Orchestrator) Start(ctx context.Context, set *equipment.Set, hooks Hooks) (*Job, *CancelToken) {
	job := o.Collect(set)
	token := NewCancelToken()
	go o.Dispatch(ctx, job, hooks, token)
	return job, token
}

// Dispatch runs the job's entries in order. Each success opens the
// result in the browser and records history; rate limits are retried
// with a penalty wait, other errors are counted and skipped.
func (o *Orchestrator) Dispatch(ctx context.Context, job *Job, hooks Hooks, token *CancelToken) {
	job.State = StateDispatching
	total := len(job.Entries)

	b := &backoff.Backoff{
		Min:    o.opts.BaseDelay,
		Max:    o.opts.MaxDelay,
		Factor: 2,
	}
	delay := b.Duration()
	// Each rate-limit hit doubles the inter-item delay up to the cap; a
	// success resets it to base.
	onRateLimit := func() { delay = b.Duration() }

	for i, entry := range job.Entries {
		if token.Cancelled() || ctx.Err() != nil {
			o.finish(job, StateCancelled, hooks)
			return
		}
		if hooks.OnProgress != nil {
			hooks.OnProgress(i+1, total, entry.Name)
		}

		ok, cancelled := o.dispatchOne(ctx, entry, hooks, token, onRateLimit)
		if cancelled {
			o.finish(job, StateCancelled, hooks)
			return
		}
		if ok {
			job.Succeeded++
			b.Reset()
			delay = b.Duration()
		} else {
			job.Failed++
		}

		if i == total-1 {
			break
		}
		o.status(hooks, fmt.Sprintf("Waiting %s before next search", delay.Round(time.Second)))
		if !o.wait(ctx, delay, token) {
			o.finish(job, StateCancelled, hooks)
			return
		}
	}

	o.finish(job, StateCompleted, hooks)
}

// dispatchOne submits one entry, retrying rate limits up to the
// configured cap. Returns (succeeded, cancelled).
func (o *Orchestrator) dispatchOne(ctx context.Context, entry Entry, hooks Hooks, token *CancelToken, onRateLimit func()) (bool, bool) {
	for attempt := 0; ; attempt++ {
		result, err := o.client.Search(ctx, entry.Query, o.opts.League)
		if err == nil {
			url := trade.ResultURL(o.opts.League, result.ID)
			o.log.Info("Search submitted",
				"name", entry.Name,
				"search_id", result.ID,
				"matches", result.Total)
			if o.opener != nil {
				if openErr := o.opener.Open(url); openErr != nil {
					o.log.Warn("Failed to open result URL", "url", url, "error", openErr)
				}
			}
			if o.store != nil {
				if recErr := o.store.RecordSearch(entry.Name, o.opts.League, url); recErr != nil {
					o.log.Warn("Failed to record search history", "error", recErr)
				}
			}
			return true, false
		}

		var apiErr *trade.APIError
		if !errors.As(err, &apiErr) || !apiErr.IsRateLimit() || attempt >= o.opts.MaxRetries {
			o.log.Error("Search failed", err, "name", entry.Name, "attempt", attempt+1)
			return false, false
		}

		onRateLimit()
		wait := rateLimitWait(apiErr.RetryAfter)
		o.log.Warn("Rate limited",
			"name", entry.Name,
			"attempt", attempt+1,
			"wait", wait)
		if !o.countdown(ctx, wait, hooks, token) {
			return false, true
		}
	}
}

// rateLimitWait derives the penalty wait from the server's hint.
func rateLimitWait(hint time.Duration) time.Duration {
	wait := fallbackRateLimitWait
	if hint > 0 {
		wait = hint + rateLimitBuffer
	}
	if wait < minRateLimitWait {
		wait = minRateLimitWait
	}
	if wait > maxRateLimitWait {
		wait = maxRateLimitWait
	}
	return wait
}

// countdown waits out a rate-limit penalty in one-second steps so the
// remaining time can be surfaced and cancellation stays responsive.
func (o *Orchestrator) countdown(ctx context.Context, wait time.Duration, hooks Hooks, token *CancelToken) bool {
	for remaining := wait; remaining > 0; remaining -= time.Second {
		o.status(hooks, fmt.Sprintf("Rate limited, retrying in %s", remaining.Round(time.Second)))
		step := time.Second
		if remaining < step {
			step = remaining
		}
		if !o.wait(ctx, step, token) {
			return false
		}
	}
	return true
}

// wait blocks for d unless the token or context fires first.
func (o *Orchestrator) wait(ctx context.Context, d time.Duration, token *CancelToken) bool {
	select {
	case <-token.Done():
		return false
	case <-ctx.Done():
		return false
	case <-o.after(d):
		return true
	}
}

func (o *Orchestrator) status(hooks Hooks, msg string) {
	if hooks.OnStatus != nil {
		hooks.OnStatus(msg)
	}
}

func (o *Orchestrator) finish(job *Job, state State, hooks Hooks) {
	job.State = state
	o.log.Info("Batch finished",
		"job_id", job.ID,
		"state", state.String(),
		"succeeded", job.Succeeded,
		"failed", job.Failed)
	if hooks.OnComplete != nil {
		hooks.OnComplete(job.Succeeded, job.Failed)
	}
}
