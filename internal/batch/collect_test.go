package batch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estopassoli/vaal-trade-assistant/internal/equipment"
	"github.com/estopassoli/vaal-trade-assistant/internal/models"
	"github.com/estopassoli/vaal-trade-assistant/internal/query"
	"github.com/estopassoli/vaal-trade-assistant/internal/stats"
	"github.com/estopassoli/vaal-trade-assistant/internal/trade"
)

func collectOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	log := testLogger(t)
	raw := stats.RawDataset{
		"chaosresistance": {
			{Matcher: `to Chaos Resistance`, Result: map[string][]string{
				"explicitMods": {"explicit.stat_2923486259"},
			}},
		},
	}
	resolver := stats.NewResolver(stats.BuildIndex(raw, log), log)
	synth := query.NewSynthesizer(resolver, query.Options{SimilarPercent: 80}, log)
	o := NewOrchestrator(synth, &scriptedSearcher{script: []func() (trade.SearchResult, error){succeed("a")}}, nil, nil, Options{League: "Standard"}, log)
	o.after = immediate
	return o
}

func TestCollectPreservesCategoryOrder(t *testing.T) {
	o := collectOrchestrator(t)
	set := &equipment.Set{
		Items: []models.Item{
			{TypeLine: "Advanced Cuirass", FrameType: models.FrameRare,
				ExplicitMods: []string{"+17% to Chaos Resistance"}},
		},
		Jewels: []models.Item{
			{TypeLine: "Emerald", FrameType: models.FrameRare,
				ExplicitMods: []string{"+17% to Chaos Resistance"}},
		},
	}

	job := o.Collect(set)

	assert.NotEmpty(t, job.ID)
	require.Len(t, job.Entries, 2)
	assert.Equal(t, "Advanced Cuirass", job.Entries[0].Name)
	assert.Equal(t, "Emerald", job.Entries[1].Name)
	assert.NotNil(t, job.Entries[0].Query)
}

func TestCollectSkipsUnsearchableItems(t *testing.T) {
	o := collectOrchestrator(t)
	set := &equipment.Set{
		Items: []models.Item{
			{FrameType: models.FrameRare}, // no anchor
			{TypeLine: "Advanced Cuirass", FrameType: models.FrameRare},
		},
	}

	job := o.Collect(set)
	require.Len(t, job.Entries, 1)
	assert.Equal(t, "Advanced Cuirass", job.Entries[0].Name)
}

func TestStartRunsToCompletion(t *testing.T) {
	o := collectOrchestrator(t)
	set := &equipment.Set{
		Items: []models.Item{
			{TypeLine: "Advanced Cuirass", FrameType: models.FrameRare,
				ExplicitMods: []string{"+17% to Chaos Resistance"}},
		},
	}

	done := make(chan struct{})
	var succeeded, failed int
	hooks := Hooks{OnComplete: func(s, f int) {
		succeeded, failed = s, f
		close(done)
	}}

	job, token := o.Start(context.Background(), set, hooks)
	require.NotNil(t, token)
	<-done

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 0, failed)
	assert.Equal(t, StateCompleted, job.State)
}
