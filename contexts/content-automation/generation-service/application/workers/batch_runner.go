package workers

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/sync/semaphore"

	application "storyforge/contexts/content-automation/generation-service/application"
	"storyforge/contexts/content-automation/generation-service/application/commands"
	"storyforge/contexts/content-automation/generation-service/domain/entities"
	domainerrors "storyforge/contexts/content-automation/generation-service/domain/errors"
	"storyforge/contexts/content-automation/generation-service/ports"
)

const defaultMaxInFlight = 2

// BatchRunner applies the item orchestrator across a campaign's eligible
// items. It is the only component that runs work in parallel; the stage
// pipeline is a rate-limited external resource, so fan-out is bounded by a
// semaphore and unbounded concurrency is never allowed.
type BatchRunner struct {
	Items        ports.ItemRepository
	Orchestrator ItemOrchestrator
	Complete     commands.CompleteBatchUseCase
	MaxInFlight  int64
	Async        bool
	Logger       *slog.Logger

	mu      sync.Mutex
	batches map[string]*batchControl
}

// batchControl carries the per-campaign run state. The semaphore lives here,
// not in RunBatch, so the in-flight bound spans overlapping runs: items still
// holding permits from a paused run count against a resumed run's budget.
type batchControl struct {
	mu        sync.Mutex
	sem       *semaphore.Weighted
	run       int
	paused    bool
	cancelled bool
}

// begin opens a new run, superseding any loop still draining from an earlier
// dispatch, and returns the run token plus the campaign's shared semaphore.
func (c *batchControl) begin(limit int64) (int, *semaphore.Weighted) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sem == nil {
		c.sem = semaphore.NewWeighted(limit)
	}
	c.run++
	c.paused = false
	c.cancelled = false
	return c.run, c.sem
}

func (c *batchControl) Cancelled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cancelled
}

// halted reports whether the given run may keep dispatching. A superseded
// run is halted even when the pause and cancel flags are clear, so a resume
// never leaves two loops feeding the same campaign.
func (c *batchControl) halted(run int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.run != run || c.paused || c.cancelled
}

// Dispatch starts processing the targeted subset. With Async set the batch
// runs detached from the caller's request context; itemIDs nil targets every
// pending item.
func (r *BatchRunner) Dispatch(ctx context.Context, campaignID string, itemIDs []string) error {
	if r.Async {
		go func() {
			if err := r.RunBatch(context.Background(), campaignID, itemIDs); err != nil {
				application.ResolveLogger(r.Logger).Error("batch run failed",
					"event", "batch_run_failed",
					"module", "content-automation/generation-service",
					"layer", "worker",
					"campaign_id", campaignID,
					"error", err.Error(),
				)
			}
		}()
		return nil
	}
	return r.RunBatch(ctx, campaignID, itemIDs)
}

// Pause stops starting new items; items already in flight run to their
// natural outcome.
func (r *BatchRunner) Pause(campaignID string) {
	control := r.control(campaignID)
	control.mu.Lock()
	control.paused = true
	control.mu.Unlock()
}

// Cancel stops starting new items and flags in-flight orchestrators, which
// halt at the next stage boundary.
func (r *BatchRunner) Cancel(campaignID string) {
	control := r.control(campaignID)
	control.mu.Lock()
	control.cancelled = true
	control.mu.Unlock()
}

func (r *BatchRunner) RunBatch(ctx context.Context, campaignID string, itemIDs []string) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.MaxInFlight
	if limit <= 0 {
		limit = defaultMaxInFlight
	}
	control := r.control(campaignID)
	run, sem := control.begin(limit)

	items, err := r.Items.ListItemsByCampaign(ctx, campaignID)
	if err != nil {
		return err
	}

	var wanted map[string]bool
	if itemIDs != nil {
		wanted = make(map[string]bool, len(itemIDs))
		for _, id := range itemIDs {
			wanted[id] = true
		}
	}
	targets := make([]entities.CampaignItem, 0, len(items))
	for _, item := range items {
		if item.Status != entities.ItemStatusPending {
			continue
		}
		if wanted != nil && !wanted[item.ItemID] {
			continue
		}
		targets = append(targets, item)
	}
	sort.Slice(targets, func(i, j int) bool {
		return targets[i].OrderIndex < targets[j].OrderIndex
	})

	var wg sync.WaitGroup

	started := 0
	for _, target := range targets {
		if control.halted(run) {
			break
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		if control.halted(run) {
			sem.Release(1)
			break
		}
		started++
		wg.Add(1)
		go func(itemID string) {
			defer wg.Done()
			defer sem.Release(1)
			if _, err := r.Orchestrator.Run(ctx, itemID, control); err != nil {
				logger.Error("item orchestration failed",
					"event", "item_orchestration_failed",
					"module", "content-automation/generation-service",
					"layer", "worker",
					"campaign_id", campaignID,
					"item_id", itemID,
					"error", err.Error(),
				)
			}
		}(target.ItemID)
	}
	wg.Wait()

	logger.Info("batch run drained",
		"event", "batch_run_drained",
		"module", "content-automation/generation-service",
		"layer", "worker",
		"campaign_id", campaignID,
		"targeted_count", len(targets),
		"started_count", started,
	)

	// Paused, cancelled, or superseded batches leave campaign status to the
	// state machine; completion is only signalled when the run drained on
	// its own.
	if control.halted(run) {
		return nil
	}
	if err := r.Complete.Execute(ctx, campaignID); err != nil {
		// A cancel that raced the drain already moved the campaign out of
		// generating; nothing is left to signal.
		if errors.Is(err, domainerrors.ErrInvalidStateTransition) {
			return nil
		}
		return err
	}
	return nil
}

func (r *BatchRunner) control(campaignID string) *batchControl {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.batches == nil {
		r.batches = make(map[string]*batchControl)
	}
	control, ok := r.batches[campaignID]
	if !ok {
		control = &batchControl{}
		r.batches[campaignID] = control
	}
	return control
}
