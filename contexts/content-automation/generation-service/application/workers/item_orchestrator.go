package workers

import (
	"context"
	"log/slog"
	"strings"

	application "storyforge/contexts/content-automation/generation-service/application"
	"storyforge/contexts/content-automation/generation-service/domain/entities"
	domainerrors "storyforge/contexts/content-automation/generation-service/domain/errors"
	"storyforge/contexts/content-automation/generation-service/ports"
)

type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeFailed    Outcome = "failed"
	OutcomeCancelled Outcome = "cancelled"
)

// CancelCheck is consulted between stages only; a stage invocation is atomic
// and is never preempted once started.
type CancelCheck interface {
	Cancelled() bool
}

type nopCancel struct{}

func (nopCancel) Cancelled() bool { return false }

// NopCancel never reports cancellation.
var NopCancel CancelCheck = nopCancel{}

// ItemOrchestrator drives exactly one item through the ordered stage
// sequence, recording status and per-stage progress after every step. A
// failed item retried here restarts from the first stage; stages depend on
// prior-stage output so there is no partial resume.
type ItemOrchestrator struct {
	Items    ports.ItemRepository
	Pipeline ports.StagePipeline
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (o ItemOrchestrator) Run(ctx context.Context, itemID string, cancel CancelCheck) (Outcome, error) {
	logger := application.ResolveLogger(o.Logger)
	if cancel == nil {
		cancel = NopCancel
	}

	item, err := o.Items.GetItem(ctx, strings.TrimSpace(itemID))
	if err != nil {
		return "", err
	}
	if item.Status != entities.ItemStatusPending && item.Status != entities.ItemStatusFailed {
		return "", domainerrors.ErrInvalidItemTransition
	}

	now := o.Clock.Now().UTC()
	if item.Status == entities.ItemStatusFailed {
		item = item.ResetForRetry(now)
	}

	stages := entities.StageOrder()
	item.Status = entities.ItemStatusGenerating
	item.Stage = stages[0]
	item.StageProgress = 0
	item.ErrorMessage = ""
	item.UpdatedAt = now
	if err := o.Items.UpdateItem(ctx, item); err != nil {
		return "", err
	}

	var resultRef string
	for index, stage := range stages {
		if cancel.Cancelled() {
			// Leave the item in its last-reached state; the caller must not
			// advance it further.
			logger.Info("item generation cancelled",
				"event", "item_generation_cancelled",
				"module", "content-automation/generation-service",
				"layer", "worker",
				"campaign_id", item.CampaignID,
				"item_id", item.ItemID,
				"stage", string(stage),
			)
			return OutcomeCancelled, nil
		}

		item.Stage = stage
		item.StageProgress = 0
		item.UpdatedAt = o.Clock.Now().UTC()
		if err := o.Items.UpdateItem(ctx, item); err != nil {
			return "", err
		}

		result, err := o.Pipeline.Run(ctx, item, stage)
		if err != nil {
			item.Status = entities.ItemStatusFailed
			item.ErrorMessage = err.Error()
			item.UpdatedAt = o.Clock.Now().UTC()
			if updateErr := o.Items.UpdateItem(ctx, item); updateErr != nil {
				return "", updateErr
			}
			logger.Warn("item stage failed",
				"event", "item_stage_failed",
				"module", "content-automation/generation-service",
				"layer", "worker",
				"campaign_id", item.CampaignID,
				"item_id", item.ItemID,
				"stage", string(stage),
				"error", err.Error(),
			)
			return OutcomeFailed, nil
		}

		item.StageProgress = 100
		item.UpdatedAt = o.Clock.Now().UTC()
		if err := o.Items.UpdateItem(ctx, item); err != nil {
			return "", err
		}
		if index == len(stages)-1 {
			resultRef = result.ResultRef
		}
	}

	item.Status = entities.ItemStatusCompleted
	item.Stage = ""
	item.StageProgress = 0
	item.ResultRef = resultRef
	item.UpdatedAt = o.Clock.Now().UTC()
	if err := o.Items.UpdateItem(ctx, item); err != nil {
		return "", err
	}

	logger.Info("item generation completed",
		"event", "item_generation_completed",
		"module", "content-automation/generation-service",
		"layer", "worker",
		"campaign_id", item.CampaignID,
		"item_id", item.ItemID,
	)
	return OutcomeCompleted, nil
}
