package workers

import (
	"context"
	"errors"
	"log/slog"

	application "storyforge/contexts/content-automation/generation-service/application"
	"storyforge/contexts/content-automation/generation-service/application/commands"
	"storyforge/contexts/content-automation/generation-service/domain/entities"
	domainerrors "storyforge/contexts/content-automation/generation-service/domain/errors"
	"storyforge/contexts/content-automation/generation-service/ports"
)

// AutoFinalizer sweeps generating campaigns whose batch has drained and moves
// them forward. It backstops the runner's own completion signal so a campaign
// is never stranded in generating after a worker crash.
type AutoFinalizer struct {
	Campaigns ports.CampaignRepository
	Complete  commands.CompleteBatchUseCase
	Logger    *slog.Logger
}

func (j AutoFinalizer) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(j.Logger)
	campaigns, err := j.Campaigns.ListCampaigns(ctx, ports.CampaignFilter{
		Status: entities.CampaignStatusGenerating,
	})
	if err != nil {
		logger.Error("auto finalizer sweep failed",
			"event", "campaign_auto_finalize_failed",
			"module", "content-automation/generation-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	for _, campaign := range campaigns {
		if err := j.Complete.Execute(ctx, campaign.CampaignID); err != nil {
			if errors.Is(err, domainerrors.ErrInvalidStateTransition) {
				continue
			}
			return err
		}
	}

	if len(campaigns) > 0 {
		logger.Debug("auto finalizer sweep completed",
			"event", "campaign_auto_finalize_completed",
			"module", "content-automation/generation-service",
			"layer", "worker",
			"swept_count", len(campaigns),
		)
	}
	return nil
}
