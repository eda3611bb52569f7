package bootstrap

import (
	"context"
	"errors"

	generationentities "storyforge/contexts/content-automation/generation-service/domain/entities"
	scheduling "storyforge/contexts/content-automation/scheduling-service"
	schedulingcommands "storyforge/contexts/content-automation/scheduling-service/application/commands"
	schedulingerrors "storyforge/contexts/content-automation/scheduling-service/domain/errors"
)

// publishSchedulerBridge satisfies the generation service's PublishScheduler
// port with the scheduling module. The two contexts never import each other;
// the composition root owns the translation.
type publishSchedulerBridge struct {
	scheduling scheduling.Module
}

func (b publishSchedulerBridge) ScheduleCampaign(ctx context.Context, campaign generationentities.Campaign) error {
	// Manual campaigns publish only what a human approved; auto campaigns
	// schedule straight from completed.
	statuses := []string{string(generationentities.ItemStatusApproved)}
	if campaign.Automation == generationentities.AutomationAuto {
		statuses = []string{string(generationentities.ItemStatusCompleted)}
	}
	_, err := b.scheduling.ScheduleCampaign.Execute(ctx, schedulingcommands.ScheduleCampaignCommand{
		CampaignID:       campaign.CampaignID,
		StartDate:        campaign.Window.StartDate,
		EndDate:          campaign.Window.EndDate,
		MaxItemsPerDay:   campaign.Window.MaxItemsPerDay,
		PreferredHours:   append([]int(nil), campaign.Window.PreferredHours...),
		SuggestHours:     campaign.Window.SuggestHours,
		EligibleStatuses: statuses,
	})
	// A campaign whose items all failed or were rejected has nothing to
	// schedule; that must not block finalization.
	if errors.Is(err, schedulingerrors.ErrNoSchedulableItems) {
		return nil
	}
	return err
}
