package memory

import (
	"context"
	"fmt"
	"time"

	"storyforge/contexts/content-automation/generation-service/domain/entities"
	"storyforge/contexts/content-automation/generation-service/ports"
)

// StubPipeline stands in for the real generation backends. Each stage run
// succeeds after an optional delay unless the (item, stage) pair is listed in
// FailOn. Tests drive failure scenarios through it; local runs use it until
// the model backends are wired.
type StubPipeline struct {
	Delay  time.Duration
	FailOn map[string]entities.Stage
}

func (p StubPipeline) Run(ctx context.Context, item entities.CampaignItem, stage entities.Stage) (ports.StageResult, error) {
	if p.Delay > 0 {
		select {
		case <-ctx.Done():
			return ports.StageResult{}, ctx.Err()
		case <-time.After(p.Delay):
		}
	}
	if failStage, exists := p.FailOn[item.ItemID]; exists && failStage == stage {
		return ports.StageResult{}, fmt.Errorf("stage %s failed for item %s", stage, item.ItemID)
	}
	return ports.StageResult{
		ResultRef: fmt.Sprintf("asset://%s/%s", item.ItemID, stage),
	}, nil
}
