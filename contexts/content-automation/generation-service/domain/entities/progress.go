package entities

// BatchProgress is a derived snapshot for polling consumers; it is never
// persisted. Total always equals Completed+Failed+InProgress+Pending because
// it is computed from a single pass over one item snapshot.
type BatchProgress struct {
	CampaignID      string
	Total           int
	Completed       int
	Failed          int
	InProgress      int
	Pending         int
	CurrentIndex    int
	CurrentTopic    string
	CurrentStage    Stage
	CurrentProgress int
	HasCurrent      bool
}

// ComputeProgress folds one item snapshot into counts. Approved items land in
// the completed bucket and rejected items in the failed bucket; the current
// item is the generating item with the lowest order index.
func ComputeProgress(campaignID string, items []CampaignItem) BatchProgress {
	progress := BatchProgress{CampaignID: campaignID, Total: len(items)}

	var current *CampaignItem
	for index := range items {
		item := items[index]
		switch item.Status {
		case ItemStatusCompleted, ItemStatusApproved:
			progress.Completed++
		case ItemStatusFailed, ItemStatusRejected:
			progress.Failed++
		case ItemStatusGenerating:
			progress.InProgress++
			if current == nil || item.OrderIndex < current.OrderIndex {
				current = &items[index]
			}
		default:
			progress.Pending++
		}
	}

	if current != nil {
		progress.HasCurrent = true
		progress.CurrentIndex = current.OrderIndex
		progress.CurrentTopic = current.SourceIdea
		progress.CurrentStage = current.Stage
		progress.CurrentProgress = current.StageProgress
	}
	return progress
}
