package generationservice

import (
	"log/slog"

	httpadapter "storyforge/contexts/content-automation/generation-service/adapters/http"
	"storyforge/contexts/content-automation/generation-service/adapters/memory"
	"storyforge/contexts/content-automation/generation-service/application/commands"
	"storyforge/contexts/content-automation/generation-service/application/queries"
	"storyforge/contexts/content-automation/generation-service/application/workers"
	"storyforge/contexts/content-automation/generation-service/domain/entities"
	"storyforge/contexts/content-automation/generation-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Runner  *workers.BatchRunner
	Store   *memory.Store
}

type Dependencies struct {
	Campaigns   ports.CampaignRepository
	Items       ports.ItemRepository
	Pipeline    ports.StagePipeline
	Scheduler   ports.PublishScheduler
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	MaxInFlight int64
	AsyncRunner bool
	Logger      *slog.Logger
}

func NewModule(deps Dependencies) Module {
	completeBatch := commands.CompleteBatchUseCase{
		Campaigns: deps.Campaigns,
		Items:     deps.Items,
		Scheduler: deps.Scheduler,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGenerator,
		Logger:    deps.Logger,
	}
	runner := &workers.BatchRunner{
		Items: deps.Items,
		Orchestrator: workers.ItemOrchestrator{
			Items:    deps.Items,
			Pipeline: deps.Pipeline,
			Clock:    deps.Clock,
			Logger:   deps.Logger,
		},
		Complete:    completeBatch,
		MaxInFlight: deps.MaxInFlight,
		Async:       deps.AsyncRunner,
		Logger:      deps.Logger,
	}

	createCampaign := commands.CreateCampaignUseCase{
		Campaigns: deps.Campaigns,
		Items:     deps.Items,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGenerator,
		Logger:    deps.Logger,
	}
	changeStatus := commands.ChangeStatusUseCase{
		Campaigns:  deps.Campaigns,
		Items:      deps.Items,
		Dispatcher: runner,
		Outbox:     deps.Outbox,
		Clock:      deps.Clock,
		IDGen:      deps.IDGenerator,
		Logger:     deps.Logger,
	}
	finalize := commands.FinalizeCampaignUseCase{
		Campaigns: deps.Campaigns,
		Items:     deps.Items,
		Scheduler: deps.Scheduler,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGenerator,
		Logger:    deps.Logger,
	}
	updateItem := commands.UpdateItemUseCase{
		Campaigns:  deps.Campaigns,
		Items:      deps.Items,
		Dispatcher: runner,
		Clock:      deps.Clock,
		Logger:     deps.Logger,
	}
	approveAll := commands.ApproveAllUseCase{
		Campaigns: deps.Campaigns,
		Items:     deps.Items,
		Clock:     deps.Clock,
		Logger:    deps.Logger,
	}
	regenerateFailed := commands.RegenerateFailedUseCase{
		Campaigns:  deps.Campaigns,
		Items:      deps.Items,
		Dispatcher: runner,
		Outbox:     deps.Outbox,
		Clock:      deps.Clock,
		IDGen:      deps.IDGenerator,
		Logger:     deps.Logger,
	}
	addIdeas := commands.AddIdeasUseCase{
		Campaigns:  deps.Campaigns,
		Items:      deps.Items,
		Dispatcher: runner,
		Clock:      deps.Clock,
		IDGen:      deps.IDGenerator,
		Logger:     deps.Logger,
	}
	removeItem := commands.RemoveItemUseCase{
		Items:  deps.Items,
		Logger: deps.Logger,
	}

	getCampaign := queries.GetCampaignUseCase{
		Campaigns: deps.Campaigns,
		Logger:    deps.Logger,
	}
	listCampaigns := queries.ListCampaignsUseCase{
		Campaigns: deps.Campaigns,
		Logger:    deps.Logger,
	}
	listItems := queries.ListItemsUseCase{
		Items:  deps.Items,
		Logger: deps.Logger,
	}
	getProgress := queries.GetProgressUseCase{
		Campaigns: deps.Campaigns,
		Items:     deps.Items,
		Logger:    deps.Logger,
	}

	return Module{
		Handler: httpadapter.Handler{
			CreateCampaign:   createCampaign,
			ChangeStatus:     changeStatus,
			Finalize:         finalize,
			UpdateItem:       updateItem,
			ApproveAll:       approveAll,
			RegenerateFailed: regenerateFailed,
			AddIdeas:         addIdeas,
			RemoveItem:       removeItem,
			GetCampaign:      getCampaign,
			ListCampaigns:    listCampaigns,
			ListItems:        listItems,
			GetProgress:      getProgress,
			Logger:           deps.Logger,
		},
		Runner: runner,
	}
}

// NewInMemoryModule wires the module against the in-memory store with a
// synchronous batch runner, which is what tests and local runs want.
func NewInMemoryModule(
	seed []entities.Campaign,
	pipeline ports.StagePipeline,
	scheduler ports.PublishScheduler,
	logger *slog.Logger,
) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Campaigns:   store,
		Items:       store,
		Pipeline:    pipeline,
		Scheduler:   scheduler,
		Outbox:      store,
		Clock:       store,
		IDGenerator: store,
		Logger:      logger,
	})
	module.Store = store
	return module
}
