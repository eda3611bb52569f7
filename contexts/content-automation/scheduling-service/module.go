package schedulingservice

import (
	"log/slog"

	httpadapter "storyforge/contexts/content-automation/scheduling-service/adapters/http"
	"storyforge/contexts/content-automation/scheduling-service/adapters/memory"
	"storyforge/contexts/content-automation/scheduling-service/application/commands"
	"storyforge/contexts/content-automation/scheduling-service/application/queries"
	"storyforge/contexts/content-automation/scheduling-service/ports"
)

type Module struct {
	Handler httpadapter.Handler

	ScheduleCampaign commands.ScheduleCampaignUseCase
	ReleaseSlot      commands.ReleaseSlotUseCase
	GetSchedule      queries.GetScheduleUseCase

	Store *memory.Store
}

type Dependencies struct {
	Items     ports.ItemSource
	Slots     ports.SlotWriter
	Schedule  ports.ScheduleReader
	Suggester ports.HourSuggester
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	scheduleCampaign := commands.ScheduleCampaignUseCase{
		Items:     deps.Items,
		Slots:     deps.Slots,
		Suggester: deps.Suggester,
		Logger:    deps.Logger,
	}
	releaseSlot := commands.ReleaseSlotUseCase{
		Slots:  deps.Slots,
		Logger: deps.Logger,
	}
	getSchedule := queries.GetScheduleUseCase{
		Schedule: deps.Schedule,
	}

	return Module{
		Handler: httpadapter.Handler{
			ScheduleCampaign: scheduleCampaign,
			ReleaseSlot:      releaseSlot,
			GetSchedule:      getSchedule,
			Logger:           deps.Logger,
		},
		ScheduleCampaign: scheduleCampaign,
		ReleaseSlot:      releaseSlot,
		GetSchedule:      getSchedule,
	}
}

// NewInMemoryModule wires the module against the in-memory store, which is
// what tests and local runs want.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Items:     store,
		Slots:     store,
		Schedule:  store,
		Suggester: memory.NewStaticHourSuggester(nil),
		Logger:    logger,
	})
	module.Store = store
	return module
}
