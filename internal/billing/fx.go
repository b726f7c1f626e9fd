package billing

import (
	"github.com/brightpath/tutordesk/internal/billing/domain"
	"github.com/brightpath/tutordesk/internal/billing/events"
	"github.com/brightpath/tutordesk/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(
		events.NewBus,
		func(b *events.Bus) domain.Publisher { return b },
		service.NewStore,
		service.NewService,
	),
)
