package lead

import (
	"github.com/brightpath/tutordesk/internal/lead/service"
	"go.uber.org/fx"
)

var Module = fx.Module("lead.service",
	fx.Provide(service.NewService),
)
