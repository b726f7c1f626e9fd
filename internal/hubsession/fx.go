package hubsession

import (
	"github.com/brightpath/tutordesk/internal/hubsession/service"
	"go.uber.org/fx"
)

var Module = fx.Module("hubsession.service",
	fx.Provide(service.NewService),
)
