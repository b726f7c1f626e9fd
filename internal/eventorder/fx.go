package eventorder

import (
	"github.com/brightpath/tutordesk/internal/eventorder/service"
	"go.uber.org/fx"
)

var Module = fx.Module("eventorder.service",
	fx.Provide(service.NewService),
)
