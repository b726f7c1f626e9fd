package family

import (
	"github.com/brightpath/tutordesk/internal/family/service"
	"go.uber.org/fx"
)

var Module = fx.Module("family.service",
	fx.Provide(service.NewService),
)
