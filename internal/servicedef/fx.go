package servicedef

import (
	"github.com/brightpath/tutordesk/internal/servicedef/service"
	"go.uber.org/fx"
)

var Module = fx.Module("servicedef.service",
	fx.Provide(service.NewService),
)
