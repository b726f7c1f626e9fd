package providers

import (
	"github.com/brightpath/tutordesk/internal/providers/email"
	"github.com/brightpath/tutordesk/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	email.Module,
	pdf.Module,
)
