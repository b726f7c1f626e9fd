// Package notification sends family-facing email after billing actions.
package notification

import (
	"context"
	"fmt"

	billingdomain "github.com/brightpath/tutordesk/internal/billing/domain"
	billingservice "github.com/brightpath/tutordesk/internal/billing/service"
	"github.com/brightpath/tutordesk/internal/config"
	familydomain "github.com/brightpath/tutordesk/internal/family/domain"
	"github.com/brightpath/tutordesk/internal/providers/email"
	"github.com/brightpath/tutordesk/pkg/repository"
	"github.com/brightpath/tutordesk/pkg/telemetry"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type NotifierParam struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	Email   email.Provider
	Cfg     config.Config
	Metrics *telemetry.Metrics `optional:"true"`
}

// Notifier emails the family when a new invoice lands. Missing contact
// details skip the send silently; the invoice already exists either way.
type Notifier struct {
	log        *zap.Logger
	email      email.Provider
	appName    string
	metrics    *telemetry.Metrics
	familyRepo repository.Repository[familydomain.Family]
}

func New(p NotifierParam) billingservice.Notifier {
	return &Notifier{
		log:        p.Log.Named("notification"),
		email:      p.Email,
		appName:    p.Cfg.AppName,
		metrics:    p.Metrics,
		familyRepo: repository.ProvideStore[familydomain.Family](p.DB),
	}
}

func (n *Notifier) InvoiceCreated(ctx context.Context, created billingdomain.CreatedInvoice) error {
	family, err := n.familyRepo.FindOne(ctx, &familydomain.Family{ID: created.FamilyID})
	if err != nil {
		return err
	}
	if family == nil || family.Email == "" {
		n.log.Debug("no contact email, skipping invoice notification",
			zap.Int64("family_id", int64(created.FamilyID)))
		return nil
	}

	subject := fmt.Sprintf("New invoice from %s", n.appName)
	body := fmt.Sprintf(
		"<p>Hi %s,</p><p>A new invoice for $%.2f is ready. Invoice number: %d.</p>",
		family.ContactName, float64(created.TotalCents)/100, created.InvoiceID,
	)

	if err := n.email.Send(ctx, []string{family.Email}, subject, body); err != nil {
		if n.metrics != nil {
			n.metrics.ObserveNotification("invoice_created", "failed")
		}
		return err
	}
	if n.metrics != nil {
		n.metrics.ObserveNotification("invoice_created", "sent")
	}
	return nil
}
