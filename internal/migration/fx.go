package migration

import (
	"github.com/brightpath/tutordesk/internal/config"
	enrollmentdomain "github.com/brightpath/tutordesk/internal/enrollment/domain"
	eventorderdomain "github.com/brightpath/tutordesk/internal/eventorder/domain"
	familydomain "github.com/brightpath/tutordesk/internal/family/domain"
	hubsessiondomain "github.com/brightpath/tutordesk/internal/hubsession/domain"
	invoicedomain "github.com/brightpath/tutordesk/internal/invoice/domain"
	leaddomain "github.com/brightpath/tutordesk/internal/lead/domain"
	"github.com/brightpath/tutordesk/internal/seed"
	servicedefdomain "github.com/brightpath/tutordesk/internal/servicedef/domain"
	studentdomain "github.com/brightpath/tutordesk/internal/student/domain"
	teacherdomain "github.com/brightpath/tutordesk/internal/teacher/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, genID *snowflake.Node) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			// Local sqlite and mysql builds derive the schema from the models.
			if err := conn.AutoMigrate(
				&familydomain.Family{},
				&studentdomain.Student{},
				&teacherdomain.Teacher{},
				&servicedefdomain.ServiceDefinition{},
				&enrollmentdomain.Enrollment{},
				&eventorderdomain.EventOrder{},
				&hubsessiondomain.HubSession{},
				&invoicedomain.Invoice{},
				&invoicedomain.InvoiceLine{},
				&leaddomain.Lead{},
			); err != nil {
				return err
			}
		}

		return seed.EnsureServiceCatalog(conn, genID)
	}),
)
