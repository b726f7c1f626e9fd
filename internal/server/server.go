package server

import (
	"context"
	"net/http"
	"time"

	"github.com/brightpath/tutordesk/internal/billing"
	billingdomain "github.com/brightpath/tutordesk/internal/billing/domain"
	"github.com/brightpath/tutordesk/internal/billing/events"
	"github.com/brightpath/tutordesk/internal/clock"
	"github.com/brightpath/tutordesk/internal/config"
	"github.com/brightpath/tutordesk/internal/enrollment"
	enrollmentdomain "github.com/brightpath/tutordesk/internal/enrollment/domain"
	"github.com/brightpath/tutordesk/internal/eventorder"
	eventorderdomain "github.com/brightpath/tutordesk/internal/eventorder/domain"
	"github.com/brightpath/tutordesk/internal/family"
	familydomain "github.com/brightpath/tutordesk/internal/family/domain"
	"github.com/brightpath/tutordesk/internal/hubsession"
	hubsessiondomain "github.com/brightpath/tutordesk/internal/hubsession/domain"
	"github.com/brightpath/tutordesk/internal/invoice"
	invoicedomain "github.com/brightpath/tutordesk/internal/invoice/domain"
	"github.com/brightpath/tutordesk/internal/lead"
	leaddomain "github.com/brightpath/tutordesk/internal/lead/domain"
	"github.com/brightpath/tutordesk/internal/migration"
	"github.com/brightpath/tutordesk/internal/notification"
	"github.com/brightpath/tutordesk/internal/providers"
	"github.com/brightpath/tutordesk/internal/providers/pdf"
	"github.com/brightpath/tutordesk/internal/servicedef"
	servicedefdomain "github.com/brightpath/tutordesk/internal/servicedef/domain"
	"github.com/brightpath/tutordesk/internal/student"
	studentdomain "github.com/brightpath/tutordesk/internal/student/domain"
	"github.com/brightpath/tutordesk/internal/teacher"
	teacherdomain "github.com/brightpath/tutordesk/internal/teacher/domain"
	"github.com/brightpath/tutordesk/pkg/db"
	"github.com/brightpath/tutordesk/pkg/log"
	"github.com/brightpath/tutordesk/pkg/telemetry"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	config.Module,
	log.Module,
	telemetry.Module,
	db.Module,
	clock.Module,
	migration.Module,
	providers.Module,
	notification.Module,
	family.Module,
	student.Module,
	teacher.Module,
	servicedef.Module,
	enrollment.Module,
	eventorder.Module,
	hubsession.Module,
	lead.Module,
	invoice.Module,
	billing.Module,
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(logger *zap.Logger, metrics *telemetry.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestMiddleware(logger, metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine *gin.Engine
	cfg    config.Config
	db     *gorm.DB
	genID  *snowflake.Node

	familySvc     familydomain.Service
	studentSvc    studentdomain.Service
	teacherSvc    teacherdomain.Service
	serviceSvc    servicedefdomain.Service
	enrollmentSvc enrollmentdomain.Service
	eventOrderSvc eventorderdomain.Service
	hubSessionSvc hubsessiondomain.Service
	leadSvc       leaddomain.Service
	invoiceSvc    invoicedomain.Service
	billingSvc    billingdomain.Service
	pdfProvider   pdf.Provider

	statsCache *statsCache
}

type ServerParams struct {
	fx.In

	Gin   *gin.Engine
	Cfg   config.Config
	DB    *gorm.DB
	GenID *snowflake.Node

	FamilySvc     familydomain.Service
	StudentSvc    studentdomain.Service
	TeacherSvc    teacherdomain.Service
	ServiceSvc    servicedefdomain.Service
	EnrollmentSvc enrollmentdomain.Service
	EventOrderSvc eventorderdomain.Service
	HubSessionSvc hubsessiondomain.Service
	LeadSvc       leaddomain.Service
	InvoiceSvc    invoicedomain.Service
	BillingSvc    billingdomain.Service
	PDFProvider   pdf.Provider
	Bus           *events.Bus
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		db:            p.DB,
		genID:         p.GenID,
		familySvc:     p.FamilySvc,
		studentSvc:    p.StudentSvc,
		teacherSvc:    p.TeacherSvc,
		serviceSvc:    p.ServiceSvc,
		enrollmentSvc: p.EnrollmentSvc,
		eventOrderSvc: p.EventOrderSvc,
		hubSessionSvc: p.HubSessionSvc,
		leadSvc:       p.LeadSvc,
		invoiceSvc:    p.InvoiceSvc,
		billingSvc:    p.BillingSvc,
		pdfProvider:   p.PDFProvider,
		statsCache:    newStatsCache(),
	}

	// Batch submissions invalidate the cached dashboard counters.
	for _, topic := range []string{
		billingdomain.TopicInvoicesChanged,
		billingdomain.TopicDashboardStatsChanged,
		billingdomain.TopicRosterStatsChanged,
	} {
		p.Bus.Subscribe(topic, func(string) { svc.statsCache.Invalidate() })
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	api.POST("/families", s.CreateFamily)
	api.GET("/families", s.ListFamilies)
	api.GET("/families/:id", s.GetFamily)
	api.PATCH("/families/:id", s.UpdateFamily)

	api.POST("/students", s.CreateStudent)
	api.GET("/students", s.ListStudents)
	api.GET("/students/:id", s.GetStudent)
	api.PATCH("/students/:id", s.UpdateStudent)

	api.POST("/teachers", s.CreateTeacher)
	api.GET("/teachers", s.ListTeachers)
	api.GET("/teachers/:id", s.GetTeacher)

	api.POST("/services", s.CreateService)
	api.GET("/services", s.ListServices)
	api.GET("/services/:id", s.GetService)
	api.PATCH("/services/:id", s.UpdateService)

	api.POST("/enrollments", s.CreateEnrollment)
	api.GET("/enrollments", s.ListEnrollments)
	api.GET("/enrollments/:id", s.GetEnrollment)
	api.PATCH("/enrollments/:id", s.UpdateEnrollment)

	api.POST("/event-orders", s.CreateEventOrder)
	api.GET("/event-orders", s.ListEventOrders)
	api.GET("/event-orders/:id", s.GetEventOrder)
	api.POST("/event-orders/:id/link-family", s.LinkEventOrderFamily)

	api.POST("/hub-sessions", s.CreateHubSession)
	api.GET("/hub-sessions", s.ListHubSessions)
	api.GET("/hub-sessions/:id", s.GetHubSession)
	api.POST("/hub-sessions/:id/link-family", s.LinkHubSessionFamily)

	api.POST("/leads", s.CreateLead)
	api.GET("/leads", s.ListLeads)
	api.GET("/leads/:id", s.GetLead)
	api.PATCH("/leads/:id", s.UpdateLead)
	api.POST("/leads/:id/convert", s.ConvertLead)

	api.GET("/invoices", s.ListInvoices)
	api.GET("/invoices/:id", s.GetInvoice)
	api.POST("/invoices/:id/pay", s.MarkInvoicePaid)
	api.POST("/invoices/:id/void", s.VoidInvoice)
	api.GET("/invoices/:id/pdf", s.InvoicePDF)

	api.POST("/billing/drafts/preview", s.PreviewDraft)
	api.POST("/billing/drafts/submit", s.SubmitDraft)

	api.GET("/dashboard/stats", s.DashboardStats)
}
