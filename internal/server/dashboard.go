package server

import (
	"net/http"
	"sync"

	enrollmentdomain "github.com/brightpath/tutordesk/internal/enrollment/domain"
	eventorderdomain "github.com/brightpath/tutordesk/internal/eventorder/domain"
	familydomain "github.com/brightpath/tutordesk/internal/family/domain"
	hubsessiondomain "github.com/brightpath/tutordesk/internal/hubsession/domain"
	invoicedomain "github.com/brightpath/tutordesk/internal/invoice/domain"
	studentdomain "github.com/brightpath/tutordesk/internal/student/domain"
	"github.com/gin-gonic/gin"
)

// DashboardStats are the console's headline counters.
type DashboardStats struct {
	ActiveFamilies     int64 `json:"active_families"`
	ActiveStudents     int64 `json:"active_students"`
	ActiveEnrollments  int64 `json:"active_enrollments"`
	OpenInvoices       int64 `json:"open_invoices"`
	OpenInvoiceCents   int64 `json:"open_invoice_cents"`
	PendingEventOrders int64 `json:"pending_event_orders"`
	PendingHubSessions int64 `json:"pending_hub_sessions"`
}

// statsCache memoizes dashboard counters until a billing run publishes a
// change event.
type statsCache struct {
	mu    sync.Mutex
	stats DashboardStats
	valid bool
}

func newStatsCache() *statsCache {
	return &statsCache{}
}

func (c *statsCache) Get() (DashboardStats, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats, c.valid
}

func (c *statsCache) Set(stats DashboardStats) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stats = stats
	c.valid = true
}

func (c *statsCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.valid = false
}

func (s *Server) DashboardStats(c *gin.Context) {
	if stats, ok := s.statsCache.Get(); ok {
		c.JSON(http.StatusOK, gin.H{"data": stats})
		return
	}

	var stats DashboardStats
	counts := []struct {
		dest  *int64
		model any
		query string
		args  []any
	}{
		{&stats.ActiveFamilies, &familydomain.Family{}, "status = ?", []any{familydomain.FamilyStatusActive}},
		{&stats.ActiveStudents, &studentdomain.Student{}, "status = ?", []any{studentdomain.StudentStatusActive}},
		{&stats.ActiveEnrollments, &enrollmentdomain.Enrollment{}, "status = ?", []any{enrollmentdomain.EnrollmentStatusActive}},
		{&stats.OpenInvoices, &invoicedomain.Invoice{}, "status = ?", []any{invoicedomain.InvoiceStatusOpen}},
		{&stats.PendingEventOrders, &eventorderdomain.EventOrder{}, "invoiced = ?", []any{false}},
		{&stats.PendingHubSessions, &hubsessiondomain.HubSession{}, "invoiced = ?", []any{false}},
	}
	for _, count := range counts {
		if err := s.db.WithContext(c.Request.Context()).
			Model(count.model).
			Where(count.query, count.args...).
			Count(count.dest).Error; err != nil {
			AbortWithError(c, err)
			return
		}
	}

	var openCents struct{ Total int64 }
	if err := s.db.WithContext(c.Request.Context()).
		Model(&invoicedomain.Invoice{}).
		Select("COALESCE(SUM(total_cents), 0) AS total").
		Where("status = ?", invoicedomain.InvoiceStatusOpen).
		Scan(&openCents).Error; err != nil {
		AbortWithError(c, err)
		return
	}
	stats.OpenInvoiceCents = openCents.Total

	s.statsCache.Set(stats)
	c.JSON(http.StatusOK, gin.H{"data": stats})
}
