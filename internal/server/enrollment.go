package server

import (
	"net/http"
	"strings"

	enrollmentdomain "github.com/brightpath/tutordesk/internal/enrollment/domain"
	servicedefdomain "github.com/brightpath/tutordesk/internal/servicedef/domain"
	"github.com/gin-gonic/gin"
)

type createEnrollmentRequest struct {
	FamilyID         string   `json:"family_id"`
	StudentID        string   `json:"student_id"`
	TeacherID        string   `json:"teacher_id"`
	ServiceID        string   `json:"service_id"`
	HourlyRateCents  *int64   `json:"hourly_rate_cents"`
	HoursPerWeek     *float64 `json:"hours_per_week"`
	WeeklyRateCents  *int64   `json:"weekly_rate_cents"`
	MonthlyRateCents *int64   `json:"monthly_rate_cents"`
	DailyRateCents   *int64   `json:"daily_rate_cents"`
	Notes            string   `json:"notes"`
}

func (s *Server) CreateEnrollment(c *gin.Context) {
	var req createEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.enrollmentSvc.Create(c.Request.Context(), enrollmentdomain.CreateEnrollmentRequest{
		FamilyID:         strings.TrimSpace(req.FamilyID),
		StudentID:        strings.TrimSpace(req.StudentID),
		TeacherID:        strings.TrimSpace(req.TeacherID),
		ServiceID:        strings.TrimSpace(req.ServiceID),
		HourlyRateCents:  req.HourlyRateCents,
		HoursPerWeek:     req.HoursPerWeek,
		WeeklyRateCents:  req.WeeklyRateCents,
		MonthlyRateCents: req.MonthlyRateCents,
		DailyRateCents:   req.DailyRateCents,
		Notes:            req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListEnrollments(c *gin.Context) {
	var query struct {
		FamilyID    string `form:"family_id"`
		TeacherID   string `form:"teacher_id"`
		ServiceCode string `form:"service_code"`
		Status      string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	listReq := enrollmentdomain.ListEnrollmentRequest{
		FamilyID:    strings.TrimSpace(query.FamilyID),
		TeacherID:   strings.TrimSpace(query.TeacherID),
		ServiceCode: servicedefdomain.ServiceCode(strings.TrimSpace(query.ServiceCode)),
	}
	if trimmed := strings.TrimSpace(query.Status); trimmed != "" {
		status := enrollmentdomain.EnrollmentStatus(trimmed)
		listReq.Status = &status
	}

	resp, err := s.enrollmentSvc.List(c.Request.Context(), listReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetEnrollment(c *gin.Context) {
	resp, err := s.enrollmentSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateEnrollmentRequest struct {
	TeacherID        *string  `json:"teacher_id"`
	HourlyRateCents  *int64   `json:"hourly_rate_cents"`
	HoursPerWeek     *float64 `json:"hours_per_week"`
	WeeklyRateCents  *int64   `json:"weekly_rate_cents"`
	MonthlyRateCents *int64   `json:"monthly_rate_cents"`
	DailyRateCents   *int64   `json:"daily_rate_cents"`
	Status           *string  `json:"status"`
	Notes            *string  `json:"notes"`
}

func (s *Server) UpdateEnrollment(c *gin.Context) {
	var req updateEnrollmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	updateReq := enrollmentdomain.UpdateEnrollmentRequest{
		ID:               c.Param("id"),
		TeacherID:        req.TeacherID,
		HourlyRateCents:  req.HourlyRateCents,
		HoursPerWeek:     req.HoursPerWeek,
		WeeklyRateCents:  req.WeeklyRateCents,
		MonthlyRateCents: req.MonthlyRateCents,
		DailyRateCents:   req.DailyRateCents,
		Notes:            req.Notes,
	}
	if req.Status != nil {
		status := enrollmentdomain.EnrollmentStatus(*req.Status)
		updateReq.Status = &status
	}

	resp, err := s.enrollmentSvc.Update(c.Request.Context(), updateReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
