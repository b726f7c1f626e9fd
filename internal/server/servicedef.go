package server

import (
	"net/http"
	"strings"

	servicedefdomain "github.com/brightpath/tutordesk/internal/servicedef/domain"
	"github.com/gin-gonic/gin"
)

type createServiceRequest struct {
	Code             string `json:"code"`
	DisplayName      string `json:"display_name"`
	BillingFrequency string `json:"billing_frequency"`
	HourlyRateCents  int64  `json:"hourly_rate_cents"`
	WeeklyRateCents  int64  `json:"weekly_rate_cents"`
	MonthlyRateCents int64  `json:"monthly_rate_cents"`
	DailyRateCents   int64  `json:"daily_rate_cents"`
}

func (s *Server) CreateService(c *gin.Context) {
	var req createServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.serviceSvc.Create(c.Request.Context(), servicedefdomain.CreateServiceRequest{
		Code:             servicedefdomain.ServiceCode(strings.TrimSpace(req.Code)),
		DisplayName:      strings.TrimSpace(req.DisplayName),
		BillingFrequency: servicedefdomain.BillingFrequency(strings.TrimSpace(req.BillingFrequency)),
		HourlyRateCents:  req.HourlyRateCents,
		WeeklyRateCents:  req.WeeklyRateCents,
		MonthlyRateCents: req.MonthlyRateCents,
		DailyRateCents:   req.DailyRateCents,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListServices(c *gin.Context) {
	var query struct {
		ActiveOnly bool `form:"active_only"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.serviceSvc.List(c.Request.Context(), servicedefdomain.ListServiceRequest{
		ActiveOnly: query.ActiveOnly,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetService(c *gin.Context) {
	resp, err := s.serviceSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateServiceRequest struct {
	DisplayName      *string `json:"display_name"`
	BillingFrequency *string `json:"billing_frequency"`
	HourlyRateCents  *int64  `json:"hourly_rate_cents"`
	WeeklyRateCents  *int64  `json:"weekly_rate_cents"`
	MonthlyRateCents *int64  `json:"monthly_rate_cents"`
	DailyRateCents   *int64  `json:"daily_rate_cents"`
	Active           *bool   `json:"active"`
}

func (s *Server) UpdateService(c *gin.Context) {
	var req updateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	updateReq := servicedefdomain.UpdateServiceRequest{
		ID:               c.Param("id"),
		DisplayName:      req.DisplayName,
		HourlyRateCents:  req.HourlyRateCents,
		WeeklyRateCents:  req.WeeklyRateCents,
		MonthlyRateCents: req.MonthlyRateCents,
		DailyRateCents:   req.DailyRateCents,
		Active:           req.Active,
	}
	if req.BillingFrequency != nil {
		freq := servicedefdomain.BillingFrequency(*req.BillingFrequency)
		updateReq.BillingFrequency = &freq
	}

	resp, err := s.serviceSvc.Update(c.Request.Context(), updateReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
