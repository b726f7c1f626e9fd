package server

import (
	"net/http"
	"strings"

	hubsessiondomain "github.com/brightpath/tutordesk/internal/hubsession/domain"
	"github.com/gin-gonic/gin"
)

type createHubSessionRequest struct {
	FamilyID       string `json:"family_id"`
	StudentName    string `json:"student_name"`
	SessionDate    string `json:"session_date"`
	DailyRateCents *int64 `json:"daily_rate_cents"`
}

func (s *Server) CreateHubSession(c *gin.Context) {
	var req createHubSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	sessionDate, err := parseOptionalTime(req.SessionDate, false)
	if err != nil {
		AbortWithError(c, newValidationError("session_date", "invalid_session_date", "must be RFC3339 or YYYY-MM-DD"))
		return
	}
	if sessionDate == nil {
		AbortWithError(c, newValidationError("session_date", "missing_session_date", "is required"))
		return
	}

	resp, err := s.hubSessionSvc.Create(c.Request.Context(), hubsessiondomain.CreateHubSessionRequest{
		FamilyID:       strings.TrimSpace(req.FamilyID),
		StudentName:    strings.TrimSpace(req.StudentName),
		SessionDate:    *sessionDate,
		DailyRateCents: req.DailyRateCents,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListHubSessions(c *gin.Context) {
	var query struct {
		PendingOnly bool   `form:"pending_only"`
		FamilyID    string `form:"family_id"`
		From        string `form:"from"`
		To          string `form:"to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	from, err := parseOptionalTime(query.From, false)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "must be RFC3339 or YYYY-MM-DD"))
		return
	}
	to, err := parseOptionalTime(query.To, true)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "must be RFC3339 or YYYY-MM-DD"))
		return
	}

	resp, err := s.hubSessionSvc.List(c.Request.Context(), hubsessiondomain.ListHubSessionRequest{
		PendingOnly: query.PendingOnly,
		FamilyID:    strings.TrimSpace(query.FamilyID),
		From:        from,
		To:          to,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetHubSession(c *gin.Context) {
	resp, err := s.hubSessionSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) LinkHubSessionFamily(c *gin.Context) {
	var req struct {
		FamilyID string `json:"family_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.hubSessionSvc.LinkFamily(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.FamilyID))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
