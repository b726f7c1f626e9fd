package server

import (
	"net/http"
	"strings"

	leaddomain "github.com/brightpath/tutordesk/internal/lead/domain"
	"github.com/gin-gonic/gin"
)

type createLeadRequest struct {
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Source      string `json:"source"`
	Notes       string `json:"notes"`
}

func (s *Server) CreateLead(c *gin.Context) {
	var req createLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.leadSvc.Create(c.Request.Context(), leaddomain.CreateLeadRequest{
		ContactName: strings.TrimSpace(req.ContactName),
		Email:       strings.TrimSpace(req.Email),
		Source:      strings.TrimSpace(req.Source),
		Notes:       req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListLeads(c *gin.Context) {
	listReq := leaddomain.ListLeadRequest{}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status := leaddomain.LeadStatus(raw)
		listReq.Status = &status
	}

	resp, err := s.leadSvc.List(c.Request.Context(), listReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetLead(c *gin.Context) {
	resp, err := s.leadSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateLeadRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

func (s *Server) UpdateLead(c *gin.Context) {
	var req updateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	updateReq := leaddomain.UpdateLeadRequest{
		ID:    c.Param("id"),
		Notes: req.Notes,
	}
	if req.Status != nil {
		status := leaddomain.LeadStatus(*req.Status)
		updateReq.Status = &status
	}

	resp, err := s.leadSvc.Update(c.Request.Context(), updateReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ConvertLead(c *gin.Context) {
	var req struct {
		FamilyID string `json:"family_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.leadSvc.Convert(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.FamilyID))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
