package server

import (
	"net/http"
	"strings"

	familydomain "github.com/brightpath/tutordesk/internal/family/domain"
	"github.com/brightpath/tutordesk/pkg/db/pagination"
	"github.com/gin-gonic/gin"
)

type createFamilyRequest struct {
	DisplayName string `json:"display_name"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Notes       string `json:"notes"`
}

func (s *Server) CreateFamily(c *gin.Context) {
	var req createFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.familySvc.Create(c.Request.Context(), familydomain.CreateFamilyRequest{
		DisplayName: strings.TrimSpace(req.DisplayName),
		ContactName: strings.TrimSpace(req.ContactName),
		Email:       strings.TrimSpace(req.Email),
		Phone:       strings.TrimSpace(req.Phone),
		Notes:       req.Notes,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListFamilies(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Name        string `form:"name"`
		Email       string `form:"email"`
		Status      string `form:"status"`
		CreatedFrom string `form:"created_from"`
		CreatedTo   string `form:"created_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	createdFrom, err := parseOptionalTime(query.CreatedFrom, false)
	if err != nil {
		AbortWithError(c, newValidationError("created_from", "invalid_created_from", "invalid created_from"))
		return
	}
	createdTo, err := parseOptionalTime(query.CreatedTo, true)
	if err != nil {
		AbortWithError(c, newValidationError("created_to", "invalid_created_to", "invalid created_to"))
		return
	}

	listReq := familydomain.ListFamilyRequest{
		PageToken:   query.PageToken,
		PageSize:    int32(query.PageSize),
		Name:        strings.TrimSpace(query.Name),
		Email:       strings.TrimSpace(query.Email),
		CreatedFrom: createdFrom,
		CreatedTo:   createdTo,
	}
	if trimmed := strings.TrimSpace(query.Status); trimmed != "" {
		status := familydomain.FamilyStatus(trimmed)
		listReq.Status = &status
	}

	resp, err := s.familySvc.List(c.Request.Context(), listReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetFamily(c *gin.Context) {
	resp, err := s.familySvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateFamilyRequest struct {
	DisplayName *string `json:"display_name"`
	ContactName *string `json:"contact_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Status      *string `json:"status"`
	Notes       *string `json:"notes"`
}

func (s *Server) UpdateFamily(c *gin.Context) {
	var req updateFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	updateReq := familydomain.UpdateFamilyRequest{
		ID:          c.Param("id"),
		DisplayName: req.DisplayName,
		ContactName: req.ContactName,
		Email:       req.Email,
		Phone:       req.Phone,
		Notes:       req.Notes,
	}
	if req.Status != nil {
		status := familydomain.FamilyStatus(*req.Status)
		updateReq.Status = &status
	}

	resp, err := s.familySvc.Update(c.Request.Context(), updateReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
