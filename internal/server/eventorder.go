package server

import (
	"net/http"
	"strings"

	eventorderdomain "github.com/brightpath/tutordesk/internal/eventorder/domain"
	"github.com/gin-gonic/gin"
)

type createEventOrderRequest struct {
	PurchaserName  string `json:"purchaser_name"`
	PurchaserEmail string `json:"purchaser_email"`
	EventName      string `json:"event_name"`
	TicketQuantity int64  `json:"ticket_quantity"`
	TotalCents     int64  `json:"total_cents"`
	FamilyID       string `json:"family_id"`
}

func (s *Server) CreateEventOrder(c *gin.Context) {
	var req createEventOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.eventOrderSvc.Create(c.Request.Context(), eventorderdomain.CreateEventOrderRequest{
		PurchaserName:  strings.TrimSpace(req.PurchaserName),
		PurchaserEmail: strings.TrimSpace(req.PurchaserEmail),
		EventName:      strings.TrimSpace(req.EventName),
		TicketQuantity: req.TicketQuantity,
		TotalCents:     req.TotalCents,
		FamilyID:       strings.TrimSpace(req.FamilyID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListEventOrders(c *gin.Context) {
	var query struct {
		PendingOnly bool   `form:"pending_only"`
		FamilyID    string `form:"family_id"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.eventOrderSvc.List(c.Request.Context(), eventorderdomain.ListEventOrderRequest{
		PendingOnly: query.PendingOnly,
		FamilyID:    strings.TrimSpace(query.FamilyID),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetEventOrder(c *gin.Context) {
	resp, err := s.eventOrderSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) LinkEventOrderFamily(c *gin.Context) {
	var req struct {
		FamilyID string `json:"family_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.eventOrderSvc.LinkFamily(c.Request.Context(), c.Param("id"), strings.TrimSpace(req.FamilyID))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
