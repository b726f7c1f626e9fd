package server

import (
	"net/http"
	"strings"

	billingdomain "github.com/brightpath/tutordesk/internal/billing/domain"
	invoicedomain "github.com/brightpath/tutordesk/internal/invoice/domain"
	servicedefdomain "github.com/brightpath/tutordesk/internal/servicedef/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type draftPeriodRequest struct {
	Start   string `json:"start"`
	End     string `json:"end"`
	DueDate string `json:"due_date"`
	Note    string `json:"note"`
}

type draftOverrideRequest struct {
	Quantity  *decimal.Decimal `json:"quantity"`
	UnitPrice *decimal.Decimal `json:"unit_price"`
}

// draftRequest is the wire shape for both preview and submit. Source IDs
// arrive as strings because snowflake IDs overflow JSON numbers.
type draftRequest struct {
	Mode           string                          `json:"mode"`
	Period         *draftPeriodRequest             `json:"period"`
	ServiceCode    string                          `json:"service_code"`
	TeacherID      string                          `json:"teacher_id"`
	Overrides      map[string]draftOverrideRequest `json:"overrides"`
	AmountEdits    map[string]decimal.Decimal      `json:"amount_edits"`
	GlobalQuantity map[string]decimal.Decimal      `json:"global_quantity"`
	Selected       []string                        `json:"selected"`
	EligibleCount  *int                            `json:"eligible_count"`
	SortByTotal    bool                            `json:"sort_by_total"`
	SortDesc       bool                            `json:"sort_desc"`
}

func (r draftRequest) toDomain() (billingdomain.DraftRequest, error) {
	req := billingdomain.DraftRequest{
		Mode:          invoicedomain.BillingMode(strings.TrimSpace(r.Mode)),
		EligibleCount: r.EligibleCount,
		SortByTotal:   r.SortByTotal,
		SortDesc:      r.SortDesc,
	}

	if r.Period != nil {
		start, err := parseOptionalTime(r.Period.Start, false)
		if err != nil || start == nil {
			return req, newValidationError("period.start", "invalid_period_start", "must be RFC3339 or YYYY-MM-DD")
		}
		end, err := parseOptionalTime(r.Period.End, true)
		if err != nil || end == nil {
			return req, newValidationError("period.end", "invalid_period_end", "must be RFC3339 or YYYY-MM-DD")
		}
		period := billingdomain.BillingPeriod{Start: *start, End: *end, Note: r.Period.Note}
		if due, err := parseOptionalTime(r.Period.DueDate, false); err != nil {
			return req, newValidationError("period.due_date", "invalid_due_date", "must be RFC3339 or YYYY-MM-DD")
		} else if due != nil {
			period.DueDate = *due
		}
		req.Period = &period
	}

	if trimmed := strings.TrimSpace(r.ServiceCode); trimmed != "" {
		code := servicedefdomain.ServiceCode(trimmed)
		req.Filter.ServiceCode = &code
	}
	if trimmed := strings.TrimSpace(r.TeacherID); trimmed != "" {
		id, err := snowflake.ParseString(trimmed)
		if err != nil {
			return req, newValidationError("teacher_id", "invalid_teacher_id", "must be a numeric id")
		}
		req.Filter.TeacherID = &id
	}

	if len(r.Overrides) > 0 {
		req.Overrides = make(map[snowflake.ID]billingdomain.DraftOverride, len(r.Overrides))
		for raw, ov := range r.Overrides {
			id, err := snowflake.ParseString(raw)
			if err != nil {
				return req, newValidationError("overrides", "invalid_overrides", "keys must be numeric ids")
			}
			req.Overrides[id] = billingdomain.DraftOverride{Quantity: ov.Quantity, UnitPrice: ov.UnitPrice}
		}
	}
	if len(r.AmountEdits) > 0 {
		req.AmountEdits = make(map[snowflake.ID]decimal.Decimal, len(r.AmountEdits))
		for raw, amount := range r.AmountEdits {
			id, err := snowflake.ParseString(raw)
			if err != nil {
				return req, newValidationError("amount_edits", "invalid_amount_edits", "keys must be numeric ids")
			}
			req.AmountEdits[id] = amount
		}
	}
	if len(r.GlobalQuantity) > 0 {
		req.GlobalQuantity = make(map[servicedefdomain.ServiceCode]decimal.Decimal, len(r.GlobalQuantity))
		for code, qty := range r.GlobalQuantity {
			req.GlobalQuantity[servicedefdomain.ServiceCode(code)] = qty
		}
	}

	// A nil slice means "default selection"; an explicit empty array must
	// survive as empty so submission can reject it.
	if r.Selected != nil {
		req.Selected = make([]snowflake.ID, 0, len(r.Selected))
		for _, raw := range r.Selected {
			id, err := snowflake.ParseString(raw)
			if err != nil {
				return req, newValidationError("selected", "invalid_selected", "entries must be numeric ids")
			}
			req.Selected = append(req.Selected, id)
		}
	}

	return req, nil
}

func (s *Server) PreviewDraft(c *gin.Context) {
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	domainReq, err := req.toDomain()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	preview, err := s.billingSvc.Preview(c.Request.Context(), domainReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": preview})
}

func (s *Server) SubmitDraft(c *gin.Context) {
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	domainReq, err := req.toDomain()
	if err != nil {
		AbortWithError(c, err)
		return
	}

	result, err := s.billingSvc.Submit(c.Request.Context(), domainReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": result})
}
