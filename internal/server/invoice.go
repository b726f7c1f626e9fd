package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	invoicedomain "github.com/brightpath/tutordesk/internal/invoice/domain"
	"github.com/brightpath/tutordesk/internal/providers/pdf"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		FamilyID string `form:"family_id"`
		Status   string `form:"status"`
		Mode     string `form:"mode"`
		DueFrom  string `form:"due_from"`
		DueTo    string `form:"due_to"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	listReq := invoicedomain.ListInvoiceRequest{
		FamilyID: strings.TrimSpace(query.FamilyID),
	}
	if trimmed := strings.TrimSpace(query.Status); trimmed != "" {
		status := invoicedomain.InvoiceStatus(trimmed)
		listReq.Status = &status
	}
	if trimmed := strings.TrimSpace(query.Mode); trimmed != "" {
		mode := invoicedomain.BillingMode(trimmed)
		listReq.Mode = &mode
	}

	dueFrom, err := parseOptionalTime(query.DueFrom, false)
	if err != nil {
		AbortWithError(c, newValidationError("due_from", "invalid_due_from", "must be RFC3339 or YYYY-MM-DD"))
		return
	}
	dueTo, err := parseOptionalTime(query.DueTo, true)
	if err != nil {
		AbortWithError(c, newValidationError("due_to", "invalid_due_to", "must be RFC3339 or YYYY-MM-DD"))
		return
	}
	listReq.DueFrom = dueFrom
	listReq.DueTo = dueTo

	resp, err := s.invoiceSvc.List(c.Request.Context(), listReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoice(c *gin.Context) {
	resp, err := s.invoiceSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) MarkInvoicePaid(c *gin.Context) {
	resp, err := s.invoiceSvc.MarkPaid(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) VoidInvoice(c *gin.Context) {
	resp, err := s.invoiceSvc.Void(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

// InvoicePDF renders the invoice and its lines as a downloadable PDF.
func (s *Server) InvoicePDF(c *gin.Context) {
	detail, err := s.invoiceSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	family, err := s.familySvc.GetByID(c.Request.Context(), detail.Invoice.FamilyID.String())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	data := pdf.InvoiceData{
		BusinessName:  s.cfg.AppName,
		BusinessEmail: s.cfg.Email.SMTPFrom,
		InvoiceNumber: detail.Invoice.ID.String(),
		IssueDate:     detail.Invoice.CreatedAt.Format("Jan 2, 2006"),
		BillToName:    family.DisplayName,
		BillToEmail:   family.Email,
		Total:         formatCents(detail.Invoice.TotalCents),
	}
	if detail.Invoice.DueAt != nil {
		data.DueDate = detail.Invoice.DueAt.Format("Jan 2, 2006")
	}
	if detail.Invoice.PeriodStart != nil && detail.Invoice.PeriodEnd != nil {
		data.ServicePeriod = fmt.Sprintf("%s to %s",
			detail.Invoice.PeriodStart.Format("Jan 2, 2006"),
			detail.Invoice.PeriodEnd.Format("Jan 2, 2006"))
	}
	for _, line := range detail.Lines {
		data.Items = append(data.Items, pdf.InvoiceItem{
			Description: line.Description,
			Qty:         formatQuantity(line.Quantity),
			UnitPrice:   formatCents(line.UnitCents),
			Amount:      formatCents(line.AmountCents),
		})
	}

	doc, err := s.pdfProvider.GenerateInvoice(c.Request.Context(), data)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	buf, err := io.ReadAll(doc)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=invoice-%s.pdf", detail.Invoice.ID.String()))
	c.Data(http.StatusOK, "application/pdf", buf)
}

func formatCents(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}

func formatQuantity(qty float64) string {
	if qty == float64(int64(qty)) {
		return fmt.Sprintf("%d", int64(qty))
	}
	return fmt.Sprintf("%.2f", qty)
}
