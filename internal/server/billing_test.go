package server

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	billingdomain "github.com/brightpath/tutordesk/internal/billing/domain"
	"github.com/gin-gonic/gin"
)

type fakeBillingService struct {
	lastReq   billingdomain.DraftRequest
	submitErr error
	result    billingdomain.BatchResult
}

func (f *fakeBillingService) Preview(ctx context.Context, req billingdomain.DraftRequest) (billingdomain.DraftPreview, error) {
	f.lastReq = req
	_ = ctx
	return billingdomain.DraftPreview{Mode: req.Mode}, nil
}

func (f *fakeBillingService) Submit(ctx context.Context, req billingdomain.DraftRequest) (billingdomain.BatchResult, error) {
	f.lastReq = req
	_ = ctx
	if f.submitErr != nil {
		return billingdomain.BatchResult{}, f.submitErr
	}
	return f.result, nil
}

func newBillingRouter(svc billingdomain.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	srv := &Server{billingSvc: svc}
	router := gin.New()
	router.Use(ErrorHandlingMiddleware())
	router.POST("/billing/drafts/preview", srv.PreviewDraft)
	router.POST("/billing/drafts/submit", srv.SubmitDraft)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestPreviewDraftParsesSnowflakeIDs(t *testing.T) {
	svc := &fakeBillingService{}
	router := newBillingRouter(svc)

	resp := postJSON(t, router, "/billing/drafts/preview", `{
		"mode": "recurring",
		"period": {"start": "2026-03-01", "end": "2026-03-31"},
		"overrides": {"123456789": {"quantity": "2"}},
		"selected": ["123456789", "987654321"],
		"eligible_count": 2
	}`)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if len(svc.lastReq.Selected) != 2 {
		t.Fatalf("expected 2 selected ids, got %d", len(svc.lastReq.Selected))
	}
	if svc.lastReq.Selected[0].Int64() != 123456789 {
		t.Fatalf("expected first selection 123456789, got %d", svc.lastReq.Selected[0])
	}
	ov, ok := svc.lastReq.Overrides[svc.lastReq.Selected[0]]
	if !ok || ov.Quantity == nil || ov.Quantity.IntPart() != 2 {
		t.Fatalf("expected quantity override of 2 for 123456789, got %+v", svc.lastReq.Overrides)
	}
	if svc.lastReq.EligibleCount == nil || *svc.lastReq.EligibleCount != 2 {
		t.Fatalf("expected eligible count 2, got %v", svc.lastReq.EligibleCount)
	}
}

func TestSubmitDraftKeepsNilVersusEmptySelection(t *testing.T) {
	svc := &fakeBillingService{}
	router := newBillingRouter(svc)

	resp := postJSON(t, router, "/billing/drafts/submit", `{"mode": "event"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if svc.lastReq.Selected != nil {
		t.Fatal("expected omitted selection to stay nil")
	}

	resp = postJSON(t, router, "/billing/drafts/submit", `{"mode": "event", "selected": []}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	if svc.lastReq.Selected == nil || len(svc.lastReq.Selected) != 0 {
		t.Fatal("expected explicit empty selection to stay an empty slice")
	}
}

func TestSubmitDraftMapsValidationErrorsTo400(t *testing.T) {
	svc := &fakeBillingService{submitErr: billingdomain.ErrEmptySelection}
	router := newBillingRouter(svc)

	resp := postJSON(t, router, "/billing/drafts/submit", `{"mode": "recurring", "selected": []}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}

func TestSubmitDraftMapsDuplicateInvoiceTo409(t *testing.T) {
	svc := &fakeBillingService{submitErr: billingdomain.ErrDuplicateInvoice}
	router := newBillingRouter(svc)

	resp := postJSON(t, router, "/billing/drafts/submit", `{"mode": "recurring"}`)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestPreviewDraftRejectsMalformedIDs(t *testing.T) {
	svc := &fakeBillingService{}
	router := newBillingRouter(svc)

	resp := postJSON(t, router, "/billing/drafts/preview", `{"mode": "recurring", "selected": ["not-a-number"]}`)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}
