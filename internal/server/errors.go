package server

import (
	"errors"
	"net/http"
	"strings"

	billingdomain "github.com/brightpath/tutordesk/internal/billing/domain"
	enrollmentdomain "github.com/brightpath/tutordesk/internal/enrollment/domain"
	eventorderdomain "github.com/brightpath/tutordesk/internal/eventorder/domain"
	familydomain "github.com/brightpath/tutordesk/internal/family/domain"
	hubsessiondomain "github.com/brightpath/tutordesk/internal/hubsession/domain"
	invoicedomain "github.com/brightpath/tutordesk/internal/invoice/domain"
	leaddomain "github.com/brightpath/tutordesk/internal/lead/domain"
	servicedefdomain "github.com/brightpath/tutordesk/internal/servicedef/domain"
	studentdomain "github.com/brightpath/tutordesk/internal/student/domain"
	teacherdomain "github.com/brightpath/tutordesk/internal/teacher/domain"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if isValidationError(err) {
		code := validationErrorCode(err)
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(code),
				},
			},
		}
	}

	switch {
	case isConflictError(err):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: conflictErrorCode(err),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func isValidationError(err error) bool {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return true
	case isFamilyValidationError(err),
		isStudentValidationError(err),
		isTeacherValidationError(err),
		isServiceValidationError(err),
		isEnrollmentValidationError(err),
		isEventOrderValidationError(err),
		isHubSessionValidationError(err),
		isLeadValidationError(err),
		isInvoiceValidationError(err),
		isBillingValidationError(err):
		return true
	default:
		return false
	}
}

func isFamilyValidationError(err error) bool {
	return errors.Is(err, familydomain.ErrInvalidName) ||
		errors.Is(err, familydomain.ErrInvalidEmail) ||
		errors.Is(err, familydomain.ErrInvalidStatus) ||
		errors.Is(err, familydomain.ErrInvalidID)
}

func isStudentValidationError(err error) bool {
	return errors.Is(err, studentdomain.ErrInvalidFamily) ||
		errors.Is(err, studentdomain.ErrInvalidName) ||
		errors.Is(err, studentdomain.ErrInvalidStatus) ||
		errors.Is(err, studentdomain.ErrInvalidID)
}

func isTeacherValidationError(err error) bool {
	return errors.Is(err, teacherdomain.ErrInvalidName) ||
		errors.Is(err, teacherdomain.ErrInvalidEmail) ||
		errors.Is(err, teacherdomain.ErrInvalidID)
}

func isServiceValidationError(err error) bool {
	return errors.Is(err, servicedefdomain.ErrInvalidCode) ||
		errors.Is(err, servicedefdomain.ErrInvalidName) ||
		errors.Is(err, servicedefdomain.ErrInvalidFrequency) ||
		errors.Is(err, servicedefdomain.ErrInvalidRate) ||
		errors.Is(err, servicedefdomain.ErrInvalidID)
}

func isEnrollmentValidationError(err error) bool {
	return errors.Is(err, enrollmentdomain.ErrInvalidFamily) ||
		errors.Is(err, enrollmentdomain.ErrInvalidStudent) ||
		errors.Is(err, enrollmentdomain.ErrInvalidTeacher) ||
		errors.Is(err, enrollmentdomain.ErrInvalidService) ||
		errors.Is(err, enrollmentdomain.ErrInvalidRate) ||
		errors.Is(err, enrollmentdomain.ErrInvalidStatus) ||
		errors.Is(err, enrollmentdomain.ErrInvalidID)
}

func isEventOrderValidationError(err error) bool {
	return errors.Is(err, eventorderdomain.ErrInvalidPurchaser) ||
		errors.Is(err, eventorderdomain.ErrInvalidEvent) ||
		errors.Is(err, eventorderdomain.ErrInvalidQuantity) ||
		errors.Is(err, eventorderdomain.ErrInvalidTotal) ||
		errors.Is(err, eventorderdomain.ErrInvalidFamily) ||
		errors.Is(err, eventorderdomain.ErrInvalidID)
}

func isHubSessionValidationError(err error) bool {
	return errors.Is(err, hubsessiondomain.ErrInvalidStudent) ||
		errors.Is(err, hubsessiondomain.ErrInvalidDate) ||
		errors.Is(err, hubsessiondomain.ErrInvalidRate) ||
		errors.Is(err, hubsessiondomain.ErrInvalidFamily) ||
		errors.Is(err, hubsessiondomain.ErrInvalidID)
}

func isLeadValidationError(err error) bool {
	return errors.Is(err, leaddomain.ErrInvalidName) ||
		errors.Is(err, leaddomain.ErrInvalidEmail) ||
		errors.Is(err, leaddomain.ErrInvalidStatus) ||
		errors.Is(err, leaddomain.ErrInvalidFamily) ||
		errors.Is(err, leaddomain.ErrInvalidID)
}

func isInvoiceValidationError(err error) bool {
	return errors.Is(err, invoicedomain.ErrInvalidID) ||
		errors.Is(err, invoicedomain.ErrInvalidFamily)
}

func isBillingValidationError(err error) bool {
	return errors.Is(err, billingdomain.ErrInvalidMode) ||
		errors.Is(err, billingdomain.ErrMissingPeriod) ||
		errors.Is(err, billingdomain.ErrInvalidPeriod) ||
		errors.Is(err, billingdomain.ErrEmptySelection) ||
		errors.Is(err, billingdomain.ErrNegativeOverride) ||
		errors.Is(err, billingdomain.ErrUnknownSelection)
}

func isConflictError(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, servicedefdomain.ErrDuplicateCode) ||
		errors.Is(err, eventorderdomain.ErrAlreadyInvoiced) ||
		errors.Is(err, hubsessiondomain.ErrAlreadyInvoiced) ||
		errors.Is(err, leaddomain.ErrAlreadyConverted) ||
		errors.Is(err, invoicedomain.ErrAlreadyPaid) ||
		errors.Is(err, invoicedomain.ErrAlreadyVoided) ||
		errors.Is(err, billingdomain.ErrDuplicateInvoice)
}

func conflictErrorCode(err error) string {
	for _, sentinel := range []error{
		servicedefdomain.ErrDuplicateCode,
		eventorderdomain.ErrAlreadyInvoiced,
		hubsessiondomain.ErrAlreadyInvoiced,
		leaddomain.ErrAlreadyConverted,
		invoicedomain.ErrAlreadyPaid,
		invoicedomain.ErrAlreadyVoided,
		billingdomain.ErrDuplicateInvoice,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "conflict"
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, familydomain.ErrNotFound),
		errors.Is(err, studentdomain.ErrNotFound),
		errors.Is(err, teacherdomain.ErrNotFound),
		errors.Is(err, servicedefdomain.ErrNotFound),
		errors.Is(err, enrollmentdomain.ErrNotFound),
		errors.Is(err, eventorderdomain.ErrNotFound),
		errors.Is(err, hubsessiondomain.ErrNotFound),
		errors.Is(err, leaddomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func validationErrorCode(err error) string {
	for _, target := range []error{
		billingdomain.ErrInvalidMode,
		billingdomain.ErrMissingPeriod,
		billingdomain.ErrInvalidPeriod,
		billingdomain.ErrEmptySelection,
		billingdomain.ErrNegativeOverride,
		billingdomain.ErrUnknownSelection,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	if errors.Is(err, ErrInvalidRequest) {
		return "invalid_request"
	}
	return err.Error()
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	return ""
}

func validationErrorMessage(code string) string {
	switch code {
	case "invalid_request":
		return "invalid request"
	case "empty_selection":
		return "no items selected"
	case "missing_period":
		return "billing period is required"
	case "negative_override":
		return "overrides must be non-negative"
	default:
		return "invalid value"
	}
}
