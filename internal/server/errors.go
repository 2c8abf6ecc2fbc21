package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	accountmapdomain "github.com/stayware/foliopost/internal/accountmap/domain"
	"github.com/stayware/foliopost/internal/glclient"
	ledgerdomain "github.com/stayware/foliopost/internal/ledger/domain"
	postingdomain "github.com/stayware/foliopost/internal/posting/domain"
	taxruledomain "github.com/stayware/foliopost/internal/taxrule/domain"
	transferdomain "github.com/stayware/foliopost/internal/transfer/domain"
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

// validationSentinels are domain rejections that map to HTTP 400.
var validationSentinels = []error{
	taxruledomain.ErrInvalidHotel,
	taxruledomain.ErrInvalidOutlet,
	taxruledomain.ErrInvalidName,
	taxruledomain.ErrInvalidID,
	taxruledomain.ErrInvalidPercentage,
	accountmapdomain.ErrInvalidHotel,
	accountmapdomain.ErrInvalidOutlet,
	accountmapdomain.ErrInvalidAccount,
	transferdomain.ErrInvalidReference,
	transferdomain.ErrSameReference,
	transferdomain.ErrInvalidAmount,
	transferdomain.ErrInvalidAccount,
	transferdomain.ErrInvalidCurrency,
	postingdomain.ErrNilTemplate,
	postingdomain.ErrNoTargets,
	postingdomain.ErrInvalidTarget,
	ledgerdomain.ErrEmptyTransaction,
	ledgerdomain.ErrZeroValue,
	ledgerdomain.ErrInvalidCurrency,
	ledgerdomain.ErrMissingControlAcc,
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

	for _, sentinel := range validationSentinels {
		if errors.Is(err, sentinel) {
			return http.StatusBadRequest, errorPayload{
				Type:    "validation_error",
				Message: sentinel.Error(),
			}
		}
	}

	var partial *transferdomain.PartialError
	if errors.As(err, &partial) {
		return http.StatusBadGateway, errorPayload{
			Type:    "transfer_partial",
			Message: partial.Error(),
		}
	}

	var remote *glclient.RemoteError
	if errors.As(err, &remote) {
		return http.StatusBadGateway, errorPayload{
			Type:    "submission_failure",
			Message: remote.Message,
		}
	}

	switch {
	case errors.Is(err, taxruledomain.ErrNotFound),
		errors.Is(err, accountmapdomain.ErrNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "resource not found",
		}
	case errors.Is(err, ledgerdomain.ErrUnbalanced):
		// Only reachable when the balance pass was bypassed; a caller
		// cannot produce this through the API.
		return http.StatusInternalServerError, errorPayload{
			Type:    "imbalance_error",
			Message: "transaction does not balance",
		}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: "resource already exists",
		}
	}

	return http.StatusInternalServerError, errorPayload{
		Type:    "internal_error",
		Message: "internal server error",
	}
}

func asValidationErrors(err error) *ValidationErrors {
	var ptr *ValidationErrors
	if errors.As(err, &ptr) {
		return ptr
	}
	var val ValidationErrors
	if errors.As(err, &val) {
		return &val
	}
	return nil
}

// classifyErrorForLog labels request errors for the access log without
// rendering anything to the client.
func classifyErrorForLog(err error) (string, string) {
	status, payload := mapError(err)
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error", payload.Type
	case status >= http.StatusBadRequest:
		return "client_error", payload.Type
	default:
		return "", payload.Type
	}
}
