package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorConstructors(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		err            *AppError
		category       ErrorCategory
		httpStatus     int
		messagePortion string
	}{
		{
			name:           "validation error",
			err:            NewValidationError("expression value must be non-negative"),
			category:       CategoryValidation,
			httpStatus:     http.StatusBadRequest,
			messagePortion: "VALIDATION_ERROR",
		},
		{
			name:           "artifact error",
			err:            NewArtifactError("scaler artifact not found", errors.New("open scaler.json: no such file")),
			category:       CategoryArtifact,
			httpStatus:     http.StatusServiceUnavailable,
			messagePortion: "ARTIFACT_ERROR",
		},
		{
			name:           "scaling error",
			err:            NewScalingError("error during data scaling", errors.New("feature dimension mismatch")),
			category:       CategoryScaling,
			httpStatus:     http.StatusUnprocessableEntity,
			messagePortion: "SCALING_ERROR",
		},
		{
			name:           "classification error",
			err:            NewClassificationError("error during prediction", errors.New("forest has no trees")),
			category:       CategoryClassification,
			httpStatus:     http.StatusUnprocessableEntity,
			messagePortion: "CLASSIFICATION_ERROR",
		},
		{
			name:           "timeout error",
			err:            NewTimeoutError("prediction timed out", nil),
			category:       CategoryTimeout,
			httpStatus:     http.StatusGatewayTimeout,
			messagePortion: "TIMEOUT_ERROR",
		},
		{
			name:           "rate limit error",
			err:            NewRateLimitError("60"),
			category:       CategoryRateLimit,
			httpStatus:     http.StatusTooManyRequests,
			messagePortion: "RATE_LIMIT_EXCEEDED",
		},
		{
			name:           "internal error",
			err:            NewInternalError("unexpected failure", errors.New("boom")),
			category:       CategoryInternal,
			httpStatus:     http.StatusInternalServerError,
			messagePortion: "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.err)
			assert.Equal(t, tt.category, tt.err.Category)
			assert.Equal(t, tt.httpStatus, tt.err.HTTPStatus)
			assert.Contains(t, tt.err.Error(), tt.messagePortion)
			assert.False(t, tt.err.Timestamp.IsZero())
		})
	}
}

func TestNewValidationErrorWithMap(t *testing.T) {
	err := NewValidationErrorWithMap(map[string]string{
		"TESPA1": "value must be >= 0",
		"NPTX1":  "missing expression value",
	})

	assert.Equal(t, CategoryValidation, err.Category)
	assert.Equal(t, http.StatusBadRequest, err.HTTPStatus)
	assert.Len(t, err.ErrBuilder.Details.Errors, 2)
}

func TestToAppError(t *testing.T) {
	tests := []struct {
		name     string
		input    error
		category ErrorCategory
	}{
		{
			name:     "passes through existing AppError",
			input:    NewScalingError("scaling failed", nil),
			category: CategoryScaling,
		},
		{
			name:     "wraps context cancellation",
			input:    context.Canceled,
			category: CategoryTimeout,
		},
		{
			name:     "wraps deadline exceeded",
			input:    context.DeadlineExceeded,
			category: CategoryTimeout,
		},
		{
			name:     "wraps plain error as internal",
			input:    errors.New("something broke"),
			category: CategoryInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := ToAppError(tt.input)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.category, appErr.Category)
		})
	}

	assert.Nil(t, ToAppError(nil))
}

func TestErrorHandlerMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(NewScalingError("error during data scaling", fmt.Errorf("dim mismatch")))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/fail", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "scaling")
}

func TestWrapError(t *testing.T) {
	base := errors.New("base")
	wrapped := WrapError(base, "loading artifact %s", "scaler.json")

	require.Error(t, wrapped)
	assert.Contains(t, wrapped.Error(), "scaler.json")
	assert.ErrorIs(t, wrapped, base)

	assert.NoError(t, WrapError(nil, "ignored"))
}
