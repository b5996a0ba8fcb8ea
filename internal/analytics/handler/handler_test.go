package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/festy23/realty_ops/internal/analytics/model"
	"github.com/festy23/realty_ops/internal/analytics/service"
	"github.com/festy23/realty_ops/internal/authz"
	"github.com/festy23/realty_ops/internal/middleware"
	propertyModel "github.com/festy23/realty_ops/internal/property/model"
	"github.com/festy23/realty_ops/internal/response"
)

// mockService is a mock implementation of service.Service for unit tests.
type mockService struct {
	mock.Mock
}

func (m *mockService) PropertyBreakdown(ctx context.Context, actorID string) (*model.PropertyBreakdown, error) {
	args := m.Called(ctx, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PropertyBreakdown), args.Error(1)
}

func (m *mockService) Metrics(ctx context.Context, actorID string, from, to *time.Time) (*model.MetricsResponse, error) {
	args := m.Called(ctx, actorID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MetricsResponse), args.Error(1)
}

var _ service.Service = (*mockService)(nil)

func setupRouter(svc service.Service, actorID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if actorID != "" {
		r.Use(func(c *gin.Context) { middleware.SetActorID(c, actorID) })
	}
	h := New(svc, zap.NewNop().Sugar())
	r.GET("/analytics/properties", h.GetPropertyBreakdown)
	r.GET("/analytics/metrics", h.GetMetrics)
	return r
}

func TestHandler_GetPropertyBreakdown(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := new(mockService)
		svc.On("PropertyBreakdown", mock.Anything, "u1").Return(&model.PropertyBreakdown{
			ByStatus:     []model.StatusCount{{Status: propertyModel.StatusMarketing, Count: 2}},
			PriceSummary: model.PriceSummary{Total: 2, TotalValue: 500000, AveragePrice: 250000},
		}, nil)

		w := httptest.NewRecorder()
		setupRouter(svc, "u1").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/properties", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var resp model.PropertyBreakdown
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Total)
		assert.Equal(t, 250000.0, resp.AveragePrice)
		require.Len(t, resp.ByStatus, 1)
		assert.Equal(t, propertyModel.StatusMarketing, resp.ByStatus[0].Status)
		svc.AssertExpectations(t)
	})

	t.Run("no team", func(t *testing.T) {
		svc := new(mockService)
		svc.On("PropertyBreakdown", mock.Anything, "u1").Return(nil, authz.ErrNoTeamMembership)

		w := httptest.NewRecorder()
		setupRouter(svc, "u1").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/properties", nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		var errorResp response.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errorResp))
		assert.Equal(t, "NO_TEAM_MEMBERSHIP", errorResp.Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		svc := new(mockService)
		svc.On("PropertyBreakdown", mock.Anything, "u1").Return(nil, errors.New("database error"))

		w := httptest.NewRecorder()
		setupRouter(svc, "u1").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/properties", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		var errorResp response.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errorResp))
		assert.Equal(t, "INTERNAL_ERROR", errorResp.Error.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		svc := new(mockService)
		w := httptest.NewRecorder()
		setupRouter(svc, "").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/properties", nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandler_GetMetrics(t *testing.T) {
	t.Run("parses date bounds", func(t *testing.T) {
		svc := new(mockService)
		from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)
		svc.On("Metrics", mock.Anything, "u1", &from, &to).
			Return(&model.MetricsResponse{Metrics: []model.Metric{{ID: "m1", Views: 7}}}, nil)

		w := httptest.NewRecorder()
		setupRouter(svc, "u1").ServeHTTP(w,
			httptest.NewRequest(http.MethodGet, "/analytics/metrics?from=2024-01-01&to=2024-03-31", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"views":7`)
		svc.AssertExpectations(t)
	})

	t.Run("open bounds", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Metrics", mock.Anything, "u1", (*time.Time)(nil), (*time.Time)(nil)).
			Return(&model.MetricsResponse{Metrics: []model.Metric{}}, nil)

		w := httptest.NewRecorder()
		setupRouter(svc, "u1").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/metrics", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"metrics":[]}`, w.Body.String())
	})

	t.Run("bad date", func(t *testing.T) {
		svc := new(mockService)
		w := httptest.NewRecorder()
		setupRouter(svc, "u1").ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/analytics/metrics?from=01/02/2024", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Metrics", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("inverted range", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Metrics", mock.Anything, "u1", mock.Anything, mock.Anything).Return(nil, model.ErrInvalidRange)

		w := httptest.NewRecorder()
		setupRouter(svc, "u1").ServeHTTP(w,
			httptest.NewRequest(http.MethodGet, "/analytics/metrics?from=2024-05-01&to=2024-01-01", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
	})
}
