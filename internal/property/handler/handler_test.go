package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/festy23/realty_ops/internal/apperror"
	"github.com/festy23/realty_ops/internal/authz"
	"github.com/festy23/realty_ops/internal/middleware"
	"github.com/festy23/realty_ops/internal/property/model"
	"github.com/festy23/realty_ops/internal/property/service"
	"github.com/festy23/realty_ops/internal/response"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) property(args mock.Arguments) (*model.Property, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Property), args.Error(1)
}

func (m *mockService) Create(ctx context.Context, actorID string, input *model.PropertyInput, image *model.Image) (*model.Property, error) {
	return m.property(m.Called(ctx, actorID, input, image))
}

func (m *mockService) Get(ctx context.Context, actorID, id string) (*model.Property, error) {
	return m.property(m.Called(ctx, actorID, id))
}

func (m *mockService) List(ctx context.Context, actorID string, filter *model.ListFilter) ([]model.Property, error) {
	args := m.Called(ctx, actorID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Property), args.Error(1)
}

func (m *mockService) Update(ctx context.Context, actorID, id string, input *model.PropertyInput, image *model.Image) (*model.Property, error) {
	return m.property(m.Called(ctx, actorID, id, input, image))
}

func (m *mockService) UpdateStatus(ctx context.Context, actorID, id, status string) (*model.Property, error) {
	return m.property(m.Called(ctx, actorID, id, status))
}

func (m *mockService) Reopen(ctx context.Context, actorID, id string) (*model.Property, error) {
	return m.property(m.Called(ctx, actorID, id))
}

func (m *mockService) UploadImage(ctx context.Context, actorID, id string, image *model.Image) (*model.Property, error) {
	return m.property(m.Called(ctx, actorID, id, image))
}

func (m *mockService) Delete(ctx context.Context, actorID, id string) error {
	return m.Called(ctx, actorID, id).Error(0)
}

var _ service.Service = (*mockService)(nil)

func setupRouter(svc service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) { middleware.SetActorID(c, "u1") })

	h := New(svc, 64, zap.NewNop().Sugar())
	r.POST("/properties", h.Create)
	r.GET("/properties", h.List)
	r.GET("/properties/:id", h.Get)
	r.PUT("/properties/:id", h.Update)
	r.PATCH("/properties/:id/status", h.UpdateStatus)
	r.POST("/properties/:id/reopen", h.Reopen)
	r.POST("/properties/:id/image", h.UploadImage)
	r.DELETE("/properties/:id", h.Delete)
	return r
}

func send(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestHandler_CreateJSON(t *testing.T) {
	svc := new(mockService)
	svc.On("Create", mock.Anything, "u1", mock.MatchedBy(func(in *model.PropertyInput) bool {
		return in.Title == "Loft" && in.Price == 0.01 && in.Bathrooms == 1.5
	}), (*model.Image)(nil)).Return(&model.Property{ID: "p1", Title: "Loft", Status: model.StatusAcquisition}, nil)

	w := send(setupRouter(svc), jsonRequest(http.MethodPost, "/properties",
		`{"title":"Loft","address":"1 Main","price":0.01,"bedrooms":1,"bathrooms":1.5,"sqft":400}`))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"Acquisition"`)
	svc.AssertExpectations(t)
}

func TestHandler_CreateMultipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("title", "Loft"))
	require.NoError(t, mw.WriteField("address", "1 Main"))
	require.NoError(t, mw.WriteField("price", "1000"))
	require.NoError(t, mw.WriteField("bedrooms", "2"))
	require.NoError(t, mw.WriteField("bathrooms", "1"))
	require.NoError(t, mw.WriteField("sqft", "500"))
	part, err := mw.CreateFormFile("image", "front.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte{0xff, 0xd8, 0xff, 0xe0})
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	svc := new(mockService)
	svc.On("Create", mock.Anything, "u1",
		mock.MatchedBy(func(in *model.PropertyInput) bool { return in.Title == "Loft" && in.Sqft == 500 }),
		mock.MatchedBy(func(img *model.Image) bool { return img != nil && len(img.Data) == 4 }),
	).Return(&model.Property{ID: "p1"}, nil)

	req := httptest.NewRequest(http.MethodPost, "/properties", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := send(setupRouter(svc), req)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestHandler_CreateErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", apperror.NewValidationError("price"), http.StatusBadRequest, "VALIDATION_FAILED"},
		{"no team", authz.ErrNoTeamMembership, http.StatusForbidden, "NO_TEAM_MEMBERSHIP"},
		{"ambiguous", authz.ErrAmbiguousMembership, http.StatusConflict, "AMBIGUOUS_MEMBERSHIP"},
		{"invalid status", model.ErrInvalidStatus, http.StatusBadRequest, "INVALID_STATUS"},
		{"policy rejection", apperror.FromDB(errors.New("new row violates row-level security policy")),
			http.StatusForbidden, "PERMISSION_DENIED"},
		{"store failure", apperror.FromDB(errors.New("connection reset")), http.StatusInternalServerError, "PERSISTENCE_FAILED"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(mockService)
			svc.On("Create", mock.Anything, "u1", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := send(setupRouter(svc), jsonRequest(http.MethodPost, "/properties", `{"title":"x"}`))

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}

	t.Run("validation lists fields", func(t *testing.T) {
		svc := new(mockService)
		svc.On("Create", mock.Anything, "u1", mock.Anything, mock.Anything).
			Return(nil, apperror.NewValidationError("title", "price"))

		w := send(setupRouter(svc), jsonRequest(http.MethodPost, "/properties", `{}`))

		assert.Equal(t, []string{"title", "price"}, decodeError(t, w).Fields)
	})

	t.Run("malformed body", func(t *testing.T) {
		w := send(setupRouter(new(mockService)), jsonRequest(http.MethodPost, "/properties", `{"price":"cheap"}`))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "INVALID_REQUEST", decodeError(t, w).Code)
	})
}

func TestHandler_UpdateCrossTeam(t *testing.T) {
	svc := new(mockService)
	svc.On("Update", mock.Anything, "u1", "p1", mock.Anything, (*model.Image)(nil)).Return(nil, authz.ErrCrossTeamAccess)

	w := send(setupRouter(svc), jsonRequest(http.MethodPut, "/properties/p1", `{"title":"x"}`))

	assert.Equal(t, http.StatusForbidden, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "CROSS_TEAM_ACCESS", body.Code)
	assert.Equal(t, "you don't have permission to modify properties for this team", body.Message)
}

func TestHandler_List(t *testing.T) {
	svc := new(mockService)
	svc.On("List", mock.Anything, "u1", mock.MatchedBy(func(f *model.ListFilter) bool {
		return f.Status == "Sold" && f.MinPrice != nil && *f.MinPrice == 100 && f.Search == "lake"
	})).Return([]model.Property{{ID: "p1"}}, nil)

	w := send(setupRouter(svc), httptest.NewRequest(http.MethodGet, "/properties?status=Sold&min_price=100&q=lake", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"properties":[{"id":"p1"`)
}

func TestHandler_GetNotFound(t *testing.T) {
	svc := new(mockService)
	svc.On("Get", mock.Anything, "u1", "p1").Return(nil, model.ErrPropertyNotFound)

	w := send(setupRouter(svc), httptest.NewRequest(http.MethodGet, "/properties/p1", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_StatusAndReopen(t *testing.T) {
	svc := new(mockService)
	svc.On("UpdateStatus", mock.Anything, "u1", "p1", "Sold").Return(&model.Property{ID: "p1", Status: model.StatusSold}, nil)
	svc.On("UpdateStatus", mock.Anything, "u1", "p1", "Acquisition").Return(nil, model.ErrInvalidTransition)
	svc.On("Reopen", mock.Anything, "u1", "p1").Return(&model.Property{ID: "p1", Status: model.StatusMarketing}, nil)
	r := setupRouter(svc)

	w := send(r, jsonRequest(http.MethodPatch, "/properties/p1/status", `{"status":"Sold"}`))
	assert.Equal(t, http.StatusOK, w.Code)

	w = send(r, jsonRequest(http.MethodPatch, "/properties/p1/status", `{"status":"Acquisition"}`))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "INVALID_TRANSITION", decodeError(t, w).Code)

	w = send(r, httptest.NewRequest(http.MethodPost, "/properties/p1/reopen", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"Marketing"`)
}

func TestHandler_UploadImage(t *testing.T) {
	t.Run("raw body", func(t *testing.T) {
		svc := new(mockService)
		svc.On("UploadImage", mock.Anything, "u1", "p1", &model.Image{Data: []byte("jpeg")}).
			Return(&model.Property{ID: "p1", ImageURL: "http://signed"}, nil)

		req := httptest.NewRequest(http.MethodPost, "/properties/p1/image", bytes.NewBufferString("jpeg"))
		req.Header.Set("Content-Type", "image/jpeg")
		w := send(setupRouter(svc), req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "http://signed")
	})

	t.Run("missing image", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/properties/p1/image", nil)
		w := send(setupRouter(new(mockService)), req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("too large", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/properties/p1/image", bytes.NewReader(make([]byte, 65)))
		w := send(setupRouter(new(mockService)), req)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Equal(t, "IMAGE_TOO_LARGE", decodeError(t, w).Code)
	})

	t.Run("not an image", func(t *testing.T) {
		svc := new(mockService)
		svc.On("UploadImage", mock.Anything, "u1", "p1", mock.Anything).Return(nil, model.ErrInvalidImage)

		req := httptest.NewRequest(http.MethodPost, "/properties/p1/image", bytes.NewBufferString("text"))
		w := send(setupRouter(svc), req)
		assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	})

	t.Run("store failure", func(t *testing.T) {
		svc := new(mockService)
		svc.On("UploadImage", mock.Anything, "u1", "p1", mock.Anything).Return(nil, model.ErrStorageUploadFailed)

		req := httptest.NewRequest(http.MethodPost, "/properties/p1/image", bytes.NewBufferString("jpeg"))
		w := send(setupRouter(svc), req)
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Equal(t, "STORAGE_UPLOAD_FAILED", decodeError(t, w).Code)
	})
}

func TestHandler_Delete(t *testing.T) {
	svc := new(mockService)
	svc.On("Delete", mock.Anything, "u1", "p1").Return(nil)
	svc.On("Delete", mock.Anything, "u1", "p2").Return(authz.ErrPropertyNotFound)
	r := setupRouter(svc)

	assert.Equal(t, http.StatusNoContent, send(r, httptest.NewRequest(http.MethodDelete, "/properties/p1", nil)).Code)
	assert.Equal(t, http.StatusNotFound, send(r, httptest.NewRequest(http.MethodDelete, "/properties/p2", nil)).Code)
}

func TestHandler_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/properties", New(new(mockService), 64, zap.NewNop().Sugar()).List)

	w := send(r, httptest.NewRequest(http.MethodGet, "/properties", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
