package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Tukyboy007/hospital-back/internal/domain"
	"github.com/Tukyboy007/hospital-back/internal/dto"
	"github.com/Tukyboy007/hospital-back/internal/middleware"
)

// MockItemService is an in-memory ItemService
type MockItemService struct {
	items map[string]*domain.Item
}

func NewMockItemService() *MockItemService {
	return &MockItemService{items: make(map[string]*domain.Item)}
}

func (m *MockItemService) List(ctx context.Context, ownerID string) ([]*domain.Item, error) {
	var out []*domain.Item
	for _, item := range m.items {
		if ownerID == "" || item.OwnerID == ownerID {
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *MockItemService) Get(ctx context.Context, id string) (*domain.Item, error) {
	return m.items[id], nil
}

func (m *MockItemService) Create(ctx context.Context, ownerID string, req *dto.ItemRequest) (*domain.Item, error) {
	now := time.Now()
	item := &domain.Item{
		ID:          "item-1",
		OwnerID:     ownerID,
		Title:       req.Title,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.items[item.ID] = item
	return item, nil
}

func (m *MockItemService) Update(ctx context.Context, id string, req *dto.ItemRequest) (*domain.Item, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, nil
	}
	item.Title = req.Title
	item.Description = req.Description
	return item, nil
}

func (m *MockItemService) Delete(ctx context.Context, id string) (int64, error) {
	if _, ok := m.items[id]; !ok {
		return 0, nil
	}
	delete(m.items, id)
	return 1, nil
}

func newItemRouter(svc *MockItemService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewItemHandler(svc, zap.NewNop())

	router := gin.New()
	items := router.Group("/items")
	items.Use(middleware.Authenticate(&MockAuthService{}))
	{
		items.GET("", h.List)
		items.GET("/:id", h.Get)
		items.POST("", h.Create)
		items.PUT("/:id", h.Update)
		items.DELETE("/:id", h.Delete)
	}
	return router
}

func doItemRequest(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		payload, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Authorization", "Bearer anything")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestItemHandler_CreateAndGet(t *testing.T) {
	svc := NewMockItemService()
	router := newItemRouter(svc)

	w := doItemRequest(router, http.MethodPost, "/items", dto.ItemRequest{Title: "Stethoscope", Description: "Ward 3"})
	assert.Equal(t, http.StatusCreated, w.Code)

	var created domain.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	// Ownership comes from the authenticated identity, not the body
	assert.Equal(t, "doctor-1", created.OwnerID)

	w = doItemRequest(router, http.MethodGet, "/items/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestItemHandler_Create_Validation(t *testing.T) {
	router := newItemRouter(NewMockItemService())

	w := doItemRequest(router, http.MethodPost, "/items", gin.H{"description": "no title"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestItemHandler_NotFound(t *testing.T) {
	router := newItemRouter(NewMockItemService())

	tests := []struct {
		name   string
		method string
		body   any
	}{
		{name: "get", method: http.MethodGet},
		{name: "update", method: http.MethodPut, body: dto.ItemRequest{Title: "x"}},
		{name: "delete", method: http.MethodDelete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doItemRequest(router, tt.method, "/items/missing", tt.body)
			assert.Equal(t, http.StatusNotFound, w.Code)
		})
	}
}

func TestItemHandler_List(t *testing.T) {
	svc := NewMockItemService()
	router := newItemRouter(svc)

	w := doItemRequest(router, http.MethodPost, "/items", dto.ItemRequest{Title: "Stethoscope"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doItemRequest(router, http.MethodGet, "/items", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Stethoscope")
}
