package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Tukyboy007/hospital-back/internal/dto"
	"github.com/Tukyboy007/hospital-back/internal/middleware"
	"github.com/Tukyboy007/hospital-back/internal/service"
	"github.com/Tukyboy007/hospital-back/pkg/response"
)

// ItemHandler handles clinic item HTTP requests
type ItemHandler struct {
	items service.ItemService
	log   *zap.Logger
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(items service.ItemService, log *zap.Logger) *ItemHandler {
	return &ItemHandler{items: items, log: log}
}

// List returns all items
// GET /items
func (h *ItemHandler) List(c *gin.Context) {
	items, err := h.items.List(c.Request.Context(), c.Query("owner_id"))
	if err != nil {
		h.log.Error("list items failed", zap.Error(err))
		response.Internal(c)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// Get returns a single item
// GET /items/:id
func (h *ItemHandler) Get(c *gin.Context) {
	item, err := h.items.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.Error("get item failed", zap.Error(err))
		response.Internal(c)
		return
	}
	if item == nil {
		response.NotFound(c, "item not found")
		return
	}
	c.JSON(http.StatusOK, item)
}

// Create inserts a new item owned by the caller
// POST /items
func (h *ItemHandler) Create(c *gin.Context) {
	var req dto.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	item, err := h.items.Create(c.Request.Context(), identity.DoctorID, &req)
	if err != nil {
		h.log.Error("create item failed", zap.Error(err))
		response.Internal(c)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// Update replaces an item's title and description
// PUT /items/:id
func (h *ItemHandler) Update(c *gin.Context) {
	var req dto.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	item, err := h.items.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.log.Error("update item failed", zap.Error(err))
		response.Internal(c)
		return
	}
	if item == nil {
		response.NotFound(c, "item not found")
		return
	}
	c.JSON(http.StatusOK, item)
}

// Delete removes an item
// DELETE /items/:id
func (h *ItemHandler) Delete(c *gin.Context) {
	affected, err := h.items.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.Error("delete item failed", zap.Error(err))
		response.Internal(c)
		return
	}
	if affected == 0 {
		response.NotFound(c, "item not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
