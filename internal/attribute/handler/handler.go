package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/altapos/variant-wizard-service/internal/attribute"
	"github.com/altapos/variant-wizard-service/internal/attribute/dto"
	"github.com/altapos/variant-wizard-service/internal/auth"
	"github.com/altapos/variant-wizard-service/internal/pkg/logger"
)

type AttributeHandler struct {
	uc     attribute.UseCase
	logger logger.ZapLogger
}

func NewAttributeHandler(uc attribute.UseCase, log logger.ZapLogger) *AttributeHandler {
	return &AttributeHandler{uc: uc, logger: log}
}

func (h *AttributeHandler) Register(r gin.IRouter) {
	r.GET("/attribute-groups", h.ListGroups)
	r.GET("/attribute-groups/normalized", h.NormalizedGroups)
	r.POST("/attribute-groups", h.CreateGroup)
	r.PUT("/attribute-groups/:id", h.UpdateGroup)
	r.DELETE("/attribute-groups/:id", h.DeleteGroup)
	r.POST("/attribute-groups/:id/options", h.AddOption)
	r.DELETE("/attribute-options/:id", h.DeleteOption)
	r.GET("/colors", h.ListColors)
	r.POST("/colors", h.CreateColor)
	r.DELETE("/colors/:id", h.DeleteColor)
}

// GET /api/v1/attribute-groups
func (h *AttributeHandler) ListGroups(c *gin.Context) {
	groups, err := h.uc.ListGroups(c.Request.Context(), auth.GetMerchantID(c))
	if err != nil {
		h.logger.Error("failed to list attribute groups", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// GET /api/v1/attribute-groups/normalized
//
// The wizard-facing catalog view. Degrades to fewer/zero groups on upstream
// trouble, so this endpoint never fails.
func (h *AttributeHandler) NormalizedGroups(c *gin.Context) {
	groups := h.uc.NormalizedGroups(c.Request.Context(), auth.GetMerchantID(c))
	c.JSON(http.StatusOK, gin.H{"groups": groups})
}

// POST /api/v1/attribute-groups
func (h *AttributeHandler) CreateGroup(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"required"`
		SortOrder int    `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := h.uc.CreateGroup(c.Request.Context(), &dto.CreateGroupInput{
		MerchantID: auth.GetMerchantID(c),
		Name:       req.Name,
		SortOrder:  req.SortOrder,
	})
	if err != nil {
		h.logger.Error("failed to create attribute group", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"group": g})
}

// PUT /api/v1/attribute-groups/:id
func (h *AttributeHandler) UpdateGroup(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}

	var req struct {
		Name      string `json:"name" binding:"required"`
		SortOrder int    `json:"sort_order"`
		IsActive  bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	g, err := h.uc.UpdateGroup(c.Request.Context(), &dto.UpdateGroupInput{
		ID:         id,
		MerchantID: auth.GetMerchantID(c),
		Name:       req.Name,
		SortOrder:  req.SortOrder,
		IsActive:   req.IsActive,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"group": g})
}

// DELETE /api/v1/attribute-groups/:id
func (h *AttributeHandler) DeleteGroup(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}
	if err := h.uc.DeleteGroup(c.Request.Context(), auth.GetMerchantID(c), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/v1/attribute-groups/:id/options
func (h *AttributeHandler) AddOption(c *gin.Context) {
	groupID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}

	// Value is accepted as string or number and coerced downstream.
	var req struct {
		Label     string      `json:"label"`
		Value     interface{} `json:"value" binding:"required"`
		SortOrder int         `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	o, err := h.uc.AddOption(c.Request.Context(), &dto.AddOptionInput{
		GroupID:    groupID,
		MerchantID: auth.GetMerchantID(c),
		Label:      req.Label,
		Value:      req.Value,
		SortOrder:  req.SortOrder,
	})
	if err != nil {
		h.logger.Error("failed to add option", zap.Int64("group_id", groupID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"option": o})
}

// DELETE /api/v1/attribute-options/:id
func (h *AttributeHandler) DeleteOption(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid option id"})
		return
	}
	if err := h.uc.DeleteOption(c.Request.Context(), auth.GetMerchantID(c), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /api/v1/colors
func (h *AttributeHandler) ListColors(c *gin.Context) {
	colors, err := h.uc.ListColors(c.Request.Context(), auth.GetMerchantID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"colors": colors})
}

// POST /api/v1/colors
func (h *AttributeHandler) CreateColor(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"required"`
		Hex       string `json:"hex"`
		SortOrder int    `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	color, err := h.uc.CreateColor(c.Request.Context(), &dto.CreateColorInput{
		MerchantID: auth.GetMerchantID(c),
		Name:       req.Name,
		Hex:        req.Hex,
		SortOrder:  req.SortOrder,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"color": color})
}

// DELETE /api/v1/colors/:id
func (h *AttributeHandler) DeleteColor(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid color id"})
		return
	}
	if err := h.uc.DeleteColor(c.Request.Context(), auth.GetMerchantID(c), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
