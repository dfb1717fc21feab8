package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/altapos/variant-wizard-service/internal/auth"
	"github.com/altapos/variant-wizard-service/internal/matrix"
	"github.com/altapos/variant-wizard-service/internal/pkg/logger"
	"github.com/altapos/variant-wizard-service/internal/wizard"
	"github.com/altapos/variant-wizard-service/internal/wizard/dto"
)

const maxImageBytes = 8 << 20

type WizardHandler struct {
	uc     wizard.UseCase
	logger logger.ZapLogger
}

func NewWizardHandler(uc wizard.UseCase, log logger.ZapLogger) *WizardHandler {
	return &WizardHandler{uc: uc, logger: log}
}

func (h *WizardHandler) Register(r gin.IRouter) {
	r.POST("/wizard/sessions", h.StartSession)
	r.GET("/wizard/sessions/:id", h.GetSession)
	r.DELETE("/wizard/sessions/:id", h.DeleteSession)
	r.POST("/wizard/sessions/:id/reset", h.ResetSession)
	r.POST("/wizard/sessions/:id/refresh-groups", h.RefreshGroups)
	r.PUT("/wizard/sessions/:id/selection", h.ReplaceSelection)
	r.PUT("/wizard/sessions/:id/selection/:groupID", h.SetSelection)
	r.GET("/wizard/sessions/:id/rows", h.ListRows)
	r.PATCH("/wizard/sessions/:id/rows/:key", h.PatchRow)
	r.POST("/wizard/sessions/:id/rows/:key/image", h.AttachRowImage)
	r.POST("/wizard/sessions/:id/submit", h.Submit)
	r.GET("/drafts", h.ListDrafts)
	r.GET("/drafts/:id", h.GetDraft)
}

// POST /api/v1/wizard/sessions
func (h *WizardHandler) StartSession(c *gin.Context) {
	var req struct {
		ProductName string `json:"product_name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.uc.StartSession(c.Request.Context(), &dto.StartSessionInput{
		MerchantID:  auth.GetMerchantID(c),
		ProductName: req.ProductName,
	})
	if err != nil {
		h.logger.Error("failed to start wizard session", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// GET /api/v1/wizard/sessions/:id
func (h *WizardHandler) GetSession(c *gin.Context) {
	session, err := h.uc.GetSession(c.Request.Context(), auth.GetMerchantID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// DELETE /api/v1/wizard/sessions/:id
func (h *WizardHandler) DeleteSession(c *gin.Context) {
	if err := h.uc.DeleteSession(c.Request.Context(), auth.GetMerchantID(c), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// POST /api/v1/wizard/sessions/:id/reset
func (h *WizardHandler) ResetSession(c *gin.Context) {
	session, err := h.uc.ResetSession(c.Request.Context(), auth.GetMerchantID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// POST /api/v1/wizard/sessions/:id/refresh-groups
func (h *WizardHandler) RefreshGroups(c *gin.Context) {
	session, err := h.uc.RefreshGroups(c.Request.Context(), auth.GetMerchantID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// PUT /api/v1/wizard/sessions/:id/selection
func (h *WizardHandler) ReplaceSelection(c *gin.Context) {
	var req struct {
		Selection matrix.Selection `json:"selection"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.uc.ReplaceSelection(c.Request.Context(), &dto.ReplaceSelectionInput{
		MerchantID: auth.GetMerchantID(c),
		SessionID:  c.Param("id"),
		Selection:  req.Selection,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// PUT /api/v1/wizard/sessions/:id/selection/:groupID
func (h *WizardHandler) SetSelection(c *gin.Context) {
	var req struct {
		Values []string `json:"values"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.uc.SetSelection(c.Request.Context(), &dto.SetSelectionInput{
		MerchantID: auth.GetMerchantID(c),
		SessionID:  c.Param("id"),
		GroupID:    c.Param("groupID"),
		Values:     req.Values,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// GET /api/v1/wizard/sessions/:id/rows
func (h *WizardHandler) ListRows(c *gin.Context) {
	rows, err := h.uc.Rows(c.Request.Context(), auth.GetMerchantID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rows": rows})
}

// PATCH /api/v1/wizard/sessions/:id/rows/:key
//
// Row keys contain ":" and "|", so clients send them percent-encoded in the
// path segment.
func (h *WizardHandler) PatchRow(c *gin.Context) {
	key, err := url.PathUnescape(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid row key"})
		return
	}

	var req struct {
		PriceExtra  *string `json:"price_extra"`
		SKU         *string `json:"sku"`
		Qty         *string `json:"qty"`
		LowQty      *string `json:"low_qty"`
		Barcode     *string `json:"barcode"`
		RemoveImage bool    `json:"remove_image"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.uc.PatchRow(c.Request.Context(), &dto.PatchRowInput{
		MerchantID:  auth.GetMerchantID(c),
		SessionID:   c.Param("id"),
		RowKey:      key,
		PriceExtra:  req.PriceExtra,
		SKU:         req.SKU,
		Qty:         req.Qty,
		LowQty:      req.LowQty,
		Barcode:     req.Barcode,
		RemoveImage: req.RemoveImage,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// POST /api/v1/wizard/sessions/:id/rows/:key/image
func (h *WizardHandler) AttachRowImage(c *gin.Context) {
	key, err := url.PathUnescape(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid row key"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if file.Size > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer src.Close()

	session, err := h.uc.AttachRowImage(c.Request.Context(), &dto.AttachRowImageInput{
		MerchantID: auth.GetMerchantID(c),
		SessionID:  c.Param("id"),
		RowKey:     key,
		Filename:   file.Filename,
		Data:       src,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": session})
}

// POST /api/v1/wizard/sessions/:id/submit
func (h *WizardHandler) Submit(c *gin.Context) {
	draft, err := h.uc.Submit(c.Request.Context(), auth.GetMerchantID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"draft": draft})
}

// GET /api/v1/drafts
func (h *WizardHandler) ListDrafts(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if err != nil || pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	drafts, count, err := h.uc.ListDrafts(c.Request.Context(), &dto.DraftFilters{
		MerchantID:  auth.GetMerchantID(c),
		SearchQuery: c.Query("q"),
		SortBy:      c.Query("sort_by"),
		SortOrder:   c.Query("sort_order"),
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		h.logger.Error("failed to list drafts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"drafts": drafts, "total": count, "page": page, "page_size": pageSize})
}

// GET /api/v1/drafts/:id
func (h *WizardHandler) GetDraft(c *gin.Context) {
	draft, err := h.uc.GetDraft(c.Request.Context(), auth.GetMerchantID(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

func (h *WizardHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, wizard.ErrSessionNotFound),
		errors.Is(err, wizard.ErrRowNotFound),
		errors.Is(err, wizard.ErrDraftNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, wizard.ErrSessionSubmitted),
		errors.Is(err, wizard.ErrNoVariantRows):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, wizard.ErrSessionBusy):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	default:
		h.logger.Error("wizard request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
