package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	panelapp "github.com/sellerdesk/panel/internal/application/panel"
	"github.com/sellerdesk/panel/internal/domain/panel"
	"github.com/sellerdesk/panel/internal/interfaces/http/dto"
)

// ProductHandler exposes the seller's product catalogue.
type ProductHandler struct {
	BaseHandler
	products    *panelapp.ProductService
	attachments *panelapp.AttachmentService
}

// NewProductHandler creates a ProductHandler.
func NewProductHandler(products *panelapp.ProductService, attachments *panelapp.AttachmentService) *ProductHandler {
	return &ProductHandler{products: products, attachments: attachments}
}

// List returns one page of products.
func (h *ProductHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid pagination parameters")
		return
	}

	result, err := h.products.List(c.Request.Context(), req.Page, req.PageSize, req.Search)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Products, result.Total, req.Page, req.PageSize)
}

// Get returns a single product.
func (h *ProductHandler) Get(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid product id")
		return
	}

	product, err := h.products.Get(c.Request.Context(), req.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Create stores a new product.
func (h *ProductHandler) Create(c *gin.Context) {
	var product panel.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Invalid product payload")
		return
	}

	created, err := h.products.Create(c.Request.Context(), &product)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

// Update stores changes to an existing product.
func (h *ProductHandler) Update(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid product id")
		return
	}

	var product panel.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Invalid product payload")
		return
	}
	product.ID = req.ID

	updated, err := h.products.Update(c.Request.Context(), &product)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, updated)
}

// UploadImage stores a product image and returns its public URL.
func (h *ProductHandler) UploadImage(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid product id")
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A file field is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, panelapp.MaxAttachmentSize+1))
	if err != nil {
		h.InternalError(c, "Failed to read upload")
		return
	}

	contentType := header.Header.Get("Content-Type")
	url, err := h.attachments.Upload(c.Request.Context(), req.ID, header.Filename, contentType, data)
	if err != nil {
		switch err {
		case panelapp.ErrAttachmentTooLarge:
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeInvalidInput, "Attachment exceeds the size limit")
		default:
			h.HandleError(c, err)
		}
		return
	}

	h.Created(c, gin.H{"url": url})
}
