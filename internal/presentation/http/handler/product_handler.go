package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/pdv-api/internal/application/service"
	"github.com/sangkips/pdv-api/internal/domain/entity"
	"github.com/sangkips/pdv-api/internal/presentation/http/dto/request"
	"github.com/sangkips/pdv-api/internal/presentation/http/dto/response"
)

// ProductHandler handles catalog HTTP requests
type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// List handles listing the catalog
func (h *ProductHandler) List(c *gin.Context) {
	var filter request.ProductFilterRequest
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	view, err := h.productService.ListProducts(c.Request.Context(), entity.ProductFilter{
		Search:   filter.Search,
		Category: filter.Category,
	}, filter.Fresh)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Products retrieved successfully", response.NewSnapshotResponse(view))
}

// Get handles getting a product by ID
func (h *ProductHandler) Get(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product retrieved successfully", product)
}

// Create handles creating or replacing a product. A body without an id
// creates a new product.
func (h *ProductHandler) Create(c *gin.Context) {
	var req request.UpsertProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	product, err := h.productService.UpsertProduct(c.Request.Context(), upsertInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Product saved successfully", product)
}

// Update handles replacing the product named in the path
func (h *ProductHandler) Update(c *gin.Context) {
	var req request.UpsertProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	req.ID = c.Param("id")

	product, err := h.productService.UpsertProduct(c.Request.Context(), upsertInput(req))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product updated successfully", product)
}

// Delete handles removing a product from the catalog. Lines already on
// tables and past sales keep their snapshot price.
func (h *ProductHandler) Delete(c *gin.Context) {
	if err := h.productService.RemoveProduct(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Product deleted successfully", nil)
}

func upsertInput(req request.UpsertProductRequest) *service.UpsertProductInput {
	return &service.UpsertProductInput{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		Category: req.Category,
		Image:    req.Image,
	}
}
