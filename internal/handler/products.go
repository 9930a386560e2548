package handler

import (
	"net/http"

	"saripos/internal/dto"
	"saripos/internal/service"

	"github.com/gin-gonic/gin"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// Create godoc
// @Summary      Add a product to the catalog
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateProductRequest true "Product"
// @Success      201  {object} dto.CreateProductResponse
// @Failure      400  {object} apierror.APIError
// @Router       /api/products [post]
func (h *ProductsHandler) Create(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.CreateProductResponse{
		ID:      p.ID,
		Message: "Product created successfully",
	})
}

// List godoc
// @Summary      List the catalog, ordered by name
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} model.Product
// @Router       /api/products [get]
func (h *ProductsHandler) List(c *gin.Context) {
	products, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

// Get godoc
// @Summary      Fetch a product by id
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Product id"
// @Success      200  {object} model.Product
// @Failure      404  {object} apierror.APIError
// @Router       /api/products/{id} [get]
func (h *ProductsHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// GetByBarcode godoc
// @Summary      Fetch a product by barcode (scanner hot path)
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        barcode path string true "Barcode"
// @Success      200  {object} model.Product
// @Failure      404  {object} apierror.APIError
// @Router       /api/products/barcode/{barcode} [get]
func (h *ProductsHandler) GetByBarcode(c *gin.Context) {
	barcode := c.Param("barcode")
	p, err := h.svc.GetByBarcode(c.Request.Context(), barcode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Update godoc
// @Summary      Update a product (partial)
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path int                      true "Product id"
// @Param        body body dto.UpdateProductRequest true "Fields to change"
// @Success      200  {object} dto.MessageResponse
// @Failure      404  {object} apierror.APIError
// @Router       /api/products/{id} [put]
func (h *ProductsHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProductRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if _, err := h.svc.Update(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Product updated successfully"})
}

// Delete godoc
// @Summary      Remove a product from the catalog
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Product id"
// @Success      200  {object} dto.MessageResponse
// @Failure      404  {object} apierror.APIError
// @Router       /api/products/{id} [delete]
func (h *ProductsHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Product deleted successfully"})
}
