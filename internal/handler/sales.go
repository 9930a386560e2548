package handler

import (
	"net/http"

	"saripos/internal/apierror"
	"saripos/internal/dto"
	"saripos/internal/middleware"
	"saripos/internal/service"

	"github.com/gin-gonic/gin"
)

type SalesHandler struct{ svc service.SaleService }

func NewSalesHandler(svc service.SaleService) *SalesHandler { return &SalesHandler{svc: svc} }

// Create godoc
// @Summary      Process a sale
// @Description  Atomically records the sale and decrements stock for every cart line. On any failure nothing is written.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateSaleRequest true "Cart"
// @Success      201  {object} dto.CreateSaleResponse
// @Failure      400  {object} apierror.APIError
// @Failure      500  {object} apierror.APIError
// @Router       /api/sales [post]
func (h *SalesHandler) Create(c *gin.Context) {
	var req dto.CreateSaleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)

	resp, err := h.svc.Create(c.Request.Context(), claims.UserID, req)
	if err != nil {
		// An empty or malformed cart is the caller's fault; everything the
		// processor itself rejects (missing product, insufficient stock)
		// surfaces on the 500 class with the reason in the message.
		if ve, ok := err.(*apierror.ValidationError); ok {
			c.JSON(http.StatusBadRequest, apierror.New(ve.Error()))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      Sales history
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        startDate query string false "YYYY-MM-DD"
// @Param        endDate   query string false "YYYY-MM-DD"
// @Param        page      query int    false "Page (default 1)"
// @Param        limit     query int    false "Rows per page (default 20)"
// @Success      200  {array} dto.SaleListRow
// @Router       /api/sales [get]
func (h *SalesHandler) List(c *gin.Context) {
	var filter dto.SaleFilter
	if !bindQueryAndValidate(c, &filter) {
		return
	}
	rows, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Get godoc
// @Summary      Sale detail with line items
// @Tags         sales
// @Produce      json
// @Security     BearerAuth
// @Param        id path int true "Sale id"
// @Success      200  {object} dto.SaleDetailResponse
// @Failure      404  {object} apierror.APIError
// @Router       /api/sales/{id} [get]
func (h *SalesHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	sale, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// Receipt godoc
// @Summary      Download the PDF receipt for a sale
// @Tags         sales
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path int true "Sale id"
// @Success      200  {file} binary
// @Failure      404  {object} apierror.APIError
// @Router       /api/sales/{id}/receipt [get]
func (h *SalesHandler) Receipt(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	pdf, filename, err := h.svc.Receipt(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// EmailReceipt godoc
// @Summary      Email the PDF receipt to a customer
// @Tags         sales
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path int                     true "Sale id"
// @Param        body body dto.EmailReceiptRequest true "Recipient"
// @Success      200  {object} dto.MessageResponse
// @Failure      404  {object} apierror.APIError
// @Router       /api/sales/{id}/email [post]
func (h *SalesHandler) EmailReceipt(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.EmailReceiptRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.EmailReceipt(c.Request.Context(), id, req.Email); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.MessageResponse{Message: "Receipt sent to " + req.Email})
}
