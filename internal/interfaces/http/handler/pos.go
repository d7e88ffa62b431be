package handler

import (
	"net/http"

	"github.com/Hillarymukuka/ancestrabusiness/internal/infrastructure/logger"
	"github.com/Hillarymukuka/ancestrabusiness/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// POSHandler serves the point-of-sale console. Every route runs behind the
// session middleware, which resolves the caller's terminal.
type POSHandler struct {
	BaseHandler
}

// NewPOSHandler creates a new POSHandler
func NewPOSHandler() *POSHandler {
	return &POSHandler{}
}

// SearchCatalog godoc
// @Summary      Search the product catalog
// @Description  Filters the catalog snapshot by name or product code, loading it on first use. Results are capped at the configured search limit.
// @Tags         pos-catalog
// @Produce      json
// @Param        q query string false "Name or product code filter"
// @Param        limit query integer false "Maximum number of products"
// @Success      200 {object} dto.Response{data=dto.CatalogResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pos/catalog [get]
func (h *POSHandler) SearchCatalog(c *gin.Context) {
	t, ok := h.terminal(c)
	if !ok {
		return
	}
	var q dto.CatalogQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	products, err := t.SearchCatalog(c.Request.Context(), q.Q, q.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewCatalogResponse(products, t.Catalog().Current()))
}

// RefreshCatalog godoc
// @Summary      Reload the product catalog
// @Description  Fetches a fresh catalog snapshot from the business API and replaces the current one.
// @Tags         pos-catalog
// @Produce      json
// @Success      200 {object} dto.Response{data=dto.CatalogResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pos/catalog/refresh [post]
func (h *POSHandler) RefreshCatalog(c *gin.Context) {
	t, ok := h.terminal(c)
	if !ok {
		return
	}
	snap, err := t.RefreshCatalog(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewCatalogResponse(snap.Products(), snap))
}

// LowStock godoc
// @Summary      List low-stock products
// @Description  Returns products at or below their reorder level.
// @Tags         pos-catalog
// @Produce      json
// @Success      200 {object} dto.Response{data=dto.CatalogResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pos/catalog/low-stock [get]
func (h *POSHandler) LowStock(c *gin.Context) {
	t, ok := h.terminal(c)
	if !ok {
		return
	}
	products, err := t.LowStock(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewCatalogResponse(products, t.Catalog().Current()))
}

// GetCart godoc
// @Summary      Get the cart
// @Description  Returns the cart with priced lines, total, item count and submission state.
// @Tags         pos-cart
// @Produce      json
// @Success      200 {object} dto.Response{data=pos.CartView}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pos/cart [get]
func (h *POSHandler) GetCart(c *gin.Context) {
	t, ok := h.terminal(c)
	if !ok {
		return
	}
	h.Success(c, t.View())
}

// AddItem godoc
// @Summary      Add a product to the cart
// @Description  Adds units of a product through the stock guard. An existing line for the product is merged. Quantity defaults to 1.
// @Tags         pos-cart
// @Accept       json
// @Produce      json
// @Param        request body dto.AddItemRequest true "Product and quantity"
// @Success      200 {object} dto.Response{data=pos.CartView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pos/cart/items [post]
func (h *POSHandler) AddItem(c *gin.Context) {
	t, ok := h.terminal(c)
	if !ok {
		return
	}
	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	view, err := t.AddItem(c.Request.Context(), req.ProductID, req.QuantityOrDefault())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// SetQuantity godoc
// @Summary      Set the quantity of a cart line
// @Description  Replaces the quantity of the line at index. The new quantity is checked against stock.
// @Tags         pos-cart
// @Accept       json
// @Produce      json
// @Param        index path integer true "Line index"
// @Param        request body dto.SetQuantityRequest true "New quantity"
// @Success      200 {object} dto.Response{data=pos.CartView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pos/cart/items/{index} [put]
func (h *POSHandler) SetQuantity(c *gin.Context) {
	t, ok := h.terminal(c)
	if !ok {
		return
	}
	var uri dto.LineIndexURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BindError(c, err)
		return
	}
	var req dto.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	view, err := t.SetQuantity(uri.Index, req.Quantity)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// RemoveItem godoc
// @Summary      Remove a cart line
// @Description  Deletes the line at index; later lines move up by one.
// @Tags         pos-cart
// @Produce      json
// @Param        index path integer true "Line index"
// @Success      200 {object} dto.Response{data=pos.CartView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pos/cart/items/{index} [delete]
func (h *POSHandler) RemoveItem(c *gin.Context) {
	t, ok := h.terminal(c)
	if !ok {
		return
	}
	var uri dto.LineIndexURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BindError(c, err)
		return
	}

	view, err := t.RemoveItem(uri.Index)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// UpdateDetails godoc
// @Summary      Set customer and payment method
// @Description  Updates the customer name and payment method of the cart. Omitted fields are kept.
// @Tags         pos-cart
// @Accept       json
// @Produce      json
// @Param        request body dto.UpdateDetailsRequest true "Sale details"
// @Success      200 {object} dto.Response{data=pos.CartView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pos/cart/details [put]
func (h *POSHandler) UpdateDetails(c *gin.Context) {
	t, ok := h.terminal(c)
	if !ok {
		return
	}
	var req dto.UpdateDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	view, err := t.UpdateDetails(req.ToInput())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// ClearCart godoc
// @Summary      Clear the cart
// @Description  Empties the cart and resets the customer name and payment method.
// @Tags         pos-cart
// @Produce      json
// @Success      200 {object} dto.Response{data=pos.CartView}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pos/cart [delete]
func (h *POSHandler) ClearCart(c *gin.Context) {
	t, ok := h.terminal(c)
	if !ok {
		return
	}
	view, err := t.ClearCart()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Submit godoc
// @Summary      Submit the sale
// @Description  Records the cart as a sale. On success the cart is reset and the receipt is put on display. An empty cart or a submit already in flight answers with submitted=false.
// @Tags         pos-cart
// @Produce      json
// @Success      200 {object} dto.Response{data=pos.SubmitResult}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pos/cart/submit [post]
func (h *POSHandler) Submit(c *gin.Context) {
	t, ok := h.terminal(c)
	if !ok {
		return
	}
	result, err := t.Submit(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if len(result.Warnings) > 0 {
		logger.GetGinLogger(c).Warn("Sale recorded with follow-up failures",
			zap.Strings("warnings", result.Warnings))
	}
	h.Success(c, result)
}

// GetReceipt godoc
// @Summary      Get the displayed receipt
// @Description  Returns the receipt currently on display.
// @Tags         pos-receipt
// @Produce      json
// @Success      200 {object} dto.Response{data=sales.Receipt}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pos/receipt [get]
func (h *POSHandler) GetReceipt(c *gin.Context) {
	t, ok := h.terminal(c)
	if !ok {
		return
	}
	receipt := t.Receipt()
	if receipt == nil {
		h.NotFound(c, "No receipt on display")
		return
	}
	h.Success(c, receipt)
}

// ClearReceipt godoc
// @Summary      Clear the displayed receipt
// @Description  Takes the receipt off display.
// @Tags         pos-receipt
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pos/receipt [delete]
func (h *POSHandler) ClearReceipt(c *gin.Context) {
	t, ok := h.terminal(c)
	if !ok {
		return
	}
	t.ClearReceipt()
	h.Success(c, nil)
}

// History godoc
// @Summary      List recorded sales
// @Description  Lists sales for a quick range or explicit dates in Central Africa Time. Cashiers only see their own sales.
// @Tags         pos-sales
// @Produce      json
// @Param        range query string false "Quick range" Enums(today, month, all)
// @Param        start_date query string false "Start date, YYYY-MM-DD or RFC 3339"
// @Param        end_date query string false "End date, YYYY-MM-DD or RFC 3339"
// @Param        customer query string false "Customer name filter"
// @Success      200 {object} dto.Response{data=pos.HistoryView}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pos/sales [get]
func (h *POSHandler) History(c *gin.Context) {
	t, ok := h.terminal(c)
	if !ok {
		return
	}
	var req dto.HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	query, err := req.ToQuery()
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeValidation, err.Error())
		return
	}

	view, err := t.History(c.Request.Context(), query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithTotal(c, view, int64(len(view.Sales)))
}

// OpenReceipt godoc
// @Summary      Open the receipt of a past sale
// @Description  Loads the receipt of a recorded sale and puts it on display.
// @Tags         pos-sales
// @Produce      json
// @Param        id path integer true "Sale ID"
// @Success      200 {object} dto.Response{data=sales.Receipt}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pos/sales/{id}/receipt [get]
func (h *POSHandler) OpenReceipt(c *gin.Context) {
	t, ok := h.terminal(c)
	if !ok {
		return
	}
	var uri dto.SaleIDURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BindError(c, err)
		return
	}

	receipt, err := t.OpenReceipt(c.Request.Context(), uri.ID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, receipt)
}

// PaymentMethods godoc
// @Summary      List payment methods
// @Description  Returns every payment method with its label; the default is flagged.
// @Tags         pos
// @Produce      json
// @Success      200 {object} dto.Response{data=[]dto.PaymentMethodOption}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pos/payment-methods [get]
func (h *POSHandler) PaymentMethods(c *gin.Context) {
	h.Success(c, dto.PaymentMethodOptions())
}

// Me godoc
// @Summary      Get the signed-in operator
// @Description  Returns the operator profile from the business API, cached for the session.
// @Tags         pos
// @Produce      json
// @Success      200 {object} dto.Response{data=dto.OperatorResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      502 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /pos/me [get]
func (h *POSHandler) Me(c *gin.Context) {
	t, ok := h.terminal(c)
	if !ok {
		return
	}
	op, err := t.CurrentOperator(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewOperatorResponse(op))
}
