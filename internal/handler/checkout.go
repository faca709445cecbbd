package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pipillas/musa/internal/dto"
	"github.com/Pipillas/musa/internal/service"
)

type CheckoutHandler struct{ svc *service.CheckoutService }

func NewCheckoutHandler(svc *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

// FinalizarCompra godoc
// @Summary      Finalizar la compra del carrito
// @Description  Autoriza el comprobante en AFIP (CAE), descuenta stock, registra la venta y limpia el carrito. Si AFIP rechaza o no responde, nada se modifica localmente. Sin factura, la venta se registra solo con la forma de pago y AFIP no interviene.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        body body dto.FinalizarCompraRequest true "Datos de facturación y pago"
// @Success      201  {object} dto.VentaResponse
// @Failure      400  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Failure      422  {object} apierror.APIError
// @Failure      503  {object} apierror.APIError
// @Router       /v1/checkout [post]
func (h *CheckoutHandler) FinalizarCompra(c *gin.Context) {
	var req dto.FinalizarCompraRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.FinalizarCompra(c.Request.Context(), req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
