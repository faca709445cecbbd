package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Pipillas/musa/internal/apierror"
	"github.com/Pipillas/musa/internal/dto"
	"github.com/Pipillas/musa/internal/repository"
	"github.com/Pipillas/musa/internal/service"
)

type VentasHandler struct {
	ventas    repository.VentaRepository
	reversals *service.ReversalService
}

func NewVentasHandler(ventas repository.VentaRepository, reversals *service.ReversalService) *VentasHandler {
	return &VentasHandler{ventas: ventas, reversals: reversals}
}

// Listar godoc
// @Summary      Listar ventas
// @Description  Lista paginada del libro de ventas, filtrable por fecha, mes, forma de pago y tipo de factura.
// @Tags         ventas
// @Produce      json
// @Param        fecha       query string false "YYYY-MM-DD"
// @Param        mes         query string false "YYYY-MM"
// @Param        formaPago   query string false "EFECTIVO | DIGITAL"
// @Param        tipoFactura query string false "A | B"
// @Param        tipo        query string false "vino | reserva"
// @Success      200 {object} dto.PaginatedResponse
// @Router       /v1/ventas [get]
func (h *VentasHandler) Listar(c *gin.Context) {
	var filter dto.VentaFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Filtros invalidos"))
		return
	}
	filter.Normalize()

	ventas, total, err := h.ventas.List(c.Request.Context(), filter)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PaginatedResponse{
		Data: ventas, Total: total, Page: filter.Page, Limit: filter.Limit,
	})
}

// Totales godoc
// @Summary      Totales de ventas
// @Description  Con fecha: totales del día por forma de pago (excluye anuladas). Con mes: total facturado del mes (ventas con CAE).
// @Tags         ventas
// @Produce      json
// @Param        fecha query string false "YYYY-MM-DD"
// @Param        mes   query string false "YYYY-MM"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} apierror.APIError
// @Router       /v1/ventas/totales [get]
func (h *VentasHandler) Totales(c *gin.Context) {
	fecha := c.Query("fecha")
	mes := c.Query("mes")
	switch {
	case fecha != "":
		porPago, err := h.ventas.TotalesPorFormaPago(c.Request.Context(), fecha)
		if err != nil {
			writeDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"fecha": fecha, "porFormaPago": porPago})
	case mes != "":
		facturado, err := h.ventas.TotalesFacturado(c.Request.Context(), mes)
		if err != nil {
			writeDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"mes": mes, "facturado": facturado})
	default:
		c.JSON(http.StatusBadRequest, apierror.New("fecha o mes requerido"))
	}
}

// Obtener godoc
// @Summary      Obtener una venta
// @Tags         ventas
// @Produce      json
// @Param        id path string true "UUID de la venta"
// @Success      200 {object} model.Venta
// @Failure      404 {object} apierror.APIError
// @Router       /v1/ventas/{id} [get]
func (h *VentasHandler) Obtener(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	v, err := h.ventas.FindByID(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// NotaCredito godoc
// @Summary      Anular una venta con nota de crédito
// @Description  Emite en AFIP una nota de crédito de la misma letra referenciando el comprobante original, repone stock (o descuenta el cobrado del turno) y marca la venta como anulada. Una venta se anula a lo sumo una vez.
// @Tags         ventas
// @Produce      json
// @Param        id path string true "UUID de la venta"
// @Success      201 {object} dto.VentaResponse
// @Failure      404 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError
// @Failure      503 {object} apierror.APIError
// @Router       /v1/ventas/{id}/nota-credito [post]
func (h *VentasHandler) NotaCredito(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	resp, err := h.reversals.NotaCredito(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Devolucion godoc
// @Summary      Devolver una venta sin comprobante
// @Description  Revierte una venta que no tiene CAE: repone stock y la marca como anulada, sin tocar AFIP.
// @Tags         ventas
// @Param        id path string true "UUID de la venta"
// @Success      204
// @Failure      400 {object} apierror.APIError
// @Failure      409 {object} apierror.APIError
// @Router       /v1/ventas/{id}/devolucion [post]
func (h *VentasHandler) Devolucion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.reversals.Devolucion(c.Request.Context(), id); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
