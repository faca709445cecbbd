package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pipillas/musa/internal/apierror"
	"github.com/Pipillas/musa/internal/dto"
	"github.com/Pipillas/musa/internal/service"
)

type CajaHandler struct{ svc *service.CajaService }

func NewCajaHandler(svc *service.CajaService) *CajaHandler { return &CajaHandler{svc: svc} }

// CrearOperacion godoc
// @Summary      Registrar movimiento de caja
// @Description  Aporte, retiro, gasto, ingreso o cierre — movimientos ajenos a ventas.
// @Tags         caja
// @Accept       json
// @Produce      json
// @Param        body body dto.CreateOperacionRequest true "Operación"
// @Success      201 {object} model.Operacion
// @Failure      400 {object} apierror.APIError
// @Router       /v1/caja/operaciones [post]
func (h *CajaHandler) CrearOperacion(c *gin.Context) {
	var req dto.CreateOperacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	op, err := h.svc.CrearOperacion(c.Request.Context(), req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, op)
}

// ActualizarOperacion godoc
// @Summary      Corregir un movimiento de caja
// @Tags         caja
// @Accept       json
// @Produce      json
// @Param        id   path string                     true "UUID"
// @Param        body body dto.UpdateOperacionRequest true "Campos a corregir"
// @Success      200 {object} model.Operacion
// @Failure      404 {object} apierror.APIError
// @Router       /v1/caja/operaciones/{id} [put]
func (h *CajaHandler) ActualizarOperacion(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateOperacionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	op, err := h.svc.ActualizarOperacion(c.Request.Context(), id, req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, op)
}

// PorTipo godoc
// @Summary      Movimientos de un tipo agrupados por contraparte
// @Description  Totales del mes por nombre (gastos por proveedor, aportes por socio) y la lista de nombres conocidos del tipo.
// @Tags         caja
// @Produce      json
// @Param        tipo path  string true  "aporte | retiro | gasto | ingreso | cierre"
// @Param        mes  query string true  "YYYY-MM"
// @Success      200 {object} map[string]interface{}
// @Failure      400 {object} apierror.APIError
// @Router       /v1/caja/tipos/{tipo} [get]
func (h *CajaHandler) PorTipo(c *gin.Context) {
	tipo := c.Param("tipo")
	mes := c.Query("mes")
	if mes == "" {
		c.JSON(http.StatusBadRequest, apierror.New("mes requerido"))
		return
	}
	totales, err := h.svc.TotalesPorNombre(c.Request.Context(), mes, tipo)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	nombres, err := h.svc.Nombres(c.Request.Context(), tipo)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tipo": tipo, "mes": mes, "totales": totales, "nombres": nombres})
}

// Operaciones godoc
// @Summary      Listar operaciones de caja
// @Tags         caja
// @Produce      json
// @Param        fecha query string false "YYYY-MM-DD"
// @Param        mes   query string false "YYYY-MM"
// @Success      200 {array} model.Operacion
// @Router       /v1/caja/operaciones [get]
func (h *CajaHandler) Operaciones(c *gin.Context) {
	if mes := c.Query("mes"); mes != "" {
		ops, err := h.svc.OperacionesDelMes(c.Request.Context(), mes)
		if err != nil {
			writeDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, ops)
		return
	}
	fecha := c.Query("fecha")
	if fecha == "" {
		c.JSON(http.StatusBadRequest, apierror.New("fecha o mes requerido"))
		return
	}
	ops, err := h.svc.OperacionesDelDia(c.Request.Context(), fecha)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, ops)
}

// Resumen godoc
// @Summary      Resumen de caja del día
// @Description  Ventas por forma de pago y movimientos del día, con saldo de efectivo.
// @Tags         caja
// @Produce      json
// @Param        fecha query string true "YYYY-MM-DD"
// @Success      200 {object} dto.ResumenCaja
// @Router       /v1/caja/resumen [get]
func (h *CajaHandler) Resumen(c *gin.Context) {
	fecha := c.Query("fecha")
	if fecha == "" {
		c.JSON(http.StatusBadRequest, apierror.New("fecha requerida"))
		return
	}
	resumen, err := h.svc.Resumen(c.Request.Context(), fecha)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, resumen)
}
