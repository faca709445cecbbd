package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Pipillas/musa/internal/apierror"
	"github.com/Pipillas/musa/internal/dto"
	"github.com/Pipillas/musa/internal/service"
)

type TurnosHandler struct{ svc *service.TurnoService }

func NewTurnosHandler(svc *service.TurnoService) *TurnosHandler { return &TurnosHandler{svc: svc} }

// Crear godoc
// @Summary      Crear turno de degustación
// @Tags         turnos
// @Accept       json
// @Produce      json
// @Param        body body dto.CreateTurnoRequest true "Turno"
// @Success      201 {object} model.Turno
// @Router       /v1/turnos [post]
func (h *TurnosHandler) Crear(c *gin.Context) {
	var req dto.CreateTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	t, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

// Listar godoc
// @Summary      Listar turnos
// @Tags         turnos
// @Produce      json
// @Param        fecha query string false "YYYY-MM-DD"
// @Param        mes   query string false "YYYY-MM"
// @Param        desde query string false "YYYY-MM-DD — turnos desde esta fecha en adelante"
// @Success      200 {array} model.Turno
// @Router       /v1/turnos [get]
func (h *TurnosHandler) Listar(c *gin.Context) {
	if desde := c.Query("desde"); desde != "" {
		turnos, err := h.svc.Proximos(c.Request.Context(), desde)
		if err != nil {
			writeDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, turnos)
		return
	}
	if mes := c.Query("mes"); mes != "" {
		turnos, err := h.svc.PorMes(c.Request.Context(), mes)
		if err != nil {
			writeDomainError(c, err)
			return
		}
		c.JSON(http.StatusOK, turnos)
		return
	}
	fecha := c.Query("fecha")
	if fecha == "" {
		c.JSON(http.StatusBadRequest, apierror.New("fecha o mes requerido"))
		return
	}
	turnos, err := h.svc.PorFecha(c.Request.Context(), fecha)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, turnos)
}

// Ocupacion godoc
// @Summary      Ocupación por franja horaria
// @Description  Suma de comensales agrupada por franja para una fecha.
// @Tags         turnos
// @Produce      json
// @Param        fecha query string true "YYYY-MM-DD"
// @Success      200 {object} map[string]int
// @Failure      400 {object} apierror.APIError
// @Router       /v1/turnos/ocupacion [get]
func (h *TurnosHandler) Ocupacion(c *gin.Context) {
	fecha := c.Query("fecha")
	if fecha == "" {
		c.JSON(http.StatusBadRequest, apierror.New("fecha requerida"))
		return
	}
	ocupacion, err := h.svc.Ocupacion(c.Request.Context(), fecha)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, ocupacion)
}

// Actualizar godoc
// @Summary      Actualizar turno
// @Tags         turnos
// @Accept       json
// @Produce      json
// @Param        id   path string                 true "UUID"
// @Param        body body dto.UpdateTurnoRequest true "Campos"
// @Success      200 {object} model.Turno
// @Router       /v1/turnos/{id} [put]
func (h *TurnosHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	t, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// Eliminar godoc
// @Summary      Eliminar turno
// @Tags         turnos
// @Param        id path string true "UUID"
// @Success      204
// @Router       /v1/turnos/{id} [delete]
func (h *TurnosHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Cobrar godoc
// @Summary      Cobrar un turno
// @Description  Registra el cobro; opcionalmente emite una Factura B por el monto y la liga al turno.
// @Tags         turnos
// @Accept       json
// @Produce      json
// @Param        id   path string                 true "UUID"
// @Param        body body dto.CobrarTurnoRequest true "Cobro"
// @Success      200 {object} map[string]interface{}
// @Failure      409 {object} apierror.APIError
// @Failure      422 {object} apierror.APIError
// @Failure      503 {object} apierror.APIError
// @Router       /v1/turnos/{id}/cobrar [post]
func (h *TurnosHandler) Cobrar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.CobrarTurnoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	t, venta, err := h.svc.Cobrar(c.Request.Context(), id, req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	resp := gin.H{"turno": t}
	if venta != nil {
		resp["venta"] = venta
	}
	c.JSON(http.StatusOK, resp)
}
