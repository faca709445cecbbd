package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Pipillas/musa/internal/apierror"
	"github.com/Pipillas/musa/internal/dto"
	"github.com/Pipillas/musa/internal/service"
)

type ProductosHandler struct{ svc *service.ProductoService }

func NewProductosHandler(svc *service.ProductoService) *ProductosHandler {
	return &ProductosHandler{svc: svc}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return uuid.Nil, false
	}
	return id, true
}

// Crear godoc
// @Summary      Crear producto
// @Tags         productos
// @Accept       json
// @Produce      json
// @Param        body body dto.CreateProductoRequest true "Producto"
// @Success      201 {object} model.Producto
// @Failure      400 {object} apierror.APIError
// @Router       /v1/productos [post]
func (h *ProductosHandler) Crear(c *gin.Context) {
	var req dto.CreateProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// Listar godoc
// @Summary      Listar productos
// @Description  Lista paginada con búsqueda por código, nombre, bodega, cepa u origen.
// @Tags         productos
// @Produce      json
// @Param        search query string false "Texto a buscar"
// @Success      200 {object} dto.PaginatedResponse
// @Router       /v1/productos [get]
func (h *ProductosHandler) Listar(c *gin.Context) {
	var filter dto.ProductoFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Filtros invalidos"))
		return
	}
	productos, total, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PaginatedResponse{
		Data: productos, Total: total, Page: filter.Page, Limit: filter.Limit,
	})
}

// Obtener godoc
// @Summary      Obtener producto
// @Tags         productos
// @Produce      json
// @Param        id path string true "UUID"
// @Success      200 {object} model.Producto
// @Failure      404 {object} apierror.APIError
// @Router       /v1/productos/{id} [get]
func (h *ProductosHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	p, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// ObtenerPorCodigo godoc
// @Summary      Buscar producto por código de barras
// @Tags         productos
// @Produce      json
// @Param        codigo path string true "Código"
// @Success      200 {object} model.Producto
// @Failure      404 {object} apierror.APIError
// @Router       /v1/productos/codigo/{codigo} [get]
func (h *ProductosHandler) ObtenerPorCodigo(c *gin.Context) {
	p, err := h.svc.GetByCodigo(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Actualizar godoc
// @Summary      Actualizar producto
// @Tags         productos
// @Accept       json
// @Produce      json
// @Param        id   path string                    true "UUID"
// @Param        body body dto.UpdateProductoRequest true "Campos a actualizar"
// @Success      200 {object} model.Producto
// @Router       /v1/productos/{id} [put]
func (h *ProductosHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.UpdateProductoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	p, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// Eliminar godoc
// @Summary      Eliminar producto
// @Tags         productos
// @Param        id path string true "UUID"
// @Success      204
// @Router       /v1/productos/{id} [delete]
func (h *ProductosHandler) Eliminar(c *gin.Context) {
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

// AgregarAlCarrito godoc
// @Summary      Agregar producto al carrito
// @Tags         carrito
// @Accept       json
// @Param        id   path string                 true "UUID"
// @Param        body body dto.CarritoItemRequest true "Cantidad"
// @Success      204
// @Router       /v1/productos/{id}/carrito [post]
func (h *ProductosHandler) AgregarAlCarrito(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.CarritoItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.AgregarAlCarrito(c.Request.Context(), id, req.Cantidad); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CambiarCantidad godoc
// @Summary      Cambiar cantidad en el carrito
// @Tags         carrito
// @Accept       json
// @Param        id   path string                 true "UUID"
// @Param        body body dto.CarritoItemRequest true "Cantidad"
// @Success      204
// @Router       /v1/productos/{id}/carrito [put]
func (h *ProductosHandler) CambiarCantidad(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.CarritoItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.CambiarCantidadCarrito(c.Request.Context(), id, req.Cantidad); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// QuitarDelCarrito godoc
// @Summary      Quitar producto del carrito
// @Tags         carrito
// @Param        id path string true "UUID"
// @Success      204
// @Router       /v1/productos/{id}/carrito [delete]
func (h *ProductosHandler) QuitarDelCarrito(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.QuitarDelCarrito(c.Request.Context(), id); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AgregarPorCodigo godoc
// @Summary      Agregar al carrito por código de barras
// @Description  Escaneo: si el producto ya está en el carrito suma una unidad, si no lo agrega con cantidad 1.
// @Tags         carrito
// @Produce      json
// @Param        codigo path string true "Código"
// @Success      200 {object} model.Producto
// @Failure      404 {object} apierror.APIError
// @Router       /v1/carrito/codigo/{codigo} [post]
func (h *ProductosHandler) AgregarPorCodigo(c *gin.Context) {
	p, err := h.svc.AgregarPorCodigo(c.Request.Context(), c.Param("codigo"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// VerCarrito godoc
// @Summary      Ver el carrito vigente
// @Tags         carrito
// @Produce      json
// @Success      200 {array} model.Producto
// @Router       /v1/carrito [get]
func (h *ProductosHandler) VerCarrito(c *gin.Context) {
	items, err := h.svc.Carrito(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// VaciarCarrito godoc
// @Summary      Vaciar el carrito
// @Tags         carrito
// @Success      204
// @Router       /v1/carrito [delete]
func (h *ProductosHandler) VaciarCarrito(c *gin.Context) {
	if err := h.svc.VaciarCarrito(c.Request.Context()); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MarcarFavorito godoc
// @Summary      Marcar o desmarcar favorito
// @Tags         productos
// @Param        id path string true "UUID"
// @Param        valor query bool true "true para marcar"
// @Success      204
// @Router       /v1/productos/{id}/favorito [put]
func (h *ProductosHandler) MarcarFavorito(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	favorito := c.Query("valor") == "true"
	if err := h.svc.MarcarFavorito(c.Request.Context(), id, favorito); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// StockTotal godoc
// @Summary      Total de unidades en stock
// @Tags         productos
// @Produce      json
// @Success      200 {object} map[string]int64
// @Router       /v1/productos/stock-total [get]
func (h *ProductosHandler) StockTotal(c *gin.Context) {
	total, err := h.svc.StockTotal(c.Request.Context())
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total})
}

// AjustarStock godoc
// @Summary      Ajuste manual de stock
// @Tags         productos
// @Accept       json
// @Param        id   path string                 true "UUID"
// @Param        body body dto.AjusteStockRequest true "Delta (+/-)"
// @Success      204
// @Router       /v1/productos/{id}/stock [patch]
func (h *ProductosHandler) AjustarStock(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.AjusteStockRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.AjustarStock(c.Request.Context(), id, req.Delta); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
