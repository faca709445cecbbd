package handler

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Pipillas/musa/internal/afip"
	"github.com/Pipillas/musa/internal/apierror"
	"github.com/Pipillas/musa/internal/fiscal"
	"github.com/Pipillas/musa/internal/service"
)

var validate = validator.New()

func init() {
	// Register decimal.Decimal as a numeric type so that validator tags like
	// min=0, gt=0, required work without panicking ("Bad field type decimal.Decimal").
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if v, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := v.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// bindAndValidate binds JSON body and runs go-playground/validator tags.
// Returns false and writes the error response if validation fails —
// the caller should return immediately without writing another response.
func bindAndValidate(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("JSON invalido: "+err.Error()))
		return false
	}
	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(fields))
		return false
	}
	return true
}

// writeDomainError maps domain errors onto HTTP statuses. The mapping keeps
// the distinction clients care about: 409 for concurrency/state conflicts,
// 422 for fiscal rejections, 503 when the authority is unreachable, and 500
// (with the CAE in the body) for post-authorization failures that need manual
// reconciliation.
func writeDomainError(c *gin.Context, err error) {
	var rejection *afip.FiscalRejection
	var transport *afip.TransportError
	var postAuth *service.PostAuthorizationError

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, apierror.New("No encontrado"))
	case errors.Is(err, service.ErrCarritoVacio),
		errors.Is(err, fiscal.ErrCUITRequerido),
		errors.Is(err, service.ErrContribuyenteDesconocido),
		errors.Is(err, service.ErrDescuentoInvalido),
		errors.Is(err, service.ErrVentaNoFacturada),
		errors.Is(err, service.ErrVentaFacturada):
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
	case errors.Is(err, service.ErrCheckoutEnCurso),
		errors.Is(err, service.ErrStockInsuficiente),
		errors.Is(err, service.ErrVentaAnulada):
		c.JSON(http.StatusConflict, apierror.New(err.Error()))
	case errors.As(err, &rejection):
		c.JSON(http.StatusUnprocessableEntity, apierror.New(rejection.Error()))
	case errors.As(err, &postAuth):
		c.JSON(http.StatusInternalServerError, apierror.New(postAuth.Error()))
	case errors.Is(err, afip.ErrAuthorizationUnavailable), errors.As(err, &transport):
		c.JSON(http.StatusServiceUnavailable, apierror.New("Servicio fiscal no disponible. Intente nuevamente."))
	default:
		c.Error(err) //nolint:errcheck
		c.JSON(http.StatusInternalServerError, apierror.New("Error interno del servidor"))
	}
}
