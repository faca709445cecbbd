package service

import (
	"errors"
	"fmt"
)

var (
	// ErrCarritoVacio rejects a checkout with no staged items.
	ErrCarritoVacio = errors.New("el carrito esta vacio")

	// ErrCheckoutEnCurso means another checkout holds the punto de venta.
	ErrCheckoutEnCurso = errors.New("hay un checkout en curso para este punto de venta")

	// ErrStockInsuficiente rejects a checkout whose staged quantity exceeds
	// the available stock of some item. Checked before any fiscal call.
	ErrStockInsuficiente = errors.New("stock insuficiente")

	// ErrDescuentoInvalido means the requested discount exceeds the cart
	// subtotal.
	ErrDescuentoInvalido = errors.New("el descuento supera el subtotal del carrito")

	// ErrContribuyenteDesconocido means the buyer's CUIT is not registered
	// with the fiscal authority; no invoice was requested.
	ErrContribuyenteDesconocido = errors.New("el CUIT del comprador no figura en el padron")

	// ErrVentaAnulada means the sale was already reversed with a credit note.
	ErrVentaAnulada = errors.New("la venta ya fue anulada con nota de credito")

	// ErrVentaNoFacturada means the operation requires an authorized invoice
	// and the sale has none.
	ErrVentaNoFacturada = errors.New("la venta no tiene comprobante autorizado")

	// ErrVentaFacturada means the sale has a CAE and can only be reversed
	// with a nota de credito.
	ErrVentaFacturada = errors.New("la venta tiene comprobante autorizado; corresponde nota de credito")
)

// PostAuthorizationError wraps a failure that happened after the fiscal
// authority already issued a CAE. The invoice exists and cannot be unissued,
// so callers must surface this loudly for manual reconciliation.
type PostAuthorizationError struct {
	CAE    string
	Numero int64
	Err    error
}

func (e *PostAuthorizationError) Error() string {
	return fmt.Sprintf("fallo posterior a la autorizacion del CAE %s (comprobante %d): %v", e.CAE, e.Numero, e.Err)
}

func (e *PostAuthorizationError) Unwrap() error { return e.Err }
