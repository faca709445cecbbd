package afip

import (
	"errors"
	"fmt"
)

// The error taxonomy is deliberately closed: every caller of this package can
// (and must) distinguish the retryable transport class from the non-retryable
// fiscal-rejection class with errors.Is / errors.As.

// ErrAuthorizationUnavailable means no access ticket could be obtained from
// WSAA. Nothing has been submitted to the invoicing service — safe to retry.
var ErrAuthorizationUnavailable = errors.New("afip: no se pudo obtener el ticket de acceso")

// ErrContribuyenteNoInscripto is returned by the padrón query when the CUIT
// exists but has no registration record (constancia de inscripción).
var ErrContribuyenteNoInscripto = errors.New("afip: el CUIT no figura inscripto en el padrón")

// TransportError is a network-level failure talking to an AFIP web service.
// No fiscal number has been claimed — callers may retry with backoff.
type TransportError struct {
	Operacion string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("afip: fallo de transporte en %s: %v", e.Operacion, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// FiscalRejection is a structured rejection from WSFE: the request reached the
// service and was refused (totales inconsistentes, documento inválido, etc.).
// It is NEVER retried automatically — resubmitting would attempt to reuse an
// already-claimed comprobante number.
type FiscalRejection struct {
	Codigo  int
	Mensaje string
}

func (e *FiscalRejection) Error() string {
	return fmt.Sprintf("afip: comprobante rechazado (%d): %s", e.Codigo, e.Mensaje)
}
