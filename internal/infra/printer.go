package infra

import (
	"github.com/rs/zerolog/log"

	"github.com/Pipillas/musa/internal/dto"
)

// LogPrinter is the default TicketPrinter: it records the ticket in the
// structured log instead of driving hardware. Useful for environments
// without a thermal printer attached.
type LogPrinter struct{}

func NewLogPrinter() *LogPrinter { return &LogPrinter{} }

func (p *LogPrinter) Print(t dto.Ticket) error {
	log.Info().
		Str("numero", t.NumeroFactura).
		Str("tipo", t.TipoFactura).
		Str("cae", t.CAE).
		Str("total", t.Total.StringFixed(2)).
		Int("items", len(t.Items)).
		Msg("Ticket emitido")
	return nil
}
