package afip

// padron.go — consulta de constancia de inscripción (personaServiceA5).
// El checkout clase A valida al receptor acá ANTES de tocar la numeración
// fiscal: un CUIT inválido no debe consumir un comprobante.

import (
	"context"
	"encoding/xml"
)

const padronNS = "http://a5.soap.ws.server.puc.sr/"

type getPersonaRequest struct {
	XMLName          xml.Name `xml:"a5:getPersona_v2"`
	Token            string   `xml:"token"`
	Sign             string   `xml:"sign"`
	CuitRepresentada int64    `xml:"cuitRepresentada"`
	IdPersona        int64    `xml:"idPersona"`
}

type getPersonaResponse struct {
	PersonaReturn struct {
		ErrorConstancia *struct {
			Error []string `xml:"error"`
		} `xml:"errorConstancia"`
		DatosGenerales struct {
			RazonSocial     string `xml:"razonSocial"`
			Apellido        string `xml:"apellido"`
			Nombre          string `xml:"nombre"`
			DomicilioFiscal struct {
				Direccion            string `xml:"direccion"`
				Localidad            string `xml:"localidad"`
				DescripcionProvincia string `xml:"descripcionProvincia"`
			} `xml:"domicilioFiscal"`
		} `xml:"datosGenerales"`
	} `xml:"Body>getPersona_v2Response>personaReturn"`
}

// ConsultarPadron resolves a CUIT to its registered legal name and fiscal
// address. A CUIT without constancia returns ErrContribuyenteNoInscripto.
func (c *Client) ConsultarPadron(ctx context.Context, cuit int64) (*Contribuyente, error) {
	ta, err := c.tokens.GetValidTicket(ctx, ServicioPadron)
	if err != nil {
		return nil, err
	}

	req := getPersonaRequest{
		Token:            ta.Token,
		Sign:             ta.Sign,
		CuitRepresentada: c.cuit,
		IdPersona:        cuit,
	}

	var persona *Contribuyente
	err = withRetry(ctx, 3, func(int) error {
		var body []byte
		cerr := c.cb.Execute(func() error {
			var perr error
			body, perr = postSOAP(ctx, c.httpc, c.padronURL, "", req, func(e *envelope) {
				e.XmlnsPadron = padronNS
			})
			return perr
		})
		if cerr != nil {
			return &TransportError{Operacion: "getPersona_v2", Err: cerr}
		}

		var resp getPersonaResponse
		if uerr := xml.Unmarshal(body, &resp); uerr != nil {
			return &TransportError{Operacion: "getPersona_v2", Err: uerr}
		}
		if resp.PersonaReturn.ErrorConstancia != nil {
			return ErrContribuyenteNoInscripto
		}

		dg := resp.PersonaReturn.DatosGenerales
		razon := dg.RazonSocial
		if razon == "" && (dg.Apellido != "" || dg.Nombre != "") {
			razon = dg.Apellido + " " + dg.Nombre
		}
		persona = &Contribuyente{
			RazonSocial: razon,
			Direccion:   dg.DomicilioFiscal.Direccion,
			Localidad:   dg.DomicilioFiscal.Localidad,
			Provincia:   dg.DomicilioFiscal.DescripcionProvincia,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return persona, nil
}
