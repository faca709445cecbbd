package afip

// wsfe.go — cliente WSFEV1: consulta del último comprobante autorizado y
// solicitud de CAE. El servicio remoto es la única fuente de verdad de la
// numeración; este cliente nunca mantiene un contador propio.

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	wsfeNS         = "http://ar.gov.afip.dif.FEV1/"
	wsfeActionBase = "http://ar.gov.afip.dif.FEV1/"
)

// Breaker is the slice of the circuit breaker the client needs.
type Breaker interface {
	Execute(fn func() error) error
}

// Client talks to WSFEV1 and the padrón on behalf of one CUIT emisor.
// All calls obtain their TA through the TokenCache and run through the
// circuit breaker so a downed AFIP fails fast instead of piling up checkouts.
type Client struct {
	cuit      int64
	tokens    *TokenCache
	cb        Breaker
	httpc     *http.Client
	wsfeURL   string
	padronURL string
}

func NewClient(cuit int64, tokens *TokenCache, cb Breaker, wsfeURL, padronURL string) *Client {
	return &Client{
		cuit:      cuit,
		tokens:    tokens,
		cb:        cb,
		httpc:     &http.Client{Timeout: 60 * time.Second},
		wsfeURL:   wsfeURL,
		padronURL: padronURL,
	}
}

// CUIT returns the CUIT emisor this client authenticates as.
func (c *Client) CUIT() int64 { return c.cuit }

// ── Estructuras de sobre WSFE ────────────────────────────────────────────────

type authXML struct {
	Token string `xml:"ar:Token"`
	Sign  string `xml:"ar:Sign"`
	Cuit  int64  `xml:"ar:Cuit"`
}

type feCompUltimoAutorizadoRequest struct {
	XMLName  xml.Name `xml:"ar:FECompUltimoAutorizado"`
	Auth     authXML  `xml:"ar:Auth"`
	PtoVta   int      `xml:"ar:PtoVta"`
	CbteTipo int      `xml:"ar:CbteTipo"`
}

type wsfeErr struct {
	Code int    `xml:"Code"`
	Msg  string `xml:"Msg"`
}

type wsfeErrors struct {
	Err []wsfeErr `xml:"Err"`
}

type ultimoAutorizadoResponse struct {
	Result struct {
		CbteNro int64      `xml:"CbteNro"`
		Errors  wsfeErrors `xml:"Errors"`
	} `xml:"Body>FECompUltimoAutorizadoResponse>FECompUltimoAutorizadoResult"`
}

type feCAESolicitarRequest struct {
	XMLName  xml.Name    `xml:"ar:FECAESolicitar"`
	Auth     authXML     `xml:"ar:Auth"`
	FeCAEReq feCAEReqXML `xml:"ar:FeCAEReq"`
}

type feCAEReqXML struct {
	FeCabReq feCabReqXML `xml:"ar:FeCabReq"`
	FeDetReq feDetReqXML `xml:"ar:FeDetReq"`
}

type feCabReqXML struct {
	CantReg  int `xml:"ar:CantReg"`
	PtoVta   int `xml:"ar:PtoVta"`
	CbteTipo int `xml:"ar:CbteTipo"`
}

type feDetReqXML struct {
	Det feCAEDetRequestXML `xml:"ar:FECAEDetRequest"`
}

type feCAEDetRequestXML struct {
	Concepto   int           `xml:"ar:Concepto"`
	DocTipo    int           `xml:"ar:DocTipo"`
	DocNro     int64         `xml:"ar:DocNro"`
	CbteDesde  int64         `xml:"ar:CbteDesde"`
	CbteHasta  int64         `xml:"ar:CbteHasta"`
	CbteFch    string        `xml:"ar:CbteFch"`
	ImpTotal   string        `xml:"ar:ImpTotal"`
	ImpTotConc string        `xml:"ar:ImpTotConc"`
	ImpNeto    string        `xml:"ar:ImpNeto"`
	ImpOpEx    string        `xml:"ar:ImpOpEx"`
	ImpTrib    string        `xml:"ar:ImpTrib"`
	ImpIVA     string        `xml:"ar:ImpIVA"`
	MonId      string        `xml:"ar:MonId"`
	MonCotiz   int           `xml:"ar:MonCotiz"`
	CbtesAsoc  *cbtesAsocXML `xml:"ar:CbtesAsoc,omitempty"`
	Iva        ivaXML        `xml:"ar:Iva"`
}

type cbtesAsocXML struct {
	CbteAsoc []cbteAsocXML `xml:"ar:CbteAsoc"`
}

type cbteAsocXML struct {
	Tipo   int   `xml:"ar:Tipo"`
	PtoVta int   `xml:"ar:PtoVta"`
	Nro    int64 `xml:"ar:Nro"`
}

type ivaXML struct {
	AlicIva []alicIvaXML `xml:"ar:AlicIva"`
}

type alicIvaXML struct {
	Id      int    `xml:"ar:Id"`
	BaseImp string `xml:"ar:BaseImp"`
	Importe string `xml:"ar:Importe"`
}

type caeSolicitarResponse struct {
	Result struct {
		FeDetResp struct {
			Det []feCAEDetResponseXML `xml:"FECAEDetResponse"`
		} `xml:"FeDetResp"`
		Errors wsfeErrors `xml:"Errors"`
	} `xml:"Body>FECAESolicitarResponse>FECAESolicitarResult"`
}

type feCAEDetResponseXML struct {
	Resultado     string `xml:"Resultado"` // "A" aprobado | "R" rechazado
	CAE           string `xml:"CAE"`
	CAEFchVto     string `xml:"CAEFchVto"`
	Observaciones struct {
		Obs []wsfeErr `xml:"Obs"`
	} `xml:"Observaciones"`
}

// ── Operaciones ──────────────────────────────────────────────────────────────

func (c *Client) postWSFE(ctx context.Context, action string, content interface{}) ([]byte, error) {
	var body []byte
	err := c.cb.Execute(func() error {
		var perr error
		body, perr = postSOAP(ctx, c.httpc, c.wsfeURL, wsfeActionBase+action, content, func(e *envelope) {
			e.XmlnsService = wsfeNS
		})
		return perr
	})
	if err != nil {
		return nil, &TransportError{Operacion: action, Err: err}
	}
	return body, nil
}

// UltimoAutorizado queries FECompUltimoAutorizado for (ptoVta, cbteTipo).
// Called immediately before building each comprobante: the remote service owns
// the numbering and other emisores may have advanced it.
func (c *Client) UltimoAutorizado(ctx context.Context, ptoVta, cbteTipo int) (int64, error) {
	ta, err := c.tokens.GetValidTicket(ctx, ServicioWSFE)
	if err != nil {
		return 0, err
	}

	req := feCompUltimoAutorizadoRequest{
		Auth:     authXML{Token: ta.Token, Sign: ta.Sign, Cuit: c.cuit},
		PtoVta:   ptoVta,
		CbteTipo: cbteTipo,
	}

	var nro int64
	err = withRetry(ctx, 3, func(attempt int) error {
		body, perr := c.postWSFE(ctx, "FECompUltimoAutorizado", req)
		if perr != nil {
			log.Warn().Err(perr).Int("attempt", attempt+1).Msg("wsfe: FECompUltimoAutorizado falló")
			return perr
		}
		var resp ultimoAutorizadoResponse
		if uerr := xml.Unmarshal(body, &resp); uerr != nil {
			return &TransportError{Operacion: "FECompUltimoAutorizado", Err: uerr}
		}
		if len(resp.Result.Errors.Err) > 0 {
			e := resp.Result.Errors.Err[0]
			return &FiscalRejection{Codigo: e.Code, Mensaje: e.Msg}
		}
		nro = resp.Result.CbteNro
		return nil
	})
	return nro, err
}

// SolicitarCAE submits one comprobante detail through FECAESolicitar.
// Never retried: after submission the number may already be claimed, and a
// resubmit would collide with it. Rejections carry the remote diagnostic.
func (c *Client) SolicitarCAE(ctx context.Context, r *FECAERequest) (*CAEResult, error) {
	ta, err := c.tokens.GetValidTicket(ctx, ServicioWSFE)
	if err != nil {
		return nil, err
	}

	req := feCAESolicitarRequest{
		Auth: authXML{Token: ta.Token, Sign: ta.Sign, Cuit: c.cuit},
		FeCAEReq: feCAEReqXML{
			FeCabReq: feCabReqXML{CantReg: 1, PtoVta: r.PtoVta, CbteTipo: r.CbteTipo},
			FeDetReq: feDetReqXML{Det: feCAEDetRequestXML{
				Concepto:   r.Concepto,
				DocTipo:    r.DocTipo,
				DocNro:     r.DocNro,
				CbteDesde:  r.CbteDesde,
				CbteHasta:  r.CbteHasta,
				CbteFch:    r.CbteFch,
				ImpTotal:   r.ImpTotal.StringFixed(2),
				ImpTotConc: "0.00",
				ImpNeto:    r.ImpNeto.StringFixed(2),
				ImpOpEx:    "0.00",
				ImpTrib:    "0.00",
				ImpIVA:     r.ImpIVA.StringFixed(2),
				MonId:      MonedaPesos,
				MonCotiz:   CotizacionPesos,
				CbtesAsoc:  asocXML(r.CbteAsoc),
				Iva: ivaXML{AlicIva: []alicIvaXML{{
					Id:      AlicIVA21,
					BaseImp: r.ImpNeto.StringFixed(2),
					Importe: r.ImpIVA.StringFixed(2),
				}}},
			}},
		},
	}

	body, err := c.postWSFE(ctx, "FECAESolicitar", req)
	if err != nil {
		return nil, err
	}

	var resp caeSolicitarResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return nil, &TransportError{Operacion: "FECAESolicitar", Err: err}
	}
	if len(resp.Result.Errors.Err) > 0 {
		e := resp.Result.Errors.Err[0]
		return nil, &FiscalRejection{Codigo: e.Code, Mensaje: e.Msg}
	}
	if len(resp.Result.FeDetResp.Det) == 0 {
		return nil, &TransportError{Operacion: "FECAESolicitar", Err: fmt.Errorf("respuesta sin detalle")}
	}

	det := resp.Result.FeDetResp.Det[0]
	if det.Resultado != "A" {
		rej := &FiscalRejection{Mensaje: "comprobante rechazado"}
		if len(det.Observaciones.Obs) > 0 {
			rej.Codigo = det.Observaciones.Obs[0].Code
			rej.Mensaje = det.Observaciones.Obs[0].Msg
		}
		log.Warn().Int("codigo", rej.Codigo).Str("msg", rej.Mensaje).Msg("wsfe: FECAESolicitar rechazado")
		return nil, rej
	}

	log.Info().Str("cae", det.CAE).Int64("nro", r.CbteDesde).Int("cbte_tipo", r.CbteTipo).Msg("wsfe: CAE obtenido")
	return &CAEResult{CAE: det.CAE, Vencimiento: det.CAEFchVto, Numero: r.CbteDesde}, nil
}

func asocXML(a *CbteAsociado) *cbtesAsocXML {
	if a == nil {
		return nil
	}
	return &cbtesAsocXML{CbteAsoc: []cbteAsocXML{{Tipo: a.Tipo, PtoVta: a.PtoVta, Nro: a.Nro}}}
}
