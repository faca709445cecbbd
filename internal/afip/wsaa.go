package afip

// wsaa.go — Ticket de Acceso (TA) y su caché. Cada servicio AFIP (wsfe,
// ws_sr_constancia_inscripcion) requiere su propio TA, que se obtiene con un
// loginCms firmado y se reutiliza hasta su vencimiento.

import (
	"context"
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/beevik/etree"
	"github.com/rs/zerolog/log"
)

// taSkew: un TA se considera vencido 60 s antes de su expirationTime real,
// la misma tolerancia de reloj que aplica WSAA.
const taSkew = 60 * time.Second

// AccessTicket is a signed WSAA credential for one service.
type AccessTicket struct {
	Service    string
	Token      string
	Sign       string
	Expiration time.Time
	// Raw is the full loginTicketResponse XML as persisted on disk.
	Raw string
}

// Vigente reports whether the ticket is still usable at t.
func (ta *AccessTicket) Vigente(t time.Time) bool {
	return t.Before(ta.Expiration.Add(-taSkew))
}

// LoginService performs the remote loginCms exchange and returns the raw TA XML.
type LoginService interface {
	LoginCms(ctx context.Context, service string) (string, error)
}

// TokenCache owns every AccessTicket. Tickets are persisted per service under
// dir (<service>_ta.xml) and survive restarts. Concurrent callers for the same
// service serialize on a per-service mutex: the first one refreshes, the rest
// reuse the ticket it obtained.
type TokenCache struct {
	dir   string
	login LoginService

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewTokenCache(dir string, login LoginService) *TokenCache {
	return &TokenCache{dir: dir, login: login, locks: make(map[string]*sync.Mutex)}
}

func (c *TokenCache) serviceLock(service string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[service]
	if !ok {
		l = &sync.Mutex{}
		c.locks[service] = l
	}
	return l
}

func (c *TokenCache) taPath(service string) string {
	return filepath.Join(c.dir, service+"_ta.xml")
}

// GetValidTicket returns a usable TA for the service, refreshing it through
// WSAA when the stored one is absent, unreadable or expired. A login failure
// surfaces as ErrAuthorizationUnavailable and caches nothing.
func (c *TokenCache) GetValidTicket(ctx context.Context, service string) (*AccessTicket, error) {
	lock := c.serviceLock(service)
	lock.Lock()
	defer lock.Unlock()

	if raw, err := os.ReadFile(c.taPath(service)); err == nil {
		if ta, perr := parseTA(service, string(raw)); perr == nil && ta.Vigente(time.Now()) {
			return ta, nil
		}
	}

	raw, err := c.login.LoginCms(ctx, service)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAuthorizationUnavailable, err)
	}
	ta, err := parseTA(service, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: respuesta de login ilegible: %v", ErrAuthorizationUnavailable, err)
	}

	if err := os.MkdirAll(c.dir, 0o700); err == nil {
		if werr := os.WriteFile(c.taPath(service), []byte(raw), 0o600); werr != nil {
			log.Warn().Err(werr).Str("service", service).Msg("wsaa: no se pudo persistir el TA")
		}
	}
	log.Info().Str("service", service).Time("expira", ta.Expiration).Msg("wsaa: TA renovado")
	return ta, nil
}

// parseTA interpreta el loginTicketResponse (token, sign, expirationTime).
func parseTA(service, raw string) (*AccessTicket, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(raw); err != nil {
		return nil, err
	}
	token := doc.FindElement("//credentials/token")
	sign := doc.FindElement("//credentials/sign")
	exp := doc.FindElement("//header/expirationTime")
	if token == nil || sign == nil || exp == nil {
		return nil, fmt.Errorf("loginTicketResponse incompleto")
	}
	expiration, err := time.Parse(time.RFC3339, exp.Text())
	if err != nil {
		return nil, fmt.Errorf("expirationTime inválido: %w", err)
	}
	return &AccessTicket{
		Service:    service,
		Token:      token.Text(),
		Sign:       sign.Text(),
		Expiration: expiration,
		Raw:        raw,
	}, nil
}

// ── Cliente WSAA ─────────────────────────────────────────────────────────────

// WSAAClient implements LoginService against the real WSAA endpoint.
type WSAAClient struct {
	url   string
	cred  *Credencial
	httpc *http.Client
}

func NewWSAAClient(url string, cred *Credencial) *WSAAClient {
	return &WSAAClient{
		url:   url,
		cred:  cred,
		httpc: &http.Client{Timeout: 30 * time.Second},
	}
}

type loginCmsRequest struct {
	XMLName xml.Name `xml:"wsaa:loginCms"`
	In0     string   `xml:"wsaa:in0"`
}

type loginCmsResponse struct {
	Return string `xml:"Body>loginCmsResponse>loginCmsReturn"`
}

// LoginCms builds a TRA for the service, signs it CMS and submits it.
// Returns the raw TA XML on success.
func (w *WSAAClient) LoginCms(ctx context.Context, service string) (string, error) {
	tra, err := buildTRA(service, time.Now())
	if err != nil {
		return "", fmt.Errorf("armar TRA: %w", err)
	}
	cms, err := signTRA(tra, w.cred)
	if err != nil {
		return "", err
	}

	req := loginCmsRequest{In0: base64.StdEncoding.EncodeToString(cms)}
	body, err := postSOAP(ctx, w.httpc, w.url, "", req, func(e *envelope) {
		e.XmlnsWSAA = "http://wsaa.view.sua.dvadac.desein.afip.gov"
	})
	if err != nil {
		return "", err
	}

	var resp loginCmsResponse
	if err := xml.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("respuesta loginCms ilegible: %w", err)
	}
	if resp.Return == "" {
		return "", fmt.Errorf("loginCms sin TA en la respuesta")
	}
	return resp.Return, nil
}
