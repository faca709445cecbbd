package afip

// tra.go — construcción y firma del Ticket de Requerimiento de Acceso (TRA).
// WSAA exige un loginTicketRequest firmado CMS (PKCS#7) con el certificado
// fiscal del contribuyente.

import (
	"crypto"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	"github.com/beevik/etree"
	"go.mozilla.org/pkcs7"
	"golang.org/x/crypto/pkcs12"
)

// Credencial is the fiscal certificate/private key pair used to sign TRAs.
type Credencial struct {
	Cert *x509.Certificate
	Key  crypto.PrivateKey
}

// LoadCredencialP12 loads the pair from a .p12/.pfx bundle.
// Password may be empty when the file is unprotected.
func LoadCredencialP12(path, password string) (*Credencial, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer p12: %w", err)
	}
	priv, cert, err := pkcs12.Decode(data, password)
	if err != nil {
		return nil, fmt.Errorf("decodificar p12: %w", err)
	}
	return &Credencial{Cert: cert, Key: priv}, nil
}

// LoadCredencialPEM loads the pair from separate PEM files (crt + key).
func LoadCredencialPEM(certPath, keyPath string) (*Credencial, error) {
	pair, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return nil, fmt.Errorf("cargar PEM: %w", err)
	}
	leaf, err := x509.ParseCertificate(pair.Certificate[0])
	if err != nil {
		return nil, fmt.Errorf("parsear certificado: %w", err)
	}
	return &Credencial{Cert: leaf, Key: pair.PrivateKey}, nil
}

// buildTRA genera el XML loginTicketRequest para un servicio.
// generationTime se retrasa 10 minutos para absorber desfasajes de reloj
// contra WSAA; expirationTime da una ventana de pedido de 10 minutos.
func buildTRA(service string, now time.Time) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("loginTicketRequest")
	root.CreateAttr("version", "1.0")

	header := root.CreateElement("header")
	header.CreateElement("uniqueId").SetText(fmt.Sprintf("%d", now.Unix()))
	header.CreateElement("generationTime").SetText(now.Add(-10 * time.Minute).Format(time.RFC3339))
	header.CreateElement("expirationTime").SetText(now.Add(10 * time.Minute).Format(time.RFC3339))

	root.CreateElement("service").SetText(service)

	doc.Indent(2)
	return doc.WriteToBytes()
}

// signTRA envuelve el TRA en una firma CMS (SignedData) DER.
func signTRA(tra []byte, cred *Credencial) ([]byte, error) {
	sd, err := pkcs7.NewSignedData(tra)
	if err != nil {
		return nil, fmt.Errorf("iniciar CMS: %w", err)
	}
	if err := sd.AddSigner(cred.Cert, cred.Key, pkcs7.SignerInfoConfig{}); err != nil {
		return nil, fmt.Errorf("firmar TRA: %w", err)
	}
	return sd.Finish()
}
