package afip

// soap.go — transporte SOAP 1.1 sobre net/http. Los web services de AFIP son
// SOAP clásico; los sobres se arman con encoding/xml, sin librerías externas.

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
)

const soapEnvelopeNS = "http://schemas.xmlsoap.org/soap/envelope/"

// envelope is the generic outbound SOAP 1.1 envelope. The content struct
// carries its own prefixed element names (ar:, wsaa:, a5: según el servicio).
type envelope struct {
	XMLName      xml.Name `xml:"soapenv:Envelope"`
	XmlnsSoapenv string   `xml:"xmlns:soapenv,attr"`
	XmlnsService string   `xml:"xmlns:ar,attr,omitempty"`
	XmlnsWSAA    string   `xml:"xmlns:wsaa,attr,omitempty"`
	XmlnsPadron  string   `xml:"xmlns:a5,attr,omitempty"`
	Body         soapBody `xml:"soapenv:Body"`
}

type soapBody struct {
	Content interface{}
}

func (b soapBody) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	start.Name.Local = "soapenv:Body"
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	if err := e.Encode(b.Content); err != nil {
		return err
	}
	return e.EncodeToken(start.End())
}

// soapFault is the standard Fault shape; local names match regardless of prefix.
type soapFault struct {
	Code   string `xml:"faultcode"`
	String string `xml:"faultstring"`
}

type faultEnvelope struct {
	Fault *soapFault `xml:"Body>Fault"`
}

// postSOAP serializes the envelope, POSTs it and returns the raw response body.
// Network failures and non-2xx statuses return an error; SOAP faults are left
// in the body for the caller to interpret (each service reports them differently).
func postSOAP(ctx context.Context, hc *http.Client, url, action string, content interface{}, ns func(*envelope)) ([]byte, error) {
	env := envelope{XmlnsSoapenv: soapEnvelopeNS, Body: soapBody{Content: content}}
	if ns != nil {
		ns(&env)
	}

	payload, err := xml.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("armar sobre SOAP: %w", err)
	}
	payload = append([]byte(xml.Header), payload...)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", `text/xml; charset="utf-8"`)
	req.Header.Set("SOAPAction", action)

	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	// AFIP devuelve 500 con Fault para errores de protocolo; un fault con body
	// legible es más útil que el status solo.
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var fe faultEnvelope
		if xml.Unmarshal(body, &fe) == nil && fe.Fault != nil {
			return nil, fmt.Errorf("SOAP fault %s: %s", fe.Fault.Code, fe.Fault.String)
		}
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return body, nil
}
