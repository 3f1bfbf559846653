// Package api implements the HTTP surface over the certificate parser
// and validator: decode-and-describe a certificate, and check a
// child/issuer pair against each other.
package api

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mynextid/x509view/certificate"
	"github.com/mynextid/x509view/validate"
)

// Server handles HTTP requests against the decoder and validator.
type Server struct {
	validator validate.Validator
	group     singleflight.Group
}

// NewServer wires a Server around the default, stdlib-backed
// validator collaborators.
func NewServer() *Server {
	return &Server{validator: validate.NewDefaultValidator()}
}

// ==== Request/Response types ====

type ParseRequest struct {
	CertificateDER string `json:"certificate_der"` // base64
}

type GeneralNameView struct {
	Type  string `json:"type"`
	Value string `json:"value"` // base64 of the raw GeneralName content
}

type ParseResponse struct {
	Version            int               `json:"version"`
	SerialNumberHex    string            `json:"serial_number_hex"`
	Issuer             string            `json:"issuer_common_name,omitempty"`
	Subject            string            `json:"subject_common_name,omitempty"`
	NotBefore          time.Time         `json:"not_before"`
	NotAfter           time.Time         `json:"not_after"`
	IsCA               bool              `json:"is_ca"`
	SubjectAltNames    []GeneralNameView `json:"subject_alt_names,omitempty"`
	SignatureAlgorithm string            `json:"signature_algorithm_oid"`
}

type ValidateRequest struct {
	CertificateDER string `json:"certificate_der"` // base64, the child
	IssuerDER      string `json:"issuer_der"`      // base64, the candidate issuer
}

type ValidateResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error     string    `json:"error"`
	Code      string    `json:"code,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ==== Handlers ====

func (s *Server) HandleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (s *Server) HandleParse(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		return
	}

	var req ParseRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_json", fmt.Sprintf("failed to parse request: %v", err))
		return
	}
	der, err := base64.StdEncoding.DecodeString(req.CertificateDER)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_encoding", "certificate_der must be base64")
		return
	}

	// Requests carrying byte-identical certificates collapse into a
	// single parse; singleflight keys on the raw DER itself.
	v, err, _ := s.group.Do(string(der), func() (any, error) {
		return certificate.Parse(der)
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, "parse_failed", err.Error())
		return
	}
	cert := v.(certificate.Certificate)

	respondJSON(w, http.StatusOK, toParseResponse(cert))
}

func (s *Server) HandleValidate(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		return
	}

	var req ValidateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_json", fmt.Sprintf("failed to parse request: %v", err))
		return
	}
	childDER, err := base64.StdEncoding.DecodeString(req.CertificateDER)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_encoding", "certificate_der must be base64")
		return
	}
	issuerDER, err := base64.StdEncoding.DecodeString(req.IssuerDER)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_encoding", "issuer_der must be base64")
		return
	}

	child, err := certificate.Parse(childDER)
	if err != nil {
		respondError(w, http.StatusBadRequest, "parse_failed", "certificate_der: "+err.Error())
		return
	}
	issuer, err := certificate.Parse(issuerDER)
	if err != nil {
		respondError(w, http.StatusBadRequest, "parse_failed", "issuer_der: "+err.Error())
		return
	}

	key := string(childDER) + "|" + string(issuerDER)
	_, err, _ = s.group.Do(key, func() (any, error) {
		return nil, s.validator.Validate(child, issuer)
	})

	resp := ValidateResponse{Valid: err == nil}
	if err != nil {
		resp.Message = err.Error()
	} else {
		resp.Message = "signature and validity checks passed"
	}
	respondJSON(w, http.StatusOK, resp)
}

func toParseResponse(cert certificate.Certificate) ParseResponse {
	tbs := cert.TBSCertificate
	resp := ParseResponse{
		Version:            tbs.Version,
		SerialNumberHex:    fmt.Sprintf("%x", tbs.SerialNumber.Raw),
		NotBefore:          tbs.NotBefore,
		NotAfter:           tbs.NotAfter,
		IsCA:               tbs.Extensions.BasicConstraints.CA,
		SignatureAlgorithm: fmt.Sprintf("% x", cert.SignatureAlgorithmOID().Raw),
	}
	if tbs.Issuer.CommonName.Present() {
		resp.Issuer = string(tbs.Issuer.CommonName.Value)
	}
	if tbs.Subject.CommonName.Present() {
		resp.Subject = string(tbs.Subject.CommonName.Value)
	}
	for _, san := range tbs.Extensions.SubjectAltNames {
		resp.SubjectAltNames = append(resp.SubjectAltNames, GeneralNameView{
			Type:  generalNameTypeName(san.Type),
			Value: base64.StdEncoding.EncodeToString(san.Value),
		})
	}
	return resp
}

// ==== Helper functions ====

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "failed to read request body")
		return nil, err
	}
	defer r.Body.Close()
	return body, nil
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{Error: message, Code: code, Timestamp: time.Now()})
}
