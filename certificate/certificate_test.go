package certificate_test

import (
	"bytes"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/mynextid/x509view/certificate"
	"github.com/mynextid/x509view/internal/xerr"
	"github.com/mynextid/x509view/validate"
)

func kindOf(t *testing.T, err error) xerr.Kind {
	t.Helper()
	var xe *xerr.Error
	if !errors.As(err, &xe) {
		t.Fatalf("expected *xerr.Error, got %T (%v)", err, err)
	}
	return xe.Kind
}

// derLength renders a DER-minimal length encoding for n.
func derLength(n int) []byte {
	if n < 0x80 {
		return []byte{byte(n)}
	}
	var bytesBE []byte
	for n > 0 {
		bytesBE = append([]byte{byte(n & 0xff)}, bytesBE...)
		n >>= 8
	}
	return append([]byte{0x80 | byte(len(bytesBE))}, bytesBE...)
}

func tlv(tag byte, content []byte) []byte {
	return append(append([]byte{tag}, derLength(len(content))...), content...)
}

// seqOf wraps content in a SEQUENCE TLV with a DER-minimal length.
func seqOf(content []byte) []byte {
	return tlv(0x30, content)
}

func integer(v byte) []byte { return []byte{0x02, 0x01, v} }

// minimalNameDER builds a one-RDN Name: CN=test.
func minimalNameDER() []byte {
	ava := seqOf(append([]byte{0x06, 0x03, 0x55, 0x04, 0x03}, []byte{0x0c, 0x04, 't', 'e', 's', 't'}...))
	rdn := tlv(0x31, ava)
	return seqOf(rdn)
}

func utcTime(s string) []byte {
	return tlv(0x17, []byte(s))
}

func rsaSPKI(t *testing.T) []byte {
	t.Helper()
	// A tiny (structurally valid, not secure) RSA public key: n has
	// high bit set so it needs the padding zero byte.
	n := []byte{0x02, 0x09, 0x00, 0xc0, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07}
	e := []byte{0x02, 0x01, 0x03}
	rsaKey := seqOf(append(append([]byte{}, n...), e...))
	bitStr := tlv(0x03, append([]byte{0x00}, rsaKey...))
	alg := seqOf(append([]byte{0x06, 0x09, 0x2a, 0x86, 0x48, 0x86, 0xf7, 0x0d, 0x01, 0x01, 0x01}, 0x05, 0x00))
	return seqOf(append(alg, bitStr...))
}

func sigAlgSHA256RSA() []byte {
	return seqOf(append([]byte{0x06, 0x09, 0x2a, 0x86, 0x48, 0x86, 0xf7, 0x0d, 0x01, 0x01, 0x0b}, 0x05, 0x00))
}

// buildTBS assembles a minimal tbsCertificate (no version, no unique
// IDs, no extensions: a v1 certificate).
func buildTBS(t *testing.T) []byte {
	t.Helper()
	name := minimalNameDER()
	validity := seqOf(append(utcTime("200101000000Z"), utcTime("300101000000Z")...))
	var body []byte
	body = append(body, integer(0x01)...)
	body = append(body, sigAlgSHA256RSA()...)
	body = append(body, name...)
	body = append(body, validity...)
	body = append(body, name...)
	body = append(body, rsaSPKI(t)...)
	return seqOf(body)
}

func buildCertificate(t *testing.T, tbs []byte, sigValue []byte) []byte {
	t.Helper()
	sigAlg := sigAlgSHA256RSA()
	sigBS := tlv(0x03, append([]byte{0x00}, sigValue...))
	var body []byte
	body = append(body, tbs...)
	body = append(body, sigAlg...)
	body = append(body, sigBS...)
	return seqOf(body)
}

func TestParseMinimalV1Certificate(t *testing.T) {
	tbs := buildTBS(t)
	raw := buildCertificate(t, tbs, []byte{0xaa, 0xbb})

	cert, err := certificate.Parse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cert.TBSCertificate.Version != 0 {
		t.Fatalf("expected version 0 (v1) when absent, got %d", cert.TBSCertificate.Version)
	}
	if cert.TBSCertificate.Extensions.BasicConstraints.Present {
		t.Fatal("expected no extensions on a v1 certificate")
	}
	if !bytes.Equal(cert.RawData, raw) {
		t.Fatal("RawData should cover the whole input")
	}
}

func TestParseRejectsTrailingData(t *testing.T) {
	tbs := buildTBS(t)
	raw := buildCertificate(t, tbs, []byte{0xaa, 0xbb})
	raw = append(raw, 0x00)
	_, err := certificate.Parse(raw)
	if kindOf(t, err) != xerr.TrailingData {
		t.Fatalf("expected TrailingData, got %v", err)
	}
}

func TestParseRejectsEmptyExtensionsSequence(t *testing.T) {
	name := minimalNameDER()
	validity := seqOf(append(utcTime("200101000000Z"), utcTime("300101000000Z")...))
	verField := tlv(0xa0, integer(0x02)) // [0] EXPLICIT version v3
	extsField := tlv(0xa3, seqOf(nil))   // [3] EXPLICIT SEQUENCE {}

	var body []byte
	body = append(body, verField...)
	body = append(body, integer(0x01)...) // serialNumber
	body = append(body, sigAlgSHA256RSA()...)
	body = append(body, name...)
	body = append(body, validity...)
	body = append(body, name...)
	body = append(body, rsaSPKI(t)...)
	body = append(body, extsField...)
	tbs := seqOf(body)

	raw := buildCertificate(t, tbs, []byte{0xaa})
	_, err := certificate.Parse(raw)
	if kindOf(t, err) != xerr.EmptyExtensions {
		t.Fatalf("expected EmptyExtensions, got %v", err)
	}
}

// TestEndToEndSelfSignedRSA builds a real self-signed RSA/SHA-256
// certificate with crypto/x509 and checks our decoder and validator
// agree it is structurally sound and correctly signed.
func TestEndToEndSelfSignedRSA(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("GenerateKey: %v", err)
	}
	notBefore := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	notAfter := time.Date(2034, 1, 1, 0, 0, 0, 0, time.UTC)
	template := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "example.com"},
		NotBefore:             notBefore,
		NotAfter:              notAfter,
		SignatureAlgorithm:    x509.SHA256WithRSA,
		BasicConstraintsValid: true,
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature,
		DNSNames:              []string{"example.com", "www.example.com"},
	}
	derBytes, err := x509.CreateCertificate(rand.Reader, template, template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("CreateCertificate: %v", err)
	}

	cert, err := certificate.Parse(derBytes)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if !cert.TBSCertificate.Extensions.BasicConstraints.CA {
		t.Fatal("expected CA=true")
	}
	if len(cert.TBSCertificate.Extensions.SubjectAltNames) != 2 {
		t.Fatalf("expected 2 SANs, got %d", len(cert.TBSCertificate.Extensions.SubjectAltNames))
	}

	v := validate.NewValidator(validate.DefaultHasher{}, validate.DefaultVerifier{}, fixedClock{notBefore.AddDate(1, 0, 0)})
	if err := v.Validate(cert, cert); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }
