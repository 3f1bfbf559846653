package spki_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"errors"
	"testing"

	"github.com/mynextid/x509view/internal/der"
	"github.com/mynextid/x509view/internal/spki"
	"github.com/mynextid/x509view/internal/xerr"
)

func kindOf(t *testing.T, err error) xerr.Kind {
	t.Helper()
	var e *xerr.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *xerr.Error, got %T: %v", err, err)
	}
	return e.Kind
}

// pkixContent strips the outer SubjectPublicKeyInfo SEQUENCE tag and
// length off a crypto/x509.MarshalPKIXPublicKey result, since
// spki.Parse expects to start just inside that SEQUENCE.
func pkixContent(t *testing.T, raw []byte) []byte {
	t.Helper()
	_, content, rest, err := der.ExpectSequence(raw, "test")
	if err != nil {
		t.Fatalf("stripping outer SEQUENCE: %v", err)
	}
	if len(rest) != 0 {
		t.Fatalf("unexpected trailing bytes after SubjectPublicKeyInfo")
	}
	return content
}

func TestParseRSAPublicKey(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generating RSA key: %v", err)
	}
	pkix, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshaling PKIX key: %v", err)
	}

	info, err := spki.Parse(pkixContent(t, pkix))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Algorithm != spki.AlgorithmRSA {
		t.Fatalf("expected AlgorithmRSA, got %v", info.Algorithm)
	}

	n, e, err := spki.ReadRSAPublicKey(info)
	if err != nil {
		t.Fatalf("ReadRSAPublicKey: %v", err)
	}
	if n.Cmp(key.PublicKey.N) != 0 {
		t.Fatalf("modulus mismatch")
	}
	if e.Int64() != int64(key.PublicKey.E) {
		t.Fatalf("exponent mismatch: got %v want %d", e, key.PublicKey.E)
	}
}

func TestParseECPublicKey(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating EC key: %v", err)
	}
	pkix, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshaling PKIX key: %v", err)
	}

	info, err := spki.Parse(pkixContent(t, pkix))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Algorithm != spki.AlgorithmEC {
		t.Fatalf("expected AlgorithmEC, got %v", info.Algorithm)
	}
	if len(info.EC.Point) == 0 || info.EC.Point[0] != 0x04 {
		t.Fatalf("expected uncompressed point, got %x", info.EC.Point)
	}
}

func TestReadRSAPublicKeyRejectsNonRSA(t *testing.T) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generating EC key: %v", err)
	}
	pkix, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshaling PKIX key: %v", err)
	}
	info, err := spki.Parse(pkixContent(t, pkix))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := spki.ReadRSAPublicKey(info); kindOf(t, err) != xerr.UnsupportedAlgorithm {
		t.Fatalf("expected UnsupportedAlgorithm, got %v", err)
	}
}

// tlv and seqOf build minimal short-form DER, used below to hand-build
// a DSA SubjectPublicKeyInfo (crypto/x509 no longer marshals DSA keys).
func tlv(tag byte, content []byte) []byte {
	if len(content) >= 128 {
		panic("tlv: short-form only")
	}
	return append([]byte{tag, byte(len(content))}, content...)
}

func seqOf(content []byte) []byte { return tlv(0x30, content) }

func integer(v byte) []byte { return tlv(0x02, []byte{v}) }

func TestParseDSAPublicKey(t *testing.T) {
	dsaOID := []byte{0x2a, 0x86, 0x48, 0xce, 0x38, 0x04, 0x01} // 1.2.840.10040.4.1
	params := seqOf(append(append(integer(23), integer(11)...), integer(2)...))
	algID := seqOf(append(tlv(0x06, dsaOID), params...))

	y := integer(7)
	bitStr := tlv(0x03, append([]byte{0x00}, y...))

	spkiDER := seqOf(append(algID, bitStr...))
	info, err := spki.Parse(pkixContent(t, spkiDER))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Algorithm != spki.AlgorithmDSA {
		t.Fatalf("expected AlgorithmDSA, got %v", info.Algorithm)
	}

	p, q, g, yy, err := spki.ReadDSAPublicKey(info)
	if err != nil {
		t.Fatalf("ReadDSAPublicKey: %v", err)
	}
	if p.Int64() != 23 || q.Int64() != 11 || g.Int64() != 2 || yy.Int64() != 7 {
		t.Fatalf("unexpected DSA params: p=%v q=%v g=%v y=%v", p, q, g, yy)
	}
}

func TestParseRejectsUnsupportedAlgorithm(t *testing.T) {
	unknownOID := []byte{0x55, 0x04, 0x63} // 2.5.4.99, not a key algorithm
	algID := seqOf(tlv(0x06, unknownOID))
	bitStr := tlv(0x03, []byte{0x00, 0x01})
	spkiDER := seqOf(append(algID, bitStr...))

	_, err := spki.Parse(pkixContent(t, spkiDER))
	if kindOf(t, err) != xerr.UnsupportedAlgorithm {
		t.Fatalf("expected UnsupportedAlgorithm, got %v", err)
	}
}
