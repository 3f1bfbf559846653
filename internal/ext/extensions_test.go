package ext

import (
	"bytes"
	"errors"
	"testing"

	"github.com/mynextid/x509view/internal/xerr"
)

func kindOf(t *testing.T, err error) xerr.Kind {
	t.Helper()
	var xe *xerr.Error
	if !errors.As(err, &xe) {
		t.Fatalf("expected *xerr.Error, got %T (%v)", err, err)
	}
	return xe.Kind
}

func extension(oid []byte, critical bool, value []byte) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0x06, byte(len(oid))})
	buf.Write(oid)
	if critical {
		buf.Write([]byte{0x01, 0x01, 0xff})
	}
	buf.Write([]byte{0x04, byte(len(value))})
	buf.Write(value)
	seq := append([]byte{0x30, byte(buf.Len())}, buf.Bytes()...)
	return seq
}

var basicConstraintsOID = []byte{0x55, 0x1d, 0x13}
var keyUsageOID = []byte{0x55, 0x1d, 0x0f}
var subjectKeyIdOID = []byte{0x55, 0x1d, 0x0e}

func TestParseBasicConstraintsCA(t *testing.T) {
	bc := []byte{0x30, 0x06, 0x01, 0x01, 0xff, 0x02, 0x01, 0x03}
	ext := extension(basicConstraintsOID, true, bc)
	out, err := Parse(ext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.BasicConstraints.Present || !out.BasicConstraints.CA {
		t.Fatal("expected CA=true")
	}
	if !out.BasicConstraints.PathLenSet || out.BasicConstraints.PathLen != 3 {
		t.Fatalf("expected pathLen=3, got %+v", out.BasicConstraints)
	}
}

func TestParseKeyUsageBits(t *testing.T) {
	// digitalSignature + keyCertSign: bits 0 and 5 set -> byte 0b10000100 = 0x84, 2 unused bits.
	ku := []byte{0x03, 0x02, 0x02, 0x84}
	ext := extension(keyUsageOID, true, ku)
	out, err := Parse(ext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.KeyUsage.Has(KeyUsageDigitalSignature) {
		t.Fatal("expected digitalSignature bit set")
	}
	if !out.KeyUsage.Has(KeyUsageKeyCertSign) {
		t.Fatal("expected keyCertSign bit set")
	}
	if out.KeyUsage.Has(KeyUsageCRLSign) {
		t.Fatal("expected crlSign bit clear")
	}
}

func TestParseSubjectKeyIdentifier(t *testing.T) {
	inner := []byte{0x04, 0x04, 0xde, 0xad, 0xbe, 0xef}
	ext := extension(subjectKeyIdOID, false, inner)
	out, err := Parse(ext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(out.SubjectKeyIdentifier, []byte{0xde, 0xad, 0xbe, 0xef}) {
		t.Fatalf("unexpected ski: % x", out.SubjectKeyIdentifier)
	}
}

func TestParseRejectsDuplicateExtension(t *testing.T) {
	inner := []byte{0x04, 0x01, 0x01}
	one := extension(subjectKeyIdOID, false, inner)
	two := extension(subjectKeyIdOID, false, inner)
	_, err := Parse(append(one, two...))
	if kindOf(t, err) != xerr.DuplicateExtension {
		t.Fatalf("expected DuplicateExtension, got %v", err)
	}
}

func TestParseRejectsUnknownCriticalExtension(t *testing.T) {
	madeUpOID := []byte{0x2a, 0x03, 0x04, 0x05}
	ext := extension(madeUpOID, true, []byte{0x05, 0x00})
	_, err := Parse(ext)
	if kindOf(t, err) != xerr.UnknownCriticalExtension {
		t.Fatalf("expected UnknownCriticalExtension, got %v", err)
	}
}

func TestParseIgnoresUnknownNonCriticalExtension(t *testing.T) {
	madeUpOID := []byte{0x2a, 0x03, 0x04, 0x05}
	ext := extension(madeUpOID, false, []byte{0x05, 0x00})
	_, err := Parse(ext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseSubjectAltNameCap(t *testing.T) {
	var gns bytes.Buffer
	for i := 0; i < SANCap+1; i++ {
		gns.Write([]byte{0x82, 0x01, byte('a' + i)}) // dNSName, context tag 2
	}
	seq := append([]byte{0x30, byte(gns.Len())}, gns.Bytes()...)
	sanOID := []byte{0x55, 0x1d, 0x11}
	ext := extension(sanOID, false, seq)
	_, err := Parse(ext)
	if kindOf(t, err) != xerr.TooManySubjectAltNames {
		t.Fatalf("expected TooManySubjectAltNames, got %v", err)
	}
}

func TestParseSubjectAltNameWithinCap(t *testing.T) {
	var gns bytes.Buffer
	for i := 0; i < SANCap; i++ {
		gns.Write([]byte{0x82, 0x01, byte('a' + i)})
	}
	seq := append([]byte{0x30, byte(gns.Len())}, gns.Bytes()...)
	sanOID := []byte{0x55, 0x1d, 0x11}
	ext := extension(sanOID, false, seq)
	out, err := Parse(ext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.SubjectAltNames) != SANCap {
		t.Fatalf("expected %d SANs, got %d", SANCap, len(out.SubjectAltNames))
	}
	for i, gn := range out.SubjectAltNames {
		if gn.Type != GeneralNameDNS {
			t.Fatalf("entry %d: expected dNSName type", i)
		}
	}
}

func TestParseAuthorityKeyIdentifier(t *testing.T) {
	keyID := []byte{0x80, 0x02, 0xaa, 0xbb}
	akiSeq := append([]byte{0x30, byte(len(keyID))}, keyID...)
	akiOID := []byte{0x55, 0x1d, 0x23}
	ext := extension(akiOID, false, akiSeq)
	out, err := Parse(ext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !out.AuthorityKeyIdentifier.Present {
		t.Fatal("expected AKI present")
	}
	if !bytes.Equal(out.AuthorityKeyIdentifier.KeyIdentifier, []byte{0xaa, 0xbb}) {
		t.Fatalf("unexpected keyIdentifier: % x", out.AuthorityKeyIdentifier.KeyIdentifier)
	}
}

func TestParsePolicyExtensionEnvelopeOnly(t *testing.T) {
	// certificatePolicies content is opaque to us; any bytes suffice.
	raw := []byte{0x30, 0x03, 0x06, 0x01, 0x2a}
	certPoliciesOID := []byte{0x55, 0x1d, 0x20}
	ext := extension(certPoliciesOID, true, raw)
	out, err := Parse(ext)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.CertificatePolicies == nil || !out.CertificatePolicies.Critical {
		t.Fatal("expected certificatePolicies recorded as critical envelope")
	}
	if !bytes.Equal(out.CertificatePolicies.Value, raw) {
		t.Fatalf("unexpected raw value: % x", out.CertificatePolicies.Value)
	}
}
