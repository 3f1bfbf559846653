package oids

import (
	"bytes"
	"testing"
)

func TestEncodeKnownOIDs(t *testing.T) {
	cases := []struct {
		name string
		got  []byte
		want []byte
	}{
		{"commonName", CommonName.Raw, []byte{0x55, 0x04, 0x03}},
		{"rsaEncryption", RSAEncryption.Raw, []byte{0x2a, 0x86, 0x48, 0x86, 0xf7, 0x0d, 0x01, 0x01, 0x01}},
		{"sha256WithRSA", SHA256WithRSA.Raw, []byte{0x2a, 0x86, 0x48, 0x86, 0xf7, 0x0d, 0x01, 0x01, 0x0b}},
		{"ecdsaWithSHA256", ECDSAWithSHA256.Raw, []byte{0x2a, 0x86, 0x48, 0xce, 0x3d, 0x04, 0x03, 0x02}},
		{"netscapeCertType", NetscapeCertType.Raw, []byte{0x60, 0x86, 0x48, 0x01, 0x86, 0xf8, 0x42, 0x01, 0x01}},
		{"basicConstraints", BasicConstraints.Raw, []byte{0x55, 0x1d, 0x13}},
	}
	for _, c := range cases {
		if !bytes.Equal(c.got, c.want) {
			t.Errorf("%s: got % x want % x", c.name, c.got, c.want)
		}
	}
}

func TestLookupAttribute(t *testing.T) {
	if LookupAttribute(CommonName) != AttrCommonName {
		t.Fatal("expected AttrCommonName")
	}
	if LookupAttribute(oid(9, 9, 9)) != AttrUnknown {
		t.Fatal("expected AttrUnknown for a made-up OID")
	}
}
