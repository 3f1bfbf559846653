package der

import (
	"bytes"

	"github.com/mynextid/x509view/internal/xerr"
)

// OID is a borrowed view of the raw (post-header) content octets of
// an OBJECT IDENTIFIER. Arc decoding into decimal form is not needed
// internally; known OIDs are matched byte-wise against a static
// table (see internal/oids), so OID is kept as an opaque comparable
// byte slice rather than parsed into component integers.
type OID struct {
	Raw []byte
}

// DecodeOID validates the raw content octets of an OID TLV.
func DecodeOID(content []byte, context string) (OID, error) {
	if len(content) == 0 {
		return OID{}, xerr.New(xerr.InvalidLength, context+": empty OBJECT IDENTIFIER")
	}
	// Each subsequent byte in a base-128 arc encoding must not start a
	// run with a leading 0x80 (non-minimal arc encoding); DER forbids
	// it the same way it forbids non-minimal lengths and integers.
	expectStart := true
	for _, b := range content {
		if expectStart && b == 0x80 {
			return OID{}, xerr.New(xerr.InvalidLength, context+": non-minimal OID arc encoding")
		}
		expectStart = b&0x80 == 0
	}
	if !expectStart {
		return OID{}, xerr.New(xerr.TruncatedInput, context+": OID arc truncated")
	}
	return OID{Raw: content}, nil
}

// Equal compares two OIDs by their raw wire encoding.
func (o OID) Equal(other OID) bool {
	return bytes.Equal(o.Raw, other.Raw)
}

// EqualBytes compares an OID's raw wire encoding against a literal.
func (o OID) EqualBytes(raw []byte) bool {
	return bytes.Equal(o.Raw, raw)
}

func (o OID) IsZero() bool { return o.Raw == nil }
