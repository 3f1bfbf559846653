package der

import (
	"math/big"

	"github.com/mynextid/x509view/internal/xerr"
)

// Integer is the decoded content of a DER INTEGER. Small is populated
// and SmallOK is true when the value fits in an int64; Raw always
// holds the minimally-encoded two's-complement content octets exactly
// as they appeared on the wire (sign byte included), which is what
// serial numbers and bignums need.
type Integer struct {
	Raw     []byte
	Small   int64
	SmallOK bool
}

// DecodeInteger validates and decodes the raw content octets of an
// INTEGER TLV (the bytes between the tag+length header and the next
// value). It rejects non-minimal two's-complement encodings: a
// leading 0x00 followed by a byte whose high bit is clear, or a
// leading 0xff followed by a byte whose high bit is set.
func DecodeInteger(content []byte, context string) (Integer, error) {
	if len(content) == 0 {
		return Integer{}, xerr.New(xerr.NonMinimalInteger, context+": empty INTEGER content")
	}
	if len(content) > 1 {
		if content[0] == 0x00 && content[1]&0x80 == 0 {
			return Integer{}, xerr.New(xerr.NonMinimalInteger, context+": redundant leading 0x00")
		}
		if content[0] == 0xff && content[1]&0x80 != 0 {
			return Integer{}, xerr.New(xerr.NonMinimalInteger, context+": redundant leading 0xff")
		}
	}

	out := Integer{Raw: content}
	if len(content) <= 8 {
		v := big.NewInt(0).SetBytes(content)
		if content[0]&0x80 != 0 {
			// Negative: content is two's complement.
			full := new(big.Int).Lsh(big.NewInt(1), uint(len(content)*8))
			v.Sub(v, full)
		}
		if v.IsInt64() {
			out.Small = v.Int64()
			out.SmallOK = true
		}
	}
	return out, nil
}

// Bignum constructs a big.Int from raw big-endian, unsigned content
// octets such as an RSA modulus/exponent or a DSA parameter; the
// decoder itself never needs arbitrary-precision arithmetic beyond
// this construction.
func Bignum(raw []byte) *big.Int {
	return new(big.Int).SetBytes(raw)
}
