package der

import "github.com/mynextid/x509view/internal/xerr"

// BitString is the decoded content of a DER BIT STRING: the unused
// trailing bit count (0-7) and the content bytes with those unused
// bits masked to zero. Masked() exposes the borrowed, right-padded
// byte view callers such as KeyUsage need.
type BitString struct {
	UnusedBits int
	raw        []byte
}

// DecodeBitString decodes the raw content octets of a BIT STRING TLV.
// The first content octet is the unused-bit count; it must be in
// [0, 7], and must be 0 when there are no further content octets.
func DecodeBitString(content []byte, context string) (BitString, error) {
	if len(content) == 0 {
		return BitString{}, xerr.New(xerr.BadBitStringPadding, context+": empty BIT STRING content")
	}
	unused := int(content[0])
	if unused > 7 {
		return BitString{}, xerr.New(xerr.BadBitStringPadding, context+": unused-bit count out of range")
	}
	body := content[1:]
	if len(body) == 0 {
		if unused != 0 {
			return BitString{}, xerr.New(xerr.BadBitStringPadding, context+": unused-bit count must be 0 for empty string")
		}
		return BitString{UnusedBits: 0, raw: body}, nil
	}
	if unused > 0 {
		mask := byte(1<<unused) - 1
		if body[len(body)-1]&mask != 0 {
			return BitString{}, xerr.New(xerr.BadBitStringPadding, context+": non-zero padding bits")
		}
	}
	return BitString{UnusedBits: unused, raw: body}, nil
}

// Masked returns the borrowed, already-zero-padded content bytes.
func (b BitString) Masked() []byte { return b.raw }

// BitLen returns the number of meaningful bits in the string.
func (b BitString) BitLen() int {
	return len(b.raw)*8 - b.UnusedBits
}

// Bit reports whether bit i is set, numbered from the most
// significant bit of the first content octet (bit 0), the X.509
// convention used by KeyUsage and NetscapeCertType.
func (b BitString) Bit(i int) bool {
	byteIdx := i / 8
	if byteIdx >= len(b.raw) {
		return false
	}
	bitIdx := uint(7 - i%8)
	return b.raw[byteIdx]&(1<<bitIdx) != 0
}
