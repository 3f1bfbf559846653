package der

import "github.com/mynextid/x509view/internal/xerr"

// DecodeBoolean decodes the raw content octets of a BOOLEAN TLV.
// DER requires exactly one content octet: 0x00 for false, 0xff for
// true; any other value (including BER's "any non-zero is true") is
// rejected.
func DecodeBoolean(content []byte, context string) (bool, error) {
	if len(content) != 1 {
		return false, xerr.New(xerr.BadBooleanEncoding, context+": BOOLEAN must be exactly one octet")
	}
	switch content[0] {
	case 0x00:
		return false, nil
	case 0xff:
		return true, nil
	default:
		return false, xerr.New(xerr.BadBooleanEncoding, context+": BOOLEAN octet must be 0x00 or 0xff")
	}
}
