package der

import "github.com/mynextid/x509view/internal/xerr"

// StringValue is a borrowed view of a decoded ASN.1 string type plus
// the tag identifying which encoding it was. No transcoding is
// performed; callers that need UTF-8 do it themselves.
type StringValue struct {
	Tag   int
	Bytes []byte
}

// DecodeString validates and wraps the content octets of one of the
// recognized string types. PrintableString content is restricted to
// its defined alphabet; the others are passed through as-is (the
// decoder does not transcode T61/BMP/Universal string encodings).
func DecodeString(tag int, content []byte, context string) (StringValue, error) {
	switch tag {
	case TagPrintableString:
		for _, b := range content {
			if !isPrintableStringChar(b) {
				return StringValue{}, xerr.New(xerr.UnsupportedStringEncoding, context+": invalid PrintableString character")
			}
		}
	case TagUTF8String, TagIA5String, TagT61String, TagBMPString, TagUniversalString, TagNumericString, TagGeneralString:
		// No further validation: bytes are returned verbatim.
	default:
		return StringValue{}, xerr.New(xerr.UnsupportedStringEncoding, context+": unrecognized string tag")
	}
	return StringValue{Tag: tag, Bytes: content}, nil
}

func isPrintableStringChar(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9':
		return true
	}
	switch b {
	case ' ', '\'', '(', ')', '+', ',', '-', '.', '/', ':', '=', '?':
		return true
	}
	return false
}
