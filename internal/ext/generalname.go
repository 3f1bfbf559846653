package ext

import (
	"github.com/mynextid/x509view/internal/der"
	"github.com/mynextid/x509view/internal/xerr"
)

// GeneralNameType is the GeneralName CHOICE tag.
type GeneralNameType int

const (
	GeneralNameOtherName GeneralNameType = iota
	GeneralNameRFC822
	GeneralNameDNS
	GeneralNameX400
	GeneralNameDirectory
	GeneralNameEDIParty
	GeneralNameURI
	GeneralNameIPAddress
	GeneralNameRegisteredID
)

// GeneralName is one decoded entry of a GeneralNames SEQUENCE. Value
// is a borrowed slice into the extension's OCTET STRING payload.
type GeneralName struct {
	Type  GeneralNameType
	Value []byte
}

// context-specific [n] tags of the GeneralName CHOICE, RFC 5280 §4.2.1.6.
const (
	tagOtherName     = 0
	tagRFC822        = 1
	tagDNS           = 2
	tagX400          = 3
	tagDirectoryName = 4
	tagEDIParty      = 5
	tagURI           = 6
	tagIPAddress     = 7
	tagRegisteredID  = 8
)

func generalNameType(tag int) (GeneralNameType, bool) {
	switch tag {
	case tagOtherName:
		return GeneralNameOtherName, true
	case tagRFC822:
		return GeneralNameRFC822, true
	case tagDNS:
		return GeneralNameDNS, true
	case tagX400:
		return GeneralNameX400, true
	case tagDirectoryName:
		return GeneralNameDirectory, true
	case tagEDIParty:
		return GeneralNameEDIParty, true
	case tagURI:
		return GeneralNameURI, true
	case tagIPAddress:
		return GeneralNameIPAddress, true
	case tagRegisteredID:
		return GeneralNameRegisteredID, true
	default:
		return 0, false
	}
}

// decodeGeneralNames walks a GeneralNames SEQUENCE OF GeneralName,
// invoking add for each entry; add returns an error to stop early
// (used to enforce the SAN cap).
func decodeGeneralNames(content []byte, context string, add func(GeneralName) error) error {
	cur := content
	for len(cur) > 0 {
		hdr, value, rest, err := der.ReadHeader(cur)
		if err != nil {
			return err
		}
		if hdr.Class != der.ClassContextSpecific {
			return xerr.New(xerr.UnexpectedTag, context+": GeneralName must be context-specific")
		}
		typ, ok := generalNameType(hdr.Tag)
		if !ok {
			return xerr.New(xerr.UnexpectedTag, context+": unrecognized GeneralName tag")
		}
		// directoryName is EXPLICIT (constructed, wraps a Name
		// SEQUENCE); the rest are IMPLICIT primitive/constructed per
		// their underlying ASN.1 type. Either way the content octets
		// are what callers need; directoryName's content already is
		// the inner Name's own TLV for byte-exact reuse.
		if err := add(GeneralName{Type: typ, Value: value}); err != nil {
			return err
		}
		cur = rest
	}
	return nil
}
