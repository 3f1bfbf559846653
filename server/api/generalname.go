package api

import "github.com/mynextid/x509view/internal/ext"

func generalNameTypeName(t ext.GeneralNameType) string {
	switch t {
	case ext.GeneralNameOtherName:
		return "otherName"
	case ext.GeneralNameRFC822:
		return "rfc822Name"
	case ext.GeneralNameDNS:
		return "dNSName"
	case ext.GeneralNameX400:
		return "x400Address"
	case ext.GeneralNameDirectory:
		return "directoryName"
	case ext.GeneralNameEDIParty:
		return "ediPartyName"
	case ext.GeneralNameURI:
		return "uniformResourceIdentifier"
	case ext.GeneralNameIPAddress:
		return "iPAddress"
	case ext.GeneralNameRegisteredID:
		return "registeredID"
	default:
		return "unknown"
	}
}
