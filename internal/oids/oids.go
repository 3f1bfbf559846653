// Package oids is the static OID table the certificate parser
// dispatches on. It is deliberately not a general arc-decoding
// library: every OID the decoder needs to recognize is declared once
// as an encoded []byte and compared byte-wise, rather than parsed
// into its dotted decimal form.
package oids

import "github.com/mynextid/x509view/internal/der"

// encode builds the DER content octets (base-128, no tag/length) for
// a dotted OID given as its arc values. It exists purely to keep the
// table below readable as arc sequences instead of opaque hex.
func encode(arcs ...int) []byte {
	if len(arcs) < 2 {
		panic("oids.encode: need at least two arcs")
	}
	out := []byte{byte(arcs[0]*40 + arcs[1])}
	for _, arc := range arcs[2:] {
		out = append(out, encodeArc(arc)...)
	}
	return out
}

func encodeArc(v int) []byte {
	if v == 0 {
		return []byte{0}
	}
	var tmp []byte
	for v > 0 {
		tmp = append([]byte{byte(v & 0x7f)}, tmp...)
		v >>= 7
	}
	for i := 0; i < len(tmp)-1; i++ {
		tmp[i] |= 0x80
	}
	return tmp
}

func oid(arcs ...int) der.OID { return der.OID{Raw: encode(arcs...)} }

// Attribute OIDs under joint-iso-itu-t(2).ds(5).attributeType(4).
var (
	CommonName         = oid(2, 5, 4, 3)
	Surname            = oid(2, 5, 4, 4)
	SerialNumber       = oid(2, 5, 4, 5)
	Country            = oid(2, 5, 4, 6)
	Locality           = oid(2, 5, 4, 7)
	StateOrProvince    = oid(2, 5, 4, 8)
	Organization       = oid(2, 5, 4, 10)
	OrganizationalUnit = oid(2, 5, 4, 11)
	Title              = oid(2, 5, 4, 12)
	Name               = oid(2, 5, 4, 41)
	GivenName          = oid(2, 5, 4, 42)
	Initials           = oid(2, 5, 4, 43)
	GenerationQualifier = oid(2, 5, 4, 44)
	DNQualifier        = oid(2, 5, 4, 46)
	Pseudonym          = oid(2, 5, 4, 65)
)

// AttributeOID identifies one recognized RDN attribute type.
type AttributeOID int

const (
	AttrUnknown AttributeOID = iota
	AttrCommonName
	AttrSurname
	AttrSerialNumber
	AttrCountry
	AttrLocality
	AttrStateOrProvince
	AttrOrganization
	AttrOrganizationalUnit
	AttrTitle
	AttrName
	AttrGivenName
	AttrInitials
	AttrGenerationQualifier
	AttrDNQualifier
	AttrPseudonym
)

var attributeTable = []struct {
	oid der.OID
	id  AttributeOID
}{
	{CommonName, AttrCommonName},
	{Surname, AttrSurname},
	{SerialNumber, AttrSerialNumber},
	{Country, AttrCountry},
	{Locality, AttrLocality},
	{StateOrProvince, AttrStateOrProvince},
	{Organization, AttrOrganization},
	{OrganizationalUnit, AttrOrganizationalUnit},
	{Title, AttrTitle},
	{Name, AttrName},
	{GivenName, AttrGivenName},
	{Initials, AttrInitials},
	{GenerationQualifier, AttrGenerationQualifier},
	{DNQualifier, AttrDNQualifier},
	{Pseudonym, AttrPseudonym},
}

// LookupAttribute returns the recognized attribute id for an OID, or
// AttrUnknown if it isn't one of the table above.
func LookupAttribute(o der.OID) AttributeOID {
	for _, e := range attributeTable {
		if e.oid.Equal(o) {
			return e.id
		}
	}
	return AttrUnknown
}

// Extension OIDs under joint-iso-itu-t(2).ds(5).certExt(29).
var (
	SubjectDirectoryAttributes = oid(2, 5, 29, 9)
	SubjectKeyIdentifier       = oid(2, 5, 29, 14)
	KeyUsage                   = oid(2, 5, 29, 15)
	SubjectAltName             = oid(2, 5, 29, 17)
	IssuerAltName              = oid(2, 5, 29, 18)
	BasicConstraints           = oid(2, 5, 29, 19)
	NameConstraints            = oid(2, 5, 29, 30)
	CRLDistributionPoints      = oid(2, 5, 29, 31)
	CertificatePolicies        = oid(2, 5, 29, 32)
	PolicyMappings             = oid(2, 5, 29, 33)
	AuthorityKeyIdentifier     = oid(2, 5, 29, 35)
	PolicyConstraints          = oid(2, 5, 29, 36)
	ExtendedKeyUsage           = oid(2, 5, 29, 37)
	FreshestCRL                = oid(2, 5, 29, 46)
	InhibitAnyPolicy           = oid(2, 5, 29, 54)

	NetscapeCertType = oid(2, 16, 840, 1, 113730, 1, 1)
)

// ExtKeyUsage purpose OIDs under id-kp (1.3.6.1.5.5.7.3).
var (
	EKUServerAuth      = oid(1, 3, 6, 1, 5, 5, 7, 3, 1)
	EKUClientAuth      = oid(1, 3, 6, 1, 5, 5, 7, 3, 2)
	EKUCodeSigning     = oid(1, 3, 6, 1, 5, 5, 7, 3, 3)
	EKUEmailProtection = oid(1, 3, 6, 1, 5, 5, 7, 3, 4)
	EKUTimeStamping    = oid(1, 3, 6, 1, 5, 5, 7, 3, 8)
	EKUOCSPSigning     = oid(1, 3, 6, 1, 5, 5, 7, 3, 9)
	EKUAnyExtendedKeyUsage = oid(2, 5, 29, 37, 0)
)

// SPKI algorithm OIDs.
var (
	RSAEncryption = oid(1, 2, 840, 113549, 1, 1, 1)
	DSA           = oid(1, 2, 840, 10040, 4, 1)
	ECPublicKey   = oid(1, 2, 840, 10045, 2, 1)
)

// Signature algorithm OIDs (signatureAlgorithm / tbsCertificate.signature).
var (
	SHA1WithRSA   = oid(1, 2, 840, 113549, 1, 1, 5)
	SHA256WithRSA = oid(1, 2, 840, 113549, 1, 1, 11)
	SHA384WithRSA = oid(1, 2, 840, 113549, 1, 1, 12)
	SHA512WithRSA = oid(1, 2, 840, 113549, 1, 1, 13)

	DSAWithSHA1   = oid(1, 2, 840, 10040, 4, 3)
	DSAWithSHA256 = oid(2, 16, 840, 1, 101, 3, 4, 3, 2)

	ECDSAWithSHA1   = oid(1, 2, 840, 10045, 4, 1)
	ECDSAWithSHA256 = oid(1, 2, 840, 10045, 4, 3, 2)
	ECDSAWithSHA384 = oid(1, 2, 840, 10045, 4, 3, 3)
	ECDSAWithSHA512 = oid(1, 2, 840, 10045, 4, 3, 4)
)

// Named curve OIDs used by ecPublicKey AlgorithmIdentifier parameters.
var (
	CurveP256 = oid(1, 2, 840, 10045, 3, 1, 7)
	CurveP384 = oid(1, 3, 132, 0, 34)
	CurveP521 = oid(1, 3, 132, 0, 35)
)

// Hash algorithm OIDs. No code in this module dispatches on them; the
// validator derives its digest from the signature algorithm OID.
var (
	SHA1   = oid(1, 3, 14, 3, 2, 26)
	SHA256 = oid(2, 16, 840, 1, 101, 3, 4, 2, 1)
	SHA384 = oid(2, 16, 840, 1, 101, 3, 4, 2, 2)
	SHA512 = oid(2, 16, 840, 1, 101, 3, 4, 2, 3)
)
