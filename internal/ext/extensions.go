// Package ext implements the certificate extension dispatcher: for
// each Extension{oid, critical, value} it identifies the OID against
// the known table, decodes recognized extensions, and applies the
// criticality policy to everything else.
package ext

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/mynextid/x509view/internal/der"
	"github.com/mynextid/x509view/internal/oids"
	"github.com/mynextid/x509view/internal/xerr"
)

// SANCap bounds the number of SubjectAltName/IssuerAltName entries
// the fixed-size output storage holds; additional entries are a
// TooManySubjectAltNames error rather than a dynamic allocation.
const SANCap = 4

// BasicConstraints is the decoded basicConstraints extension.
type BasicConstraints struct {
	Present    bool
	CA         bool
	PathLen    int
	PathLenSet bool
}

// KeyUsage wraps the 9-bit KeyUsage BIT STRING in a bitset.BitSet so
// callers test named bits instead of hand-rolling byte masks.
type KeyUsage struct {
	Present bool
	bits    *bitset.BitSet
}

// KeyUsage bit positions per RFC 5280 §4.2.1.3.
const (
	KeyUsageDigitalSignature = iota
	KeyUsageNonRepudiation
	KeyUsageKeyEncipherment
	KeyUsageDataEncipherment
	KeyUsageKeyAgreement
	KeyUsageKeyCertSign
	KeyUsageCRLSign
	KeyUsageEncipherOnly
	KeyUsageDecipherOnly
)

func (k KeyUsage) Has(bit uint) bool {
	if k.bits == nil {
		return false
	}
	return k.bits.Test(bit)
}

// ExtendedKeyUsage records which well-known EKU purposes are present,
// plus any unrecognized purpose OIDs verbatim.
type ExtendedKeyUsage struct {
	Present         bool
	ServerAuth      bool
	ClientAuth      bool
	CodeSigning     bool
	EmailProtection bool
	TimeStamping    bool
	OCSPSigning     bool
	AnyExtendedKeyUsage bool
	Other           []der.OID
}

// NetscapeCertType wraps the legacy 8-bit NetscapeCertType bitmap.
type NetscapeCertType struct {
	Present bool
	bits    *bitset.BitSet
}

const (
	NetscapeCertTypeSSLClient = iota
	NetscapeCertTypeSSLServer
	NetscapeCertTypeSMIME
	NetscapeCertTypeObjectSigning
	NetscapeCertTypeReserved
	NetscapeCertTypeSSLCA
	NetscapeCertTypeSMIMECA
	NetscapeCertTypeObjectSigningCA
)

func (n NetscapeCertType) Has(bit uint) bool {
	if n.bits == nil {
		return false
	}
	return n.bits.Test(bit)
}

// AuthorityKeyIdentifier is the decoded authorityKeyIdentifier
// extension. RFC 5280 §4.2.1.1 names all three fields; all three are
// exposed rather than just keyIdentifier.
type AuthorityKeyIdentifier struct {
	Present                    bool
	KeyIdentifier              []byte
	AuthorityCertIssuer        []GeneralName
	AuthorityCertSerialNumber  []byte
}

// RawExtension is an extension the dispatcher recognizes by OID (so a
// critical bit never trips UnknownCriticalExtension) but decodes only
// to its envelope: OID, criticality and raw OCTET STRING payload. Used
// for the policy-constraint family of extensions.
type RawExtension struct {
	OID      der.OID
	Critical bool
	Value    []byte
}

// Extensions is the fully decoded extension block of a certificate.
type Extensions struct {
	BasicConstraints       BasicConstraints
	KeyUsage               KeyUsage
	ExtendedKeyUsage       ExtendedKeyUsage
	SubjectAltNames        []GeneralName // len <= SANCap
	IssuerAltNames         []GeneralName // len <= SANCap
	SubjectKeyIdentifier   []byte
	AuthorityKeyIdentifier AuthorityKeyIdentifier
	NetscapeCertType       NetscapeCertType

	// Identified but not structurally decoded: envelope only.
	CRLDistributionPoints *RawExtension
	CertificatePolicies   *RawExtension
	PolicyMappings        *RawExtension
	PolicyConstraints     *RawExtension
	FreshestCRL           *RawExtension
	InhibitAnyPolicy      *RawExtension
	SubjectDirectoryAttrs *RawExtension
}

// Parse decodes the content of a `[3] EXPLICIT SEQUENCE OF Extension`
// (the content already unwrapped past both the [3] and the inner
// SEQUENCE tag) into an Extensions value. An OID repeated across
// extensions is DuplicateExtension; an unrecognized OID marked
// critical is UnknownCriticalExtension.
func Parse(content []byte) (Extensions, error) {
	const ctx = "extensions"

	var out Extensions
	seen := make(map[string]bool)

	cur := content
	for len(cur) > 0 {
		_, extContent, rest, err := der.ExpectSequence(cur, ctx+".Extension")
		if err != nil {
			return Extensions{}, err
		}

		_, oidContent, afterOID, err := der.Expect(extContent, der.ClassUniversal, der.TagOID, ctx+".extnID")
		if err != nil {
			return Extensions{}, err
		}
		extOID, err := der.DecodeOID(oidContent, ctx+".extnID")
		if err != nil {
			return Extensions{}, err
		}

		critical := false
		afterCrit := afterOID
		if class, tag, _, ok := der.PeekTag(afterOID); ok && class == der.ClassUniversal && tag == der.TagBoolean {
			_, critContent, r, err := der.Expect(afterOID, der.ClassUniversal, der.TagBoolean, ctx+".critical")
			if err != nil {
				return Extensions{}, err
			}
			critical, err = der.DecodeBoolean(critContent, ctx+".critical")
			if err != nil {
				return Extensions{}, err
			}
			afterCrit = r
		}

		_, valueContent, afterValue, err := der.Expect(afterCrit, der.ClassUniversal, der.TagOctetString, ctx+".extnValue")
		if err != nil {
			return Extensions{}, err
		}
		if err := der.RequireExhausted(afterValue, ctx+".Extension"); err != nil {
			return Extensions{}, err
		}

		key := string(extOID.Raw)
		if seen[key] {
			return Extensions{}, xerr.New(xerr.DuplicateExtension, ctx)
		}
		seen[key] = true

		if err := dispatch(&out, extOID, critical, valueContent); err != nil {
			return Extensions{}, err
		}

		cur = rest
	}
	return out, nil
}

func dispatch(out *Extensions, extOID der.OID, critical bool, value []byte) error {
	switch {
	case extOID.Equal(oids.BasicConstraints):
		bc, err := parseBasicConstraints(value)
		if err != nil {
			return err
		}
		out.BasicConstraints = bc

	case extOID.Equal(oids.KeyUsage):
		ku, err := parseKeyUsage(value)
		if err != nil {
			return err
		}
		out.KeyUsage = ku

	case extOID.Equal(oids.ExtendedKeyUsage):
		eku, err := parseEKU(value)
		if err != nil {
			return err
		}
		out.ExtendedKeyUsage = eku

	case extOID.Equal(oids.SubjectAltName):
		sans, err := parseGeneralNames(value, "extensions.subjectAltName")
		if err != nil {
			return err
		}
		out.SubjectAltNames = sans

	case extOID.Equal(oids.IssuerAltName):
		ians, err := parseGeneralNames(value, "extensions.issuerAltName")
		if err != nil {
			return err
		}
		out.IssuerAltNames = ians

	case extOID.Equal(oids.SubjectKeyIdentifier):
		ski, err := parseOctetStringBody(value, "extensions.subjectKeyIdentifier")
		if err != nil {
			return err
		}
		out.SubjectKeyIdentifier = ski

	case extOID.Equal(oids.AuthorityKeyIdentifier):
		aki, err := parseAKI(value)
		if err != nil {
			return err
		}
		out.AuthorityKeyIdentifier = aki

	case extOID.Equal(oids.NetscapeCertType):
		nct, err := parseNetscapeCertType(value)
		if err != nil {
			return err
		}
		out.NetscapeCertType = nct

	case extOID.Equal(oids.CRLDistributionPoints):
		out.CRLDistributionPoints = &RawExtension{OID: extOID, Critical: critical, Value: value}
	case extOID.Equal(oids.CertificatePolicies):
		out.CertificatePolicies = &RawExtension{OID: extOID, Critical: critical, Value: value}
	case extOID.Equal(oids.PolicyMappings):
		out.PolicyMappings = &RawExtension{OID: extOID, Critical: critical, Value: value}
	case extOID.Equal(oids.PolicyConstraints):
		out.PolicyConstraints = &RawExtension{OID: extOID, Critical: critical, Value: value}
	case extOID.Equal(oids.FreshestCRL):
		out.FreshestCRL = &RawExtension{OID: extOID, Critical: critical, Value: value}
	case extOID.Equal(oids.InhibitAnyPolicy):
		out.InhibitAnyPolicy = &RawExtension{OID: extOID, Critical: critical, Value: value}
	case extOID.Equal(oids.SubjectDirectoryAttributes):
		out.SubjectDirectoryAttrs = &RawExtension{OID: extOID, Critical: critical, Value: value}

	default:
		if critical {
			return xerr.New(xerr.UnknownCriticalExtension, "extensions")
		}
		// Unknown, non-critical: ignored.
	}
	return nil
}

func parseOctetStringBody(value []byte, context string) ([]byte, error) {
	// extnValue already is the content of the outer OCTET STRING; the
	// known extensions whose payload is itself a bare OCTET STRING
	// (subjectKeyIdentifier) nest one more OCTET STRING TLV inside it.
	_, content, rest, err := der.Expect(value, der.ClassUniversal, der.TagOctetString, context)
	if err != nil {
		return nil, err
	}
	if err := der.RequireExhausted(rest, context); err != nil {
		return nil, err
	}
	return content, nil
}

func parseBasicConstraints(value []byte) (BasicConstraints, error) {
	const ctx = "extensions.basicConstraints"
	_, content, rest, err := der.ExpectSequence(value, ctx)
	if err != nil {
		return BasicConstraints{}, err
	}
	if err := der.RequireExhausted(rest, ctx); err != nil {
		return BasicConstraints{}, err
	}

	out := BasicConstraints{Present: true}
	cur := content
	if class, tag, _, ok := der.PeekTag(cur); ok && class == der.ClassUniversal && tag == der.TagBoolean {
		_, caContent, r, err := der.Expect(cur, der.ClassUniversal, der.TagBoolean, ctx+".cA")
		if err != nil {
			return BasicConstraints{}, err
		}
		ca, err := der.DecodeBoolean(caContent, ctx+".cA")
		if err != nil {
			return BasicConstraints{}, err
		}
		out.CA = ca
		cur = r
	}
	if class, tag, _, ok := der.PeekTag(cur); ok && class == der.ClassUniversal && tag == der.TagInteger {
		_, plContent, r, err := der.Expect(cur, der.ClassUniversal, der.TagInteger, ctx+".pathLenConstraint")
		if err != nil {
			return BasicConstraints{}, err
		}
		pl, err := der.DecodeInteger(plContent, ctx+".pathLenConstraint")
		if err != nil {
			return BasicConstraints{}, err
		}
		if !pl.SmallOK {
			return BasicConstraints{}, xerr.New(xerr.InvalidVersion, ctx+".pathLenConstraint: out of range")
		}
		out.PathLen = int(pl.Small)
		out.PathLenSet = true
		cur = r
	}
	if err := der.RequireExhausted(cur, ctx); err != nil {
		return BasicConstraints{}, err
	}
	return out, nil
}

func parseKeyUsage(value []byte) (KeyUsage, error) {
	const ctx = "extensions.keyUsage"
	_, content, rest, err := der.Expect(value, der.ClassUniversal, der.TagBitString, ctx)
	if err != nil {
		return KeyUsage{}, err
	}
	if err := der.RequireExhausted(rest, ctx); err != nil {
		return KeyUsage{}, err
	}
	bs, err := der.DecodeBitString(content, ctx)
	if err != nil {
		return KeyUsage{}, err
	}
	bits := bitset.New(9)
	for i := uint(0); i < 9; i++ {
		if bs.Bit(int(i)) {
			bits.Set(i)
		}
	}
	return KeyUsage{Present: true, bits: bits}, nil
}

func parseNetscapeCertType(value []byte) (NetscapeCertType, error) {
	const ctx = "extensions.netscapeCertType"
	_, content, rest, err := der.Expect(value, der.ClassUniversal, der.TagBitString, ctx)
	if err != nil {
		return NetscapeCertType{}, err
	}
	if err := der.RequireExhausted(rest, ctx); err != nil {
		return NetscapeCertType{}, err
	}
	bs, err := der.DecodeBitString(content, ctx)
	if err != nil {
		return NetscapeCertType{}, err
	}
	bits := bitset.New(8)
	for i := uint(0); i < 8; i++ {
		if bs.Bit(int(i)) {
			bits.Set(i)
		}
	}
	return NetscapeCertType{Present: true, bits: bits}, nil
}

func parseEKU(value []byte) (ExtendedKeyUsage, error) {
	const ctx = "extensions.extKeyUsage"
	_, content, rest, err := der.ExpectSequence(value, ctx)
	if err != nil {
		return ExtendedKeyUsage{}, err
	}
	if err := der.RequireExhausted(rest, ctx); err != nil {
		return ExtendedKeyUsage{}, err
	}

	out := ExtendedKeyUsage{Present: true}
	cur := content
	for len(cur) > 0 {
		_, oidContent, r, err := der.Expect(cur, der.ClassUniversal, der.TagOID, ctx)
		if err != nil {
			return ExtendedKeyUsage{}, err
		}
		purpose, err := der.DecodeOID(oidContent, ctx)
		if err != nil {
			return ExtendedKeyUsage{}, err
		}
		switch {
		case purpose.Equal(oids.EKUServerAuth):
			out.ServerAuth = true
		case purpose.Equal(oids.EKUClientAuth):
			out.ClientAuth = true
		case purpose.Equal(oids.EKUCodeSigning):
			out.CodeSigning = true
		case purpose.Equal(oids.EKUEmailProtection):
			out.EmailProtection = true
		case purpose.Equal(oids.EKUTimeStamping):
			out.TimeStamping = true
		case purpose.Equal(oids.EKUOCSPSigning):
			out.OCSPSigning = true
		case purpose.Equal(oids.EKUAnyExtendedKeyUsage):
			out.AnyExtendedKeyUsage = true
		default:
			out.Other = append(out.Other, purpose)
		}
		cur = r
	}
	return out, nil
}

func parseGeneralNames(value []byte, context string) ([]GeneralName, error) {
	_, content, rest, err := der.ExpectSequence(value, context)
	if err != nil {
		return nil, err
	}
	if err := der.RequireExhausted(rest, context); err != nil {
		return nil, err
	}

	var names []GeneralName
	err = decodeGeneralNames(content, context, func(gn GeneralName) error {
		if len(names) >= SANCap {
			return xerr.New(xerr.TooManySubjectAltNames, context)
		}
		names = append(names, gn)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

func parseAKI(value []byte) (AuthorityKeyIdentifier, error) {
	const ctx = "extensions.authorityKeyIdentifier"
	_, content, rest, err := der.ExpectSequence(value, ctx)
	if err != nil {
		return AuthorityKeyIdentifier{}, err
	}
	if err := der.RequireExhausted(rest, ctx); err != nil {
		return AuthorityKeyIdentifier{}, err
	}

	out := AuthorityKeyIdentifier{Present: true}
	cur := content

	if class, tag, _, ok := der.PeekTag(cur); ok && class == der.ClassContextSpecific && tag == 0 {
		hdr, kid, r, err := der.ReadHeader(cur)
		if err != nil {
			return AuthorityKeyIdentifier{}, err
		}
		_ = hdr
		out.KeyIdentifier = kid
		cur = r
	}
	if class, tag, _, ok := der.PeekTag(cur); ok && class == der.ClassContextSpecific && tag == 1 {
		hdr, gnContent, r, err := der.ReadHeader(cur)
		if err != nil {
			return AuthorityKeyIdentifier{}, err
		}
		_ = hdr
		var names []GeneralName
		if err := decodeGeneralNames(gnContent, ctx+".authorityCertIssuer", func(gn GeneralName) error {
			names = append(names, gn)
			return nil
		}); err != nil {
			return AuthorityKeyIdentifier{}, err
		}
		out.AuthorityCertIssuer = names
		cur = r
	}
	if class, tag, _, ok := der.PeekTag(cur); ok && class == der.ClassContextSpecific && tag == 2 {
		_, serial, r, err := der.ReadHeader(cur)
		if err != nil {
			return AuthorityKeyIdentifier{}, err
		}
		out.AuthorityCertSerialNumber = serial
		cur = r
	}
	if err := der.RequireExhausted(cur, ctx); err != nil {
		return AuthorityKeyIdentifier{}, err
	}
	return out, nil
}
