// Package name decodes an X.509 Name (RDNSequence).
package name

import (
	"github.com/mynextid/x509view/internal/der"
	"github.com/mynextid/x509view/internal/oids"
)

// Attribute is one recognized RDN attribute value: a borrowed slice
// into the Name's rawData plus the string-tag it was encoded with.
type Attribute struct {
	Tag   int
	Value []byte
	set   bool
}

// Present reports whether this attribute occurred in the Name.
func (a Attribute) Present() bool { return a.set }

// Name is a parsed RDNSequence. RawData covers the complete Name
// SEQUENCE including its own tag+length header; every Attribute slice
// points inside RawData. First-occurrence wins: if an attribute type
// repeats across RDNs, only the first value is recorded.
type Name struct {
	RawData []byte

	CommonName          Attribute
	Surname             Attribute
	SerialNumber        Attribute
	Country             Attribute
	Locality            Attribute
	StateOrProvince     Attribute
	Organization        Attribute
	OrganizationalUnit  Attribute
	Title               Attribute
	GivenName           Attribute
	Initials            Attribute
	GenerationQualifier Attribute
	DNQualifier         Attribute
	Pseudonym           Attribute
	NameAttr            Attribute // the "name" (2.5.4.41) attribute
}

func (n *Name) slotFor(id oids.AttributeOID) *Attribute {
	switch id {
	case oids.AttrCommonName:
		return &n.CommonName
	case oids.AttrSurname:
		return &n.Surname
	case oids.AttrSerialNumber:
		return &n.SerialNumber
	case oids.AttrCountry:
		return &n.Country
	case oids.AttrLocality:
		return &n.Locality
	case oids.AttrStateOrProvince:
		return &n.StateOrProvince
	case oids.AttrOrganization:
		return &n.Organization
	case oids.AttrOrganizationalUnit:
		return &n.OrganizationalUnit
	case oids.AttrTitle:
		return &n.Title
	case oids.AttrName:
		return &n.NameAttr
	case oids.AttrGivenName:
		return &n.GivenName
	case oids.AttrInitials:
		return &n.Initials
	case oids.AttrGenerationQualifier:
		return &n.GenerationQualifier
	case oids.AttrDNQualifier:
		return &n.DNQualifier
	case oids.AttrPseudonym:
		return &n.Pseudonym
	default:
		return nil
	}
}

// Parse decodes a Name TLV (the RDNSequence SEQUENCE, tag+length
// inclusive) starting at the head of s, and returns the parsed Name
// plus the bytes remaining after it.
func Parse(s []byte, context string) (Name, []byte, error) {
	hdr, content, rest, err := der.ExpectSequence(s, context)
	if err != nil {
		return Name{}, nil, err
	}
	n := Name{RawData: hdr.Raw(s)}

	cur := content
	for len(cur) > 0 {
		_, rdnContent, rdnRest, err := der.ExpectSet(cur, context+".rdn")
		if err != nil {
			return Name{}, nil, err
		}
		if err := parseRDN(&n, rdnContent, context); err != nil {
			return Name{}, nil, err
		}
		cur = rdnRest
	}
	return n, rest, nil
}

func parseRDN(n *Name, content []byte, context string) error {
	cur := content
	for len(cur) > 0 {
		_, avaContent, avaRest, err := der.ExpectSequence(cur, context+".attributeTypeAndValue")
		if err != nil {
			return err
		}
		_, oidContent, valueTLV, err := der.Expect(avaContent, der.ClassUniversal, der.TagOID, context+".attributeType")
		if err != nil {
			return err
		}
		attrOID, err := der.DecodeOID(oidContent, context+".attributeType")
		if err != nil {
			return err
		}
		hdr, valContent, valRest, err := der.ReadHeader(valueTLV)
		if err != nil {
			return err
		}
		if err := der.RequireExhausted(valRest, context+".attributeValue"); err != nil {
			return err
		}

		id := oids.LookupAttribute(attrOID)
		if slot := n.slotFor(id); slot != nil && !slot.set {
			*slot = Attribute{Tag: hdr.Tag, Value: valContent, set: true}
		}
		cur = avaRest
	}
	return nil
}
