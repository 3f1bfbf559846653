// Package certificate decodes the top-level X.509 Certificate structure,
// stitching together internal/der, internal/name, internal/spki, and
// internal/ext.
package certificate

import (
	"time"

	"github.com/mynextid/x509view/internal/der"
	"github.com/mynextid/x509view/internal/ext"
	"github.com/mynextid/x509view/internal/name"
	"github.com/mynextid/x509view/internal/spki"
	"github.com/mynextid/x509view/internal/xerr"
)

// AlgorithmIdentifier is an OID plus its raw, still-encoded parameters
// (absent for parameterless algorithms like most signature OIDs).
type AlgorithmIdentifier struct {
	OID    der.OID
	Params []byte // nil if the parameters field was absent
}

// TBSCertificate is the decoded tbsCertificate.
type TBSCertificate struct {
	RawData []byte // complete tbsCertificate TLV, for signature verification

	Version            int // 0, 1, or 2 (v1, v2, v3); defaults to 0 when absent
	SerialNumber       der.Integer
	Signature          AlgorithmIdentifier
	Issuer             name.Name
	NotBefore, NotAfter time.Time
	Subject            name.Name
	PublicKey          spki.Info

	IssuerUniqueID  *der.BitString
	SubjectUniqueID *der.BitString

	Extensions ext.Extensions
}

// Certificate is the fully decoded outer Certificate SEQUENCE.
type Certificate struct {
	RawData []byte

	TBSCertificate     TBSCertificate
	SignatureAlgorithm AlgorithmIdentifier
	SignatureValue     der.BitString
}

// Parse decodes one DER-encoded Certificate from the front of s and
// requires no bytes remain afterward.
func Parse(s []byte) (Certificate, error) {
	const ctx = "certificate"

	hdr, content, rest, err := der.ExpectSequence(s, ctx)
	if err != nil {
		return Certificate{}, err
	}
	if err := der.RequireExhausted(rest, ctx); err != nil {
		return Certificate{}, err
	}

	tbs, afterTBS, err := parseTBSCertificate(content)
	if err != nil {
		return Certificate{}, err
	}

	sigAlg, afterSigAlg, err := parseAlgorithmIdentifier(afterTBS, ctx+".signatureAlgorithm")
	if err != nil {
		return Certificate{}, err
	}

	_, sigContent, afterSig, err := der.Expect(afterSigAlg, der.ClassUniversal, der.TagBitString, ctx+".signatureValue")
	if err != nil {
		return Certificate{}, err
	}
	sigValue, err := der.DecodeBitString(sigContent, ctx+".signatureValue")
	if err != nil {
		return Certificate{}, err
	}
	if err := der.RequireExhausted(afterSig, ctx); err != nil {
		return Certificate{}, err
	}

	return Certificate{
		RawData:            hdr.Raw(s),
		TBSCertificate:      tbs,
		SignatureAlgorithm: sigAlg,
		SignatureValue:     sigValue,
	}, nil
}

func parseTBSCertificate(s []byte) (TBSCertificate, []byte, error) {
	const ctx = "certificate.tbsCertificate"

	hdr, content, rest, err := der.ExpectSequence(s, ctx)
	if err != nil {
		return TBSCertificate{}, nil, err
	}
	tbs := TBSCertificate{RawData: hdr.Raw(s)}

	cur := content

	// version [0] EXPLICIT Version DEFAULT v1
	if class, tag, _, ok := der.PeekTag(cur); ok && class == der.ClassContextSpecific && tag == 0 {
		_, verContent, r, err := der.ReadHeader(cur)
		if err != nil {
			return TBSCertificate{}, nil, err
		}
		_, intContent, verRest, err := der.Expect(verContent, der.ClassUniversal, der.TagInteger, ctx+".version")
		if err != nil {
			return TBSCertificate{}, nil, err
		}
		if err := der.RequireExhausted(verRest, ctx+".version"); err != nil {
			return TBSCertificate{}, nil, err
		}
		v, err := der.DecodeInteger(intContent, ctx+".version")
		if err != nil {
			return TBSCertificate{}, nil, err
		}
		if !v.SmallOK || v.Small < 0 || v.Small > 2 {
			return TBSCertificate{}, nil, xerr.New(xerr.InvalidVersion, ctx+".version")
		}
		tbs.Version = int(v.Small)
		cur = r
	}

	_, serialContent, r, err := der.Expect(cur, der.ClassUniversal, der.TagInteger, ctx+".serialNumber")
	if err != nil {
		return TBSCertificate{}, nil, err
	}
	serial, err := der.DecodeInteger(serialContent, ctx+".serialNumber")
	if err != nil {
		return TBSCertificate{}, nil, err
	}
	tbs.SerialNumber = serial
	cur = r

	sigAlg, r, err := parseAlgorithmIdentifier(cur, ctx+".signature")
	if err != nil {
		return TBSCertificate{}, nil, err
	}
	tbs.Signature = sigAlg
	cur = r

	issuer, r, err := name.Parse(cur, ctx+".issuer")
	if err != nil {
		return TBSCertificate{}, nil, err
	}
	tbs.Issuer = issuer
	cur = r

	notBefore, notAfter, r, err := parseValidity(cur, ctx+".validity")
	if err != nil {
		return TBSCertificate{}, nil, err
	}
	tbs.NotBefore, tbs.NotAfter = notBefore, notAfter
	cur = r

	subject, r, err := name.Parse(cur, ctx+".subject")
	if err != nil {
		return TBSCertificate{}, nil, err
	}
	tbs.Subject = subject
	cur = r

	_, spkiContent, r, err := der.ExpectSequence(cur, ctx+".subjectPublicKeyInfo")
	if err != nil {
		return TBSCertificate{}, nil, err
	}
	pub, err := spki.Parse(spkiContent)
	if err != nil {
		return TBSCertificate{}, nil, err
	}
	tbs.PublicKey = pub
	cur = r

	// issuerUniqueID [1] IMPLICIT BIT STRING OPTIONAL (v2/v3 only)
	if class, tag, _, ok := der.PeekTag(cur); ok && class == der.ClassContextSpecific && tag == 1 {
		if tbs.Version < 1 {
			return TBSCertificate{}, nil, xerr.New(xerr.InvalidVersion, ctx+".issuerUniqueID")
		}
		_, bsContent, r, err := der.ReadHeader(cur)
		if err != nil {
			return TBSCertificate{}, nil, err
		}
		bs, err := der.DecodeBitString(bsContent, ctx+".issuerUniqueID")
		if err != nil {
			return TBSCertificate{}, nil, err
		}
		tbs.IssuerUniqueID = &bs
		cur = r
	}

	// subjectUniqueID [2] IMPLICIT BIT STRING OPTIONAL (v2/v3 only)
	if class, tag, _, ok := der.PeekTag(cur); ok && class == der.ClassContextSpecific && tag == 2 {
		if tbs.Version < 1 {
			return TBSCertificate{}, nil, xerr.New(xerr.InvalidVersion, ctx+".subjectUniqueID")
		}
		_, bsContent, r, err := der.ReadHeader(cur)
		if err != nil {
			return TBSCertificate{}, nil, err
		}
		bs, err := der.DecodeBitString(bsContent, ctx+".subjectUniqueID")
		if err != nil {
			return TBSCertificate{}, nil, err
		}
		tbs.SubjectUniqueID = &bs
		cur = r
	}

	// extensions [3] EXPLICIT SEQUENCE OF Extension OPTIONAL (v3 only)
	if class, tag, _, ok := der.PeekTag(cur); ok && class == der.ClassContextSpecific && tag == 3 {
		if tbs.Version != 2 {
			return TBSCertificate{}, nil, xerr.New(xerr.InvalidVersion, ctx+".extensions")
		}
		_, extOuter, r, err := der.ReadHeader(cur)
		if err != nil {
			return TBSCertificate{}, nil, err
		}
		_, extContent, extRest, err := der.ExpectSequence(extOuter, ctx+".extensions")
		if err != nil {
			return TBSCertificate{}, nil, err
		}
		if err := der.RequireExhausted(extRest, ctx+".extensions"); err != nil {
			return TBSCertificate{}, nil, err
		}
		if len(extContent) == 0 {
			return TBSCertificate{}, nil, xerr.New(xerr.EmptyExtensions, ctx+".extensions")
		}
		exts, err := ext.Parse(extContent)
		if err != nil {
			return TBSCertificate{}, nil, err
		}
		tbs.Extensions = exts
		cur = r
	}

	if err := der.RequireExhausted(cur, ctx); err != nil {
		return TBSCertificate{}, nil, err
	}

	return tbs, rest, nil
}

func parseAlgorithmIdentifier(s []byte, context string) (AlgorithmIdentifier, []byte, error) {
	_, content, rest, err := der.ExpectSequence(s, context)
	if err != nil {
		return AlgorithmIdentifier{}, nil, err
	}
	_, oidContent, afterOID, err := der.Expect(content, der.ClassUniversal, der.TagOID, context+".algorithm")
	if err != nil {
		return AlgorithmIdentifier{}, nil, err
	}
	alg, err := der.DecodeOID(oidContent, context+".algorithm")
	if err != nil {
		return AlgorithmIdentifier{}, nil, err
	}
	var params []byte
	if len(afterOID) > 0 {
		params = afterOID
	}
	return AlgorithmIdentifier{OID: alg, Params: params}, rest, nil
}

func parseValidity(s []byte, context string) (notBefore, notAfter time.Time, rest []byte, err error) {
	_, content, r, err := der.ExpectSequence(s, context)
	if err != nil {
		return time.Time{}, time.Time{}, nil, err
	}

	nb, r2, err := parseTime(content, context+".notBefore")
	if err != nil {
		return time.Time{}, time.Time{}, nil, err
	}
	na, r3, err := parseTime(r2, context+".notAfter")
	if err != nil {
		return time.Time{}, time.Time{}, nil, err
	}
	if err := der.RequireExhausted(r3, context); err != nil {
		return time.Time{}, time.Time{}, nil, err
	}
	return nb, na, r, nil
}

func parseTime(s []byte, context string) (time.Time, []byte, error) {
	hdr, content, rest, err := der.ReadHeader(s)
	if err != nil {
		return time.Time{}, nil, err
	}
	if hdr.Class != der.ClassUniversal || (hdr.Tag != der.TagUTCTime && hdr.Tag != der.TagGeneralizedTime) {
		return time.Time{}, nil, xerr.New(xerr.UnexpectedTag, context)
	}
	t, err := der.DecodeTime(hdr.Tag, content, context)
	if err != nil {
		return time.Time{}, nil, err
	}
	return t, rest, nil
}

// SignatureAlgorithmOID returns the OID the validator should cross-check
// against tbsCertificate.signature during the algorithm cross-check.
func (c Certificate) SignatureAlgorithmOID() der.OID {
	return c.SignatureAlgorithm.OID
}

// IsSelfSigned reports a byte-exact match between issuer and subject
// RawData, a necessary but not sufficient precondition for a certificate
// signing itself.
func (c Certificate) IsSelfSigned() bool {
	return string(c.TBSCertificate.Issuer.RawData) == string(c.TBSCertificate.Subject.RawData)
}
