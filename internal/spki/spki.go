// Package spki decodes a Certificate's SubjectPublicKeyInfo, dispatching
// on the algorithm OID.
package spki

import (
	"math/big"

	"github.com/mynextid/x509view/internal/der"
	"github.com/mynextid/x509view/internal/oids"
	"github.com/mynextid/x509view/internal/xerr"
)

// Algorithm identifies which public-key family an SPKI holds.
type Algorithm int

const (
	AlgorithmUnknown Algorithm = iota
	AlgorithmRSA
	AlgorithmDSA
	AlgorithmEC
)

// RSAPublicKey is the raw, still-encoded modulus and exponent.
type RSAPublicKey struct {
	Modulus  []byte // raw INTEGER content, minimally encoded
	Exponent []byte
}

// DSAPublicKey is the raw parameter set plus the public value Y.
type DSAPublicKey struct {
	P, Q, G, Y []byte
}

// ECPublicKey is the named curve plus the raw point octets (the first
// byte is 0x04 for uncompressed, 0x02/0x03 for compressed).
type ECPublicKey struct {
	Curve der.OID
	Point []byte
}

// Info is the decoded SubjectPublicKeyInfo. Exactly one of RSA, DSA,
// EC is populated, selected by Algorithm.
type Info struct {
	Algorithm Algorithm
	AlgOID    der.OID
	RSA       RSAPublicKey
	DSA       DSAPublicKey
	EC        ECPublicKey
}

// Parse decodes the content of a SubjectPublicKeyInfo SEQUENCE
// (algorithm AlgorithmIdentifier, subjectPublicKey BIT STRING).
func Parse(content []byte) (Info, error) {
	const ctx = "spki"

	_, algIDContent, rest, err := der.ExpectSequence(content, ctx+".algorithm")
	if err != nil {
		return Info{}, err
	}
	_, algOIDContent, algParams, err := der.Expect(algIDContent, der.ClassUniversal, der.TagOID, ctx+".algorithm.oid")
	if err != nil {
		return Info{}, err
	}
	algOID, err := der.DecodeOID(algOIDContent, ctx+".algorithm.oid")
	if err != nil {
		return Info{}, err
	}

	_, bsContent, rest2, err := der.Expect(rest, der.ClassUniversal, der.TagBitString, ctx+".subjectPublicKey")
	if err != nil {
		return Info{}, err
	}
	if err := der.RequireExhausted(rest2, ctx); err != nil {
		return Info{}, err
	}
	bs, err := der.DecodeBitString(bsContent, ctx+".subjectPublicKey")
	if err != nil {
		return Info{}, err
	}
	keyBits := bs.Masked()

	switch {
	case algOID.Equal(oids.RSAEncryption):
		n, e, err := parseRSAKeyBits(keyBits)
		if err != nil {
			return Info{}, err
		}
		return Info{Algorithm: AlgorithmRSA, AlgOID: algOID, RSA: RSAPublicKey{Modulus: n, Exponent: e}}, nil

	case algOID.Equal(oids.DSA):
		p, q, g, err := parseDSAParams(algParams)
		if err != nil {
			return Info{}, err
		}
		y, err := parseDSAKeyBits(keyBits)
		if err != nil {
			return Info{}, err
		}
		return Info{Algorithm: AlgorithmDSA, AlgOID: algOID, DSA: DSAPublicKey{P: p, Q: q, G: g, Y: y}}, nil

	case algOID.Equal(oids.ECPublicKey):
		curve, err := parseECParams(algParams)
		if err != nil {
			return Info{}, err
		}
		if len(keyBits) == 0 {
			return Info{}, xerr.New(xerr.InvalidLength, ctx+".ec: empty point")
		}
		switch keyBits[0] {
		case 0x04, 0x02, 0x03:
		default:
			return Info{}, xerr.New(xerr.InvalidLength, ctx+".ec: unrecognized point format octet")
		}
		return Info{Algorithm: AlgorithmEC, AlgOID: algOID, EC: ECPublicKey{Curve: curve, Point: keyBits}}, nil

	default:
		return Info{}, xerr.New(xerr.UnsupportedAlgorithm, ctx+".algorithm")
	}
}

func parseRSAKeyBits(keyBits []byte) (n, e []byte, err error) {
	const ctx = "spki.rsa"
	_, seqContent, rest, err := der.ExpectSequence(keyBits, ctx)
	if err != nil {
		return nil, nil, err
	}
	_, nContent, rest2, err := der.Expect(seqContent, der.ClassUniversal, der.TagInteger, ctx+".n")
	if err != nil {
		return nil, nil, err
	}
	nInt, err := der.DecodeInteger(nContent, ctx+".n")
	if err != nil {
		return nil, nil, err
	}
	_, eContent, rest3, err := der.Expect(rest2, der.ClassUniversal, der.TagInteger, ctx+".e")
	if err != nil {
		return nil, nil, err
	}
	eInt, err := der.DecodeInteger(eContent, ctx+".e")
	if err != nil {
		return nil, nil, err
	}
	if err := der.RequireExhausted(rest3, ctx); err != nil {
		return nil, nil, err
	}
	if err := der.RequireExhausted(rest, ctx); err != nil {
		return nil, nil, err
	}
	return nInt.Raw, eInt.Raw, nil
}

func parseDSAParams(params []byte) (p, q, g []byte, err error) {
	const ctx = "spki.dsa.params"
	_, content, rest, err := der.ExpectSequence(params, ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	if err := der.RequireExhausted(rest, ctx); err != nil {
		return nil, nil, nil, err
	}
	var ints [3]der.Integer
	cur := content
	for i := range ints {
		_, c, r, err := der.Expect(cur, der.ClassUniversal, der.TagInteger, ctx)
		if err != nil {
			return nil, nil, nil, err
		}
		v, err := der.DecodeInteger(c, ctx)
		if err != nil {
			return nil, nil, nil, err
		}
		ints[i] = v
		cur = r
	}
	if err := der.RequireExhausted(cur, ctx); err != nil {
		return nil, nil, nil, err
	}
	return ints[0].Raw, ints[1].Raw, ints[2].Raw, nil
}

func parseDSAKeyBits(keyBits []byte) ([]byte, error) {
	const ctx = "spki.dsa.y"
	_, content, rest, err := der.Expect(keyBits, der.ClassUniversal, der.TagInteger, ctx)
	if err != nil {
		return nil, err
	}
	if err := der.RequireExhausted(rest, ctx); err != nil {
		return nil, err
	}
	y, err := der.DecodeInteger(content, ctx)
	if err != nil {
		return nil, err
	}
	return y.Raw, nil
}

func parseECParams(params []byte) (der.OID, error) {
	const ctx = "spki.ec.params"
	_, content, rest, err := der.Expect(params, der.ClassUniversal, der.TagOID, ctx)
	if err != nil {
		return der.OID{}, err
	}
	if err := der.RequireExhausted(rest, ctx); err != nil {
		return der.OID{}, err
	}
	return der.DecodeOID(content, ctx)
}

// ReadRSAPublicKey exposes the RSA public key as bignums for the
// external crypto primitives.
func ReadRSAPublicKey(info Info) (n, e *big.Int, err error) {
	if info.Algorithm != AlgorithmRSA {
		return nil, nil, xerr.New(xerr.UnsupportedAlgorithm, "spki: not an RSA key")
	}
	return der.Bignum(info.RSA.Modulus), der.Bignum(info.RSA.Exponent), nil
}

// ReadDSAPublicKey exposes the DSA public key as bignums.
func ReadDSAPublicKey(info Info) (p, q, g, y *big.Int, err error) {
	if info.Algorithm != AlgorithmDSA {
		return nil, nil, nil, nil, xerr.New(xerr.UnsupportedAlgorithm, "spki: not a DSA key")
	}
	d := info.DSA
	return der.Bignum(d.P), der.Bignum(d.Q), der.Bignum(d.G), der.Bignum(d.Y), nil
}
