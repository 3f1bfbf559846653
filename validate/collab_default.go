package validate

import (
	"crypto"
	"crypto/dsa"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"math/big"

	"github.com/mynextid/x509view/internal/der"
	"github.com/mynextid/x509view/internal/oids"
)

// DefaultHasher implements Hasher with the standard library's hash
// package.
type DefaultHasher struct{}

func (DefaultHasher) Hash(alg HashAlgorithm, data []byte) ([]byte, error) {
	switch alg {
	case HashSHA1:
		sum := sha1.Sum(data)
		return sum[:], nil
	case HashSHA256:
		sum := sha256.Sum256(data)
		return sum[:], nil
	case HashSHA384:
		sum := sha512.Sum384(data)
		return sum[:], nil
	case HashSHA512:
		sum := sha512.Sum512(data)
		return sum[:], nil
	default:
		return nil, errors.New("validate: unsupported hash algorithm")
	}
}

// DefaultVerifier implements Verifier against crypto/rsa, crypto/dsa
// and crypto/ecdsa.
type DefaultVerifier struct{}

func (DefaultVerifier) Verify(family AlgorithmFamily, key PublicKey, hash HashAlgorithm, digest, signature []byte) (bool, error) {
	switch family {
	case FamilyRSA:
		pub := &rsa.PublicKey{N: key.RSAModulus, E: int(key.RSAExponent.Int64())}
		ch, err := cryptoHash(hash)
		if err != nil {
			return false, err
		}
		if err := rsa.VerifyPKCS1v15(pub, ch, digest, signature); err != nil {
			return false, nil
		}
		return true, nil

	case FamilyDSA:
		pub := &dsa.PublicKey{
			Parameters: dsa.Parameters{P: key.DSAP, Q: key.DSAQ, G: key.DSAG},
			Y:          key.DSAY,
		}
		r, s, err := unmarshalDSASignature(signature)
		if err != nil {
			return false, err
		}
		return dsa.Verify(pub, digest, r, s), nil

	case FamilyECDSA:
		curve, err := ecCurve(key.ECCurveOID)
		if err != nil {
			return false, err
		}
		x, y := elliptic.Unmarshal(curve, key.ECPoint)
		if x == nil {
			return false, errors.New("validate: invalid EC point encoding")
		}
		pub := &ecdsa.PublicKey{Curve: curve, X: x, Y: y}
		r, s, err := unmarshalDSASignature(signature)
		if err != nil {
			return false, err
		}
		return ecdsa.Verify(pub, digest, r, s), nil

	default:
		return false, errors.New("validate: unsupported signature family")
	}
}

func cryptoHash(h HashAlgorithm) (crypto.Hash, error) {
	switch h {
	case HashSHA1:
		return crypto.SHA1, nil
	case HashSHA256:
		return crypto.SHA256, nil
	case HashSHA384:
		return crypto.SHA384, nil
	case HashSHA512:
		return crypto.SHA512, nil
	default:
		return 0, errors.New("validate: unsupported hash algorithm")
	}
}

func ecCurve(oidBytes []byte) (elliptic.Curve, error) {
	switch {
	case oids.CurveP256.EqualBytes(oidBytes):
		return elliptic.P256(), nil
	case oids.CurveP384.EqualBytes(oidBytes):
		return elliptic.P384(), nil
	case oids.CurveP521.EqualBytes(oidBytes):
		return elliptic.P521(), nil
	default:
		return nil, errors.New("validate: unrecognized named curve")
	}
}

// unmarshalDSASignature decodes the DER SEQUENCE{r INTEGER, s INTEGER}
// carried by dsa-with-* and ecdsa-with-* signature values, using the
// same TLV reader the certificate parser itself uses.
func unmarshalDSASignature(sig []byte) (r, s *big.Int, err error) {
	const ctx = "validate.signature"
	_, content, rest, err := der.ExpectSequence(sig, ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := der.RequireExhausted(rest, ctx); err != nil {
		return nil, nil, err
	}
	_, rContent, afterR, err := der.Expect(content, der.ClassUniversal, der.TagInteger, ctx+".r")
	if err != nil {
		return nil, nil, err
	}
	rInt, err := der.DecodeInteger(rContent, ctx+".r")
	if err != nil {
		return nil, nil, err
	}
	_, sContent, afterS, err := der.Expect(afterR, der.ClassUniversal, der.TagInteger, ctx+".s")
	if err != nil {
		return nil, nil, err
	}
	sInt, err := der.DecodeInteger(sContent, ctx+".s")
	if err != nil {
		return nil, nil, err
	}
	if err := der.RequireExhausted(afterS, ctx); err != nil {
		return nil, nil, err
	}
	return der.Bignum(rInt.Raw), der.Bignum(sInt.Raw), nil
}
