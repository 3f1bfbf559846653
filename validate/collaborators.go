// Package validate recomputes and checks an issuer's signature over a
// certificate's tbsCertificate region. The cryptographic primitives
// themselves are external collaborators, consumed through the Hasher
// and Verifier interfaces below so the core stays free of a hard
// dependency on any one crypto stack.
package validate

import (
	"math/big"
	"time"
)

// AlgorithmFamily names a signature scheme family, independent of its
// paired hash.
type AlgorithmFamily int

const (
	FamilyUnknown AlgorithmFamily = iota
	FamilyRSA
	FamilyDSA
	FamilyECDSA
)

// HashAlgorithm names the digest algorithm selected alongside a family.
type HashAlgorithm int

const (
	HashUnknown HashAlgorithm = iota
	HashSHA1
	HashSHA256
	HashSHA384
	HashSHA512
)

// PublicKey is the issuer's decoded public key, passed to Verifier
// without interpretation by this package.
type PublicKey struct {
	Family AlgorithmFamily

	RSAModulus  *big.Int
	RSAExponent *big.Int

	DSAP, DSAQ, DSAG, DSAY *big.Int

	ECCurveOID []byte // raw OID bytes, not arc-decoded
	ECPoint    []byte
}

// Hasher computes a one-shot digest over a byte range.
type Hasher interface {
	Hash(alg HashAlgorithm, data []byte) ([]byte, error)
}

// Verifier checks a signature against a digest and public key.
type Verifier interface {
	Verify(family AlgorithmFamily, key PublicKey, hash HashAlgorithm, digest, signature []byte) (bool, error)
}

// Clock supplies "now" for the validity-window check. Production code
// uses SystemClock; tests fix an arbitrary instant to exercise
// CertExpired/CertNotYetValid.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock, backed by the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
