package validate

import (
	"github.com/mynextid/x509view/certificate"
	"github.com/mynextid/x509view/internal/der"
	"github.com/mynextid/x509view/internal/ext"
	"github.com/mynextid/x509view/internal/oids"
	"github.com/mynextid/x509view/internal/spki"
	"github.com/mynextid/x509view/internal/xerr"
)

// Validator bundles the external collaborators the algorithm needs.
// The zero value is unusable; use NewValidator or NewDefaultValidator.
type Validator struct {
	Hasher   Hasher
	Verifier Verifier
	Clock    Clock
}

// NewValidator builds a Validator from explicit collaborators, for
// tests that want a fixed Clock or a mock Verifier.
func NewValidator(h Hasher, v Verifier, c Clock) Validator {
	return Validator{Hasher: h, Verifier: v, Clock: c}
}

// NewDefaultValidator wires the stdlib-backed collaborators and the
// system clock.
func NewDefaultValidator() Validator {
	return Validator{Hasher: DefaultHasher{}, Verifier: DefaultVerifier{}, Clock: SystemClock{}}
}

// algorithmFor resolves a signature algorithm OID to its family and hash.
func algorithmFor(oid der.OID) (AlgorithmFamily, HashAlgorithm, bool) {
	switch {
	case oid.Equal(oids.SHA1WithRSA):
		return FamilyRSA, HashSHA1, true
	case oid.Equal(oids.SHA256WithRSA):
		return FamilyRSA, HashSHA256, true
	case oid.Equal(oids.SHA384WithRSA):
		return FamilyRSA, HashSHA384, true
	case oid.Equal(oids.SHA512WithRSA):
		return FamilyRSA, HashSHA512, true
	case oid.Equal(oids.DSAWithSHA1):
		return FamilyDSA, HashSHA1, true
	case oid.Equal(oids.DSAWithSHA256):
		return FamilyDSA, HashSHA256, true
	case oid.Equal(oids.ECDSAWithSHA1):
		return FamilyECDSA, HashSHA1, true
	case oid.Equal(oids.ECDSAWithSHA256):
		return FamilyECDSA, HashSHA256, true
	case oid.Equal(oids.ECDSAWithSHA384):
		return FamilyECDSA, HashSHA384, true
	case oid.Equal(oids.ECDSAWithSHA512):
		return FamilyECDSA, HashSHA512, true
	default:
		return FamilyUnknown, HashUnknown, false
	}
}

func publicKeyFor(info spki.Info) (PublicKey, error) {
	switch info.Algorithm {
	case spki.AlgorithmRSA:
		n, e, err := spki.ReadRSAPublicKey(info)
		if err != nil {
			return PublicKey{}, err
		}
		return PublicKey{Family: FamilyRSA, RSAModulus: n, RSAExponent: e}, nil
	case spki.AlgorithmDSA:
		p, q, g, y, err := spki.ReadDSAPublicKey(info)
		if err != nil {
			return PublicKey{}, err
		}
		return PublicKey{Family: FamilyDSA, DSAP: p, DSAQ: q, DSAG: g, DSAY: y}, nil
	case spki.AlgorithmEC:
		return PublicKey{Family: FamilyECDSA, ECCurveOID: info.EC.Curve.Raw, ECPoint: info.EC.Point}, nil
	default:
		return PublicKey{}, xerr.New(xerr.UnsupportedAlgorithm, "validate: issuer public key")
	}
}

// Validate checks that issuer actually signed child: issuer/subject
// name match, issuer CA authority, the child's validity window, and a
// recomputed signature over the child's tbsCertificate bytes.
// Returns nil on success.
func (v Validator) Validate(child, issuer certificate.Certificate) error {
	const ctx = "validate"

	// Step 1: issuer/subject byte-exact match.
	if string(child.TBSCertificate.Issuer.RawData) != string(issuer.TBSCertificate.Subject.RawData) {
		return xerr.New(xerr.IssuerMismatch, ctx)
	}

	// Step 2: issuer must be a CA authorized to sign.
	bc := issuer.TBSCertificate.Extensions.BasicConstraints
	if bc.Present && !bc.CA {
		return xerr.New(xerr.IssuerNotCA, ctx)
	}
	ku := issuer.TBSCertificate.Extensions.KeyUsage
	if ku.Present && !ku.Has(ext.KeyUsageKeyCertSign) {
		return xerr.New(xerr.IssuerCannotSign, ctx)
	}

	// Step 3: time window.
	now := v.Clock.Now()
	if now.Before(child.TBSCertificate.NotBefore) {
		return xerr.New(xerr.CertNotYetValid, ctx)
	}
	if now.After(child.TBSCertificate.NotAfter) {
		return xerr.New(xerr.CertExpired, ctx)
	}

	// Step 4: resolve and cross-check the signature algorithm.
	family, hashAlg, ok := algorithmFor(child.SignatureAlgorithm.OID)
	if !ok {
		return xerr.New(xerr.UnsupportedAlgorithm, ctx)
	}
	if !child.SignatureAlgorithm.OID.Equal(child.TBSCertificate.Signature.OID) {
		return xerr.New(xerr.AlgorithmMismatch, ctx)
	}

	// Step 5: hash the raw tbsCertificate region.
	digest, err := v.Hasher.Hash(hashAlg, child.TBSCertificate.RawData)
	if err != nil {
		return xerr.Wrap(xerr.UnsupportedAlgorithm, ctx+": hash", err)
	}

	// Step 6: verify against the issuer's public key.
	pub, err := publicKeyFor(issuer.TBSCertificate.PublicKey)
	if err != nil {
		return err
	}
	ok, err = v.Verifier.Verify(family, pub, hashAlg, digest, child.SignatureValue.Masked())
	if err != nil {
		return xerr.Wrap(xerr.BadSignature, ctx, err)
	}
	if !ok {
		return xerr.New(xerr.BadSignature, ctx)
	}
	return nil
}
