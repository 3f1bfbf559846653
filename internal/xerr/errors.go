// Package xerr defines the shared error taxonomy used by the DER
// reader, the certificate structure parser, the extension dispatcher
// and the validator. Every fatal condition the decoder can hit maps
// to exactly one Kind; callers use errors.As to recover it.
package xerr

import "fmt"

// Kind is one entry of the decoder/validator error taxonomy.
type Kind int

const (
	// Structural
	TruncatedInput Kind = iota + 1
	UnexpectedTag
	InvalidLength
	TrailingData

	// Semantic
	InvalidVersion
	NonMinimalInteger
	BadBooleanEncoding
	BadBitStringPadding
	UnsupportedStringEncoding
	UnsupportedTimeFormat

	// Schema
	UnknownCriticalExtension
	DuplicateExtension
	TooManySubjectAltNames
	EmptyExtensions

	// Algorithm
	UnsupportedAlgorithm
	AlgorithmMismatch

	// Validation
	IssuerMismatch
	IssuerNotCA
	IssuerCannotSign
	CertExpired
	CertNotYetValid
	BadSignature
)

func (k Kind) String() string {
	switch k {
	case TruncatedInput:
		return "TruncatedInput"
	case UnexpectedTag:
		return "UnexpectedTag"
	case InvalidLength:
		return "InvalidLength"
	case TrailingData:
		return "TrailingData"
	case InvalidVersion:
		return "InvalidVersion"
	case NonMinimalInteger:
		return "NonMinimalInteger"
	case BadBooleanEncoding:
		return "BadBooleanEncoding"
	case BadBitStringPadding:
		return "BadBitStringPadding"
	case UnsupportedStringEncoding:
		return "UnsupportedStringEncoding"
	case UnsupportedTimeFormat:
		return "UnsupportedTimeFormat"
	case UnknownCriticalExtension:
		return "UnknownCriticalExtension"
	case DuplicateExtension:
		return "DuplicateExtension"
	case TooManySubjectAltNames:
		return "TooManySubjectAltNames"
	case EmptyExtensions:
		return "EmptyExtensions"
	case UnsupportedAlgorithm:
		return "UnsupportedAlgorithm"
	case AlgorithmMismatch:
		return "AlgorithmMismatch"
	case IssuerMismatch:
		return "IssuerMismatch"
	case IssuerNotCA:
		return "IssuerNotCA"
	case IssuerCannotSign:
		return "IssuerCannotSign"
	case CertExpired:
		return "CertExpired"
	case CertNotYetValid:
		return "CertNotYetValid"
	case BadSignature:
		return "BadSignature"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the concrete error type returned by every package in this
// module. Context is a short human-readable note about where in the
// structure the failure happened (e.g. "tbsCertificate.validity").
type Error struct {
	Kind    Kind
	Context string
	Err     error // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		if e.Context != "" {
			return fmt.Sprintf("%s: %s: %v", e.Context, e.Kind, e.Err)
		}
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	if e.Context != "" {
		return fmt.Sprintf("%s: %s", e.Context, e.Kind)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches any *Error of the same Kind, so errors.Is works against a
// sentinel built with Sentinel(kind) or New(kind, "").
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind
}

// New builds an *Error for the given kind.
func New(kind Kind, context string) *Error {
	return &Error{Kind: kind, Context: context}
}

// Wrap builds an *Error around a lower-level cause.
func Wrap(kind Kind, context string, err error) *Error {
	return &Error{Kind: kind, Context: context, Err: err}
}

// Sentinel returns a comparable value for errors.Is checks, e.g.
// errors.Is(err, xerr.Sentinel(xerr.BadSignature)).
func Sentinel(kind Kind) error {
	return &Error{Kind: kind}
}
