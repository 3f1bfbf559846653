package der

import (
	"errors"
	"testing"

	"github.com/mynextid/x509view/internal/xerr"
)

func kindOf(t *testing.T, err error) xerr.Kind {
	t.Helper()
	var e *xerr.Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *xerr.Error, got %T: %v", err, err)
	}
	return e.Kind
}

func TestReadHeaderShortForm(t *testing.T) {
	// SEQUENCE, length 3, content 0x01 0x02 0x03
	s := []byte{0x30, 0x03, 0x01, 0x02, 0x03}
	hdr, content, rest, err := ReadHeader(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hdr.Class != ClassUniversal || hdr.Tag != TagSequence || !hdr.Constructed {
		t.Fatalf("unexpected header: %+v", hdr)
	}
	if hdr.HeaderLen != 2 || hdr.Length != 3 {
		t.Fatalf("unexpected lengths: %+v", hdr)
	}
	if len(content) != 3 || content[0] != 1 {
		t.Fatalf("unexpected content: %v", content)
	}
	if len(rest) != 0 {
		t.Fatalf("unexpected rest: %v", rest)
	}
	if string(hdr.Raw(s)) != string(s) {
		t.Fatalf("Raw() did not reproduce the full TLV")
	}
}

func TestReadHeaderLongForm(t *testing.T) {
	content := make([]byte, 200)
	s := append([]byte{0x04, 0x81, 0xc8}, content...)
	hdr, got, rest, err := ReadHeader(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hdr.Length != 200 || hdr.HeaderLen != 3 {
		t.Fatalf("unexpected header: %+v", hdr)
	}
	if len(got) != 200 || len(rest) != 0 {
		t.Fatalf("unexpected slices")
	}
}

func TestReadHeaderRejectsIndefiniteLength(t *testing.T) {
	s := []byte{0x30, 0x80, 0x00, 0x00}
	_, _, _, err := ReadHeader(s)
	if kindOf(t, err) != xerr.InvalidLength {
		t.Fatalf("expected InvalidLength, got %v", err)
	}
}

func TestReadHeaderRejectsReservedLength(t *testing.T) {
	s := []byte{0x30, 0xff}
	_, _, _, err := ReadHeader(s)
	if kindOf(t, err) != xerr.InvalidLength {
		t.Fatalf("expected InvalidLength, got %v", err)
	}
}

func TestReadHeaderRejectsNonMinimalLongForm(t *testing.T) {
	// Length 5 encoded with a needless extra long-form byte.
	s := []byte{0x04, 0x81, 0x05, 1, 2, 3, 4, 5}
	_, _, _, err := ReadHeader(s)
	if kindOf(t, err) != xerr.InvalidLength {
		t.Fatalf("expected InvalidLength, got %v", err)
	}
}

func TestReadHeaderTruncated(t *testing.T) {
	s := []byte{0x30, 0x05, 0x01, 0x02}
	_, _, _, err := ReadHeader(s)
	if kindOf(t, err) != xerr.TruncatedInput {
		t.Fatalf("expected TruncatedInput, got %v", err)
	}
}

func TestEveryPrefixOfValidTLVFails(t *testing.T) {
	// P5: truncation tolerance.
	full := []byte{0x30, 0x05, 0x02, 0x01, 0x05, 0x01, 0x01}
	for k := 0; k < len(full); k++ {
		_, _, _, err := ReadHeader(full[:k])
		if err == nil {
			t.Fatalf("prefix length %d unexpectedly parsed", k)
		}
	}
}

func TestExpectMismatch(t *testing.T) {
	s := []byte{0x02, 0x01, 0x01}
	_, _, _, err := Expect(s, ClassUniversal, TagSequence, "test")
	if kindOf(t, err) != xerr.UnexpectedTag {
		t.Fatalf("expected UnexpectedTag, got %v", err)
	}
}

func TestPeekTagContextSpecific(t *testing.T) {
	s := []byte{0xa0, 0x03, 0x02, 0x01, 0x00}
	class, tag, constructed, ok := PeekTag(s)
	if !ok || class != ClassContextSpecific || tag != 0 || !constructed {
		t.Fatalf("unexpected peek result: %v %v %v %v", class, tag, constructed, ok)
	}
}

func TestRequireExhausted(t *testing.T) {
	if err := RequireExhausted(nil, "ctx"); err != nil {
		t.Fatalf("expected no error for empty slice: %v", err)
	}
	err := RequireExhausted([]byte{1}, "ctx")
	if kindOf(t, err) != xerr.TrailingData {
		t.Fatalf("expected TrailingData, got %v", err)
	}
}
