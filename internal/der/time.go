package der

import (
	"time"

	"github.com/mynextid/x509view/internal/xerr"
)

func digits(s string, context string) ([]int, error) {
	out := make([]int, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return nil, xerr.New(xerr.UnsupportedTimeFormat, context+": non-digit in time value")
		}
		out[i] = int(c - '0')
	}
	return out, nil
}

func two(d []int, i int) int { return d[i]*10 + d[i+1] }

// DecodeUTCTime decodes UTCTime content of the form YYMMDDHHMMSSZ.
// Only the "Z" (UTC) suffix is accepted; any other timezone form,
// missing seconds, or fractional seconds is rejected. YY < 50 maps to
// 20YY, otherwise 19YY, per RFC 5280 (note: Go's own two-digit-year
// parsing pivots at 69 instead of 50, so the digits are decoded by
// hand rather than via time.Parse's "06" layout).
func DecodeUTCTime(content []byte, context string) (time.Time, error) {
	s := string(content)
	if len(s) != 13 || s[12] != 'Z' {
		return time.Time{}, xerr.New(xerr.UnsupportedTimeFormat, context+": UTCTime must be YYMMDDHHMMSSZ")
	}
	d, err := digits(s[:12], context)
	if err != nil {
		return time.Time{}, err
	}
	yy := two(d, 0)
	year := 1900 + yy
	if yy < 50 {
		year = 2000 + yy
	}
	month, day := two(d, 2), two(d, 4)
	hour, minute, sec := two(d, 6), two(d, 8), two(d, 10)
	return buildTime(year, month, day, hour, minute, sec, context)
}

// DecodeGeneralizedTime decodes GeneralizedTime content of the form
// YYYYMMDDHHMMSSZ. Fractional seconds and non-UTC offsets are
// rejected.
func DecodeGeneralizedTime(content []byte, context string) (time.Time, error) {
	s := string(content)
	if len(s) != 15 || s[14] != 'Z' {
		return time.Time{}, xerr.New(xerr.UnsupportedTimeFormat, context+": GeneralizedTime must be YYYYMMDDHHMMSSZ")
	}
	d, err := digits(s[:14], context)
	if err != nil {
		return time.Time{}, err
	}
	year := d[0]*1000 + d[1]*100 + d[2]*10 + d[3]
	month, day := two(d, 4), two(d, 6)
	hour, minute, sec := two(d, 8), two(d, 10), two(d, 12)
	return buildTime(year, month, day, hour, minute, sec, context)
}

func buildTime(year, month, day, hour, minute, sec int, context string) (time.Time, error) {
	if month < 1 || month > 12 || day < 1 || day > 31 || hour > 23 || minute > 59 || sec > 60 {
		return time.Time{}, xerr.New(xerr.UnsupportedTimeFormat, context+": field out of range")
	}
	t := time.Date(year, time.Month(month), day, hour, minute, sec, 0, time.UTC)
	if t.Day() != day || int(t.Month()) != month {
		return time.Time{}, xerr.New(xerr.UnsupportedTimeFormat, context+": invalid calendar date")
	}
	return t, nil
}

// DecodeTime dispatches to the right decoder for the DER tag of a
// Time CHOICE (UTCTime before 2050, GeneralizedTime at or after).
func DecodeTime(tag int, content []byte, context string) (time.Time, error) {
	switch tag {
	case TagUTCTime:
		return DecodeUTCTime(content, context)
	case TagGeneralizedTime:
		return DecodeGeneralizedTime(content, context)
	default:
		return time.Time{}, xerr.New(xerr.UnexpectedTag, context+": expected UTCTime or GeneralizedTime")
	}
}
