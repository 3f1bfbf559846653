package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/mynextid/x509view/internal/der"
	"github.com/mynextid/x509view/internal/oids"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <certificate.der>",
		Short: "Print the ASN.1 tree of a DER-encoded certificate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading %s: %w", args[0], err)
			}
			out := colorable.NewColorableStdout()
			color := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
			return printTree(out, data, "", true, color)
		},
	}
}

const (
	colorReset = "\x1b[0m"
	colorTag   = "\x1b[36m"
	colorValue = "\x1b[33m"
)

func printTree(w io.Writer, data []byte, indent string, isLast bool, color bool) error {
	cur := data
	for len(cur) > 0 {
		hdr, content, rest, err := der.ReadHeader(cur)
		if err != nil {
			return err
		}
		last := len(rest) == 0
		printNode(w, hdr, content, indent, last, color)

		if hdr.Constructed {
			childIndent := indent
			if indent != "" || !isLast {
				if last {
					childIndent += "   "
				} else {
					childIndent += "│  "
				}
			} else {
				childIndent += "   "
			}
			if err := printTree(w, content, childIndent, last, color); err != nil {
				return err
			}
		}
		cur = rest
	}
	return nil
}

func printNode(w io.Writer, hdr der.Header, content []byte, indent string, isLast bool, color bool) {
	prefix := indent
	if indent != "" {
		if isLast {
			prefix += "└─ "
		} else {
			prefix += "├─ "
		}
	} else {
		prefix = "* "
	}

	tagName := tagDisplayName(hdr)
	summary := summarize(hdr, content)

	tagText, valueText := tagName, summary
	if color {
		tagText = colorTag + tagName + colorReset
		if valueText != "" {
			valueText = colorValue + valueText + colorReset
		}
	}

	if summary != "" {
		fmt.Fprintf(w, "%s%s %s\n", prefix, tagText, valueText)
	} else {
		fmt.Fprintf(w, "%s%s\n", prefix, tagText)
	}
}

func tagDisplayName(hdr der.Header) string {
	if hdr.Class == der.ClassContextSpecific {
		return fmt.Sprintf("[%d]", hdr.Tag)
	}
	if hdr.Class == der.ClassApplication {
		return fmt.Sprintf("[APPLICATION %d]", hdr.Tag)
	}
	if hdr.Class == der.ClassPrivate {
		return fmt.Sprintf("[PRIVATE %d]", hdr.Tag)
	}
	switch hdr.Tag {
	case der.TagBoolean:
		return "BOOLEAN"
	case der.TagInteger:
		return "INTEGER"
	case der.TagBitString:
		return "BIT STRING"
	case der.TagOctetString:
		return "OCTET STRING"
	case der.TagNull:
		return "NULL"
	case der.TagOID:
		return "OBJECT IDENTIFIER"
	case der.TagEnum:
		return "ENUMERATED"
	case der.TagUTF8String:
		return "UTF8String"
	case der.TagSequence:
		return "SEQUENCE"
	case der.TagSet:
		return "SET"
	case der.TagNumericString:
		return "NumericString"
	case der.TagPrintableString:
		return "PrintableString"
	case der.TagT61String:
		return "T61String"
	case der.TagIA5String:
		return "IA5String"
	case der.TagUTCTime:
		return "UTCTime"
	case der.TagGeneralizedTime:
		return "GeneralizedTime"
	case der.TagGeneralString:
		return "GeneralString"
	case der.TagUniversalString:
		return "UniversalString"
	case der.TagBMPString:
		return "BMPString"
	default:
		return fmt.Sprintf("[UNIVERSAL %d]", hdr.Tag)
	}
}

func summarize(hdr der.Header, content []byte) string {
	if hdr.Constructed {
		count := 0
		cur := content
		for len(cur) > 0 {
			h, _, rest, err := der.ReadHeader(cur)
			if err != nil {
				break
			}
			_ = h
			count++
			cur = rest
		}
		return fmt.Sprintf("(%d elem)", count)
	}

	if hdr.Class != der.ClassUniversal {
		if len(content) <= 32 {
			return strings.ToUpper(hex.EncodeToString(content))
		}
		return fmt.Sprintf("(%d bytes)", len(content))
	}

	switch hdr.Tag {
	case der.TagBoolean:
		b, err := der.DecodeBoolean(content, "inspect")
		if err != nil {
			return "(invalid)"
		}
		return fmt.Sprintf("%v", b)

	case der.TagInteger:
		v, err := der.DecodeInteger(content, "inspect")
		if err != nil {
			return "(invalid)"
		}
		if v.SmallOK {
			return fmt.Sprintf("%d", v.Small)
		}
		preview := hex.EncodeToString(v.Raw[:min(8, len(v.Raw))])
		return fmt.Sprintf("(%d bit) %s…", len(v.Raw)*8, preview)

	case der.TagBitString:
		bs, err := der.DecodeBitString(content, "inspect")
		if err != nil {
			return "(invalid)"
		}
		masked := bs.Masked()
		preview := hex.EncodeToString(masked[:min(8, len(masked))])
		return fmt.Sprintf("(%d bit) %s", bs.BitLen(), preview)

	case der.TagOctetString:
		if len(content) == 0 {
			return "(0 byte)"
		}
		preview := strings.ToUpper(hex.EncodeToString(content[:min(16, len(content))]))
		return fmt.Sprintf("(%d byte) %s", len(content), preview)

	case der.TagOID:
		o, err := der.DecodeOID(content, "inspect")
		if err != nil {
			return "(invalid OID)"
		}
		hexStr := hex.EncodeToString(o.Raw)
		if name := describeOID(o); name != "" {
			return fmt.Sprintf("%s (%s)", hexStr, name)
		}
		return hexStr

	case der.TagPrintableString, der.TagIA5String, der.TagUTF8String,
		der.TagNumericString, der.TagT61String, der.TagGeneralString:
		s := string(content)
		if len(s) > 64 {
			s = s[:64] + "…"
		}
		return s

	case der.TagUTCTime:
		t, err := der.DecodeTime(der.TagUTCTime, content, "inspect")
		if err != nil {
			return string(content)
		}
		return t.Format("2006-01-02 15:04:05 MST")

	case der.TagGeneralizedTime:
		t, err := der.DecodeTime(der.TagGeneralizedTime, content, "inspect")
		if err != nil {
			return string(content)
		}
		return t.Format("2006-01-02 15:04:05 MST")

	default:
		if len(content) <= 32 {
			return strings.ToUpper(hex.EncodeToString(content))
		}
		return fmt.Sprintf("(%d bytes)", len(content))
	}
}

func describeOID(o der.OID) string {
	named := []struct {
		oid  der.OID
		name string
	}{
		{oids.CommonName, "commonName"},
		{oids.Country, "countryName"},
		{oids.Organization, "organizationName"},
		{oids.OrganizationalUnit, "organizationalUnitName"},
		{oids.BasicConstraints, "basicConstraints"},
		{oids.KeyUsage, "keyUsage"},
		{oids.ExtendedKeyUsage, "extKeyUsage"},
		{oids.SubjectAltName, "subjectAltName"},
		{oids.SubjectKeyIdentifier, "subjectKeyIdentifier"},
		{oids.AuthorityKeyIdentifier, "authorityKeyIdentifier"},
		{oids.NetscapeCertType, "netscapeCertType"},
		{oids.RSAEncryption, "rsaEncryption"},
		{oids.ECPublicKey, "ecPublicKey"},
		{oids.SHA1WithRSA, "sha1WithRSAEncryption"},
		{oids.SHA256WithRSA, "sha256WithRSAEncryption"},
		{oids.SHA384WithRSA, "sha384WithRSAEncryption"},
		{oids.SHA512WithRSA, "sha512WithRSAEncryption"},
		{oids.ECDSAWithSHA256, "ecdsa-with-SHA256"},
		{oids.ECDSAWithSHA384, "ecdsa-with-SHA384"},
	}
	for _, n := range named {
		if o.Equal(n.oid) {
			return n.name
		}
	}
	return ""
}
