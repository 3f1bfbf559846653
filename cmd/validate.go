package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mynextid/x509view/certificate"
	"github.com/mynextid/x509view/validate"
)

func newValidateCmd() *cobra.Command {
	var issuerPath string

	cmd := &cobra.Command{
		Use:   "validate <certificate.der>",
		Short: "Check a certificate's signature against a claimed issuer",
		Args:  cobra.ExactArgs(1),
		Example: `  # Validate a leaf against its CA
  x509view validate leaf.der --issuer ca.der

  # Check a self-signed certificate against itself
  x509view validate root.der --issuer root.der`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0], issuerPath)
		},
	}

	cmd.Flags().StringVar(&issuerPath, "issuer", "", "DER file of the claimed issuer certificate (required)")
	_ = cmd.MarkFlagRequired("issuer")

	return cmd
}

func runValidate(certPath, issuerPath string) error {
	childDER, err := os.ReadFile(certPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", certPath, err)
	}
	issuerDER, err := os.ReadFile(issuerPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", issuerPath, err)
	}

	child, err := certificate.Parse(childDER)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", certPath, err)
	}
	issuer, err := certificate.Parse(issuerDER)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", issuerPath, err)
	}

	v := validate.NewDefaultValidator()
	if err := v.Validate(child, issuer); err != nil {
		fmt.Printf("INVALID: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("VALID")
	return nil
}
