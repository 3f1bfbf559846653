package main

import "github.com/spf13/cobra"

// Init the cmd
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "x509view",
		Short: "X.509 certificate decoder and verifier",
		Long:  `A DER/ASN.1 decoder for X.509 v3 certificates, plus a signature validator against a claimed issuer.`,
	}

	rootCmd.AddCommand(
		newInspectCmd(),
		newValidateCmd(),
		newServeCmd(),
		newVersionCmd(),
	)

	return rootCmd
}
