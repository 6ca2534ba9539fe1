// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package cli implements pipectl, a command-line companion for clients of
// the secure request pipeline: it generates keys, signs, encrypts and
// decrypts payloads, and sends fully secured requests.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-secure-pipeline/internal/crypto"
)

// secretEnv is read when --secret is not given.
const secretEnv = "HMAC_SHARED_SECRET"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Secret string
	Format string // "json" | "text"

	// Cipher selection for encrypt, decrypt and call.
	Mode           string
	PrivateKeyPath string
	PublicKeyPath  string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for pipectl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pipectl",
		Short: "pipectl - secure request pipeline toolkit",
		Long: `Sign, encrypt and send requests the way the secure request pipeline
expects them, and inspect its encrypted payloads.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if opts.Secret == "" {
				opts.Secret = os.Getenv(secretEnv)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.Secret, "secret", "", "shared HMAC secret (default $"+secretEnv+")")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Mode, "mode", string(crypto.ModeShared), "encryption mode (shared|hybrid)")
	cmd.PersistentFlags().StringVar(&opts.PrivateKeyPath, "private-key", "", "own RSA private key PEM (hybrid decrypt)")
	cmd.PersistentFlags().StringVar(&opts.PublicKeyPath, "public-key", "", "peer RSA public key PEM (hybrid encrypt)")

	cmd.AddCommand(NewKeygenCommand(opts))
	cmd.AddCommand(NewSignCommand(opts))
	cmd.AddCommand(NewEncryptCommand(opts))
	cmd.AddCommand(NewDecryptCommand(opts))
	cmd.AddCommand(NewCallCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// cipher builds the payload cipher selected by the global flags.
func (o *RootOptions) cipher() (crypto.PayloadCipher, error) {
	mode := crypto.Mode(o.Mode)
	if mode != crypto.ModeHybrid && o.Secret == "" {
		return nil, errMissingSecret
	}
	return crypto.NewPayloadCipher(crypto.Options{
		Mode:              mode,
		SharedSecret:      o.Secret,
		PrivateKeyPath:    o.PrivateKeyPath,
		PeerPublicKeyPath: o.PublicKeyPath,
	})
}
