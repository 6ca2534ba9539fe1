// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-secure-pipeline/internal/crypto"
)

// KeygenOptions holds flags for the keygen command.
type KeygenOptions struct {
	*RootOptions
	Bits   int
	OutDir string
	Name   string
}

// NewKeygenCommand creates the keygen command.
func NewKeygenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &KeygenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate an RSA key pair for hybrid mode",
		Long: `Generate an RSA key pair for hybrid encryption.

Writes <name>.pem (PKCS#8 private key, mode 0600) and <name>.pub.pem (PKIX
public key) into --out-dir.

Example:
  pipectl keygen --out-dir ./keys --name server`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runKeygen(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Bits, "bits", crypto.MinRSABits, "RSA modulus size")
	cmd.Flags().StringVarP(&opts.OutDir, "out-dir", "o", ".", "output directory")
	cmd.Flags().StringVar(&opts.Name, "name", "pipeline", "key file base name")

	return cmd
}

func runKeygen(opts *KeygenOptions, cmd *cobra.Command) error {
	key, err := crypto.GenerateKeyPair(opts.Bits)
	if err != nil {
		return err
	}

	privatePEM, err := crypto.EncodePrivateKeyPEM(key)
	if err != nil {
		return err
	}
	publicPEM, err := crypto.EncodePublicKeyPEM(&key.PublicKey)
	if err != nil {
		return err
	}

	if err = os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	privatePath := filepath.Join(opts.OutDir, opts.Name+".pem")
	publicPath := filepath.Join(opts.OutDir, opts.Name+".pub.pem")

	if err = os.WriteFile(privatePath, privatePEM, 0o600); err != nil {
		return fmt.Errorf("write private key: %w", err)
	}
	if err = os.WriteFile(publicPath, publicPEM, 0o644); err != nil {
		return fmt.Errorf("write public key: %w", err)
	}

	return writeResult(cmd.OutOrStdout(), opts.Format, map[string]string{
		"private_key": privatePath,
		"public_key":  publicPath,
		"bits":        fmt.Sprint(key.N.BitLen()),
	})
}
