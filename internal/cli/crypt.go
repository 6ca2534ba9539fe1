// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-secure-pipeline/internal/crypto"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

// CryptOptions holds flags for the encrypt and decrypt commands.
type CryptOptions struct {
	*RootOptions
	Data string

	// Wrap makes encrypt print the {"payload":...} request body instead of
	// the bare wire string.
	Wrap bool
}

// NewEncryptCommand creates the encrypt command.
func NewEncryptCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CryptOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a payload into its wire form",
		Long: `Encrypt a payload into the base64 wire form used by request bodies and
response data.

Example:
  echo '{"phone":"+919876543210"}' | pipectl encrypt --wrap
  pipectl encrypt --mode hybrid --public-key server.pub.pem --data '{}'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncrypt(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Data, "data", "d", "", "plaintext (default stdin)")
	cmd.Flags().BoolVar(&opts.Wrap, "wrap", false, `print a {"payload": ...} request body`)

	return cmd
}

// NewDecryptCommand creates the decrypt command.
func NewDecryptCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CryptOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a wire payload",
		Long: `Decrypt a wire payload. The input may be the bare wire string, a JSON
string, or a {"payload": ...} object.

Example:
  pipectl decrypt --data 'MDEy...'`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecrypt(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Data, "data", "d", "", "wire payload (default stdin)")

	return cmd
}

func runEncrypt(opts *CryptOptions, cmd *cobra.Command) error {
	cipher, err := opts.cipher()
	if err != nil {
		return err
	}
	plaintext, err := readInput(opts.Data, cmd.InOrStdin())
	if err != nil {
		return err
	}

	wire, err := crypto.EncryptToWire(cipher, plaintext)
	if err != nil {
		return err
	}

	out := wire
	if opts.Wrap {
		body, err := json.Marshal(models.EncryptedPayload{Payload: wire})
		if err != nil {
			return err
		}
		out = string(body)
	}

	if opts.Format == "json" {
		return writeResult(cmd.OutOrStdout(), opts.Format, map[string]string{"payload": out})
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
	return err
}

func runDecrypt(opts *CryptOptions, cmd *cobra.Command) error {
	cipher, err := opts.cipher()
	if err != nil {
		return err
	}
	input, err := readInput(opts.Data, cmd.InOrStdin())
	if err != nil {
		return err
	}

	plaintext, err := crypto.DecryptWire(cipher, unwrapPayload(input))
	if err != nil {
		return err
	}

	if opts.Format == "json" {
		return writeResult(cmd.OutOrStdout(), opts.Format, map[string]string{"plaintext": string(plaintext)})
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(plaintext))
	return err
}

// unwrapPayload accepts a request body, a JSON string (e.g. envelope data)
// or the bare wire form.
func unwrapPayload(input []byte) string {
	var body models.EncryptedPayload
	if err := json.Unmarshal(input, &body); err == nil && body.Payload != "" {
		return body.Payload
	}
	var quoted string
	if err := json.Unmarshal(input, &quoted); err == nil {
		return quoted
	}
	return strings.TrimSpace(string(input))
}
