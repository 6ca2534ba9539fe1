// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-secure-pipeline/internal/adapter"
	"github.com/MKhiriev/go-secure-pipeline/internal/crypto"
	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
)

// CallOptions holds flags for the call command.
type CallOptions struct {
	*RootOptions
	URL       string
	Data      string
	Plaintext bool
	Token     string
	Timeout   time.Duration
}

// NewCallCommand creates the call command.
func NewCallCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CallOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "call <method> <path>",
		Short: "Send a signed, encrypted request and print the response data",
		Long: `Send a request through the full pipeline: the body is encrypted, the
request is stamped and signed, and the decrypted envelope data is printed.

Example:
  pipectl call POST /api/v1/diagnostics/echo --url http://localhost:8080 --data '{"ping":1}'`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCall(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.URL, "url", "http://localhost:8080", "server base URL")
	cmd.Flags().StringVarP(&opts.Data, "data", "d", "", "JSON request body")
	cmd.Flags().BoolVar(&opts.Plaintext, "plaintext", false, "send the body unencrypted")
	cmd.Flags().StringVar(&opts.Token, "token", "", "session token sent as a bearer token")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 15*time.Second, "request timeout")

	return cmd
}

func runCall(opts *CallOptions, method, path string, cmd *cobra.Command) error {
	if opts.Secret == "" {
		return errMissingSecret
	}

	var cipher crypto.PayloadCipher
	if !opts.Plaintext {
		var err error
		if cipher, err = opts.cipher(); err != nil {
			return err
		}
	}

	client, err := adapter.NewSecureClient(adapter.Config{
		BaseURL: opts.URL,
		Secret:  opts.Secret,
		Cipher:  cipher,
		Timeout: opts.Timeout,
	}, logger.Nop())
	if err != nil {
		return err
	}
	client.SetToken(opts.Token)

	var body any
	if opts.Data != "" {
		if !json.Valid([]byte(opts.Data)) {
			return fmt.Errorf("invalid --data JSON")
		}
		body = json.RawMessage(opts.Data)
	}

	var data json.RawMessage
	if err = client.Do(cmd.Context(), method, path, body, &data); err != nil {
		return err
	}

	if opts.Format == "json" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	pretty, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(pretty))
	return err
}
