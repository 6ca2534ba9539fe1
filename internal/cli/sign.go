// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package cli

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-secure-pipeline/internal/crypto"
	"github.com/MKhiriev/go-secure-pipeline/internal/utils"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

// SignOptions holds flags for the sign command.
type SignOptions struct {
	*RootOptions
	Body      string
	Timestamp int64
	Nonce     string
}

// NewSignCommand creates the sign command.
func NewSignCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SignOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sign <method> <path>",
		Short: "Compute the security headers of a request",
		Long: `Compute x-timestamp, x-nonce and x-signature for a request.

The path is normalized the way the server's first candidate is: the query
and any /api/v<N> prefix are dropped. The body must be the exact bytes that
will be sent, i.e. the {"payload":...} JSON when encrypting.

Example:
  pipectl sign POST /api/v1/auth/send-otp --body '{"phone":"+919876543210"}'`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSign(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Body, "body", "", "exact request body")
	cmd.Flags().Int64Var(&opts.Timestamp, "timestamp", 0, "epoch milliseconds (default now)")
	cmd.Flags().StringVar(&opts.Nonce, "nonce", "", "nonce (default a fresh one)")

	return cmd
}

func runSign(opts *SignOptions, method, path string, cmd *cobra.Command) error {
	if opts.Secret == "" {
		return errMissingSecret
	}

	timestamp := opts.Timestamp
	if timestamp == 0 {
		timestamp = time.Now().UnixMilli()
	}
	nonce := opts.Nonce
	if nonce == "" {
		nonce = utils.NewNonce()
	}

	method = strings.ToUpper(method)
	signPath := crypto.SigningPaths(path, "")[0]
	signingString := crypto.BuildSigningString(method, signPath, timestamp, nonce, opts.Body)

	return writeResult(cmd.OutOrStdout(), opts.Format, map[string]string{
		models.HeaderTimestamp: strconv.FormatInt(timestamp, 10),
		models.HeaderNonce:     nonce,
		models.HeaderSignature: crypto.Sign(signingString, opts.Secret),
		"Signed-Path":          signPath,
	})
}
