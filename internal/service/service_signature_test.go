// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-secure-pipeline/internal/crypto"
	"github.com/MKhiriev/go-secure-pipeline/internal/logger"
	"github.com/MKhiriev/go-secure-pipeline/internal/mock"
	"github.com/MKhiriev/go-secure-pipeline/internal/utils"
	"github.com/MKhiriev/go-secure-pipeline/models"
)

const testSecret = "test-shared-secret"

func newTestSignatureService(t *testing.T) (SignatureService, *crypto.Signer, *mock.MockAuditService) {
	t.Helper()
	signer, err := crypto.NewSigner(testSecret)
	require.NoError(t, err)

	audit := mock.NewMockAuditService(gomock.NewController(t))
	return NewSignatureService(signer, audit, logger.Nop()), signer, audit
}

func otpSigningContext() models.SigningContext {
	return models.SigningContext{
		Method:         "POST",
		PathCandidates: crypto.SigningPaths("/api/v1/auth/send-otp", "/api/v1/auth/send-otp"),
		Timestamp:      1760000000000,
		Nonce:          "nonce-1",
		Body:           `{"phone":"+919876543210"}`,
	}
}

func TestSignatureService_Verify_MatchesEachCandidate(t *testing.T) {
	svc, _, _ := newTestSignatureService(t)
	sc := otpSigningContext()
	require.Equal(t, []string{"/auth/send-otp", "/api/v1/auth/send-otp"}, sc.PathCandidates)

	for _, path := range sc.PathCandidates {
		t.Run(path, func(t *testing.T) {
			signature := crypto.Sign(crypto.BuildSigningString(sc.Method, path, sc.Timestamp, sc.Nonce, sc.Body), testSecret)

			matched, err := svc.Verify(context.Background(), sc, signature, testMeta)
			require.NoError(t, err)
			assert.Equal(t, path, matched)
		})
	}
}

func TestSignatureService_Verify_MismatchRecordsDiagnostics(t *testing.T) {
	svc, signer, audit := newTestSignatureService(t)
	sc := otpSigningContext()
	bad := crypto.Sign(crypto.BuildSigningString(sc.Method, "/auth/send-otp", sc.Timestamp, sc.Nonce, sc.Body), "other-secret")

	var recorded models.AuditEvent
	audit.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, event models.AuditEvent) {
		recorded = event
	})

	_, err := svc.Verify(context.Background(), sc, bad, testMeta)
	require.ErrorIs(t, err, ErrInvalidSignature)

	assert.Equal(t, models.AuditInvalidSignature, recorded.Kind)
	assert.Equal(t, sc.PathCandidates, recorded.PathsTried)
	assert.Equal(t, bad, recorded.ReceivedSignature)
	assert.Equal(t, signer.Sign(sc), recorded.ExpectedSignature)
	assert.Equal(t, utils.SHA256Hex([]byte(sc.Body)), recorded.BodySHA256)
	assert.Equal(t, signer.Fingerprint(), recorded.SecretFingerprint)
	assert.Len(t, recorded.SecretFingerprint, 8)
	assert.NotContains(t, recorded.ExpectedSignature+recorded.SecretFingerprint, testSecret)
}

func TestSignatureService_Verify_TamperedComponents(t *testing.T) {
	base := otpSigningContext()
	signature := crypto.Sign(crypto.BuildSigningString(base.Method, base.PathCandidates[0], base.Timestamp, base.Nonce, base.Body), testSecret)

	tests := []struct {
		name   string
		mutate func(sc *models.SigningContext)
	}{
		{name: "method", mutate: func(sc *models.SigningContext) { sc.Method = "PUT" }},
		{name: "timestamp", mutate: func(sc *models.SigningContext) { sc.Timestamp++ }},
		{name: "nonce", mutate: func(sc *models.SigningContext) { sc.Nonce = "nonce-2" }},
		{name: "body", mutate: func(sc *models.SigningContext) { sc.Body = `{"phone":"+919876543211"}` }},
		{name: "path", mutate: func(sc *models.SigningContext) { sc.PathCandidates = []string{"/auth/verify-otp"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, audit := newTestSignatureService(t)
			audit.EXPECT().Record(gomock.Any(), gomock.Any())

			sc := otpSigningContext()
			tt.mutate(&sc)

			_, err := svc.Verify(context.Background(), sc, signature, testMeta)
			require.ErrorIs(t, err, ErrInvalidSignature)
		})
	}
}

func TestSignatureService_Verify_MissingHeaders(t *testing.T) {
	svc, _, _ := newTestSignatureService(t)

	sc := otpSigningContext()
	_, err := svc.Verify(context.Background(), sc, "", testMeta)
	require.ErrorIs(t, err, ErrMissingSecurityHeaders)

	sc.Nonce = ""
	_, err = svc.Verify(context.Background(), sc, "c2ln", testMeta)
	require.ErrorIs(t, err, ErrMissingSecurityHeaders)
}
