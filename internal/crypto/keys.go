// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
)

// MinRSABits is the smallest modulus accepted for hybrid mode keys.
const MinRSABits = 2048

// GenerateKeyPair creates an RSA key for hybrid mode.
func GenerateKeyPair(bits int) (*rsa.PrivateKey, error) {
	if bits < MinRSABits {
		return nil, fmt.Errorf("%w: rsa key must be at least %d bits", ErrInvalidKey, MinRSABits)
	}
	return rsa.GenerateKey(rand.Reader, bits)
}

// EncodePrivateKeyPEM marshals key as a PKCS#8 "PRIVATE KEY" block.
func EncodePrivateKeyPEM(key *rsa.PrivateKey) ([]byte, error) {
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("marshal private key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), nil
}

// EncodePublicKeyPEM marshals key as a PKIX "PUBLIC KEY" block.
func EncodePublicKeyPEM(key *rsa.PublicKey) ([]byte, error) {
	der, err := x509.MarshalPKIXPublicKey(key)
	if err != nil {
		return nil, fmt.Errorf("marshal public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}), nil
}

// ParsePrivateKeyPEM accepts PKCS#1 ("RSA PRIVATE KEY") and PKCS#8
// ("PRIVATE KEY") encoded RSA keys.
func ParsePrivateKeyPEM(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrInvalidKey)
	}

	switch block.Type {
	case "RSA PRIVATE KEY":
		key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
		return key, nil
	case "PRIVATE KEY":
		parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
		key, ok := parsed.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%w: private key is %T, want RSA", ErrInvalidKey, parsed)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("%w: unsupported PEM block %q", ErrInvalidKey, block.Type)
	}
}

// ParsePublicKeyPEM accepts PKIX ("PUBLIC KEY") and PKCS#1
// ("RSA PUBLIC KEY") encoded RSA keys.
func ParsePublicKeyPEM(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, fmt.Errorf("%w: no PEM block found", ErrInvalidKey)
	}

	switch block.Type {
	case "RSA PUBLIC KEY":
		key, err := x509.ParsePKCS1PublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
		return key, nil
	case "PUBLIC KEY":
		parsed, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}
		key, ok := parsed.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%w: public key is %T, want RSA", ErrInvalidKey, parsed)
		}
		return key, nil
	default:
		return nil, fmt.Errorf("%w: unsupported PEM block %q", ErrInvalidKey, block.Type)
	}
}

// LoadPrivateKey reads and parses a PEM private key file.
func LoadPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read private key %s: %w", path, err)
	}
	return ParsePrivateKeyPEM(data)
}

// LoadPublicKey reads and parses a PEM public key file.
func LoadPublicKey(path string) (*rsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read public key %s: %w", path, err)
	}
	return ParsePublicKeyPEM(data)
}

// Options selects and configures a [PayloadCipher].
type Options struct {
	Mode Mode

	// SharedSecret is used in [ModeShared].
	SharedSecret string

	// PrivateKeyPath and PeerPublicKeyPath are used in [ModeHybrid]. Either
	// may be empty for one-directional use.
	PrivateKeyPath    string
	PeerPublicKeyPath string
}

// NewPayloadCipher builds the cipher for opts.Mode. An empty mode selects
// [ModeShared].
func NewPayloadCipher(opts Options) (PayloadCipher, error) {
	switch opts.Mode {
	case ModeShared, "":
		return NewSharedSecretCipher(opts.SharedSecret)
	case ModeHybrid:
		var (
			private *rsa.PrivateKey
			peer    *rsa.PublicKey
			err     error
		)
		if opts.PrivateKeyPath != "" {
			if private, err = LoadPrivateKey(opts.PrivateKeyPath); err != nil {
				return nil, err
			}
		}
		if opts.PeerPublicKeyPath != "" {
			if peer, err = LoadPublicKey(opts.PeerPublicKeyPath); err != nil {
				return nil, err
			}
		}
		return NewHybridCipher(private, peer)
	default:
		return nil, fmt.Errorf("unknown encryption mode %q", opts.Mode)
	}
}
