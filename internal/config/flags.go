// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"errors"
	"flag"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// optionalBool is a boolean flag that remembers whether it was set, so an
// absent flag does not override other sources.
type optionalBool struct {
	value *bool
}

func (b *optionalBool) String() string {
	if b == nil || b.value == nil {
		return ""
	}
	return strconv.FormatBool(*b.value)
}

func (b *optionalBool) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	b.value = &v
	return nil
}

func (b *optionalBool) IsBoolFlag() bool { return true }

// parseFlags parses args into a configuration layer.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-grpc-address grpc server address in format [host]:[port]
//	-redis redis address host:port
//	-d audit database DSN
//	-c/-config json file path with configs
//	-cache-routes yaml file with cache routes
//	-crypto-mode encryption mode (shared, hybrid)
//	-private-key server RSA private key path
//	-peer-public-key client RSA public key path
//	-log-level log level
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-store-timeout key/value store operation timeout
//	-signature-verification, -timestamp-validation, -encryption,
//	-encryption-required stage toggles
func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	var serverAddress, grpcServerAddress NetAddress
	var redisAddress string
	var databaseDSN string
	var jsonConfigPath string
	var cacheRoutesPath string
	var cryptoMode string
	var privateKeyPath string
	var peerPublicKeyPath string
	var logLevel string
	var requestTimeout time.Duration
	var storeTimeout time.Duration
	var signature, timestamp, encryption, encryptionRequired optionalBool

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	fs.StringVar(&redisAddress, "redis", "", "Redis address host:port")
	fs.StringVar(&databaseDSN, "d", "", "Audit database DSN")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&cacheRoutesPath, "cache-routes", "", "YAML cache routes file path")
	fs.StringVar(&cryptoMode, "crypto-mode", "", "Encryption mode: shared or hybrid")
	fs.StringVar(&privateKeyPath, "private-key", "", "Server RSA private key path")
	fs.StringVar(&peerPublicKeyPath, "peer-public-key", "", "Client RSA public key path")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&storeTimeout, "store-timeout", 0, "Key/value store operation timeout")
	fs.Var(&signature, "signature-verification", "Verify request signatures")
	fs.Var(&timestamp, "timestamp-validation", "Validate timestamps and nonces")
	fs.Var(&encryption, "encryption", "Decrypt requests and encrypt responses")
	fs.Var(&encryptionRequired, "encryption-required", "Reject plaintext request bodies")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return &StructuredConfig{
		App: App{
			LogLevel: logLevel,
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			GRPCAddress:    grpcServerAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Security: Security{
			SignatureVerificationEnabled: signature.value,
			TimestampValidationEnabled:   timestamp.value,
			EncryptionEnabled:            encryption.value,
			EncryptionRequired:           encryptionRequired.value,
		},
		Crypto: Crypto{
			Mode:              cryptoMode,
			PrivateKeyPath:    privateKeyPath,
			PeerPublicKeyPath: peerPublicKeyPath,
		},
		Storage: Storage{
			Redis: Redis{
				Addr: redisAddress,
			},
			DB: DB{
				DSN: databaseDSN,
			},
			OperationTimeout: storeTimeout,
		},
		Cache: Cache{
			RoutesFile: cacheRoutesPath,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}
	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// An empty host listens on all interfaces. Other hosts must be "localhost"
// or an IP address.
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in 1..65535")
	}

	if host != "" && host != "localhost" {
		ip := net.ParseIP(host)
		if ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port

	return nil
}
