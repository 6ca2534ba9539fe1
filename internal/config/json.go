// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/MKhiriev/go-secure-pipeline/models"
)

// StructuredJSONConfig is the on-disk JSON shape of [StructuredConfig].
// Durations are strings such as "30s" or numbers of nanoseconds.
type StructuredJSONConfig struct {
	App struct {
		Version  string `json:"version"`
		LogLevel string `json:"log_level"`
	} `json:"app,omitempty"`
	Server struct {
		HTTPAddress     string   `json:"http_address"`
		GRPCAddress     string   `json:"grpc_address"`
		RequestTimeout  Duration `json:"request_timeout"`
		ShutdownTimeout Duration `json:"shutdown_timeout"`
		MaxBodyBytes    int64    `json:"max_body_bytes"`
	} `json:"server,omitempty"`
	Security struct {
		SignatureVerificationEnabled *bool    `json:"signature_verification_enabled"`
		TimestampValidationEnabled   *bool    `json:"timestamp_validation_enabled"`
		EncryptionEnabled            *bool    `json:"encryption_enabled"`
		EncryptionRequired           *bool    `json:"encryption_required"`
		TimestampTolerance           Duration `json:"timestamp_tolerance"`
		NonceTTL                     Duration `json:"nonce_ttl"`
	} `json:"security,omitempty"`
	Crypto struct {
		HMACSharedSecret  string `json:"hmac_shared_secret"`
		EncryptionSecret  string `json:"encryption_secret"`
		Mode              string `json:"mode"`
		PrivateKeyPath    string `json:"private_key_path"`
		PeerPublicKeyPath string `json:"peer_public_key_path"`
	} `json:"crypto,omitempty"`
	Storage struct {
		Redis struct {
			URL      string `json:"url"`
			Addr     string `json:"addr"`
			Password string `json:"password"`
			DB       int    `json:"db"`
		} `json:"redis,omitempty"`
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
		OperationTimeout Duration `json:"operation_timeout"`
		Breaker          struct {
			MaxFailures uint32   `json:"max_failures"`
			OpenTimeout Duration `json:"open_timeout"`
		} `json:"breaker,omitempty"`
	} `json:"storage,omitempty"`
	Cache struct {
		RoutesFile string                    `json:"routes_file"`
		DefaultTTL Duration                  `json:"default_ttl"`
		Routes     map[string]jsonRouteCache `json:"routes"`
	} `json:"cache,omitempty"`
	Session struct {
		TokenSignKey  string   `json:"token_sign_key"`
		TokenIssuer   string   `json:"token_issuer"`
		TokenDuration Duration `json:"token_duration"`
	} `json:"session,omitempty"`
	Workers struct {
		AuditRetention         Duration `json:"audit_retention"`
		AuditRetentionInterval Duration `json:"audit_retention_interval"`
		HealthProbeInterval    Duration `json:"health_probe_interval"`
	} `json:"workers,omitempty"`
}

type jsonRouteCache struct {
	KeyPrefix string   `json:"key_prefix"`
	TTL       Duration `json:"ttl"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	var routes map[string]models.RouteCache
	if len(jsonCfg.Cache.Routes) > 0 {
		routes = make(map[string]models.RouteCache, len(jsonCfg.Cache.Routes))
		for id, r := range jsonCfg.Cache.Routes {
			routes[id] = models.RouteCache{KeyPrefix: r.KeyPrefix, TTL: time.Duration(r.TTL)}
		}
	}

	cfg := &StructuredConfig{
		App: App{
			Version:  jsonCfg.App.Version,
			LogLevel: jsonCfg.App.LogLevel,
		},
		Server: Server{
			HTTPAddress:     jsonCfg.Server.HTTPAddress,
			GRPCAddress:     jsonCfg.Server.GRPCAddress,
			RequestTimeout:  time.Duration(jsonCfg.Server.RequestTimeout),
			ShutdownTimeout: time.Duration(jsonCfg.Server.ShutdownTimeout),
			MaxBodyBytes:    jsonCfg.Server.MaxBodyBytes,
		},
		Security: Security{
			SignatureVerificationEnabled: jsonCfg.Security.SignatureVerificationEnabled,
			TimestampValidationEnabled:   jsonCfg.Security.TimestampValidationEnabled,
			EncryptionEnabled:            jsonCfg.Security.EncryptionEnabled,
			EncryptionRequired:           jsonCfg.Security.EncryptionRequired,
			TimestampTolerance:           time.Duration(jsonCfg.Security.TimestampTolerance),
			NonceTTL:                     time.Duration(jsonCfg.Security.NonceTTL),
		},
		Crypto: Crypto{
			HMACSharedSecret:  jsonCfg.Crypto.HMACSharedSecret,
			EncryptionSecret:  jsonCfg.Crypto.EncryptionSecret,
			Mode:              jsonCfg.Crypto.Mode,
			PrivateKeyPath:    jsonCfg.Crypto.PrivateKeyPath,
			PeerPublicKeyPath: jsonCfg.Crypto.PeerPublicKeyPath,
		},
		Storage: Storage{
			Redis: Redis{
				URL:      jsonCfg.Storage.Redis.URL,
				Addr:     jsonCfg.Storage.Redis.Addr,
				Password: jsonCfg.Storage.Redis.Password,
				DB:       jsonCfg.Storage.Redis.DB,
			},
			DB: DB{
				DSN: jsonCfg.Storage.DB.DSN,
			},
			OperationTimeout: time.Duration(jsonCfg.Storage.OperationTimeout),
			Breaker: Breaker{
				MaxFailures: jsonCfg.Storage.Breaker.MaxFailures,
				OpenTimeout: time.Duration(jsonCfg.Storage.Breaker.OpenTimeout),
			},
		},
		Cache: Cache{
			RoutesFile: jsonCfg.Cache.RoutesFile,
			DefaultTTL: time.Duration(jsonCfg.Cache.DefaultTTL),
			Routes:     routes,
		},
		Session: Session{
			TokenSignKey:  jsonCfg.Session.TokenSignKey,
			TokenIssuer:   jsonCfg.Session.TokenIssuer,
			TokenDuration: time.Duration(jsonCfg.Session.TokenDuration),
		},
		Workers: Workers{
			AuditRetention:         time.Duration(jsonCfg.Workers.AuditRetention),
			AuditRetentionInterval: time.Duration(jsonCfg.Workers.AuditRetentionInterval),
			HealthProbeInterval:    time.Duration(jsonCfg.Workers.HealthProbeInterval),
		},
		JSONFilePath: "",
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling from strings like "1h", "30s"
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return json.Unmarshal(b, (*time.Duration)(d))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
