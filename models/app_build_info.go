// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// AppBuildInfo carries immutable build-time metadata embedded into binaries.
//
// Values are injected by linker flags during CI/CD and exposed by the
// version endpoint and the pipectl "version" output.
type AppBuildInfo struct {
	buildVersion string
	buildDate    string
	buildCommit  string
}

// NewAppBuildInfo constructs [AppBuildInfo] from the provided build metadata.
// Empty values are reported as "N/A".
func NewAppBuildInfo(buildVersion, buildDate, buildCommit string) AppBuildInfo {
	return AppBuildInfo{
		buildVersion: orNA(buildVersion),
		buildDate:    orNA(buildDate),
		buildCommit:  orNA(buildCommit),
	}
}

// BuildVersion returns the semantic version string of the build.
func (a AppBuildInfo) BuildVersion() string {
	return a.buildVersion
}

// BuildDate returns the build timestamp string.
func (a AppBuildInfo) BuildDate() string {
	return a.buildDate
}

// BuildCommit returns the source-control commit hash used for the build.
func (a AppBuildInfo) BuildCommit() string {
	return a.buildCommit
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// AppInfo is served by the version endpoint.
type AppInfo struct {
	Version         string `json:"version"`
	ProtocolVersion string `json:"protocolVersion"`
	BuildDate       string `json:"buildDate,omitempty"`
	BuildCommit     string `json:"buildCommit,omitempty"`
}

// HealthStatus is returned by the liveness probe.
type HealthStatus struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

// Health states reported by [HealthStatus].
const (
	HealthOK       = "ok"
	HealthDegraded = "degraded"
	StoreUp        = "up"
	StoreDown      = "down"
)
