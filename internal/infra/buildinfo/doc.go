// Package buildinfo exposes version information for the gmm7550 binary.
//
// Version, Commit and BuildTime are injected with ldflags:
//
//	go build -ldflags "-X github.com/yndnr/gmm7550-go/internal/infra/buildinfo.Version=v0.3.0"
//
// When a value is not injected, Get falls back to the module version and
// VCS settings recorded by the Go toolchain.
package buildinfo
