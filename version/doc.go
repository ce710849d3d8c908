// Package version reports build information for /info and --version.
//
// Values are stamped at link time:
//
//	go build -ldflags "-X github.com/esteticaio/api/version.Version=1.2.0 \
//	  -X github.com/esteticaio/api/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Unset values fall back to the VCS data Go embeds in the binary.
package version
