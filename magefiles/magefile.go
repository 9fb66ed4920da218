//go:build mage

// Package main provides build targets for the docref project using Mage.
//
// Usage:
//
//	mage build            Compile docref binary to bin/
//	mage test:all         Run all tests (unit + integration)
//	mage test:unit        Run only unit tests (exclude integration)
//	mage test:integration Run only integration tests (builds first)
//	mage lint             Run golangci-lint
//	mage clean            Remove build artifacts
//	mage install          Install docref to GOPATH/bin
package main
