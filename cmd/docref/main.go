// Package main provides the docref CLI: a local-first index of Java API
// documentation comments and their cross-references.
// Implements: prd008-docref-cli R1, R8.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mesh-intelligence/docref/pkg/types"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFindings) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(exitCodeFor(err))
	}
}

// errFindings signals that check found diagnostics at or above the
// --fail-on threshold. It carries exit code 1 without an error banner;
// the findings were already printed.
var errFindings = errors.New("findings above threshold")

// userErrors are the sentinel errors caused by bad input rather than a
// failing system.
var userErrors = []error{
	errFindings,
	types.ErrTableNotFound,
	types.ErrNotFound,
	types.ErrInvalidFilter,
	types.ErrInvalidSeverity,
	types.ErrInvalidData,
	types.ErrBackendUnknown,
	types.ErrBackendEmpty,
}

func exitCodeFor(err error) int {
	for _, sentinel := range userErrors {
		if errors.Is(err, sentinel) {
			return exitUserError
		}
	}
	return exitSysError
}
