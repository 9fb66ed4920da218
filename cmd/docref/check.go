// Check command runs the full pipeline: scan, resolve, lint, report.
// Implements: prd008-docref-cli R6; prd010-watch-mode R1.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/docref/internal/lint"
	"github.com/mesh-intelligence/docref/internal/resolve"
	"github.com/mesh-intelligence/docref/internal/sqlite"
	"github.com/mesh-intelligence/docref/internal/watch"
	"github.com/mesh-intelligence/docref/pkg/types"
)

var (
	flagWatch  bool
	flagFailOn string
)

var checkCmd = &cobra.Command{
	Use:   "check [roots...]",
	Short: "Scan, resolve, and lint in one pass",
	Long: `Check scans the given source roots, resolves cross-references, runs
the style checks, and prints every diagnostic. The exit code is 1 when any
diagnostic reaches the --fail-on severity.

With --watch, check re-runs whenever the source trees change, until
interrupted.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&flagWatch, "watch", false, "re-run on source changes")
	checkCmd.Flags().StringVar(&flagFailOn, "fail-on", types.SeverityError, "severity threshold for a failing exit code (info, warning, error)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	if !types.IsValidSeverity(flagFailOn) {
		return fmt.Errorf("invalid --fail-on severity %q: %w", flagFailOn, types.ErrInvalidSeverity)
	}

	roots, err := scanRoots(args)
	if err != nil {
		return err
	}

	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	if !flagWatch {
		return checkOnce(cmd, backend, roots)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	w, err := watch.New(watch.Options{Roots: roots, Logger: log})
	if err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	if err := checkOnce(cmd, backend, roots); err != nil && !errors.Is(err, errFindings) {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return <-done
		case batch, ok := <-w.Batches():
			if !ok {
				return <-done
			}
			log.Info("changes detected", "files", len(batch))
			// Findings never stop the watch loop; real failures do.
			if err := checkOnce(cmd, backend, roots); err != nil && !errors.Is(err, errFindings) {
				return err
			}
		}
	}
}

// checkOnce runs the pipeline and prints the diagnostics. Returns
// errFindings when any diagnostic reaches the --fail-on threshold.
func checkOnce(cmd *cobra.Command, backend *sqlite.Backend, roots []string) error {
	if _, err := scanInto(cmd, backend, roots); err != nil {
		return err
	}
	if _, err := resolve.New(backend, nil).Run(); err != nil {
		return err
	}
	if _, err := lint.New(backend, nil).Run(); err != nil {
		return err
	}

	diagnostics, err := backend.GetTable(types.TableDiagnostics)
	if err != nil {
		return err
	}
	all, err := diagnostics.Fetch(nil)
	if err != nil {
		return err
	}

	failing := 0
	found := make([]*types.Diagnostic, 0, len(all))
	for _, item := range all {
		d := item.(*types.Diagnostic)
		found = append(found, d)
		if d.SeverityAtLeast(flagFailOn) {
			failing++
		}
	}

	if flagJSON {
		if err := printJSON(found); err != nil {
			return err
		}
	} else {
		for _, d := range found {
			fmt.Printf("%s:%d: %s [%s] %s\n", d.File, d.Line, d.Severity, d.Rule, d.Message)
		}
		fmt.Printf("%d findings (%d at or above %s)\n", len(found), failing, flagFailOn)
	}

	if failing > 0 {
		return errFindings
	}
	return nil
}
