// Package scanner walks Java source trees and captures packages, types,
// members, imports, and doc comments by lexical scan. No Java parser is
// involved: the capture is ctags-style, driven by comment/string state and
// brace depth.
// Implements: prd003-source-scanner R1, R5, R6; prd010-watch-mode R2.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultInclude matches every Java source file under a root.
var DefaultInclude = []string{"**/*.java"}

// Options configures a scan.
type Options struct {
	Roots   []string // Source tree roots; at least one is required.
	Include []string // Doublestar globs over root-relative paths; DefaultInclude if empty.
	Exclude []string // Doublestar globs; matching files and directories are skipped.
	Logger  *slog.Logger
}

// Result is everything captured from one scan across all roots.
type Result struct {
	Files        []*FileDecls
	Overview     *DocText // From overview.html at a root, if present.
	OverviewPath string

	// packageHTML holds package.html body text per directory, used as the
	// package doc fallback when no package-info.java exists.
	packageHTML map[string]*DocText
}

// Scanner walks source trees per its Options.
type Scanner struct {
	opts Options
	log  *slog.Logger
}

// New creates a Scanner. At least one root is required.
func New(opts Options) (*Scanner, error) {
	if len(opts.Roots) == 0 {
		return nil, fmt.Errorf("scanner: no roots given")
	}
	if len(opts.Include) == 0 {
		opts.Include = DefaultInclude
	}
	for _, pattern := range append(append([]string{}, opts.Include...), opts.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("scanner: bad glob pattern %q", pattern)
		}
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Scanner{opts: opts, log: log}, nil
}

// Scan walks every root and captures declarations from matching files.
// package.html and overview.html are picked up regardless of the include
// globs; excludes apply to them too.
func (s *Scanner) Scan(ctx context.Context) (*Result, error) {
	res := &Result{packageHTML: make(map[string]*DocText)}
	scanned := 0

	for _, root := range s.opts.Roots {
		root = filepath.Clean(root)
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}

			rel, relErr := filepath.Rel(root, path)
			if relErr != nil {
				return relErr
			}
			rel = filepath.ToSlash(rel)

			if d.IsDir() {
				if rel != "." && s.excluded(rel) {
					return fs.SkipDir
				}
				return nil
			}
			if s.excluded(rel) {
				return nil
			}

			base := d.Name()
			switch {
			case base == "overview.html":
				if res.Overview == nil {
					doc, err := readHTMLBody(path)
					if err != nil {
						return err
					}
					res.Overview = doc
					res.OverviewPath = path
				}
				return nil
			case base == "package.html":
				doc, err := readHTMLBody(path)
				if err != nil {
					return err
				}
				res.packageHTML[filepath.Dir(path)] = doc
				return nil
			}

			if !s.included(rel) {
				return nil
			}

			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading %s: %w", path, err)
			}
			fd := scanFile(path, string(src), base == "package-info.java")
			res.Files = append(res.Files, fd)
			scanned++
			s.log.Debug("scanned file",
				"path", path,
				"package", fd.Package,
				"types", len(fd.Types),
				"members", len(fd.Members))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	s.log.Info("scan complete", "roots", len(s.opts.Roots), "files", scanned)
	return res, nil
}

// PackageDoc returns the doc for the named package: package-info.java wins,
// then the package.html next to the package's sources.
func (r *Result) PackageDoc(pkg string) (*DocText, string) {
	var htmlDoc *DocText
	var htmlPath string
	for _, fd := range r.Files {
		if fd.Package != pkg {
			continue
		}
		if fd.PackageDoc != nil {
			return fd.PackageDoc, fd.Path
		}
		dir := filepath.Dir(fd.Path)
		if doc, ok := r.packageHTML[dir]; ok && htmlDoc == nil {
			htmlDoc = doc
			htmlPath = filepath.Join(dir, "package.html")
		}
	}
	return htmlDoc, htmlPath
}

// Packages returns the distinct package names seen, sorted by first
// appearance.
func (r *Result) Packages() []string {
	seen := make(map[string]bool)
	var out []string
	for _, fd := range r.Files {
		if fd.Package == "" || seen[fd.Package] {
			continue
		}
		seen[fd.Package] = true
		out = append(out, fd.Package)
	}
	return out
}

func (s *Scanner) included(rel string) bool {
	for _, pattern := range s.opts.Include {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

func (s *Scanner) excluded(rel string) bool {
	for _, pattern := range s.opts.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		// A directory is excluded when the pattern matches it directly or
		// everything under it.
		if ok, _ := doublestar.Match(strings.TrimSuffix(pattern, "/**"), rel); ok {
			return true
		}
	}
	return false
}
