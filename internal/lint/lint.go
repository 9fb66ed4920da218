// Package lint checks doc comments and declaration names against the
// documentation chapter's conventions. Every finding becomes a diagnostic
// with a stable rule ID.
// Implements: prd007-style-checks R1-R4.
package lint

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/mesh-intelligence/docref/pkg/comment"
	"github.com/mesh-intelligence/docref/pkg/types"
)

// Stats summarizes one lint run.
type Stats struct {
	Comments     int
	Declarations int
	Findings     int
}

// Linter checks an attached index.
type Linter struct {
	idx types.Index
	log *slog.Logger
}

// New wraps an attached index.
func New(idx types.Index, log *slog.Logger) *Linter {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Linter{idx: idx, log: log}
}

// finding is one rule violation before it becomes a diagnostic.
type finding struct {
	rule     string
	severity string
	line     int
	message  string
}

// Run checks every doc comment and every declaration name, recording one
// diagnostic per finding.
func (l *Linter) Run() (*Stats, error) {
	diagnostics, err := l.idx.GetTable(types.TableDiagnostics)
	if err != nil {
		return nil, err
	}

	stats := &Stats{}

	report := func(file string, subjectID string, fs []finding) error {
		for _, f := range fs {
			subject := subjectID
			if _, err := diagnostics.Set("", &types.Diagnostic{
				Rule:      f.rule,
				Severity:  f.severity,
				File:      file,
				Line:      f.line,
				Message:   f.message,
				SubjectID: &subject,
			}); err != nil {
				return err
			}
			stats.Findings++
		}
		return nil
	}

	members, err := l.membersByID()
	if err != nil {
		return nil, err
	}

	comments, err := l.idx.GetTable(types.TableComments)
	if err != nil {
		return nil, err
	}
	all, err := comments.Fetch(nil)
	if err != nil {
		return nil, err
	}
	for _, item := range all {
		dc := item.(*types.DocComment)
		var owner *types.MemberDecl
		if dc.OwnerKind == types.OwnerMember {
			owner = members[dc.OwnerID]
		}
		if err := report(dc.File, dc.DocID, checkComment(dc, owner)); err != nil {
			return nil, err
		}
		stats.Comments++
	}

	if err := l.checkNames(report, stats); err != nil {
		return nil, err
	}

	l.log.Info("lint complete",
		"comments", stats.Comments,
		"declarations", stats.Declarations,
		"findings", stats.Findings)
	return stats, nil
}

func (l *Linter) membersByID() (map[string]*types.MemberDecl, error) {
	tbl, err := l.idx.GetTable(types.TableMembers)
	if err != nil {
		return nil, err
	}
	all, err := tbl.Fetch(nil)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*types.MemberDecl, len(all))
	for _, item := range all {
		m := item.(*types.MemberDecl)
		out[m.MemberID] = m
	}
	return out, nil
}

// checkComment runs the comment rules. owner is non-nil only for member
// comments; the coverage rules need the declared signature.
func checkComment(dc *types.DocComment, owner *types.MemberDecl) []finding {
	parsed := comment.Parse(dc.Text)
	var fs []finding
	at := func(offset int) int { return dc.Line + offset }

	for _, p := range parsed.Problems {
		fs = append(fs, finding{
			rule:     "comment-syntax",
			severity: types.SeverityWarning,
			line:     at(p.Line),
			message:  p.Message,
		})
	}

	// first-sentence: the summary sentence opens the comment.
	if parsed.Summary == "" {
		fs = append(fs, finding{
			rule:     "first-sentence",
			severity: types.SeverityInfo,
			line:     at(0),
			message:  "doc comment does not begin with a summary sentence",
		})
	}

	// tag-order: block tags in the conventional order.
	maxRank, maxTag := 0, ""
	for _, b := range parsed.Blocks {
		rank, known := comment.BlockTagRank(b.Name)
		if !known {
			continue
		}
		if rank < maxRank {
			fs = append(fs, finding{
				rule:     "tag-order",
				severity: types.SeverityWarning,
				line:     at(b.Line),
				message:  fmt.Sprintf("@%s conventionally comes before @%s", b.Name, maxTag),
			})
			continue
		}
		maxRank, maxTag = rank, b.Name
	}

	// deprecated-pointer: deprecation text names a replacement.
	if dep := parsed.Tag(comment.TagDeprecated); dep != nil {
		hasLink := strings.Contains(dep.Text, "{@link")
		if !hasLink && parsed.Tag(comment.TagSee) == nil {
			fs = append(fs, finding{
				rule:     "deprecated-pointer",
				severity: types.SeverityWarning,
				line:     at(dep.Line),
				message:  "@deprecated text should point at the replacement with {@link} or @see",
			})
		}
	}

	if owner != nil {
		fs = append(fs, checkMemberDoc(parsed, owner, at)...)
	}
	return fs
}

// checkMemberDoc runs param-coverage and return-required against the
// documented member's declared signature.
func checkMemberDoc(parsed *comment.Parsed, m *types.MemberDecl, at func(int) int) []finding {
	var fs []finding

	callable := m.Kind == types.MemberKindMethod || m.Kind == types.MemberKindConstructor

	// param-coverage. Skipped when the scan could not name every
	// parameter, so the rule never reports against a guess.
	if callable && len(m.ParamNames) == len(m.Params) && !hasEmpty(m.ParamNames) {
		declared := make(map[string]int, len(m.ParamNames))
		for i, name := range m.ParamNames {
			declared[name] = i
		}

		documented := make(map[string]bool)
		lastIdx := -1
		for _, b := range parsed.Tags(comment.TagParam) {
			fields := strings.Fields(b.Text)
			if len(fields) == 0 {
				fs = append(fs, finding{
					rule:     "param-coverage",
					severity: types.SeverityWarning,
					line:     at(b.Line),
					message:  "@param without a parameter name",
				})
				continue
			}
			name := fields[0]
			idx, ok := declared[name]
			if !ok {
				fs = append(fs, finding{
					rule:     "param-coverage",
					severity: types.SeverityWarning,
					line:     at(b.Line),
					message:  fmt.Sprintf("@param %s does not match a declared parameter of %s", name, m.Signature()),
				})
				continue
			}
			if documented[name] {
				fs = append(fs, finding{
					rule:     "param-coverage",
					severity: types.SeverityWarning,
					line:     at(b.Line),
					message:  fmt.Sprintf("duplicate @param %s", name),
				})
				continue
			}
			documented[name] = true
			if idx < lastIdx {
				fs = append(fs, finding{
					rule:     "param-coverage",
					severity: types.SeverityWarning,
					line:     at(b.Line),
					message:  fmt.Sprintf("@param %s out of declaration order", name),
				})
			}
			if idx > lastIdx {
				lastIdx = idx
			}
		}
		for _, name := range m.ParamNames {
			if !documented[name] {
				fs = append(fs, finding{
					rule:     "param-coverage",
					severity: types.SeverityWarning,
					line:     at(0),
					message:  fmt.Sprintf("missing @param %s on %s", name, m.Signature()),
				})
			}
		}
	}

	// return-required.
	ret := parsed.Tag(comment.TagReturn)
	switch {
	case m.Kind == types.MemberKindMethod && m.ReturnType != "void" && m.ReturnType != "" && ret == nil:
		fs = append(fs, finding{
			rule:     "return-required",
			severity: types.SeverityWarning,
			line:     at(0),
			message:  fmt.Sprintf("missing @return on %s, which returns %s", m.Signature(), m.ReturnType),
		})
	case m.Kind == types.MemberKindMethod && m.ReturnType == "void" && ret != nil:
		fs = append(fs, finding{
			rule:     "return-required",
			severity: types.SeverityWarning,
			line:     at(ret.Line),
			message:  fmt.Sprintf("@return on void method %s", m.Signature()),
		})
	case m.Kind == types.MemberKindConstructor && ret != nil:
		fs = append(fs, finding{
			rule:     "return-required",
			severity: types.SeverityWarning,
			line:     at(ret.Line),
			message:  fmt.Sprintf("@return on constructor %s", m.Signature()),
		})
	}

	return fs
}

func hasEmpty(names []string) bool {
	for _, n := range names {
		if n == "" {
			return true
		}
	}
	return false
}
