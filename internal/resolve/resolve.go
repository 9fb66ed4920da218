// Package resolve settles pending cross-references against the index.
//
// A feature reference is looked up in the order the documentation chapter
// prescribes: the current type, enclosing types outward, superclasses
// bottom-up, superinterfaces, then imported and current-package types by
// simple name, and finally as a fully-qualified name. A member cited
// without a parameter list on an overloaded name is ambiguous.
// Implements: prd006-reference-resolution R1-R6.
package resolve

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/mesh-intelligence/docref/pkg/types"
)

// Stats summarizes one resolution run.
type Stats struct {
	Resolved   int
	Unresolved int
	Ambiguous  int
}

// Resolver settles pending references in an attached index.
type Resolver struct {
	idx types.Index
	log *slog.Logger
}

// New wraps an attached index.
func New(idx types.Index, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Resolver{idx: idx, log: log}
}

// Run resolves every pending reference. String and anchor forms settle
// without lookup; feature forms go through the search order. Unresolved
// and ambiguous outcomes each add a diagnostic pointing at the reference.
func (r *Resolver) Run() (*Stats, error) {
	snap, err := loadSnapshot(r.idx)
	if err != nil {
		return nil, err
	}
	references, err := r.idx.GetTable(types.TableReferences)
	if err != nil {
		return nil, err
	}
	diagnostics, err := r.idx.GetTable(types.TableDiagnostics)
	if err != nil {
		return nil, err
	}

	pending, err := references.Fetch(map[string]any{"state": types.RefStatePending})
	if err != nil {
		return nil, err
	}

	stats := &Stats{}
	for _, item := range pending {
		rf := item.(*types.Reference)

		switch rf.Form {
		case types.RefFormString, types.RefFormAnchor:
			// No lookup: the token is its own target.
			if err := rf.Resolve("", ""); err != nil {
				return nil, err
			}
			rf.TargetID = nil
			stats.Resolved++

		case types.RefFormFeature:
			out := snap.resolveFeature(rf)
			switch out.state {
			case types.RefStateResolved:
				if err := rf.Resolve(out.targetID, out.anchor); err != nil {
					return nil, err
				}
				stats.Resolved++
			case types.RefStateAmbiguous:
				if err := rf.MarkAmbiguous(); err != nil {
					return nil, err
				}
				if err := r.report(diagnostics, rf, "ambiguous-ref", out.message); err != nil {
					return nil, err
				}
				stats.Ambiguous++
			default:
				if err := rf.MarkUnresolved(); err != nil {
					return nil, err
				}
				if err := r.report(diagnostics, rf, "unresolved-ref", out.message); err != nil {
					return nil, err
				}
				stats.Unresolved++
			}

		default:
			return nil, fmt.Errorf("reference %s has unknown form %q", rf.RefID, rf.Form)
		}

		if _, err := references.Set(rf.RefID, rf); err != nil {
			return nil, fmt.Errorf("updating reference %s: %w", rf.RefID, err)
		}
	}

	r.log.Info("resolution complete",
		"resolved", stats.Resolved,
		"unresolved", stats.Unresolved,
		"ambiguous", stats.Ambiguous)
	return stats, nil
}

// report records one resolution diagnostic for the given reference.
func (r *Resolver) report(diagnostics types.Table, rf *types.Reference, rule, message string) error {
	subject := rf.RefID
	_, err := diagnostics.Set("", &types.Diagnostic{
		Rule:      rule,
		Severity:  types.SeverityWarning,
		File:      rf.File,
		Line:      rf.Line,
		Message:   message,
		SubjectID: &subject,
	})
	return err
}

// outcome is the settled result of one feature lookup.
type outcome struct {
	state    string
	targetID string
	anchor   string
	message  string
}

func unresolved(raw string) outcome {
	return outcome{
		state:   types.RefStateUnresolved,
		message: fmt.Sprintf("cannot resolve reference %q", raw),
	}
}

// resolveFeature settles one feature reference against the snapshot.
func (s *snapshot) resolveFeature(rf *types.Reference) outcome {
	ctx := s.contextFor(rf)

	// Package reference.
	if rf.Package != "" && rf.Type == "" {
		pkg, ok := s.packagesByName[rf.Package]
		if !ok {
			return unresolved(rf.Raw)
		}
		return outcome{
			state:    types.RefStateResolved,
			targetID: pkg.PackageID,
			anchor:   packageAnchor(pkg.Name),
		}
	}

	// Type reference, possibly carrying a member.
	if rf.Type != "" {
		name := rf.Type
		if rf.Package != "" {
			name = rf.Package + "." + rf.Type
		}
		t := s.resolveType(name, ctx)
		if t == nil {
			return unresolved(rf.Raw)
		}
		if rf.Member == "" {
			return outcome{
				state:    types.RefStateResolved,
				targetID: t.TypeID,
				anchor:   typeAnchor(t),
			}
		}
		return s.findMember(s.supertypes(t), rf)
	}

	// Bare #member: searched from the citing comment's own type outward.
	seq := s.typeSequence(ctx)
	if len(seq) == 0 {
		return unresolved(rf.Raw)
	}
	return s.findMember(seq, rf)
}

// findMember searches the container sequence for the cited member. The
// search stops at the first container declaring the name; an overloaded
// name cited without a parameter list is ambiguous there. With a parameter
// list, a non-matching container defers to the rest of the sequence, since
// a supertype may declare the cited overload.
func (s *snapshot) findMember(containers []*types.TypeDecl, rf *types.Reference) outcome {
	for _, t := range containers {
		cands := s.membersNamed(t, rf.Member)
		if len(cands) == 0 {
			continue
		}
		if !rf.HasParams {
			if len(cands) > 1 {
				sigs := make([]string, len(cands))
				for i, m := range cands {
					sigs[i] = m.Signature()
				}
				return outcome{
					state: types.RefStateAmbiguous,
					message: fmt.Sprintf("%q matches %d overloads in %s: %s",
						rf.Raw, len(cands), t.QualifiedName, strings.Join(sigs, ", ")),
				}
			}
			return resolvedMember(t, cands[0], s)
		}
		for _, m := range cands {
			if m.MatchesParams(rf.Params) {
				return resolvedMember(t, m, s)
			}
		}
	}
	return unresolved(rf.Raw)
}

func resolvedMember(t *types.TypeDecl, m *types.MemberDecl, s *snapshot) outcome {
	return outcome{
		state:    types.RefStateResolved,
		targetID: m.MemberID,
		anchor:   s.memberAnchor(t, m),
	}
}

// packageAnchor renders the javadoc-shaped link target of a package.
func packageAnchor(name string) string {
	return strings.ReplaceAll(name, ".", "/") + "/package-summary.html"
}

// typeAnchor renders the javadoc-shaped link target of a type. Nested
// types keep their dotted local name (Map.Entry.html).
func typeAnchor(t *types.TypeDecl) string {
	local := t.QualifiedName
	if t.Package != "" {
		local = strings.TrimPrefix(t.QualifiedName, t.Package+".")
		return strings.ReplaceAll(t.Package, ".", "/") + "/" + local + ".html"
	}
	return local + ".html"
}

// memberAnchor renders the javadoc-shaped link target of a member.
// Callable parameters are qualified against the declaring file's imports
// when the index knows the parameter type; otherwise they stay as written.
func (s *snapshot) memberAnchor(t *types.TypeDecl, m *types.MemberDecl) string {
	base := typeAnchor(t) + "#" + m.Name
	if m.Kind == types.MemberKindField || m.Kind == types.MemberKindEnumConst {
		return base
	}
	params := make([]string, len(m.Params))
	for i, p := range m.Params {
		params[i] = s.qualifyParam(t, m, p)
	}
	return base + "(" + strings.Join(params, ",") + ")"
}

func (s *snapshot) qualifyParam(t *types.TypeDecl, m *types.MemberDecl, param string) string {
	base, dims := param, ""
	if i := strings.IndexByte(param, '['); i >= 0 {
		base, dims = param[:i], param[i:]
	}
	if strings.Contains(base, ".") || !isUpperInitial(base) {
		return param
	}
	if found := s.lookupTypeShallow(base, t.Package, m.File); found != nil {
		return found.QualifiedName + dims
	}
	return param
}

func isUpperInitial(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}
