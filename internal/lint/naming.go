// Naming convention checks: the chapter's capitalization rules for
// packages, types, members, and constants.
// Implements: prd007-style-checks R3.
package lint

import (
	"fmt"

	"github.com/mesh-intelligence/docref/pkg/types"
)

// checkNames runs the naming rules over every declaration in the index.
func (l *Linter) checkNames(report func(file, subjectID string, fs []finding) error, stats *Stats) error {
	packages, err := l.idx.GetTable(types.TablePackages)
	if err != nil {
		return err
	}
	all, err := packages.Fetch(nil)
	if err != nil {
		return err
	}
	for _, item := range all {
		p := item.(*types.PackageDecl)
		if !isLowerPackageName(p.Name) {
			if err := report(p.File, p.PackageID, []finding{{
				rule:     "package-name-case",
				severity: types.SeverityWarning,
				message:  fmt.Sprintf("package name %q should be all lowercase", p.Name),
			}}); err != nil {
				return err
			}
		}
		stats.Declarations++
	}

	typesTbl, err := l.idx.GetTable(types.TableTypes)
	if err != nil {
		return err
	}
	all, err = typesTbl.Fetch(nil)
	if err != nil {
		return err
	}
	for _, item := range all {
		t := item.(*types.TypeDecl)
		if !isUpperCamel(t.SimpleName) {
			if err := report(t.File, t.TypeID, []finding{{
				rule:     "type-name-case",
				severity: types.SeverityWarning,
				line:     t.Line,
				message:  fmt.Sprintf("type name %q should be UpperCamelCase", t.SimpleName),
			}}); err != nil {
				return err
			}
		}
		stats.Declarations++
	}

	members, err := l.idx.GetTable(types.TableMembers)
	if err != nil {
		return err
	}
	all, err = members.Fetch(nil)
	if err != nil {
		return err
	}
	for _, item := range all {
		m := item.(*types.MemberDecl)
		if f := memberNameFinding(m); f != nil {
			if err := report(m.File, m.MemberID, []finding{*f}); err != nil {
				return err
			}
		}
		stats.Declarations++
	}
	return nil
}

// memberNameFinding applies the member rule that fits the member's kind:
// constants are UPPER_SNAKE_CASE, everything else lowerCamelCase.
// Constructors share the type's name and are covered by type-name-case.
func memberNameFinding(m *types.MemberDecl) *finding {
	if m.Kind == types.MemberKindConstructor {
		return nil
	}
	if m.IsConstant() {
		if !isUpperSnake(m.Name) {
			return &finding{
				rule:     "constant-name-case",
				severity: types.SeverityWarning,
				line:     m.Line,
				message:  fmt.Sprintf("constant name %q should be UPPER_SNAKE_CASE", m.Name),
			}
		}
		return nil
	}
	if !isLowerCamel(m.Name) {
		return &finding{
			rule:     "member-name-case",
			severity: types.SeverityWarning,
			line:     m.Line,
			message:  fmt.Sprintf("%s name %q should be lowerCamelCase", m.Kind, m.Name),
		}
	}
	return nil
}

func isLowerPackageName(name string) bool {
	for i := 0; i < len(name); i++ {
		if name[i] >= 'A' && name[i] <= 'Z' {
			return false
		}
	}
	return name != ""
}

func isUpperCamel(name string) bool {
	if name == "" || name[0] < 'A' || name[0] > 'Z' {
		return false
	}
	for i := 0; i < len(name); i++ {
		if name[i] == '_' {
			return false
		}
	}
	return true
}

func isLowerCamel(name string) bool {
	if name == "" || name[0] < 'a' || name[0] > 'z' {
		return false
	}
	for i := 0; i < len(name); i++ {
		if name[i] == '_' {
			return false
		}
	}
	return true
}

func isUpperSnake(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '_' {
			continue
		}
		return false
	}
	return name[0] != '_'
}
