package lint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/docref/internal/sqlite"
	"github.com/mesh-intelligence/docref/pkg/types"
)

func rulesOf(fs []finding) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = f.rule
	}
	return out
}

func docComment(text string) *types.DocComment {
	return &types.DocComment{
		DocID: "doc-1", OwnerKind: types.OwnerType, OwnerID: "type-1",
		Text: text, File: "src/A.java", Line: 10,
	}
}

func TestCheckComment_Clean(t *testing.T) {
	fs := checkComment(docComment(`Computes the total.

@param input the values
@see Totals`), nil)
	assert.Empty(t, fs)
}

func TestCheckComment_TagOrder(t *testing.T) {
	fs := checkComment(docComment(`Does things.

@see Other
@param x the value`), nil)

	require.Len(t, fs, 1)
	assert.Equal(t, "tag-order", fs[0].rule)
	assert.Contains(t, fs[0].message, "@param conventionally comes before @see")
	// Line is absolute: comment line plus the tag's offset.
	assert.Equal(t, 13, fs[0].line)
}

func TestCheckComment_FirstSentence(t *testing.T) {
	fs := checkComment(docComment("@see Other"), nil)
	assert.Contains(t, rulesOf(fs), "first-sentence")
	for _, f := range fs {
		if f.rule == "first-sentence" {
			assert.Equal(t, types.SeverityInfo, f.severity)
		}
	}
}

func TestCheckComment_DeprecatedPointer(t *testing.T) {
	fs := checkComment(docComment(`Old entry point.

@deprecated gone soon`), nil)
	assert.Equal(t, []string{"deprecated-pointer"}, rulesOf(fs))

	fs = checkComment(docComment(`Old entry point.

@deprecated use {@link Replacement} instead`), nil)
	assert.Empty(t, fs)

	// An @see replacement also satisfies the rule.
	fs = checkComment(docComment(`Old entry point.

@see Replacement
@deprecated gone soon`), nil)
	assert.Empty(t, fs)
}

func TestCheckComment_SyntaxProblems(t *testing.T) {
	fs := checkComment(docComment(`Fine summary.

@whatever not a real tag`), nil)
	require.Len(t, fs, 1)
	assert.Equal(t, "comment-syntax", fs[0].rule)
	assert.Contains(t, fs[0].message, "@whatever")
}

func method(name, returnType string, paramTypes, paramNames []string) *types.MemberDecl {
	return &types.MemberDecl{
		Owner: "com.example.A", Name: name, Kind: types.MemberKindMethod,
		Params: paramTypes, ParamNames: paramNames,
		ReturnType: returnType, Visibility: "public",
		File: "src/A.java", Line: 20,
	}
}

func TestCheckMemberDoc_ParamCoverage(t *testing.T) {
	m := method("total", "int", []string{"int", "String"}, []string{"count", "label"})

	fs := checkComment(docComment(`Sums up.

@param count how many
@param label the prefix
@return the total`), m)
	assert.Empty(t, fs)

	fs = checkComment(docComment(`Sums up.

@param label the prefix
@param count how many
@return the total`), m)
	require.Len(t, fs, 1)
	assert.Equal(t, "param-coverage", fs[0].rule)
	assert.Contains(t, fs[0].message, "out of declaration order")

	fs = checkComment(docComment(`Sums up.

@param count how many
@param extra not declared
@return the total`), m)
	rules := rulesOf(fs)
	assert.Contains(t, rules, "param-coverage")
	var messages []string
	for _, f := range fs {
		messages = append(messages, f.message)
	}
	assert.Contains(t, messages, "@param extra does not match a declared parameter of total(int, String)")
	assert.Contains(t, messages, "missing @param label on total(int, String)")
}

func TestCheckMemberDoc_DuplicateParam(t *testing.T) {
	m := method("total", "int", []string{"int"}, []string{"count"})
	fs := checkComment(docComment(`Sums up.

@param count how many
@param count again
@return the total`), m)
	require.Len(t, fs, 1)
	assert.Equal(t, "duplicate @param count", fs[0].message)
}

func TestCheckMemberDoc_ReturnRequired(t *testing.T) {
	withReturn := `Does work.

@return the result`
	noReturn := "Does work."

	fs := checkComment(docComment(noReturn), method("total", "int", []string{}, []string{}))
	require.Len(t, fs, 1)
	assert.Equal(t, "return-required", fs[0].rule)
	assert.Contains(t, fs[0].message, "missing @return")

	fs = checkComment(docComment(withReturn), method("run", "void", []string{}, []string{}))
	require.Len(t, fs, 1)
	assert.Contains(t, fs[0].message, "@return on void method")

	ctor := &types.MemberDecl{
		Owner: "com.example.A", Name: "A", Kind: types.MemberKindConstructor,
		Params: []string{}, ParamNames: []string{}, Visibility: "public",
	}
	fs = checkComment(docComment(withReturn), ctor)
	require.Len(t, fs, 1)
	assert.Contains(t, fs[0].message, "@return on constructor")

	fs = checkComment(docComment(noReturn), method("run", "void", []string{}, []string{}))
	assert.Empty(t, fs)
}

func TestCheckMemberDoc_UnnamedParamsSkipCoverage(t *testing.T) {
	// The scan could not name the parameter, so coverage stays quiet.
	m := method("total", "void", []string{"int"}, []string{""})
	fs := checkComment(docComment("Sums up."), m)
	assert.Empty(t, fs)
}

func TestMemberNameFinding(t *testing.T) {
	field := func(name string, static, final bool) *types.MemberDecl {
		return &types.MemberDecl{
			Owner: "com.example.A", Name: name, Kind: types.MemberKindField,
			Static: static, Final: final,
		}
	}

	assert.Nil(t, memberNameFinding(field("count", false, false)))
	assert.Nil(t, memberNameFinding(field("MAX_SIZE", true, true)))

	f := memberNameFinding(field("Count", false, false))
	require.NotNil(t, f)
	assert.Equal(t, "member-name-case", f.rule)

	f = memberNameFinding(field("maxSize", true, true))
	require.NotNil(t, f)
	assert.Equal(t, "constant-name-case", f.rule)

	// Constructors share the type's name.
	assert.Nil(t, memberNameFinding(&types.MemberDecl{
		Name: "Account", Kind: types.MemberKindConstructor,
	}))
}

func TestLinter_Run(t *testing.T) {
	backend := sqlite.NewBackend()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}
	require.NoError(t, backend.Attach(cfg))
	t.Cleanup(func() { backend.Detach() })

	set := func(table string, entity any) string {
		tbl, err := backend.GetTable(table)
		require.NoError(t, err)
		id, err := tbl.Set("", entity)
		require.NoError(t, err)
		return id
	}

	set(types.TablePackages, &types.PackageDecl{Name: "Com.Example", File: "src"})
	set(types.TableTypes, &types.TypeDecl{
		QualifiedName: "Com.Example.parser", SimpleName: "parser",
		Package: "Com.Example", Kind: types.TypeKindClass,
		Visibility: "public", File: "src/parser.java",
	})
	memberID := set(types.TableMembers, &types.MemberDecl{
		Owner: "Com.Example.parser", Name: "run", Kind: types.MemberKindMethod,
		Params: []string{}, ParamNames: []string{}, ReturnType: "int",
		Visibility: "public", File: "src/parser.java", Line: 8,
	})
	set(types.TableComments, &types.DocComment{
		OwnerKind: types.OwnerMember, OwnerID: memberID,
		Text: "Runs the parser.", File: "src/parser.java", Line: 5,
	})

	stats, err := New(backend, nil).Run()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Comments)
	assert.Equal(t, 3, stats.Declarations)
	// package-name-case, type-name-case, and missing @return.
	assert.Equal(t, 3, stats.Findings)

	diagnostics, err := backend.GetTable(types.TableDiagnostics)
	require.NoError(t, err)
	seen := make(map[string]int)
	all, err := diagnostics.Fetch(nil)
	require.NoError(t, err)
	for _, item := range all {
		seen[item.(*types.Diagnostic).Rule]++
	}
	assert.Equal(t, map[string]int{
		"package-name-case": 1,
		"type-name-case":    1,
		"return-required":   1,
	}, seen)
}
