package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/docref/internal/sqlite"
	"github.com/mesh-intelligence/docref/pkg/types"
)

func attachedIndex(t *testing.T) types.Index {
	t.Helper()
	backend := sqlite.NewBackend()
	cfg := types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}
	require.NoError(t, backend.Attach(cfg))
	t.Cleanup(func() { backend.Detach() })
	return backend
}

const indexSource = `package com.example;

/**
 * A container for one value.
 *
 * @see java.util.List
 * @see #
 */
public class Box {

    /**
     * Adds a value, backed by {@link java.util.List#add(Object)}.
     *
     * @param value the value to add
     * @throws IllegalStateException when the box is sealed
     */
    public void add(Object value) {}
}
`

func applySample(t *testing.T) (types.Index, *Stats) {
	t.Helper()
	idx := attachedIndex(t)

	fd := scanFile("src/Box.java", indexSource, false)
	res := &Result{Files: []*FileDecls{fd}}

	stats, err := NewIndexer(idx, nil).Apply(res)
	require.NoError(t, err)
	return idx, stats
}

func TestIndexer_Stats(t *testing.T) {
	_, stats := applySample(t)

	assert.Equal(t, 1, stats.Packages)
	assert.Equal(t, 1, stats.Types)
	assert.Equal(t, 1, stats.Members)
	assert.Equal(t, 2, stats.Comments)
	// Three parseable references; "@see #" is malformed and becomes a
	// diagnostic instead.
	assert.Equal(t, 3, stats.References)
}

func TestIndexer_CommentOwnership(t *testing.T) {
	idx, _ := applySample(t)

	typesTbl, err := idx.GetTable(types.TableTypes)
	require.NoError(t, err)
	comments, err := idx.GetTable(types.TableComments)
	require.NoError(t, err)
	members, err := idx.GetTable(types.TableMembers)
	require.NoError(t, err)

	found, err := typesTbl.Fetch(map[string]any{"qualified_name": "com.example.Box"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	box := found[0].(*types.TypeDecl)
	require.NotNil(t, box.DocID)

	got, err := comments.Get(*box.DocID)
	require.NoError(t, err)
	dc := got.(*types.DocComment)
	assert.Equal(t, types.OwnerType, dc.OwnerKind)
	assert.Equal(t, box.TypeID, dc.OwnerID)
	assert.Contains(t, dc.Text, "A container for one value.")

	found, err = members.Fetch(map[string]any{"name": "add"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	add := found[0].(*types.MemberDecl)
	require.NotNil(t, add.DocID)

	got, err = comments.Get(*add.DocID)
	require.NoError(t, err)
	dc = got.(*types.DocComment)
	assert.Equal(t, types.OwnerMember, dc.OwnerKind)
	assert.Equal(t, add.MemberID, dc.OwnerID)
}

func TestIndexer_PendingReferences(t *testing.T) {
	idx, _ := applySample(t)

	references, err := idx.GetTable(types.TableReferences)
	require.NoError(t, err)
	all, err := references.Fetch(nil)
	require.NoError(t, err)
	require.Len(t, all, 3)

	byTag := make(map[string]*types.Reference)
	for _, item := range all {
		r := item.(*types.Reference)
		assert.Equal(t, types.RefStatePending, r.State)
		assert.Equal(t, "src/Box.java", r.File)
		assert.Greater(t, r.Line, 0)
		assert.NotEmpty(t, r.DocID)
		byTag[r.Tag] = r
	}

	see := byTag[types.RefTagSee]
	require.NotNil(t, see)
	assert.Equal(t, types.RefFormFeature, see.Form)
	assert.Equal(t, "java.util", see.Package)
	assert.Equal(t, "List", see.Type)
	assert.Empty(t, see.Member)
	assert.False(t, see.HasParams)

	link := byTag[types.RefTagLink]
	require.NotNil(t, link)
	assert.Equal(t, "List", link.Type)
	assert.Equal(t, "add", link.Member)
	assert.Equal(t, []string{"Object"}, link.Params)
	assert.True(t, link.HasParams)

	throws := byTag[types.RefTagThrows]
	require.NotNil(t, throws)
	assert.Equal(t, "IllegalStateException", throws.Type)
	assert.Empty(t, throws.Package)
}

func TestIndexer_MalformedReferenceDiagnostic(t *testing.T) {
	idx, _ := applySample(t)

	diagnostics, err := idx.GetTable(types.TableDiagnostics)
	require.NoError(t, err)
	all, err := diagnostics.Fetch(map[string]any{"rule": "malformed-ref"})
	require.NoError(t, err)
	require.Len(t, all, 1)

	d := all[0].(*types.Diagnostic)
	assert.Equal(t, types.SeverityError, d.Severity)
	assert.Equal(t, "src/Box.java", d.File)
	assert.Contains(t, d.Message, `"#"`)
	require.NotNil(t, d.SubjectID)

	// The diagnostic points at the comment carrying the bad token.
	comments, err := idx.GetTable(types.TableComments)
	require.NoError(t, err)
	got, err := comments.Get(*d.SubjectID)
	require.NoError(t, err)
	assert.Equal(t, types.OwnerType, got.(*types.DocComment).OwnerKind)
}

func TestIndexer_PackageDocAndOverview(t *testing.T) {
	idx := attachedIndex(t)

	pkgInfo := scanFile("src/com/example/package-info.java", `/**
 * Example containers.
 *
 * @see com.example.Box
 */
package com.example;
`, true)
	box := scanFile("src/com/example/Box.java", "package com.example;\npublic class Box {}\n", false)

	res := &Result{
		Files:        []*FileDecls{pkgInfo, box},
		Overview:     &DocText{Text: "The whole project at a glance.", Line: 1},
		OverviewPath: "src/overview.html",
	}
	stats, err := NewIndexer(idx, nil).Apply(res)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Packages)
	assert.Equal(t, 2, stats.Comments)
	assert.Equal(t, 1, stats.References)

	packages, err := idx.GetTable(types.TablePackages)
	require.NoError(t, err)
	found, err := packages.Fetch(map[string]any{"name": "com.example"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	pkg := found[0].(*types.PackageDecl)
	require.NotNil(t, pkg.DocID)

	comments, err := idx.GetTable(types.TableComments)
	require.NoError(t, err)
	got, err := comments.Get(*pkg.DocID)
	require.NoError(t, err)
	dc := got.(*types.DocComment)
	assert.Equal(t, types.OwnerPackage, dc.OwnerKind)
	assert.Equal(t, pkg.PackageID, dc.OwnerID)

	overviews, err := comments.Fetch(map[string]any{"owner_kind": types.OwnerOverview})
	require.NoError(t, err)
	require.Len(t, overviews, 1)
	assert.Empty(t, overviews[0].(*types.DocComment).OwnerID)
}

func TestIndexer_ImportsStored(t *testing.T) {
	idx := attachedIndex(t)

	fd := scanFile("src/A.java", `package com.example;

import java.util.List;
import java.io.*;

public class A {}
`, false)
	stats, err := NewIndexer(idx, nil).Apply(&Result{Files: []*FileDecls{fd}})
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Imports)

	imports, err := idx.GetTable(types.TableImports)
	require.NoError(t, err)
	all, err := imports.Fetch(map[string]any{"file": "src/A.java"})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
