package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func TestScanner_WalksTree(t *testing.T) {
	root := writeTree(t, map[string]string{
		"com/example/Foo.java":  "package com.example;\npublic class Foo {}\n",
		"com/example/Bar.java":  "package com.example;\npublic class Bar {}\n",
		"com/example/notes.txt": "not java",
	})

	s, err := New(Options{Roots: []string{root}})
	require.NoError(t, err)

	res, err := s.Scan(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Files, 2)
	assert.Equal(t, []string{"com.example"}, res.Packages())
}

func TestScanner_ExcludeGlobs(t *testing.T) {
	root := writeTree(t, map[string]string{
		"src/App.java":          "package app;\npublic class App {}\n",
		"build/Generated.java":  "package gen;\npublic class Generated {}\n",
		"src/test/AppTest.java": "package app;\npublic class AppTest {}\n",
	})

	s, err := New(Options{
		Roots:   []string{root},
		Exclude: []string{"build/**", "**/test/**"},
	})
	require.NoError(t, err)

	res, err := s.Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Equal(t, "app", res.Files[0].Package)
}

func TestScanner_BadGlob(t *testing.T) {
	_, err := New(Options{Roots: []string{"."}, Include: []string{"[unclosed"}})
	assert.Error(t, err)
}

func TestScanner_NoRoots(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestScanner_PackageDocPrecedence(t *testing.T) {
	root := writeTree(t, map[string]string{
		"com/a/package-info.java": "/** Package a docs. */\npackage com.a;\n",
		"com/a/A.java":            "package com.a;\npublic class A {}\n",
		"com/b/package.html":      "<html><body>Package b docs from HTML.</body></html>\n",
		"com/b/B.java":            "package com.b;\npublic class B {}\n",
	})

	s, err := New(Options{Roots: []string{root}})
	require.NoError(t, err)
	res, err := s.Scan(context.Background())
	require.NoError(t, err)

	docA, _ := res.PackageDoc("com.a")
	require.NotNil(t, docA)
	assert.Equal(t, "Package a docs.", docA.Text)

	docB, pathB := res.PackageDoc("com.b")
	require.NotNil(t, docB)
	assert.Equal(t, "Package b docs from HTML.", docB.Text)
	assert.Contains(t, pathB, "package.html")

	docC, _ := res.PackageDoc("com.c")
	assert.Nil(t, docC)
}

func TestScanner_PackageInfoWinsOverHTML(t *testing.T) {
	root := writeTree(t, map[string]string{
		"com/a/package-info.java": "/** From package-info. */\npackage com.a;\n",
		"com/a/package.html":      "<html><body>From legacy HTML.</body></html>\n",
		"com/a/A.java":            "package com.a;\npublic class A {}\n",
	})

	s, err := New(Options{Roots: []string{root}})
	require.NoError(t, err)
	res, err := s.Scan(context.Background())
	require.NoError(t, err)

	doc, _ := res.PackageDoc("com.a")
	require.NotNil(t, doc)
	assert.Equal(t, "From package-info.", doc.Text)
}

func TestScanner_Overview(t *testing.T) {
	root := writeTree(t, map[string]string{
		"overview.html": "<html><body><p>The project overview.</p></body></html>\n",
		"com/a/A.java":  "package com.a;\npublic class A {}\n",
	})

	s, err := New(Options{Roots: []string{root}})
	require.NoError(t, err)
	res, err := s.Scan(context.Background())
	require.NoError(t, err)

	require.NotNil(t, res.Overview)
	assert.Equal(t, "The project overview.", res.Overview.Text)
}

func TestScanner_ContextCancel(t *testing.T) {
	root := writeTree(t, map[string]string{
		"A.java": "public class A {}\n",
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s, err := New(Options{Roots: []string{root}})
	require.NoError(t, err)
	_, err = s.Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadHTMLBody_NoBodyElement(t *testing.T) {
	root := writeTree(t, map[string]string{
		"package.html": "Plain text, <b>no body element</b>.\n",
	})

	doc, err := readHTMLBody(filepath.Join(root, "package.html"))
	require.NoError(t, err)
	assert.Equal(t, "Plain text, no body element.", doc.Text)
}
