package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/docref/pkg/types"
)

const sampleSource = `/*
 * Copyright notice, not a doc comment.
 */
package com.example.shapes;

import java.util.List;
import java.util.*;
import static java.lang.Math.PI;

/**
 * A two-dimensional shape.
 *
 * @see Circle
 */
public abstract class Shape implements Comparable<Shape>, Cloneable {

    /** The display name. */
    protected String name;

    public static final int MAX_VERTICES = 1024, MIN_VERTICES = 3;

    /**
     * Creates a shape with the given name.
     *
     * @param name the display name
     */
    public Shape(String name) {
        this.name = "shape: " + name; // string with { braces }
    }

    /**
     * Computes the area.
     *
     * @return the area in square units
     */
    public abstract double area();

    public <T> List<T> collect(List<? extends T> input, int limit) {
        if (limit > 0) {
            return new ArrayList<>(input);
        }
        return List.of();
    }

    /** Vertex of a shape. */
    public static class Vertex {
        public double x;
        public double y;
    }
}
`

func TestScanFile_PackageAndImports(t *testing.T) {
	fd := scanFile("src/Shape.java", sampleSource, false)

	assert.Equal(t, "com.example.shapes", fd.Package)
	assert.Equal(t, 4, fd.PackageLine)

	require.Len(t, fd.Imports, 3)
	assert.Equal(t, "java.util.List", fd.Imports[0].Path)
	assert.False(t, fd.Imports[0].OnDemand)
	assert.Equal(t, "java.util", fd.Imports[1].Path)
	assert.True(t, fd.Imports[1].OnDemand)
	assert.Equal(t, "java.lang.Math.PI", fd.Imports[2].Path)
	assert.True(t, fd.Imports[2].Static)
}

func TestScanFile_Types(t *testing.T) {
	fd := scanFile("src/Shape.java", sampleSource, false)

	require.Len(t, fd.Types, 2)

	shape := fd.Types[0]
	assert.Equal(t, "com.example.shapes.Shape", shape.Decl.QualifiedName)
	assert.Equal(t, "Shape", shape.Decl.SimpleName)
	assert.Equal(t, types.TypeKindClass, shape.Decl.Kind)
	assert.Equal(t, "public", shape.Decl.Visibility)
	assert.Nil(t, shape.Decl.Enclosing)
	assert.Nil(t, shape.Decl.Extends)
	assert.Equal(t, []string{"Comparable", "Cloneable"}, shape.Decl.Implements)
	require.NotNil(t, shape.Doc)
	assert.Contains(t, shape.Doc.Text, "A two-dimensional shape.")
	assert.Contains(t, shape.Doc.Text, "@see Circle")

	vertex := fd.Types[1]
	assert.Equal(t, "com.example.shapes.Shape.Vertex", vertex.Decl.QualifiedName)
	require.NotNil(t, vertex.Decl.Enclosing)
	assert.Equal(t, "com.example.shapes.Shape", *vertex.Decl.Enclosing)
	require.NotNil(t, vertex.Doc)
	assert.Equal(t, "Vertex of a shape.", vertex.Doc.Text)
}

func TestScanFile_Members(t *testing.T) {
	fd := scanFile("src/Shape.java", sampleSource, false)

	byName := make(map[string]*types.MemberDecl)
	for _, mi := range fd.Members {
		byName[mi.Decl.Owner+"#"+mi.Decl.Name] = mi.Decl
	}

	name := byName["com.example.shapes.Shape#name"]
	require.NotNil(t, name)
	assert.Equal(t, types.MemberKindField, name.Kind)
	assert.Equal(t, "String", name.ReturnType)
	assert.Equal(t, "protected", name.Visibility)

	maxV := byName["com.example.shapes.Shape#MAX_VERTICES"]
	require.NotNil(t, maxV)
	assert.True(t, maxV.IsConstant())
	minV := byName["com.example.shapes.Shape#MIN_VERTICES"]
	require.NotNil(t, minV)
	assert.Equal(t, "int", minV.ReturnType)

	ctor := byName["com.example.shapes.Shape#Shape"]
	require.NotNil(t, ctor)
	assert.Equal(t, types.MemberKindConstructor, ctor.Kind)
	assert.Equal(t, []string{"String"}, ctor.Params)
	assert.Equal(t, []string{"name"}, ctor.ParamNames)
	assert.Empty(t, ctor.ReturnType)

	area := byName["com.example.shapes.Shape#area"]
	require.NotNil(t, area)
	assert.Equal(t, types.MemberKindMethod, area.Kind)
	assert.Equal(t, "double", area.ReturnType)
	assert.Equal(t, []string{}, area.Params)

	collect := byName["com.example.shapes.Shape#collect"]
	require.NotNil(t, collect)
	assert.Equal(t, []string{"List", "int"}, collect.Params)
	assert.Equal(t, []string{"input", "limit"}, collect.ParamNames)
	assert.Equal(t, "List", collect.ReturnType)

	// Nested type fields belong to the nested type.
	x := byName["com.example.shapes.Shape.Vertex#x"]
	require.NotNil(t, x)
	assert.Equal(t, types.MemberKindField, x.Kind)

	// Local variables inside method bodies are not members.
	assert.Nil(t, byName["com.example.shapes.Shape#limit"])
}

func TestScanFile_MemberDocs(t *testing.T) {
	fd := scanFile("src/Shape.java", sampleSource, false)

	for _, mi := range fd.Members {
		switch mi.Decl.Name {
		case "name":
			require.NotNil(t, mi.Doc, "field name should carry its doc")
			assert.Equal(t, "The display name.", mi.Doc.Text)
		case "Shape":
			require.NotNil(t, mi.Doc)
			assert.Contains(t, mi.Doc.Text, "@param name the display name")
		case "collect", "MIN_VERTICES":
			assert.Nil(t, mi.Doc)
		}
	}
}

func TestScanFile_Enum(t *testing.T) {
	src := `package com.example;

/** Cardinal directions. */
public enum Direction {
    /** Toward the top of the map. */
    NORTH,
    SOUTH,
    EAST(90),
    WEST(270) {
        @Override
        public boolean isVertical() { return false; }
    };

    private final int degrees;

    Direction(int degrees) { this.degrees = degrees; }

    Direction() { this(0); }

    public boolean isVertical() { return true; }
}
`
	fd := scanFile("src/Direction.java", src, false)

	require.Len(t, fd.Types, 1)
	assert.Equal(t, types.TypeKindEnum, fd.Types[0].Decl.Kind)

	var constants, methods, ctors, fields int
	for _, mi := range fd.Members {
		if mi.Decl.Owner != "com.example.Direction" {
			continue
		}
		switch mi.Decl.Kind {
		case types.MemberKindEnumConst:
			constants++
		case types.MemberKindMethod:
			methods++
		case types.MemberKindConstructor:
			ctors++
		case types.MemberKindField:
			fields++
		}
	}
	assert.Equal(t, 4, constants)
	assert.Equal(t, 2, ctors)
	assert.Equal(t, 1, fields)
	// isVertical declared once on the enum; the constant-body override is
	// inside an anonymous body and not captured.
	assert.Equal(t, 1, methods)

	for _, mi := range fd.Members {
		if mi.Decl.Name == "NORTH" {
			require.NotNil(t, mi.Doc)
			assert.Equal(t, "Toward the top of the map.", mi.Doc.Text)
		}
	}
}

func TestScanFile_InterfaceAndAnnotation(t *testing.T) {
	src := `package com.example;

public interface Closer extends AutoCloseable, Flushable {
    int RETRIES = 3;

    void close();
}

@interface Marker {
    String value();
}
`
	fd := scanFile("src/Closer.java", src, false)

	require.Len(t, fd.Types, 2)
	closer := fd.Types[0].Decl
	assert.Equal(t, types.TypeKindInterface, closer.Kind)
	assert.Equal(t, []string{"AutoCloseable", "Flushable"}, closer.Implements)
	assert.Nil(t, closer.Extends)

	marker := fd.Types[1].Decl
	assert.Equal(t, types.TypeKindAnnotation, marker.Kind)

	for _, mi := range fd.Members {
		switch mi.Decl.Name {
		case "RETRIES":
			// Interface fields are implicitly public static final.
			assert.Equal(t, "public", mi.Decl.Visibility)
			assert.True(t, mi.Decl.IsConstant())
		case "close", "value":
			assert.Equal(t, types.MemberKindMethod, mi.Decl.Kind)
			assert.Equal(t, "public", mi.Decl.Visibility)
		}
	}
}

func TestScanFile_PackageInfo(t *testing.T) {
	src := `/**
 * Geometric shape primitives.
 *
 * @see com.example.shapes.Shape
 */
package com.example.shapes;
`
	fd := scanFile("src/com/example/shapes/package-info.java", src, true)

	assert.Equal(t, "com.example.shapes", fd.Package)
	require.NotNil(t, fd.PackageDoc)
	assert.Contains(t, fd.PackageDoc.Text, "Geometric shape primitives.")
	assert.Equal(t, 1, fd.PackageDoc.Line)
}

func TestScanFile_DefaultPackage(t *testing.T) {
	src := `public class Standalone {
    public void run() {}
}
`
	fd := scanFile("src/Standalone.java", src, false)

	assert.Empty(t, fd.Package)
	require.Len(t, fd.Types, 1)
	assert.Equal(t, "Standalone", fd.Types[0].Decl.QualifiedName)
}

func TestScanFile_ExtendsWithGenerics(t *testing.T) {
	src := `package com.example;

public class Registry<K, V> extends AbstractMap<K, V> implements Map<K, V> {
}
`
	fd := scanFile("src/Registry.java", src, false)

	require.Len(t, fd.Types, 1)
	decl := fd.Types[0].Decl
	assert.Equal(t, "Registry", decl.SimpleName)
	require.NotNil(t, decl.Extends)
	assert.Equal(t, "AbstractMap", *decl.Extends)
	assert.Equal(t, []string{"Map"}, decl.Implements)
}

func TestScanFile_ArrayFieldInitializer(t *testing.T) {
	src := `package com.example;

public class Table {
    private static final int[] SIZES = {1, 2, 4, 8};
    public String[] labels;
}
`
	fd := scanFile("src/Table.java", src, false)

	byName := make(map[string]*types.MemberDecl)
	for _, mi := range fd.Members {
		byName[mi.Decl.Name] = mi.Decl
	}
	require.NotNil(t, byName["SIZES"])
	assert.Equal(t, "int[]", byName["SIZES"].ReturnType)
	require.NotNil(t, byName["labels"])
	assert.Equal(t, "String[]", byName["labels"].ReturnType)
	// Initializer values are not members.
	assert.Len(t, fd.Members, 2)
}

func TestScanFile_AnnotatedDeclarations(t *testing.T) {
	src := `package com.example;

@Deprecated
@SuppressWarnings("unchecked")
public class Legacy {
    @Override
    public String toString() { return "legacy"; }
}
`
	fd := scanFile("src/Legacy.java", src, false)

	require.Len(t, fd.Types, 1)
	assert.Equal(t, "Legacy", fd.Types[0].Decl.SimpleName)

	require.Len(t, fd.Members, 1)
	assert.Equal(t, "toString", fd.Members[0].Decl.Name)
	assert.Equal(t, "String", fd.Members[0].Decl.ReturnType)
}
