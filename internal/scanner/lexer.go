// Lexical declaration capture for one Java source file. This is a
// ctags-style scan, not a parser: comments, strings, and braces are
// tracked exactly, declarations are recognized from the token shapes that
// precede ';' and '{' delimiters.
// Implements: prd003-source-scanner R2, R3, R4.
package scanner

import (
	"strings"
	"unicode"

	"github.com/mesh-intelligence/docref/pkg/comment"
	"github.com/mesh-intelligence/docref/pkg/ref"
	"github.com/mesh-intelligence/docref/pkg/types"
)

// DocText is one captured doc comment, body already stripped.
type DocText struct {
	Text string
	Line int // Line of the opening delimiter, 1-based.
}

// TypeInfo pairs a captured type declaration with its doc comment.
type TypeInfo struct {
	Decl *types.TypeDecl
	Doc  *DocText
}

// MemberInfo pairs a captured member declaration with its doc comment.
type MemberInfo struct {
	Decl *types.MemberDecl
	Doc  *DocText
}

// FileDecls is everything captured from one source file.
type FileDecls struct {
	Path        string
	Package     string // "" for the default package.
	PackageLine int
	PackageDoc  *DocText // Set only for package-info.java.
	Imports     []*types.ImportDecl
	Types       []TypeInfo
	Members     []MemberInfo
}

// openType is a type declaration whose body is currently open.
type openType struct {
	decl         *types.TypeDecl
	depth        int  // Brace depth of the body contents.
	constSection bool // Enum constant section, up to the first ';'.
}

// fileLexer walks the source text once, tracking comment/string state and
// brace depth, flushing a code segment at each ';', '{', '}' (and ',' in an
// enum constant section).
type fileLexer struct {
	out        *FileDecls
	seg        strings.Builder
	segEmpty   bool
	segLine    int // Line of the segment's first code character.
	line       int
	depth      int
	stack      []*openType
	pendingDoc *DocText
}

// modifier keywords recognized in declarations.
var modifierWords = map[string]bool{
	"public": true, "protected": true, "private": true,
	"static": true, "final": true, "abstract": true,
	"default": true, "native": true, "synchronized": true,
	"transient": true, "volatile": true, "strictfp": true,
	"sealed": true, "non-sealed": true,
}

// scanFile captures the declarations of one Java source file. The path is
// recorded on every captured entity; isPackageInfo routes the leading doc
// comment to the package instead of a type.
func scanFile(path string, src string, isPackageInfo bool) *FileDecls {
	lx := &fileLexer{
		out:      &FileDecls{Path: path},
		line:     1,
		segLine:  1,
		segEmpty: true,
	}

	i := 0
	n := len(src)
	for i < n {
		c := src[i]
		switch {
		case c == '\n':
			lx.line++
			lx.seg.WriteByte(' ')
			i++
		case c == '/' && i+1 < n && src[i+1] == '/':
			for i < n && src[i] != '\n' {
				i++
			}
			lx.seg.WriteByte(' ')
		case c == '/' && i+1 < n && src[i+1] == '*':
			isDoc := i+2 < n && src[i+2] == '*' && !(i+3 < n && src[i+3] == '/')
			start := i
			startLine := lx.line
			i += 2
			for i < n {
				if src[i] == '\n' {
					lx.line++
				}
				if src[i] == '*' && i+1 < n && src[i+1] == '/' {
					i += 2
					break
				}
				i++
			}
			if isDoc {
				raw := src[start:min(i, n)]
				lx.pendingDoc = &DocText{
					Text: comment.Strip(raw),
					Line: startLine,
				}
			}
			lx.seg.WriteByte(' ')
		case c == '"':
			if i+2 < n && src[i+1] == '"' && src[i+2] == '"' {
				// Text block.
				i += 3
				for i < n {
					if src[i] == '\n' {
						lx.line++
					}
					if src[i] == '"' && i+2 < n && src[i+1] == '"' && src[i+2] == '"' {
						i += 3
						break
					}
					i++
				}
			} else {
				i++
				for i < n && src[i] != '"' {
					if src[i] == '\\' {
						i++
					}
					if i < n && src[i] == '\n' {
						lx.line++
					}
					i++
				}
				i++
			}
			lx.seg.WriteByte(' ')
		case c == '\'':
			i++
			for i < n && src[i] != '\'' {
				if src[i] == '\\' {
					i++
				}
				i++
			}
			i++
			lx.seg.WriteByte(' ')
		case c == ';':
			lx.flush(';', isPackageInfo)
			i++
		case c == '{':
			lx.flush('{', isPackageInfo)
			lx.depth++
			i++
		case c == '}':
			lx.flush('}', isPackageInfo)
			lx.depth--
			for len(lx.stack) > 0 && lx.top().depth > lx.depth {
				lx.stack = lx.stack[:len(lx.stack)-1]
			}
			i++
		case c == ',' && lx.inConstSection():
			lx.flush(',', isPackageInfo)
			i++
		default:
			if lx.segEmpty && c != ' ' && c != '\t' && c != '\r' {
				lx.segLine = lx.line
				lx.segEmpty = false
			}
			lx.seg.WriteByte(c)
			i++
		}
	}
	lx.flush(';', isPackageInfo)

	return lx.out
}

func (lx *fileLexer) top() *openType {
	if len(lx.stack) == 0 {
		return nil
	}
	return lx.stack[len(lx.stack)-1]
}

// inConstSection reports whether the lexer is directly inside an enum body,
// before the first ';'.
func (lx *fileLexer) inConstSection() bool {
	t := lx.top()
	return t != nil && t.constSection && lx.depth == t.depth
}

// flush interprets the accumulated code segment ended by delim.
func (lx *fileLexer) flush(delim byte, isPackageInfo bool) {
	text := strings.TrimSpace(lx.seg.String())
	doc := lx.pendingDoc
	lx.seg.Reset()
	lx.pendingDoc = nil
	startLine := lx.segLine
	lx.segLine = lx.line
	lx.segEmpty = true

	// Enum constant section: each segment is one constant; the first ';'
	// (or the closing '}') ends the section.
	if t := lx.top(); t != nil && t.constSection && lx.depth == t.depth {
		if delim == ';' || delim == '}' {
			t.constSection = false
		}
		if text != "" {
			lx.captureEnumConstant(t, text, startLine, doc)
		}
		return
	}

	if text == "" {
		return
	}

	text = stripAnnotations(text)
	if text == "" {
		return
	}

	if lx.depth == 0 && len(lx.stack) == 0 {
		if name, ok := strings.CutPrefix(text, "package "); ok {
			lx.out.Package = strings.TrimSpace(name)
			lx.out.PackageLine = startLine
			if isPackageInfo && doc != nil {
				lx.out.PackageDoc = doc
			}
			return
		}
		if rest, ok := strings.CutPrefix(text, "import "); ok {
			lx.captureImport(rest)
			return
		}
	}

	if lx.captureType(text, startLine, doc, delim) {
		return
	}
	lx.captureMember(text, startLine, doc, delim)
}

// captureImport records one import declaration.
func (lx *fileLexer) captureImport(rest string) {
	rest = strings.TrimSpace(rest)
	static := false
	if r, ok := strings.CutPrefix(rest, "static "); ok {
		static = true
		rest = strings.TrimSpace(r)
	}
	rest = strings.ReplaceAll(rest, " ", "")
	onDemand := false
	if strings.HasSuffix(rest, ".*") {
		onDemand = true
		rest = strings.TrimSuffix(rest, ".*")
	}
	if rest == "" {
		return
	}
	lx.out.Imports = append(lx.out.Imports, &types.ImportDecl{
		File:     lx.out.Path,
		Path:     rest,
		OnDemand: onDemand,
		Static:   static,
	})
}

// captureType recognizes class, interface, enum, @interface, and record
// declarations. Returns false when the segment is not a type declaration.
func (lx *fileLexer) captureType(text string, line int, doc *DocText, delim byte) bool {
	// Local classes inside method bodies are not documentation targets.
	if t := lx.top(); t != nil && lx.depth != t.depth {
		return false
	}
	erased := eraseAngles(text)
	tokens := strings.Fields(erased)

	kind := ""
	kindIdx := -1
	for i, tok := range tokens {
		switch tok {
		case "class", "record":
			kind = types.TypeKindClass
		case "interface":
			kind = types.TypeKindInterface
		case "enum":
			kind = types.TypeKindEnum
		case "@interface":
			kind = types.TypeKindAnnotation
		default:
			if modifierWords[tok] {
				continue
			}
			// Anything else before the keyword means this is not a type
			// declaration (e.g. a method returning a type named "record").
			return false
		}
		kindIdx = i
		break
	}
	if kindIdx < 0 || kindIdx+1 >= len(tokens) {
		return false
	}

	name := tokens[kindIdx+1]
	if i := strings.IndexAny(name, "(<"); i >= 0 {
		name = name[:i]
	}
	if name == "" || !isIdentifier(name) {
		return false
	}

	decl := &types.TypeDecl{
		SimpleName: name,
		Package:    lx.out.Package,
		Kind:       kind,
		Visibility: visibilityOf(tokens[:kindIdx]),
		File:       lx.out.Path,
		Line:       line,
	}
	if t := lx.top(); t != nil {
		enclosing := t.decl.QualifiedName
		decl.Enclosing = &enclosing
		decl.QualifiedName = enclosing + "." + name
	} else if lx.out.Package != "" {
		decl.QualifiedName = lx.out.Package + "." + name
	} else {
		decl.QualifiedName = name
	}

	lx.captureSupertypes(decl, tokens[kindIdx+2:])

	lx.out.Types = append(lx.out.Types, TypeInfo{Decl: decl, Doc: doc})

	if delim == '{' {
		lx.stack = append(lx.stack, &openType{
			decl:         decl,
			depth:        lx.depth + 1,
			constSection: kind == types.TypeKindEnum,
		})
	}
	return true
}

// captureSupertypes fills Extends and Implements from the tokens after the
// type name. An interface's extends-list holds superinterfaces, so it goes
// to Implements.
func (lx *fileLexer) captureSupertypes(decl *types.TypeDecl, tokens []string) {
	decl.Implements = []string{}
	section := ""
	for _, tok := range tokens {
		switch tok {
		case "extends", "implements", "permits":
			section = tok
			continue
		}
		names := strings.Split(tok, ",")
		for _, nm := range names {
			nm = strings.TrimSpace(nm)
			if nm == "" {
				continue
			}
			switch section {
			case "extends":
				if decl.Kind == types.TypeKindInterface {
					decl.Implements = append(decl.Implements, nm)
				} else if decl.Extends == nil {
					e := nm
					decl.Extends = &e
				}
			case "implements":
				decl.Implements = append(decl.Implements, nm)
			}
		}
	}
}

// captureEnumConstant records one constant from an enum body's constant
// section.
func (lx *fileLexer) captureEnumConstant(t *openType, text string, line int, doc *DocText) {
	text = stripAnnotations(text)
	if i := strings.IndexAny(text, "( \t"); i >= 0 {
		text = text[:i]
	}
	if text == "" || !isIdentifier(text) {
		return
	}
	lx.out.Members = append(lx.out.Members, MemberInfo{
		Decl: &types.MemberDecl{
			Owner:      t.decl.QualifiedName,
			Name:       text,
			Kind:       types.MemberKindEnumConst,
			Visibility: "public",
			Static:     true,
			Final:      true,
			File:       lx.out.Path,
			Line:       line,
		},
		Doc: doc,
	})
}

// captureMember recognizes fields, methods, and constructors declared
// directly inside the innermost open type.
func (lx *fileLexer) captureMember(text string, line int, doc *DocText, delim byte) {
	t := lx.top()
	if t == nil || lx.depth != t.depth {
		return
	}

	parenIdx := topLevelParen(text)
	if parenIdx >= 0 && !strings.ContainsRune(text[:parenIdx], '=') {
		lx.captureCallable(t, text, parenIdx, line, doc)
		return
	}
	if delim == ';' || delim == '{' {
		lx.captureFields(t, text, line, doc)
	}
}

// captureCallable records a method or constructor.
func (lx *fileLexer) captureCallable(t *openType, text string, parenIdx int, line int, doc *DocText) {
	head := eraseAngles(text[:parenIdx])
	tokens := strings.Fields(head)
	if len(tokens) == 0 {
		return
	}
	name := tokens[len(tokens)-1]
	if !isIdentifier(name) {
		return
	}

	close := matchParen(text, parenIdx)
	if close < 0 {
		return
	}
	inner := text[parenIdx+1 : close]
	params, err := ref.NormalizeParamList(inner)
	if err != nil {
		params = []string{}
	}

	decl := &types.MemberDecl{
		Owner:      t.decl.QualifiedName,
		Name:       name,
		Params:     params,
		ParamNames: paramNamesOf(inner, len(params)),
		Visibility: visibilityOf(tokens[:len(tokens)-1]),
		Static:     hasToken(tokens, "static"),
		Final:      hasToken(tokens, "final"),
		File:       lx.out.Path,
		Line:       line,
	}
	if name == t.decl.SimpleName && !hasReturnType(tokens) {
		decl.Kind = types.MemberKindConstructor
	} else {
		decl.Kind = types.MemberKindMethod
		decl.ReturnType = returnTypeOf(tokens)
	}
	// Interface and annotation members are implicitly public.
	if decl.Visibility == "package" &&
		(t.decl.Kind == types.TypeKindInterface || t.decl.Kind == types.TypeKindAnnotation) {
		decl.Visibility = "public"
	}
	lx.out.Members = append(lx.out.Members, MemberInfo{Decl: decl, Doc: doc})
}

// paramNamesOf extracts the declared parameter names from the text between
// the parentheses, aligned with the normalized types. A declarator that
// does not end in an identifier records an empty name.
func paramNamesOf(inner string, want int) []string {
	if want == 0 {
		return []string{}
	}
	names := make([]string, 0, want)
	for _, p := range splitTopLevel(eraseAngles(inner), ',') {
		fields := strings.Fields(p)
		name := ""
		if len(fields) >= 2 {
			last := strings.TrimSuffix(fields[len(fields)-1], "[]")
			if isIdentifier(last) {
				name = last
			}
		}
		names = append(names, name)
	}
	if len(names) != want {
		return make([]string, want)
	}
	return names
}

// captureFields records one or more field declarations from a segment like
// "public static final int A = 1, B = 2".
func (lx *fileLexer) captureFields(t *openType, text string, line int, doc *DocText) {
	erased := eraseAngles(text)
	decls := splitTopLevel(erased, ',')
	if len(decls) == 0 {
		return
	}

	// The first declarator carries the modifiers and the type; the rest are
	// bare names. Initializers are cut at their '='.
	head := decls[0]
	if i := strings.IndexByte(head, '='); i >= 0 {
		head = head[:i]
	}
	tokens := strings.Fields(head)
	mods := 0
	for mods < len(tokens) && modifierWords[tokens[mods]] {
		mods++
	}
	rest := tokens[mods:]
	if len(rest) < 2 {
		return
	}
	fieldType := rest[0]
	visibility := visibilityOf(tokens[:mods])
	if visibility == "package" && t.decl.Kind == types.TypeKindInterface {
		visibility = "public"
	}
	static := hasToken(tokens[:mods], "static")
	final := hasToken(tokens[:mods], "final")
	// Interface fields are implicitly public static final.
	if t.decl.Kind == types.TypeKindInterface {
		static, final = true, true
	}

	names := []string{strings.Join(rest[1:], " ")}
	for _, d := range decls[1:] {
		if i := strings.IndexByte(d, '='); i >= 0 {
			d = d[:i]
		}
		names = append(names, strings.TrimSpace(d))
	}
	for _, nm := range names {
		nm = strings.TrimSpace(nm)
		ft := fieldType
		for strings.HasSuffix(nm, "[]") {
			nm = strings.TrimSpace(strings.TrimSuffix(nm, "[]"))
			ft += "[]"
		}
		if nm == "" || !isIdentifier(nm) {
			continue
		}
		lx.out.Members = append(lx.out.Members, MemberInfo{
			Decl: &types.MemberDecl{
				Owner:      t.decl.QualifiedName,
				Name:       nm,
				Kind:       types.MemberKindField,
				ReturnType: ft,
				Visibility: visibility,
				Static:     static,
				Final:      final,
				File:       lx.out.Path,
				Line:       line,
			},
			Doc: doc,
		})
		// A doc comment covers the first declarator only.
		doc = nil
	}
}

// stripAnnotations removes leading "@Name" and "@Name(...)" markers,
// preserving "@interface".
func stripAnnotations(s string) string {
	for {
		s = strings.TrimSpace(s)
		if !strings.HasPrefix(s, "@") || strings.HasPrefix(s, "@interface") {
			return s
		}
		i := 1
		for i < len(s) && (isIdentByte(s[i]) || s[i] == '.') {
			i++
		}
		if i == 1 {
			return s
		}
		s = s[i:]
		s = strings.TrimSpace(s)
		if strings.HasPrefix(s, "(") {
			close := matchParen(s, 0)
			if close < 0 {
				return ""
			}
			s = s[close+1:]
		}
	}
}

// visibilityOf returns the explicit access modifier among the tokens, or
// "package".
func visibilityOf(tokens []string) string {
	for _, tok := range tokens {
		switch tok {
		case "public", "protected", "private":
			return tok
		}
	}
	return "package"
}

func hasToken(tokens []string, want string) bool {
	for _, tok := range tokens {
		if tok == want {
			return true
		}
	}
	return false
}

// hasReturnType reports whether a non-modifier token precedes the last
// token, which distinguishes a method named like its class from a
// constructor.
func hasReturnType(tokens []string) bool {
	for _, tok := range tokens[:len(tokens)-1] {
		if !modifierWords[tok] {
			return true
		}
	}
	return false
}

// returnTypeOf returns the token immediately before the member name.
func returnTypeOf(tokens []string) string {
	if len(tokens) < 2 {
		return ""
	}
	rt := tokens[len(tokens)-2]
	if modifierWords[rt] {
		return ""
	}
	return rt
}

// splitTopLevel splits s on sep occurrences outside parentheses and
// brackets.
func splitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

// topLevelParen returns the index of the first '(' outside angle brackets,
// or -1.
func topLevelParen(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
			}
		case '(':
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// matchParen returns the index of the ')' matching the '(' at open, or -1.
func matchParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// eraseAngles removes balanced <...> runs so generic arguments do not
// confuse token splitting.
func eraseAngles(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch r {
		case '<':
			depth++
		case '>':
			if depth > 0 {
				depth--
				continue
			}
			b.WriteRune(r)
		default:
			if depth == 0 {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// isIdentifier reports whether s is a plausible Java identifier.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
