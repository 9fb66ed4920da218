package ref

import (
	"strings"
	"unicode"
)

// Feature is the parsed form of a feature token. Exactly one of the
// following shapes holds:
//
//   - package only:        Package set, Type and Member empty
//   - type (maybe qualified): Type set, Package holds any qualifier
//   - member of a type:    Type and Member set
//   - member of current:   Member set, Type and Package empty
//
// Params is non-nil only when a parameter list was written; an empty
// written list "()" yields an empty non-nil slice. The distinction drives
// overload disambiguation (prd006-reference-resolution R5).
type Feature struct {
	Package   string
	Type      string
	Member    string
	Params    []string
	HasParams bool
}

// ParseFeature parses a feature token: package, package.Type, Type,
// Type#member, Type#member(params), #member, or #member(params).
//
// Whether a dotted name is a package or a type follows the capitalization
// convention the source chapter itself prescribes: the first dot segment
// starting with an uppercase letter begins the type name, everything
// before it is the package (decision recorded in DESIGN.md).
func ParseFeature(s string) (*Feature, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrMalformedFeature
	}

	f := &Feature{}

	// Split off the parameter list first.
	if i := strings.IndexByte(s, '('); i >= 0 {
		if !strings.HasSuffix(s, ")") {
			return nil, ErrUnbalancedParams
		}
		params, err := splitParams(s[i+1 : len(s)-1])
		if err != nil {
			return nil, err
		}
		f.Params = params
		f.HasParams = true
		s = s[:i]
	} else if strings.ContainsAny(s, ")") {
		return nil, ErrUnbalancedParams
	}

	// Split container from member.
	container := s
	if i := strings.IndexByte(s, '#'); i >= 0 {
		f.Member = s[i+1:]
		if f.Member == "" {
			return nil, ErrEmptyMember
		}
		if strings.ContainsAny(f.Member, ".#") {
			return nil, ErrMalformedFeature
		}
		container = s[:i]
	} else if f.HasParams {
		// A parameter list requires a member.
		return nil, ErrMalformedFeature
	}

	if container == "" {
		if f.Member == "" {
			return nil, ErrMalformedFeature
		}
		return f, nil
	}

	f.Package, f.Type = splitQualifier(container)
	if f.Package == "" && f.Type == "" {
		return nil, ErrMalformedFeature
	}
	return f, nil
}

// String renders the feature in canonical token form.
func (f *Feature) String() string {
	var b strings.Builder
	if f.Package != "" {
		b.WriteString(f.Package)
		if f.Type != "" {
			b.WriteByte('.')
		}
	}
	b.WriteString(f.Type)
	if f.Member != "" {
		b.WriteByte('#')
		b.WriteString(f.Member)
	}
	if f.HasParams {
		b.WriteByte('(')
		b.WriteString(strings.Join(f.Params, ", "))
		b.WriteByte(')')
	}
	return b.String()
}

// splitQualifier divides a dotted container name into package and type
// parts by the capitalization convention. "java.util.Map.Entry" yields
// ("java.util", "Map.Entry"); "java.util" yields ("java.util", "");
// "Map.Entry" yields ("", "Map.Entry").
func splitQualifier(name string) (pkg, typ string) {
	segs := strings.Split(name, ".")
	for i, seg := range segs {
		if seg == "" {
			return "", ""
		}
		r := []rune(seg)[0]
		if unicode.IsUpper(r) {
			return strings.Join(segs[:i], "."), strings.Join(segs[i:], ".")
		}
	}
	return name, ""
}

// NormalizeParamList splits and normalizes a written parameter list (the
// text between the parentheses). Declared parameter lists and reference
// tokens normalize identically, so overload matching compares like with
// like.
func NormalizeParamList(list string) ([]string, error) {
	return splitParams(list)
}

// splitParams divides a written parameter list on top-level commas and
// normalizes each entry. Generic arguments nest in angle brackets and are
// erased before splitting.
func splitParams(list string) ([]string, error) {
	list = eraseGenerics(list)
	if strings.TrimSpace(list) == "" {
		return []string{}, nil
	}

	var params []string
	depth := 0
	start := 0
	for i, r := range list {
		switch r {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
			if depth < 0 {
				return nil, ErrUnbalancedParams
			}
		case ',':
			if depth == 0 {
				params = append(params, list[start:i])
				start = i + 1
			}
		}
	}
	if depth != 0 {
		return nil, ErrUnbalancedParams
	}
	params = append(params, list[start:])

	out := make([]string, 0, len(params))
	for _, p := range params {
		norm, err := normalizeParam(p)
		if err != nil {
			return nil, err
		}
		out = append(out, norm)
	}
	return out, nil
}

// normalizeParam canonicalizes one written parameter: argument names and
// the final modifier are dropped, varargs become a trailing array
// dimension, and whitespace inside dimensions is removed.
func normalizeParam(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", ErrMalformedFeature
	}
	p = strings.ReplaceAll(p, "...", "[]")
	p = strings.ReplaceAll(p, "[ ]", "[]")

	fields := strings.Fields(p)
	if fields[0] == "final" {
		fields = fields[1:]
		if len(fields) == 0 {
			return "", ErrMalformedFeature
		}
	}

	typ := fields[0]
	for _, fld := range fields[1:] {
		// Detached dimensions belong to the type; a bare identifier is the
		// argument name and ends the type.
		if strings.HasPrefix(fld, "[") {
			typ += strings.ReplaceAll(fld, " ", "")
			continue
		}
		break
	}
	return typ, nil
}

// eraseGenerics removes balanced <...> runs, comparing parameters at
// erasure level.
func eraseGenerics(s string) string {
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
