package resolve

import (
	"sort"
	"strings"

	"github.com/mesh-intelligence/docref/pkg/types"
)

// snapshot is an in-memory view of the index, loaded once per resolution
// run so lookups stay off the database.
type snapshot struct {
	typesByID      map[string]*types.TypeDecl
	typesByQName   map[string]*types.TypeDecl
	membersByID    map[string]*types.MemberDecl
	membersByOwner map[string][]*types.MemberDecl
	packagesByID   map[string]*types.PackageDecl
	packagesByName map[string]*types.PackageDecl
	commentsByID   map[string]*types.DocComment
	importsByFile  map[string][]*types.ImportDecl
}

func loadSnapshot(idx types.Index) (*snapshot, error) {
	s := &snapshot{
		typesByID:      make(map[string]*types.TypeDecl),
		typesByQName:   make(map[string]*types.TypeDecl),
		membersByID:    make(map[string]*types.MemberDecl),
		membersByOwner: make(map[string][]*types.MemberDecl),
		packagesByID:   make(map[string]*types.PackageDecl),
		packagesByName: make(map[string]*types.PackageDecl),
		commentsByID:   make(map[string]*types.DocComment),
		importsByFile:  make(map[string][]*types.ImportDecl),
	}

	load := func(table string, each func(any)) error {
		tbl, err := idx.GetTable(table)
		if err != nil {
			return err
		}
		all, err := tbl.Fetch(nil)
		if err != nil {
			return err
		}
		for _, item := range all {
			each(item)
		}
		return nil
	}

	if err := load(types.TableTypes, func(item any) {
		t := item.(*types.TypeDecl)
		s.typesByID[t.TypeID] = t
		s.typesByQName[t.QualifiedName] = t
	}); err != nil {
		return nil, err
	}
	if err := load(types.TableMembers, func(item any) {
		m := item.(*types.MemberDecl)
		s.membersByID[m.MemberID] = m
		s.membersByOwner[m.Owner] = append(s.membersByOwner[m.Owner], m)
	}); err != nil {
		return nil, err
	}
	if err := load(types.TablePackages, func(item any) {
		p := item.(*types.PackageDecl)
		s.packagesByID[p.PackageID] = p
		s.packagesByName[p.Name] = p
	}); err != nil {
		return nil, err
	}
	if err := load(types.TableComments, func(item any) {
		dc := item.(*types.DocComment)
		s.commentsByID[dc.DocID] = dc
	}); err != nil {
		return nil, err
	}
	if err := load(types.TableImports, func(item any) {
		im := item.(*types.ImportDecl)
		s.importsByFile[im.File] = append(s.importsByFile[im.File], im)
	}); err != nil {
		return nil, err
	}

	// Members in declaration order, so ambiguity messages read stably.
	for _, members := range s.membersByOwner {
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].Line < members[j].Line
		})
	}
	return s, nil
}

// refContext is the point of view of one citing comment: the type whose
// doc carries the reference, its package, and its file's imports.
type refContext struct {
	current *types.TypeDecl // nil for package docs and the overview
	pkg     string
	file    string
}

// contextFor derives the citing context from the reference's comment.
func (s *snapshot) contextFor(rf *types.Reference) refContext {
	ctx := refContext{file: rf.File}
	dc, ok := s.commentsByID[rf.DocID]
	if !ok {
		return ctx
	}
	ctx.file = dc.File

	switch dc.OwnerKind {
	case types.OwnerType:
		if t, ok := s.typesByID[dc.OwnerID]; ok {
			ctx.current = t
			ctx.pkg = t.Package
		}
	case types.OwnerMember:
		if m, ok := s.membersByID[dc.OwnerID]; ok {
			if t, ok := s.typesByQName[m.Owner]; ok {
				ctx.current = t
				ctx.pkg = t.Package
			}
		}
	case types.OwnerPackage:
		if p, ok := s.packagesByID[dc.OwnerID]; ok {
			ctx.pkg = p.Name
		}
	}
	return ctx
}

// membersNamed returns the members of t with the given name, declaration
// order preserved.
func (s *snapshot) membersNamed(t *types.TypeDecl, name string) []*types.MemberDecl {
	var out []*types.MemberDecl
	for _, m := range s.membersByOwner[t.QualifiedName] {
		if m.Name == name {
			out = append(out, m)
		}
	}
	return out
}

// typeSequence lists the containers searched for a bare #member reference:
// the current type, enclosing types outward, superclasses bottom-up, then
// superinterfaces of everything collected so far.
func (s *snapshot) typeSequence(ctx refContext) []*types.TypeDecl {
	cur := ctx.current
	if cur == nil {
		return nil
	}

	var seq []*types.TypeDecl
	seen := make(map[string]bool)
	add := func(t *types.TypeDecl) bool {
		if t == nil || seen[t.QualifiedName] {
			return false
		}
		seen[t.QualifiedName] = true
		seq = append(seq, t)
		return true
	}

	add(cur)
	for _, qn := range cur.EnclosingChain() {
		add(s.typesByQName[qn])
	}
	for t := cur; t != nil && t.Extends != nil; {
		super := s.lookupTypeShallow(*t.Extends, t.Package, t.File)
		if super == nil || !add(super) {
			break
		}
		t = super
	}

	// Interface walk covers the interfaces of the current type, its
	// enclosers, and its superclasses, then their superinterfaces.
	queue := append([]*types.TypeDecl{}, seq...)
	for len(queue) > 0 {
		t := queue[0]
		queue = queue[1:]
		for _, name := range t.Implements {
			iface := s.lookupTypeShallow(name, t.Package, t.File)
			if add(iface) {
				queue = append(queue, iface)
			}
		}
	}
	return seq
}

// supertypes lists t followed by its superclasses bottom-up and then the
// superinterfaces of all of them. Used when the reference names its
// container explicitly: inherited members still count.
func (s *snapshot) supertypes(t *types.TypeDecl) []*types.TypeDecl {
	var seq []*types.TypeDecl
	seen := make(map[string]bool)
	add := func(t *types.TypeDecl) bool {
		if t == nil || seen[t.QualifiedName] {
			return false
		}
		seen[t.QualifiedName] = true
		seq = append(seq, t)
		return true
	}

	add(t)
	for cur := t; cur != nil && cur.Extends != nil; {
		super := s.lookupTypeShallow(*cur.Extends, cur.Package, cur.File)
		if super == nil || !add(super) {
			break
		}
		cur = super
	}
	queue := append([]*types.TypeDecl{}, seq...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, name := range cur.Implements {
			iface := s.lookupTypeShallow(name, cur.Package, cur.File)
			if add(iface) {
				queue = append(queue, iface)
			}
		}
	}
	return seq
}

// resolveType finds the type a written name refers to, full search order:
// the current type and its nested types, enclosing types outward, nested
// types of superclasses and superinterfaces, then imports, the current
// package, and the name taken as fully qualified.
func (s *snapshot) resolveType(name string, ctx refContext) *types.TypeDecl {
	// A fully-qualified name wins outright.
	if t, ok := s.typesByQName[name]; ok && strings.Contains(name, ".") {
		return t
	}

	first := name
	rest := ""
	if i := strings.IndexByte(name, '.'); i >= 0 {
		first, rest = name[:i], name[i:]
	}

	// Lowercase first segment: package-qualified or nothing.
	if !isUpperInitial(first) {
		return s.typesByQName[name]
	}

	descend := func(t *types.TypeDecl) *types.TypeDecl {
		if t == nil || rest == "" {
			return t
		}
		return s.typesByQName[t.QualifiedName+rest]
	}

	for _, scope := range s.typeSequence(ctx) {
		if scope.SimpleName == first {
			if found := descend(scope); found != nil {
				return found
			}
		}
		if nested := s.typesByQName[scope.QualifiedName+"."+first]; nested != nil {
			if found := descend(nested); found != nil {
				return found
			}
		}
	}

	if found := descend(s.lookupTypeShallow(first, ctx.pkg, ctx.file)); found != nil {
		return found
	}
	return nil
}

// lookupTypeShallow finds a type by written name using only the file's
// imports, the given package, and fully-qualified lookup. Supertype names
// and parameter types resolve through this, sidestepping recursion into
// the full search order.
func (s *snapshot) lookupTypeShallow(name, pkg, file string) *types.TypeDecl {
	if t, ok := s.typesByQName[name]; ok && strings.Contains(name, ".") {
		return t
	}

	first := name
	rest := ""
	if i := strings.IndexByte(name, '.'); i >= 0 {
		first, rest = name[:i], name[i:]
	}

	resolveFirst := func(qn string) *types.TypeDecl {
		t, ok := s.typesByQName[qn]
		if !ok {
			return nil
		}
		if rest == "" {
			return t
		}
		return s.typesByQName[t.QualifiedName+rest]
	}

	for _, im := range s.importsByFile[file] {
		if im.Static {
			continue
		}
		if !im.OnDemand {
			if strings.HasSuffix(im.Path, "."+first) || im.Path == first {
				if found := resolveFirst(im.Path); found != nil {
					return found
				}
			}
			continue
		}
		if found := resolveFirst(im.Path + "." + first); found != nil {
			return found
		}
	}

	if pkg != "" {
		if found := resolveFirst(pkg + "." + first); found != nil {
			return found
		}
	}
	// Default package, or a top-level name used as written.
	return resolveFirst(first)
}
