// Indexing of scan results: writes captured declarations into the index
// tables and extracts pending cross-references from every doc comment.
// Implements: prd003-source-scanner R7; prd006-reference-resolution R1.
package scanner

import (
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/docref/pkg/comment"
	"github.com/mesh-intelligence/docref/pkg/ref"
	"github.com/mesh-intelligence/docref/pkg/types"
)

// Stats summarizes one Apply.
type Stats struct {
	Packages   int
	Types      int
	Members    int
	Comments   int
	Imports    int
	References int
}

// Indexer writes scan results into an attached index.
type Indexer struct {
	idx types.Index
	log *slog.Logger
}

// NewIndexer wraps an attached index.
func NewIndexer(idx types.Index, log *slog.Logger) *Indexer {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Indexer{idx: idx, log: log}
}

// Apply writes every captured declaration into the index. Doc comments are
// created first so owners can carry their DocID; the comment's OwnerID is
// backfilled once the owner exists. References extracted from comments
// start pending; malformed tokens become diagnostics instead.
func (in *Indexer) Apply(res *Result) (*Stats, error) {
	stats := &Stats{}

	packages, err := in.idx.GetTable(types.TablePackages)
	if err != nil {
		return nil, err
	}
	typesTbl, err := in.idx.GetTable(types.TableTypes)
	if err != nil {
		return nil, err
	}
	members, err := in.idx.GetTable(types.TableMembers)
	if err != nil {
		return nil, err
	}
	comments, err := in.idx.GetTable(types.TableComments)
	if err != nil {
		return nil, err
	}
	imports, err := in.idx.GetTable(types.TableImports)
	if err != nil {
		return nil, err
	}

	// Packages.
	for _, pkg := range res.Packages() {
		doc, docFile := res.PackageDoc(pkg)
		decl := &types.PackageDecl{Name: pkg, File: docFile}

		var docID string
		if doc != nil {
			docID, err = in.putComment(comments, types.OwnerPackage, doc, docFile, stats)
			if err != nil {
				return nil, err
			}
			decl.DocID = &docID
		}
		id, err := packages.Set("", decl)
		if err != nil {
			return nil, fmt.Errorf("indexing package %s: %w", pkg, err)
		}
		if docID != "" {
			if err := in.bindComment(comments, docID, id); err != nil {
				return nil, err
			}
		}
		stats.Packages++
	}

	// Overview document.
	if res.Overview != nil {
		if _, err := in.putComment(comments, types.OwnerOverview, res.Overview, res.OverviewPath, stats); err != nil {
			return nil, err
		}
	}

	// Types, members, imports per file.
	for _, fd := range res.Files {
		for _, ti := range fd.Types {
			var docID string
			if ti.Doc != nil {
				docID, err = in.putComment(comments, types.OwnerType, ti.Doc, fd.Path, stats)
				if err != nil {
					return nil, err
				}
				ti.Decl.DocID = &docID
			}
			id, err := typesTbl.Set("", ti.Decl)
			if err != nil {
				return nil, fmt.Errorf("indexing type %s: %w", ti.Decl.QualifiedName, err)
			}
			if docID != "" {
				if err := in.bindComment(comments, docID, id); err != nil {
					return nil, err
				}
			}
			stats.Types++
		}
		for _, mi := range fd.Members {
			var docID string
			if mi.Doc != nil {
				docID, err = in.putComment(comments, types.OwnerMember, mi.Doc, fd.Path, stats)
				if err != nil {
					return nil, err
				}
				mi.Decl.DocID = &docID
			}
			id, err := members.Set("", mi.Decl)
			if err != nil {
				return nil, fmt.Errorf("indexing member %s.%s: %w", mi.Decl.Owner, mi.Decl.Name, err)
			}
			if docID != "" {
				if err := in.bindComment(comments, docID, id); err != nil {
					return nil, err
				}
			}
			stats.Members++
		}
		for _, im := range fd.Imports {
			if _, err := imports.Set("", im); err != nil {
				return nil, fmt.Errorf("indexing import %s: %w", im.Path, err)
			}
			stats.Imports++
		}
	}

	refCount, err := in.extractReferences()
	if err != nil {
		return nil, err
	}
	stats.References = refCount

	in.log.Info("index applied",
		"packages", stats.Packages,
		"types", stats.Types,
		"members", stats.Members,
		"comments", stats.Comments,
		"references", stats.References)
	return stats, nil
}

// putComment stores one doc comment, owner ID still unknown.
func (in *Indexer) putComment(comments types.Table, ownerKind string, doc *DocText, file string, stats *Stats) (string, error) {
	id, err := comments.Set("", &types.DocComment{
		OwnerKind: ownerKind,
		Text:      doc.Text,
		File:      file,
		Line:      doc.Line,
	})
	if err != nil {
		return "", fmt.Errorf("indexing comment at %s:%d: %w", file, doc.Line, err)
	}
	stats.Comments++
	return id, nil
}

// bindComment backfills the comment's owner ID.
func (in *Indexer) bindComment(comments types.Table, docID, ownerID string) error {
	got, err := comments.Get(docID)
	if err != nil {
		return err
	}
	dc := got.(*types.DocComment)
	dc.OwnerID = ownerID
	_, err = comments.Set(docID, dc)
	return err
}

// extractReferences parses every stored comment and creates a pending
// Reference per cross-reference token. Tokens that do not parse against the
// grammar become malformed-ref diagnostics.
func (in *Indexer) extractReferences() (int, error) {
	comments, err := in.idx.GetTable(types.TableComments)
	if err != nil {
		return 0, err
	}
	references, err := in.idx.GetTable(types.TableReferences)
	if err != nil {
		return 0, err
	}
	diagnostics, err := in.idx.GetTable(types.TableDiagnostics)
	if err != nil {
		return 0, err
	}

	all, err := comments.Fetch(nil)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, item := range all {
		dc := item.(*types.DocComment)
		parsed := comment.Parse(dc.Text)
		for _, occ := range parsed.References() {
			line := dc.Line + occ.Line
			parsedRef, err := ref.Parse(occ.Token)
			if err != nil {
				subject := dc.DocID
				if _, derr := diagnostics.Set("", &types.Diagnostic{
					Rule:      "malformed-ref",
					Severity:  types.SeverityError,
					File:      dc.File,
					Line:      line,
					Message:   fmt.Sprintf("reference %q does not parse: %v", occ.Token, err),
					SubjectID: &subject,
				}); derr != nil {
					return 0, derr
				}
				continue
			}

			r := &types.Reference{
				DocID: dc.DocID,
				Tag:   refTagFor(occ.Tag),
				Raw:   occ.Token,
				Form:  parsedRef.Form,
				Label: parsedRef.Label,
				State: types.RefStatePending,
				File:  dc.File,
				Line:  line,
			}
			if f := parsedRef.Feature; f != nil {
				r.Package = f.Package
				r.Type = f.Type
				r.Member = f.Member
				r.Params = f.Params
				r.HasParams = f.HasParams
			}
			if _, err := references.Set("", r); err != nil {
				return 0, fmt.Errorf("indexing reference %q: %w", occ.Token, err)
			}
			count++
		}
	}
	return count, nil
}

// refTagFor maps a comment occurrence tag to the Reference tag constant.
func refTagFor(tag string) string {
	switch tag {
	case "see":
		return types.RefTagSee
	case "throws":
		return types.RefTagThrows
	case "link":
		return types.RefTagLink
	case "linkplain":
		return types.RefTagLinkplain
	case "value":
		return types.RefTagValue
	default:
		return tag
	}
}
