package types

// Standard table names for Index.GetTable (prd001-index-core R2.5).
const (
	TablePackages    = "packages"
	TableTypes       = "types"
	TableMembers     = "members"
	TableComments    = "comments"
	TableImports     = "imports"
	TableReferences  = "references"
	TableDiagnostics = "diagnostics"
)

// StandardTableNames lists all standard table names for enumeration.
var StandardTableNames = []string{
	TablePackages,
	TableTypes,
	TableMembers,
	TableComments,
	TableImports,
	TableReferences,
	TableDiagnostics,
}
