package sqlite

// Schema DDL for all tables (prd002-sqlite-backend R3.2). The references
// table is named refs in SQL because REFERENCES is a reserved word; the
// public table name (types.TableReferences) is unaffected.
const (
	createPackages = `CREATE TABLE packages (
    package_id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    doc_id TEXT,
    file TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createTypes = `CREATE TABLE types (
    type_id TEXT PRIMARY KEY,
    qualified_name TEXT NOT NULL UNIQUE,
    simple_name TEXT NOT NULL,
    package TEXT NOT NULL,
    kind TEXT NOT NULL,
    enclosing TEXT,
    extends TEXT,
    implements TEXT NOT NULL,
    visibility TEXT NOT NULL,
    doc_id TEXT,
    file TEXT NOT NULL,
    line INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createMembers = `CREATE TABLE members (
    member_id TEXT PRIMARY KEY,
    owner TEXT NOT NULL,
    name TEXT NOT NULL,
    kind TEXT NOT NULL,
    params TEXT,
    param_names TEXT,
    return_type TEXT,
    visibility TEXT NOT NULL,
    static INTEGER NOT NULL,
    final INTEGER NOT NULL,
    doc_id TEXT,
    file TEXT NOT NULL,
    line INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createComments = `CREATE TABLE comments (
    doc_id TEXT PRIMARY KEY,
    owner_kind TEXT NOT NULL,
    owner_id TEXT NOT NULL,
    text TEXT NOT NULL,
    file TEXT NOT NULL,
    line INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createImports = `CREATE TABLE imports (
    import_id TEXT PRIMARY KEY,
    file TEXT NOT NULL,
    path TEXT NOT NULL,
    on_demand INTEGER NOT NULL,
    static INTEGER NOT NULL,
    created_at TEXT NOT NULL
);`

	createRefs = `CREATE TABLE refs (
    ref_id TEXT PRIMARY KEY,
    doc_id TEXT NOT NULL,
    tag TEXT NOT NULL,
    raw TEXT NOT NULL,
    form TEXT NOT NULL,
    package TEXT NOT NULL,
    type TEXT NOT NULL,
    member TEXT NOT NULL,
    params TEXT,
    has_params INTEGER NOT NULL,
    label TEXT NOT NULL,
    state TEXT NOT NULL,
    target_id TEXT,
    anchor TEXT NOT NULL,
    file TEXT NOT NULL,
    line INTEGER NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);`

	createDiagnostics = `CREATE TABLE diagnostics (
    diag_id TEXT PRIMARY KEY,
    rule TEXT NOT NULL,
    severity TEXT NOT NULL,
    file TEXT NOT NULL,
    line INTEGER NOT NULL,
    message TEXT NOT NULL,
    subject_id TEXT,
    created_at TEXT NOT NULL
);`

	createIndexes = `CREATE INDEX idx_types_simple ON types(simple_name);
CREATE INDEX idx_types_package ON types(package);
CREATE INDEX idx_members_owner ON members(owner);
CREATE INDEX idx_refs_doc ON refs(doc_id);
CREATE INDEX idx_refs_state ON refs(state);
CREATE INDEX idx_imports_file ON imports(file);`
)

// schemaSQL is the complete DDL executed on Attach.
var schemaSQL = createPackages + "\n" +
	createTypes + "\n" +
	createMembers + "\n" +
	createComments + "\n" +
	createImports + "\n" +
	createRefs + "\n" +
	createDiagnostics + "\n" +
	createIndexes
