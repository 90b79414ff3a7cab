package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/umlkit/goxmi/internal/graph"
	"github.com/umlkit/goxmi/internal/store/sqlite/migrations"
	"github.com/umlkit/goxmi/uml"
)

// ErrNotFound is returned when a document id is not in the store.
var ErrNotFound = errors.New("document not found")

// Store is a SQLite database holding exported documents.
type Store struct {
	db   *sql.DB
	path string
}

// DocumentInfo describes one exported document.
type DocumentInfo struct {
	ID         int64
	Name       string
	Source     string
	Dialect    string
	ExportedAt time.Time
}

// ClassInfo is one row of the classes table.
type ClassInfo struct {
	XMIID        string
	PackageXMIID string
	Name         string
	Type         string
	IsDataType   bool
	IsAbstract   bool
	// ResolutionOrder is the position of the class when supertypes are
	// ordered before subtypes; -1 for classes on a generalization cycle.
	ResolutionOrder int
}

// Open opens or creates the database at path and applies pending migrations.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	// Pragmas in the DSN apply to every pooled connection; cascading
	// deletes on re-export need foreign_keys on all of them.
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) migrate(fsys fs.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var current int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&current); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= current {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// Export writes doc and returns its document id. A previous export with
// the same source is replaced.
func (s *Store) Export(ctx context.Context, doc *uml.Document) (int64, error) {
	source := doc.Source
	if source == "" {
		source = doc.Name
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE source = ?", source); err != nil {
		return 0, fmt.Errorf("removing previous export: %w", err)
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO documents (name, source, dialect, exported_at)
		VALUES (?, ?, ?, ?)
	`, doc.Name, source, nullString(doc.Dialect), time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("saving document: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading document id: %w", err)
	}

	w := &writer{ctx: ctx, tx: tx, docID: id, order: resolutionOrder(doc)}
	for i := range doc.Packages {
		if err := w.writePackage(&doc.Packages[i], "", i); err != nil {
			return 0, err
		}
	}
	for _, d := range doc.Diagnostics {
		if err := w.exec(`
			INSERT INTO diagnostics (document_id, severity, code, message, xmi_id)
			VALUES (?, ?, ?, ?, ?)
		`, id, int(d.Severity), d.Code, d.Message, nullString(d.XMIID)); err != nil {
			return 0, fmt.Errorf("saving diagnostic: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return id, nil
}

// resolutionOrder maps class ids to their position in supertype-first
// order. Classes on a cycle are absent.
func resolutionOrder(doc *uml.Document) map[string]int {
	order, _ := graph.FromDocument(doc).ResolutionOrder()
	m := make(map[string]int, len(order))
	for i, id := range order {
		m[id] = i
	}
	return m
}

type writer struct {
	ctx   context.Context
	tx    *sql.Tx
	docID int64
	order map[string]int
}

func (w *writer) exec(query string, args ...any) error {
	_, err := w.tx.ExecContext(w.ctx, query, args...)
	return err
}

func (w *writer) writePackage(p *uml.Package, parent string, position int) error {
	if err := w.exec(`
		INSERT INTO packages (document_id, xmi_id, parent_xmi_id, name, definition, stereotype, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, w.docID, p.XMIID, nullString(parent), p.Name,
		nullString(p.Definition), nullString(p.Stereotype), position); err != nil {
		return fmt.Errorf("saving package %s: %w", p.XMIID, err)
	}

	for i := range p.Classes {
		if err := w.writeClass(p.XMIID, &p.Classes[i], false); err != nil {
			return err
		}
	}
	for i := range p.DataTypes {
		if err := w.writeClass(p.XMIID, &p.DataTypes[i], true); err != nil {
			return err
		}
	}
	for i := range p.Enums {
		if err := w.writeEnum(p.XMIID, &p.Enums[i]); err != nil {
			return err
		}
	}
	for _, d := range p.Diagrams {
		if err := w.exec(`
			INSERT INTO diagrams (document_id, xmi_id, package_xmi_id, name, definition)
			VALUES (?, ?, ?, ?, ?)
		`, w.docID, d.XMIID, p.XMIID, d.Name, nullString(d.Definition)); err != nil {
			return fmt.Errorf("saving diagram %s: %w", d.XMIID, err)
		}
	}
	for i := range p.Packages {
		if err := w.writePackage(&p.Packages[i], p.XMIID, i); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) writeClass(pkg string, c *uml.Class, dataType bool) error {
	var order any
	if pos, ok := w.order[c.XMIID]; ok {
		order = pos
	}
	if err := w.exec(`
		INSERT INTO classes (document_id, xmi_id, package_xmi_id, name, type,
			is_data_type, is_abstract, definition, stereotype, resolution_order)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, w.docID, c.XMIID, pkg, c.Name, c.Type, boolToInt(dataType), boolToInt(c.IsAbstract),
		nullString(c.Definition), nullString(c.Stereotype), order); err != nil {
		return fmt.Errorf("saving class %s: %w", c.XMIID, err)
	}

	for _, a := range c.Attributes {
		if err := w.exec(`
			INSERT INTO attributes (document_id, class_xmi_id, xmi_id, name, type, type_xmi_id,
				is_derived, cardinality_min, cardinality_max, definition)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, w.docID, c.XMIID, a.XMIID, a.Name, nullString(a.Type), nullString(a.TypeXMIID),
			boolToInt(a.IsDerived), nullString(string(a.Cardinality.Min)), nullString(a.Cardinality.Max),
			nullString(a.Definition)); err != nil {
			return fmt.Errorf("saving attribute %s: %w", a.XMIID, err)
		}
	}
	for _, a := range c.Associations {
		if err := w.exec(`
			INSERT INTO associations (document_id, class_xmi_id, xmi_id, kind, member_end,
				member_end_xmi_id, attribute_name, cardinality_min, cardinality_max, owner_end, definition)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, w.docID, c.XMIID, nullString(a.XMIID), string(a.MemberEndType), a.MemberEnd,
			a.MemberEndXMIID, nullString(a.MemberEndAttributeName),
			nullString(string(a.MemberEndCardinality.Min)), nullString(a.MemberEndCardinality.Max),
			nullString(a.OwnerEnd), nullString(a.Definition)); err != nil {
			return fmt.Errorf("saving association of %s: %w", c.XMIID, err)
		}
	}
	for _, op := range c.Operations {
		if err := w.exec(`
			INSERT INTO operations (document_id, class_xmi_id, xmi_id, name, return_type_xmi_id, definition)
			VALUES (?, ?, ?, ?, ?, ?)
		`, w.docID, c.XMIID, op.XMIID, op.Name, nullString(op.ReturnTypeXMIID),
			nullString(op.Definition)); err != nil {
			return fmt.Errorf("saving operation %s: %w", op.XMIID, err)
		}
	}
	for _, con := range c.Constraints {
		if err := w.exec(`
			INSERT INTO constraints (document_id, class_xmi_id, name, type, weight, status)
			VALUES (?, ?, ?, ?, ?, ?)
		`, w.docID, c.XMIID, con.Name, nullString(con.Type), nullString(con.Weight),
			nullString(con.Status)); err != nil {
			return fmt.Errorf("saving constraint of %s: %w", c.XMIID, err)
		}
	}
	return nil
}

func (w *writer) writeEnum(pkg string, e *uml.Enum) error {
	if err := w.exec(`
		INSERT INTO enums (document_id, xmi_id, package_xmi_id, name, definition, stereotype)
		VALUES (?, ?, ?, ?, ?, ?)
	`, w.docID, e.XMIID, pkg, e.Name, nullString(e.Definition), nullString(e.Stereotype)); err != nil {
		return fmt.Errorf("saving enum %s: %w", e.XMIID, err)
	}
	for i, v := range e.Values {
		if err := w.exec(`
			INSERT INTO enum_literals (document_id, enum_xmi_id, xmi_id, name, type, definition, position)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, w.docID, e.XMIID, v.XMIID, v.Name, nullString(v.Type), nullString(v.Definition), i); err != nil {
			return fmt.Errorf("saving enum literal %s: %w", v.XMIID, err)
		}
	}
	return nil
}

// Documents lists exported documents in id order.
func (s *Store) Documents(ctx context.Context) ([]DocumentInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, source, dialect, exported_at FROM documents ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var out []DocumentInfo
	for rows.Next() {
		var info DocumentInfo
		var dialect sql.NullString
		var exportedAt sql.NullTime
		if err := rows.Scan(&info.ID, &info.Name, &info.Source, &dialect, &exportedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		info.Dialect = dialect.String
		if exportedAt.Valid {
			info.ExportedAt = exportedAt.Time
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// Classes lists the classes and data types of a document by name.
func (s *Store) Classes(ctx context.Context, docID int64) ([]ClassInfo, error) {
	if err := s.exists(ctx, docID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT xmi_id, package_xmi_id, name, type, is_data_type, is_abstract, resolution_order
		FROM classes WHERE document_id = ? ORDER BY name, xmi_id
	`, docID)
	if err != nil {
		return nil, fmt.Errorf("querying classes: %w", err)
	}
	defer rows.Close()

	var out []ClassInfo
	for rows.Next() {
		var c ClassInfo
		var dataType, abstract int
		var order sql.NullInt64
		if err := rows.Scan(&c.XMIID, &c.PackageXMIID, &c.Name, &c.Type,
			&dataType, &abstract, &order); err != nil {
			return nil, fmt.Errorf("scanning class: %w", err)
		}
		c.IsDataType = dataType == 1
		c.IsAbstract = abstract == 1
		c.ResolutionOrder = -1
		if order.Valid {
			c.ResolutionOrder = int(order.Int64)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Stats counts the exported rows of a document.
func (s *Store) Stats(ctx context.Context, docID int64) (uml.Stats, error) {
	if err := s.exists(ctx, docID); err != nil {
		return uml.Stats{}, err
	}
	var st uml.Stats
	counts := []struct {
		dst   *int
		query string
	}{
		{&st.Packages, "SELECT COUNT(*) FROM packages WHERE document_id = ?"},
		{&st.Classes, "SELECT COUNT(*) FROM classes WHERE document_id = ? AND is_data_type = 0"},
		{&st.DataTypes, "SELECT COUNT(*) FROM classes WHERE document_id = ? AND is_data_type = 1"},
		{&st.Enums, "SELECT COUNT(*) FROM enums WHERE document_id = ?"},
		{&st.Attributes, "SELECT COUNT(*) FROM attributes WHERE document_id = ?"},
		{&st.Associations, "SELECT COUNT(*) FROM associations WHERE document_id = ?"},
		{&st.Operations, "SELECT COUNT(*) FROM operations WHERE document_id = ?"},
		{&st.Diagrams, "SELECT COUNT(*) FROM diagrams WHERE document_id = ?"},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, docID).Scan(c.dst); err != nil {
			return uml.Stats{}, fmt.Errorf("counting rows: %w", err)
		}
	}
	return st, nil
}

// Delete removes an exported document and all of its rows.
func (s *Store) Delete(ctx context.Context, docID int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", docID)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) exists(ctx context.Context, docID int64) error {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM documents WHERE id = ?", docID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("looking up document: %w", err)
	}
	return nil
}

// nullString converts empty strings to NULL.
func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
