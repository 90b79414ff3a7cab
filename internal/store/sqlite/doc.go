// Package sqlite exports assembled UML documents into a SQLite database.
//
// The adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Every element kind gets its own table keyed by the
// owning document, so exported models can be queried with plain SQL:
//
//	SELECT c.name, a.member_end
//	FROM classes c JOIN associations a
//	  ON a.document_id = c.document_id AND a.class_xmi_id = c.xmi_id
//	WHERE a.kind = 'aggregation';
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are recorded in schema_migrations.
//
// # Re-export
//
// Documents are keyed by their source path. Exporting a document whose
// source already exists replaces the previous rows in one transaction.
package sqlite
