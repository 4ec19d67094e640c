// Package sqlite implements the store interfaces on SQLite through gorm. It
// is meant for single-household deployments where running PostgreSQL is not
// worth it. The pool holds a single connection, so transactions never
// overlap and the guarded generation marker is enough to prevent duplicates.
package sqlite
