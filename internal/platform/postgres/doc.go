// Package postgres implements the store interfaces on PostgreSQL through the
// pgx database/sql driver. Schema changes ship as embedded goose migrations
// (see Migrate), and a Transactor binds every store to one *sql.Tx so that a
// unit of work either commits as a whole or not at all.
//
// Row locks (SELECT ... FOR UPDATE) are used when reading a periodic task for
// generation, and the generation marker is written with a compare-and-set
// UPDATE so that two concurrent sweeps cannot both produce a task.
package postgres
