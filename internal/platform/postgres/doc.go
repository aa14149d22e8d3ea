// Package postgres implements store.TaskStore on PostgreSQL through the pgx
// database/sql driver, maps driver errors to store errors, and ships the
// goose migrations that create the tasks table.
package postgres
