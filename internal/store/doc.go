// Package store defines the persistence contract for correction tasks and the
// errors and transaction helper shared by its implementations. The PostgreSQL
// implementation lives in internal/platform/postgres and the in-memory one in
// internal/store/memory.
package store
