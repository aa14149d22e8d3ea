//go:build integration

// Package testdb provides helpers for tests that need a real PostgreSQL
// database. Each test runs in its own transaction that is rolled back when the
// test ends, so tests can run in parallel on a shared schema.
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.GetTestDBWithT(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        tasks := postgres.NewPostgresTaskStore(tx, nil)
//	        ...
//	    })
//	}
//
// Tests are skipped when neither ERRORFREE_TEST_DATABASE_URL nor DATABASE_URL
// is set.
package testdb
