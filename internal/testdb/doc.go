// Package testdb provides database fixtures for tests.
//
// SQLite fixtures are private in-memory databases with the schema applied, so
// tests using them can run in parallel without any external service.
//
// Postgres fixtures connect to the database named by FLASHCARDS_TEST_DATABASE_URL
// (or DATABASE_URL) and are skipped when neither is set. Each test runs in its
// own transaction that is rolled back when the test ends:
//
//	func TestSomething(t *testing.T) {
//	    db := testdb.OpenPostgres(t)
//	    testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
//	        cards := postgres.NewPostgresCardStore(tx, nil)
//	        ...
//	    })
//	}
package testdb
