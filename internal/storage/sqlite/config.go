package sqlite

// Config holds SQLite repository configuration derived from storage.Config.
type Config struct {
	// DSN is a SQLite file path or connection string, e.g.:
	//   "DisasterResponse.db"
	//   "file:etl.db?_pragma=busy_timeout(5000)"
	DSN string
}
