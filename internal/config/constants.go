package config

const (
	// DefaultDatabasePath is the default path for the main application database
	DefaultDatabasePath = "./bookshelf.db"

	// DefaultPort is the HTTP port the server listens on
	DefaultPort = 3750
)
