package http

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Books    BookService
	Audit    AuditReader // optional
	Database Pinger      // optional, used by /health
	Tasks    TaskQueue   // optional

	// AuditRetentionDays applies to cleanup tasks triggered over the API
	AuditRetentionDays int

	// Middleware
	CORSAllowedOrigins []string
	RateLimiter        *RateLimiter // optional

	// Browser client
	UIEnabled bool

	// Application info
	Version string
}
