// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - BookStore: Book persistence behind the book service (internal/services/interfaces.go)
//   - Pinger: Database liveness for /health (internal/http/stores.go)
//
// ## Service Interfaces
//
//   - BookService: The book collection as seen by HTTP controllers (internal/http/stores.go)
//   - AuditReader: Paginated access to the audit trail (internal/http/stores.go)
//   - ChangeRecorder: Receives book create/update/delete events (internal/services/interfaces.go)
//
// ## Background Task Interfaces
//
//   - AuditEventCleaner: Retention sweep run by the task queue (internal/tasks/cleanup_audit.go)
//   - TaskQueue: Enqueue and inspect tasks over HTTP (internal/http/stores.go)
//   - TaskEnqueuer: Used by cron schedulers (internal/scheduler/audit_cleanup.go)
//
// # Adding a New Background Task
//
//  1. Define the task and its queue in internal/tasks/
//
//     type ReindexTask struct{}
//
//     func (t ReindexTask) Config() backlite.QueueConfig {
//     return backlite.QueueConfig{Name: "reindex", MaxAttempts: 3}
//     }
//
//     func NewReindexQueue(store Reindexer) backlite.Queue {
//     return backlite.NewQueue(ReindexProcessor(store))
//     }
//
//  2. Register the queue in entrypoint.go
//
//  3. List the task type in internal/http/tasks.go so it can be run manually
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// See checks.go for examples.
package interfaces
