// Package database owns the SQLite connection that backs the book collection.
//
// # Architecture
//
//	database/
//	├── database.go      # Connection setup and migrations
//	├── books/           # The books collection: insert, find, partial update, delete
//	└── audit/           # Audit event persistence
//
// The connection is opened once at startup and handed to each repository:
//
//	db, err := database.NewDatabase("./bookshelf.db")
//
//	booksRepo := books.NewRepository(db.DB)
//	auditRepo := audit.NewRepository(db.DB)
//
// # Adding a New Collection
//
//  1. Add the entity to internal/entities and to the AutoMigrate call in Open
//  2. Create a sub-package with a Repository holding a *gorm.DB
//  3. Add NewRepository(db *gorm.DB) constructor
//  4. Add a compile-time interface check in internal/interfaces
package database
