// Package repomanager hands out repositories bound to an explicit database
// handle, so a service can run the same repository against the pool or
// inside a transaction.
package repomanager

import (
	"context"
	"database/sql"

	"todoapp/internal/dbx"
	"todoapp/internal/server/repositories/todos"
	"todoapp/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Todos(db dbx.DBTX) todos.Repository
}
