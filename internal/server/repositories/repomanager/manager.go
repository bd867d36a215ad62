package repomanager

import (
	"context"
	"database/sql"

	"github.com/avasiliev/authkeeper/internal/dbx"
	"github.com/avasiliev/authkeeper/internal/server/repositories/refreshtokens"
	"github.com/avasiliev/authkeeper/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so a service can run
// the same repository against its pool connection or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
