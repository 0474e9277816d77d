package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/petkeeper/internal/dbx"
	"github.com/dmitrijs2005/petkeeper/internal/server/repositories/pets"
	"github.com/dmitrijs2005/petkeeper/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/petkeeper/internal/server/repositories/reminders"
	"github.com/dmitrijs2005/petkeeper/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so services can use
// the same code path with or without a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Pets(db dbx.DBTX) pets.Repository
	Reminders(db dbx.DBTX) reminders.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
