package pgsql

import (
	portsrepo "github.com/corebank/subledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		MappingRepo: newPgxAccountMappingRepository(dbPool),
		AccountRepo: newPgxGLAccountRepository(dbPool),
		ClosureRepo: newPgxGLClosureRepository(dbPool),
		OfficeRepo:  newPgxOfficeRepository(dbPool),
		EntryRepo:   newPgxJournalEntryRepository(dbPool),
	}
}
