package services

import (
	portsrepo "github.com/corebank/subledger/internal/core/ports/repositories"
	portssvc "github.com/corebank/subledger/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	resolver := NewAccountResolver(repos.MappingRepo, repos.AccountRepo)
	helper := NewPostingHelper(resolver, repos.ClosureRepo, repos.OfficeRepo)

	return &portssvc.ServiceContainer{
		Writer:         NewJournalEntryWriterService(helper, repos.EntryRepo),
		Reverser:       NewJournalEntryReversalService(helper, repos.EntryRepo),
		RunningBalance: NewRunningBalanceService(repos.EntryRepo),
	}
}
