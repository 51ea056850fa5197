package repositories

// RepositoryProvider bundles every repository implementation so wiring code
// passes one value around instead of five.
type RepositoryProvider struct {
	MappingRepo AccountMappingRepository
	AccountRepo GLAccountRepository
	ClosureRepo GLClosureRepository
	OfficeRepo  OfficeRepository
	EntryRepo   JournalEntryRepositoryFacade
}
