package services

// ServiceContainer holds instances of all the application services.
// Each field is an interface so consumers depend on contracts, not
// implementations.
type ServiceContainer struct {
	Writer         JournalEntryWriterSvc
	Reverser       JournalEntryReverserSvc
	RunningBalance RunningBalanceSvc
}
