package ports

// Progress tracks completion of a fixed number of steps.
type Progress interface {
	// Add advances the progress by n steps.
	Add(n int) error

	// Finish marks the work as complete.
	Finish() error
}

// ProgressFactory creates a Progress for each unit of work.
type ProgressFactory interface {
	New(total int, description string) Progress
}
