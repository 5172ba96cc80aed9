package domain

import "time"

type Project struct {
	ID        int64
	Name      string
	Owner     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PreferencesRecord is a project's design preferences document as persisted,
// with the version used for optimistic concurrency.
type PreferencesRecord struct {
	ProjectID   int64
	Preferences *DesignPreferences
	Version     int64
	UpdatedAt   time.Time
}
