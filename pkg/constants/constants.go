// Package constants provides shared constants used throughout the refrecon codebase.
// This includes file permissions, default paths, business tokens and formats
// that should be consistent across the application.
package constants

import "time"

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Timeout constants
const (
	// ShutdownTimeout bounds cleanup after a failed command
	ShutdownTimeout = 5 * time.Second
)

// Path constants
const (
	// DefaultDataDir is the directory the seven source files are read from
	DefaultDataDir = "data"

	// DefaultProfileOutput is the profiling report written by a run
	DefaultProfileOutput = "profiling.csv"

	// DefaultReportOutput is the reconciliation report written by a run
	DefaultReportOutput = "output_report.csv"

	// DefaultConfigName is the config file name searched in $HOME and the working directory
	DefaultConfigName = ".refrecon"

	// SourceFileExt is appended to a source name to form its default file name
	SourceFileExt = ".csv"
)

// Format constants
const (
	// TimeFormatReport is the layout used for timestamps in the reconciliation report
	TimeFormatReport = "2006-01-02 15:04:05"

	// BoolTrue and BoolFalse are the literals written for boolean report cells
	BoolTrue  = "True"
	BoolFalse = "False"
)

// Referral source tags and the categories they map to
const (
	SourceUserSignUp       = "User Sign Up"
	SourceDraftTransaction = "Draft Transaction"
	SourceLead             = "Lead"

	CategoryOnline  = "Online"
	CategoryOffline = "Offline"
)

// Referral log outcome descriptions
const (
	DescriptionSucceeded = "Berhasil"
	DescriptionPending   = "Menunggu"
	DescriptionFailed    = "Tidak Berhasil"
)

// Transaction enums after normalization
const (
	TransactionStatusPaid = "PAID"
	TransactionTypeNew    = "NEW"
)

// ReferrerSuffix distinguishes referrer account columns that collide with
// columns already present in the joined record.
const ReferrerSuffix = "_referrer"
