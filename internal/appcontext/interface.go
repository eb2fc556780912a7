// Package appcontext provides the shared application context interface
// used by all commands. Commands depend on this interface instead of the
// concrete App so they can be tested with Mock.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/refrecon/pkg/datasets"
	"github.com/agentstation/refrecon/pkg/pipeline"
)

// Interface defines the application context that commands need.
type Interface interface {
	// Loader returns a loader over the configured data directory and
	// per-source file overrides.
	Loader() *datasets.Loader

	// Reconciler creates a reconciler from the configured outputs. opts
	// are applied after the configured ones.
	Reconciler(opts ...pipeline.Option) (pipeline.Reconciler, error)

	// ProfileOutput returns the configured profiling report path.
	ProfileOutput() string

	// ReportOutput returns the configured reconciliation report path.
	ReportOutput() string

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, markdown).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
