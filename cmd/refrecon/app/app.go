// Package app provides the application context and dependency management
// for the refrecon CLI. It centralizes configuration, logging and the
// construction of loaders and reconcilers for the commands.
package app

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/agentstation/refrecon/internal/appcontext"
	"github.com/agentstation/refrecon/pkg/datasets"
	"github.com/agentstation/refrecon/pkg/errors"
	"github.com/agentstation/refrecon/pkg/pipeline"
)

// App represents the refrecon application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Set when the logger was supplied by an option and must survive
	// flag parsing
	fixedLogger bool

	// Command output; nil means stdout
	out io.Writer
}

// Ensure App implements appcontext.Interface at compile time.
var _ appcontext.Interface = (*App)(nil)

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// ProfileOutput returns the configured profiling report path.
func (a *App) ProfileOutput() string {
	return a.config.ProfileOutput
}

// ReportOutput returns the configured reconciliation report path.
func (a *App) ReportOutput() string {
	return a.config.ReportOutput
}

// Loader returns a loader over the configured data directory.
func (a *App) Loader() *datasets.Loader {
	var opts []datasets.LoaderOption
	for _, id := range datasets.All() {
		if file := a.config.Sources[id.String()]; file != "" {
			opts = append(opts, datasets.WithFile(id, file))
		}
	}
	return datasets.NewLoader(a.config.DataDir, opts...)
}

// Reconciler creates a reconciler writing the configured outputs.
func (a *App) Reconciler(opts ...pipeline.Option) (pipeline.Reconciler, error) {
	base := []pipeline.Option{
		pipeline.WithProfileOutput(a.config.ProfileOutput),
		pipeline.WithReportOutput(a.config.ReportOutput),
	}
	r, err := pipeline.New(append(base, opts...)...)
	if err != nil {
		return nil, errors.WrapResource("create", "reconciler", "", err)
	}
	return r, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return &errors.ValidationError{Field: "config", Message: "cannot be nil"}
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		a.fixedLogger = logger != nil
		return nil
	}
}

// WithOutput sets the writer commands print to.
func WithOutput(w io.Writer) Option {
	return func(a *App) error {
		a.out = w
		return nil
	}
}
