package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/refrecon/pkg/constants"
	"github.com/agentstation/refrecon/pkg/datasets"
	"github.com/agentstation/refrecon/pkg/logging"
	"github.com/agentstation/refrecon/pkg/pipeline"
)

// Mock provides a mock implementation of Interface for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default value.
type Mock struct {
	LoaderFunc        func() *datasets.Loader
	ReconcilerFunc    func(...pipeline.Option) (pipeline.Reconciler, error)
	ProfileOutputFunc func() string
	ReportOutputFunc  func() string
	LoggerFunc        func() *zerolog.Logger
	OutputFormatFunc  func() string
	VersionFunc       func() string
	CommitFunc        func() string
	DateFunc          func() string
	BuiltByFunc       func() string
}

// Loader returns a loader using the mock function or one over the default data directory.
func (m *Mock) Loader() *datasets.Loader {
	if m.LoaderFunc != nil {
		return m.LoaderFunc()
	}
	return datasets.NewLoader(constants.DefaultDataDir)
}

// Reconciler returns a reconciler using the mock function or a default one
// writing the mock's outputs.
func (m *Mock) Reconciler(opts ...pipeline.Option) (pipeline.Reconciler, error) {
	if m.ReconcilerFunc != nil {
		return m.ReconcilerFunc(opts...)
	}
	base := []pipeline.Option{
		pipeline.WithProfileOutput(m.ProfileOutput()),
		pipeline.WithReportOutput(m.ReportOutput()),
	}
	return pipeline.New(append(base, opts...)...)
}

// ProfileOutput returns the profiling path using the mock function or "".
func (m *Mock) ProfileOutput() string {
	if m.ProfileOutputFunc != nil {
		return m.ProfileOutputFunc()
	}
	return ""
}

// ReportOutput returns the report path using the mock function or "".
func (m *Mock) ReportOutput() string {
	if m.ReportOutputFunc != nil {
		return m.ReportOutputFunc()
	}
	return ""
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	return logging.NewNopLogger()
}

// OutputFormat returns the format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
