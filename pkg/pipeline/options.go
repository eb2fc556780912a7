package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/agentstation/refrecon/pkg/constants"
	"github.com/agentstation/refrecon/pkg/errors"
)

// options configures a Reconciler.
type options struct {
	profileOutput string
	reportOutput  string
	clock         func() time.Time
	runID         func() string
}

func defaultOptions() *options {
	return &options{
		profileOutput: constants.DefaultProfileOutput,
		reportOutput:  constants.DefaultReportOutput,
		clock:         time.Now,
		runID:         uuid.NewString,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithProfileOutput sets the path of the profiling report. An empty path
// disables writing it.
func WithProfileOutput(path string) Option {
	return func(o *options) error {
		o.profileOutput = path
		return nil
	}
}

// WithReportOutput sets the path of the reconciliation report. An empty
// path disables writing it.
func WithReportOutput(path string) Option {
	return func(o *options) error {
		o.reportOutput = path
		return nil
	}
}

// WithoutOutputs disables both report files.
func WithoutOutputs() Option {
	return func(o *options) error {
		o.profileOutput = ""
		o.reportOutput = ""
		return nil
	}
}

// WithClock sets the time source used for run metadata.
func WithClock(clock func() time.Time) Option {
	return func(o *options) error {
		if clock == nil {
			return &errors.ValidationError{
				Field:   "clock",
				Message: "cannot be nil",
			}
		}
		o.clock = clock
		return nil
	}
}

// WithRunID fixes the run identifier instead of generating one.
func WithRunID(id string) Option {
	return func(o *options) error {
		if id == "" {
			return &errors.ValidationError{
				Field:   "run_id",
				Message: "cannot be empty",
			}
		}
		o.runID = func() string { return id }
		return nil
	}
}
