// Package datasets reads the seven referral program datasets into memory.
package datasets

import (
	"context"
	"path/filepath"

	"github.com/agentstation/refrecon/pkg/constants"
	pkgerrors "github.com/agentstation/refrecon/pkg/errors"
	"github.com/agentstation/refrecon/pkg/logging"
	"github.com/agentstation/refrecon/pkg/tabular"
)

// ID names one source relation. The value is also the default file stem.
type ID string

// The seven source relations.
const (
	UserReferrals        ID = "user_referrals"
	UserReferralLogs     ID = "user_referral_logs"
	UserLogs             ID = "user_logs"
	UserReferralStatuses ID = "user_referral_statuses"
	ReferralRewards      ID = "referral_rewards"
	PaidTransactions     ID = "paid_transactions"
	LeadLog              ID = "lead_log"
)

// String returns the ID as a string.
func (id ID) String() string {
	return string(id)
}

// ProfileLabel is the short name the source carries in the profiling report.
func (id ID) ProfileLabel() string {
	switch id {
	case UserReferralStatuses:
		return "statuses"
	case ReferralRewards:
		return "rewards"
	case PaidTransactions:
		return "transactions"
	case LeadLog:
		return "leads"
	default:
		return string(id)
	}
}

// All returns every source ID in load order.
func All() []ID {
	return []ID{
		UserReferrals,
		UserReferralLogs,
		UserLogs,
		UserReferralStatuses,
		ReferralRewards,
		PaidTransactions,
		LeadLog,
	}
}

// requiredColumns lists the columns each raw source must carry for the
// joins and rules to be evaluable. Other columns are optional and read as
// missing when absent.
var requiredColumns = map[ID][]string{
	UserReferrals:        {"referral_id", "referrer_id", "referee_id", "referral_source", "referral_at", "user_referral_status_id", "referral_reward_id", "transaction_id"},
	UserReferralLogs:     {"id", "user_referral_id", "description", "is_reward_granted"},
	UserLogs:             {"user_id", "is_deleted", "membership_expired_date"},
	UserReferralStatuses: {"id"},
	ReferralRewards:      {"id", "reward_value"},
	PaidTransactions:     {"transaction_id", "transaction_status", "transaction_type", "transaction_at"},
	LeadLog:              {"lead_id", "source_category"},
}

// RequiredColumns returns the columns the given source must provide.
func RequiredColumns(id ID) []string {
	return requiredColumns[id]
}

// Set is the collection of loaded raw tables.
type Set struct {
	tables   map[ID]*tabular.Table
	Warnings map[ID][]tabular.Warning
}

// NewSet builds a set from already-decoded tables, validating required columns.
func NewSet(tables map[ID]*tabular.Table) (*Set, error) {
	set := &Set{
		tables:   make(map[ID]*tabular.Table, len(tables)),
		Warnings: make(map[ID][]tabular.Warning),
	}
	for _, id := range All() {
		t, ok := tables[id]
		if !ok || t == nil {
			return nil, pkgerrors.NewNotFoundError("source", id.String())
		}
		if err := validate(id, t); err != nil {
			return nil, err
		}
		set.tables[id] = t
	}
	return set, nil
}

// Table returns the raw table of a source.
func (s *Set) Table(id ID) *tabular.Table {
	return s.tables[id]
}

func validate(id ID, t *tabular.Table) error {
	for _, col := range requiredColumns[id] {
		if !t.HasColumn(col) {
			return pkgerrors.NewValidationError(id.String()+"."+col, nil, "required column missing")
		}
	}
	return nil
}

// Loader reads the sources from files in a directory.
type Loader struct {
	dir   string
	files map[ID]string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFile overrides the file of one source, relative to the data directory or absolute.
func WithFile(id ID, file string) LoaderOption {
	return func(l *Loader) {
		if file != "" {
			l.files[id] = file
		}
	}
}

// NewLoader creates a loader over dir. Each source defaults to <id>.csv.
func NewLoader(dir string, opts ...LoaderOption) *Loader {
	l := &Loader{
		dir:   dir,
		files: make(map[ID]string, len(All())),
	}
	for _, id := range All() {
		l.files[id] = id.String() + constants.SourceFileExt
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Path returns the resolved path of one source.
func (l *Loader) Path(id ID) string {
	file := l.files[id]
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(l.dir, file)
}

// Load reads and validates every source.
func (l *Loader) Load(ctx context.Context) (*Set, error) {
	tables := make(map[ID]*tabular.Table, len(All()))
	warnings := make(map[ID][]tabular.Warning)
	for _, id := range All() {
		if err := ctx.Err(); err != nil {
			return nil, pkgerrors.WrapCanceled("load sources", err)
		}

		path := l.Path(id)
		sourceLogger := logging.Ctx(logging.WithFields(ctx, map[string]any{
			"table": id.String(),
			"path":  path,
		}))

		table, warns, err := tabular.ReadFile(path, id.String())
		if err != nil {
			return nil, pkgerrors.WrapResource("load", "source", id.String(), err)
		}
		tables[id] = table
		if len(warns) > 0 {
			warnings[id] = warns
			sourceLogger.Warn().
				Int("warnings", len(warns)).
				Msg("Source decoded with warnings")
		}
		sourceLogger.Debug().
			Int("rows", table.Len()).
			Int("columns", len(table.Columns)).
			Msg("Loaded source")
	}

	set, err := NewSet(tables)
	if err != nil {
		return nil, err
	}
	set.Warnings = warnings
	return set, nil
}
