// Package normalize turns the raw source tables into typed relations that
// are safe to join. Values that cannot be coerced become missing; nothing
// in this package fails because of cell contents.
package normalize

import (
	"context"
	"maps"
	"slices"

	"github.com/agentstation/refrecon/pkg/datasets"
	"github.com/agentstation/refrecon/pkg/logging"
	"github.com/agentstation/refrecon/pkg/records"
	"github.com/agentstation/refrecon/pkg/tabular"
)

// renames maps the columns that would collide in the joins to their
// joined names.
var renames = map[datasets.ID]map[string]string{
	datasets.UserReferralStatuses: {"id": "status_id", "created_at": "status_created_at"},
	datasets.ReferralRewards:      {"id": "reward_id", "created_at": "reward_created_at"},
	datasets.UserReferralLogs:     {"id": "referral_details_id"},
	datasets.LeadLog:              {"created_at": "lead_created_at"},
}

// Renames returns the column renames applied to a source before joining.
func Renames(id datasets.ID) map[string]string {
	return maps.Clone(renames[id])
}

// Relations holds the typed rows of every source, in source order.
type Relations struct {
	Referrals    []records.Referral
	Details      []records.ReferralDetail
	Statuses     []records.Status
	Rewards      []records.Reward
	Transactions []records.Transaction
	Accounts     []records.UserAccount
	Leads        []records.Lead
}

// Fault counts the present values of one column that could not be coerced.
type Fault struct {
	Table  string `json:"table" yaml:"table"`
	Column string `json:"column" yaml:"column"`
	Count  int    `json:"count" yaml:"count"`
}

// Report describes what normalization changed.
type Report struct {
	Faults []Fault `json:"faults,omitempty" yaml:"faults,omitempty"`
}

// Total returns the number of values dropped across all columns.
func (r *Report) Total() int {
	n := 0
	for _, f := range r.Faults {
		n += f.Count
	}
	return n
}

func (r *Report) collect(id datasets.ID, c *coercer) {
	for _, col := range c.order {
		r.Faults = append(r.Faults, Fault{Table: id.String(), Column: col, Count: c.faults[col]})
	}
}

// Normalize converts every source of the set.
func Normalize(ctx context.Context, set *datasets.Set) (*Relations, *Report) {
	rel := &Relations{}
	report := &Report{}

	table := func(id datasets.ID) *coercer {
		t := set.Table(id)
		if r, ok := renames[id]; ok {
			t = t.Rename(r)
		}
		return newCoercer(t)
	}

	c := table(datasets.UserReferrals)
	rel.Referrals = referrals(c)
	report.collect(datasets.UserReferrals, c)

	c = table(datasets.UserReferralLogs)
	rel.Details = details(c)
	report.collect(datasets.UserReferralLogs, c)

	c = table(datasets.UserReferralStatuses)
	rel.Statuses = statuses(c)
	report.collect(datasets.UserReferralStatuses, c)

	c = table(datasets.ReferralRewards)
	rel.Rewards = rewards(c)
	report.collect(datasets.ReferralRewards, c)

	c = table(datasets.PaidTransactions)
	rel.Transactions = transactions(c)
	report.collect(datasets.PaidTransactions, c)

	c = table(datasets.UserLogs)
	rel.Accounts = accounts(c)
	report.collect(datasets.UserLogs, c)

	c = table(datasets.LeadLog)
	rel.Leads = leads(c)
	report.collect(datasets.LeadLog, c)

	for _, f := range report.Faults {
		logging.Ctx(logging.WithTable(ctx, f.Table)).Debug().
			Str("column", f.Column).
			Int("count", f.Count).
			Msg("Coerced unparseable values to missing")
	}
	return rel, report
}

// referrals converts user_referrals rows.
func referrals(c *coercer) []records.Referral {
	out := make([]records.Referral, c.table.Len())
	for i := range out {
		out[i] = records.Referral{
			ReferralID:     c.str(i, "referral_id"),
			ReferrerID:     c.str(i, "referrer_id"),
			RefereeID:      c.str(i, "referee_id"),
			ReferralSource: c.str(i, "referral_source"),
			StatusID:       c.str(i, "user_referral_status_id"),
			RewardID:       c.str(i, "referral_reward_id"),
			TransactionID:  c.str(i, "transaction_id"),
			ReferralAt:     c.time(i, "referral_at"),
			UpdatedAt:      c.time(i, "updated_at"),
		}
	}
	return out
}

// details converts user_referral_logs rows, after renaming.
func details(c *coercer) []records.ReferralDetail {
	out := make([]records.ReferralDetail, c.table.Len())
	for i := range out {
		out[i] = records.ReferralDetail{
			ID:              c.str(i, "referral_details_id"),
			UserReferralID:  c.str(i, "user_referral_id"),
			Description:     c.str(i, "description"),
			CreatedAt:       c.time(i, "created_at"),
			IsRewardGranted: c.boolean(i, "is_reward_granted"),
		}
	}
	return out
}

// statuses converts user_referral_statuses rows, after renaming. The label
// is read from the first column that is neither the key nor the timestamp.
func statuses(c *coercer) []records.Status {
	label := labelColumn(c.table, "status_id", "status_created_at")
	out := make([]records.Status, c.table.Len())
	for i := range out {
		out[i] = records.Status{
			ID:          c.str(i, "status_id"),
			LabelColumn: label,
			CreatedAt:   c.str(i, "status_created_at"),
		}
		if label != "" {
			out[i].Label = c.str(i, label)
		}
	}
	return out
}

func labelColumn(t *tabular.Table, skip ...string) string {
	for _, col := range t.Columns {
		if !slices.Contains(skip, col) {
			return col
		}
	}
	return ""
}

// rewards converts referral_rewards rows, after renaming.
func rewards(c *coercer) []records.Reward {
	out := make([]records.Reward, c.table.Len())
	for i := range out {
		out[i] = records.Reward{
			ID:        c.str(i, "reward_id"),
			Value:     c.decimal(i, "reward_value"),
			CreatedAt: c.str(i, "reward_created_at"),
		}
	}
	return out
}

// transactions converts paid_transactions rows.
func transactions(c *coercer) []records.Transaction {
	out := make([]records.Transaction, c.table.Len())
	for i := range out {
		out[i] = records.Transaction{
			ID:       c.str(i, "transaction_id"),
			Status:   c.enum(i, "transaction_status"),
			Type:     c.enum(i, "transaction_type"),
			At:       c.time(i, "transaction_at"),
			Location: c.str(i, "transaction_location"),
		}
	}
	return out
}

// accounts converts user_logs rows.
func accounts(c *coercer) []records.UserAccount {
	out := make([]records.UserAccount, c.table.Len())
	for i := range out {
		out[i] = records.UserAccount{
			ID:                    c.str(i, "id"),
			UserID:                c.str(i, "user_id"),
			Name:                  c.str(i, "name"),
			PhoneNumber:           c.str(i, "phone_number"),
			Homeclub:              c.str(i, "homeclub"),
			MembershipExpiredDate: c.time(i, "membership_expired_date"),
			IsDeleted:             c.boolean(i, "is_deleted"),
			CreatedAt:             c.str(i, "created_at"),
			UpdatedAt:             c.str(i, "updated_at"),
		}
	}
	return out
}

// leads converts lead_log rows, after renaming.
func leads(c *coercer) []records.Lead {
	out := make([]records.Lead, c.table.Len())
	for i := range out {
		out[i] = records.Lead{
			LeadID:         c.str(i, "lead_id"),
			SourceCategory: c.str(i, "source_category"),
			RefereeName:    c.str(i, "referee_name"),
			RefereePhone:   c.str(i, "referee_phone"),
			CreatedAt:      c.str(i, "lead_created_at"),
		}
	}
	return out
}
