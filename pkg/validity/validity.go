// Package validity decides whether the reward handling of a joined referral
// record complies with the reward policy.
//
// A record is valid when it satisfies every condition of one of two cases:
//
//   - Case 1, a granted and compliant reward: a positive reward, a
//     "Berhasil" log, a paid new transaction made after the referral in the
//     same calendar month, an active referrer membership, a referrer that is
//     not deleted, and a reward marked as granted.
//   - Case 2, a correctly withheld reward: a "Menunggu" or "Tidak Berhasil"
//     log and no reward value.
//
// Conditions are evaluated over optional fields; a missing field or an
// unmatched join side fails the condition. Evaluation never panics.
package validity

import (
	"iter"

	"github.com/agentstation/utc"

	"github.com/agentstation/refrecon/pkg/constants"
	"github.com/agentstation/refrecon/pkg/records"
)

// Condition is one named predicate of a case.
type Condition struct {
	Name  string
	Check func(*records.Joined) bool
}

// Case identifies the branch that made a record valid.
type Case int

// Cases.
const (
	None Case = iota
	GrantedReward
	WithheldReward
)

// String returns the case name.
func (c Case) String() string {
	switch c {
	case GrantedReward:
		return "granted_reward"
	case WithheldReward:
		return "withheld_reward"
	default:
		return "none"
	}
}

var grantedConditions = []Condition{
	{Name: "reward_value_positive", Check: func(j *records.Joined) bool {
		v := j.RewardValue()
		return v.Valid && v.Decimal.IsPositive()
	}},
	{Name: "description_succeeded", Check: func(j *records.Joined) bool {
		return equals(j.Description(), constants.DescriptionSucceeded)
	}},
	{Name: "transaction_id_present", Check: func(j *records.Joined) bool {
		return j.Referral.TransactionID != nil
	}},
	{Name: "transaction_status_paid", Check: func(j *records.Joined) bool {
		return j.Transaction != nil && equals(j.Transaction.Status, constants.TransactionStatusPaid)
	}},
	{Name: "transaction_type_new", Check: func(j *records.Joined) bool {
		return j.Transaction != nil && equals(j.Transaction.Type, constants.TransactionTypeNew)
	}},
	{Name: "transaction_after_referral", Check: func(j *records.Joined) bool {
		return j.Transaction != nil && after(j.Transaction.At, j.Referral.ReferralAt)
	}},
	// Month of year only; the year is not compared.
	{Name: "transaction_same_month", Check: func(j *records.Joined) bool {
		if j.Transaction == nil || j.Transaction.At == nil || j.Referral.ReferralAt == nil {
			return false
		}
		return j.Transaction.At.Time.Month() == j.Referral.ReferralAt.Time.Month()
	}},
	{Name: "membership_active", Check: func(j *records.Joined) bool {
		return j.Referrer != nil && after(j.Referrer.MembershipExpiredDate, j.Referral.ReferralAt)
	}},
	{Name: "referrer_not_deleted", Check: func(j *records.Joined) bool {
		return j.Referrer != nil && !j.Referrer.IsDeleted
	}},
	{Name: "reward_granted", Check: func(j *records.Joined) bool {
		return j.Detail != nil && j.Detail.IsRewardGranted
	}},
}

var withheldConditions = []Condition{
	{Name: "description_not_succeeded", Check: func(j *records.Joined) bool {
		return equals(j.Description(), constants.DescriptionPending) ||
			equals(j.Description(), constants.DescriptionFailed)
	}},
	{Name: "reward_value_missing", Check: func(j *records.Joined) bool {
		return !j.RewardValue().Valid
	}},
}

// Conditions returns the conditions of a case, in evaluation order.
func Conditions(c Case) []Condition {
	switch c {
	case GrantedReward:
		return append([]Condition(nil), grantedConditions...)
	case WithheldReward:
		return append([]Condition(nil), withheldConditions...)
	default:
		return nil
	}
}

// Evaluate reports whether the record is valid.
func Evaluate(j *records.Joined) bool {
	if j == nil {
		return false
	}
	return all(grantedConditions, j) || all(withheldConditions, j)
}

// Verdict explains the outcome for one record.
type Verdict struct {
	Valid          bool     `json:"valid" yaml:"valid"`
	Case           Case     `json:"-" yaml:"-"`
	CaseName       string   `json:"case" yaml:"case"`
	GrantedFailed  []string `json:"granted_reward_failed,omitempty" yaml:"granted_reward_failed,omitempty"`
	WithheldFailed []string `json:"withheld_reward_failed,omitempty" yaml:"withheld_reward_failed,omitempty"`
}

// Explain evaluates every condition of both cases and names those that failed.
func Explain(j *records.Joined) Verdict {
	if j == nil {
		j = &records.Joined{}
	}
	v := Verdict{
		GrantedFailed:  failed(grantedConditions, j),
		WithheldFailed: failed(withheldConditions, j),
	}
	switch {
	case len(v.GrantedFailed) == 0:
		v.Case = GrantedReward
	case len(v.WithheldFailed) == 0:
		v.Case = WithheldReward
	}
	v.Valid = v.Case != None
	v.CaseName = v.Case.String()
	return v
}

// Apply yields a copy of each record with its validity set.
func Apply(in iter.Seq[*records.Joined]) iter.Seq[*records.Joined] {
	return func(yield func(*records.Joined) bool) {
		for j := range in {
			c := j.Clone()
			c.BusinessLogicValid = Evaluate(j)
			if !yield(c) {
				return
			}
		}
	}
}

func all(conds []Condition, j *records.Joined) bool {
	for _, c := range conds {
		if !c.Check(j) {
			return false
		}
	}
	return true
}

func failed(conds []Condition, j *records.Joined) []string {
	var names []string
	for _, c := range conds {
		if !c.Check(j) {
			names = append(names, c.Name)
		}
	}
	return names
}

func equals(s *string, want string) bool {
	return s != nil && *s == want
}

// after reports whether a is strictly after b. Missing values compare false.
func after(a, b *utc.Time) bool {
	return a != nil && b != nil && a.Time.After(b.Time)
}
