package join

import (
	"iter"
	"slices"

	"github.com/agentstation/refrecon/pkg/normalize"
	"github.com/agentstation/refrecon/pkg/records"
)

// Relation is a sequence of joined records.
type Relation = iter.Seq[*records.Joined]

// Step is one named join of the orchestration.
type Step struct {
	Name  string
	Apply func(Relation) Relation
}

// Referrals starts a relation with one record per referral.
func Referrals(rows []records.Referral) Relation {
	return func(yield func(*records.Joined) bool) {
		for _, r := range rows {
			if !yield(&records.Joined{Referral: r}) {
				return
			}
		}
	}
}

// Steps returns the six joins in the order they are applied.
func Steps(rel *normalize.Relations) []Step {
	details := NewIndex(rel.Details, func(d *records.ReferralDetail) *string { return d.UserReferralID })
	statuses := NewIndex(rel.Statuses, func(s *records.Status) *string { return s.ID })
	rewards := NewIndex(rel.Rewards, func(r *records.Reward) *string { return r.ID })
	transactions := NewIndex(rel.Transactions, func(t *records.Transaction) *string { return t.ID })
	accounts := NewIndex(rel.Accounts, func(u *records.UserAccount) *string { return u.UserID })
	leads := NewIndex(rel.Leads, func(l *records.Lead) *string { return l.LeadID })

	return []Step{
		{Name: "referral_details", Apply: func(in Relation) Relation {
			return LeftOuter(in, details,
				func(j *records.Joined) *string { return j.Referral.ReferralID },
				func(j *records.Joined, d *records.ReferralDetail) *records.Joined {
					c := j.Clone()
					c.Detail = d
					return c
				})
		}},
		{Name: "statuses", Apply: func(in Relation) Relation {
			return LeftOuter(in, statuses,
				func(j *records.Joined) *string { return j.Referral.StatusID },
				func(j *records.Joined, s *records.Status) *records.Joined {
					c := j.Clone()
					c.Status = s
					return c
				})
		}},
		{Name: "rewards", Apply: func(in Relation) Relation {
			return LeftOuter(in, rewards,
				func(j *records.Joined) *string { return j.Referral.RewardID },
				func(j *records.Joined, r *records.Reward) *records.Joined {
					c := j.Clone()
					c.Reward = r
					return c
				})
		}},
		{Name: "transactions", Apply: func(in Relation) Relation {
			return LeftOuter(in, transactions,
				func(j *records.Joined) *string { return j.Referral.TransactionID },
				func(j *records.Joined, t *records.Transaction) *records.Joined {
					c := j.Clone()
					c.Transaction = t
					return c
				})
		}},
		{Name: "referrers", Apply: func(in Relation) Relation {
			return LeftOuter(in, accounts,
				func(j *records.Joined) *string { return j.Referral.ReferrerID },
				func(j *records.Joined, u *records.UserAccount) *records.Joined {
					c := j.Clone()
					c.Referrer = u
					return c
				})
		}},
		{Name: "leads", Apply: func(in Relation) Relation {
			return LeftOuter(in, leads,
				func(j *records.Joined) *string { return j.Referral.RefereeID },
				func(j *records.Joined, l *records.Lead) *records.Joined {
					c := j.Clone()
					c.Lead = l
					return c
				})
		}},
	}
}

// Join runs every step over the referrals of rel.
func Join(rel *normalize.Relations) Relation {
	out := Referrals(rel.Referrals)
	for _, step := range Steps(rel) {
		out = step.Apply(out)
	}
	return out
}

// Collect materializes a relation.
func Collect(r Relation) []*records.Joined {
	return slices.Collect(r)
}
