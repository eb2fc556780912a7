package records

import (
	"github.com/agentstation/utc"

	"github.com/agentstation/refrecon/pkg/constants"
)

// Column is one flat, named attribute of a Joined record.
type Column struct {
	Name string
	// Value renders the attribute; ok is false when it is missing.
	Value func(j *Joined) (value string, ok bool)
}

var (
	schema      = buildSchema()
	schemaIndex = indexSchema(schema)
)

// Columns returns the flat schema of a Joined record in join order.
func Columns() []Column {
	out := make([]Column, len(schema))
	copy(out, schema)
	return out
}

// ColumnNames returns the names of Columns.
func ColumnNames() []string {
	names := make([]string, len(schema))
	for i, c := range schema {
		names[i] = c.Name
	}
	return names
}

// LookupColumn finds a column of the flat schema by name.
func LookupColumn(name string) (Column, bool) {
	i, ok := schemaIndex[name]
	if !ok {
		return Column{}, false
	}
	return schema[i], true
}

// Value renders the named attribute. The status label is addressable under
// the source column that supplied it.
func (j *Joined) Value(name string) (string, bool) {
	if c, ok := LookupColumn(name); ok {
		return c.Value(j)
	}
	if j.Status != nil && j.Status.LabelColumn != "" && j.Status.LabelColumn == name {
		return str(j.Status.Label)
	}
	return "", false
}

func indexSchema(cols []Column) map[string]int {
	idx := make(map[string]int, len(cols))
	for i, c := range cols {
		idx[c.Name] = i
	}
	return idx
}

// buildSchema lays out the columns in the order the joins contribute them.
// Referrer account columns that collide with an earlier name take the
// referrer suffix.
func buildSchema() []Column {
	var cols []Column
	seen := make(map[string]bool)
	add := func(name string, fn func(*Joined) (string, bool)) {
		cols = append(cols, Column{Name: name, Value: fn})
		seen[name] = true
	}
	addReferrer := func(name string, fn func(*Joined) (string, bool)) {
		if seen[name] {
			name += constants.ReferrerSuffix
		}
		add(name, fn)
	}

	add("referral_id", text(func(j *Joined) *string { return j.Referral.ReferralID }))
	add("referral_source", text(func(j *Joined) *string { return j.Referral.ReferralSource }))
	add("referral_at", func(j *Joined) (string, bool) { return timestamp(j.Referral.ReferralAt) })
	add("referrer_id", text(func(j *Joined) *string { return j.Referral.ReferrerID }))
	add("referee_id", text(func(j *Joined) *string { return j.Referral.RefereeID }))
	add("user_referral_status_id", text(func(j *Joined) *string { return j.Referral.StatusID }))
	add("referral_reward_id", text(func(j *Joined) *string { return j.Referral.RewardID }))
	add("transaction_id", text(func(j *Joined) *string { return j.Referral.TransactionID }))
	add("updated_at", func(j *Joined) (string, bool) { return timestamp(j.Referral.UpdatedAt) })

	add("referral_details_id", text(detail(func(d *ReferralDetail) *string { return d.ID })))
	add("user_referral_id", text(detail(func(d *ReferralDetail) *string { return d.UserReferralID })))
	add("description", text(detail(func(d *ReferralDetail) *string { return d.Description })))
	add("created_at", func(j *Joined) (string, bool) {
		if j.Detail == nil {
			return "", false
		}
		return timestamp(j.Detail.CreatedAt)
	})
	add("is_reward_granted", func(j *Joined) (string, bool) {
		if j.Detail == nil {
			return "", false
		}
		return boolean(j.Detail.IsRewardGranted), true
	})

	add("status_id", text(func(j *Joined) *string {
		if j.Status == nil {
			return nil
		}
		return j.Status.ID
	}))
	add("status_created_at", text(func(j *Joined) *string {
		if j.Status == nil {
			return nil
		}
		return j.Status.CreatedAt
	}))

	add("reward_id", text(func(j *Joined) *string {
		if j.Reward == nil {
			return nil
		}
		return j.Reward.ID
	}))
	add("reward_value", func(j *Joined) (string, bool) {
		v := j.RewardValue()
		if !v.Valid {
			return "", false
		}
		return v.Decimal.String(), true
	})
	add("reward_created_at", text(func(j *Joined) *string {
		if j.Reward == nil {
			return nil
		}
		return j.Reward.CreatedAt
	}))

	add("transaction_status", text(transaction(func(t *Transaction) *string { return t.Status })))
	add("transaction_type", text(transaction(func(t *Transaction) *string { return t.Type })))
	add("transaction_at", func(j *Joined) (string, bool) {
		if j.Transaction == nil {
			return "", false
		}
		return timestamp(j.Transaction.At)
	})
	add("transaction_location", text(transaction(func(t *Transaction) *string { return t.Location })))

	addReferrer("id", text(referrer(func(u *UserAccount) *string { return u.ID })))
	addReferrer("user_id", text(referrer(func(u *UserAccount) *string { return u.UserID })))
	addReferrer("name", text(referrer(func(u *UserAccount) *string { return u.Name })))
	addReferrer("phone_number", text(referrer(func(u *UserAccount) *string { return u.PhoneNumber })))
	addReferrer("homeclub", text(referrer(func(u *UserAccount) *string { return u.Homeclub })))
	addReferrer("membership_expired_date", func(j *Joined) (string, bool) {
		if j.Referrer == nil {
			return "", false
		}
		return timestamp(j.Referrer.MembershipExpiredDate)
	})
	addReferrer("is_deleted", func(j *Joined) (string, bool) {
		if j.Referrer == nil {
			return "", false
		}
		return boolean(j.Referrer.IsDeleted), true
	})
	addReferrer("created_at", text(referrer(func(u *UserAccount) *string { return u.CreatedAt })))
	addReferrer("updated_at", text(referrer(func(u *UserAccount) *string { return u.UpdatedAt })))

	add("lead_id", text(lead(func(l *Lead) *string { return l.LeadID })))
	add("source_category", text(lead(func(l *Lead) *string { return l.SourceCategory })))
	add("referee_name", text(lead(func(l *Lead) *string { return l.RefereeName })))
	add("referee_phone", text(lead(func(l *Lead) *string { return l.RefereePhone })))
	add("lead_created_at", text(lead(func(l *Lead) *string { return l.CreatedAt })))

	add("referral_source_category", text(func(j *Joined) *string { return j.SourceCategory }))
	add("is_business_logic_valid", func(j *Joined) (string, bool) {
		return boolean(j.BusinessLogicValid), true
	})

	return cols
}

func text(get func(*Joined) *string) func(*Joined) (string, bool) {
	return func(j *Joined) (string, bool) {
		return str(get(j))
	}
}

func detail(get func(*ReferralDetail) *string) func(*Joined) *string {
	return func(j *Joined) *string {
		if j.Detail == nil {
			return nil
		}
		return get(j.Detail)
	}
}

func transaction(get func(*Transaction) *string) func(*Joined) *string {
	return func(j *Joined) *string {
		if j.Transaction == nil {
			return nil
		}
		return get(j.Transaction)
	}
}

func referrer(get func(*UserAccount) *string) func(*Joined) *string {
	return func(j *Joined) *string {
		if j.Referrer == nil {
			return nil
		}
		return get(j.Referrer)
	}
}

func lead(get func(*Lead) *string) func(*Joined) *string {
	return func(j *Joined) *string {
		if j.Lead == nil {
			return nil
		}
		return get(j.Lead)
	}
}

func str(s *string) (string, bool) {
	if s == nil {
		return "", false
	}
	return *s, true
}

// FormatTime renders a timestamp the way the reconciliation report writes it.
func FormatTime(t utc.Time) string {
	return t.Time.UTC().Format(constants.TimeFormatReport)
}

func timestamp(t *utc.Time) (string, bool) {
	if t == nil {
		return "", false
	}
	return FormatTime(*t), true
}

func boolean(b bool) string {
	if b {
		return constants.BoolTrue
	}
	return constants.BoolFalse
}
