// Package records defines the typed entities of the referral program and
// the Joined composite built from them. Fields that can be absent, either
// because the source cell was missing, a coercion failed, or a left-outer
// join found no match, are pointers or nullable types.
package records

import (
	"github.com/agentstation/utc"
	"github.com/shopspring/decimal"

	"github.com/agentstation/refrecon/internal/utils/ptr"
)

// Referral is one row of user_referrals.
type Referral struct {
	ReferralID     *string   `json:"referral_id" yaml:"referral_id"`
	ReferrerID     *string   `json:"referrer_id" yaml:"referrer_id"`
	RefereeID      *string   `json:"referee_id" yaml:"referee_id"`
	ReferralSource *string   `json:"referral_source" yaml:"referral_source"`
	StatusID       *string   `json:"user_referral_status_id" yaml:"user_referral_status_id"`
	RewardID       *string   `json:"referral_reward_id" yaml:"referral_reward_id"`
	TransactionID  *string   `json:"transaction_id" yaml:"transaction_id"`
	ReferralAt     *utc.Time `json:"referral_at" yaml:"referral_at"`
	UpdatedAt      *utc.Time `json:"updated_at" yaml:"updated_at"`
}

// ReferralDetail is one row of user_referral_logs.
type ReferralDetail struct {
	ID              *string   `json:"referral_details_id" yaml:"referral_details_id"`
	UserReferralID  *string   `json:"user_referral_id" yaml:"user_referral_id"`
	Description     *string   `json:"description" yaml:"description"`
	CreatedAt       *utc.Time `json:"created_at" yaml:"created_at"`
	IsRewardGranted bool      `json:"is_reward_granted" yaml:"is_reward_granted"`
}

// Status is one row of user_referral_statuses. The label column has no
// fixed name in the source; LabelColumn records which column supplied it.
type Status struct {
	ID          *string `json:"status_id" yaml:"status_id"`
	Label       *string `json:"label" yaml:"label"`
	LabelColumn string  `json:"-" yaml:"-"`
	CreatedAt   *string `json:"status_created_at" yaml:"status_created_at"`
}

// Reward is one row of referral_rewards.
type Reward struct {
	ID        *string             `json:"reward_id" yaml:"reward_id"`
	Value     decimal.NullDecimal `json:"reward_value" yaml:"reward_value"`
	CreatedAt *string             `json:"reward_created_at" yaml:"reward_created_at"`
}

// Transaction is one row of paid_transactions.
type Transaction struct {
	ID       *string   `json:"transaction_id" yaml:"transaction_id"`
	Status   *string   `json:"transaction_status" yaml:"transaction_status"`
	Type     *string   `json:"transaction_type" yaml:"transaction_type"`
	At       *utc.Time `json:"transaction_at" yaml:"transaction_at"`
	Location *string   `json:"transaction_location" yaml:"transaction_location"`
}

// UserAccount is one row of user_logs, the referrer's profile.
type UserAccount struct {
	ID                    *string   `json:"id" yaml:"id"`
	UserID                *string   `json:"user_id" yaml:"user_id"`
	Name                  *string   `json:"name" yaml:"name"`
	PhoneNumber           *string   `json:"phone_number" yaml:"phone_number"`
	Homeclub              *string   `json:"homeclub" yaml:"homeclub"`
	MembershipExpiredDate *utc.Time `json:"membership_expired_date" yaml:"membership_expired_date"`
	IsDeleted             bool      `json:"is_deleted" yaml:"is_deleted"`
	CreatedAt             *string   `json:"created_at" yaml:"created_at"`
	UpdatedAt             *string   `json:"updated_at" yaml:"updated_at"`
}

// Lead is one row of lead_log.
type Lead struct {
	LeadID         *string `json:"lead_id" yaml:"lead_id"`
	SourceCategory *string `json:"source_category" yaml:"source_category"`
	RefereeName    *string `json:"referee_name" yaml:"referee_name"`
	RefereePhone   *string `json:"referee_phone" yaml:"referee_phone"`
	CreatedAt      *string `json:"lead_created_at" yaml:"lead_created_at"`
}

// Joined is one referral with at most one matching row from each related
// relation. A nil side means the left-outer join found no match.
type Joined struct {
	Referral    Referral
	Detail      *ReferralDetail
	Status      *Status
	Reward      *Reward
	Transaction *Transaction
	Referrer    *UserAccount
	Lead        *Lead

	// Derived attributes.
	SourceCategory     *string
	BusinessLogicValid bool
}

// Clone returns a shallow copy. Related rows are shared; they are never
// modified after normalization.
func (j *Joined) Clone() *Joined {
	c := *j
	return &c
}

// RewardValue returns the joined reward value, invalid when no reward matched.
func (j *Joined) RewardValue() decimal.NullDecimal {
	if j.Reward == nil {
		return decimal.NullDecimal{}
	}
	return j.Reward.Value
}

// Description returns the referral log outcome, nil when absent.
func (j *Joined) Description() *string {
	if j.Detail == nil {
		return nil
	}
	return j.Detail.Description
}

// ReferralID returns the referral key as a plain string, empty when missing.
func (j *Joined) ReferralID() string {
	return ptr.Value(j.Referral.ReferralID)
}
