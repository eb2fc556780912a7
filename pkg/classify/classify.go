// Package classify derives the acquisition channel of a referral.
package classify

import (
	"iter"

	"github.com/agentstation/refrecon/internal/utils/ptr"
	"github.com/agentstation/refrecon/pkg/constants"
	"github.com/agentstation/refrecon/pkg/records"
)

// Category returns the source category of a joined record, or nil when the
// referral source is unknown or missing. Lead referrals take the category
// of the matched lead.
func Category(j *records.Joined) *string {
	if j == nil || j.Referral.ReferralSource == nil {
		return nil
	}
	switch *j.Referral.ReferralSource {
	case constants.SourceUserSignUp:
		return ptr.String(constants.CategoryOnline)
	case constants.SourceDraftTransaction:
		return ptr.String(constants.CategoryOffline)
	case constants.SourceLead:
		if j.Lead == nil || j.Lead.SourceCategory == nil {
			return nil
		}
		return ptr.String(*j.Lead.SourceCategory)
	default:
		return nil
	}
}

// Apply yields a copy of each record with its source category set.
func Apply(in iter.Seq[*records.Joined]) iter.Seq[*records.Joined] {
	return func(yield func(*records.Joined) bool) {
		for j := range in {
			c := j.Clone()
			c.SourceCategory = Category(j)
			if !yield(c) {
				return
			}
		}
	}
}
