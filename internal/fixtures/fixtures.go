// Package fixtures provides a small, complete referral dataset for tests.
//
// The canonical dataset covers each reconciliation outcome:
//
//	r1  User Sign Up, paid new transaction in the referral month  -> valid, kept
//	r2  Draft Transaction, pending without reward                 -> valid, kept
//	r3  Lead (Facebook), transaction one month later              -> invalid, kept
//	r4  no referral log                                           -> invalid, dropped
//	r5  pending with a reward attached                            -> invalid, kept
//	r6  two failed logs without reward                            -> valid twice, kept
//	r7  unparseable referral_at                                   -> invalid, dropped
package fixtures

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/agentstation/refrecon/pkg/constants"
	"github.com/agentstation/refrecon/pkg/datasets"
	"github.com/agentstation/refrecon/pkg/tabular"
)

// Expected outcomes of the canonical dataset.
const (
	JoinedRows   = 8
	RetainedRows = 6
	ValidRows    = 4
	InvalidRows  = 4
	DroppedRows  = 2
)

// CSV is the canonical dataset, one document per source.
var CSV = map[datasets.ID]string{
	datasets.UserReferrals: `referral_id,referral_source,referral_at,referrer_id,referee_id,user_referral_status_id,referral_reward_id,transaction_id,updated_at
r1,User Sign Up,2024-05-01 10:00:00,u1,l1,1,1,t1,2024-05-11 09:00:00
r2,Draft Transaction,2024-05-03 08:00:00,u2,l2,2,,t2,2024-05-04 09:00:00
r3,Lead,2024-05-20 12:00:00,u1,l3,1,2,t3,2024-06-16 09:00:00
r4,User Sign Up,2024-05-05 10:00:00,u1,l4,1,1,t4,2024-05-06 09:00:00
r5,User Sign Up,2024-05-07 10:00:00,u2,l5,2,3,t5,2024-05-08 09:00:00
r6,Draft Transaction,2024-05-09 10:00:00,u1,l6,3,,t6,2024-05-10 09:00:00
r7,User Sign Up,not-a-date,u1,l1,1,1,t1,2024-05-11 09:00:00
`,
	datasets.UserReferralLogs: `id,user_referral_id,source_transaction_id,created_at,is_reward_granted,description
d1,r1,t1,2024-05-02 09:00:00,TRUE,Berhasil
d2,r2,t2,2024-05-03 09:00:00,false,Menunggu
d3,r3,t3,2024-05-21 09:00:00,true,Berhasil
d5,r5,t5,2024-05-07 11:00:00,False,Menunggu
d6a,r6,t6,2024-05-09 11:00:00,false,Tidak Berhasil
d6b,r6,t6,2024-05-09 12:00:00,,Tidak Berhasil
d7,r7,t1,2024-05-02 09:00:00,true,Berhasil
`,
	datasets.UserLogs: `id,user_id,name,phone_number,homeclub,timezone_homeclub,membership_expired_date,is_deleted,created_at,updated_at
101,u1,Ana,0811111,Jakarta,Asia/Jakarta,2025-01-01,false,2023-01-01,2023-06-01
102,u2,Budi,0822222,Bandung,Asia/Jakarta,2025-03-01,FALSE,2023-02-01,2023-07-01
`,
	datasets.UserReferralStatuses: `id,status_name,created_at
1,Berhasil,2023-01-01
2,Menunggu,2023-01-01
3,Tidak Berhasil,2023-01-01
`,
	datasets.ReferralRewards: `id,reward_value,created_at,reward_type
1,50000,2023-01-01,cash
2,20000,2023-01-01,cash
3,1000,2023-01-01,cash
`,
	datasets.PaidTransactions: `transaction_id,transaction_status,transaction_at,transaction_location,transaction_type
t1,paid,2024-05-10 10:00:00,Jakarta,new
t2,PAID,2024-05-12 10:00:00,Bandung,NEW
t3,PAID,2024-06-15 10:00:00,Jakarta,NEW
t4,PAID,2024-05-06 10:00:00,Jakarta,NEW
t5,PAID,2024-05-08 10:00:00,Bandung,NEW
t6,PAID,2024-05-10 10:00:00,Jakarta,RENEWAL
`,
	datasets.LeadLog: `lead_id,source_category,referee_name,referee_phone,created_at
l1,Online,Citra,0833333,2024-04-30
l2,Offline,Dewi,0844444,2024-05-02
l3,Facebook,Eko,0855555,2024-05-19
l4,Online,Fajar,0866666,2024-05-04
l5,Online,Gita,0877777,2024-05-06
l6,Offline,Hadi,0888888,2024-05-08
`,
}

// WriteDir writes the canonical dataset into dir as <source>.csv files.
func WriteDir(tb testing.TB, dir string) {
	tb.Helper()
	for id, doc := range CSV {
		path := filepath.Join(dir, id.String()+constants.SourceFileExt)
		require.NoError(tb, os.WriteFile(path, []byte(doc), constants.FilePermissions))
	}
}

// Set decodes the canonical dataset, optionally replacing some sources.
func Set(tb testing.TB, overrides map[datasets.ID]string) *datasets.Set {
	tb.Helper()
	tables := make(map[datasets.ID]*tabular.Table, len(CSV))
	for _, id := range datasets.All() {
		doc := CSV[id]
		if o, ok := overrides[id]; ok {
			doc = o
		}
		table, _, err := tabular.Decode(id.String(), []byte(doc))
		require.NoError(tb, err)
		tables[id] = table
	}
	set, err := datasets.NewSet(tables)
	require.NoError(tb, err)
	return set
}
