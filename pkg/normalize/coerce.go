package normalize

import (
	"strings"
	"time"

	"github.com/agentstation/utc"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/refrecon/internal/utils/ptr"
	"github.com/agentstation/refrecon/pkg/tabular"
)

// timeLayouts are tried in order. Fractional seconds are accepted after
// the seconds field of any layout.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05Z0700",
	"2006-01-02 15:04:05 -0700",
	time.DateTime,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	time.DateOnly,
	"2006/01/02 15:04:05",
	"2006/01/02 15:04",
	"2006/01/02",
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
}

// ParseTime parses a timestamp in any of the accepted layouts. Values
// without a zone are taken as UTC; values with one keep their offset so
// calendar fields stay those of the recorded wall clock.
func ParseTime(s string) (utc.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return utc.Time{}, false
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return utc.Time{Time: t}, true
		}
	}
	return utc.Time{}, false
}

// ParseDecimal parses a numeric value. Surrounding whitespace is ignored.
func ParseDecimal(s string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// ParseBool reports whether s is the token "true", ignoring case and
// surrounding whitespace.
func ParseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

// coercer converts the cells of one table and counts values it had to
// drop. A missing cell is never a fault.
type coercer struct {
	table  *tabular.Table
	upper  cases.Caser
	faults map[string]int
	order  []string
}

func newCoercer(t *tabular.Table) *coercer {
	return &coercer{
		table:  t,
		upper:  cases.Upper(language.Und),
		faults: make(map[string]int),
	}
}

func (c *coercer) fault(column string) {
	if _, ok := c.faults[column]; !ok {
		c.order = append(c.order, column)
	}
	c.faults[column]++
}

func (c *coercer) str(row int, column string) *string {
	return c.table.Get(row, column).Ptr()
}

func (c *coercer) time(row int, column string) *utc.Time {
	cell := c.table.Get(row, column)
	if cell.Null {
		return nil
	}
	t, ok := ParseTime(cell.Value)
	if !ok {
		c.fault(column)
		return nil
	}
	return &t
}

func (c *coercer) decimal(row int, column string) decimal.NullDecimal {
	cell := c.table.Get(row, column)
	if cell.Null {
		return decimal.NullDecimal{}
	}
	d, ok := ParseDecimal(cell.Value)
	if !ok {
		c.fault(column)
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func (c *coercer) enum(row int, column string) *string {
	cell := c.table.Get(row, column)
	if cell.Null {
		return nil
	}
	return ptr.String(c.upper.String(cell.Value))
}

func (c *coercer) boolean(row int, column string) bool {
	cell := c.table.Get(row, column)
	return !cell.Null && ParseBool(cell.Value)
}
