package report

import (
	"sort"
	"strconv"
	"strings"
)

// Bucket names. Every status label folds into exactly one of these;
// "total" is derived once at the end of a run.
const (
	BucketOrdered             = "ordered"
	BucketCancelled           = "cancelled"
	BucketCallbacks           = "callbacks"
	BucketCannotDownloadToken = "cannot_download_token"
	BucketNotOrdered          = "not_ordered"
	BucketTotal               = "total"
)

// bucketOrder fixes the row order for exports.
var bucketOrder = []string{
	BucketOrdered,
	BucketCancelled,
	BucketCallbacks,
	BucketCannotDownloadToken,
	BucketNotOrdered,
	BucketTotal,
}

// StatusLabels is the full set of status queries a report run fans out
// over. Labels without a record_status mapping (Comments, Stop) query the
// portal unfiltered, matching the console.
var StatusLabels = []string{
	"OOS", "Invalid", "Submitted", "Ordered", "RTS",
	"Downloaded", "Call", "Cancelled", "Comments", "Stop",
}

// Report is the outcome of one report run. Counts and WellCounts hold the
// same buckets, WellCounts restricted to Well-account records.
// The cannot_download_token bucket is present only for eps and mtm runs.
type Report struct {
	OrderType       string         `json:"orderType"`
	Counts          map[string]int `json:"counts"`
	WellCounts      map[string]int `json:"wellCounts"`
	WellBreakdown   map[string]int `json:"wellBreakdown"` // account number -> record count
	TotalTradePrice float64        `json:"totalTradePrice,omitempty"`

	// Statuses whose sync failed mid-run; their partial records are still
	// counted.
	FailedStatuses []string `json:"failedStatuses,omitempty"`
	// Statuses whose sync hit the page cap with data remaining upstream.
	TruncatedStatuses []string `json:"truncatedStatuses,omitempty"`
}

// TSV renders the report as tab-separated rows for pasting into a
// spreadsheet: bucket name uppercased with spaces, count, and the Well count
// in parentheses when non-zero.
func (r Report) TSV() string {
	var b strings.Builder
	for _, bucket := range bucketOrder {
		count, ok := r.Counts[bucket]
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(strings.ToUpper(strings.NewReplacer("-", " ", "_", " ").Replace(bucket)))
		b.WriteByte('\t')
		b.WriteString(strconv.Itoa(count))
		if well := r.WellCounts[bucket]; well > 0 {
			b.WriteString(" (" + strconv.Itoa(well) + ")")
		}
	}
	return b.String()
}

// WellBreakdownTSV renders the per-account Well tally as "account\tcount"
// rows, sorted by account number for a stable paste.
func (r Report) WellBreakdownTSV() string {
	accounts := make([]string, 0, len(r.WellBreakdown))
	for account := range r.WellBreakdown {
		accounts = append(accounts, account)
	}
	sort.Strings(accounts)

	var b strings.Builder
	for _, account := range accounts {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(account)
		b.WriteByte('\t')
		b.WriteString(strconv.Itoa(r.WellBreakdown[account]))
	}
	return b.String()
}

