package order

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Service provides order sync and update logic on top of the portal
// repository.
type Service struct {
	repo         Repository
	pageSize     int
	maxPages     int
	fastMaxPages int
	log          *zap.Logger
}

// NewService creates a new order service. pageSize, maxPages and
// fastMaxPages are the configured defaults; queries may override the page
// cap per call.
func NewService(repo Repository, pageSize, maxPages, fastMaxPages int, log *zap.Logger) *Service {
	return &Service{
		repo:         repo,
		pageSize:     pageSize,
		maxPages:     maxPages,
		fastMaxPages: fastMaxPages,
		log:          log,
	}
}

// SyncQuery describes one sync run.
type SyncQuery struct {
	StatusLabel string // short label (Ordered, OOS, ...), "" for all statuses
	SearchText  string
	OrderDate   string
	OrderType   string // "" passes every type
	Fast        bool   // cap pages at the fast limit instead of the full one
	MaxPages    int    // explicit page cap; overrides Fast when > 0
}

// SyncResult is the outcome of one sync run. Records is always usable, even
// when the run failed mid-pagination: pages fetched before the failure are
// deduplicated, filtered and returned alongside the error.
type SyncResult struct {
	Records   []Record
	Pages     int  // pages successfully fetched
	Partial   bool // a page fetch failed after earlier pages succeeded
	Truncated bool // page cap reached with a continuation cursor remaining
}

// Sync runs the paginated fetch state machine for one query: fetch a page,
// follow the continuation cursor if present, stop at the page cap or the
// final page. Pages are sequential because each request depends on the
// previous page's cursor. On a failed page fetch the records collected so
// far are returned together with the error.
func (s *Service) Sync(ctx context.Context, q SyncQuery) (SyncResult, error) {
	maxPages := q.MaxPages
	if maxPages <= 0 {
		if q.Fast {
			maxPages = s.fastMaxPages
		} else {
			maxPages = s.maxPages
		}
	}

	req := SearchRequest{
		Status:     StatusValue(q.StatusLabel),
		SearchText: q.SearchText,
		OrderDate:  q.OrderDate,
		PageSize:   s.pageSize,
	}

	var collected []Record
	result := SyncResult{}

	for page := 1; page <= maxPages; page++ {
		req.Page = page
		res, err := s.repo.Search(ctx, req)
		if err != nil {
			s.log.Warn("page fetch failed, returning partial result",
				zap.String("status", q.StatusLabel),
				zap.Int("page", page),
				zap.Int("collected", len(collected)),
				zap.Error(err))
			result.Records = finalize(collected, q.OrderType)
			result.Partial = result.Pages > 0
			return result, err
		}

		result.Pages = page
		collected = append(collected, res.Items...)

		if len(res.Cursor) == 0 {
			result.Records = finalize(collected, q.OrderType)
			return result, nil
		}
		req.Cursor = res.Cursor
	}

	// Page cap hit with more data remaining upstream.
	result.Truncated = true
	result.Records = finalize(collected, q.OrderType)
	return result, nil
}

// finalize applies the post-fetch pipeline: dedupe by id, then order-type
// filter.
func finalize(records []Record, orderType string) []Record {
	return FilterByOrderType(DedupeByID(records), orderType)
}

// DedupeByID drops records whose id was already seen. The first occurrence
// wins and first-occurrence order is preserved.
func DedupeByID(records []Record) []Record {
	seen := make(map[string]struct{}, len(records))
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// FilterByOrderType keeps records whose order_type equals orderType. The
// empty string disables the filter.
func FilterByOrderType(records []Record, orderType string) []Record {
	if orderType == "" {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if r.OrderType == orderType {
			out = append(out, r)
		}
	}
	return out
}

// Sort fields for SortRecords.
const (
	SortByDate       = "date"
	SortByAccount    = "account"
	SortByHasMessage = "hasMessage"
)

// SortRecords returns a sorted copy of records. field selects the
// comparison (created date, account number, or customer-message presence);
// an unknown field returns the copy unsorted. direction is "asc" or "desc";
// anything else is treated as "desc".
func SortRecords(records []Record, field, direction string) []Record {
	sorted := make([]Record, len(records))
	copy(sorted, records)

	asc := direction == "asc"

	var less func(a, b Record) bool
	switch field {
	case SortByDate:
		less = func(a, b Record) bool {
			if asc {
				return a.CreatedDate < b.CreatedDate
			}
			return a.CreatedDate > b.CreatedDate
		}
	case SortByAccount:
		less = func(a, b Record) bool {
			cmp := strings.Compare(a.PharmacyAccountNumber, b.PharmacyAccountNumber)
			if asc {
				return cmp < 0
			}
			return cmp > 0
		}
	case SortByHasMessage:
		// Ascending puts records with messages first, matching the console.
		less = func(a, b Record) bool {
			if asc {
				return a.HasMessage() && !b.HasMessage()
			}
			return !a.HasMessage() && b.HasMessage()
		}
	default:
		return sorted
	}

	sort.SliceStable(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	return sorted
}
