package report

import (
	"context"
	"math"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Liiaam93/token-tool/internal/domain/order"
)

// wellPrefixes are the account-number prefixes that mark a Well-group
// account; prefix match alone is not enough, the pharmacy name must also
// contain "well".
var wellPrefixes = []string{"NCC", "UCP", "PCT", "WIL"}

// IsWellAccount reports whether a record belongs to a Well-group account.
func IsWellAccount(r order.Record) bool {
	account := strings.ToUpper(r.PharmacyAccountNumber)
	prefixMatch := false
	for _, prefix := range wellPrefixes {
		if strings.HasPrefix(account, prefix) {
			prefixMatch = true
			break
		}
	}
	return prefixMatch && strings.Contains(strings.ToLower(r.PharmacyName), "well")
}

// Syncer runs one order sync query. Satisfied by *order.Service.
type Syncer interface {
	Sync(ctx context.Context, q order.SyncQuery) (order.SyncResult, error)
}

// Service builds status reports by fanning out order syncs and folding the
// results into buckets.
type Service struct {
	orders Syncer
	log    *zap.Logger
}

// NewService creates a new report service.
func NewService(orders Syncer, log *zap.Logger) *Service {
	return &Service{orders: orders, log: log}
}

// Request describes one report run.
type Request struct {
	OrderType string // eps, trade, mtm or manual
	OrderDate string // "" for no date filter
	Fast      bool
}

// Generate runs one status query per label concurrently (each query pages
// sequentially through its own cursor chain) and aggregates the joined
// results. A failed status contributes whatever pages it managed to fetch
// and is listed in FailedStatuses; it never aborts its siblings.
func (s *Service) Generate(ctx context.Context, req Request) (Report, error) {
	recordsByStatus := make([][]order.Record, len(StatusLabels))
	failed := make([]bool, len(StatusLabels))
	truncated := make([]bool, len(StatusLabels))

	g, gctx := errgroup.WithContext(ctx)
	for i, label := range StatusLabels {
		i, label := i, label
		g.Go(func() error {
			res, err := s.orders.Sync(gctx, order.SyncQuery{
				StatusLabel: label,
				OrderDate:   req.OrderDate,
				OrderType:   req.OrderType,
				Fast:        req.Fast,
			})
			if err != nil {
				s.log.Warn("status query failed, counting partial records",
					zap.String("status", label),
					zap.Error(err))
				failed[i] = true
			}
			recordsByStatus[i] = res.Records
			truncated[i] = res.Truncated
			return nil
		})
	}
	// Workers never return errors; failures are folded into the report.
	_ = g.Wait()

	byLabel := make(map[string][]order.Record, len(StatusLabels))
	for i, label := range StatusLabels {
		byLabel[label] = recordsByStatus[i]
	}

	rep := Aggregate(byLabel, req.OrderType)
	for i, label := range StatusLabels {
		if failed[i] {
			rep.FailedStatuses = append(rep.FailedStatuses, label)
		}
		if truncated[i] {
			rep.TruncatedStatuses = append(rep.TruncatedStatuses, label)
		}
	}
	return rep, nil
}

// Aggregate folds per-status record sets into bucket counts. Records are
// expected to be already deduplicated and order-type filtered (Sync does
// both). Unmapped statuses are ignored. The total is computed once, after
// every status has been folded.
func Aggregate(recordsByStatus map[string][]order.Record, orderType string) Report {
	counts := newBucketCounts()
	wellCounts := newBucketCounts()
	wellBreakdown := make(map[string]int)
	tradeTotal := 0.0

	epsOrMTM := orderType == order.TypeEPS || orderType == order.TypeMTM

	for _, label := range StatusLabels {
		records := recordsByStatus[label]
		wellRecords := make([]order.Record, 0)
		for _, r := range records {
			if !IsWellAccount(r) {
				continue
			}
			wellRecords = append(wellRecords, r)
			account := strings.ToUpper(r.PharmacyAccountNumber)
			if account != "" {
				wellBreakdown[account]++
			}
		}

		if orderType == order.TypeTrade {
			for _, r := range records {
				if r.RecordStatus == order.StatusValue("Ordered") {
					tradeTotal += r.TotalTradePrice
				}
			}
		}

		switch strings.ToLower(label) {
		case "ordered":
			counts[BucketOrdered] = len(records)
			wellCounts[BucketOrdered] = len(wellRecords)
		case "cancelled":
			counts[BucketCancelled] = len(records)
			wellCounts[BucketCancelled] = len(wellRecords)
		case "oos", "call", "comments":
			counts[BucketCallbacks] += len(records)
			wellCounts[BucketCallbacks] += len(wellRecords)
		case "rts", "invalid":
			if epsOrMTM {
				counts[BucketCannotDownloadToken] += len(records)
				wellCounts[BucketCannotDownloadToken] += len(wellRecords)
			}
		case "submitted":
			counts[BucketNotOrdered] = len(records)
			wellCounts[BucketNotOrdered] = len(wellRecords)
		default:
			// Downloaded, Stop: no bucket, ignored.
		}
	}

	counts[BucketTotal] = sumBuckets(counts)
	wellCounts[BucketTotal] = sumBuckets(wellCounts)

	if !epsOrMTM {
		delete(counts, BucketCannotDownloadToken)
		delete(wellCounts, BucketCannotDownloadToken)
	}

	return Report{
		OrderType:       orderType,
		Counts:          counts,
		WellCounts:      wellCounts,
		WellBreakdown:   wellBreakdown,
		TotalTradePrice: math.Round(tradeTotal*100) / 100,
	}
}

func newBucketCounts() map[string]int {
	return map[string]int{
		BucketOrdered:             0,
		BucketCancelled:           0,
		BucketCallbacks:           0,
		BucketCannotDownloadToken: 0,
		BucketNotOrdered:          0,
	}
}

func sumBuckets(counts map[string]int) int {
	total := 0
	for bucket, v := range counts {
		if bucket == BucketTotal {
			continue
		}
		total += v
	}
	return total
}
