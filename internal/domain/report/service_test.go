package report

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Liiaam93/token-tool/internal/domain/order"
)

// Test Syncer serving canned results per status label.
type testSyncer struct {
	records   map[string][]order.Record
	errLabels map[string]bool
}

func (s *testSyncer) Sync(ctx context.Context, q order.SyncQuery) (order.SyncResult, error) {
	if s.errLabels[q.StatusLabel] {
		return order.SyncResult{Records: s.records[q.StatusLabel], Partial: true}, errors.New("portal unavailable")
	}
	return order.SyncResult{Records: s.records[q.StatusLabel]}, nil
}

func epsRec(id, account, pharmacy string) order.Record {
	return order.Record{
		ID:                    id,
		OrderType:             order.TypeEPS,
		PharmacyAccountNumber: account,
		PharmacyName:          pharmacy,
	}
}

func TestIsWellAccount(t *testing.T) {
	tests := []struct {
		name     string
		account  string
		pharmacy string
		want     bool
	}{
		{"prefix and name match", "NCC12345", "Well Pharmacy Leeds", true},
		{"prefix match wrong name", "NCC12345", "Boots", false},
		{"name match wrong prefix", "ABC12345", "Well Pharmacy Leeds", false},
		{"lowercase prefix accepted", "ucp999", "well pharmacy", true},
		{"WIL prefix", "WIL001", "The Well Group", true},
		{"empty record", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsWellAccount(order.Record{
				PharmacyAccountNumber: tt.account,
				PharmacyName:          tt.pharmacy,
			})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAggregate_Buckets(t *testing.T) {
	recordsByStatus := map[string][]order.Record{
		"Ordered":   {epsRec("o1", "A", "X"), epsRec("o2", "A", "X")},
		"Cancelled": {epsRec("c1", "A", "X")},
		"OOS":       {epsRec("s1", "A", "X")},
		"Call":      {epsRec("s2", "A", "X")},
		"Comments":  {epsRec("s3", "A", "X")},
		"RTS":       {epsRec("r1", "A", "X")},
		"Invalid":   {epsRec("r2", "A", "X"), epsRec("r3", "A", "X")},
		"Submitted": {epsRec("n1", "A", "X")},
		// No bucket for these two.
		"Downloaded": {epsRec("d1", "A", "X")},
		"Stop":       {epsRec("x1", "A", "X")},
	}

	rep := Aggregate(recordsByStatus, order.TypeEPS)

	assert.Equal(t, 2, rep.Counts[BucketOrdered])
	assert.Equal(t, 1, rep.Counts[BucketCancelled])
	assert.Equal(t, 3, rep.Counts[BucketCallbacks], "OOS, Call and Comments accumulate")
	assert.Equal(t, 3, rep.Counts[BucketCannotDownloadToken], "RTS and Invalid accumulate")
	assert.Equal(t, 1, rep.Counts[BucketNotOrdered])
	assert.Equal(t, 10, rep.Counts[BucketTotal])
}

func TestAggregate_TotalInvariant(t *testing.T) {
	recordsByStatus := map[string][]order.Record{
		"Ordered":   {epsRec("o1", "A", "X")},
		"OOS":       {epsRec("s1", "A", "X"), epsRec("s2", "A", "X")},
		"Submitted": {epsRec("n1", "A", "X")},
	}

	rep := Aggregate(recordsByStatus, order.TypeEPS)

	sum := 0
	for bucket, v := range rep.Counts {
		if bucket != BucketTotal {
			sum += v
		}
	}
	assert.Equal(t, sum, rep.Counts[BucketTotal])
}

func TestAggregate_CannotDownloadTokenOnlyForEPSAndMTM(t *testing.T) {
	recordsByStatus := map[string][]order.Record{
		"RTS": {{ID: "r1", OrderType: order.TypeTrade}},
	}

	rep := Aggregate(recordsByStatus, order.TypeTrade)

	_, present := rep.Counts[BucketCannotDownloadToken]
	assert.False(t, present, "bucket dropped for trade runs")
	assert.Equal(t, 0, rep.Counts[BucketTotal], "RTS records do not count for trade")

	mtm := Aggregate(map[string][]order.Record{
		"RTS": {{ID: "r1", OrderType: order.TypeMTM}},
	}, order.TypeMTM)
	assert.Equal(t, 1, mtm.Counts[BucketCannotDownloadToken])
}

func TestAggregate_WellCounts(t *testing.T) {
	recordsByStatus := map[string][]order.Record{
		"Ordered": {
			epsRec("o1", "NCC12345", "Well Pharmacy Leeds"),
			epsRec("o2", "NCC98765", "Boots"),
			epsRec("o3", "UCP00001", "Well Pharmacy York"),
		},
		"Submitted": {
			epsRec("n1", "NCC12345", "Well Pharmacy Leeds"),
		},
	}

	rep := Aggregate(recordsByStatus, order.TypeEPS)

	assert.Equal(t, 3, rep.Counts[BucketOrdered])
	assert.Equal(t, 2, rep.WellCounts[BucketOrdered])
	assert.Equal(t, 1, rep.WellCounts[BucketNotOrdered])
	assert.Equal(t, 3, rep.WellCounts[BucketTotal])

	assert.Equal(t, map[string]int{
		"NCC12345": 2,
		"UCP00001": 1,
	}, rep.WellBreakdown)
}

func TestAggregate_TradeTotal(t *testing.T) {
	placed := order.StatusValue("Ordered")
	recordsByStatus := map[string][]order.Record{
		"Ordered": {
			{ID: "t1", OrderType: order.TypeTrade, RecordStatus: placed, TotalTradePrice: 10.004},
			{ID: "t2", OrderType: order.TypeTrade, RecordStatus: placed, TotalTradePrice: 5.008},
			{ID: "t3", OrderType: order.TypeTrade, RecordStatus: "request submitted", TotalTradePrice: 99},
		},
	}

	rep := Aggregate(recordsByStatus, order.TypeTrade)
	assert.InDelta(t, 15.01, rep.TotalTradePrice, 0.0001, "only Order placed records, rounded to 2dp")

	eps := Aggregate(map[string][]order.Record{
		"Ordered": {{ID: "e1", OrderType: order.TypeEPS, RecordStatus: placed, TotalTradePrice: 10}},
	}, order.TypeEPS)
	assert.Zero(t, eps.TotalTradePrice)
}

func TestGenerate_FansOutAllStatuses(t *testing.T) {
	syncer := &testSyncer{records: map[string][]order.Record{
		"Ordered":   {epsRec("o1", "A", "X")},
		"Cancelled": {epsRec("c1", "A", "X")},
	}}
	svc := NewService(syncer, zap.NewNop())

	rep, err := svc.Generate(context.Background(), Request{OrderType: order.TypeEPS})
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Counts[BucketOrdered])
	assert.Equal(t, 1, rep.Counts[BucketCancelled])
	assert.Equal(t, 2, rep.Counts[BucketTotal])
	assert.Empty(t, rep.FailedStatuses)
}

func TestGenerate_FailedStatusKeepsPartialsAndSiblings(t *testing.T) {
	syncer := &testSyncer{
		records: map[string][]order.Record{
			"Ordered":   {epsRec("o1", "A", "X"), epsRec("o2", "A", "X")},
			"Submitted": {epsRec("n1", "A", "X")},
		},
		errLabels: map[string]bool{"Ordered": true},
	}
	svc := NewService(syncer, zap.NewNop())

	rep, err := svc.Generate(context.Background(), Request{OrderType: order.TypeEPS})
	require.NoError(t, err)

	assert.Equal(t, []string{"Ordered"}, rep.FailedStatuses)
	assert.Equal(t, 2, rep.Counts[BucketOrdered], "partial records still counted")
	assert.Equal(t, 1, rep.Counts[BucketNotOrdered], "sibling query unaffected")
}

func TestReportTSV(t *testing.T) {
	rep := Report{
		Counts: map[string]int{
			BucketOrdered:             12,
			BucketCancelled:           0,
			BucketCallbacks:           3,
			BucketCannotDownloadToken: 1,
			BucketNotOrdered:          2,
			BucketTotal:               18,
		},
		WellCounts: map[string]int{BucketOrdered: 4},
	}

	tsv := rep.TSV()
	lines := []string{
		"ORDERED\t12 (4)",
		"CANCELLED\t0",
		"CALLBACKS\t3",
		"CANNOT DOWNLOAD TOKEN\t1",
		"NOT ORDERED\t2",
		"TOTAL\t18",
	}
	assert.Equal(t, lines, splitLines(tsv))
}

func TestReportTSV_SkipsDroppedBucket(t *testing.T) {
	rep := Report{
		Counts:     map[string]int{BucketOrdered: 1, BucketTotal: 1},
		WellCounts: map[string]int{},
	}
	assert.Equal(t, []string{"ORDERED\t1", "TOTAL\t1"}, splitLines(rep.TSV()))
}

func TestWellBreakdownTSV(t *testing.T) {
	rep := Report{WellBreakdown: map[string]int{"WIL9": 1, "NCC1": 3}}
	assert.Equal(t, []string{"NCC1\t3", "WIL9\t1"}, splitLines(rep.WellBreakdownTSV()))
}

func splitLines(s string) []string {
	return strings.Split(s, "\n")
}
