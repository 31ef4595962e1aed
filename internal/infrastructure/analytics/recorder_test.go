package analytics

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/supportdesk/knowledge-helper/internal/core/domain"
)

var testDay = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

func record(userID, department, queryType string, at time.Time, failed bool, docs ...string) domain.InteractionRecord {
	return domain.InteractionRecord{
		ID:             fmt.Sprintf("rec-%d", at.UnixNano()),
		Timestamp:      at,
		UserID:         userID,
		Department:     department,
		Query:          "some question",
		QueryType:      queryType,
		ResponseLength: 120,
		DocumentsUsed:  docs,
		ProcessingTime: 2 * time.Second,
		Error:          failed,
	}
}

func newTestRecorder() *Recorder {
	r := NewRecorder()
	r.now = func() time.Time { return testDay }
	return r
}

func TestRecorder_EmptyReport(t *testing.T) {
	r := newTestRecorder()

	report, err := r.Aggregate(context.Background())
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	if report.TotalInteractions != 0 || report.UniqueUsers != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
	if report.AvgProcessingSeconds != 0 {
		t.Fatalf("expected zero average, got %f", report.AvgProcessingSeconds)
	}
	if report.MostActiveDepartment != "" {
		t.Fatalf("expected no department, got %q", report.MostActiveDepartment)
	}
}

func TestRecorder_AggregateCounts(t *testing.T) {
	r := newTestRecorder()
	ctx := context.Background()

	_ = r.Record(ctx, record("EMP-1", "Engineering", "PTO & Leave", testDay.Add(-time.Hour), false, "employee_handbook"))
	_ = r.Record(ctx, record("EMP-1", "Engineering", "IT Security", testDay.Add(-30*time.Minute), false, "it_security_policy"))
	_ = r.Record(ctx, record("EMP-2", "Sales", "PTO & Leave", testDay.Add(-10*time.Minute), true))

	report, err := r.Aggregate(ctx)
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}

	if report.TotalInteractions != 3 {
		t.Fatalf("expected 3 interactions, got %d", report.TotalInteractions)
	}
	if report.UniqueUsers != 2 {
		t.Fatalf("expected 2 unique users, got %d", report.UniqueUsers)
	}
	if report.MostActiveDepartment != "Engineering" {
		t.Fatalf("expected Engineering, got %q", report.MostActiveDepartment)
	}
	if report.Departments["Engineering"] != 2 || report.Departments["Sales"] != 1 {
		t.Fatalf("unexpected department counts: %v", report.Departments)
	}
	if report.QueryTypeDistribution["PTO & Leave"] != 2 {
		t.Fatalf("unexpected query type counts: %v", report.QueryTypeDistribution)
	}
	if report.DocumentsAccessed["employee_handbook"] != 1 {
		t.Fatalf("unexpected document counts: %v", report.DocumentsAccessed)
	}
	if report.DailyUsage["2026-03-10"] != 3 {
		t.Fatalf("unexpected daily usage: %v", report.DailyUsage)
	}
	if report.AvgProcessingSeconds != 2 {
		t.Fatalf("expected 2s average, got %f", report.AvgProcessingSeconds)
	}
	if report.ActiveUsersToday != 2 {
		t.Fatalf("expected 2 active users today, got %d", report.ActiveUsersToday)
	}
}

func TestRecorder_ErrorAccounting(t *testing.T) {
	r := newTestRecorder()
	ctx := context.Background()

	_ = r.Record(ctx, record("EMP-1", "Engineering", "General", testDay, false))
	_ = r.Record(ctx, record("EMP-1", "Engineering", "General", testDay, true))
	_ = r.Record(ctx, record("EMP-1", "Engineering", "General", testDay, true))
	_ = r.Record(ctx, record("EMP-1", "Engineering", "General", testDay, false))

	report, err := r.Aggregate(ctx)
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	if report.Performance.ErrorCount != 2 {
		t.Fatalf("expected 2 errors, got %d", report.Performance.ErrorCount)
	}
	if report.Performance.ErrorRate != 50 {
		t.Fatalf("expected 50%% error rate, got %f", report.Performance.ErrorRate)
	}
}

func TestRecorder_PerformanceBounds(t *testing.T) {
	r := newTestRecorder()
	ctx := context.Background()

	fast := record("EMP-1", "Engineering", "General", testDay, false)
	fast.ProcessingTime = 500 * time.Millisecond
	slow := record("EMP-1", "Engineering", "General", testDay, false)
	slow.ProcessingTime = 8 * time.Second

	_ = r.Record(ctx, fast)
	_ = r.Record(ctx, slow)

	report, err := r.Aggregate(ctx)
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	if report.Performance.MinProcessingSeconds != 0.5 {
		t.Fatalf("unexpected min: %f", report.Performance.MinProcessingSeconds)
	}
	if report.Performance.MaxProcessingSeconds != 8 {
		t.Fatalf("unexpected max: %f", report.Performance.MaxProcessingSeconds)
	}
}

func TestRecorder_RecentQueriesWindow(t *testing.T) {
	r := newTestRecorder()
	ctx := context.Background()

	for i := 0; i < 14; i++ {
		rec := record("EMP-1", "Engineering", "General", testDay, false)
		rec.Query = fmt.Sprintf("question %02d", i)
		_ = r.Record(ctx, rec)
	}

	report, err := r.Aggregate(ctx)
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	if len(report.RecentQueries) != recentQueryCount {
		t.Fatalf("expected %d recent queries, got %d", recentQueryCount, len(report.RecentQueries))
	}
	if report.RecentQueries[0] != "question 04" {
		t.Fatalf("unexpected oldest recent query: %q", report.RecentQueries[0])
	}
	if report.RecentQueries[len(report.RecentQueries)-1] != "question 13" {
		t.Fatalf("unexpected newest recent query: %q", report.RecentQueries[len(report.RecentQueries)-1])
	}
}

func TestRecorder_QuerySampleTruncated(t *testing.T) {
	r := newTestRecorder()
	ctx := context.Background()

	rec := record("EMP-1", "Engineering", "General", testDay, false)
	rec.Query = strings.Repeat("a", maxQuerySample+40)
	_ = r.Record(ctx, rec)

	report, err := r.Aggregate(ctx)
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	if len(report.RecentQueries[0]) != maxQuerySample {
		t.Fatalf("query not truncated: %d bytes", len(report.RecentQueries[0]))
	}
}

func TestRecorder_QuerySampleKeepsRunesIntact(t *testing.T) {
	r := newTestRecorder()
	ctx := context.Background()

	rec := record("EMP-1", "Engineering", "General", testDay, false)
	rec.Query = strings.Repeat("€", maxQuerySample)
	_ = r.Record(ctx, rec)

	report, err := r.Aggregate(ctx)
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	q := report.RecentQueries[0]
	if len(q) > maxQuerySample {
		t.Fatalf("query not truncated: %d bytes", len(q))
	}
	if !utf8.ValidString(q) {
		t.Fatalf("query cut mid-rune: %q", q)
	}
}

func TestRecorder_UserDetailsOrdering(t *testing.T) {
	r := newTestRecorder()
	ctx := context.Background()

	yesterday := testDay.Add(-24 * time.Hour)
	_ = r.Record(ctx, record("EMP-2", "Sales", "General", yesterday, false))
	_ = r.Record(ctx, record("EMP-2", "Sales", "General", testDay, false))
	_ = r.Record(ctx, record("EMP-1", "Engineering", "General", yesterday, false))
	_ = r.Record(ctx, record("EMP-3", "Finance", "General", yesterday, false))

	report, err := r.Aggregate(ctx)
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	if len(report.UserDetails) != 3 {
		t.Fatalf("expected 3 users, got %d", len(report.UserDetails))
	}
	if report.UserDetails[0].UserID != "EMP-2" || report.UserDetails[0].QueryCount != 2 {
		t.Fatalf("unexpected top user: %+v", report.UserDetails[0])
	}
	// Equal counts fall back to user ID order.
	if report.UserDetails[1].UserID != "EMP-1" || report.UserDetails[2].UserID != "EMP-3" {
		t.Fatalf("tie order wrong: %+v", report.UserDetails[1:])
	}
	if report.UserDetails[0].FirstSeen != "2026-03-09" || report.UserDetails[0].LastSeen != "2026-03-10" {
		t.Fatalf("unexpected first/last seen: %+v", report.UserDetails[0])
	}
	if report.ActiveUsersToday != 1 {
		t.Fatalf("expected 1 active user today, got %d", report.ActiveUsersToday)
	}
}

func TestRecorder_MostActiveDepartmentTieIsDeterministic(t *testing.T) {
	r := newTestRecorder()
	ctx := context.Background()

	_ = r.Record(ctx, record("EMP-1", "Sales", "General", testDay, false))
	_ = r.Record(ctx, record("EMP-2", "Engineering", "General", testDay, false))

	report, err := r.Aggregate(ctx)
	if err != nil {
		t.Fatalf("aggregate failed: %v", err)
	}
	if report.MostActiveDepartment != "Engineering" {
		t.Fatalf("expected smallest key on tie, got %q", report.MostActiveDepartment)
	}
}
