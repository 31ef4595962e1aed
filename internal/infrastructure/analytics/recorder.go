// Package analytics accumulates interaction records in process memory.
// Records are append-only and never edited in place; the report is computed
// from the full record set on every Aggregate call.
package analytics

import (
	"context"
	"sort"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/supportdesk/knowledge-helper/internal/core/domain"
	"github.com/supportdesk/knowledge-helper/internal/core/ports"
)

const (
	recentQueryCount = 10
	maxQuerySample   = 100
	dayFormat        = "2006-01-02"
)

type Recorder struct {
	now func() time.Time

	mu      sync.RWMutex
	records []domain.InteractionRecord
}

func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

var _ ports.AnalyticsRecorder = (*Recorder)(nil)

// Record appends one record. Appends are atomic with respect to Aggregate,
// so a record is visible to every aggregation that starts after Record returns.
func (r *Recorder) Record(_ context.Context, record domain.InteractionRecord) error {
	if len(record.Query) > maxQuerySample {
		cut := maxQuerySample
		for cut > 0 && !utf8.RuneStart(record.Query[cut]) {
			cut--
		}
		record.Query = record.Query[:cut]
	}
	r.mu.Lock()
	r.records = append(r.records, record)
	r.mu.Unlock()
	return nil
}

func (r *Recorder) Aggregate(_ context.Context) (*domain.UsageReport, error) {
	r.mu.RLock()
	records := make([]domain.InteractionRecord, len(r.records))
	copy(records, r.records)
	r.mu.RUnlock()

	report := &domain.UsageReport{
		TotalInteractions:     len(records),
		Departments:           make(map[string]int),
		QueryTypeDistribution: make(map[string]int),
		DocumentsAccessed:     make(map[string]int),
		DailyUsage:            make(map[string]int),
	}

	type userStat struct {
		count     int
		firstSeen time.Time
		lastSeen  time.Time
	}
	users := make(map[string]*userStat)

	var totalSeconds float64
	for _, rec := range records {
		report.Departments[rec.Department]++
		report.QueryTypeDistribution[rec.QueryType]++
		report.DailyUsage[rec.Timestamp.Format(dayFormat)]++
		for _, doc := range rec.DocumentsUsed {
			report.DocumentsAccessed[doc]++
		}

		secs := rec.ProcessingTime.Seconds()
		totalSeconds += secs
		if secs < report.Performance.MinProcessingSeconds || report.Performance.MinProcessingSeconds == 0 {
			report.Performance.MinProcessingSeconds = secs
		}
		if secs > report.Performance.MaxProcessingSeconds {
			report.Performance.MaxProcessingSeconds = secs
		}
		if rec.Error {
			report.Performance.ErrorCount++
		}

		stat, ok := users[rec.UserID]
		if !ok {
			stat = &userStat{firstSeen: rec.Timestamp, lastSeen: rec.Timestamp}
			users[rec.UserID] = stat
		}
		stat.count++
		if rec.Timestamp.Before(stat.firstSeen) {
			stat.firstSeen = rec.Timestamp
		}
		if rec.Timestamp.After(stat.lastSeen) {
			stat.lastSeen = rec.Timestamp
		}
	}

	report.UniqueUsers = len(users)
	if len(records) > 0 {
		report.AvgProcessingSeconds = totalSeconds / float64(len(records))
		report.Performance.ErrorRate = float64(report.Performance.ErrorCount) / float64(len(records)) * 100
	}

	report.MostActiveDepartment = topKey(report.Departments)

	start := len(records) - recentQueryCount
	if start < 0 {
		start = 0
	}
	for _, rec := range records[start:] {
		report.RecentQueries = append(report.RecentQueries, rec.Query)
	}

	today := r.now().UTC().Format(dayFormat)
	for id, stat := range users {
		if stat.lastSeen.Format(dayFormat) == today {
			report.ActiveUsersToday++
		}
		report.UserDetails = append(report.UserDetails, domain.UserActivity{
			UserID:     id,
			QueryCount: stat.count,
			FirstSeen:  stat.firstSeen.Format(dayFormat),
			LastSeen:   stat.lastSeen.Format(dayFormat),
		})
	}
	sort.Slice(report.UserDetails, func(i, j int) bool {
		if report.UserDetails[i].QueryCount != report.UserDetails[j].QueryCount {
			return report.UserDetails[i].QueryCount > report.UserDetails[j].QueryCount
		}
		return report.UserDetails[i].UserID < report.UserDetails[j].UserID
	})

	return report, nil
}

// topKey returns the key with the highest count, smallest key on ties so
// the report is deterministic.
func topKey(counts map[string]int) string {
	var best string
	bestCount := -1
	for k, c := range counts {
		if c > bestCount || (c == bestCount && k < best) {
			best, bestCount = k, c
		}
	}
	return best
}
