package domain

import "time"

// InteractionRecord captures one query/response cycle for analytics.
// Append-only, owned exclusively by the analytics recorder. Records may
// outlive the session they were created under; stale references are tolerated.
type InteractionRecord struct {
	ID             string        `json:"id"`
	Timestamp      time.Time     `json:"timestamp"`
	UserID         string        `json:"user_id"`
	Department     string        `json:"department"`
	Query          string        `json:"query"`
	QueryType      string        `json:"query_type"`
	ResponseLength int           `json:"response_length"`
	DocumentsUsed  []string      `json:"documents_used"`
	ProcessingTime time.Duration `json:"processing_time"`
	Error          bool          `json:"error"`
}

// UserActivity summarises one user's footprint in the record set.
type UserActivity struct {
	UserID     string `json:"user_id"`
	QueryCount int    `json:"query_count"`
	FirstSeen  string `json:"first_seen"`
	LastSeen   string `json:"last_seen"`
}

// PerformanceMetrics aggregates latency and failure figures across records.
type PerformanceMetrics struct {
	MinProcessingSeconds float64 `json:"min_processing_seconds"`
	MaxProcessingSeconds float64 `json:"max_processing_seconds"`
	ErrorCount           int     `json:"error_count"`
	ErrorRate            float64 `json:"error_rate"`
}

// UsageReport is the on-demand aggregation of the full record set.
type UsageReport struct {
	TotalInteractions     int                `json:"total_interactions"`
	UniqueUsers           int                `json:"unique_users"`
	AvgProcessingSeconds  float64            `json:"avg_processing_seconds"`
	MostActiveDepartment  string             `json:"most_active_department"`
	Departments           map[string]int     `json:"departments"`
	QueryTypeDistribution map[string]int     `json:"query_type_distribution"`
	DocumentsAccessed     map[string]int     `json:"documents_accessed"`
	DailyUsage            map[string]int     `json:"daily_usage"`
	RecentQueries         []string           `json:"recent_queries"`
	ActiveUsersToday      int                `json:"active_users_today"`
	UserDetails           []UserActivity     `json:"user_details"`
	Performance           PerformanceMetrics `json:"performance_metrics"`
}
