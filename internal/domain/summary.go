package domain

import "math"

// Summary categories.
const (
	SummaryLeader  = "LEADER"
	SummaryAthlete = "ATHLETE"
	SummaryEvent   = "EVENT"
	SummaryTotal   = "TOTAL"
)

// SummaryRecord is one limit/actual row of the registration dashboard.
// UsageRate is nil when the limit is 0 (the ratio is undefined). A zero limit
// means "unlimited" only for EVENT rows, where it is the per-event capacity
// sentinel; for every other category it is a real zero and actuals above it
// set IsOverLimit.
type SummaryRecord struct {
	Label       string
	Category    string
	Limit       int
	Actual      int
	UsageRate   *float64
	IsOverLimit bool
	GroupID     *int64
	GroupName   string
	EventID     *int64
	EventName   string
}

// NewSummaryRecord builds a record, deriving UsageRate (two decimals) and
// IsOverLimit from limit and actual.
func NewSummaryRecord(label, category string, limit, actual int) SummaryRecord {
	rec := SummaryRecord{Label: label, Category: category, Limit: limit, Actual: actual}
	if limit > 0 {
		rate := math.Round(float64(actual)/float64(limit)*100*100) / 100
		rec.UsageRate = &rate
	}
	if limit > 0 || category != SummaryEvent {
		rec.IsOverLimit = actual > limit
	}
	return rec
}

// EventStatistic is one group's registration count for a single event, used
// by the per-event statistics report.
type EventStatistic struct {
	GroupID           int64
	GroupName         string
	RegistrationCount int
	MaxParticipants   int
	IsOverLimit       bool
}

// Overview aggregates a team's confirmed registrations by status and event
// type for the dashboard landing page.
type Overview struct {
	TotalAthletes      int
	TotalRegistrations int
	ByStatus           map[string]int
	ByEventType        map[string]int
}
