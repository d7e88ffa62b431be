package sales

import (
	"fmt"
	"strings"
	"time"
)

// centralAfrica is CAT. It has no daylight saving, so a fixed zone is exact.
var centralAfrica = time.FixedZone("CAT", 2*60*60)

// CentralAfricaTime returns the zone used for business-day boundaries.
func CentralAfricaTime() *time.Location {
	return centralAfrica
}

// HistoryRange is a quick selector for the sales history view
type HistoryRange string

const (
	RangeAll   HistoryRange = "all"
	RangeToday HistoryRange = "today"
	RangeMonth HistoryRange = "month"
)

// ParseHistoryRange validates a range name. Empty input means all.
func ParseHistoryRange(raw string) (HistoryRange, error) {
	switch r := HistoryRange(strings.ToLower(strings.TrimSpace(raw))); r {
	case "":
		return RangeAll, nil
	case RangeAll, RangeToday, RangeMonth:
		return r, nil
	default:
		return "", fmt.Errorf("unknown history range %q", raw)
	}
}

// HistoryFilter narrows the sales history. Zero values mean "no constraint".
type HistoryFilter struct {
	Start    *time.Time
	End      *time.Time
	Customer string
	Mine     bool
}

// Bounds returns the inclusive [start, end] of r around now, in CAT.
// RangeAll yields nil bounds.
func (r HistoryRange) Bounds(now time.Time) (start, end *time.Time) {
	local := now.In(centralAfrica)
	switch r {
	case RangeToday:
		s := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, centralAfrica)
		e := s.AddDate(0, 0, 1).Add(-time.Millisecond)
		return &s, &e
	case RangeMonth:
		s := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, centralAfrica)
		e := s.AddDate(0, 1, 0).Add(-time.Millisecond)
		return &s, &e
	}
	return nil, nil
}

// Filter builds a history filter for r.
func (r HistoryRange) Filter(now time.Time, customer string) HistoryFilter {
	start, end := r.Bounds(now)
	return HistoryFilter{Start: start, End: end, Customer: strings.TrimSpace(customer)}
}
