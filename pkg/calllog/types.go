// ABOUTME: Call log data model
// ABOUTME: Defines CallRecord and table sort options

package calllog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrNotFound is returned when a call identifier matches no stored record
var ErrNotFound = errors.New("not found")

// CallRecord represents a single recorded phone call
type CallRecord struct {
	ID           string    `json:"id"`           // Unique call identifier
	CallerNumber string    `json:"callerNumber"` // Originating number
	DialedNumber string    `json:"dialedNumber"` // Destination number
	Timestamp    time.Time `json:"timestamp"`    // When the call started
	Duration     string    `json:"duration"`     // Formatted duration, e.g. "12m 5s"
	Summary      string    `json:"summary"`      // Free-text call summary
	IsQualified  bool      `json:"isQualified"`  // Marked as a qualified sales lead
	Transcript   []string  `json:"transcript"`   // Ordered transcript lines
	RecordingURL string    `json:"recordingUrl"` // Recording reference
}

// Clone returns a deep copy of the record
func (c *CallRecord) Clone() *CallRecord {
	if c == nil {
		return nil
	}
	cp := *c
	if c.Transcript != nil {
		cp.Transcript = append([]string(nil), c.Transcript...)
	}
	return &cp
}

// Involves reports whether number is the caller or the dialed party.
// Raw string equality, no normalization.
func (c *CallRecord) Involves(number string) bool {
	return c.CallerNumber == number || c.DialedNumber == number
}

// DurationSeconds parses the formatted Duration ("Nm Ss", "Nh Nm Ss", "Ss").
// Unparseable durations count as zero.
func (c *CallRecord) DurationSeconds() int {
	total := 0
	for _, part := range strings.Fields(c.Duration) {
		if len(part) < 2 {
			return 0
		}
		n, err := strconv.Atoi(part[:len(part)-1])
		if err != nil || n < 0 {
			return 0
		}
		switch part[len(part)-1] {
		case 'h':
			total += n * 3600
		case 'm':
			total += n * 60
		case 's':
			total += n
		default:
			return 0
		}
	}
	return total
}

// FormatDuration renders d the way call durations are displayed
func FormatDuration(d time.Duration) string {
	secs := int(d.Round(time.Second).Seconds())
	return fmt.Sprintf("%dm %ds", secs/60, secs%60)
}

// SortField selects the column calls are ordered by
type SortField string

const (
	SortByCallerNumber SortField = "callerNumber"
	SortByDialedNumber SortField = "dialedNumber"
	SortByTimestamp    SortField = "timestamp"
	SortByDuration     SortField = "duration"
	SortByQualified    SortField = "isQualified"
)

// SortOrder is ascending or descending
type SortOrder string

const (
	Ascending  SortOrder = "asc"
	Descending SortOrder = "desc"
)

// ParseSortField maps a column name to a SortField, defaulting to timestamp
func ParseSortField(s string) SortField {
	switch SortField(s) {
	case SortByCallerNumber, SortByDialedNumber, SortByDuration, SortByQualified:
		return SortField(s)
	default:
		return SortByTimestamp
	}
}

// ParseSortOrder maps "asc"/"desc" to a SortOrder, defaulting to descending
func ParseSortOrder(s string) SortOrder {
	if strings.EqualFold(s, string(Ascending)) {
		return Ascending
	}
	return Descending
}

// ListOptions describes the call table view
type ListOptions struct {
	Filter  string    // Substring on numbers, case-insensitive on summary
	OrderBy SortField // Column to sort by
	Order   SortOrder // Sort direction
}
