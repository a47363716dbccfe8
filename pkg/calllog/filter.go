package calllog

import (
	"sort"
	"strings"
)

// Filter keeps calls whose caller or dialed number contains term, or whose
// summary contains term case-insensitively. An empty term keeps everything.
func Filter(calls []*CallRecord, term string) []*CallRecord {
	if term == "" {
		return calls
	}
	lower := strings.ToLower(term)

	out := make([]*CallRecord, 0, len(calls))
	for _, c := range calls {
		if strings.Contains(c.CallerNumber, term) ||
			strings.Contains(c.DialedNumber, term) ||
			strings.Contains(strings.ToLower(c.Summary), lower) {
			out = append(out, c)
		}
	}
	return out
}

// Sort orders calls in place by field. Equal keys keep their relative order.
func Sort(calls []*CallRecord, field SortField, order SortOrder) {
	sort.SliceStable(calls, func(i, j int) bool {
		a, b := calls[i], calls[j]
		if order == Descending {
			a, b = b, a
		}

		switch field {
		case SortByCallerNumber:
			return a.CallerNumber < b.CallerNumber
		case SortByDialedNumber:
			return a.DialedNumber < b.DialedNumber
		case SortByDuration:
			return a.DurationSeconds() < b.DurationSeconds()
		case SortByQualified:
			return !a.IsQualified && b.IsQualified
		default:
			return a.Timestamp.Before(b.Timestamp)
		}
	})
}

// Apply filters and sorts a snapshot according to opts
func Apply(calls []*CallRecord, opts ListOptions) []*CallRecord {
	out := Filter(calls, opts.Filter)
	if len(out) == len(calls) {
		out = append([]*CallRecord(nil), calls...)
	}

	field := opts.OrderBy
	if field == "" {
		field = SortByTimestamp
	}
	order := opts.Order
	if order == "" {
		order = Descending
	}
	Sort(out, field, order)
	return out
}
