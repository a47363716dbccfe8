package sms

import (
	"sort"
	"strings"
)

// Search keeps threads whose contact name contains term case-insensitively
// or whose contact number contains term. An empty term keeps everything.
func Search(threads []*Thread, term string) []*Thread {
	if term == "" {
		return threads
	}
	lower := strings.ToLower(term)

	out := make([]*Thread, 0, len(threads))
	for _, t := range threads {
		if strings.Contains(strings.ToLower(t.ContactName), lower) ||
			strings.Contains(t.ContactNumber, term) {
			out = append(out, t)
		}
	}
	return out
}

// SortByRecent orders threads in place, most recent activity first
func SortByRecent(threads []*Thread) {
	sort.SliceStable(threads, func(i, j int) bool {
		return threads[i].Timestamp.After(threads[j].Timestamp)
	})
}

// UnreadTotal sums unread counts across threads
func UnreadTotal(threads []*Thread) int {
	n := 0
	for _, t := range threads {
		n += t.UnreadCount
	}
	return n
}
