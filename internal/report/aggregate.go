package report

import "strings"

type rowKey struct {
	Author  string
	FileURL string
}

type reactionTotal struct {
	name  string
	users []string
	count int
}

type rowEntry struct {
	key       rowKey
	messageTS string
	reactions []*reactionTotal
	byName    map[string]*reactionTotal
}

// Aggregator accumulates reactions per (author, file URL) pair.
// Rows come out in the order their keys were first seen, and reaction names
// within a row in the order they were first seen for that key.
type Aggregator struct {
	links   Links
	entries []*rowEntry
	byKey   map[rowKey]*rowEntry
}

// NewAggregator creates an empty aggregator that builds links with the given Links
func NewAggregator(links Links) *Aggregator {
	return &Aggregator{
		links: links,
		byKey: make(map[rowKey]*rowEntry),
	}
}

// Add folds a message into the aggregate. Messages without a file are ignored.
// Repeated reaction names on the same key sum their counts and append their
// users; user lists are not deduplicated.
func (a *Aggregator) Add(msg ThreadMessage) {
	if !msg.HasFile() {
		return
	}

	key := rowKey{Author: msg.AuthorID, FileURL: msg.FileURL}
	entry, ok := a.byKey[key]
	if !ok {
		entry = &rowEntry{
			key:       key,
			messageTS: msg.Timestamp,
			byName:    make(map[string]*reactionTotal),
		}
		a.byKey[key] = entry
		a.entries = append(a.entries, entry)
	}

	for _, r := range msg.Reactions {
		total, ok := entry.byName[r.Name]
		if !ok {
			total = &reactionTotal{name: r.Name}
			entry.byName[r.Name] = total
			entry.reactions = append(entry.reactions, total)
		}
		total.users = append(total.users, r.Users...)
		total.count += r.Count
	}
}

// Len returns the number of distinct (author, file URL) keys
func (a *Aggregator) Len() int {
	return len(a.entries)
}

// Rows renders one Row per key
func (a *Aggregator) Rows() []Row {
	rows := make([]Row, 0, len(a.entries))
	for _, e := range a.entries {
		names := make([]string, 0, len(e.reactions))
		users := make([]string, 0, len(e.reactions))
		total := 0
		for _, r := range e.reactions {
			names = append(names, r.name)
			users = append(users, strings.Join(r.users, ","))
			total += r.count
		}
		rows = append(rows, Row{
			User:          e.key.Author,
			URL:           e.key.FileURL,
			ReactionNames: strings.Join(names, ","),
			Users:         strings.Join(users, ","),
			TotalCount:    total,
			ThreadLink:    a.links.Thread(),
			MessageLink:   a.links.Message(e.messageTS),
		})
	}
	return rows
}

// Aggregate is a convenience wrapper around Aggregator
func Aggregate(links Links, msgs []ThreadMessage) []Row {
	agg := NewAggregator(links)
	for _, m := range msgs {
		agg.Add(m)
	}
	return agg.Rows()
}
