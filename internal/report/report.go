// Package report models the rows produced from Slack thread reactions and the
// ID-to-name substitution applied to them before export.
package report

import (
	"fmt"
	"strings"
)

// Column headers of the exported spreadsheets.
const (
	HeaderUserID   = "User ID"
	HeaderUsername = "Username"

	HeaderUser          = "User"
	HeaderURL           = "URL"
	HeaderReactionNames = "Reaction Names"
	HeaderUsers         = "Users"
	HeaderTotalCount    = "Total Reaction Count"
	HeaderThreadLink    = "Thread Link"
	HeaderMessageLink   = "Message Link"
)

// ReportHeaders lists the report columns in output order.
var ReportHeaders = []string{
	HeaderUser,
	HeaderURL,
	HeaderReactionNames,
	HeaderUsers,
	HeaderTotalCount,
	HeaderThreadLink,
	HeaderMessageLink,
}

// UserRecord is one entry of the member table
type UserRecord struct {
	ID   string `csv:"User ID"`
	Name string `csv:"Username"`
}

// Reaction is an emoji annotation on a message
type Reaction struct {
	Name  string
	Users []string
	Count int
}

// ThreadMessage is the subset of a Slack message the aggregator needs.
// FileURL is empty when the message carries no file.
type ThreadMessage struct {
	AuthorID  string
	Timestamp string
	FileURL   string
	Reactions []Reaction
}

// HasFile reports whether the message carries an attached file
func (m ThreadMessage) HasFile() bool {
	return m.FileURL != ""
}

// Row is one line of the reaction report, keyed by author and file URL
type Row struct {
	User          string `csv:"User"`
	URL           string `csv:"URL"`
	ReactionNames string `csv:"Reaction Names"`
	Users         string `csv:"Users"`
	TotalCount    int    `csv:"Total Reaction Count"`
	ThreadLink    string `csv:"Thread Link"`
	MessageLink   string `csv:"Message Link"`
}

// Cells returns the row values in ReportHeaders order
func (r Row) Cells() []any {
	return []any{r.User, r.URL, r.ReactionNames, r.Users, r.TotalCount, r.ThreadLink, r.MessageLink}
}

// Links builds deep links into a Slack workspace
type Links struct {
	WorkspaceURL string
	ChannelID    string
	ThreadTS     string
}

// Thread returns the link to the thread's root message
func (l Links) Thread() string {
	return l.Message(l.ThreadTS)
}

// Message returns the link to the message with the given timestamp
func (l Links) Message(ts string) string {
	base := strings.TrimSuffix(l.WorkspaceURL, "/")
	return fmt.Sprintf("%s/archives/%s/p%s", base, l.ChannelID, strings.ReplaceAll(ts, ".", ""))
}
