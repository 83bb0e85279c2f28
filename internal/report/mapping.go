package report

import "strings"

// UserMapping maps Slack user IDs to names
type UserMapping map[string]string

// NewUserMapping builds a mapping from member records. Later records win on
// duplicate IDs.
func NewUserMapping(records []UserRecord) UserMapping {
	m := make(UserMapping, len(records))
	for _, r := range records {
		m[r.ID] = r.Name
	}
	return m
}

// ResolveCell substitutes a single cell: an exact ID match is replaced,
// otherwise a comma-joined cell has each element replaced independently.
// Anything unmapped is left as-is.
func (m UserMapping) ResolveCell(cell string) string {
	if name, ok := m[cell]; ok {
		return name
	}
	if strings.Contains(cell, ",") {
		return m.ResolveList(cell)
	}
	return cell
}

// ResolveList treats the cell as a comma-joined ID list and replaces each element
func (m UserMapping) ResolveList(cell string) string {
	parts := strings.Split(cell, ",")
	for i, p := range parts {
		if name, ok := m[p]; ok {
			parts[i] = name
		}
	}
	return strings.Join(parts, ",")
}

// SubstituteRows returns copies of rows with every text cell resolved.
// TotalCount is numeric and never touched.
func (m UserMapping) SubstituteRows(rows []Row) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = Row{
			User:          m.ResolveCell(r.User),
			URL:           m.ResolveCell(r.URL),
			ReactionNames: m.ResolveCell(r.ReactionNames),
			Users:         m.ResolveCell(r.Users),
			TotalCount:    r.TotalCount,
			ThreadLink:    m.ResolveCell(r.ThreadLink),
			MessageLink:   m.ResolveCell(r.MessageLink),
		}
	}
	return out
}
