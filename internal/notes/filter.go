package notes

import (
	"fmt"
	"strings"

	"github.com/noteful/noteful/internal/db"
)

// buildListQuery translates the optional list conditions into one SQL query,
// always scoped to the owner. A present search term joins the FTS index and
// orders by descending relevance (bm25 scores are negative, so ascending
// order puts the best match first); otherwise order is the store default.
//
// The second return value is false when the search term contains nothing
// searchable after escaping, in which case no query should run and the result
// is empty.
func buildListQuery(userID string, filter ListFilter) (string, []any, bool) {
	var (
		sb   strings.Builder
		args []any
	)

	sb.WriteString(`SELECT n.id, n.title, n.content, n.folder_id, n.created_at FROM notes n`)

	searching := filter.SearchTerm != ""
	if searching {
		escaped := db.EscapeFTSQuery(filter.SearchTerm)
		if escaped == "" {
			return "", nil, false
		}
		sb.WriteString(` JOIN fts_notes f ON n.rowid = f.rowid`)
		sb.WriteString(` WHERE fts_notes MATCH ?`)
		args = append(args, escaped)
		sb.WriteString(` AND n.user_id = ?`)
	} else {
		sb.WriteString(` WHERE n.user_id = ?`)
	}
	args = append(args, userID)

	if filter.FolderID != "" {
		sb.WriteString(` AND n.folder_id = ?`)
		args = append(args, filter.FolderID)
	}
	if filter.TagID != "" {
		sb.WriteString(` AND EXISTS (SELECT 1 FROM note_tags nt WHERE nt.note_id = n.id AND nt.tag_id = ?)`)
		args = append(args, filter.TagID)
	}

	if searching {
		sb.WriteString(fmt.Sprintf(` ORDER BY bm25(fts_notes, %.1f, %.1f)`,
			db.TitleSearchWeight, db.ContentSearchWeight))
	}

	return sb.String(), args, true
}
