// Package notes implements the note mutation coordinator: field validation,
// concurrent ownership checks over folder/tag references, and owner-scoped
// reads and writes against the shared store.
package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noteful/noteful/internal/db"
	"github.com/noteful/noteful/internal/errs"
)

// Service handles note operations for authenticated owners.
type Service struct {
	store *db.Store
}

// NewService creates a new notes service.
func NewService(store *db.Store) *Service {
	return &Service{store: store}
}

// Create validates the title and the folder/tag references, then persists the
// note with owner = caller in a single transaction.
func (s *Service) Create(ctx context.Context, userID string, params CreateNoteParams) (*Note, error) {
	if params.Title == "" {
		return nil, errs.New(errs.MissingField, "missing title")
	}

	tags := dedupeTags(params.Tags)
	if err := s.validateReferences(ctx, params.FolderID, tags, userID); err != nil {
		return nil, err
	}

	note := &Note{
		ID:       uuid.New().String(),
		Title:    params.Title,
		Content:  params.Content,
		Created:  time.Now().UTC().Truncate(time.Second),
		FolderID: normalizeFolderID(params.FolderID),
		Tags:     tags,
	}

	tx, err := s.store.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO notes (id, title, content, folder_id, user_id, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		note.ID, note.Title, note.Content, note.FolderID, userID, note.Created.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("create note: %w", err)
	}

	if err := insertNoteTags(ctx, tx, note.ID, tags); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create: %w", err)
	}
	return note, nil
}

// Update replaces the note's title, content, folder reference, and tag set.
// The write is conditional on (id, owner): a note belonging to another owner
// behaves exactly like a missing note. The creation timestamp is immutable.
func (s *Service) Update(ctx context.Context, userID, noteID string, params CreateNoteParams) (*Note, error) {
	if err := validateIDFormat(noteID); err != nil {
		return nil, err
	}
	if params.Title == "" {
		return nil, errs.New(errs.MissingField, "missing title")
	}

	tags := dedupeTags(params.Tags)
	if err := s.validateReferences(ctx, params.FolderID, tags, userID); err != nil {
		return nil, err
	}

	tx, err := s.store.DB().BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE notes SET title = ?, content = ?, folder_id = ? WHERE id = ? AND user_id = ?`,
		params.Title, params.Content, normalizeFolderID(params.FolderID), noteID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	if affected == 0 {
		return nil, errs.New(errs.NotFound, "The item does not exist")
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM note_tags WHERE note_id = ?`, noteID); err != nil {
		return nil, fmt.Errorf("clear note tags: %w", err)
	}
	if err := insertNoteTags(ctx, tx, noteID, tags); err != nil {
		return nil, err
	}

	var createdAt int64
	if err := tx.QueryRowContext(ctx, `SELECT created_at FROM notes WHERE id = ?`, noteID).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("read note created: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update: %w", err)
	}

	return &Note{
		ID:       noteID,
		Title:    params.Title,
		Content:  params.Content,
		Created:  time.Unix(createdAt, 0).UTC(),
		FolderID: normalizeFolderID(params.FolderID),
		Tags:     tags,
	}, nil
}

// Get fetches a single note scoped to the owner, populating the folder and
// tag references into their full representations.
func (s *Service) Get(ctx context.Context, userID, noteID string) (*NoteDetail, error) {
	if err := validateIDFormat(noteID); err != nil {
		return nil, err
	}

	detail := &NoteDetail{Tags: []TagRef{}}
	var (
		createdAt  int64
		folderID   sql.NullString
		folderName sql.NullString
	)
	err := s.store.DB().QueryRowContext(ctx, `
		SELECT n.id, n.title, n.content, n.created_at, f.id, f.name
		FROM notes n
		LEFT JOIN folders f ON f.id = n.folder_id
		WHERE n.id = ? AND n.user_id = ?
	`, noteID, userID).Scan(&detail.ID, &detail.Title, &detail.Content, &createdAt, &folderID, &folderName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.New(errs.NotFound, "The item does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("read note: %w", err)
	}

	detail.Created = time.Unix(createdAt, 0).UTC()
	if folderID.Valid {
		detail.Folder = &FolderRef{ID: folderID.String, Name: folderName.String}
	}

	rows, err := s.store.DB().QueryContext(ctx, `
		SELECT t.id, t.name
		FROM note_tags nt
		JOIN tags t ON t.id = nt.tag_id
		WHERE nt.note_id = ?
		ORDER BY t.name
	`, noteID)
	if err != nil {
		return nil, fmt.Errorf("read note tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var tag TagRef
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("scan note tag: %w", err)
		}
		detail.Tags = append(detail.Tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate note tags: %w", err)
	}

	return detail, nil
}

// Delete removes a note scoped to the owner. The store cascades the note's
// tag memberships away with the row.
func (s *Service) Delete(ctx context.Context, userID, noteID string) error {
	if err := validateIDFormat(noteID); err != nil {
		return err
	}

	res, err := s.store.DB().ExecContext(ctx,
		`DELETE FROM notes WHERE id = ? AND user_id = ?`, noteID, userID)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if affected == 0 {
		return errs.New(errs.NotFound, "The item does not exist")
	}
	return nil
}

// List returns every note of the owner matching the filter. When a search
// term is present results arrive highest relevance first; otherwise order is
// the store default. All matches are returned — there is no pagination.
func (s *Service) List(ctx context.Context, userID string, filter ListFilter) ([]Note, error) {
	query, args, searchable := buildListQuery(userID, filter)
	if !searchable {
		return []Note{}, nil
	}

	rows, err := s.store.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	notes := []Note{}
	for rows.Next() {
		var (
			note      Note
			folderID  sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&note.ID, &note.Title, &note.Content, &folderID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		if folderID.Valid {
			note.FolderID = &folderID.String
		}
		note.Created = time.Unix(createdAt, 0).UTC()
		note.Tags = []string{}
		notes = append(notes, note)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}

	if err := s.attachTagIDs(ctx, notes); err != nil {
		return nil, err
	}
	return notes, nil
}

// attachTagIDs fills the Tags field of every note in one batched query.
func (s *Service) attachTagIDs(ctx context.Context, notes []Note) error {
	if len(notes) == 0 {
		return nil
	}

	index := make(map[string]int, len(notes))
	placeholders := make([]string, len(notes))
	args := make([]any, len(notes))
	for i := range notes {
		index[notes[i].ID] = i
		placeholders[i] = "?"
		args[i] = notes[i].ID
	}

	rows, err := s.store.DB().QueryContext(ctx,
		`SELECT note_id, tag_id FROM note_tags WHERE note_id IN (`+strings.Join(placeholders, ", ")+`)`,
		args...)
	if err != nil {
		return fmt.Errorf("list note tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var noteID, tagID string
		if err := rows.Scan(&noteID, &tagID); err != nil {
			return fmt.Errorf("scan note tag: %w", err)
		}
		if i, ok := index[noteID]; ok {
			notes[i].Tags = append(notes[i].Tags, tagID)
		}
	}
	return rows.Err()
}

func insertNoteTags(ctx context.Context, tx *sql.Tx, noteID string, tagIDs []string) error {
	for _, tagID := range tagIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO note_tags (note_id, tag_id) VALUES (?, ?)`, noteID, tagID); err != nil {
			return fmt.Errorf("attach tag %s: %w", tagID, err)
		}
	}
	return nil
}

// dedupeTags drops duplicate tag references, preserving first-seen order.
// Duplicates in the input are not meaningful.
func dedupeTags(tagIDs []string) []string {
	out := []string{}
	seen := make(map[string]struct{}, len(tagIDs))
	for _, id := range tagIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// normalizeFolderID collapses the empty string to "no folder" so the stored
// reference is either a real id or NULL.
func normalizeFolderID(folderID *string) *string {
	if folderID == nil || *folderID == "" {
		return nil
	}
	return folderID
}

// validateIDFormat rejects path ids that are not well-formed references,
// before any store access happens.
func validateIDFormat(id string) error {
	if uuid.Validate(id) != nil {
		return errs.New(errs.MalformedID, "improper formatted id")
	}
	return nil
}
