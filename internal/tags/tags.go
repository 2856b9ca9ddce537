// Package tags implements tag CRUD and the tag-deletion cascade.
package tags

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/noteful/noteful/internal/db"
	"github.com/noteful/noteful/internal/errs"
)

// Tag is the outward tag representation.
type Tag struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

// Service handles tag operations for authenticated owners.
type Service struct {
	store *db.Store
}

// NewService creates a new tags service.
func NewService(store *db.Store) *Service {
	return &Service{store: store}
}

// List returns the owner's tags sorted by name.
func (s *Service) List(ctx context.Context, userID string) ([]Tag, error) {
	rows, err := s.store.DB().QueryContext(ctx,
		`SELECT id, name, user_id FROM tags WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	tags := []Tag{}
	for rows.Next() {
		var tag Tag
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.UserID); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// Get fetches one tag scoped to the owner.
func (s *Service) Get(ctx context.Context, userID, tagID string) (*Tag, error) {
	if err := validateIDFormat(tagID); err != nil {
		return nil, err
	}

	var tag Tag
	err := s.store.DB().QueryRowContext(ctx,
		`SELECT id, name, user_id FROM tags WHERE id = ? AND user_id = ?`,
		tagID, userID,
	).Scan(&tag.ID, &tag.Name, &tag.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.New(errs.NotFound, "The item does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("read tag: %w", err)
	}
	return &tag, nil
}

// Create persists a new tag under the owner's per-user name uniqueness.
func (s *Service) Create(ctx context.Context, userID, name string) (*Tag, error) {
	if name == "" {
		return nil, errs.New(errs.MissingField, "missing field")
	}

	tag := &Tag{
		ID:     uuid.New().String(),
		Name:   name,
		UserID: userID,
	}
	_, err := s.store.DB().ExecContext(ctx,
		`INSERT INTO tags (id, name, user_id, created_at) VALUES (?, ?, ?, ?)`,
		tag.ID, tag.Name, tag.UserID, time.Now().UTC().Unix(),
	)
	if err != nil {
		if db.IsDuplicateKey(err) {
			return nil, errs.Wrap(errs.DuplicateKey, "tag name has already exist", err)
		}
		return nil, fmt.Errorf("create tag: %w", err)
	}
	return tag, nil
}

// Update renames a tag, conditional on (id, owner).
func (s *Service) Update(ctx context.Context, userID, tagID, name string) (*Tag, error) {
	if err := validateIDFormat(tagID); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.New(errs.MissingField, "missing field")
	}

	res, err := s.store.DB().ExecContext(ctx,
		`UPDATE tags SET name = ? WHERE id = ? AND user_id = ?`,
		name, tagID, userID,
	)
	if err != nil {
		if db.IsDuplicateKey(err) {
			return nil, errs.Wrap(errs.DuplicateKey, "tag name has already exist", err)
		}
		return nil, fmt.Errorf("update tag: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update tag: %w", err)
	}
	if affected == 0 {
		return nil, errs.New(errs.NotFound, "The item does not exist")
	}

	return &Tag{ID: tagID, Name: name, UserID: userID}, nil
}

// Delete removes a tag and cascades to dependent notes: the tag is pulled
// from the tag set of every note that held it, and no note is deleted. The
// cascade completes before success is acknowledged.
//
// The bulk membership delete is unscoped by owner: the preceding owner-scoped
// lookup already proved the tag id belongs to the caller. Memberships go away
// before the tag row so the store's referential checks hold inside the
// transaction; re-running the cascade is a no-op.
func (s *Service) Delete(ctx context.Context, userID, tagID string) error {
	if err := validateIDFormat(tagID); err != nil {
		return err
	}

	tx, err := s.store.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM tags WHERE id = ? AND user_id = ?`, tagID, userID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.New(errs.NotFound, "The item does not exist")
	}
	if err != nil {
		return fmt.Errorf("read tag: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM note_tags WHERE tag_id = ?`, tagID); err != nil {
		return fmt.Errorf("clear tag references: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM tags WHERE id = ?`, tagID); err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}

func validateIDFormat(id string) error {
	if uuid.Validate(id) != nil {
		return errs.New(errs.MalformedID, "improper formatted id")
	}
	return nil
}
