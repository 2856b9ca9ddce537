// Package folders implements folder CRUD and the folder-deletion cascade.
package folders

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

// Folder is the outward folder representation.
type Folder struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	UserID string `json:"userId"`
}

// Service handles folder operations for authenticated owners.
type Service struct {
	store *db.Store
}

// NewService creates a new folders service.
func NewService(store *db.Store) *Service {
	return &Service{store: store}
}

// List returns the owner's folders sorted by name.
func (s *Service) List(ctx context.Context, userID string) ([]Folder, error) {
	rows, err := s.store.DB().QueryContext(ctx,
		`SELECT id, name, user_id FROM folders WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	folders := []Folder{}
	for rows.Next() {
		var folder Folder
		if err := rows.Scan(&folder.ID, &folder.Name, &folder.UserID); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}
	return folders, rows.Err()
}

// Get fetches one folder scoped to the owner.
func (s *Service) Get(ctx context.Context, userID, folderID string) (*Folder, error) {
	if err := validateIDFormat(folderID); err != nil {
		return nil, err
	}

	var folder Folder
	err := s.store.DB().QueryRowContext(ctx,
		`SELECT id, name, user_id FROM folders WHERE id = ? AND user_id = ?`,
		folderID, userID,
	).Scan(&folder.ID, &folder.Name, &folder.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.New(errs.NotFound, "The item does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("read folder: %w", err)
	}
	return &folder, nil
}

// Create persists a new folder. Name uniqueness is per owner, enforced by the
// store's composite index and surfaced as a typed duplicate-key error.
func (s *Service) Create(ctx context.Context, userID, name string) (*Folder, error) {
	if name == "" {
		return nil, errs.New(errs.MissingField, "missing field")
	}

	folder := &Folder{
		ID:     uuid.New().String(),
		Name:   name,
		UserID: userID,
	}
	_, err := s.store.DB().ExecContext(ctx,
		`INSERT INTO folders (id, name, user_id, created_at) VALUES (?, ?, ?, ?)`,
		folder.ID, folder.Name, folder.UserID, time.Now().UTC().Unix(),
	)
	if err != nil {
		if db.IsDuplicateKey(err) {
			return nil, errs.Wrap(errs.DuplicateKey, "folder name has already exist", err)
		}
		return nil, fmt.Errorf("create folder: %w", err)
	}
	return folder, nil
}

// Update renames a folder, conditional on (id, owner).
func (s *Service) Update(ctx context.Context, userID, folderID, name string) (*Folder, error) {
	if err := validateIDFormat(folderID); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, errs.New(errs.MissingField, "missing field")
	}

	res, err := s.store.DB().ExecContext(ctx,
		`UPDATE folders SET name = ? WHERE id = ? AND user_id = ?`,
		name, folderID, userID,
	)
	if err != nil {
		if db.IsDuplicateKey(err) {
			return nil, errs.Wrap(errs.DuplicateKey, "folder name has already exist", err)
		}
		return nil, fmt.Errorf("update folder: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update folder: %w", err)
	}
	if affected == 0 {
		return nil, errs.New(errs.NotFound, "The item does not exist")
	}

	return &Folder{ID: folderID, Name: name, UserID: userID}, nil
}

// Delete removes a folder and cascades to dependent notes: every note that
// referenced the folder has its folder reference cleared, and no note is
// deleted. The cascade completes before the caller acknowledges success, so
// dangling references are never visible to subsequent reads.
//
// The bulk note update is unscoped by owner: the preceding owner-scoped
// lookup already proved the folder id belongs to the caller. Dependents are
// cleared before the folder row goes away so the store's referential checks
// hold inside the transaction; re-running the cascade is a no-op.
func (s *Service) Delete(ctx context.Context, userID, folderID string) error {
	if err := validateIDFormat(folderID); err != nil {
		return err
	}

	tx, err := s.store.DB().BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var one int
	err = tx.QueryRowContext(ctx,
		`SELECT 1 FROM folders WHERE id = ? AND user_id = ?`, folderID, userID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.New(errs.NotFound, "The item does not exist")
	}
	if err != nil {
		return fmt.Errorf("read folder: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE notes SET folder_id = NULL WHERE folder_id = ?`, folderID); err != nil {
		return fmt.Errorf("clear folder references: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM folders WHERE id = ?`, folderID); err != nil {
		return fmt.Errorf("delete folder: %w", err)
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
