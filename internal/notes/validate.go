package notes

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/noteful/noteful/internal/errs"
)

// validateReferences confirms that the candidate folder reference and every
// candidate tag reference exists AND belongs to userID. The folder check and
// the per-tag checks are independent reads, so they fan out concurrently and
// join before the caller writes anything; the first failure voids the whole
// operation.
func (s *Service) validateReferences(ctx context.Context, folderID *string, tagIDs []string, userID string) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.validateFolderOwnership(ctx, folderID, userID)
	})
	for _, tagID := range tagIDs {
		g.Go(func() error {
			return s.validateTagOwnership(ctx, tagID, userID)
		})
	}

	return g.Wait()
}

// validateFolderOwnership succeeds trivially for an absent folder reference
// ("no folder" is a valid state). Otherwise the folder must resolve under the
// caller's ownership; a folder that exists under another owner answers
// exactly like one that does not exist, so tenants cannot probe each other.
func (s *Service) validateFolderOwnership(ctx context.Context, folderID *string, userID string) error {
	if folderID == nil || *folderID == "" {
		return nil
	}

	var one int
	err := s.store.DB().QueryRowContext(ctx,
		`SELECT 1 FROM folders WHERE id = ? AND user_id = ?`,
		*folderID, userID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.New(errs.InvalidReference, "The folderId is not valid")
	}
	if err != nil {
		return fmt.Errorf("check folder ownership: %w", err)
	}
	return nil
}

func (s *Service) validateTagOwnership(ctx context.Context, tagID, userID string) error {
	var one int
	err := s.store.DB().QueryRowContext(ctx,
		`SELECT 1 FROM tags WHERE id = ? AND user_id = ?`,
		tagID, userID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return errs.New(errs.InvalidReference, "The tagId is not valid")
	}
	if err != nil {
		return fmt.Errorf("check tag ownership: %w", err)
	}
	return nil
}
