package folders_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noteful/noteful/internal/db"
	"github.com/noteful/noteful/internal/errs"
	"github.com/noteful/noteful/internal/folders"
	"github.com/noteful/noteful/internal/notes"
	"github.com/noteful/noteful/internal/testdb"
)

func setup(t *testing.T) (*db.Store, *folders.Service, string, string) {
	t.Helper()
	store, err := testdb.NewStoreInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	alice := uuid.New().String()
	bob := uuid.New().String()
	for _, u := range []struct{ id, name string }{{alice, "alice"}, {bob, "bob"}} {
		_, err := store.DB().Exec(
			"INSERT INTO users (id, username, password_hash, created_at) VALUES (?, ?, ?, 0)", u.id, u.name, "x")
		require.NoError(t, err)
	}
	return store, folders.NewService(store), alice, bob
}

func TestCreateListGet(t *testing.T) {
	_, svc, alice, _ := setup(t)
	ctx := context.Background()

	work, err := svc.Create(ctx, alice, "work")
	require.NoError(t, err)
	_, err = svc.Create(ctx, alice, "archive")
	require.NoError(t, err)

	list, err := svc.List(ctx, alice)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "archive", list[0].Name, "sorted by name")
	assert.Equal(t, "work", list[1].Name)

	got, err := svc.Get(ctx, alice, work.ID)
	require.NoError(t, err)
	assert.Equal(t, "work", got.Name)
	assert.Equal(t, alice, got.UserID)
}

func TestCreateRequiresName(t *testing.T) {
	_, svc, alice, _ := setup(t)

	_, err := svc.Create(context.Background(), alice, "")
	require.Error(t, err)
	assert.Equal(t, errs.MissingField, errs.CodeOf(err))
	assert.Equal(t, "missing field", errs.MessageOf(err))
}

func TestDuplicateNameSameOwnerConflicts(t *testing.T) {
	_, svc, alice, bob := setup(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, alice, "work")
	require.NoError(t, err)

	_, err = svc.Create(ctx, alice, "work")
	require.Error(t, err)
	assert.Equal(t, errs.DuplicateKey, errs.CodeOf(err))
	assert.Equal(t, "folder name has already exist", errs.MessageOf(err))

	// Uniqueness is per owner: bob may reuse the name.
	_, err = svc.Create(ctx, bob, "work")
	require.NoError(t, err)
}

func TestUpdateRename(t *testing.T) {
	_, svc, alice, _ := setup(t)
	ctx := context.Background()

	folder, err := svc.Create(ctx, alice, "drafts")
	require.NoError(t, err)

	renamed, err := svc.Update(ctx, alice, folder.ID, "published")
	require.NoError(t, err)
	assert.Equal(t, "published", renamed.Name)

	got, err := svc.Get(ctx, alice, folder.ID)
	require.NoError(t, err)
	assert.Equal(t, "published", got.Name)
}

func TestForeignFolderLooksMissing(t *testing.T) {
	_, svc, alice, bob := setup(t)
	ctx := context.Background()

	folder, err := svc.Create(ctx, bob, "bobs")
	require.NoError(t, err)

	_, err = svc.Get(ctx, alice, folder.ID)
	assert.Equal(t, errs.NotFound, errs.CodeOf(err))

	_, err = svc.Update(ctx, alice, folder.ID, "stolen")
	assert.Equal(t, errs.NotFound, errs.CodeOf(err))

	err = svc.Delete(ctx, alice, folder.ID)
	assert.Equal(t, errs.NotFound, errs.CodeOf(err))

	// List never shows it either.
	list, err := svc.List(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestMalformedID(t *testing.T) {
	_, svc, alice, _ := setup(t)
	ctx := context.Background()

	_, err := svc.Get(ctx, alice, "nope")
	assert.Equal(t, errs.MalformedID, errs.CodeOf(err))
	assert.Equal(t, "improper formatted id", errs.MessageOf(err))

	err = svc.Delete(ctx, alice, "nope")
	assert.Equal(t, errs.MalformedID, errs.CodeOf(err))
}

func TestDeleteCascadeClearsNoteReferences(t *testing.T) {
	store, svc, alice, _ := setup(t)
	ctx := context.Background()
	noteSvc := notes.NewService(store)

	folder, err := svc.Create(ctx, alice, "doomed")
	require.NoError(t, err)

	filed, err := noteSvc.Create(ctx, alice, notes.CreateNoteParams{
		Title: "filed", FolderID: &folder.ID,
	})
	require.NoError(t, err)
	loose, err := noteSvc.Create(ctx, alice, notes.CreateNoteParams{Title: "loose"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, alice, folder.ID))

	// The filed note survives, unfiled.
	got, err := noteSvc.Get(ctx, alice, filed.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Folder)

	// Unrelated notes untouched.
	_, err = noteSvc.Get(ctx, alice, loose.ID)
	require.NoError(t, err)

	_, err = svc.Get(ctx, alice, folder.ID)
	assert.Equal(t, errs.NotFound, errs.CodeOf(err))
}
