package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"spherify/models"
	"spherify/storage"
)

func appCode(t *testing.T, err error) string {
	t.Helper()
	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected AppError, got %v", err)
	}
	return appErr.Code
}

func TestCreateFolderDuplicateName(t *testing.T) {
	env := newTestEnv()
	env.mustCreateFolder(7, "/", "docs")

	_, err := env.lifecycle.CreateFolder(context.Background(), 7, 1, "/", "docs")
	if code := appCode(t, err); code != CodeDuplicateName {
		t.Fatalf("code = %q, want duplicate_name", code)
	}

	// A file with the same name collides too: one namespace per folder.
	parent, _ := env.resolver.Resolve(context.Background(), 7, "/")
	_, err = env.lifecycle.CreateFile(context.Background(), 7, 1, parent, "docs", strings.NewReader("x"), 1)
	if code := appCode(t, err); code != CodeDuplicateName {
		t.Fatalf("code = %q, want duplicate_name", code)
	}
}

func TestSoftDeleteFreesName(t *testing.T) {
	env := newTestEnv()
	file := env.mustCreateFile(7, "/", "notes.txt", 5)

	if _, err := env.lifecycle.SoftDelete(context.Background(), 7, 1, file.ID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}

	// The trashed occupant no longer blocks the name.
	env.mustCreateFile(7, "/", "notes.txt", 9)
}

func TestCreateFileWritesRemoteFirst(t *testing.T) {
	env := newTestEnv()
	file := env.mustCreateFile(7, "/", "a.bin", 42)

	if size, ok := env.remote.objects[file.RemoteKey]; !ok || size != 42 {
		t.Fatalf("remote object missing or wrong size: %d %v", size, ok)
	}
	if got := env.history.actionsFor(file.ID); len(got) != 1 || got[0] != models.ActionCreated {
		t.Fatalf("history = %v", got)
	}
}

func TestCreateFileRemoteFailureLeavesNoMetadata(t *testing.T) {
	env := newTestEnv()
	env.remote.putErr = storage.ErrRemoteUnavailable
	parent, _ := env.resolver.Resolve(context.Background(), 7, "/")

	_, err := env.lifecycle.CreateFile(context.Background(), 7, 1, parent, "a.bin", strings.NewReader("x"), 1)
	if code := appCode(t, err); code != CodeRemoteUnavailable {
		t.Fatalf("code = %q, want remote_unavailable", code)
	}

	env.remote.putErr = nil
	if _, err := env.resolver.Resolve(context.Background(), 7, "/a.bin"); err == nil {
		t.Fatal("metadata must not exist after a failed remote write")
	}
}

func TestRenameFolderRewritesSubtree(t *testing.T) {
	env := newTestEnv()
	folder := env.mustCreateFolder(7, "/", "old")
	env.mustCreateFolder(7, "/old", "sub")
	env.mustCreateFile(7, "/old/sub", "f.txt", 3)

	renamed, err := env.lifecycle.Rename(context.Background(), 7, 1, folder.ID, "new")
	if err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if renamed.Path != "/new" || renamed.RemoteKey != "7/new" {
		t.Fatalf("renamed entity: %+v", renamed)
	}

	file, err := env.resolver.Resolve(context.Background(), 7, "/new/sub/f.txt")
	if err != nil {
		t.Fatalf("descendant not reachable: %v", err)
	}
	if file.RemoteKey != "7/new/sub/f.txt" {
		t.Fatalf("descendant remote key %q", file.RemoteKey)
	}
	if _, ok := env.remote.objects["7/new/sub/f.txt"]; !ok {
		t.Fatal("remote object not moved")
	}

	if _, err := env.resolver.Resolve(context.Background(), 7, "/old"); err == nil {
		t.Fatal("old path must be gone")
	}
	if got := env.history.actionsFor(folder.ID); got[len(got)-1] != models.ActionRenamed {
		t.Fatalf("history = %v", got)
	}
}

func TestRenameRemoteFailureLeavesMetadataUntouched(t *testing.T) {
	env := newTestEnv()
	folder := env.mustCreateFolder(7, "/", "docs")
	env.mustCreateFile(7, "/docs", "f.txt", 3)
	env.remote.moveErr = storage.ErrRemoteUnavailable

	_, err := env.lifecycle.Rename(context.Background(), 7, 1, folder.ID, "archive")
	if code := appCode(t, err); code != CodeRemoteUnavailable {
		t.Fatalf("code = %q, want remote_unavailable", code)
	}

	got, resolveErr := env.resolver.Resolve(context.Background(), 7, "/docs")
	if resolveErr != nil {
		t.Fatalf("old path must still resolve: %v", resolveErr)
	}
	if got.Name != "docs" || got.RemoteKey != "7/docs" {
		t.Fatalf("metadata was altered: %+v", got)
	}
	if _, resolveErr := env.resolver.Resolve(context.Background(), 7, "/docs/f.txt"); resolveErr != nil {
		t.Fatalf("descendant must still resolve: %v", resolveErr)
	}
	if acts := env.history.actionsFor(folder.ID); len(acts) != 1 || acts[0] != models.ActionCreated {
		t.Fatalf("history must gain nothing, got %v", acts)
	}
}

func TestMoveRemoteFailureLeavesMetadataUntouched(t *testing.T) {
	env := newTestEnv()
	file := env.mustCreateFile(7, "/", "f.txt", 3)
	dst := env.mustCreateFolder(7, "/", "dst")
	env.remote.moveErr = storage.ErrRemoteUnavailable

	_, err := env.lifecycle.Move(context.Background(), 7, 1, file.ID, dst.ID)
	if code := appCode(t, err); code != CodeRemoteUnavailable {
		t.Fatalf("code = %q, want remote_unavailable", code)
	}

	got, resolveErr := env.resolver.Resolve(context.Background(), 7, "/f.txt")
	if resolveErr != nil {
		t.Fatalf("old path must still resolve: %v", resolveErr)
	}
	if got.RemoteKey != "7/f.txt" {
		t.Fatalf("remote key was altered: %q", got.RemoteKey)
	}
	if acts := env.history.actionsFor(file.ID); len(acts) != 1 || acts[0] != models.ActionCreated {
		t.Fatalf("history must gain nothing, got %v", acts)
	}
}

func TestConcurrentRenamesSerialize(t *testing.T) {
	env := newTestEnv()
	file := env.mustCreateFile(7, "/", "f.txt", 3)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	names := []string{"x.txt", "y.txt"}
	for i := range names {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.lifecycle.Rename(context.Background(), 7, 1, file.ID, names[i])
		}(i)
	}
	wg.Wait()

	for i := range errs {
		if errs[i] != nil {
			t.Fatalf("rename %d failed: %v", i, errs[i])
		}
	}

	// Serialized execution: the second rename ran against the first one's
	// result, so exactly one remote object remains, at the final key.
	final, err := env.entities.GetByIDAndTeamUnscoped(context.Background(), nil, file.ID, 7)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if final.Name != "x.txt" && final.Name != "y.txt" {
		t.Fatalf("final name = %q", final.Name)
	}
	if len(env.remote.objects) != 1 {
		t.Fatalf("remote objects = %v, want exactly one", env.remote.objects)
	}
	if _, ok := env.remote.objects[final.RemoteKey]; !ok {
		t.Fatalf("remote key %q has no object", final.RemoteKey)
	}

	renames := 0
	for _, action := range env.history.actionsFor(file.ID) {
		if action == models.ActionRenamed {
			renames++
		}
	}
	if renames != 2 {
		t.Fatalf("renamed entries = %d, want 2", renames)
	}
}

func TestRenameConflict(t *testing.T) {
	env := newTestEnv()
	env.mustCreateFolder(7, "/", "a")
	b := env.mustCreateFolder(7, "/", "b")

	_, err := env.lifecycle.Rename(context.Background(), 7, 1, b.ID, "a")
	if code := appCode(t, err); code != CodeDuplicateName {
		t.Fatalf("code = %q, want duplicate_name", code)
	}
}

func TestMoveIntoDescendantRejected(t *testing.T) {
	env := newTestEnv()
	p := env.mustCreateFolder(7, "/", "p")
	q := env.mustCreateFolder(7, "/p", "q")

	_, err := env.lifecycle.Move(context.Background(), 7, 1, p.ID, q.ID)
	if code := appCode(t, err); code != CodeCyclicMove {
		t.Fatalf("code = %q, want cyclic_move", code)
	}
	_, err = env.lifecycle.Move(context.Background(), 7, 1, p.ID, p.ID)
	if code := appCode(t, err); code != CodeCyclicMove {
		t.Fatalf("code = %q, want cyclic_move", code)
	}

	// Nothing changed.
	if got, err := env.resolver.Resolve(context.Background(), 7, "/p/q"); err != nil || got.ID != q.ID {
		t.Fatalf("tree was mutated: %v %v", got, err)
	}
}

func TestMoveFolder(t *testing.T) {
	env := newTestEnv()
	src := env.mustCreateFolder(7, "/", "src")
	env.mustCreateFile(7, "/src", "f.txt", 3)
	dst := env.mustCreateFolder(7, "/", "dst")

	moved, err := env.lifecycle.Move(context.Background(), 7, 1, src.ID, dst.ID)
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}
	if moved.Path != "/dst/src" {
		t.Fatalf("path = %q", moved.Path)
	}
	if _, err := env.resolver.Resolve(context.Background(), 7, "/dst/src/f.txt"); err != nil {
		t.Fatalf("descendant not reachable: %v", err)
	}
	if _, ok := env.remote.objects["7/dst/src/f.txt"]; !ok {
		t.Fatal("remote object not moved")
	}
}

func TestSoftDeleteMarksOnlyTarget(t *testing.T) {
	env := newTestEnv()
	folder := env.mustCreateFolder(7, "/", "docs")
	file := env.mustCreateFile(7, "/docs", "f.txt", 3)

	trashed, err := env.lifecycle.SoftDelete(context.Background(), 7, 1, folder.ID)
	if err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}
	if !trashed.DeletedAt.Valid {
		t.Fatal("target not marked")
	}

	// The child keeps no mark of its own but is hidden behind the trashed
	// ancestor, and its bytes stay remote.
	child, err := env.entities.GetByIDAndTeamUnscoped(context.Background(), nil, file.ID, 7)
	if err != nil {
		t.Fatalf("child lookup failed: %v", err)
	}
	if child.DeletedAt.Valid {
		t.Fatal("descendant must not be marked")
	}
	if _, err := env.resolver.Resolve(context.Background(), 7, "/docs/f.txt"); err == nil {
		t.Fatal("hidden descendant must not resolve")
	}
	if _, ok := env.remote.objects[file.RemoteKey]; !ok {
		t.Fatal("remote bytes must survive soft delete")
	}
}

func TestRestoreRoundTrip(t *testing.T) {
	env := newTestEnv()
	file := env.mustCreateFile(7, "/", "f.txt", 3)

	if _, err := env.lifecycle.SoftDelete(context.Background(), 7, 1, file.ID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}
	restored, err := env.lifecycle.Restore(context.Background(), 7, 1, file.ID)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if restored.DeletedAt.Valid {
		t.Fatal("restore left the deletion mark")
	}

	got := env.history.actionsFor(file.ID)
	want := []string{models.ActionCreated, models.ActionDeleted, models.ActionRestored}
	if len(got) != len(want) {
		t.Fatalf("history = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("history = %v, want %v", got, want)
		}
	}
}

func TestRestoreBlockedByLiveSibling(t *testing.T) {
	env := newTestEnv()
	file := env.mustCreateFile(7, "/", "f.txt", 3)

	if _, err := env.lifecycle.SoftDelete(context.Background(), 7, 1, file.ID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}
	env.mustCreateFile(7, "/", "f.txt", 9)

	_, err := env.lifecycle.Restore(context.Background(), 7, 1, file.ID)
	if code := appCode(t, err); code != CodeNameConflict {
		t.Fatalf("code = %q, want name_conflict", code)
	}
}

func TestRestoreBlockedByTrashedParent(t *testing.T) {
	env := newTestEnv()
	folder := env.mustCreateFolder(7, "/", "docs")
	file := env.mustCreateFile(7, "/docs", "f.txt", 3)

	if _, err := env.lifecycle.SoftDelete(context.Background(), 7, 1, file.ID); err != nil {
		t.Fatalf("soft delete file failed: %v", err)
	}
	if _, err := env.lifecycle.SoftDelete(context.Background(), 7, 1, folder.ID); err != nil {
		t.Fatalf("soft delete folder failed: %v", err)
	}

	_, err := env.lifecycle.Restore(context.Background(), 7, 1, file.ID)
	if code := appCode(t, err); code != CodeNameConflict {
		t.Fatalf("code = %q, want name_conflict", code)
	}
}

func TestPurgeRemovesEverything(t *testing.T) {
	env := newTestEnv()
	folder := env.mustCreateFolder(7, "/", "docs")
	file := env.mustCreateFile(7, "/docs", "f.txt", 3)

	if err := env.lifecycle.Purge(context.Background(), 7, 1, folder.ID); err != nil {
		t.Fatalf("purge failed: %v", err)
	}

	if _, err := env.entities.GetByIDAndTeamUnscoped(context.Background(), nil, folder.ID, 7); err == nil {
		t.Fatal("folder metadata must be gone")
	}
	if _, err := env.entities.GetByIDAndTeamUnscoped(context.Background(), nil, file.ID, 7); err == nil {
		t.Fatal("descendant metadata must be gone")
	}
	if _, ok := env.remote.objects[file.RemoteKey]; ok {
		t.Fatal("remote object must be gone")
	}
	if got := env.history.actionsFor(file.ID); len(got) != 0 {
		t.Fatalf("history must be gone, got %v", got)
	}
}

func TestPurgeToleratesMissingRemote(t *testing.T) {
	env := newTestEnv()
	file := env.mustCreateFile(7, "/", "f.txt", 3)
	delete(env.remote.objects, file.RemoteKey)

	// The divergence is reported, not fatal: dangling metadata still goes.
	if err := env.lifecycle.Purge(context.Background(), 7, 1, file.ID); err != nil {
		t.Fatalf("purge failed: %v", err)
	}
	if _, err := env.entities.GetByIDAndTeamUnscoped(context.Background(), nil, file.ID, 7); err == nil {
		t.Fatal("metadata must be gone")
	}
}

func TestUpdateContent(t *testing.T) {
	env := newTestEnv()
	file := env.mustCreateFile(7, "/", "f.txt", 10)

	updated, err := env.lifecycle.UpdateContent(context.Background(), 7, 1, file.ID, strings.NewReader(strings.Repeat("y", 25)), 25)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Size != 25 {
		t.Fatalf("size = %d, want 25", updated.Size)
	}
	if got := env.history.actionsFor(file.ID); got[len(got)-1] != models.ActionEdited {
		t.Fatalf("history = %v", got)
	}
}

func TestUpdateContentQuotaDelta(t *testing.T) {
	env := newTestEnv()
	env.teamCfg.configs[7] = models.TeamStorageConfig{
		TeamID: 7, StorageType: models.StorageTypeLimited, MaxSizeGB: 1,
	}
	file := env.mustCreateFile(7, "/", "f.bin", 100*mib)
	env.cache.values[7] = 1024 * mib

	// Growing past the limit is denied; shrinking is always allowed.
	_, err := env.lifecycle.UpdateContent(context.Background(), 7, 1, file.ID, sizedReader(200*mib), 200*mib)
	if code := appCode(t, err); code != CodeQuotaExceeded {
		t.Fatalf("code = %q, want quota_exceeded", code)
	}

	env.cache.values[7] = 1024 * mib
	if _, err := env.lifecycle.UpdateContent(context.Background(), 7, 1, file.ID, sizedReader(50*mib), 50*mib); err != nil {
		t.Fatalf("shrink failed: %v", err)
	}
}

func TestPublicLink(t *testing.T) {
	env := newTestEnv()
	env.mustCreateFile(7, "/", "f.txt", 3)

	link, err := env.lifecycle.PublicLink(context.Background(), 7, "/f.txt")
	if err != nil {
		t.Fatalf("link failed: %v", err)
	}
	if link != "https://remote.test/7/f.txt" {
		t.Fatalf("link = %q", link)
	}

	env.mustCreateFolder(7, "/", "docs")
	_, err = env.lifecycle.PublicLink(context.Background(), 7, "/docs")
	if code := appCode(t, err); code != CodeInvalidRequest {
		t.Fatalf("code = %q, want invalid_request", code)
	}
}

func TestHistoryLifecycleSequence(t *testing.T) {
	env := newTestEnv()
	file := env.mustCreateFile(7, "/", "f.txt", 3)

	if _, err := env.lifecycle.Rename(context.Background(), 7, 1, file.ID, "g.txt"); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	if _, err := env.lifecycle.SoftDelete(context.Background(), 7, 1, file.ID); err != nil {
		t.Fatalf("soft delete failed: %v", err)
	}

	entries, err := env.lifecycle.History(context.Background(), 7, file.ID)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	want := []string{models.ActionCreated, models.ActionRenamed, models.ActionDeleted}
	if len(entries) != len(want) {
		t.Fatalf("got %d entries, want %d", len(entries), len(want))
	}
	for i := range want {
		if entries[i].Action != want[i] {
			t.Fatalf("entry %d action = %q, want %q", i, entries[i].Action, want[i])
		}
	}
}
