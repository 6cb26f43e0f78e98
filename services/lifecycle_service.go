package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"spherify/logger"
	"spherify/models"
	"spherify/repositories"
	"spherify/storage"

	"gorm.io/gorm"
)

type LifecycleService interface {
	CreateFolder(ctx context.Context, teamID uint, userID uint, parentPath string, name string) (models.Entity, error)
	// EnsureFolder returns the existing live child folder or creates it;
	// used when uploads carry relative paths with intermediate directories.
	EnsureFolder(ctx context.Context, teamID uint, userID uint, parent models.Entity, name string) (models.Entity, error)
	// CreateFile writes bytes through the remote gateway first, then the
	// metadata index. The caller is responsible for the quota pre-check and
	// may wrap reader to observe progress.
	CreateFile(ctx context.Context, teamID uint, userID uint, parent models.Entity, name string, reader io.Reader, size int64) (models.Entity, error)
	UpdateContent(ctx context.Context, teamID uint, userID uint, fileID uint, reader io.Reader, size int64) (models.Entity, error)
	Rename(ctx context.Context, teamID uint, userID uint, entityID uint, newName string) (models.Entity, error)
	Move(ctx context.Context, teamID uint, userID uint, entityID uint, newParentID uint) (models.Entity, error)
	SoftDelete(ctx context.Context, teamID uint, userID uint, entityID uint) (models.Entity, error)
	Restore(ctx context.Context, teamID uint, userID uint, entityID uint) (models.Entity, error)
	Purge(ctx context.Context, teamID uint, userID uint, entityID uint) error
	History(ctx context.Context, teamID uint, entityID uint) ([]models.HistoryEntry, error)
	// PublicLink returns a time-limited download URL for a live file.
	PublicLink(ctx context.Context, teamID uint, logicalPath string) (string, error)
}

type lifecycleService struct {
	txManager TxManager
	entities  repositories.EntityRepository
	history   repositories.HistoryRepository
	remote    storage.RemoteStorage
	quota     QuotaService
	resolver  entityResolver
	locks     *entityLocks
}

func NewLifecycleService(
	txManager TxManager,
	entities repositories.EntityRepository,
	history repositories.HistoryRepository,
	remote storage.RemoteStorage,
	quota QuotaService,
) LifecycleService {
	return &lifecycleService{
		txManager: txManager,
		entities:  entities,
		history:   history,
		remote:    remote,
		quota:     quota,
		resolver:  entityResolver{entities: entities},
		locks:     newEntityLocks(),
	}
}

func (s *lifecycleService) appendHistory(ctx context.Context, tx *gorm.DB, entityID uint, action string, userID uint, details map[string]interface{}) error {
	payload := "{}"
	if len(details) > 0 {
		if raw, err := json.Marshal(details); err == nil {
			payload = string(raw)
		}
	}
	return s.history.Append(ctx, tx, &models.HistoryEntry{
		EntityID:    entityID,
		Action:      action,
		PerformedBy: userID,
		Details:     payload,
	})
}

func (s *lifecycleService) getLiveEntity(ctx context.Context, teamID uint, entityID uint) (models.Entity, *AppError) {
	entity, err := s.entities.GetByIDAndTeam(ctx, nil, entityID, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Entity{}, newAppError(http.StatusNotFound, CodeNotFound, "entity does not exist", nil)
		}
		return models.Entity{}, newAppError(http.StatusInternalServerError, CodeInternal, "load entity failed", err)
	}
	return entity, nil
}

func (s *lifecycleService) CreateFolder(ctx context.Context, teamID uint, userID uint, parentPath string, name string) (models.Entity, error) {
	parent, err := s.resolver.resolvePath(ctx, nil, teamID, parentPath)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Entity{}, newAppError(http.StatusNotFound, CodeNotFound, "parent folder does not exist", nil)
		}
		return models.Entity{}, newAppError(http.StatusInternalServerError, CodeInternal, "resolve parent folder failed", err)
	}
	if !parent.IsFolder() {
		return models.Entity{}, newAppError(http.StatusBadRequest, CodeInvalidRequest, "parent path is not a folder", nil)
	}

	defer s.locks.acquire(parent.ID)()
	return s.createFolderLocked(ctx, teamID, userID, parent, name)
}

// createFolderLocked requires the caller to hold the parent's lock.
func (s *lifecycleService) createFolderLocked(ctx context.Context, teamID uint, userID uint, parent models.Entity, name string) (models.Entity, error) {
	name = sanitizeName(name)
	if name == "" || name == "." {
		return models.Entity{}, newAppError(http.StatusBadRequest, CodeInvalidRequest, "invalid folder name", nil)
	}

	count, err := s.entities.CountByParentAndName(ctx, nil, teamID, parent.ID, name, 0)
	if err != nil {
		return models.Entity{}, newAppError(http.StatusInternalServerError, CodeInternal, "duplicate name check failed", err)
	}
	if count > 0 {
		return models.Entity{}, newAppError(http.StatusConflict, CodeDuplicateName, "an entity with this name already exists", nil)
	}

	parentID := parent.ID
	path := buildChildPath(parent.Path, name)
	folder := models.Entity{
		TeamID:    teamID,
		Name:      name,
		Type:      models.EntityTypeFolder,
		ParentID:  &parentID,
		Path:      path,
		RemoteKey: remoteKeyForPath(teamID, path),
		OwnerID:   userID,
		CreatedBy: userID,
	}

	txErr := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.entities.Create(ctx, tx, &folder); err != nil {
			return err
		}
		return s.appendHistory(ctx, tx, folder.ID, models.ActionCreated, userID, nil)
	})
	if txErr != nil {
		return models.Entity{}, newAppError(http.StatusInternalServerError, CodeInternal, "create folder failed", txErr)
	}
	return folder, nil
}

func (s *lifecycleService) EnsureFolder(ctx context.Context, teamID uint, userID uint, parent models.Entity, name string) (models.Entity, error) {
	defer s.locks.acquire(parent.ID)()

	name = sanitizeName(name)
	existing, err := s.entities.GetChildByName(ctx, nil, teamID, parent.ID, name)
	if err == nil {
		if !existing.IsFolder() {
			return models.Entity{}, newAppError(http.StatusConflict, CodeDuplicateName, "a file occupies this path segment", nil)
		}
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Entity{}, newAppError(http.StatusInternalServerError, CodeInternal, "lookup folder failed", err)
	}
	return s.createFolderLocked(ctx, teamID, userID, parent, name)
}

func (s *lifecycleService) CreateFile(ctx context.Context, teamID uint, userID uint, parent models.Entity, name string, reader io.Reader, size int64) (models.Entity, error) {
	defer s.locks.acquire(parent.ID)()

	name = sanitizeName(name)
	if name == "" || name == "." {
		return models.Entity{}, newAppError(http.StatusBadRequest, CodeInvalidRequest, "invalid file name", nil)
	}

	count, err := s.entities.CountByParentAndName(ctx, nil, teamID, parent.ID, name, 0)
	if err != nil {
		return models.Entity{}, newAppError(http.StatusInternalServerError, CodeInternal, "duplicate name check failed", err)
	}
	if count > 0 {
		return models.Entity{}, newAppError(http.StatusConflict, CodeDuplicateName, "an entity with this name already exists", nil)
	}

	parentID := parent.ID
	path := buildChildPath(parent.Path, name)
	file := models.Entity{
		TeamID:    teamID,
		Name:      name,
		Type:      models.EntityTypeFile,
		ParentID:  &parentID,
		Path:      path,
		RemoteKey: remoteKeyForPath(teamID, path),
		OwnerID:   userID,
		CreatedBy: userID,
		Size:      size,
	}

	// Remote first: a remote failure must not leave orphaned metadata.
	if err := s.remote.Put(ctx, file.RemoteKey, reader, size); err != nil {
		return models.Entity{}, remoteAppError(err, "upload to remote storage failed")
	}

	txErr := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.entities.Create(ctx, tx, &file); err != nil {
			return err
		}
		return s.appendHistory(ctx, tx, file.ID, models.ActionCreated, userID, nil)
	})
	if txErr != nil {
		// The bytes made it, the metadata did not. Left for the divergence
		// audit; not auto-reconciled here.
		logger.Warnf("orphaned remote object %q: metadata write failed: %v", file.RemoteKey, txErr)
		return models.Entity{}, newAppError(http.StatusInternalServerError, CodeInternal, "record file metadata failed", txErr)
	}

	s.quota.InvalidateUsage(ctx, teamID)
	return file, nil
}

func (s *lifecycleService) UpdateContent(ctx context.Context, teamID uint, userID uint, fileID uint, reader io.Reader, size int64) (models.Entity, error) {
	defer s.locks.acquire(fileID)()

	entity, appErr := s.getLiveEntity(ctx, teamID, fileID)
	if appErr != nil {
		return models.Entity{}, appErr
	}
	if entity.IsFolder() {
		return models.Entity{}, newAppError(http.StatusBadRequest, CodeInvalidRequest, "cannot write content to a folder", nil)
	}

	delta := size - entity.Size
	if delta > 0 {
		check, err := s.quota.CheckAvailable(ctx, teamID, delta)
		if err != nil {
			return models.Entity{}, err
		}
		if !check.Allowed {
			return models.Entity{}, newAppErrorWithData(http.StatusRequestEntityTooLarge, CodeQuotaExceeded,
				"team storage quota exceeded", map[string]int64{"available_bytes": check.Available}, nil)
		}
	}

	if err := s.remote.Put(ctx, entity.RemoteKey, reader, size); err != nil {
		return models.Entity{}, remoteAppError(err, "write file content failed")
	}

	txErr := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.entities.UpdateByID(ctx, tx, entity.ID, map[string]interface{}{"size": size}); err != nil {
			return err
		}
		return s.appendHistory(ctx, tx, entity.ID, models.ActionEdited, userID, map[string]interface{}{
			"previous_size": entity.Size,
			"new_size":      size,
		})
	})
	if txErr != nil {
		logger.Warnf("remote object %q updated but metadata write failed: %v", entity.RemoteKey, txErr)
		return models.Entity{}, newAppError(http.StatusInternalServerError, CodeInternal, "record file metadata failed", txErr)
	}

	s.quota.Recheck(ctx, teamID)
	entity.Size = size
	return entity, nil
}

func (s *lifecycleService) Rename(ctx context.Context, teamID uint, userID uint, entityID uint, newName string) (models.Entity, error) {
	defer s.locks.acquire(entityID)()

	entity, appErr := s.getLiveEntity(ctx, teamID, entityID)
	if appErr != nil {
		return models.Entity{}, appErr
	}
	if entity.IsRoot != nil && *entity.IsRoot {
		return models.Entity{}, newAppError(http.StatusBadRequest, CodeInvalidRequest, "team root cannot be renamed", nil)
	}

	newName = sanitizeName(newName)
	if newName == "" || newName == "." {
		return models.Entity{}, newAppError(http.StatusBadRequest, CodeInvalidRequest, "invalid name", nil)
	}
	if newName == entity.Name {
		return entity, nil
	}

	parent, err := s.entities.GetByIDAndTeam(ctx, nil, *entity.ParentID, teamID)
	if err != nil {
		return models.Entity{}, newAppError(http.StatusInternalServerError, CodeInternal, "load parent folder failed", err)
	}

	count, err := s.entities.CountByParentAndName(ctx, nil, teamID, parent.ID, newName, entity.ID)
	if err != nil {
		return models.Entity{}, newAppError(http.StatusInternalServerError, CodeInternal, "duplicate name check failed", err)
	}
	if count > 0 {
		return models.Entity{}, newAppError(http.StatusConflict, CodeDuplicateName, "an entity with this name already exists", nil)
	}

	newPath := buildChildPath(parent.Path, newName)
	newKey := remoteKeyForPath(teamID, newPath)

	// Remote move first; if it fails the metadata stays untouched.
	if err := s.moveRemote(ctx, entity, newKey); err != nil {
		return models.Entity{}, remoteAppError(err, "rename on remote storage failed")
	}

	updates := map[string]interface{}{"name": newName, "path": newPath, "remote_key": newKey}
	details := map[string]interface{}{"previous_name": entity.Name, "new_name": newName}
	if err := s.rewriteSubtree(ctx, entity, updates, newPath, newKey, models.ActionRenamed, userID, details); err != nil {
		return models.Entity{}, err
	}

	entity.Name = newName
	entity.Path = newPath
	entity.RemoteKey = newKey
	return entity, nil
}

func (s *lifecycleService) Move(ctx context.Context, teamID uint, userID uint, entityID uint, newParentID uint) (models.Entity, error) {
	defer s.locks.acquire(entityID)()

	entity, appErr := s.getLiveEntity(ctx, teamID, entityID)
	if appErr != nil {
		return models.Entity{}, appErr
	}
	if entity.IsRoot != nil && *entity.IsRoot {
		return models.Entity{}, newAppError(http.StatusBadRequest, CodeInvalidRequest, "team root cannot be moved", nil)
	}

	newParent, err := s.entities.GetByIDAndTeam(ctx, nil, newParentID, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Entity{}, newAppError(http.StatusNotFound, CodeNotFound, "target folder does not exist", nil)
		}
		return models.Entity{}, newAppError(http.StatusInternalServerError, CodeInternal, "load target folder failed", err)
	}
	if !newParent.IsFolder() {
		return models.Entity{}, newAppError(http.StatusBadRequest, CodeInvalidRequest, "move target is not a folder", nil)
	}

	// Cycle guard before any side effect: moving into itself or a
	// descendant would detach the subtree.
	if newParent.ID == entity.ID || strings.HasPrefix(newParent.Path, entity.Path+"/") {
		return models.Entity{}, newAppError(http.StatusBadRequest, CodeCyclicMove, "cannot move a folder into itself or its descendant", nil)
	}

	count, err := s.entities.CountByParentAndName(ctx, nil, teamID, newParent.ID, entity.Name, entity.ID)
	if err != nil {
		return models.Entity{}, newAppError(http.StatusInternalServerError, CodeInternal, "duplicate name check failed", err)
	}
	if count > 0 {
		return models.Entity{}, newAppError(http.StatusConflict, CodeDuplicateName, "an entity with this name already exists in the target folder", nil)
	}

	newPath := buildChildPath(newParent.Path, entity.Name)
	newKey := remoteKeyForPath(teamID, newPath)

	if err := s.moveRemote(ctx, entity, newKey); err != nil {
		return models.Entity{}, remoteAppError(err, "move on remote storage failed")
	}

	newParentRef := newParent.ID
	updates := map[string]interface{}{"parent_id": newParentRef, "path": newPath, "remote_key": newKey}
	details := map[string]interface{}{"previous_path": entity.Path, "new_path": newPath}
	if err := s.rewriteSubtree(ctx, entity, updates, newPath, newKey, models.ActionMoved, userID, details); err != nil {
		return models.Entity{}, err
	}

	entity.ParentID = &newParentRef
	entity.Path = newPath
	entity.RemoteKey = newKey
	return entity, nil
}

func (s *lifecycleService) moveRemote(ctx context.Context, entity models.Entity, newKey string) error {
	if entity.IsFolder() {
		return s.remote.MovePrefix(ctx, entity.RemoteKey, newKey)
	}
	return s.remote.Move(ctx, entity.RemoteKey, newKey)
}

// rewriteSubtree applies updates to the entity and rewrites path/remote_key
// prefixes of every descendant (trashed ones included) in one transaction,
// appending a single history entry to the moved/renamed entity only.
func (s *lifecycleService) rewriteSubtree(ctx context.Context, entity models.Entity, updates map[string]interface{}, newPath string, newKey string, action string, userID uint, details map[string]interface{}) error {
	txErr := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		descendants, err := s.entities.ListByPathPrefix(ctx, tx, entity.TeamID, entity.ID, entity.Path, true)
		if err != nil {
			return err
		}
		for i := range descendants {
			if descendants[i].ID == entity.ID {
				if err := s.entities.UpdateByIDUnscoped(ctx, tx, entity.ID, updates); err != nil {
					return err
				}
				continue
			}
			childUpdates := map[string]interface{}{
				"path":       strings.Replace(descendants[i].Path, entity.Path, newPath, 1),
				"remote_key": strings.Replace(descendants[i].RemoteKey, entity.RemoteKey, newKey, 1),
			}
			if err := s.entities.UpdateByIDUnscoped(ctx, tx, descendants[i].ID, childUpdates); err != nil {
				return err
			}
		}
		return s.appendHistory(ctx, tx, entity.ID, action, userID, details)
	})
	if txErr != nil {
		logger.Warnf("remote key %q moved but metadata rewrite failed: %v", newKey, txErr)
		return newAppError(http.StatusInternalServerError, CodeInternal, "update entity metadata failed", txErr)
	}
	return nil
}

func (s *lifecycleService) SoftDelete(ctx context.Context, teamID uint, userID uint, entityID uint) (models.Entity, error) {
	defer s.locks.acquire(entityID)()

	entity, appErr := s.getLiveEntity(ctx, teamID, entityID)
	if appErr != nil {
		return models.Entity{}, appErr
	}
	if entity.IsRoot != nil && *entity.IsRoot {
		return models.Entity{}, newAppError(http.StatusBadRequest, CodeInvalidRequest, "team root cannot be deleted", nil)
	}

	// Only the target is marked; descendants stay unmarked and are hidden
	// by the trashed ancestor. Bytes stay on the remote for cheap restore.
	txErr := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.entities.SoftDeleteByID(ctx, tx, entity.ID); err != nil {
			return err
		}
		return s.appendHistory(ctx, tx, entity.ID, models.ActionDeleted, userID, nil)
	})
	if txErr != nil {
		return models.Entity{}, newAppError(http.StatusInternalServerError, CodeInternal, "delete entity failed", txErr)
	}

	s.quota.InvalidateUsage(ctx, teamID)

	trashed, err := s.entities.GetByIDAndTeamUnscoped(ctx, nil, entity.ID, teamID)
	if err != nil {
		return models.Entity{}, newAppError(http.StatusInternalServerError, CodeInternal, "load entity failed", err)
	}
	return trashed, nil
}

func (s *lifecycleService) Restore(ctx context.Context, teamID uint, userID uint, entityID uint) (models.Entity, error) {
	defer s.locks.acquire(entityID)()

	entity, err := s.entities.GetByIDAndTeamUnscoped(ctx, nil, entityID, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Entity{}, newAppError(http.StatusNotFound, CodeNotFound, "entity does not exist", nil)
		}
		return models.Entity{}, newAppError(http.StatusInternalServerError, CodeInternal, "load entity failed", err)
	}
	if !entity.DeletedAt.Valid {
		return models.Entity{}, newAppError(http.StatusBadRequest, CodeInvalidRequest, "entity is not in the trash", nil)
	}

	if _, err := s.entities.GetByIDAndTeam(ctx, nil, *entity.ParentID, teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Entity{}, newAppError(http.StatusConflict, CodeNameConflict, "original parent folder is unavailable; restore it first", nil)
		}
		return models.Entity{}, newAppError(http.StatusInternalServerError, CodeInternal, "load parent folder failed", err)
	}

	// Blocked on collision: callers rename the live sibling (or the trashed
	// entity) before restoring. No silent renaming.
	count, err := s.entities.CountByParentAndName(ctx, nil, teamID, *entity.ParentID, entity.Name, entity.ID)
	if err != nil {
		return models.Entity{}, newAppError(http.StatusInternalServerError, CodeInternal, "name conflict check failed", err)
	}
	if count > 0 {
		return models.Entity{}, newAppError(http.StatusConflict, CodeNameConflict, "a live entity with this name already exists; rename before restoring", nil)
	}

	txErr := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.entities.UpdateByIDUnscoped(ctx, tx, entity.ID, map[string]interface{}{"deleted_at": nil}); err != nil {
			return err
		}
		return s.appendHistory(ctx, tx, entity.ID, models.ActionRestored, userID, nil)
	})
	if txErr != nil {
		return models.Entity{}, newAppError(http.StatusInternalServerError, CodeInternal, "restore entity failed", txErr)
	}

	s.quota.InvalidateUsage(ctx, teamID)

	restored, err := s.entities.GetByIDAndTeam(ctx, nil, entity.ID, teamID)
	if err != nil {
		return models.Entity{}, newAppError(http.StatusInternalServerError, CodeInternal, "load entity failed", err)
	}
	return restored, nil
}

func (s *lifecycleService) Purge(ctx context.Context, teamID uint, userID uint, entityID uint) error {
	defer s.locks.acquire(entityID)()

	entity, err := s.entities.GetByIDAndTeamUnscoped(ctx, nil, entityID, teamID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return newAppError(http.StatusNotFound, CodeNotFound, "entity does not exist", nil)
		}
		return newAppError(http.StatusInternalServerError, CodeInternal, "load entity failed", err)
	}
	if entity.IsRoot != nil && *entity.IsRoot {
		return newAppError(http.StatusBadRequest, CodeInvalidRequest, "team root cannot be purged", nil)
	}

	if entity.IsFolder() {
		err = s.remote.DeletePrefix(ctx, entity.RemoteKey)
	} else {
		err = s.remote.Delete(ctx, entity.RemoteKey)
	}
	if err != nil {
		if errors.Is(err, storage.ErrRemoteNotFound) {
			// Metadata says the object should exist. Report and carry on so
			// the dangling metadata still gets removed.
			logger.Warnf("purge divergence: remote key %q already missing for entity %d", entity.RemoteKey, entity.ID)
		} else {
			return remoteAppError(err, "delete on remote storage failed")
		}
	}

	subtreeIDs, err := s.entities.PluckIDsByPathPrefix(ctx, nil, teamID, entity.ID, entity.Path)
	if err != nil {
		return newAppError(http.StatusInternalServerError, CodeInternal, "collect subtree failed", err)
	}

	txErr := s.txManager.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.history.DeleteByEntityIDs(ctx, tx, subtreeIDs); err != nil {
			return err
		}
		return s.entities.UnscopedDeleteByIDs(ctx, tx, subtreeIDs)
	})
	if txErr != nil {
		return newAppError(http.StatusInternalServerError, CodeInternal, "purge entity metadata failed", txErr)
	}

	s.quota.InvalidateUsage(ctx, teamID)
	return nil
}

func (s *lifecycleService) PublicLink(ctx context.Context, teamID uint, logicalPath string) (string, error) {
	entity, err := s.resolver.resolvePath(ctx, nil, teamID, logicalPath)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", newAppError(http.StatusNotFound, CodeNotFound, "path does not exist", nil)
		}
		return "", newAppError(http.StatusInternalServerError, CodeInternal, "resolve path failed", err)
	}
	if entity.IsFolder() {
		return "", newAppError(http.StatusBadRequest, CodeInvalidRequest, "cannot link a folder", nil)
	}

	link, err := s.remote.PublicLink(ctx, entity.RemoteKey)
	if err != nil {
		return "", remoteAppError(err, "generate download link failed")
	}
	return link, nil
}

func (s *lifecycleService) History(ctx context.Context, teamID uint, entityID uint) ([]models.HistoryEntry, error) {
	if _, err := s.entities.GetByIDAndTeamUnscoped(ctx, nil, entityID, teamID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newAppError(http.StatusNotFound, CodeNotFound, "entity does not exist", nil)
		}
		return nil, newAppError(http.StatusInternalServerError, CodeInternal, "load entity failed", err)
	}

	entries, err := s.history.ListByEntity(ctx, nil, entityID)
	if err != nil {
		return nil, newAppError(http.StatusInternalServerError, CodeInternal, "load history failed", err)
	}
	return entries, nil
}
