package services

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"spherify/models"
	"spherify/repositories"

	"gorm.io/gorm"
)

type entityResolver struct {
	entities repositories.EntityRepository
}

func (r entityResolver) getOrCreateTeamRoot(ctx context.Context, tx *gorm.DB, teamID uint) (models.Entity, error) {
	root, err := r.entities.GetRootByTeam(ctx, tx, teamID)
	if err == nil {
		return root, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Entity{}, err
	}

	isRoot := true
	root = models.Entity{
		TeamID:    teamID,
		Name:      strconv.FormatUint(uint64(teamID), 10),
		Type:      models.EntityTypeFolder,
		Path:      "/",
		RemoteKey: remoteKeyForPath(teamID, "/"),
		IsRoot:    &isRoot,
	}
	if err := r.entities.Create(ctx, tx, &root); err != nil {
		return models.Entity{}, err
	}
	return root, nil
}

// resolvePath walks the logical path segment by segment through live
// children. Any missing segment yields gorm.ErrRecordNotFound, including
// segments hidden by a trashed ancestor.
func (r entityResolver) resolvePath(ctx context.Context, tx *gorm.DB, teamID uint, logicalPath string) (models.Entity, error) {
	current, err := r.getOrCreateTeamRoot(ctx, tx, teamID)
	if err != nil {
		return models.Entity{}, err
	}

	for _, segment := range splitLogicalPath(logicalPath) {
		child, err := r.entities.GetChildByName(ctx, tx, teamID, current.ID, segment)
		if err != nil {
			return models.Entity{}, err
		}
		current = child
	}
	return current, nil
}

// aggregateSize sums live descendant file sizes on demand. Folder sizes are
// never denormalized; a trashed folder hides its whole subtree from the sum
// even though the descendants themselves carry no deletion mark.
func (r entityResolver) aggregateSize(ctx context.Context, tx *gorm.DB, entity models.Entity) (int64, error) {
	if !entity.IsFolder() {
		return entity.Size, nil
	}

	var total int64
	pending := []uint{entity.ID}
	for len(pending) > 0 {
		folderID := pending[0]
		pending = pending[1:]

		children, err := r.entities.ListChildren(ctx, tx, entity.TeamID, folderID)
		if err != nil {
			return 0, err
		}
		for i := range children {
			if children[i].IsFolder() {
				pending = append(pending, children[i].ID)
			} else {
				total += children[i].Size
			}
		}
	}
	return total, nil
}

type ResolverService interface {
	Resolve(ctx context.Context, teamID uint, logicalPath string) (models.Entity, error)
	ListChildren(ctx context.Context, teamID uint, logicalPath string) ([]models.Entity, error)
	FolderSize(ctx context.Context, teamID uint, logicalPath string) (int64, error)
}

type resolverService struct {
	entities repositories.EntityRepository
	resolver entityResolver
}

func NewResolverService(entities repositories.EntityRepository) ResolverService {
	return &resolverService{
		entities: entities,
		resolver: entityResolver{entities: entities},
	}
}

func (s *resolverService) Resolve(ctx context.Context, teamID uint, logicalPath string) (models.Entity, error) {
	entity, err := s.resolver.resolvePath(ctx, nil, teamID, logicalPath)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Entity{}, newAppError(http.StatusNotFound, CodeNotFound, "path does not exist", nil)
		}
		return models.Entity{}, newAppError(http.StatusInternalServerError, CodeInternal, "resolve path failed", err)
	}
	return entity, nil
}

func (s *resolverService) ListChildren(ctx context.Context, teamID uint, logicalPath string) ([]models.Entity, error) {
	entity, err := s.Resolve(ctx, teamID, logicalPath)
	if err != nil {
		return nil, err
	}
	if !entity.IsFolder() {
		return nil, newAppError(http.StatusBadRequest, CodeInvalidRequest, "path is not a folder", nil)
	}

	children, err := s.entities.ListChildren(ctx, nil, teamID, entity.ID)
	if err != nil {
		return nil, newAppError(http.StatusInternalServerError, CodeInternal, "list children failed", err)
	}
	return children, nil
}

func (s *resolverService) FolderSize(ctx context.Context, teamID uint, logicalPath string) (int64, error) {
	entity, err := s.Resolve(ctx, teamID, logicalPath)
	if err != nil {
		return 0, err
	}

	size, aggErr := s.resolver.aggregateSize(ctx, nil, entity)
	if aggErr != nil {
		return 0, newAppError(http.StatusInternalServerError, CodeInternal, "aggregate folder size failed", aggErr)
	}
	return size, nil
}
