package services

import (
	"context"
	"net/http"
	"time"

	"spherify/logger"
	"spherify/models"
	"spherify/repositories"
)

type TrashService interface {
	// ListTrash returns only the top-level trashed entities: items whose
	// parent is live (or gone). Descendants of a trashed folder travel with
	// it and are not listed separately.
	ListTrash(ctx context.Context, teamID uint) ([]models.Entity, error)
	// PurgeExpired permanently removes trashed entities older than cutoff.
	// Runs from the retention worker; remote failures skip the entity so the
	// next sweep retries it.
	PurgeExpired(ctx context.Context, cutoff time.Time) (int, error)
}

type trashService struct {
	entities  repositories.EntityRepository
	lifecycle LifecycleService
}

func NewTrashService(entities repositories.EntityRepository, lifecycle LifecycleService) TrashService {
	return &trashService{entities: entities, lifecycle: lifecycle}
}

func (s *trashService) ListTrash(ctx context.Context, teamID uint) ([]models.Entity, error) {
	entities, err := s.entities.ListTrashedTopLevel(ctx, nil, teamID)
	if err != nil {
		return nil, newAppError(http.StatusInternalServerError, CodeInternal, "list trash failed", err)
	}
	return entities, nil
}

func (s *trashService) PurgeExpired(ctx context.Context, cutoff time.Time) (int, error) {
	expired, err := s.entities.ListTrashedBefore(ctx, nil, cutoff)
	if err != nil {
		return 0, err
	}

	purged := 0
	for i := range expired {
		if err := s.lifecycle.Purge(ctx, expired[i].TeamID, expired[i].CreatedBy, expired[i].ID); err != nil {
			logger.Warnf("retention purge of entity %d (team %d) failed: %v", expired[i].ID, expired[i].TeamID, err)
			continue
		}
		purged++
	}
	return purged, nil
}
