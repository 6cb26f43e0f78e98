package services

import (
	"context"
	"time"

	"spherify/config"
	"spherify/logger"
	"spherify/models"
	"spherify/repositories"
	"spherify/storage"
)

// CleanupService runs the periodic maintenance loops: trash retention purge
// and the metadata/remote divergence audit.
type CleanupService struct {
	entities repositories.EntityRepository
	trash    TrashService
	remote   storage.RemoteStorage
	cancel   context.CancelFunc
}

func NewCleanupService(entities repositories.EntityRepository, trash TrashService, remote storage.RemoteStorage) *CleanupService {
	return &CleanupService{
		entities: entities,
		trash:    trash,
		remote:   remote,
	}
}

func (s *CleanupService) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	go s.retentionLoop(ctx)
	if config.AppConfig.Audit.Enabled {
		go s.auditLoop(ctx)
	}
}

func (s *CleanupService) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
}

func (s *CleanupService) retentionLoop(ctx context.Context) {
	interval := time.Duration(config.AppConfig.Trash.CleanupInterval) * time.Minute
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runRetention(ctx)
		}
	}
}

func (s *CleanupService) runRetention(ctx context.Context) {
	retention := time.Duration(config.AppConfig.Trash.RetentionDays) * 24 * time.Hour
	if retention <= 0 {
		return
	}
	cutoff := time.Now().Add(-retention)

	purged, err := s.trash.PurgeExpired(ctx, cutoff)
	if err != nil {
		logger.Errorf("trash retention sweep failed: %v", err)
		return
	}
	if purged > 0 {
		logger.Infof("trash retention sweep purged %d entities", purged)
	}
}

func (s *CleanupService) auditLoop(ctx context.Context) {
	interval := time.Duration(config.AppConfig.Audit.Interval) * time.Minute
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runAudit(ctx)
		}
	}
}

// runAudit compares per-team aggregate sizes between the metadata index and
// the remote gateway. Mismatches are reported, never auto-repaired.
func (s *CleanupService) runAudit(ctx context.Context) {
	roots, err := s.entities.ListRoots(ctx, nil)
	if err != nil {
		logger.Errorf("divergence audit: list team roots failed: %v", err)
		return
	}

	for i := range roots {
		indexed, remote, err := s.auditTeam(ctx, roots[i])
		if err != nil {
			logger.Errorf("divergence audit: team %d failed: %v", roots[i].TeamID, err)
			continue
		}
		if indexed != remote {
			logger.Warnf("divergence audit: team %d index=%d remote=%d", roots[i].TeamID, indexed, remote)
		}
	}
}

// auditTeam sums the trash-inclusive index total, since soft-deleted files
// keep their bytes on the remote: a mismatch therefore signals orphans or
// lost objects, not routine trash.
func (s *CleanupService) auditTeam(ctx context.Context, root models.Entity) (int64, int64, error) {
	indexed, err := s.entities.SumFileSizesByTeam(ctx, nil, root.TeamID, true)
	if err != nil {
		return 0, 0, err
	}
	remote, err := s.remote.RecursiveSize(ctx, root.RemoteKey)
	if err != nil {
		return 0, 0, err
	}
	return indexed, remote, nil
}
