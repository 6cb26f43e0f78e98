package services

import (
	"context"
	"errors"
	"net/http"

	"spherify/config"
	"spherify/logger"
	"spherify/models"
	"spherify/repositories"

	"gorm.io/gorm"
)

const bytesPerGiB = int64(1) << 30

type QuotaCheck struct {
	Allowed   bool
	Available int64
}

type QuotaUsage struct {
	StorageType string `json:"storage_type"`
	UsedBytes   int64  `json:"used_bytes"`
	LimitBytes  int64  `json:"limit_bytes"`
}

type QuotaService interface {
	// CheckAvailable runs before any byte transfer. Concurrent uploads can
	// both pass and jointly overshoot; Recheck catches that afterwards.
	CheckAvailable(ctx context.Context, teamID uint, incomingBytes int64) (QuotaCheck, error)
	// Recheck re-validates after a transfer; an overshoot is logged and
	// flagged, never rolled back.
	Recheck(ctx context.Context, teamID uint)
	Usage(ctx context.Context, teamID uint) (QuotaUsage, error)
	InvalidateUsage(ctx context.Context, teamID uint)
}

type quotaService struct {
	entities    repositories.EntityRepository
	teamConfigs repositories.TeamConfigRepository
	usageCache  repositories.UsageCache
	resolver    entityResolver
}

func NewQuotaService(
	entities repositories.EntityRepository,
	teamConfigs repositories.TeamConfigRepository,
	usageCache repositories.UsageCache,
) QuotaService {
	return &quotaService{
		entities:    entities,
		teamConfigs: teamConfigs,
		usageCache:  usageCache,
		resolver:    entityResolver{entities: entities},
	}
}

func (s *quotaService) teamConfig(ctx context.Context, teamID uint) (models.TeamStorageConfig, error) {
	cfg, err := s.teamConfigs.GetByTeam(ctx, nil, teamID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.TeamStorageConfig{}, err
	}

	defaults := config.AppConfig.Quota
	return models.TeamStorageConfig{
		TeamID:      teamID,
		StorageType: defaults.DefaultStorageType,
		MaxSizeGB:   defaults.DefaultMaxSizeGB,
	}, nil
}

// liveUsage reads the cached aggregate when present; the metadata index is
// always the source of truth on a miss.
func (s *quotaService) liveUsage(ctx context.Context, teamID uint) (int64, error) {
	if usage, ok, err := s.usageCache.Get(ctx, teamID); err == nil && ok {
		return usage, nil
	}

	root, err := s.resolver.getOrCreateTeamRoot(ctx, nil, teamID)
	if err != nil {
		return 0, err
	}
	usage, err := s.resolver.aggregateSize(ctx, nil, root)
	if err != nil {
		return 0, err
	}

	if err := s.usageCache.Set(ctx, teamID, usage, config.AppConfig.Redis.UsageCacheTTL); err != nil {
		logger.Debugf("usage cache set failed for team %d: %v", teamID, err)
	}
	return usage, nil
}

func (s *quotaService) CheckAvailable(ctx context.Context, teamID uint, incomingBytes int64) (QuotaCheck, error) {
	cfg, err := s.teamConfig(ctx, teamID)
	if err != nil {
		return QuotaCheck{}, newAppError(http.StatusInternalServerError, CodeInternal, "load team storage config failed", err)
	}
	if cfg.StorageType == models.StorageTypeInfinity {
		return QuotaCheck{Allowed: true, Available: -1}, nil
	}

	used, err := s.liveUsage(ctx, teamID)
	if err != nil {
		return QuotaCheck{}, newAppError(http.StatusInternalServerError, CodeInternal, "compute team usage failed", err)
	}

	available := cfg.MaxSizeGB*bytesPerGiB - used
	if available < 0 {
		available = 0
	}
	return QuotaCheck{Allowed: incomingBytes <= available, Available: available}, nil
}

func (s *quotaService) Recheck(ctx context.Context, teamID uint) {
	s.InvalidateUsage(ctx, teamID)

	check, err := s.CheckAvailable(ctx, teamID, 0)
	if err != nil {
		logger.Debugf("quota recheck failed for team %d: %v", teamID, err)
		return
	}
	if !check.Allowed || check.Available == 0 {
		used, _ := s.liveUsage(ctx, teamID)
		logger.Warnf("team %d is at or over quota after transfer (used=%d)", teamID, used)
	}
}

func (s *quotaService) Usage(ctx context.Context, teamID uint) (QuotaUsage, error) {
	cfg, err := s.teamConfig(ctx, teamID)
	if err != nil {
		return QuotaUsage{}, newAppError(http.StatusInternalServerError, CodeInternal, "load team storage config failed", err)
	}

	used, err := s.liveUsage(ctx, teamID)
	if err != nil {
		return QuotaUsage{}, newAppError(http.StatusInternalServerError, CodeInternal, "compute team usage failed", err)
	}

	limit := int64(-1)
	if cfg.StorageType == models.StorageTypeLimited {
		limit = cfg.MaxSizeGB * bytesPerGiB
	}
	return QuotaUsage{StorageType: cfg.StorageType, UsedBytes: used, LimitBytes: limit}, nil
}

func (s *quotaService) InvalidateUsage(ctx context.Context, teamID uint) {
	if err := s.usageCache.Invalidate(ctx, teamID); err != nil {
		logger.Debugf("usage cache invalidate failed for team %d: %v", teamID, err)
	}
}
