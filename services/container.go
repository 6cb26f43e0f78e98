package services

import (
	"spherify/repositories"
	"spherify/storage"
)

type Container struct {
	Resolver  ResolverService
	Quota     QuotaService
	Lifecycle LifecycleService
	Trash     TrashService
	Upload    UploadService
	Cleanup   *CleanupService
}

func NewContainer(repos repositories.Container, remote storage.RemoteStorage) *Container {
	resolver := NewResolverService(repos.Entities)
	quota := NewQuotaService(repos.Entities, repos.TeamConfigs, repos.UsageCache)
	lifecycle := NewLifecycleService(repos.TxManager, repos.Entities, repos.History, remote, quota)
	trash := NewTrashService(repos.Entities, lifecycle)
	upload := NewUploadService(resolver, lifecycle, quota)
	cleanup := NewCleanupService(repos.Entities, trash, remote)

	return &Container{
		Resolver:  resolver,
		Quota:     quota,
		Lifecycle: lifecycle,
		Trash:     trash,
		Upload:    upload,
		Cleanup:   cleanup,
	}
}
