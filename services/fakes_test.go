package services

import (
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"spherify/config"
	"spherify/models"
	"spherify/storage"

	"gorm.io/gorm"
)

func setTestConfig() {
	config.AppConfig = &config.Config{
		Quota: config.QuotaConfig{
			DefaultStorageType: models.StorageTypeLimited,
			DefaultMaxSizeGB:   10,
		},
		Redis: config.RedisConfig{UsageCacheTTL: 300},
		Upload: config.UploadConfig{
			MaxFileSize:       1 << 40,
			ProgressChunkSize: 4,
		},
		Trash: config.TrashConfig{RetentionDays: 30},
	}
}

type fakeEntityRepo struct {
	nextID   uint
	entities map[uint]*models.Entity
}

func newFakeEntityRepo() *fakeEntityRepo {
	return &fakeEntityRepo{nextID: 1, entities: make(map[uint]*models.Entity)}
}

func (r *fakeEntityRepo) GetByIDAndTeam(_ context.Context, _ *gorm.DB, entityID uint, teamID uint) (models.Entity, error) {
	e, ok := r.entities[entityID]
	if !ok || e.TeamID != teamID || e.DeletedAt.Valid {
		return models.Entity{}, gorm.ErrRecordNotFound
	}
	return *e, nil
}

func (r *fakeEntityRepo) GetByIDAndTeamUnscoped(_ context.Context, _ *gorm.DB, entityID uint, teamID uint) (models.Entity, error) {
	e, ok := r.entities[entityID]
	if !ok || e.TeamID != teamID {
		return models.Entity{}, gorm.ErrRecordNotFound
	}
	return *e, nil
}

func (r *fakeEntityRepo) GetRootByTeam(_ context.Context, _ *gorm.DB, teamID uint) (models.Entity, error) {
	for _, e := range r.entities {
		if e.TeamID == teamID && e.IsRoot != nil && *e.IsRoot {
			return *e, nil
		}
	}
	return models.Entity{}, gorm.ErrRecordNotFound
}

func (r *fakeEntityRepo) ListRoots(_ context.Context, _ *gorm.DB) ([]models.Entity, error) {
	var roots []models.Entity
	for _, e := range r.entities {
		if e.IsRoot != nil && *e.IsRoot {
			roots = append(roots, *e)
		}
	}
	return roots, nil
}

func (r *fakeEntityRepo) GetChildByName(_ context.Context, _ *gorm.DB, teamID uint, parentID uint, name string) (models.Entity, error) {
	for _, e := range r.entities {
		if e.TeamID == teamID && e.ParentID != nil && *e.ParentID == parentID && e.Name == name && !e.DeletedAt.Valid {
			return *e, nil
		}
	}
	return models.Entity{}, gorm.ErrRecordNotFound
}

func (r *fakeEntityRepo) ListChildren(_ context.Context, _ *gorm.DB, teamID uint, parentID uint) ([]models.Entity, error) {
	var children []models.Entity
	for _, e := range r.entities {
		if e.TeamID == teamID && e.ParentID != nil && *e.ParentID == parentID && !e.DeletedAt.Valid {
			children = append(children, *e)
		}
	}
	sort.Slice(children, func(i, j int) bool {
		if children[i].Type != children[j].Type {
			return children[i].Type == models.EntityTypeFolder
		}
		return children[i].Name < children[j].Name
	})
	return children, nil
}

func (r *fakeEntityRepo) CountByParentAndName(_ context.Context, _ *gorm.DB, teamID uint, parentID uint, name string, excludeID uint) (int64, error) {
	var count int64
	for _, e := range r.entities {
		if e.TeamID == teamID && e.ParentID != nil && *e.ParentID == parentID &&
			e.Name == name && e.ID != excludeID && !e.DeletedAt.Valid {
			count++
		}
	}
	return count, nil
}

func (r *fakeEntityRepo) Create(_ context.Context, _ *gorm.DB, entity *models.Entity) error {
	entity.ID = r.nextID
	r.nextID++
	entity.CreatedAt = time.Now()
	stored := *entity
	r.entities[entity.ID] = &stored
	return nil
}

func (r *fakeEntityRepo) applyUpdates(e *models.Entity, updates map[string]interface{}) {
	for key, value := range updates {
		switch key {
		case "name":
			e.Name = value.(string)
		case "path":
			e.Path = value.(string)
		case "remote_key":
			e.RemoteKey = value.(string)
		case "size":
			e.Size = value.(int64)
		case "parent_id":
			id := value.(uint)
			e.ParentID = &id
		case "deleted_at":
			if value == nil {
				e.DeletedAt = gorm.DeletedAt{}
			}
		}
	}
}

func (r *fakeEntityRepo) UpdateByID(_ context.Context, _ *gorm.DB, entityID uint, updates map[string]interface{}) error {
	e, ok := r.entities[entityID]
	if !ok || e.DeletedAt.Valid {
		return gorm.ErrRecordNotFound
	}
	r.applyUpdates(e, updates)
	return nil
}

func (r *fakeEntityRepo) UpdateByIDUnscoped(_ context.Context, _ *gorm.DB, entityID uint, updates map[string]interface{}) error {
	e, ok := r.entities[entityID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	r.applyUpdates(e, updates)
	return nil
}

func (r *fakeEntityRepo) subtree(teamID uint, rootID uint, rootPath string) []*models.Entity {
	var nodes []*models.Entity
	for _, e := range r.entities {
		if e.TeamID != teamID {
			continue
		}
		if e.ID == rootID || strings.HasPrefix(e.Path, strings.TrimRight(rootPath, "/")+"/") {
			nodes = append(nodes, e)
		}
	}
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })
	return nodes
}

func (r *fakeEntityRepo) ListByPathPrefix(_ context.Context, _ *gorm.DB, teamID uint, rootID uint, rootPath string, unscoped bool) ([]models.Entity, error) {
	var result []models.Entity
	for _, e := range r.subtree(teamID, rootID, rootPath) {
		if !unscoped && e.DeletedAt.Valid {
			continue
		}
		result = append(result, *e)
	}
	return result, nil
}

func (r *fakeEntityRepo) PluckIDsByPathPrefix(_ context.Context, _ *gorm.DB, teamID uint, rootID uint, rootPath string) ([]uint, error) {
	var ids []uint
	for _, e := range r.subtree(teamID, rootID, rootPath) {
		ids = append(ids, e.ID)
	}
	return ids, nil
}

func (r *fakeEntityRepo) SoftDeleteByID(_ context.Context, _ *gorm.DB, entityID uint) error {
	e, ok := r.entities[entityID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	e.DeletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	return nil
}

func (r *fakeEntityRepo) UnscopedDeleteByIDs(_ context.Context, _ *gorm.DB, entityIDs []uint) error {
	for _, id := range entityIDs {
		delete(r.entities, id)
	}
	return nil
}

func (r *fakeEntityRepo) ListTrashedTopLevel(_ context.Context, _ *gorm.DB, teamID uint) ([]models.Entity, error) {
	var trashed []models.Entity
	for _, e := range r.entities {
		if e.TeamID != teamID || !e.DeletedAt.Valid {
			continue
		}
		if e.ParentID != nil {
			if parent, ok := r.entities[*e.ParentID]; ok && parent.DeletedAt.Valid {
				continue
			}
		}
		trashed = append(trashed, *e)
	}
	sort.Slice(trashed, func(i, j int) bool { return trashed[i].ID < trashed[j].ID })
	return trashed, nil
}

func (r *fakeEntityRepo) SumFileSizesByTeam(_ context.Context, _ *gorm.DB, teamID uint, unscoped bool) (int64, error) {
	var total int64
	for _, e := range r.entities {
		if e.TeamID != teamID || e.Type != models.EntityTypeFile {
			continue
		}
		if !unscoped && e.DeletedAt.Valid {
			continue
		}
		total += e.Size
	}
	return total, nil
}

func (r *fakeEntityRepo) ListTrashedBefore(_ context.Context, _ *gorm.DB, cutoff time.Time) ([]models.Entity, error) {
	var expired []models.Entity
	for _, e := range r.entities {
		if e.DeletedAt.Valid && e.DeletedAt.Time.Before(cutoff) {
			expired = append(expired, *e)
		}
	}
	return expired, nil
}

type fakeHistoryRepo struct {
	nextID  uint
	entries []models.HistoryEntry
}

func newFakeHistoryRepo() *fakeHistoryRepo {
	return &fakeHistoryRepo{nextID: 1}
}

func (r *fakeHistoryRepo) Append(_ context.Context, _ *gorm.DB, entry *models.HistoryEntry) error {
	entry.ID = r.nextID
	r.nextID++
	entry.CreatedAt = time.Now()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeHistoryRepo) ListByEntity(_ context.Context, _ *gorm.DB, entityID uint) ([]models.HistoryEntry, error) {
	var result []models.HistoryEntry
	for _, entry := range r.entries {
		if entry.EntityID == entityID {
			result = append(result, entry)
		}
	}
	return result, nil
}

func (r *fakeHistoryRepo) DeleteByEntityIDs(_ context.Context, _ *gorm.DB, entityIDs []uint) error {
	keep := r.entries[:0]
	for _, entry := range r.entries {
		matched := false
		for _, id := range entityIDs {
			if entry.EntityID == id {
				matched = true
				break
			}
		}
		if !matched {
			keep = append(keep, entry)
		}
	}
	r.entries = keep
	return nil
}

func (r *fakeHistoryRepo) actionsFor(entityID uint) []string {
	var actions []string
	for _, entry := range r.entries {
		if entry.EntityID == entityID {
			actions = append(actions, entry.Action)
		}
	}
	return actions
}

type fakeTeamConfigRepo struct {
	configs map[uint]models.TeamStorageConfig
}

func newFakeTeamConfigRepo() *fakeTeamConfigRepo {
	return &fakeTeamConfigRepo{configs: make(map[uint]models.TeamStorageConfig)}
}

func (r *fakeTeamConfigRepo) GetByTeam(_ context.Context, _ *gorm.DB, teamID uint) (models.TeamStorageConfig, error) {
	cfg, ok := r.configs[teamID]
	if !ok {
		return models.TeamStorageConfig{}, gorm.ErrRecordNotFound
	}
	return cfg, nil
}

func teamConfigLimited(teamID uint, gb int64) models.TeamStorageConfig {
	return models.TeamStorageConfig{
		TeamID:      teamID,
		StorageType: models.StorageTypeLimited,
		MaxSizeGB:   gb,
	}
}

type fakeUsageCache struct {
	values map[uint]int64
}

func newFakeUsageCache() *fakeUsageCache {
	return &fakeUsageCache{values: make(map[uint]int64)}
}

func (c *fakeUsageCache) Get(_ context.Context, teamID uint) (int64, bool, error) {
	v, ok := c.values[teamID]
	return v, ok, nil
}

func (c *fakeUsageCache) Set(_ context.Context, teamID uint, usage int64, _ int) error {
	c.values[teamID] = usage
	return nil
}

func (c *fakeUsageCache) Invalidate(_ context.Context, teamID uint) error {
	delete(c.values, teamID)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) WithTransaction(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeRemote struct {
	objects map[string]int64

	putErr  error
	moveErr error

	putKeys     []string
	deletedKeys []string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{objects: make(map[string]int64)}
}

func (r *fakeRemote) Put(_ context.Context, key string, reader io.Reader, size int64) error {
	if r.putErr != nil {
		return r.putErr
	}
	if _, err := io.Copy(io.Discard, reader); err != nil {
		return err
	}
	r.objects[key] = size
	r.putKeys = append(r.putKeys, key)
	return nil
}

func (r *fakeRemote) PublicLink(_ context.Context, key string) (string, error) {
	if _, ok := r.objects[key]; !ok {
		return "", storage.ErrRemoteNotFound
	}
	return "https://remote.test/" + key, nil
}

func (r *fakeRemote) Move(_ context.Context, oldKey string, newKey string) error {
	if r.moveErr != nil {
		return r.moveErr
	}
	size, ok := r.objects[oldKey]
	if !ok {
		return storage.ErrRemoteNotFound
	}
	delete(r.objects, oldKey)
	r.objects[newKey] = size
	return nil
}

func (r *fakeRemote) MovePrefix(_ context.Context, oldPrefix string, newPrefix string) error {
	if r.moveErr != nil {
		return r.moveErr
	}
	for key, size := range r.objects {
		if strings.HasPrefix(key, oldPrefix+"/") {
			delete(r.objects, key)
			r.objects[newPrefix+key[len(oldPrefix):]] = size
		}
	}
	return nil
}

func (r *fakeRemote) Delete(_ context.Context, key string) error {
	if _, ok := r.objects[key]; !ok {
		return storage.ErrRemoteNotFound
	}
	delete(r.objects, key)
	r.deletedKeys = append(r.deletedKeys, key)
	return nil
}

func (r *fakeRemote) DeletePrefix(_ context.Context, prefix string) error {
	for key := range r.objects {
		if strings.HasPrefix(key, prefix+"/") {
			delete(r.objects, key)
			r.deletedKeys = append(r.deletedKeys, key)
		}
	}
	return nil
}

func (r *fakeRemote) RecursiveSize(_ context.Context, prefix string) (int64, error) {
	var total int64
	for key, size := range r.objects {
		if strings.HasPrefix(key, prefix+"/") {
			total += size
		}
	}
	return total, nil
}

// testEnv wires the service stack over the in-memory fakes.
type testEnv struct {
	entities  *fakeEntityRepo
	history   *fakeHistoryRepo
	teamCfg   *fakeTeamConfigRepo
	cache     *fakeUsageCache
	remote    *fakeRemote
	resolver  ResolverService
	quota     QuotaService
	lifecycle LifecycleService
	trash     TrashService
	upload    UploadService
}

func newTestEnv() *testEnv {
	setTestConfig()

	env := &testEnv{
		entities: newFakeEntityRepo(),
		history:  newFakeHistoryRepo(),
		teamCfg:  newFakeTeamConfigRepo(),
		cache:    newFakeUsageCache(),
		remote:   newFakeRemote(),
	}
	env.resolver = NewResolverService(env.entities)
	env.quota = NewQuotaService(env.entities, env.teamCfg, env.cache)
	env.lifecycle = NewLifecycleService(fakeTxManager{}, env.entities, env.history, env.remote, env.quota)
	env.trash = NewTrashService(env.entities, env.lifecycle)
	env.upload = NewUploadService(env.resolver, env.lifecycle, env.quota)
	return env
}

func (env *testEnv) mustCreateFolder(teamID uint, parentPath string, name string) models.Entity {
	folder, err := env.lifecycle.CreateFolder(context.Background(), teamID, 1, parentPath, name)
	if err != nil {
		panic(err)
	}
	return folder
}

func (env *testEnv) mustCreateFile(teamID uint, parentPath string, name string, size int64) models.Entity {
	parent, err := env.resolver.Resolve(context.Background(), teamID, parentPath)
	if err != nil {
		panic(err)
	}
	file, err := env.lifecycle.CreateFile(context.Background(), teamID, 1, parent, name, sizedReader(size), size)
	if err != nil {
		panic(err)
	}
	return file
}

type zeroReader struct{}

func (zeroReader) Read(b []byte) (int, error) {
	for i := range b {
		b[i] = 0
	}
	return len(b), nil
}

func sizedReader(size int64) io.Reader {
	return io.LimitReader(zeroReader{}, size)
}
