package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"sort"
	"sync"
	"testing"
	"time"

	"twibbon-campaign/models"
	"twibbon-campaign/repository"
)

type fakeCampaignRepo struct {
	mu        sync.Mutex
	nextID    int64
	campaigns map[int64]*models.Campaign
	now       time.Time
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{
		campaigns: map[int64]*models.Campaign{},
		now:       time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (r *fakeCampaignRepo) tick() time.Time {
	r.now = r.now.Add(time.Second)
	return r.now
}

func (r *fakeCampaignRepo) List(ctx context.Context, activeOnly bool) ([]models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Campaign
	for _, c := range r.campaigns {
		if activeOnly && !c.IsActive {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeCampaignRepo) GetByID(ctx context.Context, id int64) (*models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return nil, fmt.Errorf("campaign %d: %w", id, repository.ErrNotFound)
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCampaignRepo) GetActiveBySlug(ctx context.Context, slug string) (*models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.campaigns {
		if c.Slug == slug && c.IsActive {
			cp := *c
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("campaign %q: %w", slug, repository.ErrNotFound)
}

func (r *fakeCampaignRepo) SlugExists(ctx context.Context, slug string, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.campaigns {
		if c.Slug == slug && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeCampaignRepo) Create(ctx context.Context, req *models.CreateCampaignRequest) (*models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	now := r.tick()
	c := &models.Campaign{
		ID:        r.nextID,
		Name:      req.Name,
		Slug:      req.Slug,
		Type:      req.Type,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.campaigns[c.ID] = c
	cp := *c
	return &cp, nil
}

func (r *fakeCampaignRepo) Update(ctx context.Context, id int64, req *models.UpdateCampaignRequest) (*models.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.campaigns[id]
	if !ok {
		return nil, fmt.Errorf("campaign %d: %w", id, repository.ErrNotFound)
	}
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Slug != nil {
		c.Slug = *req.Slug
	}
	if req.Type != nil {
		c.Type = *req.Type
	}
	if req.TemplateURL != nil {
		c.TemplateURL = *req.TemplateURL
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	c.UpdatedAt = r.tick()
	cp := *c
	return &cp, nil
}

func (r *fakeCampaignRepo) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.campaigns[id]; !ok {
		return fmt.Errorf("campaign %d: %w", id, repository.ErrNotFound)
	}
	delete(r.campaigns, id)
	return nil
}

type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	uploadErr error
	downloads int
	deleted   []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	ref := "fake:" + name
	s.objects[ref] = data
	return ref, nil
}

func (s *fakeStorage) Download(ctx context.Context, ref string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downloads++
	data, ok := s.objects[ref]
	if !ok {
		return nil, ErrAssetNotFound
	}
	return data, nil
}

func (s *fakeStorage) Delete(ctx context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, ref)
	delete(s.objects, ref)
	return nil
}

type fakeDownloadRepo struct {
	mu        sync.Mutex
	inserted  []models.Download
	listed    []models.Download
	lastQuery models.DownloadFilter
	insertErr error
}

func (r *fakeDownloadRepo) Insert(ctx context.Context, d *models.Download) (*models.Download, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.insertErr != nil {
		return nil, r.insertErr
	}
	saved := *d
	saved.ID = int64(len(r.inserted) + 1)
	r.inserted = append(r.inserted, saved)
	return &saved, nil
}

func (r *fakeDownloadRepo) List(ctx context.Context, filter models.DownloadFilter) ([]models.Download, error) {
	r.lastQuery = filter
	return r.listed, nil
}

func (r *fakeDownloadRepo) ListForStats(ctx context.Context, campaignID *int64) ([]models.Download, error) {
	return r.listed, nil
}

func (r *fakeDownloadRepo) Analytics(ctx context.Context) ([]models.CampaignAnalytics, error) {
	return nil, errors.New("not implemented")
}

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings map[string]models.AdminSetting
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: map[string]models.AdminSetting{}}
}

func (r *fakeSettingsRepo) Get(ctx context.Context, key string) (*models.AdminSetting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.settings[key]
	if !ok {
		return nil, fmt.Errorf("setting %q: %w", key, repository.ErrNotFound)
	}
	return &s, nil
}

func (r *fakeSettingsRepo) List(ctx context.Context) ([]models.AdminSetting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.AdminSetting
	for _, s := range r.settings {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *fakeSettingsRepo) Upsert(ctx context.Context, key, value string) (*models.AdminSetting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := models.AdminSetting{Key: key, Value: value, UpdatedAt: time.Now()}
	r.settings[key] = s
	return &s, nil
}

// testPNG encodes a w x h image filled with c
func testPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}
