package service

import (
	"context"
	"errors"
	"image/color"
	"testing"

	"twibbon-campaign/models"
	"twibbon-campaign/repository"
)

func TestCampaignCreate(t *testing.T) {
	repo := newFakeCampaignRepo()
	storage := newFakeStorage()
	svc := NewCampaignService(repo, storage, nil)

	req := &models.CreateCampaignRequest{Name: "  Wisuda 2024 ", Slug: "Wisuda 2024"}
	c, err := svc.Create(context.Background(), req, TemplateUpload{Data: testPNG(t, 10, 10, color.White)})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if c.Name != "Wisuda 2024" {
		t.Errorf("name = %q, want trimmed", c.Name)
	}
	if c.Slug != "wisuda-2024" {
		t.Errorf("slug = %q, want wisuda-2024", c.Slug)
	}
	if c.Type != models.CampaignTypePhoto {
		t.Errorf("type = %q, want photo default", c.Type)
	}
	if want := "fake:" + TemplateAssetName(c.ID); c.TemplateURL != want {
		t.Errorf("template url = %q, want %q", c.TemplateURL, want)
	}
}

func TestCampaignCreateValidation(t *testing.T) {
	svc := NewCampaignService(newFakeCampaignRepo(), newFakeStorage(), nil)
	img := testPNG(t, 4, 4, color.White)

	tests := []struct {
		name string
		req  models.CreateCampaignRequest
		data []byte
	}{
		{"missing name", models.CreateCampaignRequest{Slug: "a"}, img},
		{"missing slug", models.CreateCampaignRequest{Name: "A"}, img},
		{"bad type", models.CreateCampaignRequest{Name: "A", Slug: "a", Type: "video"}, img},
		{"missing template", models.CreateCampaignRequest{Name: "A", Slug: "a"}, nil},
		{"not an image", models.CreateCampaignRequest{Name: "A", Slug: "a"}, []byte("hello")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			_, err := svc.Create(context.Background(), &req, TemplateUpload{Data: tt.data})
			if !errors.Is(err, ErrInvalidCampaign) {
				t.Errorf("err = %v, want ErrInvalidCampaign", err)
			}
		})
	}
}

func TestCampaignCreateSlugConflict(t *testing.T) {
	svc := NewCampaignService(newFakeCampaignRepo(), newFakeStorage(), nil)
	img := testPNG(t, 4, 4, color.White)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &models.CreateCampaignRequest{Name: "A", Slug: "same"}, TemplateUpload{Data: img}); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	_, err := svc.Create(ctx, &models.CreateCampaignRequest{Name: "B", Slug: "same"}, TemplateUpload{Data: img})
	if !errors.Is(err, ErrSlugExists) {
		t.Fatalf("err = %v, want ErrSlugExists", err)
	}
}

func TestCampaignCreateRollsBackOnUploadFailure(t *testing.T) {
	repo := newFakeCampaignRepo()
	storage := newFakeStorage()
	storage.uploadErr = errors.New("quota exceeded")
	svc := NewCampaignService(repo, storage, nil)

	_, err := svc.Create(context.Background(), &models.CreateCampaignRequest{Name: "A", Slug: "a"}, TemplateUpload{Data: testPNG(t, 4, 4, color.White)})
	if err == nil {
		t.Fatal("expected an error")
	}
	if len(repo.campaigns) != 0 {
		t.Errorf("campaign row left behind after failed upload: %+v", repo.campaigns)
	}
}

func TestCampaignUpdate(t *testing.T) {
	repo := newFakeCampaignRepo()
	storage := newFakeStorage()
	cache, err := NewTemplateCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	svc := NewCampaignService(repo, storage, cache)
	ctx := context.Background()
	img := testPNG(t, 4, 4, color.White)

	a, _ := svc.Create(ctx, &models.CreateCampaignRequest{Name: "A", Slug: "a"}, TemplateUpload{Data: img})
	b, _ := svc.Create(ctx, &models.CreateCampaignRequest{Name: "B", Slug: "b"}, TemplateUpload{Data: img})

	t.Run("slug taken by another campaign", func(t *testing.T) {
		slug := "b"
		_, err := svc.Update(ctx, a.ID, &models.UpdateCampaignRequest{Slug: &slug}, nil)
		if !errors.Is(err, ErrSlugExists) {
			t.Errorf("err = %v, want ErrSlugExists", err)
		}
	})

	t.Run("own slug is allowed", func(t *testing.T) {
		slug, name := "B", "Renamed"
		got, err := svc.Update(ctx, b.ID, &models.UpdateCampaignRequest{Slug: &slug, Name: &name}, nil)
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if got.Slug != "b" || got.Name != "Renamed" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("empty name", func(t *testing.T) {
		name := "  "
		_, err := svc.Update(ctx, a.ID, &models.UpdateCampaignRequest{Name: &name}, nil)
		if !errors.Is(err, ErrInvalidCampaign) {
			t.Errorf("err = %v, want ErrInvalidCampaign", err)
		}
	})

	t.Run("template replacement purges cache", func(t *testing.T) {
		path := cache.Path(a.ID, SizeFull, a.UpdatedAt)
		if err := cache.Save(path, []byte("old")); err != nil {
			t.Fatal(err)
		}
		_, err := svc.Update(ctx, a.ID, &models.UpdateCampaignRequest{}, &TemplateUpload{Data: testPNG(t, 8, 8, color.Black)})
		if err != nil {
			t.Fatalf("Update: %v", err)
		}
		if _, ok := cache.Read(path); ok {
			t.Error("cached template still present after replacement")
		}
	})

	t.Run("unknown campaign", func(t *testing.T) {
		_, err := svc.Update(ctx, 999, &models.UpdateCampaignRequest{}, nil)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Errorf("err = %v, want ErrNotFound", err)
		}
	})
}

func TestCampaignToggleAndDelete(t *testing.T) {
	repo := newFakeCampaignRepo()
	storage := newFakeStorage()
	svc := NewCampaignService(repo, storage, nil)
	ctx := context.Background()

	c, err := svc.Create(ctx, &models.CreateCampaignRequest{Name: "A", Slug: "a"}, TemplateUpload{Data: testPNG(t, 4, 4, color.White)})
	if err != nil {
		t.Fatal(err)
	}

	toggled, err := svc.Toggle(ctx, c.ID)
	if err != nil {
		t.Fatalf("Toggle: %v", err)
	}
	if toggled.IsActive {
		t.Error("campaign still active after toggle")
	}
	if _, err := svc.GetBySlug(ctx, "a"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("inactive campaign served by slug: %v", err)
	}
	active, _ := svc.ListActive(ctx)
	if len(active) != 0 {
		t.Errorf("ListActive = %d campaigns, want 0", len(active))
	}

	if err := svc.Delete(ctx, c.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(storage.deleted) != 1 || storage.deleted[0] != c.TemplateURL {
		t.Errorf("deleted refs = %v, want [%s]", storage.deleted, c.TemplateURL)
	}
	if _, err := svc.GetByID(ctx, c.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}
