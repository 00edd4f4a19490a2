package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", ":9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/twibbon")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.ListenAddr() != "0.0.0.0:9090" {
		t.Fatalf("ListenAddr = %q", cfg.ListenAddr())
	}
	if cfg.StorageType != StorageLocal || cfg.MaxUploadBytes() != 10<<20 {
		t.Fatalf("storage = %q, upload = %d", cfg.StorageType, cfg.MaxUploadBytes())
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Fatalf("origins = %v", cfg.AllowedOrigins)
	}
	dsn, err := cfg.DSN()
	if err != nil || dsn != "postgres://localhost/twibbon" {
		t.Fatalf("DSN = %q, %v", dsn, err)
	}
}

func TestDSNFromParts(t *testing.T) {
	cfg := &Config{DBHost: "db", DBPort: "5432", DBUser: "app", DBPassword: "pw", DBName: "twibbon", DBSSLMode: "disable"}
	dsn, err := cfg.DSN()
	if err != nil {
		t.Fatalf("DSN: %v", err)
	}
	if dsn != "host=db port=5432 user=app password=pw dbname=twibbon sslmode=disable" {
		t.Fatalf("DSN = %q", dsn)
	}
	if _, err := (&Config{}).DSN(); err == nil {
		t.Fatal("expected error without database settings")
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{"local", Config{StorageType: StorageLocal, MaxUploadMB: 5}, true},
		{"drive without credentials", Config{StorageType: StorageDrive, MaxUploadMB: 5}, false},
		{"s3 without bucket", Config{StorageType: StorageS3, MaxUploadMB: 5}, false},
		{"unknown storage", Config{StorageType: "ftp", MaxUploadMB: 5}, false},
		{"production without secret", Config{Env: "production", StorageType: StorageLocal, MaxUploadMB: 5}, false},
	}
	for _, tc := range cases {
		err := tc.cfg.Validate()
		if (err == nil) != tc.ok {
			t.Errorf("%s: err = %v", tc.name, err)
		}
	}
}

func TestPublicURL(t *testing.T) {
	cfg := &Config{BaseURL: "https://twibbon.example/"}
	if got := cfg.PublicURL("/c/hari-guru"); got != "https://twibbon.example/c/hari-guru" {
		t.Fatalf("PublicURL = %q", got)
	}
}
