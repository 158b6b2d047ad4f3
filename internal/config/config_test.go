package config

import (
	"path/filepath"
	"testing"
)

func testConfigPath(t *testing.T) string {
	t.Helper()

	projectRoot, err := filepath.Abs("../../")
	if err != nil {
		t.Fatalf("failed to get project root: %v", err)
	}

	return filepath.Join(projectRoot, "etc") + string(filepath.Separator)
}

func TestReadConfig(t *testing.T) {
	cfg, err := ReadConfig(testConfigPath(t))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.Title == "" {
		t.Error("Config.Title should not be empty")
	}

	if cfg.Webserver.Port == 0 {
		t.Error("Webserver.Port should not be 0")
	}

	if cfg.Webserver.URL == "" {
		t.Error("Webserver.URL should not be empty")
	}

	if cfg.DB.Host == "" {
		t.Error("DB.Host should not be empty")
	}

	if cfg.DB.Engine != EngineMySQL {
		t.Errorf("DB.Engine = %q, want %q", cfg.DB.Engine, EngineMySQL)
	}

	if cfg.Media.Root == "" {
		t.Error("Media.Root should not be empty")
	}
}

func TestJSONOverride(t *testing.T) {
	t.Setenv("DYNAMIC_WEBSITE_CONFIG_JSON", `{"Title":"Overridden","DB":{"Engine":"sqlite"}}`)

	cfg, err := ReadConfig(testConfigPath(t))
	if err != nil {
		t.Fatalf("ReadConfig() error = %v", err)
	}

	if cfg.Title != "Overridden" {
		t.Errorf("Title = %q, want %q", cfg.Title, "Overridden")
	}

	if cfg.DB.Engine != EngineSQLite {
		t.Errorf("DB.Engine = %q, want %q", cfg.DB.Engine, EngineSQLite)
	}
}

func TestConfigValidation(t *testing.T) {
	valid := func() Config {
		return Config{
			Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
			Media:     Media{Root: "./storage/uploads"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "valid config",
			mutate: func(_ *Config) {},
		},
		{
			name:    "zero port",
			mutate:  func(c *Config) { c.Webserver.Port = 0 },
			wantErr: ErrWebServerPortCanNotBeZero,
		},
		{
			name:    "empty url",
			mutate:  func(c *Config) { c.Webserver.URL = "" },
			wantErr: ErrEmptyURL,
		},
		{
			name:    "unknown engine",
			mutate:  func(c *Config) { c.DB.Engine = "oracle" },
			wantErr: ErrUnknownDBEngine,
		},
		{
			name:    "empty media root",
			mutate:  func(c *Config) { c.Media.Root = "" },
			wantErr: ErrEmptyMediaRoot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := validate(&cfg)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("validate() error = %v, want nil", err)
				}

				return
			}

			if err == nil {
				t.Fatalf("validate() error = nil, want %v", tt.wantErr)
			}
		})
	}
}

func TestValidationDefaults(t *testing.T) {
	cfg := Config{
		Webserver: Webserver{Port: 8080, URL: "http://localhost:8080"},
		Media:     Media{Root: "./storage/uploads"},
	}

	if err := validate(&cfg); err != nil {
		t.Fatalf("validate() error = %v", err)
	}

	if cfg.DB.Engine != EngineMySQL {
		t.Errorf("default DB.Engine = %q, want %q", cfg.DB.Engine, EngineMySQL)
	}

	if cfg.Webserver.ShutDownTime != 5 {
		t.Errorf("default ShutDownTime = %d, want 5", cfg.Webserver.ShutDownTime)
	}

	if cfg.Media.MaxUploadSize != defaultMaxUploadSize {
		t.Errorf("default MaxUploadSize = %d, want %d", cfg.Media.MaxUploadSize, defaultMaxUploadSize)
	}

	if cfg.Security.MaxFailedAttempts != defaultMaxFailedAttempts {
		t.Errorf("default MaxFailedAttempts = %d, want %d", cfg.Security.MaxFailedAttempts, defaultMaxFailedAttempts)
	}
}
