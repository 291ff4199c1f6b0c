package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/multierr"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test normal map defaults
	if cfg.NormalMap.Size != 256 {
		t.Errorf("expected normal map size 256, got %d", cfg.NormalMap.Size)
	}
	if cfg.NormalMap.Format != "png" {
		t.Errorf("expected format 'png', got %s", cfg.NormalMap.Format)
	}

	// Test batch defaults
	if cfg.Batch.ChunkSize != 50 {
		t.Errorf("expected chunk size 50, got %d", cfg.Batch.ChunkSize)
	}
	if cfg.Batch.Workers != 0 {
		t.Errorf("expected workers 0, got %d", cfg.Batch.Workers)
	}

	// Test pool defaults
	if cfg.Pool.Profile != "global-geodetic" {
		t.Errorf("expected profile 'global-geodetic', got %s", cfg.Pool.Profile)
	}
	if cfg.Pool.TileSize != 257 {
		t.Errorf("expected tile size 257, got %d", cfg.Pool.TileSize)
	}
	if cfg.Pool.WorkingSetSize != 32 {
		t.Errorf("expected working set size 32, got %d", cfg.Pool.WorkingSetSize)
	}
	if cfg.Pool.MaxLOD != 19 {
		t.Errorf("expected max LOD 19, got %d", cfg.Pool.MaxLOD)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
normal_map:
  size: 512
  format: tiff
batch:
  chunk_size: 100
  workers: 4
pool:
  profile: spherical-mercator
data:
  hgt_paths:
    - /data/N46E007.hgt
  tiff_layers:
    - path: /data/dem.tif
      srs: epsg:4326
      extent: [7, 46, 8, 47]
      scale: 0.5
logging:
  level: debug
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.NormalMap.Size != 512 {
		t.Errorf("expected size 512, got %d", cfg.NormalMap.Size)
	}
	if cfg.NormalMap.Format != "tiff" {
		t.Errorf("expected format 'tiff', got %s", cfg.NormalMap.Format)
	}
	if cfg.Batch.ChunkSize != 100 || cfg.Batch.Workers != 4 {
		t.Errorf("expected batch 100/4, got %d/%d", cfg.Batch.ChunkSize, cfg.Batch.Workers)
	}
	if cfg.Pool.Profile != "spherical-mercator" {
		t.Errorf("expected profile 'spherical-mercator', got %s", cfg.Pool.Profile)
	}
	if len(cfg.Data.HGTPaths) != 1 || cfg.Data.HGTPaths[0] != "/data/N46E007.hgt" {
		t.Errorf("unexpected hgt paths %v", cfg.Data.HGTPaths)
	}
	if len(cfg.Data.TIFFLayers) != 1 {
		t.Fatalf("expected 1 tiff layer, got %d", len(cfg.Data.TIFFLayers))
	}
	layer := cfg.Data.TIFFLayers[0]
	if layer.Extent != [4]float64{7, 46, 8, 47} || layer.Scale != 0.5 {
		t.Errorf("unexpected tiff layer %+v", layer)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}

	// Values not in file keep their defaults
	if cfg.Pool.TileSize != 257 {
		t.Errorf("expected default tile size 257, got %d", cfg.Pool.TileSize)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("expected loaded config to validate, got %v", err)
	}
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	if err := os.WriteFile(configPath, []byte("invalid: yaml: content:"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadFromFile_UnknownKey(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "unknown.yaml")

	if err := os.WriteFile(configPath, []byte("normal_map:\n  sise: 128\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestLoadFromFile_MissingFile(t *testing.T) {
	cfg := Default()
	if err := loadFromFile(cfg, "/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.NormalMap.Size = 1
	cfg.NormalMap.Format = "jpeg"
	cfg.Batch.ChunkSize = 0
	cfg.Pool.Profile = "cube"
	cfg.Logging.Level = "verbose"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if got := len(multierr.Errors(err)); got != 5 {
		t.Errorf("expected 5 errors, got %d: %v", got, err)
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate_TIFFLayer(t *testing.T) {
	tests := []struct {
		name  string
		layer TIFFLayerConfig
		valid bool
	}{
		{"valid", TIFFLayerConfig{Path: "a.tif", SRS: "wgs84", Extent: [4]float64{0, 0, 1, 1}}, true},
		{"missing path", TIFFLayerConfig{SRS: "wgs84", Extent: [4]float64{0, 0, 1, 1}}, false},
		{"unknown srs", TIFFLayerConfig{Path: "a.tif", SRS: "epsg:0", Extent: [4]float64{0, 0, 1, 1}}, false},
		{"empty extent", TIFFLayerConfig{Path: "a.tif", SRS: "wgs84", Extent: [4]float64{1, 0, 1, 1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.Data.TIFFLayers = []TIFFLayerConfig{tt.layer}
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestPoolOptions(t *testing.T) {
	cfg := Default()
	opts, err := cfg.Pool.Options(3, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Profile == nil || opts.Profile.Name() != "global-geodetic" {
		t.Errorf("expected global-geodetic profile, got %v", opts.Profile)
	}
	if opts.TileSize != 257 || opts.MaxLOD != 19 || opts.Workers != 3 {
		t.Errorf("unexpected options %+v", opts)
	}

	cfg.Pool.Profile = "cube"
	if _, err := cfg.Pool.Options(0, nil); err == nil {
		t.Error("expected error for unknown profile")
	}
}

func TestBatchOptions(t *testing.T) {
	b := BatchConfig{ChunkSize: 10, Workers: 2}
	opts := b.BatchOptions()
	if opts.Grain != 10 || opts.Workers != 2 {
		t.Errorf("expected 10/2, got %d/%d", opts.Grain, opts.Workers)
	}
}

func TestGeoExtent(t *testing.T) {
	l := TIFFLayerConfig{SRS: "epsg:4326", Extent: [4]float64{7, 46, 8, 47}}
	e, err := l.GeoExtent()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e.XMin() != 7 || e.YMax() != 47 {
		t.Errorf("unexpected extent %v", e)
	}

	l.SRS = "nowhere"
	if _, err := l.GeoExtent(); err == nil {
		t.Error("expected error for unknown SRS")
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.NormalMap.Size = 128
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if loaded.NormalMap.Size != 128 {
		t.Errorf("expected size 128, got %d", loaded.NormalMap.Size)
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()
	if dir == "" {
		t.Error("expected non-empty config dir")
	}
	if filepath.Base(dir) != "terraintool" {
		t.Errorf("expected dir to end with 'terraintool', got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current dir and change to temp dir
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("failed to get working dir: %v", err)
	}
	tmpDir := t.TempDir()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("failed to change dir: %v", err)
	}
	defer os.Chdir(origDir)

	// Keep the user's real config out of the search
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "xdg"))
	t.Setenv("HOME", filepath.Join(tmpDir, "home"))

	// No config file should return empty
	if path := findConfigFile(); path != "" {
		t.Errorf("expected empty path, got %s", path)
	}

	// Create local config
	if err := os.WriteFile("terraintool.yaml", []byte("logging:\n  level: debug"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	path := findConfigFile()
	if path != "./terraintool.yaml" {
		t.Errorf("expected ./terraintool.yaml, got %s", path)
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*testing.T, *Config)
		teardown func()
	}{
		{
			name: "debug flag sets level",
			setup: func() {
				*flagDebug = true
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "size flag overrides",
			setup: func() {
				*flagSize = 64
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.NormalMap.Size != 64 {
					t.Errorf("expected size 64, got %d", cfg.NormalMap.Size)
				}
			},
			teardown: func() {
				*flagSize = 0
			},
		},
		{
			name: "zero workers is an explicit choice",
			setup: func() {
				*flagWorkers = 0
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Batch.Workers != 0 {
					t.Errorf("expected workers 0, got %d", cfg.Batch.Workers)
				}
			},
			teardown: func() {
				*flagWorkers = -1
			},
		},
		{
			name:  "unset flags keep config",
			setup: func() {},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Batch.Workers != 7 {
					t.Errorf("expected workers 7, got %d", cfg.Batch.Workers)
				}
				if cfg.Pool.Profile != "global-geodetic" {
					t.Errorf("expected profile unchanged, got %s", cfg.Pool.Profile)
				}
			},
			teardown: func() {},
		},
		{
			name: "profile and chunk size",
			setup: func() {
				*flagProfile = "spherical-mercator"
				*flagChunkSize = 200
			},
			verify: func(t *testing.T, cfg *Config) {
				if cfg.Pool.Profile != "spherical-mercator" {
					t.Errorf("expected spherical-mercator, got %s", cfg.Pool.Profile)
				}
				if cfg.Batch.ChunkSize != 200 {
					t.Errorf("expected chunk size 200, got %d", cfg.Batch.ChunkSize)
				}
			},
			teardown: func() {
				*flagProfile = ""
				*flagChunkSize = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()
			defer tt.teardown()

			cfg := Default()
			cfg.Batch.Workers = 7
			applyFlags(cfg)
			tt.verify(t, cfg)
		})
	}
}
