package startup

import (
	"net/http"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gorilla/mux"
)

func TestGetBuildInfo(t *testing.T) {
	info := GetBuildInfo()

	if info.Version == "" {
		t.Error("Expected Version to be set")
	}
	if info.GoVersion != GoVersion {
		t.Errorf("Expected GoVersion=%s, got %s", GoVersion, info.GoVersion)
	}
	if info.OS != runtime.GOOS {
		t.Errorf("Expected OS=%s, got %s", runtime.GOOS, info.OS)
	}
	if info.Arch != runtime.GOARCH {
		t.Errorf("Expected Arch=%s, got %s", runtime.GOARCH, info.Arch)
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		want         string
		setEnv       bool
	}{
		{
			name:         "Returns default when env var not set",
			key:          "TEST_MP4_UNSET_VAR",
			defaultValue: "default",
			want:         "default",
		},
		{
			name:         "Returns env value when set",
			key:          "TEST_MP4_SET_VAR",
			defaultValue: "default",
			envValue:     "custom",
			want:         "custom",
			setEnv:       true,
		},
		{
			name:         "Returns default when env var is empty",
			key:          "TEST_MP4_EMPTY_VAR",
			defaultValue: "default",
			envValue:     "",
			want:         "default",
			setEnv:       true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.setEnv {
				t.Setenv(tt.key, tt.envValue)
			} else {
				os.Unsetenv(tt.key)
			}

			if got := getEnv(tt.key, tt.defaultValue); got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name         string
		value        string
		defaultValue bool
		want         bool
	}{
		{"empty uses default true", "", true, true},
		{"empty uses default false", "", false, false},
		{"true", "true", false, true},
		{"1", "1", false, true},
		{"false", "false", true, false},
		{"0", "0", true, false},
		{"invalid falls back", "maybe", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_MP4_BOOL", tt.value)
			if got := getEnvBool("TEST_MP4_BOOL", tt.defaultValue); got != tt.want {
				t.Errorf("getEnvBool(%q, %v) = %v, want %v", tt.value, tt.defaultValue, got, tt.want)
			}
		})
	}
}

func TestGetEnvBytes(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    int64
		wantErr bool
	}{
		{"unset uses default", "", DefaultMaxUploadSize, false},
		{"plain bytes", "1024", 1024, false},
		{"SI megabytes", "100MB", 100 * 1000 * 1000, false},
		{"IEC mebibytes", "100MiB", 100 * 1024 * 1024, false},
		{"gigabytes lowercase", "2gib", 2 * 1024 * 1024 * 1024, false},
		{"zero rejected", "0", 0, true},
		{"garbage rejected", "lots", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_MP4_BYTES", tt.value)
			got, err := getEnvBytes("TEST_MP4_BYTES", DefaultMaxUploadSize)
			if (err != nil) != tt.wantErr {
				t.Fatalf("getEnvBytes(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("getEnvBytes(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}

func TestConfigFromEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "METRICS_PORT", "METRICS_ENABLED", "SCRATCH_DIR", "MAX_UPLOAD_SIZE",
		"FFMPEG_PATH", "FFPROBE_PATH", "STATIC_DIR", "LOG_STATIC_FILES", "LOG_HEALTH_CHECKS",
		"CONVERSION_WORKERS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := configFromEnv()
	if err != nil {
		t.Fatalf("configFromEnv() error = %v", err)
	}

	if cfg.Port != "3000" {
		t.Errorf("Port = %q, want 3000", cfg.Port)
	}
	if cfg.MetricsPort != "9090" {
		t.Errorf("MetricsPort = %q, want 9090", cfg.MetricsPort)
	}
	if !cfg.MetricsEnabled {
		t.Error("MetricsEnabled should default to true")
	}
	if cfg.MaxUploadSize != DefaultMaxUploadSize {
		t.Errorf("MaxUploadSize = %d, want %d", cfg.MaxUploadSize, DefaultMaxUploadSize)
	}
	if cfg.FFmpegPath != "ffmpeg" || cfg.FFprobePath != "ffprobe" {
		t.Errorf("engine paths = %q, %q", cfg.FFmpegPath, cfg.FFprobePath)
	}
	if want := filepath.Join(os.TempDir(), "mp4-converter"); cfg.ScratchDir != want {
		t.Errorf("ScratchDir = %q, want %q", cfg.ScratchDir, want)
	}
	if !filepath.IsAbs(cfg.StaticDir) {
		t.Errorf("StaticDir should be absolute, got %q", cfg.StaticDir)
	}
	if cfg.MaxConcurrent < 1 {
		t.Errorf("MaxConcurrent = %d, want at least 1", cfg.MaxConcurrent)
	}
	if !cfg.LogHealthChecks || cfg.LogStaticFiles {
		t.Errorf("unexpected logging flags: health=%v static=%v", cfg.LogHealthChecks, cfg.LogStaticFiles)
	}
}

func TestConfigFromEnvConversionWorkers(t *testing.T) {
	t.Setenv("CONVERSION_WORKERS", "3")
	cfg, err := configFromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MaxConcurrent != 3 {
		t.Errorf("MaxConcurrent = %d, want 3", cfg.MaxConcurrent)
	}
}

func TestConfigFromEnvInvalidUploadSize(t *testing.T) {
	t.Setenv("MAX_UPLOAD_SIZE", "huge")
	if _, err := configFromEnv(); err == nil {
		t.Error("expected error for invalid MAX_UPLOAD_SIZE")
	}
}

func TestLoadConfigCreatesScratchDir(t *testing.T) {
	root := t.TempDir()
	scratch := filepath.Join(root, "nested", "scratch")
	t.Setenv("SCRATCH_DIR", scratch)
	t.Setenv("STATIC_DIR", root)
	t.Setenv("MAX_UPLOAD_SIZE", "5MB")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if info, err := os.Stat(scratch); err != nil || !info.IsDir() {
		t.Fatalf("scratch dir not created: %v", err)
	}
	if !cfg.StaticEnabled {
		t.Error("StaticEnabled should be true for an existing directory")
	}
	if cfg.MaxUploadSize != 5_000_000 {
		t.Errorf("MaxUploadSize = %d, want 5000000", cfg.MaxUploadSize)
	}
	entries, err := os.ReadDir(scratch)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("write test file should be removed, found %d entries", len(entries))
	}
}

func TestLoadConfigScratchIsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SCRATCH_DIR", file)

	if _, err := LoadConfig(); err == nil {
		t.Error("expected error when SCRATCH_DIR is a file")
	}
}

func TestEnsureDirectory(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := ensureDirectory(dir, "test"); err != nil {
		t.Fatalf("ensureDirectory() error = %v", err)
	}
	// Second call sees the existing directory
	if err := ensureDirectory(dir, "test"); err != nil {
		t.Fatalf("ensureDirectory() on existing dir error = %v", err)
	}
}

func TestCheckWriteAccess(t *testing.T) {
	t.Parallel()

	if err := CheckWriteAccess(t.TempDir()); err != nil {
		t.Errorf("CheckWriteAccess() error = %v", err)
	}
	if err := CheckWriteAccess(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestEnabledString(t *testing.T) {
	t.Parallel()

	if enabledString(true) != "ENABLED" || enabledString(false) != "DISABLED" {
		t.Error("unexpected enabledString output")
	}
}

func TestGetRoutes(t *testing.T) {
	t.Parallel()

	noop := func(http.ResponseWriter, *http.Request) {}
	r := mux.NewRouter()
	r.HandleFunc("/upload", noop).Methods(http.MethodPost, http.MethodOptions)
	r.HandleFunc("/progress/{jobId}", noop).Methods(http.MethodGet)

	routes, err := GetRoutes(r)
	if err != nil {
		t.Fatalf("GetRoutes() error = %v", err)
	}

	want := map[RouteInfo]bool{
		{Method: http.MethodPost, Path: "/upload"}:            false,
		{Method: http.MethodOptions, Path: "/upload"}:         false,
		{Method: http.MethodGet, Path: "/progress/{jobId}"}: false,
	}
	for _, route := range routes {
		if _, ok := want[route]; ok {
			want[route] = true
		}
	}
	for route, seen := range want {
		if !seen {
			t.Errorf("route %s %s not found in %v", route.Method, route.Path, routes)
		}
	}
}

func TestLogHelpersDoNotPanic(_ *testing.T) {
	LogTranscoderInit("ffmpeg-does-not-exist", nil)
	LogTranscoderInit("ffmpeg", os.ErrNotExist)
	LogSweep(0, 0, nil)
	LogSweep(3, 4096, nil)
	LogSweep(0, 0, os.ErrPermission)
	LogServerStarted(ServerConfig{Port: "3000", MetricsPort: "9090", MetricsEnabled: true})
	LogServerStarted(ServerConfig{Port: "3000"})
	LogShutdownInitiated("interrupt")
	LogShutdownStep("Stopping")
	LogShutdownStepComplete("Stopped")
	LogShutdownComplete()
	LogHTTPRoutes(mux.NewRouter(), false, true)
}
