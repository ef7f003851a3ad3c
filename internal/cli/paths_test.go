package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	oldXdg := os.Getenv("XDG_CACHE_HOME")
	os.Unsetenv("XDG_CACHE_HOME")
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CACHE_HOME", oldXdg)
		}
	}()

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	want := filepath.Join(home, ".cache", appName)
	if dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	customCache := "/tmp/custom-cache"
	oldXdg := os.Getenv("XDG_CACHE_HOME")
	os.Setenv("XDG_CACHE_HOME", customCache)
	defer func() {
		if oldXdg != "" {
			os.Setenv("XDG_CACHE_HOME", oldXdg)
		} else {
			os.Unsetenv("XDG_CACHE_HOME")
		}
	}()

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	want := filepath.Join(customCache, appName)
	if dir != want {
		t.Errorf("cacheDir() with XDG_CACHE_HOME = %q, want %q", dir, want)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"derive from input", "", "snippet.cpp", "snippet"},
		{"stdin input", "", "-", "diagram"},
		{"output without extension", "out/diagram", "snippet.cpp", "out/diagram"},
		{"output with format extension", "diagram.svg", "snippet.cpp", "diagram"},
		{"output with other extension", "diagram.bak", "snippet.cpp", "diagram.bak"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input); got != tt.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormats(t *testing.T) {
	if got := parseFormats(""); got != nil {
		t.Errorf("parseFormats(\"\") = %v, want nil", got)
	}
	got := parseFormats("svg,json,dot")
	if len(got) != 3 || got[1] != "json" {
		t.Errorf("parseFormats = %v", got)
	}
}

func TestClearCacheDir(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "ab")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	for _, p := range []string{filepath.Join(sub, "entry"), filepath.Join(dir, "top")} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	n, err := clearCacheDir(dir)
	if err != nil {
		t.Fatalf("clearCacheDir: %v", err)
	}
	if n != 2 {
		t.Errorf("removed %d entries, want 2", n)
	}
	if _, err := os.Stat(sub); !os.IsNotExist(err) {
		t.Error("emptied subdirectory should be pruned")
	}

	n, err = clearCacheDir(filepath.Join(dir, "missing"))
	if err != nil || n != 0 {
		t.Errorf("missing dir: n = %d, err = %v, want 0, nil", n, err)
	}
}

func TestExampleByName(t *testing.T) {
	ex, ok := exampleByName("chain")
	if !ok {
		t.Fatal("chain example should exist")
	}
	if !strings.Contains(ex.Source, "int**") {
		t.Errorf("chain example should declare a pointer-to-pointer, got %q", ex.Source)
	}

	if _, ok := exampleByName("nope"); ok {
		t.Error("unknown example should not be found")
	}
}
