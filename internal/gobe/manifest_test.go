package gobe

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRuntimeVersionTriple(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"go1.22.4", "1.22.4"},
		{"go1.22", "1.22.0"},
		{"go1.22rc1", "1.22.0"},
		{"go1.23.1 X:rangefunc", "1.23.1"},
		{"devel", "0.0.0"},
	}
	for _, tt := range tests {
		if got := runtimeVersionTriple(tt.in); got != tt.want {
			t.Errorf("runtimeVersionTriple(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewRuntimeManifest(t *testing.T) {
	m := NewRuntimeManifest()
	opts := m.RuntimeOptions

	if strings.Count(opts.RuntimeVersion, ".") != 2 {
		t.Errorf("RuntimeVersion must be a triple, got %q", opts.RuntimeVersion)
	}
	if opts.Framework.Name != "go" {
		t.Errorf("Framework.Name = %q, want go", opts.Framework.Name)
	}
	if !strings.HasPrefix(opts.RuntimeVersion, opts.Framework.Version+".") {
		t.Errorf("Framework.Version %q must be the major.minor of %q",
			opts.Framework.Version, opts.RuntimeVersion)
	}
	if opts.EnableUnsafeSerialization {
		t.Error("EnableUnsafeSerialization must stay off")
	}
}

func TestManifestPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"build/app.bin", "build/app.runtimeconfig.json"},
		{"app.a", "app.runtimeconfig.json"},
		{"noext", "noext.runtimeconfig.json"},
	}
	for _, tt := range tests {
		if got := ManifestPath(tt.in); got != tt.want {
			t.Errorf("ManifestPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteRuntimeManifest(t *testing.T) {
	dir := t.TempDir()
	artifact := filepath.Join(dir, "app.bin")

	if err := WriteRuntimeManifest(artifact); err != nil {
		t.Fatalf("WriteRuntimeManifest: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "app.runtimeconfig.json"))
	if err != nil {
		t.Fatalf("Reading manifest: %v", err)
	}
	var m RuntimeManifest
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Manifest is not valid JSON: %v", err)
	}
	if m.RuntimeOptions.Framework.Name != "go" {
		t.Errorf("Round-tripped manifest lost its framework: %+v", m)
	}
}

func TestMarkExecutable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.bin")
	if err := os.WriteFile(path, []byte("artifact"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := markExecutable(path); err != nil {
		t.Fatalf("markExecutable: %v", err)
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if fi.Mode().Perm()&0o700 != 0o700 {
		t.Errorf("Expected owner rwx bits, got %v", fi.Mode().Perm())
	}
	if fi.Mode().Perm()&0o044 != 0o044 {
		t.Errorf("Pre-existing read bits must be preserved, got %v", fi.Mode().Perm())
	}
}

func TestOutputKind(t *testing.T) {
	tests := []struct {
		in   string
		want OutputKind
	}{
		{"Library", Library},
		{"library", Library},
		{"LIBRARY", Library},
		{"Exe", Exe},
		{"exe", Exe},
		{"", Exe},
		{"anything-else", Exe},
	}
	for _, tt := range tests {
		if got := ParseOutputKind(tt.in); got != tt.want {
			t.Errorf("ParseOutputKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}

	if Exe.extension() != ".bin" || Library.extension() != ".a" {
		t.Errorf("Unexpected artifact extensions: %q %q", Exe.extension(), Library.extension())
	}
	if Exe.String() != "Exe" || Library.String() != "Library" {
		t.Errorf("Unexpected kind names: %q %q", Exe.String(), Library.String())
	}
}
