package gobe

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// manifestSuffix replaces the artifact's extension to name its companion
// runtime manifest.
const manifestSuffix = ".runtimeconfig.json"

// RuntimeManifest is the self-describing document emitted alongside every
// executable artifact, telling a host which runtime it requires.
type RuntimeManifest struct {
	RuntimeOptions RuntimeOptions `json:"runtimeOptions"`
}

// RuntimeOptions records the runtime version triple, the required host
// framework, and the fixed flag keeping legacy unsafe deserialization off.
type RuntimeOptions struct {
	RuntimeVersion            string    `json:"runtimeVersion"`
	Framework                 Framework `json:"framework"`
	EnableUnsafeSerialization bool      `json:"enableUnsafeSerialization"`
}

// Framework names the required host framework and its major.minor version.
type Framework struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// NewRuntimeManifest builds the manifest for the current host runtime.
func NewRuntimeManifest() RuntimeManifest {
	triple := runtimeVersionTriple(runtime.Version())
	parts := strings.Split(triple, ".")
	return RuntimeManifest{
		RuntimeOptions: RuntimeOptions{
			RuntimeVersion: triple,
			Framework: Framework{
				Name:    "go",
				Version: parts[0] + "." + parts[1],
			},
			EnableUnsafeSerialization: false,
		},
	}
}

// runtimeVersionTriple normalizes a runtime version string ("go1.22.4",
// "go1.22") into a major.minor.patch triple.
func runtimeVersionTriple(v string) string {
	v = strings.TrimPrefix(v, "go")
	parts := strings.SplitN(v, ".", 3)
	for len(parts) < 3 {
		parts = append(parts, "0")
	}
	for i, p := range parts {
		trimmed := ""
		for _, r := range p {
			if r < '0' || r > '9' {
				break
			}
			trimmed += string(r)
		}
		if trimmed == "" {
			trimmed = "0"
		}
		parts[i] = trimmed
	}
	return strings.Join(parts[:3], ".")
}

// ManifestPath names the manifest sitting alongside an artifact.
func ManifestPath(artifactPath string) string {
	ext := filepath.Ext(artifactPath)
	return strings.TrimSuffix(artifactPath, ext) + manifestSuffix
}

// WriteRuntimeManifest emits the runtime manifest next to the artifact.
func WriteRuntimeManifest(artifactPath string) error {
	data, err := json.MarshalIndent(NewRuntimeManifest(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding runtime manifest: %w", err)
	}
	path := ManifestPath(artifactPath)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing runtime manifest: %w", err)
	}
	return nil
}

// markExecutable sets the owner read/write/execute bits on non-Windows
// platforms. Windows derives executability from the extension.
func markExecutable(path string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	fi, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.Chmod(path, fi.Mode().Perm()|0o700)
}
