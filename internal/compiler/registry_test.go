package compiler

import (
	"strings"
	"testing"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		target string
		name   string
		ext    string
	}{
		{"js", "javascript", ".js"},
		{"javascript", "javascript", ".js"},
		{"go", "go", ".go"},
		{"native", "go", ".go"},
	}

	for _, tt := range tests {
		be, err := Lookup(tt.target)
		if err != nil {
			t.Fatalf("Lookup(%q): %v", tt.target, err)
		}
		if be.TargetName() != tt.name {
			t.Errorf("Lookup(%q).TargetName() = %q, want %q", tt.target, be.TargetName(), tt.name)
		}
		if be.FileExtension() != tt.ext {
			t.Errorf("Lookup(%q).FileExtension() = %q, want %q", tt.target, be.FileExtension(), tt.ext)
		}
	}
}

func TestLookupUnknownTarget(t *testing.T) {
	_, err := Lookup("cobol")
	if err == nil {
		t.Fatal("Expected an error for an unknown target")
	}
	if !strings.Contains(err.Error(), "unknown target") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestLookupReturnsFreshInstances(t *testing.T) {
	a, _ := Lookup("js")
	b, _ := Lookup("js")
	if a == b {
		t.Error("Backends must not be shared between lookups")
	}
}

func TestTargets(t *testing.T) {
	targets := Targets()
	if len(targets) != 2 {
		t.Fatalf("Expected 2 targets, got %v", targets)
	}
	for i := 1; i < len(targets); i++ {
		if targets[i-1] > targets[i] {
			t.Errorf("Targets must be sorted, got %v", targets)
		}
	}
}
