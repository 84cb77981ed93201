package gobe

import (
	"strings"
	"testing"
)

func TestExtractSourceInfo(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want SourceInfo
	}{
		{
			name: "namespace with entry method",
			src: `package App

type Program struct{}

func (self Program) Main() {}
`,
			want: SourceInfo{
				Namespace: "App", MainClass: "Program",
				Classes: []string{"Program"}, HasMain: true, MainIsMethod: true,
			},
		},
		{
			name: "default package maps to empty namespace",
			src: `package main

type Foo struct{}
`,
			want: SourceInfo{MainClass: "Foo", Classes: []string{"Foo"}},
		},
		{
			name: "no types and no entry",
			src: `package util

func helper() {}
`,
			want: SourceInfo{Namespace: "util"},
		},
		{
			name: "bare entry function",
			src: `package main

func Main() {}
`,
			want: SourceInfo{HasMain: true},
		},
		{
			name: "entry with argument slice",
			src: `package App

type Program struct{}

func (self Program) Main(args []string) {}
`,
			want: SourceInfo{
				Namespace: "App", MainClass: "Program",
				Classes: []string{"Program"}, HasMain: true,
				MainIsMethod: true, MainTakesArgs: true,
			},
		},
		{
			name: "pointer receiver still counts",
			src: `package App

type Server struct{}

func (s *Server) Main() {}
`,
			want: SourceInfo{
				Namespace: "App", MainClass: "Server",
				Classes: []string{"Server"}, HasMain: true, MainIsMethod: true,
			},
		},
		{
			name: "entry on later type wins over first type",
			src: `package App

type Helper struct{}

type Runner struct{}

func (r Runner) Main() {}
`,
			want: SourceInfo{
				Namespace: "App", MainClass: "Runner",
				Classes: []string{"Helper", "Runner"}, HasMain: true, MainIsMethod: true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractSourceInfo(tt.src)
			if err != nil {
				t.Fatalf("ExtractSourceInfo: %v", err)
			}
			if got.Namespace != tt.want.Namespace {
				t.Errorf("Namespace = %q, want %q", got.Namespace, tt.want.Namespace)
			}
			if got.MainClass != tt.want.MainClass {
				t.Errorf("MainClass = %q, want %q", got.MainClass, tt.want.MainClass)
			}
			if strings.Join(got.Classes, ",") != strings.Join(tt.want.Classes, ",") {
				t.Errorf("Classes = %v, want %v", got.Classes, tt.want.Classes)
			}
			if got.HasMain != tt.want.HasMain {
				t.Errorf("HasMain = %v, want %v", got.HasMain, tt.want.HasMain)
			}
			if got.MainIsMethod != tt.want.MainIsMethod {
				t.Errorf("MainIsMethod = %v, want %v", got.MainIsMethod, tt.want.MainIsMethod)
			}
			if got.MainTakesArgs != tt.want.MainTakesArgs {
				t.Errorf("MainTakesArgs = %v, want %v", got.MainTakesArgs, tt.want.MainTakesArgs)
			}
		})
	}
}

func TestExtractSourceInfoRejectsUnparsableSource(t *testing.T) {
	if _, err := ExtractSourceInfo("not go source"); err == nil {
		t.Error("Expected an error for unparsable source")
	}
}

func TestQualifiedEntryName(t *testing.T) {
	tests := []struct {
		name          string
		info          SourceInfo
		nsOverride    string
		classOverride string
		want          string
	}{
		{"from source", SourceInfo{Namespace: "App", MainClass: "Program"}, "", "", "App.Program"},
		{"namespace override wins", SourceInfo{Namespace: "App", MainClass: "Program"}, "Tools", "", "Tools.Program"},
		{"class override wins", SourceInfo{Namespace: "App", MainClass: "Program"}, "", "Runner", "App.Runner"},
		{"default class fallback", SourceInfo{Namespace: "App"}, "", "", "App.Program"},
		{"no namespace", SourceInfo{MainClass: "Foo"}, "", "", "Foo"},
		{"everything defaulted", SourceInfo{}, "", "", "Program"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QualifiedEntryName(&tt.info, tt.nsOverride, tt.classOverride)
			if got != tt.want {
				t.Errorf("QualifiedEntryName = %q, want %q", got, tt.want)
			}
		})
	}
}
