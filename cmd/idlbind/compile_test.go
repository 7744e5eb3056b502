package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/partite-ai/idlbind/config"
)

const geometry = `(namespace geometry "1.2.0"
  (function area (arg shape Shape) (returns f64)))
(dictionary Shape (field kind Kind required) (field label (optional string) (default null)))
(enum Kind Square Circle)
(callback-interface Listener (operation on_shape (arg shape Shape) (returns bool)))
(interface Backend (attr Delegate) (operation fetch (returns string)))
(interface Canvas (attr Delegate Backend)
  (operation render (attr CallWith fetch)))
`

func writeUnit(t *testing.T, dir, name, src string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGenerateAll(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	units := []string{
		writeUnit(t, dir, "geometry.idl", geometry),
		writeUnit(t, dir, "empty.idl", `(namespace empty)`),
	}

	cfg := config.Default()
	cfg.Kotlin.PackageName = "com.example.geometry"
	c, err := newCompiler(cfg, "kotlin", out)
	if err != nil {
		t.Fatalf("newCompiler() error: %v", err)
	}
	if err := c.generateAll(context.Background(), units); err != nil {
		t.Fatalf("generateAll() error: %v", err)
	}

	src, err := os.ReadFile(filepath.Join(out, "geometry.kt"))
	if err != nil {
		t.Fatalf("bindings not written: %v", err)
	}
	for _, want := range []string{"package com.example.geometry", "data class Shape", "interface Listener", "interface Backend"} {
		if !strings.Contains(string(src), want) {
			t.Errorf("geometry.kt does not contain %q", want)
		}
	}
	if _, err := os.Stat(filepath.Join(out, "empty.kt")); err != nil {
		t.Errorf("empty.kt not written: %v", err)
	}
}

func TestCheckAll(t *testing.T) {
	dir := t.TempDir()
	good := writeUnit(t, dir, "geometry.idl", geometry)

	tests := []struct {
		Name        string
		Source      string
		Constraint  string
		ExpectError string
	}{
		{Name: "valid with self-test"},
		{Name: "version constraint", Constraint: "^2", ExpectError: "does not satisfy ^2"},
		{Name: "parse error", Source: `(namespace broken`, ExpectError: "broken.idl"},
		{
			Name:        "model error",
			Source:      `(namespace broken) (interface D (attr Delegate) (constructor))`,
			ExpectError: "broken.idl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			cfg := config.Default()
			cfg.NamespaceVersion = tt.Constraint
			c, err := newCompiler(cfg, "kotlin", dir)
			if err != nil {
				t.Fatal(err)
			}
			c.selfTest = true

			files := []string{good}
			if tt.Source != "" {
				files = append(files, writeUnit(t, dir, "broken.idl", tt.Source))
			}
			err = c.checkAll(context.Background(), files)
			if tt.ExpectError == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.ExpectError) {
				t.Errorf("expected error containing %q, got %v", tt.ExpectError, err)
			}
		})
	}
}

func TestUnknownLanguage(t *testing.T) {
	if _, err := newCompiler(config.Default(), "cobol", "."); err == nil || !strings.Contains(err.Error(), `"cobol"`) {
		t.Errorf("expected unknown language error, got %v", err)
	}
}

func TestGenerateAllRejectsSharedNamespace(t *testing.T) {
	dir := t.TempDir()
	units := []string{
		writeUnit(t, dir, "a.idl", `(namespace shared) (enum Kind Square)`),
		writeUnit(t, dir, "b.idl", `(namespace shared) (enum Kind Circle)`),
	}

	c, err := newCompiler(config.Default(), "kotlin", dir)
	if err != nil {
		t.Fatal(err)
	}
	err = c.generateAll(context.Background(), units)
	if err == nil {
		t.Fatal("expected an error for two units with the same namespace")
	}
	if !strings.Contains(err.Error(), "shared.kt is already generated from") {
		t.Errorf("unexpected error: %v", err)
	}

	// A later run starts with no claims.
	if err := c.generateAll(context.Background(), units[:1]); err != nil {
		t.Errorf("generateAll() of a single unit: %v", err)
	}
}
