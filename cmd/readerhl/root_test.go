package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestAddListRemove(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.md")
	if err := os.WriteFile(path, []byte("Some plain text here.\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := runCmd(t, "--root", dir, "add", "note.md", "plain text"); err != nil {
		t.Fatalf("add: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "Some ==plain text== here.\n" {
		t.Fatalf("after add: %q", got)
	}

	out, err := runCmd(t, "--root", dir, "list", "note.md")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !strings.Contains(out, "plain text") {
		t.Fatalf("list output = %q", out)
	}

	if _, err := runCmd(t, "--root", dir, "remove", "note.md", "plain text"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "Some plain text here.\n" {
		t.Fatalf("after remove: %q", got)
	}
}

func TestAdjust(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.md")
	if err := os.WriteFile(path, []byte("alpha ==beta== gamma\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := runCmd(t, "--root", dir, "adjust", "note.md", "beta", "beta gamma"); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != "alpha ==beta gamma==\n" {
		t.Fatalf("after adjust: %q", got)
	}
}

func TestAddAmbiguousFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "note.md")
	before := "echo and echo.\n"
	if err := os.WriteFile(path, []byte(before), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := runCmd(t, "--root", dir, "add", "note.md", "echo"); err == nil {
		t.Fatal("add accepted an ambiguous target")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(data); got != before {
		t.Fatalf("document changed: %q", got)
	}
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "note.md"), []byte("a ==b== c\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCmd(t, "--root", dir, "render", "note.md")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out, "<mark>b</mark>") {
		t.Fatalf("render output = %q", out)
	}
}
