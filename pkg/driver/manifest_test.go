package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(strings.TrimLeft(contents, "\n")), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func writeManifest(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ManifestFileName)
	writeFile(t, path, contents)
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, `
name: demo
main: src/main.lm
interpreter:
  max_call_depth: 64
  max_eval_depth: 5000
  strict_operands: true
  trace: true
globals:
  answer: 42
  ratio: 0.5
`)
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	if manifest.Name != "demo" || manifest.Main != "src/main.lm" {
		t.Fatalf("unexpected manifest: %+v", manifest)
	}
	want := InterpreterConfig{MaxCallDepth: 64, MaxEvalDepth: 5000, StrictOperands: true, Trace: true}
	if manifest.Interpreter != want {
		t.Fatalf("interpreter config = %+v, want %+v", manifest.Interpreter, want)
	}
	if got := manifest.GlobalNames(); len(got) != 2 || got[0] != "answer" || got[1] != "ratio" {
		t.Fatalf("GlobalNames = %v", got)
	}
	if manifest.Globals["ratio"] != 0.5 {
		t.Fatalf("ratio = %v", manifest.Globals["ratio"])
	}
	if got, want := manifest.EntryPath(), filepath.Join(filepath.Dir(path), "src", "main.lm"); got != want {
		t.Fatalf("EntryPath = %q, want %q", got, want)
	}
	if manifest.Git != nil {
		t.Fatalf("expected no git source")
	}
}

func TestLoadManifestRejectsUnknownKeys(t *testing.T) {
	path := writeManifest(t, `
name: demo
main: main.lm
version: 1.0.0
`)
	_, err := LoadManifest(path)
	if err == nil || !strings.Contains(err.Error(), "field version not found") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
}

func TestLoadManifestEmptyFile(t *testing.T) {
	path := writeManifest(t, "")
	_, err := LoadManifest(path)
	if err == nil || !strings.Contains(err.Error(), "is empty") {
		t.Fatalf("expected empty manifest error, got %v", err)
	}
	if _, err := LoadManifest(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadManifestValidation(t *testing.T) {
	cases := []struct {
		name   string
		yaml   string
		issues []string
	}{
		{
			name:   "missing name and main",
			yaml:   "interpreter:\n  trace: true\n",
			issues: []string{"name is required", "main is required when no git source is given"},
		},
		{
			name:   "negative limits",
			yaml:   "name: a\nmain: m.lm\ninterpreter:\n  max_call_depth: -1\n  max_eval_depth: -2\n",
			issues: []string{"interpreter.max_call_depth must not be negative (got -1)", "interpreter.max_eval_depth must not be negative (got -2)"},
		},
		{
			name:   "bad globals",
			yaml:   "name: a\nmain: m.lm\nglobals:\n  print: 1\n  let: 2\n  x1: 3\n",
			issues: []string{`globals: "let" is not a valid identifier`, "globals.print collides with a builtin", `globals: "x1" is not a valid identifier`},
		},
		{
			name:   "git selectors",
			yaml:   "name: a\ngit:\n  rev: abc\n  tag: v1\n",
			issues: []string{"git.url is required", "git.path is required", "git: specify at most one of rev, tag or branch"},
		},
		{
			name:   "main with git",
			yaml:   "name: a\nmain: m.lm\ngit:\n  url: https://example.com/r.git\n  path: m.lm\n",
			issues: []string{"main and git are mutually exclusive"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadManifest(writeManifest(t, tc.yaml))
			var validation *ValidationError
			if !errors.As(err, &validation) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(validation.Issues) != len(tc.issues) {
				t.Fatalf("issues = %q, want %q", validation.Issues, tc.issues)
			}
			for idx, want := range tc.issues {
				if validation.Issues[idx] != want {
					t.Fatalf("issue %d = %q, want %q", idx, validation.Issues[idx], want)
				}
			}
			if !strings.HasPrefix(err.Error(), "manifest validation failed:\n- ") {
				t.Fatalf("unexpected message %q", err.Error())
			}
		})
	}
}

func TestGitSourceLocator(t *testing.T) {
	path := writeManifest(t, `
name: remote
git:
  url: ./scripts
  branch: main
  path: /bin/run.lm
`)
	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	loc := manifest.Git.Locator(manifest.Dir())
	want := GitLocator{
		Repo:     filepath.Join(filepath.Dir(path), "scripts"),
		Revision: "refs/heads/main",
		Path:     "bin/run.lm",
	}
	if loc != want {
		t.Fatalf("Locator = %+v, want %+v", loc, want)
	}
	if manifest.EntryPath() != "" {
		t.Fatalf("git manifests have no entry path, got %q", manifest.EntryPath())
	}

	remote := &GitSource{URL: "https://example.com/r.git", Tag: "v1.2.0", Path: "main.lm"}
	if got := remote.Locator("/ignored"); got.Repo != "https://example.com/r.git" || got.Revision != "refs/tags/v1.2.0" {
		t.Fatalf("remote locator = %+v", got)
	}
	if got := (&GitSource{URL: "https://example.com/r.git", Path: "m.lm"}).Locator(""); got.Revision != "HEAD" {
		t.Fatalf("default revision = %q", got.Revision)
	}
}

func TestFindManifest(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestFileName), "name: test\nmain: main.lm\n")
	child := filepath.Join(root, "src", "app")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	entry := filepath.Join(child, "main.lm")
	writeFile(t, entry, "1")

	want := filepath.Join(root, ManifestFileName)
	for _, start := range []string{child, entry} {
		found, err := FindManifest(start)
		if err != nil {
			t.Fatalf("FindManifest(%s): %v", start, err)
		}
		if found != want {
			t.Fatalf("FindManifest = %q, want %q", found, want)
		}
	}
}

func TestFindManifestNotFound(t *testing.T) {
	_, err := FindManifest(t.TempDir())
	if !errors.Is(err, ErrManifestNotFound) {
		t.Fatalf("expected ErrManifestNotFound, got %v", err)
	}
}
