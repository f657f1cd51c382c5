package driver

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

type scriptRepo struct {
	dir  string
	repo *git.Repository
}

func newScriptRepo(t *testing.T) *scriptRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("git init: %v", err)
	}
	return &scriptRepo{dir: dir, repo: repo}
}

func (r *scriptRepo) commit(t *testing.T, files map[string]string, message string) plumbing.Hash {
	t.Helper()
	worktree, err := r.repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	for name, contents := range files {
		writeFile(t, filepath.Join(r.dir, filepath.FromSlash(name)), contents)
		if _, err := worktree.Add(name); err != nil {
			t.Fatalf("git add %s: %v", name, err)
		}
	}
	hash, err := worktree.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "Lumen Tests", Email: "tests@example.com", When: time.Unix(1700000000, 0)},
	})
	if err != nil {
		t.Fatalf("git commit: %v", err)
	}
	return hash
}

func TestParseGitLocator(t *testing.T) {
	cases := []struct {
		in   string
		want GitLocator
	}{
		{"git+https://example.com/scripts.git#v1.2.0:src/main.lm", GitLocator{Repo: "https://example.com/scripts.git", Revision: "v1.2.0", Path: "src/main.lm"}},
		{"git+/srv/repos/scripts#main.lm", GitLocator{Repo: "/srv/repos/scripts", Revision: "HEAD", Path: "main.lm"}},
		{"git+./scripts#:/main.lm", GitLocator{Repo: "./scripts", Revision: "HEAD", Path: "main.lm"}},
		{"git+git@example.com:team/scripts.git#refs/heads/dev:a/b.lm", GitLocator{Repo: "git@example.com:team/scripts.git", Revision: "refs/heads/dev", Path: "a/b.lm"}},
	}
	for _, tc := range cases {
		got, err := ParseGitLocator(tc.in)
		if err != nil {
			t.Fatalf("ParseGitLocator(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseGitLocator(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"scripts/main.lm", "git+repo", "git+#HEAD:main.lm", "git+repo#HEAD:"} {
		if _, err := ParseGitLocator(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}

	loc := GitLocator{Repo: "/r", Revision: "HEAD", Path: "m.lm"}
	if loc.String() != "git+/r#HEAD:m.lm" {
		t.Fatalf("String = %q", loc.String())
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.lm")
	writeFile(t, path, "let x = 1\n")
	src, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if src.Name != path || src.Text != "let x = 1\n" || !filepath.IsAbs(src.Origin) {
		t.Fatalf("unexpected source %+v", src)
	}

	bad := filepath.Join(t.TempDir(), "bad.lm")
	if err := os.WriteFile(bad, []byte{0xff, 0xfe}, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadFile(bad); err == nil || !strings.Contains(err.Error(), "UTF-8") {
		t.Fatalf("expected UTF-8 error, got %v", err)
	}
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.lm")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadGitSourceRevisions(t *testing.T) {
	repo := newScriptRepo(t)
	first := repo.commit(t, map[string]string{"src/main.lm": "1 + 1"}, "first")
	if _, err := repo.repo.CreateTag("v1", first, nil); err != nil {
		t.Fatalf("tag: %v", err)
	}
	repo.commit(t, map[string]string{"src/main.lm": "2 + 2"}, "second")

	ctx := context.Background()
	cases := []struct {
		rev  string
		want string
	}{
		{"HEAD", "2 + 2"},
		{first.String(), "1 + 1"},
		{"refs/tags/v1", "1 + 1"},
		{"HEAD~1", "1 + 1"},
	}
	for _, tc := range cases {
		loc := GitLocator{Repo: repo.dir, Revision: tc.rev, Path: "src/main.lm"}
		src, err := LoadGitSource(ctx, loc)
		if err != nil {
			t.Fatalf("LoadGitSource(%s): %v", tc.rev, err)
		}
		if src.Text != tc.want {
			t.Fatalf("rev %s: text = %q, want %q", tc.rev, src.Text, tc.want)
		}
		if src.Name != "src/main.lm" || src.Origin != loc.String() {
			t.Fatalf("unexpected names %+v", src)
		}
	}
}

func TestLoadGitSourceErrors(t *testing.T) {
	repo := newScriptRepo(t)
	repo.commit(t, map[string]string{"main.lm": "1"}, "init")
	ctx := context.Background()

	if _, err := LoadGitSource(ctx, GitLocator{Repo: repo.dir, Revision: "HEAD", Path: "nope.lm"}); err == nil {
		t.Fatalf("expected missing file error")
	}
	if _, err := LoadGitSource(ctx, GitLocator{Repo: repo.dir, Revision: "no-such-branch", Path: "main.lm"}); err == nil {
		t.Fatalf("expected unresolved revision error")
	}
	if _, err := LoadGitSource(ctx, GitLocator{Repo: t.TempDir(), Revision: "HEAD", Path: "main.lm"}); err == nil {
		t.Fatalf("expected error opening a non-repository")
	}
}

func TestLoadSourceDispatch(t *testing.T) {
	repo := newScriptRepo(t)
	repo.commit(t, map[string]string{"main.lm": "let a = 3"}, "init")
	ctx := context.Background()

	src, err := LoadSource(ctx, "git+"+repo.dir+"#main.lm")
	if err != nil {
		t.Fatalf("LoadSource(git): %v", err)
	}
	if src.Text != "let a = 3" {
		t.Fatalf("text = %q", src.Text)
	}

	path := filepath.Join(t.TempDir(), "local.lm")
	writeFile(t, path, "4")
	src, err = LoadSource(ctx, path)
	if err != nil {
		t.Fatalf("LoadSource(file): %v", err)
	}
	if src.Text != "4" {
		t.Fatalf("text = %q", src.Text)
	}
}

func TestManifestLoadEntry(t *testing.T) {
	repo := newScriptRepo(t)
	repo.commit(t, map[string]string{"scripts/run.lm": "print(1)"}, "init")

	root := t.TempDir()
	manifestPath := filepath.Join(root, ManifestFileName)
	writeFile(t, manifestPath, "name: gitdemo\ngit:\n  url: "+repo.dir+"\n  path: scripts/run.lm\n")
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	src, err := manifest.LoadEntry(context.Background())
	if err != nil {
		t.Fatalf("LoadEntry(git): %v", err)
	}
	if src.Text != "print(1)" {
		t.Fatalf("text = %q", src.Text)
	}

	local := filepath.Join(t.TempDir(), ManifestFileName)
	writeFile(t, local, "name: local\nmain: app/main.lm\n")
	writeFile(t, filepath.Join(filepath.Dir(local), "app", "main.lm"), "7")
	manifest, err = LoadManifest(local)
	if err != nil {
		t.Fatalf("LoadManifest: %v", err)
	}
	src, err = manifest.LoadEntry(context.Background())
	if err != nil {
		t.Fatalf("LoadEntry(file): %v", err)
	}
	if src.Text != "7" {
		t.Fatalf("text = %q", src.Text)
	}
}
