package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"fortio.org/log"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/memory"
)

// GitLocatorPrefix marks a source target that lives in a git repository.
const GitLocatorPrefix = "git+"

// Source is program text plus the names used to report on it.
type Source struct {
	// Name is used for diagnostics (file path, or path inside the repository).
	Name string
	// Origin identifies where the text came from (absolute path or locator).
	Origin string
	Text   string
}

// GitLocator addresses one file at one revision of a repository.
type GitLocator struct {
	Repo     string
	Revision string
	Path     string
}

func (l GitLocator) String() string {
	return fmt.Sprintf("%s%s#%s:%s", GitLocatorPrefix, l.Repo, l.Revision, l.Path)
}

// IsGitLocator reports whether target uses the git+ form.
func IsGitLocator(target string) bool {
	return strings.HasPrefix(strings.TrimSpace(target), GitLocatorPrefix)
}

// ParseGitLocator parses git+<repo>#<rev>:<path>. The revision may be
// omitted (git+<repo>#<path> or git+<repo>#:<path>) and defaults to HEAD.
func ParseGitLocator(target string) (GitLocator, error) {
	trimmed := strings.TrimSpace(target)
	if !strings.HasPrefix(trimmed, GitLocatorPrefix) {
		return GitLocator{}, fmt.Errorf("git locator %q must start with %s", target, GitLocatorPrefix)
	}
	body := strings.TrimPrefix(trimmed, GitLocatorPrefix)
	hash := strings.LastIndex(body, "#")
	if hash < 0 {
		return GitLocator{}, fmt.Errorf("git locator %q is missing '#<rev>:<path>'", target)
	}
	repo := strings.TrimSpace(body[:hash])
	fragment := body[hash+1:]
	rev, path := "", fragment
	if colon := strings.Index(fragment, ":"); colon >= 0 {
		rev, path = fragment[:colon], fragment[colon+1:]
	}
	rev = strings.TrimSpace(rev)
	if rev == "" {
		rev = "HEAD"
	}
	path = strings.TrimPrefix(strings.TrimSpace(path), "/")
	if repo == "" {
		return GitLocator{}, fmt.Errorf("git locator %q is missing a repository", target)
	}
	if path == "" {
		return GitLocator{}, fmt.Errorf("git locator %q is missing a file path", target)
	}
	return GitLocator{Repo: repo, Revision: rev, Path: path}, nil
}

// LoadFile reads a UTF-8 source file.
func LoadFile(path string) (*Source, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("source: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("source: resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("source: read %s: %w", path, err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("source: %s is not valid UTF-8", path)
	}
	return &Source{Name: path, Origin: absPath, Text: string(data)}, nil
}

// LoadGitSource reads loc.Path at loc.Revision. Local repositories are
// opened in place; anything else is cloned into memory.
func LoadGitSource(ctx context.Context, loc GitLocator) (*Source, error) {
	if loc.Revision == "" {
		loc.Revision = "HEAD"
	}
	repo, remote, err := openGitRepository(ctx, loc.Repo)
	if err != nil {
		return nil, err
	}
	hash, err := resolveGitRevision(repo, loc.Revision, remote)
	if err != nil {
		return nil, fmt.Errorf("resolve revision %s in %s: %w", loc.Revision, loc.Repo, err)
	}
	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("load commit %s: %w", hash, err)
	}
	file, err := commit.File(loc.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s at %s: %w", loc.Path, loc.Revision, err)
	}
	text, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("read %s at %s: %w", loc.Path, loc.Revision, err)
	}
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("source: %s is not valid UTF-8", loc)
	}
	log.S(log.Verbose, "loaded git source",
		log.Str("repo", loc.Repo),
		log.Str("rev", loc.Revision),
		log.Str("commit", hash.String()),
		log.Str("path", loc.Path))
	return &Source{Name: loc.Path, Origin: loc.String(), Text: text}, nil
}

// LoadSource loads a file path or a git+ locator.
func LoadSource(ctx context.Context, target string) (*Source, error) {
	if IsGitLocator(target) {
		loc, err := ParseGitLocator(target)
		if err != nil {
			return nil, err
		}
		return LoadGitSource(ctx, loc)
	}
	return LoadFile(target)
}

// LoadEntry loads the manifest's entry script from disk or git.
func (m *Manifest) LoadEntry(ctx context.Context) (*Source, error) {
	if m == nil {
		return nil, errors.New("manifest: nil manifest")
	}
	if m.Git != nil {
		return LoadGitSource(ctx, m.Git.Locator(m.Dir()))
	}
	entry := m.EntryPath()
	if entry == "" {
		return nil, fmt.Errorf("manifest %s has no entry", m.Path)
	}
	return LoadFile(entry)
}

func openGitRepository(ctx context.Context, repo string) (*git.Repository, bool, error) {
	if isLocalRepoPath(repo) {
		path := strings.TrimPrefix(repo, "file://")
		opened, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
		if err != nil {
			return nil, false, fmt.Errorf("git open %s: %w", path, err)
		}
		return opened, false, nil
	}
	log.Infof("cloning %s", repo)
	cloned, err := git.CloneContext(ctx, memory.NewStorage(), nil, &git.CloneOptions{
		URL:  repo,
		Tags: git.AllTags,
	})
	if err != nil {
		return nil, true, fmt.Errorf("git clone %s: %w", repo, err)
	}
	return cloned, true, nil
}

// resolveGitRevision resolves rev, falling back to the remote-tracking ref
// for branches that only exist on origin after a clone.
func resolveGitRevision(repo *git.Repository, rev string, remote bool) (*plumbing.Hash, error) {
	hash, err := repo.ResolveRevision(plumbing.Revision(rev))
	if err == nil || !remote {
		return hash, err
	}
	if branch, ok := strings.CutPrefix(rev, "refs/heads/"); ok {
		if tracked, trackedErr := repo.ResolveRevision(plumbing.Revision("refs/remotes/origin/" + branch)); trackedErr == nil {
			return tracked, nil
		}
	}
	return nil, err
}

func isLocalRepoPath(repo string) bool {
	switch {
	case repo == "":
		return false
	case strings.HasPrefix(repo, "file://"):
		return true
	case strings.Contains(repo, "://"):
		return false
	case strings.HasPrefix(repo, "git@"):
		return false
	}
	if info, err := os.Stat(repo); err == nil && info.IsDir() {
		return true
	}
	return strings.HasPrefix(repo, ".") || filepath.IsAbs(repo)
}
