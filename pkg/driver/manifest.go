package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"lumen/interpreter-go/pkg/lexer"
)

// ManifestFileName is the project file looked up next to entry scripts.
const ManifestFileName = "lumen.yml"

// ErrManifestNotFound reports that no manifest exists from the start
// directory upwards.
var ErrManifestNotFound = errors.New(ManifestFileName + " not found")

// reservedGlobals mirrors the interpreter's builtin bindings.
var reservedGlobals = map[string]struct{}{
	"true":  {},
	"false": {},
	"null":  {},
	"print": {},
	"time":  {},
}

// Manifest describes a lumen.yml project file.
type Manifest struct {
	Path        string
	Name        string
	Main        string
	Git         *GitSource
	Interpreter InterpreterConfig
	Globals     map[string]float64
}

// GitSource points the manifest entry at a file inside a git repository.
// At most one of Rev, Tag and Branch is set.
type GitSource struct {
	URL    string
	Rev    string
	Tag    string
	Branch string
	Path   string
}

// InterpreterConfig carries evaluator settings. Zero limits keep the
// interpreter defaults.
type InterpreterConfig struct {
	MaxCallDepth   int
	MaxEvalDepth   int
	StrictOperands bool
	Trace          bool
}

// ValidationError aggregates manifest problems.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "manifest validation failed"
	}
	return "manifest validation failed:\n- " + strings.Join(e.Issues, "\n- ")
}

// LoadManifest reads and validates the manifest at path.
func LoadManifest(path string) (*Manifest, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	var raw manifestFile
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

// FindManifest walks from start (a file or directory) up to the filesystem
// root and returns the first lumen.yml it sees.
func FindManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, ManifestFileName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s found from %s upwards: %w", ManifestFileName, origin, ErrManifestNotFound)
		}
		dir = parent
	}
}

// Dir is the directory holding the manifest.
func (m *Manifest) Dir() string {
	if m == nil || m.Path == "" {
		return ""
	}
	return filepath.Dir(m.Path)
}

// EntryPath resolves Main against the manifest directory. It is empty for
// git-backed manifests.
func (m *Manifest) EntryPath() string {
	if m == nil || m.Git != nil {
		return ""
	}
	entry := filepath.FromSlash(strings.TrimSpace(m.Main))
	switch {
	case entry == "":
		return ""
	case filepath.IsAbs(entry):
		return filepath.Clean(entry)
	default:
		return filepath.Join(m.Dir(), entry)
	}
}

// GlobalNames lists the manifest globals in sorted order.
func (m *Manifest) GlobalNames() []string {
	if m == nil || len(m.Globals) == 0 {
		return nil
	}
	names := make([]string, 0, len(m.Globals))
	for name := range m.Globals {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Locator converts the git source into a locator, resolving a relative
// local repository path against base.
func (g *GitSource) Locator(base string) GitLocator {
	if g == nil {
		return GitLocator{}
	}
	repo := strings.TrimSpace(g.URL)
	if isLocalRepoPath(repo) && !filepath.IsAbs(repo) && base != "" {
		repo = filepath.Join(base, filepath.FromSlash(repo))
	}
	return GitLocator{
		Repo:     repo,
		Revision: g.revision(),
		Path:     strings.TrimPrefix(filepath.ToSlash(strings.TrimSpace(g.Path)), "/"),
	}
}

func (g *GitSource) revision() string {
	switch {
	case strings.TrimSpace(g.Rev) != "":
		return strings.TrimSpace(g.Rev)
	case strings.TrimSpace(g.Tag) != "":
		return "refs/tags/" + strings.TrimSpace(g.Tag)
	case strings.TrimSpace(g.Branch) != "":
		return "refs/heads/" + strings.TrimSpace(g.Branch)
	default:
		return "HEAD"
	}
}

func (m *Manifest) validate() error {
	var issues []string
	if strings.TrimSpace(m.Name) == "" {
		issues = append(issues, "name is required")
	}
	if m.Git == nil {
		if strings.TrimSpace(m.Main) == "" {
			issues = append(issues, "main is required when no git source is given")
		}
	} else {
		if strings.TrimSpace(m.Main) != "" {
			issues = append(issues, "main and git are mutually exclusive")
		}
		if strings.TrimSpace(m.Git.URL) == "" {
			issues = append(issues, "git.url is required")
		}
		if strings.TrimSpace(m.Git.Path) == "" {
			issues = append(issues, "git.path is required")
		}
		selectors := 0
		for _, value := range []string{m.Git.Rev, m.Git.Tag, m.Git.Branch} {
			if strings.TrimSpace(value) != "" {
				selectors++
			}
		}
		if selectors > 1 {
			issues = append(issues, "git: specify at most one of rev, tag or branch")
		}
	}
	if m.Interpreter.MaxCallDepth < 0 {
		issues = append(issues, fmt.Sprintf("interpreter.max_call_depth must not be negative (got %d)", m.Interpreter.MaxCallDepth))
	}
	if m.Interpreter.MaxEvalDepth < 0 {
		issues = append(issues, fmt.Sprintf("interpreter.max_eval_depth must not be negative (got %d)", m.Interpreter.MaxEvalDepth))
	}
	for _, name := range m.GlobalNames() {
		if _, reserved := reservedGlobals[name]; reserved {
			issues = append(issues, fmt.Sprintf("globals.%s collides with a builtin", name))
			continue
		}
		if !lexer.IsIdentifier(name) {
			issues = append(issues, fmt.Sprintf("globals: %q is not a valid identifier", name))
		}
	}
	if len(issues) > 0 {
		return &ValidationError{Issues: issues}
	}
	return nil
}

type manifestFile struct {
	Name        string             `yaml:"name"`
	Main        string             `yaml:"main"`
	Git         *gitSourceFile     `yaml:"git"`
	Interpreter interpreterFile    `yaml:"interpreter"`
	Globals     map[string]float64 `yaml:"globals"`
}

type gitSourceFile struct {
	URL    string `yaml:"url"`
	Rev    string `yaml:"rev"`
	Tag    string `yaml:"tag"`
	Branch string `yaml:"branch"`
	Path   string `yaml:"path"`
}

type interpreterFile struct {
	MaxCallDepth   int  `yaml:"max_call_depth"`
	MaxEvalDepth   int  `yaml:"max_eval_depth"`
	StrictOperands bool `yaml:"strict_operands"`
	Trace          bool `yaml:"trace"`
}

func (raw manifestFile) toManifest(absPath string) *Manifest {
	manifest := &Manifest{
		Path: absPath,
		Name: strings.TrimSpace(raw.Name),
		Main: strings.TrimSpace(raw.Main),
		Interpreter: InterpreterConfig{
			MaxCallDepth:   raw.Interpreter.MaxCallDepth,
			MaxEvalDepth:   raw.Interpreter.MaxEvalDepth,
			StrictOperands: raw.Interpreter.StrictOperands,
			Trace:          raw.Interpreter.Trace,
		},
		Globals: make(map[string]float64, len(raw.Globals)),
	}
	if raw.Git != nil {
		manifest.Git = &GitSource{
			URL:    strings.TrimSpace(raw.Git.URL),
			Rev:    strings.TrimSpace(raw.Git.Rev),
			Tag:    strings.TrimSpace(raw.Git.Tag),
			Branch: strings.TrimSpace(raw.Git.Branch),
			Path:   strings.TrimSpace(raw.Git.Path),
		}
	}
	for name, value := range raw.Globals {
		manifest.Globals[strings.TrimSpace(name)] = value
	}
	return manifest
}
