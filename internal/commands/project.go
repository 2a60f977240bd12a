package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cleared-dev/bilant/internal/config"
	"github.com/cleared-dev/bilant/internal/gitops"
	"github.com/cleared-dev/bilant/internal/history"
	"github.com/cleared-dev/bilant/internal/runlog"
)

// project is an initialized bilant workspace, or a bare directory for
// commands that can run outside one.
type project struct {
	root        string
	cfg         *config.Config
	initialized bool
}

// openProject loads bilant.yaml from repoDir. When required is false a
// missing config yields a default, uninitialized project.
func openProject(repoDir string, required bool) (*project, error) {
	root, err := filepath.Abs(repoDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.LoadProject(root)
	if err != nil {
		if !required && errors.Is(err, os.ErrNotExist) {
			cfg = config.Default("")
			if err := cfg.ApplyEnv(); err != nil {
				return nil, err
			}
			return &project{root: root, cfg: cfg}, nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s is not a bilant project (run bilant init): %w", root, err)
		}
		return nil, err
	}
	return &project{root: root, cfg: cfg, initialized: true}, nil
}

// path resolves a configured path against the project root.
func (p *project) path(rel string) string {
	return config.Resolve(p.root, rel)
}

func (p *project) templatesDir() string { return p.path(p.cfg.Paths.Templates) }
func (p *project) outputDir() string    { return p.path(p.cfg.Paths.Output) }

func (p *project) openHistory() (*history.Store, func(), error) {
	conn, err := history.Open(p.path(p.cfg.Paths.Database))
	if err != nil {
		return nil, nil, err
	}
	return history.NewStore(conn), func() { conn.Close() }, nil
}

// record snapshots the written files into git when enabled and appends
// the run log entry. Uninitialized projects are left untouched.
func (p *project) record(e runlog.Entry, written ...string) error {
	if !p.initialized {
		return nil
	}
	if p.cfg.Git.AutoCommit && gitops.IsRepo(p.root) {
		if rel := p.relPaths(written); len(rel) > 0 {
			author := gitops.Author{Name: p.cfg.Git.AuthorName, Email: p.cfg.Git.AuthorEmail}
			hash, err := gitops.Snapshot(p.root, fmt.Sprintf("%s: %s", e.Command, e.Output), author, rel...)
			if err != nil {
				return fmt.Errorf("snapshot: %w", err)
			}
			e.CommitHash = hash
		}
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if err := runlog.Append(p.root, e); err != nil {
		return fmt.Errorf("writing run log: %w", err)
	}
	return nil
}

// relPaths returns the paths inside the project, relative to its root.
func (p *project) relPaths(paths []string) []string {
	var rel []string
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			continue
		}
		r, err := filepath.Rel(p.root, abs)
		if err != nil || r == ".." || strings.HasPrefix(r, ".."+string(filepath.Separator)) {
			slog.Debug("not snapshotting path outside project", "path", path)
			continue
		}
		rel = append(rel, r)
	}
	return rel
}

// display shortens path to be relative to the project root when inside it.
func (p *project) display(path string) string {
	if rel := p.relPaths([]string{path}); len(rel) == 1 {
		return rel[0]
	}
	return path
}
