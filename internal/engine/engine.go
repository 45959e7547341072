// Package engine is the orchestration glue (spec §4.11): parse → plan →
// per-component create/start through whichever backend is available on
// the host, dependency-ordered by the graph/resolver layers.
package engine

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/hashicorp/go-multierror"

	"github.com/containust/containust/internal/backend"
	"github.com/containust/containust/internal/ctst"
	"github.com/containust/containust/internal/graph"
	"github.com/containust/containust/internal/primitives"
	"github.com/containust/containust/internal/resolver"
)

// Deployed is one started component's identity, network coordinates, and
// backend-assigned process id.
type Deployed struct {
	Name string
	ID   string
	Port *uint16
	PID  *int
}

// Engine owns the composition path, its project directory and the
// backend it deploys through, the same way the teacher's Boxer owns its sandbox map and a
// single ContainerService implementation.
type Engine struct {
	backend     backend.Backend
	projectDir  string
	compositionPath string
}

const defaultProjectDirName = ".containust"

// New selects b as the backend this Engine drives. The caller picks b via
// IsAvailable (spec §9): Linux native first, VM fallback otherwise.
func New(b backend.Backend, compositionPath, projectDir string) *Engine {
	return &Engine{backend: b, compositionPath: compositionPath, projectDir: projectDir}
}

// ProjectDir canonicalizes compositionPath and derives the project-local
// directory sibling to it (default name ".containust"), ensuring its
// logs/ and state/ subdirectories exist.
func ProjectDir(compositionPath string) (string, error) {
	canon, err := primitives.ResolveCanonical(compositionPath)
	if err != nil {
		return "", err
	}
	dir := filepath.Join(filepath.Dir(canon), defaultProjectDirName)
	if err := primitives.EnsureDir(filepath.Join(dir, "logs")); err != nil {
		return "", err
	}
	if err := primitives.EnsureDir(filepath.Join(dir, "state")); err != nil {
		return "", err
	}
	return dir, nil
}

// Deploy parses and validates the composition, resolves dependency order
// and auto-wired environment, then creates and starts each component in
// order, aborting on the first failure (spec §4.11). Components already
// created before the failing one remain in the state file; the caller
// tears them down via Stop/Remove.
func (e *Engine) Deploy(ctx context.Context) ([]Deployed, error) {
	comp, err := loadComposition(ctx, e.compositionPath, e.projectDir)
	if err != nil {
		return nil, err
	}

	g := graph.New()
	for _, c := range comp.Components {
		g.AddComponent(c.Name)
	}
	for _, conn := range comp.Connections {
		g.AddDependency(conn.From, conn.To)
	}
	order, err := g.ResolveOrder()
	if err != nil {
		return nil, err
	}

	resolved := resolver.Resolve(comp)
	envByName := make(map[string][]ctst.EnvVar, len(resolved))
	for _, r := range resolved {
		envByName[r.Name] = r.Env
	}
	byName := make(map[string]ctst.Component, len(comp.Components))
	for _, c := range comp.Components {
		byName[c.Name] = c
	}

	var out []Deployed
	for _, name := range order {
		c, ok := byName[name]
		if !ok {
			continue
		}
		cfg, err := componentConfig(c, envByName[name])
		if err != nil {
			return out, err
		}

		slog.InfoContext(ctx, "engine.Deploy: creating component", "name", name)
		id, err := e.backend.Create(ctx, cfg)
		if err != nil {
			return out, err
		}
		if err := e.backend.Start(ctx, id); err != nil {
			return out, err
		}

		infos, err := e.backend.List(ctx)
		var pid *int
		if err == nil {
			for _, info := range infos {
				if info.ID == id {
					pid = info.PID
					break
				}
			}
		}
		out = append(out, Deployed{Name: name, ID: id, Port: cfg.Port, PID: pid})
	}
	return out, nil
}

// componentConfig assembles a backend.ContainerConfig from a declared
// component and its resolved environment (spec §4.11 step 5).
func componentConfig(c ctst.Component, env []ctst.EnvVar) (backend.ContainerConfig, error) {
	cfg := backend.ContainerConfig{
		Name:     c.Name,
		Image:    c.Image,
		Command:  c.Command,
		Env:      env,
		Readonly: c.Readonly,
		Volumes:  c.Volumes,
		Port:     c.Port,
	}
	if c.Memory != "" {
		mem, err := primitives.ParseMemory(c.Memory)
		if err != nil {
			return backend.ContainerConfig{}, err
		}
		cfg.MemoryB = mem
	}
	if c.CPU != "" {
		weight, err := primitives.ParseCPU(c.CPU)
		if err != nil {
			return backend.ContainerConfig{}, err
		}
		cfg.CPUWeight = weight
	}
	return cfg, nil
}

// StopAll lists containers and stops every one whose reported state is
// "running" (spec §4.11).
func (e *Engine) StopAll(ctx context.Context) error {
	infos, err := e.backend.List(ctx)
	if err != nil {
		return err
	}
	var errs *multierror.Error
	for _, info := range infos {
		if info.State != primitives.StateRunning {
			continue
		}
		if err := e.backend.Stop(ctx, info.ID); err != nil {
			errs = multierror.Append(errs, err)
		}
	}
	return errs.ErrorOrNil()
}

// Exec delegates to the backend.
func (e *Engine) Exec(ctx context.Context, id string, argv []string, stdout, stderr io.Writer) (backend.ExecResult, error) {
	return e.backend.Exec(ctx, id, argv, stdout, stderr)
}

// Logs delegates to the backend.
func (e *Engine) Logs(ctx context.Context, id string) (string, error) {
	return e.backend.Logs(ctx, id)
}

// List delegates to the backend.
func (e *Engine) List(ctx context.Context) ([]backend.Info, error) {
	return e.backend.List(ctx)
}

// Stop delegates to the backend.
func (e *Engine) Stop(ctx context.Context, id string) error {
	return e.backend.Stop(ctx, id)
}

// Remove delegates to the backend.
func (e *Engine) Remove(ctx context.Context, id string) error {
	return e.backend.Remove(ctx, id)
}
