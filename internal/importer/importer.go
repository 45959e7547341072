// Package importer implements the remote composition import fetcher
// (spec SPEC_FULL §4.16): a composition Import whose source is a
// git+ssh:// or git+https:// URL is cloned into a project-local cache
// directory before the referenced .ctst file is lexed, adapting the
// teacher's git_ops.go/sshimmer pairing to a fetch-not-reconnect model.
package importer

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/containust/containust/internal/primitives"
)

const defaultEntryFile = "main.ctst"

// Fetcher clones remote import sources into a project-local cache
// directory and resolves the referenced .ctst file's path.
type Fetcher struct {
	projectDir string
	sshResolve sshConfigResolver
	verifySSH  sshReachabilityChecker
}

// NewFetcher roots every fetch's cache directory under
// <projectDir>/imports.
func NewFetcher(projectDir string) *Fetcher {
	return &Fetcher{
		projectDir: projectDir,
		sshResolve: resolveSSHConfig,
		verifySSH:  verifySSHReachable,
	}
}

// Fetch clones (or reuses an already-cloned) source into
// <projectDir>/imports/<sha256(source)>/ and returns the absolute path
// to the import's referenced .ctst file.
func (f *Fetcher) Fetch(ctx context.Context, source string) (string, error) {
	u, err := url.Parse(source)
	if err != nil {
		return "", primitives.NewConfig("invalid remote import URL %q: %v", source, err)
	}

	repoURL, ref, entryFile := splitFragment(u)
	cacheDir := filepath.Join(f.projectDir, "imports", cacheKey(source))

	if _, err := os.Stat(filepath.Join(cacheDir, ".git")); os.IsNotExist(err) {
		if err := f.clone(ctx, u.Scheme, repoURL, ref, cacheDir); err != nil {
			return "", err
		}
	}

	return filepath.Join(cacheDir, entryFile), nil
}

// splitFragment separates the repo URL (scheme normalized to its
// underlying transport: git+ssh -> ssh, git+https -> https) from the
// "#ref/path/to/file.ctst" fragment. The fragment's first path segment
// is the git ref; everything after that is the entry file path, which
// defaults to "main.ctst" when no file segment is given.
func splitFragment(u *url.URL) (repoURL, ref, entryFile string) {
	entryFile = defaultEntryFile
	frag := u.Fragment
	transport := strings.TrimPrefix(u.Scheme, "git+")

	repo := *u
	repo.Scheme = transport
	repo.Fragment = ""

	if frag == "" {
		return repo.String(), "", entryFile
	}
	parts := strings.SplitN(frag, "/", 2)
	ref = parts[0]
	if len(parts) == 2 && parts[1] != "" {
		entryFile = parts[1]
	}
	return repo.String(), ref, entryFile
}

func cacheKey(source string) string {
	return primitives.HashBytes([]byte(source)).String()
}

func (f *Fetcher) clone(ctx context.Context, scheme, repoURL, ref, dest string) error {
	if err := primitives.EnsureDir(filepath.Dir(dest)); err != nil {
		return err
	}

	args := []string{"clone", "--depth", "1"}
	if ref != "" {
		args = append(args, "--branch", ref)
	}
	args = append(args, repoURL, dest)

	cmd := exec.CommandContext(ctx, "git", args...)

	if scheme == "git+ssh" {
		parsed, err := url.Parse(repoURL)
		if err != nil {
			return primitives.NewConfig("invalid ssh repo URL %q: %v", repoURL, err)
		}
		cfg, err := f.sshResolve(parsed.Hostname())
		if err != nil {
			return err
		}
		if err := f.verifySSH(ctx, cfg); err != nil {
			return err
		}
		cmd.Env = append(os.Environ(), "GIT_SSH_COMMAND="+sshCommand(cfg))
	}

	out, err := cmd.CombinedOutput()
	if err != nil {
		return primitives.NewIo(repoURL, fmt.Sprintf("git clone failed: %s", strings.TrimSpace(string(out))), err)
	}
	return nil
}

func sshCommand(cfg sshHostConfig) string {
	identity := cfg.IdentityFile
	if identity == "" {
		identity = "~/.ssh/id_ed25519"
	}
	return fmt.Sprintf("ssh -i %s -o IdentitiesOnly=yes -p %s", identity, cfg.Port)
}
