package driver

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Installer materialises dependencies under the package cache root,
// ~/.ember/pkg by default.
type Installer struct {
	Root string
}

// DefaultPkgRoot returns the per-user package cache directory.
func DefaultPkgRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("installer: home directory: %w", err)
	}
	return filepath.Join(home, ".ember", "pkg"), nil
}

// NewInstaller constructs an installer rooted at the default package cache.
func NewInstaller() (*Installer, error) {
	root, err := DefaultPkgRoot()
	if err != nil {
		return nil, err
	}
	return &Installer{Root: root}, nil
}

// PackageDir is where a named package is checked out. Slash-form names map
// onto nested directories, so "github.com/acme/strutil" keeps its shape.
func (ins *Installer) PackageDir(name string) string {
	return filepath.Join(ins.Root, filepath.FromSlash(strings.TrimSpace(name)))
}

// Resolve fetches a dependency per its manifest spec and returns the lock
// entry describing exactly what was installed. baseDir anchors relative
// path overrides, usually the manifest directory.
func (ins *Installer) Resolve(name string, dep *DependencySpec, baseDir string) (*LockedPackage, error) {
	if dep == nil {
		return nil, fmt.Errorf("installer: dependency %q has no spec", name)
	}
	if dep.Path != "" {
		return resolvePathDependency(name, dep, baseDir)
	}
	url := strings.TrimSpace(dep.Git)
	if url == "" {
		url = GitURL(name)
	}
	revision, descriptor := revisionFor(dep)
	commit, err := ins.fetch(name, url, revision)
	if err != nil {
		return nil, err
	}
	sum, err := Checksum(ins.PackageDir(name))
	if err != nil {
		return nil, err
	}
	version := descriptor
	if version == "" {
		version = shortCommit(commit)
	}
	return &LockedPackage{
		Name:     strings.TrimSpace(name),
		Version:  version,
		Source:   "git+" + url,
		Commit:   commit,
		Checksum: sum,
	}, nil
}

// Install makes the cache match one lock entry, fetching when the package
// is absent or its tree no longer hashes to the locked checksum. A freshly
// fetched tree that still disagrees with the lock is an error, not a
// retry.
func (ins *Installer) Install(pkg *LockedPackage) error {
	if pkg == nil {
		return fmt.Errorf("installer: nil package")
	}
	if dir, ok := strings.CutPrefix(pkg.Source, "path+"); ok {
		info, err := os.Stat(dir)
		if err != nil {
			return fmt.Errorf("installer: path dependency %s: %w", pkg.Name, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("installer: path dependency %s: %s is not a directory", pkg.Name, dir)
		}
		return nil
	}

	dir := ins.PackageDir(pkg.Name)
	if _, err := os.Stat(dir); err == nil {
		sum, err := Checksum(dir)
		if err != nil {
			return err
		}
		if sum == pkg.Checksum {
			return nil
		}
	}

	url := strings.TrimPrefix(pkg.Source, "git+")
	revision := plumbing.Revision(pkg.Commit)
	if pkg.Commit == "" {
		revision = plumbing.Revision("HEAD")
	}
	if _, err := ins.fetch(pkg.Name, url, revision); err != nil {
		return err
	}
	sum, err := Checksum(dir)
	if err != nil {
		return err
	}
	if sum != pkg.Checksum {
		return fmt.Errorf("installer: checksum mismatch for %s: package.lock has %s, found %s", pkg.Name, pkg.Checksum, sum)
	}
	return nil
}

// fetch clones url into a scratch dir, checks out revision and swaps the
// tree, minus .git, into the package cache. Returns the resolved commit.
func (ins *Installer) fetch(name, url string, revision plumbing.Revision) (string, error) {
	tmpDir, err := os.MkdirTemp("", "ember-fetch-*")
	if err != nil {
		return "", err
	}
	defer os.RemoveAll(tmpDir)

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{URL: url})
	if err != nil {
		return "", fmt.Errorf("installer: git clone %s: %w", url, err)
	}
	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		return "", fmt.Errorf("installer: resolve revision %s: %w", revision, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{Hash: *hash, Force: true}); err != nil {
		return "", fmt.Errorf("installer: git checkout %s: %w", revision, err)
	}

	target := ins.PackageDir(name)
	if err := os.RemoveAll(target); err != nil {
		return "", err
	}
	if err := copyTree(tmpDir, target); err != nil {
		return "", fmt.Errorf("installer: copy %s -> %s: %w", tmpDir, target, err)
	}
	return hash.String(), nil
}

func resolvePathDependency(name string, dep *DependencySpec, baseDir string) (*LockedPackage, error) {
	dir := dep.Path
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(baseDir, dir)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("installer: resolve path dependency %s: %w", name, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("installer: path dependency %s: %w", name, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("installer: path dependency %s: %s is not a directory", name, abs)
	}
	return &LockedPackage{
		Name:    strings.TrimSpace(name),
		Version: "local",
		Source:  "path+" + abs,
	}, nil
}

// revisionFor picks the git revision a spec pins, plus the descriptor
// recorded as the locked version. Branches resolve through the remote
// tracking ref, which a fresh clone always has.
func revisionFor(dep *DependencySpec) (plumbing.Revision, string) {
	switch {
	case dep.Rev != "":
		return plumbing.Revision(dep.Rev), dep.Rev
	case dep.Tag != "":
		return plumbing.Revision("refs/tags/" + dep.Tag), dep.Tag
	case dep.Branch != "":
		return plumbing.Revision("refs/remotes/origin/" + dep.Branch), dep.Branch
	case dep.Version != "" && dep.Version != "*" && dep.Version != "HEAD":
		return plumbing.Revision(dep.Version), dep.Version
	}
	return plumbing.Revision("HEAD"), ""
}

// GitURL derives a clone URL from a dependency name. Names that already
// carry a scheme, or point into the filesystem, pass through untouched.
func GitURL(name string) string {
	name = strings.TrimSpace(name)
	if strings.Contains(name, "://") || strings.HasPrefix(name, "git@") {
		return name
	}
	if filepath.IsAbs(name) {
		return name
	}
	return "https://" + name
}

func shortCommit(commit string) string {
	if len(commit) > 12 {
		return commit[:12]
	}
	return commit
}

func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return os.MkdirAll(filepath.Join(dst, rel), 0o755)
		}
		return copyFile(path, filepath.Join(dst, rel))
	})
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}
