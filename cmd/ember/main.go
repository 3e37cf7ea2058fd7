package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ember/interpreter-go/pkg/driver"
	"ember/interpreter-go/pkg/interpreter"
	"ember/interpreter-go/pkg/native"
)

const cliToolVersion = "ember 0.1.0-dev"

var errManifestNotFound = errors.New("package.yml not found")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h", "help":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "run":
		return runEntry(args[1:])
	case "shell":
		return runShell(args[1:])
	case "init":
		return runInit(args[1:])
	case "get":
		return runGet(args[1:])
	case "deps":
		return runDeps(args[1:])
	default:
		return runEntry(args)
	}
}

func runEntry(args []string) int {
	watch := false
	positional := make([]string, 0, len(args))
	for _, arg := range args {
		switch arg {
		case "--watch", "-w":
			watch = true
		default:
			positional = append(positional, arg)
		}
	}
	if len(positional) > 1 {
		fmt.Fprintf(os.Stderr, "unexpected arguments: %s\n", strings.Join(positional[1:], " "))
		return 1
	}

	entry, code := resolveEntry(positional)
	if code != 0 {
		return code
	}
	if watch {
		return watchEntry(entry)
	}
	return executeScript(entry)
}

// resolveEntry maps the run argument onto a source file: no argument means
// the nearest manifest's default entry, otherwise a manifest target takes
// precedence over a file path of the same name.
func resolveEntry(positional []string) (string, int) {
	if len(positional) == 0 {
		manifest, err := loadNearestManifest()
		if err != nil {
			if errors.Is(err, errManifestNotFound) {
				fmt.Fprintln(os.Stderr, "ember run requires a manifest target or source file (package.yml not found)")
			} else {
				fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
			}
			return "", 1
		}
		entry, err := manifest.EntryFor("")
		if err != nil {
			fmt.Fprintf(os.Stderr, "manifest error: %v\n", err)
			return "", 1
		}
		return entry, 0
	}

	candidate := positional[0]
	manifest, err := loadNearestManifest()
	switch {
	case err == nil:
		if _, ok := manifest.FindTarget(candidate); ok {
			entry, entryErr := manifest.EntryFor(candidate)
			if entryErr != nil {
				fmt.Fprintf(os.Stderr, "manifest error: %v\n", entryErr)
				return "", 1
			}
			return entry, 0
		}
	case errors.Is(err, errManifestNotFound):
		// No manifest nearby; the argument must be a source file.
	case looksLikePathCandidate(candidate):
		fmt.Fprintf(os.Stderr, "warning: unable to load manifest (%v); falling back to direct file execution\n", err)
	default:
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return "", 1
	}
	return candidate, 0
}

func executeScript(entry string) int {
	entry = strings.TrimSpace(entry)
	if entry == "" {
		fmt.Fprintln(os.Stderr, "ember run requires a source file")
		return 1
	}

	program, err := newLoader().Load(entry)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load program: %v\n", err)
		return 1
	}

	interp := interpreter.New()
	interp.UseRegistry(native.New())
	if _, err := interp.Run(program); err != nil {
		fmt.Fprintf(os.Stderr, "runtime error: %v\n", err)
		return 1
	}
	interp.Wait()
	return 0
}

func runInit(args []string) int {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		fmt.Fprintln(os.Stderr, "ember init requires a project name")
		return 1
	}
	name := strings.TrimSpace(args[0])

	if _, err := os.Stat(driver.ManifestName); err == nil {
		fmt.Fprintf(os.Stdout, "%s already exists, skipping\n", driver.ManifestName)
	} else if !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "failed to inspect %s: %v\n", driver.ManifestName, err)
		return 1
	} else {
		manifest := driver.NewManifest(name)
		if err := manifest.Save(driver.ManifestName); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write manifest: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stdout, "Created %s\n", driver.ManifestName)
	}

	if err := os.MkdirAll("src", 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "failed to create src directory: %v\n", err)
		return 1
	}
	mainPath := filepath.Join("src", "main.ember")
	if _, err := os.Stat(mainPath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(mainPath, []byte(initialProgram), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write %s: %v\n", mainPath, err)
			return 1
		}
		fmt.Fprintf(os.Stdout, "Created %s\n", mainPath)
	}
	return 0
}

const initialProgram = `def main():
    print("Hello, Ember!")

main()
`

func runGet(args []string) int {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		fmt.Fprintln(os.Stderr, "ember get requires a package URL")
		return 1
	}
	name, version := splitPackageArg(args[0])

	manifest, err := loadNearestManifest()
	if err != nil {
		if errors.Is(err, errManifestNotFound) {
			fmt.Fprintln(os.Stderr, "no package.yml found; run `ember init <name>` first")
		} else {
			fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		}
		return 1
	}

	fmt.Fprintf(os.Stdout, "Getting %s@%s\n", name, version)

	installer, err := newInstaller()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to prepare package cache: %v\n", err)
		return 1
	}

	dep := dependencyForDescriptor(name, version)
	locked, err := installer.Resolve(name, dep, manifest.Dir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to fetch %s: %v\n", name, err)
		return 1
	}
	if err := installer.Install(locked); err != nil {
		fmt.Fprintf(os.Stderr, "failed to install %s: %v\n", name, err)
		return 1
	}

	if _, exists := manifest.Dependencies[name]; exists {
		fmt.Fprintf(os.Stdout, "%s already in %s; updating pin\n", name, driver.ManifestName)
	}
	manifest.SetDependency(name, dep)
	if err := manifest.Save(manifest.Path); err != nil {
		fmt.Fprintf(os.Stderr, "failed to update manifest: %v\n", err)
		return 1
	}

	lock, lockCreated, err := loadOrCreateLockfile(manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}
	lock.Upsert(locked)
	lockPath := filepath.Join(manifest.Dir(), driver.LockName)
	if err := driver.WriteLockfile(lock, lockPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
		return 1
	}
	action := "Updated"
	if lockCreated {
		action = "Created"
	}
	fmt.Fprintf(os.Stdout, "%s %s: %s\n", action, driver.LockName, lockPath)
	fmt.Fprintf(os.Stdout, "Added %s %s\n", name, locked.Version)
	return 0
}

// splitPackageArg separates url@version, defaulting to HEAD. The version
// suffix never contains path or scheme characters, which keeps ssh-style
// URLs like git@host:org/repo intact.
func splitPackageArg(arg string) (string, string) {
	arg = strings.TrimSpace(arg)
	if at := strings.LastIndex(arg, "@"); at > 0 {
		tail := arg[at+1:]
		if tail != "" && !strings.ContainsAny(tail, "/:") {
			return strings.TrimSpace(arg[:at]), tail
		}
	}
	return arg, "HEAD"
}

// dependencyForDescriptor turns a get argument into a manifest spec. Version
// descriptors from get are git revisions (tags, branches, commits), not
// constraint expressions, so they pin through rev.
func dependencyForDescriptor(name, version string) *driver.DependencySpec {
	url := driver.GitURL(name)
	if version == "" || version == "HEAD" {
		return &driver.DependencySpec{Git: url}
	}
	return &driver.DependencySpec{Git: url, Rev: version}
}

func runDeps(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "ember deps requires a subcommand (install, update)")
		return 1
	}
	switch args[0] {
	case "install":
		if len(args) > 1 {
			fmt.Fprintf(os.Stderr, "ember deps install does not take arguments (received %s)\n", strings.Join(args[1:], " "))
			return 1
		}
		return runDepsInstall()
	case "update":
		return runDepsUpdate(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown deps subcommand %q\n", args[0])
		return 1
	}
}

func runDepsInstall() int {
	manifest, err := loadNearestManifest()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return 1
	}
	installer, err := newInstaller()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to prepare package cache: %v\n", err)
		return 1
	}

	lock, lockCreated, err := loadOrCreateLockfile(manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	fmt.Fprintf(os.Stdout, "Manifest: %s\n", manifest.Path)
	fmt.Fprintf(os.Stdout, "Dependencies: %d\n", len(manifest.Dependencies))

	changed := false
	for _, name := range sortedDepNames(manifest.Dependencies) {
		dep := manifest.Dependencies[name]
		locked, ok := lock.Find(name)
		if !ok {
			resolved, resolveErr := installer.Resolve(name, dep, manifest.Dir())
			if resolveErr != nil {
				fmt.Fprintf(os.Stderr, "failed to resolve %s: %v\n", name, resolveErr)
				return 1
			}
			lock.Upsert(resolved)
			locked = resolved
			changed = true
			fmt.Fprintf(os.Stdout, "Resolved %s %s\n", name, resolved.Version)
		}
		if err := installer.Install(locked); err != nil {
			fmt.Fprintf(os.Stderr, "failed to install %s: %v\n", name, err)
			return 1
		}
		fmt.Fprintf(os.Stdout, "Installed %s %s\n", name, locked.Version)
	}
	if pruneLockedPackages(lock, manifest) {
		changed = true
	}

	lockPath := filepath.Join(manifest.Dir(), driver.LockName)
	if changed || lockCreated {
		if err := driver.WriteLockfile(lock, lockPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
			return 1
		}
		action := "Updated"
		if lockCreated {
			action = "Created"
		}
		fmt.Fprintf(os.Stdout, "%s %s: %s\n", action, driver.LockName, lockPath)
	} else {
		fmt.Fprintf(os.Stdout, "%s already up to date: %s\n", driver.LockName, lockPath)
	}
	fmt.Fprintln(os.Stdout, "Dependencies installed.")
	return 0
}

func runDepsUpdate(targets []string) int {
	manifest, err := loadNearestManifest()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return 1
	}
	installer, err := newInstaller()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to prepare package cache: %v\n", err)
		return 1
	}

	names := sortedDepNames(manifest.Dependencies)
	if len(targets) > 0 {
		names = names[:0]
		for _, target := range targets {
			if _, ok := manifest.Dependencies[target]; !ok {
				fmt.Fprintf(os.Stderr, "dependency %q not declared in manifest\n", target)
				return 1
			}
			names = append(names, target)
		}
		sort.Strings(names)
	}

	lock, _, err := loadOrCreateLockfile(manifest)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return 1
	}

	for _, name := range names {
		resolved, resolveErr := installer.Resolve(name, manifest.Dependencies[name], manifest.Dir())
		if resolveErr != nil {
			fmt.Fprintf(os.Stderr, "failed to update %s: %v\n", name, resolveErr)
			return 1
		}
		if err := installer.Install(resolved); err != nil {
			fmt.Fprintf(os.Stderr, "failed to install %s: %v\n", name, err)
			return 1
		}
		lock.Upsert(resolved)
		fmt.Fprintf(os.Stdout, "Updated %s %s\n", name, resolved.Version)
	}
	pruneLockedPackages(lock, manifest)

	lockPath := filepath.Join(manifest.Dir(), driver.LockName)
	if err := driver.WriteLockfile(lock, lockPath); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write lockfile: %v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stdout, "Updated %s: %s\n", driver.LockName, lockPath)
	return 0
}

// pruneLockedPackages drops lock entries for dependencies no longer in the
// manifest. Reports whether anything was removed.
func pruneLockedPackages(lock *driver.Lockfile, manifest *driver.Manifest) bool {
	kept := lock.Packages[:0]
	pruned := false
	for _, pkg := range lock.Packages {
		if pkg == nil {
			continue
		}
		if _, ok := manifest.Dependencies[pkg.Name]; ok {
			kept = append(kept, pkg)
		} else {
			pruned = true
		}
	}
	lock.Packages = kept
	return pruned
}

func loadNearestManifest() (*driver.Manifest, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}
	path, ok := driver.FindManifest(cwd)
	if !ok {
		return nil, fmt.Errorf("no %s found from %s upwards: %w", driver.ManifestName, cwd, errManifestNotFound)
	}
	return driver.LoadManifest(path)
}

func loadOrCreateLockfile(manifest *driver.Manifest) (*driver.Lockfile, bool, error) {
	lockPath := filepath.Join(manifest.Dir(), driver.LockName)
	lock, err := driver.LoadLockfile(lockPath)
	switch {
	case err == nil:
		if lock.Root != manifest.Name {
			return nil, false, fmt.Errorf("lockfile root %q does not match manifest name %q", lock.Root, manifest.Name)
		}
		lock.Tool = cliToolVersion
		return lock, false, nil
	case errors.Is(err, os.ErrNotExist):
		lock = driver.NewLockfile(manifest.Name, cliToolVersion)
		lock.Path = lockPath
		return lock, true, nil
	default:
		return nil, false, fmt.Errorf("failed to read lockfile: %w", err)
	}
}

// packageRoot resolves the shared package cache, honoring EMBER_HOME.
func packageRoot() (string, error) {
	if home := strings.TrimSpace(os.Getenv("EMBER_HOME")); home != "" {
		abs, err := filepath.Abs(home)
		if err != nil {
			return "", fmt.Errorf("resolve EMBER_HOME %q: %w", home, err)
		}
		return filepath.Join(abs, "pkg"), nil
	}
	return driver.DefaultPkgRoot()
}

func newLoader() *driver.Loader {
	loader := driver.NewLoader()
	if root, err := packageRoot(); err == nil {
		loader.PkgRoot = root
	}
	return loader
}

func newInstaller() (*driver.Installer, error) {
	root, err := packageRoot()
	if err != nil {
		return nil, err
	}
	return &driver.Installer{Root: root}, nil
}

func sortedDepNames(deps map[string]*driver.DependencySpec) []string {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func looksLikePathCandidate(arg string) bool {
	if arg == "" {
		return false
	}
	if strings.Contains(arg, "/") || strings.Contains(arg, "\\") {
		return true
	}
	if filepath.Ext(arg) == ".ember" {
		return true
	}
	return strings.HasPrefix(arg, ".")
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  ember run [target|file.ember] [--watch]")
	fmt.Fprintln(os.Stderr, "  ember <file.ember>")
	fmt.Fprintln(os.Stderr, "  ember shell")
	fmt.Fprintln(os.Stderr, "  ember init <name>")
	fmt.Fprintln(os.Stderr, "  ember get <url[@version]>")
	fmt.Fprintln(os.Stderr, "  ember deps install")
	fmt.Fprintln(os.Stderr, "  ember deps update [dependency ...]")
	fmt.Fprintln(os.Stderr, "  ember version")
}
