package driver

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Well-known file names at a package root.
const (
	ManifestName = "package.yml"
	LockName     = "package.lock"
)

// Manifest models package.yml: the package identity, its runnable entry
// points and the dependency table.
type Manifest struct {
	Path         string
	Name         string
	Version      string
	License      string
	Authors      []string
	Entry        string
	Targets      map[string]string
	TargetOrder  []string
	Dependencies map[string]*DependencySpec

	targetEntries []targetMapEntry
}

// DependencySpec describes one dependency source: a git URL pinned by rev,
// tag or branch, a local path override, or a bare version fetched from the
// host named by the dependency key.
type DependencySpec struct {
	Version string
	Git     string
	Rev     string
	Tag     string
	Branch  string
	Path    string
}

// ValidationError aggregates manifest validation failures so a broken
// manifest reports every issue in one pass.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// NewManifest returns the scaffold manifest written by `ember init`.
func NewManifest(name string) *Manifest {
	return &Manifest{
		Name:         strings.TrimSpace(name),
		Version:      "0.1.0",
		Entry:        "src/main.ember",
		Targets:      map[string]string{},
		Dependencies: map[string]*DependencySpec{},
	}
}

// LoadManifest parses package.yml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
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

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
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

// FindManifest walks from dir toward the filesystem root and reports the
// nearest package.yml.
func FindManifest(dir string) (string, bool) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Dir returns the directory holding the manifest file.
func (m *Manifest) Dir() string {
	if m == nil || m.Path == "" {
		return ""
	}
	return filepath.Dir(m.Path)
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}
	if m.Version == "" {
		errs.Issues = append(errs.Issues, "version must be provided")
	}
	for i, author := range m.Authors {
		if author == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("authors[%d] must be a non-empty string", i))
		}
	}

	targetNames := make(map[string]string, len(m.targetEntries))
	for _, entry := range m.targetEntries {
		if entry.name == "" {
			errs.Issues = append(errs.Issues, "targets must not use empty keys")
			continue
		}
		key := sanitizeSegment(entry.name)
		if other, exists := targetNames[key]; exists {
			errs.Issues = append(errs.Issues, fmt.Sprintf("targets %q and %q collide after sanitization", other, entry.name))
		} else {
			targetNames[key] = entry.name
		}
		if entry.main == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("target %q missing an entry file", entry.name))
		}
	}

	for _, depName := range sortedDependencyNames(m.Dependencies) {
		dep := m.Dependencies[depName]
		if dep == nil {
			continue
		}
		for _, issue := range dep.validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: %s", depName, issue))
		}
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

var ErrNoEntryTarget = errors.New("manifest: no entry target defined")

// EntryFor resolves a target name to its entry file, joined onto the
// manifest directory when relative. An empty name selects the top-level
// entry, falling back to the first declared target.
func (m *Manifest) EntryFor(name string) (string, error) {
	if m == nil {
		return "", ErrNoEntryTarget
	}
	name = strings.TrimSpace(name)
	if name == "" {
		if m.Entry != "" {
			return m.entryPath(m.Entry), nil
		}
		if len(m.TargetOrder) > 0 {
			return m.entryPath(m.Targets[m.TargetOrder[0]]), nil
		}
		return "", ErrNoEntryTarget
	}
	if main, ok := m.FindTarget(name); ok {
		return m.entryPath(main), nil
	}
	return "", fmt.Errorf("manifest: unknown target %q", name)
}

// FindTarget looks up a target entry file by name, tolerating the
// hyphen/underscore spelling difference.
func (m *Manifest) FindTarget(name string) (string, bool) {
	if m == nil {
		return "", false
	}
	name = strings.TrimSpace(name)
	if main, ok := m.Targets[name]; ok {
		return main, true
	}
	key := sanitizeSegment(name)
	if key == "" {
		return "", false
	}
	for _, target := range m.TargetOrder {
		if sanitizeSegment(target) == key {
			return m.Targets[target], true
		}
	}
	return "", false
}

func (m *Manifest) entryPath(rel string) string {
	if filepath.IsAbs(rel) || m.Path == "" {
		return rel
	}
	return filepath.Join(m.Dir(), rel)
}

// SetDependency adds or replaces a dependency entry.
func (m *Manifest) SetDependency(name string, dep *DependencySpec) {
	if m.Dependencies == nil {
		m.Dependencies = map[string]*DependencySpec{}
	}
	m.Dependencies[strings.TrimSpace(name)] = dep.clone()
}

// Save writes the manifest as deterministic YAML: fixed key order, targets
// in declaration order, dependencies sorted by name.
func (m *Manifest) Save(path string) error {
	if m == nil {
		return fmt.Errorf("manifest: nil manifest")
	}
	if path == "" {
		if m.Path == "" {
			return fmt.Errorf("manifest: missing path")
		}
		path = m.Path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("manifest: resolve %s: %w", path, err)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m.toNode()); err != nil {
		return fmt.Errorf("manifest: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("manifest: encoder close: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("manifest: write %s: %w", abs, err)
	}
	m.Path = abs
	return nil
}

func (m *Manifest) toNode() *yaml.Node {
	root := &yaml.Node{Kind: yaml.MappingNode}
	appendPair(root, "name", scalarNode(m.Name))
	appendPair(root, "version", scalarNode(m.Version))
	if m.License != "" {
		appendPair(root, "license", scalarNode(m.License))
	}
	if len(m.Authors) > 0 {
		authors := &yaml.Node{Kind: yaml.SequenceNode}
		for _, author := range m.Authors {
			authors.Content = append(authors.Content, scalarNode(author))
		}
		appendPair(root, "authors", authors)
	}
	if m.Entry != "" {
		appendPair(root, "entry", scalarNode(m.Entry))
	}
	if len(m.TargetOrder) > 0 {
		targets := &yaml.Node{Kind: yaml.MappingNode}
		for _, name := range m.TargetOrder {
			appendPair(targets, name, scalarNode(m.Targets[name]))
		}
		appendPair(root, "targets", targets)
	}
	if len(m.Dependencies) > 0 {
		deps := &yaml.Node{Kind: yaml.MappingNode}
		for _, name := range sortedDependencyNames(m.Dependencies) {
			if dep := m.Dependencies[name]; dep != nil {
				appendPair(deps, name, dep.toNode())
			}
		}
		appendPair(root, "dependencies", deps)
	}
	return root
}

func (d *DependencySpec) toNode() *yaml.Node {
	if d.Git == "" && d.Rev == "" && d.Tag == "" && d.Branch == "" && d.Path == "" {
		return scalarNode(d.Version)
	}
	node := &yaml.Node{Kind: yaml.MappingNode}
	if d.Git != "" {
		appendPair(node, "git", scalarNode(d.Git))
	}
	if d.Rev != "" {
		appendPair(node, "rev", scalarNode(d.Rev))
	}
	if d.Tag != "" {
		appendPair(node, "tag", scalarNode(d.Tag))
	}
	if d.Branch != "" {
		appendPair(node, "branch", scalarNode(d.Branch))
	}
	if d.Path != "" {
		appendPair(node, "path", scalarNode(d.Path))
	}
	return node
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func appendPair(mapping *yaml.Node, key string, value *yaml.Node) {
	mapping.Content = append(mapping.Content, scalarNode(key), value)
}

func sortedDependencyNames(deps map[string]*DependencySpec) []string {
	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (d *DependencySpec) validate() []string {
	var errs []string
	if d == nil {
		return errs
	}

	if d.Path != "" && (d.Version != "" || d.Git != "" || d.Rev != "" || d.Tag != "" || d.Branch != "") {
		errs = append(errs, "a path override excludes every other field")
		return errs
	}

	pins := 0
	for _, pin := range []string{d.Rev, d.Tag, d.Branch} {
		if pin != "" {
			pins++
		}
	}
	if pins > 1 {
		errs = append(errs, "rev, tag and branch are mutually exclusive")
	}
	if pins > 0 && d.Git == "" {
		errs = append(errs, "rev, tag or branch needs a git source")
	}
	if d.Git != "" && d.Version != "" {
		errs = append(errs, "git sources pin with rev, tag or branch, not version")
	}
	if d.Git == "" && d.Path == "" && d.Version == "" {
		errs = append(errs, "needs a version, git or path source")
	}
	if d.Version != "" && !isValidVersionConstraint(d.Version) {
		errs = append(errs, fmt.Sprintf("invalid version constraint %q", d.Version))
	}
	return errs
}

var versionConstraintPattern = regexp.MustCompile(`^(~>|>=|<=|>|<|=|\^)?\s*[0-9]+(\.[0-9]+){0,2}([0-9A-Za-z\-\+\.]*)?$`)

func isValidVersionConstraint(input string) bool {
	s := strings.TrimSpace(input)
	if s == "" {
		return false
	}
	if s == "*" || s == "HEAD" {
		return true
	}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" || !versionConstraintPattern.MatchString(part) {
			return false
		}
	}
	return true
}

// sanitizeSegment folds a manifest key into identifier form.
func sanitizeSegment(seg string) string {
	seg = strings.TrimSpace(seg)
	seg = strings.ReplaceAll(seg, "-", "_")
	return seg
}

type manifestFile struct {
	Name         string        `yaml:"name"`
	Version      string        `yaml:"version"`
	License      string        `yaml:"license"`
	Authors      stringList    `yaml:"authors"`
	Entry        string        `yaml:"entry"`
	Targets      targetMap     `yaml:"targets"`
	Dependencies dependencyMap `yaml:"dependencies"`
}

func (mf manifestFile) toManifest(path string) *Manifest {
	capacity := len(mf.Targets.items)
	result := &Manifest{
		Path:          path,
		Name:          strings.TrimSpace(mf.Name),
		Version:       strings.TrimSpace(mf.Version),
		License:       strings.TrimSpace(mf.License),
		Authors:       mf.Authors.Clone(),
		Entry:         strings.TrimSpace(mf.Entry),
		Targets:       make(map[string]string, capacity),
		TargetOrder:   make([]string, 0, capacity),
		Dependencies:  cloneDependencyMap(mf.Dependencies),
		targetEntries: mf.Targets.items,
	}
	for _, item := range mf.Targets.items {
		if item.name == "" {
			continue
		}
		if _, exists := result.Targets[item.name]; exists {
			continue
		}
		result.Targets[item.name] = item.main
		result.TargetOrder = append(result.TargetOrder, item.name)
	}
	return result
}

// targetMap preserves the declaration order of targets, which picks the
// default entry when the manifest has no top-level entry.
type targetMap struct {
	items []targetMapEntry
}

type targetMapEntry struct {
	name string
	main string
}

func (tm *targetMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 {
		tm.items = nil
		return nil
	}
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		tm.items = nil
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: targets must be a mapping")
	}
	items := make([]targetMapEntry, 0, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valueNode := value.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if valueNode.Kind != yaml.ScalarNode {
			return fmt.Errorf("manifest: target %q: expected an entry file path", key)
		}
		items = append(items, targetMapEntry{
			name: key,
			main: strings.TrimSpace(valueNode.Value),
		})
	}
	tm.items = items
	return nil
}

type dependencyMap map[string]*DependencySpec

func (dm *dependencyMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == 0 {
		*dm = make(dependencyMap)
		return nil
	}
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		*dm = make(dependencyMap)
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("manifest: dependencies must be a mapping")
	}
	result := make(dependencyMap, len(value.Content)/2)
	for i := 0; i < len(value.Content); i += 2 {
		keyNode := value.Content[i]
		valNode := value.Content[i+1]

		var key string
		if err := keyNode.Decode(&key); err != nil {
			return err
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("manifest: dependency names must be non-empty")
		}
		var dep DependencySpec
		if err := dep.unmarshalYAML(valNode); err != nil {
			return fmt.Errorf("manifest: dependency %q: %w", key, err)
		}
		result[key] = dep.clone()
	}
	*dm = result
	return nil
}

func (d *DependencySpec) unmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*d = DependencySpec{}
			return nil
		}
		*d = DependencySpec{Version: strings.TrimSpace(value.Value)}
		return nil
	case yaml.MappingNode:
		*d = DependencySpec{}
		for i := 0; i < len(value.Content); i += 2 {
			keyNode := value.Content[i]
			valNode := value.Content[i+1]

			var key, val string
			if err := keyNode.Decode(&key); err != nil {
				return err
			}
			if err := valNode.Decode(&val); err != nil {
				return err
			}
			val = strings.TrimSpace(val)
			switch strings.TrimSpace(key) {
			case "version":
				d.Version = val
			case "git":
				d.Git = val
			case "rev":
				d.Rev = val
			case "tag":
				d.Tag = val
			case "branch":
				d.Branch = val
			case "path":
				d.Path = val
			default:
				return fmt.Errorf("line %d: unknown dependency field %q", keyNode.Line, key)
			}
		}
		return nil
	case yaml.AliasNode:
		return d.unmarshalYAML(value.Alias)
	default:
		return fmt.Errorf("expected string or mapping, found %s", value.ShortTag())
	}
}

func cloneDependencyMap(src dependencyMap) map[string]*DependencySpec {
	out := make(map[string]*DependencySpec, len(src))
	for name, dep := range src {
		if dep == nil {
			continue
		}
		out[name] = dep.clone()
	}
	return out
}

func (d *DependencySpec) clone() *DependencySpec {
	if d == nil {
		return nil
	}
	copy := *d
	return &copy
}

type stringList []string

func (l stringList) Clone() []string {
	if len(l) == 0 {
		return nil
	}
	out := make([]string, len(l))
	copy(out, l)
	return out
}

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		if value.Tag == "!!null" || strings.TrimSpace(value.Value) == "" {
			*l = nil
			return nil
		}
		*l = stringList{strings.TrimSpace(value.Value)}
		return nil
	case yaml.SequenceNode:
		items := make([]string, 0, len(value.Content))
		for _, node := range value.Content {
			var str string
			if err := node.Decode(&str); err != nil {
				return err
			}
			items = append(items, strings.TrimSpace(str))
		}
		*l = stringList(items)
		return nil
	case yaml.AliasNode:
		return l.UnmarshalYAML(value.Alias)
	case 0:
		*l = nil
		return nil
	default:
		return fmt.Errorf("manifest: expected string or sequence for list but found %s", value.ShortTag())
	}
}
