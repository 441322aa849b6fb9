package bundle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// PropertiesFile holds the selection properties of an artifact directory.
const PropertiesFile = "artifact.yaml"

// ErrNoArtifact is returned when no artifact matches a selection.
var ErrNoArtifact = errors.New("no matching artifact")

// Artifact is a directory of implementation files for one provider and
// algorithm.
type Artifact struct {
	Name                string `yaml:"-"`
	Provider            string `yaml:"provider"`
	ImplementsAlgorithm string `yaml:"implements_algorithm"`
	Dir                 string `yaml:"-"`
}

// SelectionStrategy picks one artifact out of several matching candidates.
type SelectionStrategy interface {
	SelectOne(candidates []Artifact) Artifact
}

// FirstByName selects the candidate whose name sorts first.
type FirstByName struct{}

func (FirstByName) SelectOne(candidates []Artifact) Artifact {
	best := candidates[0]
	for _, a := range candidates[1:] {
		if a.Name < best.Name {
			best = a
		}
	}
	return best
}

// Catalog is the set of artifacts a bundle can be built from.
type Catalog struct {
	Artifacts []Artifact
	Strategy  SelectionStrategy
}

// LoadCatalog reads every subdirectory of dir that carries an
// artifact.yaml. Other entries are ignored.
func LoadCatalog(dir string) (*Catalog, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	catalog := &Catalog{}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		artifactDir := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(filepath.Join(artifactDir, PropertiesFile))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, err
		}

		var a Artifact
		if err := yaml.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("artifact %s: %w", entry.Name(), err)
		}
		if a.Provider == "" || a.ImplementsAlgorithm == "" {
			return nil, fmt.Errorf("artifact %s: provider and implements_algorithm are required", entry.Name())
		}
		a.Name = entry.Name()
		a.Dir = artifactDir
		catalog.Artifacts = append(catalog.Artifacts, a)
	}
	sort.Slice(catalog.Artifacts, func(i, j int) bool {
		return catalog.Artifacts[i].Name < catalog.Artifacts[j].Name
	})
	return catalog, nil
}

// Select returns the artifact for provider that implements algorithm.
func (c *Catalog) Select(provider, algorithm string) (Artifact, error) {
	var candidates []Artifact
	for _, a := range c.Artifacts {
		if a.Provider == provider && a.ImplementsAlgorithm == algorithm {
			candidates = append(candidates, a)
		}
	}
	if len(candidates) == 0 {
		return Artifact{}, fmt.Errorf("%w for provider %q and algorithm %q", ErrNoArtifact, provider, algorithm)
	}

	strategy := c.Strategy
	if strategy == nil {
		strategy = FirstByName{}
	}
	return strategy.SelectOne(candidates), nil
}
