package bundle

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/Aidin1998/algohost/internal/manifest"
	"github.com/Aidin1998/algohost/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeRequirements(t *testing.T) {
	merged, err := MergeRequirements(
		strings.NewReader("qiskit==0.45\n\nnumpy\r\nqiskit==0.45\n"),
		strings.NewReader("flask\nnumpy\n  \nrequests\n"),
	)
	require.NoError(t, err)
	assert.Equal(t, "qiskit==0.45\nnumpy\nflask\nrequests\n", merged)

	merged, err = MergeRequirements(nil, strings.NewReader("flask"))
	require.NoError(t, err)
	assert.Equal(t, "flask\n", merged)
}

func writeArtifact(t *testing.T, root, name, props string, files map[string]string) {
	t.Helper()
	if props != "" {
		testutil.WriteFile(t, root, filepath.Join(name, PropertiesFile), props)
	}
	for file, content := range files {
		testutil.WriteFile(t, root, filepath.Join(name, file), content)
	}
}

func testCatalogDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeArtifact(t, root, "shor-qiskit-b", "provider: ibmq\nimplements_algorithm: Shor_general\n", nil)
	writeArtifact(t, root, "shor-qiskit-a", "provider: ibmq\nimplements_algorithm: Shor_general\n", map[string]string{
		"impl.py":        "def run(N): ...\n",
		"lib/helpers.py": "X = 1\n",
		RequirementsFile: "qiskit\nnumpy\n",
	})
	writeArtifact(t, root, "shor-rigetti", "provider: rigetti\nimplements_algorithm: Shor_general\n", nil)
	writeArtifact(t, root, "notes", "", map[string]string{"README": "not an artifact"})
	testutil.WriteFile(t, root, "index.txt", "x")
	return root
}

func TestLoadCatalogAndSelect(t *testing.T) {
	catalog, err := LoadCatalog(testCatalogDir(t))
	require.NoError(t, err)
	require.Len(t, catalog.Artifacts, 3)

	a, err := catalog.Select("ibmq", "Shor_general")
	require.NoError(t, err)
	assert.Equal(t, "shor-qiskit-a", a.Name)
	assert.Equal(t, "ibmq", a.Provider)

	a, err = catalog.Select("rigetti", "Shor_general")
	require.NoError(t, err)
	assert.Equal(t, "shor-rigetti", a.Name)

	_, err = catalog.Select("ionq", "Shor_general")
	assert.ErrorIs(t, err, ErrNoArtifact)
}

type lastByName struct{}

func (lastByName) SelectOne(candidates []Artifact) Artifact {
	return candidates[len(candidates)-1]
}

func TestSelectCustomStrategy(t *testing.T) {
	catalog, err := LoadCatalog(testCatalogDir(t))
	require.NoError(t, err)
	catalog.Strategy = lastByName{}

	a, err := catalog.Select("ibmq", "Shor_general")
	require.NoError(t, err)
	assert.Equal(t, "shor-qiskit-b", a.Name)
}

func TestLoadCatalogErrors(t *testing.T) {
	_, err := LoadCatalog(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	root := t.TempDir()
	writeArtifact(t, root, "incomplete", "provider: ibmq\n", nil)
	_, err = LoadCatalog(root)
	assert.ErrorContains(t, err, "implements_algorithm")
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	files := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		content, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		files[f.Name] = string(content)
	}
	return files
}

func TestWriterWrite(t *testing.T) {
	catalog, err := LoadCatalog(testCatalogDir(t))
	require.NoError(t, err)
	artifact, err := catalog.Select("ibmq", "Shor_general")
	require.NoError(t, err)

	m := &manifest.Manifest{
		ServiceName:     manifest.ServiceNameFromAlgorithm("Shor_general"),
		Parameters:      []manifest.Parameter{{Name: "N", Type: manifest.TypeInteger}},
		Implementations: []manifest.Implementation{{ID: "shor-qiskit-a", Name: "Shor", Framework: "qiskit"}},
		Requirements:    []string{"numpy", "scipy"},
	}
	w := &Writer{
		Templates: fstest.MapFS{
			"base.html":    {Data: []byte("base")},
			"service.html": {Data: []byte("service")},
		},
		BaseRequirements: []string{"flask"},
	}

	var buf bytes.Buffer
	require.NoError(t, w.Write(&buf, m, artifact))
	files := readZip(t, buf.Bytes())

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{
		"Shor/impl.py",
		"Shor/lib/helpers.py",
		"Shor/manifest.yaml",
		"Shor/requirements.txt",
		"Shor/templates/base.html",
		"Shor/templates/service.html",
	}, names)

	assert.Equal(t, "qiskit\nnumpy\nscipy\nflask\n", files["Shor/requirements.txt"])
	assert.Equal(t, "service", files["Shor/templates/service.html"])

	decoded, err := manifest.ParseYAML(strings.NewReader(files["Shor/manifest.yaml"]))
	require.NoError(t, err)
	assert.Equal(t, m.ServiceName, decoded.ServiceName)
	assert.Equal(t, m.Implementations, decoded.Implementations)
}

func TestWriterRejectsInvalidManifest(t *testing.T) {
	var buf bytes.Buffer
	err := (&Writer{}).Write(&buf, &manifest.Manifest{}, Artifact{Dir: t.TempDir()})
	assert.ErrorIs(t, err, manifest.ErrInvalid)
	assert.Zero(t, buf.Len())
}

func TestWriterRejectsEscapingServiceName(t *testing.T) {
	m := &manifest.Manifest{
		ServiceName:     "../escape",
		Implementations: []manifest.Implementation{{ID: "x", Name: "X"}},
	}
	var buf bytes.Buffer
	err := (&Writer{}).Write(&buf, m, Artifact{Dir: t.TempDir()})
	assert.ErrorIs(t, err, manifest.ErrInvalid)
	assert.ErrorContains(t, err, "path separators")
	assert.Zero(t, buf.Len())
}
