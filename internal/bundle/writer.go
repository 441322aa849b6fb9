// Package bundle packages a service manifest, its page templates and an
// implementation artifact into a deployable zip archive.
package bundle

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Aidin1998/algohost/internal/manifest"
	"go.uber.org/zap"
)

// RequirementsFile is merged rather than copied from an artifact.
const RequirementsFile = "requirements.txt"

// Writer writes service bundles.
type Writer struct {
	// Templates is copied to templates/ inside the bundle when set.
	Templates fs.FS
	// BaseRequirements are appended after the artifact's own requirements.
	BaseRequirements []string
	Logger           *zap.Logger
}

// Write streams a zip with every entry rooted at the service name of m.
func (bw *Writer) Write(w io.Writer, m *manifest.Manifest, artifact Artifact) error {
	if err := m.Validate(); err != nil {
		return err
	}
	logger := bw.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	root := m.ServiceName
	zw := zip.NewWriter(w)

	var buf bytes.Buffer
	if err := m.Encode(&buf); err != nil {
		return err
	}
	if err := writeEntry(zw, path.Join(root, "manifest.yaml"), &buf); err != nil {
		return err
	}

	if bw.Templates != nil {
		if err := copyFS(zw, path.Join(root, "templates"), bw.Templates); err != nil {
			return fmt.Errorf("copy templates: %w", err)
		}
	}

	requirements, err := bw.requirements(m, artifact)
	if err != nil {
		return err
	}
	if err := writeEntry(zw, path.Join(root, RequirementsFile), strings.NewReader(requirements)); err != nil {
		return err
	}

	if err := copyFS(zw, root, os.DirFS(artifact.Dir), PropertiesFile, RequirementsFile); err != nil {
		return fmt.Errorf("copy artifact %s: %w", artifact.Name, err)
	}

	logger.Info("Bundle written",
		zap.String("service", m.ServiceName),
		zap.String("artifact", artifact.Name),
		zap.String("provider", artifact.Provider))
	return zw.Close()
}

func (bw *Writer) requirements(m *manifest.Manifest, artifact Artifact) (string, error) {
	base := append(append([]string{}, m.Requirements...), bw.BaseRequirements...)
	rest := strings.NewReader(strings.Join(base, "\n"))

	own, err := os.Open(filepath.Join(artifact.Dir, RequirementsFile))
	if errors.Is(err, os.ErrNotExist) {
		return MergeRequirements(nil, rest)
	}
	if err != nil {
		return "", err
	}
	defer own.Close()
	return MergeRequirements(own, rest)
}

// copyFS writes every regular file of fsys under prefix, skipping top-level
// files named in skip.
func copyFS(zw *zip.Writer, prefix string, fsys fs.FS, skip ...string) error {
	return fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		for _, s := range skip {
			if name == s {
				return nil
			}
		}
		f, err := fsys.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		return writeEntry(zw, path.Join(prefix, name), f)
	})
}

func writeEntry(zw *zip.Writer, name string, r io.Reader) error {
	fw, err := zw.Create(name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(fw, r); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
