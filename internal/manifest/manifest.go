// Package manifest writes the per-component descriptor and the workspace
// index manifest.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/material-cli/material/internal/component"
	oerrors "github.com/material-cli/material/internal/errors"
	"github.com/material-cli/material/internal/runtime"
)

// File names written by this package.
const (
	DescriptorFile = "component.json"
	IndexFile      = "material.manifest.json"
)

// ManifestWriteError reports a manifest that could not be written.
type ManifestWriteError struct {
	Path  string
	Cause error
}

func (e *ManifestWriteError) Error() string {
	return fmt.Sprintf("writing manifest %s: %v", e.Path, e.Cause)
}

func (e *ManifestWriteError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is(err, errors.ErrManifest) match.
func (e *ManifestWriteError) Is(target error) bool {
	return target == oerrors.ErrManifest
}

// Repository is the workspace metadata heading the index manifest.
type Repository struct {
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description,omitempty"`
}

// Catalog is the fixed block telling catalog consumers how to read the package.
type Catalog struct {
	Schema        string `json:"schema"`
	Runtimes      []int  `json:"runtimes"`
	ComponentsDir string `json:"componentsDir"`
	Entry         string `json:"entry"`
	Style         string `json:"style"`
}

// DefaultCatalog is the catalog block every index carries.
func DefaultCatalog() Catalog {
	rts := make([]int, 0, 2)
	for _, v := range runtime.All() {
		rts = append(rts, int(v))
	}
	return Catalog{
		Schema:        "material.manifest/v1",
		Runtimes:      rts,
		ComponentsDir: "components",
		Entry:         "index.mjs",
		Style:         "style.js",
	}
}

// Index is the document written to material.manifest.json.
type Index struct {
	Name        string            `json:"name"`
	Version     string            `json:"version"`
	Description string            `json:"description,omitempty"`
	Catalog     Catalog           `json:"catalog"`
	Digest      string            `json:"digest"`
	Components  []json.RawMessage `json:"components"`
}

// WriteDescriptor writes the build-stripped descriptor to dir/component.json.
func WriteDescriptor(dir string, d *component.Descriptor) (string, error) {
	path := filepath.Join(dir, DescriptorFile)

	pub, err := d.Public()
	if err != nil {
		return "", &ManifestWriteError{Path: path, Cause: err}
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, pub, "", "  "); err != nil {
		return "", &ManifestWriteError{Path: path, Cause: err}
	}
	buf.WriteByte('\n')

	if err := writeFile(path, buf.Bytes()); err != nil {
		return "", &ManifestWriteError{Path: path, Cause: err}
	}
	return path, nil
}

// WriteIndex writes repository metadata, the catalog block and every
// stripped descriptor, in the given order, to path.
func WriteIndex(path string, repo Repository, descs []*component.Descriptor) error {
	idx := Index{
		Name:        repo.Name,
		Version:     repo.Version,
		Description: repo.Description,
		Catalog:     DefaultCatalog(),
		Components:  make([]json.RawMessage, 0, len(descs)),
	}

	for _, d := range descs {
		pub, err := d.Public()
		if err != nil {
			return &ManifestWriteError{Path: path, Cause: fmt.Errorf("%s: %w", d.ID, err)}
		}
		idx.Components = append(idx.Components, pub)
	}

	digest, err := ComputeDigest(descs)
	if err != nil {
		return &ManifestWriteError{Path: path, Cause: err}
	}
	idx.Digest = digest

	data, err := json.MarshalIndent(idx, "", "  ")
	if err != nil {
		return &ManifestWriteError{Path: path, Cause: err}
	}
	data = append(data, '\n')

	if err := writeFile(path, data); err != nil {
		return &ManifestWriteError{Path: path, Cause: err}
	}
	return nil
}

// ReadRepository reads name, version and description from root/package.json.
// Non-empty fields of override win. A missing package.json is not an error:
// the name falls back to the directory name and the version to 0.0.0.
func ReadRepository(root string, override Repository) (Repository, error) {
	repo := Repository{Name: filepath.Base(root), Version: "0.0.0"}

	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	switch {
	case err == nil:
		if !gjson.ValidBytes(data) {
			return Repository{}, fmt.Errorf("%s: invalid JSON", filepath.Join(root, "package.json"))
		}
		fields := gjson.GetManyBytes(data, "name", "version", "description")
		if fields[0].String() != "" {
			repo.Name = fields[0].String()
		}
		if fields[1].String() != "" {
			repo.Version = fields[1].String()
		}
		repo.Description = fields[2].String()
	case !os.IsNotExist(err):
		return Repository{}, fmt.Errorf("reading package.json: %w", err)
	}

	if override.Name != "" {
		repo.Name = override.Name
	}
	if override.Version != "" {
		repo.Version = override.Version
	}
	if override.Description != "" {
		repo.Description = override.Description
	}
	return repo, nil
}

// writeFile writes data next to path and renames it into place.
func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return nil
}
