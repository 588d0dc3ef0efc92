package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/campath/engine/path"
	"gopkg.in/yaml.v3"
)

const yamlExt = ".yaml"

// yamlLoaderBackend stores one <id>.yaml document per path in a directory.
type yamlLoaderBackend struct {
	mu  sync.Mutex
	dir string
}

var _ loaderBackend = &yamlLoaderBackend{}

func newYAMLLoaderBackend(dir string) *yamlLoaderBackend {
	return &yamlLoaderBackend{dir: dir}
}

// DecodeYAML reads one path document from r.
// A document without an id takes fallbackID.
//
// Parameters:
//   - r: the YAML source
//   - fallbackID: the id used when the document has none
//
// Returns:
//   - *path.Path: the decoded path
//   - error: a wrapped decode or validation error
func DecodeYAML(r io.Reader, fallbackID string) (*path.Path, error) {
	var doc path.Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	if doc.ID == "" {
		doc.ID = fallbackID
	}
	return path.FromDocument(doc)
}

// EncodeYAML writes the document of p to w.
//
// Parameters:
//   - w: the destination
//   - p: the path
//
// Returns:
//   - error: a wrapped encode error
func EncodeYAML(w io.Writer, p *path.Path) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(p.Document()); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return enc.Close()
}

func (b *yamlLoaderBackend) Load(_ context.Context, id string) (*path.Path, error) {
	file, err := b.file(id)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(file)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeYAML(f, id)
}

func (b *yamlLoaderBackend) Save(_ context.Context, p *path.Path) error {
	file, err := b.file(p.ID())
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if stored, err := b.storedVersion(file); err != nil {
		return err
	} else if stored >= 0 && p.Version() <= stored {
		return fmt.Errorf("%w: %q stored at version %d, incoming %d", ErrConflict, p.ID(), stored, p.Version())
	}

	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("create path directory: %w", err)
	}
	tmp, err := os.CreateTemp(b.dir, "."+p.ID()+"-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := EncodeYAML(tmp, p); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), file); err != nil {
		return fmt.Errorf("replace %s: %w", file, err)
	}
	return nil
}

func (b *yamlLoaderBackend) Delete(_ context.Context, id string) error {
	file, err := b.file(id)
	if err != nil {
		return err
	}
	if err := os.Remove(file); errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	} else if err != nil {
		return err
	}
	return nil
}

func (b *yamlLoaderBackend) List(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || filepath.Ext(name) != yamlExt {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, yamlExt))
	}
	sort.Strings(ids)
	return ids, nil
}

// file maps an id to its document path, rejecting ids that would escape the directory.
func (b *yamlLoaderBackend) file(id string) (string, error) {
	if b.dir == "" {
		return "", errors.New("yaml loader backend has no directory")
	}
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("%w: id %q is not a valid file name", path.ErrInvalidPath, id)
	}
	return filepath.Join(b.dir, id+yamlExt), nil
}

// storedVersion returns the version of the document at file, or -1 if there is none.
func (b *yamlLoaderBackend) storedVersion(file string) (int64, error) {
	f, err := os.Open(file)
	if errors.Is(err, fs.ErrNotExist) {
		return -1, nil
	}
	if err != nil {
		return 0, err
	}
	defer f.Close()

	var head struct {
		Version int64 `yaml:"version"`
	}
	if err := yaml.NewDecoder(f).Decode(&head); err != nil {
		return 0, fmt.Errorf("read stored version of %s: %w", file, err)
	}
	return head.Version, nil
}
