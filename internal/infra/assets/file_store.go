package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileStore keeps assets on local disk and serves them under baseURL.
type FileStore struct {
	root    string
	baseURL string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(root, baseURL string) *FileStore {
	return &FileStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *FileStore) Put(ctx context.Context, name string, content io.Reader) (string, error) {
	path := filepath.Join(s.root, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if _, err := io.Copy(f, content); err != nil {
		os.Remove(path)
		return "", err
	}
	return s.baseURL + "/" + name, nil
}

func (s *FileStore) Delete(ctx context.Context, uri string) error {
	name, ok := strings.CutPrefix(uri, s.baseURL+"/")
	if !ok {
		return fmt.Errorf("asset uri %q does not belong to this store", uri)
	}
	return os.Remove(filepath.Join(s.root, filepath.FromSlash(name)))
}
