package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes files into Dir and serves them under PublicURL.
type LocalStore struct {
	Dir       string
	PublicURL string
}

func NewLocalStore(dir, publicURL string) *LocalStore {
	return &LocalStore{Dir: dir, PublicURL: strings.TrimRight(publicURL, "/")}
}

func (s *LocalStore) Put(_ context.Context, name string, data []byte, _ string) (string, error) {
	if !validName(name) {
		return "", fmt.Errorf("geçersiz dosya adı: %q", name)
	}
	// Klasörü oluştur (yoksa)
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("klasör oluşturulamadı: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.Dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("dosya yazılamadı: %w", err)
	}
	return s.PublicURL + "/" + name, nil
}

func (s *LocalStore) Owns(url string) bool {
	name, ok := strings.CutPrefix(url, s.PublicURL+"/")
	return ok && validName(name)
}

func (s *LocalStore) Delete(_ context.Context, url string) error {
	if !s.Owns(url) {
		return ErrForeignURL
	}
	name := strings.TrimPrefix(url, s.PublicURL+"/")
	err := os.Remove(filepath.Join(s.Dir, name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("dosya silinemedi: %w", err)
	}
	return nil
}

// validName rejects anything that could leave the upload directory.
func validName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}
