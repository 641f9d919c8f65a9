// Package memstore is an object store kept in process memory.
package memstore

import (
	"context"
	"io"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/classhub/core/gateway"
)

type Object struct {
	ContentType string
	Data        []byte
}

type Store struct {
	baseURL string
	objects map[string]Object
	mutex   sync.RWMutex
}

var _ gateway.FileStore = (*Store)(nil) // interface compliance check

func New(baseURL string) *Store {
	return &Store{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		objects: make(map[string]Object),
	}
}

func (s *Store) Put(ctx context.Context, path, contentType string, body io.Reader, size int64) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return errors.Wrap(err, "reading object")
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.objects[path] = Object{ContentType: contentType, Data: data}
	return nil
}

func (s *Store) URL(path string) string {
	return s.baseURL + "/" + path
}

// Get returns the object stored under path.
func (s *Store) Get(path string) (Object, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	obj, ok := s.objects[path]
	return obj, ok
}

// Paths lists the stored object paths.
func (s *Store) Paths() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	paths := make([]string, 0, len(s.objects))
	for p := range s.objects {
		paths = append(paths, p)
	}
	return paths
}
