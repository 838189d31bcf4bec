package artifact

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store used by tests and local tooling.
type MemoryStore struct {
	mu      sync.RWMutex
	bucket  string
	objects map[string]memObject
}

type memObject struct {
	data        []byte
	contentType string
	modified    time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(bucket string) *MemoryStore {
	return &MemoryStore{
		bucket:  bucket,
		objects: make(map[string]memObject),
	}
}

func (s *MemoryStore) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (*Artifact, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.objects[key] = memObject{data: data, contentType: contentType, modified: time.Now()}
	s.mu.Unlock()

	return &Artifact{
		Key:          key,
		Bucket:       s.bucket,
		Size:         int64(len(data)),
		ContentType:  contentType,
		LastModified: time.Now(),
	}, nil
}

func (s *MemoryStore) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	s.mu.RLock()
	obj, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(obj.data)), nil
}

func (s *MemoryStore) PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return "", ErrNotFound
	}
	return fmt.Sprintf("memory://%s/%s?expires=%d", s.bucket, key, int(expiry.Seconds())), nil
}

func (s *MemoryStore) List(ctx context.Context, prefix string) ([]*Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var artifacts []*Artifact
	for key, obj := range s.objects {
		if strings.HasPrefix(key, prefix) {
			artifacts = append(artifacts, &Artifact{
				Key:          key,
				Bucket:       s.bucket,
				Size:         int64(len(obj.data)),
				ContentType:  obj.contentType,
				LastModified: obj.modified,
			})
		}
	}
	sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].Key < artifacts[j].Key })
	return artifacts, nil
}

func (s *MemoryStore) CheckBucket(ctx context.Context) error { return nil }

func (s *MemoryStore) EnsureBucket(ctx context.Context) error { return nil }

// Len reports the number of stored objects.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
