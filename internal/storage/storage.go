package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultPresignedURLExpiry applies when a caller passes a non-positive expiry.
const DefaultPresignedURLExpiry = 15 * time.Minute

var (
	ErrObjectNotFound = errors.New("object not found in storage")
	ErrLinkExpired    = errors.New("artifact link has expired")
)

// ArtifactStorage stores generated artifacts and hands out temporary read links.
type ArtifactStorage interface {
	// PutObject uploads body under objectKey.
	PutObject(ctx context.Context, objectKey string, contentType string, body []byte) error

	// GeneratePresignedDownloadURL creates a temporary GET URL for objectKey.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	DeleteObject(ctx context.Context, objectKey string) error
}

// ArtifactKey builds a unique object key: generations/<owner>/<kind>/<uuid>.<ext>.
func ArtifactKey(ownerHex, kind, ext string) string {
	return path.Join("generations", ownerHex, kind, fmt.Sprintf("%s.%s", uuid.NewString(), ext))
}

type memoryObject struct {
	contentType string
	body        []byte
}

// MemoryStorage keeps artifacts in process. It backs local runs without S3 and tests.
// Its links carry an absolute unix expiry and are served by Open.
type MemoryStorage struct {
	mu      sync.RWMutex
	baseURL string
	now     func() time.Time
	objects map[string]memoryObject
}

// NewMemoryStorage builds links under baseURL. A nil now uses time.Now.
func NewMemoryStorage(baseURL string, now func() time.Time) *MemoryStorage {
	if now == nil {
		now = time.Now
	}
	return &MemoryStorage{baseURL: baseURL, now: now, objects: make(map[string]memoryObject)}
}

func (m *MemoryStorage) PutObject(_ context.Context, objectKey string, contentType string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(body))
	copy(cp, body)
	m.objects[objectKey] = memoryObject{contentType: contentType, body: cp}
	return nil
}

func (m *MemoryStorage) GeneratePresignedDownloadURL(_ context.Context, objectKey string, expires time.Duration) (string, error) {
	if expires <= 0 {
		expires = DefaultPresignedURLExpiry
	}
	m.mu.RLock()
	_, ok := m.objects[objectKey]
	m.mu.RUnlock()
	if !ok {
		return "", ErrObjectNotFound
	}
	q := url.Values{}
	q.Set("expires", strconv.FormatInt(m.now().Add(expires).Unix(), 10))
	return fmt.Sprintf("%s/%s?%s", m.baseURL, objectKey, q.Encode()), nil
}

func (m *MemoryStorage) DeleteObject(_ context.Context, objectKey string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.objects[objectKey]; !ok {
		return ErrObjectNotFound
	}
	delete(m.objects, objectKey)
	return nil
}

// Object returns a stored body and its content type.
func (m *MemoryStorage) Object(objectKey string) ([]byte, string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	obj, ok := m.objects[objectKey]
	return obj.body, obj.contentType, ok
}

// Open resolves a link produced by GeneratePresignedDownloadURL. expires is the
// raw query value.
func (m *MemoryStorage) Open(objectKey, expires string) ([]byte, string, error) {
	deadline, err := strconv.ParseInt(expires, 10, 64)
	if err != nil || m.now().Unix() > deadline {
		return nil, "", ErrLinkExpired
	}
	body, contentType, ok := m.Object(objectKey)
	if !ok {
		return nil, "", ErrObjectNotFound
	}
	return body, contentType, nil
}
