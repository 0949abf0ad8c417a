package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"brokerdesk/internal/docpath"
	"brokerdesk/internal/domain"
	"brokerdesk/internal/port"
)

var errInvalidKey = errors.New("invalid storage key")

type localStorage struct {
	fs afero.Fs
}

// NewLocalStorage creates a filesystem-backed ObjectStorage rooted at dir.
func NewLocalStorage(dir string) (port.ObjectStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage root %s: %w", dir, err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving storage root %s: %w", dir, err)
	}
	return New(afero.NewBasePathFs(afero.NewOsFs(), abs)), nil
}

// New creates an ObjectStorage over an arbitrary afero filesystem.
func New(fsys afero.Fs) port.ObjectStorage {
	return &localStorage{fs: fsys}
}

// name maps a storage key to a rooted filesystem path.
func name(key string) (string, error) {
	key = strings.TrimPrefix(key, "/")
	if key == "" {
		return "", errInvalidKey
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == ".." {
			return "", errInvalidKey
		}
	}
	return "/" + path.Clean(key), nil
}

func (s *localStorage) Upload(_ context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	p, err := name(input.Key)
	if err != nil {
		return nil, err
	}
	if err := s.fs.MkdirAll(path.Dir(p), 0o755); err != nil {
		return nil, fmt.Errorf("local upload mkdir: %w", err)
	}
	f, err := s.fs.Create(p)
	if err != nil {
		return nil, fmt.Errorf("local upload create: %w", err)
	}
	if _, err := io.Copy(f, input.Body); err != nil {
		_ = f.Close()
		_ = s.fs.Remove(p)
		return nil, fmt.Errorf("local upload write: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("local upload close: %w", err)
	}
	return &port.UploadOutput{Location: docpath.RefForKey(input.Key)}, nil
}

func (s *localStorage) Open(_ context.Context, key string) (*port.Object, error) {
	p, err := name(key)
	if err != nil {
		return nil, domain.ErrDocumentNotFound
	}
	info, err := s.fs.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("local open stat: %w", err)
	}
	if info.IsDir() {
		return nil, domain.ErrDocumentNotFound
	}
	f, err := s.fs.Open(p)
	if err != nil {
		return nil, fmt.Errorf("local open: %w", err)
	}
	contentType := mime.TypeByExtension(strings.ToLower(path.Ext(p)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &port.Object{Body: f, Size: info.Size(), ContentType: contentType}, nil
}

func (s *localStorage) Exists(_ context.Context, key string) (bool, error) {
	p, err := name(key)
	if err != nil {
		return false, nil
	}
	info, err := s.fs.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("local exists: %w", err)
	}
	return !info.IsDir(), nil
}

func (s *localStorage) List(_ context.Context, prefix string) ([]string, error) {
	root := "/" + strings.TrimPrefix(prefix, "/")
	if !strings.HasSuffix(root, "/") {
		root = path.Dir(root)
	}
	root = path.Clean(root)

	var keys []string
	err := afero.Walk(s.fs, root, func(p string, info fs.FileInfo, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		key := strings.TrimPrefix(filepath.ToSlash(p), "/")
		if strings.HasPrefix(key, strings.TrimPrefix(prefix, "/")) {
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("local list %s: %w", prefix, err)
	}
	return keys, nil
}

func (s *localStorage) Copy(_ context.Context, srcKey, dstKey string) error {
	src, err := name(srcKey)
	if err != nil {
		return err
	}
	dst, err := name(dstKey)
	if err != nil {
		return err
	}
	in, err := s.fs.Open(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.ErrDocumentNotFound
		}
		return fmt.Errorf("local copy open: %w", err)
	}
	defer in.Close()

	if err := s.fs.MkdirAll(path.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("local copy mkdir: %w", err)
	}
	out, err := s.fs.Create(dst)
	if err != nil {
		return fmt.Errorf("local copy create: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return fmt.Errorf("local copy write: %w", err)
	}
	return out.Close()
}

func (s *localStorage) Delete(_ context.Context, key string) error {
	p, err := name(key)
	if err != nil {
		return err
	}
	if err := s.fs.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("local delete: %w", err)
	}
	return nil
}

// GetPresignedURL returns the public uploads path of key. The local backend
// has no signing; the /uploads route serves only exact keys and the link does
// not expire.
func (s *localStorage) GetPresignedURL(_ context.Context, key string, _ int64) (string, error) {
	if _, err := name(key); err != nil {
		return "", err
	}
	return docpath.RefForKey(key), nil
}
