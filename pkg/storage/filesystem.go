package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/JaimeStill/lingua-web/pkg/lifecycle"
)

type filesystem struct {
	root      string
	maxSize   int64
	retention time.Duration
	logger    *slog.Logger
}

// New resolves cfg.BasePath to an absolute directory. The directory itself is
// created on startup.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	if cfg.BasePath == "" {
		return nil, fmt.Errorf("base_path required")
	}

	root, err := filepath.Abs(cfg.BasePath)
	if err != nil {
		return nil, fmt.Errorf("resolve base_path: %w", err)
	}

	return &filesystem{
		root:      root,
		maxSize:   cfg.MaxUploadSizeBytes(),
		retention: cfg.RetentionDuration(),
		logger:    logger.With("system", "storage"),
	}, nil
}

func (f *filesystem) Start(lc *lifecycle.Coordinator) error {
	f.logger.Info("starting storage", "root", f.root, "max_size", f.maxSize)

	lc.OnStartup(func() {
		if err := os.MkdirAll(f.root, 0o755); err != nil {
			f.logger.Error("storage init failed", "error", err)
		}
	})

	if f.retention > 0 {
		lc.OnShutdown(func() { f.purgeLoop(lc) })
	}
	return nil
}

// purgeLoop removes expired blobs every tenth of the retention period.
func (f *filesystem) purgeLoop(lc *lifecycle.Coordinator) {
	interval := max(f.retention/10, time.Minute)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-lc.Context().Done():
			return
		case <-ticker.C:
			n, err := f.PurgeOlderThan(lc.Context(), time.Now().Add(-f.retention))
			if err != nil {
				f.logger.Warn("blob purge failed", "error", err)
				continue
			}
			if n > 0 {
				f.logger.Info("expired blobs purged", "count", n)
			}
		}
	}
}

func (f *filesystem) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int, error) {
	var removed int
	err := filepath.WalkDir(f.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return mapFSError(err)
			}
			removed++
		}
		return nil
	})
	return removed, err
}

func (f *filesystem) MaxSize() int64 {
	return f.maxSize
}

func (f *filesystem) Store(ctx context.Context, key string, r io.Reader) (int64, error) {
	path, err := f.resolve(key)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return 0, fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	src := r
	if f.maxSize > 0 {
		src = io.LimitReader(r, f.maxSize+1)
	}

	n, err := io.Copy(tmp, src)
	closeErr := tmp.Close()
	if err != nil {
		return 0, fmt.Errorf("write blob: %w", err)
	}
	if closeErr != nil {
		return 0, fmt.Errorf("close blob: %w", closeErr)
	}
	if f.maxSize > 0 && n > f.maxSize {
		return 0, ErrTooLarge
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("commit blob: %w", err)
	}

	f.logger.Debug("blob stored", "key", key, "bytes", n)
	return n, nil
}

func (f *filesystem) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	path, err := f.resolve(key)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, mapFSError(err)
	}
	return file, nil
}

func (f *filesystem) Delete(ctx context.Context, key string) error {
	path, err := f.resolve(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return mapFSError(err)
	}

	dir := filepath.Dir(path)
	if dir != f.root {
		if entries, err := os.ReadDir(dir); err == nil && len(entries) == 0 {
			if err := os.Remove(dir); err != nil {
				f.logger.Warn("remove empty directory", "dir", dir, "error", err)
			}
		}
	}
	return nil
}

func (f *filesystem) Exists(ctx context.Context, key string) (bool, error) {
	path, err := f.resolve(key)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, mapFSError(err)
	}
	return true, nil
}

func (f *filesystem) resolve(key string) (string, error) {
	if key == "" || strings.ContainsRune(key, 0) {
		return "", ErrInvalidKey
	}

	cleaned := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(cleaned) || cleaned == "." || strings.HasPrefix(cleaned, "..") {
		return "", ErrInvalidKey
	}

	full := filepath.Join(f.root, cleaned)
	if !strings.HasPrefix(full, f.root+string(filepath.Separator)) {
		return "", ErrInvalidKey
	}
	return full, nil
}

func mapFSError(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		return ErrPermission
	default:
		return err
	}
}
