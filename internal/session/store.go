package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AlibekovAA/book-review/internal/common/clock"
	"github.com/AlibekovAA/book-review/internal/common/constants"
	commonerrors "github.com/AlibekovAA/book-review/internal/common/errors"
)

var ErrInvalidSessionID = errors.New("invalid session id")

type Store interface {
	Load(ctx context.Context, id string) (Data, error)
	Save(ctx context.Context, id string, data Data) error
	Delete(ctx context.Context, id string) error
}

// FileStore keeps one JSON file per session. Writes go through a temp file
// and a rename so readers never observe a partial file.
type FileStore struct {
	dir   string
	clock clock.Clock
	mu    sync.Mutex
}

func NewFileStore(dir string, clk clock.Clock) (*FileStore, error) {
	if err := os.MkdirAll(dir, constants.SessionDirPerm); err != nil {
		return nil, fmt.Errorf("create session dir: %w", err)
	}
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &FileStore{dir: dir, clock: clk}, nil
}

func (s *FileStore) path(id string) (string, error) {
	if _, err := uuid.Parse(id); err != nil {
		return "", ErrInvalidSessionID
	}
	return filepath.Join(s.dir, id+constants.SessionFileExt), nil
}

// Load returns commonerrors.ErrSessionAbsent when no file exists. A
// successful load refreshes the file's modification time, which is what the
// idle cleanup looks at.
func (s *FileStore) Load(_ context.Context, id string) (Data, error) {
	p, err := s.path(id)
	if err != nil {
		return Data{}, err
	}

	raw, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Data{}, commonerrors.ErrSessionAbsent
		}
		return Data{}, fmt.Errorf("read session: %w", err)
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return Data{}, fmt.Errorf("decode session: %w", err)
	}

	now := s.clock.Now()
	_ = os.Chtimes(p, now, now)

	return data, nil
}

func (s *FileStore) Save(_ context.Context, id string, data Data) error {
	p, err := s.path(id)
	if err != nil {
		return err
	}

	data.UpdatedAt = s.clock.Now().UTC()
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, ".tmp-"+id+"-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write session: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close session: %w", err)
	}
	if err := os.Chmod(tmpName, constants.SessionFilePerm); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod session: %w", err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename session: %w", err)
	}

	now := s.clock.Now()
	_ = os.Chtimes(p, now, now)
	return nil
}

func (s *FileStore) Delete(_ context.Context, id string) error {
	p, err := s.path(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteIdle removes session files not touched within maxIdle.
func (s *FileStore) DeleteIdle(ctx context.Context, maxIdle time.Duration) (int64, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return 0, fmt.Errorf("list sessions: %w", err)
	}

	cutoff := s.clock.Now().Add(-maxIdle)
	var deleted int64

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range entries {
		if ctx.Err() != nil {
			return deleted, ctx.Err()
		}
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, constants.SessionFileExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return deleted, fmt.Errorf("delete idle session %s: %w", name, err)
		}
		deleted++
	}

	return deleted, nil
}
