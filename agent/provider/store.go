package provider

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/akaspin/logx"
	"github.com/akaspin/supervisor"
	"github.com/google/uuid"
)

const (
	recordSuffix = ".json"
	tempPrefix   = ".tmp-"
)

// Store persists provider configs in one flat directory. Filenames are
// opaque: identity is always recovered by parsing file content, so a
// pre-seeded record under any name still occupies its identity. An
// in-memory index keeps mutations off the scan path.
type Store struct {
	*supervisor.Control
	log *logx.Log
	dir string

	mu    sync.Mutex
	index map[ID]string // identity -> filename
}

func NewStore(ctx context.Context, log *logx.Log, dir string) (s *Store) {
	s = &Store{
		Control: supervisor.NewControl(ctx),
		log:     log.GetLog("provider", "store"),
		dir:     dir,
		index:   map[ID]string{},
	}
	return
}

// Open creates the config directory and rebuilds the identity index from
// file content. Corrupt records are logged and skipped.
func (s *Store) Open() (err error) {
	if err = os.MkdirAll(s.dir, 0755); err != nil {
		return
	}
	s.sweep()
	names, err := s.snapshot()
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = map[ID]string{}
	for _, name := range names {
		config, parseErr := s.parse(name)
		if parseErr != nil {
			s.log.Error(parseErr)
			continue
		}
		if config == nil {
			continue
		}
		id := config.GetID()
		if occupied, ok := s.index[id]; ok {
			s.log.Warningf(`duplicate identity %s in "%s": already held by "%s"`, id, name, occupied)
			continue
		}
		s.index[id] = name
		s.log.Debugf(`indexed %s: "%s"`, id, name)
	}
	err = s.Control.Open()
	s.log.Infof("open: %d records in %s", len(s.index), s.dir)
	return
}

// Put writes config durably via temp-write-then-rename. Returns true if an
// existing record for the identity was replaced.
func (s *Store) Put(config *Config) (replaced bool, err error) {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	id := config.GetID()
	name, replaced := s.index[id]
	if !replaced {
		name = uuid.New().String() + recordSuffix
	}
	temp := filepath.Join(s.dir, tempPrefix+uuid.New().String())
	if err = os.WriteFile(temp, data, 0644); err != nil {
		return
	}
	if err = os.Rename(temp, filepath.Join(s.dir, name)); err != nil {
		os.Remove(temp)
		return
	}
	s.index[id] = name
	s.log.Debugf(`put %s: "%s" (replaced: %t)`, id, name, replaced)
	return
}

// Get returns the persisted config for identity or ErrNotFound
func (s *Store) Get(id ID) (config *Config, err error) {
	s.mu.Lock()
	name, ok := s.index[id]
	s.mu.Unlock()
	if !ok {
		err = ErrNotFound
		return
	}
	if config, err = s.parse(name); err != nil {
		return
	}
	if config == nil {
		err = ErrNotFound
	}
	return
}

// Remove deletes the record holding identity or returns ErrNotFound
func (s *Store) Remove(id ID) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	name, ok := s.index[id]
	if !ok {
		err = ErrNotFound
		return
	}
	if err = os.Remove(filepath.Join(s.dir, name)); err != nil {
		if !os.IsNotExist(err) {
			return
		}
		err = nil
	}
	delete(s.index, id)
	s.log.Debugf(`removed %s: "%s"`, id, name)
	return
}

// ListAll scans the directory in one pass without holding the store lock.
// The listing is snapshotted before per-file reads: a record deleted
// mid-scan is skipped, not an error.
func (s *Store) ListAll() (res []*Config, err error) {
	names, err := s.snapshot()
	if err != nil {
		return
	}
	for _, name := range names {
		config, parseErr := s.parse(name)
		if parseErr != nil {
			s.log.Error(parseErr)
			continue
		}
		if config != nil {
			res = append(res, config)
		}
	}
	return
}

// sweep removes temp files abandoned by a crash between write and rename
func (s *Store) sweep() {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), tempPrefix) {
			continue
		}
		stale := filepath.Join(s.dir, entry.Name())
		if removeErr := os.Remove(stale); removeErr != nil {
			s.log.Warningf("can't sweep %s: %v", stale, removeErr)
			continue
		}
		s.log.Debugf("swept %s", stale)
	}
}

func (s *Store) snapshot() (names []string, err error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), tempPrefix) {
			continue
		}
		names = append(names, entry.Name())
	}
	return
}

// parse reads one record. Returns <nil> config if the file vanished.
func (s *Store) parse(name string) (config *Config, err error) {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = nil
			return
		}
		return
	}
	config = &Config{}
	if jsonErr := json.Unmarshal(data, config); jsonErr != nil {
		config = nil
		err = &CorruptRecordError{Path: path, Err: jsonErr}
	}
	return
}
