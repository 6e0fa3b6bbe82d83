// Package jsonstore persists the whole document as one JSON file. Every
// mutation is flushed synchronously before the caller sees success; there is
// no batching and no write-ahead log. Not safe for multiple processes.
package jsonstore

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"github.com/zynordev/okurundan/internal/apperr"
	"github.com/zynordev/okurundan/internal/models"
	"github.com/zynordev/okurundan/internal/store"
)

type Store struct {
	mu   sync.RWMutex
	path string
	doc  store.Document
	log  zerolog.Logger
}

// New loads the document at path. A missing file is seeded and written
// immediately; unreadable or malformed content falls back to the seed
// document in memory and is logged, never fatal.
func New(path string, logger zerolog.Logger) (*Store, error) {
	s := &Store{path: path, log: logger}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.doc = seedDocument()
		s.doc.SeedCounters()
		if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
			return err
		}
		return s.flush()
	}
	if err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("data file unreadable, using seed data")
		s.doc = seedDocument()
		s.doc.SeedCounters()
		return nil
	}

	var doc store.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("data file malformed, using seed data")
		s.doc = seedDocument()
		s.doc.SeedCounters()
		return nil
	}
	doc.Normalize()
	doc.SeedCounters()
	s.doc = doc
	return nil
}

// flush writes the document atomically: full marshal to a temp file in the
// same directory, then rename over the target.
func (s *Store) flush() error {
	s.doc.Normalize()
	raw, err := json.MarshalIndent(&s.doc, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *Store) View(fn func(doc *store.Document)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.doc)
}

func (s *Store) Update(fn func(doc *store.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(&s.doc); err != nil {
		if errors.Is(err, store.ErrNoChange) {
			return nil
		}
		return err
	}
	if err := s.flush(); err != nil {
		s.log.Error().Err(err).Str("path", s.path).Msg("flush failed")
		return apperr.Wrap(apperr.Persistence, "Veri kaydedilemedi.", err)
	}
	return nil
}

// seedDocument is the default state used when no data file exists yet.
func seedDocument() store.Document {
	doc := store.Document{
		Users: []models.User{
			{ID: 1, Email: "admin@okul.k12.tr", Password: "123", Name: "İdare", Role: models.RoleAdmin, Class: "idare"},
			{ID: 101, Email: "ahmet@okul.k12.tr", Password: "123", Name: "Ahmet Y.", Role: models.RoleStudent, Class: "8A"},
			{ID: 102, Email: "ayse@okul.k12.tr", Password: "123", Name: "Ayşe K.", Role: models.RoleStudent, Class: "7B"},
			{ID: 103, Email: "mehmet@okul.k12.tr", Password: "Mehmet51.", Name: "Mehmet", Role: models.RoleStudent, Class: "8C"},
		},
	}
	doc.Normalize()
	return doc
}
