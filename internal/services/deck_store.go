package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"classroom-live/internal/models"
)

// DeckStore persists each class's deck (pages, content refs, annotation
// snapshots) in a JSON file so a session survives a restart.
type DeckStore struct {
	mu       sync.RWMutex
	filePath string
	data     *models.DecksFile
}

// NewDeckStore creates a deck store and loads existing data.
func NewDeckStore(dataPath string) (*DeckStore, error) {
	if err := os.MkdirAll(dataPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	store := &DeckStore{
		filePath: filepath.Join(dataPath, "decks.json"),
		data: &models.DecksFile{
			Decks: make(map[string]*models.DeckSnapshot),
		},
	}

	if err := store.Load(); err != nil {
		return nil, fmt.Errorf("failed to load decks: %w", err)
	}
	return store, nil
}

// Load reads decks.json, or keeps the empty structure if the file does
// not exist or does not parse.
func (s *DeckStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.filePath); os.IsNotExist(err) {
		log.Printf("Decks file not found, starting empty: %s", s.filePath)
		return nil
	}

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return fmt.Errorf("failed to read decks file: %w", err)
	}

	var file models.DecksFile
	if err := json.Unmarshal(data, &file); err != nil {
		log.Printf("Failed to parse decks.json, using empty structure: %v", err)
		return nil
	}
	if file.Decks == nil {
		file.Decks = make(map[string]*models.DeckSnapshot)
	}

	s.data = &file
	log.Printf("Loaded %d decks from %s", len(s.data.Decks), s.filePath)
	return nil
}

// save atomically writes decks.json (temp file, sync, rename). Must be
// called with the lock held.
func (s *DeckStore) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal decks: %w", err)
	}

	tempPath := s.filePath + ".tmp"
	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	file, err := os.OpenFile(tempPath, os.O_RDWR, 0644)
	if err != nil {
		return fmt.Errorf("failed to open temp file for sync: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	file.Close()

	if err := os.Rename(tempPath, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// SaveDeck stores one class's deck snapshot and persists the file.
func (s *DeckStore) SaveDeck(snapshot *models.DeckSnapshot) error {
	if snapshot == nil || snapshot.ClassID == "" {
		return fmt.Errorf("deck snapshot requires a class id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data.Decks == nil {
		s.data.Decks = make(map[string]*models.DeckSnapshot)
	}
	s.data.Decks[snapshot.ClassID] = snapshot

	if err := s.save(); err != nil {
		return fmt.Errorf("failed to save after deck update: %w", err)
	}
	return nil
}

// GetDeck returns the persisted deck for a class, if any.
func (s *DeckStore) GetDeck(classID string) (*models.DeckSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot, exists := s.data.Decks[classID]
	return snapshot, exists
}
