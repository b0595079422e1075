package storage

import (
	"fmt"
	"strconv"
)

// SettingsStore is a small key-value store for app state that must
// survive restarts: window geometry and the page-setup file path.
type SettingsStore struct {
	db *DB
}

func NewSettingsStore(db *DB) *SettingsStore {
	return &SettingsStore{db: db}
}

const (
	settingWindowWidth   = "window_width"
	settingWindowHeight  = "window_height"
	settingPageSetupPath = "page_setup_path"

	defaultWindowWidth  = 1440
	defaultWindowHeight = 900
)

// WindowSize holds the saved window dimensions.
type WindowSize struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Get returns a setting's value, or "" when unset.
func (s *SettingsStore) Get(key string) string {
	var v string
	s.db.Conn().QueryRow(`SELECT value FROM app_settings WHERE key = ?`, key).Scan(&v)
	return v
}

// Set upserts a setting.
func (s *SettingsStore) Set(key, value string) error {
	_, err := s.db.Conn().Exec(
		`INSERT INTO app_settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

// LoadWindowSize returns the saved window dimensions, or defaults.
func (s *SettingsStore) LoadWindowSize() WindowSize {
	w, _ := strconv.Atoi(s.Get(settingWindowWidth))
	h, _ := strconv.Atoi(s.Get(settingWindowHeight))
	if w < 800 {
		w = defaultWindowWidth
	}
	if h < 600 {
		h = defaultWindowHeight
	}
	return WindowSize{Width: w, Height: h}
}

// SaveWindowSize persists the current window dimensions.
func (s *SettingsStore) SaveWindowSize(width, height int) error {
	if err := s.Set(settingWindowWidth, strconv.Itoa(width)); err != nil {
		return err
	}
	return s.Set(settingWindowHeight, strconv.Itoa(height))
}

// PageSetupPath returns the last-used page-setup file path, or "".
func (s *SettingsStore) PageSetupPath() string {
	return s.Get(settingPageSetupPath)
}

// SavePageSetupPath persists the page-setup file path.
func (s *SettingsStore) SavePageSetupPath(path string) error {
	return s.Set(settingPageSetupPath, path)
}
