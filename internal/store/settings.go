package store

import (
	"database/sql"
	"errors"
	"fmt"
	"image/color"
	"strconv"
)

// Setting keys.
const (
	KeyToolColor = "tool.color"
	KeyToolSize  = "tool.size"
)

// SettingsRepository stores key-value settings.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Get returns the value stored under key.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// GetInt returns the integer stored under key.
func (r *SettingsRepository) GetInt(key string) (int, error) {
	value, err := r.Get(key)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("setting %q: %w", key, err)
	}
	return n, nil
}

// SetInt stores an integer under key.
func (r *SettingsRepository) SetInt(key string, value int) error {
	return r.Set(key, strconv.Itoa(value))
}

// LoadTool returns the persisted brush colour and size.
func (r *SettingsRepository) LoadTool() (color.RGBA, int, bool) {
	hex, err := r.Get(KeyToolColor)
	if err != nil {
		return color.RGBA{}, 0, false
	}
	size, err := r.GetInt(KeyToolSize)
	if err != nil || size <= 0 {
		return color.RGBA{}, 0, false
	}

	var c color.RGBA
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return color.RGBA{}, 0, false
	}
	c.A = 255
	return c, size, true
}

// SaveTool persists the brush colour and size.
func (r *SettingsRepository) SaveTool(c color.RGBA, size int) error {
	if err := r.Set(KeyToolColor, fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)); err != nil {
		return err
	}
	return r.SetInt(KeyToolSize, size)
}
