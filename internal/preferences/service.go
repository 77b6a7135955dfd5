// Package preferences stores user interface settings and search history in
// the settings table.
package preferences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"github.com/absolutecinema/absolutecinema/internal/store"
)

var (
	ErrInvalidTheme       = errors.New("invalid theme")
	ErrInvalidAccentColor = errors.New("invalid accent color")
)

type Service struct {
	queries      *store.Queries
	historyLimit int

	// serialises read-modify-write of the history value
	historyMu sync.Mutex
}

// NewService creates a preferences service. A non-positive historyLimit uses DefaultHistoryLimit.
func NewService(queries *store.Queries, historyLimit int) *Service {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	return &Service{queries: queries, historyLimit: historyLimit}
}

// Get returns all preferences, substituting defaults for missing or invalid values
func (s *Service) Get(ctx context.Context) (*Preferences, error) {
	prefs := DefaultPreferences()

	if val, err := s.getString(ctx, KeyTheme); err == nil && ValidTheme(val) {
		prefs.Theme = Theme(val)
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	if val, err := s.getString(ctx, KeyAccentColor); err == nil && ValidAccentColor(val) {
		prefs.AccentColor = val
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	history, err := s.SearchHistory(ctx)
	if err != nil {
		return nil, err
	}
	prefs.SearchHistory = history

	return &prefs, nil
}

// Update applies the non-empty fields of input. Nothing is written if any field is invalid.
func (s *Service) Update(ctx context.Context, input UpdateInput) error {
	if input.Theme != "" && !ValidTheme(string(input.Theme)) {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, input.Theme)
	}
	if input.AccentColor != "" && !ValidAccentColor(input.AccentColor) {
		return fmt.Errorf("%w: %q", ErrInvalidAccentColor, input.AccentColor)
	}

	if input.Theme != "" {
		if err := s.SetTheme(ctx, input.Theme); err != nil {
			return err
		}
	}
	if input.AccentColor != "" {
		if err := s.SetAccentColor(ctx, input.AccentColor); err != nil {
			return err
		}
	}
	return nil
}

// SetTheme updates the theme preference
func (s *Service) SetTheme(ctx context.Context, theme Theme) error {
	if !ValidTheme(string(theme)) {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}
	return s.setString(ctx, KeyTheme, string(theme))
}

// SetAccentColor updates the accent color preference
func (s *Service) SetAccentColor(ctx context.Context, color string) error {
	if !ValidAccentColor(color) {
		return fmt.Errorf("%w: %q", ErrInvalidAccentColor, color)
	}
	return s.setString(ctx, KeyAccentColor, strings.ToUpper(color))
}

// SearchHistory returns recent queries, most recent last
func (s *Service) SearchHistory(ctx context.Context) ([]string, error) {
	val, err := s.getString(ctx, KeySearchHistory)
	if errors.Is(err, sql.ErrNoRows) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	var history []string
	if err := json.Unmarshal([]byte(val), &history); err != nil {
		// Corrupt values read as empty.
		return []string{}, nil
	}
	if history == nil {
		history = []string{}
	}
	return history, nil
}

// RecordSearch appends a query to the history. A repeated query moves to the
// end instead of appearing twice; the oldest entries drop beyond the limit.
func (s *Service) RecordSearch(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	s.historyMu.Lock()
	defer s.historyMu.Unlock()

	history, err := s.SearchHistory(ctx)
	if err != nil {
		return err
	}

	updated := make([]string, 0, len(history)+1)
	for _, h := range history {
		if h != query {
			updated = append(updated, h)
		}
	}
	updated = append(updated, query)
	if len(updated) > s.historyLimit {
		updated = updated[len(updated)-s.historyLimit:]
	}

	data, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("encode search history: %w", err)
	}
	return s.setString(ctx, KeySearchHistory, string(data))
}

// ClearSearchHistory forgets every recorded query
func (s *Service) ClearSearchHistory(ctx context.Context) error {
	s.historyMu.Lock()
	defer s.historyMu.Unlock()
	return s.queries.DeleteSetting(ctx, KeySearchHistory)
}

func (s *Service) getString(ctx context.Context, key string) (string, error) {
	setting, err := s.queries.GetSetting(ctx, key)
	if err != nil {
		return "", err
	}
	return setting.Value, nil
}

func (s *Service) setString(ctx context.Context, key, value string) error {
	return s.queries.SetSetting(ctx, key, value)
}
