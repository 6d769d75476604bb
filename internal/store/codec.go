package store

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var errTrailingData = errors.New("unexpected data after JSON value")

// decodeStrict decodes raw into v, rejecting unknown fields and trailing
// content.
func decodeStrict(raw string, v any) error {
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errTrailingData
	}
	return nil
}

// loadSlot reads a JSON array slot. Missing, unreadable or malformed slots
// yield an empty collection and are logged, never returned.
func loadSlot[T any](s *Store, key string) []T {
	items := make([]T, 0)

	raw, found, err := s.repo.Get(key)
	if err != nil {
		s.log.WithError(err).WithField("key", key).Error("Failed to read saved data")
		return items
	}
	if !found || strings.TrimSpace(raw) == "" {
		return items
	}

	var decoded []T
	if err := decodeStrict(raw, &decoded); err != nil {
		s.log.WithError(err).WithField("key", key).Warn("Ignoring malformed saved data")
		return items
	}
	if decoded == nil {
		return items
	}
	return decoded
}

func (s *Store) persist(key string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := s.repo.Set(key, strings.TrimSuffix(buf.String(), "\n")); err != nil {
		s.log.WithError(err).WithField("key", key).Error("Failed to persist collection")
		return fmt.Errorf("failed to persist %s: %w", key, err)
	}
	return nil
}
