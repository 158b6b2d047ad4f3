// Package settings provides cached access to site settings.
//
// Reads go through a cache-aside layer on top of a fiber.Storage backend;
// writes invalidate every cache shape that could hold the stale key, so a
// read issued after a completed write always observes the new value.
package settings

import (
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/mf010/dynamic-website-sub000/internal/db/controller/setting"
	"github.com/mf010/dynamic-website-sub000/internal/db/models"
)

const (
	// DefaultTTL bounds staleness from out-of-band database edits.
	DefaultTTL = time.Hour

	keyPrefix   = "setting:"
	allKey      = "settings:all"
	groupPrefix = "settings:group:"
)

// Service reads and writes site settings through a cache.
type Service struct {
	db    *gorm.DB
	cache fiber.Storage
	ttl   time.Duration
}

// New creates a settings service backed by db with cached reads in cache.
// A ttl of zero falls back to DefaultTTL.
func New(db *gorm.DB, cache fiber.Storage, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &Service{
		db:    db,
		cache: cache,
		ttl:   ttl,
	}
}

// Get returns the value of a setting, or def when the setting does not
// exist or holds no value. Cache and database errors degrade to def.
func (s *Service) Get(key, def string) string {
	if cached, ok := s.cacheGet(keyPrefix + key); ok {
		var value *string
		if err := json.Unmarshal(cached, &value); err == nil {
			if value == nil {
				return def
			}
			return *value
		}
		log.Warn().Str("key", key).Msg("discarding malformed cached setting")
	}

	row, err := setting.Get(s.db, key)
	if err != nil {
		if !errors.Is(err, setting.ErrSettingNotFound) {
			log.Error().Err(err).Str("key", key).Msg("failed to load setting")
		}
		return def
	}

	s.cachePut(keyPrefix+key, row.Value)

	if row.Value == nil {
		return def
	}

	return *row.Value
}

// All returns every setting as a key to value map. Settings holding no
// value appear with an empty string.
func (s *Service) All() (map[string]string, error) {
	if cached, ok := s.cacheGet(allKey); ok {
		var values map[string]string
		if err := json.Unmarshal(cached, &values); err == nil {
			return values, nil
		}
		log.Warn().Msg("discarding malformed cached settings map")
	}

	rows, err := setting.GetAll(s.db)
	if err != nil {
		return nil, errors.Wrap(err, "loading settings")
	}

	values := make(map[string]string, len(rows))
	for _, row := range rows {
		if row.Value != nil {
			values[row.Key] = *row.Value
		} else {
			values[row.Key] = ""
		}
	}

	s.cachePut(allKey, values)

	return values, nil
}

// ByGroup returns the settings of a display group with their type tags,
// for rendering admin forms.
func (s *Service) ByGroup(group string) ([]models.Setting, error) {
	if cached, ok := s.cacheGet(groupPrefix + group); ok {
		var rows []models.Setting
		if err := json.Unmarshal(cached, &rows); err == nil {
			return rows, nil
		}
		log.Warn().Str("group", group).Msg("discarding malformed cached settings group")
	}

	rows, err := setting.GetByGroup(s.db, group)
	if err != nil {
		return nil, errors.Wrapf(err, "loading settings group %q", group)
	}

	s.cachePut(groupPrefix+group, rows)

	return rows, nil
}

// Set upserts a setting and invalidates the cached single value, the
// cached full map, and the cached group listing.
func (s *Service) Set(key string, value *string, group, settingType string) error {
	row, err := setting.Set(s.db, key, value, group, settingType)
	if err != nil {
		return errors.Wrapf(err, "saving setting %q", key)
	}

	s.invalidate(key, row.Group)

	return nil
}

// Delete removes a setting and invalidates its cache entries.
func (s *Service) Delete(key string) error {
	row, err := setting.Get(s.db, key)
	if err != nil {
		return err
	}

	if err := setting.Delete(s.db, key); err != nil {
		return errors.Wrapf(err, "deleting setting %q", key)
	}

	s.invalidate(key, row.Group)

	return nil
}

// ClearCache drops every cached settings entry. The database is the
// source of truth for which keys and groups may be cached.
func (s *Service) ClearCache() error {
	rows, err := setting.GetAll(s.db)
	if err != nil {
		return errors.Wrap(err, "listing settings for cache clear")
	}

	groups := make(map[string]struct{})
	for _, row := range rows {
		s.cacheDelete(keyPrefix + row.Key)
		groups[row.Group] = struct{}{}
	}
	for group := range groups {
		s.cacheDelete(groupPrefix + group)
	}
	s.cacheDelete(allKey)

	return nil
}

// invalidate drops the three cache shapes that can hold a setting.
func (s *Service) invalidate(key, group string) {
	s.cacheDelete(keyPrefix + key)
	s.cacheDelete(allKey)
	s.cacheDelete(groupPrefix + group)
}

func (s *Service) cacheGet(key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("settings cache read failed")
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	return data, true
}

func (s *Service) cachePut(key string, value any) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("settings cache encode failed")
		return
	}

	if err := s.cache.Set(key, data, s.ttl); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("settings cache write failed")
	}
}

func (s *Service) cacheDelete(key string) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Delete(key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("settings cache invalidation failed")
	}
}
