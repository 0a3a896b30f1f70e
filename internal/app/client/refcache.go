package client

import (
	"encoding/json"
	"fmt"

	"golang.org/x/exp/slog"

	"minetrack/internal/domain/catalog"
)

// RefCache — снимки справочников (техника, виды работ, материалы)
// последнего успешного запроса. Перезаписываются целиком, читаются
// только как офлайн-fallback. Никакой логики слияния.
type RefCache struct {
	store Storage
	log   *slog.Logger
}

func NewRefCache(store Storage, log *slog.Logger) *RefCache {
	return &RefCache{
		store: store,
		log:   log.With("component", "ref_cache"),
	}
}

func (c *RefCache) CacheEquipment(items []catalog.Equipment) error {
	return c.save(keyCachedEquipment, items)
}

func (c *RefCache) CacheActivities(items []catalog.Activity) error {
	return c.save(keyCachedActivities, items)
}

func (c *RefCache) CacheMaterials(items []catalog.Material) error {
	return c.save(keyCachedMaterials, items)
}

func (c *RefCache) CachedEquipment() ([]catalog.Equipment, error) {
	var items []catalog.Equipment
	if err := c.load(keyCachedEquipment, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *RefCache) CachedActivities() ([]catalog.Activity, error) {
	var items []catalog.Activity
	if err := c.load(keyCachedActivities, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *RefCache) CachedMaterials() ([]catalog.Material, error) {
	var items []catalog.Material
	if err := c.load(keyCachedMaterials, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *RefCache) save(key string, items any) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("ошибка сериализации справочника %s: %w", key, err)
	}
	if err := c.store.Set(key, string(data)); err != nil {
		return fmt.Errorf("ошибка сохранения справочника %s: %w", key, err)
	}
	return nil
}

func (c *RefCache) load(key string, items any) error {
	raw, ok, err := c.store.Get(key)
	if err != nil {
		return fmt.Errorf("ошибка чтения справочника %s: %w", key, err)
	}
	if !ok || raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), items); err != nil {
		return fmt.Errorf("ошибка разбора справочника %s: %w", key, err)
	}
	return nil
}
