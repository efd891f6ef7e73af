package local

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mbeier/famsync/internal/model"
)

var _ model.FamilyCache = (*FamilyCache)(nil)

// FamilyCache is the device's cached family directory, keyed by join code and
// mirrored to the local store under the "families" snapshot.
type FamilyCache struct {
	store *Store

	mu       sync.Mutex
	families map[string]model.FamilyProfile
}

// NewFamilyCache hydrates the family directory from the local store.
func NewFamilyCache(store *Store) (*FamilyCache, error) {
	c := &FamilyCache{
		store:    store,
		families: make(map[string]model.FamilyProfile),
	}
	if err := store.hydrate(keyFamilies, &c.families); err != nil {
		return nil, fmt.Errorf("failed to hydrate families: %w", err)
	}
	return c, nil
}

func (c *FamilyCache) Get(_ context.Context, code string) (model.FamilyProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	family, ok := c.families[strings.ToUpper(code)]
	if !ok {
		return model.FamilyProfile{}, model.ErrNotFound
	}
	return family, nil
}

func (c *FamilyCache) GetByID(_ context.Context, id string) (model.FamilyProfile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, family := range c.families {
		if family.ID == id {
			return family, nil
		}
	}
	return model.FamilyProfile{}, model.ErrNotFound
}

func (c *FamilyCache) Put(_ context.Context, family model.FamilyProfile) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.families[strings.ToUpper(family.Code)] = family
	if err := c.store.flush(keyFamilies, c.families); err != nil {
		return fmt.Errorf("failed to flush families: %w", err)
	}
	return nil
}
