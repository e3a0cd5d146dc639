// Package areas holds the ordered, in-memory list of collection areas shown on
// the dashboard, together with the single area currently selected for detail.
package areas

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"wasteportal/internal/models"
	"wasteportal/internal/utils"
)

var ErrAreaNotFound = errors.New("area not found")

type Option func(*Registry)

// WithIDGenerator replaces the generator used for ids of added areas.
func WithIDGenerator(gen func() string) Option {
	return func(r *Registry) {
		r.newID = gen
	}
}

type Registry struct {
	mu       sync.RWMutex
	areas    []models.Area
	selected string
	newID    func() string
}

func NewRegistry(seed []models.Area, opts ...Option) *Registry {
	r := &Registry{
		areas: append([]models.Area(nil), seed...),
		newID: func() string { return "area-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns the areas in insertion order.
func (r *Registry) List() []models.Area {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]models.Area(nil), r.areas...)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.areas)
}

// Add appends a new area with an even waste split. The name is kept as given.
func (r *Registry) Add(name string) (models.Area, error) {
	if strings.TrimSpace(name) == "" {
		return models.Area{}, utils.Validation("name", "Please enter an area name")
	}

	area := models.Area{
		ID:        r.newID(),
		Name:      name,
		WasteData: models.EvenSplit(),
	}

	r.mu.Lock()
	r.areas = append(r.areas, area)
	r.mu.Unlock()

	return area, nil
}

// Select makes the area with the given id the selected one, replacing any
// previous selection.
func (r *Registry) Select(id string) (models.Area, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	area, ok := r.find(id)
	if !ok {
		return models.Area{}, ErrAreaNotFound
	}
	r.selected = area.ID
	return area, nil
}

// Selected returns the selected area, if any.
func (r *Registry) Selected() (models.Area, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.selected == "" {
		return models.Area{}, false
	}
	return r.find(r.selected)
}

func (r *Registry) find(id string) (models.Area, bool) {
	return lo.Find(r.areas, func(a models.Area) bool { return a.ID == id })
}
