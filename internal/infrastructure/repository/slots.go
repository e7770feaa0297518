package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/4613216-rgb000/smart-bid-aide/internal/core/ports"
)

// Slot keys match the original client-side storage names so exported data
// stays portable.
const (
	projectsSlot = "bidsmart_projects"
	casesSlot    = "bidsmart_cases"
	tendersSlot  = "bidsmart_tenders"
	configsSlot  = "bidsmart_crawl_configs"
)

type slots struct {
	store     ports.SlotStore
	logger    *slog.Logger
	onCorrupt func(slot string)
}

type Option func(*slots)

// WithCorruptionHook is called whenever a slot payload fails to decode and
// the read degrades to its fallback set.
func WithCorruptionHook(fn func(slot string)) Option {
	return func(s *slots) {
		s.onCorrupt = fn
	}
}

func newSlots(store ports.SlotStore, logger *slog.Logger, opts ...Option) slots {
	if logger == nil {
		logger = slog.Default()
	}
	s := slots{store: store, logger: logger}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// Repositories bundles the four slot-backed repositories over one store.
type Repositories struct {
	Projects *ProjectRepository
	Cases    *CaseRepository
	Tenders  *TenderRepository
	Configs  *ConfigRepository
}

func New(store ports.SlotStore, logger *slog.Logger, opts ...Option) *Repositories {
	s := newSlots(store, logger, opts...)
	return &Repositories{
		Projects: newProjectRepository(s),
		Cases:    newCaseRepository(s),
		Tenders:  newTenderRepository(s),
		Configs:  newConfigRepository(s),
	}
}

// loadList reads a whole slot as a typed list. Absent keys, unreadable
// stores and corrupt payloads all degrade to the fallback; nothing here ever
// surfaces an error to the caller.
func loadList[T any](ctx context.Context, s slots, key string, fallback []T) []T {
	payload, found, err := s.store.Load(ctx, key)
	if err != nil {
		s.logger.Warn("slot_load_failed", "slot", key, "error", err)
		return cloneList(fallback)
	}
	if !found {
		return cloneList(fallback)
	}

	var out []T
	if err := json.Unmarshal(payload, &out); err != nil {
		s.logger.Warn("slot_payload_corrupt", "slot", key, "error", err)
		if s.onCorrupt != nil {
			s.onCorrupt(key)
		}
		return cloneList(fallback)
	}
	if out == nil {
		out = []T{}
	}
	return out
}

func saveList[T any](ctx context.Context, s slots, key string, list []T) error {
	payload, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("marshal slot %s: %w", key, err)
	}
	if err := s.store.Save(ctx, key, payload); err != nil {
		return fmt.Errorf("persist slot %s: %w", key, err)
	}
	return nil
}

func cloneList[T any](list []T) []T {
	out := make([]T, len(list))
	copy(out, list)
	return out
}
