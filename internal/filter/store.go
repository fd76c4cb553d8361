package filter

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"procurement/internal/kvstore"
)

var (
	ErrUnknownPreset = errors.New("unknown preset")
	ErrInvalidLabel  = errors.New("invalid preset label")
	ErrBuiltInPreset = errors.New("built-in presets cannot be changed")
)

// Notifier delivers a user-facing message.
type Notifier func(msg string)

// PresetStore holds built-in and user presets and the set of presets currently active
// on a Model. User presets persist under kvstore.KeySavedPresets keyed by normalized label.
type PresetStore struct {
	model  *Model
	store  kvstore.Store
	log    *zap.Logger
	notify Notifier

	mu      sync.Mutex
	builtIn []Preset
	saved   map[string]Preset
	active  []string
}

func NewPresetStore(model *Model, store kvstore.Store, builtIn []Preset, log *zap.Logger, notify Notifier) *PresetStore {
	if log == nil {
		log = zap.NewNop()
	}
	if notify == nil {
		notify = func(string) {}
	}
	return &PresetStore{
		model:   model,
		store:   store,
		log:     log,
		notify:  notify,
		builtIn: builtIn,
		saved:   map[string]Preset{},
	}
}

// Load reads saved presets. A corrupt entry is cleared and reported; it never fails Load.
func (s *PresetStore) Load(ctx context.Context) error {
	saved, err := kvstore.GetJSON(ctx, s.store, kvstore.KeySavedPresets, map[string]Preset{})
	if err != nil {
		if !errors.Is(err, kvstore.ErrCorrupt) {
			return err
		}
		s.log.Warn("saved presets corrupt, clearing", zap.Error(err))
		if rmErr := s.store.Remove(ctx, kvstore.KeySavedPresets); rmErr != nil {
			s.log.Warn("clear saved presets failed", zap.Error(rmErr))
		}
		s.notify("Saved filter presets could not be read and were reset.")
		saved = map[string]Preset{}
	}

	s.mu.Lock()
	s.saved = make(map[string]Preset, len(saved))
	for _, p := range saved {
		key := p.Key()
		if key == "" {
			continue
		}
		p.BuiltIn = false
		s.saved[key] = p
	}
	s.mu.Unlock()
	return nil
}

// List returns built-in presets followed by saved presets ordered by label.
func (s *PresetStore) List() []Preset {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := append([]Preset(nil), s.builtIn...)
	saved := make([]Preset, 0, len(s.saved))
	for _, p := range s.saved {
		saved = append(saved, p)
	}
	sort.Slice(saved, func(i, j int) bool { return saved[i].Key() < saved[j].Key() })
	return append(out, saved...)
}

func (s *PresetStore) Get(key string) (Preset, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(key)
}

func (s *PresetStore) getLocked(key string) (Preset, bool) {
	for _, p := range s.builtIn {
		if p.Key() == key {
			return p, true
		}
	}
	p, ok := s.saved[key]
	return p, ok
}

// Save stores the model's current filters under label, replacing a saved preset with
// the same normalized label.
func (s *PresetStore) Save(ctx context.Context, label string) (Preset, error) {
	p := PresetFromActive(label, s.model.Active())
	key := p.Key()
	if key == "" {
		return Preset{}, ErrInvalidLabel
	}

	s.mu.Lock()
	for _, b := range s.builtIn {
		if b.Key() == key {
			s.mu.Unlock()
			return Preset{}, ErrBuiltInPreset
		}
	}
	s.saved[key] = p
	snapshot := s.savedSnapshotLocked()
	s.mu.Unlock()

	if err := kvstore.SetJSON(ctx, s.store, kvstore.KeySavedPresets, snapshot); err != nil {
		return Preset{}, fmt.Errorf("persist presets: %w", err)
	}
	s.log.Info("preset saved", zap.String("preset", key), zap.Int("assertions", len(p.Assertions)))
	return p, nil
}

// Update overwrites an existing saved preset with the current filters, keeping its label.
func (s *PresetStore) Update(ctx context.Context, key string) (Preset, error) {
	s.mu.Lock()
	existing, ok := s.saved[key]
	s.mu.Unlock()
	if !ok {
		if _, builtIn := s.Get(key); builtIn {
			return Preset{}, ErrBuiltInPreset
		}
		return Preset{}, ErrUnknownPreset
	}
	return s.Save(ctx, existing.Label)
}

// Delete removes a saved preset. If it was active it is deactivated; the filters it set
// stay in place.
func (s *PresetStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	if _, ok := s.saved[key]; !ok {
		_, builtIn := s.getLocked(key)
		s.mu.Unlock()
		if builtIn {
			return ErrBuiltInPreset
		}
		return ErrUnknownPreset
	}
	delete(s.saved, key)
	s.active = without(s.active, key)
	snapshot := s.savedSnapshotLocked()
	s.mu.Unlock()

	if err := kvstore.SetJSON(ctx, s.store, kvstore.KeySavedPresets, snapshot); err != nil {
		return fmt.Errorf("persist presets: %w", err)
	}
	s.log.Info("preset deleted", zap.String("preset", key))
	return nil
}

// Toggle activates or deactivates a preset and then reapplies every active preset,
// so assertions shared with a removed preset are restored.
func (s *PresetStore) Toggle(key string) (bool, error) {
	s.mu.Lock()
	p, ok := s.getLocked(key)
	if !ok {
		s.mu.Unlock()
		return false, ErrUnknownPreset
	}

	var remove []Preset
	nowActive := !contains(s.active, key)
	if nowActive {
		s.active = append(s.active, key)
	} else {
		s.active = without(s.active, key)
		remove = []Preset{p}
	}
	apply := s.activePresetsLocked()
	s.mu.Unlock()

	s.model.Reconcile(remove, apply)
	return nowActive, nil
}

// Active returns the active presets in activation order.
func (s *PresetStore) Active() []Preset {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activePresetsLocked()
}

func (s *PresetStore) IsActive(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return contains(s.active, key)
}

// IsApplied reports whether the preset's assertions currently hold on the model.
func (s *PresetStore) IsApplied(key string) bool {
	p, ok := s.Get(key)
	if !ok {
		return false
	}
	return s.model.IsApplied(p)
}

// Deactivate forgets every active preset without touching the filters.
func (s *PresetStore) Deactivate() {
	s.mu.Lock()
	s.active = nil
	s.mu.Unlock()
}

func (s *PresetStore) activePresetsLocked() []Preset {
	out := make([]Preset, 0, len(s.active))
	for _, k := range s.active {
		if p, ok := s.getLocked(k); ok {
			out = append(out, p)
		}
	}
	return out
}

func (s *PresetStore) savedSnapshotLocked() map[string]Preset {
	out := make(map[string]Preset, len(s.saved))
	for k, p := range s.saved {
		out[k] = p
	}
	return out
}

func contains(keys []string, key string) bool {
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func without(keys []string, key string) []string {
	out := keys[:0:0]
	for _, k := range keys {
		if k != key {
			out = append(out, k)
		}
	}
	return out
}
