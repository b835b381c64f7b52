package repository

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/aaryasekhar/rchxtype/internal/domain"
)

// Implementaciones en memoria para herramientas locales y tests.
// Mantienen las mismas garantias que las de Postgres (append atomico, version optimista).

type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]domain.User
}

func NewMemoryUserRepository(users ...domain.User) *MemoryUserRepository {
	r := &MemoryUserRepository{users: make(map[string]domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *MemoryUserRepository) Put(u domain.User) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
}

func (r *MemoryUserRepository) GetByID(_ context.Context, id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return domain.User{}, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return u, nil
}

type MemoryResponseRepository struct {
	mu      sync.RWMutex
	records map[string][]domain.ResponseRecord
}

func NewMemoryResponseRepository() *MemoryResponseRepository {
	return &MemoryResponseRepository{records: make(map[string][]domain.ResponseRecord)}
}

func (r *MemoryResponseRepository) Append(ctx context.Context, records []domain.ResponseRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range records {
		r.records[rec.UserID] = append(r.records[rec.UserID], rec)
	}
	return nil
}

func (r *MemoryResponseRepository) ListByUserID(_ context.Context, userID string) ([]domain.ResponseRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.ResponseRecord(nil), r.records[userID]...), nil
}

func (r *MemoryResponseRepository) CountByUserID(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records[userID]), nil
}

type MemorySignalRepository struct {
	mu      sync.RWMutex
	signals map[string]map[string]domain.ExternalSignal
}

func NewMemorySignalRepository() *MemorySignalRepository {
	return &MemorySignalRepository{signals: make(map[string]map[string]domain.ExternalSignal)}
}

func (r *MemorySignalRepository) ListConnected(_ context.Context, userID string) (map[string]domain.ExternalSignal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]domain.ExternalSignal, len(r.signals[userID]))
	for name, sig := range r.signals[userID] {
		out[name] = sig.Sample(-1, -1)
	}
	return out, nil
}

func (r *MemorySignalRepository) Upsert(_ context.Context, userID string, signal domain.ExternalSignal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.signals[userID] == nil {
		r.signals[userID] = make(map[string]domain.ExternalSignal)
	}
	r.signals[userID][signal.Connector] = signal.Sample(-1, -1)
	return nil
}

func (r *MemorySignalRepository) Disconnect(_ context.Context, userID, connector string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.signals[userID][connector]; !ok {
		return fmt.Errorf("connector %s: %w", connector, domain.ErrNotFound)
	}
	delete(r.signals[userID], connector)
	return nil
}

type MemoryProfileRepository struct {
	mu       sync.RWMutex
	profiles map[string]domain.TraitProfile
}

func NewMemoryProfileRepository() *MemoryProfileRepository {
	return &MemoryProfileRepository{profiles: make(map[string]domain.TraitProfile)}
}

func (r *MemoryProfileRepository) GetByUserID(_ context.Context, userID string) (domain.TraitProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.profiles[userID]
	if !ok {
		return domain.TraitProfile{}, fmt.Errorf("profile %s: %w", userID, domain.ErrNotFound)
	}
	return p.Clone(), nil
}

func (r *MemoryProfileRepository) Save(ctx context.Context, profile domain.TraitProfile) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, exists := r.profiles[profile.UserID]
	var current int64
	if exists {
		current = stored.Version
	}
	if current != profile.Version {
		return 0, fmt.Errorf("save profile %s at version %d: %w", profile.UserID, profile.Version, domain.ErrConcurrentSynthesis)
	}
	next := profile.Clone()
	next.Version = current + 1
	r.profiles[profile.UserID] = next
	return next.Version, nil
}

func (r *MemoryProfileRepository) ListCandidates(_ context.Context, excludeUserID string, near []float32, limit int) ([]domain.TraitProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	type scored struct {
		profile domain.TraitProfile
		dist    float64
	}
	var all []scored
	for id, p := range r.profiles {
		if id == excludeUserID {
			continue
		}
		all = append(all, scored{profile: p.Clone(), dist: euclidean(p.TraitVector(), near)})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].dist != all[j].dist {
			return all[i].dist < all[j].dist
		}
		return all[i].profile.UserID < all[j].profile.UserID
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	out := make([]domain.TraitProfile, len(all))
	for i, s := range all {
		out[i] = s.profile
	}
	return out, nil
}

func euclidean(a, b []float32) float64 {
	var sum float64
	for i := range a {
		if i >= len(b) {
			break
		}
		d := float64(a[i] - b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}

type MemoryPreferencesRepository struct {
	mu    sync.RWMutex
	prefs map[string]domain.MatchingPreferences
	now   func() time.Time
}

func NewMemoryPreferencesRepository() *MemoryPreferencesRepository {
	return &MemoryPreferencesRepository{
		prefs: make(map[string]domain.MatchingPreferences),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (r *MemoryPreferencesRepository) Get(_ context.Context, userID string) (domain.MatchingPreferences, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.prefs[userID]
	if !ok {
		return domain.MatchingPreferences{}, fmt.Errorf("preferences %s: %w", userID, domain.ErrNotFound)
	}
	return clonePreferences(p), nil
}

func (r *MemoryPreferencesRepository) Save(ctx context.Context, userID string, prefs domain.MatchingPreferences) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p := clonePreferences(prefs)
	now := r.now()
	p.UpdatedAt = &now
	r.prefs[userID] = p
	return nil
}

func clonePreferences(p domain.MatchingPreferences) domain.MatchingPreferences {
	out := p
	out.Interests = domain.InterestPreferences{
		Required:  cloneTags(p.Interests.Required),
		Preferred: cloneTags(p.Interests.Preferred),
		Excluded:  cloneTags(p.Interests.Excluded),
	}
	if p.Traits != nil {
		out.Traits = make(map[domain.Dimension]domain.TraitRange, len(p.Traits))
		for d, r := range p.Traits {
			out.Traits[d] = domain.TraitRange{Min: copyFloat(r.Min), Max: copyFloat(r.Max)}
		}
	}
	if p.UpdatedAt != nil {
		t := *p.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}

func cloneTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
