package tracker

import (
	"sort"
	"sync"
	"time"

	"github.com/nao1215/tsukuyomi/internal/model"
)

const (
	// DefaultCapacity is the default maximum number of tracked clients.
	DefaultCapacity = 1024

	// DefaultRecentTokens is the default per-client token history cap.
	DefaultRecentTokens = 16
)

// Store tracks visit history per client with a hard memory bound.
//
// All methods are safe for concurrent use. When the store is full, recording
// a new client evicts the least recently active one.
type Store struct {
	// mu guards records.
	mu sync.Mutex

	// records maps client keys to their live visit records.
	records map[string]*model.VisitRecord

	// capacity is the maximum number of tracked clients.
	capacity int

	// recentTokens is the per-client cap on remembered tokens.
	recentTokens int

	// now returns the current time. Overridable in tests.
	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithCapacity sets the maximum number of tracked clients.
// Values below one fall back to DefaultCapacity.
func WithCapacity(n int) Option {
	return func(s *Store) {
		if n >= 1 {
			s.capacity = n
		}
	}
}

// WithRecentTokens sets the per-client token history cap.
// Zero disables token history; negative values fall back to the default.
func WithRecentTokens(n int) Option {
	return func(s *Store) {
		if n >= 0 {
			s.recentTokens = n
		}
	}
}

// withClock overrides the time source. Test use only.
func withClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a Store with the given options.
func NewStore(opts ...Option) *Store {
	s := &Store{
		records:      make(map[string]*model.VisitRecord),
		capacity:     DefaultCapacity,
		recentTokens: DefaultRecentTokens,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record registers one request from the given client.
// It creates the client's record on first contact, evicting the least
// recently active client if the store is at capacity.
func (s *Store) Record(clientKey, userAgent string, token model.Token, depth int) {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[clientKey]
	if !ok {
		if len(s.records) >= s.capacity {
			s.evictOldest()
		}
		rec = &model.VisitRecord{
			ClientKey: clientKey,
			FirstSeen: now,
		}
		s.records[clientKey] = rec
	}

	rec.UserAgent = userAgent
	rec.VisitCount++
	rec.LastSeen = now
	if depth > rec.MaxDepth {
		rec.MaxDepth = depth
	}
	if s.recentTokens > 0 {
		rec.RecentTokens = append(rec.RecentTokens, token)
		if len(rec.RecentTokens) > s.recentTokens {
			rec.RecentTokens = rec.RecentTokens[len(rec.RecentTokens)-s.recentTokens:]
		}
	}
}

// evictOldest removes the least recently active record.
// Caller must hold mu.
func (s *Store) evictOldest() {
	var oldestKey string
	var oldest time.Time
	first := true
	for key, rec := range s.records {
		if first || rec.LastSeen.Before(oldest) {
			oldestKey = key
			oldest = rec.LastSeen
			first = false
		}
	}
	if !first {
		delete(s.records, oldestKey)
	}
}

// Len returns the number of tracked clients.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Snapshot returns copies of all tracked records, most recently active first.
// The returned records share no memory with the live store.
func (s *Store) Snapshot() []model.VisitRecord {
	s.mu.Lock()
	snapshot := make([]model.VisitRecord, 0, len(s.records))
	for _, rec := range s.records {
		copied := *rec
		copied.RecentTokens = append([]model.Token(nil), rec.RecentTokens...)
		snapshot = append(snapshot, copied)
	}
	s.mu.Unlock()

	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].LastSeen.After(snapshot[j].LastSeen)
	})
	return snapshot
}

// Report builds an operator-facing summary from the current snapshot.
func (s *Store) Report() *model.TrapReport {
	snapshot := s.Snapshot()

	report := &model.TrapReport{
		GeneratedAt: s.now(),
	}
	for _, rec := range snapshot {
		report.TotalHits += rec.VisitCount
		report.UniqueClients++
		if rec.MaxDepth > report.MaxDepth {
			report.MaxDepth = rec.MaxDepth
		}
		if report.FirstHit.IsZero() || rec.FirstSeen.Before(report.FirstHit) {
			report.FirstHit = rec.FirstSeen
		}
		if rec.LastSeen.After(report.LastHit) {
			report.LastHit = rec.LastSeen
		}
		report.Clients = append(report.Clients, model.ClientActivity{
			ClientKey: rec.ClientKey,
			UserAgent: rec.UserAgent,
			Hits:      rec.VisitCount,
			MaxDepth:  rec.MaxDepth,
			FirstSeen: rec.FirstSeen,
			LastSeen:  rec.LastSeen,
		})
	}

	sort.SliceStable(report.Clients, func(i, j int) bool {
		return report.Clients[i].Hits > report.Clients[j].Hits
	})
	return report
}
