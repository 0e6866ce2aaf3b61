package leaderboardservice

import (
	"log/slog"
	"sync"

	leaderboarddomain "github.com/Black-And-White-Club/green-quest/app/modules/leaderboard/domain"
	"github.com/Black-And-White-Club/green-quest/app/shared/observability/attr"
)

// Snapshot is an immutable, ranked view of the leaderboard. Receivers share the
// same snapshot and never see it change.
type Snapshot struct {
	version uint64
	records []leaderboarddomain.TownScoreRecord
}

// Entry is a ranked row.
type Entry struct {
	Rank   int                               `json:"rank"`
	Tier   leaderboarddomain.Tier            `json:"tier"`
	Record leaderboarddomain.TownScoreRecord `json:"record"`
}

// Version increases every time the view replaces its state.
func (s Snapshot) Version() uint64 { return s.version }

func (s Snapshot) Len() int { return len(s.records) }

// Records returns a copy of the ranked records.
func (s Snapshot) Records() []leaderboarddomain.TownScoreRecord {
	out := make([]leaderboarddomain.TownScoreRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Entries returns every record with its 1-based rank and tier.
func (s Snapshot) Entries() []Entry {
	out := make([]Entry, len(s.records))
	for i, r := range s.records {
		out[i] = Entry{Rank: i + 1, Tier: leaderboarddomain.TierAt(i), Record: r}
	}
	return out
}

// RankOf returns the 1-based position of the first record for townName.
func (s Snapshot) RankOf(townName string) (int, bool) {
	for i, r := range s.records {
		if r.TownName == townName {
			return i + 1, true
		}
	}
	return 0, false
}

// RankOf returns the 1-based position of the first record for townName in snap.
func RankOf(snap Snapshot, townName string) (int, bool) {
	return snap.RankOf(townName)
}

// TierOf maps a 1-based rank to its tier.
func TierOf(rank int) leaderboarddomain.Tier {
	return leaderboarddomain.TierOf(rank)
}

func (s Snapshot) indexOf(id int64) int {
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

// View owns the in-memory leaderboard. Every mutation replaces the snapshot
// wholesale and fans the new snapshot out to subscribers.
type View struct {
	mu          sync.Mutex
	logger      *slog.Logger
	state       Snapshot
	subscribers map[int]chan Snapshot
	nextSubID   int
	closed      bool
}

func NewView(logger *slog.Logger) *View {
	if logger == nil {
		logger = slog.Default()
	}
	return &View{
		logger:      logger,
		subscribers: make(map[int]chan Snapshot),
	}
}

// Snapshot returns the current state.
func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// LoadAll replaces the state with the eligible subset of records, scored and
// sorted. When an id appears more than once the last occurrence is kept.
func (v *View) LoadAll(records []leaderboarddomain.TownScoreRecord) Snapshot {
	last := make(map[int64]int, len(records))
	for i, r := range records {
		last[r.ID] = i
	}

	next := make([]leaderboarddomain.TownScoreRecord, 0, len(records))
	for i, r := range records {
		if last[r.ID] != i || !r.Eligible() {
			continue
		}
		if scored, ok := v.score(r); ok {
			next = append(next, scored)
		}
	}
	leaderboarddomain.SortByScore(next)

	v.mu.Lock()
	defer v.mu.Unlock()
	return v.replaceLocked(next)
}

// ApplyInsert places an eligible record ahead of existing records and re-sorts,
// so it precedes rows with an equal score. A row already present under the same
// id is replaced. Ineligible records leave the state unchanged.
func (v *View) ApplyInsert(record leaderboarddomain.TownScoreRecord) Snapshot {
	if !record.Eligible() {
		return v.Snapshot()
	}
	scored, ok := v.score(record)
	if !ok {
		return v.Snapshot()
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	next := make([]leaderboarddomain.TownScoreRecord, 0, len(v.state.records)+1)
	next = append(next, scored)
	for _, r := range v.state.records {
		if r.ID != record.ID {
			next = append(next, r)
		}
	}
	leaderboarddomain.SortByScore(next)
	return v.replaceLocked(next)
}

// ApplyUpdate replaces the row with the record's id, recomputes every score,
// drops rows that are no longer eligible and re-sorts. Updates for ids not in
// the current state are dropped.
func (v *View) ApplyUpdate(record leaderboarddomain.TownScoreRecord) Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	idx := v.state.indexOf(record.ID)
	if idx < 0 {
		v.logger.Debug("Dropping update for town not on the leaderboard",
			attr.Int64("id", record.ID),
			attr.String("town_name", record.TownName),
		)
		return v.state
	}

	next := make([]leaderboarddomain.TownScoreRecord, 0, len(v.state.records))
	for i, r := range v.state.records {
		if i == idx {
			r = record
		}
		if !r.Eligible() {
			continue
		}
		if scored, ok := v.score(r); ok {
			next = append(next, scored)
		}
	}
	leaderboarddomain.SortByScore(next)
	return v.replaceLocked(next)
}

// ApplyDelete removes the row with id. Unknown ids leave the state unchanged.
func (v *View) ApplyDelete(id int64) Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()

	idx := v.state.indexOf(id)
	if idx < 0 {
		return v.state
	}

	next := make([]leaderboarddomain.TownScoreRecord, 0, len(v.state.records)-1)
	next = append(next, v.state.records[:idx]...)
	next = append(next, v.state.records[idx+1:]...)
	return v.replaceLocked(next)
}

// Subscribe returns a channel receiving every new snapshot, starting with the
// current one. A slow subscriber only ever misses intermediate snapshots, never
// the latest. The returned func unsubscribes and closes the channel.
func (v *View) Subscribe(buffer int) (<-chan Snapshot, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)

	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := v.nextSubID
	v.nextSubID++
	v.subscribers[id] = ch
	ch <- v.state
	v.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			v.mu.Lock()
			defer v.mu.Unlock()
			if sub, ok := v.subscribers[id]; ok {
				delete(v.subscribers, id)
				close(sub)
			}
		})
	}
}

// Close closes every subscriber channel. Later subscriptions receive a closed channel.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	for id, ch := range v.subscribers {
		delete(v.subscribers, id)
		close(ch)
	}
}

func (v *View) score(r leaderboarddomain.TownScoreRecord) (leaderboarddomain.TownScoreRecord, bool) {
	scored, err := leaderboarddomain.Score(r)
	if err != nil {
		v.logger.Warn("Skipping town with unscorable readings",
			attr.Int64("id", r.ID),
			attr.String("town_name", r.TownName),
			attr.Error(err),
		)
		return r, false
	}
	return scored, true
}

func (v *View) replaceLocked(records []leaderboarddomain.TownScoreRecord) Snapshot {
	v.state = Snapshot{version: v.state.version + 1, records: records}
	for _, ch := range v.subscribers {
		publishLatest(ch, v.state)
	}
	return v.state
}

func publishLatest(ch chan Snapshot, snap Snapshot) {
	select {
	case ch <- snap:
		return
	default:
	}
	// Full: drop the oldest pending snapshot to make room.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- snap:
	default:
	}
}
