package sim

import (
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// EntryKind classifies a journal entry.
type EntryKind uint8

const (
	EntryUnknown EntryKind = iota
	EntryJoin
	EntryLeave
	EntryDeath
	EntryRespawn
	EntryHit
	EntryFire
	EntryFireDropped
	EntryOffline
)

func (k EntryKind) String() string {
	switch k {
	case EntryJoin:
		return "join"
	case EntryLeave:
		return "leave"
	case EntryDeath:
		return "death"
	case EntryRespawn:
		return "respawn"
	case EntryHit:
		return "hit"
	case EntryFire:
		return "fire"
	case EntryFireDropped:
		return "fire_dropped"
	case EntryOffline:
		return "offline"
	default:
		return "unknown"
	}
}

// entryVersion is bumped when the schema changes, so old journals stay
// replayable.
const entryVersion uint8 = 1

// Entry is one journal record.
type Entry struct {
	Version   uint8           `json:"version"`
	Kind      EntryKind       `json:"kind"`
	Timestamp int64           `json:"timestamp"` // unix nano
	Sequence  uint64          `json:"sequence"`
	Tick      uint64          `json:"tick"`
	PlayerID  string          `json:"playerId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	journalBufferSize    = 1024
	journalMaxPerSec     = 5000
	journalMaxPerPlayer  = 100
	journalFlushSize     = 64
	journalFlushInterval = 100 * time.Millisecond
	limiterCleanupEvery  = 5 * time.Minute
)

// Journal is a bounded, rate-limited, append-only record of the
// reconciled event stream, written as newline-delimited JSON by an async
// writer. It exists to replay a desync after the fact; losing entries
// under pressure is acceptable, blocking the simulation is not.
type Journal struct {
	buffer    [journalBufferSize]Entry
	writeHead uint64 // atomic
	readHead  uint64 // atomic

	globalLimiter  *rate.Limiter
	playerLimiters sync.Map // map[string]*journalLimiterEntry

	writerWg sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	file   *os.File
	fileMu sync.Mutex

	dropped uint64 // atomic
	total   uint64 // atomic
}

type journalLimiterEntry struct {
	limiter  *rate.Limiter
	lastUsed time.Time
}

// NewJournal creates a journal; Start must be called before it records.
func NewJournal() *Journal {
	return &Journal{
		globalLimiter: rate.NewLimiter(journalMaxPerSec, journalMaxPerSec/10),
		stopChan:      make(chan struct{}),
	}
}

// Start opens the output file and launches the writer goroutines.
// An empty path keeps the journal in memory only.
func (j *Journal) Start(path string) error {
	if j.running.Load() {
		return nil
	}
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		j.file = f
	}
	j.running.Store(true)
	j.writerWg.Add(2)
	go j.writerLoop()
	go j.cleanupLoop()
	return nil
}

// Stop flushes and shuts the journal down.
func (j *Journal) Stop() {
	j.stopOnce.Do(func() {
		if !j.running.Load() {
			return
		}
		j.running.Store(false)
		close(j.stopChan)
		j.writerWg.Wait()

		j.fileMu.Lock()
		if j.file != nil {
			j.file.Close()
		}
		j.fileMu.Unlock()
	})
}

// Record appends an entry. Safe on a nil or stopped journal, in which
// case the entry is discarded.
func (j *Journal) Record(kind EntryKind, tick uint64, playerID string, payload any) bool {
	if j == nil || !j.running.Load() {
		return false
	}
	if !j.globalLimiter.Allow() {
		atomic.AddUint64(&j.dropped, 1)
		return false
	}
	if playerID != "" && !j.playerLimiter(playerID).Allow() {
		atomic.AddUint64(&j.dropped, 1)
		return false
	}

	var raw json.RawMessage
	if payload != nil {
		if data, err := json.Marshal(payload); err == nil {
			raw = data
		}
	}

	// The claimed slot is head-1: writeHead is the count of entries ever
	// recorded and collect reads sequences in [readHead, writeHead).
	head := atomic.AddUint64(&j.writeHead, 1)
	seq := head - 1
	tail := atomic.LoadUint64(&j.readHead)
	if head-tail > journalBufferSize {
		// Rolling window: overwrite the oldest entry under pressure.
		atomic.AddUint64(&j.readHead, 1)
		atomic.AddUint64(&j.dropped, 1)
	}

	j.buffer[seq%journalBufferSize] = Entry{
		Version:   entryVersion,
		Kind:      kind,
		Timestamp: time.Now().UnixNano(),
		Sequence:  seq,
		Tick:      tick,
		PlayerID:  playerID,
		Payload:   raw,
	}
	atomic.AddUint64(&j.total, 1)
	return true
}

func (j *Journal) playerLimiter(playerID string) *rate.Limiter {
	if entry, ok := j.playerLimiters.Load(playerID); ok {
		e := entry.(*journalLimiterEntry)
		e.lastUsed = time.Now()
		return e.limiter
	}
	entry := &journalLimiterEntry{
		limiter:  rate.NewLimiter(journalMaxPerPlayer, journalMaxPerPlayer/10),
		lastUsed: time.Now(),
	}
	actual, _ := j.playerLimiters.LoadOrStore(playerID, entry)
	return actual.(*journalLimiterEntry).limiter
}

func (j *Journal) writerLoop() {
	defer j.writerWg.Done()

	ticker := time.NewTicker(journalFlushInterval)
	defer ticker.Stop()

	batch := make([]Entry, 0, journalFlushSize)
	for {
		select {
		case <-j.stopChan:
			batch = j.collect(batch[:0])
			if len(batch) > 0 {
				j.flush(batch)
			}
			return
		case <-ticker.C:
			batch = j.collect(batch[:0])
			if len(batch) > 0 {
				j.flush(batch)
			}
		}
	}
}

func (j *Journal) cleanupLoop() {
	defer j.writerWg.Done()

	ticker := time.NewTicker(limiterCleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-j.stopChan:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-limiterCleanupEvery)
			j.playerLimiters.Range(func(key, value any) bool {
				if value.(*journalLimiterEntry).lastUsed.Before(cutoff) {
					j.playerLimiters.Delete(key)
				}
				return true
			})
		}
	}
}

func (j *Journal) collect(batch []Entry) []Entry {
	head := atomic.LoadUint64(&j.writeHead)
	tail := atomic.LoadUint64(&j.readHead)
	for i := tail; i < head && len(batch) < journalFlushSize; i++ {
		batch = append(batch, j.buffer[i%journalBufferSize])
	}
	if len(batch) > 0 {
		atomic.AddUint64(&j.readHead, uint64(len(batch)))
	}
	return batch
}

func (j *Journal) flush(batch []Entry) {
	j.fileMu.Lock()
	defer j.fileMu.Unlock()

	if j.file == nil {
		return
	}
	for _, entry := range batch {
		data, err := json.Marshal(entry)
		if err != nil {
			continue
		}
		j.file.Write(data)
		j.file.Write([]byte("\n"))
	}
}

// Stats reports counters for the observability surface.
func (j *Journal) Stats() (total, dropped, pending uint64) {
	if j == nil {
		return 0, 0, 0
	}
	head := atomic.LoadUint64(&j.writeHead)
	tail := atomic.LoadUint64(&j.readHead)
	return atomic.LoadUint64(&j.total), atomic.LoadUint64(&j.dropped), head - tail
}
