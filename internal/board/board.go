// Package board owns the working set of memories and coordinates their
// lifecycle: classification on create, gated deletion, and write-through to
// the store.
package board

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/rcliao/arsip-kita/internal/classify"
	"github.com/rcliao/arsip-kita/internal/config"
	"github.com/rcliao/arsip-kita/internal/gate"
	"github.com/rcliao/arsip-kita/internal/logging"
	"github.com/rcliao/arsip-kita/internal/metrics"
	"github.com/rcliao/arsip-kita/internal/model"
	"github.com/rcliao/arsip-kita/internal/store"
)

var (
	ErrClosed         = errors.New("board is closed")
	ErrContentTooLong = errors.New("content too long")
	ErrAuthorTooLong  = errors.New("author too long")
)

// Classifier resolves a mood and color for note text. It must not fail.
type Classifier interface {
	Classify(ctx context.Context, text string) classify.Result
}

// Draft is the pending input pair.
type Draft struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}

// Snapshot is a copy of the board state for the presentation layer.
type Snapshot struct {
	Memories    []model.Memory `json:"memories"`
	Classifying bool           `json:"classifying"`
	Gate        gate.State     `json:"gate"`
	Draft       Draft          `json:"draft"`
	Count       int            `json:"count"`
}

// Options configures a Board. Store and Classifier are required; the rest
// have defaults.
type Options struct {
	Store      store.Store
	Classifier Classifier
	Secret     string
	Logger     *zap.Logger
	Metrics    *metrics.Collector
	Policy     WritePolicy

	Rand  func() float64   // uniform in [0, 1)
	Now   func() time.Time
	NewID func() string
}

// Board is the single owner of the working set.
type Board struct {
	store      store.Store
	classifier Classifier
	gate       *gate.Gate
	logger     *zap.Logger
	metrics    *metrics.Collector
	policy     WritePolicy
	rand       func() float64
	now        func() time.Time
	newID      func() string

	// createMu serializes creations; a second Create waits for the first.
	createMu sync.Mutex

	mu          sync.RWMutex
	memories    []model.Memory // newest first
	draft       Draft
	classifying bool
	closed      bool
	status      map[string]WriteEvent
	subs        map[int]chan WriteEvent
	nextSub     int

	writes  chan writeOp
	pending sync.WaitGroup
	done    chan struct{}
}

// New creates a board and starts its store writer.
func New(opts Options) *Board {
	b := &Board{
		store:      opts.Store,
		classifier: opts.Classifier,
		logger:     logging.ForComponent(opts.Logger, "board"),
		metrics:    opts.Metrics,
		policy:     opts.Policy,
		rand:       opts.Rand,
		now:        opts.Now,
		newID:      opts.NewID,
		status:     make(map[string]WriteEvent),
		subs:       make(map[int]chan WriteEvent),
		writes:     make(chan writeOp, 256),
		done:       make(chan struct{}),
	}

	secret := opts.Secret
	if secret == "" {
		secret = config.DefaultDeleteSecret
	}
	b.gate = gate.New(secret)

	if b.classifier == nil {
		b.classifier = classify.NewService(nil, classify.WithLogger(opts.Logger))
	}
	if b.now == nil {
		b.now = time.Now
	}
	// rand and newID run under createMu, so one unsynchronized source is safe.
	entropy := rand.New(rand.NewSource(time.Now().UnixNano()))
	if b.rand == nil {
		b.rand = entropy.Float64
	}
	if b.newID == nil {
		b.newID = func() string {
			return ulid.MustNew(ulid.Timestamp(b.now()), entropy).String()
		}
	}

	go b.runWriter()
	return b
}

// Load reads the store once. A read failure is logged and the board starts empty.
func (b *Board) Load(ctx context.Context) {
	memories, err := b.store.List(ctx)
	if err != nil {
		b.logger.Error("failed to load memories", zap.Error(err))
		memories = nil
	}
	sort.SliceStable(memories, func(i, j int) bool {
		return memories[i].CreatedAt > memories[j].CreatedAt
	})

	b.mu.Lock()
	defer b.mu.Unlock()
	b.memories = memories
	for _, m := range memories {
		b.status[m.ID] = WriteEvent{ID: m.ID, Op: OpPut, State: WritePersisted}
	}
	b.logger.Info("memories loaded", zap.Int("count", len(memories)))
}

// Memories returns a copy of the working set, newest first.
func (b *Board) Memories() []model.Memory {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]model.Memory, len(b.memories))
	copy(out, b.memories)
	return out
}

// Get returns the memory with id from the working set.
func (b *Board) Get(id string) (model.Memory, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, m := range b.memories {
		if m.ID == id {
			return m, true
		}
	}
	return model.Memory{}, false
}

// Classifying reports whether a creation is waiting on the classifier.
func (b *Board) Classifying() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.classifying
}

// Gate returns the confirmation gate state.
func (b *Board) Gate() gate.State {
	return b.gate.Snapshot()
}

// SetDraft stores the input pair, cut to the input length limits.
func (b *Board) SetDraft(content, author string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.draft = Draft{
		Content: model.Truncate(content, model.MaxContentLen),
		Author:  model.Truncate(author, model.MaxAuthorLen),
	}
}

// Draft returns the pending input pair.
func (b *Board) Draft() Draft {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.draft
}

// Snapshot returns a consistent copy of the board state.
func (b *Board) Snapshot() Snapshot {
	b.mu.RLock()
	memories := make([]model.Memory, len(b.memories))
	copy(memories, b.memories)
	s := Snapshot{
		Memories:    memories,
		Classifying: b.classifying,
		Draft:       b.draft,
		Count:       len(memories),
	}
	b.mu.RUnlock()
	s.Gate = b.gate.Snapshot()
	return s
}

// Close waits for pending writes and stops the board. Creations still
// waiting on the classifier are discarded when they resolve.
func (b *Board) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	b.gate.Cancel()
	b.pending.Wait()
	close(b.writes)
	<-b.done

	b.mu.Lock()
	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
	b.mu.Unlock()
	return nil
}
