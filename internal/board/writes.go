package board

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/rcliao/arsip-kita/internal/model"
)

// Write operations.
const (
	OpPut    = "put"
	OpDelete = "delete"
)

// WriteState is the durability state of a record.
type WriteState string

const (
	WritePending   WriteState = "pending"
	WritePersisted WriteState = "persisted"
	WriteFailed    WriteState = "failed"
)

// WriteEvent reports the outcome of one write-through.
type WriteEvent struct {
	ID       string     `json:"id"`
	Op       string     `json:"op"`
	State    WriteState `json:"state"`
	Attempts int        `json:"attempts,omitempty"`
	Error    string     `json:"error,omitempty"`
}

// WritePolicy controls what happens when a write-through fails. The zero
// value makes one attempt and only logs failures; the working set is never
// rolled back.
//
// OnFailure runs on its own goroutine once the failed write has settled, so it
// may call Flush or Close. Calls for different writes are not ordered.
type WritePolicy struct {
	Retries   int
	OnFailure func(WriteEvent)
}

const writeTimeout = 10 * time.Second

type writeOp struct {
	ctx    context.Context
	op     string
	id     string
	memory model.Memory
}

// enqueue hands op to the single store writer. Callers must have called
// pending.Add(1) while holding mu.
func (b *Board) enqueue(ctx context.Context, op writeOp) {
	op.ctx = context.WithoutCancel(ctx)
	b.writes <- op
}

func (b *Board) runWriter() {
	defer close(b.done)
	for op := range b.writes {
		ev, failed := b.apply(op)
		b.pending.Done()
		if failed && b.policy.OnFailure != nil {
			go b.policy.OnFailure(ev)
		}
	}
}

func (b *Board) apply(op writeOp) (WriteEvent, bool) {
	id := op.id
	if op.op == OpPut {
		id = op.memory.ID
	}

	var err error
	attempts := 0
	for attempts <= b.policy.Retries {
		attempts++
		ctx, cancel := context.WithTimeout(op.ctx, writeTimeout)
		if op.op == OpPut {
			err = b.store.Put(ctx, op.memory)
		} else {
			err = b.store.Delete(ctx, id)
		}
		cancel()
		b.metrics.StoreWrite(op.op, err)
		if err == nil {
			break
		}
	}

	ev := WriteEvent{ID: id, Op: op.op, State: WritePersisted, Attempts: attempts}
	if err != nil {
		ev.State = WriteFailed
		ev.Error = err.Error()
		b.logger.Error("failed to write through",
			zap.String("op", op.op),
			zap.String("id", id),
			zap.Int("attempts", attempts),
			zap.Error(err))
	}
	b.record(ev)
	return ev, err != nil
}

func (b *Board) record(ev WriteEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// A put finishing after its record was deleted must not resurrect the status.
	if ev.Op == OpPut {
		if _, ok := b.status[ev.ID]; ok {
			b.status[ev.ID] = ev
		}
	}
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}

// WriteStatus returns the durability state of the memory with id.
func (b *Board) WriteStatus(id string) (WriteEvent, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	ev, ok := b.status[id]
	return ev, ok
}

// Subscribe returns a channel receiving every write outcome. Events are
// dropped for subscribers that fall behind. The returned func unsubscribes.
func (b *Board) Subscribe() (<-chan WriteEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan WriteEvent, 16)
	if b.closed {
		close(ch)
		return ch, func() {}
	}
	id := b.nextSub
	b.nextSub++
	b.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if c, ok := b.subs[id]; ok {
			close(c)
			delete(b.subs, id)
		}
	}
}

// Flush blocks until every issued write-through has finished.
func (b *Board) Flush() {
	b.pending.Wait()
}
