package board

import (
	"context"

	"go.uber.org/zap"
)

// RequestDelete opens the confirmation gate for id.
func (b *Board) RequestDelete(id string) {
	b.gate.Open(id)
}

// CancelDelete closes the gate without deleting anything.
func (b *Board) CancelDelete() {
	b.gate.Cancel()
}

// ConfirmDelete checks secret against the gate. On a match the pending memory
// is removed from the working set (a no-op if already gone) and deleted from
// the store in the background; deleted is true. On a mismatch nothing changes
// except the gate's error flag.
func (b *Board) ConfirmDelete(ctx context.Context, secret string) (deleted bool, err error) {
	b.mu.RLock()
	closed := b.closed
	b.mu.RUnlock()
	if closed {
		return false, ErrClosed
	}

	target, ok, err := b.gate.Confirm(secret)
	if err != nil {
		return false, err
	}
	b.metrics.GateAttempt(ok)
	if !ok {
		b.logger.Info("delete confirmation rejected")
		return false, nil
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return false, ErrClosed
	}
	removed := false
	for i, m := range b.memories {
		if m.ID == target {
			b.memories = append(b.memories[:i:i], b.memories[i+1:]...)
			removed = true
			break
		}
	}
	delete(b.status, target)
	b.pending.Add(1)
	b.mu.Unlock()

	if removed {
		b.metrics.Deleted()
	}
	b.logger.Info("memory deleted", zap.String("id", target), zap.Bool("present", removed))

	b.enqueue(ctx, writeOp{op: OpDelete, id: target})
	return true, nil
}
