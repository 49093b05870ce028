package board

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rcliao/arsip-kita/internal/classify"
	"github.com/rcliao/arsip-kita/internal/model"
)

// Submit creates a memory from the current draft.
func (b *Board) Submit(ctx context.Context) (*model.Memory, error) {
	d := b.Draft()
	return b.Create(ctx, d.Content, d.Author)
}

// Create classifies content and prepends a new memory to the working set.
// Blank content is a no-op returning nil, nil. The store write is issued
// after the working set is updated and is not waited for.
func (b *Board) Create(ctx context.Context, content, author string) (*model.Memory, error) {
	content = strings.TrimSpace(content)
	author = strings.TrimSpace(author)
	if content == "" {
		return nil, nil
	}
	if n := utf8.RuneCountInString(content); n > model.MaxContentLen {
		return nil, fmt.Errorf("%w: %d > %d", ErrContentTooLong, n, model.MaxContentLen)
	}
	if n := utf8.RuneCountInString(author); n > model.MaxAuthorLen {
		return nil, fmt.Errorf("%w: %d > %d", ErrAuthorTooLong, n, model.MaxAuthorLen)
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil, ErrClosed
	}
	b.draft = Draft{}
	b.mu.Unlock()

	b.createMu.Lock()
	defer b.createMu.Unlock()

	flight := uuid.NewString()
	log := b.logger.With(zap.String("flight", flight))

	b.setClassifying(true)
	// The classification is not cancellable once started; a departing caller
	// still gets its memory.
	res := classify.Normalize(b.classifier.Classify(context.WithoutCancel(ctx), content))
	b.setClassifying(false)

	m := model.Memory{
		ID:        b.newID(),
		Content:   content,
		Author:    author,
		CreatedAt: b.now().UnixMilli(),
		Mood:      res.Mood,
		Color:     res.Color,
		Rotation:  model.RotationFromUnit(b.rand()),
	}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		log.Warn("board closed during classification, dropping memory")
		return nil, ErrClosed
	}
	b.memories = append([]model.Memory{m}, b.memories...)
	b.status[m.ID] = WriteEvent{ID: m.ID, Op: OpPut, State: WritePending}
	b.pending.Add(1)
	b.mu.Unlock()

	b.metrics.Created()
	log.Info("memory created",
		zap.String("id", m.ID),
		zap.String("mood", string(m.Mood)))

	b.enqueue(ctx, writeOp{op: OpPut, memory: m})
	return &m, nil
}

func (b *Board) setClassifying(v bool) {
	b.mu.Lock()
	b.classifying = v
	b.mu.Unlock()
}
