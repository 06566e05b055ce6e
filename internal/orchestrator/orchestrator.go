// Package orchestrator drives the document processing lifecycle: upload,
// conversion request, status polling and terminal resolution. Each
// submitted file runs its own independent sequence; state is exposed to
// observers through snapshots, never shared structures.
package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pagemonk/pagemonk/internal/domain"
	"github.com/pagemonk/pagemonk/internal/observability"
)

// TransferClient is the subset of backend operations the orchestrator
// drives. Each call is a single round trip with no retry.
type TransferClient interface {
	Upload(ctx context.Context, path string, onProgress func(pct int)) (*domain.DocumentRecord, error)
	RequestConversion(ctx context.Context, documentID int) error
	GetDocument(ctx context.Context, documentID int) (*domain.DocumentRecord, error)
}

// Options configures an Orchestrator.
type Options struct {
	// PollInterval is the fixed delay between status polls. The interval
	// is never adapted.
	PollInterval time.Duration
	// PollBudget caps the number of status polls per item. When the
	// budget is exhausted the item fails with a timeout message.
	PollBudget int
}

// DefaultOptions returns the standard polling settings: a 2 second
// interval with a 150 poll budget (about five minutes of patience).
func DefaultOptions() Options {
	return Options{
		PollInterval: 2 * time.Second,
		PollBudget:   150,
	}
}

// Orchestrator is a standalone stateful service tracking every in-flight
// item. It is safe for concurrent use; readers always observe complete
// snapshots because item records are replaced whole, never mutated in
// place.
type Orchestrator struct {
	client TransferClient
	logger *observability.Logger
	opts   Options

	mu      sync.RWMutex
	items   map[uuid.UUID]Item
	cancels map[uuid.UUID]context.CancelFunc
	subs    map[int]chan Item
	nextSub int
	closed  bool

	rootCtx    context.Context
	rootCancel context.CancelFunc
	wg         sync.WaitGroup
}

// New creates an orchestrator backed by the given transfer client.
func New(client TransferClient, logger *observability.Logger, opts Options) *Orchestrator {
	if logger == nil {
		logger = observability.Nop()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultOptions().PollInterval
	}
	if opts.PollBudget < 1 {
		opts.PollBudget = DefaultOptions().PollBudget
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Orchestrator{
		client:     client,
		logger:     logger.WithComponent("orchestrator"),
		opts:       opts,
		items:      make(map[uuid.UUID]Item),
		cancels:    make(map[uuid.UUID]context.CancelFunc),
		subs:       make(map[int]chan Item),
		rootCtx:    ctx,
		rootCancel: cancel,
	}
}

// Submit validates a file and, when accepted, starts its processing
// sequence. Pre-flight rejections (unsupported kind, oversized file)
// return immediately: no item is created and nothing reaches the
// network. The returned id is client-local and distinct from the backend
// document id.
func (o *Orchestrator) Submit(path string) (uuid.UUID, error) {
	info, err := os.Stat(path)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(fmt.Sprintf("cannot access file %s", path), err)
	}
	if info.IsDir() {
		return uuid.Nil, domain.NewValidationError(fmt.Sprintf("path is a directory: %s", path), nil)
	}
	if err := ValidateFile(path, info.Size()); err != nil {
		return uuid.Nil, err
	}

	now := time.Now()
	item := Item{
		ID:          uuid.New(),
		Filename:    filepath.Base(path),
		Path:        path,
		Size:        info.Size(),
		Status:      domain.StatusUploading,
		SubmittedAt: now,
		UpdatedAt:   now,
	}

	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return uuid.Nil, domain.NewValidationError("orchestrator is closed", nil)
	}
	itemCtx, cancel := context.WithCancel(o.rootCtx)
	o.items[item.ID] = item
	o.cancels[item.ID] = cancel
	o.wg.Add(1)
	o.mu.Unlock()

	o.notify(item)

	o.logger.Info().
		Str("item_id", item.ID.String()).
		Str("filename", item.Filename).
		Int64("size", item.Size).
		Msg("item submitted")

	go o.run(itemCtx, item.ID, path)

	return item.ID, nil
}

// run drives one item's sequence. Steps are strictly ordered: conversion
// is never requested before the upload acknowledgement, and polling
// never starts before conversion is requested. Every failure is terminal
// for the item; there is no retry.
func (o *Orchestrator) run(ctx context.Context, id uuid.UUID, path string) {
	defer o.wg.Done()
	defer o.release(id)

	rec, err := o.client.Upload(ctx, path, func(pct int) {
		o.update(id, func(it *Item) {
			it.Progress = pct
		})
	})
	if err != nil {
		o.fail(id, fmt.Sprintf("upload failed: %v", err))
		return
	}

	o.update(id, func(it *Item) {
		it.DocumentID = rec.ID
		it.Status = domain.StatusProcessing
		it.Progress = 100
	})

	if err := o.client.RequestConversion(ctx, rec.ID); err != nil {
		o.fail(id, fmt.Sprintf("conversion request failed: %v", err))
		return
	}

	o.poll(ctx, id, rec.ID)
}

// poll reads the document status at a fixed interval until a terminal
// status is observed, a transport error occurs, or the poll budget is
// exhausted. A poll that fails is terminal; it is not retried.
func (o *Orchestrator) poll(ctx context.Context, id uuid.UUID, documentID int) {
	ticker := time.NewTicker(o.opts.PollInterval)
	defer ticker.Stop()

	for attempt := 1; attempt <= o.opts.PollBudget; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		rec, err := o.client.GetDocument(ctx, documentID)
		if err != nil {
			o.fail(id, fmt.Sprintf("status poll failed: %v", err))
			return
		}

		switch rec.ProcessingStatus {
		case domain.StatusCompleted:
			o.update(id, func(it *Item) {
				it.Status = domain.StatusCompleted
				it.Content = rec.MarkdownContent
			})
			o.logger.Info().
				Str("item_id", id.String()).
				Int("document_id", documentID).
				Int("polls", attempt).
				Msg("conversion completed")
			return
		case domain.StatusFailed:
			o.fail(id, "conversion failed")
			return
		default:
			// queued/uploaded/processing: keep polling at the same interval
		}
	}

	o.fail(id, fmt.Sprintf("conversion timed out after %d polls", o.opts.PollBudget))
}

// Item returns a snapshot of one tracked item.
func (o *Orchestrator) Item(id uuid.UUID) (Item, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	it, ok := o.items[id]
	return it, ok
}

// Items returns snapshots of all tracked items, oldest first.
func (o *Orchestrator) Items() []Item {
	o.mu.RLock()
	out := make([]Item, 0, len(o.items))
	for _, it := range o.items {
		out = append(out, it)
	}
	o.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].SubmittedAt.Equal(out[j].SubmittedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].SubmittedAt.Before(out[j].SubmittedAt)
	})
	return out
}

// Subscribe registers an observer. Every progress change and status
// transition is delivered as an item snapshot. The returned function
// unsubscribes; slow observers miss intermediate snapshots rather than
// blocking the orchestrator.
func (o *Orchestrator) Subscribe() (<-chan Item, func()) {
	ch := make(chan Item, 64)

	o.mu.Lock()
	id := o.nextSub
	o.nextSub++
	o.subs[id] = ch
	o.mu.Unlock()

	unsubscribe := func() {
		o.mu.Lock()
		if existing, ok := o.subs[id]; ok {
			delete(o.subs, id)
			close(existing)
		}
		o.mu.Unlock()
	}
	return ch, unsubscribe
}

// Remove stops tracking an item, cancelling its sequence if still in
// flight. Polling is bound to tracking: a removed item never leaves an
// orphaned poll loop behind.
func (o *Orchestrator) Remove(id uuid.UUID) {
	o.mu.Lock()
	cancel, ok := o.cancels[id]
	delete(o.items, id)
	delete(o.cancels, id)
	o.mu.Unlock()

	if ok {
		cancel()
	}
}

// Clear stops tracking every item, cancelling any still in flight.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	cancels := make([]context.CancelFunc, 0, len(o.cancels))
	for _, cancel := range o.cancels {
		cancels = append(cancels, cancel)
	}
	o.items = make(map[uuid.UUID]Item)
	o.cancels = make(map[uuid.UUID]context.CancelFunc)
	o.mu.Unlock()

	for _, cancel := range cancels {
		cancel()
	}
}

// Wait blocks until every submitted sequence has finished.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Close cancels all in-flight sequences and waits for them to stop. The
// orchestrator accepts no further submissions.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	o.closed = true
	o.mu.Unlock()

	o.rootCancel()
	o.wg.Wait()

	o.mu.Lock()
	for id, ch := range o.subs {
		delete(o.subs, id)
		close(ch)
	}
	o.mu.Unlock()
}

// update applies a mutation to an item by replacing its record whole,
// then notifies observers. Terminal states are sticky: once an item is
// completed or failed no further transition is applied.
func (o *Orchestrator) update(id uuid.UUID, fn func(it *Item)) {
	o.mu.Lock()
	it, ok := o.items[id]
	if !ok || it.Terminal() {
		o.mu.Unlock()
		return
	}
	fn(&it)
	it.UpdatedAt = time.Now()
	o.items[id] = it
	o.mu.Unlock()

	o.notify(it)
}

func (o *Orchestrator) fail(id uuid.UUID, message string) {
	o.update(id, func(it *Item) {
		it.Status = domain.StatusFailed
		it.Err = message
	})
	o.logger.Warn().
		Str("item_id", id.String()).
		Str("reason", message).
		Msg("item failed")
}

// release drops the item's cancel func once its sequence has finished.
func (o *Orchestrator) release(id uuid.UUID) {
	o.mu.Lock()
	cancel, ok := o.cancels[id]
	delete(o.cancels, id)
	o.mu.Unlock()

	if ok {
		cancel()
	}
}

func (o *Orchestrator) notify(it Item) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	for _, ch := range o.subs {
		select {
		case ch <- it:
		default:
		}
	}
}
