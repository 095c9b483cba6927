package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/careercompass/compass-web/internal/models"
)

type registryEntry struct {
	flow     *AnalysisFlow
	lastUsed time.Time
}

// FlowRegistry hands out one AnalysisFlow per browser view and writes
// their state through to a ViewStateStore.
type FlowRegistry struct {
	mu       sync.Mutex
	flows    map[string]*registryEntry
	store    models.ViewStateStore
	analyzer Analyzer
	timeout  time.Duration
	idleTTL  time.Duration
	now      func() time.Time
}

func NewFlowRegistry(store models.ViewStateStore, analyzer Analyzer, timeout, idleTTL time.Duration) *FlowRegistry {
	if idleTTL <= 0 {
		idleTTL = models.DefaultViewTTL
	}
	return &FlowRegistry{
		flows:    make(map[string]*registryEntry),
		store:    store,
		analyzer: analyzer,
		timeout:  timeout,
		idleTTL:  idleTTL,
		now:      time.Now,
	}
}

// Flow returns the live flow for viewID. Saved state is read on every call
// so a newer state written by another instance replaces the cached one.
func (fr *FlowRegistry) Flow(ctx context.Context, viewID string) (*AnalysisFlow, error) {
	fr.mu.Lock()
	entry, cached := fr.flows[viewID]
	if cached {
		entry.lastUsed = fr.now()
	}
	fr.mu.Unlock()

	saved, err := fr.store.Get(ctx, viewID)
	switch {
	case err == nil:
	case errors.Is(err, models.ErrViewNotFound), errors.Is(err, models.ErrViewExpired):
		saved = nil
	case cached:
		log.Printf("Reload of view %s failed, using cached state: %v", viewID, err)
		return entry.flow, nil
	default:
		return nil, fmt.Errorf("load view %s: %w", viewID, err)
	}

	if cached {
		if saved != nil {
			entry.flow.refresh(*saved)
		}
		return entry.flow, nil
	}

	flow := NewAnalysisFlow(fr.analyzer, fr.timeout)
	flow.now = fr.now
	if saved != nil {
		flow.restore(*saved)
	}

	fr.mu.Lock()
	defer fr.mu.Unlock()

	// Another request for the same view may have won the race while we were loading.
	if entry, ok := fr.flows[viewID]; ok {
		entry.lastUsed = fr.now()
		return entry.flow, nil
	}
	fr.flows[viewID] = &registryEntry{flow: flow, lastUsed: fr.now()}
	return flow, nil
}

// Save persists the flow's current state for viewID.
func (fr *FlowRegistry) Save(ctx context.Context, viewID string, flow *AnalysisFlow) error {
	if err := fr.store.Put(ctx, viewID, flow.State()); err != nil {
		return fmt.Errorf("save view %s: %w", viewID, err)
	}
	return nil
}

// Sweep drops idle flows from memory and expired views from the store.
// Flows with a request in flight are kept.
func (fr *FlowRegistry) Sweep(ctx context.Context) (int, error) {
	cutoff := fr.now().Add(-fr.idleTTL)

	fr.mu.Lock()
	evicted := 0
	for id, entry := range fr.flows {
		if entry.lastUsed.Before(cutoff) && !entry.flow.IsLoading() {
			delete(fr.flows, id)
			evicted++
		}
	}
	fr.mu.Unlock()

	if _, err := fr.store.DeleteExpired(ctx); err != nil {
		return evicted, fmt.Errorf("sweep view store: %w", err)
	}
	return evicted, nil
}

// Len reports how many flows are held in memory.
func (fr *FlowRegistry) Len() int {
	fr.mu.Lock()
	defer fr.mu.Unlock()
	return len(fr.flows)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (fr *FlowRegistry) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			evicted, err := fr.Sweep(ctx)
			if err != nil {
				log.Printf("View sweep failed: %v", err)
				continue
			}
			if evicted > 0 {
				log.Printf("Evicted %d idle analysis views", evicted)
			}
		}
	}
}
