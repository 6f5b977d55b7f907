package engine

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/reactor-labs/reactor/pkg/eventlog"
	"github.com/reactor-labs/reactor/pkg/store"
)

// fakeStore is an in-memory EventStore standing in for pkg/store.Store in
// engine tests — no Postgres required, same OCC semantics.
type fakeStore struct {
	mu      sync.Mutex
	streams map[string][]eventlog.Envelope
}

func newFakeStore() *fakeStore {
	return &fakeStore{streams: make(map[string][]eventlog.Envelope)}
}

func (f *fakeStore) Append(_ context.Context, stream string, expectedVersion int64, events []store.NewEvent) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing := f.streams[stream]
	current := int64(-1)
	if len(existing) > 0 {
		current = existing[len(existing)-1].Position
	}
	if current != expectedVersion {
		return 0, &store.ConcurrencyConflict{Stream: stream, ExpectedVersion: expectedVersion}
	}

	version := current
	for _, e := range events {
		version++
		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}
		existing = append(existing, eventlog.Envelope{
			ID: id, Stream: stream, Kind: e.Kind, Data: e.Data, Metadata: e.Metadata,
			Position: version, GlobalPosition: int64(len(existing)), Time: time.Now().UTC(),
		})
	}
	f.streams[stream] = existing
	return version, nil
}

func (f *fakeStore) Read(_ context.Context, stream string, fromPosition int64) ([]eventlog.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []eventlog.Envelope
	for _, e := range f.streams[stream] {
		if e.Position >= fromPosition {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeStore) ListStreams(_ context.Context, categoryPrefix string, limit int) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for name := range f.streams {
		if strings.HasPrefix(name, categoryPrefix) {
			out = append(out, name)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}
