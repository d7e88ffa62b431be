package pos

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/catalog"
	"github.com/Hillarymukuka/ancestrabusiness/internal/domain/sales"
	"go.uber.org/zap"
)

// CatalogLoadFailure is reported when the product list cannot be fetched.
const CatalogLoadFailure = "Failed to load products"

// CatalogStore holds the current catalog snapshot for one terminal.
// Load is the only writer; readers always see a complete, immutable snapshot.
type CatalogStore struct {
	source   CatalogSource
	recorder Recorder
	logger   *zap.Logger
	clock    func() time.Time

	loadMu  sync.Mutex
	current atomic.Pointer[catalog.Snapshot]
}

// NewCatalogStore creates a store that starts with an empty snapshot
func NewCatalogStore(source CatalogSource, recorder Recorder, logger *zap.Logger, clock func() time.Time) *CatalogStore {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &CatalogStore{
		source:   source,
		recorder: recorder,
		logger:   logger,
		clock:    clock,
	}
	s.current.Store(catalog.EmptySnapshot())
	return s
}

// Current returns the latest snapshot; it may be empty if nothing has loaded yet.
func (s *CatalogStore) Current() *catalog.Snapshot {
	return s.current.Load()
}

// Load fetches the catalog and replaces the snapshot wholesale.
// On failure the previous snapshot is kept and a FETCH_FAILED error is returned.
func (s *CatalogStore) Load(ctx context.Context) (*catalog.Snapshot, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	products, err := s.source.ListProducts(ctx)
	if err != nil {
		s.recorder.CatalogLoaded(0, err)
		s.logger.Warn("Catalog load failed, keeping previous snapshot",
			zap.Error(err),
			zap.Int("kept_products", s.Current().Len()))
		return s.Current(), sales.NewFetchError(detailOf(err), CatalogLoadFailure)
	}

	snap := catalog.NewSnapshot(products, s.clock())
	s.current.Store(snap)
	s.recorder.CatalogLoaded(snap.Len(), nil)
	s.logger.Debug("Catalog loaded", zap.Int("products", snap.Len()))
	return snap, nil
}

// EnsureLoaded returns the current snapshot, loading it first if it never loaded.
func (s *CatalogStore) EnsureLoaded(ctx context.Context) (*catalog.Snapshot, error) {
	if snap := s.Current(); snap.IsLoaded() {
		return snap, nil
	}
	return s.Load(ctx)
}
