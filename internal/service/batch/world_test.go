package batch_test

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"parcelflow/internal/entities"
	"parcelflow/internal/service/batch"
	"parcelflow/internal/service/parcel"
	"parcelflow/internal/service/policy"
	"parcelflow/internal/service/station"
)

// world хранилище в памяти для обоих сервисов: сборка рейсов проверяется
// вместе с настоящим жизненным циклом посылок и политикой доступа.
type world struct {
	mu            sync.Mutex
	stations      map[int64]entities.Station
	parcels       map[string]entities.Parcel
	payments      map[string]entities.PaymentStatus
	batches       map[string]entities.Batch
	members       map[string][]string
	parcelHistory []entities.ParcelStatusChange
	batchHistory  []entities.BatchStatusChange
	events        []entities.StatusChanged
	seq           int
}

func newWorld(stations ...entities.Station) *world {
	w := &world{
		stations: make(map[int64]entities.Station, len(stations)),
		parcels:  make(map[string]entities.Parcel),
		payments: make(map[string]entities.PaymentStatus),
		batches:  make(map[string]entities.Batch),
		members:  make(map[string][]string),
	}
	for _, s := range stations {
		w.stations[s.ID] = s
	}
	return w
}

func (w *world) lifecycle() *parcel.Lifecycle {
	return parcel.New(parcelSide{w}, parcelSide{w}, w, policy.New(), parcelSide{w}, w, w, w)
}

func (w *world) consolidation() *batch.Consolidation {
	return batch.New(batchSide{w}, w.lifecycle(), w, policy.New(), batchSide{w}, w, w, w)
}

func (w *world) put(p entities.Parcel, payment entities.PaymentStatus) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if p.Version == 0 {
		p.Version = 1
	}
	p.PaymentStatus = payment
	w.parcels[p.ID] = p
	w.payments[p.ID] = payment
}

func (w *world) pay(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.payments[id] = entities.PaymentPaid
	p := w.parcels[id]
	p.PaymentStatus = entities.PaymentPaid
	w.parcels[id] = p
}

func (w *world) parcel(id string) entities.Parcel {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.parcels[id]
}

func (w *world) notified() []entities.StatusChanged {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]entities.StatusChanged(nil), w.events...)
}

func (w *world) deactivate(id int64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := w.stations[id]
	s.Active = false
	w.stations[id] = s
}

func (w *world) GetActive(_ context.Context, id int64) (*entities.Station, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	s, ok := w.stations[id]
	if !ok {
		return nil, station.ErrStationNotFound
	}
	if !s.Active {
		return nil, fmt.Errorf("station %s: %w", s.Code, station.ErrStationInactive)
	}
	return &s, nil
}

func (w *world) Notify(_ context.Context, event entities.StatusChanged) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, event)
}

func (w *world) ExecuteWithContext(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func (w *world) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type parcelSide struct{ *world }

func (s parcelSide) Create(_ context.Context, p entities.Parcel) (*entities.Parcel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.Version = 1
	s.parcels[p.ID] = p
	return &p, nil
}

func (s parcelSide) GetByID(_ context.Context, id string) (*entities.Parcel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.parcels[id]
	if !ok {
		return nil, parcel.ErrParcelNotFound
	}
	return &p, nil
}

func (s parcelSide) GetByTrackingCode(_ context.Context, code string) (*entities.Parcel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range s.parcels {
		if p.TrackingCode == code {
			return &p, nil
		}
	}
	return nil, parcel.ErrParcelNotFound
}

func (s parcelSide) GetByIDsForUpdate(_ context.Context, ids []string) ([]entities.Parcel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entities.Parcel, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.parcels[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s parcelSide) UpdateStatus(_ context.Context, id string, status entities.ParcelStatus, expectedVersion int64) (*entities.Parcel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.parcels[id]
	if !ok {
		return nil, parcel.ErrParcelNotFound
	}
	if p.Version != expectedVersion {
		return nil, parcel.ErrConflict
	}
	p.Status = status
	p.Version++
	s.parcels[id] = p
	return &p, nil
}

func (s parcelSide) AppendHistory(_ context.Context, change entities.ParcelStatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parcelHistory = append(s.parcelHistory, change)
	return nil
}

func (s parcelSide) GetHistory(_ context.Context, parcelID string) ([]entities.ParcelStatusChange, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []entities.ParcelStatusChange
	for _, change := range s.parcelHistory {
		if change.ParcelID == parcelID {
			out = append(out, change)
		}
	}
	return out, nil
}

func (s parcelSide) GetStatuses(_ context.Context, ids []string) (map[string]entities.PaymentStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]entities.PaymentStatus, len(ids))
	for _, id := range ids {
		out[id] = entities.PaymentUnpaid
		if status, ok := s.payments[id]; ok {
			out[id] = status
		}
	}
	return out, nil
}

func (s parcelSide) Open(_ context.Context, parcelID string, status entities.PaymentStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.payments[parcelID] = status
	return nil
}

func (s parcelSide) Allocate(_ context.Context, origin entities.Station) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return fmt.Sprintf("%s-261015-%06d", origin.Code, s.seq), nil
}

type batchSide struct{ *world }

func (s batchSide) Allocate(_ context.Context, origin entities.Station, tripDate time.Time) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return fmt.Sprintf("BT-%s-%s-%04d", origin.Code, tripDate.Format("20060102"), s.seq), nil
}

func (s batchSide) withMembers(b entities.Batch) *entities.Batch {
	b.ParcelIDs = append([]string(nil), s.members[b.ID]...)
	return &b
}

func (s batchSide) Create(_ context.Context, b entities.Batch) (*entities.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.batches {
		if existing.Code == b.Code {
			return nil, batch.ErrBatchCodeTaken
		}
	}
	b.Version = 1
	s.batches[b.ID] = b
	return s.withMembers(b), nil
}

func (s batchSide) GetByCode(_ context.Context, code string) (*entities.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, b := range s.batches {
		if b.Code == code {
			return s.withMembers(b), nil
		}
	}
	return nil, batch.ErrBatchNotFound
}

func (s batchSide) GetByCodeForUpdate(ctx context.Context, code string) (*entities.Batch, error) {
	return s.GetByCode(ctx, code)
}

func (s batchSide) List(_ context.Context, filter entities.BatchFilter) ([]entities.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]entities.Batch, 0, len(s.batches))
	for _, b := range s.batches {
		if filter.OriginStationID != nil && b.OriginStationID != *filter.OriginStationID {
			continue
		}
		if filter.DestinationStationID != nil && b.DestinationStationID != *filter.DestinationStationID {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		if filter.TripDate != nil && !b.TripDate.Equal(*filter.TripDate) {
			continue
		}
		out = append(out, *s.withMembers(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

func (s batchSide) UpdateStatus(_ context.Context, id string, status entities.BatchStatus, expectedVersion int64) (*entities.Batch, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.batches[id]
	if !ok {
		return nil, batch.ErrBatchNotFound
	}
	if b.Version != expectedVersion {
		return nil, batch.ErrConflict
	}
	b.Status = status
	b.Version++
	s.batches[id] = b
	return s.withMembers(b), nil
}

func (s batchSide) AppendHistory(_ context.Context, change entities.BatchStatusChange) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batchHistory = append(s.batchHistory, change)
	return nil
}

func (s batchSide) AssignParcels(_ context.Context, batchID string, parcelIDs []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, id := range parcelIDs {
		p, ok := s.parcels[id]
		if !ok || p.BatchID != nil {
			continue
		}
		bid := batchID
		p.BatchID = &bid
		s.parcels[id] = p
		s.members[batchID] = append(s.members[batchID], id)
		n++
	}
	return n, nil
}

func (s batchSide) ReleaseParcels(_ context.Context, batchID string, parcelIDs []string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.release(batchID, parcelIDs), nil
}

func (s batchSide) ReleaseAll(_ context.Context, batchID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.release(batchID, append([]string(nil), s.members[batchID]...)), nil
}

func (s batchSide) release(batchID string, parcelIDs []string) int64 {
	drop := make(map[string]struct{}, len(parcelIDs))
	var n int64
	for _, id := range parcelIDs {
		p, ok := s.parcels[id]
		if !ok || p.BatchID == nil || *p.BatchID != batchID {
			continue
		}
		p.BatchID = nil
		s.parcels[id] = p
		drop[id] = struct{}{}
		n++
	}

	kept := s.members[batchID][:0]
	for _, id := range s.members[batchID] {
		if _, ok := drop[id]; !ok {
			kept = append(kept, id)
		}
	}
	s.members[batchID] = kept
	return n
}
