package service

import "context"

// BayService exposes bay CRUD to the transport layer in DTO form.
type BayService struct {
	bays BayStore
}

// NewBayService constructs a BayService over the given store.
func NewBayService(bays BayStore) *BayService {
	return &BayService{bays: bays}
}

// ListAll returns every visible bay. The repository already filters
// soft-deleted rows; the extra check here is the defensive filter the
// mapping layer guarantees regardless of the store behind it.
func (s *BayService) ListAll(ctx context.Context) ([]*BayDTO, error) {
	bays, err := s.bays.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*BayDTO, 0, len(bays))
	for _, b := range bays {
		if b.Deleted {
			continue
		}
		out = append(out, bayToDTO(b))
	}
	return out, nil
}

// GetByID returns one bay or the store's not-found error.
func (s *BayService) GetByID(ctx context.Context, id uint64) (*BayDTO, error) {
	b, err := s.bays.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return bayToDTO(b), nil
}

// Add creates a bay and returns its new identity.
func (s *BayService) Add(ctx context.Context, dto *BayDTO) (uint64, error) {
	b := bayToEntity(dto)
	if err := s.bays.Create(ctx, b); err != nil {
		return 0, err
	}
	return b.ID, nil
}

// Update overwrites all mutable fields of a bay (full replace semantics).
func (s *BayService) Update(ctx context.Context, dto *BayDTO) error {
	return s.bays.Update(ctx, bayToEntity(dto))
}

// Delete soft-deletes a bay.
func (s *BayService) Delete(ctx context.Context, id uint64) error {
	return s.bays.SoftDelete(ctx, id)
}
