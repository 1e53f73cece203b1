package memory

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/entity"
	domainRepo "github.com/sangkips/oscr-register/internal/domain/repository"
)

type billRepository struct {
	s *Store
}

// NewBillRepository creates a bill repository on the store. Bills are
// cloned on the way in and out, so callers never share state with it.
func NewBillRepository(s *Store) domainRepo.BillRepository {
	return &billRepository{s: s}
}

func (r *billRepository) Save(ctx context.Context, bill *entity.Bill) (*entity.Bill, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	stored := bill.Clone()
	now := time.Now()
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	for idx, item := range stored.Items {
		item.BillID = stored.ID
		item.Position = idx
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		for pos, a := range item.Attachments {
			a.BillItemID = item.ID
			a.Position = pos
			if a.ID == uuid.Nil {
				a.ID = uuid.New()
			}
		}
	}

	r.s.mu.Lock()
	r.s.bills[stored.ID] = stored
	r.s.mu.Unlock()

	return stored.Clone(), nil
}

func (r *billRepository) Delete(ctx context.Context, bill *entity.Bill) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	delete(r.s.bills, bill.ID)
	r.s.mu.Unlock()
	return nil
}

func (r *billRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Bill, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	bill, ok := r.s.bills[id]
	if !ok {
		return nil, nil
	}
	return bill.Clone(), nil
}

func (r *billRepository) FindOpen(ctx context.Context) ([]*entity.Bill, error) {
	bills, err := r.find(ctx, func(b *entity.Bill) bool { return !b.IsClosed() })
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(bills, func(a, b *entity.Bill) int {
		return a.OpenedAt.Compare(b.OpenedAt)
	})
	return bills, nil
}

func (r *billRepository) FindInRange(ctx context.Context, from, to time.Time) ([]*entity.Bill, error) {
	return r.closedIn(ctx, from, to, false)
}

func (r *billRepository) FindInRangeWithoutStaff(ctx context.Context, from, to time.Time) ([]*entity.Bill, error) {
	return r.closedIn(ctx, from, to, true)
}

func (r *billRepository) closedIn(ctx context.Context, from, to time.Time, withoutStaff bool) ([]*entity.Bill, error) {
	bills, err := r.find(ctx, func(b *entity.Bill) bool {
		if !b.IsClosed() || b.ClosedAt.Before(from) || !b.ClosedAt.Before(to) {
			return false
		}
		return !withoutStaff || !b.IsStaffBill()
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(bills, func(a, b *entity.Bill) int {
		return a.ClosedAt.Compare(*b.ClosedAt)
	})
	return bills, nil
}

func (r *billRepository) find(ctx context.Context, keep func(*entity.Bill) bool) ([]*entity.Bill, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var bills []*entity.Bill
	for _, b := range r.s.bills {
		if keep(b) {
			bills = append(bills, b.Clone())
		}
	}
	return bills, nil
}
