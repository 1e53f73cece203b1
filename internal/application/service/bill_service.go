package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/oscr-register/internal/domain/calculator"
	"github.com/sangkips/oscr-register/internal/domain/entity"
	"github.com/sangkips/oscr-register/internal/domain/enum"
	"github.com/sangkips/oscr-register/internal/domain/repository"
	"github.com/sangkips/oscr-register/pkg/apperror"
)

// BillService runs register commands against a session. Every mutation
// works on a clone of the open bill and only becomes visible in the session
// once the repository accepted it.
type BillService struct {
	billRepo     repository.BillRepository
	taxInfos     TaxInfoSource
	userProvider CurrentUserProvider
	clock        Clock
}

// NewBillService creates a new bill service
func NewBillService(
	billRepo repository.BillRepository,
	taxInfos TaxInfoSource,
	userProvider CurrentUserProvider,
	clock Clock,
) *BillService {
	return &BillService{
		billRepo:     billRepo,
		taxInfos:     taxInfos,
		userProvider: userProvider,
		clock:        clock,
	}
}

// AddProductOffer adds an item to the open bill, opening one with the
// standard tax info when the register has none.
func (s *BillService) AddProductOffer(ctx context.Context, session *Session, offer *entity.Offer) (*entity.BillItem, error) {
	if offer == nil {
		return nil, apperror.NewBadRequestError("Offer is required")
	}

	var next *entity.Bill
	if current := session.CurrentBill(); current != nil {
		next = current.Clone()
	} else {
		taxInfo, err := s.taxInfos.GlobalTaxInfo(enum.TaxUsageGlobalStandardVAT, s.clock.Now())
		if err != nil {
			return nil, err
		}
		next = entity.NewBill(taxInfo, s.clock.Now())
	}

	if _, err := next.AddProductOffer(offer); err != nil {
		return nil, err
	}
	if err := s.save(ctx, session, next); err != nil {
		return nil, err
	}
	return session.LastItem(), nil
}

// AddExtraOffer attaches an extra to the last added item
func (s *BillService) AddExtraOffer(ctx context.Context, session *Session, offer *entity.Offer) error {
	return s.changeLastItem(ctx, session, "add extra", offer, func(item *entity.BillItem) error {
		return item.AddExtraOffer(offer)
	})
}

// SetVariationOffer toggles a variation on the last added item
func (s *BillService) SetVariationOffer(ctx context.Context, session *Session, offer *entity.Offer) error {
	return s.changeLastItem(ctx, session, "set variation", offer, func(item *entity.BillItem) error {
		return item.ToggleVariationOffer(offer)
	})
}

// SetPromoOffer attaches a promotion to the last added item
func (s *BillService) SetPromoOffer(ctx context.Context, session *Session, offer *entity.Offer) error {
	return s.changeLastItem(ctx, session, "set promo offer", offer, func(item *entity.BillItem) error {
		return item.AddPromoOffer(offer)
	})
}

func (s *BillService) changeLastItem(ctx context.Context, session *Session, action string, offer *entity.Offer, change func(*entity.BillItem) error) error {
	current := session.CurrentBill()
	if current == nil || session.LastItem() == nil {
		return fmt.Errorf("cannot %s %v: %w", action, offer, apperror.ErrNoOpenBill)
	}
	if offer == nil {
		return apperror.NewBadRequestError("Offer is required")
	}

	next := current.Clone()
	if err := change(next.LastItem()); err != nil {
		return err
	}
	return s.save(ctx, session, next)
}

// ToggleStandardAndReducedVAT switches the open bill between the two
// global tax infos.
func (s *BillService) ToggleStandardAndReducedVAT(ctx context.Context, session *Session) error {
	current := session.CurrentBill()
	if current == nil {
		return fmt.Errorf("cannot toggle tax info: %w", apperror.ErrNoOpenBill)
	}

	usage := enum.TaxUsageGlobalReducedVAT
	if isReduced(current) {
		usage = enum.TaxUsageGlobalStandardVAT
	}
	taxInfo, err := s.taxInfos.GlobalTaxInfo(usage, s.clock.Now())
	if err != nil {
		return err
	}

	next := current.Clone()
	next.SetGlobalTaxInfo(taxInfo)
	return s.save(ctx, session, next)
}

// IsReducedVAT reports whether the open bill uses the reduced tax info
func (s *BillService) IsReducedVAT(session *Session) (bool, error) {
	current := session.CurrentBill()
	if current == nil {
		return false, fmt.Errorf("cannot query tax info: %w", apperror.ErrNoOpenBill)
	}
	return isReduced(current), nil
}

// GlobalTaxInfo returns the open bill's tax info, or nil without a bill
func (s *BillService) GlobalTaxInfo(session *Session) *entity.TaxInfo {
	if current := session.CurrentBill(); current != nil {
		return current.GlobalTaxInfo
	}
	return nil
}

func isReduced(bill *entity.Bill) bool {
	return bill.GlobalTaxInfo != nil && bill.GlobalTaxInfo.Usage == enum.TaxUsageGlobalReducedVAT
}

// SetStaffConsumer books the open bill on a staff member. Without an open
// bill nothing happens.
func (s *BillService) SetStaffConsumer(ctx context.Context, session *Session, user *entity.User) error {
	if user == nil {
		return apperror.NewBadRequestError("Staff consumer is required")
	}
	return s.changeBill(ctx, session, func(b *entity.Bill) { b.SetStaffConsumer(user) })
}

func (s *BillService) ClearStaffConsumer(ctx context.Context, session *Session) error {
	return s.changeBill(ctx, session, func(b *entity.Bill) { b.ClearStaffConsumer() })
}

func (s *BillService) SetFreePromotion(ctx context.Context, session *Session) error {
	return s.changeBill(ctx, session, func(b *entity.Bill) { b.SetFreePromotion(true) })
}

func (s *BillService) ClearFreePromotion(ctx context.Context, session *Session) error {
	return s.changeBill(ctx, session, func(b *entity.Bill) { b.SetFreePromotion(false) })
}

// SetToGo marks whether the open bill is taken away
func (s *BillService) SetToGo(ctx context.Context, session *Session, toGo bool) error {
	return s.changeBill(ctx, session, func(b *entity.Bill) { b.SetToGo(toGo) })
}

func (s *BillService) changeBill(ctx context.Context, session *Session, change func(*entity.Bill)) error {
	current := session.CurrentBill()
	if current == nil {
		return nil
	}
	next := current.Clone()
	change(next)
	return s.save(ctx, session, next)
}

// UndoLastAction removes the last item. A bill left empty is deleted.
func (s *BillService) UndoLastAction(ctx context.Context, session *Session) error {
	current := session.CurrentBill()
	if current == nil {
		return nil
	}

	next := current.Clone()
	if err := next.UndoLastAction(); err != nil {
		return err
	}
	if !next.IsEmpty() {
		return s.save(ctx, session, next)
	}

	if err := s.billRepo.Delete(ctx, next); err != nil {
		return apperror.NewPersistenceError(err)
	}
	session.reset()
	return nil
}

// CloseBill closes the open bill for the current operator and resets the
// session. The closed bill is returned.
func (s *BillService) CloseBill(ctx context.Context, session *Session) (*entity.Bill, error) {
	current := session.CurrentBill()
	if current == nil {
		return nil, fmt.Errorf("cannot close bill: %w", apperror.ErrNoOpenBill)
	}
	cashier, err := s.userProvider.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	next := current.Clone()
	if err := next.Close(cashier, s.clock.Now()); err != nil {
		return nil, err
	}
	saved, err := s.billRepo.Save(ctx, next)
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	session.reset()
	return saved, nil
}

// NewBill drops the open bill from the session. The bill stays stored and
// can be loaded again.
func (s *BillService) NewBill(session *Session) {
	session.reset()
}

// LoadBill makes a stored open bill the session's current bill
func (s *BillService) LoadBill(ctx context.Context, session *Session, billID uuid.UUID) (*entity.Bill, error) {
	bill, err := s.billRepo.GetByID(ctx, billID)
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	if bill == nil {
		return nil, apperror.NewNotFoundError("Bill")
	}
	if bill.IsClosed() {
		return nil, fmt.Errorf("load bill %s: %w", billID, apperror.ErrBillClosed)
	}
	session.swap(bill)
	return bill, nil
}

// GetBillsForDay returns the non-staff bills closed on the given day
func (s *BillService) GetBillsForDay(ctx context.Context, day time.Time) ([]*entity.Bill, error) {
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	to := from.AddDate(0, 0, 1)
	bills, err := s.billRepo.FindInRangeWithoutStaff(ctx, from, to)
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	return bills, nil
}

// GetOpenBills returns every stored bill that is not closed yet
func (s *BillService) GetOpenBills(ctx context.Context) ([]*entity.Bill, error) {
	bills, err := s.billRepo.FindOpen(ctx)
	if err != nil {
		return nil, apperror.NewPersistenceError(err)
	}
	return bills, nil
}

// GetTotalFor sums the bills of today or yesterday. The caller must Close
// the returned calculator.
func (s *BillService) GetTotalFor(ctx context.Context, period enum.Period, metric enum.TotalMetric) (*calculator.MultipleBillsCalculator, error) {
	if !period.IsValid() {
		return nil, apperror.NewBadRequestError(fmt.Sprintf("Unknown period %q", period))
	}
	bills, err := s.GetBillsForDay(ctx, period.Day(s.clock.Now()))
	if err != nil {
		return nil, err
	}
	return calculator.NewMultipleBills(bills, metric), nil
}

// save persists next and swaps it into the session. On failure the
// session keeps its previous bill and no observer is called.
func (s *BillService) save(ctx context.Context, session *Session, next *entity.Bill) error {
	saved, err := s.billRepo.Save(ctx, next)
	if err != nil {
		log.Printf("[register] %s: saving bill %s failed: %v", session.RegisterID, next.ID, err)
		return apperror.NewPersistenceError(err)
	}
	session.swap(saved)
	return nil
}
