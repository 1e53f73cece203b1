package service

import (
	"log"
	"sync"

	"github.com/sangkips/oscr-register/internal/domain/entity"
)

// BillObserver is told about every successful change of a session's bill.
// A nil bill means the session has no open bill anymore.
type BillObserver interface {
	OnBillChanged(bill *entity.Bill)
}

// BillObserverFunc adapts a function to BillObserver
type BillObserverFunc func(bill *entity.Bill)

func (f BillObserverFunc) OnBillChanged(bill *entity.Bill) {
	f(bill)
}

type subscription struct {
	id       int
	observer BillObserver
}

// Session is the state of one register: the open bill, the item that was
// added last and the observers. It is not safe for concurrent use; the
// SessionRegistry serialises access.
type Session struct {
	RegisterID string

	current   *entity.Bill
	lastItem  *entity.BillItem
	observers []subscription
	nextID    int
}

// NewSession creates a session without an open bill
func NewSession(registerID string) *Session {
	return &Session{RegisterID: registerID}
}

// CurrentBill returns the open bill, or nil. Callers must not modify it.
func (s *Session) CurrentBill() *entity.Bill {
	return s.current
}

// LastItem returns the most recently added item of the open bill, or nil
func (s *Session) LastItem() *entity.BillItem {
	return s.lastItem
}

// Subscribe registers an observer. Observers are called in subscription
// order. The returned func removes the observer again.
func (s *Session) Subscribe(observer BillObserver) func() {
	s.nextID++
	id := s.nextID
	s.observers = append(s.observers, subscription{id: id, observer: observer})
	return func() {
		for i, sub := range s.observers {
			if sub.id == id {
				s.observers = append(s.observers[:i:i], s.observers[i+1:]...)
				return
			}
		}
	}
}

// swap makes bill the current one and notifies the observers
func (s *Session) swap(bill *entity.Bill) {
	s.current = bill
	s.lastItem = nil
	if bill != nil {
		s.lastItem = bill.LastItem()
	}
	s.notify()
}

func (s *Session) reset() {
	s.swap(nil)
}

func (s *Session) notify() {
	observers := make([]subscription, len(s.observers))
	copy(observers, s.observers)
	for _, sub := range observers {
		sub.observer.OnBillChanged(s.current)
	}
}

type registerSlot struct {
	mu      sync.Mutex
	session *Session
}

// SessionRegistry hands out one session per register and runs every
// operation on a register under that register's lock.
type SessionRegistry struct {
	mu       sync.Mutex
	slots    map[string]*registerSlot
	onCreate func(*Session)
}

// NewSessionRegistry creates a registry. onCreate, when given, runs once
// for every new session, before its first operation.
func NewSessionRegistry(onCreate func(*Session)) *SessionRegistry {
	return &SessionRegistry{
		slots:    make(map[string]*registerSlot),
		onCreate: onCreate,
	}
}

// Do runs fn with exclusive access to the register's session
func (r *SessionRegistry) Do(registerID string, fn func(*Session) error) error {
	slot := r.slot(registerID)
	slot.mu.Lock()
	defer slot.mu.Unlock()
	return fn(slot.session)
}

func (r *SessionRegistry) slot(registerID string) *registerSlot {
	r.mu.Lock()
	defer r.mu.Unlock()
	slot, ok := r.slots[registerID]
	if !ok {
		slot = &registerSlot{session: NewSession(registerID)}
		if r.onCreate != nil {
			r.onCreate(slot.session)
		}
		r.slots[registerID] = slot
	}
	return slot
}

// LogBillChanges returns an observer that logs every bill change of the
// register.
func LogBillChanges(registerID string) BillObserver {
	return BillObserverFunc(func(bill *entity.Bill) {
		if bill == nil {
			log.Printf("[register] %s: no open bill", registerID)
			return
		}
		log.Printf("[register] %s: bill %s has %d items", registerID, bill.ID, len(bill.Items))
	})
}
