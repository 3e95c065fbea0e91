package store

import (
	"context"
	"sort"
	"sync"

	"github.com/Ruben-Jim/shelton-springs-sub001/models"
)

// MemoryStore is a mutex-guarded map implementation of the store interfaces.
// It backs the engine tests and local development without Postgres.
type MemoryStore struct {
	mu         sync.RWMutex
	members    map[uint]models.Member
	households map[string]models.Household
	fees       map[uint]models.Fee
	fines      map[uint]models.Fine
	payments   map[uint]models.Payment
	nextID     uint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		members:    make(map[uint]models.Member),
		households: make(map[string]models.Household),
		fees:       make(map[uint]models.Fee),
		fines:      make(map[uint]models.Fine),
		payments:   make(map[uint]models.Payment),
		nextID:     1,
	}
}

func (s *MemoryStore) allocID() uint {
	id := s.nextID
	s.nextID++
	return id
}

// PutMember seeds a member record, assigning an ID when absent.
func (s *MemoryStore) PutMember(member models.Member) models.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	if member.ID == 0 {
		member.ID = s.allocID()
	}
	s.members[member.ID] = member
	return member
}

func (s *MemoryStore) Homeowners(ctx context.Context) ([]models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []models.Member
	for _, m := range s.members {
		if m.IsHomeowner() && !m.IsBlocked {
			result = append(result, m)
		}
	}
	sortMembers(result)
	return result, nil
}

func (s *MemoryStore) Members(ctx context.Context) ([]models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]models.Member, 0, len(s.members))
	for _, m := range s.members {
		result = append(result, m)
	}
	sortMembers(result)
	return result, nil
}

func (s *MemoryStore) MemberByID(ctx context.Context, id uint) (*models.Member, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.members[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &m, nil
}

func (s *MemoryStore) Resolve(ctx context.Context, key, address, unitNumber string) (*models.Household, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.households[key]; ok {
		return &h, nil
	}
	h := models.Household{HouseholdKey: key, Address: address, UnitNumber: unitNumber}
	h.ID = s.allocID()
	s.households[key] = h
	return &h, nil
}

func (s *MemoryStore) CreateFee(ctx context.Context, fee *models.Fee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fee.ID == 0 {
		fee.ID = s.allocID()
	}
	s.fees[fee.ID] = *fee
	return nil
}

func (s *MemoryStore) FeeByID(ctx context.Context, id uint) (*models.Fee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.fees[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (s *MemoryStore) AnnualFees(ctx context.Context, year int) ([]models.Fee, error) {
	return s.selectFees(func(f models.Fee) bool {
		return f.Frequency == models.FrequencyAnnually && f.Year != nil && *f.Year == year
	})
}

func (s *MemoryStore) AnnualFeesByAddress(ctx context.Context, address string, year int) ([]models.Fee, error) {
	return s.selectFees(func(f models.Fee) bool {
		return f.Frequency == models.FrequencyAnnually && f.Year != nil && *f.Year == year && f.Address == address
	})
}

func (s *MemoryStore) AnnualFeesByUser(ctx context.Context, userID uint, year int) ([]models.Fee, error) {
	return s.selectFees(func(f models.Fee) bool {
		return f.Frequency == models.FrequencyAnnually && f.Year != nil && *f.Year == year &&
			f.UserID != nil && *f.UserID == userID
	})
}

func (s *MemoryStore) UnpaidFeesByUser(ctx context.Context, userID uint) ([]models.Fee, error) {
	return s.selectFees(func(f models.Fee) bool {
		return f.UserID != nil && *f.UserID == userID && f.Status != models.StatusPaid
	})
}

func (s *MemoryStore) AllFees(ctx context.Context) ([]models.Fee, error) {
	return s.selectFees(func(models.Fee) bool { return true })
}

func (s *MemoryStore) UpdateFeeStatus(ctx context.Context, id uint, status models.ObligationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fees[id]
	if !ok {
		return ErrNotFound
	}
	f.Status = status
	s.fees[id] = f
	return nil
}

func (s *MemoryStore) UpdateFeeAmount(ctx context.Context, id uint, amount float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fees[id]
	if !ok {
		return ErrNotFound
	}
	f.Amount = amount
	s.fees[id] = f
	return nil
}

func (s *MemoryStore) ReassignFeeUser(ctx context.Context, id uint, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fees[id]
	if !ok {
		return ErrNotFound
	}
	f.UserID = &userID
	s.fees[id] = f
	return nil
}

func (s *MemoryStore) CreateFine(ctx context.Context, fine *models.Fine) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if fine.ID == 0 {
		fine.ID = s.allocID()
	}
	s.fines[fine.ID] = *fine
	return nil
}

func (s *MemoryStore) FineByID(ctx context.Context, id uint) (*models.Fine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.fines[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (s *MemoryStore) UnpaidFinesByResident(ctx context.Context, residentID uint) ([]models.Fine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []models.Fine
	for _, f := range s.fines {
		if f.ResidentID == residentID && f.Status != models.StatusPaid {
			result = append(result, f)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *MemoryStore) UpdateFineStatus(ctx context.Context, id uint, status models.ObligationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.fines[id]
	if !ok {
		return ErrNotFound
	}
	f.Status = status
	s.fines[id] = f
	return nil
}

func (s *MemoryStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if payment.ID == 0 {
		payment.ID = s.allocID()
	}
	s.payments[payment.ID] = *payment
	return nil
}

func (s *MemoryStore) PaymentByID(ctx context.Context, id uint) (*models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.payments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) SavePayment(ctx context.Context, payment *models.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[payment.ID]; !ok {
		return ErrNotFound
	}
	s.payments[payment.ID] = *payment
	return nil
}

func (s *MemoryStore) PaymentsByUser(ctx context.Context, userID uint) ([]models.Payment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []models.Payment
	for _, p := range s.payments {
		if p.UserID == userID {
			result = append(result, p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (s *MemoryStore) DeletePayment(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.payments[id]; !ok {
		return ErrNotFound
	}
	delete(s.payments, id)
	return nil
}

func (s *MemoryStore) selectFees(keep func(models.Fee) bool) ([]models.Fee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var result []models.Fee
	for _, f := range s.fees {
		if keep(f) {
			result = append(result, f)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func sortMembers(members []models.Member) {
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })
}
