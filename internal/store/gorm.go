package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Ruben-Jim/shelton-springs-sub001/models"
)

// GormStore implements every store interface on top of Postgres via GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// --- members ---

func (s *GormStore) Homeowners(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	err := s.db.WithContext(ctx).
		Where("is_resident = ? AND is_renter = ? AND is_blocked = ?", true, false, false).
		Order("id asc").
		Find(&members).Error
	if err != nil {
		return nil, fmt.Errorf("list homeowners: %w", err)
	}
	return members, nil
}

func (s *GormStore) Members(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	if err := s.db.WithContext(ctx).Order("id asc").Find(&members).Error; err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return members, nil
}

func (s *GormStore) MemberByID(ctx context.Context, id uint) (*models.Member, error) {
	var member models.Member
	if err := s.db.WithContext(ctx).First(&member, id).Error; err != nil {
		return nil, translate(err)
	}
	return &member, nil
}

// --- households ---

func (s *GormStore) Resolve(ctx context.Context, key, address, unitNumber string) (*models.Household, error) {
	household := models.Household{HouseholdKey: key, Address: address, UnitNumber: unitNumber}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "household_key"}}, DoNothing: true}).
		Create(&household).Error
	if err != nil {
		return nil, fmt.Errorf("resolve household %q: %w", key, err)
	}
	if household.ID == 0 {
		// Conflict path: the record already existed, fetch it.
		if err := s.db.WithContext(ctx).Where("household_key = ?", key).First(&household).Error; err != nil {
			return nil, translate(err)
		}
	}
	return &household, nil
}

// --- fees ---

func (s *GormStore) CreateFee(ctx context.Context, fee *models.Fee) error {
	if err := s.db.WithContext(ctx).Create(fee).Error; err != nil {
		return fmt.Errorf("create fee: %w", err)
	}
	return nil
}

func (s *GormStore) FeeByID(ctx context.Context, id uint) (*models.Fee, error) {
	var fee models.Fee
	if err := s.db.WithContext(ctx).First(&fee, id).Error; err != nil {
		return nil, translate(err)
	}
	return &fee, nil
}

func (s *GormStore) AnnualFees(ctx context.Context, year int) ([]models.Fee, error) {
	var fees []models.Fee
	err := s.db.WithContext(ctx).
		Where("frequency = ? AND year = ?", models.FrequencyAnnually, year).
		Find(&fees).Error
	if err != nil {
		return nil, fmt.Errorf("list annual fees for %d: %w", year, err)
	}
	return fees, nil
}

func (s *GormStore) AnnualFeesByAddress(ctx context.Context, address string, year int) ([]models.Fee, error) {
	var fees []models.Fee
	err := s.db.WithContext(ctx).
		Where("frequency = ? AND year = ? AND address = ?", models.FrequencyAnnually, year, address).
		Find(&fees).Error
	if err != nil {
		return nil, fmt.Errorf("annual fees for address %q: %w", address, err)
	}
	return fees, nil
}

func (s *GormStore) AnnualFeesByUser(ctx context.Context, userID uint, year int) ([]models.Fee, error) {
	var fees []models.Fee
	err := s.db.WithContext(ctx).
		Where("frequency = ? AND year = ? AND user_id = ?", models.FrequencyAnnually, year, userID).
		Find(&fees).Error
	if err != nil {
		return nil, fmt.Errorf("annual fees for user %d: %w", userID, err)
	}
	return fees, nil
}

func (s *GormStore) UnpaidFeesByUser(ctx context.Context, userID uint) ([]models.Fee, error) {
	var fees []models.Fee
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND status <> ?", userID, models.StatusPaid).
		Find(&fees).Error
	if err != nil {
		return nil, fmt.Errorf("unpaid fees for user %d: %w", userID, err)
	}
	return fees, nil
}

func (s *GormStore) AllFees(ctx context.Context) ([]models.Fee, error) {
	var fees []models.Fee
	if err := s.db.WithContext(ctx).Find(&fees).Error; err != nil {
		return nil, fmt.Errorf("list fees: %w", err)
	}
	return fees, nil
}

func (s *GormStore) UpdateFeeStatus(ctx context.Context, id uint, status models.ObligationStatus) error {
	return s.patch(ctx, &models.Fee{}, id, map[string]interface{}{"status": status})
}

func (s *GormStore) UpdateFeeAmount(ctx context.Context, id uint, amount float64) error {
	return s.patch(ctx, &models.Fee{}, id, map[string]interface{}{"amount": amount})
}

func (s *GormStore) ReassignFeeUser(ctx context.Context, id uint, userID uint) error {
	return s.patch(ctx, &models.Fee{}, id, map[string]interface{}{"user_id": userID})
}

// --- fines ---

func (s *GormStore) CreateFine(ctx context.Context, fine *models.Fine) error {
	if err := s.db.WithContext(ctx).Create(fine).Error; err != nil {
		return fmt.Errorf("create fine: %w", err)
	}
	return nil
}

func (s *GormStore) FineByID(ctx context.Context, id uint) (*models.Fine, error) {
	var fine models.Fine
	if err := s.db.WithContext(ctx).First(&fine, id).Error; err != nil {
		return nil, translate(err)
	}
	return &fine, nil
}

func (s *GormStore) UnpaidFinesByResident(ctx context.Context, residentID uint) ([]models.Fine, error) {
	var fines []models.Fine
	err := s.db.WithContext(ctx).
		Where("resident_id = ? AND status <> ?", residentID, models.StatusPaid).
		Find(&fines).Error
	if err != nil {
		return nil, fmt.Errorf("unpaid fines for resident %d: %w", residentID, err)
	}
	return fines, nil
}

func (s *GormStore) UpdateFineStatus(ctx context.Context, id uint, status models.ObligationStatus) error {
	return s.patch(ctx, &models.Fine{}, id, map[string]interface{}{"status": status})
}

// --- payments ---

func (s *GormStore) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if err := s.db.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

func (s *GormStore) PaymentByID(ctx context.Context, id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.WithContext(ctx).First(&payment, id).Error; err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (s *GormStore) SavePayment(ctx context.Context, payment *models.Payment) error {
	if err := s.db.WithContext(ctx).Save(payment).Error; err != nil {
		return fmt.Errorf("save payment %d: %w", payment.ID, err)
	}
	return nil
}

func (s *GormStore) PaymentsByUser(ctx context.Context, userID uint) ([]models.Payment, error) {
	var payments []models.Payment
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("payment_date desc").
		Find(&payments).Error
	if err != nil {
		return nil, fmt.Errorf("payments for user %d: %w", userID, err)
	}
	return payments, nil
}

func (s *GormStore) DeletePayment(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Payment{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete payment %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// patch applies a single-record update and maps "zero rows" to ErrNotFound.
// Each patch commits on its own; multi-record procedures above this layer are
// deliberately not wrapped in one transaction.
func (s *GormStore) patch(ctx context.Context, model interface{}, id uint, fields map[string]interface{}) error {
	result := s.db.WithContext(ctx).Model(model).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("update record %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
