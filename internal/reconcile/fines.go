package reconcile

import (
	"context"
	"fmt"
	"strings"

	"github.com/Ruben-Jim/shelton-springs-sub001/models"
)

// FineInput describes a new violation fine.
type FineInput struct {
	Address     string
	MemberID    uint
	Amount      float64
	Reason      string
	Description string
}

// AddFine issues a fine against one resident. Fines are never shared across
// a household.
func (e *Engine) AddFine(ctx context.Context, in FineInput) (*models.Fine, error) {
	if strings.TrimSpace(in.Reason) == "" {
		return nil, fmt.Errorf("%w: fine reason is required", ErrInvalidInput)
	}
	if _, err := e.members.MemberByID(ctx, in.MemberID); err != nil {
		return nil, e.mapStoreErr("member", in.MemberID, err)
	}

	fine := models.Fine{
		ResidentID:  in.MemberID,
		Address:     in.Address,
		Amount:      in.Amount,
		Reason:      strings.TrimSpace(in.Reason),
		Description: in.Description,
		Status:      models.StatusPending,
		IssuedDate:  e.now(),
	}
	if err := e.fines.CreateFine(ctx, &fine); err != nil {
		return nil, fmt.Errorf("create fine: %w", err)
	}
	e.log.Info("fine issued", "fine_id", fine.ID, "member_id", in.MemberID, "reason", fine.Reason)
	return &fine, nil
}

// Fine returns one fine by id.
func (e *Engine) Fine(ctx context.Context, fineID uint) (*models.Fine, error) {
	fine, err := e.fines.FineByID(ctx, fineID)
	if err != nil {
		return nil, e.mapStoreErr("fine", fineID, err)
	}
	return fine, nil
}

// UpdateFineStatus patches a fine's status. Unknown ids fail with ErrNotFound.
func (e *Engine) UpdateFineStatus(ctx context.Context, fineID uint, status models.ObligationStatus) error {
	switch status {
	case models.StatusPending, models.StatusPaid, models.StatusOverdue:
	default:
		return fmt.Errorf("%w: unknown fine status %q", ErrInvalidInput, status)
	}
	if err := e.fines.UpdateFineStatus(ctx, fineID, status); err != nil {
		return e.mapStoreErr("fine", fineID, err)
	}
	return nil
}
