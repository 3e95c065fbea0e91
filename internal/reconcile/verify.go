package reconcile

import (
	"context"
	"errors"
	"fmt"

	"github.com/divan/num2words"

	"github.com/Ruben-Jim/shelton-springs-sub001/internal/notify"
	"github.com/Ruben-Jim/shelton-springs-sub001/internal/store"
	"github.com/Ruben-Jim/shelton-springs-sub001/models"
)

// VerifyDecision carries the admin trust decision on a self-reported payment.
type VerifyDecision struct {
	PaymentID    uint
	Status       models.ObligationStatus
	Verification models.VerificationStatus
	AdminNotes   string
}

// VerifyPayment applies the one-shot verification state machine:
// Pending -> Verified or Pending -> Rejected, both terminal.
//
// Verified sets the payment Paid and cascades Paid onto the linked fee and
// fine. The cascade patches commit independently; a failed patch is logged
// and is not retried. Rejected leaves the obligations untouched so they stay
// outstanding. Both outcomes emit a fire-and-forget notification.
func (e *Engine) VerifyPayment(ctx context.Context, d VerifyDecision) error {
	if d.Verification != models.VerificationVerified && d.Verification != models.VerificationRejected {
		return fmt.Errorf("%w: verification decision must be Verified or Rejected", ErrInvalidInput)
	}

	payment, err := e.payments.PaymentByID(ctx, d.PaymentID)
	if err != nil {
		return e.mapStoreErr("payment", d.PaymentID, err)
	}
	if payment.Verification != models.VerificationPending {
		return fmt.Errorf("%w: payment %d is already %s", ErrInvalidInput, d.PaymentID, payment.Verification)
	}

	payment.Verification = d.Verification
	payment.AdminNotes = d.AdminNotes
	if d.Verification == models.VerificationVerified {
		payment.Status = models.StatusPaid
	} else if d.Status != "" {
		payment.Status = d.Status
	}
	if err := e.payments.SavePayment(ctx, payment); err != nil {
		return fmt.Errorf("save verification decision: %w", err)
	}

	if d.Verification == models.VerificationVerified {
		e.cascadePaid(ctx, payment)
		notify.Async(e.notifier, e.log, notify.Notification{
			Recipients: []uint{payment.UserID},
			Type:       notify.TypePaymentVerified,
			Title:      "Payment verified",
			Body:       paymentBody(payment.Amount, string(payment.PaymentMethod)),
			Data:       map[string]string{"transactionId": payment.TransactionID},
		})
	} else {
		notify.Async(e.notifier, e.log, notify.Notification{
			Recipients: []uint{payment.UserID},
			Type:       notify.TypePaymentRejected,
			Title:      "Payment could not be verified",
			Body:       "Your reported payment was rejected. Please contact the board.",
			Data:       map[string]string{"transactionId": payment.TransactionID},
		})
	}

	e.log.Info("payment verification decided",
		"payment_id", payment.ID, "decision", d.Verification)
	return nil
}

// cascadePaid marks the obligations linked to a verified payment as Paid.
func (e *Engine) cascadePaid(ctx context.Context, payment *models.Payment) {
	if payment.FeeID != nil {
		if err := e.fees.UpdateFeeStatus(ctx, *payment.FeeID, models.StatusPaid); err != nil {
			e.log.Error("fee cascade failed", "fee_id", *payment.FeeID, "payment_id", payment.ID, "error", err)
		}
	}
	if payment.FineID != nil {
		if err := e.fines.UpdateFineStatus(ctx, *payment.FineID, models.StatusPaid); err != nil {
			e.log.Error("fine cascade failed", "fine_id", *payment.FineID, "payment_id", payment.ID, "error", err)
		}
	}
}

// paymentBody renders the notification line for a payment, spelling the
// dollar amount out in words.
func paymentBody(amount float64, method string) string {
	dollars := int(amount)
	return fmt.Sprintf("Payment of $%.2f (%s dollars) via %s.", amount, num2words.Convert(dollars), method)
}

// mapStoreErr converts store lookup failures into the engine taxonomy.
func (e *Engine) mapStoreErr(kind string, id uint, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
	}
	return fmt.Errorf("%s %d: %w", kind, id, err)
}
