package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Ruben-Jim/shelton-springs-sub001/internal/blobstore"
	"github.com/Ruben-Jim/shelton-springs-sub001/internal/notify"
	"github.com/Ruben-Jim/shelton-springs-sub001/models"
)

// SelfReportedPayment is a member-asserted payment (Venmo). It enters the
// system untrusted and waits for admin verification.
type SelfReportedPayment struct {
	MemberID      uint
	FeeType       string
	Amount        float64
	VenmoUsername string
	TransactionID string
	ReceiptRef    string
	FeeID         *uint
	FineID        *uint
}

// IntakeSelfReportedPayment records a self-reported payment attempt as
// Pending/Pending. Username and transaction id are required and checked
// before any write.
func (e *Engine) IntakeSelfReportedPayment(ctx context.Context, in SelfReportedPayment) (*models.Payment, error) {
	if strings.TrimSpace(in.VenmoUsername) == "" {
		return nil, fmt.Errorf("%w: venmo username is required", ErrInvalidInput)
	}
	if strings.TrimSpace(in.TransactionID) == "" {
		return nil, fmt.Errorf("%w: venmo transaction id is required", ErrInvalidInput)
	}

	payment := models.Payment{
		UserID:        in.MemberID,
		Amount:        in.Amount,
		PaymentMethod: models.MethodVenmo,
		Status:        models.StatusPending,
		Verification:  models.VerificationPending,
		PaymentDate:   e.now(),
		FeeType:       in.FeeType,
		FeeID:         in.FeeID,
		FineID:        in.FineID,
		TransactionID: strings.TrimSpace(in.TransactionID),
		VenmoUsername: strings.TrimSpace(in.VenmoUsername),
		ReceiptRef:    in.ReceiptRef,
	}
	if err := e.payments.CreatePayment(ctx, &payment); err != nil {
		return nil, fmt.Errorf("record self-reported payment: %w", err)
	}

	e.log.Info("self-reported payment recorded",
		"payment_id", payment.ID, "member_id", in.MemberID, "txn", payment.TransactionID)
	return &payment, nil
}

// AdminPayment is a payment entered by an administrator (Check or Cash),
// trusted by construction.
type AdminPayment struct {
	MemberID    uint
	FeeType     string
	Amount      float64
	Method      models.PaymentMethod
	Date        time.Time
	CheckNumber string
	Notes       string
	FeeID       *uint
	FineID      *uint
}

// AdminPaymentResult is the structured outcome of an admin-recorded intake.
type AdminPaymentResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	PaymentID    uint   `json:"paymentId"`
	FeesUpdated  int    `json:"feesUpdated"`
	FinesUpdated int    `json:"finesUpdated"`
}

// IntakeAdminPayment records a trusted payment as Paid/Verified. When no
// explicit fee or fine is referenced, it settles every outstanding fee and
// fine for the member in one action, linking the payment to the first of
// each for back-reference. Each obligation patch commits on its own; a
// mid-batch failure leaves the rest unprocessed in that run but the counts
// always reflect what actually committed.
func (e *Engine) IntakeAdminPayment(ctx context.Context, in AdminPayment) (AdminPaymentResult, error) {
	if in.Method != models.MethodCheck && in.Method != models.MethodCash {
		return AdminPaymentResult{}, fmt.Errorf("%w: admin intake accepts Check or Cash, got %q", ErrInvalidInput, in.Method)
	}
	if in.Date.IsZero() {
		in.Date = e.now()
	}

	payment := models.Payment{
		UserID:        in.MemberID,
		Amount:        in.Amount,
		PaymentMethod: in.Method,
		Status:        models.StatusPaid,
		Verification:  models.VerificationVerified,
		PaymentDate:   in.Date,
		FeeType:       in.FeeType,
		FeeID:         in.FeeID,
		FineID:        in.FineID,
		TransactionID: e.synthesizeTransactionID(in.Method, in.CheckNumber),
		CheckNumber:   in.CheckNumber,
		Notes:         in.Notes,
	}

	result := AdminPaymentResult{Success: true}
	if in.FeeID == nil && in.FineID == nil {
		// Batch settle: one payment satisfies everything outstanding.
		unpaidFees, err := e.fees.UnpaidFeesByUser(ctx, in.MemberID)
		if err != nil {
			return AdminPaymentResult{}, fmt.Errorf("load unpaid fees: %w", err)
		}
		for i, fee := range unpaidFees {
			if err := e.fees.UpdateFeeStatus(ctx, fee.ID, models.StatusPaid); err != nil {
				e.log.Error("fee settle failed", "fee_id", fee.ID, "error", err)
				continue
			}
			if i == 0 {
				id := fee.ID
				payment.FeeID = &id
			}
			result.FeesUpdated++
		}

		unpaidFines, err := e.fines.UnpaidFinesByResident(ctx, in.MemberID)
		if err != nil {
			return AdminPaymentResult{}, fmt.Errorf("load unpaid fines: %w", err)
		}
		for i, fine := range unpaidFines {
			if err := e.fines.UpdateFineStatus(ctx, fine.ID, models.StatusPaid); err != nil {
				e.log.Error("fine settle failed", "fine_id", fine.ID, "error", err)
				continue
			}
			if i == 0 {
				id := fine.ID
				payment.FineID = &id
			}
			result.FinesUpdated++
		}
	} else {
		if in.FeeID != nil {
			if err := e.fees.UpdateFeeStatus(ctx, *in.FeeID, models.StatusPaid); err != nil {
				return AdminPaymentResult{}, e.mapStoreErr("fee", *in.FeeID, err)
			}
			result.FeesUpdated++
		}
		if in.FineID != nil {
			if err := e.fines.UpdateFineStatus(ctx, *in.FineID, models.StatusPaid); err != nil {
				return AdminPaymentResult{}, e.mapStoreErr("fine", *in.FineID, err)
			}
			result.FinesUpdated++
		}
	}

	if err := e.payments.CreatePayment(ctx, &payment); err != nil {
		return AdminPaymentResult{}, fmt.Errorf("record admin payment: %w", err)
	}
	result.PaymentID = payment.ID
	result.Message = fmt.Sprintf("payment recorded, %d fees and %d fines settled",
		result.FeesUpdated, result.FinesUpdated)

	notify.Async(e.notifier, e.log, notify.Notification{
		Recipients: []uint{in.MemberID},
		Type:       notify.TypePaymentRecorded,
		Title:      "Payment recorded",
		Body:       paymentBody(in.Amount, string(in.Method)),
		Data:       map[string]string{"transactionId": payment.TransactionID},
	})

	e.log.Info("admin payment recorded",
		"payment_id", payment.ID, "member_id", in.MemberID, "method", in.Method,
		"fees_updated", result.FeesUpdated, "fines_updated", result.FinesUpdated)
	return result, nil
}

// synthesizeTransactionID builds a unique channel reference for payments
// that have none of their own: "{CHK|CSH}-{epochMillis}-{checkNumber|MANUAL}".
func (e *Engine) synthesizeTransactionID(method models.PaymentMethod, checkNumber string) string {
	prefix := "CSH"
	if method == models.MethodCheck {
		prefix = "CHK"
	}
	suffix := strings.TrimSpace(checkNumber)
	if suffix == "" {
		suffix = "MANUAL"
	}
	return fmt.Sprintf("%s-%d-%s", prefix, e.now().UnixMilli(), suffix)
}

// ReceiptImage loads the receipt blob attached to a payment. Unlike the
// fire-and-forget deletion, a fetch failure surfaces: the caller asked for
// the bytes.
func (e *Engine) ReceiptImage(ctx context.Context, id uint) ([]byte, error) {
	payment, err := e.payments.PaymentByID(ctx, id)
	if err != nil {
		return nil, e.mapStoreErr("payment", id, err)
	}
	if payment.ReceiptRef == "" {
		return nil, fmt.Errorf("payment %d has no receipt: %w", id, ErrNotFound)
	}
	if e.blobs == nil {
		return nil, fmt.Errorf("no blob storage configured")
	}
	data, err := e.blobs.Fetch(ctx, payment.ReceiptRef)
	if err != nil {
		return nil, fmt.Errorf("fetch receipt %q: %w", payment.ReceiptRef, err)
	}
	return data, nil
}

// DeletePayment removes a payment record and fires deletion of its receipt
// blob. Blob failures never surface.
func (e *Engine) DeletePayment(ctx context.Context, id uint) error {
	payment, err := e.payments.PaymentByID(ctx, id)
	if err != nil {
		return e.mapStoreErr("payment", id, err)
	}
	if err := e.payments.DeletePayment(ctx, id); err != nil {
		return e.mapStoreErr("payment", id, err)
	}
	blobstore.DeleteAsync(e.blobs, e.log, payment.ReceiptRef)
	return nil
}
