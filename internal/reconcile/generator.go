package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/Knetic/govaluate"

	"github.com/Ruben-Jim/shelton-springs-sub001/internal/household"
	"github.com/Ruben-Jim/shelton-springs-sub001/internal/notify"
	"github.com/Ruben-Jim/shelton-springs-sub001/models"
)

// GenerateResult reports the outcome of one annual-fee generation run.
type GenerateResult struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	FeesCreated int    `json:"feesCreated"`
	Skipped     int    `json:"skipped"`
	Failed      int    `json:"failed"`
}

// GenerateAnnualFees creates one annual fee per household of homeowners for
// the target year. Re-running with the same year is idempotent: households
// whose address already appears on an annual fee for that year are skipped.
// Each insert commits independently; a per-household failure is counted and
// the batch continues.
func (e *Engine) GenerateAnnualFees(ctx context.Context, year int, amount float64, description string) (GenerateResult, error) {
	homeowners, err := e.members.Homeowners(ctx)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("load homeowners: %w", err)
	}

	// Group homeowners by household key, preserving enumeration order so
	// the backward-compat UserID lands on the first homeowner at the
	// address.
	byHousehold := make(map[string][]models.Member)
	var keys []string
	for _, m := range homeowners {
		key := household.Key(m.Address, m.UnitNumber)
		if _, seen := byHousehold[key]; !seen {
			keys = append(keys, key)
		}
		byHousehold[key] = append(byHousehold[key], m)
	}

	existing, err := e.fees.AnnualFees(ctx, year)
	if err != nil {
		return GenerateResult{}, fmt.Errorf("load existing annual fees: %w", err)
	}
	covered := make(map[string]bool, len(existing))
	for _, f := range existing {
		covered[f.Address] = true
	}

	result := GenerateResult{Success: true}
	dueDate := time.Date(year, time.March, 1, 0, 0, 0, 0, time.UTC)
	var noticeRecipients []uint
	for _, key := range keys {
		if covered[key] {
			result.Skipped++
			continue
		}
		owners := byHousehold[key]
		first := owners[0]

		y := year
		fee := models.Fee{
			Name:        fmt.Sprintf("%s %d", AnnualFeeType, year),
			Description: description,
			Amount:      amount,
			Frequency:   models.FrequencyAnnually,
			FeeType:     AnnualFeeType,
			DueDate:     &dueDate,
			Status:      models.StatusPending,
			UserID:      &first.ID,
			Address:     key,
			Year:        &y,
		}
		if h, err := e.households.Resolve(ctx, key, first.Address, first.UnitNumber); err != nil {
			e.log.Error("household resolve failed, fee keeps address linkage only", "key", key, "error", err)
		} else {
			fee.HouseholdID = &h.ID
		}

		if err := e.fees.CreateFee(ctx, &fee); err != nil {
			e.log.Error("annual fee insert failed", "key", key, "year", year, "error", err)
			result.Failed++
			continue
		}
		result.FeesCreated++
		for _, owner := range owners {
			noticeRecipients = append(noticeRecipients, owner.ID)
		}
	}

	if len(noticeRecipients) > 0 {
		notify.Async(e.notifier, e.log, notify.Notification{
			Recipients: noticeRecipients,
			Type:       notify.TypeDuesNotice,
			Title:      fmt.Sprintf("%d annual dues", year),
			Body:       fmt.Sprintf("Your annual HOA fee of $%.2f for %d is due %s.", amount, year, dueDate.Format("January 2, 2006")),
			Data:       map[string]string{"year": fmt.Sprintf("%d", year)},
		})
	}

	result.Message = fmt.Sprintf("created %d annual fees for %d (%d households already covered)",
		result.FeesCreated, year, result.Skipped)
	e.log.Info("annual fee generation finished",
		"year", year, "created", result.FeesCreated, "skipped", result.Skipped, "failed", result.Failed)
	return result, nil
}

// BulkUpdateResult reports a bulk amount change.
type BulkUpdateResult struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	UpdatedCount int    `json:"updatedCount"`
}

// BulkUpdateAnnualFeeAmount changes the amount of every annual fee for the
// year that is not yet Paid. Paid fees are historical and never touched.
//
// An optional formula replaces the flat amount; it is evaluated per fee with
// the current amount bound to "amount", e.g. "amount + 25" or "amount * 1.05".
func (e *Engine) BulkUpdateAnnualFeeAmount(ctx context.Context, year int, amount float64, formula string) (BulkUpdateResult, error) {
	var expr *govaluate.EvaluableExpression
	if formula != "" {
		var err error
		expr, err = govaluate.NewEvaluableExpression(formula)
		if err != nil {
			return BulkUpdateResult{}, fmt.Errorf("%w: bad amount formula %q: %v", ErrInvalidInput, formula, err)
		}
	}

	fees, err := e.fees.AnnualFees(ctx, year)
	if err != nil {
		return BulkUpdateResult{}, fmt.Errorf("load annual fees: %w", err)
	}

	result := BulkUpdateResult{Success: true}
	for _, fee := range fees {
		if fee.Status == models.StatusPaid {
			continue
		}
		next := amount
		if expr != nil {
			value, err := expr.Evaluate(map[string]interface{}{"amount": fee.Amount})
			if err != nil {
				e.log.Error("amount formula evaluation failed", "fee_id", fee.ID, "formula", formula, "error", err)
				continue
			}
			f, ok := value.(float64)
			if !ok {
				e.log.Error("amount formula did not produce a number", "fee_id", fee.ID, "formula", formula)
				continue
			}
			next = f
		}
		if err := e.fees.UpdateFeeAmount(ctx, fee.ID, next); err != nil {
			e.log.Error("annual fee amount update failed", "fee_id", fee.ID, "error", err)
			continue
		}
		result.UpdatedCount++
	}

	result.Message = fmt.Sprintf("updated %d annual fees for %d", result.UpdatedCount, year)
	return result, nil
}
