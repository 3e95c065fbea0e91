package reconcile

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Ruben-Jim/shelton-springs-sub001/internal/household"
	"github.com/Ruben-Jim/shelton-springs-sub001/models"
)

// The good-standing answer is an ordered rule list evaluated top to bottom;
// the first rule that decides wins. The ordering is load-bearing: the system
// evolved from a payment-only model to explicit fee records, both record
// shapes coexist, and the order determines which households with zero fee
// records pass vacuously.
type standingRule struct {
	name string
	eval func(ctx context.Context, e *Engine, in *standingInput) (standingVerdict, error)
}

type standingVerdict struct {
	decided bool
	paid    bool
}

type standingInput struct {
	member       *models.Member
	householdKey string
	year         int
	// payerIDs are the members whose verified payments may satisfy the
	// annual fee on the payment-only fallback path. For the single-member
	// question this is just the member; the household report widens it to
	// every homeowner sharing the key.
	payerIDs []uint
}

var standingRules = []standingRule{
	{name: "unpaid-fine-blocks", eval: ruleUnpaidFineBlocks},
	{name: "explicit-fee-records", eval: ruleExplicitFeeRecords},
	{name: "verified-payment-fallback", eval: ruleVerifiedPaymentFallback},
}

// Rule 1: any unpaid fine puts the member out of good standing, regardless
// of fee payment.
func ruleUnpaidFineBlocks(ctx context.Context, e *Engine, in *standingInput) (standingVerdict, error) {
	fines, err := e.fines.UnpaidFinesByResident(ctx, in.member.ID)
	if err != nil {
		return standingVerdict{}, err
	}
	if len(fines) > 0 {
		return standingVerdict{decided: true, paid: false}, nil
	}
	return standingVerdict{}, nil
}

// Rule 2: explicit fee records decide when they exist. Household-keyed fees
// are preferred; userId-keyed fees are the legacy fallback. Satisfied only
// when every matching fee is Paid.
func ruleExplicitFeeRecords(ctx context.Context, e *Engine, in *standingInput) (standingVerdict, error) {
	fees, err := e.annualFeesFor(ctx, in.member, in.householdKey, in.year)
	if err != nil {
		return standingVerdict{}, err
	}
	if len(fees) == 0 {
		return standingVerdict{}, nil
	}
	for _, fee := range fees {
		if fee.Status != models.StatusPaid {
			return standingVerdict{decided: true, paid: false}, nil
		}
	}
	return standingVerdict{decided: true, paid: true}, nil
}

// Rule 3: reached only when no fee records exist. A verified annual-fee
// payment dated in the current year satisfies; otherwise the answer is false.
// Terminal rule, always decides.
func ruleVerifiedPaymentFallback(ctx context.Context, e *Engine, in *standingInput) (standingVerdict, error) {
	for _, payerID := range in.payerIDs {
		payments, err := e.payments.PaymentsByUser(ctx, payerID)
		if err != nil {
			return standingVerdict{}, err
		}
		for _, p := range payments {
			if p.CountsTowardSatisfaction() &&
				strings.HasPrefix(p.FeeType, AnnualFeeType) &&
				p.PaymentDate.Year() == in.year {
				return standingVerdict{decided: true, paid: true}, nil
			}
		}
	}
	return standingVerdict{decided: true, paid: false}, nil
}

// annualFeesFor looks up the current-year annual fees for a member:
// household-keyed first, userId-keyed as the legacy fallback.
func (e *Engine) annualFeesFor(ctx context.Context, member *models.Member, key string, year int) ([]models.Fee, error) {
	fees, err := e.fees.AnnualFeesByAddress(ctx, key, year)
	if err != nil {
		return nil, fmt.Errorf("fees by household key: %w", err)
	}
	if len(fees) > 0 {
		return fees, nil
	}
	fees, err = e.fees.AnnualFeesByUser(ctx, member.ID, year)
	if err != nil {
		return nil, fmt.Errorf("fees by user: %w", err)
	}
	return fees, nil
}

// HasPaidAnnualFee answers whether the member's household has satisfied the
// current year's annual fee obligation and carries no unpaid fines.
func (e *Engine) HasPaidAnnualFee(ctx context.Context, memberID uint) (bool, error) {
	member, err := e.members.MemberByID(ctx, memberID)
	if err != nil {
		return false, e.mapStoreErr("member", memberID, err)
	}
	in := &standingInput{
		member:       member,
		householdKey: household.Key(member.Address, member.UnitNumber),
		year:         e.now().Year(),
		payerIDs:     []uint{member.ID},
	}
	return e.evalStanding(ctx, in)
}

func (e *Engine) evalStanding(ctx context.Context, in *standingInput) (bool, error) {
	for _, rule := range standingRules {
		v, err := rule.eval(ctx, e, in)
		if err != nil {
			return false, fmt.Errorf("standing rule %s: %w", rule.name, err)
		}
		if v.decided {
			return v.paid, nil
		}
	}
	return false, nil
}

// MemberStanding is one row of the household payment-status report.
type MemberStanding struct {
	MemberID         uint    `json:"memberId"`
	Name             string  `json:"name"`
	HouseholdKey     string  `json:"householdKey"`
	UserType         string  `json:"userType"`
	HasPaidAnnualFee bool    `json:"hasPaidAnnualFee"`
	PaymentStatus    string  `json:"paymentStatus"`
	AnnualFeeAmount  float64 `json:"annualFeeAmount"`
}

// PaymentStatusReport is the admin view over the whole roster. Money totals
// are summed with decimals so pennies survive the aggregation.
type PaymentStatusReport struct {
	Rows             []MemberStanding `json:"rows"`
	TotalCollected   decimal.Decimal  `json:"totalCollected"`
	TotalOutstanding decimal.Decimal  `json:"totalOutstanding"`
	Year             int              `json:"year"`
	GeneratedAt      time.Time        `json:"generatedAt"`
}

// HouseholdPaymentStatusReport builds the roster-wide standing view. On the
// payment-only fallback path a verified payment from any homeowner sharing
// the household key satisfies the whole household, so one spouse's Venmo
// payment covers both.
func (e *Engine) HouseholdPaymentStatusReport(ctx context.Context) (*PaymentStatusReport, error) {
	members, err := e.members.Members(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roster: %w", err)
	}

	// Homeowner ids per household key, for the widened fallback path.
	payersByKey := make(map[string][]uint)
	for _, m := range members {
		if m.IsHomeowner() {
			key := household.Key(m.Address, m.UnitNumber)
			payersByKey[key] = append(payersByKey[key], m.ID)
		}
	}

	year := e.now().Year()
	report := &PaymentStatusReport{
		Year:             year,
		GeneratedAt:      e.now(),
		TotalCollected:   decimal.Zero,
		TotalOutstanding: decimal.Zero,
	}

	for i := range members {
		m := members[i]
		key := household.Key(m.Address, m.UnitNumber)
		payers := payersByKey[key]
		if len(payers) == 0 {
			payers = []uint{m.ID}
		}

		in := &standingInput{member: &m, householdKey: key, year: year, payerIDs: payers}
		paid, err := e.evalStanding(ctx, in)
		if err != nil {
			return nil, err
		}

		fees, err := e.annualFeesFor(ctx, &m, key, year)
		if err != nil {
			return nil, err
		}
		var feeAmount float64
		if len(fees) > 0 {
			feeAmount = fees[0].Amount
		}

		row := MemberStanding{
			MemberID:         m.ID,
			Name:             m.FullName(),
			HouseholdKey:     key,
			UserType:         userType(&m),
			HasPaidAnnualFee: paid,
			PaymentStatus:    e.paymentStatusLabel(ctx, &m, paid),
			AnnualFeeAmount:  feeAmount,
		}
		report.Rows = append(report.Rows, row)

		amount := decimal.NewFromFloat(feeAmount)
		if paid {
			report.TotalCollected = report.TotalCollected.Add(amount)
		} else {
			report.TotalOutstanding = report.TotalOutstanding.Add(amount)
		}
	}
	return report, nil
}

func (e *Engine) paymentStatusLabel(ctx context.Context, m *models.Member, paid bool) string {
	if paid {
		return "Paid"
	}
	payments, err := e.payments.PaymentsByUser(ctx, m.ID)
	if err != nil {
		e.log.Error("payment lookup for status label failed", "member_id", m.ID, "error", err)
		return "Unpaid"
	}
	for _, p := range payments {
		if p.Verification == models.VerificationPending && p.PaymentDate.Year() == e.now().Year() {
			return "Pending Verification"
		}
	}
	return "Unpaid"
}

func userType(m *models.Member) string {
	switch {
	case m.IsBoardMember:
		return "Board"
	case m.IsHomeowner():
		return "Homeowner"
	case m.IsRenter:
		return "Renter"
	default:
		return "Resident"
	}
}
