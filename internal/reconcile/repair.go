package reconcile

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Ruben-Jim/shelton-springs-sub001/internal/store"
	"github.com/Ruben-Jim/shelton-springs-sub001/models"
)

// RepairResult reports a link-repair pass.
type RepairResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	FixedCount int    `json:"fixedCount"`
	SkipCount  int    `json:"skippedCount"`
}

// RepairObligationLinks re-points fee records whose userId no longer
// resolves to a member on the roster. Matching is heuristic: address
// substring first, then tokens of the fee name against member names.
// Records that match nothing are counted and left exactly as they are;
// nothing is ever deleted here.
func (e *Engine) RepairObligationLinks(ctx context.Context) (RepairResult, error) {
	fees, err := e.fees.AllFees(ctx)
	if err != nil {
		return RepairResult{}, fmt.Errorf("load fees: %w", err)
	}
	members, err := e.members.Members(ctx)
	if err != nil {
		return RepairResult{}, fmt.Errorf("load roster: %w", err)
	}

	result := RepairResult{Success: true}
	for _, fee := range fees {
		if fee.UserID != nil {
			_, err := e.members.MemberByID(ctx, *fee.UserID)
			if err == nil {
				continue // link is healthy
			}
			if !errors.Is(err, store.ErrNotFound) {
				return RepairResult{}, fmt.Errorf("check fee %d link: %w", fee.ID, err)
			}
		}

		matched := false
		for i := range members {
			m := members[i]
			if matchByAddress(fee.Address, m.Address) || matchByName(fee.Name, &m) {
				if err := e.fees.ReassignFeeUser(ctx, fee.ID, m.ID); err != nil {
					e.log.Error("fee reassignment failed", "fee_id", fee.ID, "member_id", m.ID, "error", err)
					break
				}
				e.log.Info("fee link repaired", "fee_id", fee.ID, "member_id", m.ID)
				result.FixedCount++
				matched = true
				break
			}
		}
		if !matched {
			result.SkipCount++
		}
	}

	result.Message = fmt.Sprintf("repaired %d fee links, skipped %d", result.FixedCount, result.SkipCount)
	return result, nil
}

// matchByAddress treats the shorter string being contained in the longer one
// as a match, case-insensitively. Fee addresses carry the " Unit N" suffix
// that member addresses may lack.
func matchByAddress(feeAddress, memberAddress string) bool {
	a := strings.ToLower(strings.TrimSpace(feeAddress))
	b := strings.ToLower(strings.TrimSpace(memberAddress))
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// matchByName looks for a member first or last name among the fee-name
// tokens. Short tokens are ignored so "of" or "Jo" cannot match.
func matchByName(feeName string, m *models.Member) bool {
	nameTokens := strings.Fields(strings.ToLower(m.FullName()))
	for _, token := range strings.Fields(strings.ToLower(feeName)) {
		if len(token) < 3 {
			continue
		}
		for _, nameToken := range nameTokens {
			if token == nameToken {
				return true
			}
		}
	}
	return false
}
