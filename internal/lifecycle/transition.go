// Package lifecycle holds the case state machine and the derived views over
// a single case: status transitions, the banker-stage buckets and the
// cold-case check. Everything here is pure; persistence stays in the
// repository layer.
package lifecycle

import (
	"time"

	"github.com/shopspring/decimal"

	"loanflow/internal/models"
	"loanflow/internal/policy"
)

type ProductInput struct {
	ProductName       string          `json:"productName"`
	RequirementAmount decimal.Decimal `json:"requirementAmount"`
	Description       string          `json:"description"`
}

// Payload carries the optional data a transition may merge into the case.
type Payload struct {
	Products    []ProductInput `json:"products"`
	Description string         `json:"description"`
}

// Transition validates and applies a status change to c in memory.
//
// Re-issuing the current status is permitted for any role that can view it:
// it refreshes StatusUpdatedOn (resetting the cold-case clock) and replaces
// rather than appends product requirements, so an identical re-issue never
// duplicates entries.
func Transition(c *models.Case, to models.CaseStatus, role models.Role, p Payload, now time.Time) error {
	if !to.Valid() {
		return &ValidationError{Field: "status", Reason: "unknown status"}
	}

	if to == c.Status {
		if !policy.CanView(role, to) {
			return ErrInvalidTransition
		}
	} else if !policy.CanTransition(role, c.Status, to) {
		return ErrInvalidTransition
	}

	if err := validatePayload(to, p); err != nil {
		return err
	}

	if to == models.StatusMeetingDone {
		reqs := make([]models.ProductRequirement, 0, len(p.Products))
		for _, in := range p.Products {
			reqs = append(reqs, models.ProductRequirement{
				CaseID:            c.ID,
				ProductName:       in.ProductName,
				RequirementAmount: in.RequirementAmount,
				Description:       in.Description,
			})
		}
		c.ProductRequirements = reqs
	}
	if p.Description != "" {
		c.Description = p.Description
	}

	c.Status = to
	t := now
	c.StatusUpdatedOn = &t
	return nil
}

func validatePayload(to models.CaseStatus, p Payload) error {
	if to != models.StatusMeetingDone {
		return nil
	}
	if len(p.Products) == 0 {
		return &ValidationError{Field: "products", Reason: "at least one product requirement is required"}
	}
	for _, in := range p.Products {
		if in.ProductName == "" {
			return &ValidationError{Field: "productName", Reason: "must not be empty"}
		}
		if !in.RequirementAmount.IsPositive() {
			return &ValidationError{Field: "requirementAmount", Reason: "must be positive"}
		}
	}
	return nil
}
