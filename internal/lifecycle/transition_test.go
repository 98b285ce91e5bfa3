package lifecycle

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loanflow/internal/models"
)

func newCase(status models.CaseStatus, updatedOn time.Time) *models.Case {
	c := &models.Case{
		Status:      status,
		CompanyName: "Acme Traders",
	}
	c.ID = 1
	c.StatusUpdatedOn = &updatedOn
	return c
}

func termLoanPayload() Payload {
	return Payload{Products: []ProductInput{{
		ProductName:       "Term Loan",
		RequirementAmount: decimal.NewFromInt(500000),
	}}}
}

func TestTransitionUnknownPairRejected(t *testing.T) {
	t0 := time.Now()
	c := newCase(models.StatusOpen, t0)

	err := Transition(c, models.StatusUnderwriting, models.RoleAdmin, Payload{}, t0.Add(time.Hour))

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, models.StatusOpen, c.Status)
	assert.Equal(t, t0, *c.StatusUpdatedOn, "a rejected transition must leave the case unchanged")
}

func TestTransitionRoleNotPermitted(t *testing.T) {
	t0 := time.Now()
	c := newCase(models.StatusOpen, t0)

	err := Transition(c, models.StatusMeetingDone, models.RoleBanker, termLoanPayload(), t0)

	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, models.StatusOpen, c.Status)
}

func TestTransitionTerminalHasNoOutgoingEdges(t *testing.T) {
	t0 := time.Now()
	for _, terminal := range []models.CaseStatus{models.StatusDone, models.StatusRejected, models.StatusNoRequirement} {
		c := newCase(terminal, t0)
		err := Transition(c, models.StatusOpen, models.RoleAdmin, Payload{}, t0)
		assert.ErrorIs(t, err, ErrInvalidTransition, "terminal %s must have no outgoing edges", terminal)
	}
}

func TestMeetingDoneRequiresProducts(t *testing.T) {
	t0 := time.Now()
	c := newCase(models.StatusOpen, t0)

	err := Transition(c, models.StatusMeetingDone, models.RoleKAM, Payload{}, t0)

	require.ErrorIs(t, err, ErrValidationFailed)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "products", ve.Field)
	assert.Equal(t, models.StatusOpen, c.Status)
}

func TestMeetingDoneRejectsNonPositiveAmount(t *testing.T) {
	t0 := time.Now()
	c := newCase(models.StatusOpen, t0)
	p := Payload{Products: []ProductInput{{
		ProductName:       "Working Capital",
		RequirementAmount: decimal.Zero,
	}}}

	err := Transition(c, models.StatusMeetingDone, models.RoleKAM, p, t0)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "requirementAmount", ve.Field)
}

func TestMeetingDoneRejectsMissingProductName(t *testing.T) {
	t0 := time.Now()
	c := newCase(models.StatusOpen, t0)
	p := Payload{Products: []ProductInput{{
		RequirementAmount: decimal.NewFromInt(100000),
	}}}

	err := Transition(c, models.StatusMeetingDone, models.RoleTelecaller, p, t0)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "productName", ve.Field)
}

func TestTransitionAppliesPayloadAndStamp(t *testing.T) {
	t0 := time.Now()
	c := newCase(models.StatusOpen, t0)
	at := t0.Add(time.Hour)

	err := Transition(c, models.StatusMeetingDone, models.RoleKAM, termLoanPayload(), at)

	require.NoError(t, err)
	assert.Equal(t, models.StatusMeetingDone, c.Status)
	assert.Equal(t, at, *c.StatusUpdatedOn)
	require.Len(t, c.ProductRequirements, 1)
	assert.Equal(t, "Term Loan", c.ProductRequirements[0].ProductName)
	assert.True(t, c.ProductRequirements[0].RequirementAmount.Equal(decimal.NewFromInt(500000)))
}

func TestIdempotentReissueRefreshesClockWithoutDuplicating(t *testing.T) {
	t0 := time.Now()
	c := newCase(models.StatusOpen, t0)
	require.NoError(t, Transition(c, models.StatusMeetingDone, models.RoleKAM, termLoanPayload(), t0))

	later := t0.Add(3 * time.Hour)
	err := Transition(c, models.StatusMeetingDone, models.RoleKAM, termLoanPayload(), later)

	require.NoError(t, err)
	assert.Equal(t, later, *c.StatusUpdatedOn, "re-issue must reset the cold-case clock")
	assert.Len(t, c.ProductRequirements, 1, "re-issue must not duplicate requirements")
}

func TestIdempotentReissueNeedsVisibility(t *testing.T) {
	t0 := time.Now()
	c := newCase(models.StatusUnderwriting, t0)

	err := Transition(c, models.StatusUnderwriting, models.RoleTelecaller, Payload{}, t0.Add(time.Hour))

	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestFullPipelineWalk(t *testing.T) {
	steps := []struct {
		to   models.CaseStatus
		role models.Role
	}{
		{models.StatusMeetingDone, models.RoleTelecaller},
		{models.StatusDocInitiated, models.RoleKAM},
		{models.StatusDocInProgress, models.RoleOperations},
		{models.StatusUnderwriting, models.RoleOperations},
		{models.StatusOnePager, models.RoleUW},
		{models.StatusLogin, models.RoleBanker},
		{models.StatusPD, models.RoleBanker},
		{models.StatusSanctioned, models.RoleBanker},
		{models.StatusDisbursement, models.RoleOperations},
		{models.StatusDone, models.RoleOperations},
	}

	now := time.Now()
	c := newCase(models.StatusOpen, now)
	for _, step := range steps {
		now = now.Add(time.Hour)
		p := Payload{}
		if step.to == models.StatusMeetingDone {
			p = termLoanPayload()
		}
		require.NoError(t, Transition(c, step.to, step.role, p, now), "step to %s", step.to)
		assert.Equal(t, step.to, c.Status)
	}
}
