package funnel

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"loanflow/internal/lifecycle"
	"loanflow/internal/models"
)

// Walks one case through lead → meeting → underwriting idle → done and
// checks the derived views at each step.
func TestCaseLifecycleEndToEnd(t *testing.T) {
	t0 := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)

	c := models.Case{
		Model:       gorm.Model{ID: 1, CreatedAt: t0},
		Status:      models.StatusOpen,
		CompanyName: "Acme Traders",
	}
	c.StatusUpdatedOn = &t0

	payload := lifecycle.Payload{Products: []lifecycle.ProductInput{{
		ProductName:       "Term Loan",
		RequirementAmount: decimal.NewFromInt(500000),
	}}}
	require.NoError(t, lifecycle.Transition(&c, models.StatusMeetingDone, models.RoleKAM, payload, t0.Add(time.Hour)))

	res := Compute([]models.Case{c}, Filter{}, t0.Add(2*time.Hour))
	assert.Equal(t, 100, res.Ratios.LeadsToMeeting)
	assert.Equal(t, RatioCount{Num: 1, Den: 1}, res.RatioCounts.LeadsToMeeting)

	// march it to underwriting and let it idle past the threshold
	require.NoError(t, lifecycle.Transition(&c, models.StatusDocInitiated, models.RoleKAM, lifecycle.Payload{}, t0.Add(2*time.Hour)))
	require.NoError(t, lifecycle.Transition(&c, models.StatusDocInProgress, models.RoleOperations, lifecycle.Payload{}, t0.Add(3*time.Hour)))
	require.NoError(t, lifecycle.Transition(&c, models.StatusUnderwriting, models.RoleOperations, lifecycle.Payload{}, t0.Add(4*time.Hour)))

	idle := t0.Add(4*time.Hour + 50*time.Hour)
	assert.True(t, lifecycle.IsCold(&c, 48, idle), "50h idle in underwriting is cold")

	// finish the pipeline; done clears coldness immediately
	require.NoError(t, lifecycle.Transition(&c, models.StatusOnePager, models.RoleUW, lifecycle.Payload{}, idle))
	require.NoError(t, lifecycle.AddBank(&c, 11, "HDFC"))
	require.NoError(t, lifecycle.SetBankStatus(&c, 11, models.BankAccept))
	require.NoError(t, lifecycle.Transition(&c, models.StatusLogin, models.RoleBanker, lifecycle.Payload{}, idle.Add(time.Hour)))
	require.NoError(t, lifecycle.Transition(&c, models.StatusPD, models.RoleBanker, lifecycle.Payload{}, idle.Add(2*time.Hour)))
	require.NoError(t, lifecycle.Transition(&c, models.StatusSanctioned, models.RoleBanker, lifecycle.Payload{}, idle.Add(3*time.Hour)))
	require.NoError(t, lifecycle.Transition(&c, models.StatusDisbursement, models.RoleOperations, lifecycle.Payload{}, idle.Add(4*time.Hour)))
	require.NoError(t, lifecycle.Transition(&c, models.StatusDone, models.RoleOperations, lifecycle.Payload{}, idle.Add(5*time.Hour)))

	assert.False(t, lifecycle.IsCold(&c, 48, idle.Add(5000*time.Hour)))

	res = Compute([]models.Case{c}, Filter{}, idle.Add(6*time.Hour))
	assert.Equal(t, RatioCount{Num: 1, Den: 1}, res.RatioCounts.SanctionToDisbursement)
	assert.Equal(t, RatioCount{Num: 1, Den: 1}, res.RatioCounts.BankerAcceptanceToSanction)
	assertMonotone(t, res.RatioCounts)
}
