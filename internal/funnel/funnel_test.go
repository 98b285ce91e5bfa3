package funnel

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"loanflow/internal/models"
)

type caseFixture struct {
	status    models.CaseStatus
	created   time.Time
	products  bool
	banks     []models.BankStatus
	assignee  uint
	createdBy uint
}

func buildCase(id uint, s caseFixture) models.Case {
	c := models.Case{
		Model:       gorm.Model{ID: id, CreatedAt: s.created},
		Status:      s.status,
		CreatedByID: s.createdBy,
	}
	if s.products {
		c.ProductRequirements = []models.ProductRequirement{{
			CaseID:            id,
			ProductName:       "Term Loan",
			RequirementAmount: decimal.NewFromInt(500000),
		}}
	}
	for i, bs := range s.banks {
		c.BankAssignments = append(c.BankAssignments, models.BankAssignment{
			CaseID: id, BankID: uint(i + 1), Status: bs,
		})
	}
	if s.assignee != 0 {
		c.Assignments = []models.Assignment{{
			CaseID: id, Role: models.RoleKAM, AssignedToID: s.assignee,
		}}
	}
	return c
}

func buildCases(fixtures ...caseFixture) []models.Case {
	out := make([]models.Case, 0, len(fixtures))
	for i, s := range fixtures {
		out = append(out, buildCase(uint(i+1), s))
	}
	return out
}

func assertMonotone(t *testing.T, rc RatioCounts) {
	t.Helper()
	for name, pair := range map[string]RatioCount{
		"leadsToMeeting":              rc.LeadsToMeeting,
		"meetingToDocuments":          rc.MeetingToDocuments,
		"documentsToBankerAcceptance": rc.DocumentsToBankerAcceptance,
		"bankerAcceptanceToSanction":  rc.BankerAcceptanceToSanction,
		"sanctionToDisbursement":      rc.SanctionToDisbursement,
	} {
		assert.LessOrEqual(t, pair.Num, pair.Den, "%s numerator exceeds denominator", name)
	}
}

func TestComputeEmptyPopulation(t *testing.T) {
	res := Compute(nil, Filter{}, time.Now())

	assert.Zero(t, res.Today)
	assert.Zero(t, res.Last7Days)
	assert.Zero(t, res.Last30Days)
	assert.Zero(t, res.ThisFinancialYear)
	assert.Empty(t, res.StatusCounts)
	assert.Equal(t, Ratios{}, res.Ratios)
	assert.Equal(t, RatioCounts{}, res.RatioCounts)
}

func TestSingleMeetingDoneCase(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	cases := buildCases(caseFixture{
		status:   models.StatusMeetingDone,
		created:  now.Add(-time.Hour),
		products: true,
	})

	res := Compute(cases, Filter{}, now)

	assert.Equal(t, 1, res.Today)
	assert.Equal(t, 100, res.Ratios.LeadsToMeeting)
	assert.Equal(t, RatioCount{Num: 1, Den: 1}, res.RatioCounts.LeadsToMeeting)
	assert.Equal(t, RatioCount{Num: 0, Den: 1}, res.RatioCounts.MeetingToDocuments)
	assert.Equal(t, 1, res.StatusCounts[models.StatusMeetingDone])
}

func TestTerminalBranchCountsOnlyUpToDivergence(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	cases := buildCases(
		// rejected straight from open: a lead, never a meeting
		caseFixture{status: models.StatusRejected, created: now},
		// rejected after meeting_done: counts as a meeting, never as documents
		caseFixture{status: models.StatusRejected, created: now, products: true},
	)

	res := Compute(cases, Filter{}, now)

	assert.Equal(t, RatioCount{Num: 1, Den: 2}, res.RatioCounts.LeadsToMeeting)
	assert.Equal(t, RatioCount{Num: 0, Den: 1}, res.RatioCounts.MeetingToDocuments)
	assert.Equal(t, 50, res.Ratios.LeadsToMeeting)
}

func TestSanctionToDisbursementIncludesDone(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	cases := buildCases(
		caseFixture{status: models.StatusSanctioned, created: now, products: true},
		caseFixture{status: models.StatusDone, created: now, products: true, banks: []models.BankStatus{models.BankDone}},
	)

	res := Compute(cases, Filter{}, now)

	assert.Equal(t, RatioCount{Num: 1, Den: 2}, res.RatioCounts.SanctionToDisbursement)
	assert.Equal(t, 50, res.Ratios.SanctionToDisbursement)
}

func TestBankAcceptanceRatios(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	cases := buildCases(
		caseFixture{status: models.StatusUnderwriting, created: now, products: true},
		caseFixture{status: models.StatusOnePager, created: now, products: true,
			banks: []models.BankStatus{models.BankPending, models.BankAccept}},
		caseFixture{status: models.StatusSanctioned, created: now, products: true,
			banks: []models.BankStatus{models.BankAccept}},
	)

	res := Compute(cases, Filter{}, now)

	// 3 cases past documentation_in_progress, 2 with an accepting bank
	assert.Equal(t, RatioCount{Num: 2, Den: 3}, res.RatioCounts.DocumentsToBankerAcceptance)
	assert.Equal(t, 67, res.Ratios.DocumentsToBankerAcceptance)
	// 2 accepted, 1 sanctioned
	assert.Equal(t, RatioCount{Num: 1, Den: 2}, res.RatioCounts.BankerAcceptanceToSanction)
	assertMonotone(t, res.RatioCounts)
}

func TestRatioMonotonicityOnMixedPopulation(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	cases := buildCases(
		caseFixture{status: models.StatusOpen, created: now},
		caseFixture{status: models.StatusMeetingDone, created: now, products: true},
		caseFixture{status: models.StatusDocInProgress, created: now, products: true},
		caseFixture{status: models.StatusNoRequirement, created: now},
		caseFixture{status: models.StatusRejected, created: now, products: true},
		caseFixture{status: models.StatusUnderwriting, created: now, products: true,
			banks: []models.BankStatus{models.BankPending}},
		caseFixture{status: models.StatusSanctioned, created: now, products: true,
			banks: []models.BankStatus{models.BankAccept, models.BankReject}},
		caseFixture{status: models.StatusDone, created: now, products: true,
			banks: []models.BankStatus{models.BankDone, models.BankAccept}},
	)

	res := Compute(cases, Filter{}, now)
	assertMonotone(t, res.RatioCounts)
}

func TestPointInTimeCountsIgnoreFilter(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	cases := buildCases(
		caseFixture{status: models.StatusOpen, created: now.Add(-2 * time.Hour)},
		caseFixture{status: models.StatusOpen, created: now.AddDate(0, 0, -10)},
	)

	res := Compute(cases, Filter{Window: WindowToday}, now)

	// histogram sees only today's case, volume counts see everything
	assert.Equal(t, 1, res.StatusCounts[models.StatusOpen])
	assert.Equal(t, 1, res.Today)
	assert.Equal(t, 2, res.Last30Days)
}

func TestFinancialYearWindow(t *testing.T) {
	now := time.Date(2027, 2, 15, 12, 0, 0, 0, time.UTC) // FY Apr 2026 – Mar 2027
	cases := buildCases(
		caseFixture{status: models.StatusOpen, created: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},
		caseFixture{status: models.StatusOpen, created: time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)},
	)

	res := Compute(cases, Filter{Window: WindowFinancialYear}, now)

	assert.Equal(t, 1, res.ThisFinancialYear)
	assert.Equal(t, 1, res.StatusCounts[models.StatusOpen])
}

func TestAssigneeFilter(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	cases := buildCases(
		caseFixture{status: models.StatusMeetingDone, created: now, products: true, assignee: 7},
		caseFixture{status: models.StatusOpen, created: now, assignee: 8},
	)

	res := Compute(cases, Filter{UserIDs: []uint{7}}, now)

	assert.Equal(t, RatioCount{Num: 1, Den: 1}, res.RatioCounts.LeadsToMeeting)
	assert.Zero(t, res.StatusCounts[models.StatusOpen])
}

func TestUserFilterMatchesCreatorOfUnassignedLead(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	cases := buildCases(
		// a fresh lead with no assignment rows yet still belongs to the
		// telecaller who captured it
		caseFixture{status: models.StatusOpen, created: now, createdBy: 7},
		caseFixture{status: models.StatusOpen, created: now, createdBy: 8},
	)

	res := Compute(cases, Filter{UserIDs: []uint{7}}, now)

	assert.Equal(t, 1, res.StatusCounts[models.StatusOpen])
	assert.Equal(t, RatioCount{Num: 0, Den: 1}, res.RatioCounts.LeadsToMeeting)
}

func TestCustomWindowInclusiveBounds(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	from := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)
	cases := buildCases(
		caseFixture{status: models.StatusOpen, created: from},
		caseFixture{status: models.StatusOpen, created: to},
		caseFixture{status: models.StatusOpen, created: to.Add(time.Second)},
	)

	res := Compute(cases, Filter{Window: WindowCustom, From: from, To: to}, now)

	assert.Equal(t, 2, res.StatusCounts[models.StatusOpen])
}

func TestFinancialYearStart(t *testing.T) {
	assert.Equal(t,
		time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
		financialYearStart(time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t,
		time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		financialYearStart(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)))
}
