// Package funnel aggregates a case population into stage counts and
// stage-to-stage conversion ratios. It is read-only and never fails: an
// empty or odd population yields zeroed counts and 0% ratios.
package funnel

import (
	"math"
	"time"

	"loanflow/internal/lifecycle"
	"loanflow/internal/models"
)

type WindowKind string

const (
	WindowAll           WindowKind = ""
	WindowToday         WindowKind = "today"
	WindowLast7Days     WindowKind = "last7days"
	WindowLast30Days    WindowKind = "last30days"
	WindowThisWeek      WindowKind = "thisWeek"
	WindowThisMonth     WindowKind = "thisMonth"
	WindowThisYear      WindowKind = "thisYear"
	WindowFinancialYear WindowKind = "financialYear"
	WindowCustom        WindowKind = "custom"
)

// Filter restricts the population the histogram and ratios are computed
// over. The point-in-time volume counts ignore it.
type Filter struct {
	Window  WindowKind
	From    time.Time // custom range, inclusive
	To      time.Time // custom range, inclusive
	UserIDs []uint    // assignees or creators; empty means everyone
}

type RatioCount struct {
	Num int `json:"num"`
	Den int `json:"den"`
}

type Ratios struct {
	LeadsToMeeting              int `json:"leadsToMeeting"`
	MeetingToDocuments          int `json:"meetingToDocuments"`
	DocumentsToBankerAcceptance int `json:"documentsToBankerAcceptance"`
	BankerAcceptanceToSanction  int `json:"bankerAcceptanceToSanction"`
	SanctionToDisbursement      int `json:"sanctionToDisbursement"`
}

type RatioCounts struct {
	LeadsToMeeting              RatioCount `json:"leadsToMeeting"`
	MeetingToDocuments          RatioCount `json:"meetingToDocuments"`
	DocumentsToBankerAcceptance RatioCount `json:"documentsToBankerAcceptance"`
	BankerAcceptanceToSanction  RatioCount `json:"bankerAcceptanceToSanction"`
	SanctionToDisbursement      RatioCount `json:"sanctionToDisbursement"`
}

type Result struct {
	Today             int                       `json:"today"`
	Last7Days         int                       `json:"last7Days"`
	Last30Days        int                       `json:"last30Days"`
	ThisFinancialYear int                       `json:"thisFinancialYear"`
	StatusCounts      map[models.CaseStatus]int `json:"statusCounts"`
	Ratios            Ratios                    `json:"ratios"`
	RatioCounts       RatioCounts               `json:"ratioCounts"`
}

// Compute aggregates cases as of now. The four volume counts are always
// computed over the whole population against createdDate; the histogram and
// ratios run over the filtered population only.
func Compute(cases []models.Case, f Filter, now time.Time) Result {
	res := Result{StatusCounts: make(map[models.CaseStatus]int)}

	midnight := startOfDay(now)
	fy := financialYearStart(now)
	for i := range cases {
		created := cases[i].CreatedAt
		if !created.Before(midnight) {
			res.Today++
		}
		if !created.Before(now.AddDate(0, 0, -7)) {
			res.Last7Days++
		}
		if !created.Before(now.AddDate(0, 0, -30)) {
			res.Last30Days++
		}
		if !created.Before(fy) {
			res.ThisFinancialYear++
		}
	}

	pop := filterCases(cases, f, now)
	for i := range pop {
		res.StatusCounts[pop[i].Status]++
	}

	meeting := func(c *models.Case) bool { return reachedAtLeast(c, models.StatusMeetingDone) }
	docInit := func(c *models.Case) bool { return reachedAtLeast(c, models.StatusDocInitiated) }
	docProg := func(c *models.Case) bool { return reachedAtLeast(c, models.StatusDocInProgress) }
	sanctioned := func(c *models.Case) bool { return reachedAtLeast(c, models.StatusSanctioned) }
	disbursed := func(c *models.Case) bool { return reachedAtLeast(c, models.StatusDisbursement) }
	accepted := lifecycle.HasAcceptedBank

	// Numerators that mix a bank predicate with a status rank intersect
	// with the denominator predicate so num <= den holds on any population.
	res.RatioCounts.LeadsToMeeting = stageRatio(pop, everyone, meeting)
	res.RatioCounts.MeetingToDocuments = stageRatio(pop, meeting, docInit)
	res.RatioCounts.DocumentsToBankerAcceptance = stageRatio(pop, docProg,
		func(c *models.Case) bool { return docProg(c) && accepted(c) })
	res.RatioCounts.BankerAcceptanceToSanction = stageRatio(pop, accepted,
		func(c *models.Case) bool { return accepted(c) && sanctioned(c) })
	res.RatioCounts.SanctionToDisbursement = stageRatio(pop, sanctioned, disbursed)

	res.Ratios = Ratios{
		LeadsToMeeting:              percentage(res.RatioCounts.LeadsToMeeting),
		MeetingToDocuments:          percentage(res.RatioCounts.MeetingToDocuments),
		DocumentsToBankerAcceptance: percentage(res.RatioCounts.DocumentsToBankerAcceptance),
		BankerAcceptanceToSanction:  percentage(res.RatioCounts.BankerAcceptanceToSanction),
		SanctionToDisbursement:      percentage(res.RatioCounts.SanctionToDisbursement),
	}
	return res
}

func everyone(*models.Case) bool { return true }

func stageRatio(pop []models.Case, den, num func(*models.Case) bool) RatioCount {
	var rc RatioCount
	for i := range pop {
		if den(&pop[i]) {
			rc.Den++
			if num(&pop[i]) {
				rc.Num++
			}
		}
	}
	return rc
}

func percentage(rc RatioCount) int {
	if rc.Den == 0 {
		return 0
	}
	return int(math.Round(100 * float64(rc.Num) / float64(rc.Den)))
}

// reachedAtLeast reports whether c's current status is at or past s in the
// pipeline order. A terminal-branch case counts only up to the stage it
// diverged from: meeting_done if it recorded product requirements, open
// otherwise.
func reachedAtLeast(c *models.Case, s models.CaseStatus) bool {
	want, ok := s.Rank()
	if !ok {
		return false
	}
	return effectiveRank(c) >= want
}

func effectiveRank(c *models.Case) int {
	if r, ok := c.Status.Rank(); ok {
		return r
	}
	// no_requirement / rejected
	if len(c.ProductRequirements) > 0 {
		r, _ := models.StatusMeetingDone.Rank()
		return r
	}
	r, _ := models.StatusOpen.Rank()
	return r
}

func filterCases(cases []models.Case, f Filter, now time.Time) []models.Case {
	from, to, bounded := windowBounds(f, now)

	var users map[uint]struct{}
	if len(f.UserIDs) > 0 {
		users = make(map[uint]struct{}, len(f.UserIDs))
		for _, id := range f.UserIDs {
			users[id] = struct{}{}
		}
	}

	out := make([]models.Case, 0, len(cases))
	for i := range cases {
		c := &cases[i]
		if bounded {
			if c.CreatedAt.Before(from) || c.CreatedAt.After(to) {
				continue
			}
		}
		if users != nil && !belongsTo(c, users) {
			continue
		}
		out = append(out, cases[i])
	}
	return out
}

func belongsTo(c *models.Case, users map[uint]struct{}) bool {
	if _, ok := users[c.CreatedByID]; ok {
		return true
	}
	for _, a := range c.Assignments {
		if _, ok := users[a.AssignedToID]; ok {
			return true
		}
	}
	return false
}

func windowBounds(f Filter, now time.Time) (from, to time.Time, bounded bool) {
	switch f.Window {
	case WindowToday:
		return startOfDay(now), now, true
	case WindowLast7Days:
		return now.AddDate(0, 0, -7), now, true
	case WindowLast30Days:
		return now.AddDate(0, 0, -30), now, true
	case WindowThisWeek:
		// weeks start on Monday
		offset := (int(now.Weekday()) + 6) % 7
		return startOfDay(now).AddDate(0, 0, -offset), now, true
	case WindowThisMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now, true
	case WindowThisYear:
		return time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location()), now, true
	case WindowFinancialYear:
		return financialYearStart(now), now, true
	case WindowCustom:
		to = f.To
		if to.IsZero() {
			to = now
		}
		return f.From, to, true
	}
	return time.Time{}, time.Time{}, false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// financialYearStart returns April 1 of the Indian financial year containing t.
func financialYearStart(t time.Time) time.Time {
	year := t.Year()
	if t.Month() < time.April {
		year--
	}
	return time.Date(year, time.April, 1, 0, 0, 0, 0, t.Location())
}
