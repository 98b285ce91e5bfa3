package models

// CaseStatus is the lifecycle state of a loan-origination case.
type CaseStatus string

const (
	StatusOpen          CaseStatus = "open"
	StatusMeetingDone   CaseStatus = "meeting_done"
	StatusDocInitiated  CaseStatus = "documentation_initiated"
	StatusDocInProgress CaseStatus = "documentation_in_progress"
	StatusUnderwriting  CaseStatus = "underwriting"
	StatusOnePager      CaseStatus = "one_pager"
	StatusLogin         CaseStatus = "login"
	StatusPD            CaseStatus = "pd"
	StatusSanctioned    CaseStatus = "sanctioned"
	StatusDisbursement  CaseStatus = "disbursement"
	StatusDone          CaseStatus = "done"

	// terminal branches, reachable from open / meeting_done only
	StatusNoRequirement CaseStatus = "no_requirement"
	StatusRejected      CaseStatus = "rejected"
)

// PipelineOrder is the causal order of the main funnel, open → done.
// The terminal branches no_requirement / rejected are not part of it.
var PipelineOrder = []CaseStatus{
	StatusOpen,
	StatusMeetingDone,
	StatusDocInitiated,
	StatusDocInProgress,
	StatusUnderwriting,
	StatusOnePager,
	StatusLogin,
	StatusPD,
	StatusSanctioned,
	StatusDisbursement,
	StatusDone,
}

var pipelineRank = func() map[CaseStatus]int {
	m := make(map[CaseStatus]int, len(PipelineOrder))
	for i, s := range PipelineOrder {
		m[s] = i
	}
	return m
}()

// Rank returns the position of s in the pipeline order. Terminal-branch
// statuses have no rank of their own; ok is false for them.
func (s CaseStatus) Rank() (int, bool) {
	r, ok := pipelineRank[s]
	return r, ok
}

// Terminal reports whether s has no outgoing transitions.
func (s CaseStatus) Terminal() bool {
	switch s {
	case StatusDone, StatusRejected, StatusNoRequirement:
		return true
	}
	return false
}

// Valid reports whether s is a known status value.
func (s CaseStatus) Valid() bool {
	if _, ok := pipelineRank[s]; ok {
		return true
	}
	return s == StatusNoRequirement || s == StatusRejected
}

// BankStatus is the review state of one bank on one case.
type BankStatus string

const (
	BankPending BankStatus = "pending"
	BankOpen    BankStatus = "open"
	BankAccept  BankStatus = "accept"
	BankReject  BankStatus = "reject"
	BankDone    BankStatus = "done"
)

func (s BankStatus) Valid() bool {
	switch s {
	case BankPending, BankOpen, BankAccept, BankReject, BankDone:
		return true
	}
	return false
}

// DocType classifies an uploaded document's slot.
type DocType string

const (
	DocPartA    DocType = "partA"
	DocPartB    DocType = "partB"
	DocOnePager DocType = "onePager"
)

func (d DocType) Valid() bool {
	switch d {
	case DocPartA, DocPartB, DocOnePager:
		return true
	}
	return false
}
