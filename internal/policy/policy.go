// Package policy is the static access-control table: which statuses each
// role may list, which status transitions each role may trigger, and which
// case fields are locked at each status. All lookups are data-driven; no
// role checks live anywhere else.
package policy

import "loanflow/internal/models"

type FieldName string

const (
	FieldCompanyName FieldName = "companyName"
	FieldClientName  FieldName = "clientName"
	FieldPhone       FieldName = "phone"
	FieldSPOCName    FieldName = "spocName"
	FieldSPOCEmail   FieldName = "spocEmail"
	FieldSPOCPhone   FieldName = "spocPhone"
	FieldLocation    FieldName = "location"
	FieldTurnover    FieldName = "turnover"
	FieldLeadSource  FieldName = "leadSource"
	FieldDescription FieldName = "description"
)

// identityFields are the lead-capture fields that freeze once a case moves
// past meeting_done.
var identityFields = []FieldName{
	FieldCompanyName, FieldClientName, FieldPhone,
	FieldSPOCName, FieldSPOCEmail, FieldSPOCPhone,
	FieldLocation, FieldTurnover, FieldLeadSource,
}

var allFields = append(append([]FieldName{}, identityFields...), FieldDescription)

// readonlyFieldsByStatus: statuses after meeting_done lock the identity
// fields; the terminal branches lock them too.
var readonlyFieldsByStatus = func() map[models.CaseStatus]map[FieldName]struct{} {
	locked := make(map[FieldName]struct{}, len(identityFields))
	for _, f := range identityFields {
		locked[f] = struct{}{}
	}

	m := make(map[models.CaseStatus]map[FieldName]struct{})
	meetingRank, _ := models.StatusMeetingDone.Rank()
	for _, s := range models.PipelineOrder {
		if r, _ := s.Rank(); r > meetingRank {
			m[s] = locked
		}
	}
	m[models.StatusRejected] = locked
	m[models.StatusNoRequirement] = locked
	return m
}()

// roleVisibility: which statuses a role's dashboard may list. Individual
// sees every status; its population is scoped to its own cases by the
// repository query, not by this table.
var roleVisibility = map[models.Role][]models.CaseStatus{
	models.RoleAdmin: append(append([]models.CaseStatus{}, models.PipelineOrder...),
		models.StatusNoRequirement, models.StatusRejected),
	models.RoleTelecaller: {
		models.StatusOpen, models.StatusMeetingDone,
		models.StatusNoRequirement, models.StatusRejected,
	},
	models.RoleKAM: {
		models.StatusOpen, models.StatusMeetingDone,
		models.StatusDocInitiated, models.StatusDocInProgress,
		models.StatusUnderwriting,
		models.StatusNoRequirement, models.StatusRejected,
	},
	models.RoleOperations: {
		models.StatusMeetingDone, models.StatusDocInitiated,
		models.StatusDocInProgress, models.StatusUnderwriting,
		models.StatusOnePager, models.StatusLogin, models.StatusPD,
		models.StatusSanctioned, models.StatusDisbursement, models.StatusDone,
	},
	models.RoleUW: {
		models.StatusDocInProgress, models.StatusUnderwriting, models.StatusOnePager,
	},
	models.RoleBanker: {
		models.StatusOnePager, models.StatusLogin, models.StatusPD,
		models.StatusSanctioned, models.StatusDisbursement, models.StatusDone,
	},
	models.RoleIndividual: append(append([]models.CaseStatus{}, models.PipelineOrder...),
		models.StatusNoRequirement, models.StatusRejected),
}

// transitionTable: from → to → roles allowed to trigger it. Unknown pairs
// are rejected; terminal statuses have no outgoing edges.
var transitionTable = map[models.CaseStatus]map[models.CaseStatus][]models.Role{
	models.StatusOpen: {
		models.StatusMeetingDone:   {models.RoleTelecaller, models.RoleKAM, models.RoleAdmin},
		models.StatusNoRequirement: {models.RoleTelecaller, models.RoleKAM, models.RoleAdmin},
		models.StatusRejected:      {models.RoleTelecaller, models.RoleKAM, models.RoleAdmin},
	},
	models.StatusMeetingDone: {
		models.StatusDocInitiated:  {models.RoleKAM, models.RoleOperations, models.RoleAdmin},
		models.StatusNoRequirement: {models.RoleKAM, models.RoleAdmin},
		models.StatusRejected:      {models.RoleKAM, models.RoleAdmin},
	},
	models.StatusDocInitiated: {
		models.StatusDocInProgress: {models.RoleOperations, models.RoleAdmin},
	},
	models.StatusDocInProgress: {
		models.StatusUnderwriting: {models.RoleOperations, models.RoleAdmin},
	},
	models.StatusUnderwriting: {
		models.StatusOnePager: {models.RoleUW, models.RoleAdmin},
	},
	models.StatusOnePager: {
		models.StatusLogin: {models.RoleOperations, models.RoleBanker, models.RoleAdmin},
	},
	models.StatusLogin: {
		models.StatusPD: {models.RoleBanker, models.RoleAdmin},
	},
	models.StatusPD: {
		models.StatusSanctioned: {models.RoleBanker, models.RoleAdmin},
	},
	models.StatusSanctioned: {
		models.StatusDisbursement: {models.RoleBanker, models.RoleOperations, models.RoleAdmin},
	},
	models.StatusDisbursement: {
		models.StatusDone: {models.RoleOperations, models.RoleAdmin},
	},
}

func CanView(role models.Role, status models.CaseStatus) bool {
	for _, s := range roleVisibility[role] {
		if s == status {
			return true
		}
	}
	return false
}

// VisibleStatuses returns the statuses role may list, in pipeline order.
func VisibleStatuses(role models.Role) []models.CaseStatus {
	return append([]models.CaseStatus{}, roleVisibility[role]...)
}

func CanTransition(role models.Role, from, to models.CaseStatus) bool {
	roles, ok := transitionTable[from][to]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

// EditableFields returns the case fields role may mutate given the case's
// current status. Admin bypasses the status lock; everyone else loses the
// identity fields once the case is past meeting_done.
func EditableFields(role models.Role, c *models.Case) map[FieldName]struct{} {
	out := make(map[FieldName]struct{}, len(allFields))
	for _, f := range allFields {
		out[f] = struct{}{}
	}
	if role == models.RoleAdmin {
		return out
	}
	for f := range readonlyFieldsByStatus[c.Status] {
		delete(out, f)
	}
	return out
}
