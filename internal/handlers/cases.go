package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"loanflow/internal/database"
	"loanflow/internal/lifecycle"
	"loanflow/internal/middleware"
	"loanflow/internal/models"
	"loanflow/internal/policy"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// caseView decorates a case with the derived views list pages key off.
type caseView struct {
	models.Case
	Buckets lifecycle.BankerBuckets `json:"buckets"`
	IsCold  bool                    `json:"isCold"`
}

func newCaseView(c models.Case, thresholdHours int, now time.Time) caseView {
	return caseView{
		Case:    c,
		Buckets: lifecycle.Buckets(&c),
		IsCold:  lifecycle.IsCold(&c, thresholdHours, now),
	}
}

func sessionUser(c *gin.Context) (models.User, bool) {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	}
	return u, ok
}

func parseCaseID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.Atoi(c.Param(param))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid case id"})
		return 0, false
	}
	return uint(id), true
}

// canSeeCase is the single read-visibility check: Individual sees only its
// own cases, everyone else is gated by the role/status table.
func canSeeCase(u models.User, cs *models.Case) bool {
	if u.Role == models.RoleIndividual {
		return cs.CreatedByID == u.ID
	}
	return policy.CanView(u.Role, cs.Status)
}

func ListCases(c *gin.Context) {
	user, ok := sessionUser(c)
	if !ok {
		return
	}

	allowed := policy.VisibleStatuses(user.Role)

	var statuses []models.CaseStatus
	if raw := c.Query("status"); raw != "" {
		requested := map[models.CaseStatus]struct{}{}
		for _, part := range strings.Split(raw, ",") {
			s := models.CaseStatus(strings.TrimSpace(part))
			if !s.Valid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status", "field": "status"})
				return
			}
			requested[s] = struct{}{}
		}
		for _, s := range allowed {
			if _, ok := requested[s]; ok {
				statuses = append(statuses, s)
			}
		}
		if len(statuses) == 0 {
			c.JSON(http.StatusOK, gin.H{"cases": []caseView{}, "total": 0})
			return
		}
	} else {
		statuses = allowed
	}

	filter := database.CaseListFilter{
		Statuses: statuses,
		Search:   strings.TrimSpace(c.Query("search")),
	}
	if n, err := strconv.Atoi(c.Query("page")); err == nil {
		filter.Page = n
	}
	if n, err := strconv.Atoi(c.Query("limit")); err == nil {
		filter.Limit = n
	}
	if v := c.Query("dateFrom"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date", "field": "dateFrom"})
			return
		}
		filter.DateFrom = &t
	}
	if v := c.Query("dateTo"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date", "field": "dateTo"})
			return
		}
		end := t.Add(24*time.Hour - time.Nanosecond) // inclusive upper bound
		filter.DateTo = &end
	}
	if user.Role == models.RoleIndividual {
		filter.CreatedByID = user.ID
	}

	cases, total, err := database.ListCases(filter)
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	threshold := database.ColdThresholdHours()
	views := make([]caseView, 0, len(cases))
	for _, cs := range cases {
		views = append(views, newCaseView(cs, threshold, now))
	}

	c.JSON(http.StatusOK, gin.H{
		"cases": views,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}

type createCaseRequest struct {
	CompanyName string          `json:"companyName"`
	ClientName  string          `json:"clientName"`
	Phone       string          `json:"phone"`
	SPOCName    string          `json:"spocName"`
	SPOCEmail   string          `json:"spocEmail"`
	SPOCPhone   string          `json:"spocPhone"`
	Location    string          `json:"location"`
	Turnover    decimal.Decimal `json:"turnover"`
	LeadSource  string          `json:"leadSource"`
	Description string          `json:"description"`
}

func CreateCase(c *gin.Context) {
	user, ok := sessionUser(c)
	if !ok {
		return
	}

	var req createCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	req.CompanyName = strings.TrimSpace(req.CompanyName)
	if len(req.CompanyName) < 3 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company name must be at least 3 characters", "field": "companyName"})
		return
	}

	now := time.Now()
	cs := models.Case{
		Status:          models.StatusOpen,
		StatusUpdatedOn: &now,
		CompanyName:     req.CompanyName,
		ClientName:      strings.TrimSpace(req.ClientName),
		Phone:           strings.TrimSpace(req.Phone),
		SPOCName:        strings.TrimSpace(req.SPOCName),
		SPOCEmail:       strings.TrimSpace(req.SPOCEmail),
		SPOCPhone:       strings.TrimSpace(req.SPOCPhone),
		Location:        strings.TrimSpace(req.Location),
		Turnover:        req.Turnover,
		LeadSource:      strings.TrimSpace(req.LeadSource),
		Description:     strings.TrimSpace(req.Description),
		CreatedByID:     user.ID,
	}

	if err := database.CreateCase(&cs); err != nil {
		respondError(c, err)
		return
	}

	database.CreateAuditLog(user.ID, "case", cs.ID, "create", "Case created: "+cs.CompanyName)

	c.JSON(http.StatusCreated, newCaseView(cs, database.ColdThresholdHours(), now))
}

func GetCase(c *gin.Context) {
	user, ok := sessionUser(c)
	if !ok {
		return
	}
	id, ok := parseCaseID(c, "id")
	if !ok {
		return
	}

	cs, err := database.GetCase(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canSeeCase(user, cs) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	c.JSON(http.StatusOK, newCaseView(*cs, database.ColdThresholdHours(), time.Now()))
}

type updateCaseRequest struct {
	CompanyName *string          `json:"companyName"`
	ClientName  *string          `json:"clientName"`
	Phone       *string          `json:"phone"`
	SPOCName    *string          `json:"spocName"`
	SPOCEmail   *string          `json:"spocEmail"`
	SPOCPhone   *string          `json:"spocPhone"`
	Location    *string          `json:"location"`
	Turnover    *decimal.Decimal `json:"turnover"`
	LeadSource  *string          `json:"leadSource"`
	Description *string          `json:"description"`
}

// UpdateCase applies a field-level edit masked by the policy table: a
// locked field in the payload is rejected, not silently dropped.
func UpdateCase(c *gin.Context) {
	user, ok := sessionUser(c)
	if !ok {
		return
	}
	id, ok := parseCaseID(c, "id")
	if !ok {
		return
	}

	cs, err := database.GetCase(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canSeeCase(user, cs) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	var req updateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	editable := policy.EditableFields(user.Role, cs)
	reject := func(f policy.FieldName) bool {
		if _, ok := editable[f]; !ok {
			c.JSON(http.StatusForbidden, gin.H{"error": "field is read-only at this status", "field": string(f)})
			return true
		}
		return false
	}

	if req.CompanyName != nil {
		if reject(policy.FieldCompanyName) {
			return
		}
		name := strings.TrimSpace(*req.CompanyName)
		if len(name) < 3 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "company name must be at least 3 characters", "field": "companyName"})
			return
		}
		cs.CompanyName = name
	}
	if req.ClientName != nil {
		if reject(policy.FieldClientName) {
			return
		}
		cs.ClientName = strings.TrimSpace(*req.ClientName)
	}
	if req.Phone != nil {
		if reject(policy.FieldPhone) {
			return
		}
		cs.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.SPOCName != nil {
		if reject(policy.FieldSPOCName) {
			return
		}
		cs.SPOCName = strings.TrimSpace(*req.SPOCName)
	}
	if req.SPOCEmail != nil {
		if reject(policy.FieldSPOCEmail) {
			return
		}
		cs.SPOCEmail = strings.TrimSpace(*req.SPOCEmail)
	}
	if req.SPOCPhone != nil {
		if reject(policy.FieldSPOCPhone) {
			return
		}
		cs.SPOCPhone = strings.TrimSpace(*req.SPOCPhone)
	}
	if req.Location != nil {
		if reject(policy.FieldLocation) {
			return
		}
		cs.Location = strings.TrimSpace(*req.Location)
	}
	if req.Turnover != nil {
		if reject(policy.FieldTurnover) {
			return
		}
		cs.Turnover = *req.Turnover
	}
	if req.LeadSource != nil {
		if reject(policy.FieldLeadSource) {
			return
		}
		cs.LeadSource = strings.TrimSpace(*req.LeadSource)
	}
	if req.Description != nil {
		if reject(policy.FieldDescription) {
			return
		}
		cs.Description = strings.TrimSpace(*req.Description)
	}

	if err := database.SaveCaseFields(cs); err != nil {
		respondError(c, err)
		return
	}

	database.CreateAuditLog(user.ID, "case", cs.ID, "update", "Case updated: "+cs.CompanyName)

	c.JSON(http.StatusOK, newCaseView(*cs, database.ColdThresholdHours(), time.Now()))
}

type changeStatusRequest struct {
	Status      string                   `json:"status"`
	Products    []lifecycle.ProductInput `json:"products"`
	Description string                   `json:"description"`
}

func ChangeCaseStatus(c *gin.Context) {
	user, ok := sessionUser(c)
	if !ok {
		return
	}
	id, ok := parseCaseID(c, "id")
	if !ok {
		return
	}

	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	cs, err := database.GetCase(id)
	if err != nil {
		respondError(c, err)
		return
	}
	// same read-visibility gate as every other case endpoint; without it an
	// Individual could re-issue the current status on a foreign case and
	// reset its cold-case clock
	if !canSeeCase(user, cs) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	// capture the precondition before the in-memory mutation
	var observed *time.Time
	if cs.StatusUpdatedOn != nil {
		t := *cs.StatusUpdatedOn
		observed = &t
	}

	to := models.CaseStatus(req.Status)
	payload := lifecycle.Payload{Products: req.Products, Description: strings.TrimSpace(req.Description)}

	if err := lifecycle.Transition(cs, to, user.Role, payload, time.Now()); err != nil {
		respondError(c, err)
		return
	}

	replaceProducts := to == models.StatusMeetingDone
	if err := database.ApplyTransition(cs, observed, replaceProducts); err != nil {
		respondError(c, err)
		return
	}

	database.CreateAuditLog(user.ID, "case", cs.ID, "status_change", "Status changed to: "+string(to))

	c.JSON(http.StatusOK, newCaseView(*cs, database.ColdThresholdHours(), time.Now()))
}

// CaseCounts returns the status histogram plus the cold-case count, with an
// optional one-off threshold override.
func CaseCounts(c *gin.Context) {
	threshold := database.ColdThresholdHours()
	if v := c.Query("coldThresholdHours"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 720 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "coldThresholdHours must be an integer between 1 and 720"})
			return
		}
		threshold = n
	}

	counts, err := database.StatusCounts()
	if err != nil {
		respondError(c, err)
		return
	}

	cases, err := database.AllCases()
	if err != nil {
		respondError(c, err)
		return
	}

	now := time.Now()
	cold := 0
	for i := range cases {
		if lifecycle.IsCold(&cases[i], threshold, now) {
			cold++
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"statusCounts":       counts,
		"coldCases":          cold,
		"coldThresholdHours": threshold,
	})
}

func CaseHistory(c *gin.Context) {
	user, ok := sessionUser(c)
	if !ok {
		return
	}
	id, ok := parseCaseID(c, "id")
	if !ok {
		return
	}

	cs, err := database.GetCase(id)
	if err != nil {
		respondError(c, err)
		return
	}
	if !canSeeCase(user, cs) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return
	}

	logs, err := database.CaseAuditTrail(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": logs})
}
