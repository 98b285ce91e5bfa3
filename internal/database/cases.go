package database

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"loanflow/internal/lifecycle"
	"loanflow/internal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CaseListFilter is the repository's query contract for list views.
type CaseListFilter struct {
	Statuses    []models.CaseStatus
	Search      string
	Page        int
	Limit       int
	DateFrom    *time.Time
	DateTo      *time.Time
	CreatedByID uint // non-zero scopes the list to one creator (Individual role)
}

func withCaseChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("ProductRequirements").
		Preload("Assignments").
		Preload("BankAssignments").
		Preload("Comments").
		Preload("Documents")
}

func GetCase(id uint) (*models.Case, error) {
	var c models.Case
	err := withCaseChildren(DB).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, lifecycle.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func CreateCase(c *models.Case) error {
	return DB.Create(c).Error
}

// SaveCaseFields persists the scalar case columns only; child rows have
// their own write paths.
func SaveCaseFields(c *models.Case) error {
	return DB.Model(c).Updates(map[string]any{
		"company_name": c.CompanyName,
		"client_name":  c.ClientName,
		"phone":        c.Phone,
		"spoc_name":    c.SPOCName,
		"spoc_email":   c.SPOCEmail,
		"spoc_phone":   c.SPOCPhone,
		"location":     c.Location,
		"turnover":     c.Turnover,
		"lead_source":  c.LeadSource,
		"description":  c.Description,
	}).Error
}

func ListCases(f CaseListFilter) ([]models.Case, int64, error) {
	q := DB.Model(&models.Case{})

	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("company_name ILIKE ? OR client_name ILIKE ? OR phone ILIKE ?", like, like, like)
	}
	if f.DateFrom != nil {
		q = q.Where("created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("created_at <= ?", *f.DateTo)
	}
	if f.CreatedByID != 0 {
		q = q.Where("created_by_id = ?", f.CreatedByID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}

	var cases []models.Case
	err := withCaseChildren(q).
		Order("created_at desc").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&cases).Error
	return cases, total, err
}

// AllCases loads the full population with the children the funnel and
// staleness views need.
func AllCases() ([]models.Case, error) {
	var cases []models.Case
	err := DB.
		Preload("ProductRequirements").
		Preload("Assignments").
		Preload("BankAssignments").
		Find(&cases).Error
	return cases, err
}

// ApplyTransition persists a status change with an optimistic precondition
// on the status_updated_on the caller observed when it loaded the case.
// Zero rows updated on an existing case means somebody got there first.
func ApplyTransition(c *models.Case, observed *time.Time, replaceProducts bool) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&models.Case{}).Where("id = ?", c.ID)
		if observed == nil {
			q = q.Where("status_updated_on IS NULL")
		} else {
			q = q.Where("status_updated_on = ?", *observed)
		}

		res := q.Updates(map[string]any{
			"status":            c.Status,
			"status_updated_on": c.StatusUpdatedOn,
			"description":       c.Description,
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&models.Case{}).Where("id = ?", c.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return lifecycle.ErrNotFound
			}
			return lifecycle.ErrConcurrentModification
		}

		if replaceProducts {
			if err := tx.Where("case_id = ?", c.ID).
				Delete(&models.ProductRequirement{}).Error; err != nil {
				return err
			}
			for i := range c.ProductRequirements {
				c.ProductRequirements[i].ID = 0
				c.ProductRequirements[i].CaseID = c.ID
			}
			if len(c.ProductRequirements) > 0 {
				if err := tx.Create(&c.ProductRequirements).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func AddBankRow(ba *models.BankAssignment) error {
	return DB.Create(ba).Error
}

func UpdateBankStatus(caseID, bankID uint, status models.BankStatus) error {
	res := DB.Model(&models.BankAssignment{}).
		Where("case_id = ? AND bank_id = ?", caseID, bankID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return lifecycle.ErrNotFound
	}
	return nil
}

func AddComment(cm *models.CaseComment) error {
	return DB.Create(cm).Error
}

func AddDocument(doc *models.CaseDocument) error {
	return DB.Create(doc).Error
}

// ReplaceAssignment swaps the active assignee for one role on a case; at
// most one assignment per (case, role) survives.
func ReplaceAssignment(caseID uint, a models.Assignment) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("case_id = ? AND role = ?", caseID, a.Role).
			Delete(&models.Assignment{}).Error; err != nil {
			return err
		}
		a.CaseID = caseID
		return tx.Create(&a).Error
	})
}

// StatusCounts is the status histogram over the whole population.
func StatusCounts() (map[models.CaseStatus]int, error) {
	type row struct {
		Status models.CaseStatus
		N      int
	}
	var rows []row
	err := DB.Model(&models.Case{}).
		Select("status, count(*) as n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make(map[models.CaseStatus]int, len(rows))
	for _, r := range rows {
		out[r.Status] = r.N
	}
	return out, nil
}

func CaseAuditTrail(caseID uint) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := DB.
		Where("entity = ? AND entity_id = ?", "case", caseID).
		Preload("User").
		Order("created_at asc").
		Find(&logs).Error
	return logs, err
}
