package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Case struct {
	gorm.Model

	Status          CaseStatus `gorm:"type:varchar(40);not null;index" json:"status"`
	StatusUpdatedOn *time.Time `gorm:"index" json:"statusUpdatedOn"`

	CompanyName string          `gorm:"size:255;not null" json:"companyName"`
	ClientName  string          `gorm:"size:255" json:"clientName"`
	Phone       string          `gorm:"size:50" json:"phone"`
	SPOCName    string          `gorm:"size:255" json:"spocName"`
	SPOCEmail   string          `gorm:"size:255" json:"spocEmail"`
	SPOCPhone   string          `gorm:"size:50" json:"spocPhone"`
	Location    string          `gorm:"size:255" json:"location"`
	Turnover    decimal.Decimal `gorm:"type:decimal(20,2)" json:"turnover"`
	LeadSource  string          `gorm:"size:100" json:"leadSource"`
	Description string          `gorm:"type:text" json:"description"`

	CreatedByID uint `gorm:"index" json:"createdById"`

	ProductRequirements []ProductRequirement `json:"productRequirements"`
	Assignments         []Assignment         `json:"assignments"`
	BankAssignments     []BankAssignment     `json:"bankAssignments"`
	Comments            []CaseComment        `json:"comments"`
	Documents           []CaseDocument       `json:"documents"`
}

type ProductRequirement struct {
	gorm.Model `json:"-"`
	CaseID     uint `gorm:"index;not null" json:"-"`

	ProductName       string          `gorm:"size:255;not null" json:"productName"`
	RequirementAmount decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"requirementAmount"`
	Description       string          `gorm:"type:text" json:"description"`
}

// Assignment binds a case to one user of a given role. At most one active
// assignment per (case, role); many cases may point at the same assignee.
type Assignment struct {
	gorm.Model `json:"-"`
	CaseID     uint `gorm:"index;not null;uniqueIndex:idx_case_role" json:"-"`

	Role           Role   `gorm:"type:varchar(20);not null;uniqueIndex:idx_case_role" json:"role"`
	AssignedToID   uint   `gorm:"not null;index" json:"assignedToId"`
	AssignedToName string `gorm:"size:255" json:"assignedToName"`
}

// BankAssignment is one bank's review row on a case. It has no lifecycle of
// its own; it is created and mutated only through its owning case.
type BankAssignment struct {
	gorm.Model `json:"-"`
	CaseID     uint `gorm:"index;not null;uniqueIndex:idx_case_bank" json:"-"`

	BankID   uint       `gorm:"not null;uniqueIndex:idx_case_bank" json:"bankId"`
	BankName string     `gorm:"size:255" json:"bankName"`
	Status   BankStatus `gorm:"type:varchar(20);not null" json:"status"`
}

type CaseComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"timestamp"`
	CaseID    uint      `gorm:"index;not null" json:"-"`

	AuthorID   uint   `json:"authorId"`
	AuthorName string `gorm:"size:255" json:"author"`
	Text       string `gorm:"type:text;not null" json:"text"`
}

// CaseDocument is opaque metadata; the file itself lives in external storage.
type CaseDocument struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"uploadedAt"`
	CaseID    uint      `gorm:"index;not null" json:"-"`

	DocName  string  `gorm:"size:255;not null" json:"docName"`
	DocType  DocType `gorm:"type:varchar(20);not null" json:"docType"`
	Filename string  `gorm:"size:512;not null" json:"filename"`
}
