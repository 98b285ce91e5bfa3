package lifecycle

import "loanflow/internal/models"

// AddBank appends a pending review row for bankID. Duplicate banks on the
// same case are rejected.
func AddBank(c *models.Case, bankID uint, bankName string) error {
	if bankID == 0 {
		return &ValidationError{Field: "bankId", Reason: "must not be empty"}
	}
	for _, ba := range c.BankAssignments {
		if ba.BankID == bankID {
			return &ValidationError{Field: "bankId", Reason: "bank already assigned to this case"}
		}
	}
	c.BankAssignments = append(c.BankAssignments, models.BankAssignment{
		CaseID:   c.ID,
		BankID:   bankID,
		BankName: bankName,
		Status:   models.BankPending,
	})
	return nil
}

// SetBankStatus updates one bank's review status on c.
func SetBankStatus(c *models.Case, bankID uint, status models.BankStatus) error {
	if !status.Valid() {
		return &ValidationError{Field: "status", Reason: "unknown bank status"}
	}
	for i := range c.BankAssignments {
		if c.BankAssignments[i].BankID == bankID {
			c.BankAssignments[i].Status = status
			return nil
		}
	}
	return ErrNotFound
}

// BankerBuckets is the case-level banker-stage view derived from the bank
// rows. Membership is intentionally non-exclusive: a case with one pending
// and one accepted bank is in both the Pending and Accepted views, so the
// same case can surface in more than one operational tab.
type BankerBuckets struct {
	OnePager bool `json:"onePager"`
	Pending  bool `json:"pending"`
	Open     bool `json:"open"`
	Accepted bool `json:"accepted"`
	Rejected bool `json:"rejected"`
	Done     bool `json:"done"`
}

// Buckets derives the banker-stage membership for c. A case with no banks
// attached is still on the one-pager; Done additionally requires the case
// itself to be done.
func Buckets(c *models.Case) BankerBuckets {
	if len(c.BankAssignments) == 0 {
		return BankerBuckets{OnePager: true}
	}
	var b BankerBuckets
	for _, ba := range c.BankAssignments {
		switch ba.Status {
		case models.BankPending:
			b.Pending = true
		case models.BankOpen:
			b.Open = true
		case models.BankAccept:
			b.Accepted = true
		case models.BankReject:
			b.Rejected = true
		case models.BankDone:
			b.Done = true
		}
	}
	b.Done = b.Done && c.Status == models.StatusDone
	return b
}

// HasAcceptedBank reports whether any bank on c has accepted.
func HasAcceptedBank(c *models.Case) bool {
	for _, ba := range c.BankAssignments {
		if ba.Status == models.BankAccept {
			return true
		}
	}
	return false
}
