package database

import "loanflow/internal/models"

// CreateAuditLog appends one audit row; failures are swallowed so the audit
// trail never blocks the main write path.
func CreateAuditLog(userID uint, entity string, entityID uint, action, details string) {
	if DB == nil {
		return
	}
	record := models.AuditLog{
		UserID:   userID,
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	_ = DB.Create(&record).Error
}
