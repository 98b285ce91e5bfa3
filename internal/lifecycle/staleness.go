package lifecycle

import (
	"time"

	"loanflow/internal/models"
)

// IsCold reports whether c has sat in an active status for strictly longer
// than thresholdHours. Fresh cases (open), meeting_done and the terminal
// statuses are never cold; the check is a view, recomputed on every read.
func IsCold(c *models.Case, thresholdHours int, now time.Time) bool {
	switch c.Status {
	case models.StatusOpen, models.StatusMeetingDone,
		models.StatusNoRequirement, models.StatusRejected, models.StatusDone:
		return false
	}
	if c.StatusUpdatedOn == nil {
		return false
	}
	return now.Sub(*c.StatusUpdatedOn) > time.Duration(thresholdHours)*time.Hour
}
