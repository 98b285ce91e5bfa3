package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"loanflow/internal/database"
	"loanflow/internal/funnel"

	"github.com/gin-gonic/gin"
)

// DashboardStats is the unfiltered funnel over the whole population.
func DashboardStats(c *gin.Context) {
	cases, err := database.AllCases()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, funnel.Compute(cases, funnel.Filter{}, time.Now()))
}

// UserDashboardStats narrows the funnel to an assignee set and/or a time
// window: ?userIds=1,2&dateFilter=last7days or dateFilter=custom with
// dateFrom/dateTo.
func UserDashboardStats(c *gin.Context) {
	filter := funnel.Filter{}

	if raw := c.Query("userIds"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || n <= 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user id", "field": "userIds"})
				return
			}
			filter.UserIDs = append(filter.UserIDs, uint(n))
		}
	}

	switch kind := funnel.WindowKind(c.Query("dateFilter")); kind {
	case funnel.WindowAll:
	case funnel.WindowToday, funnel.WindowLast7Days, funnel.WindowLast30Days,
		funnel.WindowThisWeek, funnel.WindowThisMonth, funnel.WindowThisYear,
		funnel.WindowFinancialYear:
		filter.Window = kind
	case funnel.WindowCustom:
		from, err := time.Parse("2006-01-02", c.Query("dateFrom"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date", "field": "dateFrom"})
			return
		}
		to, err := time.Parse("2006-01-02", c.Query("dateTo"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date", "field": "dateTo"})
			return
		}
		filter.Window = funnel.WindowCustom
		filter.From = from
		filter.To = to.Add(24*time.Hour - time.Nanosecond) // inclusive upper bound
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown date filter", "field": "dateFilter"})
		return
	}

	cases, err := database.AllCases()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, funnel.Compute(cases, filter, time.Now()))
}
