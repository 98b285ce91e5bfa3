package handlers

import (
	"net/http"
	"strings"

	"loanflow/internal/database"
	"loanflow/internal/middleware"

	"github.com/gin-gonic/gin"
)

func GetSettings(c *gin.Context) {
	settings, err := database.AllSettings()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

type updateSettingRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func UpdateSettings(c *gin.Context) {
	var req updateSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	req.Key = strings.TrimSpace(req.Key)
	req.Value = strings.TrimSpace(req.Value)
	if err := database.UpdateSetting(req.Key, req.Value); err != nil {
		respondError(c, err)
		return
	}

	if user, ok := middleware.CurrentUser(c); ok {
		database.CreateAuditLog(user.ID, "settings", 0, "update", req.Key+" = "+req.Value)
	}

	c.JSON(http.StatusOK, gin.H{"key": req.Key, "value": req.Value})
}
