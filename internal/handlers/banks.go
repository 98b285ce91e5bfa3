package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"loanflow/internal/database"
	"loanflow/internal/lifecycle"
	"loanflow/internal/models"

	"github.com/gin-gonic/gin"
)

type addBankRequest struct {
	BankID   uint   `json:"bankId"`
	BankName string `json:"bankName"`
}

func AddBank(c *gin.Context) {
	user, ok := sessionUser(c)
	if !ok {
		return
	}
	id, ok := parseCaseID(c, "caseId")
	if !ok {
		return
	}

	cs, err := database.GetCase(id)
	if err != nil {
		respondError(c, err)
		return
	}

	var req addBankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	if err := lifecycle.AddBank(cs, req.BankID, strings.TrimSpace(req.BankName)); err != nil {
		respondError(c, err)
		return
	}

	// AddBank appended the new row last
	row := &cs.BankAssignments[len(cs.BankAssignments)-1]
	if err := database.AddBankRow(row); err != nil {
		respondError(c, err)
		return
	}

	database.CreateAuditLog(user.ID, "case", cs.ID, "bank_add", "Bank shared: "+row.BankName)

	c.JSON(http.StatusCreated, newCaseView(*cs, database.ColdThresholdHours(), time.Now()))
}

type updateBankRequest struct {
	Status string `json:"status"`
}

func UpdateBankStatus(c *gin.Context) {
	user, ok := sessionUser(c)
	if !ok {
		return
	}
	id, ok := parseCaseID(c, "caseId")
	if !ok {
		return
	}
	bankID, err := strconv.Atoi(c.Param("bankId"))
	if err != nil || bankID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid bank id"})
		return
	}

	cs, err := database.GetCase(id)
	if err != nil {
		respondError(c, err)
		return
	}

	var req updateBankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	status := models.BankStatus(req.Status)
	if err := lifecycle.SetBankStatus(cs, uint(bankID), status); err != nil {
		respondError(c, err)
		return
	}
	if err := database.UpdateBankStatus(cs.ID, uint(bankID), status); err != nil {
		respondError(c, err)
		return
	}

	database.CreateAuditLog(user.ID, "case", cs.ID, "bank_status",
		"Bank "+strconv.Itoa(bankID)+" moved to: "+string(status))

	c.JSON(http.StatusOK, newCaseView(*cs, database.ColdThresholdHours(), time.Now()))
}
