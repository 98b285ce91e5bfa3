package handlers

import (
	"net/http"
	"strings"

	"loanflow/internal/database"
	"loanflow/internal/models"

	"github.com/gin-gonic/gin"
)

type addCommentRequest struct {
	Text string `json:"text"`
}

func AddComment(c *gin.Context) {
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

	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}
	req.Text = strings.TrimSpace(req.Text)
	if req.Text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "comment text must not be empty", "field": "text"})
		return
	}

	comment := models.CaseComment{
		CaseID:     cs.ID,
		AuthorID:   user.ID,
		AuthorName: user.FullName,
		Text:       req.Text,
	}
	if err := database.AddComment(&comment); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, comment)
}

type addDocumentRequest struct {
	DocName  string `json:"docName"`
	DocType  string `json:"docType"`
	Filename string `json:"filename"`
}

// AddDocument records document metadata; the file itself is uploaded to the
// external storage collaborator and referenced by filename only.
func AddDocument(c *gin.Context) {
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

	var req addDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}
	docType := models.DocType(req.DocType)
	if !docType.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown document type", "field": "docType"})
		return
	}
	if strings.TrimSpace(req.Filename) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filename must not be empty", "field": "filename"})
		return
	}

	doc := models.CaseDocument{
		CaseID:   cs.ID,
		DocName:  strings.TrimSpace(req.DocName),
		DocType:  docType,
		Filename: strings.TrimSpace(req.Filename),
	}
	if err := database.AddDocument(&doc); err != nil {
		respondError(c, err)
		return
	}

	database.CreateAuditLog(user.ID, "case", cs.ID, "document_add", "Document recorded: "+doc.Filename)

	c.JSON(http.StatusCreated, doc)
}

type setAssignmentRequest struct {
	Role           string `json:"role"`
	AssignedToID   uint   `json:"assignedToId"`
	AssignedToName string `json:"assignedToName"`
}

// SetAssignment replaces the active assignee for one of the assignable
// roles on a case.
func SetAssignment(c *gin.Context) {
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

	var req setAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed request body"})
		return
	}

	role := models.Role(req.Role)
	switch role {
	case models.RoleKAM, models.RoleTelecaller, models.RoleOperations:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "role is not assignable", "field": "role"})
		return
	}
	if req.AssignedToID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "assignedToId must not be empty", "field": "assignedToId"})
		return
	}

	assignment := models.Assignment{
		Role:           role,
		AssignedToID:   req.AssignedToID,
		AssignedToName: strings.TrimSpace(req.AssignedToName),
	}
	if err := database.ReplaceAssignment(cs.ID, assignment); err != nil {
		respondError(c, err)
		return
	}

	database.CreateAuditLog(user.ID, "case", cs.ID, "assignment",
		"Assigned "+string(role)+": "+assignment.AssignedToName)

	c.JSON(http.StatusOK, assignment)
}
