package handlers

import (
	"net/http"
	"strconv"

	"spherify/services"
	"spherify/utils"

	"github.com/gin-gonic/gin"
)

func entityIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		utils.Error(c, http.StatusBadRequest, services.CodeInvalidRequest, "invalid entity id")
		return 0, false
	}
	return uint(id), true
}

type renameRequest struct {
	NewName string `json:"new_name" binding:"required"`
}

func RenameEntity(c *gin.Context) {
	teamID, userID := currentIdentity(c)
	entityID, ok := entityIDParam(c)
	if !ok {
		return
	}

	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, services.CodeInvalidRequest, "invalid request body")
		return
	}

	entity, err := getServices().Lifecycle.Rename(c.Request.Context(), teamID, userID, entityID, req.NewName)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, entity)
}

type moveRequest struct {
	NewParentID uint `json:"new_parent_id" binding:"required"`
}

func MoveEntity(c *gin.Context) {
	teamID, userID := currentIdentity(c)
	entityID, ok := entityIDParam(c)
	if !ok {
		return
	}

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, services.CodeInvalidRequest, "invalid request body")
		return
	}

	entity, err := getServices().Lifecycle.Move(c.Request.Context(), teamID, userID, entityID, req.NewParentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, entity)
}

func SoftDeleteEntity(c *gin.Context) {
	teamID, userID := currentIdentity(c)
	entityID, ok := entityIDParam(c)
	if !ok {
		return
	}

	entity, err := getServices().Lifecycle.SoftDelete(c.Request.Context(), teamID, userID, entityID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "moved to trash", entity)
}

func RestoreEntity(c *gin.Context) {
	teamID, userID := currentIdentity(c)
	entityID, ok := entityIDParam(c)
	if !ok {
		return
	}

	entity, err := getServices().Lifecycle.Restore(c.Request.Context(), teamID, userID, entityID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.SuccessWithMessage(c, "restored from trash", entity)
}

func PurgeEntity(c *gin.Context) {
	teamID, userID := currentIdentity(c)
	entityID, ok := entityIDParam(c)
	if !ok {
		return
	}

	if err := getServices().Lifecycle.Purge(c.Request.Context(), teamID, userID, entityID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateFileContent replaces a file's bytes with the raw request body.
func UpdateFileContent(c *gin.Context) {
	teamID, userID := currentIdentity(c)
	fileID, ok := entityIDParam(c)
	if !ok {
		return
	}
	if c.Request.ContentLength < 0 {
		utils.Error(c, http.StatusBadRequest, services.CodeInvalidRequest, "content length is required")
		return
	}

	entity, err := getServices().Lifecycle.UpdateContent(c.Request.Context(), teamID, userID, fileID, c.Request.Body, c.Request.ContentLength)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, entity)
}

func GetEntityHistory(c *gin.Context) {
	teamID, _ := currentIdentity(c)
	entityID, ok := entityIDParam(c)
	if !ok {
		return
	}

	entries, err := getServices().Lifecycle.History(c.Request.Context(), teamID, entityID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, gin.H{"entity_id": entityID, "history": entries})
}
