package handlers

import (
	"spherify/utils"

	"github.com/gin-gonic/gin"
)

func ListTrash(c *gin.Context) {
	teamID, _ := currentIdentity(c)

	entities, err := getServices().Trash.ListTrash(c.Request.Context(), teamID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, gin.H{"trash": entities})
}
