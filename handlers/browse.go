package handlers

import (
	"net/http"

	"spherify/services"
	"spherify/utils"

	"github.com/gin-gonic/gin"
)

// ListEntities returns the live children of a folder, folders before files,
// each group sorted by name.
func ListEntities(c *gin.Context) {
	teamID, _ := currentIdentity(c)
	path := c.DefaultQuery("path", "/")

	children, err := getServices().Resolver.ListChildren(c.Request.Context(), teamID, path)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, gin.H{"path": path, "files": children})
}

type createFolderRequest struct {
	Path string `json:"path"`
	Name string `json:"name" binding:"required"`
}

func CreateFolder(c *gin.Context) {
	teamID, userID := currentIdentity(c)

	var req createFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, services.CodeInvalidRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		req.Path = "/"
	}

	folder, err := getServices().Lifecycle.CreateFolder(c.Request.Context(), teamID, userID, req.Path, req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, folder)
}

func GetFolderSize(c *gin.Context) {
	teamID, _ := currentIdentity(c)
	path := c.DefaultQuery("path", "/")

	size, err := getServices().Resolver.FolderSize(c.Request.Context(), teamID, path)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, gin.H{"path": path, "size": size})
}

func GetPublicLink(c *gin.Context) {
	teamID, _ := currentIdentity(c)
	path := c.Query("path")
	if path == "" {
		utils.Error(c, http.StatusBadRequest, services.CodeInvalidRequest, "path is required")
		return
	}

	link, err := getServices().Lifecycle.PublicLink(c.Request.Context(), teamID, path)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, gin.H{"public_url": link})
}

func GetQuota(c *gin.Context) {
	teamID, _ := currentIdentity(c)

	usage, err := getServices().Quota.Usage(c.Request.Context(), teamID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.Success(c, usage)
}
