package handlers

import (
	"errors"
	"net/http"

	"spherify/services"
	"spherify/utils"

	"github.com/gin-gonic/gin"
)

var appServices *services.Container

func SetServices(c *services.Container) {
	appServices = c
}

func getServices() *services.Container {
	return appServices
}

func respondServiceError(c *gin.Context, err error) {
	var appErr *services.AppError
	if !errors.As(err, &appErr) {
		utils.Error(c, http.StatusInternalServerError, services.CodeInternal, "internal error")
		return
	}
	if appErr.Data != nil {
		utils.ErrorWithData(c, appErr.HTTPCode, appErr.Code, appErr.Message, appErr.Data)
		return
	}
	utils.Error(c, appErr.HTTPCode, appErr.Code, appErr.Message)
}

func currentIdentity(c *gin.Context) (teamID uint, userID uint) {
	return c.GetUint("team_id"), c.GetUint("user_id")
}
