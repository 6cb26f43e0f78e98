package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func Error(c *gin.Context, httpCode int, errCode string, message string) {
	c.JSON(httpCode, gin.H{
		"success": false,
		"error":   errCode,
		"message": message,
	})
}

func ErrorWithData(c *gin.Context, httpCode int, errCode string, message string, data interface{}) {
	c.JSON(httpCode, gin.H{
		"success": false,
		"error":   errCode,
		"message": message,
		"data":    data,
	})
}
