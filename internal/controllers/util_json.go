package controllers

import "github.com/gin-gonic/gin"

// Every endpoint shares the same envelope: {"success":true,"data":...} or
// {"success":false,"error":"..."}.

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondOK(c *gin.Context, status int) {
	c.JSON(status, gin.H{"success": true})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}
