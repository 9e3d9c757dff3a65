package router

import (
	"github.com/MedjedStudio/mav/internal/handler"

	"github.com/gin-gonic/gin"
)

func registerPublicRoutes(api *gin.RouterGroup) {
	api.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong from gin"})
	})

	api.GET("/contents", handler.ListPublishedContents)
	api.GET("/contents/:id", handler.GetPublishedContent)
	api.GET("/categories", handler.ListCategories)
	api.GET("/categories/:id/contents", handler.GetCategoryContents)
	api.GET("/users/:id/avatar", handler.GetUserAvatarInfo)
}
