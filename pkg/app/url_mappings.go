package app

import (
	"net/http"

	"github.com/osvaldoandrade/storeq/internal/controllers"
	"github.com/osvaldoandrade/storeq/internal/middleware"
	"github.com/osvaldoandrade/storeq/pkg/domain"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupMappings(app *Application) {
	app.Engine.GET("/healthz", func(c *gin.Context) {
		if err := app.Persistence.Health(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "storage unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	app.Engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := app.Engine.Group("/api")
	gated := api.Group("", middleware.AuthMiddleware(app.Verifier, app.Directory))
	admin := gated.Group("", middleware.RequireAdmin())
	staff := gated.Group("", middleware.RequireAnyRole(
		middleware.Attribute("isAdmin"),
		middleware.Predicate("isModerator", func(p *domain.Principal) bool { return p.IsModerator }),
	))
	{
		api.POST("/auth/register", middleware.RateLimitRegister(app.RateLimiter, app.Config), controllers.NewRegisterController(app.Auth).Handle)
		api.POST("/auth/login", middleware.RateLimitLogin(app.RateLimiter, app.Config), controllers.NewLoginController(app.Auth).Handle)
		gated.GET("/auth/me", controllers.NewMeController().Handle)

		api.GET("/products", controllers.NewListProductsController(app.Products).Handle)
		api.GET("/products/:id", controllers.NewGetProductController(app.Products).Handle)
		admin.POST("/products", controllers.NewCreateProductController(app.Products).Handle)
		admin.PUT("/products/:id", controllers.NewUpdateProductController(app.Products).Handle)
		admin.DELETE("/products/:id", controllers.NewDeleteProductController(app.Products).Handle)
		admin.POST("/products/:id/image", controllers.NewUploadProductImageController(app.Products).Handle)

		api.GET("/categories", controllers.NewListCategoriesController(app.Categories).Handle)
		api.GET("/categories/:id", controllers.NewGetCategoryController(app.Categories).Handle)
		admin.POST("/categories", controllers.NewCreateCategoryController(app.Categories).Handle)
		admin.PUT("/categories/:id", controllers.NewUpdateCategoryController(app.Categories).Handle)
		admin.DELETE("/categories/:id", controllers.NewDeleteCategoryController(app.Categories).Handle)

		staff.GET("/users", controllers.NewListUsersController(app.Users).Handle)
		staff.GET("/users/:id", controllers.NewGetUserController(app.Users).Handle)
		admin.PUT("/users/:id", controllers.NewUpdateUserController(app.Users).Handle)
		admin.DELETE("/users/:id", controllers.NewDeleteUserController(app.Users).Handle)
	}
}
