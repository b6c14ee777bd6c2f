package routes

import (
	"lunchvote-backend/config"
	"lunchvote-backend/controllers"
	"lunchvote-backend/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func SetupRouter(env *controllers.Env, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	if len(allowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     allowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", controllers.AppVersionHeader},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
		}))
	}

	r.Use(config.PerformanceLogger(env.Log))

	optionalAuth := utils.AuthMiddleware(env.Tokens, false)
	requiredAuth := utils.AuthMiddleware(env.Tokens, true)

	authController := &controllers.AuthController{Env: env}
	user := r.Group("/user")
	{
		user.POST("/register", authController.Register)
		user.POST("/login", authController.Login)
		user.POST("/token/refresh", authController.Refresh)

		me := user.Group("/me", requiredAuth)
		me.GET("", authController.Me)
		me.PUT("", authController.UpdateMe)
		me.PATCH("", authController.UpdateMe)
	}

	restaurantController := &controllers.RestaurantController{Env: env}
	restaurants := r.Group("/restaurants", optionalAuth)
	{
		restaurants.GET("", restaurantController.List)
		restaurants.POST("", restaurantController.Create)
		restaurants.GET("/:id", restaurantController.Get)
		restaurants.PUT("/:id", restaurantController.Update)
		restaurants.DELETE("/:id", restaurantController.Delete)
	}

	menuController := &controllers.MenuController{Env: env}
	voteController := &controllers.VoteController{Env: env}
	menus := r.Group("/menus", optionalAuth)
	{
		menus.GET("", menuController.List)
		menus.POST("", menuController.Create)
		menus.GET("/today_menu", menuController.TodayMenu)
		menus.GET("/today_rating", menuController.TodayRating)
		menus.POST("/vote", voteController.Create)
		menus.GET("/:id", menuController.Get)
		menus.PUT("/:id", menuController.Update)
		menus.DELETE("/:id", menuController.Delete)
	}

	return r
}
