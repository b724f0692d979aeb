package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"upmoney/cmd/fx/chat_fx"
	"upmoney/cmd/fx/dashboard_fx"
	"upmoney/cmd/fx/db_fx"
	"upmoney/cmd/fx/onboarding_fx"
	"upmoney/internal/api/controllers"
	"upmoney/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found, using process environment")
	}

	app := fx.New(
		db_fx.Module,
		chat_fx.Module,
		onboarding_fx.Module,
		dashboard_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			port := os.Getenv("PORT")
			if port == "" {
				port = "8080"
			}
			go func() {
				log.Info().Str("port", port).Msg("Starting HTTP server")
				if err := engine.Run(":" + port); err != nil {
					log.Fatal().Err(err).Msg("Failed to start server")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	chatController *controllers.ChatController,
	onboardingController *controllers.OnboardingController,
	dashboardController *controllers.DashboardController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.TraceIDMiddleware())

	RegisterRoutes(r, chatController, onboardingController, dashboardController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	chatController *controllers.ChatController,
	onboardingController *controllers.OnboardingController,
	dashboardController *controllers.DashboardController) {

	chatGroup := r.Group("/chat")
	chatGroup.POST("/start", chatController.Start)
	chatGroup.POST("/submit", chatController.Submit)
	chatGroup.POST("/restart", chatController.Restart)

	onboardingGroup := r.Group("/onboarding")
	onboardingGroup.POST("/save", onboardingController.Save)
	onboardingGroup.GET("/recent", onboardingController.Recent)

	dashboardGroup := r.Group("/dashboard")
	dashboardGroup.GET("/stats", dashboardController.GetStats)
	dashboardGroup.GET("/insights", dashboardController.GetInsights)
}
