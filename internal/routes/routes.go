package routes

import (
	"github.com/Avo5/BMIcal-main/internal/config"
	"github.com/Avo5/BMIcal-main/internal/handlers"
	"github.com/Avo5/BMIcal-main/internal/middleware"
	"github.com/Avo5/BMIcal-main/internal/repository"
	"github.com/Avo5/BMIcal-main/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
)

func RegisterRoutes(app *fiber.App, cfg *config.Config, db *pgxpool.Pool) {
	userRepo := repository.NewUserRepository(db)
	recordRepo := repository.NewBodyRecordRepository(db)
	goalRepo := repository.NewGoalRepository(db)

	recordService := services.NewRecordService(userRepo, recordRepo)
	goalService := services.NewGoalService(userRepo, goalRepo)
	recalcService := services.NewRecalcService(db)

	authHandler := handlers.NewAuthHandler(userRepo, cfg.JWTSecret)
	profileHandler := handlers.NewProfileHandler(userRepo, recalcService)
	recordHandler := handlers.NewRecordHandler(recordService)
	goalHandler := handlers.NewGoalHandler(goalService)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	authProtected := api.Group("/v1", middleware.AuthRequired(cfg.JWTSecret))

	authProtected.Get("/profile", profileHandler.GetProfile)
	authProtected.Put("/profile", profileHandler.UpdateProfile)
	authProtected.Put("/password", authHandler.ChangePassword)

	records := authProtected.Group("/records")
	records.Get("", recordHandler.ListRecords)
	records.Post("", recordHandler.CreateRecord)
	records.Get("/export", recordHandler.ExportRecords)
	records.Put("/:id", recordHandler.UpdateRecord)
	records.Delete("/:id", recordHandler.DeleteRecord)

	goal := authProtected.Group("/goal")
	goal.Get("", goalHandler.GetGoal)
	goal.Put("", goalHandler.SaveGoal)
}
