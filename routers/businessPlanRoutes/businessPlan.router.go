package businessPlanRoutes

import (
	businessPlanControllers "youthhub/controllers/businessplan"
	"youthhub/middleware"
	businessPlanValidators "youthhub/validators/businessplan"

	"github.com/gofiber/fiber/v2"
)

func SetupBusinessPlanRoutes(app *fiber.App) {
	planGroup := app.Group("/business-plan", middleware.JWTMiddleware)

	planGroup.Post("/", businessPlanValidators.CreatePlan(), businessPlanControllers.CreateBusinessPlan)
	planGroup.Get("/list", businessPlanControllers.GetBusinessPlans)
	planGroup.Patch("/:plan_id", businessPlanValidators.PlanID(), businessPlanValidators.UpdatePlan(), businessPlanControllers.UpdateBusinessPlan)
	planGroup.Get("/:plan_id/analysis", businessPlanValidators.PlanID(), businessPlanControllers.GetBusinessPlanAnalysis)
	planGroup.Delete("/:plan_id", businessPlanValidators.PlanID(), businessPlanControllers.DeleteBusinessPlan)
}
