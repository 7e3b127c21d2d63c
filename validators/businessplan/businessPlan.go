package businessPlanValidator

import (
	"strconv"
	"strings"
	"youthhub/middleware"

	"github.com/gofiber/fiber/v2"
)

func PlanID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := strings.TrimSpace(c.Params("plan_id"))
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Plan ID!", nil)
		}
		c.Locals("planID", uint(id))
		return c.Next()
	}
}

func CreatePlan() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title    string            `json:"title"`
			Summary  string            `json:"summary"`
			Sector   string            `json:"sector"`
			Sections map[string]string `json:"sections"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if strings.TrimSpace(reqData.Title) == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"title": "Title is required!",
			})
		}

		c.Locals("validatedPlan", reqData)
		return c.Next()
	}
}

func UpdatePlan() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Title    string            `json:"title"`
			Summary  string            `json:"summary"`
			Sector   string            `json:"sector"`
			Sections map[string]string `json:"sections"`
		})

		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		c.Locals("validatedPlanUpdate", reqData)
		return c.Next()
	}
}
