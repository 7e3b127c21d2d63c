package courseValidator

import (
	"strconv"
	"strings"
	"youthhub/middleware"

	"github.com/gofiber/fiber/v2"
)

// parseIntParam validates a positive integer route parameter and stores it
// under the given locals key as int.
func parseIntParam(c *fiber.Ctx, param, key string) bool {
	raw := strings.TrimSpace(c.Params(param))
	if raw == "" {
		return false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return false
	}
	c.Locals(key, id)
	return true
}

func CourseList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Page  *int `json:"page"`
			Limit *int `json:"limit"`
		})

		if page := c.QueryInt("page", 0); page > 0 {
			reqData.Page = &page
		}
		if limit := c.QueryInt("limit", 0); limit > 0 {
			if limit > 100 {
				limit = 100
			}
			reqData.Limit = &limit
		}

		c.Locals("validatedList", reqData)
		return c.Next()
	}
}

func CourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !parseIntParam(c, "course_id", "courseID") {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Course ID!", nil)
		}
		return c.Next()
	}
}
