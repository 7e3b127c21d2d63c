package courseValidator

import (
	"strconv"
	"strings"
	controllers "youthhub/controllers/course"
	"youthhub/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New()

// parseIDParam validates a positive integer route parameter and stores it
// under the given locals key as uint.
func parseIDParam(c *fiber.Ctx, param, key string) bool {
	raw := strings.TrimSpace(c.Params(param))
	if raw == "" {
		return false
	}
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return false
	}
	c.Locals(key, uint(id))
	return true
}

func ReportVideoProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !parseIDParam(c, "enrollment_id", "enrollmentID") {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Enrollment ID!", nil)
		}
		if !parseIDParam(c, "lesson_id", "lessonID") {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		reqData := new(controllers.VideoProgressRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if err := validate.Struct(reqData); err != nil {
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "VideoProgress":
					errors["video_progress"] = "Video progress must be between 0 and 1!"
				case "TimeSpent":
					errors["time_spent"] = "Time spent must be 0 or greater!"
				}
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVideoProgress", reqData)
		return c.Next()
	}
}

func CompleteLesson() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !parseIDParam(c, "enrollment_id", "enrollmentID") {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Enrollment ID!", nil)
		}
		if !parseIDParam(c, "lesson_id", "lessonID") {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Lesson ID!", nil)
		}

		// Body is optional: completing without a report falls back to defaults
		reqData := new(controllers.CompleteLessonRequest)
		if len(c.Body()) > 0 {
			if err := c.BodyParser(reqData); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}

		errors := make(map[string]string)

		if err := validate.Struct(reqData); err != nil {
			for _, fieldErr := range err.(validator.ValidationErrors) {
				switch fieldErr.Field() {
				case "VideoProgress":
					errors["video_progress"] = "Video progress must be between 0 and 1!"
				case "TimeSpent":
					errors["time_spent"] = "Time spent must be 0 or greater!"
				}
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCompleteLesson", reqData)
		return c.Next()
	}
}

func CompleteModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !parseIDParam(c, "enrollment_id", "enrollmentID") {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Enrollment ID!", nil)
		}
		if !parseIDParam(c, "module_id", "moduleID") {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Module ID!", nil)
		}
		return c.Next()
	}
}

func GetEnrollmentProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !parseIDParam(c, "enrollment_id", "enrollmentID") {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid Enrollment ID!", nil)
		}
		return c.Next()
	}
}
