package courseRoutes

import (
	courseControllers "youthhub/controllers/course"
	"youthhub/middleware"
	courseValidators "youthhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course", middleware.JWTMiddleware, middleware.RequireRoles("INSTRUCTOR", "SUPERADMIN"))

	adminGroup.Post("/", courseValidators.CreateCourse(), courseControllers.AdminCreateCourse)

	// Lesson routes addressed by lesson id alone
	adminGroup.Patch("/lesson/:lesson_id", courseValidators.LessonID(), courseValidators.UpdateLesson(), courseControllers.AdminUpdateLesson)
	adminGroup.Patch("/lesson/:lesson_id/publish", courseValidators.LessonID(), courseControllers.AdminPublishLesson)
	adminGroup.Delete("/lesson/:lesson_id", courseValidators.LessonID(), courseControllers.AdminDeleteLesson)

	adminGroup.Patch("/:course_id", courseValidators.CourseID(), courseValidators.UpdateCourse(), courseControllers.AdminUpdateCourse)
	adminGroup.Patch("/:course_id/publish", courseValidators.CourseID(), courseControllers.AdminPublishCourse)
	adminGroup.Delete("/:course_id", courseValidators.CourseID(), courseControllers.AdminDeleteCourse)
	adminGroup.Get("/:course_id/enrollments", courseValidators.CourseID(), courseControllers.AdminGetCourseEnrollments)
	adminGroup.Get("/:course_id/progress/export", courseValidators.CourseID(), courseControllers.AdminExportCourseProgress)

	adminGroup.Post("/:course_id/module", courseValidators.CourseID(), courseValidators.CreateModule(), courseControllers.AdminCreateModule)
	adminGroup.Get("/:course_id/module/list", courseValidators.CourseID(), courseControllers.AdminListModules)
	adminGroup.Patch("/:course_id/module/:module_id", courseValidators.CourseID(), courseValidators.ModuleID(), courseValidators.UpdateModule(), courseControllers.AdminUpdateModule)
	adminGroup.Delete("/:course_id/module/:module_id", courseValidators.CourseID(), courseValidators.ModuleID(), courseControllers.AdminDeleteModule)

	adminGroup.Post("/:course_id/module/:module_id/lesson", courseValidators.CourseID(), courseValidators.ModuleID(), courseValidators.CreateLesson(), courseControllers.AdminCreateLesson)
	adminGroup.Get("/:course_id/module/:module_id/lesson/list", courseValidators.CourseID(), courseValidators.ModuleID(), courseControllers.AdminListLessons)
}
