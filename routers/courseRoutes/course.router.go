package courseRoutes

import (
	courseControllers "youthhub/controllers/course"
	"youthhub/middleware"
	courseValidators "youthhub/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupCourseRoutes(app *fiber.App) {
	courseGroup := app.Group("/course")

	// Public certificate verification, no auth required
	courseGroup.Get("/certificate/verify/:code", courseControllers.VerifyCertificate)

	courseGroup.Get("/list", courseValidators.CourseList(), middleware.JWTMiddleware, courseControllers.GetAllCourses)
	courseGroup.Get("/certificates", middleware.JWTMiddleware, courseControllers.GetUserCertificates)
	courseGroup.Get("/enrollment/list", middleware.JWTMiddleware, courseControllers.GetUserEnrollmentsList)

	// Progress cascade endpoints
	courseGroup.Post("/enrollment/:enrollment_id/lesson/:lesson_id/video", courseValidators.ReportVideoProgress(), middleware.JWTMiddleware, courseControllers.ReportVideoProgress)
	courseGroup.Post("/enrollment/:enrollment_id/lesson/:lesson_id/complete", courseValidators.CompleteLesson(), middleware.JWTMiddleware, courseControllers.CompleteLesson)
	courseGroup.Post("/enrollment/:enrollment_id/module/:module_id/complete", courseValidators.CompleteModule(), middleware.JWTMiddleware, courseControllers.CompleteModule)
	courseGroup.Get("/enrollment/:enrollment_id/progress", courseValidators.GetEnrollmentProgress(), middleware.JWTMiddleware, courseControllers.GetEnrollmentProgress)

	courseGroup.Get("/:course_id", courseValidators.CourseID(), middleware.JWTMiddleware, courseControllers.GetCourseDetails)
	courseGroup.Post("/:course_id/enroll", courseValidators.CourseID(), middleware.JWTMiddleware, courseControllers.EnrollInCourse)
}
