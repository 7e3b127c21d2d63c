package controllers

import (
	"time"
	"youthhub/database"
	"youthhub/middleware"
	"youthhub/models"
	courseModels "youthhub/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// loadAuthorizedEnrollment fetches the enrollment and verifies the caller is
// its owner or a superadmin. On failure the response has already been written
// and the returned enrollment is nil.
func loadAuthorizedEnrollment(c *fiber.Ctx, enrollmentID uint) (*courseModels.Enrollment, *models.User, error) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, nil, middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return nil, nil, middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var enrollment courseModels.Enrollment
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", enrollmentID, false).First(&enrollment).Error; err != nil {
		return nil, nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Enrollment not found!", nil)
	}

	if enrollment.UserID != user.ID && user.Role != "SUPERADMIN" {
		return nil, nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! This enrollment belongs to another student.", nil)
	}

	return &enrollment, &user, nil
}

// loadEnrollmentLesson fetches the lesson and checks it belongs to the
// enrollment's course. Same contract as loadAuthorizedEnrollment.
func loadEnrollmentLesson(c *fiber.Ctx, enrollment *courseModels.Enrollment, lessonID uint) (*courseModels.Lesson, error) {
	var lesson courseModels.Lesson
	if err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", lessonID, false, true).First(&lesson).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusNotFound, false, "Lesson not found!", nil)
	}

	if lesson.CourseID != enrollment.CourseID {
		return nil, middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Lesson does not belong to the enrolled course!", nil)
	}

	return &lesson, nil
}

// ReportVideoProgress records watch time and video position for a lesson
// without completing it
func ReportVideoProgress(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(uint)
	lessonID := c.Locals("lessonID").(uint)

	enrollment, _, errResp := loadAuthorizedEnrollment(c, enrollmentID)
	if enrollment == nil {
		return errResp
	}

	lesson, errResp := loadEnrollmentLesson(c, enrollment, lessonID)
	if lesson == nil {
		return errResp
	}

	reqData, ok := c.Locals("validatedVideoProgress").(*VideoProgressRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	input := ProgressInput{
		TimeSpent:     reqData.TimeSpent,
		VideoProgress: &reqData.VideoProgress,
	}

	progress, _, err := upsertLessonProgress(database.Database.Db, enrollment.ID, lesson.ID, input)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record video progress!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Video progress recorded successfully!", progress)
}

// CompleteLesson marks a lesson completed and runs the progress cascade:
// aggregation, certificate issuance, navigation and enrollment rollup
func CompleteLesson(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(uint)
	lessonID := c.Locals("lessonID").(uint)

	enrollment, user, errResp := loadAuthorizedEnrollment(c, enrollmentID)
	if enrollment == nil {
		return errResp
	}

	lesson, errResp := loadEnrollmentLesson(c, enrollment, lessonID)
	if lesson == nil {
		return errResp
	}

	reqData, ok := c.Locals("validatedCompleteLesson").(*CompleteLessonRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	videoProgress := 1.0
	if reqData.VideoProgress != nil {
		videoProgress = *reqData.VideoProgress
	}
	completed := true

	input := ProgressInput{
		IsCompleted:   &completed,
		TimeSpent:     reqData.TimeSpent,
		VideoProgress: &videoProgress,
	}

	db := database.Database.Db
	progress, justCompleted, err := upsertLessonProgress(db, enrollment.ID, lesson.ID, input)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to record lesson completion!", nil)
	}

	timeDelta := 0
	if reqData.TimeSpent != nil {
		timeDelta = *reqData.TimeSpent
	}

	if justCompleted {
		result, err := runLessonCascade(db, enrollment, lesson, user, timeDelta)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course progress!", nil)
		}
		result.Progress = progress
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson completed successfully!", result)
	}

	// Already completed: no cascade re-trigger, return the current view.
	moduleSummary, err := computeModuleProgress(db, enrollment.ID, lesson.ModuleID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute progress!", nil)
	}
	courseSummary, err := computeCourseProgress(db, enrollment.ID, enrollment.CourseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute progress!", nil)
	}
	next, err := nextAfterLesson(db, enrollment, lesson)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to resolve next lesson!", nil)
	}

	result := CascadeResult{
		Progress:      progress,
		ModuleSummary: moduleSummary,
		CourseSummary: courseSummary,
		Next:          next,
		Enrollment:    *enrollment,
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Lesson already completed.", result)
}

// LessonCompletionResult is one line of a bulk module completion.
type LessonCompletionResult struct {
	LessonID         uint   `json:"lesson_id"`
	Title            string `json:"title"`
	AlreadyCompleted bool   `json:"already_completed"`
}

// CompleteModule bulk-completes every published lesson in a module. Each
// lesson completion triggers the store and certificate logic individually; the
// enrollment rollup is applied once at the end with the cumulative result.
func CompleteModule(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(uint)
	moduleID := c.Locals("moduleID").(uint)

	enrollment, user, errResp := loadAuthorizedEnrollment(c, enrollmentID)
	if enrollment == nil {
		return errResp
	}

	db := database.Database.Db

	var module courseModels.Module
	if err := db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	if module.CourseID != enrollment.CourseID {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Module does not belong to the enrolled course!", nil)
	}

	var lessons []courseModels.Lesson
	if err := db.Where("module_id = ? AND is_deleted = ? AND is_published = ?", module.ID, false, true).
		Order("order_index asc").Find(&lessons).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch lessons!", nil)
	}

	results := make([]LessonCompletionResult, 0, len(lessons))
	timeDelta := 0
	var lastLesson *courseModels.Lesson

	for i := range lessons {
		lesson := &lessons[i]
		lastLesson = lesson

		var existing courseModels.LessonProgress
		alreadyDone := db.Where("enrollment_id = ? AND lesson_id = ? AND is_completed = ?", enrollment.ID, lesson.ID, true).
			First(&existing).Error == nil
		if alreadyDone {
			results = append(results, LessonCompletionResult{LessonID: lesson.ID, Title: lesson.Title, AlreadyCompleted: true})
			continue
		}

		// Lesson duration estimate stands in for the unreported watch time.
		completed := true
		fullVideo := 1.0
		fallbackTime := lesson.Duration
		input := ProgressInput{
			IsCompleted:   &completed,
			TimeSpent:     &fallbackTime,
			VideoProgress: &fullVideo,
		}

		if _, _, err := upsertLessonProgress(db, enrollment.ID, lesson.ID, input); err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to complete module lessons!", nil)
		}
		timeDelta += fallbackTime
		results = append(results, LessonCompletionResult{LessonID: lesson.ID, Title: lesson.Title})
	}

	// Idempotent at both levels: existing certificates come back unchanged.
	moduleCert, courseCert := issueCertificates(db, enrollment, &module, user)

	moduleSummary, err := computeModuleProgress(db, enrollment.ID, module.ID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute progress!", nil)
	}
	courseSummary, err := computeCourseProgress(db, enrollment.ID, enrollment.CourseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute progress!", nil)
	}

	next := NextPointer{}
	if lastLesson != nil {
		next, err = nextAfterLesson(db, enrollment, lastLesson)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to resolve next module!", nil)
		}
	}

	if err := applyEnrollmentProgress(db, enrollment, timeDelta, next, courseSummary); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update enrollment!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module completed successfully!", fiber.Map{
		"lessons":            results,
		"module_summary":     moduleSummary,
		"course_summary":     courseSummary,
		"module_certificate": moduleCert,
		"course_certificate": courseCert,
		"next":               next,
		"enrollment":         enrollment,
	})
}

// LessonProgressView pairs a lesson with the enrollment's progress on it.
type LessonProgressView struct {
	Lesson        courseModels.Lesson `json:"lesson"`
	IsCompleted   bool                `json:"is_completed"`
	TimeSpent     int                 `json:"time_spent"`
	VideoProgress float64             `json:"video_progress"`
	CompletedAt   *time.Time          `json:"completed_at"`
}

// ModuleProgressView is the per-module slice of the enrollment breakdown.
type ModuleProgressView struct {
	Module      courseModels.Module             `json:"module"`
	Summary     ProgressSummary                 `json:"summary"`
	Lessons     []LessonProgressView            `json:"lessons"`
	Certificate *courseModels.ModuleCertificate `json:"certificate,omitempty"`
}

// GetEnrollmentProgress returns the full per-module, per-lesson breakdown for
// an enrollment along with the next-lesson pointer
func GetEnrollmentProgress(c *fiber.Ctx) error {
	enrollmentID := c.Locals("enrollmentID").(uint)

	enrollment, _, errResp := loadAuthorizedEnrollment(c, enrollmentID)
	if enrollment == nil {
		return errResp
	}

	db := database.Database.Db

	var modules []courseModels.Module
	if err := db.Where("course_id = ? AND is_deleted = ?", enrollment.CourseID, false).
		Order("order_index asc").Find(&modules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}

	breakdown := make([]ModuleProgressView, len(modules))
	for i, module := range modules {
		summary, err := computeModuleProgress(db, enrollment.ID, module.ID)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute progress!", nil)
		}

		var lessons []courseModels.Lesson
		db.Where("module_id = ? AND is_deleted = ? AND is_published = ?", module.ID, false, true).
			Order("order_index asc").Find(&lessons)

		views := make([]LessonProgressView, len(lessons))
		for j, lesson := range lessons {
			views[j] = LessonProgressView{Lesson: lesson}

			var progress courseModels.LessonProgress
			if err := db.Where("enrollment_id = ? AND lesson_id = ?", enrollment.ID, lesson.ID).First(&progress).Error; err == nil {
				views[j].IsCompleted = progress.IsCompleted
				views[j].TimeSpent = progress.TimeSpent
				views[j].VideoProgress = progress.VideoProgress
				views[j].CompletedAt = progress.CompletedAt
			}
		}

		breakdown[i] = ModuleProgressView{Module: module, Summary: summary, Lessons: views}

		var cert courseModels.ModuleCertificate
		if err := db.Where("module_id = ? AND user_id = ?", module.ID, enrollment.UserID).First(&cert).Error; err == nil {
			breakdown[i].Certificate = &cert
		}
	}

	courseSummary, err := computeCourseProgress(db, enrollment.ID, enrollment.CourseID)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute progress!", nil)
	}

	next := resolveCurrentPointer(db, enrollment)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully!", fiber.Map{
		"enrollment":     enrollment,
		"course_summary": courseSummary,
		"modules":        breakdown,
		"next":           next,
	})
}

// resolveCurrentPointer turns the enrollment's stored navigation state into
// entities. A never-started enrollment points at the first lesson of the first
// module.
func resolveCurrentPointer(db *gorm.DB, enrollment *courseModels.Enrollment) NextPointer {
	if enrollment.CurrentLessonID != nil {
		var lesson courseModels.Lesson
		if err := db.Where("id = ? AND is_deleted = ?", *enrollment.CurrentLessonID, false).First(&lesson).Error; err == nil {
			var module courseModels.Module
			if err := db.Where("id = ?", lesson.ModuleID).First(&module).Error; err == nil {
				return NextPointer{Lesson: &lesson, Module: &module}
			}
		}
	}

	if enrollment.CurrentModuleID != nil {
		var module courseModels.Module
		if err := db.Where("id = ? AND is_deleted = ?", *enrollment.CurrentModuleID, false).First(&module).Error; err == nil {
			return NextPointer{Module: &module}
		}
	}

	var module courseModels.Module
	if err := db.Where("course_id = ? AND is_deleted = ?", enrollment.CourseID, false).
		Order("order_index asc").First(&module).Error; err != nil {
		return NextPointer{}
	}

	var lesson courseModels.Lesson
	if err := db.Where("module_id = ? AND is_deleted = ? AND is_published = ?", module.ID, false, true).
		Order("order_index asc").First(&lesson).Error; err != nil {
		return NextPointer{Module: &module}
	}

	return NextPointer{Lesson: &lesson, Module: &module}
}
