package controllers

import (
	"log"
	"math"
	"time"
	"youthhub/events"
	"youthhub/models"
	courseModels "youthhub/models/course"
	"youthhub/utils"

	"gorm.io/gorm"
)

// ProgressInput carries the optional fields of one lesson progress report.
// Nil fields are left untouched on the stored row.
type ProgressInput struct {
	IsCompleted   *bool
	TimeSpent     *int // additional seconds watched in this report
	VideoProgress *float64
}

// ProgressSummary is the aggregation result for one module or course.
type ProgressSummary struct {
	CompletedLessons int64   `json:"completed_lessons"`
	TotalLessons     int64   `json:"total_lessons"`
	Percent          float64 `json:"percent"`
	IsComplete       bool    `json:"is_complete"`
}

// NextPointer is the unit the learner should see next. Both fields nil means
// there is nothing further to advance to.
type NextPointer struct {
	Lesson *courseModels.Lesson `json:"lesson"`
	Module *courseModels.Module `json:"module"`
}

// CascadeResult aggregates everything a completion report produces.
type CascadeResult struct {
	Progress          courseModels.LessonProgress     `json:"progress"`
	ModuleSummary     ProgressSummary                 `json:"module_summary"`
	CourseSummary     ProgressSummary                 `json:"course_summary"`
	ModuleCertificate *courseModels.ModuleCertificate `json:"module_certificate,omitempty"`
	CourseCertificate *courseModels.Certificate       `json:"course_certificate,omitempty"`
	Next              NextPointer                     `json:"next"`
	Enrollment        courseModels.Enrollment         `json:"enrollment"`
}

// applyProgressInput merges a report into a progress row. Completion only ever
// transitions false to true; CompletedAt is set once on that transition.
func applyProgressInput(progress *courseModels.LessonProgress, input ProgressInput, now time.Time) {
	if input.TimeSpent != nil && *input.TimeSpent > 0 {
		progress.TimeSpent += *input.TimeSpent
	}
	if input.VideoProgress != nil {
		progress.VideoProgress = *input.VideoProgress
	}
	if input.IsCompleted != nil && *input.IsCompleted && !progress.IsCompleted {
		progress.IsCompleted = true
		completedAt := now
		progress.CompletedAt = &completedAt
	}
	progress.LastWatchedAt = now
}

// upsertLessonProgress creates or updates the progress row for
// (enrollment, lesson). The returned bool reports whether this call completed
// the lesson for the first time, which is the single cascade trigger.
func upsertLessonProgress(db *gorm.DB, enrollmentID, lessonID uint, input ProgressInput) (courseModels.LessonProgress, bool, error) {
	now := time.Now()

	var progress courseModels.LessonProgress
	err := db.Where("enrollment_id = ? AND lesson_id = ?", enrollmentID, lessonID).First(&progress).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return progress, false, err
		}

		progress = courseModels.LessonProgress{
			EnrollmentID: enrollmentID,
			LessonID:     lessonID,
		}
		applyProgressInput(&progress, input, now)

		if createErr := db.Create(&progress).Error; createErr != nil {
			// Concurrent writer beat us to the row; the unique index on
			// (enrollment_id, lesson_id) rejected the insert. Update instead.
			if err := db.Where("enrollment_id = ? AND lesson_id = ?", enrollmentID, lessonID).First(&progress).Error; err != nil {
				return progress, false, createErr
			}
			return updateLessonProgress(db, &progress, input, now)
		}
		return progress, progress.IsCompleted, nil
	}

	return updateLessonProgress(db, &progress, input, now)
}

func updateLessonProgress(db *gorm.DB, progress *courseModels.LessonProgress, input ProgressInput, now time.Time) (courseModels.LessonProgress, bool, error) {
	wasCompleted := progress.IsCompleted
	applyProgressInput(progress, input, now)
	justCompleted := !wasCompleted && progress.IsCompleted

	if err := db.Save(progress).Error; err != nil {
		return *progress, false, err
	}
	return *progress, justCompleted, nil
}

// computeModuleProgress counts published lessons under the module against the
// enrollment's completed progress rows. Pure read, no side effects.
func computeModuleProgress(db *gorm.DB, enrollmentID, moduleID uint) (ProgressSummary, error) {
	var summary ProgressSummary

	if err := db.Model(&courseModels.Lesson{}).
		Where("module_id = ? AND is_deleted = ? AND is_published = ?", moduleID, false, true).
		Count(&summary.TotalLessons).Error; err != nil {
		return summary, err
	}

	if err := db.Model(&courseModels.LessonProgress{}).
		Joins("JOIN lessons ON lesson_progresses.lesson_id = lessons.id").
		Where("lesson_progresses.enrollment_id = ? AND lesson_progresses.is_completed = ? AND lessons.module_id = ? AND lessons.is_deleted = ? AND lessons.is_published = ?",
			enrollmentID, true, moduleID, false, true).
		Count(&summary.CompletedLessons).Error; err != nil {
		return summary, err
	}

	if summary.TotalLessons > 0 {
		summary.Percent = math.Round(float64(summary.CompletedLessons) / float64(summary.TotalLessons) * 100)
	}
	summary.IsComplete = summary.Percent >= 100
	return summary, nil
}

// computeCourseProgress is the course-wide counterpart of computeModuleProgress.
func computeCourseProgress(db *gorm.DB, enrollmentID, courseID uint) (ProgressSummary, error) {
	var summary ProgressSummary

	if err := db.Model(&courseModels.Lesson{}).
		Where("course_id = ? AND is_deleted = ? AND is_published = ?", courseID, false, true).
		Count(&summary.TotalLessons).Error; err != nil {
		return summary, err
	}

	if err := db.Model(&courseModels.LessonProgress{}).
		Joins("JOIN lessons ON lesson_progresses.lesson_id = lessons.id").
		Where("lesson_progresses.enrollment_id = ? AND lesson_progresses.is_completed = ? AND lessons.course_id = ? AND lessons.is_deleted = ? AND lessons.is_published = ?",
			enrollmentID, true, courseID, false, true).
		Count(&summary.CompletedLessons).Error; err != nil {
		return summary, err
	}

	if summary.TotalLessons > 0 {
		summary.Percent = math.Round(float64(summary.CompletedLessons) / float64(summary.TotalLessons) * 100)
	}
	summary.IsComplete = summary.Percent >= 100
	return summary, nil
}

// moduleGrade computes the certificate grade for a completed module: per
// completed lesson 70 base credit, up to 20 for time engagement (full credit at
// 5 minutes) and up to 10 for video completion, capped at 100, averaged and
// rounded. 85 when no valid lesson entries exist.
func moduleGrade(db *gorm.DB, enrollmentID, moduleID uint) (int, error) {
	var rows []struct {
		TimeSpent     int
		VideoProgress float64
	}

	if err := db.Model(&courseModels.LessonProgress{}).
		Select("lesson_progresses.time_spent, lesson_progresses.video_progress").
		Joins("JOIN lessons ON lesson_progresses.lesson_id = lessons.id").
		Where("lesson_progresses.enrollment_id = ? AND lesson_progresses.is_completed = ? AND lessons.module_id = ? AND lessons.is_deleted = ?",
			enrollmentID, true, moduleID, false).
		Scan(&rows).Error; err != nil {
		return 0, err
	}

	if len(rows) == 0 {
		return 85, nil
	}

	total := 0.0
	for _, row := range rows {
		grade := 70.0 + math.Min(20, float64(row.TimeSpent)/300.0*20.0) + row.VideoProgress*10.0
		if grade > 100 {
			grade = 100
		}
		total += grade
	}

	return int(math.Round(total / float64(len(rows)))), nil
}

// maybeIssueModuleCertificate mints the module certificate once the module is
// complete and flagged for one. Re-invocations return the existing certificate
// unchanged; a lost insert race resolves to the winner's row.
func maybeIssueModuleCertificate(db *gorm.DB, enrollment *courseModels.Enrollment, module *courseModels.Module, user *models.User) (*courseModels.ModuleCertificate, bool, error) {
	if !module.HasCertificate {
		return nil, false, nil
	}

	summary, err := computeModuleProgress(db, enrollment.ID, module.ID)
	if err != nil {
		return nil, false, err
	}
	if !summary.IsComplete {
		return nil, false, nil
	}

	var existing courseModels.ModuleCertificate
	if err := db.Where("module_id = ? AND user_id = ?", module.ID, enrollment.UserID).First(&existing).Error; err == nil {
		return &existing, false, nil
	}

	grade, err := moduleGrade(db, enrollment.ID, module.ID)
	if err != nil {
		return nil, false, err
	}

	url, err := utils.RenderCertificateURL("module", module.ID, enrollment.UserID, user.Name, module.Title, grade)
	if err != nil {
		return nil, false, err
	}

	cert := courseModels.ModuleCertificate{
		UserID:         enrollment.UserID,
		ModuleID:       module.ID,
		EnrollmentID:   enrollment.ID,
		CertificateURL: url,
		Grade:          grade,
		CompletedAt:    time.Now(),
	}

	if err := db.Create(&cert).Error; err != nil {
		// Unique index on (module_id, user_id): a concurrent request issued it
		// first, so fetch and return that one.
		if fetchErr := db.Where("module_id = ? AND user_id = ?", module.ID, enrollment.UserID).First(&existing).Error; fetchErr == nil {
			return &existing, false, nil
		}
		return nil, false, err
	}

	return &cert, true, nil
}

// maybeIssueCourseCertificate mints the course certificate once every lesson in
// the course is complete. Same idempotence contract as the module issuer.
func maybeIssueCourseCertificate(db *gorm.DB, enrollment *courseModels.Enrollment, user *models.User) (*courseModels.Certificate, bool, error) {
	summary, err := computeCourseProgress(db, enrollment.ID, enrollment.CourseID)
	if err != nil {
		return nil, false, err
	}
	if !summary.IsComplete {
		return nil, false, nil
	}

	var existing courseModels.Certificate
	if err := db.Where("course_id = ? AND user_id = ?", enrollment.CourseID, enrollment.UserID).First(&existing).Error; err == nil {
		return &existing, false, nil
	}

	var course courseModels.Course
	if err := db.Where("id = ?", enrollment.CourseID).First(&course).Error; err != nil {
		return nil, false, err
	}

	url, err := utils.RenderCertificateURL("course", course.ID, enrollment.UserID, user.Name, course.Title, 0)
	if err != nil {
		return nil, false, err
	}

	cert := courseModels.Certificate{
		UserID:           enrollment.UserID,
		CourseID:         course.ID,
		EnrollmentID:     enrollment.ID,
		VerificationCode: utils.NewVerificationCode(),
		DigitalSignature: utils.NewDigitalSignature(),
		CertificateURL:   url,
		IsValid:          true,
		IssuedAt:         time.Now(),
	}

	if err := db.Create(&cert).Error; err != nil {
		if fetchErr := db.Where("course_id = ? AND user_id = ?", course.ID, enrollment.UserID).First(&existing).Error; fetchErr == nil {
			return &existing, false, nil
		}
		return nil, false, err
	}

	return &cert, true, nil
}

// issueCertificates runs both certificate levels for the enrollment. Failures
// are logged and swallowed: progress recording is the durable fact, issuance is
// best effort and retried by the sweep on a later pass.
func issueCertificates(db *gorm.DB, enrollment *courseModels.Enrollment, module *courseModels.Module, user *models.User) (*courseModels.ModuleCertificate, *courseModels.Certificate) {
	var moduleCert *courseModels.ModuleCertificate
	var courseCert *courseModels.Certificate

	if module != nil {
		cert, issued, err := maybeIssueModuleCertificate(db, enrollment, module, user)
		if err != nil {
			log.Printf("Module certificate issuance failed for enrollment %d module %d: %v", enrollment.ID, module.ID, err)
		} else {
			moduleCert = cert
			if issued {
				events.Publish(events.Event{
					Name:         events.ModuleCertificateIssued,
					UserID:       enrollment.UserID,
					EnrollmentID: enrollment.ID,
					CourseID:     enrollment.CourseID,
					ModuleID:     module.ID,
				})
			}
		}
	}

	cert, issued, err := maybeIssueCourseCertificate(db, enrollment, user)
	if err != nil {
		log.Printf("Course certificate issuance failed for enrollment %d: %v", enrollment.ID, err)
	} else {
		courseCert = cert
		if issued {
			events.Publish(events.Event{
				Name:         events.CourseCertificateIssued,
				UserID:       enrollment.UserID,
				EnrollmentID: enrollment.ID,
				CourseID:     enrollment.CourseID,
			})

			var course courseModels.Course
			if err := db.Where("id = ?", enrollment.CourseID).First(&course).Error; err == nil {
				go func(email, name, title, code string) {
					if err := utils.SendCertificateEmail(email, name, title, code); err != nil {
						log.Printf("Error sending certificate email: %v", err)
					}
				}(user.Email, user.Name, course.Title, cert.VerificationCode)
			}
		}
	}

	return moduleCert, courseCert
}

// nextAfterLesson resolves the unit the learner should see after finishing the
// given lesson. Ordering is strictly by stored order index; crossing into the
// next module requires the current one to be complete.
func nextAfterLesson(db *gorm.DB, enrollment *courseModels.Enrollment, lesson *courseModels.Lesson) (NextPointer, error) {
	var next courseModels.Lesson
	err := db.Where("module_id = ? AND order_index > ? AND is_deleted = ? AND is_published = ?",
		lesson.ModuleID, lesson.OrderIndex, false, true).
		Order("order_index asc").First(&next).Error
	if err == nil {
		var module courseModels.Module
		if err := db.Where("id = ?", lesson.ModuleID).First(&module).Error; err != nil {
			return NextPointer{}, err
		}
		return NextPointer{Lesson: &next, Module: &module}, nil
	}
	if err != gorm.ErrRecordNotFound {
		return NextPointer{}, err
	}

	// Last lesson of the module; advance only once the module is complete.
	summary, err := computeModuleProgress(db, enrollment.ID, lesson.ModuleID)
	if err != nil {
		return NextPointer{}, err
	}
	if !summary.IsComplete {
		return NextPointer{}, nil
	}

	var current courseModels.Module
	if err := db.Where("id = ?", lesson.ModuleID).First(&current).Error; err != nil {
		return NextPointer{}, err
	}

	var nextModule courseModels.Module
	err = db.Where("course_id = ? AND order_index > ? AND is_deleted = ?",
		current.CourseID, current.OrderIndex, false).
		Order("order_index asc").First(&nextModule).Error
	if err == gorm.ErrRecordNotFound {
		return NextPointer{}, nil // no further module, course finished
	}
	if err != nil {
		return NextPointer{}, err
	}

	var first courseModels.Lesson
	err = db.Where("module_id = ? AND is_deleted = ? AND is_published = ?", nextModule.ID, false, true).
		Order("order_index asc").First(&first).Error
	if err == gorm.ErrRecordNotFound {
		return NextPointer{Module: &nextModule}, nil
	}
	if err != nil {
		return NextPointer{}, err
	}

	return NextPointer{Lesson: &first, Module: &nextModule}, nil
}

// applyEnrollmentProgress persists the rolled-up state back onto the
// enrollment: fresh course percent, navigation pointers, cumulative time.
func applyEnrollmentProgress(db *gorm.DB, enrollment *courseModels.Enrollment, timeDelta int, next NextPointer, courseSummary ProgressSummary) error {
	now := time.Now()

	enrollment.Progress = courseSummary.Percent
	if timeDelta > 0 {
		enrollment.TimeSpent += int64(timeDelta)
	}
	if next.Module != nil {
		moduleID := next.Module.ID
		enrollment.CurrentModuleID = &moduleID
	}
	if next.Lesson != nil {
		lessonID := next.Lesson.ID
		enrollment.CurrentLessonID = &lessonID
	} else {
		enrollment.CurrentLessonID = nil
	}
	if enrollment.StartedAt == nil {
		enrollment.StartedAt = &now
	}

	if courseSummary.Percent >= 100 {
		enrollment.Status = "COMPLETED"
		if enrollment.CompletedAt == nil {
			enrollment.CompletedAt = &now
		}
	} else {
		enrollment.Status = "IN_PROGRESS"
	}

	return db.Save(enrollment).Error
}

// runLessonCascade executes the full chain for one freshly completed lesson:
// aggregation, certificate issuance, navigation, enrollment rollup. Steps run
// strictly in that order within the invocation.
func runLessonCascade(db *gorm.DB, enrollment *courseModels.Enrollment, lesson *courseModels.Lesson, user *models.User, timeDelta int) (*CascadeResult, error) {
	result := &CascadeResult{}

	events.Publish(events.Event{
		Name:         events.LessonCompleted,
		UserID:       enrollment.UserID,
		EnrollmentID: enrollment.ID,
		CourseID:     enrollment.CourseID,
		ModuleID:     lesson.ModuleID,
		LessonID:     lesson.ID,
	})

	moduleSummary, err := computeModuleProgress(db, enrollment.ID, lesson.ModuleID)
	if err != nil {
		return nil, err
	}
	result.ModuleSummary = moduleSummary

	var module courseModels.Module
	if err := db.Where("id = ? AND is_deleted = ?", lesson.ModuleID, false).First(&module).Error; err != nil {
		return nil, err
	}

	if moduleSummary.IsComplete {
		events.Publish(events.Event{
			Name:         events.ModuleCompleted,
			UserID:       enrollment.UserID,
			EnrollmentID: enrollment.ID,
			CourseID:     enrollment.CourseID,
			ModuleID:     module.ID,
		})
	}

	result.ModuleCertificate, result.CourseCertificate = issueCertificates(db, enrollment, &module, user)

	courseSummary, err := computeCourseProgress(db, enrollment.ID, enrollment.CourseID)
	if err != nil {
		return nil, err
	}
	result.CourseSummary = courseSummary

	if courseSummary.IsComplete && enrollment.Status != "COMPLETED" {
		events.Publish(events.Event{
			Name:         events.CourseCompleted,
			UserID:       enrollment.UserID,
			EnrollmentID: enrollment.ID,
			CourseID:     enrollment.CourseID,
		})
	}

	next, err := nextAfterLesson(db, enrollment, lesson)
	if err != nil {
		return nil, err
	}
	result.Next = next

	if err := applyEnrollmentProgress(db, enrollment, timeDelta, next, courseSummary); err != nil {
		return nil, err
	}
	result.Enrollment = *enrollment

	return result, nil
}
