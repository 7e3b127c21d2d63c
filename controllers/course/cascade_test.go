package controllers

import (
	"testing"
	"youthhub/models"
	courseModels "youthhub/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fixture holds the seeded rows shared by the cascade tests: one published
// course with two modules (the first carries a certificate and has two
// lessons, the second has one) and one enrolled user.
type fixture struct {
	user       models.User
	course     courseModels.Course
	module1    courseModels.Module
	module2    courseModels.Module
	lesson1    courseModels.Lesson
	lesson2    courseModels.Lesson
	lesson3    courseModels.Lesson
	enrollment courseModels.Enrollment
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A second pooled connection would see a different in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&courseModels.Course{},
		&courseModels.Module{},
		&courseModels.Lesson{},
		&courseModels.Enrollment{},
		&courseModels.LessonProgress{},
		&courseModels.ModuleCertificate{},
		&courseModels.Certificate{},
	))

	return db
}

func seedFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()

	f := fixture{}

	f.user = models.User{Name: "Amina Haddad", Email: "amina@example.com", Role: "YOUTH"}
	require.NoError(t, db.Create(&f.user).Error)

	f.course = courseModels.Course{Title: "Digital Skills", Category: "TRAINING", IsPublished: true, Status: "ACTIVE"}
	require.NoError(t, db.Create(&f.course).Error)

	f.module1 = courseModels.Module{CourseID: f.course.ID, Title: "Basics", OrderIndex: 1, HasCertificate: true}
	require.NoError(t, db.Create(&f.module1).Error)

	f.module2 = courseModels.Module{CourseID: f.course.ID, Title: "Advanced", OrderIndex: 2}
	require.NoError(t, db.Create(&f.module2).Error)

	f.lesson1 = courseModels.Lesson{CourseID: f.course.ID, ModuleID: f.module1.ID, Title: "Intro", Duration: 300, OrderIndex: 1, IsPublished: true}
	require.NoError(t, db.Create(&f.lesson1).Error)

	f.lesson2 = courseModels.Lesson{CourseID: f.course.ID, ModuleID: f.module1.ID, Title: "Deep Dive", Duration: 600, OrderIndex: 2, IsPublished: true}
	require.NoError(t, db.Create(&f.lesson2).Error)

	f.lesson3 = courseModels.Lesson{CourseID: f.course.ID, ModuleID: f.module2.ID, Title: "Capstone", Duration: 450, OrderIndex: 1, IsPublished: true}
	require.NoError(t, db.Create(&f.lesson3).Error)

	f.enrollment = courseModels.Enrollment{UserID: f.user.ID, CourseID: f.course.ID, Status: "NOT_STARTED"}
	require.NoError(t, db.Create(&f.enrollment).Error)

	return f
}

func boolPtr(b bool) *bool        { return &b }
func intPtr(n int) *int           { return &n }
func floatPtr(v float64) *float64 { return &v }

func TestUpsertLessonProgressCreatesAndAccumulates(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)

	progress, justCompleted, err := upsertLessonProgress(db, f.enrollment.ID, f.lesson1.ID, ProgressInput{
		TimeSpent:     intPtr(120),
		VideoProgress: floatPtr(0.4),
	})
	require.NoError(t, err)
	assert.False(t, justCompleted)
	assert.Equal(t, 120, progress.TimeSpent)
	assert.Equal(t, 0.4, progress.VideoProgress)
	assert.False(t, progress.IsCompleted)
	assert.Nil(t, progress.CompletedAt)

	// Second report adds time, advances the watermark
	progress, justCompleted, err = upsertLessonProgress(db, f.enrollment.ID, f.lesson1.ID, ProgressInput{
		TimeSpent:     intPtr(60),
		VideoProgress: floatPtr(0.9),
	})
	require.NoError(t, err)
	assert.False(t, justCompleted)
	assert.Equal(t, 180, progress.TimeSpent)
	assert.Equal(t, 0.9, progress.VideoProgress)

	var count int64
	db.Model(&courseModels.LessonProgress{}).Where("enrollment_id = ?", f.enrollment.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestUpsertLessonProgressCompletesOnce(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)

	progress, justCompleted, err := upsertLessonProgress(db, f.enrollment.ID, f.lesson1.ID, ProgressInput{
		IsCompleted: boolPtr(true),
		TimeSpent:   intPtr(300),
	})
	require.NoError(t, err)
	assert.True(t, justCompleted)
	assert.True(t, progress.IsCompleted)
	require.NotNil(t, progress.CompletedAt)
	firstCompletedAt := *progress.CompletedAt

	// Re-reporting completion is a no-op on the completion state
	progress, justCompleted, err = upsertLessonProgress(db, f.enrollment.ID, f.lesson1.ID, ProgressInput{
		IsCompleted: boolPtr(true),
		TimeSpent:   intPtr(30),
	})
	require.NoError(t, err)
	assert.False(t, justCompleted)
	assert.True(t, progress.IsCompleted)
	require.NotNil(t, progress.CompletedAt)
	assert.Equal(t, firstCompletedAt.Unix(), progress.CompletedAt.Unix())
	assert.Equal(t, 330, progress.TimeSpent)
}

func TestComputeModuleProgress(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)

	summary, err := computeModuleProgress(db, f.enrollment.ID, f.module1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalLessons)
	assert.Equal(t, int64(0), summary.CompletedLessons)
	assert.Equal(t, 0.0, summary.Percent)
	assert.False(t, summary.IsComplete)

	_, _, err = upsertLessonProgress(db, f.enrollment.ID, f.lesson1.ID, ProgressInput{IsCompleted: boolPtr(true)})
	require.NoError(t, err)

	summary, err = computeModuleProgress(db, f.enrollment.ID, f.module1.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.CompletedLessons)
	assert.Equal(t, 50.0, summary.Percent)
	assert.False(t, summary.IsComplete)

	_, _, err = upsertLessonProgress(db, f.enrollment.ID, f.lesson2.ID, ProgressInput{IsCompleted: boolPtr(true)})
	require.NoError(t, err)

	summary, err = computeModuleProgress(db, f.enrollment.ID, f.module1.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, summary.Percent)
	assert.True(t, summary.IsComplete)
}

func TestComputeProgressEmptyModule(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)

	empty := courseModels.Module{CourseID: f.course.ID, Title: "Placeholder", OrderIndex: 3}
	require.NoError(t, db.Create(&empty).Error)

	summary, err := computeModuleProgress(db, f.enrollment.ID, empty.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), summary.TotalLessons)
	assert.Equal(t, 0.0, summary.Percent)
	assert.False(t, summary.IsComplete)
}

func TestComputeProgressRounding(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)

	// Third lesson in module 1 makes 1/3 complete
	extra := courseModels.Lesson{CourseID: f.course.ID, ModuleID: f.module1.ID, Title: "Extra", OrderIndex: 3, IsPublished: true}
	require.NoError(t, db.Create(&extra).Error)

	_, _, err := upsertLessonProgress(db, f.enrollment.ID, f.lesson1.ID, ProgressInput{IsCompleted: boolPtr(true)})
	require.NoError(t, err)

	summary, err := computeModuleProgress(db, f.enrollment.ID, f.module1.ID)
	require.NoError(t, err)
	assert.Equal(t, 33.0, summary.Percent)

	_, _, err = upsertLessonProgress(db, f.enrollment.ID, f.lesson2.ID, ProgressInput{IsCompleted: boolPtr(true)})
	require.NoError(t, err)

	summary, err = computeModuleProgress(db, f.enrollment.ID, f.module1.ID)
	require.NoError(t, err)
	assert.Equal(t, 67.0, summary.Percent)
}

func TestModuleGrade(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)

	// No completed lessons yet: default grade
	grade, err := moduleGrade(db, f.enrollment.ID, f.module1.ID)
	require.NoError(t, err)
	assert.Equal(t, 85, grade)

	// Full engagement: 70 + 20 + 10 = 100
	_, _, err = upsertLessonProgress(db, f.enrollment.ID, f.lesson1.ID, ProgressInput{
		IsCompleted:   boolPtr(true),
		TimeSpent:     intPtr(300),
		VideoProgress: floatPtr(1.0),
	})
	require.NoError(t, err)

	grade, err = moduleGrade(db, f.enrollment.ID, f.module1.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, grade)

	// Half engagement: 70 + 10 + 5 = 85, average (100+85)/2 = 92.5 rounds to 93
	_, _, err = upsertLessonProgress(db, f.enrollment.ID, f.lesson2.ID, ProgressInput{
		IsCompleted:   boolPtr(true),
		TimeSpent:     intPtr(150),
		VideoProgress: floatPtr(0.5),
	})
	require.NoError(t, err)

	grade, err = moduleGrade(db, f.enrollment.ID, f.module1.ID)
	require.NoError(t, err)
	assert.Equal(t, 93, grade)
}

func TestModuleGradeCapped(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)

	// Excess watch time never pushes a lesson grade past 100
	_, _, err := upsertLessonProgress(db, f.enrollment.ID, f.lesson1.ID, ProgressInput{
		IsCompleted:   boolPtr(true),
		TimeSpent:     intPtr(7200),
		VideoProgress: floatPtr(1.0),
	})
	require.NoError(t, err)

	grade, err := moduleGrade(db, f.enrollment.ID, f.module1.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, grade)
}

func TestModuleCertificateIssuedOnceModuleComplete(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)

	// Incomplete module: no certificate
	cert, issued, err := maybeIssueModuleCertificate(db, &f.enrollment, &f.module1, &f.user)
	require.NoError(t, err)
	assert.Nil(t, cert)
	assert.False(t, issued)

	_, _, err = upsertLessonProgress(db, f.enrollment.ID, f.lesson1.ID, ProgressInput{IsCompleted: boolPtr(true), TimeSpent: intPtr(300), VideoProgress: floatPtr(1.0)})
	require.NoError(t, err)
	_, _, err = upsertLessonProgress(db, f.enrollment.ID, f.lesson2.ID, ProgressInput{IsCompleted: boolPtr(true), TimeSpent: intPtr(150), VideoProgress: floatPtr(0.5)})
	require.NoError(t, err)

	cert, issued, err = maybeIssueModuleCertificate(db, &f.enrollment, &f.module1, &f.user)
	require.NoError(t, err)
	require.NotNil(t, cert)
	assert.True(t, issued)
	assert.Equal(t, 93, cert.Grade)
	assert.Equal(t, f.user.ID, cert.UserID)
	assert.NotEmpty(t, cert.CertificateURL)

	// Second invocation returns the existing certificate unchanged
	again, issued, err := maybeIssueModuleCertificate(db, &f.enrollment, &f.module1, &f.user)
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.False(t, issued)
	assert.Equal(t, cert.ID, again.ID)

	var count int64
	db.Model(&courseModels.ModuleCertificate{}).Where("user_id = ?", f.user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestModuleWithoutCertificateFlag(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)

	_, _, err := upsertLessonProgress(db, f.enrollment.ID, f.lesson3.ID, ProgressInput{IsCompleted: boolPtr(true)})
	require.NoError(t, err)

	cert, issued, err := maybeIssueModuleCertificate(db, &f.enrollment, &f.module2, &f.user)
	require.NoError(t, err)
	assert.Nil(t, cert)
	assert.False(t, issued)
}

func TestCourseCertificateIssuedOnceCourseComplete(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)

	_, _, err := upsertLessonProgress(db, f.enrollment.ID, f.lesson1.ID, ProgressInput{IsCompleted: boolPtr(true)})
	require.NoError(t, err)
	_, _, err = upsertLessonProgress(db, f.enrollment.ID, f.lesson2.ID, ProgressInput{IsCompleted: boolPtr(true)})
	require.NoError(t, err)

	// Two of three lessons done: no certificate yet
	cert, issued, err := maybeIssueCourseCertificate(db, &f.enrollment, &f.user)
	require.NoError(t, err)
	assert.Nil(t, cert)
	assert.False(t, issued)

	_, _, err = upsertLessonProgress(db, f.enrollment.ID, f.lesson3.ID, ProgressInput{IsCompleted: boolPtr(true)})
	require.NoError(t, err)

	cert, issued, err = maybeIssueCourseCertificate(db, &f.enrollment, &f.user)
	require.NoError(t, err)
	require.NotNil(t, cert)
	assert.True(t, issued)
	assert.NotEmpty(t, cert.VerificationCode)
	assert.NotEmpty(t, cert.DigitalSignature)
	assert.True(t, cert.IsValid)

	again, issued, err := maybeIssueCourseCertificate(db, &f.enrollment, &f.user)
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.False(t, issued)
	assert.Equal(t, cert.VerificationCode, again.VerificationCode)

	var count int64
	db.Model(&courseModels.Certificate{}).Where("user_id = ?", f.user.ID).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestNextAfterLessonWithinModule(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)

	next, err := nextAfterLesson(db, &f.enrollment, &f.lesson1)
	require.NoError(t, err)
	require.NotNil(t, next.Lesson)
	assert.Equal(t, f.lesson2.ID, next.Lesson.ID)
	require.NotNil(t, next.Module)
	assert.Equal(t, f.module1.ID, next.Module.ID)
}

func TestNextAfterLessonBlockedByIncompleteModule(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)

	// Only the last lesson of module 1 is done; lesson 1 is still open, so
	// there is nothing to advance to.
	_, _, err := upsertLessonProgress(db, f.enrollment.ID, f.lesson2.ID, ProgressInput{IsCompleted: boolPtr(true)})
	require.NoError(t, err)

	next, err := nextAfterLesson(db, &f.enrollment, &f.lesson2)
	require.NoError(t, err)
	assert.Nil(t, next.Lesson)
	assert.Nil(t, next.Module)
}

func TestNextAfterLessonCrossesModuleBoundary(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)

	_, _, err := upsertLessonProgress(db, f.enrollment.ID, f.lesson1.ID, ProgressInput{IsCompleted: boolPtr(true)})
	require.NoError(t, err)
	_, _, err = upsertLessonProgress(db, f.enrollment.ID, f.lesson2.ID, ProgressInput{IsCompleted: boolPtr(true)})
	require.NoError(t, err)

	next, err := nextAfterLesson(db, &f.enrollment, &f.lesson2)
	require.NoError(t, err)
	require.NotNil(t, next.Lesson)
	assert.Equal(t, f.lesson3.ID, next.Lesson.ID)
	require.NotNil(t, next.Module)
	assert.Equal(t, f.module2.ID, next.Module.ID)
}

func TestNextAfterLessonAtCourseEnd(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)

	_, _, err := upsertLessonProgress(db, f.enrollment.ID, f.lesson3.ID, ProgressInput{IsCompleted: boolPtr(true)})
	require.NoError(t, err)

	next, err := nextAfterLesson(db, &f.enrollment, &f.lesson3)
	require.NoError(t, err)
	assert.Nil(t, next.Lesson)
	assert.Nil(t, next.Module)
}

func TestRunLessonCascadeFullCourse(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)

	complete := func(lesson *courseModels.Lesson, timeSpent int) *CascadeResult {
		t.Helper()
		progress, justCompleted, err := upsertLessonProgress(db, f.enrollment.ID, lesson.ID, ProgressInput{
			IsCompleted:   boolPtr(true),
			TimeSpent:     intPtr(timeSpent),
			VideoProgress: floatPtr(1.0),
		})
		require.NoError(t, err)
		require.True(t, justCompleted)

		result, err := runLessonCascade(db, &f.enrollment, lesson, &f.user, timeSpent)
		require.NoError(t, err)
		result.Progress = progress
		return result
	}

	// Lesson 1 of 3: course at 33%, in progress, pointed at lesson 2
	result := complete(&f.lesson1, 300)
	assert.Equal(t, 33.0, result.CourseSummary.Percent)
	assert.Equal(t, "IN_PROGRESS", result.Enrollment.Status)
	assert.Nil(t, result.ModuleCertificate)
	assert.Nil(t, result.CourseCertificate)
	require.NotNil(t, result.Next.Lesson)
	assert.Equal(t, f.lesson2.ID, result.Next.Lesson.ID)
	require.NotNil(t, result.Enrollment.CurrentLessonID)
	assert.Equal(t, f.lesson2.ID, *result.Enrollment.CurrentLessonID)
	require.NotNil(t, result.Enrollment.StartedAt)
	assert.Equal(t, int64(300), result.Enrollment.TimeSpent)

	// Lesson 2 completes module 1: module certificate, cross into module 2
	result = complete(&f.lesson2, 300)
	assert.True(t, result.ModuleSummary.IsComplete)
	require.NotNil(t, result.ModuleCertificate)
	assert.Equal(t, 100, result.ModuleCertificate.Grade)
	assert.Nil(t, result.CourseCertificate)
	assert.Equal(t, 67.0, result.Enrollment.Progress)
	require.NotNil(t, result.Next.Lesson)
	assert.Equal(t, f.lesson3.ID, result.Next.Lesson.ID)
	require.NotNil(t, result.Enrollment.CurrentModuleID)
	assert.Equal(t, f.module2.ID, *result.Enrollment.CurrentModuleID)
	assert.Equal(t, int64(600), result.Enrollment.TimeSpent)

	// Lesson 3 finishes the course
	result = complete(&f.lesson3, 450)
	assert.True(t, result.CourseSummary.IsComplete)
	require.NotNil(t, result.CourseCertificate)
	assert.NotEmpty(t, result.CourseCertificate.VerificationCode)
	assert.Equal(t, 100.0, result.Enrollment.Progress)
	assert.Equal(t, "COMPLETED", result.Enrollment.Status)
	require.NotNil(t, result.Enrollment.CompletedAt)
	assert.Nil(t, result.Enrollment.CurrentLessonID)
	assert.Equal(t, int64(1050), result.Enrollment.TimeSpent)

	// Module 2 carries no certificate, so exactly one module certificate exists
	var moduleCerts int64
	db.Model(&courseModels.ModuleCertificate{}).Where("user_id = ?", f.user.ID).Count(&moduleCerts)
	assert.Equal(t, int64(1), moduleCerts)
}

func TestCascadeIgnoresUnpublishedLessons(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db)

	draft := courseModels.Lesson{CourseID: f.course.ID, ModuleID: f.module2.ID, Title: "Draft", OrderIndex: 2, IsPublished: false}
	require.NoError(t, db.Create(&draft).Error)

	summary, err := computeModuleProgress(db, f.enrollment.ID, f.module2.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.TotalLessons)

	summary, err = computeCourseProgress(db, f.enrollment.ID, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.TotalLessons)
}
