package controllers

import (
	"fmt"
	"log"
	"time"
	"youthhub/database"
	"youthhub/models"
	courseModels "youthhub/models/course"

	"github.com/robfig/cron/v3"
)

// logSweep logs sweep events with timestamp
func logSweep(message string) {
	log.Printf("[CERTIFICATE-SWEEP %s] %s", time.Now().Format(time.RFC3339), message)
}

// sweepMissingCertificates re-runs the certificate issuer over enrollments
// whose completed modules or courses lack a certificate. Issuance is best
// effort during the request cascade; this picks up whatever was lost to
// renderer outages. The issuers are idempotent, so re-checking is safe.
func sweepMissingCertificates() {
	db := database.Database.Db

	var enrollments []courseModels.Enrollment
	if err := db.Where("status IN ? AND is_deleted = ?", []string{"IN_PROGRESS", "COMPLETED"}, false).
		Find(&enrollments).Error; err != nil {
		logSweep("Error fetching enrollments: " + err.Error())
		return
	}

	reissued := 0
	for i := range enrollments {
		enrollment := &enrollments[i]

		var user models.User
		if err := db.Where("id = ? AND is_deleted = ?", enrollment.UserID, false).First(&user).Error; err != nil {
			continue
		}

		var modules []courseModels.Module
		if err := db.Where("course_id = ? AND has_certificate = ? AND is_deleted = ?", enrollment.CourseID, true, false).
			Find(&modules).Error; err != nil {
			continue
		}

		for j := range modules {
			module := &modules[j]

			var existing courseModels.ModuleCertificate
			if err := db.Where("module_id = ? AND user_id = ?", module.ID, enrollment.UserID).First(&existing).Error; err == nil {
				continue
			}

			cert, issued, err := maybeIssueModuleCertificate(db, enrollment, module, &user)
			if err != nil {
				logSweep("Module certificate retry failed: " + err.Error())
				continue
			}
			if issued && cert != nil {
				reissued++
			}
		}

		var courseCert courseModels.Certificate
		if err := db.Where("course_id = ? AND user_id = ?", enrollment.CourseID, enrollment.UserID).First(&courseCert).Error; err != nil {
			cert, issued, err := maybeIssueCourseCertificate(db, enrollment, &user)
			if err != nil {
				logSweep("Course certificate retry failed: " + err.Error())
				continue
			}
			if issued && cert != nil {
				reissued++
			}
		}
	}

	if reissued > 0 {
		logSweep(fmt.Sprintf("Issued %d certificates on retry", reissued))
	}
}

// StartCertificateSweep schedules the hourly certificate retry job
func StartCertificateSweep() *cron.Cron {
	c := cron.New()

	if _, err := c.AddFunc("@hourly", sweepMissingCertificates); err != nil {
		log.Fatalf("Failed to schedule certificate sweep: %v", err)
	}

	c.Start()
	logSweep("Certificate sweep scheduled (hourly)")
	return c
}
