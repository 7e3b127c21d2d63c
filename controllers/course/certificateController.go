package controllers

import (
	"youthhub/database"
	"youthhub/middleware"
	"youthhub/models"
	courseModels "youthhub/models/course"

	"github.com/gofiber/fiber/v2"
)

// GetUserCertificates gets all certificates for the current user, both course
// and module level
func GetUserCertificates(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	type CertificateWithCourse struct {
		courseModels.Certificate
		CourseName string `json:"course_name"`
	}

	var certificates []courseModels.Certificate
	if err := database.Database.Db.Where("user_id = ?", userID).Order("issued_at desc").Find(&certificates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch certificates!", nil)
	}

	courseCerts := make([]CertificateWithCourse, len(certificates))
	for i, cert := range certificates {
		var course courseModels.Course
		database.Database.Db.Where("id = ?", cert.CourseID).First(&course)
		courseCerts[i] = CertificateWithCourse{
			Certificate: cert,
			CourseName:  course.Title,
		}
	}

	type ModuleCertificateWithModule struct {
		courseModels.ModuleCertificate
		ModuleName string `json:"module_name"`
	}

	var moduleCertificates []courseModels.ModuleCertificate
	database.Database.Db.Where("user_id = ?", userID).Order("completed_at desc").Find(&moduleCertificates)

	moduleCerts := make([]ModuleCertificateWithModule, len(moduleCertificates))
	for i, cert := range moduleCertificates {
		var module courseModels.Module
		database.Database.Db.Where("id = ?", cert.ModuleID).First(&module)
		moduleCerts[i] = ModuleCertificateWithModule{
			ModuleCertificate: cert,
			ModuleName:        module.Title,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificates fetched successfully!", fiber.Map{
		"course_certificates": courseCerts,
		"module_certificates": moduleCerts,
	})
}

// VerifyCertificate checks a certificate verification code. Public endpoint,
// used by employers validating a candidate's certificate.
func VerifyCertificate(c *fiber.Ctx) error {
	code := c.Params("code")
	if code == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Verification code is required!", nil)
	}

	var certificate courseModels.Certificate
	if err := database.Database.Db.Where("verification_code = ?", code).First(&certificate).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Certificate not found!", nil)
	}

	if !certificate.IsValid {
		return middleware.JsonResponse(c, fiber.StatusOK, false, "Certificate has been revoked!", fiber.Map{
			"is_valid": false,
		})
	}

	var course courseModels.Course
	database.Database.Db.Where("id = ?", certificate.CourseID).First(&course)

	var user models.User
	database.Database.Db.Where("id = ?", certificate.UserID).First(&user)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Certificate is valid.", fiber.Map{
		"is_valid":     true,
		"course_name":  course.Title,
		"student_name": user.Name,
		"issued_at":    certificate.IssuedAt,
	})
}
