package businessPlanController

import (
	"encoding/json"
	"youthhub/database"
	"youthhub/middleware"
	"youthhub/models"
	planModels "youthhub/models/businessplan"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// loadOwner fetches the caller. On failure the response has been written.
func loadOwner(c *fiber.Ctx) (*models.User, error) {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return nil, middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return nil, middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	return &user, nil
}

// CreateBusinessPlan creates a plan for the current user and scores it
func CreateBusinessPlan(c *fiber.Ctx) error {
	user, errResp := loadOwner(c)
	if user == nil {
		return errResp
	}

	reqData, ok := c.Locals("validatedPlan").(*struct {
		Title    string            `json:"title"`
		Summary  string            `json:"summary"`
		Sector   string            `json:"sector"`
		Sections map[string]string `json:"sections"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	sectionsJSON, err := json.Marshal(reqData.Sections)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid section content!", nil)
	}

	plan := planModels.BusinessPlan{
		UserID:      user.ID,
		Title:       reqData.Title,
		Summary:     reqData.Summary,
		Sector:      reqData.Sector,
		Sections:    datatypes.JSON(sectionsJSON),
		Completion:  PlanCompletion(reqData.Sections),
		ImpactScore: ImpactScore(reqData.Sections),
	}

	if err := database.Database.Db.Create(&plan).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create business plan!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Business plan created successfully!", plan)
}

// UpdateBusinessPlan updates a plan's content and recomputes both scores
func UpdateBusinessPlan(c *fiber.Ctx) error {
	user, errResp := loadOwner(c)
	if user == nil {
		return errResp
	}

	planID := c.Locals("planID").(uint)

	var plan planModels.BusinessPlan
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", planID, false).First(&plan).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Business plan not found!", nil)
	}

	if plan.UserID != user.ID && user.Role != "SUPERADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! This plan belongs to another user.", nil)
	}

	reqData, ok := c.Locals("validatedPlanUpdate").(*struct {
		Title    string            `json:"title"`
		Summary  string            `json:"summary"`
		Sector   string            `json:"sector"`
		Sections map[string]string `json:"sections"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		plan.Title = reqData.Title
	}
	if reqData.Summary != "" {
		plan.Summary = reqData.Summary
	}
	if reqData.Sector != "" {
		plan.Sector = reqData.Sector
	}
	if reqData.Sections != nil {
		sectionsJSON, err := json.Marshal(reqData.Sections)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid section content!", nil)
		}
		plan.Sections = datatypes.JSON(sectionsJSON)
		plan.Completion = PlanCompletion(reqData.Sections)
		plan.ImpactScore = ImpactScore(reqData.Sections)
	}

	if err := database.Database.Db.Save(&plan).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update business plan!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Business plan updated successfully!", plan)
}

// GetBusinessPlans lists the current user's plans
func GetBusinessPlans(c *fiber.Ctx) error {
	user, errResp := loadOwner(c)
	if user == nil {
		return errResp
	}

	var plans []planModels.BusinessPlan
	if err := database.Database.Db.Where("user_id = ? AND is_deleted = ?", user.ID, false).Order("created_at desc").Find(&plans).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch business plans!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Business plans fetched successfully!", fiber.Map{
		"plans": plans,
		"total": len(plans),
	})
}

// GetBusinessPlanAnalysis returns the stored plan with a fresh scoring
// breakdown per section
func GetBusinessPlanAnalysis(c *fiber.Ctx) error {
	user, errResp := loadOwner(c)
	if user == nil {
		return errResp
	}

	planID := c.Locals("planID").(uint)

	var plan planModels.BusinessPlan
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", planID, false).First(&plan).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Business plan not found!", nil)
	}

	if plan.UserID != user.ID && user.Role != "SUPERADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! This plan belongs to another user.", nil)
	}

	var sections map[string]string
	if len(plan.Sections) > 0 {
		if err := json.Unmarshal(plan.Sections, &sections); err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to read plan sections!", nil)
		}
	}

	type SectionStatus struct {
		Name   string `json:"name"`
		Filled bool   `json:"filled"`
		Length int    `json:"length"`
	}

	statuses := make([]SectionStatus, len(planSections))
	for i, name := range planSections {
		content := sections[name]
		statuses[i] = SectionStatus{
			Name:   name,
			Filled: len(content) >= substantiveLength,
			Length: len(content),
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Business plan analysis fetched successfully!", fiber.Map{
		"plan":         plan,
		"completion":   PlanCompletion(sections),
		"impact_score": ImpactScore(sections),
		"sections":     statuses,
	})
}

// DeleteBusinessPlan soft deletes a plan
func DeleteBusinessPlan(c *fiber.Ctx) error {
	user, errResp := loadOwner(c)
	if user == nil {
		return errResp
	}

	planID := c.Locals("planID").(uint)

	var plan planModels.BusinessPlan
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", planID, false).First(&plan).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Business plan not found!", nil)
	}

	if plan.UserID != user.ID && user.Role != "SUPERADMIN" {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access denied! This plan belongs to another user.", nil)
	}

	plan.IsDeleted = true
	if err := database.Database.Db.Save(&plan).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete business plan!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Business plan deleted successfully!", nil)
}
