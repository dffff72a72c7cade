package controllers

import (
	"strconv"

	"commitrack_go/database"
	"commitrack_go/middleware"
	"commitrack_go/models"

	"github.com/gofiber/fiber/v2"
)

type CollegeController struct{}

// GetColleges returns all colleges
func (cc *CollegeController) GetColleges(c *fiber.Ctx) error {
	var colleges []models.College

	query := database.DB.Model(&models.College{})
	if country := c.Query("country"); country != "" {
		query = query.Where("country = ?", country)
	}
	if active := c.Query("active"); active == "true" {
		query = query.Where("active = ?", true)
	}

	if err := query.Order("name").Find(&colleges).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch colleges",
		})
	}

	return c.JSON(fiber.Map{
		"colleges": colleges,
		"total":    len(colleges),
	})
}

// GetCollege returns a specific college by ID
func (cc *CollegeController) GetCollege(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid college ID",
		})
	}

	var college models.College
	if err := database.DB.First(&college, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "College not found",
		})
	}

	return c.JSON(fiber.Map{
		"college": college,
	})
}

// CreateCollege creates a new college
func (cc *CollegeController) CreateCollege(c *fiber.Ctx) error {
	var college models.College
	if err := c.BodyParser(&college); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if college.Name == "" || college.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and Code are required",
		})
	}
	if college.DefaultLeadDays < 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Default lead days must not be negative",
		})
	}

	var existing models.College
	if err := database.DB.Where("code = ?", college.Code).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "College code already exists",
		})
	}

	if college.DefaultLeadDays == 0 {
		college.DefaultLeadDays = 7
	}
	college.Active = true

	if err := database.DB.Create(&college).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create college",
		})
	}

	middleware.LogActivity(c, "CREATE", "colleges", college.ID, college)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "College created successfully",
		"college": college,
	})
}

// UpdateCollege updates an existing college
func (cc *CollegeController) UpdateCollege(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid college ID",
		})
	}

	var college models.College
	if err := database.DB.First(&college, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "College not found",
		})
	}

	var updateData models.College
	if err := c.BodyParser(&updateData); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if updateData.Code != "" && updateData.Code != college.Code {
		var existing models.College
		if err := database.DB.Where("code = ? AND id != ?", updateData.Code, college.ID).First(&existing).Error; err == nil {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": "College code already exists",
			})
		}
	}

	if err := database.DB.Model(&college).Updates(updateData).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update college",
		})
	}

	middleware.LogActivity(c, "UPDATE", "colleges", college.ID, updateData)

	return c.JSON(fiber.Map{
		"message": "College updated successfully",
		"college": college,
	})
}

// DeleteCollege deletes a college with no enrollments
func (cc *CollegeController) DeleteCollege(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid college ID",
		})
	}

	var college models.College
	if err := database.DB.First(&college, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "College not found",
		})
	}

	var enrollmentCount int64
	database.DB.Model(&models.Enrollment{}).Where("college_id = ?", college.ID).Count(&enrollmentCount)
	if enrollmentCount > 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Cannot delete college with associated enrollments",
		})
	}

	if err := database.DB.Delete(&college).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete college",
		})
	}

	middleware.LogActivity(c, "DELETE", "colleges", college.ID, college)

	return c.JSON(fiber.Map{
		"message": "College deleted successfully",
	})
}
