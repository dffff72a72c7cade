package controllers

import (
	"strconv"
	"time"

	"commitrack_go/database"
	"commitrack_go/middleware"
	"commitrack_go/models"

	"github.com/gofiber/fiber/v2"
)

type EnrollmentController struct{}

// EnrollmentRequest represents the enrollment creation body
type EnrollmentRequest struct {
	StudentID  uint       `json:"student_id" validate:"required"`
	CollegeID  uint       `json:"college_id" validate:"required"`
	CourseName string     `json:"course_name" validate:"required"`
	CourseCode string     `json:"course_code"`
	IntakeDate *time.Time `json:"intake_date"`
}

// GetEnrollments returns enrollments, optionally filtered by branch or status
func (ec *EnrollmentController) GetEnrollments(c *fiber.Ctx) error {
	var enrollments []models.Enrollment

	query := database.DB.Model(&models.Enrollment{}).
		Preload("Student").
		Preload("College")
	if branchID := c.Query("branch_id"); branchID != "" {
		query = query.Where("branch_id = ?", branchID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Order("created_at DESC").Find(&enrollments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch enrollments",
		})
	}

	return c.JSON(fiber.Map{
		"enrollments": enrollments,
		"total":       len(enrollments),
	})
}

// GetEnrollment returns one enrollment
func (ec *EnrollmentController) GetEnrollment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid enrollment ID",
		})
	}

	var enrollment models.Enrollment
	if err := database.DB.Preload("Student").
		Preload("College").
		Preload("Branch").
		First(&enrollment, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Enrollment not found",
		})
	}

	return c.JSON(fiber.Map{
		"enrollment": enrollment,
	})
}

// CreateEnrollment enrolls a student in a college course
func (ec *EnrollmentController) CreateEnrollment(c *fiber.Ctx) error {
	var req EnrollmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if req.StudentID == 0 || req.CollegeID == 0 || req.CourseName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Student, college and course name are required",
		})
	}

	var student models.Student
	if err := database.DB.First(&student, req.StudentID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Student not found",
		})
	}
	var college models.College
	if err := database.DB.First(&college, req.CollegeID).Error; err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "College not found",
		})
	}

	enrollment := models.Enrollment{
		StudentID:  req.StudentID,
		CollegeID:  req.CollegeID,
		BranchID:   student.BranchID,
		CourseName: req.CourseName,
		CourseCode: req.CourseCode,
		IntakeDate: req.IntakeDate,
		Status:     "active",
	}
	if err := database.DB.Create(&enrollment).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create enrollment",
		})
	}

	middleware.LogActivity(c, "CREATE", "enrollments", enrollment.ID, enrollment)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Enrollment created successfully",
		"enrollment": enrollment,
	})
}

// UpdateEnrollmentStatus moves an enrollment between active/withdrawn/completed
func (ec *EnrollmentController) UpdateEnrollmentStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid enrollment ID",
		})
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	switch req.Status {
	case "active", "withdrawn", "completed":
	default:
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Status must be active, withdrawn or completed",
		})
	}

	var enrollment models.Enrollment
	if err := database.DB.First(&enrollment, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Enrollment not found",
		})
	}

	if err := database.DB.Model(&enrollment).Update("status", req.Status).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update enrollment",
		})
	}

	middleware.LogActivity(c, "UPDATE", "enrollments", enrollment.ID, fiber.Map{"status": req.Status})

	return c.JSON(fiber.Map{
		"message":    "Enrollment updated successfully",
		"enrollment": enrollment,
	})
}
