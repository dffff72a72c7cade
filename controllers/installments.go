package controllers

import (
	"strconv"

	"commitrack_go/config"
	"commitrack_go/database"
	"commitrack_go/middleware"
	"commitrack_go/models"
	"commitrack_go/services/payplan"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type InstallmentController struct{}

// RecordPaymentRequest is the payment recording payload
type RecordPaymentRequest struct {
	PaidDate   string          `json:"paid_date" validate:"required"`
	PaidAmount decimal.Decimal `json:"paid_amount" validate:"required"`
	Notes      string          `json:"notes"`
}

// GetInstallments lists installments filtered by plan, status or due window
func (ic *InstallmentController) GetInstallments(c *fiber.Ctx) error {
	var installments []models.Installment

	query := database.DB.Model(&models.Installment{})
	if planID := c.Query("plan_id"); planID != "" {
		query = query.Where("plan_id = ?", planID)
	}
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if c.Query("due_soon") == "true" {
		query = query.Where("due_soon = ?", true)
	}

	if err := query.Order("student_due_date, plan_id, installment_number").Find(&installments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch installments",
		})
	}

	return c.JSON(fiber.Map{
		"installments": installments,
		"total":        len(installments),
	})
}

// GetInstallment returns one installment with its plan
func (ic *InstallmentController) GetInstallment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid installment ID",
		})
	}

	var installment models.Installment
	if err := database.DB.Preload("Plan").First(&installment, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Installment not found",
		})
	}

	return c.JSON(fiber.Map{
		"installment": installment,
	})
}

// RecordPayment records (or corrects) the payment on an installment and
// recalculates the owning plan's aggregates in the same transaction.
func (ic *InstallmentController) RecordPayment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid installment ID",
		})
	}

	var req RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if err := validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	paidDate, err := parsePlanDate(req.PaidDate)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid paid_date format, expected YYYY-MM-DD",
		})
	}

	installment, plan, err := payplan.NewService().RecordPayment(uint(id), paidDate, req.PaidAmount, req.Notes)
	if err != nil {
		return engineError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "installments", installment.ID, fiber.Map{
		"action":      "record-payment",
		"paid_amount": req.PaidAmount,
		"paid_date":   req.PaidDate,
		"status":      installment.Status,
	})

	return c.JSON(fiber.Map{
		"message":     "Payment recorded successfully",
		"installment": installment,
		"plan":        plan,
	})
}

// GetUpcomingInstallments returns pending installments inside the due-soon window
func (ic *InstallmentController) GetUpcomingInstallments(c *fiber.Ctx) error {
	windowDays := config.AppConfig.DueSoonWindowDays
	if v := c.Query("window_days"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			windowDays = parsed
		}
	}

	var installments []models.Installment
	if err := database.DB.
		Where("status = ? AND student_due_date <= CURRENT_DATE + ?::int", models.InstallmentStatusPending, windowDays).
		Order("student_due_date").
		Preload("Plan").
		Preload("Plan.Enrollment").
		Preload("Plan.Enrollment.Student").
		Find(&installments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch upcoming installments",
		})
	}

	return c.JSON(fiber.Map{
		"installments": installments,
		"window_days":  windowDays,
		"total":        len(installments),
	})
}

// GetOverdueInstallments returns installments currently marked overdue
func (ic *InstallmentController) GetOverdueInstallments(c *fiber.Ctx) error {
	var installments []models.Installment
	if err := database.DB.
		Where("status = ?", models.InstallmentStatusOverdue).
		Order("student_due_date").
		Preload("Plan").
		Preload("Plan.Enrollment").
		Preload("Plan.Enrollment.Student").
		Find(&installments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch overdue installments",
		})
	}

	return c.JSON(fiber.Map{
		"installments": installments,
		"total":        len(installments),
	})
}
