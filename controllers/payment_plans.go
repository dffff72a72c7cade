package controllers

import (
	"strconv"
	"time"

	"commitrack_go/config"
	"commitrack_go/database"
	"commitrack_go/middleware"
	"commitrack_go/models"
	"commitrack_go/services/payplan"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type PaymentPlanController struct{}

var validate = validator.New()

// PaymentPlanRequest is the plan creation wizard payload
type PaymentPlanRequest struct {
	EnrollmentID          uint            `json:"enrollment_id" validate:"required"`
	TotalCourseValue      decimal.Decimal `json:"total_course_value" validate:"required"`
	CommissionRatePercent decimal.Decimal `json:"commission_rate_percent"`
	MaterialsCost         decimal.Decimal `json:"materials_cost"`
	AdminFees             decimal.Decimal `json:"admin_fees"`
	OtherFees             decimal.Decimal `json:"other_fees"`
	GSTInclusive          *bool           `json:"gst_inclusive"`

	InitialPaymentAmount  decimal.Decimal `json:"initial_payment_amount"`
	InitialPaymentDueDate string          `json:"initial_payment_due_date"`
	InitialPaymentPaid    bool            `json:"initial_payment_paid"`

	NumberOfInstallments int      `json:"number_of_installments" validate:"required,min=1,max=24"`
	PaymentFrequency     string   `json:"payment_frequency" validate:"required,oneof=monthly quarterly custom"`
	CustomDueDates       []string `json:"custom_due_dates"`
	FirstCollegeDueDate  string   `json:"first_college_due_date"`
	StudentLeadTimeDays  *int     `json:"student_lead_time_days"`

	Notes string `json:"notes"`
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

func parsePlanDate(s string) (time.Time, error) {
	var t time.Time
	var err error
	for _, layout := range dateLayouts {
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

// toScheduleInput converts the request into engine input, resolving defaults.
func (req *PaymentPlanRequest) toScheduleInput(defaultLeadDays int) (payplan.ScheduleInput, error) {
	in := payplan.ScheduleInput{
		TotalCourseValue:      req.TotalCourseValue,
		CommissionRatePercent: req.CommissionRatePercent,
		MaterialsCost:         req.MaterialsCost,
		AdminFees:             req.AdminFees,
		OtherFees:             req.OtherFees,
		GSTInclusive:          true,
		InitialPaymentAmount:  req.InitialPaymentAmount,
		InitialPaymentPaid:    req.InitialPaymentPaid,
		NumberOfInstallments:  req.NumberOfInstallments,
		PaymentFrequency:      req.PaymentFrequency,
		StudentLeadTimeDays:   defaultLeadDays,
	}
	if req.GSTInclusive != nil {
		in.GSTInclusive = *req.GSTInclusive
	}
	if req.StudentLeadTimeDays != nil {
		in.StudentLeadTimeDays = *req.StudentLeadTimeDays
	}
	if req.InitialPaymentDueDate != "" {
		due, err := parsePlanDate(req.InitialPaymentDueDate)
		if err != nil {
			return in, err
		}
		in.InitialPaymentDueDate = &due
	}
	if req.FirstCollegeDueDate != "" {
		first, err := parsePlanDate(req.FirstCollegeDueDate)
		if err != nil {
			return in, err
		}
		in.FirstCollegeDueDate = first
	}
	for _, s := range req.CustomDueDates {
		d, err := parsePlanDate(s)
		if err != nil {
			return in, err
		}
		in.CustomDueDates = append(in.CustomDueDates, d)
	}
	return in, nil
}

// engineError maps engine error kinds onto HTTP responses
func engineError(c *fiber.Ctx, err error) error {
	switch {
	case payplan.IsValidation(err):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case payplan.IsConflict(err):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

// CreatePaymentPlan generates and persists a plan with its installments
func (pc *PaymentPlanController) CreatePaymentPlan(c *fiber.Ctx) error {
	var req PaymentPlanRequest
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

	// The enrollment's college supplies the default lead time
	leadDays := config.AppConfig.LeadTimeDays
	var enrollment models.Enrollment
	if err := database.DB.Preload("College").First(&enrollment, req.EnrollmentID).Error; err == nil {
		if enrollment.College.DefaultLeadDays > 0 {
			leadDays = enrollment.College.DefaultLeadDays
		}
	}

	in, err := req.toScheduleInput(leadDays)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid date format, expected YYYY-MM-DD",
		})
	}

	var existing models.PaymentPlan
	if err := database.DB.Where("enrollment_id = ?", req.EnrollmentID).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Enrollment already has a payment plan",
		})
	}

	plan, err := payplan.NewService().CreatePlan(req.EnrollmentID, in, req.Notes)
	if err != nil {
		return engineError(c, err)
	}

	middleware.LogActivity(c, "CREATE", "payment-plans", plan.ID, fiber.Map{
		"enrollment_id":       plan.EnrollmentID,
		"total_amount":        plan.TotalAmount,
		"expected_commission": plan.ExpectedCommission,
	})

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Payment plan created successfully",
		"plan":    plan,
	})
}

// GetPaymentPlans lists plans with their enrollment context
func (pc *PaymentPlanController) GetPaymentPlans(c *fiber.Ctx) error {
	var plans []models.PaymentPlan

	query := database.DB.Model(&models.PaymentPlan{}).
		Preload("Enrollment").
		Preload("Enrollment.Student").
		Preload("Enrollment.College")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if branchID := c.Query("branch_id"); branchID != "" {
		query = query.Joins("JOIN enrollments ON enrollments.id = payment_plans.enrollment_id").
			Where("enrollments.branch_id = ?", branchID)
	}

	if err := query.Order("payment_plans.created_at DESC").Find(&plans).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch payment plans",
		})
	}

	return c.JSON(fiber.Map{
		"plans": plans,
		"total": len(plans),
	})
}

// GetPaymentPlan returns one plan with its ordered installments
func (pc *PaymentPlanController) GetPaymentPlan(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid plan ID",
		})
	}

	var plan models.PaymentPlan
	if err := database.DB.
		Preload("Enrollment").
		Preload("Enrollment.Student").
		Preload("Enrollment.College").
		First(&plan, uint(id)).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Payment plan not found",
		})
	}
	if err := database.DB.Where("plan_id = ?", plan.ID).
		Order("installment_number").
		Find(&plan.Installments).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch installments",
		})
	}

	totalPaid := payplan.TotalPaid(plan.Installments)

	return c.JSON(fiber.Map{
		"plan":       plan,
		"total_paid": totalPaid,
	})
}

// ActivatePaymentPlan promotes the plan's draft installments to pending
func (pc *PaymentPlanController) ActivatePaymentPlan(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid plan ID",
		})
	}

	plan, err := payplan.NewService().ActivatePlan(uint(id))
	if err != nil {
		return engineError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "payment-plans", plan.ID, fiber.Map{"action": "activate"})

	return c.JSON(fiber.Map{
		"message": "Payment plan activated",
		"plan":    plan,
	})
}

// CancelPaymentPlan cancels the plan and its unpaid installments
func (pc *PaymentPlanController) CancelPaymentPlan(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid plan ID",
		})
	}

	plan, err := payplan.NewService().CancelPlan(uint(id))
	if err != nil {
		return engineError(c, err)
	}

	middleware.LogActivity(c, "UPDATE", "payment-plans", plan.ID, fiber.Map{"action": "cancel"})

	return c.JSON(fiber.Map{
		"message": "Payment plan cancelled",
		"plan":    plan,
	})
}
