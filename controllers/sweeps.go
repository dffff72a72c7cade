package controllers

import (
	"strconv"
	"time"

	"commitrack_go/config"
	"commitrack_go/database"
	"commitrack_go/middleware"
	"commitrack_go/models"
	"commitrack_go/services/payplan"

	"github.com/gofiber/fiber/v2"
)

type SweepController struct{}

// RunSweep triggers an immediate status sweep and returns its report
func (sc *SweepController) RunSweep(c *fiber.Ctx) error {
	windowDays := config.AppConfig.DueSoonWindowDays
	if v := c.Query("window_days"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			windowDays = parsed
		}
	}

	today := payplan.DateOnly(time.Now())
	if v := c.Query("as_of"); v != "" {
		parsed, err := parsePlanDate(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid as_of format, expected YYYY-MM-DD",
			})
		}
		today = payplan.DateOnly(parsed)
	}

	report, err := payplan.NewService().RunStatusSweep(today, windowDays)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Sweep failed: " + err.Error(),
		})
	}

	middleware.LogActivity(c, "CREATE", "sweeps", 0, fiber.Map{
		"scanned":        report.Scanned,
		"marked_overdue": report.MarkedOverdue,
		"failed":         report.Failed,
	})

	return c.JSON(fiber.Map{
		"message": "Sweep completed",
		"report":  report,
	})
}

// GetSweepLogs returns recent sweep executions, newest first
func (sc *SweepController) GetSweepLogs(c *fiber.Ctx) error {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	var logs []models.SweepLog
	if err := database.DB.Order("started_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch sweep logs",
		})
	}

	return c.JSON(fiber.Map{
		"sweep_logs": logs,
		"total":      len(logs),
	})
}
