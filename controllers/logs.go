package controllers

import (
	"strconv"

	"commitrack_go/database"
	"commitrack_go/models"
	"commitrack_go/services"

	"github.com/gofiber/fiber/v2"
)

type LogController struct{}

// GetActivityLogs returns recent activity logs, filterable by user or resource
func (lc *LogController) GetActivityLogs(c *fiber.Ctx) error {
	limit := 100
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 1000 {
			limit = parsed
		}
	}

	query := database.DB.Model(&models.ActivityLog{}).Preload("User")
	if userID := c.Query("user_id"); userID != "" {
		query = query.Where("user_id = ?", userID)
	}
	if resource := c.Query("resource"); resource != "" {
		query = query.Where("resource = ?", resource)
	}

	var logs []models.ActivityLog
	if err := query.Order("created_at DESC").Limit(limit).Find(&logs).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch activity logs",
		})
	}

	return c.JSON(fiber.Map{
		"logs":  logs,
		"total": len(logs),
	})
}

// GetLogArchives lists archives that have been shipped to S3
func (lc *LogController) GetLogArchives(c *fiber.Ctx) error {
	archives, err := services.NewLogArchiveService().GetArchives()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch log archives",
		})
	}

	return c.JSON(fiber.Map{
		"archives": archives,
		"total":    len(archives),
	})
}

// ArchiveLogs archives activity and sweep logs older than the given age
func (lc *LogController) ArchiveLogs(c *fiber.Ctx) error {
	daysOld := 30
	if v := c.Query("days_old"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			daysOld = parsed
		}
	}

	if err := services.NewLogArchiveService().ArchiveOldLogs(daysOld); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Archive failed: " + err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Logs archived successfully",
	})
}
