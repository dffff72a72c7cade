package controllers

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"commitrack_go/database"
	"commitrack_go/middleware"
	"commitrack_go/models"
	"commitrack_go/services/payplan"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// PaymentsImportController handles bulk payment recording from bank or
// bookkeeping exports. Expected columns: Plan ID, Installment Number,
// Paid Date, Paid Amount and optionally Notes.
type PaymentsImportController struct{}

// POST /api/import/payments
// Multipart form with file field: file
func (pic *PaymentsImportController) Import(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is required"})
	}

	var rows [][]string
	filename := strings.ToLower(fh.Filename)
	if strings.HasSuffix(filename, ".csv") {
		f, err := fh.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "cannot open file"})
		}
		defer f.Close()
		rows, err = readImportCSV(f)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	} else if strings.HasSuffix(filename, ".xlsx") || strings.HasSuffix(filename, ".xls") {
		tmpDir, _ := os.MkdirTemp("", "ct-payments-")
		tmp := filepath.Join(tmpDir, fmt.Sprintf("%d_%s", time.Now().UnixNano(), sanitizeFilename(fh.Filename)))
		if err := c.SaveFile(fh, tmp); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "failed to buffer upload"})
		}
		var rerr error
		rows, rerr = readImportXLSX(tmp)
		_ = os.Remove(tmp)
		_ = os.Remove(tmpDir)
		if rerr != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": rerr.Error()})
		}
	} else {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "unsupported file type (csv,xlsx)"})
	}

	if len(rows) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file is empty"})
	}

	header := rows[0]
	col := mapImportHeader(header)
	for _, required := range []string{"Plan ID", "Installment Number", "Paid Date", "Paid Amount"} {
		if _, ok := col[required]; !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "missing column: " + required,
			})
		}
	}

	svc := payplan.NewService()
	imported := 0
	failed := 0
	errorsList := []string{}

	for i := 1; i < len(rows); i++ {
		r := rows[i]
		get := func(key string) string {
			if idx, ok := col[key]; ok && idx < len(r) {
				return strings.TrimSpace(r[idx])
			}
			return ""
		}

		rowErr := func(msg string) {
			failed++
			errorsList = append(errorsList, fmt.Sprintf("row %d: %s", i+1, msg))
		}

		planID, err := strconv.ParseUint(get("Plan ID"), 10, 32)
		if err != nil {
			rowErr("invalid plan id")
			continue
		}
		instNo, err := strconv.Atoi(get("Installment Number"))
		if err != nil {
			rowErr("invalid installment number")
			continue
		}
		paidDate := parseImportDate(get("Paid Date"))
		if paidDate == nil {
			rowErr("invalid paid date")
			continue
		}
		paidAmount, err := parseImportAmount(get("Paid Amount"))
		if err != nil {
			rowErr("invalid paid amount")
			continue
		}

		var installment models.Installment
		if err := database.DB.
			Where("plan_id = ? AND installment_number = ?", uint(planID), instNo).
			First(&installment).Error; err != nil {
			rowErr("installment not found")
			continue
		}

		if _, _, err := svc.RecordPayment(installment.ID, *paidDate, paidAmount, get("Notes")); err != nil {
			rowErr(err.Error())
			continue
		}
		imported++
	}

	middleware.LogActivity(c, "CREATE", "payments-import", 0, fiber.Map{
		"filename": fh.Filename,
		"imported": imported,
		"failed":   failed,
	})

	return c.JSON(fiber.Map{
		"message":  "Import finished",
		"imported": imported,
		"failed":   failed,
		"errors":   errorsList,
	})
}

func readImportCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func readImportXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sht := f.GetSheetName(0)
	if sht == "" {
		sht = "Sheet1"
	}
	return f.GetRows(sht)
}

func mapImportHeader(header []string) map[string]int {
	m := map[string]int{}
	for i, h := range header {
		m[strings.TrimSpace(h)] = i
	}
	return m
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}

func parseImportDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	layouts := []string{"2006-01-02", "2/1/2006", "02/01/2006", "1/2/2006", time.RFC3339}
	for _, l := range layouts {
		if t, err := time.Parse(l, s); err == nil {
			return &t
		}
	}
	return nil
}

func parseImportAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	s = strings.TrimPrefix(s, "$")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	return decimal.NewFromString(s)
}
