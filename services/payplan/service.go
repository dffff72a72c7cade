package payplan

import (
	"fmt"
	"strings"
	"time"

	"commitrack_go/database"
	"commitrack_go/models"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Service is the persistence-facing side of the payment plan engine. The
// three entry points the rest of the system calls are CreatePlan,
// RecordPayment and RunStatusSweep; ActivatePlan and CancelPlan cover the
// plan workflow transitions.
type Service struct {
	db *gorm.DB
}

// NewService creates a Service on the shared database handle.
func NewService() *Service {
	return &Service{db: database.DB}
}

// NewServiceWithDB creates a Service on an explicit handle.
func NewServiceWithDB(db *gorm.DB) *Service {
	return &Service{db: db}
}

// CreatePlan generates the installment schedule for an enrollment and
// persists the plan together with its installments in one transaction.
func (s *Service) CreatePlan(enrollmentID uint, in ScheduleInput, notes string) (*models.PaymentPlan, error) {
	var enrollment models.Enrollment
	if err := s.db.First(&enrollment, enrollmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, newValidationError("enrollment_id", "enrollment not found")
		}
		return nil, err
	}

	installments, err := GenerateInstallments(in)
	if err != nil {
		return nil, err
	}

	commissionable := in.Commissionable().Round(2)
	plan := models.PaymentPlan{
		EnrollmentID:          enrollmentID,
		TotalAmount:           in.TotalCourseValue.Round(2),
		CommissionRatePercent: in.CommissionRatePercent,
		MaterialsCost:         in.MaterialsCost.Round(2),
		AdminFees:             in.AdminFees.Round(2),
		OtherFees:             in.OtherFees.Round(2),
		GSTInclusive:          in.GSTInclusive,
		CommissionableValue:   commissionable,
		ExpectedCommission:    ExpectedCommission(commissionable, in.CommissionRatePercent, in.GSTInclusive),
		EarnedCommission:      decimal.Zero,
		Status:                models.PlanStatusActive,
		Notes:                 notes,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&plan).Error; err != nil {
			return err
		}
		for i := range installments {
			installments[i].PlanID = plan.ID
		}
		if err := tx.Create(&installments).Error; err != nil {
			return err
		}
		// A prepaid initial payment counts toward earned commission right away
		agg := Recalculate(&plan, installments)
		if !agg.EarnedCommission.IsZero() {
			if err := tx.Model(&plan).Update("earned_commission", agg.EarnedCommission).Error; err != nil {
				return err
			}
			plan.EarnedCommission = agg.EarnedCommission
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	plan.Installments = installments
	return &plan, nil
}

// RecordPayment applies a payment to one installment and recomputes the
// plan's earned commission and status. Installment and plan are written in a
// single transaction; the installment row is locked and guarded with an
// updated_at check-and-set so racing payments surface as a ConflictError
// instead of a lost update.
func (s *Service) RecordPayment(installmentID uint, paidDate time.Time, paidAmount decimal.Decimal, notes string) (*models.Installment, *models.PaymentPlan, error) {
	var inst models.Installment
	var plan models.PaymentPlan

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&inst, installmentID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return newValidationError("installment_id", "installment not found")
			}
			return err
		}

		seenUpdatedAt := inst.UpdatedAt
		if err := ApplyPayment(&inst, paidDate, paidAmount, notes); err != nil {
			return err
		}

		res := tx.Model(&models.Installment{}).
			Where("id = ? AND updated_at = ?", inst.ID, seenUpdatedAt).
			Updates(map[string]interface{}{
				"paid_amount":   inst.PaidAmount,
				"paid_date":     inst.PaidDate,
				"payment_notes": inst.PaymentNotes,
				"status":        inst.Status,
				"due_soon":      inst.DueSoon,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return newConflictError("installment was modified concurrently")
		}

		if err := tx.First(&plan, inst.PlanID).Error; err != nil {
			return err
		}
		var siblings []models.Installment
		if err := tx.Where("plan_id = ?", plan.ID).
			Order("installment_number").
			Find(&siblings).Error; err != nil {
			return err
		}
		for i := range siblings {
			if siblings[i].ID == inst.ID {
				siblings[i] = inst
			}
		}

		agg := Recalculate(&plan, siblings)
		if err := tx.Model(&plan).Updates(map[string]interface{}{
			"earned_commission": agg.EarnedCommission,
			"status":            agg.Status,
		}).Error; err != nil {
			return err
		}
		plan.EarnedCommission = agg.EarnedCommission
		plan.Status = agg.Status
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &inst, &plan, nil
}

// ActivatePlan promotes a plan's draft installments to pending, making them
// visible to payment collection and the status sweep.
func (s *Service) ActivatePlan(planID uint) (*models.PaymentPlan, error) {
	var plan models.PaymentPlan
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&plan, planID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return newValidationError("plan_id", "payment plan not found")
			}
			return err
		}
		if plan.Status != models.PlanStatusActive {
			return newConflictError("only active plans can be activated")
		}
		if err := tx.Model(&models.Installment{}).
			Where("plan_id = ? AND status = ?", plan.ID, models.InstallmentStatusDraft).
			Update("status", models.InstallmentStatusPending).Error; err != nil {
			return err
		}
		return tx.Where("plan_id = ?", plan.ID).
			Order("installment_number").
			Find(&plan.Installments).Error
	})
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// CancelPlan cancels a plan and its unpaid installments. Paid and partial
// installments keep their history.
func (s *Service) CancelPlan(planID uint) (*models.PaymentPlan, error) {
	var plan models.PaymentPlan
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&plan, planID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return newValidationError("plan_id", "payment plan not found")
			}
			return err
		}
		if plan.Status == models.PlanStatusCancelled {
			return newConflictError("plan is already cancelled")
		}
		if err := tx.Model(&models.Installment{}).
			Where("plan_id = ? AND status IN ?", plan.ID, []string{
				models.InstallmentStatusDraft,
				models.InstallmentStatusPending,
				models.InstallmentStatusOverdue,
			}).
			Updates(map[string]interface{}{
				"status":   models.InstallmentStatusCancelled,
				"due_soon": false,
			}).Error; err != nil {
			return err
		}
		if err := tx.Model(&plan).Update("status", models.PlanStatusCancelled).Error; err != nil {
			return err
		}
		plan.Status = models.PlanStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// RunStatusSweep walks every pending/overdue installment, transitions past-due
// ones to overdue and maintains the due_soon flag, then records the run in the
// sweep log. Row updates are independent: one failure is counted and the
// sweep continues. The run is idempotent; a second pass on the same day finds
// nothing left to change.
func (s *Service) RunStatusSweep(today time.Time, dueSoonWindowDays int) (*SweepReport, error) {
	started := time.Now()
	report := &SweepReport{}

	var candidates []models.Installment
	err := s.db.Where("status IN ?", []string{
		models.InstallmentStatusPending,
		models.InstallmentStatusOverdue,
	}).Find(&candidates).Error
	if err != nil {
		s.writeSweepLog(started, report, err)
		return report, err
	}

	report.Scanned = len(candidates)
	var newlyOverdue []models.Installment

	for _, inst := range candidates {
		decision := ClassifyInstallmentTiming(inst, today, dueSoonWindowDays)

		updates := map[string]interface{}{}
		if decision.MarkOverdue {
			updates["status"] = models.InstallmentStatusOverdue
		}
		if decision.DueSoon != inst.DueSoon {
			updates["due_soon"] = decision.DueSoon
		}
		if len(updates) == 0 {
			continue
		}

		if err := s.db.Model(&models.Installment{}).
			Where("id = ?", inst.ID).
			Updates(updates).Error; err != nil {
			report.Failed++
			report.Errors = append(report.Errors, fmt.Sprintf("installment %d: %v", inst.ID, err))
			continue
		}

		if decision.MarkOverdue {
			report.MarkedOverdue++
			newlyOverdue = append(newlyOverdue, inst)
		}
		if decision.DueSoon && !inst.DueSoon {
			report.MarkedDueSoon++
		}
		if !decision.DueSoon && inst.DueSoon {
			report.ClearedDueSoon++
		}
	}

	s.notifyOverdue(newlyOverdue)
	s.writeSweepLog(started, report, nil)
	return report, nil
}

// notifyOverdue tells admins and owners about installments that just went
// overdue. Notification failures are logged, never fatal to the sweep.
func (s *Service) notifyOverdue(installments []models.Installment) {
	if len(installments) == 0 {
		return
	}

	var admins []models.User
	if err := s.db.Where("role IN ?", []string{"admin", "owner"}).Find(&admins).Error; err != nil {
		logrus.WithError(err).Error("Failed to fetch admins for overdue notifications")
		return
	}

	for _, inst := range installments {
		for _, admin := range admins {
			notification := models.Notification{
				UserID: admin.ID,
				Title:  "Installment Overdue",
				Message: fmt.Sprintf("Installment #%d of plan %d (%s) was due on %s and is now overdue",
					inst.InstallmentNumber, inst.PlanID, inst.Amount.StringFixed(2),
					inst.StudentDueDate.Format("2006-01-02")),
				Type: "warning",
			}
			if err := s.db.Create(&notification).Error; err != nil {
				logrus.WithError(err).Errorf("Failed to create overdue notification for user %d", admin.ID)
			}
		}
	}
}

func (s *Service) writeSweepLog(started time.Time, report *SweepReport, runErr error) {
	finished := time.Now()
	entry := models.SweepLog{
		StartedAt:      started,
		FinishedAt:     finished,
		DurationMs:     finished.Sub(started).Milliseconds(),
		Scanned:        report.Scanned,
		MarkedOverdue:  report.MarkedOverdue,
		MarkedDueSoon:  report.MarkedDueSoon,
		ClearedDueSoon: report.ClearedDueSoon,
		Failed:         report.Failed,
		Status:         "completed",
	}
	// Per-row failures leave the run completed; only a crashed run is failed
	if runErr != nil {
		entry.Status = "failed"
		entry.ErrorMessage = runErr.Error()
	} else if len(report.Errors) > 0 {
		entry.ErrorMessage = strings.Join(report.Errors, "; ")
	}

	if err := s.db.Create(&entry).Error; err != nil {
		logrus.WithError(err).Error("Failed to write sweep log")
	}
}
