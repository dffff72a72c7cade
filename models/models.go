package models

import (
	"database/sql/driver"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uint           `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSON field type for GORM
type JSON []byte

func (j JSON) Value() (driver.Value, error) {
	if j.IsNull() {
		return nil, nil
	}
	return string(j), nil
}

func (j *JSON) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}
	s, ok := value.([]byte)
	if !ok {
		return nil
	}
	*j = append((*j)[0:0], s...)
	return nil
}

func (j JSON) MarshalJSON() ([]byte, error) {
	if j == nil {
		return []byte("null"), nil
	}
	return j, nil
}

func (j *JSON) UnmarshalJSON(data []byte) error {
	if j == nil {
		return nil
	}
	*j = append((*j)[0:0], data...)
	return nil
}

func (j JSON) IsNull() bool {
	return len(j) == 0 || string(j) == "null"
}

// Payment plan statuses
const (
	PlanStatusActive    = "active"
	PlanStatusCompleted = "completed"
	PlanStatusCancelled = "cancelled"
)

// Installment statuses
const (
	InstallmentStatusDraft     = "draft"
	InstallmentStatusPending   = "pending"
	InstallmentStatusPaid      = "paid"
	InstallmentStatusPartial   = "partial"
	InstallmentStatusOverdue   = "overdue"
	InstallmentStatusCancelled = "cancelled"
)

// Payment schedule frequencies
const (
	FrequencyMonthly   = "monthly"
	FrequencyQuarterly = "quarterly"
	FrequencyCustom    = "custom"
)

// Branch model - an agency office; every user and student belongs to one
type Branch struct {
	BaseModel
	Name    string `json:"name" gorm:"size:255;not null"`
	Code    string `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Address string `json:"address" gorm:"size:500"`
	Phone   string `json:"phone" gorm:"size:20"`
	Active  bool   `json:"active" gorm:"default:true"`

	// Relationships
	Users    []User    `json:"users,omitempty" gorm:"foreignKey:BranchID"`
	Students []Student `json:"students,omitempty" gorm:"foreignKey:BranchID"`
}

// College model - the institution that pays the agency its commission
type College struct {
	BaseModel
	Name            string `json:"name" gorm:"size:255;not null"`
	Code            string `json:"code" gorm:"size:50;not null;uniqueIndex"`
	Country         string `json:"country" gorm:"size:100"`
	ContactEmail    string `json:"contact_email" gorm:"size:255"`
	DefaultLeadDays int    `json:"default_lead_days" gorm:"default:7"` // student pays this many days before the college due date
	Active          bool   `json:"active" gorm:"default:true"`
}

// User model
type User struct {
	BaseModel
	Username string `json:"username" gorm:"size:100;not null;uniqueIndex"`
	Password string `json:"-" gorm:"size:255;not null"`
	Email    string `json:"email" gorm:"size:255;uniqueIndex"`
	Phone    string `json:"phone" gorm:"size:20"`
	Role     string `json:"role" gorm:"size:50;not null;default:'staff'"` // owner, admin, staff
	BranchID uint   `json:"branch_id" gorm:"not null"`
	Status   string `json:"status" gorm:"size:50;not null;default:'active'"` // active, inactive, suspended
	Avatar   string `json:"avatar" gorm:"size:500"`

	// Relationships
	Branch Branch `json:"branch,omitempty" gorm:"foreignKey:BranchID"`
}

// Student model
type Student struct {
	BaseModel
	BranchID         uint       `json:"branch_id" gorm:"not null"`
	FirstName        string     `json:"first_name" gorm:"size:100;not null"`
	LastName         string     `json:"last_name" gorm:"size:100;not null"`
	Email            string     `json:"email" gorm:"size:255"`
	Phone            string     `json:"phone" gorm:"size:20"`
	DateOfBirth      *time.Time `json:"date_of_birth"`
	Nationality      string     `json:"nationality" gorm:"size:100"`
	PassportNo       string     `json:"passport_no" gorm:"size:50"`
	VisaStatus       string     `json:"visa_status" gorm:"size:100"`
	EmergencyContact string     `json:"emergency_contact" gorm:"size:200"`
	EmergencyPhone   string     `json:"emergency_phone" gorm:"size:20"`
	Notes            string     `json:"notes" gorm:"type:text"`

	// Relationships
	Branch      Branch       `json:"branch,omitempty" gorm:"foreignKey:BranchID"`
	Enrollments []Enrollment `json:"enrollments,omitempty" gorm:"foreignKey:StudentID"`
}

// Enrollment binds a student to a course at a college; a payment plan hangs off it
type Enrollment struct {
	BaseModel
	StudentID  uint       `json:"student_id" gorm:"not null;index"`
	CollegeID  uint       `json:"college_id" gorm:"not null;index"`
	BranchID   uint       `json:"branch_id" gorm:"not null;index"`
	CourseName string     `json:"course_name" gorm:"size:255;not null"`
	CourseCode string     `json:"course_code" gorm:"size:100"`
	IntakeDate *time.Time `json:"intake_date"`
	Status     string     `json:"status" gorm:"size:50;default:'active'"` // active, withdrawn, completed

	// Relationships
	Student Student `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	College College `json:"college,omitempty" gorm:"foreignKey:CollegeID"`
	Branch  Branch  `json:"branch,omitempty" gorm:"foreignKey:BranchID"`
}

// PaymentPlan holds the monetary terms of an enrollment and the cached
// commission aggregates maintained by the payment engine.
type PaymentPlan struct {
	BaseModel
	EnrollmentID uint `json:"enrollment_id" gorm:"not null;uniqueIndex"`

	TotalAmount           decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`
	CommissionRatePercent decimal.Decimal `json:"commission_rate_percent" gorm:"type:numeric(5,2);not null"`
	MaterialsCost         decimal.Decimal `json:"materials_cost" gorm:"type:numeric(12,2);not null;default:0"`
	AdminFees             decimal.Decimal `json:"admin_fees" gorm:"type:numeric(12,2);not null;default:0"`
	OtherFees             decimal.Decimal `json:"other_fees" gorm:"type:numeric(12,2);not null;default:0"`
	GSTInclusive          bool            `json:"gst_inclusive" gorm:"not null;default:true"`

	// Cached aggregates, written at creation and by payment recording only
	CommissionableValue decimal.Decimal `json:"commissionable_value" gorm:"type:numeric(12,2);not null"`
	ExpectedCommission  decimal.Decimal `json:"expected_commission" gorm:"type:numeric(12,2);not null"`
	EarnedCommission    decimal.Decimal `json:"earned_commission" gorm:"type:numeric(12,2);not null;default:0"`

	Status string `json:"status" gorm:"size:50;not null;default:'active'"` // active, completed, cancelled
	Notes  string `json:"notes" gorm:"type:text"`

	// Relationships
	Enrollment   Enrollment    `json:"enrollment,omitempty" gorm:"foreignKey:EnrollmentID"`
	Installments []Installment `json:"installments,omitempty" gorm:"foreignKey:PlanID"`
}

// Installment is one scheduled payment within a plan. Number 0 is the
// upfront/initial payment; 1..N are the regular installments.
type Installment struct {
	BaseModel
	PlanID            uint `json:"plan_id" gorm:"not null;index;uniqueIndex:idx_plan_installment_no,priority:1"`
	InstallmentNumber int  `json:"installment_number" gorm:"not null;uniqueIndex:idx_plan_installment_no,priority:2"`

	Amount       decimal.Decimal  `json:"amount" gorm:"type:numeric(12,2);not null"`
	PaidAmount   *decimal.Decimal `json:"paid_amount" gorm:"type:numeric(12,2)"`
	PaidDate     *time.Time       `json:"paid_date"`
	PaymentNotes string           `json:"payment_notes" gorm:"type:text"`

	StudentDueDate time.Time `json:"student_due_date" gorm:"not null;index"`
	CollegeDueDate time.Time `json:"college_due_date" gorm:"not null"`

	IsInitialPayment    bool `json:"is_initial_payment" gorm:"not null;default:false"`
	GeneratesCommission bool `json:"generates_commission" gorm:"not null;default:true"`
	DueSoon             bool `json:"due_soon" gorm:"not null;default:false"`

	Status string `json:"status" gorm:"size:50;not null;default:'draft';index"` // draft, pending, paid, partial, overdue, cancelled

	// Relationships
	Plan PaymentPlan `json:"plan,omitempty" gorm:"foreignKey:PlanID"`
}

// SweepLog records one execution of the installment status sweep
type SweepLog struct {
	BaseModel
	StartedAt      time.Time `json:"started_at" gorm:"not null"`
	FinishedAt     time.Time `json:"finished_at" gorm:"not null"`
	DurationMs     int64     `json:"duration_ms" gorm:"not null"`
	Scanned        int       `json:"scanned" gorm:"not null"`
	MarkedOverdue  int       `json:"marked_overdue" gorm:"not null"`
	MarkedDueSoon  int       `json:"marked_due_soon" gorm:"not null"`
	ClearedDueSoon int       `json:"cleared_due_soon" gorm:"not null"`
	Failed         int       `json:"failed" gorm:"not null"`
	Status         string    `json:"status" gorm:"size:50;not null"` // completed, failed
	ErrorMessage   string    `json:"error_message" gorm:"type:text"`
}

// Log model for activity tracking
type ActivityLog struct {
	BaseModel
	UserID     uint   `json:"user_id"`
	Action     string `json:"action" gorm:"size:100;not null"`
	Resource   string `json:"resource" gorm:"size:100;not null"`
	ResourceID uint   `json:"resource_id"`
	Details    JSON   `json:"details" gorm:"type:jsonb"`
	IPAddress  string `json:"ip_address" gorm:"size:45"`
	UserAgent  string `json:"user_agent" gorm:"size:500"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// Notification model
type Notification struct {
	BaseModel
	UserID  uint       `json:"user_id" gorm:"not null;index"`
	Title   string     `json:"title" gorm:"size:255;not null"`
	Message string     `json:"message" gorm:"type:text;not null"`
	Type    string     `json:"type" gorm:"size:50;not null"` // info, warning, error, success
	Read    bool       `json:"read" gorm:"default:false"`
	ReadAt  *time.Time `json:"read_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// LogArchive model for tracking archived logs
type LogArchive struct {
	BaseModel
	FileName    string    `json:"file_name" gorm:"size:255;not null"`
	S3Key       string    `json:"s3_key" gorm:"size:500;not null"`
	StartDate   time.Time `json:"start_date" gorm:"not null"`
	EndDate     time.Time `json:"end_date" gorm:"not null"`
	RecordCount int       `json:"record_count" gorm:"not null"`
	FileSize    int64     `json:"file_size" gorm:"not null"`
	Status      string    `json:"status" gorm:"size:50;not null;default:'pending'"` // pending, completed, failed
	Error       string    `json:"error" gorm:"type:text"`
}
