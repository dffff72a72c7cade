package routes

import (
	"commitrack_go/controllers"
	"commitrack_go/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App) {
	// Initialize controllers
	authController := &controllers.AuthController{}
	branchController := &controllers.BranchController{}
	collegeController := &controllers.CollegeController{}
	studentController := &controllers.StudentController{}
	enrollmentController := &controllers.EnrollmentController{}
	paymentPlanController := &controllers.PaymentPlanController{}
	installmentController := &controllers.InstallmentController{}
	paymentsImportController := &controllers.PaymentsImportController{}
	sweepController := &controllers.SweepController{}
	notificationController := &controllers.NotificationController{}
	logController := &controllers.LogController{}

	// API group
	api := app.Group("/api")

	// Authentication routes (no middleware)
	auth := api.Group("/auth")
	auth.Post("/login", authController.Login)
	auth.Get("/profile", middleware.JWTMiddleware(), authController.GetProfile)

	// Protected routes (require authentication)
	protected := api.Group("/", middleware.JWTMiddleware())

	protected.Get("/profile", authController.GetProfile)
	protected.Put("/profile/password", authController.ChangePassword)
	protected.Post("/auth/logout", authController.Logout)

	// User management (owner/admin only)
	users := protected.Group("/users", middleware.RequireOwnerOrAdmin())
	users.Post("/", authController.Register)

	// Branch management
	branches := protected.Group("/branches")
	branches.Get("/", branchController.GetBranches)
	branches.Get("/:id", branchController.GetBranch)
	branches.Post("/", middleware.RequireOwnerOrAdmin(), branchController.CreateBranch)
	branches.Put("/:id", middleware.RequireOwnerOrAdmin(), branchController.UpdateBranch)
	branches.Delete("/:id", middleware.RequireRole("owner"), branchController.DeleteBranch)

	// College management
	colleges := protected.Group("/colleges")
	colleges.Get("/", collegeController.GetColleges)
	colleges.Get("/:id", collegeController.GetCollege)
	colleges.Post("/", middleware.RequireOwnerOrAdmin(), collegeController.CreateCollege)
	colleges.Put("/:id", middleware.RequireOwnerOrAdmin(), collegeController.UpdateCollege)
	colleges.Delete("/:id", middleware.RequireOwnerOrAdmin(), collegeController.DeleteCollege)

	// Student management
	students := protected.Group("/students")
	students.Get("/", studentController.GetStudents)
	students.Get("/:id", studentController.GetStudent)
	students.Post("/", middleware.RequireStaffOrAbove(), studentController.CreateStudent)
	students.Put("/:id", middleware.RequireStaffOrAbove(), studentController.UpdateStudent)
	students.Delete("/:id", middleware.RequireOwnerOrAdmin(), studentController.DeleteStudent)

	// Enrollment management
	enrollments := protected.Group("/enrollments")
	enrollments.Get("/", enrollmentController.GetEnrollments)
	enrollments.Get("/:id", enrollmentController.GetEnrollment)
	enrollments.Post("/", middleware.RequireStaffOrAbove(), enrollmentController.CreateEnrollment)
	enrollments.Put("/:id/status", middleware.RequireStaffOrAbove(), enrollmentController.UpdateEnrollmentStatus)

	// Payment plans
	plans := protected.Group("/payment-plans")
	plans.Get("/", paymentPlanController.GetPaymentPlans)
	plans.Get("/:id", paymentPlanController.GetPaymentPlan)
	plans.Post("/", middleware.RequireStaffOrAbove(), paymentPlanController.CreatePaymentPlan)
	plans.Post("/:id/activate", middleware.RequireStaffOrAbove(), paymentPlanController.ActivatePaymentPlan)
	plans.Post("/:id/cancel", middleware.RequireOwnerOrAdmin(), paymentPlanController.CancelPaymentPlan)

	// Installments and payment recording
	installments := protected.Group("/installments")
	installments.Get("/", installmentController.GetInstallments)
	installments.Get("/upcoming", installmentController.GetUpcomingInstallments)
	installments.Get("/overdue", installmentController.GetOverdueInstallments)
	installments.Get("/:id", installmentController.GetInstallment)
	installments.Post("/:id/payment", middleware.RequireStaffOrAbove(), installmentController.RecordPayment)

	// Bulk payment import
	protected.Post("/import/payments", middleware.RequireOwnerOrAdmin(), paymentsImportController.Import)

	// Status sweeps
	sweeps := protected.Group("/sweeps", middleware.RequireOwnerOrAdmin())
	sweeps.Post("/run", sweepController.RunSweep)
	sweeps.Get("/logs", sweepController.GetSweepLogs)

	// Notifications
	notifications := protected.Group("/notifications")
	notifications.Get("/", notificationController.GetNotifications)
	notifications.Put("/:id/read", notificationController.MarkAsRead)
	notifications.Put("/read-all", notificationController.MarkAllAsRead)

	// Activity logs and archives (owner/admin only)
	logs := protected.Group("/logs", middleware.RequireOwnerOrAdmin())
	logs.Get("/activity", logController.GetActivityLogs)
	logs.Get("/archives", logController.GetLogArchives)
	logs.Post("/archive", logController.ArchiveLogs)
}
