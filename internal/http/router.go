// README: HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"canteen/internal/http/handlers"
	"canteen/internal/http/middleware"
	"canteen/internal/modules/backup"
	"canteen/internal/modules/menu"
	"canteen/internal/modules/order"
	"canteen/internal/modules/settings"
	"canteen/internal/modules/student"
)

type RouterDeps struct {
	Orders   *order.Service
	Students *student.Service
	Menu     *menu.Service
	Settings *settings.Service
	Backup   *backup.Service

	StaffToken string
	Logger     *zap.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.Logging(deps.Logger))

	studentHandler := handlers.NewStudentHandler(deps.Orders, deps.Students, deps.Menu)
	r.GET("/api/menu", studentHandler.Menu)
	r.POST("/api/orders", studentHandler.PlaceOrder)
	r.GET("/api/orders/:id", studentHandler.GetOrder)
	r.POST("/api/orders/:id/payment-code", studentHandler.RequestPaymentCode)
	r.POST("/api/orders/:id/cancel", studentHandler.CancelOrder)
	r.GET("/api/students/:pid/orders", studentHandler.ListOrders)
	r.GET("/api/students/:pid/standing", studentHandler.Standing)

	staffHandler := handlers.NewStaffHandler(
		deps.Orders, deps.Students, deps.Menu, deps.Settings, deps.Backup, deps.StaffToken)
	r.POST("/api/staff/login", staffHandler.Login)

	staff := r.Group("/api/staff", middleware.StaffAuth(deps.StaffToken))
	staff.GET("/orders", staffHandler.ListOrders)
	staff.POST("/verify-code", staffHandler.VerifyPaymentCode)
	staff.POST("/orders/:id/fulfill", staffHandler.FulfillOrder)
	staff.POST("/orders/:id/cancel", staffHandler.CancelOrder)
	staff.DELETE("/orders/:id", staffHandler.DeleteOrder)
	staff.GET("/students", staffHandler.ListStudents)
	staff.GET("/students/:pid", staffHandler.GetStudent)
	staff.POST("/students/:pid/block", staffHandler.BlockStudent)
	staff.POST("/students/:pid/unblock", staffHandler.UnblockStudent)
	staff.GET("/settings/threshold", staffHandler.GetThreshold)
	staff.PUT("/settings/threshold", staffHandler.SetThreshold)
	staff.PUT("/settings/password", staffHandler.SetPassword)
	staff.GET("/menu", staffHandler.ListMenu)
	staff.POST("/menu", staffHandler.UpsertMenuItem)
	staff.PUT("/menu/:id/availability", staffHandler.SetMenuAvailability)
	staff.DELETE("/menu/:id", staffHandler.DeleteMenuItem)
	staff.GET("/backup", staffHandler.ExportBackup)
	staff.POST("/backup", staffHandler.ImportBackup)
	staff.POST("/backup/reset", staffHandler.ResetData)

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	return r
}
