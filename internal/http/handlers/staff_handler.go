// README: Staff handlers: verification, fulfilment, student and menu admin.
package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"canteen/internal/modules/backup"
	"canteen/internal/modules/menu"
	"canteen/internal/modules/order"
	"canteen/internal/modules/settings"
	"canteen/internal/modules/student"
	"canteen/internal/types"
)

type StaffHandler struct {
	orders   *order.Service
	students *student.Service
	menu     *menu.Service
	settings *settings.Service
	backup   *backup.Service

	// token is echoed back on a successful login so the client can present
	// it on subsequent staff requests.
	token string
}

func NewStaffHandler(
	orders *order.Service,
	students *student.Service,
	menuSvc *menu.Service,
	settingsSvc *settings.Service,
	backupSvc *backup.Service,
	token string,
) *StaffHandler {
	return &StaffHandler{
		orders:   orders,
		students: students,
		menu:     menuSvc,
		settings: settingsSvc,
		backup:   backupSvc,
		token:    token,
	}
}

type loginReq struct {
	Password string `json:"password"`
}

func (h *StaffHandler) Login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	ok, err := h.settings.CheckPassword(c.Request.Context(), req.Password)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		writeError(c, http.StatusUnauthorized, "wrong password")
		return
	}
	writeJSON(c, http.StatusOK, map[string]string{"token": h.token})
}

func (h *StaffHandler) ListOrders(c *gin.Context) {
	orders, err := h.orders.List(c.Request.Context())
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, orders)
}

type verifyReq struct {
	Code string `json:"code"`
}

func (h *StaffHandler) VerifyPaymentCode(c *gin.Context) {
	var req verifyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	o, err := h.orders.VerifyPaymentCode(c.Request.Context(), req.Code)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, o)
}

func (h *StaffHandler) FulfillOrder(c *gin.Context) {
	o, err := h.orders.Fulfill(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, o)
}

func (h *StaffHandler) CancelOrder(c *gin.Context) {
	o, err := h.orders.Cancel(c.Request.Context(), types.ID(c.Param("id")), order.ActorStaff)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, o)
}

func (h *StaffHandler) DeleteOrder(c *gin.Context) {
	if err := h.orders.Delete(c.Request.Context(), types.ID(c.Param("id"))); err != nil {
		writeOrderError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StaffHandler) ListStudents(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		writeStudentError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, students)
}

func (h *StaffHandler) GetStudent(c *gin.Context) {
	st, err := h.students.Get(c.Request.Context(), types.NormalizePID(c.Param("pid")))
	if err != nil {
		writeStudentError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, st)
}

type blockReq struct {
	Reason string `json:"reason"`
}

func (h *StaffHandler) BlockStudent(c *gin.Context) {
	var req blockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	st, err := h.students.SetBlocked(c.Request.Context(), types.NormalizePID(c.Param("pid")), true, req.Reason)
	if err != nil {
		writeStudentError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, st)
}

func (h *StaffHandler) UnblockStudent(c *gin.Context) {
	st, err := h.students.SetBlocked(c.Request.Context(), types.NormalizePID(c.Param("pid")), false, "")
	if err != nil {
		writeStudentError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, st)
}

func (h *StaffHandler) GetThreshold(c *gin.Context) {
	n, err := h.settings.CancelThreshold(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, map[string]int{"cancelThreshold24h": n})
}

type thresholdReq struct {
	Threshold string `json:"cancelThreshold24h"`
}

func (h *StaffHandler) SetThreshold(c *gin.Context) {
	var req thresholdReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	n, err := h.settings.SetCancelThresholdRaw(c.Request.Context(), req.Threshold)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(c, http.StatusOK, map[string]int{"cancelThreshold24h": n})
}

type passwordReq struct {
	Password string `json:"password"`
}

func (h *StaffHandler) SetPassword(c *gin.Context) {
	var req passwordReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" {
		writeError(c, http.StatusBadRequest, "password required")
		return
	}
	if err := h.settings.SetPassword(c.Request.Context(), req.Password); err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StaffHandler) ListMenu(c *gin.Context) {
	items, err := h.menu.List(c.Request.Context(), true)
	if err != nil {
		writeMenuError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, items)
}

func (h *StaffHandler) UpsertMenuItem(c *gin.Context) {
	var item menu.Item
	if err := c.ShouldBindJSON(&item); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	saved, err := h.menu.Upsert(c.Request.Context(), item)
	if err != nil {
		writeMenuError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, saved)
}

type availabilityReq struct {
	Available bool `json:"available"`
}

func (h *StaffHandler) SetMenuAvailability(c *gin.Context) {
	var req availabilityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	item, err := h.menu.SetAvailability(c.Request.Context(), c.Param("id"), req.Available)
	if err != nil {
		writeMenuError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, item)
}

func (h *StaffHandler) DeleteMenuItem(c *gin.Context) {
	if err := h.menu.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeMenuError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StaffHandler) ExportBackup(c *gin.Context) {
	raw, err := h.backup.Export(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}

func (h *StaffHandler) ImportBackup(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		writeError(c, http.StatusBadRequest, "invalid body")
		return
	}
	if err := h.backup.Import(c.Request.Context(), raw); err != nil {
		if errors.Is(err, backup.ErrInvalidDump) {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *StaffHandler) ResetData(c *gin.Context) {
	if err := h.backup.Reset(c.Request.Context()); err != nil {
		writeError(c, http.StatusInternalServerError, "internal error")
		return
	}
	c.Status(http.StatusNoContent)
}
