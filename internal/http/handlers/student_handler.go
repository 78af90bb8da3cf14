// README: Student-facing handlers: checkout, payment codes, own orders.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"canteen/internal/modules/menu"
	"canteen/internal/modules/order"
	"canteen/internal/modules/student"
	"canteen/internal/types"
)

type StudentHandler struct {
	orders   *order.Service
	students *student.Service
	menu     *menu.Service
}

func NewStudentHandler(orders *order.Service, students *student.Service, menuSvc *menu.Service) *StudentHandler {
	return &StudentHandler{orders: orders, students: students, menu: menuSvc}
}

type placeOrderReq struct {
	PID   string `json:"pid"`
	Items []struct {
		ItemID   string `json:"itemId"`
		Quantity int    `json:"qty"`
	} `json:"items"`
}

func (h *StudentHandler) PlaceOrder(c *gin.Context) {
	var req placeOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	items := make([]order.ItemRequest, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, order.ItemRequest{ItemID: it.ItemID, Quantity: it.Quantity})
	}
	o, err := h.orders.Place(c.Request.Context(), req.PID, items)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, o)
}

func (h *StudentHandler) RequestPaymentCode(c *gin.Context) {
	o, err := h.orders.RequestPaymentCode(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, o)
}

func (h *StudentHandler) CancelOrder(c *gin.Context) {
	o, err := h.orders.Cancel(c.Request.Context(), types.ID(c.Param("id")), order.ActorStudent)
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, o)
}

func (h *StudentHandler) GetOrder(c *gin.Context) {
	o, err := h.orders.Get(c.Request.Context(), types.ID(c.Param("id")))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, o)
}

func (h *StudentHandler) ListOrders(c *gin.Context) {
	orders, err := h.orders.ListByStudent(c.Request.Context(), c.Param("pid"))
	if err != nil {
		writeOrderError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, orders)
}

// Standing reports blocked state and recent cancellation counts so the client
// can surface warnings before checkout.
func (h *StudentHandler) Standing(c *gin.Context) {
	st, err := h.students.Standing(c.Request.Context(), types.NormalizePID(c.Param("pid")))
	if err != nil {
		writeStudentError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, st)
}

func (h *StudentHandler) Menu(c *gin.Context) {
	items, err := h.menu.List(c.Request.Context(), false)
	if err != nil {
		writeMenuError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, items)
}
