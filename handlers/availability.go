package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"crewcal/models"
	availabilitySvc "crewcal/services/availability"
	"crewcal/utils"
)

// AvailabilityHandler exposes the resolution engine to the UI layer. The
// handlers stay thin: parameter plumbing and status mapping only, never
// precedence logic.
type AvailabilityHandler struct {
	Service availabilitySvc.AvailabilityService
}

// NewAvailabilityHandler constructs the handler set.
func NewAvailabilityHandler(svc availabilitySvc.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc}
}

// slotPayload mirrors models.TimeSlot but keeps the editor ID bindable; the
// model deliberately never serializes IDs.
type slotPayload struct {
	ID    string `json:"id"`
	Start string `json:"start"`
	End   string `json:"end"`
}

func (p slotPayload) toModel() models.TimeSlot {
	return models.TimeSlot{ID: p.ID, Start: p.Start, End: p.End}
}

func (h *AvailabilityHandler) GetMonthHandler(c *gin.Context) {
	subjectID := c.Param("subjectID")
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid year", c.Param("year"))
		return
	}
	monthIndex, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid month index", c.Param("month"))
		return
	}

	view, err := h.Service.ResolveMonth(c.Request.Context(), subjectID, year, monthIndex, c.Query("account"))
	if err != nil {
		respondServiceError(c, "Failed to resolve month", err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *AvailabilityHandler) GetDayHandler(c *gin.Context) {
	subjectID := c.Param("subjectID")
	date := c.Param("date")

	resolved, err := h.Service.ResolveDay(c.Request.Context(), subjectID, date, c.Query("account"))
	if err != nil {
		respondServiceError(c, "Failed to resolve day", err)
		return
	}
	c.JSON(http.StatusOK, resolved)
}

func (h *AvailabilityHandler) GetDocumentHandler(c *gin.Context) {
	doc, err := h.Service.GetWorkerDocument(c.Request.Context(), c.Param("subjectID"))
	if err != nil {
		respondServiceError(c, "Failed to fetch availability", err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// SaveDocumentHandler replaces a worker's whole document. The body goes
// through the normalizer rather than strict binding, so the endpoint accepts
// the same legacy shapes the store does. A body that is not a JSON object is
// rejected up front: degrading it would replace the stored schedule with an
// empty one.
func (h *AvailabilityHandler) SaveDocumentHandler(c *gin.Context) {
	logger := utils.GetLogger()

	raw, err := c.GetRawData()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Unreadable request body", err.Error())
		return
	}
	if !validDocumentBody(raw) {
		utils.JSONError(c, http.StatusBadRequest, "Malformed availability payload", "request body must be a JSON object")
		return
	}
	doc := availabilitySvc.NormalizeWorker(raw)

	subjectID := c.Param("subjectID")
	if err := h.Service.SaveWorkerDocument(c.Request.Context(), subjectID, doc); err != nil {
		logger.Error("Failed to save availability", zap.String("subjectID", subjectID), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Failed to save availability", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Availability saved", "availability": doc})
}

// DeleteDocumentHandler drops a worker's stored schedule entirely; the
// subject falls back to business hours or the default week.
func (h *AvailabilityHandler) DeleteDocumentHandler(c *gin.Context) {
	subjectID := c.Param("subjectID")
	if err := h.Service.DeleteWorkerDocument(c.Request.Context(), subjectID); err != nil {
		respondServiceError(c, "Failed to delete availability", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Availability deleted"})
}

func (h *AvailabilityHandler) ToggleDateHandler(c *gin.Context) {
	var body struct {
		Date    string `json:"date" binding:"required"`
		Account string `json:"account"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Missing or invalid date in request body", err.Error())
		return
	}

	doc, err := h.Service.ToggleDate(c.Request.Context(), c.Param("subjectID"), body.Date, body.Account)
	if err != nil {
		respondServiceError(c, "Failed to toggle date", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": doc})
}

func (h *AvailabilityHandler) SetWeekdayRuleHandler(c *gin.Context) {
	var body struct {
		Available bool          `json:"available"`
		TimeSlots []slotPayload `json:"timeSlots"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid weekday rule payload", err.Error())
		return
	}
	rule := models.WeekdayRule{Available: body.Available}
	for _, p := range body.TimeSlots {
		rule.TimeSlots = append(rule.TimeSlots, p.toModel())
	}

	doc, err := h.Service.SetWeekdayRule(c.Request.Context(), c.Param("subjectID"), c.Param("weekday"), rule)
	if err != nil {
		respondServiceError(c, "Failed to set weekday rule", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": doc})
}

type slotTargetRequest struct {
	Weekday string      `json:"weekday"`
	Date    string      `json:"date"`
	Slot    slotPayload `json:"slot"`
}

func (h *AvailabilityHandler) AddSlotHandler(c *gin.Context) {
	var body slotTargetRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid slot payload", err.Error())
		return
	}

	target := availabilitySvc.SlotTarget{Weekday: body.Weekday, Date: body.Date}
	doc, err := h.Service.AddTimeSlot(c.Request.Context(), c.Param("subjectID"), target, body.Slot.toModel())
	if err != nil {
		respondServiceError(c, "Failed to add time slot", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": doc})
}

func (h *AvailabilityHandler) RemoveSlotHandler(c *gin.Context) {
	var body slotTargetRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid slot payload", err.Error())
		return
	}

	target := availabilitySvc.SlotTarget{Weekday: body.Weekday, Date: body.Date}
	doc, err := h.Service.RemoveTimeSlot(c.Request.Context(), c.Param("subjectID"), target, body.Slot.toModel())
	if err != nil {
		respondServiceError(c, "Failed to remove time slot", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": doc})
}

func (h *AvailabilityHandler) ApplyDateRangeHandler(c *gin.Context) {
	var body struct {
		StartDate string        `json:"startDate" binding:"required"`
		EndDate   string        `json:"endDate" binding:"required"`
		Available bool          `json:"available"`
		Hours     []slotPayload `json:"hours"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid date range payload", err.Error())
		return
	}

	state := availabilitySvc.DayState{Available: body.Available}
	for _, p := range body.Hours {
		state.Hours = append(state.Hours, p.toModel())
	}

	doc, err := h.Service.ApplyDateRange(c.Request.Context(), c.Param("subjectID"), body.StartDate, body.EndDate, state)
	if err != nil {
		respondServiceError(c, "Failed to apply date range", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"availability": doc})
}

func (h *AvailabilityHandler) GetBusinessHoursHandler(c *gin.Context) {
	doc, err := h.Service.GetAccountDocument(c.Request.Context(), c.Param("accountID"))
	if err != nil {
		respondServiceError(c, "Failed to fetch business hours", err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (h *AvailabilityHandler) SaveBusinessHoursHandler(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Unreadable request body", err.Error())
		return
	}
	if !validDocumentBody(raw) {
		utils.JSONError(c, http.StatusBadRequest, "Malformed business hours payload", "request body must be a JSON object")
		return
	}
	doc := availabilitySvc.NormalizeAccount(raw)

	accountID := c.Param("accountID")
	if err := h.Service.SaveAccountDocument(c.Request.Context(), accountID, doc); err != nil {
		respondServiceError(c, "Failed to save business hours", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Business hours saved", "businessHours": doc})
}

func (h *AvailabilityHandler) DeleteBusinessHoursHandler(c *gin.Context) {
	accountID := c.Param("accountID")
	if err := h.Service.DeleteAccountDocument(c.Request.Context(), accountID); err != nil {
		respondServiceError(c, "Failed to delete business hours", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Business hours deleted"})
}

// validDocumentBody reports whether a raw replace-document body is a JSON
// object. The normalizer degrades anything else to an empty document, which
// is the wrong outcome for a write: a broken client must get a 400, not a
// blanked schedule.
func validDocumentBody(raw []byte) bool {
	var body map[string]json.RawMessage
	if err := json.Unmarshal(raw, &body); err != nil {
		return false
	}
	// JSON null unmarshals without error but leaves the map nil.
	return body != nil
}

// respondServiceError maps boundary validation errors to 400 and everything
// else to 500.
func respondServiceError(c *gin.Context, message string, err error) {
	switch {
	case errors.Is(err, availabilitySvc.ErrInvalidDate),
		errors.Is(err, availabilitySvc.ErrInvalidRange),
		errors.Is(err, availabilitySvc.ErrUnknownWeekday),
		errors.Is(err, availabilitySvc.ErrBadSlotTarget):
		utils.JSONError(c, http.StatusBadRequest, message, err.Error())
	default:
		utils.GetLogger().Error(message, zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, message, err.Error())
	}
}
