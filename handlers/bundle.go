// File: crewcal/handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Worker availability endpoints
	GetMonthHandler       gin.HandlerFunc
	GetDayHandler         gin.HandlerFunc
	GetDocumentHandler    gin.HandlerFunc
	SaveDocumentHandler   gin.HandlerFunc
	DeleteDocumentHandler gin.HandlerFunc

	// Mutation endpoints
	ToggleDateHandler     gin.HandlerFunc
	SetWeekdayRuleHandler gin.HandlerFunc
	AddSlotHandler        gin.HandlerFunc
	RemoveSlotHandler     gin.HandlerFunc
	ApplyDateRangeHandler gin.HandlerFunc

	// Account business-hours endpoints
	GetBusinessHoursHandler    gin.HandlerFunc
	SaveBusinessHoursHandler   gin.HandlerFunc
	DeleteBusinessHoursHandler gin.HandlerFunc
}
