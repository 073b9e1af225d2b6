package handler

import (
	"time"

	"github.com/carelog/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db          *gorm.DB
	patients    *service.PatientService
	medications *service.MedicationService
	schedules   *service.ScheduleService
	adherence   *service.AdherenceService
	checkIns    *service.CheckInService
	reminders   *service.ReminderService
	reports     *service.ReportService
}

// NewAPI constructs a handler set with shared services.
// matchTolerance is the maximum pairing distance for reconciliation, 0 means unlimited.
func NewAPI(gdb *gorm.DB, matchTolerance time.Duration) *API {
	patients := service.NewPatientService(gdb)
	schedules := service.NewScheduleService(gdb)
	adherence := service.NewAdherenceService(gdb)

	return &API{
		db:          gdb,
		patients:    patients,
		medications: service.NewMedicationService(gdb),
		schedules:   schedules,
		adherence:   adherence,
		checkIns:    service.NewCheckInService(gdb),
		reminders:   service.NewReminderService(gdb),
		reports:     service.NewReportService(patients, schedules, adherence, matchTolerance),
	}
}
