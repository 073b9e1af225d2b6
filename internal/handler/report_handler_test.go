package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/carelog/internal/db"
	"github.com/gin-gonic/gin"
)

func TestCreateAdherenceRecordSuccess(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	patient, medication := seedMedication(t)

	payload := map[string]any{
		"medication_id":  medication.ID,
		"patient_id":     patient.ID,
		"scheduled_time": "2024-01-02T08:00:00Z",
		"taken_time":     "2024-01-02T08:05:00Z",
		"status":         "taken",
		"notes":          "按时服药",
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/adherence", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	api.CreateAdherenceRecord(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var count int64
	db.DB.Model(&db.AdherenceRecord{}).Where("patient_id = ?", patient.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected 1 adherence record, got %d", count)
	}
}

func TestCreateAdherenceRecordInvalidStatus(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	patient, medication := seedMedication(t)

	payload := map[string]any{
		"medication_id":  medication.ID,
		"patient_id":     patient.ID,
		"scheduled_time": "2024-01-02T08:00:00Z",
		"status":         "done",
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/adherence", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	api.CreateAdherenceRecord(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestGetAdherenceReportDailyStats(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	patient, medication := seedMedication(t)

	schedule := db.MedicationSchedule{
		MedicationID:   medication.ID,
		PatientID:      patient.ID,
		TimeOfDay:      "08:00",
		RecurrenceRule: "daily",
	}
	if err := db.DB.Create(&schedule).Error; err != nil {
		t.Fatalf("failed to seed schedule: %v", err)
	}

	taken := time.Date(2024, 1, 2, 8, 5, 0, 0, time.UTC)
	record := db.AdherenceRecord{
		MedicationID:  medication.ID,
		PatientID:     patient.ID,
		ScheduledTime: time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC),
		TakenTime:     &taken,
		Status:        "taken",
	}
	if err := db.DB.Create(&record).Error; err != nil {
		t.Fatalf("failed to seed adherence record: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/patients/"+itoa(patient.ID)+"/reports/adherence?from=2024-01-01&to=2024-01-03", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "id", Value: itoa(patient.ID)}}

	api.GetAdherenceReport(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		DailyStats []struct {
			Date          string `json:"date"`
			TakenCount    int    `json:"taken_count"`
			CompletionPct int    `json:"completion_pct"`
		} `json:"daily_stats"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}

	if len(resp.DailyStats) != 3 {
		t.Fatalf("expected 3 daily stats, got %d", len(resp.DailyStats))
	}
	if resp.DailyStats[1].Date != "2024-01-02" || resp.DailyStats[1].TakenCount != 1 || resp.DailyStats[1].CompletionPct != 100 {
		t.Fatalf("unexpected stat for taken day: %+v", resp.DailyStats[1])
	}
	if resp.DailyStats[0].TakenCount != 0 {
		t.Fatalf("expected no taken doses on first day, got %+v", resp.DailyStats[0])
	}
}

func TestGetAdherenceReportInvalidRangeParam(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	patient, _ := seedMedication(t)

	req := httptest.NewRequest(http.MethodGet, "/api/patients/"+itoa(patient.ID)+"/reports/adherence?from=01/01/2024", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "id", Value: itoa(patient.ID)}}

	api.GetAdherenceReport(c)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestExportAdherenceReportReturnsHTMLAttachment(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	patient, medication := seedMedication(t)

	schedule := db.MedicationSchedule{
		MedicationID:   medication.ID,
		PatientID:      patient.ID,
		TimeOfDay:      "08:00",
		RecurrenceRule: "daily",
	}
	if err := db.DB.Create(&schedule).Error; err != nil {
		t.Fatalf("failed to seed schedule: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/patients/"+itoa(patient.ID)+"/reports/adherence/export?from=2024-01-01&to=2024-01-03", nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = gin.Params{gin.Param{Key: "id", Value: itoa(patient.ID)}}

	api.ExportAdherenceReport(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected text/html content type, got %q", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "adherence-report-") {
		t.Fatalf("expected attachment disposition, got %q", cd)
	}
	if body := w.Body.String(); !strings.Contains(body, "2024-01-02") || !strings.Contains(body, patient.Name) {
		t.Fatal("expected report body to contain range dates and patient name")
	}
}
