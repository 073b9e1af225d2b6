package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/carelog/internal/db"
	"github.com/carelog/internal/service"
	"github.com/gin-gonic/gin"
)

type adherencePayload struct {
	MedicationID  uint   `json:"medication_id"`
	PatientID     uint   `json:"patient_id"`
	ScheduledTime string `json:"scheduled_time"` // RFC3339
	TakenTime     string `json:"taken_time"`     // RFC3339，可选
	Status        string `json:"status"`
	Notes         string `json:"notes"`
}

// ListAdherenceRecords 返回打卡记录列表，支持 patient_id 筛选
func (a *API) ListAdherenceRecords(c *gin.Context) {
	records, err := a.adherence.ListByPatient(parseUintQuery(c, "patient_id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取打卡记录失败")
		return
	}

	items := make([]gin.H, 0, len(records))
	for _, record := range records {
		items = append(items, adherenceToPayload(record))
	}

	c.JSON(http.StatusOK, gin.H{"records": items})
}

// CreateAdherenceRecord 写入一条打卡记录，记录一经创建不可修改
func (a *API) CreateAdherenceRecord(c *gin.Context) {
	var payload adherencePayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	scheduledTime, err := time.Parse(time.RFC3339, payload.ScheduledTime)
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的预定时刻")
		return
	}

	var takenTimePtr *time.Time
	if payload.TakenTime != "" {
		takenTime, err := time.Parse(time.RFC3339, payload.TakenTime)
		if err != nil {
			respondError(c, http.StatusBadRequest, "无效的实际服药时刻")
			return
		}
		takenTimePtr = &takenTime
	}

	record, err := a.adherence.Create(service.AdherenceInput{
		MedicationID:  payload.MedicationID,
		UserID:        currentUserID(c),
		PatientID:     payload.PatientID,
		ScheduledTime: scheduledTime,
		TakenTime:     takenTimePtr,
		Status:        payload.Status,
		Notes:         payload.Notes,
	})
	if err != nil {
		handleAdherenceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"record": adherenceToPayload(*record)})
}

func adherenceToPayload(record db.AdherenceRecord) gin.H {
	item := gin.H{
		"id":             record.ID,
		"medication_id":  record.MedicationID,
		"patient_id":     record.PatientID,
		"user_id":        record.UserID,
		"scheduled_time": record.ScheduledTime.Format(time.RFC3339),
		"status":         record.Status,
		"notes":          record.Notes,
	}
	if record.TakenTime != nil {
		item["taken_time"] = record.TakenTime.Format(time.RFC3339)
	}
	return item
}

func handleAdherenceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAdherenceInvalidStatus):
		respondError(c, http.StatusBadRequest, "打卡状态只能是 taken 或 skipped")
	case errors.Is(err, service.ErrAdherenceTimeRequired):
		respondError(c, http.StatusBadRequest, "请提供预定服药时刻")
	case errors.Is(err, service.ErrMedicationNotFound):
		respondError(c, http.StatusBadRequest, "请指定药品")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
