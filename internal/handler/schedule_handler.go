package handler

import (
	"errors"
	"net/http"

	"github.com/carelog/internal/db"
	"github.com/carelog/internal/reconcile"
	"github.com/carelog/internal/service"
	"github.com/gin-gonic/gin"
)

type schedulePayload struct {
	MedicationID   uint   `json:"medication_id"`
	PatientID      uint   `json:"patient_id"`
	TimeOfDay      string `json:"time_of_day"`
	RecurrenceRule string `json:"recurrence_rule"`
	DayOfWeek      string `json:"day_of_week"`
	Timezone       string `json:"timezone"`
	Notes          string `json:"notes"`
}

// ListSchedules 返回用药定时计划列表，支持 patient_id 筛选
func (a *API) ListSchedules(c *gin.Context) {
	schedules, err := a.schedules.ListByPatient(parseUintQuery(c, "patient_id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取用药计划失败")
		return
	}

	items := make([]gin.H, 0, len(schedules))
	for _, schedule := range schedules {
		items = append(items, scheduleToPayload(schedule))
	}

	c.JSON(http.StatusOK, gin.H{"schedules": items})
}

// GetSchedule 返回单个计划详情
func (a *API) GetSchedule(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的计划ID")
		return
	}

	schedule, err := a.schedules.Get(id)
	if err != nil {
		handleScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedule": scheduleToPayload(*schedule)})
}

// CreateSchedule 创建用药定时计划
func (a *API) CreateSchedule(c *gin.Context) {
	var payload schedulePayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	schedule, err := a.schedules.Create(scheduleInput(payload))
	if err != nil {
		handleScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedule": scheduleToPayload(*schedule)})
}

// UpdateSchedule 更新用药定时计划
func (a *API) UpdateSchedule(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的计划ID")
		return
	}

	var payload schedulePayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	schedule, err := a.schedules.Update(id, scheduleInput(payload))
	if err != nil {
		handleScheduleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedule": scheduleToPayload(*schedule)})
}

// DeleteSchedule 删除用药定时计划
func (a *API) DeleteSchedule(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的计划ID")
		return
	}

	if err := a.schedules.Delete(id); err != nil {
		respondError(c, http.StatusInternalServerError, "删除计划失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func scheduleInput(payload schedulePayload) service.ScheduleInput {
	return service.ScheduleInput{
		MedicationID:   payload.MedicationID,
		PatientID:      payload.PatientID,
		TimeOfDay:      payload.TimeOfDay,
		RecurrenceRule: payload.RecurrenceRule,
		DayOfWeek:      payload.DayOfWeek,
		Timezone:       payload.Timezone,
		Notes:          payload.Notes,
	}
}

func scheduleToPayload(schedule db.MedicationSchedule) gin.H {
	return gin.H{
		"id":              schedule.ID,
		"medication_id":   schedule.MedicationID,
		"patient_id":      schedule.PatientID,
		"time_of_day":     schedule.TimeOfDay,
		"recurrence_rule": schedule.RecurrenceRule,
		"day_of_week":     schedule.DayOfWeek,
		"timezone":        schedule.Timezone,
		"notes":           schedule.Notes,
	}
}

func handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrScheduleNotFound):
		respondError(c, http.StatusNotFound, "用药计划不存在")
	case errors.Is(err, service.ErrMedicationNotFound):
		respondError(c, http.StatusBadRequest, "药品不存在")
	case errors.Is(err, reconcile.ErrInvalidSchedule):
		respondError(c, http.StatusBadRequest, "计划配置无效")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
