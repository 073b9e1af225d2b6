package handler

import (
	"errors"
	"net/http"

	"github.com/carelog/internal/db"
	"github.com/carelog/internal/service"
	"github.com/gin-gonic/gin"
)

type reminderPayload struct {
	PatientID uint   `json:"patient_id"`
	Title     string `json:"title"`
	TimeOfDay string `json:"time_of_day"`
	Repeat    string `json:"repeat"`
	Enabled   *bool  `json:"enabled"`
}

// ListReminders 返回提醒列表，支持 patient_id 筛选
func (a *API) ListReminders(c *gin.Context) {
	reminders, err := a.reminders.List(parseUintQuery(c, "patient_id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取提醒列表失败")
		return
	}

	items := make([]gin.H, 0, len(reminders))
	for _, reminder := range reminders {
		items = append(items, reminderToPayload(reminder))
	}

	c.JSON(http.StatusOK, gin.H{"reminders": items})
}

// CreateReminder 创建提醒，默认启用
func (a *API) CreateReminder(c *gin.Context) {
	var payload reminderPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	reminder, err := a.reminders.Create(reminderInput(payload))
	if err != nil {
		handleReminderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminder": reminderToPayload(*reminder)})
}

// UpdateReminder 更新提醒
func (a *API) UpdateReminder(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的提醒ID")
		return
	}

	var payload reminderPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	reminder, err := a.reminders.Update(id, reminderInput(payload))
	if err != nil {
		handleReminderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reminder": reminderToPayload(*reminder)})
}

// DeleteReminder 删除提醒
func (a *API) DeleteReminder(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的提醒ID")
		return
	}

	if err := a.reminders.Delete(id); err != nil {
		respondError(c, http.StatusInternalServerError, "删除提醒失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func reminderInput(payload reminderPayload) service.ReminderInput {
	enabled := true
	if payload.Enabled != nil {
		enabled = *payload.Enabled
	}

	return service.ReminderInput{
		PatientID: payload.PatientID,
		Title:     payload.Title,
		TimeOfDay: payload.TimeOfDay,
		Repeat:    payload.Repeat,
		Enabled:   enabled,
	}
}

func reminderToPayload(reminder db.Reminder) gin.H {
	return gin.H{
		"id":          reminder.ID,
		"patient_id":  reminder.PatientID,
		"title":       reminder.Title,
		"time_of_day": reminder.TimeOfDay,
		"repeat":      reminder.Repeat,
		"enabled":     reminder.Enabled,
	}
}

func handleReminderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrReminderNotFound):
		respondError(c, http.StatusNotFound, "提醒不存在")
	case errors.Is(err, service.ErrReminderTitleRequired):
		respondError(c, http.StatusBadRequest, "提醒标题不能为空")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
