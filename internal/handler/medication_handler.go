package handler

import (
	"errors"
	"net/http"

	"github.com/carelog/internal/db"
	"github.com/carelog/internal/service"
	"github.com/gin-gonic/gin"
)

type medicationPayload struct {
	PatientID uint   `json:"patient_id"`
	Name      string `json:"name"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	TimeOfDay string `json:"time_of_day"`
	Active    *bool  `json:"active"`
}

// ListMedications 返回用药列表，支持 patient_id 与 active 筛选
func (a *API) ListMedications(c *gin.Context) {
	filter := service.MedicationFilter{
		PatientID:  parseUintQuery(c, "patient_id"),
		ActiveOnly: c.Query("active") == "true",
	}

	medications, err := a.medications.List(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取用药列表失败")
		return
	}

	items := make([]gin.H, 0, len(medications))
	for _, medication := range medications {
		items = append(items, medicationToPayload(medication))
	}

	c.JSON(http.StatusOK, gin.H{"medications": items})
}

// GetMedication 返回单个药品详情
func (a *API) GetMedication(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的药品ID")
		return
	}

	medication, err := a.medications.Get(id)
	if err != nil {
		handleMedicationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"medication": medicationToPayload(*medication)})
}

// CreateMedication 创建用药条目，默认启用
func (a *API) CreateMedication(c *gin.Context) {
	var payload medicationPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	medication, err := a.medications.Create(medicationInput(payload))
	if err != nil {
		handleMedicationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"medication": medicationToPayload(*medication)})
}

// UpdateMedication 更新用药条目
func (a *API) UpdateMedication(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的药品ID")
		return
	}

	var payload medicationPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	medication, err := a.medications.Update(id, medicationInput(payload))
	if err != nil {
		handleMedicationError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"medication": medicationToPayload(*medication)})
}

// DeleteMedication 删除用药条目
func (a *API) DeleteMedication(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的药品ID")
		return
	}

	if err := a.medications.Delete(id); err != nil {
		respondError(c, http.StatusInternalServerError, "删除药品失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func medicationInput(payload medicationPayload) service.MedicationInput {
	active := true
	if payload.Active != nil {
		active = *payload.Active
	}

	return service.MedicationInput{
		PatientID: payload.PatientID,
		Name:      payload.Name,
		Dosage:    payload.Dosage,
		Frequency: payload.Frequency,
		TimeOfDay: payload.TimeOfDay,
		Active:    active,
	}
}

func medicationToPayload(medication db.Medication) gin.H {
	return gin.H{
		"id":          medication.ID,
		"patient_id":  medication.PatientID,
		"name":        medication.Name,
		"dosage":      medication.Dosage,
		"frequency":   medication.Frequency,
		"time_of_day": medication.TimeOfDay,
		"active":      medication.Active,
	}
}

func handleMedicationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMedicationNotFound):
		respondError(c, http.StatusNotFound, "药品不存在")
	case errors.Is(err, service.ErrMedicationNameRequired):
		respondError(c, http.StatusBadRequest, "药品名称不能为空")
	case errors.Is(err, service.ErrPatientNotFound):
		respondError(c, http.StatusBadRequest, "请指定所属患者")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
