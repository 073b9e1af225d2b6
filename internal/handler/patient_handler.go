package handler

import (
	"errors"
	"net/http"

	"github.com/carelog/internal/db"
	"github.com/carelog/internal/service"
	"github.com/gin-gonic/gin"
)

type patientPayload struct {
	Name             string `json:"name"`
	Age              int    `json:"age"`
	Allergies        string `json:"allergies"`
	EmergencyContact string `json:"emergency_contact"`
	Doctor           string `json:"doctor"`
}

// ListPatients 返回患者列表 JSON
func (a *API) ListPatients(c *gin.Context) {
	patients, err := a.patients.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取患者列表失败")
		return
	}

	items := make([]gin.H, 0, len(patients))
	for _, patient := range patients {
		items = append(items, patientToPayload(patient))
	}

	c.JSON(http.StatusOK, gin.H{"patients": items})
}

// GetPatient 返回单个患者详情
func (a *API) GetPatient(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的患者ID")
		return
	}

	patient, err := a.patients.Get(id)
	if err != nil {
		handlePatientError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"patient": patientToPayload(*patient)})
}

// CreatePatient 创建患者档案
func (a *API) CreatePatient(c *gin.Context) {
	var payload patientPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	patient, err := a.patients.Create(service.PatientInput{
		Name:             payload.Name,
		Age:              payload.Age,
		Allergies:        payload.Allergies,
		EmergencyContact: payload.EmergencyContact,
		Doctor:           payload.Doctor,
	})
	if err != nil {
		handlePatientError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"patient": patientToPayload(*patient)})
}

// UpdatePatient 更新患者档案
func (a *API) UpdatePatient(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的患者ID")
		return
	}

	var payload patientPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	patient, err := a.patients.Update(id, service.PatientInput{
		Name:             payload.Name,
		Age:              payload.Age,
		Allergies:        payload.Allergies,
		EmergencyContact: payload.EmergencyContact,
		Doctor:           payload.Doctor,
	})
	if err != nil {
		handlePatientError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"patient": patientToPayload(*patient)})
}

func patientToPayload(patient db.Patient) gin.H {
	return gin.H{
		"id":                patient.ID,
		"name":              patient.Name,
		"age":               patient.Age,
		"allergies":         patient.Allergies,
		"emergency_contact": patient.EmergencyContact,
		"doctor":            patient.Doctor,
	}
}

func handlePatientError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPatientNotFound):
		respondError(c, http.StatusNotFound, "患者不存在")
	case errors.Is(err, service.ErrPatientNameRequired):
		respondError(c, http.StatusBadRequest, "患者姓名不能为空")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
