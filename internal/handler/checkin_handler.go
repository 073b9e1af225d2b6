package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/carelog/internal/db"
	"github.com/carelog/internal/service"
	"github.com/gin-gonic/gin"
)

type checkInPayload struct {
	PatientID uint           `json:"patient_id"`
	Category  string         `json:"category"`
	Data      map[string]any `json:"data"`
	Timestamp string         `json:"timestamp"` // RFC3339，可选，缺省为当前时间
}

// ListCheckIns 返回签到列表，支持 patient_id/category/date 筛选
func (a *API) ListCheckIns(c *gin.Context) {
	filter := service.CheckInFilter{
		PatientID: parseUintQuery(c, "patient_id"),
		Category:  c.Query("category"),
		Date:      c.Query("date"),
	}

	checkIns, err := a.checkIns.List(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "获取签到列表失败")
		return
	}

	items := make([]gin.H, 0, len(checkIns))
	for _, checkIn := range checkIns {
		items = append(items, checkInToPayload(checkIn))
	}

	c.JSON(http.StatusOK, gin.H{"checkins": items})
}

// CreateCheckIn 写入一条照护签到
func (a *API) CreateCheckIn(c *gin.Context) {
	var payload checkInPayload
	if !bindJSON(c, &payload, "请求参数不合法") {
		return
	}

	var timestamp time.Time
	if payload.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, payload.Timestamp)
		if err != nil {
			respondError(c, http.StatusBadRequest, "无效的签到时间")
			return
		}
		timestamp = parsed
	}

	checkIn, err := a.checkIns.Create(service.CheckInInput{
		UserID:    currentUserID(c),
		PatientID: payload.PatientID,
		Category:  payload.Category,
		Data:      payload.Data,
		Timestamp: timestamp,
	})
	if err != nil {
		handleCheckInError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"checkin": checkInToPayload(*checkIn)})
}

// DeleteCheckIn 删除一条签到
func (a *API) DeleteCheckIn(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的签到ID")
		return
	}

	if err := a.checkIns.Delete(id); err != nil {
		handleCheckInError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

func checkInToPayload(checkIn db.CheckIn) gin.H {
	var data map[string]any
	if len(checkIn.Data) > 0 {
		// 历史脏数据解码失败时返回空对象而不是整条失败
		if err := json.Unmarshal(checkIn.Data, &data); err != nil {
			data = map[string]any{}
		}
	} else {
		data = map[string]any{}
	}

	return gin.H{
		"id":         checkIn.ID,
		"user_id":    checkIn.UserID,
		"patient_id": checkIn.PatientID,
		"category":   checkIn.Category,
		"data":       data,
		"timestamp":  checkIn.Timestamp.Format(time.RFC3339),
	}
}

func handleCheckInError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCheckInNotFound):
		respondError(c, http.StatusNotFound, "签到不存在")
	case errors.Is(err, service.ErrCheckInCategoryRequired):
		respondError(c, http.StatusBadRequest, "签到类别不能为空")
	default:
		respondError(c, http.StatusInternalServerError, "操作失败")
	}
}
