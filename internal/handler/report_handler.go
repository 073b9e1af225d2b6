package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/carelog/internal/reconcile"
	"github.com/gin-gonic/gin"
)

// 报告默认覆盖最近 7 天（含当天）
const defaultReportDays = 7

// GetAdherenceReport 对指定患者执行一次依从性对账并返回 JSON 统计
func (a *API) GetAdherenceReport(c *gin.Context) {
	patientID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的患者ID")
		return
	}

	from, to, ok := parseReportRange(c)
	if !ok {
		return
	}

	result, err := a.reports.Adherence(c.Request.Context(), patientID, from, to)
	if err != nil {
		handleReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"patient_id":  patientID,
		"range":       gin.H{"from": from.Format(dateFormat), "to": to.Format(dateFormat)},
		"daily_stats": serializeDailyStats(result.DailyStats),
		"doses":       serializeDoses(result.Doses),
	})
}

// ExportAdherenceReport 导出 HTML 版依从性报告
func (a *API) ExportAdherenceReport(c *gin.Context) {
	patientID, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "无效的患者ID")
		return
	}

	from, to, ok := parseReportRange(c)
	if !ok {
		return
	}

	doc, filename, err := a.reports.ExportHTML(c.Request.Context(), patientID, from, to)
	if err != nil {
		handleReportError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/html; charset=utf-8", doc)
}

// parseReportRange 解析 from/to 查询参数，缺省为截至今天的最近 7 天
func parseReportRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := to.AddDate(0, 0, -(defaultReportDays - 1))

	if raw := c.Query("from"); raw != "" {
		parsed, err := time.Parse(dateFormat, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "无效的起始日期")
			return time.Time{}, time.Time{}, false
		}
		from = parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := time.Parse(dateFormat, raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "无效的结束日期")
			return time.Time{}, time.Time{}, false
		}
		to = parsed
	}

	return from, to, true
}

func serializeDailyStats(stats []reconcile.DailyStat) []gin.H {
	items := make([]gin.H, 0, len(stats))
	for _, stat := range stats {
		items = append(items, gin.H{
			"date":            stat.Date,
			"scheduled_count": stat.ScheduledCount,
			"taken_count":     stat.TakenCount,
			"missed_count":    stat.MissedCount,
			"completion_pct":  stat.CompletionPct,
		})
	}
	return items
}

func serializeDoses(doses []reconcile.ReconciledDose) []gin.H {
	items := make([]gin.H, 0, len(doses))
	for _, dose := range doses {
		item := gin.H{
			"schedule_id":   dose.Dose.Schedule.ID,
			"medication_id": dose.Dose.Schedule.MedicationID,
			"date":          dose.Dose.Date,
			"expected":      dose.Dose.Expected.Format(time.RFC3339),
			"outcome":       dose.Outcome,
		}
		if dose.Record != nil {
			record := gin.H{
				"id":     dose.Record.ID,
				"status": dose.Record.Status,
				"notes":  dose.Record.Notes,
			}
			if dose.Record.TakenTime != nil {
				record["taken_time"] = dose.Record.TakenTime.Format(time.RFC3339)
			}
			item["record"] = record
		}
		items = append(items, item)
	}
	return items
}

func handleReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, reconcile.ErrDataUnavailable):
		respondError(c, http.StatusBadGateway, "对账数据源暂不可用")
	case errors.Is(err, reconcile.ErrInvalidSchedule):
		respondError(c, http.StatusBadRequest, "计划配置无效")
	default:
		respondError(c, http.StatusInternalServerError, "生成报告失败")
	}
}
