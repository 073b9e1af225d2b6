package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/carelog/internal/reconcile"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	reportMarkdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM, extension.Table),
		goldmark.WithRendererOptions(html.WithHardWraps(), html.WithXHTML()),
	)
	reportSanitizer = bluemonday.UGCPolicy()
)

// ReportService 封装对账引擎，面向报表场景。
// 引擎的数据来源是注入的计划/打卡服务，不读取任何全局状态。
type ReportService struct {
	engine   *reconcile.Engine
	patients *PatientService
}

// NewReportService 构造 ReportService，将计划与打卡服务接入引擎
func NewReportService(patients *PatientService, schedules *ScheduleService, adherence *AdherenceService, tolerance time.Duration) *ReportService {
	engine := reconcile.NewEngine(
		schedules.EngineSchedules,
		adherence.EngineRecords,
		reconcile.WithMatchTolerance(tolerance),
	)
	return &ReportService{engine: engine, patients: patients}
}

// Adherence 对患者在 [from, to] 区间执行一次依从性对账
func (s *ReportService) Adherence(ctx context.Context, patientID uint, from, to time.Time) (*reconcile.Result, error) {
	return s.engine.Reconcile(ctx, patientID, from, to)
}

// ExportHTML 生成可分享的 HTML 版依从性报告，返回文档内容与建议文件名。
// 报告正文先组装为 Markdown 再渲染，计划备注等自由文本在嵌入前统一消毒。
func (s *ReportService) ExportHTML(ctx context.Context, patientID uint, from, to time.Time) ([]byte, string, error) {
	result, err := s.engine.Reconcile(ctx, patientID, from, to)
	if err != nil {
		return nil, "", err
	}

	patientName := fmt.Sprintf("Patient %d", patientID)
	if patient, err := s.patients.Get(patientID); err == nil {
		patientName = patient.Name
	}

	markdown := buildReportMarkdown(patientName, from, to, result)

	var rendered bytes.Buffer
	if err := reportMarkdown.Convert([]byte(markdown), &rendered); err != nil {
		return nil, "", fmt.Errorf("render report: %w", err)
	}
	body := reportSanitizer.SanitizeBytes(rendered.Bytes())

	var doc bytes.Buffer
	doc.WriteString("<!DOCTYPE html>\n<html>\n<head><meta charset=\"utf-8\"><title>Adherence Report</title></head>\n<body>\n")
	doc.Write(body)
	doc.WriteString("\n</body>\n</html>\n")

	filename := fmt.Sprintf("adherence-report-%s-%s.html", time.Now().Format("20060102"), uuid.New().String())
	return doc.Bytes(), filename, nil
}

func buildReportMarkdown(patientName string, from, to time.Time, result *reconcile.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Medication Adherence Report\n\n")
	fmt.Fprintf(&b, "**Patient:** %s\n\n", patientName)
	fmt.Fprintf(&b, "**Range:** %s ~ %s\n\n", from.Format(reconcile.DateFormat), to.Format(reconcile.DateFormat))

	b.WriteString("| Date | Scheduled | Taken | Missed | Completion |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")
	for _, stat := range result.DailyStats {
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %d%% |\n", stat.Date, stat.ScheduledCount, stat.TakenCount, stat.MissedCount, stat.CompletionPct)
	}

	notes := make([]string, 0)
	for _, dose := range result.Doses {
		if dose.Record != nil && dose.Record.Notes != "" {
			notes = append(notes, fmt.Sprintf("- %s: %s", dose.Dose.Date, dose.Record.Notes))
		}
	}
	if len(notes) > 0 {
		b.WriteString("\n## Caregiver Notes\n\n")
		b.WriteString(strings.Join(notes, "\n"))
		b.WriteString("\n")
	}

	return b.String()
}
