package analysis

import (
	"testing"

	"github.com/sachinmurali/fansite-analytics-challenge/internal/config"
	"github.com/sachinmurali/fansite-analytics-challenge/pkg/models"
)

func TestBuildReportEmptyDataset(t *testing.T) {
	report, err := BuildReport(&models.Dataset{}, config.Default())
	if err != nil {
		t.Fatalf("BuildReport error: %v", err)
	}
	if len(report.TopHosts) != 0 || len(report.TopResources) != 0 ||
		len(report.BusiestHours) != 0 || len(report.Blocked) != 0 {
		t.Fatalf("expected empty report, got %+v", report)
	}
	if report.Stats.TotalRequests != 0 {
		t.Errorf("TotalRequests = %d, want 0", report.Stats.TotalRequests)
	}
}

func TestBuildReport(t *testing.T) {
	records, raw := buildLog([]event{
		{"H", 0, 401}, {"H", 5, 401}, {"H", 10, 401}, {"H", 15, 401},
		{"G", 20, 200}, {"G", 4000, 200},
	})
	dataset := &models.Dataset{Records: records, RawLines: raw, Skipped: 2}

	cfg := config.Default()
	cfg.Analysis.TopN = 1
	report, err := BuildReport(dataset, cfg)
	if err != nil {
		t.Fatalf("BuildReport error: %v", err)
	}

	if len(report.TopHosts) != 1 || report.TopHosts[0].Host != "H" || report.TopHosts[0].Count != 4 {
		t.Errorf("TopHosts = %v, want [H 4]", report.TopHosts)
	}
	if len(report.TopResources) != 1 || report.TopResources[0].Path != "/login" {
		t.Errorf("TopResources = %v, want [/login]", report.TopResources)
	}
	if len(report.BusiestHours) != 1 || report.BusiestHours[0].Count != 5 {
		t.Errorf("BusiestHours = %v, want one window of 5", report.BusiestHours)
	}
	if len(report.Blocked) != 1 || report.Blocked[0].Line != raw[3] {
		t.Errorf("Blocked = %v, want line 3", report.Blocked)
	}
	if report.SkippedLines != 2 {
		t.Errorf("SkippedLines = %d, want 2", report.SkippedLines)
	}
}

func TestBuildReportRejectsMisalignedDataset(t *testing.T) {
	records, raw := buildLog([]event{{"H", 0, 200}, {"H", 1, 200}})
	dataset := &models.Dataset{Records: records, RawLines: raw[:1]}
	if _, err := BuildReport(dataset, config.Default()); err == nil {
		t.Fatal("expected error for misaligned dataset")
	}
}
