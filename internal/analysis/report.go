package analysis

import (
	"github.com/sachinmurali/fansite-analytics-challenge/internal/aggregators"
	"github.com/sachinmurali/fansite-analytics-challenge/internal/config"
	"github.com/sachinmurali/fansite-analytics-challenge/pkg/models"
)

// BuildReport runs every analyzer over the dataset. Each analyzer is fresh
// and reads the dataset on its own, so none depends on another's output.
func BuildReport(dataset *models.Dataset, cfg config.Config) (*models.Report, error) {
	hosts := aggregators.NewHostCounter()
	resources := aggregators.NewResourceAggregator()
	summary := aggregators.NewTrafficSummary(cfg.Detector.FailureStatus)

	for i := range dataset.Records {
		record := &dataset.Records[i]
		hosts.AddRecord(record)
		resources.AddRecord(record)
		summary.AddRecord(record)
	}

	windows := aggregators.NewWindowFinder(cfg.Analysis.Window).Find(dataset.Records, cfg.Analysis.TopN)

	blocked, err := NewLoginAbuseDetector(cfg.Detector).Analyze(dataset.Records, dataset.RawLines)
	if err != nil {
		return nil, err
	}

	return &models.Report{
		SkippedLines: dataset.Skipped,
		Stats:        summary.GetSummary(),
		TopHosts:     hosts.Top(cfg.Analysis.TopN),
		TopResources: resources.Top(cfg.Analysis.TopN),
		BusiestHours: windows,
		Blocked:      blocked,
	}, nil
}
