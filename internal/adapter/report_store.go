package adapter

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	m "refdata.dev/internal/model"
)

// ReportStore persists verify run reports.
type ReportStore interface {
	SaveReport(path m.Path, report *m.VerifyReport) error
	LoadReport(path m.Path) (*m.VerifyReport, error)
}

// yamlReportStore stores reports as YAML files on disk.
type yamlReportStore struct{}

// NewReportStore constructs the default YAML-backed report store.
func NewReportStore() ReportStore {
	return &yamlReportStore{}
}

// SaveReport writes the report to path, creating parent directories as
// needed.
func (s *yamlReportStore) SaveReport(path m.Path, report *m.VerifyReport) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(string(path)), 0o750); err != nil {
		return err
	}

	return os.WriteFile(string(path), data, 0o600)
}

// LoadReport reads a previously saved report from path.
func (s *yamlReportStore) LoadReport(path m.Path) (*m.VerifyReport, error) {
	// #nosec G304 - path comes from the configured reports directory
	data, err := os.ReadFile(string(path))
	if err != nil {
		return nil, err
	}

	var report m.VerifyReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return nil, err
	}

	return &report, nil
}
