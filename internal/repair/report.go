package repair

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Report is the YAML record of one repair run.
type Report struct {
	Script           string `yaml:"script"`
	FramesDir        string `yaml:"framesdir"`
	Timestamp        string `yaml:"timestamp"`
	Status           string `yaml:"status"`
	BytesRead        int    `yaml:"bytesread"`
	BytesWritten     int    `yaml:"byteswritten"`
	PayloadsStripped int    `yaml:"payloadsstripped"`
	ScenesKept       int    `yaml:"sceneskept"`
	ScenesRecovered  int    `yaml:"scenesrecovered,omitempty"`
	Backup           string `yaml:"backup,omitempty"`
	DryRun           bool   `yaml:"dryrun,omitempty"`
}

// WriteReport saves a YAML report of the run to path.
func WriteReport(path string, cfg Config, res *Result) error {
	report := Report{
		Script:           cfg.ScriptPath,
		FramesDir:        cfg.FramesDir,
		Timestamp:        time.Now().Format("2006-01-02_15-04-05"),
		Status:           string(res.Status),
		BytesRead:        res.BytesRead,
		BytesWritten:     res.BytesWritten,
		PayloadsStripped: res.PayloadsStripped,
		ScenesKept:       res.ScenesKept,
		ScenesRecovered:  res.ScenesRecovered,
		Backup:           res.BackupPath,
		DryRun:           res.DryRun,
	}

	data, err := yaml.Marshal(&report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}

	return nil
}
