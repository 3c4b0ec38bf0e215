package repair

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/gofrs/flock"
	"github.com/kaptinlin/jsonrepair"
	"github.com/storyreel/scriptdoctor/internal/script"
)

// DefaultBackupSuffix is appended to the script path to name the backup
// copy written before any overwrite.
const DefaultBackupSuffix = ".backup-corrupted"

// Status describes how a repair run ended successfully.
type Status string

const (
	// StatusAlreadyValid means the script parsed cleanly and nothing was written.
	StatusAlreadyValid Status = "already-valid"
	// StatusStripped means replacing inline payloads was enough to repair the script.
	StatusStripped Status = "stripped"
	// StatusReconstructed means the script was rebuilt from intact scene records.
	StatusReconstructed Status = "reconstructed"
	// StatusRescued means the opt-in jsonrepair pass recovered the script after
	// every other strategy failed.
	StatusRescued Status = "rescued"
)

// Config carries the parameters of one repair run.
type Config struct {
	// ScriptPath is the scene script file to repair.
	ScriptPath string
	// FramesDir is the path prefix used when synthesizing frame file
	// references. It is never read or written, only spliced into the script.
	FramesDir string
	// BackupSuffix names the backup copy; defaults to DefaultBackupSuffix.
	BackupSuffix string
	// Rescue enables a last-resort jsonrepair pass after the normal repair
	// chain has failed.
	Rescue bool
	// DryRun analyzes and repairs in memory but writes nothing.
	DryRun bool
}

// Result summarizes a successful repair run.
type Result struct {
	Status           Status
	BytesRead        int
	BytesWritten     int
	PayloadsStripped int
	ScenesKept       int
	ScenesRecovered  int
	BackupPath       string
	DryRun           bool
}

// Fixer runs the repair chain against a single script file: direct
// validation, then payload stripping, then aggressive reconstruction, in
// that order, stopping at the first strategy that yields valid JSON.
type Fixer struct {
	cfg Config
}

// New creates a Fixer for the given configuration.
func New(cfg Config) *Fixer {
	if cfg.BackupSuffix == "" {
		cfg.BackupSuffix = DefaultBackupSuffix
	}
	return &Fixer{cfg: cfg}
}

// Run executes the repair chain. Every failure path returns before any file
// is written; every overwrite is preceded by a backup of the original text.
func (f *Fixer) Run() (*Result, error) {
	content, err := script.ReadLossy(f.cfg.ScriptPath)
	if err != nil {
		return nil, err
	}

	slog.Info("Attempting to fix script", "path", f.cfg.ScriptPath, "size_kb", len(content)/1024)

	payloads := CountPayloads(content)
	slog.Info("Scanned for inline frame payloads", "count", payloads)

	if _, verr := script.Validate([]byte(content)); verr == nil {
		slog.Info("Script is valid JSON, no fix needed")
		return &Result{
			Status:     StatusAlreadyValid,
			BytesRead:  len(content),
			ScenesKept: sceneCount([]byte(content)),
			DryRun:     f.cfg.DryRun,
		}, nil
	} else if payloads == 0 {
		return nil, fmt.Errorf("script is corrupted but carries no inline frame payloads: %w", verr)
	}

	stripped, replaced := StripPayloads(content, f.cfg.FramesDir)
	slog.Info("Replaced inline payloads with frame paths", "count", replaced, "size_kb", len(stripped)/1024)

	offset, serr := script.Validate([]byte(stripped))
	if serr == nil {
		res, err := f.commit(content, stripped, &Result{
			Status:           StatusStripped,
			PayloadsStripped: replaced,
		})
		if err != nil {
			return nil, err
		}
		slog.Info("Script repaired by payload stripping", "scenes", res.ScenesKept)
		return res, nil
	}

	slog.Warn("Stripped script is still invalid, attempting aggressive reconstruction",
		"err", serr, "offset", offset)

	reassembled, recovered, rerr := Reconstruct(stripped, offset)
	if rerr != nil {
		return f.rescueOr(content, stripped, replaced, rerr)
	}
	slog.Info("Recovered complete scene records", "count", recovered)

	if _, verr := script.Validate([]byte(reassembled)); verr != nil {
		return f.rescueOr(content, stripped, replaced,
			fmt.Errorf("reconstructed script is still invalid: %w", verr))
	}

	res, err := f.commit(content, reassembled, &Result{
		Status:           StatusReconstructed,
		PayloadsStripped: replaced,
		ScenesRecovered:  recovered,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Script rebuilt from recovered scenes", "scenes", res.ScenesKept)
	return res, nil
}

// rescueOr runs the opt-in jsonrepair pass over the stripped text, or
// returns cause when rescue is disabled or fails too.
func (f *Fixer) rescueOr(original, stripped string, replaced int, cause error) (*Result, error) {
	if !f.cfg.Rescue {
		return nil, cause
	}

	slog.Warn("Reconstruction failed, attempting jsonrepair rescue", "err", cause)

	repaired, err := jsonrepair.JSONRepair(stripped)
	if err != nil {
		return nil, fmt.Errorf("jsonrepair rescue failed: %w (after: %w)", err, cause)
	}
	if _, verr := script.Validate([]byte(repaired)); verr != nil {
		return nil, fmt.Errorf("jsonrepair output is still invalid: %w (after: %w)", verr, cause)
	}

	res, err := f.commit(original, repaired, &Result{
		Status:           StatusRescued,
		PayloadsStripped: replaced,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Script rescued by jsonrepair", "scenes", res.ScenesKept)
	return res, nil
}

// commit pretty-prints the repaired text and, unless this is a dry run,
// writes the backup copy followed by the script itself. A file lock guards
// the backup/overwrite pair against a concurrent repair of the same script.
func (f *Fixer) commit(original, fixed string, res *Result) (*Result, error) {
	pretty, err := script.Format([]byte(fixed))
	if err != nil {
		return nil, fmt.Errorf("failed to pretty-print repaired script: %w", err)
	}

	res.BytesRead = len(original)
	res.BytesWritten = len(pretty)
	res.ScenesKept = sceneCount(pretty)
	res.DryRun = f.cfg.DryRun

	if f.cfg.DryRun {
		slog.Info("Dry run, skipping backup and write", "would_write_bytes", len(pretty))
		return res, nil
	}

	lock := flock.New(f.cfg.ScriptPath + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire script lock: %w", err)
	}
	if !ok {
		return nil, errors.New("another repair of this script is already running")
	}
	defer func() {
		if uerr := lock.Unlock(); uerr != nil {
			slog.Warn("Failed to release script lock", "err", uerr)
		}
	}()

	backupPath := f.cfg.ScriptPath + f.cfg.BackupSuffix
	if err := os.WriteFile(backupPath, []byte(original), 0644); err != nil {
		return nil, fmt.Errorf("failed to write backup: %w", err)
	}
	slog.Info("Backup created", "path", backupPath)

	if err := os.WriteFile(f.cfg.ScriptPath, pretty, 0644); err != nil {
		return nil, fmt.Errorf("failed to write repaired script: %w", err)
	}

	res.BackupPath = backupPath
	return res, nil
}

// sceneCount decodes just enough of a repaired script to count its scenes.
func sceneCount(data []byte) int {
	doc, err := script.Decode(data)
	if err != nil {
		return 0
	}
	return len(doc.Scenes)
}
