package fixcmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/storyreel/scriptdoctor/internal/repair"
)

// NewFixCmd creates the fix command
func NewFixCmd() *cobra.Command {
	var scriptPath string
	var framesDir string
	var backupSuffix string
	var reportPath string
	var rescue bool
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "fix",
		Short: "Repair a corrupted scene script file",
		Long: `Repair a scene script whose inline frame thumbnails were truncated or
otherwise corrupted.

The script is validated first; if it parses, nothing is written. Otherwise
each inline payload is replaced with a frame file path derived from the
owning scene's id, and if the result still fails to parse the script is
rebuilt from every scene record that survived intact. The original file is
backed up before any overwrite.`,
		Example: `  # Repair a script, deriving frame paths under /frames/my-story
  scriptdoctor fix --script stories/my-story/script.json --frames-dir /frames/my-story

  # See what would happen without touching the file
  scriptdoctor fix --script script.json --dry-run

  # Record the outcome in a YAML report
  scriptdoctor fix --script script.json --report repair-report.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if scriptPath == "" {
				return fmt.Errorf("--script is required")
			}
			if framesDir == "" {
				framesDir = os.Getenv("SCRIPTDOCTOR_FRAMES_DIR")
				if framesDir == "" {
					framesDir = "/frames"
				}
			}

			return executeFix(repair.Config{
				ScriptPath:   scriptPath,
				FramesDir:    framesDir,
				BackupSuffix: backupSuffix,
				Rescue:       rescue,
				DryRun:       dryRun,
			}, reportPath)
		},
	}

	cmd.Flags().StringVar(&scriptPath, "script", "", "Path to the scene script JSON file (required)")
	cmd.Flags().StringVar(&framesDir, "frames-dir", "", "Path prefix for synthesized frame references (default $SCRIPTDOCTOR_FRAMES_DIR or /frames)")
	cmd.Flags().StringVar(&backupSuffix, "backup-suffix", repair.DefaultBackupSuffix, "Suffix appended to the script path for the backup copy")
	cmd.Flags().StringVar(&reportPath, "report", "", "Write a YAML repair report to this path")
	cmd.Flags().BoolVar(&rescue, "rescue", false, "Run a last-resort jsonrepair pass if every other strategy fails")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Analyze and repair in memory without writing any file")

	_ = cmd.MarkFlagRequired("script")

	return cmd
}

func executeFix(cfg repair.Config, reportPath string) error {
	fixer := repair.New(cfg)

	result, err := fixer.Run()
	if err != nil {
		fmt.Printf("❌ Repair failed: %v\n", err)
		return err
	}

	printResult(cfg, result)

	if reportPath != "" {
		if err := repair.WriteReport(reportPath, cfg, result); err != nil {
			return fmt.Errorf("failed to save repair report: %w", err)
		}
		fmt.Printf("\nReport saved to: %s\n", reportPath)
	}

	return nil
}

func printResult(cfg repair.Config, res *repair.Result) {
	switch res.Status {
	case repair.StatusAlreadyValid:
		fmt.Println("✅ Script is valid JSON, no fix needed")
	case repair.StatusStripped:
		fmt.Println("✅ Script repaired by replacing inline frame payloads")
	case repair.StatusReconstructed:
		fmt.Printf("✅ Script rebuilt from %d recovered scenes\n", res.ScenesRecovered)
	case repair.StatusRescued:
		fmt.Println("✅ Script rescued by jsonrepair")
	}

	rows := [][]string{
		{"Status", string(res.Status)},
		{"Bytes read", strconv.Itoa(res.BytesRead)},
		{"Payloads stripped", strconv.Itoa(res.PayloadsStripped)},
		{"Scenes kept", strconv.Itoa(res.ScenesKept)},
	}
	if res.Status != repair.StatusAlreadyValid {
		rows = append(rows, []string{"Bytes written", strconv.Itoa(res.BytesWritten)})
	}
	if res.BackupPath != "" {
		rows = append(rows, []string{"Backup", res.BackupPath})
	}
	if res.DryRun {
		rows = append(rows, []string{"Dry run", "yes (nothing written)"})
	}

	fmt.Println()
	fmt.Println(renderTable([]string{"Field", "Value"}, rows))
}
