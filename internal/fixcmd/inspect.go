package fixcmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/storyreel/scriptdoctor/internal/repair"
	"github.com/storyreel/scriptdoctor/internal/script"
)

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	var scriptPath string
	var limit int

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect a scene script (useful for checking frame references)",
		Long: `Inspect the scenes of a script file.

This command is useful for checking whether frame fields still carry inline
image payloads, and for reviewing scene ids before or after a repair.`,
		Example: `  # Inspect the first 10 scenes
  scriptdoctor inspect --script stories/my-story/script.json

  # Inspect all scenes
  scriptdoctor inspect --script script.json --limit 0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if scriptPath == "" {
				return fmt.Errorf("--script is required")
			}
			return executeInspect(scriptPath, limit)
		},
	}

	cmd.Flags().StringVar(&scriptPath, "script", "", "Path to the scene script JSON file (required)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Number of scenes to show (0 for all)")

	_ = cmd.MarkFlagRequired("script")

	return cmd
}

func executeInspect(scriptPath string, limit int) error {
	content, err := script.ReadLossy(scriptPath)
	if err != nil {
		return err
	}

	if _, err := script.Validate([]byte(content)); err != nil {
		return fmt.Errorf("script is not valid JSON (try `scriptdoctor fix`): %w", err)
	}

	doc, err := script.Decode([]byte(content))
	if err != nil {
		return fmt.Errorf("failed to decode script: %w", err)
	}

	fmt.Printf("Loaded %d scenes from %s\n", len(doc.Scenes), scriptPath)
	if doc.Title != "" {
		fmt.Printf("Title: %s\n", doc.Title)
	}
	fmt.Println(strings.Repeat("=", 80))

	inline := repair.CountPayloads(content)
	if inline > 0 {
		fmt.Printf("⚠️  %d inline frame payloads still embedded; run `scriptdoctor fix` to slim the file\n", inline)
		fmt.Println(strings.Repeat("=", 80))
	}

	shown := 0
	for i, scene := range doc.Scenes {
		if limit > 0 && shown >= limit {
			fmt.Printf("[... %d more scenes, rerun with --limit 0 to see all ...]\n", len(doc.Scenes)-shown)
			break
		}
		shown++

		fmt.Printf("SCENE %d/%d\n", i+1, len(doc.Scenes))
		fmt.Println(strings.Repeat("-", 80))
		fmt.Printf("Id:           %s\n", scene.ID)
		if scene.DurationSeconds > 0 {
			fmt.Printf("Duration:     %.1fs\n", scene.DurationSeconds)
		}
		fmt.Printf("First frame:  %s\n", frameStatus(scene.FirstFrameDataURL))
		fmt.Printf("Last frame:   %s\n", frameStatus(scene.LastFrameDataURL))

		if scene.Narration != "" {
			preview := scene.Narration
			maxChars := 200
			if len(preview) > maxChars {
				preview = preview[:maxChars] + "..."
			}
			fmt.Printf("Narration:    %s\n", preview)
		}
		fmt.Println()
	}

	return nil
}

// frameStatus renders a frame field for display: missing, inline payload
// (with its embedded size), or a plain file path.
func frameStatus(value *string) string {
	switch {
	case value == nil:
		return "(none)"
	case *value == "":
		return "(empty)"
	case script.IsInlinePayload(*value):
		return fmt.Sprintf("inline payload (%d KB embedded)", len(*value)/1024)
	default:
		return *value
	}
}
