package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/storyreel/scriptdoctor/internal/fixcmd"
)

func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scriptdoctor",
		Short: "Repair tool for scene scripts corrupted by inline frame data",
		Long: `Scriptdoctor repairs scene script JSON files that were corrupted by
truncated inline frame thumbnails (base64 data URIs embedded in the script).

It rewrites each inline thumbnail as a lightweight frame file path and, when
the file is too damaged for that, rebuilds a minimal valid script from every
scene record that survived intact. A backup of the original file is always
written before the script is overwritten.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	// Add subcommands
	cmd.AddCommand(fixcmd.NewFixCmd())
	cmd.AddCommand(fixcmd.NewInspectCmd())

	return cmd
}
