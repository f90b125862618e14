package root

import (
	"fmt"
	"os"

	"github.com/glitchgg/glitch/cmd/cli/auth"
	"github.com/spf13/cobra"
)

// Exported RootCmd
var RootCmd = &cobra.Command{
	Use:   "glitch",
	Short: "Glitch social gaming CLI",
	Long:  "Command line interface for the Glitch social gaming API",
}

func init() {
	auth.InitAuth(RootCmd)
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// Optional helper to return the RootCmd
func GetRoot() *cobra.Command {
	return RootCmd
}
