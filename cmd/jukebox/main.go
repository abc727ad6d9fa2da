// cmd/jukebox/main.go
package main

import (
	"os"

	"github.com/spf13/cobra"

	v "github.com/keshon/jukebox/internal/version"
)

var rootCmd = &cobra.Command{
	Use:          "jukebox",
	Short:        "Discord music bot backed by Lavalink",
	Long:         v.AppDescription,
	RunE:         runBot,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(v.AppFullName())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
