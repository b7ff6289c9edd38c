// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "xanhenergy-admin",
	Short: "xanhenergy-admin is the back office of the Xanh Energy website",
	Long: `xanhenergy-admin is the back office of the Xanh Energy website.
It serves the admin REST API for posts, projects, partners, contact
messages, site settings and image galleries, plus the uploads store.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
