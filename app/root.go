// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"

	"github.com/mf010/dynamic-website-sub000/internal/config"
)

var (
	cfg config.Config
	err error
)

var rootCmd = &cobra.Command{
	Use:   "dynamic-website",
	Short: "dynamic-website is a small server-rendered content management system",
	Long: `dynamic-website is a small server-rendered content management system
with a public site for news, pages, services and sliders, and an admin
area for managing content, users and site settings.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
