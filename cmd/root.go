package cmd

import (
	"context"
	"log"

	"github.com/spf13/cobra"

	"github.com/bjulian5/workops/cmd/browse"
	"github.com/bjulian5/workops/cmd/iterations"
	"github.com/bjulian5/workops/cmd/list"
	"github.com/bjulian5/workops/cmd/open"
	"github.com/bjulian5/workops/cmd/users"
	"github.com/bjulian5/workops/internal/common"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "workops",
	Short: "Azure DevOps to-do list in the terminal",
	Long: `Workops gathers your Azure DevOps work into one to-do tree.

It shows the work items of the current iteration grouped by area, the items
that mention you, and the pull requests you created or review, each with a
status telling you whether you or someone else has to act next.

Configuration is read from the environment (or a .env file):
  AZURE_DEVOPS_ORG_URL    organization URL, e.g. https://dev.azure.com/contoso
  AZURE_DEVOPS_EXT_PAT    personal access token
  AZURE_DEVOPS_PROJECT    project name or id`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		log.Fatal(err)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&common.Globals.OrgURL, "org", "", "Organization URL (overrides AZURE_DEVOPS_ORG_URL)")
	rootCmd.PersistentFlags().StringVarP(&common.Globals.Project, "project", "p", "", "Project name or id (overrides AZURE_DEVOPS_PROJECT)")

	// Register all commands
	commands := []Command{
		&list.Command{},
		&open.Command{},
		&browse.Command{},
		&iterations.Command{},
		&users.Command{},
	}

	for _, cmd := range commands {
		cmd.Register(rootCmd)
	}
}
