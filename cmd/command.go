package cmd

import "github.com/spf13/cobra"

// Command is a workops subcommand that can register itself with cobra
type Command interface {
	// Register adds the command and its flags to the parent cobra command
	Register(parent *cobra.Command)
}
