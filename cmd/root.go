package cmd

import (
	"github.com/spf13/cobra"
)

const banner = `          _        _           _ 
  _ __ ___ | | _____| |__   __ _/ |
 | '_ ' _ \| |/ / __| '_ \ / _' | |
 | | | | | |   <\__ \ | | | (_| | |
 |_| |_| |_|_|\_\___/_| |_|\__,_|_|`

var rootCmd = &cobra.Command{
	Use:   "mksha1",
	Short: "A tool to compute and verify SHA-1 checksums",
	Long:  banner + "\n\nmksha1 is a tool to compute SHA-1 checksums of files, streams and text\nand to verify them against checksum lists.",
}

func init() {
	cobra.EnableCommandSorting = false
	rootCmd.AddCommand(hashCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCmd)
}

const commonUsageTemplate = `Usage:
  {{.CommandPath}} [command]

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}

Use "{{.CommandPath}} [command] --help" for more information about a command.
`

func Execute() error {
	rootCmd.Use = appName
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SilenceUsage = false
	rootCmd.SetUsageTemplate(commonUsageTemplate)
	return rootCmd.Execute()
}
