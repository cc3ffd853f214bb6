package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// newFilesCmd creates the files subcommand
func newFilesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List the directories and files searched for connections, in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			dirs, err := current.resolver.CandidateDirectories()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderSearchTree(dirs))
			return nil
		},
	}
}

// newCheckCmd creates the check subcommand
func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Parse every connections file and report the ones that fail",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := current.resolver.CandidateFiles()
			if err != nil {
				return err
			}
			failures, err := current.resolver.Check()
			if err != nil {
				return err
			}

			for _, path := range files {
				if ferr, ok := failures[path]; ok {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", badFormat("FAIL"), ferr)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", goodFormat("ok  "), path)
			}

			if len(failures) > 0 {
				fmt.Fprintf(os.Stderr, "%d of %d files failed to parse\n", len(failures), len(files))
				return fmt.Errorf("malformed connections files")
			}
			return nil
		},
	}
}
