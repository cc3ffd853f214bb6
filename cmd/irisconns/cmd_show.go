package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/willibrandon/irisconns/internal/conns"
	"gopkg.in/yaml.v3"
)

var showYAML bool

// shownConfig is the YAML form of a resolved connection.
type shownConfig struct {
	Name      string `yaml:"name"`
	Hostname  string `yaml:"hostname"`
	Port      string `yaml:"port"`
	Namespace string `yaml:"namespace"`
	Username  string `yaml:"username"`
	Confirm   bool   `yaml:"confirm"`
	Key       string `yaml:"key"`
}

// newShowCmd creates the show subcommand
func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Show how a connection name resolves, without connecting",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := connName
			if len(args) == 1 {
				name = args[0]
			}
			if name == "" {
				name = current.registry.DefaultName()
			}

			cfg, err := current.resolver.LoadConfig(name)
			if errors.Is(err, conns.ErrNotDeclared) {
				return fmt.Errorf("connection %q is not declared in any irisconns file", name)
			}
			if err != nil {
				return err
			}

			if showYAML {
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(shownConfig{
					Name:      name,
					Hostname:  cfg.Hostname,
					Port:      cfg.Port,
					Namespace: cfg.Namespace,
					Username:  cfg.Username,
					Confirm:   cfg.Confirm,
					Key:       string(cfg.IdentityKey()),
				})
			}

			printConfig(cmd.OutOrStdout(), name, cfg)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showYAML, "yaml", false, "output in YAML format")
	return cmd
}
