package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// surfaceCommand is one command in the CLI surface manifest.
type surfaceCommand struct {
	Name        string           `json:"name"`
	Aliases     []string         `json:"aliases,omitempty"`
	Short       string           `json:"short"`
	Flags       []surfaceFlag    `json:"flags,omitempty"`
	Subcommands []surfaceCommand `json:"subcommands,omitempty"`
}

type surfaceFlag struct {
	Long    string `json:"long"`
	Short   string `json:"short,omitempty"`
	Type    string `json:"type"`
	Default string `json:"default,omitempty"`
}

type surfaceManifest struct {
	CLI         string           `json:"cli"`
	Version     string           `json:"version"`
	GlobalFlags []surfaceFlag    `json:"global_flags"`
	Commands    []surfaceCommand `json:"commands"`
}

// newSurfaceCmd prints a JSON manifest of root's command tree. Scripts diff
// it to notice flag or command changes.
func newSurfaceCmd(root *cobra.Command) *cobra.Command {
	return &cobra.Command{
		Use:    "surface",
		Short:  "Print the command surface as JSON",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := json.MarshalIndent(extractManifest(root), "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(payload))
			return err
		},
	}
}

func extractManifest(root *cobra.Command) surfaceManifest {
	return surfaceManifest{
		CLI:         root.Name(),
		Version:     root.Version,
		GlobalFlags: extractFlags(root.PersistentFlags()),
		Commands:    extractSubcommands(root),
	}
}

func extractSubcommands(cmd *cobra.Command) []surfaceCommand {
	var cmds []surfaceCommand
	for _, c := range cmd.Commands() {
		if c.Hidden || c.Name() == "help" {
			continue
		}
		cmds = append(cmds, surfaceCommand{
			Name:        c.Name(),
			Aliases:     c.Aliases,
			Short:       c.Short,
			Flags:       extractFlags(c.LocalNonPersistentFlags()),
			Subcommands: extractSubcommands(c),
		})
	}
	sort.Slice(cmds, func(i, j int) bool { return cmds[i].Name < cmds[j].Name })
	return cmds
}

func extractFlags(fs *pflag.FlagSet) []surfaceFlag {
	var flags []surfaceFlag
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Name == "help" {
			return
		}
		flags = append(flags, surfaceFlag{
			Long:    f.Name,
			Short:   f.Shorthand,
			Type:    f.Value.Type(),
			Default: f.DefValue,
		})
	})
	sort.Slice(flags, func(i, j int) bool { return flags[i].Long < flags[j].Long })
	return flags
}
