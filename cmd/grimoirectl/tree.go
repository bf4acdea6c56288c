package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"grimoires/internal/domain/models/grimoire"
	"grimoires/internal/repository"
	"grimoires/internal/service"
)

func newTreeCmd() *cobra.Command {
	var (
		userID        string
		structureType string
		asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "tree <game-id>",
		Short: "Print a structure tree of a game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if userID == "" {
				userID = cfg.DevUserID
			}

			logger := newLogger()
			repos, err := repository.Open(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer repos.Close()

			registry, err := service.SetupRules(cfg, logger)
			if err != nil {
				return err
			}
			images, err := service.SetupImageStore(cfg, registry)
			if err != nil {
				return err
			}
			services := service.SetupServices(repos, registry, images, cfg, logger)

			structure, err := services.Structures.GetStructure(cmd.Context(), userID, args[0], structureType)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(structure)
			}
			fmt.Fprint(out, renderTree(structure.Nodes))
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "Caller user ID (defaults to DEV_USER_ID)")
	cmd.Flags().StringVarP(&structureType, "type", "t", "reference", "Structure type")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw structure document")
	return cmd
}

// renderTree draws one line per node, indented by depth
func renderTree(nodes []*grimoire.Node) string {
	var b strings.Builder
	grimoire.Walk(nodes, func(n *grimoire.Node, depth int) bool {
		b.WriteString(strings.Repeat("  ", depth-1))
		if n.IsFolder() {
			fmt.Fprintf(&b, "%s/\n", n.Name)
		} else {
			fmt.Fprintf(&b, "%s [%s]\n", n.Name, n.FileType)
		}
		return true
	})
	return b.String()
}
