package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"grimoires/internal/archive"
	"grimoires/internal/repository"
	"grimoires/internal/seed"
	"grimoires/internal/service"
)

func newExportCmd() *cobra.Command {
	var (
		userID         string
		output         string
		structureTypes []string
	)

	cmd := &cobra.Command{
		Use:   "export <game-id>",
		Short: "Export a game with its trees, notes and pictures to a zip file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if userID == "" {
				userID = cfg.DevUserID
			}
			ctx := cmd.Context()
			gameID := args[0]

			logger := newLogger()
			repos, err := repository.Open(ctx, cfg, logger)
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

			game, err := services.Games.GetGame(ctx, gameID, userID)
			if err != nil {
				return err
			}
			bundle := &archive.Bundle{Game: game}
			for _, typ := range structureTypes {
				s, err := services.Structures.GetStructure(ctx, userID, gameID, typ)
				if err != nil {
					return err
				}
				bundle.Structures = append(bundle.Structures, s)
			}
			bundle.Notes, err = services.Notes.ListNotes(ctx, userID, gameID, nil)
			if err != nil {
				return err
			}

			if output == "" {
				output = fmt.Sprintf("game-%s.zip", gameID)
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := archive.WriteZip(f, bundle, os.DirFS(images.Root())); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "exported %s: %d notes, %d trees -> %s\n",
				game.Name, len(bundle.Notes), len(bundle.Structures), output)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "Caller user ID (defaults to DEV_USER_ID)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Zip file to write (default game-<id>.zip)")
	cmd.Flags().StringSliceVarP(&structureTypes, "type", "t", []string{seed.ReferenceStructure, seed.CharacterStructure}, "Structure types to include")
	return cmd
}

