package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/lojasmm/rbm/internal/store"
)

func uploadCmd() *cobra.Command {
	var (
		thumbnail string
		force     bool
	)

	cmd := &cobra.Command{
		Use:   "upload <file-url>",
		Short: "Register a public file with the platform and print its resource name",
		Long: `Uploaded names are cached in the agent's data directory, keyed by URL, so
repeated uploads of the same file reuse the earlier resource unless --force is set.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fileURL := args[0]

			ctx, cancel := commandContext()
			defer cancel()
			client, cfg, err := gateway(ctx)
			if err != nil {
				return err
			}

			db, err := store.NewBoltStore(filepath.Join(cfg.DataDir, "rbm.db"))
			if err != nil {
				return err
			}
			defer db.Close()

			if !force {
				cached, err := db.GetFile(fileURL)
				if err != nil {
					return err
				}
				if cached != nil && cached.ThumbnailURL == thumbnail {
					fmt.Fprintln(cmd.OutOrStdout(), cached.Name)
					return nil
				}
			}

			name, err := client.UploadFile(ctx, fileURL, thumbnail)
			if err != nil {
				return err
			}
			err = db.SaveFile(store.UploadedFile{
				URL:          fileURL,
				ThumbnailURL: thumbnail,
				Name:         name,
				UploadedAt:   time.Now(),
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), name)
			return nil
		},
	}

	cmd.Flags().StringVar(&thumbnail, "thumbnail", "", "public thumbnail URL")
	cmd.Flags().BoolVar(&force, "force", false, "upload even if the URL was uploaded before")
	return cmd
}
