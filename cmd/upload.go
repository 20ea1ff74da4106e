package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	verdict "github.com/verdicthq/verdict-go"
	"github.com/verdicthq/verdict-go/api"
	"github.com/verdicthq/verdict-go/flags"
)

func uploadCommand() *cli.Command {
	return &cli.Command{
		Name:      "upload",
		Usage:     "Upload project artifacts and report the sync status",
		ArgsUsage: "<file> [<file>...]",
		Flags:     append(append([]cli.Flag{flags.ProjectID}, flags.APIFlags...), flags.LogFlags...),
		Action:    uploadAction,
	}
}

func uploadAction(cliCtx *cli.Context) error {
	logger, err := setupLogging(cliCtx)
	if err != nil {
		return verdict.NewRuntimeError(err)
	}

	projectID := cliCtx.String(flags.ProjectID.Name)
	if projectID == "" {
		return verdict.NewRuntimeError(errors.New("project id is required"))
	}
	paths := cliCtx.Args().Slice()
	if len(paths) == 0 {
		return verdict.NewRuntimeError(errors.New("at least one artifact file is required"))
	}

	client := api.NewProjectClient(
		cliCtx.String(flags.APIBaseURL.Name),
		cliCtx.String(flags.APIKey.Name))

	g, ctx := errgroup.WithContext(cliCtx.Context)
	for _, path := range paths {
		g.Go(func() error {
			content, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("reading artifact %s: %w", path, err)
			}
			if _, err := client.UploadArtifact(ctx, projectID, filepath.Base(path), content); err != nil {
				return fmt.Errorf("uploading artifact %s: %w", path, err)
			}
			logger.Info("Artifact uploaded", "file", path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return verdict.NewRuntimeError(err)
	}

	status, err := client.GetSyncStatus(cliCtx.Context, projectID)
	if err != nil {
		return verdict.NewRuntimeError(fmt.Errorf("failed to fetch sync status: %w", err))
	}

	fmt.Fprintf(cliCtx.App.Writer, "Sync status: %s (%s)\n", status.SyncStatus, status.SyncDate)
	return nil
}
