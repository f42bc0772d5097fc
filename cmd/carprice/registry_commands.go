package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"carprice/internal/registry"
)

func newRegistryCommand(ctx *commandContext) *cobra.Command {
	registryCmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect and manage registered model versions",
	}
	registryCmd.AddCommand(newRegistryListCommand(ctx))
	registryCmd.AddCommand(newRegistryPromoteCommand(ctx))
	registryCmd.AddCommand(newRegistryResolveCommand(ctx))
	return registryCmd
}

func newRegistryListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered versions of the configured model",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := registry.Open(cfg.RegistryPath())
			if err != nil {
				return err
			}
			defer store.Close()

			versions, err := store.List(cmd.Context(), cfg.Registry.ModelName)
			if err != nil {
				return err
			}
			if len(versions) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No versions of %q registered\n", cfg.Registry.ModelName)
				return nil
			}

			rows := make([][]string, 0, len(versions))
			for _, v := range versions {
				rows = append(rows, []string{
					strconv.Itoa(v.Version),
					v.Stage,
					v.RunID,
					v.CreatedAt.Format("2006-01-02 15:04:05"),
					v.ArtifactPath,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Version", "Stage", "Run ID", "Created", "Artifact"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
}

func newRegistryPromoteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "promote <version>",
		Short: "Flag a registered version as production",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("version must be an integer: %w", err)
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := registry.Open(cfg.RegistryPath())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Promote(cmd.Context(), cfg.Registry.ModelName, version); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Promoted %s version %d to production\n",
				cfg.Registry.ModelName, version)
			return nil
		},
	}
}

func newRegistryResolveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Show the version the daemon would serve",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := registry.Open(cfg.RegistryPath())
			if err != nil {
				return err
			}
			defer store.Close()

			v, err := store.Resolve(cmd.Context(), cfg.Registry.ModelName)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %d (stage %s, run %s)\n",
				v.Name, v.Version, v.Stage, v.RunID)
			return nil
		},
	}
}
