package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"organizer/internal/corrections"
)

func newCorrectionsCommand(ctx *commandContext) *cobra.Command {
	correctionsCmd := &cobra.Command{
		Use:   "corrections",
		Short: "Manage manual classification corrections",
	}

	correctionsCmd.AddCommand(newCorrectionsListCommand(ctx))
	correctionsCmd.AddCommand(newCorrectionsAddCommand(ctx))
	correctionsCmd.AddCommand(newCorrectionsFixCommand(ctx))
	correctionsCmd.AddCommand(newCorrectionsApplyCommand(ctx))
	correctionsCmd.AddCommand(newCorrectionsExportCommand(ctx))
	correctionsCmd.AddCommand(newCorrectionsImportCommand(ctx))

	return correctionsCmd
}

func newCorrectionsListCommand(ctx *commandContext) *cobra.Command {
	var pendingOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded corrections",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCorrections(func(mgr *corrections.Manager) error {
				list, err := mgr.All(cmd.Context())
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				rows := make([][]string, 0, len(list))
				for _, c := range list {
					if pendingOnly && c.Applied {
						continue
					}
					tmdbID := ""
					if c.TMDBID > 0 {
						tmdbID = strconv.FormatInt(c.TMDBID, 10)
					}
					applied := "no"
					if c.Applied {
						applied = "yes"
					}
					rows = append(rows, []string{
						c.Name,
						c.Original,
						c.Correct,
						c.Reason,
						tmdbID,
						applied,
						c.CreatedAt.Local().Format(time.DateTime),
					})
				}
				if len(rows) == 0 {
					fmt.Fprintln(out, "No corrections recorded")
					return nil
				}

				headers := []string{"Folder", "Original", "Correct", "Reason", "TMDB", "Applied", "Created"}
				aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}
				fmt.Fprintln(out, renderTable(out, headers, rows, aligns))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&pendingOnly, "pending", false, "Show only corrections not yet applied")
	return cmd
}

func newCorrectionsAddCommand(ctx *commandContext) *cobra.Command {
	var original string
	var reason string
	var tmdbID int64

	cmd := &cobra.Command{
		Use:   "add <folder> <correct-category>",
		Short: "Record a classification correction",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCorrections(func(mgr *corrections.Manager) error {
				if err := mgr.Record(cmd.Context(), args[0], original, args[1], reason, tmdbID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded correction for %s: %s\n", args[0], args[1])
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&original, "original", "Unknown", "Category the classifier originally chose")
	cmd.Flags().StringVar(&reason, "reason", "manual", "Reason for the correction")
	cmd.Flags().Int64Var(&tmdbID, "tmdb-id", 0, "TMDB identifier for the correct title")
	return cmd
}

func newCorrectionsFixCommand(ctx *commandContext) *cobra.Command {
	var reason string

	cmd := &cobra.Command{
		Use:   "fix <folder> <tmdb-id>",
		Short: "Rename an organized folder using the correct TMDB entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tmdbID, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil || tmdbID <= 0 {
				return fmt.Errorf("tmdb id must be a positive integer, got %q", args[1])
			}
			return ctx.withCorrections(func(mgr *corrections.Manager) error {
				if err := mgr.ApplyMetadata(cmd.Context(), args[0], tmdbID, reason); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Applied metadata correction for %s (tmdb-%d)\n", args[0], tmdbID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&reason, "reason", "wrong metadata match", "Reason for the correction")
	return cmd
}

func newCorrectionsApplyCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Mark all pending corrections as applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCorrections(func(mgr *corrections.Manager) error {
				applied, err := mgr.ApplyAll(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Applied %d corrections\n", applied)
				return nil
			})
		},
	}
}

func newCorrectionsExportCommand(ctx *commandContext) *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export corrections as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCorrections(func(mgr *corrections.Manager) error {
				out := cmd.OutOrStdout()
				if outputPath != "" {
					file, err := os.Create(outputPath)
					if err != nil {
						return fmt.Errorf("create export file: %w", err)
					}
					defer file.Close()

					count, err := mgr.Export(cmd.Context(), file)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "Exported %d corrections to %s\n", count, outputPath)
					return nil
				}
				_, err := mgr.Export(cmd.Context(), out)
				return err
			})
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Write the export to a file instead of stdout")
	return cmd
}

func newCorrectionsImportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import corrections from a JSON export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCorrections(func(mgr *corrections.Manager) error {
				file, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open import file: %w", err)
				}
				defer file.Close()

				count, err := mgr.Import(cmd.Context(), file)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d corrections\n", count)
				return nil
			})
		},
	}
}
