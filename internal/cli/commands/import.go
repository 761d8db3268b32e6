package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jceal/stormwater-classifier/internal/ingest"
)

// NewImportCommand creates the import command with its subcommands.
func NewImportCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import reference datasets into the state database",
		Long: `Load the reference datasets the location lookups depend on.
Each import replaces the previous contents of its table.`,
	}

	cmd.AddCommand(newImportPlutoCommand())
	cmd.AddCommand(newImportMS4Command())

	return cmd
}

func newImportPlutoCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "pluto <file.csv>",
		Short:   "Import MapPLUTO parcel records from CSV",
		Example: "  stormwater import pluto data/pluto.csv",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			parcels, err := ingest.ReadPlutoFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read PLUTO file: %w", err)
			}

			n, err := cc.Store.ReplaceParcels(parcels)
			if err != nil {
				return fmt.Errorf("failed to store parcels: %w", err)
			}

			cc.Logger.Info("imported parcels", "file", args[0], "count", n)
			cc.Renderer.Success(fmt.Sprintf("Imported %d parcels from %s", n, args[0]))
			return nil
		},
	}
}

func newImportMS4Command() *cobra.Command {
	return &cobra.Command{
		Use:     "ms4 <file.geojson>",
		Short:   "Import MS4 drainage areas from GeoJSON",
		Example: "  stormwater import ms4 data/ms4_areas.geojson",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			areas, err := ingest.ReadMS4File(args[0])
			if err != nil {
				return fmt.Errorf("failed to read MS4 file: %w", err)
			}

			n, err := cc.Store.ReplaceMS4Areas(areas)
			if err != nil {
				return fmt.Errorf("failed to store MS4 areas: %w", err)
			}

			cc.Logger.Info("imported MS4 areas", "file", args[0], "count", n)
			cc.Renderer.Success(fmt.Sprintf("Imported %d MS4 drainage areas from %s", n, args[0]))
			return nil
		},
	}
}
