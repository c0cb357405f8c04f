package protocol

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/datazip-inc/olake-hydrator/catalog"
	"github.com/datazip-inc/olake-hydrator/types"
	"github.com/datazip-inc/olake-hydrator/utils"
	"github.com/datazip-inc/olake-hydrator/utils/logger"
)

// backfillPlanCmd lists the streams a schema diff requires to backfill
var backfillPlanCmd = &cobra.Command{
	Use:   "backfill-plan",
	Short: "list incremental streams that need a backfill after a schema change",
	Example: `
olake-hydrator backfill-plan --catalog path/to/catalog.json --diff path/to/diff.json
`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		configured, err := readCatalog(cmd.Context())
		if err != nil {
			return err
		}
		if diffPath == "" {
			return fmt.Errorf("--diff not passed")
		}

		diff := &types.CatalogDiff{}
		if err := utils.UnmarshalFile(diffPath, diff, false); err != nil {
			return err
		}

		backfill := catalog.StreamsToBackfill(diff, configured)
		logger.Infof("%d stream(s) to backfill", len(backfill))
		return writeJSON(cmd, outputPath, backfill)
	},
}

// resetCatalogCmd narrows a catalog to the streams being reset
var resetCatalogCmd = &cobra.Command{
	Use:   "reset-catalog",
	Short: "rewrite a catalog for a reset of the given streams",
	Example: `
olake-hydrator reset-catalog --catalog path/to/catalog.json --streams path/to/streams_to_reset.json
`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		configured, err := readCatalog(cmd.Context())
		if err != nil {
			return err
		}
		if streamsPath == "" {
			return fmt.Errorf("--streams not passed")
		}

		streamsToReset := []types.StreamDescriptor{}
		if err := utils.UnmarshalFile(streamsPath, &streamsToReset, false); err != nil {
			return err
		}

		return writeJSON(cmd, outputPath, catalog.TransformForReset(configured, streamsToReset))
	},
}

// readCatalog loads --catalog and applies field selection to it
func readCatalog(ctx context.Context) (*types.Catalog, error) {
	if catalogPath == "" {
		return nil, fmt.Errorf("--catalog not passed")
	}

	configured := &types.Catalog{}
	if err := utils.UnmarshalFile(catalogPath, configured, false); err != nil {
		return nil, err
	}
	return catalog.Prepare(ctx, configured)
}

func init() {
	for _, cmd := range []*cobra.Command{backfillPlanCmd, resetCatalogCmd} {
		cmd.Flags().StringVarP(&catalogPath, "catalog", "", "", "(Required) Configured catalog file")
	}
	backfillPlanCmd.Flags().StringVarP(&diffPath, "diff", "", "", "(Required) Applied catalog diff file")
	resetCatalogCmd.Flags().StringVarP(&streamsPath, "streams", "", "", "(Required) File with the stream descriptors to reset")
}
