package cli

import (
	"context"
	"fmt"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/logging"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/safe"
	"github.com/fatih/color"
	"github.com/m-mizutani/fireconf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdMigrate() *cli.Command {
	var projectID string
	var databaseID string
	var collectionPrefix string
	var dryRun bool

	return &cli.Command{
		Name:    "migrate",
		Aliases: []string{"m"},
		Usage:   "Create the Firestore indexes used by the catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "firestore-project-id",
				Usage:       "Firestore Project ID (required)",
				Required:    true,
				Sources:     cli.EnvVars("FILESEARCH_FIRESTORE_PROJECT_ID"),
				Destination: &projectID,
			},
			&cli.StringFlag{
				Name:        "firestore-database-id",
				Usage:       "Firestore Database ID",
				Sources:     cli.EnvVars("FILESEARCH_FIRESTORE_DATABASE_ID"),
				Destination: &databaseID,
			},
			&cli.StringFlag{
				Name:        "firestore-collection-prefix",
				Usage:       "Prefix prepended to every Firestore collection name",
				Sources:     cli.EnvVars("FILESEARCH_FIRESTORE_COLLECTION_PREFIX"),
				Destination: &collectionPrefix,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "Print pending index changes without applying them",
				Destination: &dryRun,
			},
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			logging.Default().Info("Syncing Firestore indexes",
				"project_id", projectID,
				"database_id", databaseID,
				"collection_prefix", collectionPrefix,
				"dry_run", dryRun)

			client, err := fireconf.NewClient(ctx, projectID, databaseID)
			if err != nil {
				return goerr.Wrap(err, "failed to create fireconf client",
					goerr.V("project_id", projectID),
					goerr.V("database_id", databaseID))
			}
			defer safe.Close(ctx, client)

			indexConfig := getIndexConfig(collectionPrefix)
			plan, err := client.GetMigrationPlan(ctx, indexConfig)
			if err != nil {
				return goerr.Wrap(err, "failed to create migration plan")
			}

			if len(plan.Steps) == 0 {
				fmt.Println(color.GreenString("indexes are up to date"))
				return nil
			}
			for _, step := range plan.Steps {
				line := fmt.Sprintf("%v %s: %s", step.Operation, step.Collection, step.Description)
				if step.Destructive {
					line = color.RedString(line + " (destructive)")
				}
				fmt.Println(line)
			}
			if dryRun {
				return nil
			}

			if err := client.Migrate(ctx, indexConfig); err != nil {
				return goerr.Wrap(err, "failed to apply index migration")
			}
			logging.From(ctx).Info("Index migration applied", "steps", len(plan.Steps))
			fmt.Println(color.GreenString("applied %d index change(s)", len(plan.Steps)))
			return nil
		},
	}
}

// getIndexConfig lists the composite and vector indexes the firestore repository queries rely on
func getIndexConfig(prefix string) *fireconf.Config {
	return &fireconf.Config{
		Collections: []fireconf.Collection{
			{
				Name: prefix + "records",
				Indexes: []fireconf.Index{
					// List: StoreID ASC, SourceFileName ASC
					{
						Fields: []fireconf.IndexField{
							{Path: "StoreID", Order: fireconf.OrderAscending},
							{Path: "SourceFileName", Order: fireconf.OrderAscending},
						},
					},
				},
			},
			{
				Name: prefix + "chunks",
				Indexes: []fireconf.Index{
					// FindByEmbedding: nearest neighbours within one store
					{
						Fields: []fireconf.IndexField{
							{Path: "StoreID", Order: fireconf.OrderAscending},
							{
								Path: "Embedding",
								Vector: &fireconf.VectorConfig{
									Dimension: model.EmbeddingDimension,
								},
							},
						},
					},
				},
			},
		},
	}
}
