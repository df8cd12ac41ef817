package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/usecase"
	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

// defaultStoreName is used when ingest has to create the first store
const defaultStoreName = "My Documents"

func readDocuments(paths []string, mimeType string) ([]*model.SourceDocument, error) {
	docs := make([]*model.SourceDocument, 0, len(paths))
	for _, p := range paths {
		// #nosec G304 - paths are provided by CLI arguments
		content, err := os.ReadFile(p)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to read document", goerr.V(model.FileNameKey, p))
		}
		docs = append(docs, model.NewSourceDocument(filepath.Base(p), content, mimeType))
	}
	return docs, nil
}

func cmdIngest() *cli.Command {
	var appCfg appConfig
	var store string
	var mimeType string
	var displayName string

	flags := []cli.Flag{
		storeFlag(&store),
		&cli.StringFlag{
			Name:        "mime-type",
			Usage:       "Declared MIME type of every file. Inferred from the extension when empty",
			Destination: &mimeType,
		},
		&cli.StringFlag{
			Name:        "display-name",
			Usage:       "Display name of the store created when none is selected yet",
			Value:       defaultStoreName,
			Destination: &displayName,
		},
	}
	flags = append(flags, appCfg.Flags()...)

	return &cli.Command{
		Name:      "ingest",
		Usage:     "Upload and link documents into the store, then suggest questions",
		ArgsUsage: "<file>...",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			if c.Args().Len() == 0 {
				return cli.Exit("at least one file is required", 1)
			}
			docs, err := readDocuments(c.Args().Slice(), mimeType)
			if err != nil {
				return err
			}

			a, err := appCfg.build(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			storeID, err := a.storeID(ctx, store)
			if store == "" && errors.Is(err, model.ErrInvalidStoreID) {
				if storeID, err = a.uc.Store.EnsureStore(ctx, displayName); err == nil {
					err = a.rememberStore(ctx, storeID)
				}
			}
			if err != nil {
				return describe(err)
			}

			bar := progressbar.NewOptions(len(docs),
				progressbar.OptionSetWriter(os.Stderr),
				progressbar.OptionSetDescription("starting"),
				progressbar.OptionShowCount(),
				progressbar.OptionSetWidth(30),
				progressbar.OptionClearOnFinish(),
			)
			result, err := a.uc.Build.BuildStore(ctx, storeID, docs, func(p usecase.BuildProgress) {
				switch p.Stage {
				case usecase.BuildStageIngest:
					_ = bar.Set(p.Index)
					bar.Describe("processing " + p.FileName)
				case usecase.BuildStageLink:
					bar.Describe("linking " + p.FileName)
				case usecase.BuildStageDone:
					_ = bar.Finish()
				}
			})
			if result != nil {
				for _, r := range result.Records {
					fmt.Printf("%s %s\n", color.GreenString("Linked"), r.SourceFileName)
				}
			}
			if err != nil {
				_ = bar.Exit()
				fmt.Println()
				return describe(err)
			}

			fmt.Printf("\n%s %s\n", color.CyanString("Store"), storeID)
			printQuestions(result.Questions)
			return nil
		},
	}
}

func printQuestions(questions []string) {
	fmt.Println(color.New(color.Bold).Sprint("Try asking:"))
	for _, q := range questions {
		fmt.Printf("  • %s\n", q)
	}
}
