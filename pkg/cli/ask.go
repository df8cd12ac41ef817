package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
)

func cmdAsk() *cli.Command {
	var appCfg appConfig
	var store string

	flags := []cli.Flag{storeFlag(&store)}
	flags = append(flags, appCfg.Flags()...)

	return &cli.Command{
		Name:      "ask",
		Usage:     "Answer a question from the store's documents",
		ArgsUsage: "<question>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if question == "" {
				return cli.Exit("question is required", 1)
			}

			a, err := appCfg.build(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			storeID, err := a.storeID(ctx, store)
			if err != nil {
				return describe(err)
			}

			answer, err := a.uc.Query.Query(ctx, storeID, question)
			if err != nil {
				return describe(err)
			}

			fmt.Println(answer.Text)
			if sources := answer.Sources(); len(sources) > 0 {
				fmt.Println()
				fmt.Println(color.CyanString("Sources:"))
				for _, s := range sources {
					fmt.Printf("  - %s\n", s)
				}
			}
			return nil
		},
	}
}

func cmdSuggest() *cli.Command {
	var appCfg appConfig
	var store string

	flags := []cli.Flag{storeFlag(&store)}
	flags = append(flags, appCfg.Flags()...)

	return &cli.Command{
		Name:  "suggest",
		Usage: "Suggest questions answerable from the store",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := appCfg.build(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			storeID, err := a.storeID(ctx, store)
			if err != nil {
				return describe(err)
			}

			printQuestions(a.uc.Query.SuggestQuestions(ctx, storeID))
			return nil
		},
	}
}
