package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/domain/model"
	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
)

func cmdCreateStore() *cli.Command {
	var appCfg appConfig

	return &cli.Command{
		Name:      "create-store",
		Usage:     "Create a knowledge store and make it the default store",
		ArgsUsage: "<display name>",
		Flags:     appCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			displayName := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if displayName == "" {
				return cli.Exit("display name is required", 1)
			}

			a, err := appCfg.build(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			store, err := a.uc.Store.CreateStore(ctx, displayName)
			if err != nil {
				return describe(err)
			}
			if err := a.rememberStore(ctx, store.ID); err != nil {
				return err
			}

			fmt.Printf("%s %s (%s)\n", color.GreenString("Created"), store.ID, store.Mode)
			return nil
		},
	}
}

func cmdStores() *cli.Command {
	var appCfg appConfig
	var use string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "use",
			Usage:       "Make the given store the default store",
			Destination: &use,
		},
	}
	flags = append(flags, appCfg.Flags()...)

	return &cli.Command{
		Name:  "stores",
		Usage: "List known stores",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			a, err := appCfg.build(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if use != "" {
				id := model.NormalizeStoreID(use)
				if err := id.Validate(); err != nil {
					return describe(err)
				}
				if err := a.rememberStore(ctx, id); err != nil {
					return err
				}
			}

			stores, err := a.uc.Store.ListStores(ctx)
			if err != nil {
				return err
			}
			current, _ := a.storeID(ctx, "")

			for _, st := range stores {
				marker := "  "
				if st.ID == current {
					marker = color.GreenString("* ")
				}
				fmt.Printf("%s%s\t%s\t%s\n", marker, st.ID, st.Mode, st.DisplayName)
			}
			return nil
		},
	}
}

func cmdFiles() *cli.Command {
	var appCfg appConfig
	var store string
	var remove string

	flags := []cli.Flag{
		storeFlag(&store),
		&cli.StringFlag{
			Name:        "delete",
			Usage:       "Unlink the named file from the store",
			Destination: &remove,
		},
	}
	flags = append(flags, appCfg.Flags()...)

	return &cli.Command{
		Name:  "files",
		Usage: "List files linked to the store",
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

			if remove != "" {
				if err := a.uc.Catalog.DeleteFile(ctx, storeID, remove); err != nil {
					return describe(err)
				}
				fmt.Printf("%s %s\n", color.YellowString("Deleted"), remove)
			}

			files := a.uc.Catalog.ListFiles(ctx, storeID)
			if len(files) == 0 {
				fmt.Println(color.HiBlackString("(no files)"))
				return nil
			}
			for _, f := range files {
				fmt.Println(f)
			}
			return nil
		},
	}
}

// describe turns a domain error into a one-line message for the terminal
func describe(err error) error {
	return cli.Exit(color.RedString("error: ")+model.Describe(err), 1)
}
