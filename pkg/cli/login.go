package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/cli/config"
	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdLogin() *cli.Command {
	var auth config.Auth

	return &cli.Command{
		Name:  "login",
		Usage: "Save the API key to the session file",
		Flags: auth.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			key := auth.FlagKey()
			if key == "" {
				fmt.Fprint(os.Stderr, "Gemini API key: ")
				line, err := bufio.NewReader(os.Stdin).ReadString('\n')
				if err != nil && line == "" {
					return goerr.Wrap(err, "failed to read API key")
				}
				key = config.Credential(strings.TrimSpace(line))
			}
			if key == "" {
				return cli.Exit("API key is empty", 1)
			}

			path := auth.SessionPath()
			session, err := config.LoadSession(path)
			if err != nil {
				return err
			}
			session.APIKey = key
			if err := config.SaveSession(path, session); err != nil {
				return err
			}

			fmt.Printf("%s credentials saved to %s\n", color.GreenString("Logged in:"), path)
			return nil
		},
	}
}
