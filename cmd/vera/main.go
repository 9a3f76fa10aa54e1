// Command vera is the terminal front-end of the VERA income records API.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"vera/internal/domain/registro"
	"vera/internal/platform/config"
	"vera/internal/platform/fetchcache"
	"vera/internal/platform/logging"
	"vera/internal/session"
	"vera/internal/transport/http/client"
)

type cli struct {
	cfg    config.ClientConfig
	asJSON bool
	stdin  io.Reader

	api     *client.Client
	cache   *fetchcache.Store
	session *session.Session
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root, c := newRootCmd(os.Stdin)
	err := root.ExecuteContext(ctx)
	c.teardown()
	if err != nil {
		fmt.Fprintln(os.Stderr, renderError(err))
		stop()
		os.Exit(exitCode(err))
	}
}

func newRootCmd(stdin io.Reader) (*cobra.Command, *cli) {
	c := &cli{cfg: config.LoadClient(), stdin: stdin}

	root := &cobra.Command{
		Use:   "vera",
		Short: "VERA - employee income records",
		Long: `vera lists, filters, edits and exports employee income records
served by the VERA API.

Configuration comes from VERA_* environment variables or a .env file;
flags override them.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&c.cfg.APIURL, "api", c.cfg.APIURL, "API base URL")
	flags.StringVar(&c.cfg.APIToken, "token", c.cfg.APIToken, "bearer token for the API")
	flags.BoolVar(&c.asJSON, "json", false, "print JSON instead of tables")

	root.AddCommand(
		c.listCmd(),
		c.getCmd(),
		c.createCmd(),
		c.updateCmd(),
		c.deleteCmd(),
		c.exportCmd(),
		c.watchCmd(),
		tokenCmd(),
	)
	return root, c
}

func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	logging.SetupWriter(cmd.ErrOrStderr(), "development", c.cfg.LogLevel)

	c.api = client.New(c.cfg.APIURL, c.cfg.HTTPTimeout, client.WithToken(c.cfg.APIToken))
	c.cache = fetchcache.New(fetchcache.Options{
		RetryCount:     c.cfg.RetryCount,
		RetryInterval:  c.cfg.RetryInterval,
		DedupeInterval: c.cfg.DedupeInterval,
		ShouldRetry:    client.Retryable,
	})
	validator := registro.NewValidator(registro.DefaultSalaryBounds())
	c.session = session.New(c.api, c.cache, validator, session.Options{
		PageSize: c.cfg.PageSize,
		Debounce: c.cfg.Debounce,
	})
	return nil
}

func (c *cli) teardown() {
	if c.cache != nil {
		c.cache.Close()
	}
}
