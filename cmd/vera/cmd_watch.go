package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/spf13/cobra"

	"vera/internal/domain/registro"
	"vera/internal/platform/fetchcache"
	"vera/internal/session"
)

func (c *cli) watchCmd() *cobra.Command {
	var filters filterFlags
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Filter by employee interactively, one line of input per search",
		Long: `watch reads employee search text from stdin, one line at a time, and
prints the table once typing pauses. End input with Ctrl-D.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := c.session.List()
			if err := filters.apply(cmd, view); err != nil {
				view.Close()
				return err
			}

			p := &statePrinter{cli: c, w: cmd.OutOrStdout()}
			done := make(chan struct{})
			go func() {
				defer close(done)
				for st := range view.Updates() {
					if !st.IsLoading {
						p.print(st)
					}
				}
			}()

			scanner := bufio.NewScanner(c.stdin)
			for scanner.Scan() {
				view.SetEmployeeFilter(scanner.Text())
			}
			view.FlushEmployeeFilter()

			st, err := view.Load(cmd.Context())
			view.Close()
			<-done
			if err != nil {
				return err
			}
			p.print(st)
			slog.Debug("watch finished", "searches", cachedSearches(c.cache))
			return scanner.Err()
		},
	}
	filters.register(cmd, false)
	return cmd
}

// cachedSearches counts the distinct list parameter sets fetched so far.
func cachedSearches(cache *fetchcache.Store) int {
	n := 0
	for _, key := range cache.Keys() {
		if registro.IsListKey(key) {
			n++
		}
	}
	return n
}

// statePrinter prints each parameter set once.
type statePrinter struct {
	cli *cli
	w   io.Writer

	mu   sync.Mutex
	last string
}

func (p *statePrinter) print(st session.ListState) {
	key := registro.ListKey(st.Params)
	if st.Err != nil {
		key += "|" + st.Err.Error()
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if key == p.last {
		return
	}
	p.last = key

	if st.Err != nil {
		fmt.Fprintln(p.w, renderError(st.Err))
		return
	}
	fmt.Fprintln(p.w, mutedStyle.Render(fmt.Sprintf("filtro %q", st.Params.Employee)))
	if err := p.cli.printList(p.w, st); err != nil {
		slog.Error("render list failed", "employee", st.Params.Employee, "err", err)
	}
}
