package handlers

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/mmcdole/reverig/internal/domain"
	"github.com/mmcdole/reverig/internal/search"
)

// HistoryOptions holds the history command flags
type HistoryOptions struct {
	App   string
	Match string
	Limit int
	Clear bool
}

// History handles the history command.
func History(ctx context.Context, out io.Writer, configPath string, opts HistoryOptions) error {
	e, err := openEnv(ctx, configPath, false)
	if err != nil {
		return err
	}
	defer e.Close()

	if opts.Clear {
		if err := e.history.Clear(); err != nil {
			return err
		}
		fmt.Fprintln(out, "History cleared")
		return nil
	}

	var entries []domain.HistoryEntry
	if opts.App != "" {
		id, err := domain.ParseAppID(opts.App)
		if err != nil {
			return err
		}
		entries, err = e.history.ForApp(id)
		if err != nil {
			return err
		}
	} else {
		entries, err = e.history.List()
		if err != nil {
			return err
		}
	}

	if opts.Match != "" {
		entries = search.Rank(opts.Match, entries)
	}
	if opts.Limit > 0 && len(entries) > opts.Limit {
		entries = entries[:opts.Limit]
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No operations recorded")
		return nil
	}
	return printHistory(out, entries)
}

func printHistory(out io.Writer, entries []domain.HistoryEntry) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FINISHED\tAPP\tTITLE\tOPERATION\tOUTCOME\tDURATION\tDETAIL")
	for _, e := range entries {
		detail := e.Error
		if detail == "" {
			detail = e.LastAPI
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t%s\t%s\n",
			e.FinishedAt.Local().Format("2006-01-02 15:04"),
			e.AppID,
			e.DisplayTitle(),
			e.Operation,
			e.Outcome,
			e.Duration().Round(time.Second),
			detail,
		)
	}
	return w.Flush()
}
