package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/mmcdole/reverig/internal/domain"
	"github.com/mmcdole/reverig/internal/page"
	"github.com/mmcdole/reverig/internal/service"
	"github.com/mmcdole/reverig/internal/workflow"
)

// InjectOptions holds the inject command arguments
type InjectOptions struct {
	File  string
	URL   string
	Out   string
	Click bool
	Watch bool
}

func (o InjectOptions) output() string {
	if o.Out != "" {
		return o.Out
	}
	return o.File
}

// Inject handles the inject command.
//
// Setup runs once against the parsed page and the result is written out.
// With Click the tool button is pressed and the page is rewritten on every
// workflow event; with Watch setup re-runs on each change of the file.
func Inject(ctx context.Context, out io.Writer, configPath string, opts InjectOptions) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	e, err := openEnv(ctx, configPath, true)
	if err != nil {
		return err
	}
	defer e.Close()

	doc, err := page.ParseFile(opts.File, opts.URL, e.logger)
	if err != nil {
		return err
	}

	inj := &injector{
		setup:  e.setup(),
		out:    out,
		path:   opts.output(),
		logger: e.logger,
		titles: e.history,
	}
	id, err := inj.apply(ctx, doc)
	if err != nil {
		return err
	}

	if opts.Click {
		if err := inj.click(ctx, e, doc, id); err != nil {
			return err
		}
	}

	if opts.Watch {
		fmt.Fprintf(out, "Watching %s (Ctrl+C to stop)\n", opts.File)
		return page.Watch(ctx, opts.File, opts.URL, e.logger, func(ctx context.Context, doc *page.Document) error {
			_, err := inj.apply(ctx, doc)
			return err
		})
	}
	return nil
}

// injector runs setup on documents and writes changed ones to path
type injector struct {
	setup  *workflow.Setup
	out    io.Writer
	path   string
	logger *slog.Logger
	titles *service.HistoryService
}

// apply runs setup on doc and writes it when setup changed something
func (i *injector) apply(ctx context.Context, doc *page.Document) (domain.AppID, error) {
	id, err := doc.AppID()
	if err != nil {
		return 0, err
	}
	if title := doc.Title(); title != "" {
		i.titles.SetTitle(id, title)
	}

	before := doc.String()
	if err := i.setup.Run(ctx, doc, id); err != nil {
		if errors.Is(err, page.ErrNoButtonRow) {
			return id, fmt.Errorf("%s: %w", i.path, err)
		}
		return id, err
	}
	if doc.String() == before {
		i.logger.Debug("page unchanged", "path", i.path)
		return id, nil
	}

	if err := doc.WriteFile(i.path); err != nil {
		return id, err
	}
	fmt.Fprintf(i.out, "Updated %s: %s\n", i.path, doc.ButtonMode().Label())
	return id, nil
}

// click presses the tool button and rewrites the page after every event
func (i *injector) click(ctx context.Context, e *env, doc *page.Document, id domain.AppID) error {
	writer := domain.ObserverFunc(func(ev domain.WorkflowEvent) {
		if err := doc.WriteFile(i.path); err != nil {
			i.logger.Warn("failed to write page", "path", i.path, "error", err)
		}
	})
	printer := &progressPrinter{out: i.out}
	ctrl := e.controller(doc, writer, printer)

	err := ctrl.Click(ctx, id)
	if err == nil {
		if werr := ctrl.Wait(ctx); werr != nil {
			fmt.Fprintln(i.out, "Stopped following progress; the backend keeps working")
		}
	}
	ctrl.Close()

	if werr := doc.WriteFile(i.path); werr != nil && err == nil {
		err = werr
	}
	return err
}
