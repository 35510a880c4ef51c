package handlers

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/mmcdole/reverig/internal/adapter"
)

var saveConfig = adapter.SaveConfig

// Config handles the config command.
func Config(out io.Writer, configPath string, save bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if save {
		path, err := saveConfig(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Configuration saved to %s\n", path)
		return nil
	}

	metricsAddr := cfg.Metrics.Addr
	if metricsAddr == "" {
		metricsAddr = "(disabled)"
	}
	storePath := cfg.Store.Path
	if storePath == "" {
		storePath = "(memory only)"
	}

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "backend.transport\t%s\n", cfg.Backend.Transport)
	fmt.Fprintf(w, "backend.url\t%s\n", cfg.Backend.URL)
	fmt.Fprintf(w, "backend.plugin\t%s\n", cfg.Backend.Plugin)
	fmt.Fprintf(w, "backend.timeout\t%s\n", cfg.Backend.Timeout)
	fmt.Fprintf(w, "workflow.poll_interval\t%s\n", cfg.Workflow.PollInterval)
	fmt.Fprintf(w, "workflow.hide_delay\t%s\n", cfg.Workflow.HideDelay)
	fmt.Fprintf(w, "store.path\t%s\n", storePath)
	fmt.Fprintf(w, "metrics.addr\t%s\n", metricsAddr)
	fmt.Fprintf(w, "logging.file\t%s\n", cfg.Logging.File)
	fmt.Fprintf(w, "logging.level\t%s\n", cfg.Logging.Level)
	fmt.Fprintf(w, "logging.forward\t%t\n", cfg.Logging.Forward)
	return w.Flush()
}
