package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"

	"github.com/charmbracelet/huh"

	"github.com/mmcdole/reverig/internal/domain"
	"github.com/mmcdole/reverig/internal/workflow"
)

// ErrConfirmationRequired is returned by restart without a terminal or --yes
var ErrConfirmationRequired = errors.New("confirmation required: pass --yes")

// Add handles the add command.
//
// It starts the install for one identifier and prints every status
// change until the backend reports done or failed. An interrupt stops
// polling without cancelling the backend's work.
func Add(ctx context.Context, out io.Writer, configPath, app string) error {
	id, err := domain.ParseAppID(app)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	e, err := openEnv(ctx, configPath, true)
	if err != nil {
		return err
	}
	defer e.Close()

	ctrl := e.controller(workflow.NewMemorySurface(), &progressPrinter{out: out})
	defer ctrl.Close()

	if err := ctrl.Start(ctx, id); err != nil {
		return err
	}
	if err := ctrl.Wait(ctx); err != nil {
		ctrl.CloseOverlay()
		fmt.Fprintln(out, "Stopped following progress; the backend keeps working")
		return nil
	}

	if ctrl.Phase(id) == domain.PhaseFailed {
		return fmt.Errorf("add %d: %w", id, domain.ErrRemoteFailure)
	}
	return nil
}

// Remove handles the remove command.
func Remove(ctx context.Context, out io.Writer, configPath, app string) error {
	id, err := domain.ParseAppID(app)
	if err != nil {
		return err
	}

	e, err := openEnv(ctx, configPath, true)
	if err != nil {
		return err
	}
	defer e.Close()

	surface := workflow.NewMemorySurface()
	surface.SetButtonMode(domain.ModeRemove)
	ctrl := e.controller(surface)
	defer ctrl.Close()

	if err := ctrl.Remove(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(out, "Removed %d\n", id)
	return nil
}

// Status handles the status command.
//
// Presence and the last poll status are fetched once; nothing is started.
func Status(ctx context.Context, out io.Writer, configPath, app string) error {
	id, err := domain.ParseAppID(app)
	if err != nil {
		return err
	}

	e, err := openEnv(ctx, configPath, true)
	if err != nil {
		return err
	}
	defer e.Close()

	presence, err := e.backend.HasTool(ctx, id)
	if err != nil {
		return err
	}
	mode := domain.ModeAdd
	if presence.Success && presence.Exists {
		mode = domain.ModeRemove
	}
	fmt.Fprintf(out, "App:      %d\n", id)
	fmt.Fprintf(out, "Added:    %t\n", presence.Success && presence.Exists)
	fmt.Fprintf(out, "Button:   %s\n", mode.Label())

	res, err := e.backend.AddStatus(ctx, id)
	switch {
	case err != nil:
		fmt.Fprintf(out, "Progress: unavailable (%v)\n", err)
	case !res.Success || res.State.Status == "":
		fmt.Fprintln(out, "Progress: none")
	default:
		fmt.Fprintf(out, "Progress: %s\n", describeState(res.State))
	}
	return nil
}

// Restart handles the restart command.
func Restart(ctx context.Context, out io.Writer, configPath string, yes, interactive bool) error {
	if !yes && !interactive {
		return ErrConfirmationRequired
	}

	e, err := openEnv(ctx, configPath, true)
	if err != nil {
		return err
	}
	defer e.Close()

	ctrl := e.controller(workflow.NewMemorySurface())
	defer ctrl.Close()

	requested := true
	err = ctrl.Restart(ctx, func(ctx context.Context) (bool, error) {
		if yes {
			return true, nil
		}
		ok, err := confirmRestart(ctx)
		requested = ok && err == nil
		return ok, err
	})
	if err != nil {
		return err
	}
	if requested {
		fmt.Fprintln(out, "Restart requested")
	}
	return nil
}

// confirmRestart asks on the terminal before restarting
var confirmRestart workflow.ConfirmFunc = func(ctx context.Context) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(domain.LabelRestart+"?").
				Description("Steam will close and start again").
				Affirmative("Restart").
				Negative("Cancel").
				Value(&ok),
		),
	).RunWithContext(ctx)
	if err != nil {
		return false, err
	}
	return ok, nil
}

// describeState renders a poll state as one line
func describeState(s domain.StatusState) string {
	line := s.Status.Label()
	if line == "" {
		line = string(s.Status)
	}
	if s.Status == domain.StatusDownloading {
		line += " " + domain.FormatPercent(s.Percent())
	}
	if s.CurrentAPI != "" {
		line += " (" + s.CurrentAPI + ")"
	}
	if s.Error != "" {
		line += ": " + s.Error
	}
	return line
}

// progressPrinter writes one line per visible change of the workflow
type progressPrinter struct {
	mu   sync.Mutex
	out  io.Writer
	last string
}

func (p *progressPrinter) OnEvent(e domain.WorkflowEvent) {
	var line string
	switch {
	case e.Phase == domain.PhaseStarting:
		line = domain.LabelWorking
	case e.Phase == domain.PhaseDone:
		line = domain.LabelAdded
	case e.Phase == domain.PhaseFailed:
		line = domain.LabelFailedHelp
		if e.State.Error != "" {
			line += " (" + e.State.Error + ")"
		}
	case e.State.Status != "":
		line = describeState(e.State)
	default:
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if line == p.last {
		return
	}
	p.last = line
	fmt.Fprintf(p.out, "[%d] %s\n", e.AppID, line)
}
