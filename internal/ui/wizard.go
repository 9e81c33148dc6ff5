package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"

	"transpors.dev/internal/config"
	"transpors.dev/internal/gtfs"
)

// ErrNoStops is returned when the wizard ends without any stop chosen.
var ErrNoStops = errors.New("no stops selected")

// Wizard walks the user through the first-run setup: where the feed lives and
// which stops to follow.
type Wizard struct {
	Paths  config.Paths
	Logger *slog.Logger
	// Out receives messages printed between prompts.
	Out        io.Writer
	Accessible bool

	// load retrieves and parses the feed, gtfs.InitGTFSManager when nil.
	load func(context.Context, gtfs.Config) (*gtfs.Manager, error)
}

// SetupResult is what the wizard produced. Manager holds the parsed feed so
// the caller can build schedules without parsing it again.
type SetupResult struct {
	Config  *config.AppConfig
	Manager *gtfs.Manager
}

func (wz *Wizard) out() io.Writer {
	if wz.Out != nil {
		return wz.Out
	}
	return os.Stdout
}

func (wz *Wizard) form(groups ...*huh.Group) *huh.Form {
	return huh.NewForm(groups...).
		WithTheme(huh.ThemeCharm()).
		WithAccessible(wz.Accessible)
}

// Run asks for the data file, retrieves and parses it, then collects stops
// until the user declines to add another.
func (wz *Wizard) Run(ctx context.Context) (*SetupResult, error) {
	var source string
	err := wz.form(huh.NewGroup(
		huh.NewInput().
			Title("Where is the GTFS data file?").
			Description("A URL to download or a path to a local GTFS zip.").
			Placeholder("https://example.com/gtfs.zip").
			Validate(requireValue("data file")).
			Value(&source),
	)).Run()
	if err != nil {
		return nil, err
	}
	source = strings.TrimSpace(source)

	if err := wz.Paths.EnsureDir(); err != nil {
		return nil, err
	}

	manager, err := wz.loadFeed(ctx, source)
	if err != nil {
		return nil, err
	}

	stops, err := wz.chooseStops(manager)
	if err != nil {
		return nil, err
	}

	unknownTimes := "first"
	err = wz.form(huh.NewGroup(
		huh.NewSelect[string]().
			Title("Where should departures without a time be listed?").
			Options(
				huh.NewOption("Before timed departures", "first"),
				huh.NewOption("After timed departures", "last"),
			).
			Value(&unknownTimes),
	)).Run()
	if err != nil {
		return nil, err
	}

	return &SetupResult{
		Config: &config.AppConfig{
			DataFileURL:  source,
			DataFilePath: manager.DataFile(),
			UnknownTimes: unknownTimes,
			Stops:        stops,
		},
		Manager: manager,
	}, nil
}

// loadFeed retrieves and parses source while a spinner runs. The result is
// only read once loading has finished.
func (wz *Wizard) loadFeed(ctx context.Context, source string) (*gtfs.Manager, error) {
	load := wz.load
	if load == nil {
		load = gtfs.InitGTFSManager
	}

	type result struct {
		manager *gtfs.Manager
		err     error
	}

	loadCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	loaded, stopSpinner := context.WithCancel(ctx)
	defer stopSpinner()

	done := make(chan result, 1)
	go func() {
		defer stopSpinner()
		manager, err := load(loadCtx, gtfs.Config{
			GtfsURL: source,
			DataDir: wz.Paths.Dir,
			Logger:  wz.Logger,
		})
		done <- result{manager: manager, err: err}
	}()

	err := spinner.New().
		Title(fmt.Sprintf("Retrieving and parsing %s...", source)).
		Accessible(wz.Accessible).
		Context(loaded).
		Run()
	if err != nil && !errors.Is(err, context.Canceled) {
		return nil, err
	}

	select {
	case res := <-done:
		if res.err != nil {
			return nil, res.err
		}
		if res.manager == nil {
			return nil, fmt.Errorf("no feed loaded from %s", source)
		}
		return res.manager, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (wz *Wizard) chooseStops(manager *gtfs.Manager) ([]config.Stop, error) {
	var chosen []config.Stop

	for {
		var query string
		err := wz.form(huh.NewGroup(
			huh.NewInput().
				Title("Search for a stop").
				Description("Part of the stop name, case does not matter.").
				Validate(requireValue("search")).
				Value(&query),
		)).Run()
		if err != nil {
			return nil, err
		}

		options := stopOptions(manager.SearchStops(query), chosen)
		if len(options) == 0 {
			fmt.Fprintf(wz.out(), "No stops match %q.\n", query)
			continue
		}

		var stopID string
		err = wz.form(huh.NewGroup(
			huh.NewSelect[string]().
				Title("Pick a stop").
				Options(options...).
				Value(&stopID),
		)).Run()
		if err != nil {
			return nil, err
		}

		stop, ok := manager.Stop(stopID)
		if !ok {
			return nil, fmt.Errorf("stop %q disappeared from the feed", stopID)
		}
		chosen = append(chosen, config.Stop{ID: stop.ID, Name: stop.Name})

		more := false
		err = wz.form(huh.NewGroup(
			huh.NewConfirm().
				Title("Add another stop?").
				Affirmative("Yes").
				Negative("No").
				Value(&more),
		)).Run()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}

	if len(chosen) == 0 {
		return nil, ErrNoStops
	}
	return chosen, nil
}

// stopOptions turns search matches into select options, leaving out stops
// already chosen.
func stopOptions(matches []gtfs.StopMatch, chosen []config.Stop) []huh.Option[string] {
	taken := make(map[string]bool, len(chosen))
	for _, s := range chosen {
		taken[s.ID] = true
	}

	options := make([]huh.Option[string], 0, len(matches))
	for _, m := range matches {
		if taken[m.Stop.ID] {
			continue
		}
		options = append(options, huh.NewOption(m.Label(), m.Stop.ID))
	}
	return options
}

func requireValue(what string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", what)
		}
		return nil
	}
}
