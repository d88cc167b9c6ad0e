package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"blockgarden/internal/bootstrap"
	focusdto "blockgarden/internal/modules/focus/dto"
	scheduledto "blockgarden/internal/modules/schedule/dto"
	"blockgarden/internal/platform/config"
	apperrors "blockgarden/internal/platform/errors"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dataDir string

	root := &cobra.Command{
		Use:           "blockgarden",
		Short:         "Time blocks, focus sessions and a garden that grows while you work",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&dataDir, "data", defaultDataDir(), "data directory")

	root.AddCommand(newTUICmd(&dataDir))
	root.AddCommand(newBlocksCmd(&dataDir))
	root.AddCommand(newFocusCmd(&dataDir))
	root.AddCommand(newGardenCmd(&dataDir))
	root.AddCommand(newSpeciesCmd(&dataDir))
	root.AddCommand(newSummarizeCmd(&dataDir))
	root.AddCommand(newAssistantCmd(&dataDir))
	root.AddCommand(newConfigCmd(&dataDir))
	return root
}

func defaultDataDir() string {
	if v := strings.TrimSpace(os.Getenv("BLOCKGARDEN_DATA")); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home + string(os.PathSeparator) + "blockgarden"
}

func loadApp(dataDir string) (*bootstrap.App, error) {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg)
}

// withApp opens the app for one command and always closes it.
func withApp(dataDir string, fn func(app *bootstrap.App) error) (err error) {
	app, err := loadApp(dataDir)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, app.Close())
	}()
	return fn(app)
}

func newTUICmd(dataDir *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				if !term.IsTerminal(int(os.Stdout.Fd())) {
					day, err := app.ScheduleCLI.Load(cmd.Context())
					if err != nil {
						return err
					}
					printDay(cmd.OutOrStdout(), day)
					return nil
				}
				return bootstrap.RunTUI(app)
			})
		},
	}
}

func newBlocksCmd(dataDir *string) *cobra.Command {
	blocks := &cobra.Command{Use: "blocks", Short: "Inspect and edit today's time blocks"}

	var asJSON bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List today's blocks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				day, err := app.ScheduleCLI.Load(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(cmd.OutOrStdout())
					enc.SetIndent("", "  ")
					return enc.Encode(day)
				}
				printDay(cmd.OutOrStdout(), day)
				return nil
			})
		},
	}
	list.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	var activity, status string
	var score int
	set := &cobra.Command{
		Use:   "set <id>",
		Short: "Update a block's activity, status or focus score",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("block id must be a number: %w", err)
			}
			input := scheduledto.UpdateBlockInput{ID: id}
			if cmd.Flags().Changed("activity") {
				input.Activity = &activity
			}
			if cmd.Flags().Changed("status") {
				input.Status = &status
			}
			if cmd.Flags().Changed("score") {
				input.FocusScore = &score
			}
			return withApp(*dataDir, func(app *bootstrap.App) error {
				if _, err := app.ScheduleCLI.Load(cmd.Context()); err != nil {
					return err
				}
				out, err := app.ScheduleCLI.Update(cmd.Context(), input)
				if err != nil {
					return err
				}
				if !out.Applied {
					return fmt.Errorf("%w: %d, nothing changed", apperrors.ErrUnknownBlock, id)
				}
				printDay(cmd.OutOrStdout(), out.Day)
				return nil
			})
		},
	}
	set.Flags().StringVar(&activity, "activity", "", "activity text")
	set.Flags().StringVar(&status, "status", "", "pending|active|completed|missed")
	set.Flags().IntVar(&score, "score", 0, "focus score 0..100")

	sel := &cobra.Command{
		Use:   "select <id>",
		Short: "Mark a block as the current one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("block id must be a number: %w", err)
			}
			return withApp(*dataDir, func(app *bootstrap.App) error {
				day, err := app.ScheduleCLI.Select(cmd.Context(), id)
				if err != nil {
					return err
				}
				printDay(cmd.OutOrStdout(), day)
				return nil
			})
		},
	}

	regenerate := &cobra.Command{
		Use:   "regenerate",
		Short: "Discard today's blocks and lay out a fresh day",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				day, err := app.ScheduleCLI.Regenerate(cmd.Context())
				if err != nil {
					return err
				}
				printDay(cmd.OutOrStdout(), day)
				return nil
			})
		},
	}

	blocks.AddCommand(list, set, sel, regenerate)
	return blocks
}

func newFocusCmd(dataDir *string) *cobra.Command {
	focus := &cobra.Command{Use: "focus", Short: "Run focus sessions"}

	var entity string
	var blockID int
	run := &cobra.Command{
		Use:   "run --entity <species>",
		Short: "Grow one plant or animal in the foreground; Ctrl-C harvests early",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(entity) == "" {
				return fmt.Errorf("--entity is required")
			}
			sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			req := focusRequest{Entity: entity, BlockID: blockID, HasBlock: cmd.Flags().Changed("block")}
			tty := term.IsTerminal(int(os.Stdout.Fd()))
			return withApp(*dataDir, func(app *bootstrap.App) error {
				return runFocus(sigCtx.Done(), cmd.OutOrStdout(), tty, app, req)
			})
		},
	}
	run.Flags().StringVar(&entity, "entity", "", "species id, e.g. pine or cat")
	run.Flags().IntVar(&blockID, "block", 0, "block to credit (defaults to the current block)")

	focus.AddCommand(run)
	return focus
}

type focusRequest struct {
	Entity   string
	BlockID  int
	HasBlock bool
}

// runFocus grows one entity in the foreground until the session finishes
// or interrupt closes. App calls use a background context so an interrupt
// still harvests and persists.
func runFocus(interrupt <-chan struct{}, out io.Writer, tty bool, app *bootstrap.App, req focusRequest) error {
	ctx := context.Background()
	if _, err := app.ScheduleCLI.Load(ctx); err != nil {
		return err
	}
	events, unsubscribe := app.FocusCLI.Subscribe(64)
	defer unsubscribe()

	if _, err := app.FocusCLI.SelectEntity(ctx, req.Entity); err != nil {
		return err
	}
	if req.HasBlock {
		if _, err := app.FocusCLI.SelectBlock(ctx, req.BlockID); err != nil {
			return err
		}
	}
	snap, err := app.FocusCLI.Start(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "growing %s for %s\n", snap.SelectedEntityID, clockText(snap.Duration))

	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))
	announce := func(stage int) {
		s, err := app.FocusCLI.Snapshot(ctx)
		if err != nil {
			return
		}
		tip := app.AssistantCLI.FocusTip(ctx, stage, s.StageName)
		_, _ = fmt.Fprintf(out, "\nstage %d: %s  %s\n", stage, s.StageName, tip.Text)
	}
	announce(snap.Stage)
	lastStage := snap.Stage

	for {
		select {
		case <-interrupt:
			res, err := app.FocusCLI.Stop(ctx)
			if err != nil {
				return err
			}
			printHarvest(out, res.Harvest)
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev.Kind {
			case "tick":
				if ev.Stage != lastStage {
					lastStage = ev.Stage
					announce(ev.Stage)
				}
				if tty && snap.Duration > 0 {
					frac := float64(snap.Duration-ev.Remaining) / float64(snap.Duration)
					_, _ = fmt.Fprintf(out, "\r%s %s", bar.ViewAs(frac), clockText(ev.Remaining))
				}
			case "harvested":
				printHarvest(out, ev.Harvest)
				return nil
			case "reset":
				printHarvest(out, nil)
				return nil
			}
		}
	}
}

func printHarvest(w io.Writer, h *focusdto.HarvestOutput) {
	if h == nil {
		_, _ = fmt.Fprintln(w, "\nsession ended without a harvest")
		return
	}
	_, _ = fmt.Fprintf(w, "\nharvested %s (%s, %s)", h.EntityID, strings.ToLower(h.EntityType), h.Reason)
	if h.BlockMarked {
		_, _ = fmt.Fprintf(w, ", block %d completed", h.BlockID)
	}
	_, _ = fmt.Fprintln(w)
}

func newGardenCmd(dataDir *string) *cobra.Command {
	garden := &cobra.Command{Use: "garden", Short: "Browse harvested plants and animals"}

	var entityType string
	list := &cobra.Command{
		Use:   "list",
		Short: "Count harvests per species",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				collection, err := app.GardenCLI.Collection(cmd.Context(), entityType)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%d)\n", collection.Name, collection.Total)
				for _, c := range collection.Counts {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  %-12s %d\n", c.Species.Label, c.Quantity)
				}
				return nil
			})
		},
	}
	list.Flags().StringVar(&entityType, "type", "plant", "plant|animal")

	stats := &cobra.Command{
		Use:   "stats",
		Short: "Show harvest totals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				s, err := app.GardenCLI.Stats(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "harvests=%d plants=%d animals=%d today=%d\n", s.Harvests, s.Plants, s.Animals, s.Today)
				return nil
			})
		},
	}

	history := &cobra.Command{
		Use:   "history",
		Short: "List every harvest, oldest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				items, err := app.GardenCLI.History(cmd.Context())
				if err != nil {
					return err
				}
				for _, item := range items {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s  %-8s %-7s %s\n", item.CompletedAt.Format("2006-01-02 15:04"), item.Name, strings.ToLower(item.Type), item.ID)
				}
				return nil
			})
		},
	}

	garden.AddCommand(list, stats, history)
	return garden
}

func newSpeciesCmd(dataDir *string) *cobra.Command {
	var entityType string
	species := &cobra.Command{
		Use:   "species",
		Short: "List the species you can grow",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				items, err := app.GardenCLI.Species(cmd.Context(), entityType)
				if err != nil {
					return err
				}
				for _, s := range items {
					if !s.Selectable {
						continue
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-8s %-7s %s\n", s.ID, strings.ToLower(s.Type), s.Label)
				}
				return nil
			})
		},
	}
	species.Flags().StringVar(&entityType, "type", "", "plant|animal (default both)")
	return species
}

func newSummarizeCmd(dataDir *string) *cobra.Command {
	var apply bool
	summarize := &cobra.Command{
		Use:   "summarize [snippet...]",
		Short: "Summarize activity snippets (arguments or stdin lines)",
		RunE: func(cmd *cobra.Command, args []string) error {
			snippets := args
			if len(snippets) == 0 {
				lines, err := readLines(cmd.InOrStdin())
				if err != nil {
					return err
				}
				snippets = lines
			}
			return withApp(*dataDir, func(app *bootstrap.App) error {
				text := app.AssistantCLI.Summarize(cmd.Context(), snippets)
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), text.Text)
				if !apply || text.Fallback {
					return nil
				}
				if _, err := app.ScheduleCLI.Load(cmd.Context()); err != nil {
					return err
				}
				current, ok, err := app.ScheduleCLI.Current(cmd.Context())
				if err != nil || !ok {
					return err
				}
				_, err = app.ScheduleCLI.SetActivity(cmd.Context(), current.ID, text.Text)
				return err
			})
		},
	}
	summarize.Flags().BoolVar(&apply, "apply", false, "write the summary into the current block")
	return summarize
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func newAssistantCmd(dataDir *string) *cobra.Command {
	assistant := &cobra.Command{Use: "assistant", Short: "Inspect assistant plugins"}
	doctor := &cobra.Command{
		Use:   "doctor",
		Short: "Check every declared plugin",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(*dataDir, func(app *bootstrap.App) error {
				results, err := app.AssistantCLI.Doctor(cmd.Context())
				if err != nil {
					return err
				}
				if len(results) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no plugins declared")
					return nil
				}
				for _, r := range results {
					mark := " "
					if r.Selected {
						mark = "*"
					}
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %s binary=%t checksum=%t lifecycle=%t", mark, r.Name, r.BinaryReachable, r.ChecksumValid, r.LifecycleOK)
					if r.Error != "" {
						_, _ = fmt.Fprintf(cmd.OutOrStdout(), " error=%q", r.Error)
					}
					_, _ = fmt.Fprintln(cmd.OutOrStdout())
				}
				return nil
			})
		},
	}
	assistant.AddCommand(doctor)
	return assistant
}

func newConfigCmd(dataDir *string) *cobra.Command {
	cfgCmd := &cobra.Command{Use: "config", Short: "Manage the configuration file"}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.New(*dataDir)
			if err != nil {
				return err
			}
			if _, err := os.Stat(cfg.ConfigPath); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force)", cfg.ConfigPath)
			}
			if err := config.Write(cfg, config.DefaultSettings()); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", cfg.ConfigPath)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	show := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*dataDir)
			if err != nil {
				return err
			}
			raw, err := yaml.Marshal(cfg.Settings)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", cfg.ConfigPath, raw)
			return nil
		},
	}

	cfgCmd.AddCommand(initCmd, show)
	return cfgCmd
}

func printDay(w io.Writer, day scheduledto.DayOutput) {
	for _, b := range day.Blocks {
		marker := " "
		if b.IsCurrent {
			marker = ">"
		}
		score := ""
		if b.FocusScore != nil {
			score = fmt.Sprintf(" [%d]", *b.FocusScore)
		}
		_, _ = fmt.Fprintf(w, "%s %2d  %s-%s  %-9s %s%s\n", marker, b.ID, b.StartTime, b.EndTime, b.Status, b.Activity, score)
	}
}

func clockText(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
