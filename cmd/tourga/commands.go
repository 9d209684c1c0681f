package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tourga/internal/catalog"
	"tourga/internal/config"
	"tourga/internal/ga"
	"tourga/internal/logging"
	"tourga/internal/route"
	"tourga/internal/stats"
)

// app is the state shared by every subcommand for one invocation
type app struct {
	configPath string
	seed       int64
	verbose    bool
	noOpLog    bool

	cfg   *config.Config
	cat   *catalog.Catalog
	rng   *rand.Rand
	log   *zap.Logger
	opLog *logging.OpLog
	out   io.Writer
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "tourga",
		Short:         "Inspect cyclic tours and the genetic operators over them",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "configs/tourga.yaml", "path to config file")
	root.PersistentFlags().Int64Var(&a.seed, "seed", 0, "random seed (overrides config)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVar(&a.noOpLog, "no-oplog", false, "do not write the CSV/JSONL route log")

	root.AddCommand(
		newShuffleCmd(a),
		newEvalCmd(a),
		newMutateCmd(a),
		newCrossCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = a.seed
	}
	a.cfg = cfg

	a.log, err = logging.New(cfg.Logging.Level, a.verbose)
	if err != nil {
		return err
	}

	a.cat, err = catalog.Load(cfg.Catalog.Path)
	if err != nil {
		return err
	}

	if !a.noOpLog {
		a.opLog, err = logging.NewOpLog(cfg.Logging.CSVPath, cfg.Logging.JSONPath, a.log)
		if err != nil {
			return fmt.Errorf("creating route log: %w", err)
		}
	}

	a.rng = rand.New(rand.NewSource(cfg.Seed))
	a.out = cmd.OutOrStdout()

	a.log.Debug("setup complete",
		zap.String("config", a.configPath),
		zap.String("catalog", cfg.Catalog.Path),
		zap.Int("destinations", a.cat.Len()),
		zap.Int64("seed", cfg.Seed))
	return nil
}

func (a *app) teardown() error {
	var err error
	if a.opLog != nil {
		err = a.opLog.Close()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
	return err
}

// show evaluates r if needed, prints it and records it in the route log
func (a *app) show(op, prefix string, r *route.Route) error {
	if !r.Evaluated() {
		if err := r.Evaluate(a.cat); err != nil {
			return err
		}
	}
	fmt.Fprintln(a.out, r.Format(prefix))

	if a.opLog != nil {
		if err := a.opLog.Record(op, r); err != nil {
			return fmt.Errorf("recording route: %w", err)
		}
	}
	return nil
}

// routeFrom builds a route from a comma or space separated list of names,
// or a random permutation of the catalog when order is empty
func (a *app) routeFrom(order string) (*route.Route, error) {
	names := parseOrder(order)
	r := route.New()
	if len(names) == 0 {
		r.Randomize(a.cat, a.rng)
		return r, nil
	}

	seq, err := a.cat.Lookup(names...)
	if err != nil {
		return nil, err
	}
	r.SetDestinations(seq)
	return r, nil
}

func parseOrder(order string) []string {
	return strings.FieldsFunc(order, func(c rune) bool {
		return c == ',' || c == ' ' || c == '\t'
	})
}

func newShuffleCmd(a *app) *cobra.Command {
	var count int
	cmd := &cobra.Command{
		Use:   "shuffle",
		Short: "Evaluate random permutations of the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			routes := make([]*route.Route, 0, count)
			for i := 1; i <= count; i++ {
				r := route.New()
				r.Randomize(a.cat, a.rng)
				if err := a.show("shuffle", fmt.Sprintf("Random route %d:", i), r); err != nil {
					return err
				}
				routes = append(routes, r)
			}
			if count < 2 {
				return nil
			}

			summary, err := stats.Summarize(routes)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, summary)
			a.log.Info("shuffle summary",
				zap.Int("routes", summary.Count),
				zap.Float64("mean", summary.Mean),
				zap.Float64("min", summary.Min))
			return nil
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 1, "number of random routes")
	return cmd
}

func newEvalCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "eval NAME...",
		Short: "Evaluate a route given as destination names",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.routeFrom(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return a.show("eval", "Route:", r)
		},
	}
}

func newMutateCmd(a *app) *cobra.Command {
	var (
		bias  float64
		steps int
	)
	cmd := &cobra.Command{
		Use:   "mutate [NAME...]",
		Short: "Apply successive mutations to a route, re-evaluating after each",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("bias") {
				bias = a.cfg.Bias()
			}
			if !cmd.Flags().Changed("steps") {
				steps = a.cfg.GA.Steps
			}

			r, err := a.routeFrom(strings.Join(args, " "))
			if err != nil {
				return err
			}
			if err := a.show("start", "Start:", r); err != nil {
				return err
			}

			for i := 1; i <= steps; i++ {
				if err := ga.Mutate(r, bias, a.rng); err != nil {
					return err
				}
				// Mutation keeps the old distance cached
				if err := r.Evaluate(a.cat); err != nil {
					return err
				}
				if err := a.show("mutate", fmt.Sprintf("Step %d:", i), r); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().Float64Var(&bias, "bias", 0.5, "probability of a swap-neighbours mutation (overrides config)")
	cmd.Flags().IntVar(&steps, "steps", 10, "number of mutations (overrides config)")
	return cmd
}

func newCrossCmd(a *app) *cobra.Command {
	var (
		parent1  string
		parent2  string
		midpoint int
	)
	cmd := &cobra.Command{
		Use:   "cross",
		Short: "Create a child route from two parents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p1, err := a.routeFrom(parent1)
			if err != nil {
				return fmt.Errorf("parent 1: %w", err)
			}
			p2, err := a.routeFrom(parent2)
			if err != nil {
				return fmt.Errorf("parent 2: %w", err)
			}
			if err := a.show("parent", "Parent 1:", p1); err != nil {
				return err
			}
			if err := a.show("parent", "Parent 2:", p2); err != nil {
				return err
			}

			var child *route.Route
			if midpoint < 0 {
				child, err = ga.SpawnFromParents(p1, p2, a.rng)
			} else {
				child, err = ga.SpawnAtMidpoint(p1, p2, midpoint)
			}
			if errors.Is(err, route.ErrChildLength) {
				a.log.Warn("parents do not share a destination set", zap.Error(err))
			}
			if err != nil {
				return err
			}
			return a.show("cross", "Child:", child)
		},
	}
	cmd.Flags().StringVar(&parent1, "p1", "", "first parent as comma separated names (random if empty)")
	cmd.Flags().StringVar(&parent2, "p2", "", "second parent as comma separated names (random if empty)")
	cmd.Flags().IntVar(&midpoint, "midpoint", -1, "crossover cut position (random if negative)")
	return cmd
}
