// cmd/root.go
package cmd

import (
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vle-sim/vle/config"
	"github.com/vle-sim/vle/coordinator"
	"github.com/vle-sim/vle/dynamics"
	"github.com/vle-sim/vle/kernelctx"
	"github.com/vle-sim/vle/observation"
	"github.com/vle-sim/vle/simulator"
)

var (
	logLevel string
	seed int64
	horizon int64
	homeFlag string
)

var rootCmd = &cobra.Command{
	Use:   "vle",
	Short: "A hierarchical discrete-event simulation kernel",
}

var runCmd = &cobra.Command{
	Use:   "run <project.yaml>",
	Short: "Run a project description to completion",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		home, err := resolveHome()
		if err != nil {
			logrus.Fatalf("resolving home: %v", err)
		}
		settings, err := config.LoadVleConf(home + "/vle.conf")
		if err != nil {
			logrus.Fatalf("loading vle.conf: %v", err)
		}

		resolver := dynamics.NewSharedLibraryResolver(config.PkgsRoot(home))
		ctx := kernelctx.New(logrus.StandardLogger(), settings, home, home, resolver)
		ctx.Log.WithField("home", home).Debug("resolved home directory")

		project, err := config.LoadProject(args[0])
		if err != nil {
			ctx.Log.Fatalf("loading project: %v", err)
		}
		if horizon > 0 {
			project.Experiment.Duration = horizon
		}

		graphRoot, bindings, registry, err := config.Build(project)
		if err != nil {
			ctx.Log.Fatalf("building project: %v", err)
		}

		rng := rand.New(rand.NewSource(seed))

		root := coordinator.NewRootCoordinator(ctx.Resolver, rng, ctx.Log, registry)
		registry.Attach(root.Coordinator())

		begin := simulator.Time(project.Experiment.Begin)
		duration := simulator.Time(project.Experiment.Duration)
		if err := root.Load(graphRoot, bindings, begin, duration); err != nil {
			ctx.Log.Fatalf("loading model graph: %v", err)
		}
		root.Init()
		registry.ScheduleInitial(begin)

		for root.Run() {
		}
		root.Finish()

		printMatrices(registry.Matrices())
	},
}

var describeCmd = &cobra.Command{
	Use:   "describe <project.yaml>",
	Short: "Print a project's flattened model tree and view list without running it",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		project, err := config.LoadProject(args[0])
		if err != nil {
			logrus.Fatalf("loading project: %v", err)
		}
		describeNode(project.Model, 0)
		fmt.Println("views:")
		for _, v := range project.Views {
			fmt.Printf("  %s -> %s (%s)\n", v.Name, v.Output, strings.Join(v.Triggers, "|"))
		}
	},
}

func describeNode(n config.ModelNode, depth int) {
	indent := strings.Repeat("  ", depth)
	kind := "coupled"
	if n.Atomic {
		kind = "atomic:" + n.Dynamics
	}
	fmt.Printf("%s%s [%s]\n", indent, n.Name, kind)
	for _, child := range n.Children {
		describeNode(child, depth+1)
	}
}

func printMatrices(matrices map[string][]observation.Row) {
	for name, rows := range matrices {
		fmt.Printf("view %s:\n", name)
		for _, row := range rows {
			fmt.Printf("  t=%d %v\n", row.Time, row.Values)
		}
	}
}

func resolveHome() (string, error) {
	if homeFlag != "" {
		return homeFlag, nil
	}
	return config.ResolveHome()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Int64Var(&seed, "seed", 1, "RNG seed")
	rootCmd.PersistentFlags().Int64Var(&horizon, "horizon", 0, "override the project's experiment duration (0 = use the project's own value)")
	rootCmd.PersistentFlags().StringVar(&homeFlag, "home", "", "override $VLE_HOME")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(describeCmd)
}
