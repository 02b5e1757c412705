package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pvpokemon/pvpokemon/logging"
	"github.com/pvpokemon/pvpokemon/pokedex"
	"github.com/pvpokemon/pvpokemon/recommender"
	"github.com/pvpokemon/pvpokemon/type_chart"
	"github.com/pvpokemon/pvpokemon/version"
)

type recommendOptions struct {
	pokedexFile string
	assetsDir   string
	poolSize    int
	logTeams    bool
	debug       bool
}

// splitTypes accepts "ROCK,WATER" as well as separate arguments.
func splitTypes(args []string) []string {
	var types []string
	for _, arg := range args {
		for _, t := range strings.Split(arg, ",") {
			if t = strings.TrimSpace(t); t != "" {
				types = append(types, t)
			}
		}
	}
	return types
}

func runRecommend(opts *recommendOptions, args []string, stdout, stderr io.Writer) error {
	recConfig := recommender.GetDefaultConfig()
	recConfig.MaxPoolSize = opts.poolSize
	recConfig.LogTeams = opts.logTeams
	if err := recConfig.Validate(); err != nil {
		return err
	}

	logConfig := logging.Config{Level: "warn", Debug: opts.debug}
	logger := logConfig.CreateLogger(false, false)
	// stdout is for the result
	logger.SetOutput(stderr)

	sprites, err := pokedex.BuildSpriteIndex(opts.assetsDir)
	if err != nil {
		logger.Warnf("CATALOG: couldn't index sprites in '%s': %v", opts.assetsDir, err)
	}

	dex := pokedex.NewCatalogLoader(logger, sprites).LoadFile(opts.pokedexFile)
	if dex.Len() == 0 {
		logger.Warnf("CATALOG: no creatures loaded from '%s'", opts.pokedexFile)
	}

	rec := recommender.NewRecommender(logger, type_chart.Default(), recConfig, opts.assetsDir)
	team := rec.Recommend(dex, splitTypes(args))

	encoder := json.NewEncoder(stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(team)
}

func newTypesCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the known creature types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, t := range type_chart.Default().Types() {
				fmt.Fprintln(stdout, t)
			}
			return nil
		},
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &recommendOptions{}

	cmd := &cobra.Command{
		Use:   "pvpokemon-recommend [flags] <opponent-type> [<opponent-type>...]",
		Short: "Recommend a team of three against the given opponent types",
		Long: "Loads a catalog file and prints the recommended team as JSON.\n" +
			"Opponent types may also be comma separated, eg: ROCK,WATER",
		Version:       version.APP_VERSION,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(opts, args, stdout, stderr)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.pokedexFile, "pokedex", "p", "pokedex.json", "catalog file to load")
	flags.StringVarP(&opts.assetsDir, "assets", "a", "assets", "sprite assets directory")
	flags.IntVar(&opts.poolSize, "pool-size", recommender.DEFAULT_MAX_POOL_SIZE, "number of top candidates to search")
	flags.BoolVar(&opts.logTeams, "log-teams", false, "log the team score breakdown")
	flags.BoolVar(&opts.debug, "debug", false, "turn on debug logging")

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.AddCommand(newTypesCommand(stdout))

	return cmd
}

func main() {
	cmd := newRootCommand(os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
