package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/stefantagarski/event-service/internal/config"
	"github.com/stefantagarski/event-service/internal/database/mongodb"
	"github.com/stefantagarski/event-service/internal/fixtures"
	"github.com/stefantagarski/event-service/internal/logger"
	"github.com/stefantagarski/event-service/internal/seeder"
)

// app carries the state shared by every command of one invocation.
type app struct {
	envFile      string
	fixturesFile string
	verbose      bool

	out    io.Writer
	errOut io.Writer
	cfg    *config.Config
	log    *logger.Logger
}

// Run executes the event-seeder command line with args and returns the
// command's error, already printed to errOut by cobra.
func Run(ctx context.Context, args []string, out, errOut io.Writer) error {
	a := &app{out: out, errOut: errOut}
	defer func() {
		if a.log != nil {
			a.log.Close()
		}
	}()

	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetOut(out)
	root.SetErr(errOut)
	return root.ExecuteContext(ctx)
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "event-seeder",
		Short: "Provision the event_service MongoDB database",
		Long: `event-seeder creates the events collection, its text, date and
created_at indexes, and inserts the sample events.

Running it without a subcommand is the same as "event-seeder seed".

Configuration is read from the environment (MONGO_URI, MONGO_DATABASE,
REDIS_ADDR, KAFKA_ENABLED, ...) after loading the --env-file.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSeed(cmd.Context(), seeder.Options{})
		},
	}

	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.PersistentFlags().StringVar(&a.fixturesFile, "fixtures", "", "YAML fixtures file (defaults to SEED_FIXTURES_FILE, then the built-in events)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newSeedCommand(a))
	root.AddCommand(newVerifyCommand(a))
	root.AddCommand(newMigrateCommand(a))
	return root
}

func (a *app) setup() error {
	envErr := godotenv.Load(a.envFile)

	a.cfg = config.Load()
	if a.verbose {
		a.cfg.Log.Verbose = true
	}

	log, err := logger.NewLogger(logger.Options{
		Name:    "event-seeder",
		Dir:     a.cfg.Log.Dir,
		Verbose: a.cfg.Log.Verbose,
		Console: a.errOut,
	})
	if err != nil {
		return err
	}
	a.log = log

	if envErr != nil {
		a.log.Warn("CONFIG", fmt.Sprintf("%s not loaded, using environment variables", a.envFile))
	} else {
		a.log.Info("CONFIG", fmt.Sprintf("Loaded environment variables from %s", a.envFile))
	}
	return nil
}

// loadFixtures resolves the fixture set; MONGO_DATABASE overrides the
// database it names.
func (a *app) loadFixtures() (*fixtures.Set, error) {
	path := a.fixturesFile
	if path == "" {
		path = a.cfg.Seed.FixturesFile
	}

	var (
		set *fixtures.Set
		err error
	)
	if path != "" {
		a.log.Info("CONFIG", fmt.Sprintf("Using fixtures from %s", path))
		set, err = fixtures.LoadFile(path)
	} else {
		set, err = fixtures.Default()
	}
	if err != nil {
		return nil, err
	}

	if a.cfg.Mongo.Database != "" {
		set.Database = a.cfg.Mongo.Database
	}
	return set, nil
}

func (a *app) connect(ctx context.Context) (*mongo.Client, error) {
	return mongodb.Connect(ctx, a.cfg.Mongo, a.log)
}
