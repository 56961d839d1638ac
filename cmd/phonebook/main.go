// phonebook seeds and inspects the record store directly, without a running
// daemon.
//
//	phonebook <credential>                  list every person
//	phonebook <credential> <name> <number>  add one person
//
// The credential is used as the database password. The store itself is
// selected by the same configuration the daemon reads.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/celerix-dev/phonebook/internal/config"
	"github.com/celerix-dev/phonebook/internal/engine"
	"github.com/celerix-dev/phonebook/internal/logger"
	"github.com/celerix-dev/phonebook/internal/phonebook"
	"github.com/celerix-dev/phonebook/pkg/schema"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// errUsage is returned after the usage problem has already been printed.
var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	var configPath, importFrom string

	flagSet := pflag.NewFlagSet("phonebook", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&configPath, "config", "", "path to a config file (default: ./config.toml)")
	flagSet.StringVar(&importFrom, "import-from", "", "copy every person from this store URI before listing")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(stdout, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stdout, flagSet)
		return nil
	}

	positional := flagSet.Args()
	switch len(positional) {
	case 0:
		fmt.Fprintln(stdout, "give password as argument")
		return errUsage
	case 1, 3:
	default:
		fmt.Fprintln(stderr, "expected a credential, optionally followed by a name and a number")
		printHelp(stderr, flagSet)
		return errUsage
	}
	if importFrom != "" && len(positional) != 1 {
		fmt.Fprintln(stderr, "--import-from only applies when listing")
		return errUsage
	}

	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg.Database.Password = positional[0]

	log := logger.New(&logger.Config{Level: cfg.Log.Level, Format: "console", Output: "stderr"})
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := engine.Open(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("connect to record store: %w", err)
	}
	defer store.Close()

	svc, err := phonebook.New(store, phonebook.WithLogger(log))
	if err != nil {
		return err
	}

	if len(positional) == 3 {
		person, err := svc.Create(ctx, schema.Candidate{Name: positional[1], Number: positional[2]})
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "added %s number %s to phonebook\n", person.Name, person.Number)
		return nil
	}

	if importFrom != "" {
		if err := importStore(ctx, cfg.Database, importFrom, store, log); err != nil {
			return err
		}
	}

	people, err := svc.ListAll(ctx)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(stdout)
	for _, p := range people {
		if err := enc.Encode(schema.PersonView{ID: p.ID, Name: p.Name, Number: p.Number}); err != nil {
			return err
		}
	}
	return nil
}

// importStore copies every person from the store at uri into dst.
func importStore(ctx context.Context, base config.DatabaseConfig, uri string, dst engine.Store, log *zap.Logger) error {
	srcCfg := base
	srcCfg.URI = uri
	src, err := engine.Open(ctx, srcCfg, log)
	if err != nil {
		return fmt.Errorf("open import source: %w", err)
	}
	defer src.Close()

	n, err := engine.Migrate(ctx, src, dst)
	if err != nil {
		return fmt.Errorf("import from %s: %w", uri, err)
	}
	log.Info("Import complete", zap.Int("copied", n), zap.String("source", uri))
	return nil
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintln(w, "phonebook - seed and inspect the phonebook record store")
	fmt.Fprintln(w, "\nUsage:")
	fmt.Fprintln(w, "  phonebook [flags] <credential>                  list every person")
	fmt.Fprintln(w, "  phonebook [flags] <credential> <name> <number>  add one person")
	fmt.Fprintln(w, "\nFlags:")
	fmt.Fprint(w, flagSet.FlagUsages())
	fmt.Fprintln(w, "\nEnvironment Variables:")
	fmt.Fprintln(w, "  PHONEBOOK_DATABASE_URI  Record store URI (file://dir, sqlite://path, postgres://...)")
	fmt.Fprintln(w, "  DATABASE_URI            Fallback for PHONEBOOK_DATABASE_URI")
	fmt.Fprintln(w, "  MONGODB_URI             Read for old deployments; MongoDB URIs are rejected")
}
