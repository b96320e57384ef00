package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"genbridge/internal/adapter"
	"genbridge/internal/bundle"
	"genbridge/internal/config"
	"genbridge/internal/eventbus"
	"genbridge/internal/model"
)

var version = "dev"

// app carries resolved settings shared by every subcommand.
type app struct {
	cfgPath string
	cfg     config.Config
	log     zerolog.Logger

	adapter *adapter.Adapter
	kafka   *eventbus.KafkaPublisher
}

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "genbridge",
		Short:         "On-device text generation with guaranteed replies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgPath, "config", "", "Config file (.yaml, .json, .toml)")
	pf.String("log-level", "", "Log level: debug|info|warn|error")
	pf.String("log-format", "", "Log format: console|json")
	pf.String("backend", "", "Model backend: auto|demo|onnx|llama")
	pf.String("model-path", "", "Model artifact path (overrides bundle lookup)")
	pf.String("bundle-dir", "", "Directory holding bundled model artifacts")
	pf.String("model-name", "", "Artifact name looked up in the bundle dir")
	pf.String("kafka-brokers", "", "Comma-separated Kafka brokers for lifecycle events")

	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return a.setup(cmd)
	}
	root.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return a.close()
	}

	root.AddCommand(
		newServeCmd(a),
		newGenerateCmd(a),
		newModelsCmd(a),
		newMCPCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup resolves configuration (file, then .env and environment, then
// flags), builds the logger and wires the adapter.
func (a *app) setup(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	cfg, err := config.Resolve(a.cfgPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, &cfg)
	config.ApplyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.log = newLogger(cfg.LogLevel, cfg.LogFormat)

	pub, err := a.publisher()
	if err != nil {
		return err
	}
	a.adapter = adapter.NewWithConfig(adapter.Config{
		Loader:             a.loader(),
		Workers:            cfg.Workers,
		FallbackDelay:      config.Millis(cfg.FallbackDelayMS),
		ErrorFallbackDelay: config.Millis(cfg.ErrorFallbackDelayMS),
		Publisher:          pub,
		Logger:             &a.log,
	})
	return nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	set := func(name string, dst *string) {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			*dst = f.Value.String()
		}
	}
	set("log-level", &cfg.LogLevel)
	set("log-format", &cfg.LogFormat)
	set("backend", &cfg.Backend)
	set("model-path", &cfg.ModelPath)
	set("bundle-dir", &cfg.BundleDir)
	set("model-name", &cfg.ModelName)
	if f := cmd.Flags().Lookup("kafka-brokers"); f != nil && f.Changed {
		cfg.KafkaBrokers = splitCSV(f.Value.String())
	}
}

func newLogger(level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	var l zerolog.Logger
	if format == "json" {
		l = zerolog.New(os.Stderr)
	} else {
		l = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}
	return l.Level(lvl).With().Timestamp().Logger()
}

// loader resolves the artifact from the bundle dir on every load unless a
// path is configured explicitly.
func (a *app) loader() model.Loader {
	dir, name := a.cfg.BundleDir, a.cfg.ModelName
	return model.NewLoader(a.cfg.OpenOptions(), func() (string, error) {
		art, err := bundle.Locate(dir, name)
		if err != nil {
			return "", err
		}
		a.log.Debug().Str("artifact", art.Path).Str("backend", art.Backend).Msg("bundle artifact located")
		return art.Path, nil
	})
}

func (a *app) publisher() (adapter.EventPublisher, error) {
	pubs := adapter.MultiPublisher{eventLogger{log: a.log.With().Str("component", "events").Logger()}}
	if len(a.cfg.KafkaBrokers) > 0 {
		kp, err := eventbus.NewKafkaPublisher(eventbus.KafkaConfig{
			Brokers: a.cfg.KafkaBrokers,
			Topic:   a.cfg.KafkaTopic,
		}, a.log)
		if err != nil {
			return nil, err
		}
		a.kafka = kp
		pubs = append(pubs, kp)
	}
	return pubs, nil
}

func (a *app) close() error {
	var errs []error
	if a.adapter != nil {
		errs = append(errs, a.adapter.Close())
	}
	if a.kafka != nil {
		errs = append(errs, a.kafka.Close())
		if n := a.kafka.Dropped(); n > 0 {
			a.log.Warn().Uint64("dropped", n).Msg("kafka events dropped")
		}
	}
	return errors.Join(errs...)
}

// loadNow loads the model and logs the outcome.
func (a *app) loadNow(ctx context.Context) bool {
	ok := a.adapter.LoadModel(ctx)
	st := a.adapter.Status()
	if ok {
		ev := a.log.Info().Str("state", string(st.State))
		if st.Model != nil {
			ev = ev.Str("backend", st.Model.Backend).Str("path", st.Model.Path)
		}
		ev.Msg("model loaded")
	} else {
		a.log.Warn().Str("state", string(st.State)).Str("error", st.LastError).Msg("model not loaded; replies will use fallbacks")
	}
	return ok
}

// eventLogger writes adapter events to the debug log.
type eventLogger struct{ log zerolog.Logger }

func (e eventLogger) Publish(ev adapter.Event) {
	e.log.Debug().Str("event", ev.Name).Str("call_id", ev.CallID).Fields(ev.Fields).Msg("adapter event")
}

// splitCSV splits a comma-separated list, trimming blanks and dropping
// empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
