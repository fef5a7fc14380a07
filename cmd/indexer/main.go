package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"gorm.io/gorm"

	"github.com/photon-storage/go-common/log"

	"github.com/photon-storage/stime/chain"
	"github.com/photon-storage/stime/cmd"
	"github.com/photon-storage/stime/cmd/runtime/version"
	"github.com/photon-storage/stime/config"
	"github.com/photon-storage/stime/database/mysql"
	"github.com/photon-storage/stime/database/orm"
	"github.com/photon-storage/stime/database/sqlite"
	"github.com/photon-storage/stime/indexer"
)

func main() {
	app := cli.App{
		Name:    "stime-indexer",
		Usage:   "mirrors time slice, order and reservation events into a database",
		Action:  exec,
		Version: version.Get(),
		Flags:   append([]cli.Flag{cmd.ConfigPathFlag}, cmd.LogFlags...),
		Before:  cmd.InitLog,
	}

	if err := app.Run(os.Args); err != nil {
		log.Error("running application failed", "error", err)
	}
}

func exec(ctx *cli.Context) error {
	cfg := &Config{}
	if err := config.Load(ctx.String(cmd.ConfigPathFlag.Name), cfg); err != nil {
		log.Fatal("fail on read config", "error", err)
	}

	policy := cfg.Policy.WithDefaults()
	if err := policy.Validate(); err != nil {
		log.Fatal("fail on policy", "error", err)
	}

	db, err := openDB(cfg)
	if err != nil {
		log.Fatal("initialize db error", "error", err)
	}

	if err := orm.Migrate(db); err != nil {
		log.Fatal("migrate db error", "error", err)
	}

	node := chain.NewNodeClient(cfg.NodeEndpoint, cfg.RequestsPerSecond, cfg.Burst)
	eventProcessor, err := indexer.NewEventProcessor(
		ctx.Context,
		cfg.RefreshInterval,
		policy,
		node,
		db,
	)
	if err != nil {
		log.Fatal("initialize indexer error", "error", err)
	}

	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGQUIT, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigc)
		<-sigc
		log.Info("Got interrupt, shutting down...")

		go eventProcessor.Stop()
		for i := 10; i > 0; i-- {
			<-sigc
			if i > 1 {
				log.Info("Already shutting down, interrupt more to panic", "times", i-1)
			}
		}
		panic("Panic closing the indexer service")
	}()

	log.Info("Indexer started",
		"node", cfg.NodeEndpoint,
		"refresh interval", cfg.RefreshInterval,
	)
	eventProcessor.Run()
	return nil
}

func openDB(cfg *Config) (*gorm.DB, error) {
	if cfg.SQLitePath != "" {
		return sqlite.Open(cfg.SQLitePath)
	}

	return mysql.NewMySQLDB(cfg.MySQL)
}

// Config defines the config for indexer service.
type Config struct {
	MySQL             mysql.Config  `yaml:"mysql"`
	SQLitePath        string        `yaml:"sqlite_path"`
	RefreshInterval   time.Duration `yaml:"refresh_interval" validate:"gt=0"`
	NodeEndpoint      string        `yaml:"node_endpoint" validate:"required,url"`
	RequestsPerSecond float64       `yaml:"requests_per_second" validate:"gte=0"`
	Burst             int           `yaml:"burst" validate:"gte=0"`
	Policy            config.Policy `yaml:"policy" validate:"-"`
}
