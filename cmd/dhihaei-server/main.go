package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"dhihaei/internal/log"
	"dhihaei/internal/room"
	"dhihaei/internal/room/conf"
)

var Version string = "unknown"
var GitCommit string = "unknown"
var BuildAt string = "unknown"
var Name string = "dhihaei-server"

var ConfigPath string = ""
var ListenAddr string = ""
var PrintConf bool = false

func main() {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Println("project:", Name)
		fmt.Println("version:", Version)
		fmt.Println("git commit:", GitCommit)
		fmt.Println("build at:", BuildAt)
	}

	app := cli.NewApp()
	app.Name = Name
	app.Version = Version
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Value:       "",
			Usage:       "config file path, defaults apply when empty",
			Destination: &ConfigPath,
		}, &cli.StringFlag{
			Name:        "listen",
			Aliases:     []string{"l"},
			Value:       "",
			Usage:       "listen address, overrides the config file",
			Destination: &ListenAddr,
		}, &cli.BoolFlag{
			Name:        "print-config",
			Destination: &PrintConf,
			Hidden:      true,
		},
	}

	app.Action = RealMain

	if err := app.Run(os.Args); err != nil {
		log.Error(err)
		os.Exit(-1)
	}
}

func RealMain(c *cli.Context) error {
	cfg, err := conf.ConfInit(ConfigPath, PrintConf)
	if err != nil {
		return err
	}
	if ListenAddr != "" {
		cfg.ListenAddr = ListenAddr
	}
	if cfg.LogFile != "" {
		log.SetFile(cfg.LogFile)
	}
	log.SetLevel(cfg.LogLevel)

	hub := room.NewHub(cfg, log.WithField("module", "hub"))
	svr, err := room.NewServer(room.ServerOptions{
		ListenAddr: cfg.ListenAddr,
		Heartbeat:  time.Duration(cfg.HeartbeatSec) * time.Second,
		Hub:        hub,
		Log:        log.WithField("module", "ws"),
	})
	if err != nil {
		return err
	}
	if err := svr.Start(); err != nil {
		return err
	}
	defer svr.Stop()
	log.Infof("%s listening on %s", Name, svr.Address())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	log.Info("shutting down")
	return nil
}
