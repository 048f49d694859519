package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/ttacon/chalk"
	"github.com/urfave/cli"
)

func main() {
	if err := makeApp().Run(os.Args); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func makeApp() *cli.App {
	app := cli.NewApp()
	app.Name = "slether-navigator"
	app.Usage = "Slither arena whose pilots steer with the navigator engine"
	app.Flags = cliFlags
	app.Action = func(c *cli.Context) error {
		cfg, err := configFromContext(c)
		if err != nil {
			return err
		}
		return serve(cfg)
	}
	return app
}

func serve(cfg Config) error {
	srv, err := NewServer(cfg)
	if err != nil {
		return err
	}

	stop := make(chan struct{})
	defer close(stop)
	go srv.loop.Run(stop)
	go srv.limiter.run(time.Minute, stop)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Print(chalk.Green)
	log.Printf("server listening on %s (circular world r=%.0f)", addr, WorldRadius)
	log.Printf("%d pilots, %d wanderers, bridge at %s", cfg.Pilots, cfg.Wanderers, NavPath)
	log.Print(chalk.Reset)
	if cfg.DebugDir != "" {
		log.Print(chalk.Yellow)
		log.Printf("debug frames every %d ticks into %s", cfg.DebugEvery, cfg.DebugDir)
		log.Print(chalk.Reset)
	}

	return http.ListenAndServe(addr, srv.Router())
}
