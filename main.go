package main

import (
	"context"
	"flag"
	"os"
	"os/signal"

	"github.com/milk9111/runner/prefabs"
	"github.com/sirupsen/logrus"
)

func main() {
	ticks := flag.Int("ticks", 1500, "fixed simulation ticks to run")
	levelName := flag.String("level", "level.yaml", "level spec in prefabs/")
	script := flag.String("script", "", "pilot script overriding the runner spec")
	watch := flag.Bool("watch", false, "rerun whenever a spec or script in prefabs/ changes")
	debug := flag.Bool("debug", false, "enable debug logging")
	realtime := flag.Bool("realtime", false, "pace the simulation against the wall clock")
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	run := func() {
		cfg, err := LoadGameConfig(*levelName, *script, log)
		if err != nil {
			log.WithError(err).Error("load specs")
			return
		}
		game, err := NewGame(cfg)
		if err != nil {
			log.WithError(err).Error("build scene")
			return
		}
		defer game.Close()
		if *realtime {
			game.RunRealtime(ctx, *ticks, 0).Log(log)
			return
		}
		game.Run(*ticks).Log(log)
	}

	run()
	if !*watch {
		return
	}

	watcher, err := prefabs.NewWatcher(log, prefabs.Dir)
	if err != nil {
		log.WithError(err).Fatal("watch prefabs")
	}
	defer watcher.Close()

	for {
		select {
		case batch, ok := <-watcher.Events:
			if !ok {
				return
			}
			for _, ch := range batch {
				log.WithFields(logrus.Fields{"file": ch.Name, "kind": ch.Kind}).Info("prefab changed")
			}
			run()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.WithError(err).Warn("watcher error")
		case <-ctx.Done():
			return
		}
	}
}
