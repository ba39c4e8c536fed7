package main

import (
	"flag"
	"fmt"
	"os"

	tiffconvert "github.com/dipsoh/tiffconvert"
	"github.com/dipsoh/tiffconvert/log"

	"go.uber.org/zap"
)

func main() {
	cfgPath := flag.String("config", "params.yaml", "pipeline configuration file")
	dev := flag.Bool("dev", false, "development logging")
	flag.Parse()

	mode := "release"
	if *dev {
		mode = "dev"
	}
	if err := log.Init(mode); err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer log.Sync()

	cfg, err := tiffconvert.LoadConfig(*cfgPath)
	if err != nil {
		log.Error("load config failed", zap.String("path", *cfgPath), zap.Error(err))
		os.Exit(1)
	}
	log.Info("starting conversion",
		zap.String("input", cfg.InputFolder),
		zap.Int("epsg", cfg.Geoserver.Epsg))
	if err = tiffconvert.NewConverter(cfg).Run(); err != nil {
		log.Error("batch aborted", zap.Error(err))
		os.Exit(1)
	}
	log.Info("batch finished")
}
