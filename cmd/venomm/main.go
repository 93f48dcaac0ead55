package main

import (
	"fmt"
	"log"
	"os"

	"github.com/ishulazy/Venomm/app"
	"github.com/ishulazy/Venomm/core/buildinfo"
	corecmd "github.com/ishulazy/Venomm/core/cmd"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Println(buildinfo.String())
		return
	}

	err := corecmd.Run(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (corecmd.ConfigCarrier, error) {
			return app.LoadConfig(path)
		},
		Bootstrap: func(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
			cfg, ok := carrier.(*app.Config)
			if !ok {
				return nil, fmt.Errorf("unexpected config type %T", carrier)
			}
			return app.Bootstrap(cfg)
		},
	})
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
