package main

import (
	"log"
	"os"
	_ "time/tzdata"

	"github.com/trezcool/bellplus/core"
	logsvc "github.com/trezcool/bellplus/services/logger"
)

func main() {
	conf := core.NewConfig()

	logger := logsvc.NewRollbarLogger(
		log.New(os.Stderr, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// start CLI
	cli := commandLine{
		conf:   conf,
		logger: logger,
		out:    os.Stdout,
	}
	err := cli.run(os.Args)
	cli.close()
	logger.Close()
	if err != nil {
		if err != errHelp {
			log.Printf("\nerror: %+v\n", err)
		}
		os.Exit(1)
	}
}
