package main

import (
	"flag"
	"log"

	"github.com/tebeka/atexit"
	"github.com/tliron/commonlog"

	"go.creack.net/botasm/asm"
	"go.creack.net/botasm/cli"
	"go.creack.net/botasm/lsp"
)

const version = "0.1.0"

func main() {
	log.SetFlags(0)
	verbosity := flag.Int("v", 0, "log verbosity, 0 is quiet")
	logFile := flag.String("log", "", "log file, stdout is reserved for the protocol")
	flag.Parse()

	if err := cli.LoadEnv(cli.EnvFile); err != nil {
		atexit.Fatalf("fail: %s.", err)
	}
	cli.ConfigureLogging(cli.Config{Verbosity: *verbosity, LogFile: *logFile})
	atexit.Register(func() { commonlog.GetLogger("botlsp").Info("shutting down") })

	s := lsp.NewServer(asm.NewCompiler(), version)
	if err := s.Run(); err != nil {
		atexit.Fatalf("fail: %s.", err)
	}
	atexit.Exit(0)
}
