package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/tebeka/atexit"
	"github.com/tliron/commonlog"

	"go.creack.net/botasm/cli"
	"go.creack.net/botasm/disasm"
)

func disam(cfg cli.Config, p *cli.Program) error {
	l, err := disasm.FromProgram(p.Name, p.Prog)
	if err != nil {
		return fmt.Errorf("failed to disassemble %q: %w", p.PathName, err)
	}
	if l.Known != "" {
		log.Printf("Found match in known sources: %s.", l.Known)
	}
	if cfg.Table {
		fmt.Println(l.Table())
		return nil
	}
	for _, line := range l.Lines {
		fmt.Printf("%s\n", line)
	}
	return nil
}

func main() {
	log.SetFlags(0)
	binName := filepath.Base(os.Args[0])
	cfg, programs, err := cli.ParseConfig(binName, os.Args[1:], "<.botc|.json|.cbor path>...")
	if err != nil {
		atexit.Fatalf("fail: %s.", err)
	}
	cli.ConfigureLogging(cfg)

	progress := &cli.Progress{Verb: "disassembled", Total: len(programs)}
	atexit.Register(func() { commonlog.GetLogger("botdisasm").Info(progress.Summary()) })

	for _, p := range programs {
		if err := disam(cfg, p); err != nil {
			atexit.Fatalf("fail: %s.", err)
		}
		progress.Done++
	}
	atexit.Exit(0)
}
