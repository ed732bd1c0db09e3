package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/tebeka/atexit"
	"github.com/tliron/commonlog"

	"go.creack.net/botasm/asm"
	"go.creack.net/botasm/cli"
	"go.creack.net/botasm/store"
)

func run(cfg cli.Config, p *cli.Program) error {
	if cfg.Pretty {
		for _, line := range asm.Default().DecompileProgram(p.Prog) {
			fmt.Printf("%s\n", line)
		}
		return nil
	}

	name := cfg.Name
	if name == "" {
		name = p.Name
	}
	buf, err := store.Encode(store.Format(cfg.Format), name, p.Prog)
	if err != nil {
		return fmt.Errorf("failed to encode %q: %w", p.PathName, err)
	}

	output := cfg.OutputPath(p)
	if output == p.PathName {
		return fmt.Errorf("refusing to overwrite the input %q", p.PathName)
	}
	if err := os.WriteFile(output, buf, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	log.Printf("%s: %d instructions -> %s", p.PathName, p.Prog.Len(), output)
	return nil
}

func main() {
	log.SetFlags(0)
	binName := filepath.Base(os.Args[0])
	cfg, programs, err := cli.ParseConfig(binName, os.Args[1:], "<.bot path>...")
	if err != nil {
		atexit.Fatalf("fail: %s.", err)
	}
	cli.ConfigureLogging(cfg)
	if cfg.Output != "" && len(programs) > 1 {
		atexit.Fatalf("fail: -o needs a single input, got %s.", strings.Join(cfg.Paths, ", "))
	}

	progress := &cli.Progress{Verb: "written", Total: len(programs)}
	atexit.Register(func() { commonlog.GetLogger("botasm").Info(progress.Summary()) })

	for _, p := range programs {
		if err := run(cfg, p); err != nil {
			atexit.Fatalf("fail: %s.", err)
		}
		progress.Done++
	}
	atexit.Exit(0)
}
