package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"go.creack.net/botasm/asm"
	"go.creack.net/botasm/cli"
	"go.creack.net/botasm/op"
	"go.creack.net/botasm/store"
)

// bannedColors that are not legible.
var bannedColors = []int{
	0,
	16,
	17,
	18,
	19,
	20,
	21,
	52,
	53,
	54,
	55,
	232,
	233,
	234,
	235,
	236,
	237,
	238,
	239,
}

var curColor = 0

func nextColor() int {
	curColor++
	curColor %= 256
	for slices.Contains(bannedColors, curColor) {
		curColor++
		curColor %= 256
	}
	return curColor
}

func colorCodeModif(color int, mods ...int) string {
	modsStr := make([]string, 0, len(mods))
	for _, elem := range mods {
		modsStr = append(modsStr, fmt.Sprintf("%d", elem))
	}
	ansiMod := strings.Join(modsStr, ";")
	if ansiMod != "" {
		ansiMod += ";"
	}
	return fmt.Sprintf("\033[%s38;5;%dm", ansiMod, color)
}

var fieldColors = func() map[string]int {
	colors := map[string]int{}
	for _, elem := range []string{
		"magic",
		"name",
		"count",
		"code",
	} {
		colors[elem] = nextColor()
	}
	return colors
}()

// dump renders the binary image, one instruction (8 bytes) per code line.
// The instruction at line sel is reversed.
func dump(image []byte, sel int) string {
	out := &strings.Builder{}

	headerSize, nameFieldSize := op.HeaderStructSize()
	nameLen := 0
	for nameLen < op.ProgNameLength && image[4+nameLen] != 0 {
		nameLen++
	}

	const width = 8
	for i := 0; i < len(image); i++ {
		colorCode := ""
		switch {
		case i < 4:
			colorCode = colorCodeModif(fieldColors["magic"])
		case i < 4+nameLen:
			colorCode = colorCodeModif(fieldColors["name"], 1)
		case i < 4+nameFieldSize:
			colorCode = colorCodeModif(fieldColors["name"], 2)
		case i < headerSize:
			colorCode = colorCodeModif(fieldColors["count"])
		default:
			colorCode = colorCodeModif(fieldColors["code"])
		}
		if i%width == 0 {
			if i != 0 {
				fmt.Fprintf(out, "\n")
			}
			fmt.Fprintf(out, "0x%04x", i)
		}
		selectedCode := ""
		if i >= headerSize && (i-headerSize)/width == sel {
			selectedCode = "\033[7m"
		}
		fmt.Fprintf(out, " %s%s%02x\033[0m", colorCode, selectedCode, image[i])
	}
	return out.String()
}

type editor struct {
	path   string
	name   string
	format store.Format

	app    *tview.Application
	source *tview.TextArea
	image  *tview.TextView
	code   *tview.Table
	status *tview.TextView

	prog *op.Program
}

func newEditor(path string) (*editor, error) {
	format, err := store.FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	e := &editor{
		path:   path,
		name:   strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		format: format,
	}

	text := ""
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read file %q: %w", path, err)
	case format == store.FormatText:
		text = string(data)
	default:
		name, p, err := store.Decode(format, data)
		if err != nil {
			return nil, fmt.Errorf("failed to load %q: %w", path, err)
		}
		if name != "" {
			e.name = name
		}
		text = strings.Join(asm.Default().DecompileProgram(p), "\n")
	}

	e.source = tview.NewTextArea().SetPlaceholder("sense( 5 )")
	e.source.SetBorder(true).SetTitle(filepath.Base(path))
	e.source.SetText(text, false)

	e.image = tview.NewTextView().SetDynamicColors(true)
	e.image.SetBorder(true).SetTitle("Image")

	e.code = tview.NewTable().SetBorders(false)
	e.code.SetBorder(true).SetTitle("Instructions")

	e.status = tview.NewTextView().SetDynamicColors(true)
	e.status.SetBorder(true).SetTitle("Status")

	right := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(e.code, 0, 3, false).
		AddItem(e.image, 0, 2, false)

	body := tview.NewFlex().
		AddItem(e.source, 0, 1, true).
		AddItem(right, 0, 1, false)

	root := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(body, 0, 1, true).
		AddItem(e.status, 4, 0, false)

	e.app = tview.NewApplication().SetRoot(root, true).SetFocus(e.source).EnableMouse(true)

	e.source.SetChangedFunc(e.refresh)
	e.source.SetMovedFunc(e.refresh)
	e.app.SetInputCapture(e.handleKey)

	e.refresh()
	return e, nil
}

func (e *editor) handleKey(event *tcell.EventKey) *tcell.EventKey {
	switch event.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		e.app.Stop()
		return nil
	case tcell.KeyCtrlS:
		if err := e.save(); err != nil {
			e.setStatus("[red]%s", tview.Escape(err.Error()))
		} else {
			e.setStatus("[green]saved %s", tview.Escape(e.path))
		}
		return nil
	case tcell.KeyTab:
		e.complete()
		return nil
	}
	return event
}

// prefix returns the token being typed before the cursor.
func (e *editor) prefix() (string, int) {
	text := e.source.GetText()
	_, start, _ := e.source.GetSelection()
	i := start
	for i > 0 && (unicode.IsLetter(rune(text[i-1])) || unicode.IsDigit(rune(text[i-1])) || text[i-1] == '_') {
		i--
	}
	return text[i:start], start
}

// complete inserts the longest common part of the predictions.
func (e *editor) complete() {
	prefix, at := e.prefix()
	predictions := asm.Predict(prefix)
	if len(predictions) == 0 {
		return
	}
	common := predictions[0]
	for _, p := range predictions[1:] {
		for !strings.HasPrefix(p, common) {
			common = common[:len(common)-1]
		}
	}
	if len(common) > len(prefix) {
		e.source.Replace(at, at, common[len(prefix):])
	}
}

func (e *editor) setStatus(format string, args ...any) {
	e.status.Clear()
	fmt.Fprintf(e.status, format, args...)
}

func (e *editor) refresh() {
	row, _, _, _ := e.source.GetCursor()
	lines, err := asm.SplitLines(e.source.GetText())
	if err != nil {
		e.setStatus("[red]%s", tview.Escape(err.Error()))
		return
	}

	var problems []string
	failed := false
	instructions := make([]op.Instruction, 0, len(lines))
	e.code.Clear()
	for i, line := range lines {
		r := asm.TryCompile(line)
		ins, err := r.Instruction()
		words := tview.NewTableCell(ins.String())
		switch {
		case err != nil:
			problems = append(problems, fmt.Sprintf("[red]%d: %s[-]", i+1, tview.Escape(err.Error())))
			failed = true
			words = tview.NewTableCell("error").SetTextColor(tcell.ColorRed)
		case r.Warning() != "":
			problems = append(problems, fmt.Sprintf("[yellow]%d: %s[-]", i+1, tview.Escape(r.Warning())))
			words.SetTextColor(tcell.ColorYellow)
		}
		if i == row {
			words.SetAttributes(tcell.AttrReverse)
		}
		e.code.SetCell(i, 0, tview.NewTableCell(fmt.Sprintf("%4d", i+1)).SetTextColor(tcell.ColorDimGray))
		e.code.SetCell(i, 1, words)
		e.code.SetCell(i, 2, tview.NewTableCell(tview.Escape(asm.Decompile(ins))))
		instructions = append(instructions, ins)
	}

	e.prog = nil
	e.image.Clear()
	if !failed {
		p, err := op.NewProgram(instructions)
		if err != nil {
			problems = append(problems, "[red]"+tview.Escape(err.Error())+"[-]")
		} else if image, err := p.Encode(e.name); err != nil {
			problems = append(problems, "[red]"+tview.Escape(err.Error())+"[-]")
		} else {
			e.prog = p
			_, _ = tview.ANSIWriter(e.image).Write([]byte(dump(image, row)))
		}
	}

	prefix, _ := e.prefix()
	status := strings.Join(problems, "\n")
	if predictions := asm.Predict(prefix); len(predictions) > 0 && prefix != "" {
		status = "[::d]" + tview.Escape(strings.Join(predictions, " ")) + "[::-]\n" + status
	}
	e.setStatus("%s", status)
}

func (e *editor) save() error {
	var data []byte
	if e.format == store.FormatText {
		data = []byte(e.source.GetText())
	} else {
		if e.prog == nil {
			return fmt.Errorf("the program does not compile")
		}
		buf, err := store.Encode(e.format, e.name, e.prog)
		if err != nil {
			return err
		}
		data = buf
	}
	if err := os.WriteFile(e.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func main() {
	log.SetFlags(0)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s <.bot|.botc|.json|.cbor path>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	logFile := flag.String("log", filepath.Join(os.TempDir(), "bot-editor.log"), "log file, the terminal is used by the editor")
	verbosity := flag.Int("v", 0, "log verbosity, 0 is quiet")
	flag.Parse()
	input := flag.Arg(0)
	if input == "" {
		flag.Usage()
		return
	}
	cli.ConfigureLogging(cli.Config{Verbosity: *verbosity, LogFile: *logFile})

	e, err := newEditor(input)
	if err != nil {
		log.Fatalf("fail: %s.", err)
	}
	if err := e.app.Run(); err != nil {
		log.Fatalf("fail: %s.", err)
	}
}
