package main

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/bitmapfont/v3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font"

	"go.creack.net/botasm/cli"
	"go.creack.net/botasm/disasm"
	"go.creack.net/botasm/op"
)

var fontFace = text.NewGoXFace(bitmapfont.Face)

const initialScreenWidth, initialScreenHeight = 1024, 768

var (
	colorTitle    = color.RGBA{R: 255, G: 200, B: 80, A: 255}
	colorLineNo   = color.RGBA{R: 110, G: 110, B: 110, A: 255}
	colorWords    = color.RGBA{R: 90, G: 170, B: 255, A: 255}
	colorSource   = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	colorLiteral  = color.RGBA{R: 120, G: 220, B: 120, A: 255}
	colorSelected = color.RGBA{R: 60, G: 60, B: 90, A: 255}
)

// Game implements ebiten.Game interface.
type Game struct {
	listings []*disasm.Listing
	cur      int // Displayed listing.
	top      int // First displayed line.
	sel      int // Selected line.
}

func lineHeight() float64 {
	m := fontFace.Metrics()
	return m.HLineGap + m.HAscent + m.HDescent
}

func (g *Game) visibleLines() int {
	return int(float64(initialScreenHeight)/lineHeight()) - 3
}

// Update proceeds the game state.
func (g *Game) Update() error {
	l := g.listings[g.cur]
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight), inpututil.IsKeyJustPressed(ebiten.KeyTab):
		g.cur, g.top, g.sel = (g.cur+1)%len(g.listings), 0, 0
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		g.cur, g.top, g.sel = (g.cur+len(g.listings)-1)%len(g.listings), 0, 0
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		g.sel = min(g.sel+1, l.Program.Len()-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		g.sel = max(g.sel-1, 0)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown):
		g.sel = min(g.sel+g.visibleLines(), l.Program.Len()-1)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		g.sel = max(g.sel-g.visibleLines(), 0)
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		g.sel = min(max(g.sel-int(dy), 0), l.Program.Len()-1)
	}

	// Keep the selection on screen.
	if g.sel < g.top {
		g.top = g.sel
	}
	if n := g.visibleLines(); g.sel >= g.top+n {
		g.top = g.sel - n + 1
	}
	return nil
}

func drawText(screen *ebiten.Image, s string, x, y float64, clr color.Color) {
	textOp := &text.DrawOptions{}
	textOp.GeoM.Translate(x, y)
	textOp.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, fontFace, textOp)
}

// Draw draws the listing: line number, raw words and source.
func (g *Game) Draw(screen *ebiten.Image) {
	l := g.listings[g.cur]
	h := lineHeight()

	title := fmt.Sprintf("%s (%d/%d) - %d instructions", l.Name, g.cur+1, len(g.listings), l.Program.Len())
	if l.Known != "" {
		title += " - " + l.Known
	}
	drawText(screen, title, 8, 4, colorTitle)

	lineNoWidth := float64(font.MeasureString(bitmapfont.Face, "0000 ").Ceil())
	wordsWidth := float64(font.MeasureString(bitmapfont.Face, "0000 0000 0000 0000   ").Ceil())

	instructions := l.Program.Instructions()
	for i := g.top; i < len(instructions) && i < g.top+g.visibleLines(); i++ {
		y := 4 + float64(i-g.top+2)*h
		if i == g.sel {
			screen.SubImage(screenRow(y, h)).(*ebiten.Image).Fill(colorSelected)
		}
		ins := instructions[i]
		drawText(screen, fmt.Sprintf("%4d", i+1), 8, y, colorLineNo)
		drawText(screen, ins.String(), 8+lineNoWidth, y, wordsColor(ins))
		drawText(screen, l.Lines[i], 8+lineNoWidth+wordsWidth, y, colorSource)
	}

	ins := instructions[g.sel]
	modes := fmt.Sprintf("%s  %s %s %s", ins.Opcode(), ins.Mode(0), ins.Mode(1), ins.Mode(2))
	drawText(screen, modes, 8, float64(initialScreenHeight)-h-4, colorLineNo)
}

func screenRow(y, h float64) image.Rectangle {
	return image.Rect(0, int(y), initialScreenWidth, int(y+h))
}

// wordsColor highlights instructions carrying literal arguments.
func wordsColor(ins op.Instruction) color.Color {
	if ins.Flags() != 0 {
		return colorLiteral
	}
	return colorWords
}

// Layout returns a fixed logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int) {
	return initialScreenWidth, initialScreenHeight
}

func main() {
	log.SetFlags(0)
	cfg, programs, err := cli.ParseConfig(filepath.Base(os.Args[0]), os.Args[1:], "<.bot|.botc|.json|.cbor path>...")
	if err != nil {
		log.Fatalf("Failed to parse cli config: %s.", err)
	}
	cli.ConfigureLogging(cfg)

	game := &Game{}
	for _, p := range programs {
		l, err := disasm.FromProgram(p.Name, p.Prog)
		if err != nil {
			log.Fatalf("Failed to disassemble %q: %s.", p.PathName, err)
		}
		game.listings = append(game.listings, l)
	}

	ebiten.SetWindowSize(initialScreenWidth, initialScreenHeight)
	ebiten.SetWindowTitle("Bot viewer")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGameWithOptions(game, &ebiten.RunGameOptions{
		InitUnfocused: true,
	}); err != nil {
		log.Fatal(err)
	}
}
