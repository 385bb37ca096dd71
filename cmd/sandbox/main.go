// Command sandbox is a terminal viewer for the simulation: one keyboard
// player against a dummy, rendered with tcell at a fixed 60 fps. It is a
// debugging surface, not a game client; the simulation neither knows nor
// cares that it is being drawn.
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/rukai/canon-collision-sub001/audio"
	"github.com/rukai/canon-collision-sub001/entitydef"
	"github.com/rukai/canon-collision-sub001/input"
	"github.com/rukai/canon-collision-sub001/sim"
	"github.com/rukai/canon-collision-sub001/stage"
)

const (
	frameTime = time.Second / 60
	// terminals report presses, not releases; a control counts as held this
	// long after its last press
	keyHold = 150 * time.Millisecond
)

var (
	seedFlag  = flag.Uint64("seed", uint64(time.Now().UnixNano()), "Match seed")
	stageFlag = flag.String("stage", "", "Stage TOML file, built-in stage when empty")
	muteFlag  = flag.Bool("mute", false, "Disable sound")
	hazardTag = flag.Bool("hazard", false, "Spawn a shooting hazard")
)

type control int

const (
	ctrlLeft control = iota
	ctrlRight
	ctrlUp
	ctrlDown
	ctrlAttack
	ctrlJump
	ctrlShield
	ctrlThrow
	ctrlCount
)

type sandbox struct {
	screen tcell.Screen
	game   *sim.Game
	sounds *audio.SoundManager

	held    [ctrlCount]time.Time
	history [input.HistoryLen]input.ControllerInput

	showBoxes bool
	showDebug bool
	paused    bool

	prevDamage map[sim.EntityKey]float64
	prevStocks map[sim.EntityKey]int
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\nSANDBOX CRASHED: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			os.Exit(1)
		}
	}()
	flag.Parse()

	stg := stage.Default()
	if *stageFlag != "" {
		loaded, err := stage.Load(*stageFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "stage load failed: %v\n", err)
			os.Exit(1)
		}
		stg = loaded
	}

	defs := entitydef.Builtin()
	game, err := sim.NewGame(sim.Config{
		Stage:    stg,
		Defs:     defs,
		Seed:     *seedFlag,
		Fighters: []string{"basic-fighter", "basic-fighter"},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "game setup failed: %v\n", err)
		os.Exit(1)
	}
	if *hazardTag {
		hazard := sim.NewHazard("basic-hazard", defs.Get("basic-hazard"), 0, 40.0)
		h := hazard.Ty.(*sim.Hazard)
		h.Shoots = true
		h.ProjectileDef = "basic-projectile"
		game.SpawnEntity(hazard)
	}
	// a free item to pick up and throw
	game.SpawnEntity(sim.NewItem("basic-item", defs.Get("basic-item"), -20.0, 10.0))

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "screen setup failed: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "screen init failed: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	sounds := audio.NewSoundManager()
	if !*muteFlag {
		// sound is best effort; a machine without audio still runs
		_ = sounds.Initialize()
	}
	defer sounds.Cleanup()

	sb := &sandbox{
		screen:     screen,
		game:       game,
		sounds:     sounds,
		prevDamage: make(map[sim.EntityKey]float64),
		prevStocks: make(map[sim.EntityKey]int),
	}
	sb.run()
}

func (sb *sandbox) run() {
	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	go sb.screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(frameTime)
	defer ticker.Stop()

	for {
		select {
		case ev := <-events:
			if !sb.handleEvent(ev) {
				close(quit)
				return
			}
		case <-ticker.C:
			if !sb.paused {
				sb.step()
			}
			sb.draw()
		}
	}
}

func (sb *sandbox) handleEvent(ev tcell.Event) bool {
	key, ok := ev.(*tcell.EventKey)
	if !ok {
		return true
	}
	now := time.Now()
	switch key.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyLeft:
		sb.held[ctrlLeft] = now
	case tcell.KeyRight:
		sb.held[ctrlRight] = now
	case tcell.KeyUp:
		sb.held[ctrlUp] = now
	case tcell.KeyDown:
		sb.held[ctrlDown] = now
	case tcell.KeyRune:
		switch key.Rune() {
		case 'q':
			return false
		case 'h':
			sb.held[ctrlLeft] = now
		case 'l':
			sb.held[ctrlRight] = now
		case 'k':
			sb.held[ctrlUp] = now
		case 'j':
			sb.held[ctrlDown] = now
		case 'f':
			sb.held[ctrlAttack] = now
		case ' ', 'w':
			sb.held[ctrlJump] = now
		case 's':
			sb.held[ctrlShield] = now
		case 'd':
			sb.held[ctrlThrow] = now
		case 'c':
			sb.showBoxes = !sb.showBoxes
		case 'i':
			sb.showDebug = !sb.showDebug
		case 'p':
			sb.paused = !sb.paused
		case 'r':
			// step a single frame while paused
			if sb.paused {
				sb.step()
			}
		}
	}
	return true
}

// controllerState converts held keys into one frame of controller input.
func (sb *sandbox) controllerState() input.ControllerInput {
	now := time.Now()
	down := func(c control) bool { return now.Sub(sb.held[c]) < keyHold }

	var raw input.ControllerInput
	raw.PluggedIn = true
	if down(ctrlLeft) {
		raw.StickX -= 1.0
	}
	if down(ctrlRight) {
		raw.StickX += 1.0
	}
	if down(ctrlUp) {
		raw.StickY += 1.0
	}
	if down(ctrlDown) {
		raw.StickY -= 1.0
	}
	raw.A = down(ctrlAttack)
	raw.X = down(ctrlJump)
	raw.Z = down(ctrlThrow)
	if down(ctrlShield) {
		raw.R = true
		raw.RTrigger = 1.0
	}
	return raw
}

func (sb *sandbox) step() {
	copy(sb.history[1:], sb.history[:input.HistoryLen-1])
	sb.history[0] = sb.controllerState()

	inputs := []input.PlayerInput{
		input.FromHistory(sb.history),
		input.Empty(), // the dummy stands still
	}
	sb.game.Step(inputs)
	sb.playFeedback()
}

// playFeedback compares the new frame against the last one and maps state
// changes to sounds.
func (sb *sandbox) playFeedback() {
	seen := make(map[sim.EntityKey]bool)
	for _, view := range sb.game.Views() {
		seen[view.Key] = true
		if prev, ok := sb.prevDamage[view.Key]; ok && view.Damage > prev {
			sb.sounds.PlayHit(view.Damage - prev)
		}
		if prev, ok := sb.prevStocks[view.Key]; ok && view.PlayerI >= 0 && view.Stocks < prev {
			sb.sounds.PlayKO()
		}
		sb.prevDamage[view.Key] = view.Damage
		sb.prevStocks[view.Key] = view.Stocks
	}
	for key := range sb.prevDamage {
		if !seen[key] {
			delete(sb.prevDamage, key)
			delete(sb.prevStocks, key)
		}
	}
}

// world-to-screen projection: fixed camera on the stage center, cells are
// roughly twice as tall as wide so y is compressed
func (sb *sandbox) project(wx, wy float64) (int, int) {
	w, h := sb.screen.Size()
	return w/2 + int(wx*0.7), h/2 + 8 - int(wy*0.35)
}

var playerStyles = []tcell.Style{
	tcell.StyleDefault.Foreground(tcell.ColorGreen),
	tcell.StyleDefault.Foreground(tcell.ColorRed),
	tcell.StyleDefault.Foreground(tcell.ColorYellow),
	tcell.StyleDefault.Foreground(tcell.ColorBlue),
}

func (sb *sandbox) draw() {
	sb.screen.Clear()
	sb.drawStage()

	views := sb.game.Views()
	for _, view := range views {
		sb.drawEntity(view)
	}
	sb.drawHUD(views)
	sb.screen.Show()
}

func (sb *sandbox) drawStage() {
	style := tcell.StyleDefault.Foreground(tcell.ColorGray)
	for i := range sb.game.Stage.Surfaces {
		s := &sb.game.Stage.Surfaces[i]
		if !s.IsFloor() {
			continue
		}
		steps := int(s.HalfLength() * 4.0)
		if steps < 2 {
			steps = 2
		}
		for j := 0; j <= steps; j++ {
			t := float64(j) / float64(steps)
			x, y := sb.project(s.X1+(s.X2-s.X1)*t, s.Y1+(s.Y2-s.Y1)*t)
			sb.screen.SetContent(x, y, '─', nil, style)
		}
		ledge := tcell.StyleDefault.Foreground(tcell.ColorTeal)
		if s.LeftGrab() {
			x, y := sb.project(s.LeftLedge().X, s.LeftLedge().Y)
			sb.screen.SetContent(x, y, '╾', nil, ledge)
		}
		if s.RightGrab() {
			x, y := sb.project(s.RightLedge().X, s.RightLedge().Y)
			sb.screen.SetContent(x, y, '╼', nil, ledge)
		}
	}
}

func (sb *sandbox) drawEntity(view sim.EntityView) {
	style := tcell.StyleDefault
	if view.PlayerI >= 0 {
		style = playerStyles[view.PlayerI%len(playerStyles)]
	}
	if view.InHitlag {
		style = style.Reverse(true)
	}

	var glyph rune
	switch view.DefKey {
	case "basic-item":
		glyph = '*'
	case "basic-projectile":
		glyph = '·'
	case "basic-hazard":
		glyph = '#'
	default:
		glyph = '@'
	}
	x, y := sb.project(view.Pos.X, view.Pos.Y)
	sb.screen.SetContent(x, y, glyph, nil, style)

	if view.PlayerI >= 0 {
		face := '>'
		dx := 1
		if !view.FaceRight {
			face = '<'
			dx = -1
		}
		sb.screen.SetContent(x+dx, y, face, nil, style)
	}

	if sb.showBoxes {
		boxStyle := tcell.StyleDefault.Foreground(tcell.ColorDarkCyan)
		for _, cb := range view.Colboxes {
			if cb.Role == entitydef.RoleHit {
				boxStyle = tcell.StyleDefault.Foreground(tcell.ColorRed)
			}
			cx, cy := sb.project(cb.Pos.X, cb.Pos.Y)
			sb.screen.SetContent(cx, cy, 'o', nil, boxStyle)
		}
	}
}

func (sb *sandbox) drawHUD(views []sim.EntityView) {
	row := 0
	for _, view := range views {
		if view.PlayerI < 0 {
			continue
		}
		style := playerStyles[view.PlayerI%len(playerStyles)]
		line := fmt.Sprintf("P%d %5.1f%% stocks:%d %s f%d",
			view.PlayerI+1, view.Damage, view.Stocks, view.ActionName, view.Frame)
		drawText(sb.screen, 1, row, style, line)
		row++
	}
	_, h := sb.screen.Size()
	help := "arrows/hjkl move  f attack  space jump  s shield  d throw  c boxes  p pause  q quit"
	if sb.paused {
		help = "PAUSED  r single step  p resume  q quit"
	}
	drawText(sb.screen, 1, h-1, tcell.StyleDefault.Foreground(tcell.ColorGray), help)

	if sb.showDebug {
		drawText(sb.screen, 1, row+1, tcell.StyleDefault,
			fmt.Sprintf("frame %d checksum %016x entities %d",
				sb.game.Frame, sb.game.Checksum(), sb.game.Entities.Len()))
	}
}

func drawText(screen tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		screen.SetContent(x+i, y, r, nil, style)
	}
}
