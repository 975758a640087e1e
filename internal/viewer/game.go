package viewer

import (
	"image/color"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/thnplay/thnplay/internal/config"
	"github.com/thnplay/thnplay/internal/thn"
	"go.uber.org/zap"
	"golang.org/x/image/colornames"
)

// Loader builds a fresh cutscene. The viewer calls it on start, on restart
// and whenever Reload fires.
type Loader func() (*thn.Cutscene, error)

// Game is an ebiten game that plays a cutscene and draws a top-down debug
// view of it.
type Game struct {
	cfg    config.ViewerConfig
	load   Loader
	log    *zap.Logger
	reload <-chan string

	cutscene *thn.Cutscene
	scene    *scene
	speed    float64
	paused   bool
	status   string
}

// New loads the first cutscene. reload may be nil.
func New(cfg config.ViewerConfig, speed float64, load Loader, reload <-chan string, log *zap.Logger) (*Game, error) {
	if speed <= 0 {
		speed = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	g := &Game{
		cfg:    cfg,
		load:   load,
		log:    log,
		reload: reload,
		scene:  newScene(cfg.Width, cfg.Height, cfg.Scale),
		speed:  speed,
	}
	c, err := load()
	if err != nil {
		return nil, err
	}
	g.cutscene = c
	c.Draw(g.scene)
	return g, nil
}

func (g *Game) restart(reason string) {
	c, err := g.load()
	if err != nil {
		g.status = "reload failed: " + err.Error()
		g.log.Warn("reload failed", zap.String("reason", reason), zap.Error(err))
		return
	}
	if g.cutscene != nil {
		g.cutscene.Close()
	}
	g.cutscene = c
	g.status = ""
	g.log.Info("cutscene loaded", zap.String("reason", reason), zap.String("name", c.Name()))
}

func (g *Game) Update() error {
	select {
	case path, ok := <-g.reload:
		if ok {
			g.restart(path)
		}
	default:
	}

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.paused = !g.paused
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.restart("restart")
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual):
		g.speed *= 2
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus):
		g.speed /= 2
	}

	if !g.paused {
		step := time.Duration(float64(time.Second) * g.speed / float64(ebiten.TPS()))
		g.cutscene.Update(step)
	}
	g.cutscene.Draw(g.scene)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 18, G: 22, B: 30, A: 255})
	s := g.scene

	for _, l := range s.links {
		vector.StrokeLine(screen, l.x1, l.y1, l.x2, l.y2, 1, colornames.Slategray, true)
	}
	for _, l := range s.lamps {
		c := colornames.Dimgray
		if l.on {
			c = colornames.Gold
		}
		vector.FillRect(screen, l.x-2, l.y-2, 4, 4, c, false)
	}
	for _, m := range s.markers {
		switch m.kind {
		case thn.ObjectModel:
			vector.FillRect(screen, m.x-3, m.y-3, 6, 6, colornames.Lightsteelblue, false)
		case thn.ObjectEffect:
			c := colornames.Sienna
			if m.active {
				c = colornames.Orange
			}
			vector.StrokeRect(screen, m.x-4, m.y-4, 8, 8, 1, c, false)
		default:
			vector.StrokeRect(screen, m.x-2, m.y-2, 4, 4, 1, colornames.Gray, false)
		}
		ebitenutil.DebugPrintAt(screen, m.label, int(m.x)+6, int(m.y)-6)
	}

	vector.FillRect(screen, s.camX-3, s.camY-3, 6, 6, colornames.Crimson, false)
	vector.StrokeLine(screen, s.camX, s.camY, s.camX+s.camDirX, s.camY+s.camDirY, 2, colornames.Crimson, true)

	for i, line := range s.hud {
		ebitenutil.DebugPrintAt(screen, line, 8, 8+i*16)
	}
	y := 8 + len(s.hud)*16
	if g.paused {
		ebitenutil.DebugPrintAt(screen, "paused", 8, y)
		y += 16
	}
	if g.status != "" {
		ebitenutil.DebugPrintAt(screen, g.status, 8, y)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

// Close releases the current cutscene.
func (g *Game) Close() {
	if g.cutscene != nil {
		g.cutscene.Close()
		g.cutscene = nil
	}
}
