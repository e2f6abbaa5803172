package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"fyne.io/fyne/v2"

	"SketchBoard/internal/config"
	"SketchBoard/internal/log"
	boardnet "SketchBoard/internal/net"
	"SketchBoard/internal/rough"
	"SketchBoard/internal/state"
	"SketchBoard/internal/ui"
)

func main() {
	cfg := loadConfig()

	args := os.Args
	switch {
	case len(args) > 1 && strings.HasPrefix(args[1], boardnet.Scheme):
		runViewer(cfg, args[1])
	case len(args) > 1 && args[1] == "discover":
		runDiscover()
	default:
		runHost(cfg)
	}
}

func loadConfig() config.AppConfig {
	path, err := config.DefaultPath()
	if err != nil {
		path = ""
	}
	cfg, loadErr := config.Load(path)
	log.Init(log.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})
	log.L().Info("sketchboard starting", "config", path, "pid", os.Getpid())
	if err != nil {
		log.L().Warn("no config directory, using defaults", "err", err)
	}
	if loadErr != nil {
		log.L().Warn("config unreadable, using defaults", "err", loadErr)
	}
	return cfg
}

func newController(cfg config.AppConfig, tools state.ToolSource) *state.Controller {
	gen := rough.NewGenerator(rough.Options{
		Roughness:   cfg.Rough.Roughness,
		Bowing:      cfg.Rough.Bowing,
		StrokeWidth: cfg.Rough.StrokeWidth,
		CurveSteps:  cfg.Rough.CurveSteps,
		Seed:        cfg.Rough.Seed,
	})
	return state.NewController(state.NewBoard(gen), tools)
}

func windowSize(cfg config.AppConfig) fyne.Size {
	return fyne.NewSize(cfg.General.WindowWidth, cfg.General.WindowHeight)
}

func runHost(cfg config.AppConfig) {
	logger := log.WithComponent("main")
	logger.Info("starting as host", "share", cfg.Share.Enabled)

	tools := ui.NewToolSelector(state.Tool(cfg.General.DefaultTool))
	ctrl := newController(cfg, tools)
	board := ui.NewBoardWidget(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	status := "Ready"
	if cfg.Share.Enabled {
		hub := boardnet.NewHub()
		ctrl.Board().OnChange(hub.Publish)
		go func() {
			if err := boardnet.Serve(ctx, fmt.Sprintf(":%d", cfg.Share.Port), hub, nil); err != nil {
				logger.Error("share server stopped", "err", err)
				board.SetStatus("Sharing unavailable: " + err.Error())
			}
		}()
		if cfg.Share.MDNS {
			if srv, err := boardnet.Advertise(cfg.Share.Port); err != nil {
				logger.Warn("mdns advertise failed", "err", err)
			} else {
				defer srv.Shutdown()
			}
		}
		link := boardnet.ShareLink(boardnet.OutgoingIP(), cfg.Share.Port)
		logger.Info("share link", "link", link)
		status = "Share: " + link
	}

	ui.RunApp(ui.AppOptions{
		Title:  "SketchBoard",
		Size:   windowSize(cfg),
		Board:  board,
		Tools:  tools,
		Status: status,
	})
}

func runViewer(cfg config.AppConfig, link string) {
	logger := log.WithComponent("main")
	logger.Info("starting as viewer", "link", link)

	tools := ui.NewToolSelector(state.ToolSelect)
	ctrl := newController(cfg, tools)
	board := ui.NewBoardWidget(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ui.RunApp(ui.AppOptions{
		Title:   "SketchBoard (viewing)",
		Size:    windowSize(cfg),
		Board:   board,
		Tools:   tools,
		Status:  "Connecting to " + link,
		Viewer:  true,
		OnStart: func() { go follow(ctx, link, board, logger) },
	})
}

// follow mirrors the host's board until ctx ends or the connection drops.
func follow(ctx context.Context, link string, board *ui.BoardWidget, logger *slog.Logger) {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	v, err := boardnet.Dial(dialCtx, link)
	cancel()
	if err != nil {
		logger.Error("connect failed", "err", err)
		board.SetStatus(fmt.Sprintf("Connection failed: %v", err))
		return
	}
	defer v.Close()
	board.SetStatus("Viewing " + link + " as " + v.LocalAddr())

	err = v.Run(ctx, func(s state.Snapshot) {
		fyne.Do(func() { board.Controller().Board().Load(s.Shapes) })
	})
	if err != nil && ctx.Err() == nil {
		logger.Warn("disconnected", "err", err)
		board.SetStatus(fmt.Sprintf("Disconnected from host: %v", err))
	}
}

func runDiscover() {
	links, err := boardnet.Discover(3 * time.Second)
	if err != nil {
		log.L().Error("discover failed", "err", err)
		os.Exit(1)
	}
	if len(links) == 0 {
		fmt.Println("no boards found")
		return
	}
	for _, l := range links {
		fmt.Println(l)
	}
}
