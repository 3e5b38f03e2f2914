// Command woodaudio runs the always-on pipeline: discovery seed, command
// router, fetcher, and player, wired to a shared bus and playlist, plus
// the control HTTP surface.
//
// Grounded on the teacher's cmd/desktop/main.go for config-load-then-run
// shape, generalized from a single Fyne UI goroutine to the six-thread
// supervision model of spec §5 via golang.org/x/sync/errgroup.
package main

import (
	"context"
	"flag"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/woodaudio/player/internal/bus"
	"github.com/woodaudio/player/internal/catalog"
	"github.com/woodaudio/player/internal/config"
	"github.com/woodaudio/player/internal/discovery"
	"github.com/woodaudio/player/internal/fetcher"
	"github.com/woodaudio/player/internal/httpapi"
	"github.com/woodaudio/player/internal/logging"
	"github.com/woodaudio/player/internal/platform"
	"github.com/woodaudio/player/internal/player"
	"github.com/woodaudio/player/internal/queue"
	"github.com/woodaudio/player/internal/router"
)

var (
	configPath = flag.String("config", "", "path to config.ini (defaults to $HOME/.config/woodaudio/config.ini)")
	httpAddr   = flag.String("http-addr", ":8080", "address the control HTTP surface listens on")
	catalogURL = flag.String("catalog-url", "https://api.tidalhifi.com/v1", "base URL of the Catalog API")
)

func main() {
	flag.Parse()
	log := logging.For("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	path := *configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			log.Fatal().Err(err).Msg("resolve default config path")
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	cacheDir, err := platform.GetCacheDir()
	if err != nil {
		log.Fatal().Err(err).Msg("resolve cache dir")
	}
	fileCache, err := fetcher.NewFileCache(cacheDir)
	if err != nil {
		log.Fatal().Err(err).Msg("init file cache")
	}

	b := bus.New()
	q := queue.New()
	cat := catalog.New(catalog.Config{
		BaseURL: *catalogURL,
		Token:   cfg.Tidal.AccessToken,
	})
	disco := discovery.New(cat, b)
	coverDir := filepath.Join(cacheDir, "covers")
	coverProc, err := router.NewFileCoverProcessor(cat, coverDir)
	if err != nil {
		log.Fatal().Err(err).Msg("init cover processor")
	}
	rt := router.New(q, b, disco, cat, coverProc)

	bufferLimit := cfg.Player.BufferLimit
	if bufferLimit <= 0 {
		bufferLimit = fetcher.DefaultBufferLimit
	}
	worker := fetcher.New(cat, q, fetcher.WithCache(fileCache), fetcher.WithBufferLimit(bufferLimit))

	// No real Decoder/Sink implementation ships in this repo — spec §6
	// scopes them as abstract external capabilities the process is
	// configured with, the same way Catalog is.
	pl := player.New(q, b, noopDecoder{}, func() (player.Sink, error) { return noopSink{}, nil })

	httpServer := httpapi.New(b)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		disco.Seed(gctx)
		return nil
	})

	g.Go(func() error {
		sub := b.Subscribe(gctx, router.Commands()...)
		rt.Run(gctx, sub)
		return nil
	})

	g.Go(func() error {
		worker.Run(gctx)
		return nil
	})

	g.Go(func() error {
		sub := b.Subscribe(gctx, player.Commands()...)
		pl.Run(gctx, sub)
		return nil
	})

	g.Go(func() error {
		srv := &http.Server{Addr: *httpAddr, Handler: httpServer.Router()}
		go func() {
			<-gctx.Done()
			srv.Close()
		}()
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("pipeline exited with error")
	}
}

type noopDecoder struct{}

func (noopDecoder) Decode(stream []byte) (player.Source, error) { return stream, nil }

type noopSink struct{}

func (noopSink) Append(player.Source) error { return nil }
func (noopSink) Play()                      {}
func (noopSink) Pause()                     {}
func (noopSink) IsPaused() bool             { return false }
func (noopSink) Clear()                     {}
func (noopSink) Empty() bool                { return true }
