// Command svgview shows vector documents in a window.
//
// Usage:
//
//	svgview [flags] [address]
//
// The address may be an http(s) URL, a file:// URL or a path. Further
// addresses are read from standard input, one per line; each one replaces
// the document on screen. The window stays open until it is closed.
//
// With -backend software no window is opened; -out writes the last frame
// to a PNG file once standard input is exhausted.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"

	"github.com/gogpu/svgview"
	"github.com/gogpu/svgview/backend"
	_ "github.com/gogpu/svgview/backend/gogpu" // Register the window backend
	"github.com/gogpu/svgview/render"
	"github.com/gogpu/svgview/viewer"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "svgview:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		size      = flag.String("size", "400x400", "surface size in pixels, WIDTHxHEIGHT")
		container = flag.String("container", viewer.DefaultContainer, "name of the surface container")
		bg        = flag.String("bg", "#ffffff", "background color")
		timeout   = flag.Duration("timeout", 0, "per-request timeout (0 means none)")
		verbose   = flag.Bool("v", false, "enable debug logging")
		fontPath  = flag.String("font", "", "TrueType/OpenType font for text elements")
		shape     = flag.Bool("shape", false, "shape text with go-text/typesetting")
		name      = flag.String("backend", "", "backend name (default: first available of "+strings.Join(backend.Available(), ", ")+")")
		out       = flag.String("out", "", "write the last frame to this PNG file (software backend)")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	svgview.SetLogger(logger)

	width, height, err := parseSize(*size)
	if err != nil {
		return err
	}
	if *shape {
		text.SetShaper(text.NewGoTextShaper())
		defer text.SetShaper(nil)
	}

	opts := []viewer.Option{
		viewer.WithSize(width, height),
		viewer.WithContainer(*container),
		viewer.WithBackground(gg.Hex(*bg)),
		viewer.WithRequestTimeout(*timeout),
		viewer.WithErrorHandler(func(address string, err error) {
			logger.Error("cannot show document", "address", address, "err", err)
		}),
	}
	if *fontPath != "" {
		f, err := render.LoadFont(*fontPath)
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
		opts = append(opts, viewer.WithFont(f))
	}

	cfg := backend.Config{Title: "svgview", Width: width, Height: height}
	var b render.Backend
	if *name != "" {
		b, err = backend.Get(*name, cfg)
	} else {
		b, err = backend.Default(cfg)
	}
	if err != nil {
		return err
	}

	v := viewer.New(b, opts...)
	defer v.Close()

	feedErr := make(chan error, 1)
	go func() {
		err := feed(v, flag.Arg(0))
		if err == nil && *out != "" {
			err = savePNG(b, *out)
		}
		feedErr <- err
		// A window stays open until the user closes it.
		if _, headless := b.(*backend.SoftwareBackend); err != nil || headless {
			if c, ok := b.(backend.Closer); ok {
				c.Close()
			}
		}
	}()

	if r, ok := b.(backend.Runner); ok {
		if err := r.Run(); err != nil {
			return err
		}
		select {
		case err := <-feedErr:
			return err
		default:
			return nil
		}
	}
	return <-feedErr
}

// feed initializes v and shows first, then every line of standard input.
func feed(v *viewer.Viewer, first string) error {
	// The window backend needs a few draw callbacks for setup.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	err := v.Init(ctx)
	cancel()
	if err != nil {
		return err
	}

	if first != "" {
		v.SetAddress(first)
	}
	sc := bufio.NewScanner(os.Stdin)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			v.SetAddress(line)
		}
	}
	v.Wait()
	return sc.Err()
}

func savePNG(b render.Backend, path string) error {
	sw, ok := b.(*backend.SoftwareBackend)
	if !ok {
		return errors.New("-out requires the software backend")
	}
	s := sw.Surface()
	if s == nil {
		return errors.New("no surface")
	}
	if err := s.SavePNG(path); err != nil {
		return err
	}
	svgview.Logger().Info("frame written", "path", path, "frames", s.Frames())
	return nil
}

// parseSize parses "WIDTHxHEIGHT".
func parseSize(s string) (w, h int, err error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if ok {
		w, err = strconv.Atoi(ws)
		if err == nil {
			h, err = strconv.Atoi(hs)
		}
	}
	if !ok || err != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q", s)
	}
	return w, h, nil
}
