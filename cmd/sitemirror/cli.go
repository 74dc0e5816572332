package main

import (
	"context"
	"io"
	"time"

	"github.com/kborowski/sitemirror/crawl"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Crawler *crawl.Crawler
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Mirror MirrorCmd `cmd:"" default:"withargs" help:"Mirror a website into a local directory"`
}

// MirrorCmd is the "mirror" command.
type MirrorCmd struct {
	URL         string        `arg:"" help:"Seed URL to mirror"`
	Output      string        `short:"o" default:"mirrored_site" help:"Output directory"`
	Domain      string        `help:"Allowed domain (defaults to the seed URL's host)"`
	MaxDepth    int           `short:"d" default:"0" help:"Maximum link depth to follow from the seed"`
	Concurrency int           `short:"c" default:"4" help:"Concurrent page limit"`
	Rate        float64       `default:"1.0" help:"Requests per second per domain"`
	Settle      time.Duration `default:"5s" help:"Wait after page load for dynamic content to settle"`
	Timeout     time.Duration `default:"60s" help:"Per-page render timeout"`
	Verbose     bool          `short:"v" help:"Enable debug logging"`
}
