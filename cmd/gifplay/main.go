package main

import (
	"errors"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/jessevdk/go-flags"
	"github.com/rmcsoft/gifplayer"
	"github.com/rmcsoft/gifplayer/display"
	"github.com/sirupsen/logrus"
)

type options struct {
	Input   string        `short:"i" long:"input" required:"true" description:"The GIF file to play"`
	Sink    string        `short:"s" long:"sink" default:"sdl" choice:"sdl" choice:"kmsdrm" choice:"dir" choice:"null" description:"Where frames are shown"`
	DumpDir string        `short:"o" long:"dump-dir" default:"frames" description:"The output directory of the dir sink"`
	Card    int           `long:"card" default:"0" description:"The DRM card number of the kmsdrm sink"`
	RGB16   bool          `long:"rgb16" description:"Scan out RGB565 instead of XRGB8888 on the kmsdrm sink"`
	Frames  int           `short:"n" long:"frames" description:"Stop after this many frames, 0 plays until the end"`
	Timeout time.Duration `short:"t" long:"timeout" default:"1s" description:"How long to wait for a frame"`
	Verbose bool          `short:"v" long:"verbose" description:"Log every composed frame"`

	NoDelayNormalization bool `long:"no-delay-normalization" description:"Keep frame delays below 20ms"`
	HonorLoopCount       bool `long:"honor-loop-count" description:"Stop after the declared number of loops"`
	Background           bool `long:"background" description:"Clear to the background color instead of transparent"`
	Cache                bool `long:"cache" description:"Keep decoded frames packed in memory"`
	BGRA                 bool `long:"bgra" description:"Publish frames as premultiplied BGRA"`
}

func init() {
	// SDL must be driven from the main thread.
	runtime.LockOSThread()
}

func parseCmd() options {
	var opts options
	var cmdParser = flags.NewParser(&opts, flags.Default)
	var err error

	if _, err = cmdParser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Input, err = filepath.Abs(opts.Input); err != nil {
		logrus.WithError(err).Fatal("Invalid input path")
	}

	return opts
}

func newLogger(opts *options) *logrus.Logger {
	logger := logrus.New()
	logger.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	if opts.Verbose {
		logger.Level = logrus.DebugLevel
	}
	return logger
}

func animatorOptions(opts *options, logger *logrus.Logger) gifplayer.Options {
	animOpts := gifplayer.Options{
		Logger:                    logger,
		DisableDelayNormalization: opts.NoDelayNormalization,
		ClearToBackground:         opts.Background,
		PixelFormat:               gifplayer.PRGBA32,
		CacheFrames:               opts.Cache,
	}
	if opts.HonorLoopCount {
		animOpts.LoopPolicy = gifplayer.LoopHonorCount
	}
	if opts.BGRA {
		animOpts.PixelFormat = gifplayer.PBGRA32
	}
	return animOpts
}

func makeSink(opts *options, meta gifplayer.GlobalMetadata) (display.Sink, error) {
	switch opts.Sink {
	case "sdl":
		return display.NewSDLSink(meta.RenderWidth, meta.RenderHeight)
	case "kmsdrm":
		pixFormat := gifplayer.RGB32
		if opts.RGB16 {
			pixFormat = gifplayer.RGB16
		}
		return display.NewKMSDRMSink(opts.Card, pixFormat)
	case "dir":
		return display.NewDirSink(opts.DumpDir)
	default:
		return display.NewNullSink(), nil
	}
}

func main() {
	opts := parseCmd()
	logger := newLogger(&opts)

	animator := gifplayer.NewAnimator(gifplayer.NewSoftwareDevice(), gifplayer.GIFDecoder{},
		animatorOptions(&opts, logger))
	if err := animator.Start(opts.Input); err != nil {
		logger.WithError(err).Fatal("Could not start animation")
	}
	defer animator.Stop()

	sink, err := makeSink(&opts, animator.Metadata())
	if err != nil {
		logger.WithError(err).Errorf("Could not open %s sink", opts.Sink)
		return
	}
	defer sink.Close()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	if err = play(&opts, animator, sink, sig, logger); err != nil {
		logger.WithError(err).Error("Playback failed")
	}
}

func play(opts *options, animator *gifplayer.Animator, sink display.Sink, sig <-chan os.Signal, logger *logrus.Logger) error {
	var frame gifplayer.PublishedFrame
	presented := 0
	for opts.Frames == 0 || presented < opts.Frames {
		select {
		case s := <-sig:
			logger.WithField("signal", s).Info("Interrupted")
			return nil
		default:
		}

		err := animator.WaitAndFetch(opts.Timeout, &frame)
		switch {
		case errors.Is(err, gifplayer.ErrTimeout):
			continue
		case errors.Is(err, gifplayer.ErrStopped):
			return nil
		case err != nil:
			return err
		}

		if err = sink.Present(&frame); err != nil {
			if errors.Is(err, display.ErrQuit) {
				return nil
			}
			return err
		}
		presented++
	}

	logger.WithField("frames", presented).Info("Frame limit reached")
	return nil
}
