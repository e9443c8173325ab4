package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/rmcsoft/gifplayer"
	"github.com/sirupsen/logrus"
)

type options struct {
	InputDir  string `short:"i" long:"input-dir"  description:"The input directory"`
	OutputDir string `short:"o" long:"output-dir" description:"The output directory"`
	Format    string `short:"f" long:"format" default:"rgb16" choice:"rgb16" choice:"rgb32" choice:"prgba" choice:"pbgra" description:"The pixel format of packed frames"`
	Rotate    bool   `short:"r" long:"rotate" description:"Rotate frames by 90 degrees"`
}

var pixelFormats = map[string]gifplayer.PixelFormat{
	"rgb16": gifplayer.RGB16,
	"rgb32": gifplayer.RGB32,
	"prgba": gifplayer.PRGBA32,
	"pbgra": gifplayer.PBGRA32,
}

func animations(opts options) chan string {
	ch := make(chan string, 512)
	go func() {
		defer close(ch)

		walkFn := func(path string, info os.FileInfo, err error) error {
			if err == nil && !info.IsDir() {
				if isGIF, _ := filepath.Match("*.gif", strings.ToLower(info.Name())); isGIF {
					ch <- path
				}
			}
			return err
		}

		if err := filepath.Walk(opts.InputDir, walkFn); err != nil {
			logrus.WithError(err).Error("Walking input directory failed")
		}
	}()
	return ch
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

	if opts.InputDir, err = filepath.Abs(opts.InputDir); err != nil {
		logrus.WithError(err).Fatal("Invalid input directory")
	}

	if opts.OutputDir, err = filepath.Abs(opts.OutputDir); err != nil {
		logrus.WithError(err).Fatal("Invalid output directory")
	}

	return opts
}

func pixmapSize(pixmap *gifplayer.Pixmap) int64 {
	return int64(pixmap.BytePerLine * pixmap.Height)
}

func convertPixmap(pixmap *gifplayer.Pixmap, pixFormat gifplayer.PixelFormat) (*gifplayer.Pixmap, error) {
	converted := gifplayer.NewPixmap(pixmap.Width, pixmap.Height, pixFormat)
	for y := 0; y < pixmap.Height; y++ {
		dstOffset := y * converted.BytePerLine
		err := gifplayer.ConvertRow(converted.Data[dstOffset:], pixFormat, pixmap.Row(y), pixmap.PixFormat, pixmap.Width)
		if err != nil {
			return nil, err
		}
	}
	return converted, nil
}

func rotatePixmap(pixmap *gifplayer.Pixmap) *gifplayer.Pixmap {
	pixSize := gifplayer.GetPixelSize(pixmap.PixFormat)
	rotatedData := make([]byte, 0, pixmap.Width*pixmap.Height*pixSize)
	for x := 0; x < pixmap.Width; x++ {
		for y := pixmap.Height - 1; y >= 0; y-- {
			pixOffset := y*pixmap.BytePerLine + x*pixSize
			rotatedData = append(rotatedData, pixmap.Data[pixOffset:pixOffset+pixSize]...)
		}
	}

	return &gifplayer.Pixmap{
		Data:        rotatedData,
		Width:       pixmap.Height,
		Height:      pixmap.Width,
		PixFormat:   pixmap.PixFormat,
		BytePerLine: pixSize * pixmap.Height,
	}
}

func outputDir(opts *options, inputFile string) (string, error) {
	relInputPath, err := filepath.Rel(opts.InputDir, inputFile)
	if err != nil {
		return "", err
	}
	relOutputDir := strings.TrimSuffix(relInputPath, filepath.Ext(relInputPath))
	dir := filepath.Join(opts.OutputDir, relOutputDir)
	return dir, os.MkdirAll(dir, 0755)
}

// repack writes every delta frame of inputFile as a packed pixmap and
// returns the unpacked and packed sizes.
func repack(opts *options, inputFile string) (int64, int64, error) {
	source, err := gifplayer.GIFDecoder{}.Open(inputFile)
	if err != nil {
		return 0, 0, err
	}
	defer source.Close()

	dir, err := outputDir(opts, inputFile)
	if err != nil {
		return 0, 0, err
	}

	var unpackedSize, packedSize int64
	for index := 0; index < source.FrameCount(); index++ {
		decoded, err := source.Frame(index)
		if err != nil {
			return 0, 0, err
		}

		pixmap, err := convertPixmap(decoded.Pixmap, pixelFormats[opts.Format])
		if err != nil {
			return 0, 0, err
		}
		unpackedSize += pixmapSize(pixmap)
		if opts.Rotate {
			pixmap = rotatePixmap(pixmap)
		}

		packedPixmap, err := gifplayer.PackPixmap(pixmap)
		if err != nil {
			return 0, 0, err
		}
		packedSize += int64(len(packedPixmap.Data))

		outputFile := filepath.Join(dir, fmt.Sprintf("%06d.ppixmap", index))
		if err = packedPixmap.Save(outputFile); err != nil {
			return 0, 0, err
		}
	}
	return unpackedSize, packedSize, nil
}

func removeOutputDir(opts *options) {
	if err := os.RemoveAll(opts.OutputDir); err != nil {
		if !os.IsNotExist(err) {
			logrus.WithError(err).Fatal("Could not remove output directory")
		}
	}
}

func main() {
	opts := parseCmd()

	removeOutputDir(&opts)

	var packedSize int64
	var unpackedSize int64
	for inputFile := range animations(opts) {
		logrus.WithField("file", inputFile).Info("Processing")

		unpacked, packed, err := repack(&opts, inputFile)
		if err != nil {
			logrus.WithError(err).WithField("file", inputFile).Error("Repacking failed")
			continue
		}
		unpackedSize += unpacked
		packedSize += packed
	}

	fmt.Printf("---------------------------\n")
	fmt.Printf("unpackedSize=%vM\n", float32(unpackedSize)/float32(1024*1024))
	fmt.Printf("packedSize=%vM\n", float32(packedSize)/float32(1024*1024))
	if packedSize > 0 {
		fmt.Printf("unpackedSize/packedSize=%v\n", float32(unpackedSize)/float32(packedSize))
	}
}
