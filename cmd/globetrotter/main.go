package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/globetrotter-project/globetrotter/config"
	"github.com/globetrotter-project/globetrotter/converter"
	"github.com/globetrotter-project/globetrotter/internal"
	"github.com/globetrotter-project/globetrotter/track"
	"github.com/globetrotter-project/globetrotter/utils"
)

func main() {
	configPath := flag.String("config", "", "path to config.yml")
	source := flag.String("source", "ais", "ais|photos|kml")
	format := flag.String("format", "kml-track", "kml|kml-track|kml-path|gpx")
	outDir := flag.String("out", "", "output directory (overrides config)")
	dayIndex := flag.Int("day", -1, "day color index (overrides config)")
	flag.Parse()

	internal.InitLogging()
	if err := config.LoadAppConfig(*configPath); err != nil {
		panic(err)
	}
	cfg := config.Config
	if *outDir != "" {
		cfg.Export.OutputDir = *outDir
	}
	if *dayIndex >= 0 {
		cfg.Export.DayIndex = *dayIndex
	}
	if flag.NArg() == 0 {
		panic("no input files; pass recording logs, a photo directory, or KML documents")
	}

	conv := converter.NewConverter(cfg)
	var tracks []*track.Track
	var err error
	switch *source {
	case "ais":
		tracks, err = conv.ConvertAIS(flag.Args())
	case "photos":
		var t *track.Track
		t, err = conv.ConvertPhotos(flag.Arg(0))
		tracks = []*track.Track{t}
	case "kml":
		for _, path := range flag.Args() {
			t, cErr := conv.ConvertKML(path)
			if cErr != nil {
				err = cErr
				break
			}
			tracks = append(tracks, t)
		}
	default:
		panic("unknown source " + *source)
	}
	if err != nil {
		panic(err)
	}

	if err := os.MkdirAll(cfg.Export.OutputDir, 0o755); err != nil {
		panic(err)
	}
	written := 0
	for _, t := range tracks {
		if t.Len() == 0 {
			continue
		}
		buf, err := conv.Export(t, *format)
		if err != nil {
			panic(err)
		}
		path := filepath.Join(cfg.Export.OutputDir, outputName(cfg.Dataset.Name, t.Name, *format))
		if err := os.WriteFile(path, buf, 0o644); err != nil {
			panic(err)
		}
		written++
		log.Printf("Track %s: %d positions, %s, wrote %s",
			t.Name, t.Len(), utils.PresentableDistance(t.LengthKM()), path)
	}
	if err := conv.Archive(tracks, *source); err != nil {
		panic(err)
	}
	conv.Warnings.LogAll(cfg.Dataset.Name, *source)
	log.Printf("Dataset %s: %d tracks in, %d documents out", cfg.Dataset.Name, len(tracks), written)
}

func outputName(dataset, trackName, format string) string {
	ext := "kml"
	if format == converter.FormatGPX {
		ext = "gpx"
	}
	name := strings.ReplaceAll(trackName, string(filepath.Separator), "_")
	return fmt.Sprintf("%s_%s.%s", dataset, name, ext)
}
