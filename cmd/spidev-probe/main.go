package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/BeatGlow/ledmatrix/conn"
)

func main() {
	busFlag := flag.Int("bus", 0, "SPI bus")
	deviceFlag := flag.Int("device", 0, "SPI device")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	c, err := conn.OpenSPI(*busFlag, *deviceFlag)
	if err != nil {
		log.Fatal().Err(err).Str("path", conn.DevicePath(*busFlag, *deviceFlag)).Msg("open failed")
	}
	log.Info().
		Stringer("device", c).
		Stringer("mode", c.Mode()).
		Bool("lsb_first", c.LSBFirst()).
		Uint8("bits_per_word", c.BitsPerWord()).
		Int("max_speed_hz", c.MaxSpeed()).
		Msg("connected")
	if err = c.Close(); err != nil {
		log.Fatal().Err(err).Msg("close failed")
	}
}
