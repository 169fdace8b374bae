package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/max7219"
	"periph.io/x/host/v3"

	"github.com/BeatGlow/ledmatrix"
	"github.com/BeatGlow/ledmatrix/internal/config"
	hostloop "github.com/BeatGlow/ledmatrix/internal/host"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to the YAML configuration")
		chips      = flag.Int("chips", 0, "number of chips in the chain")
		offset     = flag.Int("offset", -1, "number of virtual chips after the chain")
		intensity  = flag.Int("intensity", -1, "brightness (0-15)")
		invert     = flag.Bool("invert", false, "invert the display")
		text       = flag.String("text", "", "text to show")
		clock      = flag.String("clock", "", "show the time using this layout, e.g. 15:04")
		scroll     = flag.Int("scroll", -1, "columns to scroll per update")
		interval   = flag.Duration("interval", 0, "update interval")
		port       = flag.String("port", "", "periph.io SPI port name, uses spidev when empty")
		spiBus     = flag.Int("spi-bus", -1, "spidev bus")
		spiDevice  = flag.Int("spi-dev", -1, "spidev device")
		speed      = flag.Uint("speed", 0, "SPI clock speed in Hz")
		csPin      = flag.String("cs", "", "chip select GPIO pin, e.g. GPIO8")
		reference  = flag.Bool("reference", false, "show the text with the periph.io max7219 driver, requires -port")
		debug      = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fatal(err)
		}
	}

	// Flags override the configuration file.
	if *chips > 0 {
		cfg.Chips = *chips
	}
	if *offset >= 0 {
		cfg.Offset = *offset
	}
	if *intensity >= 0 {
		cfg.Intensity = intensityLevel(*intensity)
	}
	if *invert {
		cfg.Invert = true
	}
	if *text != "" {
		cfg.Text = *text
	}
	if *clock != "" {
		cfg.Clock = *clock
	}
	if *scroll >= 0 {
		cfg.Scroll = *scroll
	}
	if *interval > 0 {
		cfg.Interval = *interval
	}
	if *port != "" {
		cfg.SPI.Port = *port
	}
	if *spiBus >= 0 {
		cfg.SPI.Bus = *spiBus
	}
	if *spiDevice >= 0 {
		cfg.SPI.Device = *spiDevice
	}
	if *speed > 0 {
		cfg.SPI.SpeedHz = uint32(*speed)
	}
	if *csPin != "" {
		cfg.SPI.CS = *csPin
	}
	if cfg.Text == "" && cfg.Clock == "" {
		cfg.Text = "HELLO"
	}

	if _, err := host.Init(); err != nil {
		fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *reference {
		if err := runReference(ctx, cfg); err != nil {
			fatal(err)
		}
		return
	}

	conn, closePort, err := openConn(cfg)
	if err != nil {
		fatal(err)
	}
	defer closePort()
	log.Info().Stringer("conn", conn).Msg("connected")

	matrixConfig := cfg.Matrix()
	matrixConfig.Writer = writer(cfg)
	m, err := ledmatrix.MAX7219(conn, matrixConfig)
	if err != nil {
		fatal(err)
	}
	defer func() {
		if err := m.Close(); err != nil {
			log.Error().Err(err).Msg("close failed")
		}
	}()
	m.LogConfig()

	log.Info().Dur("interval", cfg.Interval).Msg("hit control-c to stop...")
	poller := &hostloop.Poller{
		Interval:  cfg.Interval,
		Component: m,
	}
	if err = poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("poller failed")
	}
}

// intensityLevel reduces a flag value to the intensity register range.
func intensityLevel(v int) uint8 {
	if v > ledmatrix.MaxIntensity {
		return ledmatrix.MaxIntensity
	}
	return uint8(v)
}

// openConn opens a periph.io port when one is named, or a raw spidev device.
func openConn(cfg *config.Config) (ledmatrix.Conn, func(), error) {
	if cfg.SPI.Port != "" {
		p, err := spireg.Open(cfg.SPI.Port)
		if err != nil {
			return nil, nil, err
		}
		conn, err := ledmatrix.NewSPI(p, physic.Frequency(cfg.SPI.SpeedHz)*physic.Hertz)
		if err != nil {
			_ = p.Close()
			return nil, nil, err
		}
		return conn, func() { _ = p.Close() }, nil
	}

	spiConfig := cfg.SPIConfig()
	if cfg.SPI.CS != "" {
		if spiConfig.CS = gpioreg.ByName(cfg.SPI.CS); spiConfig.CS == nil {
			return nil, nil, fmt.Errorf("unknown chip select pin %q", cfg.SPI.CS)
		}
	}
	conn, err := ledmatrix.OpenSPI(spiConfig)
	if err != nil {
		return nil, nil, err
	}
	return conn, func() {}, nil
}

// runReference shows the configured text with the periph.io driver until ctx is done.
func runReference(ctx context.Context, cfg *config.Config) error {
	if cfg.SPI.Port == "" {
		return errors.New("reference driver needs a periph.io SPI port")
	}
	p, err := spireg.Open(cfg.SPI.Port)
	if err != nil {
		return err
	}
	defer p.Close()

	dev, err := max7219.NewSPI(p, cfg.Chips, 8)
	if err != nil {
		return err
	}
	dev.SetGlyphs(max7219.CP437Glyphs, true)
	if err = dev.SetDecode(max7219.DecodeNone); err != nil {
		return err
	}
	if err = dev.Write([]byte(cfg.Text)); err != nil {
		return err
	}
	log.Info().Str("port", cfg.SPI.Port).Str("text", cfg.Text).Msg("reference driver, hit control-c to stop...")

	<-ctx.Done()
	return dev.Clear()
}

// writer draws the configured text or clock on every update.
func writer(cfg *config.Config) ledmatrix.Writer {
	return func(m *ledmatrix.Matrix) {
		switch {
		case cfg.Clock != "":
			m.Strftime(0, cfg.Clock, time.Now())
		case cfg.Scroll > 0:
			m.DrawText(0, cfg.Text)
		default:
			m.Print(cfg.Text)
		}
		if cfg.Scroll > 0 {
			m.ScrollLeft(cfg.Scroll)
		}
	}
}

func fatal(err error) {
	log.Fatal().Err(err).Msg("fatal")
}
