// Command headless runs a match without a renderer: scripted inputs, a
// fixed number of frames, and a state checksum at the end. It exists to
// soak-test determinism and to profile the simulation.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/rukai/canon-collision-sub001/entitydef"
	"github.com/rukai/canon-collision-sub001/input"
	"github.com/rukai/canon-collision-sub001/sim"
	"github.com/rukai/canon-collision-sub001/stage"
)

var (
	configFlag   = flag.String("config", "", "Optional TOML config file")
	seedFlag     = flag.Uint64("seed", 42, "Match seed")
	framesFlag   = flag.Int("frames", 3600, "Frames to simulate")
	playersFlag  = flag.Int("players", 2, "Number of fighters")
	stocksFlag   = flag.Int("stocks", sim.DefaultStocks, "Stocks per fighter")
	stageFlag    = flag.String("stage", "", "Stage TOML file, built-in stage when empty")
	defsFlag     = flag.String("defs", "", "Entity definition TOML file, built-ins when empty")
	logEveryFlag = flag.Int("log-every", 600, "Log progress every N frames, 0 disables")
	verifyFlag   = flag.Bool("verify", false, "Run the match twice and compare checksums")
	debugFlag    = flag.Bool("debug", false, "Debug level logging")
)

func main() {
	flag.Parse()

	v := viper.New()
	v.SetDefault("seed", *seedFlag)
	v.SetDefault("frames", *framesFlag)
	v.SetDefault("players", *playersFlag)
	v.SetDefault("stocks", *stocksFlag)
	v.SetDefault("stage", *stageFlag)
	v.SetDefault("defs", *defsFlag)
	if *configFlag != "" {
		v.SetConfigFile(*configFlag)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to read config: %v\n", err)
			os.Exit(1)
		}
	}
	// explicit flags win over the config file
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed", "frames", "players", "stocks", "stage", "defs":
			v.Set(f.Name, f.Value.String())
		}
	})

	level := zerolog.InfoLevel
	if *debugFlag {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	stg := stage.Default()
	if path := v.GetString("stage"); path != "" {
		loaded, err := stage.Load(path)
		if err != nil {
			logger.Fatal().Err(err).Msg("stage load failed")
		}
		stg = loaded
	}
	defs := entitydef.Builtin()
	if path := v.GetString("defs"); path != "" {
		loaded, err := entitydef.Load(path)
		if err != nil {
			logger.Fatal().Err(err).Msg("entity defs load failed")
		}
		defs = loaded
	}

	cfg := sim.Config{
		Stage:    stg,
		Defs:     defs,
		Seed:     v.GetUint64("seed"),
		Stocks:   v.GetInt("stocks"),
		Fighters: make([]string, v.GetInt("players")),
		Logger:   logger,
	}
	for i := range cfg.Fighters {
		cfg.Fighters[i] = "basic-fighter"
	}

	frames := v.GetInt("frames")
	checksum, elapsed := runMatch(cfg, frames, logger)
	logger.Info().
		Int("frames", frames).
		Dur("elapsed", elapsed).
		Float64("fps", float64(frames)/elapsed.Seconds()).
		Msg("match finished")

	if *verifyFlag {
		again, _ := runMatch(cfg, frames, logger)
		if again != checksum {
			logger.Fatal().
				Str("first", fmt.Sprintf("%016x", checksum)).
				Str("second", fmt.Sprintf("%016x", again)).
				Msg("determinism check failed")
		}
		logger.Info().Msg("determinism check passed")
	}
	fmt.Printf("%016x\n", checksum)
}

func runMatch(cfg sim.Config, frames int, logger zerolog.Logger) (uint64, time.Duration) {
	g, err := sim.NewGame(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("game setup failed")
	}

	start := time.Now()
	for i := 0; i < frames; i++ {
		inputs := make([]input.PlayerInput, len(cfg.Fighters))
		for p := range inputs {
			inputs[p] = scriptedInput(g.Frame, p)
		}
		g.Step(inputs)
		if *logEveryFlag > 0 && g.Frame%*logEveryFlag == 0 {
			logger.Info().
				Int("frame", g.Frame).
				Int("entities", g.Entities.Len()).
				Str("checksum", fmt.Sprintf("%016x", g.Checksum())).
				Msg("progress")
		}
	}
	return g.Checksum(), time.Since(start)
}

// scriptedInput drives the fighters through a repeatable exercise loop:
// walk in, jab, jump, drift back out.
func scriptedInput(frame, player int) input.PlayerInput {
	var in input.PlayerInput
	in.PluggedIn = true
	dir := 1.0
	if player%2 == 1 {
		dir = -1.0
	}
	phase := frame % 240
	switch {
	case phase < 90:
		in.StickX = input.Stick{Value: 0.9 * dir}
	case phase < 150:
		if phase%25 == 0 {
			in.A = input.Button{Value: true, Press: true}
		}
	case phase < 160:
		in.X = input.Button{Value: true, Press: phase == 150}
	default:
		in.StickX = input.Stick{Value: -0.6 * dir}
	}
	return in
}
