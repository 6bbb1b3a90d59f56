// Package config loads application settings from defaults, an optional file,
// COLORMIXER_ environment variables and command-line flags, in rising precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/lixenwraith/color-mixer/parameter"
)

// EnvPrefix prefixes every environment override, e.g. COLORMIXER_TIMING_MIX_DURATION
const EnvPrefix = "COLORMIXER"

// Config holds application configuration
type Config struct {
	Pool    PoolConfig        `mapstructure:"pool"`
	Timing  TimingConfig      `mapstructure:"timing"`
	Game    GameConfig        `mapstructure:"game"`
	Audio   AudioConfig       `mapstructure:"audio"`
	Log     LogConfig         `mapstructure:"log"`
	Metrics MetricsConfig     `mapstructure:"metrics"`
	Keys    map[string]string `mapstructure:"keys"`
}

// PoolConfig sizes the ingredient pools
type PoolConfig struct {
	MaxSize int `mapstructure:"max_size"`
}

// TimingConfig holds every animation and wait duration
type TimingConfig struct {
	Lid                time.Duration `mapstructure:"lid"`
	Mix                time.Duration `mapstructure:"mix"`
	WaitBeforeCloseLid time.Duration `mapstructure:"wait_before_close_lid"`
	RenewDelay         time.Duration `mapstructure:"renew_delay"`
	Move               time.Duration `mapstructure:"move"`
	ResetContent       time.Duration `mapstructure:"reset_content"`
	ResetTransform     time.Duration `mapstructure:"reset_transform"`
	Camera             time.Duration `mapstructure:"camera"`
	DispatchInterval   time.Duration `mapstructure:"dispatch_interval"`
	FrameInterval      time.Duration `mapstructure:"frame_interval"`
}

// GameConfig holds scoring and layout settings
type GameConfig struct {
	WinThreshold   float64 `mapstructure:"win_threshold"`
	LevelsFile     string  `mapstructure:"levels_file"`
	PlacementWidth float64 `mapstructure:"placement_width"`
}

// AudioConfig controls cue playback
type AudioConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	Volume  float64 `mapstructure:"volume"`
}

// MetricsConfig controls the Prometheus endpoint, disabled when Addr is empty
type MetricsConfig struct {
	Addr string `mapstructure:"addr"`
}

// LogConfig controls the debug log file
type LogConfig struct {
	Debug bool   `mapstructure:"debug"`
	Dir   string `mapstructure:"dir"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("pool.max_size", parameter.PoolMaxSize)

	v.SetDefault("timing.lid", parameter.LidAnimationDuration)
	v.SetDefault("timing.mix", parameter.MixDuration)
	v.SetDefault("timing.wait_before_close_lid", parameter.WaitBeforeCloseLid)
	v.SetDefault("timing.renew_delay", parameter.RenewDelay)
	v.SetDefault("timing.move", parameter.MoveDuration)
	v.SetDefault("timing.reset_content", parameter.ResetContentDuration)
	v.SetDefault("timing.reset_transform", parameter.ResetTransformDuration)
	v.SetDefault("timing.camera", parameter.CameraDuration)
	v.SetDefault("timing.dispatch_interval", parameter.DispatchInterval)
	v.SetDefault("timing.frame_interval", parameter.FrameInterval)

	v.SetDefault("game.win_threshold", parameter.WinThreshold)
	v.SetDefault("game.levels_file", "")
	v.SetDefault("game.placement_width", parameter.PlacementWidth)

	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.volume", parameter.AudioVolume)

	v.SetDefault("log.debug", false)
	v.SetDefault("log.dir", "logs")

	v.SetDefault("metrics.addr", "")

	v.SetDefault("keys", map[string]string{})
}

// flagBindings maps flag names to config keys
var flagBindings = map[string]string{
	"debug":        "log.debug",
	"levels":       "game.levels_file",
	"mute":         "audio.enabled",
	"volume":       "audio.volume",
	"pool-size":    "pool.max_size",
	"mix":          "timing.mix",
	"threshold":    "game.win_threshold",
	"metrics-addr": "metrics.addr",
}

// RegisterFlags defines the application flags on fs
func RegisterFlags(fs *pflag.FlagSet) {
	fs.StringP("config", "c", "", "config file (toml, yaml or json)")
	fs.BoolP("debug", "d", false, "write a debug log to the log directory")
	fs.String("levels", "", "level catalog file (toml), built-in levels if empty")
	fs.Bool("mute", false, "disable sound cues")
	fs.Float64("volume", parameter.AudioVolume, "cue volume in [0,1]")
	fs.Int("pool-size", parameter.PoolMaxSize, "maximum live instances per ingredient")
	fs.Duration("mix", parameter.MixDuration, "mix animation duration")
	fs.Float64("threshold", parameter.WinThreshold, "similarity needed to pass a level")
	fs.String("metrics-addr", "", "serve Prometheus metrics on this address, e.g. :9102")
}

// Load parses args with fs and resolves the configuration
// fs must be fresh; Load registers its flags on it
func Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	setDefaults(v)

	if path, _ := fs.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for name, key := range flagBindings {
		f := fs.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if name == "mute" {
			// Inverted flag
			muted, _ := fs.GetBool("mute")
			v.Set(key, !muted)
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return nil, fmt.Errorf("bind flag %s: %w", name, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Default returns the configuration with no file, environment or flags applied
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var c Config
	_ = v.Unmarshal(&c)
	return &c
}

// Validate rejects settings the session cannot run with
func (c *Config) Validate() error {
	var errs []error

	if c.Pool.MaxSize < 1 {
		errs = append(errs, fmt.Errorf("pool.max_size must be at least 1, got %d", c.Pool.MaxSize))
	}

	durations := []struct {
		key string
		d   time.Duration
	}{
		{"timing.lid", c.Timing.Lid},
		{"timing.mix", c.Timing.Mix},
		{"timing.wait_before_close_lid", c.Timing.WaitBeforeCloseLid},
		{"timing.renew_delay", c.Timing.RenewDelay},
		{"timing.move", c.Timing.Move},
		{"timing.reset_content", c.Timing.ResetContent},
		{"timing.reset_transform", c.Timing.ResetTransform},
		{"timing.camera", c.Timing.Camera},
		{"timing.dispatch_interval", c.Timing.DispatchInterval},
		{"timing.frame_interval", c.Timing.FrameInterval},
	}
	for _, d := range durations {
		if d.d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", d.key, d.d))
		}
	}

	if c.Game.WinThreshold <= 0 || c.Game.WinThreshold > 1 {
		errs = append(errs, fmt.Errorf("game.win_threshold must be in (0,1], got %g", c.Game.WinThreshold))
	}
	if c.Game.PlacementWidth <= 0 {
		errs = append(errs, fmt.Errorf("game.placement_width must be positive, got %g", c.Game.PlacementWidth))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio.volume must be in [0,1], got %g", c.Audio.Volume))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
