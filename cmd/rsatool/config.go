package main

import (
	"errors"
	"fmt"
	"io/fs"
	"math/big"
	"strconv"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/vaultsandbox/textbookrsa"
)

// Environment variables read by rsatool. Values in the process environment
// take precedence over the .env file.
const (
	envBits           = "RSATOOL_BITS"
	envRounds         = "RSATOOL_ROUNDS"
	envPublicExponent = "RSATOOL_PUBLIC_EXPONENT"
	envLogLevel       = "RSATOOL_LOG_LEVEL"
	envTextEncoding   = "RSATOOL_TEXT_ENCODING"
)

// settings is the resolved tool configuration.
type settings struct {
	Bits           int
	Rounds         int
	PublicExponent *big.Int // nil samples the private exponent
	LogLevel       zapcore.Level
	TextCodec      textbookrsa.TextCodec
}

// loadSettings resolves settings from cfg.Getenv, falling back to
// cfg.EnvFile when it exists.
func loadSettings(cfg *Config) (*settings, error) {
	fileEnv := map[string]string{}
	if cfg.EnvFile != "" {
		values, err := godotenv.Read(cfg.EnvFile)
		switch {
		case err == nil:
			fileEnv = values
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("load %s: %w", cfg.EnvFile, err)
		}
	}

	lookup := func(key string) string {
		if cfg.Getenv != nil {
			if v := cfg.Getenv(key); v != "" {
				return v
			}
		}
		return fileEnv[key]
	}

	s := &settings{
		Bits:      textbookrsa.DefaultBits,
		Rounds:    textbookrsa.DefaultRounds,
		LogLevel:  zapcore.InfoLevel,
		TextCodec: textbookrsa.UTF8,
	}

	if v := lookup(envBits); v != "" {
		bits, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", envBits, err)
		}
		s.Bits = bits
	}

	if v := lookup(envRounds); v != "" {
		rounds, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", envRounds, err)
		}
		if rounds < 1 {
			return nil, fmt.Errorf("%s: must be at least 1, got %d", envRounds, rounds)
		}
		s.Rounds = rounds
	}

	if v := lookup(envPublicExponent); v != "" {
		e, err := parseInt(envPublicExponent, v)
		if err != nil {
			return nil, err
		}
		s.PublicExponent = e
	}

	if v := lookup(envLogLevel); v != "" {
		level, err := zapcore.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", envLogLevel, err)
		}
		s.LogLevel = level
	}

	if v := lookup(envTextEncoding); v != "" {
		codec, err := textbookrsa.TextCodecByName(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", envTextEncoding, err)
		}
		s.TextCodec = codec
	}

	return s, nil
}

// newLogger builds a JSON logger on cfg.Stderr at the configured level.
func newLogger(cfg *Config, level zapcore.Level) *zap.Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(cfg.Stderr),
		level,
	)
	return zap.New(core).Named("rsatool")
}

// parseInt parses a base 10 integer named by field.
func parseInt(field, s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("%s: %q is not a base 10 integer", field, s)
	}
	return v, nil
}
