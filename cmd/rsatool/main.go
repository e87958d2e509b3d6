package main

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/big"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/vaultsandbox/textbookrsa"
)

const usage = "usage: rsatool <keygen|encode|decode|demo> [flags]"

// maxKeyGenTries bounds retries when a fixed public exponent shares a factor
// with the totient of the sampled primes.
const maxKeyGenTries = 8

// Config holds the dependencies for running the tool.
type Config struct {
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	Getenv  func(string) string
	EnvFile string
}

// DefaultConfig returns the default configuration using real stdio and the
// process environment.
func DefaultConfig() *Config {
	return &Config{
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
		Getenv:  os.Getenv,
		EnvFile: ".env",
	}
}

// KeyOutput is the JSON printed by the keygen command. Integers are decimal
// strings.
type KeyOutput struct {
	Bits            int    `json:"bits"`
	PublicExponent  string `json:"publicExponent"`
	PrivateExponent string `json:"privateExponent"`
	Modulus         string `json:"modulus"`
}

// DemoOutput is the JSON printed by the demo command.
type DemoOutput struct {
	Bits        int    `json:"bits"`
	ModulusBits int    `json:"modulusBits"`
	Message     string `json:"message"`
	Ciphertext  string `json:"ciphertext"`
	Decoded     string `json:"decoded"`
}

// run executes the tool with the given arguments and configuration.
func run(args []string, cfg *Config) error {
	if len(args) < 2 {
		return errors.New(usage)
	}

	s, err := loadSettings(cfg)
	if err != nil {
		return err
	}

	logger := newLogger(cfg, s.LogLevel)
	defer func() { _ = logger.Sync() }()

	cmd, cmdArgs := args[1], args[2:]
	switch cmd {
	case "keygen":
		return runKeygen(cfg, s, logger, cmdArgs)
	case "encode":
		return runEncode(cfg, s, logger, cmdArgs)
	case "decode":
		return runDecode(cfg, s, logger, cmdArgs)
	case "demo":
		return runDemo(cfg, s, logger, cmdArgs)
	default:
		return fmt.Errorf("unknown command: %s", cmd)
	}
}

func newFlagSet(cfg *Config, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cfg.Stderr)
	return fs
}

// newSession builds an RSA session from settings. A non-empty seed selects
// a reproducible source.
func newSession(s *settings, logger *zap.Logger, seed string) (*textbookrsa.RSA, error) {
	opts := []textbookrsa.Option{
		textbookrsa.WithRounds(s.Rounds),
		textbookrsa.WithTextCodec(s.TextCodec),
		textbookrsa.WithLogger(logger),
	}
	if seed != "" {
		logger.Warn("using a deterministic seed; keys are not secret")
		src, err := textbookrsa.NewDeterministicSource([]byte(seed), "rsatool")
		if err != nil {
			return nil, fmt.Errorf("seed source: %w", err)
		}
		opts = append(opts, textbookrsa.WithSource(src))
	}
	return textbookrsa.New(opts...), nil
}

// generate runs KeyGen, drawing fresh primes while a supplied public
// exponent is not invertible.
func generate(r *textbookrsa.RSA, logger *zap.Logger, bits int, e *big.Int) (*textbookrsa.KeyPair, error) {
	var err error
	for try := 1; try <= maxKeyGenTries; try++ {
		err = r.KeyGen(bits, e)
		if !errors.Is(err, textbookrsa.ErrNotInvertible) {
			break
		}
		logger.Info("public exponent not invertible, resampling primes", zap.Int("try", try))
	}
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return r.KeyPair()
}

// exponentFlag returns the -e flag value, the configured exponent, or nil.
func exponentFlag(value string, s *settings) (*big.Int, error) {
	if value == "" {
		return s.PublicExponent, nil
	}
	return parseInt("-e", value)
}

func runKeygen(cfg *Config, s *settings, logger *zap.Logger, args []string) error {
	fs := newFlagSet(cfg, "keygen")
	bits := fs.Int("bits", s.Bits, "prime size in bits (multiple of 8)")
	exp := fs.String("e", "", "public exponent (sampled when empty)")
	seed := fs.String("seed", "", "deterministic seed, for tests and demos only")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e, err := exponentFlag(*exp, s)
	if err != nil {
		return err
	}
	r, err := newSession(s, logger, *seed)
	if err != nil {
		return err
	}
	kp, err := generate(r, logger, *bits, e)
	if err != nil {
		return err
	}

	return writeJSON(cfg.Stdout, KeyOutput{
		Bits:            kp.Bits,
		PublicExponent:  kp.PublicExponent.String(),
		PrivateExponent: kp.PrivateExponent.String(),
		Modulus:         kp.Modulus.String(),
	})
}

// keyFlags parses the -exp and -mod flags shared by encode and decode.
func keyFlags(cfg *Config, name string, args []string) (exponent, modulus *big.Int, err error) {
	fs := newFlagSet(cfg, name)
	exp := fs.String("exp", "", "exponent (required)")
	mod := fs.String("mod", "", "modulus (required)")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	if *exp == "" || *mod == "" {
		return nil, nil, fmt.Errorf("%s: -exp and -mod are required", name)
	}

	if exponent, err = parseInt("-exp", *exp); err != nil {
		return nil, nil, err
	}
	if modulus, err = parseInt("-mod", *mod); err != nil {
		return nil, nil, err
	}
	return exponent, modulus, nil
}

func runEncode(cfg *Config, s *settings, logger *zap.Logger, args []string) error {
	exponent, modulus, err := keyFlags(cfg, "encode", args)
	if err != nil {
		return err
	}

	data, err := io.ReadAll(cfg.Stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	message := strings.TrimSuffix(string(data), "\n")

	r, err := newSession(s, logger, "")
	if err != nil {
		return err
	}
	ciphertext, err := r.Encode(message, exponent, modulus)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	_, err = fmt.Fprintln(cfg.Stdout, base64.StdEncoding.EncodeToString([]byte(ciphertext)))
	return err
}

func runDecode(cfg *Config, s *settings, logger *zap.Logger, args []string) error {
	exponent, modulus, err := keyFlags(cfg, "decode", args)
	if err != nil {
		return err
	}

	data, err := io.ReadAll(cfg.Stdin)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return fmt.Errorf("parse ciphertext: %w", err)
	}

	r, err := newSession(s, logger, "")
	if err != nil {
		return err
	}
	plaintext, err := r.Decode(string(ciphertext), exponent, modulus)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	_, err = fmt.Fprintln(cfg.Stdout, plaintext)
	return err
}

// runDemo generates a key, encodes a message with the public exponent and
// decodes it with the private exponent.
func runDemo(cfg *Config, s *settings, logger *zap.Logger, args []string) error {
	fs := newFlagSet(cfg, "demo")
	bits := fs.Int("bits", s.Bits, "prime size in bits (multiple of 8)")
	message := fs.String("message", "HELLO", "message to round trip")
	seed := fs.String("seed", "", "deterministic seed, for tests and demos only")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e := s.PublicExponent
	if e == nil {
		e = big.NewInt(textbookrsa.DefaultPublicExponent)
	}

	r, err := newSession(s, logger, *seed)
	if err != nil {
		return err
	}
	kp, err := generate(r, logger, *bits, e)
	if err != nil {
		return err
	}

	ciphertext, err := r.Encode(*message, kp.PublicExponent, kp.Modulus)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	decoded, err := r.Decode(ciphertext, kp.PrivateExponent, kp.Modulus)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	if err := writeJSON(cfg.Stdout, DemoOutput{
		Bits:        kp.Bits,
		ModulusBits: kp.Modulus.BitLen(),
		Message:     *message,
		Ciphertext:  base64.StdEncoding.EncodeToString([]byte(ciphertext)),
		Decoded:     decoded,
	}); err != nil {
		return err
	}

	if decoded != *message {
		return fmt.Errorf("round trip mismatch: got %q, want %q", decoded, *message)
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
