// Command webcreds inspects the credentials embedded in a capabilities
// document.
//
// The document is read from -caps or stdin, as JSON or TOML. The credentials
// entry is printed in canonical form with the password redacted unless
// -reveal is given. -probe sends a GET through an authenticating transport
// built from the credentials and reports the status.
//
// Password can be provided via:
//   - the capabilities document itself
//   - WEBCREDS_PASSWORD environment variable (with -prompt)
//   - stdin prompt (with -prompt, if the document has no password)
//
// Usage:
//
//	webcreds -caps caps.json
//	webcreds -caps caps.toml -prompt -probe https://intranet.example/
//	cat caps.json | webcreds -reveal
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
	"github.com/smnsjas/go-webcreds/auth"
	"github.com/smnsjas/go-webcreds/credentials"
	wclog "github.com/smnsjas/go-webcreds/internal/log"
	"golang.org/x/term"
)

// envConfig is read from WEBCREDS_* variables. Flags win over it.
type envConfig struct {
	Password string `envconfig:"PASSWORD"`
	LogLevel string `envconfig:"LOG_LEVEL"`
	LogFile  string `envconfig:"LOG_FILE"`
}

const (
	logFileMaxSize    = 10 << 20
	logFileMaxBackups = 3
)

// promptPassword is replaced in tests.
var promptPassword = readPassword

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("webcreds", flag.ContinueOnError)
	fs.SetOutput(stderr)
	capsPath := fs.String("caps", "", "Capabilities document (default: stdin)")
	format := fs.String("format", "", "Document format: json or toml (default: from extension, else json)")
	reveal := fs.Bool("reveal", false, "Print the password instead of [REDACTED]")
	prompt := fs.Bool("prompt", false, "Ask for a missing password (WEBCREDS_PASSWORD or terminal)")
	probe := fs.String("probe", "", "URL to GET with the credentials")
	timeout := fs.Duration("timeout", 30*time.Second, "Probe timeout")
	logLevel := fs.String("loglevel", "", "Log level: debug, info, warn, error (empty = no logging)")
	logFile := fs.String("logfile", "", "Write logs to this file instead of stderr")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	var env envConfig
	if err := envconfig.Process("webcreds", &env); err != nil {
		fmt.Fprintf(stderr, "Error: read environment: %v\n", err)
		return 2
	}
	if *logLevel == "" {
		*logLevel = env.LogLevel
	}
	if *logFile == "" {
		*logFile = env.LogFile
	}

	logger, closeLog, err := newLogger(*logLevel, *logFile, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	defer closeLog()

	data, err := readInput(*capsPath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if *format == "" {
		*format = formatFromPath(*capsPath)
	}

	caps, err := decodeCapabilities(data, *format)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	creds, err := credentials.Extract(caps)
	if err != nil {
		logger.Error("invalid credentials", "error", err)
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if creds == nil {
		fmt.Fprintln(stderr, "no credentials in capabilities")
		return 0
	}
	logger.Debug("extracted credentials", "creds", creds)

	if *prompt && creds.Username != nil && creds.Password == nil {
		pass := env.Password
		if pass == "" {
			pass, err = promptPassword(stderr)
			if err != nil {
				fmt.Fprintf(stderr, "Error: read password: %v\n", err)
				return 1
			}
		}
		creds = creds.Clone()
		creds.Password = &pass
	}

	out := creds.Map()
	if _, ok := out[credentials.KeyPassword]; ok && !*reveal {
		out[credentials.KeyPassword] = wclog.Redacted
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if *probe == "" {
		return 0
	}
	status, err := probeURL(ctx, creds, *probe, *timeout, logger)
	if err != nil {
		fmt.Fprintf(stderr, "Error: probe: %v\n", err)
		return 1
	}
	fmt.Fprintf(stdout, "probe %s: %d %s\n", *probe, status, http.StatusText(status))
	if status == http.StatusUnauthorized || status == http.StatusProxyAuthRequired {
		return 3
	}
	return 0
}

func newLogger(level, path string, stderr io.Writer) (*slog.Logger, func(), error) {
	if level == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	w, closeFn := stderr, func() {}
	if path != "" {
		rf, err := wclog.NewRotatingFile(path, logFileMaxSize, logFileMaxBackups)
		if err != nil {
			return nil, nil, err
		}
		w, closeFn = rf, func() { _ = rf.Close() }
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	return slog.New(wclog.NewRedactingHandler(handler)), closeFn, nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

func formatFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return "toml"
	}
	return "json"
}

// decodeCapabilities decodes a capabilities document. Legacy payloads that
// wrap the bag in "desiredCapabilities" are unwrapped.
func decodeCapabilities(data []byte, format string) (credentials.Capabilities, error) {
	var raw map[string]any
	switch strings.ToLower(format) {
	case "json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode json capabilities: %w", err)
		}
	case "toml":
		if err := toml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("decode toml capabilities: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}

	caps := credentials.Capabilities(raw)
	if _, ok := caps[credentials.CapabilityKey]; !ok {
		if inner, ok := caps["desiredCapabilities"].(map[string]any); ok {
			caps = inner
		}
	}
	return caps, nil
}

func probeURL(ctx context.Context, creds *credentials.Credentials, target string, timeout time.Duration, logger *slog.Logger) (int, error) {
	a, err := auth.New(creds, auth.WithLogger(logger))
	if err != nil {
		return 0, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return 0, err
	}
	client := &http.Client{Transport: a.Transport(http.DefaultTransport)}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	logger.Info("probe finished", "url", target, "scheme", a.Name(), "status", resp.StatusCode)
	return resp.StatusCode, nil
}

// readPassword prompts on stderr, hiding input when stdin is a terminal.
func readPassword(stderr io.Writer) (string, error) {
	fmt.Fprint(stderr, "Password: ")

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Fprintln(stderr)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}

	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
