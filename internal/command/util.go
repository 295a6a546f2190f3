package command

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"runtime"
	"runtime/debug"

	"golang.org/x/term"

	"github.com/sakif/todo-api/internal/config"
	"github.com/sakif/todo-api/internal/repository/sqlstore"
)

type configKey struct{}

func prompt(prompt string, mask bool) ([]byte, error) {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		if _, err := os.Stderr.WriteString(prompt); err != nil {
			return nil, err
		}
	}
	return readLine(os.Stdin, mask)
}

// readLine reads one line from stdin, without echo when mask is set and
// stdin is a terminal. Piped input is read byte by byte so nothing past the
// newline is consumed.
func readLine(stdin *os.File, mask bool) ([]byte, error) {
	if mask && term.IsTerminal(int(stdin.Fd())) {
		line, err := term.ReadPassword(int(stdin.Fd()))
		// ReadPassword swallows the newline the user typed.
		_, _ = os.Stderr.WriteString("\n")
		return line, err
	}
	var buf [1]byte
	var ret []byte

	for {
		n, err := stdin.Read(buf[:])
		if n > 0 {
			switch buf[0] {
			case '\b':
				if len(ret) > 0 {
					ret = ret[:len(ret)-1]
				}
			case '\n':
				if runtime.GOOS != "windows" {
					return ret, nil
				}
			case '\r':
				if runtime.GOOS == "windows" {
					return ret, nil
				}
			default:
				ret = append(ret, buf[0])
			}
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) && len(ret) > 0 {
				return ret, nil
			}
			return ret, err
		}
	}
}

func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown-dev"
	}
	ver := "unknown"
	dirty := false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			ver = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if dirty {
		ver += "-dev"
	}
	return ver
}

// loadConfig returns the config resolved by the root command together with
// the default logger and an opened, migrated store. The caller closes the
// store.
func loadConfig(ctx context.Context) (*config.Config, *slog.Logger, *sqlstore.DB, error) {
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		return nil, nil, nil, errors.New("config file resolution failed")
	}
	logger := slog.Default()
	store, err := sqlstore.Open(ctx, cfg.Database.Driver, cfg.Database.DSN, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, store, nil
}
