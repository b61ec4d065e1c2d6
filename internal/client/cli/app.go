package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/client/client"
	"github.com/dmitrijs2005/gophchat/internal/client/config"
)

var ErrUsage = errors.New("usage: chatctl <sweep|whoami|revoke|ping|hash-password|put-blob|get-blob> [flags]")

// SessionClient is the server API chatctl talks to.
type SessionClient interface {
	Sweep(ctx context.Context, now time.Time) (bool, error)
	WhoAmI(ctx context.Context, token string) (*client.Principal, error)
	Revoke(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
	Close() error
}

type App struct {
	config *config.Config
	client SessionClient
	http   *http.Client
	out    io.Writer
	now    func() time.Time
}

func NewApp(c *config.Config, out io.Writer) (*App, error) {
	apiClient, err := client.NewSessionClient(c.ServerEndpointAddr, c.AdminKey)
	if err != nil {
		return nil, err
	}
	return &App{config: c, client: apiClient, http: http.DefaultClient, out: out, now: time.Now}, nil
}

// Run executes the command named by args[0] with the remaining args.
func (a *App) Run(ctx context.Context, args []string) error {
	defer a.client.Close()

	if len(args) == 0 {
		return ErrUsage
	}
	cmd, rest := args[0], args[1:]

	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}

	switch cmd {
	case "sweep":
		return a.sweep(ctx, rest)
	case "whoami":
		return a.whoami(ctx, rest)
	case "revoke":
		return a.revoke(ctx, rest)
	case "ping":
		return a.ping(ctx)
	case "hash-password":
		return a.hashPassword()
	case "put-blob":
		return a.putBlob(ctx, rest)
	case "get-blob":
		return a.getBlob(ctx, rest)
	}
	return fmt.Errorf("unknown command %q: %w", cmd, ErrUsage)
}
