package cli

import (
	"context"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/cryptox"
	"github.com/dmitrijs2005/gophchat/internal/flagx"
)

func (a *App) sweep(ctx context.Context, args []string) error {
	var at string
	fs := newFlagSet("sweep")
	fs.StringVar(&at, "now", "", "sweep as of this RFC 3339 instant")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-now"})); err != nil {
		return err
	}

	now := a.now()
	if at != "" {
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return fmt.Errorf("bad -now: %w", err)
		}
		now = t
	}

	removed, err := a.client.Sweep(ctx, now)
	if err != nil {
		return err
	}
	if removed {
		fmt.Fprintln(a.out, "expired sessions removed")
	} else {
		fmt.Fprintln(a.out, "nothing to remove")
	}
	return nil
}

func (a *App) whoami(ctx context.Context, args []string) error {
	var token string
	fs := newFlagSet("whoami")
	fs.StringVar(&token, "token", "", "session token")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-token"})); err != nil {
		return err
	}
	if token == "" {
		return errors.New("whoami: -token is required")
	}

	p, err := a.client.WhoAmI(ctx, token)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "user:       %s\nsession:    %s\nexpires at: %s\n",
		p.UserID, p.SessionID, p.ExpiresAt.Format(time.RFC3339))
	return nil
}

func (a *App) revoke(ctx context.Context, args []string) error {
	var id string
	fs := newFlagSet("revoke")
	fs.StringVar(&id, "session", "", "session id")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-session"})); err != nil {
		return err
	}
	if id == "" {
		return errors.New("revoke: -session is required")
	}

	if err := a.client.Revoke(ctx, id); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "session revoked")
	return nil
}

func (a *App) ping(ctx context.Context) error {
	if err := a.client.Ping(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "OK")
	return nil
}

// hashPassword prints a fresh salt and argon2id hash for seeding accounts
// directly in the database.
func (a *App) hashPassword() error {
	pw, err := GetPassword(a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	if len(pw) == 0 {
		return errors.New("empty password")
	}

	salt := cryptox.GenerateSalt()
	hash, err := cryptox.HashPassword(string(pw), salt)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "salt: %s\nhash: %s\n", hex.EncodeToString(salt), hash)
	return nil
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}
