package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/dmitrijs2005/gophchat/internal/flagx"
	"github.com/dmitrijs2005/gophchat/internal/netx"
)

// putBlob uploads an already encrypted file to a presigned PUT URL taken
// from POST /api/messages/{id}/attachment.
func (a *App) putBlob(ctx context.Context, args []string) error {
	var url, path string
	fs := newFlagSet("put-blob")
	fs.StringVar(&url, "url", "", "presigned PUT URL")
	fs.StringVar(&path, "file", "", "file to upload")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-url", "-file"})); err != nil {
		return err
	}
	if url == "" || path == "" {
		return errors.New("put-blob: -url and -file are required")
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	if err := netx.PutPresigned(ctx, a.http, url, f, info.Size()); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "uploaded %d bytes\n", info.Size())
	return nil
}

func (a *App) getBlob(ctx context.Context, args []string) error {
	var url, path string
	fs := newFlagSet("get-blob")
	fs.StringVar(&url, "url", "", "presigned GET URL")
	fs.StringVar(&path, "out", "", "destination file")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-url", "-out"})); err != nil {
		return err
	}
	if url == "" || path == "" {
		return errors.New("get-blob: -url and -out are required")
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}

	n, err := netx.GetPresigned(ctx, a.http, url, f)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return err
	}
	fmt.Fprintf(a.out, "downloaded %d bytes\n", n)
	return nil
}
