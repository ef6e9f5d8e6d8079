package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"ConnKeeper/internal/cli/auth"
	"ConnKeeper/internal/cli/repo/fs"
	"ConnKeeper/internal/config"
	"ConnKeeper/internal/middleware"
)

type tokenCmd struct{}

func (tokenCmd) Name() string        { return "token" }
func (tokenCmd) Description() string { return "Выпустить и сохранить токен для сервера (AUTH_SECRET)" }
func (tokenCmd) Usage() string       { return "token [--ttl 24h] <subject>" }

func (tokenCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	flags := flag.NewFlagSet("token", flag.ContinueOnError)
	flags.SetOutput(io.Discard)
	ttl := flags.Duration("ttl", middleware.TokenTTL, "время жизни токена")
	if err := flags.Parse(args); err != nil || flags.NArg() != 1 || flags.Arg(0) == "" {
		return ErrUsage
	}
	store := fs.TokenFSStore{Path: cfg.TokenFile}
	if _, err := auth.IssueToken(store, flags.Arg(0), cfg.AuthSecret, *ttl); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Token for %q saved (valid %s)\n", flags.Arg(0), *ttl)
	return nil
}

func init() { RegisterCmd(tokenCmd{}) }
