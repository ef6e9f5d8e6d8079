package commands

import (
	"context"
	"fmt"
	"io"

	"ConnKeeper/internal/cli/repo/fs"
	"ConnKeeper/internal/cli/service"
	"ConnKeeper/internal/config"
)

type statusCmd struct{}

func (statusCmd) Name() string        { return "status" }
func (statusCmd) Description() string { return "Проверить сервер и токен" }
func (statusCmd) Usage() string       { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	st, err := service.FetchStatus(ctx, cfg, fs.TokenFSStore{Path: cfg.TokenFile})
	if err != nil {
		return err
	}
	last, _ := fs.LoadLastPushAt(cfg.Profile)
	return render(cfg, st, func(w io.Writer) {
		fmt.Fprintln(w, "Status:", st.Status)
		if st.Authenticated {
			fmt.Fprintln(w, "Authorized as:", st.Subject)
		} else {
			fmt.Fprintln(w, "Not authorized")
		}
		if last != "" {
			fmt.Fprintln(w, "Last push:", last)
		}
	})
}

func init() { RegisterCmd(statusCmd{}) }
