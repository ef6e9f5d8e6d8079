package commands

import (
	"context"
	"fmt"
	"io"

	"ConnKeeper/internal/cli/repo/fs"
	"ConnKeeper/internal/cli/service"
	"ConnKeeper/internal/config"
)

type pushCmd struct{}

func (pushCmd) Name() string { return "push" }
func (pushCmd) Description() string {
	return "Отправить документ в серверный каталог"
}
func (pushCmd) Usage() string { return "push [<file>]" }

func (pushCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return ErrUsage
	}
	var file string
	if len(args) == 1 {
		file = args[0]
	}
	// документ проверяется локально до отправки
	data, _, err := decode(ctx, cfg, file)
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, "→ Отправка на сервер...")
	res, err := service.Push(ctx, cfg, fs.TokenFSStore{Path: cfg.TokenFile}, data)
	if err != nil {
		return err
	}
	return render(cfg, res, func(w io.Writer) {
		state := "уже был на сервере"
		if res.Created {
			state = "новый"
		}
		fmt.Fprintf(w, "✓ Документ %s (%s), записей: %d\n", res.SourceID, state, res.Entries)
	})
}

func init() { RegisterCmd(pushCmd{}) }
