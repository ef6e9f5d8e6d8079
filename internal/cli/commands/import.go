package commands

import (
	"context"
	"fmt"
	"io"

	"ConnKeeper/internal/cli/service"
	"ConnKeeper/internal/config"
)

type importCmd struct{}

func (importCmd) Name() string { return "import" }
func (importCmd) Description() string {
	return "Сохранить подключения документа в локальный каталог"
}
func (importCmd) Usage() string { return "import [<file>]" }

func (importCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return ErrUsage
	}
	var file string
	if len(args) == 1 {
		file = args[0]
	}
	path, err := service.ResolvePath(cfg, file)
	if err != nil {
		return err
	}
	data, doc, err := decode(ctx, cfg, path)
	if err != nil {
		return err
	}
	svc, done, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer done()
	res, err := svc.Import(path, data, doc)
	if err != nil {
		return err
	}
	return render(cfg, res, func(w io.Writer) {
		fmt.Fprintln(w, "Imported:")
		fmt.Fprintf(w, "  source:  %s\n", res.SourceID)
		fmt.Fprintf(w, "  schema:  %s\n", res.SchemaVersion)
		fmt.Fprintf(w, "  created: %d\n", res.Created)
		fmt.Fprintf(w, "  updated: %d\n", res.Updated)
	})
}

func init() { RegisterCmd(importCmd{}) }
