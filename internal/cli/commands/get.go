package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"

	"ConnKeeper/internal/config"
)

type getCmd struct{}

func (getCmd) Name() string { return "get" }
func (getCmd) Description() string {
	return "Расшифровать и показать запись каталога"
}
func (getCmd) Usage() string { return "get [--reveal] <id|node-id|path>" }

func (getCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("get", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	reveal := fs.Bool("reveal", false, "показать секреты")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return ErrUsage
	}
	svc, done, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer done()
	e, err := svc.Get(fs.Arg(0), *reveal)
	if err != nil {
		return err
	}
	return render(cfg, e, func(w io.Writer) {
		fmt.Fprintf(w, "id:        %s\n", e.ID)
		fmt.Fprintf(w, "node:      %s\n", e.NodeID)
		fmt.Fprintf(w, "path:      %s\n", e.Path)
		fmt.Fprintf(w, "source:    %s\n", e.Source)
		fmt.Fprintf(w, "updated:   %d\n", e.UpdatedAt)
		fmt.Fprintf(w, "version:   %d\n", e.Version)
		fmt.Fprintf(w, "info:      %s\n", e.Info.String())
		keys := make([]string, 0, len(e.Secrets))
		for k := range e.Secrets {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(w, "%-10s %s\n", k+":", e.Secrets[k])
		}
	})
}

func init() { RegisterCmd(getCmd{}) }
