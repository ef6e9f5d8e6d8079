package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"ConnKeeper/internal/config"
	"ConnKeeper/internal/model"
)

type showCmd struct{}

func (showCmd) Name() string { return "show" }
func (showCmd) Description() string {
	return "Показать действующие значения полей узла (секреты скрыты)"
}
func (showCmd) Usage() string { return "show [--reveal] [<file>] <path|id>" }

func (showCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	reveal := fs.Bool("reveal", false, "показать секреты")
	if err := fs.Parse(args); err != nil {
		return ErrUsage
	}
	var file, ref string
	switch fs.NArg() {
	case 1:
		ref = fs.Arg(0)
	case 2:
		file, ref = fs.Arg(0), fs.Arg(1)
	default:
		return ErrUsage
	}
	_, doc, err := decode(ctx, cfg, file)
	if err != nil {
		return err
	}
	n := doc.Root.Find(ref)
	if n == nil {
		return fmt.Errorf("node not found: %q", ref)
	}
	v := n.View(*reveal)
	v.Children = nil
	return render(cfg, v, func(w io.Writer) {
		fmt.Fprintf(w, "%-36s %s\n", "id", n.ID)
		fmt.Fprintf(w, "%-36s %s\n", "kind", n.Kind)
		fmt.Fprintf(w, "%-36s %s\n", "path", n.Path())
		info := n.EffectiveInfo()
		for _, f := range model.Fields() {
			val := fmt.Sprint(info.Get(f))
			if f.Secret() && val != "" && !*reveal {
				val = "********"
			}
			mark := ""
			if n.Inheritance.Get(f) {
				mark = "  (inherited)"
			}
			fmt.Fprintf(w, "%-36s %s%s\n", f, val, mark)
		}
	})
}

func init() { RegisterCmd(showCmd{}) }
