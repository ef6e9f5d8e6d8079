package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"ConnKeeper/internal/config"
	"ConnKeeper/internal/model"
)

type treeCmd struct{}

func (treeCmd) Name() string { return "tree" }
func (treeCmd) Description() string {
	return "Декодировать документ и показать дерево подключений"
}
func (treeCmd) Usage() string { return "tree [--reveal] [<file>]" }

func (treeCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("tree", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	reveal := fs.Bool("reveal", false, "показать секреты (json/yaml)")
	if err := fs.Parse(args); err != nil || fs.NArg() > 1 {
		return ErrUsage
	}
	_, doc, err := decode(ctx, cfg, fs.Arg(0))
	if err != nil {
		return err
	}
	return render(cfg, doc.View(*reveal), func(w io.Writer) {
		conns, containers := doc.Root.Count()
		engine, mode := doc.Cipher()
		fmt.Fprintf(w, "%s  (schema %s, %s/%s", doc.Name, doc.Version, engine, mode)
		if doc.PasswordProtected {
			fmt.Fprint(w, ", protected")
		}
		if doc.FullFileEncryption {
			fmt.Fprint(w, ", full-file")
		}
		fmt.Fprintln(w, ")")
		for _, c := range doc.Root.Children {
			printNode(w, c, 1)
		}
		fmt.Fprintf(w, "Подключений: %d, папок: %d\n", conns, containers)
	})
}

func printNode(w io.Writer, n *model.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.IsContainer() {
		fmt.Fprintf(w, "%s%s/\n", indent, n.Name())
		for _, c := range n.Children {
			printNode(w, c, depth+1)
		}
		return
	}
	info := n.EffectiveInfo()
	fmt.Fprintf(w, "%s%s  [%s] %s:%d\n", indent, n.Name(), info.Protocol, info.Hostname, info.Port)
}

func init() { RegisterCmd(treeCmd{}) }
