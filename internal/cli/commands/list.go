package commands

import (
	"context"
	"fmt"
	"io"

	"ConnKeeper/internal/config"
)

type entryView struct {
	ID        string `json:"id" yaml:"id"`
	NodeID    string `json:"node_id" yaml:"node_id"`
	Path      string `json:"path" yaml:"path"`
	Hostname  string `json:"hostname" yaml:"hostname"`
	Protocol  string `json:"protocol" yaml:"protocol"`
	Version   int64  `json:"version" yaml:"version"`
	UpdatedAt int64  `json:"updated_at" yaml:"updated_at"`
}

type listCmd struct{}

func (listCmd) Name() string { return "list" }
func (listCmd) Description() string {
	return "Показать записи локального каталога"
}
func (listCmd) Usage() string { return "list" }

func (listCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	svc, done, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer done()
	list, err := svc.List()
	if err != nil {
		return err
	}
	views := make([]entryView, 0, len(list))
	for _, e := range list {
		views = append(views, entryView{
			ID: e.ID, NodeID: e.NodeID, Path: e.Path, Hostname: e.Hostname,
			Protocol: e.Protocol, Version: e.Version, UpdatedAt: e.UpdatedAt,
		})
	}
	return render(cfg, views, func(w io.Writer) {
		if len(views) == 0 {
			fmt.Fprintln(w, "Нет записей")
			return
		}
		for _, e := range views {
			fmt.Fprintf(w, "- %s  %s  [%s] %s  ver=%d\n", e.NodeID, e.Path, e.Protocol, e.Hostname, e.Version)
		}
		fmt.Fprintf(w, "Всего: %d\n", len(views))
	})
}

func init() { RegisterCmd(listCmd{}) }
