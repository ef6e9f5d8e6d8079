package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"ConnKeeper/internal/config"
)

type sourcesCmd struct{}

func (sourcesCmd) Name() string        { return "sources" }
func (sourcesCmd) Description() string { return "Показать импортированные документы" }
func (sourcesCmd) Usage() string       { return "sources" }

func (sourcesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	svc, done, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer done()
	list, err := svc.Sources()
	if err != nil {
		return err
	}
	type sourceView struct {
		ID            string `json:"id" yaml:"id"`
		Path          string `json:"path" yaml:"path"`
		Name          string `json:"name" yaml:"name"`
		SchemaVersion string `json:"schema_version" yaml:"schema_version"`
		ImportedAt    string `json:"imported_at" yaml:"imported_at"`
	}
	views := make([]sourceView, 0, len(list))
	for _, s := range list {
		views = append(views, sourceView{
			ID: s.ID, Path: s.Path, Name: s.Name, SchemaVersion: s.SchemaVersion,
			ImportedAt: time.Unix(s.ImportedAt, 0).UTC().Format(time.RFC3339),
		})
	}
	return render(cfg, views, func(w io.Writer) {
		if len(views) == 0 {
			fmt.Fprintln(w, "Нет документов")
			return
		}
		for _, s := range views {
			fmt.Fprintf(w, "- %.12s  %s  schema=%s  %s\n", s.ID, s.Path, s.SchemaVersion, s.ImportedAt)
		}
	})
}

func init() { RegisterCmd(sourcesCmd{}) }
