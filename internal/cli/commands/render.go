package commands

import (
	"encoding/json"
	"io"

	"gopkg.in/yaml.v3"

	"ConnKeeper/internal/config"
)

// render печатает v в формате cfg.OutputFormat; для text вызывается text.
func render(cfg *config.Config, v any, text func(w io.Writer)) error {
	format := config.FormatText
	if cfg != nil {
		format = cfg.OutputFormat
	}
	switch format {
	case config.FormatJSON:
		enc := json.NewEncoder(Out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case config.FormatYAML:
		enc := yaml.NewEncoder(Out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		text(Out)
		return nil
	}
}
