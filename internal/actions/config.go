package actions

import (
	"fmt"
	"io"

	"github.com/ethpandaops/psi-sampler/internal/config"
	"github.com/ethpandaops/psi-sampler/internal/report"
	"github.com/sirupsen/logrus"
)

// ShowConfig displays the current configuration
func ShowConfig(out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	fmt.Fprintln(out, cfg.String())
	return nil
}

// ListPages prints the configured page set.
func ListPages(log logrus.FieldLogger, cfg *config.Config, out io.Writer) error {
	pages, err := config.LoadPages(cfg.PagesFile)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(pages))
	for _, page := range pages {
		rows = append(rows, []string{page.Label, page.URL})
	}

	fmt.Fprint(out, report.NewTerminalRenderer(log).RenderToString([]string{"Label", "URL"}, rows, report.WithBorder(false)))

	return nil
}
