package main

import (
	"fmt"
	"os"
	"path"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/andresuchdata/stockroom/internal/config"
	"github.com/andresuchdata/stockroom/internal/domain"
	"github.com/andresuchdata/stockroom/internal/ingest"
	"github.com/andresuchdata/stockroom/internal/storage"
)

func runAdvise(c *cli.Context) error {
	application, err := appFrom(c)
	if err != nil {
		return err
	}

	w := c.App.Writer
	switch strings.ToLower(c.String("topic")) {
	case "summary":
		result, err := application.Advice.Summary(c.Context)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\n\n%s\n", strings.ToUpper(result.Title), result.Text)
	case "actions":
		results, err := application.Advice.CoachAll(c.Context)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Fprintln(w, "Nothing needs attention this week.")
		}
		for _, result := range results {
			fmt.Fprintf(w, "[%s] %s\n%s\n\n", result.ActionID, result.Title, result.Text)
		}
	default:
		return fmt.Errorf("unknown topic %q (want summary or actions)", c.String("topic"))
	}
	return nil
}

func runConvert(c *cli.Context) error {
	in, out := c.String("in"), c.String("out")

	products, skipped, err := readSheet(in)
	if err != nil {
		return err
	}

	if err := writeSheet(out, products); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Converted %d products (%d rows skipped) to %s\n", len(products), skipped, out)
	return nil
}

// writeSheet writes products to path in the format its extension names.
// The close error is returned since it may carry a failed flush.
func writeSheet(path string, products []domain.Product) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := ingest.Write(ingest.DetectFormat(path, ""), file, products); err != nil {
		file.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	return nil
}

func newArchive(c *cli.Context) (storage.ObjectStorage, config.ArchiveConfig, error) {
	cfg := config.Load().Archive
	client, err := storage.New(c.Context, cfg)
	if err != nil {
		return nil, cfg, fmt.Errorf("failed to open archive storage: %w", err)
	}
	return client, cfg, nil
}

func runArchivesList(c *cli.Context) error {
	client, cfg, err := newArchive(c)
	if err != nil {
		return err
	}

	objects, err := client.ListObjects(c.Context, cfg.Prefix)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KEY\tSIZE\tMODIFIED")
	for _, obj := range objects {
		fmt.Fprintf(tw, "%s\t%d\t%s\n", obj.Key, obj.Size, obj.LastModified.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func runArchivesPull(c *cli.Context) error {
	client, _, err := newArchive(c)
	if err != nil {
		return err
	}

	key := c.String("key")
	data, err := client.DownloadObject(c.Context, key)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", key, err)
	}

	out := c.String("out")
	if out == "" {
		out = path.Base(key)
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}

	fmt.Fprintf(c.App.Writer, "Saved %s (%d bytes) to %s\n", key, len(data), out)
	return nil
}
