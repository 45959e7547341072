package main

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/containust/containust/internal/catalog"
)

// ImagesCmd inspects and manages the image catalog (spec §3, §6).
type ImagesCmd struct {
	Pull   string `placeholder:"<image-uri>" help:"resolve and register an image's manifest from its remote registry"`
	Remove string `placeholder:"<id>" help:"remove an image by its catalog ID"`
}

func (c *ImagesCmd) Run(cctx *Context) error {
	cat := catalog.New(filepath.Join(cctx.DataDir, "images", "catalog.json"))

	switch {
	case c.Remove != "":
		return cat.Remove(c.Remove)
	case c.Pull != "":
		entry, err := catalog.NewResolver().Resolve(c.Pull)
		if err != nil {
			return err
		}
		if err := cat.Register(entry); err != nil {
			return err
		}
		fmt.Println(entry.ID)
		return nil
	default:
		entries, err := cat.List()
		if err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tSOURCE\tLAYERS\tBYTES\t")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t\n", e.ID, e.Name, e.Source, len(e.Layers), e.Bytes)
		}
		return w.Flush()
	}
}
