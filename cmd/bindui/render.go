package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/bindui/pkg/collection"
	"github.com/vango-dev/bindui/pkg/dom"
)

// collectionFlags locate a collection inside a template file.
type collectionFlags struct {
	template  string
	container string
	item      string
	name      string
}

func (f *collectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.template, "template", "t", "", "HTML file holding the container and item template")
	cmd.Flags().StringVarP(&f.container, "container", "c", "", "Selector of the container (default: the document root)")
	cmd.Flags().StringVarP(&f.item, "item", "i", "", "Selector of the item template inside the container")
	cmd.Flags().StringVar(&f.name, "name", collection.DefaultName, "Collection name used in logs and metrics")
	cmd.MarkFlagRequired("template")
	cmd.MarkFlagRequired("item")
}

// build parses the template file and creates the reconciler.
func (f *collectionFlags) build(g *globals, opts ...collection.Option) (*dom.Node, *collection.Reconciler, error) {
	data, err := os.ReadFile(f.template)
	if err != nil {
		return nil, nil, err
	}
	root, err := parseDocument(string(data))
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", f.template, err)
	}

	container := root
	if f.container != "" {
		if container, err = selectNode(root, f.container); err != nil {
			return nil, nil, err
		}
	}
	template, err := selectNode(container, f.item)
	if err != nil {
		return nil, nil, err
	}

	all := append(g.cfg.CollectionOptions(),
		collection.WithName(f.name),
		collection.WithLogger(g.logger),
	)
	rec, err := collection.New(container, template, append(all, opts...)...)
	if err != nil {
		return nil, nil, err
	}
	return root, rec, nil
}

// parseDocument parses markup with one root element, or wraps several top
// level nodes in a <body>.
func parseDocument(markup string) (*dom.Node, error) {
	if n, err := dom.ParseOne(markup); err == nil {
		return n, nil
	}
	nodes, err := dom.Parse(markup)
	if err != nil {
		return nil, err
	}
	return dom.El("body", nodes), nil
}

// selectNode resolves sel against root itself first, then its descendants.
func selectNode(root *dom.Node, sel string) (*dom.Node, error) {
	s, err := dom.Compile(sel)
	if err != nil {
		return nil, err
	}
	if s.Match(root) {
		return root, nil
	}
	if n := root.Find(s); n != nil {
		return n, nil
	}
	return nil, fmt.Errorf("selector %q matched nothing", sel)
}

func renderCmd(g *globals) *cobra.Command {
	var (
		flags collectionFlags
		full  bool
	)

	cmd := &cobra.Command{
		Use:   "render [snapshot.json...]",
		Short: "Render snapshots into a template and print the result",
		Long: `Render one or more JSON snapshots, in order, into a collection and
print the resulting HTML. A snapshot is a JSON array of objects carrying
the primary key, or an object mapping keys to objects. Use - to read a
snapshot from stdin.

Examples:
  bindui render -t rooms.html -c "#rooms" -i li.room rooms.json
  bindui render -t rooms.html -i li.room first.json second.json
  curl -s localhost:8080/api/rooms | bindui render -t rooms.html -i li.room -`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(g, &flags, args, full, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&full, "full", false, "Print the whole document instead of the container")
	return cmd
}

func runRender(g *globals, flags *collectionFlags, files []string, full bool, stdin io.Reader, out io.Writer) error {
	root, rec, err := flags.build(g)
	if err != nil {
		return err
	}

	for _, file := range files {
		var data []byte
		if file == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(file)
		}
		if err != nil {
			return err
		}
		snap, err := collection.ParseSnapshot(data)
		if err != nil {
			return fmt.Errorf("%s: %w", file, err)
		}
		rec.Render(snap)
		g.logger.Debug("snapshot rendered", "file", file, "entries", rec.Len())
	}

	node := rec.Container()
	if full {
		node = root
	}
	if err := node.WriteHTML(out); err != nil {
		return err
	}
	_, err = fmt.Fprintln(out)
	return err
}
