package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/raido/internal"
	"github.com/starford/raido/internal/builder"
	"github.com/starford/raido/internal/docservice"
	"github.com/starford/raido/internal/importer"
	"github.com/starford/raido/internal/mcpserver"
	"github.com/starford/raido/internal/routes"
	"github.com/starford/raido/internal/storage"
	"github.com/starford/raido/internal/tui"
	pkgconfig "github.com/starford/raido/pkg/config"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:        "config",
		Aliases:     []string{"c"},
		Usage:       "Path to config file",
		DefaultText: "config/config.yaml",
		Value:       "config/config.yaml",
		Sources:     cli.EnvVars("APP_CONFIG_FILE"),
	}
}

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.Load(cmd.String("config"), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// service builds the document service stack shared by the offline commands.
func service(cfg *internal.Config) (*docservice.Service, *routes.Registry, error) {
	store, err := storage.NewFS(cfg.Content.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("init storage: %w", err)
	}
	reg, err := routes.Load(cfg.Routes.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("load routes: %w", err)
	}
	return docservice.NewService(store, reg), reg, nil
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func buildAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	store, err := storage.NewFS(cfg.Content.Path)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	reg, err := routes.Load(cfg.Routes.Path)
	if err != nil {
		return fmt.Errorf("load routes: %w", err)
	}

	outDir := cfg.Build.OutDir
	if o := cmd.String("out"); o != "" {
		outDir = o
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	results, err := builder.Build(ctx, reg, store, outDir, logger)
	if err != nil {
		return err
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", res.Path, res.Err)
			continue
		}
		fmt.Printf("%s -> %s\n", res.Path, res.Out)
	}
	if failed > 0 {
		return fmt.Errorf("build: %d of %d documents failed", failed, len(results))
	}
	return nil
}

func checkAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	svc, _, err := service(cfg)
	if err != nil {
		return err
	}
	diags, err := svc.CheckAll(ctx)
	if err != nil {
		return err
	}
	for _, d := range diags {
		fmt.Fprintf(os.Stderr, "%s %s: %s\n", d.Route, d.Path, d.Error)
	}
	if len(diags) > 0 {
		return fmt.Errorf("check: %d invalid documents", len(diags))
	}
	fmt.Println("all documents valid")
	return nil
}

func renderAction(ctx context.Context, cmd *cli.Command) error {
	route, name := cmd.Args().Get(0), cmd.Args().Get(1)
	if route == "" || name == "" {
		return fmt.Errorf("usage: render <route> <name>")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	svc, _, err := service(cfg)
	if err != nil {
		return err
	}
	html, err := svc.Render(ctx, route, name)
	if err != nil {
		return err
	}
	fmt.Println(html)
	return nil
}

func viewAction(ctx context.Context, cmd *cli.Command) error {
	route, name := cmd.Args().Get(0), cmd.Args().Get(1)
	if route == "" || name == "" {
		return fmt.Errorf("usage: view <route> <name>")
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	svc, _, err := service(cfg)
	if err != nil {
		return err
	}
	detail, err := svc.Get(ctx, route, name)
	if err != nil {
		return err
	}
	title := name
	if t, ok := detail.Metadata["title"].(string); ok && t != "" {
		title = t
	}
	return tui.View(title, detail.Nodes)
}

func importAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	svc, reg, err := service(cfg)
	if err != nil {
		return err
	}
	routeName := cmd.String("route")
	route, err := reg.Get(routeName)
	if err != nil {
		return err
	}

	md, err := importer.Fetch(ctx, cmd.String("url"), cmd.String("selector"))
	if err != nil {
		return err
	}
	doc := importer.Scaffold(route, md)

	name := cmd.String("name")
	if name == "" {
		// No destination: print the scaffold for manual editing.
		fmt.Print(doc)
		return nil
	}
	detail, err := svc.Create(ctx, routeName, name, []byte(doc))
	if err != nil {
		return err
	}
	fmt.Printf("created %s\n", detail.Path)
	return nil
}

func routesAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	reg, err := routes.Load(cfg.Routes.Path)
	if err != nil {
		return fmt.Errorf("load routes: %w", err)
	}
	for _, r := range reg.All() {
		fmt.Printf("%s\t%s\t%s\n", r.Name, r.Path, r.Folder)
		for _, f := range r.Fields {
			req := ""
			if f.Required {
				req = " (required)"
			}
			fmt.Printf("  %s: %s%s\n", f.Name, f.Kind, req)
		}
	}
	return nil
}

func mcpAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	svc, reg, err := service(cfg)
	if err != nil {
		return err
	}
	return mcpserver.New(svc, reg).ServeStdio()
}

func main() {
	cmd := &cli.Command{
		Name:  "raido",
		Usage: "Schema-validated document server with a line-oriented block pipeline",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP API server with live reload",
				Flags:  []cli.Flag{configFlag()},
				Action: serveAction,
			},
			{
				Name:  "build",
				Usage: "Render every valid document to a static HTML tree",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output directory (overrides config)"},
				},
				Action: buildAction,
			},
			{
				Name:   "check",
				Usage:  "Validate every document of every route; non-zero exit on failures",
				Flags:  []cli.Flag{configFlag()},
				Action: checkAction,
			},
			{
				Name:      "render",
				Usage:     "Render one document as an HTML fragment to stdout",
				ArgsUsage: "<route> <name>",
				Flags:     []cli.Flag{configFlag()},
				Action:    renderAction,
			},
			{
				Name:      "view",
				Usage:     "View a document in a terminal pager",
				ArgsUsage: "<route> <name>",
				Flags:     []cli.Flag{configFlag()},
				Action:    viewAction,
			},
			{
				Name:  "import",
				Usage: "Import a web page as a document scaffold",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{Name: "url", Required: true, Usage: "Page URL to fetch"},
					&cli.StringFlag{Name: "selector", Value: "body", Usage: "Element to extract: #id, .class, or tag"},
					&cli.StringFlag{Name: "route", Required: true, Usage: "Route whose schema the scaffold targets"},
					&cli.StringFlag{Name: "name", Usage: "Document name to create (omit to print to stdout)"},
				},
				Action: importAction,
			},
			{
				Name:   "routes",
				Usage:  "List the configured routes and their fields",
				Flags:  []cli.Flag{configFlag()},
				Action: routesAction,
			},
			{
				Name:   "mcp",
				Usage:  "Serve the MCP tool interface on stdin/stdout",
				Flags:  []cli.Flag{configFlag()},
				Action: mcpAction,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
