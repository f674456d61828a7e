// Command meshkit evaluates a mesh script and reports on the result. It
// loads an optional TOML config, runs the script through the sandboxed
// engine, then logs mesh statistics and validity findings. With -compact
// the resulting mesh is compacted before the report.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"github.com/chazu/meshkit/pkg/engine"
	"github.com/chazu/meshkit/pkg/mesh"
	"github.com/chazu/meshkit/pkg/sdfgen"
)

// config holds the CLI's settings. Flags override config file values,
// which override the defaults.
type config struct {
	Script        string  `toml:"script"`
	Cells         int     `toml:"cells"`
	WeldTolerance float64 `toml:"weld_tolerance"`
	TimeoutSecs   float64 `toml:"eval_timeout_seconds"`
	Compact       bool    `toml:"compact"`
}

func defaultConfig() config {
	opts := sdfgen.DefaultOptions()
	return config{
		Cells:         opts.Cells,
		WeldTolerance: opts.WeldTolerance,
		TimeoutSecs:   engine.EvalTimeout.Seconds(),
	}
}

// loadConfig reads a TOML config file over the defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func main() {
	configPath := flag.String("config", "", "path to TOML config file")
	cells := flag.Int("cells", 0, "default marching cubes resolution for to-mesh")
	weldTol := flag.Float64("weld-tolerance", 0, "default vertex weld tolerance for to-mesh")
	timeout := flag.Duration("timeout", 0, "evaluation time limit")
	compact := flag.Bool("compact", false, "compact the mesh before reporting")
	verbose := flag.Bool("verbose", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] [script.zy]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Prefix:          "meshkit",
	})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = loadConfig(*configPath)
		if err != nil {
			logger.Fatal("config", "err", err)
		}
		logger.Debug("loaded config", "path", *configPath)
	}

	// Flags override the config file.
	if *cells > 0 {
		cfg.Cells = *cells
	}
	if *weldTol > 0 {
		cfg.WeldTolerance = *weldTol
	}
	if *timeout > 0 {
		cfg.TimeoutSecs = timeout.Seconds()
	}
	if *compact {
		cfg.Compact = true
	}
	if flag.NArg() > 0 {
		cfg.Script = flag.Arg(0)
	}

	if cfg.Script == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(cfg, logger); err != nil {
		logger.Fatal("run", "err", err)
	}
}

func run(cfg config, logger *log.Logger) error {
	source, err := os.ReadFile(cfg.Script)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	eng := engine.NewEngine()
	eng.SetTimeout(time.Duration(cfg.TimeoutSecs * float64(time.Second)))
	eng.SetTessellationDefaults(sdfgen.Options{
		Cells:         cfg.Cells,
		WeldTolerance: cfg.WeldTolerance,
	})

	logger.Debug("evaluating", "script", cfg.Script,
		"cells", cfg.Cells, "weld_tolerance", cfg.WeldTolerance)

	start := time.Now()
	m, evalErrs, err := eng.Evaluate(string(source))
	if err != nil {
		return fmt.Errorf("evaluate: %w", err)
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			logger.Error("script error", "script", cfg.Script, "err", e.Error())
		}
		return fmt.Errorf("%d script error(s)", len(evalErrs))
	}
	logger.Info("evaluated", "script", cfg.Script, "elapsed", time.Since(start))

	if cfg.Compact {
		if r := m.CompactInPlace(nil); r != mesh.ResultOk {
			return fmt.Errorf("compact: %s", r)
		}
		logger.Debug("compacted",
			"max_vertex_id", m.MaxVertexID(), "max_triangle_id", m.MaxTriangleID())
	}

	report(m, logger)

	issues := m.CheckValidity(false)
	for _, issue := range issues {
		logger.Error("validity", "finding", issue.String())
	}
	if len(issues) > 0 {
		return fmt.Errorf("%d validity finding(s)", len(issues))
	}
	logger.Info("mesh is valid")
	return nil
}

// report logs the mesh summary.
func report(m *mesh.DynamicMesh, logger *log.Logger) {
	bounds := m.Bounds()
	logger.Info("mesh",
		"vertices", m.VertexCount(),
		"triangles", m.TriangleCount(),
		"edges", m.EdgeCount(),
		"boundary_edges", m.BoundaryEdgeCount(),
		"closed", m.IsClosed(),
		"compact", m.IsCompact(),
	)
	logger.Debug("bounds",
		"min", fmt.Sprintf("(%.3f, %.3f, %.3f)", bounds.Min.X, bounds.Min.Y, bounds.Min.Z),
		"max", fmt.Sprintf("(%.3f, %.3f, %.3f)", bounds.Max.X, bounds.Max.Y, bounds.Max.Z),
	)
}
