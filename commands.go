package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/chazu/strata/pkg/config"
	"github.com/chazu/strata/pkg/layer"
	"github.com/chazu/strata/pkg/logging"
	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// watchDebounce collapses the burst of events editors emit on save.
const watchDebounce = 200 * time.Millisecond

// errEvalFailed marks a run whose errors were already printed.
var errEvalFailed = errors.New("evaluation failed")

// cli holds what every subcommand shares once the root has loaded config.
type cli struct {
	configPath string
	verbose    bool

	cfg    config.Config
	log    zerolog.Logger
	closer io.Closer
	app    *App
}

// Execute runs the command line with os.Args.
func Execute(ctx context.Context, version string) error {
	return newRootCommand(version).ExecuteContext(ctx)
}

func newRootCommand(version string) *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "strata",
		Short:         "Script and edit layer documents",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if c.closer != nil {
				return c.closer.Close()
			}
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "", "config file (.yaml or .toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		c.newEvalCommand(),
		c.newWatchCommand(),
		c.newCheckCommand(),
		c.newBoundsCommand(),
		c.newEditCommand(),
	)
	return root
}

func (c *cli) setup() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.verbose {
		cfg.Logging.Level = "debug"
	}
	log, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return err
	}
	c.cfg, c.log, c.closer = cfg, log, closer
	c.app = NewAppWithConfig(cfg, log)
	return nil
}

func (c *cli) writeJSON(w io.Writer, v any) error {
	var (
		out []byte
		err error
	)
	if c.cfg.Output.Indent {
		out, err = json.MarshalIndent(v, "", "  ")
	} else {
		out, err = json.Marshal(v)
	}
	if err != nil {
		return errors.Wrap(err, "encoding output")
	}
	_, err = fmt.Fprintf(w, "%s\n", out)
	return err
}

// readDocument reads a document file; an empty path is the empty document.
func readDocument(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrap(err, "reading document")
	}
	return string(data), nil
}

func (c *cli) newEvalCommand() *cobra.Command {
	var docPath string
	var layersOnly bool
	cmd := &cobra.Command{
		Use:   "eval <script>",
		Short: "Run a script and print the resulting document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(docPath)
			if err != nil {
				return err
			}
			source, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrap(err, "reading script")
			}
			return c.evaluate(cmd.OutOrStdout(), cmd.ErrOrStderr(), doc, string(source), layersOnly)
		},
	}
	cmd.Flags().StringVarP(&docPath, "doc", "d", "", "base document (JSON)")
	cmd.Flags().BoolVar(&layersOnly, "layers", false, "print only the document")
	return cmd
}

func (c *cli) evaluate(out, errOut io.Writer, doc, source string, layersOnly bool) error {
	res := c.app.Evaluate(doc, source)
	for _, e := range res.Errors {
		if e.Line > 0 {
			fmt.Fprintf(errOut, "error: line %d col %d: %s\n", e.Line, e.Col, e.Message)
		} else {
			fmt.Fprintf(errOut, "error: %s\n", e.Message)
		}
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(errOut, "warning: %s\n", w.Message)
	}
	if len(res.Errors) > 0 {
		return errEvalFailed
	}
	if layersOnly {
		_, err := fmt.Fprintf(out, "%s\n", res.Layers)
		return err
	}
	return c.writeJSON(out, res)
}

func (c *cli) newWatchCommand() *cobra.Command {
	var docPath string
	cmd := &cobra.Command{
		Use:   "watch <script>",
		Short: "Re-run a script every time it is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(docPath)
			if err != nil {
				return err
			}
			return c.watch(cmd.Context(), args[0], func(source string) {
				// Failures are reported and the watch goes on.
				_ = c.evaluate(cmd.OutOrStdout(), cmd.ErrOrStderr(), doc, source, true)
			})
		},
	}
	cmd.Flags().StringVarP(&docPath, "doc", "d", "", "base document (JSON)")
	return cmd
}

// watch calls run with the script's contents once at start and again after
// each debounced write, until ctx is done. It returns only after any run
// in progress has finished, and no run starts after it returns.
func (c *cli) watch(ctx context.Context, script string, run func(source string)) error {
	script, err := filepath.Abs(script)
	if err != nil {
		return errors.Wrap(err, "resolving script path")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "creating watcher")
	}
	defer watcher.Close()
	// Watch the directory: editors that save by rename drop a file watch.
	if err := watcher.Add(filepath.Dir(script)); err != nil {
		return errors.Wrapf(err, "watching %s", script)
	}

	var (
		mu      sync.Mutex
		stopped bool
	)
	reload := func() {
		mu.Lock()
		defer mu.Unlock()
		if stopped {
			return
		}
		source, err := os.ReadFile(script)
		if err != nil {
			c.log.Warn().Err(err).Str("script", script).Msg("reading script")
			return
		}
		c.log.Info().Str("script", script).Msg("evaluating")
		run(string(source))
	}
	reload()

	var timer *time.Timer
	// On return, wait out a run in progress and keep a timer that already
	// fired from starting another.
	defer func() {
		if timer != nil {
			timer.Stop()
		}
		mu.Lock()
		stopped = true
		mu.Unlock()
	}()
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != script {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			c.log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("script changed")
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, reload)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.log.Error().Err(err).Msg("watcher error")
		}
	}
}

func (c *cli) newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <document>",
		Short: "Validate a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			findings, err := c.app.Check(doc)
			if err != nil {
				return err
			}
			for _, f := range findings {
				fmt.Fprintln(cmd.OutOrStdout(), f.Error())
			}
			if layer.HasErrors(findings) {
				return errors.Newf("%s is not a valid document", args[0])
			}
			return nil
		},
	}
}

func (c *cli) newBoundsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bounds <document>",
		Short: "Print the canvas frame of every layer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			frames, err := c.app.Bounds(doc)
			if err != nil {
				return err
			}
			return c.writeJSON(cmd.OutOrStdout(), frames)
		},
	}
}

func (c *cli) newEditCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "edit <document> <request>",
		Short: "Apply one JSON edit request to a document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(args[1])
			if err != nil {
				return errors.Wrap(err, "reading request")
			}
			var req EditRequest
			if err := json.Unmarshal(raw, &req); err != nil {
				return errors.Wrap(err, "decoding request")
			}
			res := c.app.Edit(doc, req)
			if res.Error != "" {
				return errors.New(res.Error)
			}
			if !res.OK {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s found nothing to act on\n", req.Op)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", res.Layers)
			return err
		},
	}
}
