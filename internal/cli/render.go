package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Jaganpro/sf-schema-viewer/pkg/pipeline"
	"github.com/Jaganpro/sf-schema-viewer/pkg/salesforce"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output        string // output file path (or base path for multiple formats)
	formats       []string
	apiVersion    string
	refresh       bool // bypass cached describes and layouts
	noCache       bool
	fields        bool // show field rows inside entity boxes
	labels        bool // show relationship field names on edges
	cardinalities bool // show 1/n markers at edge endpoints
}

// renderCommand creates the render command for generating ER diagrams
// from the terminal.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{
		fields:        true,
		labels:        true,
		cardinalities: true,
	}

	cmd := &cobra.Command{
		Use:   "render <object> [object...]",
		Short: "Render an ER diagram for a set of sObjects",
		Long: `Generate an entity-relationship diagram for the given sObjects.

Requires a stored session (run 'schemaviewer auth login' first). Only
relationships between the listed objects are drawn; lookups to objects
outside the selection are omitted. With no arguments an interactive
picker lists the org's objects.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			for _, f := range opts.formats {
				if err := pipeline.ValidateFormat(f); err != nil {
					return err
				}
			}
			return c.runRender(cmd, args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), json, dot (comma-separated)")
	cmd.Flags().StringVar(&opts.apiVersion, "api-version", "", "Salesforce API version (e.g. v59.0)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cached describes and layouts")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the local cache entirely")
	cmd.Flags().BoolVar(&opts.fields, "fields", opts.fields, "show field rows inside entity boxes")
	cmd.Flags().BoolVar(&opts.labels, "labels", opts.labels, "show relationship field names on edges")
	cmd.Flags().BoolVar(&opts.cardinalities, "cardinalities", opts.cardinalities, "show 1/n markers at edge endpoints")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, objects []string, opts *renderOpts) error {
	ctx := cmd.Context()

	sess, err := loadCLISession(ctx)
	if err != nil {
		return err
	}

	store, err := newLocalCache(opts.noCache)
	if err != nil {
		return err
	}
	runner := pipeline.NewRunner(store, nil, c.Logger)
	defer runner.Close()

	client, err := salesforce.NewClient(sess.InstanceURL, sess.AccessToken,
		salesforce.WithAPIVersion(opts.apiVersion),
		salesforce.WithCache(store, nil),
		salesforce.WithLogger(c.Logger))
	if err != nil {
		return err
	}

	if len(objects) == 0 {
		listSpinner := newSpinnerWithContext(ctx, "Listing objects...")
		listSpinner.Start()
		available, err := client.ListObjects(ctx)
		if err != nil {
			listSpinner.StopWithError("Could not list objects")
			return err
		}
		listSpinner.Stop()

		if objects, err = runObjectPicker(available); err != nil {
			return err
		}
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Describing %d objects...", len(objects)))
	spinner.Start()

	start := time.Now()
	result, err := runner.Execute(ctx, client, pipeline.Options{
		Objects:           objects,
		APIVersion:        opts.apiVersion,
		Refresh:           opts.refresh,
		Formats:           opts.formats,
		ShowFields:        opts.fields,
		ShowLabels:        opts.labels,
		ShowCardinalities: opts.cardinalities,
		Logger:            c.Logger,
	})
	if err != nil {
		spinner.StopWithError("Diagram generation failed")
		return err
	}
	spinner.Stop()

	for name, msg := range describeErrors(result) {
		printWarning("%s: %s", name, msg)
	}

	printSuccess("Generated diagram in %s", time.Since(start).Round(time.Millisecond))
	printStats(result.Stats.ObjectCount, result.Stats.EdgeCount, result.CacheInfo.LayoutHit)

	base := basePath(opts.output, objects[0])
	for _, format := range opts.formats {
		path := base + "." + format
		if len(opts.formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}

	return nil
}

func describeErrors(result *pipeline.Result) map[string]string {
	if result.Describes == nil {
		return nil
	}
	return result.Describes.Errors
}

// basePath derives the base output path from the output flag and the
// first object name. Known format extensions are stripped so multiple
// formats can share the base.
func basePath(output, firstObject string) string {
	if output == "" {
		return strings.ToLower(firstObject)
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidFormats[ext] {
		return strings.TrimSuffix(output, "."+ext)
	}
	return output
}
