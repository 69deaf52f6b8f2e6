package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/twoojoo/zschema/entities"
	"github.com/twoojoo/zschema/i18n"
	"github.com/twoojoo/zschema/schema"
)

type validateOptions struct {
	locale string
	strict bool
	jobs   int
	input  string
	output string
}

// outcome is the result of validating one document.
type outcome struct {
	File   string                  `json:"file"`
	OK     bool                    `json:"ok"`
	Value  map[string]any          `json:"value,omitempty"`
	Errors schema.ValidationErrors `json:"errors,omitempty"`
}

func newValidateCmd(a *app) *cobra.Command {
	opts := validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate <schema> [file...]",
		Short: "Validate JSON or YAML documents against a schema",
		Long: `Validate one or more documents against a registered schema. Files
ending in .yaml or .yml are read as YAML, everything else as JSON. Use "-"
or no file at all to read a single document from standard input.`,
		Example: `  zschema validate Register signup.json
  zschema validate CreateTodo --locale ko todos/*.yaml
  echo '{"title":"x"}' | zschema validate Todo`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.validate(cmd, args[0], args[1:], opts)
		},
	}
	cmd.Flags().StringVar(&opts.locale, "locale", i18n.DefaultLocale, "language of failure messages ("+strings.Join(i18n.Locales(), ", ")+")")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "reject keys the schema does not declare")
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", runtime.NumCPU(), "documents validated in parallel")
	cmd.Flags().StringVar(&opts.input, "input", "auto", "input format: auto, json or yaml")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "text", "output format: text or json")
	return cmd
}

func (a *app) validate(cmd *cobra.Command, name string, files []string, opts validateOptions) error {
	entry, ok := entities.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown schema %q, run 'zschema list' for the available names", name)
	}
	catalog, err := i18n.Load(opts.locale)
	if err != nil {
		return err
	}
	switch opts.input {
	case "auto", "json", "yaml":
	default:
		return fmt.Errorf("unknown input format %q", opts.input)
	}
	if opts.output != "text" && opts.output != "json" {
		return fmt.Errorf("unknown output format %q", opts.output)
	}

	s := entry.Schema
	if opts.strict {
		s = s.Strict()
	}
	if len(files) == 0 {
		files = []string{"-"}
	}
	stdin := 0
	for _, f := range files {
		if f == "-" {
			stdin++
		}
	}
	if stdin > 1 {
		return fmt.Errorf("standard input can only be read once")
	}

	results := make([]outcome, len(files))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(opts.jobs, 1))
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			data, err := readInput(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			res, err := check(s, file, data, opts.input)
			if err != nil {
				return err
			}
			if !res.OK {
				res.Errors = catalog.Translate(res.Errors, entry.Name, entry.Domain)
			}
			a.logger.Debug("document validated",
				zap.String("schema", entry.Name),
				zap.String("file", file),
				zap.Bool("ok", res.OK),
				zap.Int("failures", len(res.Errors)),
				zap.Duration("took", time.Since(start)))
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if opts.output == "json" {
		err = writeJSON(out, results)
	} else {
		err = writeText(out, results)
	}
	if err != nil {
		return err
	}

	for _, r := range results {
		if !r.OK {
			return ErrRejected
		}
	}
	return nil
}

func readInput(file string, stdin io.Reader) ([]byte, error) {
	if file == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read standard input: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	return data, nil
}

// check validates one document. YAML is converted to JSON first so both
// formats go through the same decoding path.
func check(s *schema.ObjectSchema, file string, data []byte, format string) (outcome, error) {
	res := outcome{File: file}
	if isYAML(file, format) {
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return res, fmt.Errorf("parse %s: %w", file, err)
		}
		var err error
		if data, err = json.Marshal(doc); err != nil {
			return res, fmt.Errorf("parse %s: %w", file, err)
		}
	}

	value, err := s.ParseJSON(data)
	if ve, ok := schema.IsValidationError(err); ok {
		res.Errors = ve
		return res, nil
	}
	if err != nil {
		return res, fmt.Errorf("%s: %w", file, err)
	}
	res.OK = true
	res.Value = value
	return res, nil
}

func isYAML(file, format string) bool {
	switch format {
	case "yaml":
		return true
	case "json":
		return false
	}
	ext := strings.ToLower(filepath.Ext(file))
	return ext == ".yaml" || ext == ".yml"
}

func writeJSON(w io.Writer, results []outcome) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(results)
}

func writeText(w io.Writer, results []outcome) error {
	st := newStyles(w)
	valid := 0
	for _, r := range results {
		if r.OK {
			valid++
			body, err := json.MarshalIndent(r.Value, "  ", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s %s\n  %s\n", st.ok.Render("✓"), r.File, body)
			continue
		}
		fmt.Fprintf(w, "%s %s\n", st.fail.Render("✗"), r.File)
		for _, e := range r.Errors {
			path := e.Field()
			if path == "" {
				path = "(root)"
			}
			fmt.Fprintf(w, "  • %s: %s\n", st.path.Render(path), e.Message)
		}
	}
	fmt.Fprintln(w, st.muted.Render(fmt.Sprintf("%d valid, %d invalid", valid, len(results)-valid)))
	return nil
}
