// Package report renders the project report: a single self-contained HTML
// document built from the form values and previously calculated results.
package report

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/iwvelando/loan-report/internal/appraisal"
	"github.com/iwvelando/loan-report/internal/artifact"
	"github.com/iwvelando/loan-report/internal/project"
	"github.com/iwvelando/loan-report/pkg/constants"
	"github.com/iwvelando/loan-report/pkg/format"
	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"go.uber.org/zap"
)

//go:embed templates/report.html.tmpl
var templateFS embed.FS

var reportTemplate = template.Must(
	template.New("report.html.tmpl").
		Funcs(template.FuncMap{
			"section": func(icon, title string) sectionHeading {
				return sectionHeading{Icon: icon, Title: title}
			},
			"shareTable": func(heading string, rows []shareRow) shareTableData {
				return shareTableData{Heading: heading, Rows: rows}
			},
		}).
		ParseFS(templateFS, "templates/report.html.tmpl"),
)

var unsafeFilenameChars = regexp.MustCompile(`[^a-z0-9]`)

// Config tunes the renderer. Zero values select the defaults.
type Config struct {
	// FontStylesheet is the only external resource the report references.
	// Set it to "-" to omit the font link entirely.
	FontStylesheet string
	CurrencySymbol string
	// Now supplies the generation date printed in the footer.
	Now func() time.Time
}

// Renderer turns a project and its results into an HTML report.
type Renderer struct {
	fontStylesheet string
	currencySymbol string
	now            func() time.Time
	markdown       goldmark.Markdown
	logger         *zap.Logger
}

// NewRenderer creates a Renderer.
func NewRenderer(logger *zap.Logger, cfg Config) *Renderer {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Renderer{
		fontStylesheet: cfg.FontStylesheet,
		currencySymbol: cfg.CurrencySymbol,
		now:            cfg.Now,
		logger:         logger,
		// raw HTML in narratives is dropped because WithUnsafe is not set
		markdown: goldmark.New(goldmark.WithRendererOptions(gmhtml.WithHardWraps())),
	}
	switch r.fontStylesheet {
	case "":
		r.fontStylesheet = constants.DefaultFontStylesheet
	case "-":
		r.fontStylesheet = ""
	}
	if r.currencySymbol == "" {
		r.currencySymbol = format.RupeeSymbol
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Render writes the complete report to w. Nothing is written when rendering
// fails.
func (r *Renderer) Render(w io.Writer, p project.ProjectData, results appraisal.CalculatedResults) error {
	v, err := r.buildView(p, results)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, v); err != nil {
		r.logger.Error("error rendering report",
			zap.String("op", "report.Render"),
			zap.Error(err),
		)
		return fmt.Errorf("failed to render report: %w", err)
	}
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// Generate renders the report and hands it to emitter.
func (r *Renderer) Generate(ctx context.Context, p project.ProjectData, results appraisal.CalculatedResults, emitter artifact.Emitter) (artifact.Artifact, error) {
	var buf bytes.Buffer
	if err := r.Render(&buf, p, results); err != nil {
		return artifact.Artifact{}, err
	}
	a := artifact.Artifact{
		Name:      Filename(p),
		MediaType: constants.MediaTypeHTML,
		Data:      buf.Bytes(),
	}
	if err := emitter.Emit(ctx, a); err != nil {
		r.logger.Error("error emitting report",
			zap.String("op", "report.Generate"),
			zap.String("name", a.Name),
			zap.Error(err),
		)
		return a, fmt.Errorf("failed to emit report: %w", err)
	}
	r.logger.Info(fmt.Sprintf("generated report %s", a.Name),
		zap.String("op", "report.Generate"),
		zap.Int("bytes", len(a.Data)),
	)
	return a, nil
}

// Filename derives the report file name from the project name: every
// character other than an ASCII letter or digit becomes an underscore and the
// result is lower-cased.
func Filename(p project.ProjectData) string {
	stem := strings.ToLower(p.ProjectName)
	if strings.TrimSpace(stem) == "" {
		stem = "project"
	}
	return unsafeFilenameChars.ReplaceAllString(stem, "_") + "_project_report.html"
}

// narrative renders free text typed into the form as Markdown.
func (r *Renderer) narrative(text string) (template.HTML, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(text), &buf); err != nil {
		return "", fmt.Errorf("failed to render narrative: %w", err)
	}
	// goldmark escapes text and omits raw HTML, so the output is safe to embed.
	return template.HTML(buf.String()), nil
}
