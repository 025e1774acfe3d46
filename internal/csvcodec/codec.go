// Package csvcodec exchanges a ProjectData record as a two-line CSV file: the
// canonical header line followed by a single data line.
package csvcodec

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iwvelando/loan-report/internal/artifact"
	"github.com/iwvelando/loan-report/internal/project"
	"github.com/iwvelando/loan-report/pkg/constants"
	"go.uber.org/zap"
)

// Decode failures. Returned errors wrap exactly one of these.
var (
	ErrEmptyFile       = errors.New("CSV file is empty")
	ErrMalformed       = errors.New("invalid CSV format: file must contain header and data rows")
	ErrNoFields        = errors.New("no valid data found in CSV file")
	ErrMissingIdentity = errors.New("CSV must contain at least one of: beneficiaryName, projectName, or fatherName")
	ErrUnreadable      = errors.New("failed to read CSV file")
	ErrInvalidFile     = errors.New("invalid CSV file")
)

const utf8BOM = "\ufeff"

// Result describes how a decoded file mapped onto the record.
type Result struct {
	ImportedFields int
	UnknownHeaders []string
	HeaderFallback bool
}

// Codec encodes and decodes ProjectData records.
type Codec struct {
	logger *zap.Logger
}

// New returns a Codec that logs through logger.
func New(logger *zap.Logger) *Codec {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Codec{logger: logger}
}

// Encode renders the header line and the data line of p, joined by a single
// newline and without a trailing one.
func Encode(p project.ProjectData) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	// Writes to a bytes.Buffer cannot fail.
	_ = w.Write(project.Headers())
	_ = w.Write(p.Values())
	w.Flush()
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n"))
}

// Encode is the method form of the package-level Encode.
func (c *Codec) Encode(p project.ProjectData) []byte {
	return Encode(p)
}

// Decode parses CSV content into a record. Unknown headers are ignored and
// fields missing from the file are left empty.
func (c *Codec) Decode(content []byte) (project.ProjectData, Result, error) {
	var data project.ProjectData
	var result Result

	text := strings.TrimPrefix(string(content), utf8BOM)
	if strings.TrimSpace(text) == "" {
		return data, result, fail(ErrEmptyFile)
	}

	reader := newRecordScanner(text)

	headers, err := nextRecord(reader)
	if errors.Is(err, io.EOF) {
		return data, result, fail(ErrMalformed)
	}
	if err != nil {
		c.logger.Warn("failed to parse header row, using default headers",
			zap.String("op", "csvcodec.Decode"),
			zap.Error(err),
		)
		headers = project.Headers()
		result.HeaderFallback = true
	}

	values, err := nextRecord(reader)
	if errors.Is(err, io.EOF) {
		return data, result, fail(ErrMalformed)
	}
	if err != nil {
		return data, result, fmt.Errorf("failed to parse CSV file: %w: failed to parse data row: %v", ErrMalformed, err)
	}

	imported := make(map[string]bool)
	for i, raw := range headers {
		name := strings.TrimSpace(strings.ReplaceAll(raw, `"`, ""))
		if !project.IsHeader(name) {
			if name != "" {
				result.UnknownHeaders = append(result.UnknownHeaders, name)
			}
			continue
		}
		value := ""
		if i < len(values) {
			value = values[i]
		}
		data.Set(name, value)
		if strings.TrimSpace(value) != "" {
			imported[name] = true
		} else {
			delete(imported, name)
		}
	}
	result.ImportedFields = len(imported)

	if len(result.UnknownHeaders) > 0 {
		c.logger.Debug(fmt.Sprintf("ignored %d unknown columns", len(result.UnknownHeaders)),
			zap.String("op", "csvcodec.Decode"),
			zap.Strings("headers", result.UnknownHeaders),
		)
	}

	if result.ImportedFields == 0 {
		return project.ProjectData{}, result, fail(ErrNoFields)
	}
	if !data.HasIdentity() {
		return project.ProjectData{}, result, fail(ErrMissingIdentity)
	}

	c.logger.Info(fmt.Sprintf("successfully imported %d fields from CSV", result.ImportedFields),
		zap.String("op", "csvcodec.Decode"),
	)
	return data, result, nil
}

// Import reads r to the end once and decodes what it read.
func (c *Codec) Import(ctx context.Context, r io.Reader) (project.ProjectData, Result, error) {
	if err := ctx.Err(); err != nil {
		return project.ProjectData{}, Result{}, err
	}
	content, err := io.ReadAll(r)
	if err != nil {
		c.logger.Error("failed to read CSV input",
			zap.String("op", "csvcodec.Import"),
			zap.Error(err),
		)
		return project.ProjectData{}, Result{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	return c.Decode(content)
}

// ImportFile validates and imports the CSV file at path.
func (c *Codec) ImportFile(ctx context.Context, path string) (project.ProjectData, Result, error) {
	info, err := os.Stat(path)
	if err != nil {
		return project.ProjectData{}, Result{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if err := ValidateFile(info.Name(), info.Size()); err != nil {
		return project.ProjectData{}, Result{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return project.ProjectData{}, Result{}, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			c.logger.Warn("failed to close CSV file",
				zap.String("op", "csvcodec.ImportFile"),
				zap.Error(closeErr),
			)
		}
	}()
	return c.Import(ctx, f)
}

// Export encodes p and hands it to emitter under the conventional file name.
func (c *Codec) Export(ctx context.Context, p project.ProjectData, emitter artifact.Emitter, now time.Time) (artifact.Artifact, error) {
	a := artifact.Artifact{
		Name:      Filename(p, now),
		MediaType: constants.MediaTypeCSV,
		Data:      Encode(p),
	}
	if err := emitter.Emit(ctx, a); err != nil {
		c.logger.Error("error exporting CSV",
			zap.String("op", "csvcodec.Export"),
			zap.Error(err),
		)
		return a, fmt.Errorf("failed to export CSV file: %w", err)
	}
	return a, nil
}

// Filename returns "{projectName}_{YYYY-MM-DD}.csv", falling back to
// "project_data" when the project is unnamed. The date is taken in UTC.
func Filename(p project.ProjectData, now time.Time) string {
	stem := strings.TrimSpace(p.ProjectName)
	if stem == "" {
		stem = constants.DefaultProjectFileStem
	}
	stem = strings.NewReplacer("/", "_", `\`, "_").Replace(stem)
	return fmt.Sprintf("%s_%s.csv", stem, now.UTC().Format(constants.DateLayout))
}

// ValidateFile checks an upload's name and size before it is read.
func ValidateFile(name string, size int64) error {
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		return fmt.Errorf("%w: %s does not have a .csv extension", ErrInvalidFile, name)
	}
	if size <= 0 {
		return fmt.Errorf("%w: %s is empty", ErrInvalidFile, name)
	}
	if size >= constants.MaxCSVFileSizeBytes {
		return fmt.Errorf("%w: %s is %d bytes, limit is %d", ErrInvalidFile, name, size, constants.MaxCSVFileSizeBytes)
	}
	return nil
}

// nextRecord returns the next record that is not blank.
func nextRecord(r *recordScanner) ([]string, error) {
	for {
		record, err := r.next()
		if err != nil {
			return nil, err
		}
		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		return record, nil
	}
}

func fail(err error) error {
	return fmt.Errorf("failed to parse CSV file: %w", err)
}
