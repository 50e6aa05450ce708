package excel

import (
	"context"
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"gogaze/domain/gaze"
	"gogaze/internal/errors"
)

// DataReader handles reading sample streams from Excel and CSV files
type DataReader struct {
	cfg      ReaderConfig
	fileType string // "xlsx" or "csv"
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(cfg ReaderConfig) *DataReader {
	ext := strings.ToLower(filepath.Ext(cfg.FilePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	if cfg.Sheet == "" {
		cfg.Sheet = "Sheet1"
	}
	return &DataReader{cfg: cfg, fileType: fileType}
}

// ReadTrials reads the file and splits its rows into trials
func (r *DataReader) ReadTrials(ctx context.Context) ([]gaze.Trial, error) {
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.buildTrials(data)
}

// ReadData reads data from Excel or CSV files into structured format
func (r *DataReader) ReadData() (*ExcelData, error) {
	log.Debug().Str("type", r.fileType).Str("path", r.cfg.FilePath).Msg("[DataReader] reading samples")

	if _, err := os.Stat(r.cfg.FilePath); err != nil {
		return nil, errors.UnreadableInput(strings.ToUpper(r.fileType)+" file not found: "+r.cfg.FilePath, err)
	}

	var rows [][]string
	var err error
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errors.UnreadableInput("sample file must have a header row and at least one data row", nil)
	}
	return r.processRows(rows), nil
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.cfg.FilePath)
	if err != nil {
		return nil, errors.UnreadableInput("failed to open Excel file", err)
	}
	defer f.Close()

	rows, err := f.GetRows(r.cfg.Sheet)
	if err != nil {
		return nil, errors.UnreadableInput("failed to read sheet "+r.cfg.Sheet, err)
	}
	log.Debug().
		Str("sheet", r.cfg.Sheet).
		Int("rows", len(rows)).
		Dur("elapsed", time.Since(startTime)).
		Msg("[DataReader] sheet read")
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.cfg.FilePath)
	if err != nil {
		return nil, errors.UnreadableInput("failed to open CSV file", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.UnreadableInput("failed to read CSV file", err)
	}
	return rows, nil
}

// processRows converts raw string rows into ExcelData format
func (r *DataReader) processRows(rows [][]string) *ExcelData {
	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(header))
	}

	dataRows := make([]RawRowData, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rowData := make(RawRowData, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	log.Debug().
		Int("columns", len(headers)).
		Int("rows", len(dataRows)).
		Msgf("[DataReader] %s file processed", strings.ToUpper(r.fileType))

	return &ExcelData{Headers: headers, Rows: dataRows}
}

// trialBuilder accumulates the rows of one trial in file order
type trialBuilder struct {
	key      string
	samples  gaze.Samples
	messages []gaze.Message
	hasSize  bool
}

func (r *DataReader) buildTrials(data *ExcelData) ([]gaze.Trial, error) {
	for _, col := range []string{ColTime, ColX, ColY} {
		if !hasHeader(data.Headers, col) {
			return nil, errors.UnreadableInput("sample file is missing the "+col+" column", nil)
		}
	}
	hasSize := hasHeader(data.Headers, ColSize)

	var builders []*trialBuilder
	byKey := make(map[string]*trialBuilder)
	for i, row := range data.Rows {
		key := row[ColTrial]
		b, ok := byKey[key]
		if !ok {
			b = &trialBuilder{key: key, hasSize: hasSize}
			byKey[key] = b
			builders = append(builders, b)
		}
		if err := r.addRow(b, row); err != nil {
			return nil, errors.Wrapf(err, "row %d", i+2)
		}
	}

	trials := make([]gaze.Trial, 0, len(builders))
	for i, b := range builders {
		if r.cfg.ZeroBase {
			b.zeroBase()
		}
		if err := b.samples.Validate(); err != nil {
			return nil, errors.InvalidInput("trial "+b.key+" has malformed samples", err)
		}
		trials = append(trials, gaze.NewTrial(i, b.samples, b.messages))
	}
	log.Info().Int("trials", len(trials)).Str("path", r.cfg.FilePath).Msg("[DataReader] trials loaded")
	return trials, nil
}

// addRow appends one sample, or one message when the row has no position
func (r *DataReader) addRow(b *trialBuilder, row RawRowData) error {
	ts, err := parseTime(row[ColTime])
	if err != nil {
		return err
	}
	if text := row[ColMessage]; text != "" {
		b.messages = append(b.messages, gaze.Message{Time: ts, Text: text})
		if row[ColX] == "" && row[ColY] == "" {
			return nil
		}
	}

	x, err := parseValue(row[ColX], r.cfg.Missing)
	if err != nil {
		return err
	}
	y, err := parseValue(row[ColY], r.cfg.Missing)
	if err != nil {
		return err
	}
	b.samples.Time = append(b.samples.Time, ts)
	b.samples.X = append(b.samples.X, x)
	b.samples.Y = append(b.samples.Y, y)
	if b.hasSize {
		size, err := parseValue(row[ColSize], r.cfg.InvalidSize)
		if err != nil {
			return err
		}
		b.samples.Size = append(b.samples.Size, size)
	}
	return nil
}

func (b *trialBuilder) zeroBase() {
	if len(b.samples.Time) == 0 {
		return
	}
	origin := b.samples.Time[0]
	for i := range b.samples.Time {
		b.samples.Time[i] -= origin
	}
	for i := range b.messages {
		b.messages[i].Time -= origin
	}
}

func hasHeader(headers []string, name string) bool {
	for _, h := range headers {
		if h == name {
			return true
		}
	}
	return false
}

func parseTime(s string) (int64, error) {
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.UnreadableInput("invalid timestamp "+strconv.Quote(s), err)
	}
	return int64(math.Round(f)), nil
}

func parseValue(s string, empty float64) (float64, error) {
	if s == "" {
		return empty, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.UnreadableInput("invalid sample value "+strconv.Quote(s), err)
	}
	return v, nil
}
