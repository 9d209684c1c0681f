package logging

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tourga/internal/route"
)

// OpLog records every route the CLI produces to a CSV file and a JSONL file
type OpLog struct {
	RunID string

	csvPath   string
	jsonPath  string
	csvFile   *os.File
	csvWriter *csv.Writer
	jsonFile  *os.File
	log       *zap.Logger
	seq       int
}

// Entry is one logged route
type Entry struct {
	RunID         string    `json:"run_id"`
	Seq           int       `json:"seq"`
	Op            string    `json:"op"`
	Time          time.Time `json:"time"`
	Order         []string  `json:"order"`
	Evaluated     bool      `json:"evaluated"`
	TotalDistance float64   `json:"total_distance,omitempty"`
}

// NewOpLog creates the log directories and opens both files, truncating them
func NewOpLog(csvPath, jsonPath string, log *zap.Logger) (*OpLog, error) {
	if err := os.MkdirAll(filepath.Dir(csvPath), 0755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(jsonPath), 0755); err != nil {
		return nil, err
	}

	l := &OpLog{
		RunID:    uuid.NewString(),
		csvPath:  csvPath,
		jsonPath: jsonPath,
		log:      log,
	}

	var err error
	l.csvFile, err = os.Create(csvPath)
	if err != nil {
		return nil, err
	}
	l.csvWriter = csv.NewWriter(l.csvFile)

	header := []string{"run_id", "seq", "op", "evaluated", "total_distance", "order"}
	if err := l.csvWriter.Write(header); err != nil {
		l.Close()
		return nil, err
	}

	l.jsonFile, err = os.OpenFile(jsonPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		l.Close()
		return nil, err
	}

	return l, nil
}

// Close flushes and closes both files
func (l *OpLog) Close() error {
	var firstErr error
	if l.csvWriter != nil {
		l.csvWriter.Flush()
		firstErr = l.csvWriter.Error()
	}
	if l.csvFile != nil {
		if err := l.csvFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if l.jsonFile != nil {
		if err := l.jsonFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Record appends r under the given operation name
func (l *OpLog) Record(op string, r *route.Route) error {
	l.seq++

	entry := Entry{
		RunID: l.RunID,
		Seq:   l.seq,
		Op:    op,
		Time:  time.Now().UTC(),
	}
	for _, d := range r.Destinations() {
		entry.Order = append(entry.Order, d.Name())
	}
	if total, err := r.TotalDistance(); err == nil {
		entry.Evaluated = true
		entry.TotalDistance = total
	}

	row := []string{
		entry.RunID,
		strconv.Itoa(entry.Seq),
		entry.Op,
		strconv.FormatBool(entry.Evaluated),
		fmt.Sprintf("%.4f", entry.TotalDistance),
		strings.Join(entry.Order, " "),
	}
	if err := l.csvWriter.Write(row); err != nil {
		return err
	}
	l.csvWriter.Flush()
	if err := l.csvWriter.Error(); err != nil {
		return err
	}

	line, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	if _, err := l.jsonFile.Write(append(line, '\n')); err != nil {
		return err
	}

	if l.log != nil {
		l.log.Debug("route recorded",
			zap.String("op", op),
			zap.Int("seq", entry.Seq),
			zap.Bool("evaluated", entry.Evaluated),
			zap.Float64("total_distance", entry.TotalDistance))
	}
	return nil
}
