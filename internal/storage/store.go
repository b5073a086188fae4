package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/zhangluna929/Thermal-Management-Model/internal/sim"
	"github.com/zhangluna929/Thermal-Management-Model/internal/therm"
)

// Store persists runs on disk, one directory per run with a
// metadata.json and a temperatures.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string             `json:"id"`
	Scenario  string             `json:"scenario"`
	Timestamp time.Time          `json:"timestamp"`
	Current   float64            `json:"current"`
	Steps     int                `json:"steps"`
	Dt        float64            `json:"dt"`
	Zones     int                `json:"zones"`
	Cooling   string             `json:"cooling"`
	Metrics   map[string]float64 `json:"metrics"`
}

func (s *Store) Save(scenario, cooling string, cfg sim.RunConfig, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", scenario, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:        runID,
		Scenario:  scenario,
		Timestamp: time.Now(),
		Current:   cfg.Current,
		Steps:     result.StepsTaken,
		Dt:        cfg.Dt,
		Zones:     result.History.Zones(),
		Cooling:   cooling,
		Metrics:   result.Metrics,
	}

	metaPath := filepath.Join(runDir, "metadata.json")
	metaFile, err := os.Create(metaPath)
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvPath := filepath.Join(runDir, "temperatures.csv")
	csvFile, err := os.Create(csvPath)
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if result.History.Steps() == 0 {
		return runID, nil
	}

	header := []string{"step", "time"}
	for z := 0; z < result.History.Zones(); z++ {
		header = append(header, fmt.Sprintf("zone_%d", z))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i, row := range result.History {
		record := []string{
			strconv.Itoa(i),
			strconv.FormatFloat(float64(i+1)*cfg.Dt, 'f', 6, 64),
		}
		for _, val := range row {
			record = append(record, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		metaPath := filepath.Join(s.baseDir, entry.Name(), "metadata.json")
		data, err := os.ReadFile(metaPath)
		if err != nil {
			continue
		}

		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}

		runs = append(runs, meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	metaPath := filepath.Join(s.baseDir, runID, "metadata.json")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

// Latest returns the most recent run by timestamp, or an error when the
// store is empty.
func (s *Store) Latest() (*RunMetadata, error) {
	runs, err := s.List()
	if err != nil {
		return nil, err
	}
	if len(runs) == 0 {
		return nil, fmt.Errorf("no stored runs under %s", s.baseDir)
	}

	latest := runs[0]
	for _, r := range runs[1:] {
		if r.Timestamp.After(latest.Timestamp) {
			latest = r
		}
	}
	return &latest, nil
}

// LoadHistory reads a run's temperature trajectory back from its CSV.
func (s *Store) LoadHistory(runID string) (therm.History, error) {
	csvPath := filepath.Join(s.baseDir, runID, "temperatures.csv")
	file, err := os.Open(csvPath)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return therm.History{}, nil
	}

	history := make(therm.History, 0, len(records)-1)
	for i := 1; i < len(records); i++ {
		record := records[i]
		// step and time columns come first
		if len(record) < 3 {
			continue
		}

		row := make([]float64, 0, len(record)-2)
		for j := 2; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			row = append(row, val)
		}
		history = append(history, row)
	}

	return history, nil
}

// ExportData is the JSON shape for exported runs.
type ExportData struct {
	Scenario     string                 `json:"scenario"`
	Cooling      string                 `json:"cooling"`
	Dt           float64                `json:"dt"`
	Steps        int                    `json:"steps"`
	Temperatures [][]float64            `json:"temperatures"`
	Labels       [][]therm.CoolingLabel `json:"labels,omitempty"`
	Metrics      map[string]float64     `json:"metrics"`
}

func exportJSON(w io.Writer, scenario, cooling string, dt float64, result *sim.Result) error {
	data := ExportData{
		Scenario:     scenario,
		Cooling:      cooling,
		Dt:           dt,
		Steps:        result.StepsTaken,
		Temperatures: result.History,
		Labels:       result.Labels,
		Metrics:      result.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path, scenario, cooling string, dt float64, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return exportJSON(file, scenario, cooling, dt, result)
}

func ExportJSONStdout(scenario, cooling string, dt float64, result *sim.Result) error {
	return exportJSON(os.Stdout, scenario, cooling, dt, result)
}
