// Package store implements the shared-directory file bus the ecosystem
// components communicate through. Every exchange is a JSON or plain-text
// file in one directory: components publish state by writing their file,
// and the coordinator publishes commands the same way. There is no locking
// protocol; writes replace files wholesale and readers tolerate missing or
// partial files by skipping the cycle.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fractalis/internal/logging"
	"fractalis/internal/types"
)

// ErrNotFound marks a state file that has not been published yet. Callers
// skip the cycle on it; any other read error is worth a log line.
var ErrNotFound = errors.New("state file not found")

// Shared-directory file names. Components address each other only through
// these files.
const (
	FileFractalParams    = "fractal_params.json"
	FileExplorerStatus   = "explorer_status.json"
	FileFractalAnalysis  = "fractal_analysis.json"
	FileRecommendations  = "explorer_recommendations.json"
	FileMutatorCommands  = "commands.json"
	FileExplorerCommands = "explorer_commands.json"
	FileEcosystemReport  = "ecosystem_report.json"
	FileSessionLog       = "fractalis_session.log"
	DirBackups           = "backups"
)

// Store is a handle on the shared directory.
type Store struct {
	dir string
	log *logging.Logger
}

// New creates a store rooted at dir, creating the directory if needed.
func New(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("shared directory required")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create shared directory: %w", err)
	}
	return &Store{
		dir: dir,
		log: logging.Get(logging.CategoryStore),
	}, nil
}

// Dir returns the shared directory path.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// readJSON loads one JSON state file, mapping a missing file to ErrNotFound.
func (s *Store) readJSON(name string, v any) error {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%s: %w", name, ErrNotFound)
		}
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// =============================================================================
// COMPONENT STATE READS
// =============================================================================

// ReadFractalState reads the mutator's last published state.
func (s *Store) ReadFractalState() (*types.FractalState, error) {
	var state types.FractalState
	if err := s.readJSON(FileFractalParams, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

// explorerStatusFile is the explorer's status file layout. The explorer
// publishes operational counters rather than analysis results, so the read
// synthesizes an analysis snapshot from them.
type explorerStatusFile struct {
	Timestamp            string  `json:"timestamp"`
	Component            string  `json:"component"`
	Status               string  `json:"status"`
	IsRunning            bool    `json:"isRunning"`
	UptimeSeconds        float64 `json:"uptime_seconds"`
	TotalScans           float64 `json:"total_scans"`
	RegionsDiscovered    float64 `json:"regions_discovered"`
	AverageInterestScore float64 `json:"average_interest_score"`
	CurrentResolution    float64 `json:"current_resolution"`
	Language             string  `json:"language"`
}

// ReadExplorerStatus reads the explorer's status file and converts it into
// an analysis snapshot with the status counters as metrics.
func (s *Store) ReadExplorerStatus() (*types.AnalysisData, error) {
	var status explorerStatusFile
	if err := s.readJSON(FileExplorerStatus, &status); err != nil {
		return nil, err
	}

	component := status.Component
	if component == "" {
		component = types.ComponentExplorer
	}

	return &types.AnalysisData{
		Timestamp:     status.Timestamp,
		Region:        types.DefaultAnalysisRegion(),
		FractalType:   0,
		MaxIterations: 0,
		Metrics: map[string]float64{
			"total_scans":            status.TotalScans,
			"regions_discovered":     status.RegionsDiscovered,
			"average_interest_score": status.AverageInterestScore,
			"uptime_seconds":         status.UptimeSeconds,
			"current_resolution":     status.CurrentResolution,
		},
		Recommendation: fmt.Sprintf("Explorer %s - %.0f scans completed", status.Status, status.TotalScans),
		Component:      component,
	}, nil
}

// ReadFractalAnalysis reads the explorer's full analysis result.
func (s *Store) ReadFractalAnalysis() (*types.AnalysisData, error) {
	var analysis types.AnalysisData
	if err := s.readJSON(FileFractalAnalysis, &analysis); err != nil {
		return nil, err
	}
	return &analysis, nil
}

// recommendationBatch is the explorer's recommendation file layout: one
// timestamped batch of recommendation strings.
type recommendationBatch struct {
	Timestamp       string   `json:"timestamp"`
	FromComponent   string   `json:"from_component"`
	TargetComponent string   `json:"target_component"`
	AnalysisScore   float64  `json:"analysis_score"`
	Recommendations []string `json:"recommendations"`
}

// ReadExplorerRecommendations reads pending explorer recommendations. A
// missing file means no recommendations. The file is removed after a
// successful non-empty read so each batch is consumed exactly once.
func (s *Store) ReadExplorerRecommendations() ([]types.ExplorerRecommendation, error) {
	path := s.path(FileRecommendations)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read recommendations: %w", err)
	}

	var batch recommendationBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("failed to parse recommendations: %w", err)
	}

	recs := make([]types.ExplorerRecommendation, 0, len(batch.Recommendations))
	for _, rec := range batch.Recommendations {
		recs = append(recs, types.ExplorerRecommendation{
			Timestamp:       batch.Timestamp,
			FromComponent:   batch.FromComponent,
			TargetComponent: batch.TargetComponent,
			AnalysisScore:   batch.AnalysisScore,
			Recommendation:  rec,
		})
	}

	if len(recs) > 0 {
		if err := os.Remove(path); err != nil {
			s.log.Warn("Could not remove consumed recommendations file: %v", err)
		}
	}

	return recs, nil
}

// =============================================================================
// COMMAND CHANNELS
// =============================================================================

// SendMutatorCommand writes a command to the mutator's command file. Each
// write replaces any command the mutator has not picked up yet.
func (s *Store) SendMutatorCommand(cmd types.Command) error {
	encoded := cmd.MutatorString()
	if err := os.WriteFile(s.path(FileMutatorCommands), []byte(encoded), 0644); err != nil {
		return fmt.Errorf("failed to send mutator command: %w", err)
	}
	s.log.Debug("Sent mutator command: %s", encoded)
	return nil
}

// SendExplorerCommand writes a command to the explorer's command file. Each
// write replaces any command the explorer has not picked up yet.
func (s *Store) SendExplorerCommand(cmd types.Command) error {
	encoded := cmd.ExplorerString()
	if err := os.WriteFile(s.path(FileExplorerCommands), []byte(encoded), 0644); err != nil {
		return fmt.Errorf("failed to send explorer command: %w", err)
	}
	s.log.Debug("Sent explorer command: %s", encoded)
	return nil
}

// =============================================================================
// REPORTS AND SESSION LOG
// =============================================================================

// SaveEcosystemReport persists the ecosystem report as indented JSON.
func (s *Store) SaveEcosystemReport(report *types.EcosystemReport) error {
	timer := logging.StartTimer(logging.CategoryStore, "save ecosystem report")
	defer timer.Stop()

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal ecosystem report: %w", err)
	}

	if err := os.WriteFile(s.path(FileEcosystemReport), data, 0644); err != nil {
		return fmt.Errorf("failed to write ecosystem report: %w", err)
	}
	return nil
}

// ReadEcosystemReport reads back the last persisted ecosystem report.
func (s *Store) ReadEcosystemReport() (*types.EcosystemReport, error) {
	var report types.EcosystemReport
	if err := s.readJSON(FileEcosystemReport, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// LogSessionStart records the session marker. The file holds exactly one
// line: the marker of the currently running coordinator.
func (s *Store) LogSessionStart(sessionID string) error {
	ts := time.Now().UTC().Format("2006-01-02 15:04:05")
	line := fmt.Sprintf("[%s UTC] SESSION_START: %s - fractalis coordinator started\n", ts, sessionID)

	if err := os.WriteFile(s.path(FileSessionLog), []byte(line), 0644); err != nil {
		return fmt.Errorf("failed to write session log: %w", err)
	}
	s.log.Info("Session %s started", sessionID)
	return nil
}
