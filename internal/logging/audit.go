// Audit logging writes the coordination timeline as JSONL events: component
// discovery, strategy decisions, command dispatch, reports, and maintenance.
// Each line is one self-contained event, so the trail can be replayed or
// grepped without parsing state.
package logging

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AuditEventType defines the type of audit event
type AuditEventType string

const (
	// Session lifecycle
	AuditSessionStart AuditEventType = "session_start"
	AuditSessionEnd   AuditEventType = "session_end"

	// Coordination cycle
	AuditCycleComplete AuditEventType = "cycle_complete"
	AuditComponentSeen AuditEventType = "component_seen"

	// Strategy engine
	AuditStrategyExecute AuditEventType = "strategy_execute"
	AuditStrategyModify  AuditEventType = "strategy_modify"

	// Command dispatch
	AuditCommandDispatch AuditEventType = "command_dispatch"
	AuditAnalysisRequest AuditEventType = "analysis_request"
	AuditRecommendation  AuditEventType = "recommendation"

	// Reports and maintenance
	AuditReportSaved AuditEventType = "report_saved"
	AuditMaintenance AuditEventType = "maintenance"

	// Store failures
	AuditFileError AuditEventType = "file_error"
)

// AuditEvent represents one line of the coordination timeline.
type AuditEvent struct {
	Timestamp  int64                  `json:"ts"`               // Unix milliseconds
	EventType  AuditEventType         `json:"event"`            // Event type
	SessionID  string                 `json:"session"`          // Session correlation
	Target     string                 `json:"target,omitempty"` // Target of operation
	Action     string                 `json:"action,omitempty"` // Action being performed
	Success    bool                   `json:"success"`          // Operation succeeded
	DurationMs int64                  `json:"dur_ms,omitempty"` // Duration in milliseconds
	Error      string                 `json:"error,omitempty"`  // Error message if failed
	Message    string                 `json:"msg"`              // Human-readable message
	Fields     map[string]interface{} `json:"fields,omitempty"` // Additional structured fields
}

var (
	auditFile *os.File
	auditMu   sync.Mutex
)

// AuditLogger handles structured audit logging scoped to a session.
type AuditLogger struct {
	sessionID string
}

// InitAudit initializes the audit logging system
func InitAudit() error {
	if !IsEnabled() {
		return nil
	}

	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		return nil // Already initialized
	}

	optsMu.RLock()
	dir := opts.Dir
	optsMu.RUnlock()
	if dir == "" {
		return nil
	}

	date := time.Now().Format("2006-01-02")
	auditPath := filepath.Join(dir, fmt.Sprintf("%s_audit.log", date))

	file, err := os.OpenFile(auditPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	auditFile = file

	header := fmt.Sprintf("# Audit log started at %s\n", time.Now().Format(time.RFC3339))
	auditFile.WriteString(header)

	return nil
}

// CloseAudit closes the audit log file
func CloseAudit() {
	auditMu.Lock()
	defer auditMu.Unlock()

	if auditFile != nil {
		auditFile.Close()
		auditFile = nil
	}
}

// AuditWithSession creates an audit logger scoped to a session
func AuditWithSession(sessionID string) *AuditLogger {
	return &AuditLogger{sessionID: sessionID}
}

// Log writes an audit event
func (a *AuditLogger) Log(event AuditEvent) {
	if !IsEnabled() {
		return
	}

	auditMu.Lock()
	defer auditMu.Unlock()
	if auditFile == nil {
		return
	}

	if event.Timestamp == 0 {
		event.Timestamp = time.Now().UnixMilli()
	}
	if event.SessionID == "" {
		event.SessionID = a.sessionID
	}

	data, err := json.Marshal(event)
	if err == nil {
		auditFile.WriteString(string(data) + "\n")
	}
}

// =============================================================================
// CONVENIENCE METHODS FOR COMMON EVENTS
// =============================================================================

// SessionStart logs session start
func (a *AuditLogger) SessionStart(sessionID string) {
	a.Log(AuditEvent{
		EventType: AuditSessionStart,
		SessionID: sessionID,
		Success:   true,
		Message:   fmt.Sprintf("Session started: %s", sessionID),
	})
}

// SessionEnd logs session end
func (a *AuditLogger) SessionEnd(sessionID string, cycles uint64, durationMs int64) {
	a.Log(AuditEvent{
		EventType:  AuditSessionEnd,
		SessionID:  sessionID,
		Success:    true,
		DurationMs: durationMs,
		Fields:     map[string]interface{}{"cycles": cycles},
		Message:    fmt.Sprintf("Session ended: %s (%d cycles, %dms)", sessionID, cycles, durationMs),
	})
}

// CycleComplete logs a finished coordination cycle
func (a *AuditLogger) CycleComplete(healthScore float64, activity string, durationMs int64) {
	a.Log(AuditEvent{
		EventType:  AuditCycleComplete,
		Success:    true,
		DurationMs: durationMs,
		Fields: map[string]interface{}{
			"health_score": healthScore,
			"activity":     activity,
		},
		Message: fmt.Sprintf("Cycle complete: health=%.2f activity=%s (%dms)", healthScore, activity, durationMs),
	})
}

// ComponentSeen logs a component discovered during a cycle
func (a *AuditLogger) ComponentSeen(name, status string) {
	a.Log(AuditEvent{
		EventType: AuditComponentSeen,
		Target:    name,
		Success:   true,
		Fields:    map[string]interface{}{"status": status},
		Message:   fmt.Sprintf("Component seen: %s (%s)", name, status),
	})
}

// StrategyExecute logs a strategy producing an action
func (a *AuditLogger) StrategyExecute(strategy, action string, success bool, errMsg string) {
	a.Log(AuditEvent{
		EventType: AuditStrategyExecute,
		Target:    strategy,
		Action:    action,
		Success:   success,
		Error:     errMsg,
		Message:   fmt.Sprintf("Strategy %s -> %s (success=%v)", strategy, action, success),
	})
}

// StrategyModify logs a runtime strategy modification
func (a *AuditLogger) StrategyModify(strategy, modification string, success bool) {
	a.Log(AuditEvent{
		EventType: AuditStrategyModify,
		Target:    strategy,
		Action:    modification,
		Success:   success,
		Message:   fmt.Sprintf("Strategy %s modified: %s (success=%v)", strategy, modification, success),
	})
}

// CommandDispatch logs a command written to a component channel
func (a *AuditLogger) CommandDispatch(target, command string, success bool, errMsg string) {
	a.Log(AuditEvent{
		EventType: AuditCommandDispatch,
		Target:    target,
		Action:    command,
		Success:   success,
		Error:     errMsg,
		Message:   fmt.Sprintf("Command -> %s: %s (success=%v)", target, command, success),
	})
}

// AnalysisRequest logs an analysis request sent to the explorer
func (a *AuditLogger) AnalysisRequest(target string, success bool) {
	a.Log(AuditEvent{
		EventType: AuditAnalysisRequest,
		Target:    target,
		Success:   success,
		Message:   fmt.Sprintf("Analysis requested from %s (success=%v)", target, success),
	})
}

// Recommendation logs a forwarded recommendation
func (a *AuditLogger) Recommendation(from, action string, forwarded bool) {
	a.Log(AuditEvent{
		EventType: AuditRecommendation,
		Target:    from,
		Action:    action,
		Success:   forwarded,
		Message:   fmt.Sprintf("Recommendation from %s: %s (forwarded=%v)", from, action, forwarded),
	})
}

// ReportSaved logs a persisted ecosystem report
func (a *AuditLogger) ReportSaved(path string, durationMs int64, success bool, errMsg string) {
	a.Log(AuditEvent{
		EventType:  AuditReportSaved,
		Target:     path,
		Success:    success,
		DurationMs: durationMs,
		Error:      errMsg,
		Message:    fmt.Sprintf("Report saved: %s (success=%v, %dms)", path, success, durationMs),
	})
}

// Maintenance logs a maintenance pass (cleanup or backup)
func (a *AuditLogger) Maintenance(op string, count int, success bool, errMsg string) {
	a.Log(AuditEvent{
		EventType: AuditMaintenance,
		Action:    op,
		Success:   success,
		Error:     errMsg,
		Fields:    map[string]interface{}{"count": count},
		Message:   fmt.Sprintf("Maintenance %s: %d files (success=%v)", op, count, success),
	})
}

// FileError logs a store read or write failure
func (a *AuditLogger) FileError(op, path, errMsg string) {
	a.Log(AuditEvent{
		EventType: AuditFileError,
		Target:    path,
		Action:    op,
		Success:   false,
		Error:     errMsg,
		Message:   fmt.Sprintf("File %s failed: %s (%s)", op, path, errMsg),
	})
}
