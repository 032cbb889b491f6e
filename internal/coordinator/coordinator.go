// Package coordinator runs the ecosystem control loop. Each tick it
// re-reads component state from the store, scores the ecosystem, consults
// the strategy roster, dispatches the resulting actions, forwards explorer
// recommendations, and refreshes derived metrics. A slower ticker persists
// a full report and runs store maintenance.
//
// One goroutine owns all coordinator state. The loop suspends only at store
// I/O, strategy Wait actions, and the select point; cancellation is honored
// between cycles.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"fractalis/internal/analysis"
	"fractalis/internal/config"
	"fractalis/internal/logging"
	"fractalis/internal/store"
	"fractalis/internal/strategy"
	"fractalis/internal/types"
)

// Coordinator drives the fractal ecosystem: it is the only writer of the
// component registry and the only consumer of the strategy roster.
type Coordinator struct {
	cfg        *config.Config
	store      *store.Store
	analyzer   *analysis.EcosystemAnalyzer
	strategies []types.Strategy
	components map[string]types.ComponentInfo

	sessionID     string
	startTime     time.Time
	totalCommands uint64
	lastMutation  time.Time
	cycles        uint64

	log   *logging.Logger
	audit *logging.AuditLogger
}

// New builds a coordinator over an initialized store. The strategy roster's
// rand source comes from the configured seed; zero seeds from the clock.
func New(cfg *config.Config, st *store.Store) *Coordinator {
	seed := cfg.Coordinator.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	sessionID := uuid.NewString()

	c := &Coordinator{
		cfg:        cfg,
		store:      st,
		analyzer:   analysis.NewEcosystemAnalyzer(),
		strategies: strategy.DefaultStrategies(rng),
		components: make(map[string]types.ComponentInfo),
		sessionID:  sessionID,
		startTime:  time.Now(),
		log:        logging.Get(logging.CategoryCoordinator),
		audit:      logging.AuditWithSession(sessionID),
	}

	c.log.Info("Session %s: %d strategies initialized", sessionID, len(c.strategies))
	for _, s := range c.strategies {
		if s.Enabled() {
			c.log.Info("  %s: %s", s.Name(), s.Description())
		}
	}

	return c
}

// SessionID returns the id stamped on this coordinator's reports and logs.
func (c *Coordinator) SessionID() string {
	return c.sessionID
}

// Run drives the coordination loop until ctx is canceled, then performs an
// orderly shutdown. Cycle and report errors are logged, never fatal; the
// next tick is the retry.
func (c *Coordinator) Run(ctx context.Context) error {
	c.log.Info("Starting ecosystem coordination")
	c.audit.SessionStart(c.sessionID)

	if err := c.store.LogSessionStart(c.sessionID); err != nil {
		return fmt.Errorf("failed to record session start: %w", err)
	}

	coordTicker := time.NewTicker(c.cfg.GetCoordinationInterval())
	defer coordTicker.Stop()
	reportTicker := time.NewTicker(c.cfg.GetReportInterval())
	defer reportTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.log.Info("Stop requested, shutting down")
			c.shutdown()
			return nil

		case <-coordTicker.C:
			if err := c.cycle(ctx); err != nil {
				c.log.Error("Coordination cycle failed: %v", err)
			}

		case <-reportTicker.C:
			if err := c.report(); err != nil {
				c.log.Error("Report generation failed: %v", err)
			}
			c.maintain()
		}
	}
}

// cycle is one coordination pass: refresh registry, analyze, run
// strategies, forward recommendations, refresh derived metrics.
func (c *Coordinator) cycle(ctx context.Context) error {
	start := time.Now()
	c.log.Debug("Running coordination cycle")

	c.refreshComponents()

	state := c.analyzer.Analyze(c.components)

	if err := c.runStrategies(ctx, &state); err != nil {
		return err
	}

	if err := c.processRecommendations(); err != nil {
		return err
	}

	c.updateMetrics()

	c.cycles++
	c.audit.CycleComplete(state.HealthScore, string(state.ActivityLevel), time.Since(start).Milliseconds())
	return nil
}

// refreshComponents re-reads each component's published state. A component
// whose file is missing or unreadable keeps its previous registry entry;
// its growing last_seen age then degrades the health score.
func (c *Coordinator) refreshComponents() {
	now := time.Now()

	if fractal, err := c.store.ReadFractalState(); err == nil {
		c.observe(types.ComponentInfo{
			Name:     types.ComponentMutator,
			Kind:     types.KindMutator,
			Status:   types.StatusRunning,
			LastSeen: now,
			Data:     &types.ComponentData{Fractal: fractal},
			Metrics:  make(map[string]float64),
		})
	} else if !errors.Is(err, store.ErrNotFound) {
		c.log.Debug("Mutator state unavailable: %v", err)
	}

	if status, err := c.store.ReadExplorerStatus(); err == nil {
		c.observe(types.ComponentInfo{
			Name:     types.ComponentExplorer,
			Kind:     types.KindAnalyzer,
			Status:   types.StatusRunning,
			LastSeen: now,
			Data:     &types.ComponentData{Analysis: status},
			Metrics:  make(map[string]float64),
		})
	} else if !errors.Is(err, store.ErrNotFound) {
		c.log.Debug("Explorer status unavailable: %v", err)
	}

	// The detailed analysis replaces the synthetic status snapshot, but only
	// for an explorer already in the registry.
	if detailed, err := c.store.ReadFractalAnalysis(); err == nil {
		if explorer, ok := c.components[types.ComponentExplorer]; ok {
			explorer.Data = &types.ComponentData{Analysis: detailed}
			c.components[types.ComponentExplorer] = explorer
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		c.log.Debug("Fractal analysis unavailable: %v", err)
	}
}

// observe installs a fresh registry entry, auditing first sight and status
// transitions.
func (c *Coordinator) observe(info types.ComponentInfo) {
	prev, seen := c.components[info.Name]
	if !seen || prev.Status != info.Status {
		c.audit.ComponentSeen(info.Name, string(info.Status))
	}
	c.components[info.Name] = info
}

// updateMetrics refreshes the derived per-component metrics. Uptime is the
// coordinator's own, stamped identically onto every entry.
func (c *Coordinator) updateMetrics() {
	uptime := float64(int64(time.Since(c.startTime).Seconds()))

	for name, component := range c.components {
		if component.Metrics == nil {
			component.Metrics = make(map[string]float64)
		}
		component.Metrics["uptime_seconds"] = uptime

		if component.Data != nil && component.Data.Fractal != nil {
			component.Metrics["zoom"] = component.Data.Fractal.Parameters.Zoom
			component.Metrics["iterations"] = float64(component.Data.Fractal.Parameters.MaxIterations)
		}

		c.components[name] = component
	}
}

// shutdown emits a final report and tells both components to stop. Every
// failure is logged and swallowed so shutdown always completes.
func (c *Coordinator) shutdown() {
	if err := c.report(); err != nil {
		c.log.Error("Final report failed: %v", err)
	}

	cmd := types.ShutdownCommand()
	if err := c.store.SendMutatorCommand(cmd); err != nil {
		c.log.Warn("Could not notify mutator of shutdown: %v", err)
	}
	if err := c.store.SendExplorerCommand(cmd); err != nil {
		c.log.Warn("Could not notify explorer of shutdown: %v", err)
	}

	c.audit.SessionEnd(c.sessionID, c.cycles, time.Since(c.startTime).Milliseconds())
	c.log.Info("Coordinator stopped (session %s, %d cycles, %d commands)",
		c.sessionID, c.cycles, c.totalCommands)
}
