package coordinator

import (
	"context"
	"fmt"
	"time"

	"fractalis/internal/types"
)

// runStrategies consults the roster in order, collecting one action per
// eligible strategy, then dispatches the batch. Collection and dispatch are
// separate passes so every eligible strategy observes the same state.
func (c *Coordinator) runStrategies(ctx context.Context, state *types.EcosystemState) error {
	var actions []types.StrategyAction

	for _, strat := range c.strategies {
		if !strat.ShouldExecute(state) {
			continue
		}
		c.log.Debug("Executing strategy: %s", strat.Name())

		action, err := strat.Execute(ctx, state)
		if err != nil {
			c.audit.StrategyExecute(strat.Name(), "", false, err.Error())
			return fmt.Errorf("strategy %s failed: %w", strat.Name(), err)
		}

		c.audit.StrategyExecute(strat.Name(), string(action.Kind), true, "")
		actions = append(actions, action)
		strat.MarkExecuted()
	}

	for _, action := range actions {
		if err := c.dispatch(ctx, action); err != nil {
			return err
		}
	}
	return nil
}

func (c *Coordinator) dispatch(ctx context.Context, action types.StrategyAction) error {
	switch action.Kind {
	case types.ActionSendCommand:
		return c.sendCommand(action.Target, action.Command)

	case types.ActionModifyStrategy:
		c.modifyStrategy(action.StrategyName, action.Modification)
		return nil

	case types.ActionRequestAnalysis:
		return c.requestAnalysis()

	case types.ActionWait:
		c.log.Debug("Strategy requested a %s pause", action.Duration)
		select {
		case <-time.After(action.Duration):
		case <-ctx.Done():
		}
		return nil

	default:
		return nil
	}
}

// sendCommand routes a command to its target's command file. Unknown
// targets are dropped with a warning and never count as sent.
func (c *Coordinator) sendCommand(target string, cmd types.Command) error {
	var err error
	switch target {
	case types.ComponentMutator:
		err = c.store.SendMutatorCommand(cmd)
	case types.ComponentExplorer:
		err = c.store.SendExplorerCommand(cmd)
	default:
		c.log.Warn("Unknown command target: %s", target)
		return nil
	}

	if err != nil {
		c.audit.CommandDispatch(target, string(cmd.Kind), false, err.Error())
		return err
	}

	c.totalCommands++
	if cmd.Kind == types.CmdMutate {
		c.lastMutation = time.Now()
	}

	c.audit.CommandDispatch(target, string(cmd.Kind), true, "")
	c.log.Info("Command sent to %s: %s", target, cmd.Kind)
	return nil
}

func (c *Coordinator) modifyStrategy(name string, mod types.StrategyModification) {
	for _, strat := range c.strategies {
		if strat.Name() == name {
			strat.Apply(mod)
			c.audit.StrategyModify(name, string(mod.Kind), true)
			c.log.Info("Strategy %s modified (%s)", name, mod.Kind)
			return
		}
	}

	c.audit.StrategyModify(name, string(mod.Kind), false)
	c.log.Warn("Strategy not found: %s", name)
}

// requestAnalysis nudges the explorer to rescan. The region and parameters
// in the originating action are advisory; the explorer derives its own
// context, so the wire command is a bare analyze request.
func (c *Coordinator) requestAnalysis() error {
	if err := c.store.SendExplorerCommand(types.AnalyzeCurrentCommand()); err != nil {
		c.audit.AnalysisRequest(types.ComponentExplorer, false)
		return err
	}

	c.audit.AnalysisRequest(types.ComponentExplorer, true)
	c.log.Info("Analysis requested from explorer")
	return nil
}

// processRecommendations drains the explorer's advisory batch. Entries that
// encode a recognized command are forwarded to the mutator; the rest drop
// with a debug line.
func (c *Coordinator) processRecommendations() error {
	recs, err := c.store.ReadExplorerRecommendations()
	if err != nil {
		c.log.Debug("Recommendations unavailable: %v", err)
		return nil
	}
	if len(recs) == 0 {
		return nil
	}

	c.log.Info("Processing %d explorer recommendations", len(recs))

	for _, rec := range recs {
		cmd, ok := rec.ParseCommand()
		if !ok {
			c.audit.Recommendation(rec.FromComponent, rec.Recommendation, false)
			c.log.Debug("Unrecognized recommendation: %s", rec.Recommendation)
			continue
		}

		c.audit.Recommendation(rec.FromComponent, rec.Recommendation, true)
		if err := c.sendCommand(types.ComponentMutator, cmd); err != nil {
			return err
		}
	}
	return nil
}
