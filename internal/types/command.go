package types

import "fmt"

// =============================================================================
// COMMANDS
// =============================================================================

// CommandKind enumerates every command the coordinator can issue.
type CommandKind string

const (
	// Mutator commands
	CmdMutate              CommandKind = "mutate"
	CmdReset               CommandKind = "reset"
	CmdSetAutoMutation     CommandKind = "set_auto_mutation"
	CmdChangeFractalType   CommandKind = "change_fractal_type"
	CmdChangeColorScheme   CommandKind = "change_color_scheme"
	CmdSetMutationStrength CommandKind = "set_mutation_strength"
	CmdZoomIn              CommandKind = "zoom_in"
	CmdZoomOut             CommandKind = "zoom_out"
	CmdSetParameters       CommandKind = "set_parameters"

	// Explorer commands
	CmdAnalyzeCurrent CommandKind = "analyze_current"
	CmdDeepScan       CommandKind = "deep_scan"
	CmdSetResolution  CommandKind = "set_resolution"
	CmdAnalyzeRegion  CommandKind = "analyze_region"

	// General commands
	CmdShutdown   CommandKind = "shutdown"
	CmdStatus     CommandKind = "status"
	CmdGetMetrics CommandKind = "get_metrics"
)

// Command is one instruction for a component. Only the fields relevant to
// the Kind are populated.
type Command struct {
	Kind       CommandKind
	Flag       bool               // SetAutoMutation
	Value      int                // ChangeFractalType, ChangeColorScheme, SetResolution
	Amount     float64            // SetMutationStrength, ZoomIn, ZoomOut
	Parameters *FractalParameters // SetParameters
	Region     *AnalysisRegion    // AnalyzeRegion
}

func MutateCommand() Command   { return Command{Kind: CmdMutate} }
func ResetCommand() Command    { return Command{Kind: CmdReset} }
func ShutdownCommand() Command { return Command{Kind: CmdShutdown} }

func SetAutoMutationCommand(enabled bool) Command {
	return Command{Kind: CmdSetAutoMutation, Flag: enabled}
}

func ChangeFractalTypeCommand(fractalType int) Command {
	return Command{Kind: CmdChangeFractalType, Value: fractalType}
}

func ChangeColorSchemeCommand(scheme int) Command {
	return Command{Kind: CmdChangeColorScheme, Value: scheme}
}

func SetMutationStrengthCommand(strength float64) Command {
	return Command{Kind: CmdSetMutationStrength, Amount: strength}
}

func ZoomInCommand(factor float64) Command  { return Command{Kind: CmdZoomIn, Amount: factor} }
func ZoomOutCommand(factor float64) Command { return Command{Kind: CmdZoomOut, Amount: factor} }

func AnalyzeCurrentCommand() Command { return Command{Kind: CmdAnalyzeCurrent} }

// MutatorString encodes the command in the renderer's key:value wire form.
// Commands the renderer has no handler for encode as unknown:command, which
// it discards.
func (c Command) MutatorString() string {
	switch c.Kind {
	case CmdMutate:
		return "mutate:true"
	case CmdReset:
		return "reset:true"
	case CmdSetAutoMutation:
		return fmt.Sprintf("auto_mutate:%v", c.Flag)
	case CmdChangeFractalType:
		return fmt.Sprintf("fractal_type:%d", c.Value)
	case CmdChangeColorScheme:
		return fmt.Sprintf("color_scheme:%d", c.Value)
	case CmdSetMutationStrength:
		return fmt.Sprintf("mutation_strength:%.3f", c.Amount)
	case CmdZoomIn:
		return fmt.Sprintf("zoom:in:%.3f", c.Amount)
	case CmdZoomOut:
		return fmt.Sprintf("zoom:out:%.3f", c.Amount)
	case CmdShutdown:
		return "shutdown:true"
	case CmdStatus:
		return "status:request"
	default:
		return "unknown:command"
	}
}

// ExplorerString encodes the command in the explorer's wire form.
func (c Command) ExplorerString() string {
	switch c.Kind {
	case CmdAnalyzeCurrent:
		return "analyze_current:true"
	case CmdDeepScan:
		return "deep_scan:true"
	case CmdSetResolution:
		return fmt.Sprintf("set_resolution:%d", c.Value)
	case CmdShutdown:
		return "shutdown:true"
	case CmdStatus:
		return "status:request"
	default:
		return "unknown:command"
	}
}
