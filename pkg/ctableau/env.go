package ctableau

import (
	"context"

	"github.com/hashicorp/go-hclog"
)

// Environment wraps an Engine behind a gym-style Reset/Step/ActionSpace
// surface, owning the MatrixSource that produced its Matrix.
type Environment struct {
	Source   MatrixSource
	Path     string
	Settings Settings
	Logger   hclog.Logger

	Engine *Engine
}

// NewEnvironment validates settings, then loads a Matrix from source(path)
// and constructs the Engine the Logic in settings calls for.
func NewEnvironment(source MatrixSource, path string, settings Settings, logger hclog.Logger) (*Environment, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	matrix, err := source(path)
	if err != nil {
		return nil, err
	}
	env := &Environment{
		Source:   source,
		Path:     path,
		Settings: settings,
		Logger:   logger,
	}
	env.Engine = NewEngine(matrix, settings, logger)
	return env, nil
}

// Reset restarts the search over the same Matrix from an empty tableau.
func (env *Environment) Reset() *EngineState {
	return env.Engine.Reset()
}

// ActionSpace returns the current goal's legal actions.
func (env *Environment) ActionSpace() []Action {
	return env.Engine.ActionSpace()
}

// Step applies action and returns the resulting state/reward/done/info.
func (env *Environment) Step(action Action) (*EngineState, int, bool, Info) {
	return env.Engine.Step(action)
}

// Drive is the autonomous default search driver a CLI wants instead of an
// external action-selection policy: at each step it picks the candidate at
// index Goal.NumAttempted within the freshly regenerated ActionSpace (the
// same node's legal-action list is deterministic and stably ordered across
// calls, since nothing else changes between them), so repeated visits to
// the same goal under restricted backtracking try successive distinct
// candidates rather than looping on the first one forever. It runs until a
// terminal state is reached, ctx is cancelled, or maxSteps Step calls have
// been committed (maxSteps <= 0 means unbounded). Returns
// ErrStepBudgetExhausted if the step or wall-clock budget runs out first,
// which the CLI reports as "Unknown".
func (env *Environment) Drive(ctx context.Context, maxSteps int) (Info, error) {
	steps := 0
	for {
		select {
		case <-ctx.Done():
			return Info{}, ErrStepBudgetExhausted
		default:
		}
		if maxSteps > 0 && steps >= maxSteps {
			return Info{}, ErrStepBudgetExhausted
		}
		actions := env.ActionSpace()
		if len(actions) == 0 {
			return Info{Theorem: false}, ErrNonTheorem
		}
		idx := 0
		if g := env.Engine.Goal; g != nil {
			idx = g.NumAttempted
		}
		if idx >= len(actions) {
			idx = len(actions) - 1
		}
		_, _, done, info := env.Step(actions[idx])
		steps++
		if done {
			if !info.Theorem {
				return info, ErrNonTheorem
			}
			return info, nil
		}
	}
}
