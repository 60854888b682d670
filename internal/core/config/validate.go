package config

import (
	"fmt"

	"github.com/hay-kot/criterio"
)

// Validate checks structural invariants of the configuration. Limits must be
// positive: a zero cap would silently compile an empty context, which reads
// as data loss to the operator.
func (c *Config) Validate() error {
	return criterio.ValidateStruct(
		criterio.Run("budget", c.Budget, positive),
		criterio.Run("agent_dir", c.AgentDir, nonEmpty),
		criterio.Run("task_file", c.TaskFile, nonEmpty),
		c.validateMemory(),
		c.validateSnapshots(),
	)
}

func (c *Config) validateMemory() error {
	var errs criterio.FieldErrorsBuilder

	for field, v := range map[string]int{
		"memory.max_constraints":  c.Memory.MaxConstraints,
		"memory.max_failures":     c.Memory.MaxFailures,
		"memory.max_strategies":   c.Memory.MaxStrategies,
		"memory.constraint_chars": c.Memory.ConstraintChars,
		"memory.failure_chars":    c.Memory.FailureChars,
		"memory.strategy_chars":   c.Memory.StrategyChars,
		"memory.summary_chars":    c.Memory.SummaryChars,
	} {
		if err := positive(v); err != nil {
			errs = errs.Append(field, err)
		}
	}

	return errs.ToError()
}

func (c *Config) validateSnapshots() error {
	return criterio.ValidateStruct(
		criterio.Run("snapshots.keep", c.Snapshots.Keep, positive),
		criterio.Run("snapshots.max_chars", c.Snapshots.MaxChars, positive),
		criterio.Run("snapshots.max_messages", c.Snapshots.MaxMessages, positive),
	)
}

func positive(v int) error {
	if v <= 0 {
		return fmt.Errorf("must be greater than zero, got %d", v)
	}
	return nil
}

func nonEmpty(v string) error {
	if v == "" {
		return fmt.Errorf("must not be empty")
	}
	return nil
}
