package config

import "skillmap-backend/application/ports"

// GraphLimits implements ports.LimitsProvider with hot-reloaded limits
func (w *Watcher) GraphLimits() ports.GraphLimits {
	limits := w.Limits()
	return ports.GraphLimits{
		MaxSkills:                limits.MaxSkills,
		MaxPrerequisitesPerSkill: limits.MaxPrerequisitesPerSkill,
	}
}

// StaticLimits implements ports.LimitsProvider with fixed limits, used when
// no config file is being watched.
type StaticLimits Limits

// GraphLimits implements ports.LimitsProvider
func (s StaticLimits) GraphLimits() ports.GraphLimits {
	return ports.GraphLimits{
		MaxSkills:                s.MaxSkills,
		MaxPrerequisitesPerSkill: s.MaxPrerequisitesPerSkill,
	}
}
