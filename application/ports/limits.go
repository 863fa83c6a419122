package ports

// GraphLimits are runtime-changeable graph size limits. A zero value means
// unlimited.
type GraphLimits struct {
	MaxSkills                int
	MaxPrerequisitesPerSkill int
}

// LimitsProvider exposes the current graph limits. Implementations may
// hot-reload them from configuration.
type LimitsProvider interface {
	GraphLimits() GraphLimits
}
