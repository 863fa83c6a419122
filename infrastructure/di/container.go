package di

import (
	"go.uber.org/zap"

	"skillmap-backend/application/ports"
	"skillmap-backend/application/services"
	"skillmap-backend/infrastructure/config"
)

// Container holds all application dependencies
type Container struct {
	Config          *config.Config
	Logger          *zap.Logger
	SkillRepo       ports.SkillRepository
	CourseRepo      ports.CourseRepository
	Publisher       ports.EventPublisher
	Limits          ports.LimitsProvider
	SkillService    *services.SkillService
	SkillMapService *services.SkillMapService

	cleanup func()
}

// Shutdown releases container-held resources
func (c *Container) Shutdown() {
	if c.cleanup != nil {
		c.cleanup()
	}
}
