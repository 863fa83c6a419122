package persistence

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"skillmap-backend/application/ports"
	"skillmap-backend/domain/core/entities"
	"skillmap-backend/domain/core/valueobjects"
)

// TraceSkillRepository wraps a SkillRepository so each storage call becomes
// a span.
func TraceSkillRepository(inner ports.SkillRepository, tracer trace.Tracer) ports.SkillRepository {
	return &tracedSkillRepository{inner: inner, tracer: tracer}
}

type tracedSkillRepository struct {
	inner  ports.SkillRepository
	tracer trace.Tracer
}

func (r *tracedSkillRepository) LoadAll(ctx context.Context) ([]*entities.Skill, error) {
	ctx, span := r.tracer.Start(ctx, "repository.LoadAll")
	defer span.End()

	skills, err := r.inner.LoadAll(ctx)
	if err != nil {
		span.RecordError(err)
	} else {
		span.SetAttributes(attribute.Int("skill.count", len(skills)))
	}
	return skills, err
}

func (r *tracedSkillRepository) GetByID(ctx context.Context, id valueobjects.SkillID) (*entities.Skill, error) {
	ctx, span := r.tracer.Start(ctx, "repository.GetByID",
		trace.WithAttributes(attribute.String("skill.id", id.String())),
	)
	defer span.End()

	skill, err := r.inner.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
	}
	return skill, err
}

func (r *tracedSkillRepository) Save(ctx context.Context, skill *entities.Skill) (*entities.Skill, error) {
	ctx, span := r.tracer.Start(ctx, "repository.Save",
		trace.WithAttributes(attribute.String("skill.id", skill.ID().String())),
	)
	defer span.End()

	stored, err := r.inner.Save(ctx, skill)
	if err != nil {
		span.RecordError(err)
	}
	return stored, err
}

func (r *tracedSkillRepository) Delete(ctx context.Context, id valueobjects.SkillID) error {
	ctx, span := r.tracer.Start(ctx, "repository.Delete",
		trace.WithAttributes(attribute.String("skill.id", id.String())),
	)
	defer span.End()

	err := r.inner.Delete(ctx, id)
	if err != nil {
		span.RecordError(err)
	}
	return err
}
