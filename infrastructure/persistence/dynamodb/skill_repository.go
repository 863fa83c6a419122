package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"skillmap-backend/domain/core/entities"
	"skillmap-backend/domain/core/valueobjects"
	pkgerrors "skillmap-backend/pkg/errors"
)

const (
	skillEntityType = "SKILL"
	metadataSK      = "METADATA"
)

// SkillRepository implements ports.SkillRepository on a single DynamoDB
// table. Each skill is one item keyed PK=SKILL#<id>, SK=METADATA; insertion
// order is reconstructed from the CreatedAt attribute.
type SkillRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewSkillRepository creates a new DynamoDB-backed skill repository
func NewSkillRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) *SkillRepository {
	return &SkillRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

// skillItem represents the DynamoDB item structure for a skill
type skillItem struct {
	PK            string   `dynamodbav:"PK"`
	SK            string   `dynamodbav:"SK"`
	EntityType    string   `dynamodbav:"EntityType"`
	SkillID       string   `dynamodbav:"SkillID"`
	Name          string   `dynamodbav:"Name"`
	Description   string   `dynamodbav:"Description"`
	Prerequisites []string `dynamodbav:"Prerequisites"`
	CreatedAt     string   `dynamodbav:"CreatedAt"`
	UpdatedAt     string   `dynamodbav:"UpdatedAt"`
}

// LoadAll returns every stored skill in insertion order
func (r *SkillRepository) LoadAll(ctx context.Context) ([]*entities.Skill, error) {
	filter := expression.Name("EntityType").Equal(expression.Value(skillEntityType))
	expr, err := expression.NewBuilder().WithFilter(filter).Build()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to build scan expression")
	}

	var items []skillItem
	var startKey map[string]types.AttributeValue
	for {
		result, err := r.client.Scan(ctx, &dynamodb.ScanInput{
			TableName:                 aws.String(r.tableName),
			FilterExpression:          expr.Filter(),
			ExpressionAttributeNames:  expr.Names(),
			ExpressionAttributeValues: expr.Values(),
			ExclusiveStartKey:         startKey,
		})
		if err != nil {
			r.logger.Error("failed to scan skills", zap.Error(err))
			return nil, pkgerrors.NewDatabaseError("scan skills", err)
		}

		var page []skillItem
		if err := attributevalue.UnmarshalListOfMaps(result.Items, &page); err != nil {
			return nil, pkgerrors.Wrap(err, "failed to unmarshal skills")
		}
		items = append(items, page...)

		if result.LastEvaluatedKey == nil {
			break
		}
		startKey = result.LastEvaluatedKey
	}

	// Scan order is arbitrary; recover insertion order from CreatedAt.
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt != items[j].CreatedAt {
			return items[i].CreatedAt < items[j].CreatedAt
		}
		return items[i].SkillID < items[j].SkillID
	})

	skills := make([]*entities.Skill, 0, len(items))
	for _, item := range items {
		skill, err := r.toEntity(item)
		if err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}
	return skills, nil
}

// GetByID retrieves a skill by its id
func (r *SkillRepository) GetByID(ctx context.Context, id valueobjects.SkillID) (*entities.Skill, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       skillKey(id),
	})
	if err != nil {
		r.logger.Error("failed to get skill", zap.String("skillId", id.String()), zap.Error(err))
		return nil, pkgerrors.NewDatabaseError("get skill", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("skill")
	}

	var item skillItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to unmarshal skill")
	}
	return r.toEntity(item)
}

// Save persists a skill, assigning an id on first save. CreatedAt is written
// once and preserved across updates.
func (r *SkillRepository) Save(ctx context.Context, skill *entities.Skill) (*entities.Skill, error) {
	if skill == nil {
		return nil, pkgerrors.NewValidationError("skill cannot be nil")
	}
	if skill.ID().IsZero() {
		if err := skill.AssignID(valueobjects.NewSkillID()); err != nil {
			return nil, err
		}
	}

	prereqs := make([]string, 0, len(skill.PrerequisiteIDs()))
	for _, pid := range skill.PrerequisiteIDs() {
		prereqs = append(prereqs, pid.String())
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	update := expression.
		Set(expression.Name("EntityType"), expression.Value(skillEntityType)).
		Set(expression.Name("SkillID"), expression.Value(skill.ID().String())).
		Set(expression.Name("Name"), expression.Value(skill.Name())).
		Set(expression.Name("Description"), expression.Value(skill.Description())).
		Set(expression.Name("Prerequisites"), expression.Value(prereqs)).
		Set(expression.Name("UpdatedAt"), expression.Value(now)).
		Set(expression.Name("CreatedAt"),
			expression.Name("CreatedAt").IfNotExists(expression.Value(now)))

	expr, err := expression.NewBuilder().WithUpdate(update).Build()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to build update expression")
	}

	_, err = r.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                 aws.String(r.tableName),
		Key:                       skillKey(skill.ID()),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	})
	if err != nil {
		r.logger.Error("failed to save skill",
			zap.String("skillId", skill.ID().String()),
			zap.Error(err),
		)
		return nil, pkgerrors.NewDatabaseError("save skill", err)
	}

	r.logger.Debug("saved skill",
		zap.String("skillId", skill.ID().String()),
		zap.Int("prerequisiteCount", len(prereqs)),
	)
	return skill, nil
}

// Delete removes a skill record
func (r *SkillRepository) Delete(ctx context.Context, id valueobjects.SkillID) error {
	_, err := r.client.DeleteItem(ctx, &dynamodb.DeleteItemInput{
		TableName:           aws.String(r.tableName),
		Key:                 skillKey(id),
		ConditionExpression: aws.String("attribute_exists(PK)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return pkgerrors.NewNotFoundError("skill")
		}
		r.logger.Error("failed to delete skill", zap.String("skillId", id.String()), zap.Error(err))
		return pkgerrors.NewDatabaseError("delete skill", err)
	}
	return nil
}

func (r *SkillRepository) toEntity(item skillItem) (*entities.Skill, error) {
	id, err := valueobjects.ParseSkillID(item.SkillID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "corrupt skill id in storage")
	}

	prereqs := make([]valueobjects.SkillID, 0, len(item.Prerequisites))
	for _, raw := range item.Prerequisites {
		pid, err := valueobjects.ParseSkillID(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "corrupt prerequisite id in storage")
		}
		prereqs = append(prereqs, pid)
	}
	return entities.ReconstructSkill(id, item.Name, item.Description, prereqs), nil
}

func skillKey(id valueobjects.SkillID) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: fmt.Sprintf("SKILL#%s", id.String())},
		"SK": &types.AttributeValueMemberS{Value: metadataSK},
	}
}
