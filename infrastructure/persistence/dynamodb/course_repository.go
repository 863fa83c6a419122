package dynamodb

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"skillmap-backend/domain/core/entities"
	"skillmap-backend/domain/core/valueobjects"
	pkgerrors "skillmap-backend/pkg/errors"
)

const courseEntityType = "COURSE"

// CourseRepository implements ports.CourseRepository on the same single
// table. A course's full unit/lesson structure is one item: courses are
// read-mostly and always loaded whole.
type CourseRepository struct {
	client    *dynamodb.Client
	tableName string
	logger    *zap.Logger
}

// NewCourseRepository creates a new DynamoDB-backed course repository
func NewCourseRepository(client *dynamodb.Client, tableName string, logger *zap.Logger) *CourseRepository {
	return &CourseRepository{
		client:    client,
		tableName: tableName,
		logger:    logger,
	}
}

type courseItem struct {
	PK         string     `dynamodbav:"PK"`
	SK         string     `dynamodbav:"SK"`
	EntityType string     `dynamodbav:"EntityType"`
	CourseID   string     `dynamodbav:"CourseID"`
	Title      string     `dynamodbav:"Title"`
	Units      []unitItem `dynamodbav:"Units"`
	UpdatedAt  string     `dynamodbav:"UpdatedAt"`
}

type unitItem struct {
	UnitID  string       `dynamodbav:"UnitID"`
	Title   string       `dynamodbav:"Title"`
	Lessons []lessonItem `dynamodbav:"Lessons"`
}

type lessonItem struct {
	LessonID string   `dynamodbav:"LessonID"`
	UnitID   string   `dynamodbav:"UnitID"`
	Title    string   `dynamodbav:"Title"`
	SkillIDs []string `dynamodbav:"SkillIDs"`
}

// GetByID retrieves a course with its full unit/lesson structure
func (r *CourseRepository) GetByID(ctx context.Context, courseID string) (*entities.Course, error) {
	result, err := r.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(r.tableName),
		Key:       courseKey(courseID),
	})
	if err != nil {
		r.logger.Error("failed to get course", zap.String("courseId", courseID), zap.Error(err))
		return nil, pkgerrors.NewDatabaseError("get course", err)
	}
	if result.Item == nil {
		return nil, pkgerrors.NewNotFoundError("course")
	}

	var item courseItem
	if err := attributevalue.UnmarshalMap(result.Item, &item); err != nil {
		return nil, pkgerrors.Wrap(err, "failed to unmarshal course")
	}
	return toCourse(item)
}

// Save persists a course
func (r *CourseRepository) Save(ctx context.Context, course *entities.Course) error {
	if course == nil || course.ID == "" {
		return pkgerrors.NewValidationError("course id is required")
	}

	item := courseItem{
		PK:         courseKeyValue(course.ID),
		SK:         metadataSK,
		EntityType: courseEntityType,
		CourseID:   course.ID,
		Title:      course.Title,
		Units:      toUnitItems(course.Units),
		UpdatedAt:  time.Now().UTC().Format(time.RFC3339Nano),
	}

	av, err := attributevalue.MarshalMap(item)
	if err != nil {
		return pkgerrors.Wrap(err, "failed to marshal course")
	}

	_, err = r.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(r.tableName),
		Item:      av,
	})
	if err != nil {
		r.logger.Error("failed to save course", zap.String("courseId", course.ID), zap.Error(err))
		return pkgerrors.NewDatabaseError("save course", err)
	}
	return nil
}

func toUnitItems(units []*entities.Unit) []unitItem {
	items := make([]unitItem, 0, len(units))
	for _, unit := range units {
		ui := unitItem{UnitID: unit.UnitID, Title: unit.Title}
		for _, lesson := range unit.Lessons {
			skillIDs := make([]string, 0, len(lesson.SkillIDs))
			for _, sid := range lesson.SkillIDs {
				skillIDs = append(skillIDs, sid.String())
			}
			ui.Lessons = append(ui.Lessons, lessonItem{
				LessonID: lesson.LessonID,
				UnitID:   lesson.UnitID,
				Title:    lesson.Title,
				SkillIDs: skillIDs,
			})
		}
		items = append(items, ui)
	}
	return items
}

func toCourse(item courseItem) (*entities.Course, error) {
	course := &entities.Course{
		ID:    item.CourseID,
		Title: item.Title,
	}
	for _, ui := range item.Units {
		unit := &entities.Unit{UnitID: ui.UnitID, Title: ui.Title}
		for _, li := range ui.Lessons {
			skillIDs := make([]valueobjects.SkillID, 0, len(li.SkillIDs))
			for _, raw := range li.SkillIDs {
				sid, err := valueobjects.ParseSkillID(raw)
				if err != nil {
					return nil, pkgerrors.Wrap(err, "corrupt skill id in course")
				}
				skillIDs = append(skillIDs, sid)
			}
			unit.Lessons = append(unit.Lessons, &entities.Lesson{
				LessonID: li.LessonID,
				UnitID:   li.UnitID,
				Title:    li.Title,
				SkillIDs: skillIDs,
			})
		}
		course.Units = append(course.Units, unit)
	}
	return course, nil
}

func courseKey(courseID string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"PK": &types.AttributeValueMemberS{Value: courseKeyValue(courseID)},
		"SK": &types.AttributeValueMemberS{Value: metadataSK},
	}
}

func courseKeyValue(courseID string) string {
	return fmt.Sprintf("COURSE#%s", courseID)
}
