package entities

import (
	"skillmap-backend/domain/core/valueobjects"
)

// Lesson is an opaque content container that references the ids of the
// skills it teaches. Lesson-to-skill assignment is owned by the lesson
// record; the skill map only reads it.
type Lesson struct {
	LessonID string
	UnitID   string
	Title    string
	SkillIDs []valueobjects.SkillID
}

// TeachesSkill reports whether the lesson's skill list contains id
func (l *Lesson) TeachesSkill(id valueobjects.SkillID) bool {
	for _, sid := range l.SkillIDs {
		if sid.Equals(id) {
			return true
		}
	}
	return false
}

// Unit is an ordered group of lessons within a course
type Unit struct {
	UnitID  string
	Title   string
	Lessons []*Lesson
}

// Course holds the ordered unit/lesson structure the skill map joins
// against. Unit order and lesson order within a unit are positional.
type Course struct {
	ID    string
	Title string
	Units []*Unit
}

// LessonLocation pairs a lesson with its (unit, lesson) position within the
// course. Positions are zero-based and ascending in course order.
type LessonLocation struct {
	Lesson      *Lesson
	UnitIndex   int
	LessonIndex int
}

// AllLessons returns every lesson in the course in ascending
// (unit position, lesson position) order.
func (c *Course) AllLessons() []LessonLocation {
	var locations []LessonLocation
	for ui, unit := range c.Units {
		for li, lesson := range unit.Lessons {
			locations = append(locations, LessonLocation{
				Lesson:      lesson,
				UnitIndex:   ui,
				LessonIndex: li,
			})
		}
	}
	return locations
}
