package jsondb

import (
	"github.com/trezcool/darasa/core/lesson"
)

type lessonRepository struct {
	db *DB
}

var _ lesson.Repository = (*lessonRepository)(nil)

func NewLessonRepository(db *DB) lesson.Repository {
	return &lessonRepository{db: db}
}

func (repo *lessonRepository) CreateLesson(l lesson.Lesson) (lesson.Lesson, error) {
	repo.db.mu.Lock()
	stored := l
	repo.db.lessons = append(repo.db.lessons, &stored)
	repo.db.mu.Unlock()

	return l, repo.db.written()
}

func (repo *lessonRepository) GetLessonByID(id string) (lesson.Lesson, error) {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	for _, l := range repo.db.lessons {
		if l.ID == id {
			return *l, nil
		}
	}
	return lesson.Lesson{}, lesson.ErrNotFound
}

func (repo *lessonRepository) QueryAllLessons() ([]lesson.Lesson, error) {
	return repo.db.Snapshot().Lessons, nil
}

func (repo *lessonRepository) filter(keep func(*lesson.Lesson) bool) []lesson.Lesson {
	repo.db.mu.RLock()
	defer repo.db.mu.RUnlock()

	lessons := make([]lesson.Lesson, 0)
	for _, l := range repo.db.lessons {
		if keep(l) {
			lessons = append(lessons, *l)
		}
	}
	return lessons
}

func (repo *lessonRepository) QueryLessonsByUser(userID string) ([]lesson.Lesson, error) {
	return repo.filter(func(l *lesson.Lesson) bool { return l.UserID == userID }), nil
}

func (repo *lessonRepository) QueryLessonsByInstructor(instructorID string) ([]lesson.Lesson, error) {
	return repo.filter(func(l *lesson.Lesson) bool { return l.InstructorID == instructorID }), nil
}

func (repo *lessonRepository) UpdateLesson(id string, fn func(*lesson.Lesson) error) (lesson.Lesson, error) {
	repo.db.mu.Lock()
	var stored *lesson.Lesson
	for _, l := range repo.db.lessons {
		if l.ID == id {
			stored = l
			break
		}
	}
	if stored == nil {
		repo.db.mu.Unlock()
		return lesson.Lesson{}, lesson.ErrNotFound
	}
	updated := *stored
	if err := fn(&updated); err != nil {
		repo.db.mu.Unlock()
		return lesson.Lesson{}, err
	}
	updated.ID = stored.ID
	*stored = updated
	repo.db.mu.Unlock()

	return updated, repo.db.written()
}
