package inmemory

import (
	"context"
	"sort"
	"sync"

	"forum/core"
	"forum/models"
)

type AttachmentsRepository struct {
	mu    sync.RWMutex
	Items []*models.Attachment
}

func NewAttachmentsRepository() *AttachmentsRepository { return &AttachmentsRepository{} }

func (r *AttachmentsRepository) FindByID(_ context.Context, id core.ID) (*models.Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.Items {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (r *AttachmentsRepository) Create(_ context.Context, a *models.Attachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Items = append(r.Items, a)
	return nil
}

type QuestionCommentsRepository struct {
	mu    sync.RWMutex
	Items []*models.QuestionComment
}

func NewQuestionCommentsRepository() *QuestionCommentsRepository {
	return &QuestionCommentsRepository{}
}

func (r *QuestionCommentsRepository) FindByID(_ context.Context, id core.ID) (*models.QuestionComment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.Items {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *QuestionCommentsRepository) FindManyByQuestionID(_ context.Context, questionID core.ID, page int) ([]*models.QuestionComment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return paginate(filter(r.Items, func(c *models.QuestionComment) bool { return c.QuestionID == questionID }), page), nil
}

func (r *QuestionCommentsRepository) Create(_ context.Context, c *models.QuestionComment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Items = append(r.Items, c)
	return nil
}

func (r *QuestionCommentsRepository) Delete(_ context.Context, c *models.QuestionComment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Items = filter(r.Items, func(it *models.QuestionComment) bool { return it.ID != c.ID })
	return nil
}

type AnswerCommentsRepository struct {
	mu    sync.RWMutex
	Items []*models.AnswerComment
}

func NewAnswerCommentsRepository() *AnswerCommentsRepository {
	return &AnswerCommentsRepository{}
}

func (r *AnswerCommentsRepository) FindByID(_ context.Context, id core.ID) (*models.AnswerComment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.Items {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, nil
}

func (r *AnswerCommentsRepository) FindManyByAnswerID(_ context.Context, answerID core.ID, page int) ([]*models.AnswerComment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return paginate(filter(r.Items, func(c *models.AnswerComment) bool { return c.AnswerID == answerID }), page), nil
}

func (r *AnswerCommentsRepository) Create(_ context.Context, c *models.AnswerComment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Items = append(r.Items, c)
	return nil
}

func (r *AnswerCommentsRepository) Delete(_ context.Context, c *models.AnswerComment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Items = filter(r.Items, func(it *models.AnswerComment) bool { return it.ID != c.ID })
	return nil
}

type StudentsRepository struct {
	mu    sync.RWMutex
	Items []*models.Student
}

func NewStudentsRepository() *StudentsRepository { return &StudentsRepository{} }

func (r *StudentsRepository) FindByID(_ context.Context, id core.ID) (*models.Student, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.Items {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

// Save inserts or replaces the student.
func (r *StudentsRepository) Save(_ context.Context, s *models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, it := range r.Items {
		if it.ID == s.ID {
			r.Items[i] = s
			return nil
		}
	}
	r.Items = append(r.Items, s)
	return nil
}

type NotificationsRepository struct {
	mu    sync.RWMutex
	Items []*models.Notification
}

func NewNotificationsRepository() *NotificationsRepository { return &NotificationsRepository{} }

func (r *NotificationsRepository) FindByID(_ context.Context, id core.ID) (*models.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.Items {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, nil
}

// FindManyByRecipientID returns the newest notifications first.
func (r *NotificationsRepository) FindManyByRecipientID(_ context.Context, recipientID core.ID, page int) ([]*models.Notification, error) {
	r.mu.RLock()
	matching := filter(r.Items, func(n *models.Notification) bool { return n.RecipientID == recipientID })
	r.mu.RUnlock()
	sort.SliceStable(matching, func(i, j int) bool {
		return matching[i].CreatedAt.After(matching[j].CreatedAt)
	})
	return paginate(matching, page), nil
}

func (r *NotificationsRepository) Create(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Items = append(r.Items, n)
	return nil
}

func (r *NotificationsRepository) Save(_ context.Context, n *models.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, it := range r.Items {
		if it.ID == n.ID {
			r.Items[i] = n
			return nil
		}
	}
	return core.ErrResourceNotFound
}
