// Package inmemory provides list-backed repositories. Tests inspect and seed
// the exported Items slices directly; the server uses them for the
// "memory" store driver.
package inmemory

import (
	"context"
	"sort"
	"sync"

	"forum/core"
	"forum/events"
	"forum/models"
)

type QuestionsRepository struct {
	mu    sync.RWMutex
	Items []*models.Question

	dispatcher          *events.Dispatcher
	questionAttachments *QuestionAttachmentsRepository
	attachments         *AttachmentsRepository
	students            *StudentsRepository
}

// NewQuestionsRepository wires the question store to its child stores.
// attachments and students are only needed by FindDetailsBySlug and may be nil.
func NewQuestionsRepository(d *events.Dispatcher, questionAttachments *QuestionAttachmentsRepository, attachments *AttachmentsRepository, students *StudentsRepository) *QuestionsRepository {
	return &QuestionsRepository{
		dispatcher:          d,
		questionAttachments: questionAttachments,
		attachments:         attachments,
		students:            students,
	}
}

func (r *QuestionsRepository) FindByID(_ context.Context, id core.ID) (*models.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, q := range r.Items {
		if q.ID() == id {
			return q, nil
		}
	}
	return nil, nil
}

func (r *QuestionsRepository) FindBySlug(_ context.Context, slug string) (*models.Question, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, q := range r.Items {
		if q.Slug().Value() == slug {
			return q, nil
		}
	}
	return nil, nil
}

func (r *QuestionsRepository) FindDetailsBySlug(ctx context.Context, slug string) (*models.QuestionDetails, error) {
	q, err := r.FindBySlug(ctx, slug)
	if err != nil || q == nil {
		return nil, err
	}
	d := &models.QuestionDetails{
		QuestionID:   q.ID(),
		AuthorID:     q.AuthorID(),
		Title:        q.Title(),
		Slug:         q.Slug(),
		Content:      q.Content(),
		BestAnswerID: q.BestAnswerID(),
		CreatedAt:    q.CreatedAt(),
		UpdatedAt:    q.UpdatedAt(),
	}
	if r.students != nil {
		s, err := r.students.FindByID(ctx, q.AuthorID())
		if err != nil {
			return nil, err
		}
		if s != nil {
			d.AuthorName = s.Name
		}
	}
	if r.questionAttachments != nil && r.attachments != nil {
		links, err := r.questionAttachments.FindManyByQuestionID(ctx, q.ID())
		if err != nil {
			return nil, err
		}
		for _, link := range links {
			a, err := r.attachments.FindByID(ctx, link.AttachmentID)
			if err != nil {
				return nil, err
			}
			if a != nil {
				d.Attachments = append(d.Attachments, a)
			}
		}
	}
	return d, nil
}

func (r *QuestionsRepository) FindManyRecent(_ context.Context, page int) ([]*models.Question, error) {
	r.mu.RLock()
	sorted := append([]*models.Question(nil), r.Items...)
	r.mu.RUnlock()
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt().After(sorted[j].CreatedAt())
	})
	return paginate(sorted, page), nil
}

func (r *QuestionsRepository) Create(ctx context.Context, q *models.Question) error {
	r.mu.Lock()
	r.Items = append(r.Items, q)
	r.mu.Unlock()

	if r.questionAttachments != nil {
		if err := r.questionAttachments.CreateMany(ctx, q.Attachments().CurrentItems()); err != nil {
			return err
		}
	}
	q.Attachments().Commit()
	r.dispatcher.Dispatch(ctx, q)
	return nil
}

func (r *QuestionsRepository) Save(ctx context.Context, q *models.Question) error {
	r.mu.Lock()
	i := r.indexOf(q.ID())
	if i < 0 {
		r.mu.Unlock()
		return core.ErrResourceNotFound
	}
	r.Items[i] = q
	r.mu.Unlock()

	if r.questionAttachments != nil {
		if err := r.questionAttachments.CreateMany(ctx, q.Attachments().NewItems()); err != nil {
			return err
		}
		if err := r.questionAttachments.DeleteMany(ctx, q.Attachments().RemovedItems()); err != nil {
			return err
		}
	}
	q.Attachments().Commit()
	r.dispatcher.Dispatch(ctx, q)
	return nil
}

func (r *QuestionsRepository) Delete(ctx context.Context, q *models.Question) error {
	r.mu.Lock()
	if i := r.indexOf(q.ID()); i >= 0 {
		r.Items = append(r.Items[:i], r.Items[i+1:]...)
	}
	r.mu.Unlock()

	if r.questionAttachments != nil {
		return r.questionAttachments.DeleteManyByQuestionID(ctx, q.ID())
	}
	return nil
}

func (r *QuestionsRepository) indexOf(id core.ID) int {
	for i, q := range r.Items {
		if q.ID() == id {
			return i
		}
	}
	return -1
}

type QuestionAttachmentsRepository struct {
	mu    sync.RWMutex
	Items []*models.QuestionAttachment
}

func NewQuestionAttachmentsRepository() *QuestionAttachmentsRepository {
	return &QuestionAttachmentsRepository{}
}

func (r *QuestionAttachmentsRepository) FindManyByQuestionID(_ context.Context, questionID core.ID) ([]*models.QuestionAttachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.QuestionAttachment
	for _, it := range r.Items {
		if it.QuestionID == questionID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (r *QuestionAttachmentsRepository) CreateMany(_ context.Context, items []*models.QuestionAttachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Items = append(r.Items, items...)
	return nil
}

func (r *QuestionAttachmentsRepository) DeleteMany(_ context.Context, items []*models.QuestionAttachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Items = filter(r.Items, func(it *models.QuestionAttachment) bool {
		for _, del := range items {
			if del.ID == it.ID {
				return false
			}
		}
		return true
	})
	return nil
}

func (r *QuestionAttachmentsRepository) DeleteManyByQuestionID(_ context.Context, questionID core.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Items = filter(r.Items, func(it *models.QuestionAttachment) bool {
		return it.QuestionID != questionID
	})
	return nil
}

func paginate[T any](items []T, page int) []T {
	start, end := core.PageBounds(page, len(items))
	return append([]T(nil), items[start:end]...)
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := items[:0:0]
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
