package inmemory

import (
	"context"
	"sync"

	"forum/core"
	"forum/events"
	"forum/models"
)

type AnswersRepository struct {
	mu    sync.RWMutex
	Items []*models.Answer

	dispatcher        *events.Dispatcher
	answerAttachments *AnswerAttachmentsRepository
}

func NewAnswersRepository(d *events.Dispatcher, answerAttachments *AnswerAttachmentsRepository) *AnswersRepository {
	return &AnswersRepository{dispatcher: d, answerAttachments: answerAttachments}
}

func (r *AnswersRepository) FindByID(_ context.Context, id core.ID) (*models.Answer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.Items {
		if a.ID() == id {
			return a, nil
		}
	}
	return nil, nil
}

func (r *AnswersRepository) FindManyByQuestionID(_ context.Context, questionID core.ID, page int) ([]*models.Answer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matching := filter(r.Items, func(a *models.Answer) bool { return a.QuestionID() == questionID })
	return paginate(matching, page), nil
}

func (r *AnswersRepository) Create(ctx context.Context, a *models.Answer) error {
	r.mu.Lock()
	r.Items = append(r.Items, a)
	r.mu.Unlock()

	if r.answerAttachments != nil {
		if err := r.answerAttachments.CreateMany(ctx, a.Attachments().CurrentItems()); err != nil {
			return err
		}
	}
	a.Attachments().Commit()
	r.dispatcher.Dispatch(ctx, a)
	return nil
}

func (r *AnswersRepository) Save(ctx context.Context, a *models.Answer) error {
	r.mu.Lock()
	i := r.indexOf(a.ID())
	if i < 0 {
		r.mu.Unlock()
		return core.ErrResourceNotFound
	}
	r.Items[i] = a
	r.mu.Unlock()

	if r.answerAttachments != nil {
		if err := r.answerAttachments.CreateMany(ctx, a.Attachments().NewItems()); err != nil {
			return err
		}
		if err := r.answerAttachments.DeleteMany(ctx, a.Attachments().RemovedItems()); err != nil {
			return err
		}
	}
	a.Attachments().Commit()
	r.dispatcher.Dispatch(ctx, a)
	return nil
}

func (r *AnswersRepository) Delete(ctx context.Context, a *models.Answer) error {
	r.mu.Lock()
	if i := r.indexOf(a.ID()); i >= 0 {
		r.Items = append(r.Items[:i], r.Items[i+1:]...)
	}
	r.mu.Unlock()

	if r.answerAttachments != nil {
		return r.answerAttachments.DeleteManyByAnswerID(ctx, a.ID())
	}
	return nil
}

func (r *AnswersRepository) indexOf(id core.ID) int {
	for i, a := range r.Items {
		if a.ID() == id {
			return i
		}
	}
	return -1
}

type AnswerAttachmentsRepository struct {
	mu    sync.RWMutex
	Items []*models.AnswerAttachment
}

func NewAnswerAttachmentsRepository() *AnswerAttachmentsRepository {
	return &AnswerAttachmentsRepository{}
}

func (r *AnswerAttachmentsRepository) FindManyByAnswerID(_ context.Context, answerID core.ID) ([]*models.AnswerAttachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return filter(r.Items, func(it *models.AnswerAttachment) bool { return it.AnswerID == answerID }), nil
}

func (r *AnswerAttachmentsRepository) CreateMany(_ context.Context, items []*models.AnswerAttachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Items = append(r.Items, items...)
	return nil
}

func (r *AnswerAttachmentsRepository) DeleteMany(_ context.Context, items []*models.AnswerAttachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Items = filter(r.Items, func(it *models.AnswerAttachment) bool {
		for _, del := range items {
			if del.ID == it.ID {
				return false
			}
		}
		return true
	})
	return nil
}

func (r *AnswerAttachmentsRepository) DeleteManyByAnswerID(_ context.Context, answerID core.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Items = filter(r.Items, func(it *models.AnswerAttachment) bool { return it.AnswerID != answerID })
	return nil
}
