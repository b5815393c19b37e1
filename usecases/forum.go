// Package usecases holds the application operations of the forum and the
// repository ports they depend on.
package usecases

// Repositories groups the storage ports the forum runs on.
type Repositories struct {
	Questions           QuestionsRepository
	QuestionAttachments QuestionAttachmentsRepository
	Answers             AnswersRepository
	AnswerAttachments   AnswerAttachmentsRepository
	Attachments         AttachmentsRepository
	QuestionComments    QuestionCommentsRepository
	AnswerComments      AnswerCommentsRepository
	Students            StudentsRepository
	Notifications       NotificationsRepository
}

// Forum is every use case wired against one set of repositories.
type Forum struct {
	CreateQuestion           *CreateQuestion
	GetQuestionBySlug        *GetQuestionBySlug
	GetQuestionDetails       *GetQuestionDetails
	FetchRecentQuestions     *FetchRecentQuestions
	EditQuestion             *EditQuestion
	DeleteQuestion           *DeleteQuestion
	ChooseQuestionBestAnswer *ChooseQuestionBestAnswer

	AnswerQuestion       *AnswerQuestion
	EditAnswer           *EditAnswer
	DeleteAnswer         *DeleteAnswer
	FetchQuestionAnswers *FetchQuestionAnswers

	CommentOnQuestion     *CommentOnQuestion
	CommentOnAnswer       *CommentOnAnswer
	DeleteQuestionComment *DeleteQuestionComment
	DeleteAnswerComment   *DeleteAnswerComment
	FetchQuestionComments *FetchQuestionComments
	FetchAnswerComments   *FetchAnswerComments

	RegisterAttachment *RegisterAttachment
	EnsureStudent      *EnsureStudent

	SendNotification   *SendNotification
	ReadNotification   *ReadNotification
	FetchNotifications *FetchNotifications
}

func NewForum(r Repositories, publisher NotificationPublisher) *Forum {
	return &Forum{
		CreateQuestion:           NewCreateQuestion(r.Questions),
		GetQuestionBySlug:        NewGetQuestionBySlug(r.Questions),
		GetQuestionDetails:       NewGetQuestionDetails(r.Questions),
		FetchRecentQuestions:     NewFetchRecentQuestions(r.Questions),
		EditQuestion:             NewEditQuestion(r.Questions, r.QuestionAttachments),
		DeleteQuestion:           NewDeleteQuestion(r.Questions),
		ChooseQuestionBestAnswer: NewChooseQuestionBestAnswer(r.Questions, r.Answers),

		AnswerQuestion:       NewAnswerQuestion(r.Questions, r.Answers),
		EditAnswer:           NewEditAnswer(r.Answers, r.AnswerAttachments),
		DeleteAnswer:         NewDeleteAnswer(r.Answers),
		FetchQuestionAnswers: NewFetchQuestionAnswers(r.Answers),

		CommentOnQuestion:     NewCommentOnQuestion(r.Questions, r.QuestionComments),
		CommentOnAnswer:       NewCommentOnAnswer(r.Answers, r.AnswerComments),
		DeleteQuestionComment: NewDeleteQuestionComment(r.QuestionComments),
		DeleteAnswerComment:   NewDeleteAnswerComment(r.AnswerComments),
		FetchQuestionComments: NewFetchQuestionComments(r.QuestionComments),
		FetchAnswerComments:   NewFetchAnswerComments(r.AnswerComments),

		RegisterAttachment: NewRegisterAttachment(r.Attachments),
		EnsureStudent:      NewEnsureStudent(r.Students),

		SendNotification:   NewSendNotification(r.Notifications, publisher),
		ReadNotification:   NewReadNotification(r.Notifications),
		FetchNotifications: NewFetchNotifications(r.Notifications),
	}
}
