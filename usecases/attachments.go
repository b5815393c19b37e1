package usecases

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"forum/core"
	"forum/models"
)

type RegisterAttachmentRequest struct {
	Title string
	URL   string
}

type RegisterAttachmentResponse struct {
	Attachment *models.Attachment
}

// RegisterAttachment records the metadata of a file already uploaded to
// object storage so questions and answers can reference it.
type RegisterAttachment struct {
	attachments AttachmentsRepository
}

func NewRegisterAttachment(attachments AttachmentsRepository) *RegisterAttachment {
	return &RegisterAttachment{attachments: attachments}
}

func (uc *RegisterAttachment) Execute(ctx context.Context, req RegisterAttachmentRequest) (RegisterAttachmentResponse, error) {
	if strings.TrimSpace(req.Title) == "" {
		return RegisterAttachmentResponse{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	u, err := url.Parse(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return RegisterAttachmentResponse{}, fmt.Errorf("%w: attachment url must be http(s)", ErrInvalidInput)
	}
	a := models.NewAttachment(req.Title, u.String(), "")
	if err := uc.attachments.Create(ctx, a); err != nil {
		return RegisterAttachmentResponse{}, fmt.Errorf("create attachment: %w", err)
	}
	return RegisterAttachmentResponse{Attachment: a}, nil
}

type EnsureStudentRequest struct {
	StudentID string
	Name      string
}

// EnsureStudent records the identity behind a verified token, refreshing
// the display name when it changed.
type EnsureStudent struct {
	students StudentsRepository
}

func NewEnsureStudent(students StudentsRepository) *EnsureStudent {
	return &EnsureStudent{students: students}
}

func (uc *EnsureStudent) Execute(ctx context.Context, req EnsureStudentRequest) (*models.Student, error) {
	if req.StudentID == "" {
		return nil, fmt.Errorf("%w: student id is required", ErrInvalidInput)
	}
	s, err := uc.students.FindByID(ctx, core.ID(req.StudentID))
	if err != nil {
		return nil, fmt.Errorf("find student: %w", err)
	}
	if s != nil && (req.Name == "" || s.Name == req.Name) {
		return s, nil
	}
	if s == nil {
		s = &models.Student{ID: core.ID(req.StudentID)}
	}
	if req.Name != "" {
		s.Name = req.Name
	}
	if err := uc.students.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save student: %w", err)
	}
	return s, nil
}
