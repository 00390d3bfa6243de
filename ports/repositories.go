package ports

import (
	"context"
	"time"

	"datalens/domain/core"
	"datalens/domain/dataset"
	"datalens/models"
)

// UserRepository manages user accounts
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id core.UserID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
}

// SessionRepository manages opaque bearer tokens
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, before time.Time) error
}

// FileRepository manages uploaded file records
type FileRepository interface {
	Create(ctx context.Context, file *dataset.File) error
	GetByID(ctx context.Context, id core.FileID) (*dataset.File, error)
	ListByUser(ctx context.Context, userID core.UserID, limit, offset int) ([]*dataset.File, error)
	Update(ctx context.Context, file *dataset.File) error
	Delete(ctx context.Context, id core.FileID) error
}

// ReportRepository persists analysis reports keyed by file id
type ReportRepository interface {
	Save(ctx context.Context, fileID core.FileID, report *dataset.Report) error
	GetByFileID(ctx context.Context, fileID core.FileID) (*dataset.Report, error)
	DeleteByFileID(ctx context.Context, fileID core.FileID) error
}
