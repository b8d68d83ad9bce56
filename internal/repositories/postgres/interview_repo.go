package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/yoockh/interviewiq/internal/models"
	"github.com/yoockh/interviewiq/internal/repositories"
	"github.com/yoockh/interviewiq/internal/utils"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type interviewRow struct {
	ID         string         `gorm:"column:id;type:varchar(36);primaryKey"`
	OwnerID    string         `gorm:"column:owner_id;type:varchar(64);not null;index:idx_owner_created,priority:1"`
	Role       string         `gorm:"column:role;type:varchar(200);not null"`
	Difficulty string         `gorm:"column:difficulty;type:varchar(10);not null"`
	Question   string         `gorm:"column:question;type:text"`
	UserAnswer string         `gorm:"column:user_answer;type:text"`
	Feedback   datatypes.JSON `gorm:"column:feedback"`
	AudioURL   string         `gorm:"column:audio_url;type:text"`
	CreatedAt  time.Time      `gorm:"column:created_at;index:idx_owner_created,priority:2,sort:desc"`
	UpdatedAt  time.Time      `gorm:"column:updated_at"`
}

func (interviewRow) TableName() string { return "interview_sessions" }

// Migrate creates or updates the interview_sessions table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&interviewRow{})
}

type interviewRepo struct {
	db *gorm.DB
}

func NewInterviewRepo(db *gorm.DB) repositories.InterviewRepository {
	return &interviewRepo{db: db}
}

func encodeFeedback(f *models.Feedback) (datatypes.JSON, error) {
	if f == nil {
		return nil, nil
	}
	b, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func toRow(s *models.InterviewSession) (*interviewRow, error) {
	fb, err := encodeFeedback(s.Feedback)
	if err != nil {
		return nil, err
	}
	return &interviewRow{
		ID:         s.ID,
		OwnerID:    s.OwnerID,
		Role:       s.Role,
		Difficulty: string(s.Difficulty),
		Question:   s.Question,
		UserAnswer: s.UserAnswer,
		Feedback:   fb,
		AudioURL:   s.AudioURL,
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}, nil
}

func (row *interviewRow) toModel() (*models.InterviewSession, error) {
	s := &models.InterviewSession{
		ID:         row.ID,
		OwnerID:    row.OwnerID,
		Role:       row.Role,
		Difficulty: models.Difficulty(row.Difficulty),
		Question:   row.Question,
		UserAnswer: row.UserAnswer,
		AudioURL:   row.AudioURL,
		CreatedAt:  row.CreatedAt,
		UpdatedAt:  row.UpdatedAt,
	}
	if len(row.Feedback) > 0 && string(row.Feedback) != "null" {
		var fb models.Feedback
		if err := json.Unmarshal(row.Feedback, &fb); err != nil {
			return nil, err
		}
		s.Feedback = &fb
	}
	return s, nil
}

func (r *interviewRepo) Create(ctx context.Context, s *models.InterviewSession) error {
	now := time.Now().UTC()
	s.ID = uuid.NewString()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = now
	}
	s.UpdatedAt = now

	row, err := toRow(s)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *interviewRepo) GetByID(ctx context.Context, id string) (*models.InterviewSession, error) {
	var row interviewRow
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.toModel()
}

func (r *interviewRepo) ListByOwner(ctx context.Context, ownerID string) ([]models.InterviewSession, error) {
	var rows []interviewRow
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]models.InterviewSession, 0, len(rows))
	for i := range rows {
		s, err := rows[i].toModel()
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	return out, nil
}

func (r *interviewRepo) Update(ctx context.Context, id string, patch models.SessionPatch) (*models.InterviewSession, error) {
	cols := map[string]any{"updated_at": time.Now().UTC()}
	if patch.Role != nil {
		cols["role"] = *patch.Role
	}
	if patch.Difficulty != nil {
		cols["difficulty"] = string(*patch.Difficulty)
	}
	if patch.Question != nil {
		cols["question"] = *patch.Question
	}
	if patch.UserAnswer != nil {
		cols["user_answer"] = *patch.UserAnswer
	}
	if patch.AudioURL != nil {
		cols["audio_url"] = *patch.AudioURL
	}
	switch {
	case patch.Feedback != nil:
		fb, err := encodeFeedback(patch.Feedback)
		if err != nil {
			return nil, err
		}
		cols["feedback"] = fb
	case patch.ClearFeedback:
		cols["feedback"] = nil
	}

	var row interviewRow
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&interviewRow{}).Where("id = ?", id).Updates(cols)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return utils.ErrNotFound
		}
		return tx.Where("id = ?", id).Take(&row).Error
	})
	if err != nil {
		return nil, err
	}
	return row.toModel()
}

func (r *interviewRepo) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&interviewRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrNotFound
	}
	return nil
}
