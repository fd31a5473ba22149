package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/barber-booking/internal/domain/booking"
	"github.com/BruksfildServices01/barber-booking/internal/models"
	"github.com/BruksfildServices01/barber-booking/internal/session"
)

// Gorm stores sessions in the session_tokens table.
type Gorm struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db, now: time.Now}
}

func (g *Gorm) Save(ctx context.Context, rec session.Record) error {
	user, err := json.Marshal(rec.User)
	if err != nil {
		return fmt.Errorf("marshal session user: %w", err)
	}

	row := models.SessionToken{
		ID:          rec.ID,
		UserID:      rec.User.ID,
		UserJSON:    string(user),
		SealedToken: rec.SealedToken,
		CreatedAt:   rec.CreatedAt,
		ExpiresAt:   rec.ExpiresAt,
	}
	return g.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&row).Error
}

func (g *Gorm) Get(ctx context.Context, id string) (session.Record, error) {
	var row models.SessionToken
	err := g.db.WithContext(ctx).
		Where("id = ? AND expires_at > ?", id, g.now()).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return session.Record{}, session.ErrNotFound
	}
	if err != nil {
		return session.Record{}, err
	}

	var user booking.User
	if row.UserJSON != "" {
		if err := json.Unmarshal([]byte(row.UserJSON), &user); err != nil {
			return session.Record{}, fmt.Errorf("decode session user: %w", err)
		}
	}
	return session.Record{
		ID:          row.ID,
		User:        user,
		SealedToken: row.SealedToken,
		CreatedAt:   row.CreatedAt,
		ExpiresAt:   row.ExpiresAt,
	}, nil
}

func (g *Gorm) Delete(ctx context.Context, id string) error {
	return g.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.SessionToken{}).Error
}

// PurgeExpired deletes expired rows and reports how many went.
func (g *Gorm) PurgeExpired(ctx context.Context) (int64, error) {
	res := g.db.WithContext(ctx).
		Where("expires_at <= ?", g.now()).
		Delete(&models.SessionToken{})
	return res.RowsAffected, res.Error
}
