package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/easebox-25/easebox-backend/internal/application/ports"
	"github.com/easebox-25/easebox-backend/internal/domain"
)

// OTPRepository implements ports.OTPRepository via raw SQL.
type OTPRepository struct {
	pool *pgxpool.Pool
}

func NewOTPRepository(pool *pgxpool.Pool) *OTPRepository {
	return &OTPRepository{pool: pool}
}

const (
	createOTPSQL = `INSERT INTO otps (id, user_id, channel, code_hash, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	getActiveOTPSQL = `SELECT id, user_id, channel, code_hash, expires_at, used_at, created_at
		FROM otps WHERE user_id = $1 AND channel = $2 AND expires_at > NOW() AND used_at IS NULL
		ORDER BY created_at DESC LIMIT 1`
	markOTPUsedSQL = `UPDATE otps SET used_at = NOW() WHERE user_id = $1 AND channel = $2 AND used_at IS NULL`
)

func (r *OTPRepository) Create(ctx context.Context, otp *domain.OTP) error {
	_, err := r.pool.Exec(ctx, createOTPSQL,
		otp.ID, otp.UserID.UUID, string(otp.Channel), otp.CodeHash, otp.ExpiresAt, otp.CreatedAt)
	return err
}

func (r *OTPRepository) GetActive(ctx context.Context, userID domain.UserID, channel domain.OTPChannel) (*domain.OTP, error) {
	var (
		otp    domain.OTP
		uid    uuid.UUID
		ch     string
		usedAt pgtype.Timestamptz
	)
	err := r.pool.QueryRow(ctx, getActiveOTPSQL, userID.UUID, string(channel)).
		Scan(&otp.ID, &uid, &ch, &otp.CodeHash, &otp.ExpiresAt, &usedAt, &otp.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	otp.UserID = domain.NewUserID(uid)
	otp.Channel = domain.OTPChannel(ch)
	if usedAt.Valid {
		t := usedAt.Time
		otp.UsedAt = &t
	}
	return &otp, nil
}

func (r *OTPRepository) MarkUsed(ctx context.Context, userID domain.UserID, channel domain.OTPChannel) error {
	_, err := r.pool.Exec(ctx, markOTPUsedSQL, userID.UUID, string(channel))
	return err
}

var _ ports.OTPRepository = (*OTPRepository)(nil)
