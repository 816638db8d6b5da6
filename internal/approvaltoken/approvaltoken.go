// Package approvaltoken issues and consumes the single-use links sent to
// approvers. The link is a signed JWT; single use is enforced by deleting its
// jti from redis on the first successful consume.
package approvaltoken

import (
	"context"
	"errors"
	"fmt"
	"time"

	approvaltokenerrors "go-leave-portal/internal/approvaltoken/errors"
	"go-leave-portal/internal/domain"
	"go-leave-portal/internal/shared/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "approval_token:"

func storeKey(jti string) string {
	return keyPrefix + jti
}

// Grant is what a consumed token authorizes: one decision on one tier of one
// leave, on behalf of the approver it was issued to.
type Grant struct {
	LeaveID    string          `json:"leave_id"`
	Tier       domain.Tier     `json:"tier"`
	Action     domain.Decision `json:"action"`
	ApproverID string          `json:"approver_id"`
}

type claims struct {
	Grant
	jwt.RegisteredClaims
}

//go:generate mockgen -source=approvaltoken.go -destination=mock/approvaltoken_mock.go -package=mock
type Store interface {
	Issue(ctx context.Context, g Grant) (string, time.Time, error)
	Consume(ctx context.Context, token string) (Grant, error)
}

type store struct {
	rdb    *redis.Client
	secret []byte
	ttl    time.Duration
	newID  func() string
	now    func() time.Time
	logger *zap.Logger
}

func NewStore(rdb *redis.Client, secret string, ttl time.Duration, logger ...*zap.Logger) Store {
	l := zap.L().Named("approvaltoken.store")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("approvaltoken.store")
	}
	return &store{
		rdb:    rdb,
		secret: []byte(secret),
		ttl:    ttl,
		newID:  func() string { return uuid.New().String() },
		now:    time.Now,
		logger: l,
	}
}

func (s *store) Issue(ctx context.Context, g Grant) (string, time.Time, error) {
	if !g.Tier.Valid() || !g.Action.Valid() || g.LeaveID == "" || g.ApproverID == "" {
		return "", time.Time{}, approvaltokenerrors.ErrInvalidToken
	}

	jti := s.newID()
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Grant: g,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   g.LeaveID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, apperror.Storage(err)
	}

	if err := s.rdb.Set(ctx, storeKey(jti), g.LeaveID, s.ttl).Err(); err != nil {
		s.logger.Error("store approval token failed", zap.String("leave_id", g.LeaveID), zap.Error(err))
		return "", time.Time{}, apperror.Storage(err)
	}

	s.logger.Info("approval token issued",
		zap.String("leave_id", g.LeaveID),
		zap.String("tier", string(g.Tier)),
		zap.String("action", string(g.Action)),
		zap.String("approver_id", g.ApproverID),
	)
	return signed, expiresAt, nil
}

func (s *store) Consume(ctx context.Context, token string) (Grant, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Grant{}, approvaltokenerrors.ErrTokenExpired
		}
		s.logger.Warn("approval token rejected", zap.Error(err))
		return Grant{}, approvaltokenerrors.ErrInvalidToken
	}
	if !parsed.Valid || c.ID == "" || !c.Tier.Valid() || !c.Action.Valid() {
		return Grant{}, approvaltokenerrors.ErrInvalidToken
	}

	leaveID, err := s.rdb.GetDel(ctx, storeKey(c.ID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			s.logger.Warn("approval token reused", zap.String("leave_id", c.LeaveID), zap.String("jti", c.ID))
			return Grant{}, approvaltokenerrors.ErrAlreadyUsed
		}
		s.logger.Error("consume approval token failed", zap.String("jti", c.ID), zap.Error(err))
		return Grant{}, apperror.Storage(err)
	}
	if leaveID != c.LeaveID {
		return Grant{}, approvaltokenerrors.ErrInvalidToken
	}

	return c.Grant, nil
}
