package controllers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/adamanr/portal_service/internal/entity"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenPrefix = "access_token:"

	SessionCookie = "session_token"
)

type AuthController struct {
	deps     *Dependens
	activity *ActivityLogController
	now      func() time.Time
}

func NewAuthController(deps *Dependens, activity *ActivityLogController) *AuthController {
	return &AuthController{
		deps:     deps,
		activity: activity,
		now:      time.Now,
	}
}

func (c *AuthController) AuthLogin(ctx context.Context, req *entity.LoginRequest) (*entity.LoginResponse, error) {
	if err := c.deps.Validate.Struct(req); err != nil {
		c.deps.Logger.Warn("Invalid login request", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	var (
		user     entity.User
		password string
	)

	query := `SELECT id, name, kode_pegawai, password, role, role_id, cabang_id, kode_divisi, status
              FROM users WHERE kode_pegawai = $1`

	if err := c.deps.DB.QueryRow(ctx, query, req.KodePegawai).Scan(
		&user.ID, &user.Name, &user.KodePegawai, &password, &user.Role, &user.RoleID, &user.CabangID, &user.KodeDivisi, &user.Status,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("User with this kode_pegawai not found", slog.String("kode_pegawai", req.KodePegawai))
			return nil, ErrInvalidCredentials
		}

		c.deps.Logger.Error("Error querying user", slog.String("error", err.Error()))
		return nil, err
	}

	if user.Status != entity.UserStatusActive {
		c.deps.Logger.Warn("Inactive user tried to log in", slog.Int64("user_id", user.ID))
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(password), []byte(req.Password)); err != nil {
		c.deps.Logger.Warn("Invalid password", slog.String("kode_pegawai", req.KodePegawai))
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := c.createToken(user)
	if err != nil {
		return nil, err
	}

	if err = c.deps.Redis.Set(ctx, accessTokenPrefix+token, user.ID, c.deps.Config.Session.TTL).Err(); err != nil {
		c.deps.Logger.Error("Error setting access token", slog.String("error", err.Error()))
		return nil, err
	}

	c.activity.Record(ctx, &user.ID, "login")

	return &entity.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		User:      user,
	}, nil
}

func (c *AuthController) createToken(user entity.User) (string, time.Time, error) {
	now := c.now()
	expiresAt := now.Add(c.deps.Config.Session.TTL)

	claims := entity.Claims{
		UserID:      user.ID,
		KodePegawai: user.KodePegawai,
		Role:        user.Role,
		RoleID:      user.RoleID,
		TokenID:     uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenStr, err := token.SignedString([]byte(c.deps.Config.Server.JWTSecret))
	if err != nil {
		c.deps.Logger.Error("Error signing token", slog.String("error", err.Error()))
		return "", time.Time{}, err
	}

	return tokenStr, expiresAt, nil
}

// CheckUserToken validates a raw session token against redis and the JWT secret.
func (c *AuthController) CheckUserToken(ctx context.Context, tokenStr string) (*entity.Claims, error) {
	if tokenStr == "" {
		return nil, ErrUnauthorized
	}

	if err := c.deps.Redis.Get(ctx, accessTokenPrefix+tokenStr).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			c.deps.Logger.Warn("Token revoked or expired")
			return nil, ErrUnauthorized
		}

		c.deps.Logger.Error("Error reading session from Redis", slog.String("error", err.Error()))
		return nil, err
	}

	token, err := jwt.ParseWithClaims(tokenStr, &entity.Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(c.deps.Config.Server.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		c.deps.Logger.Warn("Error parsing token", slog.String("error", err.Error()))
		return nil, ErrUnauthorized
	}

	if claims, ok := token.Claims.(*entity.Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, ErrUnauthorized
}

// GetSession resolves the caller's session, or returns ErrUnauthorized.
func (c *AuthController) GetSession(r *http.Request) (*entity.Session, error) {
	tokenStr := TokenFromRequest(r)
	if tokenStr == "" {
		return nil, ErrUnauthorized
	}

	claims, err := c.CheckUserToken(r.Context(), tokenStr)
	if err != nil {
		return nil, err
	}

	return &entity.Session{
		UserID:      claims.UserID,
		KodePegawai: claims.KodePegawai,
		Role:        claims.Role,
		RoleID:      claims.RoleID,
		Token:       tokenStr,
	}, nil
}

// TokenFromRequest looks for the token in the Authorization header, the
// session cookie and finally the token query parameter used by EventSource.
func TokenFromRequest(r *http.Request) string {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		if tokenStr, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
			return strings.TrimSpace(tokenStr)
		}
		return ""
	}

	if cookie, err := r.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return r.URL.Query().Get("token")
}

func (c *AuthController) AuthLogout(ctx context.Context, session *entity.Session) error {
	if err := c.deps.Redis.Del(ctx, accessTokenPrefix+session.Token).Err(); err != nil {
		c.deps.Logger.Error("Error deleting access token from Redis", slog.String("error", err.Error()))
		return err
	}

	c.activity.Record(ctx, &session.UserID, "logout")

	return nil
}

func (c *AuthController) GetUser(ctx context.Context, userID int64) (*entity.User, error) {
	query := `SELECT id, name, kode_pegawai, role, role_id, cabang_id, kode_divisi, status FROM users WHERE id = $1`

	rows, err := c.deps.DB.Query(ctx, query, userID)
	if err != nil {
		c.deps.Logger.Error("Error querying user", slog.String("error", err.Error()))
		return nil, err
	}
	defer rows.Close()

	user, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[entity.User])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.deps.Logger.Warn("User not found", slog.Int64("id", userID))
			return nil, ErrNotFound
		}

		c.deps.Logger.Error("Error collecting row", slog.String("error", err.Error()))
		return nil, err
	}

	return &user, nil
}
