package service

import (
	"fmt"
	"time"

	"github.com/kaddo-next/internal/logger"
	"github.com/kaddo-next/internal/repository"

	"github.com/golang-jwt/jwt/v5"
)

// Principal 已认证的员工身份，在请求边界解析一次后向下传递
type Principal struct {
	UserID        uint
	Username      string
	DistributorID uint
}

// JWTClaims 员工令牌声明
type JWTClaims struct {
	UserID        uint   `json:"user_id"`
	Username      string `json:"username"`
	DistributorID uint   `json:"distributor_id"`
	jwt.RegisteredClaims
}

// AuthService 员工认证服务
type AuthService struct {
	userRepo    repository.DistributorUserRepository
	secretKey   string
	expireHours int
}

// NewAuthService 创建认证服务
func NewAuthService(userRepo repository.DistributorUserRepository, secretKey string, expireHours int) *AuthService {
	if expireHours <= 0 {
		expireHours = 24
	}
	return &AuthService{
		userRepo:    userRepo,
		secretKey:   secretKey,
		expireHours: expireHours,
	}
}

// LoginResult 登录结果
type LoginResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Principal Principal `json:"-"`
}

// Login 员工登录：校验密码后签发 JWT。限流在路由中间件完成。
func (s *AuthService) Login(username, password, clientIP string) (*LoginResult, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !user.VerifyPassword(password) {
		logger.Warnw("login_failed", "username", username, "client_ip", clientIP)
		return nil, ErrInvalidCredentials
	}

	expiresAt := time.Now().Add(time.Duration(s.expireHours) * time.Hour)
	claims := JWTClaims{
		UserID:        user.ID,
		Username:      user.Username,
		DistributorID: user.DistributorID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secretKey))
	if err != nil {
		return nil, err
	}

	logger.Infow("login_success", "username", username, "distributor_id", user.DistributorID)
	return &LoginResult{
		Token:     token,
		ExpiresAt: expiresAt,
		Principal: Principal{UserID: user.ID, Username: user.Username, DistributorID: user.DistributorID},
	}, nil
}

// ParseToken 解析并校验员工令牌
func (s *AuthService) ParseToken(tokenString string) (*Principal, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidCredentials
	}
	return &Principal{
		UserID:        claims.UserID,
		Username:      claims.Username,
		DistributorID: claims.DistributorID,
	}, nil
}
