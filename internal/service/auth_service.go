package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/quiz-api/internal/domain/entity"
	"github.com/yourusername/quiz-api/internal/domain/repository"
	apperrors "github.com/yourusername/quiz-api/internal/pkg/errors"
	"github.com/yourusername/quiz-api/pkg/auth"
)

// AuthService предоставляет методы для регистрации и аутентификации
type AuthService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}
}

// Register регистрирует нового пользователя.
// Возвращает ErrConflict, если имя уже занято.
func (s *AuthService) Register(username, password string) (*entity.User, error) {
	username = strings.TrimSpace(username)

	if len(username) < 3 || len(username) > 50 {
		return nil, fmt.Errorf("%w: username must be between 3 and 50 characters", apperrors.ErrValidation)
	}
	if len(password) < 6 {
		return nil, fmt.Errorf("%w: password must be at least 6 characters", apperrors.ErrValidation)
	}

	user := &entity.User{
		Username: username,
		Password: password, // Хешируется в BeforeSave
		Role:     entity.RoleUser,
	}

	// Уникальность гарантирует индекс в БД: предварительная проверка
	// по GetByUsername оставила бы гонку между проверкой и вставкой.
	if err := s.userRepo.Create(user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			return nil, fmt.Errorf("%w: username already taken", apperrors.ErrConflict)
		}
		log.Printf("[AuthService] Ошибка при создании пользователя username=%s: %v", username, err)
		return nil, err
	}

	log.Printf("[AuthService] Зарегистрирован пользователь ID=%d, username=%s", user.ID, user.Username)
	return user, nil
}

// Login проверяет учетные данные и возвращает JWT токен.
// Для несуществующего пользователя и для неверного пароля возвращается одна и
// та же ошибка ErrInvalidCredentials, чтобы не раскрывать наличие аккаунта.
func (s *AuthService) Login(username, password string) (string, *entity.User, error) {
	username = strings.TrimSpace(username)

	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	if !user.CheckPassword(password) {
		return "", nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Username, user.Role)
	if err != nil {
		log.Printf("[AuthService] Ошибка генерации токена для userID=%d: %v", user.ID, err)
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}

	log.Printf("[AuthService] Успешный вход userID=%d, username=%s", user.ID, user.Username)
	return token, user, nil
}
