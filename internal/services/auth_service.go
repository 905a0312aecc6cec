package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/estatecrm/backend/internal/constants"
	"github.com/estatecrm/backend/internal/models"
	"github.com/estatecrm/backend/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid phone number or password")
	ErrEmployeeNotFound   = errors.New("employee not found")
)

// Claims are the JWT claims carried by every authenticated request.
type Claims struct {
	EmployeeID uint64              `json:"id"`
	Name       string              `json:"name"`
	Number     string              `json:"number"`
	Role       models.EmployeeRole `json:"role"`
	jwt.RegisteredClaims
}

// AuthService handles login and token verification.
type AuthService struct {
	employeeRepo repository.EmployeeRepository
	secret       []byte
}

// NewAuthService creates a new AuthService.
func NewAuthService(employeeRepo repository.EmployeeRepository, secret string) *AuthService {
	return &AuthService{
		employeeRepo: employeeRepo,
		secret:       []byte(secret),
	}
}

// Login verifies credentials and returns the employee with a signed token.
func (s *AuthService) Login(number, password string) (*models.Employee, string, error) {
	employee, err := s.employeeRepo.FindByNumber(number)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("failed to find employee: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(employee)
	if err != nil {
		return nil, "", fmt.Errorf("failed to sign token: %w", err)
	}

	return employee, token, nil
}

// GetEmployee retrieves a non-deleted employee by ID.
func (s *AuthService) GetEmployee(id uint64) (*models.Employee, error) {
	employee, err := s.employeeRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to find employee: %w", err)
	}
	return employee, nil
}

// VerifyToken parses and validates a bearer token. Only tokens signed
// with the same HMAC method we issue are accepted.
func (s *AuthService) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrSignatureInvalid
	}
	return claims, nil
}

func (s *AuthService) issueToken(employee *models.Employee) (string, error) {
	now := time.Now()
	claims := Claims{
		EmployeeID: employee.ID,
		Name:       employee.Name,
		Number:     employee.Number,
		Role:       employee.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(constants.TokenLifetime)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
