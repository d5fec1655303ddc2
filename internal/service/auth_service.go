package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/primecut-foods/butchery-api/internal/core"
	"golang.org/x/crypto/bcrypt"
)

// AuthService matches login credentials against the employee collection
// plus one configured admin account, and issues JWTs carrying the role.
type AuthService struct {
	employeeRepo  core.EmployeeRepository
	jwtSecret     string
	adminUsername string
	adminPassword string
}

// NewAuthService creates a new auth service
func NewAuthService(employeeRepo core.EmployeeRepository, jwtSecret, adminUsername, adminPassword string) *AuthService {
	return &AuthService{
		employeeRepo:  employeeRepo,
		jwtSecret:     jwtSecret,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
	}
}

// Login verifies a username/password pair and returns a signed token.
// The configured admin account is checked before the employee collection.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", fmt.Errorf("username and password are required")
	}

	if s.adminPassword != "" && username == s.adminUsername {
		if password != s.adminPassword {
			return "", fmt.Errorf("invalid credentials")
		}
		return s.generateJWT("", s.adminUsername, "Administrator", core.RoleAdmin)
	}

	employee, err := s.employeeRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("invalid credentials")
	}
	if !employee.IsActive {
		return "", fmt.Errorf("unauthorized: account disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(employee.PasswordHash), []byte(password)); err != nil {
		return "", fmt.Errorf("invalid credentials")
	}

	displayName := employee.FirstName + " " + employee.LastName
	return s.generateJWT(employee.ID, employee.Username, displayName, employee.Role)
}

// generateJWT generates a JWT token for an authenticated account
func (s *AuthService) generateJWT(userID, username, name, role string) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  userID,
		"username": username,
		"name":     name,
		"role":     role,
		"exp":      time.Now().Add(12 * time.Hour).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// ValidateJWT validates a JWT token and returns the claims
func (s *AuthService) ValidateJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, fmt.Errorf("invalid token")
}
