package auth

import (
	"context"
	"errors"
	"log"
	"strings"

	"retreatdesk/internal/domain"
	"retreatdesk/internal/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	operators OperatorRepository
	tokens    tokenIssuer
}

func NewService(operators OperatorRepository, tokens tokenIssuer) *Service {
	return &Service{operators: operators, tokens: tokens}
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*domain.Operator, string, error) {
	op, err := s.operators.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(req.Password)); err != nil {
		log.Printf("auth: failed login operator_id=%d", op.ID)
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(op.ID, string(op.Role))
	if err != nil {
		return nil, "", err
	}
	return op, token, nil
}

func (s *Service) GetOperator(ctx context.Context, id int64) (*domain.Operator, error) {
	op, err := s.operators.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperatorNotFound
		}
		return nil, err
	}
	return op, nil
}

func (s *Service) CreateOperator(ctx context.Context, req CreateOperatorRequest) (*domain.Operator, error) {
	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	op := &domain.Operator{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(req.Name),
		Role:         req.Role,
	}
	if err := s.operators.Create(ctx, op); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}
	return op, nil
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
