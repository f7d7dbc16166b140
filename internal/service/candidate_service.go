package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/prepverse/prepverse-backend/internal/model"
	"github.com/prepverse/prepverse-backend/internal/repository"
)

// ErrEmailTaken is returned when registering with an existing email.
var ErrEmailTaken = errors.New("email is already registered")

// CandidateService handles candidate accounts and login.
type CandidateService struct {
	candidateRepo *repository.CandidateRepository
	auth          *AuthService
}

// NewCandidateService creates a new CandidateService.
func NewCandidateService(candidateRepo *repository.CandidateRepository, auth *AuthService) *CandidateService {
	return &CandidateService{candidateRepo: candidateRepo, auth: auth}
}

// Login verifies credentials and issues a single-device session token.
func (s *CandidateService) Login(ctx context.Context, email, password string) (*model.CandidateLoginResponse, error) {
	c, err := s.candidateRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("get candidate: %w", err)
	}
	if err := s.auth.CheckPassword(c.PasswordHash, password); err != nil {
		return nil, err
	}

	token, err := s.auth.GenerateCandidateToken(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	return &model.CandidateLoginResponse{Token: token, Candidate: *c}, nil
}

// Logout releases the candidate's session so another device can log in.
func (s *CandidateService) Logout(ctx context.Context, candidateID int) error {
	return s.auth.ResetCandidateSession(ctx, candidateID)
}

// Register creates a candidate account.
func (s *CandidateService) Register(ctx context.Context, req *model.CreateCandidateRequest) (*model.Candidate, error) {
	if existing, err := s.candidateRepo.GetByEmail(ctx, req.Email); err == nil && existing != nil {
		return nil, ErrEmailTaken
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	c := &model.Candidate{
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
	}
	if err := s.candidateRepo.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("create candidate: %w", err)
	}
	return c, nil
}

// GetByID retrieves a candidate account.
func (s *CandidateService) GetByID(ctx context.Context, id int) (*model.Candidate, error) {
	return s.candidateRepo.GetByID(ctx, id)
}
