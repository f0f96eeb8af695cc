package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Tukyboy007/hospital-back/internal/audit"
	"github.com/Tukyboy007/hospital-back/internal/domain"
	"github.com/Tukyboy007/hospital-back/internal/dto"
	"github.com/Tukyboy007/hospital-back/internal/password"
	"github.com/Tukyboy007/hospital-back/internal/repository"
	"github.com/Tukyboy007/hospital-back/internal/token"
)

var (
	// ErrDoctorExists indicates a duplicate registration number
	ErrDoctorExists = errors.New("doctor already exists")
	// ErrInvalidCredentials covers both unknown reg_no and wrong password,
	// so responses cannot be used to enumerate accounts
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidToken covers every refresh/identify validation failure:
	// bad signature, expiry, unknown jti, revoked record, hash mismatch
	ErrInvalidToken = errors.New("invalid token")
)

// AuthServiceConfig holds configuration for AuthService
type AuthServiceConfig struct {
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
}

// RotationResult carries the outcome of one refresh rotation. The new
// refresh token travels back to the client only as a cookie.
type RotationResult struct {
	AccessToken  string
	RefreshToken string
	JTI          string
}

// AuthService composes the password vault, token codec and refresh ledger
// into the four user-facing session flows plus per-request identification.
type AuthService interface {
	// Register creates a doctor account and issues a first session
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	// Login authenticates a doctor by reg_no and password
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	// Refresh rotates a refresh token: the presented token is revoked and a
	// new pair is issued, exactly once per token
	Refresh(ctx context.Context, rawToken string) (*RotationResult, error)
	// Logout revokes the presented refresh token on a best-effort basis;
	// it never fails
	Logout(ctx context.Context, rawToken string)
	// Identify verifies an access token and returns the caller's identity
	Identify(tokenString string) (domain.Identity, error)
}

type authService struct {
	doctors repository.DoctorRepository
	ledger  repository.RefreshTokenRepository
	vault   *password.Vault
	codec   *token.Codec
	audit   audit.Publisher
	log     *zap.Logger
	config  *AuthServiceConfig
}

// NewAuthService creates a new AuthService
func NewAuthService(
	doctors repository.DoctorRepository,
	ledger repository.RefreshTokenRepository,
	vault *password.Vault,
	codec *token.Codec,
	publisher audit.Publisher,
	log *zap.Logger,
	config *AuthServiceConfig,
) AuthService {
	if config.AccessTokenTTL == 0 {
		config.AccessTokenTTL = 15 * time.Minute
	}
	if config.RefreshTokenTTL == 0 {
		config.RefreshTokenTTL = 7 * 24 * time.Hour
	}
	if publisher == nil {
		publisher = audit.NopPublisher{}
	}
	return &authService{
		doctors: doctors,
		ledger:  ledger,
		vault:   vault,
		codec:   codec,
		audit:   publisher,
		log:     log,
		config:  config,
	}
}

// HashRefreshToken returns the at-rest form of a raw refresh token. Only
// this hash touches persistent storage, so a storage compromise alone cannot
// mint valid sessions.
func HashRefreshToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return "sha256:" + hex.EncodeToString(sum[:])
}

// Register creates a doctor account and issues a first session. The
// existence pre-check is optimistic; the unique index on reg_no catches
// concurrent duplicates at the storage layer.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	existing, err := s.doctors.GetByRegNo(ctx, req.RegNo)
	if err != nil {
		return nil, fmt.Errorf("doctor lookup: %w", err)
	}
	if existing != nil {
		return nil, ErrDoctorExists
	}

	hash, err := s.vault.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	doctor := &domain.Doctor{
		ID:           uuid.New().String(),
		RegNo:        req.RegNo,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		RankName:     req.RankName,
		OrgName:      req.OrgName,
		OrgID:        req.OrgID,
		Position:     req.Position,
		Gender:       req.Gender,
		Role:         domain.RoleDoctor,
		PasswordHash: hash,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.doctors.Create(ctx, doctor); err != nil {
		return nil, fmt.Errorf("insert doctor: %w", err)
	}

	pair, err := s.issueSession(ctx, doctor.ID, doctor.Role)
	if err != nil {
		return nil, err
	}

	s.audit.Publish(ctx, audit.Event{Type: audit.EventDoctorRegistered, DoctorID: doctor.ID, RegNo: doctor.RegNo})

	return s.toAuthResponse(doctor, pair), nil
}

// Login authenticates a doctor by reg_no and password. Unknown reg_no,
// inactive account and wrong password all surface as the same error.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	doctor, err := s.doctors.GetByRegNo(ctx, req.RegNo)
	if err != nil {
		return nil, fmt.Errorf("doctor lookup: %w", err)
	}
	if doctor == nil || !doctor.IsActive || !s.vault.Verify(req.Password, doctor.PasswordHash) {
		s.audit.Publish(ctx, audit.Event{Type: audit.EventLoginFailed, RegNo: req.RegNo})
		return nil, ErrInvalidCredentials
	}

	pair, err := s.issueSession(ctx, doctor.ID, doctor.Role)
	if err != nil {
		return nil, err
	}

	s.audit.Publish(ctx, audit.Event{Type: audit.EventLoginSucceeded, DoctorID: doctor.ID, RegNo: doctor.RegNo, JTI: pair.JTI})

	return s.toAuthResponse(doctor, pair), nil
}

// Refresh rotates a refresh token per the one-time-use protocol. Every
// validation branch fails closed with ErrInvalidToken. A crash between the
// revoke and the insert of the successor leaves the doctor with no valid
// refresh token, which forces re-login but never allows reuse.
func (s *authService) Refresh(ctx context.Context, rawToken string) (*RotationResult, error) {
	claims, err := s.codec.Verify(rawToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	record, err := s.ledger.GetByJTI(ctx, claims.JTI)
	if err != nil {
		return nil, fmt.Errorf("ledger lookup: %w", err)
	}
	if record == nil {
		return nil, ErrInvalidToken
	}

	if record.Revoked {
		// A revoked jti presented again is either a stale client retry or a
		// stolen token replayed after legitimate rotation. The two are not
		// distinguishable here; both fail closed.
		s.log.Warn("refresh token reuse detected",
			zap.String("doctor_id", record.DoctorID),
			zap.String("jti", record.JTI),
		)
		s.audit.Publish(ctx, audit.Event{Type: audit.EventRefreshReuseDetected, DoctorID: record.DoctorID, JTI: record.JTI})
		return nil, ErrInvalidToken
	}

	// Guards against a forged token that carries a valid, known jti.
	if HashRefreshToken(rawToken) != record.TokenHash {
		return nil, ErrInvalidToken
	}

	affected, err := s.ledger.Revoke(ctx, claims.JTI)
	if err != nil {
		return nil, fmt.Errorf("revoke refresh token: %w", err)
	}
	if affected == 0 {
		// A concurrent rotation of the same token won the conditional
		// update; this caller must not mint a duplicate child token.
		return nil, ErrInvalidToken
	}

	accessToken, _, err := s.codec.Sign(claims.Subject, claims.Role, s.config.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, refreshClaims, err := s.codec.Sign(claims.Subject, claims.Role, s.config.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := s.ledger.Insert(ctx, &domain.RefreshToken{
		DoctorID:  claims.Subject,
		JTI:       refreshClaims.JTI,
		TokenHash: HashRefreshToken(refreshToken),
		ExpiresAt: time.Now().Add(s.config.RefreshTokenTTL),
	}); err != nil {
		return nil, fmt.Errorf("insert refresh token: %w", err)
	}

	s.audit.Publish(ctx, audit.Event{Type: audit.EventRefreshRotated, DoctorID: claims.Subject, JTI: refreshClaims.JTI})

	return &RotationResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		JTI:          refreshClaims.JTI,
	}, nil
}

// Logout revokes the presented refresh token's ledger record. Verification
// and storage failures are logged and swallowed: logout always succeeds.
func (s *authService) Logout(ctx context.Context, rawToken string) {
	if rawToken == "" {
		return
	}
	claims, err := s.codec.Verify(rawToken)
	if err != nil {
		return
	}
	if _, err := s.ledger.Revoke(ctx, claims.JTI); err != nil {
		s.log.Warn("logout revoke failed", zap.String("jti", claims.JTI), zap.Error(err))
		return
	}
	s.audit.Publish(ctx, audit.Event{Type: audit.EventLogout, DoctorID: claims.Subject, JTI: claims.JTI})
}

// Identify verifies an access token and returns the caller's identity.
// Pure token verification: no ledger round trip, access tokens are not
// revocable within their TTL.
func (s *authService) Identify(tokenString string) (domain.Identity, error) {
	claims, err := s.codec.Verify(tokenString)
	if err != nil {
		return domain.Identity{}, ErrInvalidToken
	}
	return domain.Identity{DoctorID: claims.Subject, Role: claims.Role}, nil
}

// issueSession signs an access/refresh pair and persists the refresh
// record. Called by Register and Login; Refresh has its own path because it
// must revoke first.
func (s *authService) issueSession(ctx context.Context, doctorID string, role domain.Role) (*domain.TokenPair, error) {
	accessToken, _, err := s.codec.Sign(doctorID, role, s.config.AccessTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refreshToken, refreshClaims, err := s.codec.Sign(doctorID, role, s.config.RefreshTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := s.ledger.Insert(ctx, &domain.RefreshToken{
		DoctorID:  doctorID,
		JTI:       refreshClaims.JTI,
		TokenHash: HashRefreshToken(refreshToken),
		ExpiresAt: time.Now().Add(s.config.RefreshTokenTTL),
	}); err != nil {
		return nil, fmt.Errorf("insert refresh token: %w", err)
	}

	return &domain.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		JTI:          refreshClaims.JTI,
	}, nil
}

func (s *authService) toAuthResponse(doctor *domain.Doctor, pair *domain.TokenPair) *dto.AuthResponse {
	return &dto.AuthResponse{
		Doctor: dto.DoctorResponse{
			ID:        doctor.ID,
			RegNo:     doctor.RegNo,
			FirstName: doctor.FirstName,
			LastName:  doctor.LastName,
		},
		Tokens: dto.TokensResponse{
			Access:  pair.AccessToken,
			Refresh: pair.RefreshToken,
			JTI:     pair.JTI,
		},
	}
}
