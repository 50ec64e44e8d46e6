package usecase

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/director74/pos-terminal/internal/entity"
	"github.com/director74/pos-terminal/internal/repo"
	"github.com/director74/pos-terminal/pkg/auth"
)

// ErrInvalidCredentials ошибка неверного логина или пароля
var ErrInvalidCredentials = errors.New("неверное имя пользователя или пароль")

// AuthUseCase авторизация кассиров терминала
type AuthUseCase struct {
	cashierRepo repo.CashierRepository
	jwtManager  *auth.JWTManager
}

// NewAuthUseCase создает usecase авторизации
func NewAuthUseCase(cashierRepo repo.CashierRepository, jwtManager *auth.JWTManager) *AuthUseCase {
	return &AuthUseCase{
		cashierRepo: cashierRepo,
		jwtManager:  jwtManager,
	}
}

// Register регистрирует нового кассира
func (uc *AuthUseCase) Register(ctx context.Context, req entity.RegisterCashierRequest) (*entity.Cashier, error) {
	if _, err := uc.cashierRepo.GetByUsername(ctx, req.Username); err == nil {
		return nil, errors.New("кассир с таким именем уже существует")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("ошибка при хешировании пароля: %w", err)
	}

	cashier := &entity.Cashier{
		Username:     req.Username,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Active:       true,
	}
	if err := uc.cashierRepo.Create(ctx, cashier); err != nil {
		return nil, fmt.Errorf("ошибка при создании кассира: %w", err)
	}

	return cashier, nil
}

// Login проверяет учетные данные и выдает JWT токен
func (uc *AuthUseCase) Login(ctx context.Context, req entity.LoginRequest) (*entity.LoginResponse, error) {
	cashier, err := uc.cashierRepo.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if !cashier.Active {
		return nil, errors.New("учетная запись кассира отключена")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cashier.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := uc.jwtManager.GenerateToken(cashier.ID, cashier.Username)
	if err != nil {
		return nil, fmt.Errorf("ошибка при генерации токена: %w", err)
	}

	return &entity.LoginResponse{
		Token:    token,
		Username: cashier.Username,
		FullName: cashier.FullName,
	}, nil
}
