package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/boardsync/backend/internal/board/domain"
	"github.com/boardsync/backend/internal/board/repository"
	"github.com/boardsync/backend/internal/common/clock"
	commonerrors "github.com/boardsync/backend/internal/common/errors"
	"github.com/boardsync/backend/internal/common/logger"
)

type mockRepo struct {
	listByOwnerFunc func(ctx context.Context, owner string) ([]domain.Board, error)
	createFunc      func(ctx context.Context, name, owner string, createdAt time.Time) (int64, error)
	deleteFunc      func(ctx context.Context, id int64, owner string) error
}

func (m *mockRepo) ListByOwner(ctx context.Context, owner string) ([]domain.Board, error) {
	return m.listByOwnerFunc(ctx, owner)
}

func (m *mockRepo) Create(ctx context.Context, name, owner string, createdAt time.Time) (int64, error) {
	return m.createFunc(ctx, name, owner, createdAt)
}

func (m *mockRepo) Delete(ctx context.Context, id int64, owner string) error {
	return m.deleteFunc(ctx, id, owner)
}

func setupBoardService(t *testing.T) (*BoardService, *mockRepo, *clock.FakeClock) {
	t.Helper()
	repo := &mockRepo{}
	clk := clock.NewFakeClock(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	log, _ := logger.New("", "test", "error")
	return NewBoardService(repo, clk, log), repo, clk
}

func TestBoardService_List_Success(t *testing.T) {
	svc, repo, _ := setupBoardService(t)

	repo.listByOwnerFunc = func(ctx context.Context, owner string) ([]domain.Board, error) {
		if owner != "alice" {
			t.Errorf("expected owner alice, got %s", owner)
		}
		return []domain.Board{{ID: 1, Name: "sketch", Owner: "alice"}}, nil
	}

	boards, err := svc.List(context.Background(), "alice")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(boards) != 1 || boards[0].Name != "sketch" {
		t.Errorf("unexpected boards %v", boards)
	}
}

func TestBoardService_List_EmptyIsNotNil(t *testing.T) {
	svc, repo, _ := setupBoardService(t)

	repo.listByOwnerFunc = func(ctx context.Context, owner string) ([]domain.Board, error) {
		return nil, nil
	}

	boards, err := svc.List(context.Background(), "alice")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if boards == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(boards) != 0 {
		t.Errorf("expected no boards, got %v", boards)
	}
}

func TestBoardService_List_RepoError(t *testing.T) {
	svc, repo, _ := setupBoardService(t)

	repo.listByOwnerFunc = func(ctx context.Context, owner string) ([]domain.Board, error) {
		return nil, errors.New("connection refused")
	}

	_, err := svc.List(context.Background(), "alice")
	if err == nil {
		t.Fatal("expected error")
	}
	de, ok := commonerrors.AsDomainError(err)
	if !ok || de.Code() != "DATABASE_ERROR" {
		t.Errorf("expected DATABASE_ERROR, got %v", err)
	}
}

func TestBoardService_Create_Success(t *testing.T) {
	svc, repo, clk := setupBoardService(t)

	repo.createFunc = func(ctx context.Context, name, owner string, createdAt time.Time) (int64, error) {
		if name != "sprint notes" {
			t.Errorf("expected name 'sprint notes', got %s", name)
		}
		if owner != "alice" {
			t.Errorf("expected owner alice, got %s", owner)
		}
		if !createdAt.Equal(clk.Now()) {
			t.Errorf("expected createdAt %v, got %v", clk.Now(), createdAt)
		}
		return 42, nil
	}

	id, err := svc.Create(context.Background(), "sprint notes", "alice")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if id != 42 {
		t.Errorf("expected id 42, got %d", id)
	}
}

func TestBoardService_Create_EmptyName(t *testing.T) {
	svc, _, _ := setupBoardService(t)

	_, err := svc.Create(context.Background(), "", "alice")
	if err == nil {
		t.Fatal("expected error")
	}
	de, ok := commonerrors.AsDomainError(err)
	if !ok || de.Code() != "BOARD_NAME_EMPTY" {
		t.Errorf("expected BOARD_NAME_EMPTY, got %v", err)
	}
}

func TestBoardService_Create_NameTooLong(t *testing.T) {
	svc, _, _ := setupBoardService(t)

	_, err := svc.Create(context.Background(), strings.Repeat("x", 129), "alice")
	if err == nil {
		t.Fatal("expected error")
	}
	de, ok := commonerrors.AsDomainError(err)
	if !ok || de.Code() != "BOARD_NAME_TOO_LONG" {
		t.Errorf("expected BOARD_NAME_TOO_LONG, got %v", err)
	}
}

func TestBoardService_Create_MaxLengthNameIsAccepted(t *testing.T) {
	svc, repo, _ := setupBoardService(t)

	repo.createFunc = func(ctx context.Context, name, owner string, createdAt time.Time) (int64, error) {
		return 1, nil
	}

	if _, err := svc.Create(context.Background(), strings.Repeat("x", 128), "alice"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestBoardService_Create_RepoError(t *testing.T) {
	svc, repo, _ := setupBoardService(t)

	repo.createFunc = func(ctx context.Context, name, owner string, createdAt time.Time) (int64, error) {
		return 0, errors.New("insert failed")
	}

	_, err := svc.Create(context.Background(), "sketch", "alice")
	if err == nil {
		t.Fatal("expected error")
	}
	de, ok := commonerrors.AsDomainError(err)
	if !ok || de.Code() != "DATABASE_ERROR" {
		t.Errorf("expected DATABASE_ERROR, got %v", err)
	}
}

func TestBoardService_Delete_Success(t *testing.T) {
	svc, repo, _ := setupBoardService(t)

	repo.deleteFunc = func(ctx context.Context, id int64, owner string) error {
		if id != 7 || owner != "alice" {
			t.Errorf("unexpected delete args id=%d owner=%s", id, owner)
		}
		return nil
	}

	if err := svc.Delete(context.Background(), 7, "alice"); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestBoardService_Delete_NotFound(t *testing.T) {
	svc, repo, _ := setupBoardService(t)

	repo.deleteFunc = func(ctx context.Context, id int64, owner string) error {
		return repository.ErrBoardNotFound
	}

	err := svc.Delete(context.Background(), 7, "alice")
	if err == nil {
		t.Fatal("expected error")
	}
	de, ok := commonerrors.AsDomainError(err)
	if !ok || de.Code() != "BOARD_NOT_FOUND" {
		t.Errorf("expected BOARD_NOT_FOUND, got %v", err)
	}
}

func TestBoardService_Delete_RepoError(t *testing.T) {
	svc, repo, _ := setupBoardService(t)

	repo.deleteFunc = func(ctx context.Context, id int64, owner string) error {
		return errors.New("delete failed")
	}

	err := svc.Delete(context.Background(), 7, "alice")
	if err == nil {
		t.Fatal("expected error")
	}
	de, ok := commonerrors.AsDomainError(err)
	if !ok || de.Code() != "DATABASE_ERROR" {
		t.Errorf("expected DATABASE_ERROR, got %v", err)
	}
}
