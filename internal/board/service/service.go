package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/boardsync/backend/internal/board/domain"
	"github.com/boardsync/backend/internal/board/repository"
	"github.com/boardsync/backend/internal/common/clock"
	commonerrors "github.com/boardsync/backend/internal/common/errors"
	"github.com/boardsync/backend/internal/common/logger"
)

type createBoardInput struct {
	Name  string `validate:"required,max=128"`
	Owner string `validate:"required"`
}

type BoardService struct {
	repo     repository.Repository
	clock    clock.Clock
	validate *validator.Validate
	log      *logger.Logger
}

func NewBoardService(repo repository.Repository, clk clock.Clock, log *logger.Logger) *BoardService {
	return &BoardService{
		repo:     repo,
		clock:    clk,
		validate: validator.New(),
		log:      log,
	}
}

func (s *BoardService) List(ctx context.Context, owner string) ([]domain.Board, error) {
	boards, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, commonerrors.ErrDatabaseError.WithCause(err)
	}
	if boards == nil {
		boards = []domain.Board{}
	}
	return boards, nil
}

func (s *BoardService) Create(ctx context.Context, name, owner string) (int64, error) {
	in := createBoardInput{Name: name, Owner: owner}
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				if fe.Field() == "Name" && fe.Tag() == "max" {
					return 0, commonerrors.ErrBoardNameTooLong
				}
			}
		}
		return 0, commonerrors.ErrBoardNameEmpty
	}

	id, err := s.repo.Create(ctx, name, owner, s.clock.Now())
	if err != nil {
		return 0, commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"board_id": id,
		"owner":    owner,
		"action":   "board_create",
	}).Info("board created")
	return id, nil
}

func (s *BoardService) Delete(ctx context.Context, id int64, owner string) error {
	err := s.repo.Delete(ctx, id, owner)
	if err != nil {
		if errors.Is(err, repository.ErrBoardNotFound) {
			return commonerrors.ErrBoardNotFound
		}
		return commonerrors.ErrDatabaseError.WithCause(err)
	}

	s.log.WithFields(ctx, logger.Fields{
		"board_id": id,
		"owner":    owner,
		"action":   "board_delete",
	}).Info("board deleted")
	return nil
}
