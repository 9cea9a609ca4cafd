package http

import (
	"strconv"
	"strings"

	commonerrors "github.com/boardsync/backend/internal/common/errors"
)

// ParseBoardID extracts the board id segment that follows prefix in path,
// e.g. ParseBoardID("/api/whiteboards/42/delete", "/api/whiteboards/") -> 42.
func ParseBoardID(path, prefix string) (int64, error) {
	if !strings.HasPrefix(path, prefix) {
		return 0, commonerrors.ErrInvalidBoardID
	}

	remaining := strings.TrimPrefix(path, prefix)
	if idx := strings.Index(remaining, "/"); idx != -1 {
		remaining = remaining[:idx]
	}
	if remaining == "" {
		return 0, commonerrors.ErrInvalidBoardID
	}

	id, err := strconv.ParseInt(remaining, 10, 64)
	if err != nil {
		return 0, commonerrors.ErrInvalidBoardID.WithCause(err)
	}
	return id, nil
}
