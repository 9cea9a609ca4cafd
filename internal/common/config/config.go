package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/boardsync/backend/internal/common/constants"
	commonerrors "github.com/boardsync/backend/internal/common/errors"
)

type BoardConfig struct {
	HTTPPort          string
	DatabaseURL       string
	KeycloakPublicKey string
	TokenAudience     string
	AllowedOrigin     string

	WebSocketWriteWait   time.Duration
	WebSocketPongWait    time.Duration
	WebSocketPingPeriod  time.Duration
	WebSocketMaxMsgSize  int64
	WebSocketSendBufSize int
	WebSocketAuthTimeout time.Duration

	RequestTimeout time.Duration
}

// LoadBoardConfig reads the service configuration from the environment. A
// .env file in the working directory is honored when present.
func LoadBoardConfig() (BoardConfig, error) {
	_ = godotenv.Load()

	databaseURL, err := mustEnv("DATABASE_URL")
	if err != nil {
		return BoardConfig{}, err
	}

	publicKey, err := mustEnv("KEYCLOAK_PUBLIC_KEY")
	if err != nil {
		return BoardConfig{}, err
	}

	return BoardConfig{
		HTTPPort:          getEnv("BOARD_HTTP_PORT", "8080"),
		DatabaseURL:       databaseURL,
		KeycloakPublicKey: publicKey,
		TokenAudience:     getEnv("TOKEN_AUDIENCE", "account"),
		AllowedOrigin:     getEnv("CORS_ALLOWED_ORIGIN", "http://localhost:5173"),

		WebSocketWriteWait:   getDurationEnv("BOARD_WS_WRITE_WAIT", constants.WebSocketWriteWait),
		WebSocketPongWait:    getDurationEnv("BOARD_WS_PONG_WAIT", constants.WebSocketPongWait),
		WebSocketPingPeriod:  getDurationEnv("BOARD_WS_PING_PERIOD", constants.WebSocketPingPeriod),
		WebSocketMaxMsgSize:  getInt64Env("BOARD_WS_MAX_MSG_SIZE", constants.WebSocketMaxMsgSize),
		WebSocketSendBufSize: getIntEnv("BOARD_WS_SEND_BUF_SIZE", constants.WebSocketSendBufSize),
		WebSocketAuthTimeout: getDurationEnv("BOARD_WS_AUTH_TIMEOUT", constants.WebSocketAuthTimeout),

		RequestTimeout: getDurationEnv("BOARD_REQUEST_TIMEOUT", 5*time.Second),
	}, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", commonerrors.ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getInt64Env(key string, fallback int64) int64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return i
}
