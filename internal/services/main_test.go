package services

import (
	"os"
	"testing"

	"github.com/obra-studio/obra-api/pkg/logger"
)

func TestMain(m *testing.M) {
	logger.Setup("test")
	os.Exit(m.Run())
}
