package service

import (
	"strings"

	"github.com/google/uuid"
)

// newRoomID 8 位房间号
func newRoomID() string {
	uuidStr := uuid.New().String()
	return strings.ReplaceAll(uuidStr, "-", "")[:8]
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
