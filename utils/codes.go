package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// NewReferenceCode returns a short human-readable booking reference.
func NewReferenceCode() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("RSV-%s", id[:10])
}
