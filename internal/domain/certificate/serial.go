package certificate

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"time"

	"github.com/brandcert/backend/internal/domain/shared"
)

// SerialPrefix opens every certificate serial number
const SerialPrefix = "BC"

var serialNumberRegex = regexp.MustCompile(`^BC-\d{4}-[0-9a-f]{10}$`)

// NewSerialNumber generates a serial of the form BC-<year>-<10 hex chars>.
// The random part carries 40 bits, so collisions are practically absent;
// the unique index on the column catches the rest.
func NewSerialNumber(now time.Time) (string, error) {
	buf := make([]byte, 5)
	if _, err := rand.Read(buf); err != nil {
		return "", shared.NewDomainError("SERIAL_GENERATION_FAILED", "Could not generate serial number")
	}
	return fmt.Sprintf("%s-%d-%s", SerialPrefix, now.UTC().Year(), hex.EncodeToString(buf)), nil
}

// IsValidSerialNumber reports whether a string is a well-formed serial
func IsValidSerialNumber(serial string) bool {
	return serialNumberRegex.MatchString(serial)
}
