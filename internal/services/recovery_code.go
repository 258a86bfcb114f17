package services

import (
	"fmt"
	"strings"

	"github.com/terraincognita07/mediplan/internal/security"
	"golang.org/x/crypto/bcrypt"
)

const recoveryCodePrefix = "MEDI"

// GenerateRecoveryCode returns a MEDI-XXXX-XXXX-XXXX code and its bcrypt hash.
func GenerateRecoveryCode() (string, string, error) {
	code, err := security.GroupedCode(recoveryCodePrefix, 3, 4)
	if err != nil {
		return "", "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return code, string(hash), nil
}

// NormalizeRecoveryCode tolerates lower case, spaces and missing dashes or prefix.
func NormalizeRecoveryCode(raw string) string {
	compact := strings.ToUpper(strings.TrimSpace(raw))
	compact = strings.NewReplacer(" ", "", "-", "").Replace(compact)
	compact = strings.TrimPrefix(compact, recoveryCodePrefix)
	if len(compact) != 12 {
		return strings.ToUpper(strings.TrimSpace(raw))
	}
	return fmt.Sprintf("%s-%s-%s-%s", recoveryCodePrefix, compact[:4], compact[4:8], compact[8:])
}
