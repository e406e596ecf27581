package verification

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/ignatzorin/fme-backend/internal/domain/valueobject"
)

var tokenSpace = big.NewInt(100000)

// GenerateToken возвращает криптостойкий равномерный код 00000–99999.
func GenerateToken() (string, error) {
	n, err := rand.Int(rand.Reader, tokenSpace)
	if err != nil {
		return "", fmt.Errorf("verification: не удалось сгенерировать токен: %w", err)
	}
	return fmt.Sprintf("%0*d", valueobject.TokenLength, n.Int64()), nil
}
