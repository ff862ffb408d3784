package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

var (
	txHashRegex  = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)
	countryRegex = regexp.MustCompile(`^[A-Za-z]{2}$`)
)

// ValidateAddress проверяет EVM-адрес игрока
func ValidateAddress(address string) error {
	if address == "" {
		return fmt.Errorf("address cannot be empty")
	}
	if !common.IsHexAddress(address) {
		return fmt.Errorf("invalid address format")
	}
	return nil
}

// NormalizeAddress lowercases the hex address. Addresses are used as primary
// keys across all three stores, so every layer must see the same casing.
func NormalizeAddress(address string) string {
	return strings.ToLower(address)
}

// ValidateTxHash проверяет хэш транзакции
func ValidateTxHash(hash string) error {
	if hash == "" {
		return fmt.Errorf("tx hash cannot be empty")
	}
	if !txHashRegex.MatchString(hash) {
		return fmt.Errorf("invalid tx hash format")
	}
	return nil
}

// ValidateCountry проверяет 2-буквенный гео-код
func ValidateCountry(country string) error {
	if country == "" {
		// Country is optional, set only on first contact.
		return nil
	}
	if !countryRegex.MatchString(country) {
		return fmt.Errorf("country must be a 2-letter code")
	}
	return nil
}

// ValidateClicks проверяет количество кликов из запроса
func ValidateClicks(clicks int64) error {
	if clicks < 0 {
		return fmt.Errorf("clicks cannot be negative")
	}
	return nil
}
