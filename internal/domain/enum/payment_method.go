package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// PaymentMethod is how a sale was paid
type PaymentMethod int

const (
	PaymentMethodPix  PaymentMethod = 0
	PaymentMethodCard PaymentMethod = 1
	PaymentMethodCash PaymentMethod = 2
)

// PaymentMethods lists every known method, in reporting order.
var PaymentMethods = []PaymentMethod{PaymentMethodPix, PaymentMethodCard, PaymentMethodCash}

func (m PaymentMethod) String() string {
	names := [...]string{"Pix", "Card", "Cash"}
	if int(m) < 0 || int(m) >= len(names) {
		return "Unknown"
	}
	return names[m]
}

func (m PaymentMethod) Valid() bool {
	return m >= PaymentMethodPix && m <= PaymentMethodCash
}

func ParsePaymentMethod(str string) (PaymentMethod, error) {
	switch str {
	case "Pix", "pix", "PIX":
		return PaymentMethodPix, nil
	case "Card", "card", "Cartão", "Cartao":
		return PaymentMethodCard, nil
	case "Cash", "cash", "Dinheiro":
		return PaymentMethodCash, nil
	}
	return 0, fmt.Errorf("unknown payment method %q", str)
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("payment method must be a string: %w", err)
	}
	parsed, err := ParsePaymentMethod(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("invalid payment method %d", int(m))
	}
	return m.String(), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		parsed, err := ParsePaymentMethod(v)
		if err != nil {
			return err
		}
		*m = parsed
		return nil
	case []byte:
		return m.Scan(string(v))
	default:
		return fmt.Errorf("cannot scan %T into PaymentMethod", value)
	}
}
