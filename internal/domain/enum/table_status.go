package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// TableStatus is the occupancy of a dining table
type TableStatus int

const (
	TableStatusFree     TableStatus = 0
	TableStatusOccupied TableStatus = 1
)

func (s TableStatus) String() string {
	if s == TableStatusOccupied {
		return "Occupied"
	}
	return "Free"
}

// ParseTableStatus accepts the canonical names and the legacy Portuguese
// values still present in older rows.
func ParseTableStatus(str string) (TableStatus, error) {
	switch str {
	case "Free", "free", "Livre":
		return TableStatusFree, nil
	case "Occupied", "occupied", "Ocupada":
		return TableStatusOccupied, nil
	}
	return TableStatusFree, fmt.Errorf("unknown table status %q", str)
}

func (s TableStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *TableStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if i != int(TableStatusFree) && i != int(TableStatusOccupied) {
			return fmt.Errorf("unknown table status %d", i)
		}
		*s = TableStatus(i)
		return nil
	}
	parsed, err := ParseTableStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Value stores the status by name so the column stays readable
func (s TableStatus) Value() (driver.Value, error) {
	return s.String(), nil
}

func (s *TableStatus) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*s = TableStatusFree
		return nil
	case string:
		parsed, err := ParseTableStatus(v)
		if err != nil {
			return err
		}
		*s = parsed
	case []byte:
		return s.Scan(string(v))
	case int64:
		*s = TableStatus(v)
	default:
		return fmt.Errorf("cannot scan %T into TableStatus", value)
	}
	return nil
}
