package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONData is a free-form JSON object stored in a single column
type JSONData map[string]interface{}

// Value implements driver.Valuer interface for database storage
func (j JSONData) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	b, err := json.Marshal(j)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface for database retrieval
func (j *JSONData) Scan(value interface{}) error {
	if value == nil {
		*j = JSONData{}
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, j)
	case string:
		return json.Unmarshal([]byte(v), j)
	default:
		return fmt.Errorf("cannot scan %T into JSONData", value)
	}
}

// GormDataType returns the data type for GORM
func (JSONData) GormDataType() string {
	return "json"
}
