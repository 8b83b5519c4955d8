package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"p9e.in/handoff/intake"
)

// JSONB column wrappers for the nested intake values. Each implements
// driver.Valuer and sql.Scanner so GORM reads and writes the jsonb columns
// without per-handler marshaling.

func jsonValue(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func jsonScan(dst any, src any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("jsonScan: unsupported type %T", src)
	}
}

// ServiceLines is a jsonb array of service lines with their pricing.
type ServiceLines []intake.ServiceLine

func (s ServiceLines) Value() (driver.Value, error) { return jsonValue(s) }
func (s *ServiceLines) Scan(src any) error          { return jsonScan(s, src) }

// ServiceLine is a single jsonb service line (the draft's selection).
type ServiceLine intake.ServiceLine

func (s ServiceLine) Value() (driver.Value, error) { return jsonValue(s) }
func (s *ServiceLine) Scan(src any) error          { return jsonScan(s, src) }

// Contact is a jsonb contact sub-record.
type Contact intake.Contact

func (c Contact) Value() (driver.Value, error) { return jsonValue(c) }
func (c *Contact) Scan(src any) error          { return jsonScan(c, src) }

// Documents is a jsonb array of uploaded document references.
type Documents []intake.DocumentRef

func (d Documents) Value() (driver.Value, error) { return jsonValue(d) }
func (d *Documents) Scan(src any) error          { return jsonScan(d, src) }

// Activity is a jsonb append-only activity log.
type Activity []intake.ActivityEntry

func (a Activity) Value() (driver.Value, error) { return jsonValue(a) }
func (a *Activity) Scan(src any) error          { return jsonScan(a, src) }
