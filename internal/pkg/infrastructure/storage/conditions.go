package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

type ConditionFunc func(*Condition) *Condition

type Condition struct {
	PropertyID string
	AlertType  string
	SensorID   string
	Source     string

	Unresolved bool
	Since      time.Time

	sortBy    string
	sortOrder string

	timeColumn string

	limit *int
}

func (c Condition) NamedArgs() pgx.NamedArgs {
	args := pgx.NamedArgs{}

	if c.PropertyID != "" {
		args["property_id"] = c.PropertyID
	}
	if c.AlertType != "" {
		args["alert_type"] = c.AlertType
	}
	if c.SensorID != "" {
		args["sensor_id"] = c.SensorID
	}
	if c.Source != "" {
		args["source"] = c.Source
	}
	if !c.Since.IsZero() {
		args["since"] = c.Since.UTC()
	}
	if c.limit != nil {
		args["limit"] = *c.limit
	}

	return args
}

func (c Condition) Where() string {
	where := []string{}

	if c.PropertyID != "" {
		where = append(where, "property_id = @property_id")
	}
	if c.AlertType != "" {
		where = append(where, "alert_type = @alert_type")
	}
	if c.SensorID != "" {
		where = append(where, "sensor_id = @sensor_id")
	}
	if c.Source != "" {
		where = append(where, "source = @source")
	}
	if c.Unresolved {
		where = append(where, "resolved_at IS NULL")
	}
	if !c.Since.IsZero() {
		col := c.timeColumn
		if col == "" {
			col = "triggered_at"
		}
		where = append(where, col+" >= @since")
	}

	if len(where) == 0 {
		return "TRUE"
	}

	return strings.Join(where, " AND ")
}

func (c Condition) OrderBy(def string) string {
	sortBy := c.sortBy
	if sortBy == "" {
		sortBy = def
	}
	sortOrder := c.sortOrder
	if sortOrder == "" {
		sortOrder = "DESC"
	}
	return fmt.Sprintf("ORDER BY %s %s", sortBy, sortOrder)
}

func (c Condition) Limit() string {
	if c.limit == nil {
		return ""
	}
	return "LIMIT @limit"
}

func WithPropertyID(propertyID string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.PropertyID = propertyID
		return c
	}
}

func WithAlertType(alertType string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.AlertType = alertType
		return c
	}
}

func WithSensorID(sensorID string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.SensorID = sensorID
		return c
	}
}

func WithSource(source string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.Source = source
		return c
	}
}

func WithUnresolved() ConditionFunc {
	return func(c *Condition) *Condition {
		c.Unresolved = true
		return c
	}
}

func WithSince(t time.Time) ConditionFunc {
	return func(c *Condition) *Condition {
		c.Since = t
		return c
	}
}

func WithLimit(limit int) ConditionFunc {
	return func(c *Condition) *Condition {
		c.limit = &limit
		return c
	}
}

func WithSortBy(sortBy, sortOrder string) ConditionFunc {
	return func(c *Condition) *Condition {
		c.sortBy = sortBy
		c.sortOrder = sortOrder
		return c
	}
}
