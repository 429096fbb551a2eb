package config

import (
	"fmt"
	"time"

	"github.com/dharashakti/backoffice/pkg/trace"
)

// Advance scopes for the payroll ledger
const (
	AdvanceScopeLifetime = "lifetime"
	AdvanceScopeMonth    = "month"
)

type (
	APIServerConfig struct {
		Port         int                `yaml:"port"`
		PID          string             `yaml:"pid"`
		Database     DatabaseConfig     `yaml:"database"`
		Logger       LoggerConfig       `yaml:"logger"`
		JWT          JWTConfig          `yaml:"jwt"`
		CORS         CORSConfig         `yaml:"cors"`
		Notifier     NotifierConfig     `yaml:"notifier"`
		Payroll      PayrollConfig      `yaml:"payroll"`
		Attendance   AttendanceConfig   `yaml:"attendance"`
		Registration RegistrationConfig `yaml:"registration"`
		SuperAdmin   SuperAdminConfig   `yaml:"super_admin"`
		Metrics      MetricsConfig      `yaml:"metrics"`
		Tracing      trace.Config       `yaml:"tracing"`
		I18n         I18nConfig         `yaml:"i18n"`
	}

	DatabaseConfig struct {
		Type     string `yaml:"type"`     // mysql, postgres, sqlite
		Host     string `yaml:"host"`     // localhost
		Port     int    `yaml:"port"`     // 3306 (for mysql), 5432 (for postgres)
		User     string `yaml:"user"`     // root (for mysql), postgres (for postgres)
		Password string `yaml:"password"` // password
		DBName   string `yaml:"dbname"`   // database name, or file path for sqlite
		SSLMode  string `yaml:"sslmode"`  // disable (for postgres)
	}

	JWTConfig struct {
		SecretKey string        `yaml:"secret_key"`
		Duration  time.Duration `yaml:"duration"`
	}

	// PayrollConfig tunes the ledger computation
	PayrollConfig struct {
		// AdvanceScope is "lifetime" (sum every advance) or "month" (only
		// advances dated in the ledger month)
		AdvanceScope string `yaml:"advance_scope"`
		// TimeZone decides where a calendar month starts, default Local
		TimeZone string `yaml:"time_zone"`
	}

	AttendanceConfig struct {
		AllowFutureDates bool `yaml:"allow_future_dates"`
	}

	RegistrationConfig struct {
		// AllowAdminSignup keeps POST /api/register-admin open after the
		// first admin exists
		AllowAdminSignup bool `yaml:"allow_admin_signup"`
	}

	// SuperAdminConfig is seeded as an Admin employee when no admin exists
	SuperAdminConfig struct {
		EmployeeID string `yaml:"employee_id"`
		Name       string `yaml:"name"`
		Password   string `yaml:"password"`
	}

	// I18nConfig represents the internationalization configuration
	I18nConfig struct {
		DefaultLang string `yaml:"default_lang"`
	}
)

func (c *APIServerConfig) setDefaults() {
	if c.Port == 0 {
		c.Port = 5000
	}
	if c.Database.Type == "" {
		c.Database.Type = "sqlite"
	}
	if c.Database.Type == "sqlite" && c.Database.DBName == "" {
		c.Database.DBName = "./data/backoffice.db"
	}
	if c.JWT.Duration <= 0 {
		c.JWT.Duration = 24 * time.Hour
	}
	if c.Notifier.Type == "" {
		c.Notifier.Type = "memory"
	}
	if c.Payroll.AdvanceScope == "" {
		c.Payroll.AdvanceScope = AdvanceScopeLifetime
	}
	if len(c.CORS.AllowMethods) == 0 {
		c.CORS.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(c.CORS.AllowHeaders) == 0 {
		c.CORS.AllowHeaders = []string{"Authorization", "Content-Type", "X-Lang"}
	}
	if c.I18n.DefaultLang == "" {
		c.I18n.DefaultLang = "en"
	}
	c.Metrics.setDefaults()
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "backoffice-apiserver"
	}
}

// Validate reports configuration that would make the server unusable
func (c *APIServerConfig) Validate() error {
	switch c.Payroll.AdvanceScope {
	case AdvanceScopeLifetime, AdvanceScopeMonth:
	default:
		return fmt.Errorf("payroll.advance_scope must be %q or %q, got %q",
			AdvanceScopeLifetime, AdvanceScopeMonth, c.Payroll.AdvanceScope)
	}
	if _, err := c.Payroll.Location(); err != nil {
		return err
	}
	switch c.Database.Type {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database type: %s", c.Database.Type)
	}
	return nil
}

// Location resolves the payroll time zone
func (c *PayrollConfig) Location() (*time.Location, error) {
	if c.TimeZone == "" || c.TimeZone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid payroll.time_zone %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// GetDSN returns the database connection string
func (c *DatabaseConfig) GetDSN() string {
	switch c.Type {
	case "postgres":
		return c.getPostgresDSN()
	case "mysql":
		return c.getMySQLDSN()
	case "sqlite":
		return c.DBName // For SQLite, DBName is the file path
	default:
		return ""
	}
}

// getPostgresDSN returns PostgreSQL connection string
func (c *DatabaseConfig) getPostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode)
}

// getMySQLDSN returns MySQL connection string
func (c *DatabaseConfig) getMySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.DBName)
}
