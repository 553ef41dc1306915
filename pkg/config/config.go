package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	HTTP    HTTPConfig
	DB      DBConfig
	Storage StorageConfig
	Ledger  LedgerConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// HTTPConfig configuración del servidor HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// Addr devuelve la dirección de escucha (host:port).
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DBConfig configuración de PostgreSQL.
// Si DatabaseURL no está vacío, se usa como connection string completo.
type DBConfig struct {
	DatabaseURL string
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	MaxConns    int
}

// ConnectionString devuelve el DSN a usar: DATABASE_URL si está definido, si no el construido con DSN().
func (c DBConfig) ConnectionString() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return c.DSN()
}

// DSN devuelve el connection string para PostgreSQL con URL encoding para caracteres especiales.
func (c DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     fmt.Sprintf("%s:%d", c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: fmt.Sprintf("sslmode=%s", c.SSLMode),
	}
	return u.String()
}

// Drivers de persistencia.
const (
	StorageMemory   = "memory"
	StorageFile     = "file"
	StoragePostgres = "postgres"
)

// StorageConfig dónde y cómo se guarda el snapshot.
type StorageConfig struct {
	Driver                 string
	Dir                    string // solo driver file
	SaveTimeoutSeconds     int
	CompressThresholdBytes int // solo driver postgres
}

// LedgerConfig categorías y comportamiento del libro de stock.
type LedgerConfig struct {
	Categories         []string
	Margins            map[string]decimal.Decimal
	EditMode           string // recreate | preserve
	AuditMarginChanges bool
}

// Categorías y márgenes de la tienda original.
const (
	defaultCategories = "Seda,Filtros,Tabacos"
	defaultMargins    = "Seda:2.85,Filtros:1.5,Tabacos:2.0"
)

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, STORAGE_DRIVER, LEDGER_MARGINS, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "stock-control"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		DB: DBConfig{
			DatabaseURL: getString(v, "DATABASE_URL", ""),
			Host:        getString(v, "DB_HOST", "localhost"),
			Port:        getInt(v, "DB_PORT", 5432),
			User:        getString(v, "DB_USER", "postgres"),
			Password:    getString(v, "DB_PASSWORD", ""),
			DBName:      getString(v, "DB_NAME", "stock_control"),
			SSLMode:     getString(v, "DB_SSLMODE", "disable"),
			MaxConns:    getInt(v, "DB_MAX_CONNS", 5),
		},
		Storage: StorageConfig{
			Driver:                 strings.ToLower(getString(v, "STORAGE_DRIVER", StorageFile)),
			Dir:                    getString(v, "STORAGE_DIR", "./data"),
			SaveTimeoutSeconds:     getInt(v, "STORAGE_SAVE_TIMEOUT_SECONDS", 5),
			CompressThresholdBytes: getInt(v, "STORAGE_COMPRESS_THRESHOLD_BYTES", 8*1024),
		},
		Ledger: LedgerConfig{
			EditMode:           strings.ToLower(getString(v, "LEDGER_EDIT_MODE", "recreate")),
			AuditMarginChanges: getBool(v, "LEDGER_AUDIT_MARGIN_CHANGES", false),
		},
	}

	switch cfg.Storage.Driver {
	case StorageMemory, StorageFile, StoragePostgres:
	default:
		return nil, fmt.Errorf("STORAGE_DRIVER inválido %q (memory, file o postgres)", cfg.Storage.Driver)
	}
	if cfg.Storage.SaveTimeoutSeconds <= 0 {
		return nil, fmt.Errorf("STORAGE_SAVE_TIMEOUT_SECONDS debe ser positivo")
	}

	cfg.Ledger.Categories = ParseList(getString(v, "LEDGER_CATEGORIES", defaultCategories))
	margins, err := ParseMargins(getString(v, "LEDGER_MARGINS", defaultMargins))
	if err != nil {
		return nil, fmt.Errorf("LEDGER_MARGINS: %w", err)
	}
	cfg.Ledger.Margins = margins

	return cfg, nil
}

// ParseList separa por comas y descarta elementos vacíos.
func ParseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseMargins interpreta "Seda:2.85,Filtros:1.5" como multiplicadores por categoría.
func ParseMargins(s string) (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal)
	for _, pair := range ParseList(s) {
		name, value, ok := strings.Cut(pair, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("par inválido %q (esperado categoría:multiplicador)", pair)
		}
		m, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("multiplicador inválido para %s: %w", name, err)
		}
		out[name] = m
	}
	return out, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}

func getBool(v *viper.Viper, key string, def bool) bool {
	if v.IsSet(key) {
		b, err := strconv.ParseBool(strings.TrimSpace(v.GetString(key)))
		if err != nil {
			return def
		}
		return b
	}
	return def
}
